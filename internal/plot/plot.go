// Package plot renders EcoBot's economics charts as PNG files: linear
// demand and supply curves, the two together with their equilibrium,
// textbook cost curves and a generic value series.
package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default linear curve parameters, Q(P) = a + b*P.
const (
	DefaultDemandIntercept = 100.0
	DefaultDemandSlope     = -1.0
	DefaultSupplyIntercept = 10.0
	DefaultSupplySlope     = 1.0
)

// Default cost function CT(Q) = fixed + linear*Q + quadratic*Q^2.
const (
	defaultFixedCost     = 50.0
	defaultLinearCost    = 5.0
	defaultQuadraticCost = 1.0
	defaultMaxQuantity   = 100
)

const curveSamples = 300

// Renderer writes charts into a single output directory. The directory
// is created lazily on the first render.
type Renderer struct {
	outDir string
}

// NewRenderer builds a renderer that saves PNGs under outDir.
func NewRenderer(outDir string) *Renderer {
	return &Renderer{outDir: outDir}
}

// outputPath builds a unique file path like out/demanda-20251209-193000.png.
func (r *Renderer) outputPath(baseName string) (string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", r.outDir, err)
	}
	fileName := fmt.Sprintf("%s-%s.png", baseName, time.Now().Format("20060102-150405"))
	abs, err := filepath.Abs(filepath.Join(r.outDir, fileName))
	if err != nil {
		return filepath.Join(r.outDir, fileName), nil
	}
	return abs, nil
}

// priceRange picks a [0, Pmax] axis range from candidate prices,
// ignoring non-positive and NaN values.
func priceRange(candidates ...float64) (float64, float64) {
	maxPrice := 0.0
	for _, p := range candidates {
		if math.IsNaN(p) || p <= 0 {
			continue
		}
		if p > maxPrice {
			maxPrice = p
		}
	}
	if maxPrice == 0 {
		return 0, 100
	}
	maxPrice *= 1.1
	if maxPrice < 10 {
		maxPrice = 10
	}
	return 0, maxPrice
}

// curvePoints samples Q(P) = a + b*P over [priceMin, priceMax] and
// returns (Q, P) pairs, quantity on X and price on Y as in the
// textbook presentation.
func curvePoints(a, b, priceMin, priceMax float64) plotter.XYs {
	pts := make(plotter.XYs, curveSamples+1)
	for i := 0; i <= curveSamples; i++ {
		price := priceMin + (priceMax-priceMin)*float64(i)/curveSamples
		pts[i].X = a + b*price
		pts[i].Y = price
	}
	return pts
}

func newPricePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Cantidad (Q)"
	p.Y.Label.Text = "Precio (P)"
	p.Add(plotter.NewGrid())
	return p
}

func (r *Renderer) save(p *plot.Plot, baseName string) (string, error) {
	path, err := r.outputPath(baseName)
	if err != nil {
		return "", err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}
	return path, nil
}

// DemandCurve renders a linear demand curve Qd(P) = aD + bD*P. The
// slope must be negative.
func (r *Renderer) DemandCurve(aD, bD float64) (string, error) {
	if bD >= 0 {
		return "", fmt.Errorf("para DEMANDA usá pendiente negativa: b_d < 0")
	}

	_, priceMax := priceRange(-aD/bD, aD)
	p := newPricePlot("Curva de Demanda")
	if err := plotutil.AddLines(p, "Demanda (Qd)", curvePoints(aD, bD, 0, priceMax)); err != nil {
		return "", fmt.Errorf("failed to draw demand curve: %w", err)
	}
	return r.save(p, "demanda")
}

// SupplyCurve renders a linear supply curve Qs(P) = aS + bS*P. The
// slope must be positive.
func (r *Renderer) SupplyCurve(aS, bS float64) (string, error) {
	if bS <= 0 {
		return "", fmt.Errorf("para OFERTA usá pendiente positiva: b_s > 0")
	}

	_, priceMax := priceRange(-aS/bS, aS)
	p := newPricePlot("Curva de Oferta")
	if err := plotutil.AddLines(p, "Oferta (Qs)", curvePoints(aS, bS, 0, priceMax)); err != nil {
		return "", fmt.Errorf("failed to draw supply curve: %w", err)
	}
	return r.save(p, "oferta")
}

// SupplyDemand renders both curves on one chart and marks the
// equilibrium point when it falls inside the drawn range.
func (r *Renderer) SupplyDemand(aD, bD, aS, bS float64) (string, error) {
	if bD >= 0 {
		return "", fmt.Errorf("b_d debe ser < 0 para DEMANDA")
	}
	if bS <= 0 {
		return "", fmt.Errorf("b_s debe ser > 0 para OFERTA")
	}

	priceEq := (aD - aS) / (bS - bD)
	quantityEq := aD + bD*priceEq

	_, priceMax := priceRange(-aD/bD, -aS/bS, priceEq, aD, aS)

	p := newPricePlot("Oferta y Demanda")
	err := plotutil.AddLines(p,
		"Demanda (Qd)", curvePoints(aD, bD, 0, priceMax),
		"Oferta (Qs)", curvePoints(aS, bS, 0, priceMax),
	)
	if err != nil {
		return "", fmt.Errorf("failed to draw curves: %w", err)
	}

	if priceEq >= 0 && priceEq <= priceMax {
		scatter, err := plotter.NewScatter(plotter.XYs{{X: quantityEq, Y: priceEq}})
		if err == nil {
			p.Add(scatter)
			p.Legend.Add(fmt.Sprintf("Equilibrio (Q*=%.1f, P*=%.1f)", quantityEq, priceEq), scatter)
		}
	}

	return r.save(p, "oferta_demanda")
}

// CostCurves renders marginal and average cost for the default cost
// function CT(Q) = 50 + 5Q + Q^2.
func (r *Renderer) CostCurves() (string, error) {
	marginal := make(plotter.XYs, defaultMaxQuantity)
	average := make(plotter.XYs, defaultMaxQuantity)
	for i := 0; i < defaultMaxQuantity; i++ {
		q := float64(i + 1)
		total := defaultFixedCost + defaultLinearCost*q + defaultQuadraticCost*q*q
		marginal[i] = plotter.XY{X: q, Y: defaultLinearCost + 2*defaultQuadraticCost*q}
		average[i] = plotter.XY{X: q, Y: total / q}
	}

	p := plot.New()
	p.Title.Text = "Curvas de costo: CMg y CMe"
	p.X.Label.Text = "Cantidad (Q)"
	p.Y.Label.Text = "Costo"
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLines(p, "CMg", marginal, "CMe", average); err != nil {
		return "", fmt.Errorf("failed to draw cost curves: %w", err)
	}
	return r.save(p, "costos")
}

// Series renders a simple line chart of the given values in order.
// At least two points are required.
func (r *Renderer) Series(values []float64, title, xLabel, yLabel string) (string, error) {
	if len(values) < 2 {
		return "", fmt.Errorf("necesito al menos 2 puntos para graficar la serie")
	}

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(p, pts); err != nil {
		return "", fmt.Errorf("failed to draw series: %w", err)
	}
	return r.save(p, "serie")
}
