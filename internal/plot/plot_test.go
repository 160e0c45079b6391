package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(data[:8]))
}

func TestDemandCurve(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.DemandCurve(DefaultDemandIntercept, DefaultDemandSlope)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "demanda-"))
	assertPNG(t, path)
}

func TestDemandCurveRejectsPositiveSlope(t *testing.T) {
	r := NewRenderer(t.TempDir())

	_, err := r.DemandCurve(100, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pendiente negativa")
}

func TestSupplyCurve(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.SupplyCurve(DefaultSupplyIntercept, DefaultSupplySlope)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "oferta-"))
	assertPNG(t, path)
}

func TestSupplyCurveRejectsNegativeSlope(t *testing.T) {
	r := NewRenderer(t.TempDir())

	_, err := r.SupplyCurve(10, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pendiente positiva")
}

func TestSupplyDemand(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.SupplyDemand(100, -1, 10, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "oferta_demanda-"))
	assertPNG(t, path)
}

func TestCostCurves(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.CostCurves()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "costos-"))
	assertPNG(t, path)
}

func TestSeries(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.Series([]float64{10, 12, 11, 15}, "Serie", "Índice", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "serie-"))
	assertPNG(t, path)
}

func TestSeriesNeedsTwoPoints(t *testing.T) {
	r := NewRenderer(t.TempDir())

	_, err := r.Series([]float64{10}, "Serie", "Índice", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "al menos 2 puntos")
}

func TestRendererCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := NewRenderer(dir)

	_, err := r.CostCurves()
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
