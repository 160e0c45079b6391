// Package econ answers economics questions. It routes each message to
// one of three engines: chart generation, the built-in knowledge base,
// or the LLM teacher, in that order.
package econ

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vaninafuentes/EcoBot/internal/chatserver"
	"github.com/vaninafuentes/EcoBot/internal/config"
	"github.com/vaninafuentes/EcoBot/internal/llm"
	"github.com/vaninafuentes/EcoBot/internal/logger"
	"github.com/vaninafuentes/EcoBot/internal/plot"
)

// Charter renders charts to PNG files and returns their paths.
type Charter interface {
	DemandCurve(aD, bD float64) (string, error)
	SupplyCurve(aS, bS float64) (string, error)
	SupplyDemand(aD, bD, aS, bS float64) (string, error)
	CostCurves() (string, error)
	Series(values []float64, title, xLabel, yLabel string) (string, error)
}

// chartUsage is returned when the user asked for a chart without
// saying which one.
const chartUsage = "Usos de `grafico`:\n" +
	"• `grafico demanda [a_d b_d]`\n" +
	"• `grafico oferta  [a_s b_s]`\n" +
	"• `grafico oferta demanda [a_d b_d a_s b_s]`\n" +
	"• `grafico costos`\n" +
	"• `grafico serie 10,12,11,15`"

// Keyword variants tolerated per chart type, typos included.
var (
	demandWords = []string{"demanda", "demna", "dema", "demada"}
	supplyWords = []string{"oferta", "ofrta", "ofe"}
	costWords   = []string{"costo", "costos", "coste", "costes"}
)

// kbFallbackKeywords retries the knowledge base with a single keyword
// when the full question did not match.
var kbFallbackKeywords = []string{
	"demanda", "oferta", "elasticidad", "pbi", "pib",
	"inflacion", "is-lm", "tir", "vpn", "costos", "costo",
}

var tokenSplitter = regexp.MustCompile(`[\s,;]+`)

// Router implements chatserver.Replier. A nil model is allowed; the
// LLM stage then degrades to the canned fallback.
type Router struct {
	charts        Charter
	model         llm.Client
	historyWindow int
	temperature   float64
	maxTokens     int
}

// NewRouter wires the reply engine from the resolved configuration.
func NewRouter(charts Charter, model llm.Client, cfg *config.Config) *Router {
	window := cfg.HistoryWindow
	if window <= 0 {
		window = config.DefaultHistoryWindow
	}
	return &Router{
		charts:        charts,
		model:         model,
		historyWindow: window,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
	}
}

// Reply routes one question. It never fails the session: every engine
// error is degraded to an in-band text answer.
func (r *Router) Reply(ctx context.Context, history []chatserver.Entry, message string) (string, error) {
	question := strings.TrimSpace(message)
	normalized := strings.ToLower(question)

	if strings.Contains(normalized, "grafico") || strings.Contains(normalized, "gráfico") {
		return r.replyChart(normalized), nil
	}

	if entry := r.lookupKB(question, normalized); entry != nil {
		return formatEntry(entry), nil
	}

	return r.replyLLM(ctx, history, question), nil
}

func containsAny(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

// extractFloats pulls every number out of the text. Values may be
// separated by spaces, commas or semicolons.
func extractFloats(text string) []float64 {
	var values []float64
	for _, token := range tokenSplitter.Split(strings.TrimSpace(text), -1) {
		if token == "" {
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// replyChart dispatches the chart request. Chart errors come back as a
// warning message, never as a failure.
func (r *Router) replyChart(normalized string) string {
	wantsDemand := containsAny(normalized, demandWords)
	wantsSupply := containsAny(normalized, supplyWords)
	wantsCosts := containsAny(normalized, costWords)
	wantsSeries := strings.Contains(normalized, "serie")

	values := extractFloats(normalized)

	var (
		path    string
		err     error
		explain string
	)

	switch {
	case wantsSeries:
		// Prefer the numbers written after "serie" itself.
		_, after, _ := strings.Cut(normalized, "serie")
		seriesValues := extractFloats(after)
		if len(seriesValues) < 2 {
			seriesValues = values
		}
		if len(seriesValues) < 2 {
			return "Decime valores así: `grafico serie 10,12,11,15`"
		}
		path, err = r.charts.Series(seriesValues, "Serie", "Índice", "")
		explain = "✅ Gráfico de SERIE guardado en:\n%s\n\n" +
			"📘 Explicación: El gráfico de serie muestra la evolución de tus valores en orden. " +
			"Sirve para ver subas, bajas y tendencias simples."

	case wantsCosts:
		path, err = r.charts.CostCurves()
		explain = "✅ Gráfico de COSTOS guardado en:\n%s\n\n" +
			"📘 Explicación: Se muestran curvas típicas (Costo Medio y Costo Marginal). " +
			"En muchos casos el CMg corta al CMe en su punto mínimo."

	case wantsDemand && wantsSupply:
		if len(values) >= 4 {
			path, err = r.charts.SupplyDemand(values[0], values[1], values[2], values[3])
		} else {
			path, err = r.charts.SupplyDemand(
				plot.DefaultDemandIntercept, plot.DefaultDemandSlope,
				plot.DefaultSupplyIntercept, plot.DefaultSupplySlope,
			)
		}
		explain = "✅ Gráfico de OFERTA Y DEMANDA guardado en:\n%s\n\n" +
			"📘 Explicación: El punto donde se cruzan oferta y demanda es el equilibrio de mercado. " +
			"Allí, la cantidad demandada coincide con la ofrecida al precio de equilibrio."

	case wantsDemand:
		if len(values) >= 2 {
			path, err = r.charts.DemandCurve(values[0], values[1])
		} else {
			path, err = r.charts.DemandCurve(plot.DefaultDemandIntercept, plot.DefaultDemandSlope)
		}
		explain = "✅ Gráfico de DEMANDA guardado en:\n%s\n\n" +
			"📘 Explicación: La curva de demanda tiene pendiente negativa: " +
			"cuando el precio sube, la cantidad demandada baja (y viceversa)."

	case wantsSupply:
		if len(values) >= 2 {
			path, err = r.charts.SupplyCurve(values[0], values[1])
		} else {
			path, err = r.charts.SupplyCurve(plot.DefaultSupplyIntercept, plot.DefaultSupplySlope)
		}
		explain = "✅ Gráfico de OFERTA guardado en:\n%s\n\n" +
			"📘 Explicación: La curva de oferta es creciente: " +
			"a precios más altos, los productores están dispuestos a ofrecer más cantidad."

	default:
		return chartUsage
	}

	if err != nil {
		return fmt.Sprintf("⚠️ No pude generar el gráfico: %v", err)
	}
	return fmt.Sprintf(explain, path)
}

// lookupKB tries the raw question, the lowercased question and then a
// short keyword scan.
func (r *Router) lookupKB(question, normalized string) *Entry {
	if entry := answerFromKB(question); entry != nil {
		return entry
	}
	if entry := answerFromKB(normalized); entry != nil {
		return entry
	}
	for _, keyword := range kbFallbackKeywords {
		if strings.Contains(normalized, keyword) {
			if entry := answerFromKB(keyword); entry != nil {
				return entry
			}
		}
	}
	return nil
}

// buildMessages assembles the teaching prompt, the few-shot examples,
// the recent history window and the current question.
func (r *Router) buildMessages(history []chatserver.Entry, question string) []llm.Message {
	messages := make([]llm.Message, 0, 1+len(fewShots)+r.historyWindow+1)
	messages = append(messages, llm.Message{Role: "system", Content: eduPrompt})
	messages = append(messages, fewShots...)

	if len(history) > r.historyWindow {
		history = history[len(history)-r.historyWindow:]
	}
	for _, entry := range history {
		messages = append(messages, llm.Message{Role: entry.Role, Content: entry.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

func (r *Router) replyLLM(ctx context.Context, history []chatserver.Entry, question string) string {
	if r.model == nil {
		return cannedFallback(fmt.Errorf("no hay proveedor LLM configurado"))
	}

	resp, err := r.model.Complete(ctx, &llm.Request{
		Messages:    r.buildMessages(history, question),
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		logger.Warn("LLM request failed: %v", err)
		return cannedFallback(err)
	}
	return resp.Content
}

// cannedFallback is the safety net answer when the model is
// unreachable. The session keeps going.
func cannedFallback(cause error) string {
	return "⚠️ No pude consultar al modelo ahora.\n" +
		"• Definición: La demanda es la cantidad que los consumidores desean comprar a cada precio; " +
		"la oferta, la cantidad que los productores desean vender.\n" +
		"• Mini-check: ¿Querés que lo bajemos a un numerito rápido?\n" +
		fmt.Sprintf("(Detalle técnico: %v)", cause)
}
