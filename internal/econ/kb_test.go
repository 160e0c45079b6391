package econ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerFromKBIgnoresAccents(t *testing.T) {
	withAccent := answerFromKB("¿Qué es la inflación?")
	require.NotNil(t, withAccent)
	assert.Contains(t, withAccent.Definition, "nivel de precios")

	withoutAccent := answerFromKB("que es la inflacion")
	require.NotNil(t, withoutAccent)
	assert.Equal(t, withAccent.Definition, withoutAccent.Definition)
}

func TestAnswerFromKBIsCaseInsensitive(t *testing.T) {
	entry := answerFromKB("EXPLICAME EL MONOPOLIO")
	require.NotNil(t, entry)
	assert.Contains(t, entry.Definition, "único vendedor")
}

func TestShortKeywordsMatchOnlyWholeTokens(t *testing.T) {
	entry := answerFromKB("como calculo la tir")
	require.NotNil(t, entry)
	assert.Contains(t, entry.Definition, "VPN sea cero")

	// "tir" inside "repartir" must not fire.
	assert.Nil(t, answerFromKB("como repartir la torta"))
}

func TestLongKeywordsMatchAsSubstring(t *testing.T) {
	entry := answerFromKB("necesito entender la elasticidad ingreso de los bienes")
	require.NotNil(t, entry)
	assert.Contains(t, entry.Formula, "%ΔY")
}

func TestFirstMatchingEntryWins(t *testing.T) {
	// "elasticidad precio de la demanda" also contains "demanda", which
	// appears earlier in the base.
	entry := answerFromKB("elasticidad precio de la demanda")
	require.NotNil(t, entry)
	assert.Contains(t, entry.Definition, "dispuestos a comprar")
}

func TestAnswerFromKBNoMatch(t *testing.T) {
	assert.Nil(t, answerFromKB("contame un chiste de programadores"))
	assert.Nil(t, answerFromKB(""))
	assert.Nil(t, answerFromKB("   "))
}

func TestFormatEntryFull(t *testing.T) {
	entry := answerFromKB("costo marginal")
	require.NotNil(t, entry)

	out := formatEntry(entry)
	assert.Contains(t, out, "• Definición: Incremento del costo total")
	assert.Contains(t, out, "• Intuición: Es el costo de la 'siguiente' unidad.")
	assert.Contains(t, out, "• Fórmula: CMg(Q) = dCT/dQ")
	assert.Contains(t, out, "• Mini-check: Si CMg < CMe")
}

func TestFormatEntryDefaultMiniCheck(t *testing.T) {
	entry := answerFromKB("que es el oligopolio")
	require.NotNil(t, entry)
	require.Empty(t, entry.MiniCheck)

	out := formatEntry(entry)
	assert.Contains(t, out, "• Mini-check: ¿Querés que lo bajemos a un numerito rápido?")
	assert.NotContains(t, out, "• Intuición:")
	assert.NotContains(t, out, "• Fórmula:")
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "inflacion", normalizeText("  Inflación "))
	assert.Equal(t, "politica monetaria", normalizeText("Política Monetaria"))
	assert.Equal(t, "", normalizeText("   "))
}
