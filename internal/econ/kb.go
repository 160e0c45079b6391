package econ

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry is one concept of the built-in knowledge base. Definition is
// always present; the other fields are optional.
type Entry struct {
	Keywords   []string
	Definition string
	Intuition  string
	MiniCheck  string
	Formula    string
}

// normalizeText lowercases, trims and strips accents for matching, so
// "inflación" and "inflacion" compare equal. The transformer chain is
// built per call; its buffers are not safe for concurrent use.
func normalizeText(text string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripAccents, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// matchesAnyKeyword reports whether the query hits one of the entry's
// keywords. Keywords of three characters or fewer only match as a whole
// token, so "tir" does not fire inside "repartir"; longer keywords
// match as substrings.
func matchesAnyKeyword(keywords []string, query string) bool {
	normalizedQuery := normalizeText(query)
	if normalizedQuery == "" {
		return false
	}
	queryTokens := strings.Fields(normalizedQuery)

	for _, keyword := range keywords {
		normalizedKeyword := normalizeText(keyword)
		if normalizedKeyword == "" {
			continue
		}
		if len(normalizedKeyword) <= 3 {
			for _, token := range queryTokens {
				if token == normalizedKeyword {
					return true
				}
			}
			continue
		}
		if strings.Contains(normalizedQuery, normalizedKeyword) {
			return true
		}
	}
	return false
}

// answerFromKB returns the first entry whose keywords match the
// question, or nil.
func answerFromKB(question string) *Entry {
	if strings.TrimSpace(question) == "" {
		return nil
	}
	for i := range knowledgeBase {
		if matchesAnyKeyword(knowledgeBase[i].Keywords, question) {
			return &knowledgeBase[i]
		}
	}
	return nil
}

// formatEntry renders an entry as the bot's bullet answer. Entries
// without their own mini-check get the standard prompt to keep the
// didactic closing line.
func formatEntry(entry *Entry) string {
	var parts []string
	parts = append(parts, "• Definición: "+entry.Definition)
	if entry.Intuition != "" {
		parts = append(parts, "• Intuición: "+entry.Intuition)
	}
	if entry.Formula != "" {
		parts = append(parts, "• Fórmula: "+entry.Formula)
	}
	miniCheck := entry.MiniCheck
	if miniCheck == "" {
		miniCheck = "¿Querés que lo bajemos a un numerito rápido?"
	}
	parts = append(parts, "• Mini-check: "+miniCheck)
	return strings.Join(parts, "\n")
}

// knowledgeBase covers micro, macro and basic finance. Keyword order
// matters: the first matching entry wins.
var knowledgeBase = []Entry{
	// Microeconomía
	{
		Keywords:   []string{"demanda", "curva de demanda"},
		Definition: "La demanda es la cantidad de un bien o servicio que los consumidores están dispuestos a comprar a cada precio.",
		Intuition:  "A mayor precio, menor cantidad demandada (relación inversa).",
		MiniCheck:  "Si el precio aumenta, ¿qué pasa con la cantidad demandada ceteris paribus?",
	},
	{
		Keywords:   []string{"oferta", "curva de oferta"},
		Definition: "La oferta es la cantidad de un bien o servicio que los productores están dispuestos a vender a cada precio.",
		Intuition:  "A mayor precio, mayor cantidad ofrecida (relación directa).",
		MiniCheck:  "Si el precio esperado sube, ¿cómo se desplaza la oferta actual?",
	},
	{
		Keywords:   []string{"equilibrio de mercado", "equilibrio", "precio de equilibrio", "cantidad de equilibrio"},
		Definition: "Es el punto donde la cantidad demandada es igual a la cantidad ofrecida; determina el precio y la cantidad de equilibrio.",
		Intuition:  "En equilibrio, no hay presiones para cambiar el precio si no cambian las condiciones.",
		MiniCheck:  "Si la demanda aumenta, ¿qué pasa con el precio y la cantidad de equilibrio?",
	},
	{
		Keywords:   []string{"excedente del consumidor"},
		Definition: "Es la diferencia entre lo que el consumidor está dispuesto a pagar y lo que efectivamente paga por una unidad.",
		Intuition:  "Mide el 'beneficio' por pagar menos que la máxima disposición a pagar.",
	},
	{
		Keywords:   []string{"excedente del productor"},
		Definition: "Es la diferencia entre el precio que recibe el productor y su costo marginal de producir una unidad.",
		Intuition:  "Mide el 'beneficio' de vender por encima del costo marginal.",
	},
	{
		Keywords:   []string{"elasticidad precio de la demanda", "elasticidad de la demanda", "elasticidad precio"},
		Definition: "Mide la variación porcentual de la cantidad demandada ante un cambio porcentual en el precio.",
		Intuition:  "Indica cuán sensible es el consumidor a cambios de precio.",
		MiniCheck:  "Si el precio sube 10% y la cantidad baja 25%, ¿la demanda es elástica o inelástica?",
		Formula:    "Epd = (%ΔQd) / (%ΔP)",
	},
	{
		Keywords:   []string{"elasticidad ingreso", "elasticidad renta"},
		Definition: "Mide la variación porcentual de la cantidad demandada ante un cambio porcentual en el ingreso.",
		Intuition:  "Sirve para clasificar bienes en normales (Ei>0) e inferiores (Ei<0).",
		Formula:    "Ei = (%ΔQ) / (%ΔY)",
	},
	{
		Keywords:   []string{"elasticidad cruzada", "elasticidad precio cruzada"},
		Definition: "Mide la variación porcentual de la cantidad demandada de un bien ante un cambio porcentual en el precio de otro bien.",
		Intuition:  "Si Ec>0 son sustitutos; si Ec<0 son complementarios.",
		Formula:    "Ec = (%ΔQx) / (%ΔPy)",
	},
	{
		Keywords:   []string{"impuesto especifico", "impuesto específico", "impuesto por unidad"},
		Definition: "Un impuesto específico cobra una cantidad fija por unidad vendida, desplazando la oferta hacia arriba por el monto del impuesto.",
		Intuition:  "Genera pérdida irrecuperable de eficiencia (deadweight loss) cuando distorsiona el equilibrio.",
	},
	{
		Keywords:   []string{"precio maximo", "precio máximo", "techo de precios"},
		Definition: "Un precio máximo es una regulación que impide que el precio supere cierto nivel, usualmente por debajo del equilibrio.",
		Intuition:  "Suele generar escasez (exceso de demanda).",
	},
	{
		Keywords:   []string{"precio minimo", "precio mínimo", "piso de precios"},
		Definition: "Un precio mínimo impide que el precio baje de cierto nivel, usualmente por encima del equilibrio.",
		Intuition:  "Suele generar excedente (exceso de oferta).",
	},
	{
		Keywords:   []string{"costo fijo", "costos fijos"},
		Definition: "Costo que no cambia con el nivel de producción en el corto plazo.",
	},
	{
		Keywords:   []string{"costo variable", "costos variables"},
		Definition: "Costo que varía con el nivel de producción.",
	},
	{
		Keywords:   []string{"costo total"},
		Definition: "Suma de costos fijos y variables para cada nivel de producción.",
		Formula:    "CT(Q) = CF + CV(Q)",
	},
	{
		Keywords:   []string{"costo medio", "costo promedio", "cme"},
		Definition: "Costo total dividido por la cantidad producida.",
		Formula:    "CMe(Q) = CT(Q) / Q",
	},
	{
		Keywords:   []string{"costo marginal", "cmg", "mc"},
		Definition: "Incremento del costo total al producir una unidad adicional.",
		Intuition:  "Es el costo de la 'siguiente' unidad.",
		MiniCheck:  "Si CMg < CMe, ¿el CMe sube o baja al producir una unidad más?",
		Formula:    "CMg(Q) = dCT/dQ",
	},
	{
		Keywords:   []string{"producto marginal", "pmg"},
		Definition: "Incremento del producto total al emplear una unidad adicional de insumo, manteniendo los demás constantes.",
	},
	{
		Keywords:   []string{"producto medio", "pme"},
		Definition: "Producto total dividido por la cantidad del insumo.",
	},
	{
		Keywords:   []string{"competencia perfecta"},
		Definition: "Estructura con muchos compradores y vendedores, bienes homogéneos y libre entrada/salida; las empresas son tomadoras de precios.",
	},
	{
		Keywords:   []string{"monopolio"},
		Definition: "Un único vendedor controla el mercado; enfrenta toda la curva de demanda y fija precio maximizando beneficios.",
		Intuition:  "Produce menos y vende a precio más alto que en competencia perfecta.",
	},
	{
		Keywords:   []string{"oligopolio"},
		Definition: "Pocos vendedores con interdependencia estratégica; las decisiones de una firma afectan a las demás.",
	},
	{
		Keywords:   []string{"competencia monopolistica", "competencia monopolística"},
		Definition: "Muchas empresas venden productos diferenciados; poder de mercado limitado y libre entrada a largo plazo.",
	},
	{
		Keywords:   []string{"curva de indiferencia", "preferencias"},
		Definition: "Conjunto de combinaciones de bienes que proporcionan el mismo nivel de utilidad al consumidor.",
		Intuition:  "Son decrecientes y no se cruzan si las preferencias son bien comportadas.",
	},
	{
		Keywords:   []string{"restriccion presupuestaria", "restricción presupuestaria", "budget line"},
		Definition: "Conjunto de combinaciones de bienes que el consumidor puede comprar dado su ingreso y precios.",
		Formula:    "Px·X + Py·Y = I",
	},

	// Macroeconomía
	{
		Keywords:   []string{"pib", "pbi", "producto interno bruto"},
		Definition: "Valor de mercado de todos los bienes y servicios finales producidos en un país durante un período.",
	},
	{
		Keywords:   []string{"pib real", "pbi real"},
		Definition: "PIB ajustado por precios constantes; elimina el efecto de la inflación.",
	},
	{
		Keywords:   []string{"pib nominal", "pbi nominal"},
		Definition: "PIB medido a precios corrientes del período.",
	},
	{
		Keywords:   []string{"deflactor del pib", "deflactor del pbi"},
		Definition: "Índice de precios que relaciona PIB nominal y PIB real.",
		Formula:    "Deflactor = (PIB Nominal / PIB Real) × 100",
	},
	{
		Keywords:   []string{"pib per capita", "pib per cápita", "pbi per capita", "pbi per cápita"},
		Definition: "PIB dividido por la población del país.",
		Intuition:  "Aproxima el ingreso promedio por persona.",
	},
	{
		Keywords:   []string{"inflacion", "inflación", "ipc", "indice de precios"},
		Definition: "Aumento sostenido y generalizado del nivel de precios en una economía.",
		Intuition:  "Reduce el poder adquisitivo del dinero.",
	},
	{
		Keywords:   []string{"desempleo", "tasa de desempleo"},
		Definition: "Proporción de la fuerza laboral que busca empleo y no lo consigue.",
		Intuition:  "Puede ser friccional, estructural o cíclico.",
	},
	{
		Keywords:   []string{"oferta agregada"},
		Definition: "Relación entre el nivel de precios y la cantidad total ofrecida de bienes y servicios.",
	},
	{
		Keywords:   []string{"demanda agregada"},
		Definition: "Relación entre el nivel de precios y la cantidad total demandada de bienes y servicios.",
	},
	{
		Keywords:   []string{"politica fiscal", "política fiscal"},
		Definition: "Uso del gasto público y los impuestos para influir en la economía.",
		Intuition:  "Expansiva: más gasto o menos impuestos; contractiva: lo contrario.",
	},
	{
		Keywords:   []string{"politica monetaria", "política monetaria", "tasa de interes", "tasa de interés"},
		Definition: "Acciones del banco central para influir en la oferta monetaria y las tasas de interés.",
		Intuition:  "Bajar tasas suele estimular consumo e inversión; subirlas enfría la economía.",
	},
	{
		Keywords:   []string{"balanza de pagos", "cuenta corriente", "cuenta capital"},
		Definition: "Registro contable de todas las transacciones económicas de un país con el exterior.",
	},
	{
		Keywords:   []string{"tipo de cambio", "tipo de cambio nominal"},
		Definition: "Precio de una moneda en términos de otra.",
		Intuition:  "Si sube el tipo de cambio nominal (depreciación), los bienes locales se abaratan en el exterior.",
	},
	{
		Keywords:   []string{"tipo de cambio real"},
		Definition: "Tipo de cambio nominal ajustado por niveles de precios relativos.",
		Formula:    "TCR = TCN × (P_dom / P_ext)",
	},
	{
		Keywords:   []string{"curva de phillips"},
		Definition: "Relación (de corto plazo) entre inflación y desempleo.",
		Intuition:  "Menos desempleo suele asociarse a más inflación en el corto plazo, con expectativas dadas.",
	},
	{
		Keywords:   []string{"is-lm", "modelo is lm", "is lm"},
		Definition: "Marco que combina equilibrio en el mercado de bienes (IS) y en el monetario (LM).",
		Intuition:  "IS baja con la tasa de interés; LM depende de la oferta de dinero y la demanda de dinero.",
	},

	// Cálculo financiero
	{
		Keywords:   []string{"interes simple", "interés simple"},
		Definition: "El interés se calcula solo sobre el capital inicial durante todo el período.",
		Formula:    "I = C · i · n ;  M = C · (1 + i · n)",
	},
	{
		Keywords:   []string{"interes compuesto", "interés compuesto"},
		Definition: "El interés se capitaliza: cada período el capital crece con los intereses acumulados.",
		Formula:    "M = C · (1 + i)^n",
	},
	{
		Keywords:   []string{"tasa nominal", "tna", "tnv"},
		Definition: "Tasa anual que no considera capitalización dentro del año; requiere conversión a efectiva.",
	},
	{
		Keywords:   []string{"tasa efectiva anual", "tea"},
		Definition: "Tasa anual que incorpora la capitalización.",
		Formula:    "TEA = (1 + i_m)^m − 1  (m: períodos de capitalización al año)",
	},
	{
		Keywords:   []string{"vpn", "van", "valor presente neto"},
		Definition: "Suma de los flujos descontados menos la inversión inicial; si VPN>0, el proyecto crea valor.",
		Intuition:  "Trae los flujos al presente para compararlos a la misma 'base temporal'.",
		Formula:    "VPN = -I0 + Σ[ Ft / (1 + r)^t ]",
	},
	{
		Keywords:   []string{"tir", "tasa interna de retorno", "irr"},
		Definition: "Tasa que hace que el VPN sea cero; si TIR>k exigido, el proyecto es aceptable.",
	},
	{
		Keywords:   []string{"annuity", "renta", "anualidad", "pmt"},
		Definition: "Serie de pagos iguales en intervalos regulares.",
		Formula:    "PV = PMT · [1 - (1 + r)^(-n)] / r ;  FV = PMT · [(1 + r)^n - 1] / r",
	},
	{
		Keywords:   []string{"amortizacion francesa", "amortización francesa", "sistema frances"},
		Definition: "Cuota constante; al inicio predominan intereses, luego amortización de capital.",
	},
	{
		Keywords:   []string{"bono", "bond", "precio de bono"},
		Definition: "Título de deuda que paga cupones y/o principal; su precio es el valor presente de esos flujos.",
		Intuition:  "Si sube la tasa de descuento, baja el precio del bono (relación inversa).",
	},
	{
		Keywords:   []string{"tasa de descuento", "costo de capital", "wacc"},
		Definition: "Tasa usada para descontar flujos futuros; refleja el costo de oportunidad del capital.",
	},
}
