// Package lotecalc contiene los cálculos puros del flujo de lotes: extracción
// y sugerencia de números de lote, detección de saltos de secuencia,
// advertencias de fecha y valores derivados (litros totales, vencimiento).
//
// Todas las funciones son deterministas y sin efectos; el servicio de lotes y
// el cliente las comparten para que la vista previa del operador y la
// revalidación del servidor coincidan siempre.
package lotecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de advertencia en el wire.
const (
	AdvLoteDuplicado   = "lote_duplicado"
	AdvSaltoLote       = "salto_lote"
	AdvFechaMuyAntigua = "fecha_muy_antigua"
	AdvFechaFutura     = "fecha_futura"
)

// DiasAntiguedadMaxima es el umbral a partir del cual una fecha de producción
// pasada se considera implausible.
const DiasAntiguedadMaxima = 30

// Advertencia es una anomalía detectada sobre un lote propuesto. Nunca
// bloquea por sí sola: el llamador decide si exige confirmación explícita.
type Advertencia struct {
	Tipo    string `json:"tipo"`
	Mensaje string `json:"mensaje"`
	Detalle string `json:"detalle,omitempty"`
}

var grupoDigitos = regexp.MustCompile(`\d+`)
var digitosFinales = regexp.MustCompile(`\d+$`)

// ExtraerNumero devuelve el último grupo de dígitos consecutivos de un número
// de lote ("LOTE-2024-0005" → 5, "ABC123XYZ" → 123). ok=false si no hay dígitos.
func ExtraerNumero(numeroLote string) (int, bool) {
	grupos := grupoDigitos.FindAllString(numeroLote, -1)
	if len(grupos) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(grupos[len(grupos)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// reemplazarSecuencia sustituye el grupo de dígitos final de base por n,
// conservando el ancho de cero-padding del grupo original.
func reemplazarSecuencia(base string, n int) string {
	loc := digitosFinales.FindStringIndex(base)
	if loc == nil {
		return base + "-" + strconv.Itoa(n)
	}
	ancho := loc[1] - loc[0]
	return base[:loc[0]] + fmt.Sprintf("%0*d", ancho, n)
}

// SugerirSiguiente propone el siguiente número de lote a partir del último
// registrado, manteniendo su formato. Con historial vacío la sugerencia es
// vacía: el operador elige libremente el primer número.
func SugerirSiguiente(ultimoNumero string) string {
	if ultimoNumero == "" {
		return ""
	}
	if n, ok := ExtraerNumero(ultimoNumero); ok && digitosFinales.MatchString(ultimoNumero) {
		return reemplazarSecuencia(ultimoNumero, n+1)
	}
	// Sin secuencia numérica reconocible: sufijo incremental
	return ultimoNumero + "-2"
}

// DetectarSalto compara el número propuesto contra el último registrado.
// Devuelve si hay salto de secuencia y, en tal caso, el número esperado.
// ultimoNumero vacío significa primer lote del producto: cualquier arranque
// por encima de 1 se marca como salto con esperado "1".
func DetectarSalto(numeroPropuesto, ultimoNumero string) (bool, string) {
	nuevo, ok := ExtraerNumero(numeroPropuesto)
	if !ok {
		return false, ""
	}
	if ultimoNumero == "" {
		if nuevo > 1 {
			return true, "1"
		}
		return false, ""
	}
	anterior, ok := ExtraerNumero(ultimoNumero)
	if !ok {
		return false, ""
	}
	if nuevo > anterior+1 {
		return true, reemplazarSecuencia(ultimoNumero, anterior+1)
	}
	return false, ""
}

// ValidarFechaProduccion genera advertencias de fecha: futura, o con más de
// DiasAntiguedadMaxima días de antigüedad respecto de hoy.
func ValidarFechaProduccion(fechaProduccion, hoy time.Time) []Advertencia {
	fp := trunc(fechaProduccion)
	h := trunc(hoy)

	var advertencias []Advertencia
	switch {
	case fp.After(h):
		dias := int(fp.Sub(h).Hours() / 24)
		advertencias = append(advertencias, Advertencia{
			Tipo:    AdvFechaFutura,
			Mensaje: fmt.Sprintf("La fecha de producción es %d día(s) en el futuro", dias),
			Detalle: fmt.Sprintf("Fecha ingresada: %s, Fecha actual: %s", fp.Format("2006-01-02"), h.Format("2006-01-02")),
		})
	case h.Sub(fp).Hours()/24 > DiasAntiguedadMaxima:
		dias := int(h.Sub(fp).Hours() / 24)
		advertencias = append(advertencias, Advertencia{
			Tipo:    AdvFechaMuyAntigua,
			Mensaje: fmt.Sprintf("La fecha de producción tiene %d días de antigüedad", dias),
			Detalle: fmt.Sprintf("Fecha ingresada: %s, Fecha actual: %s", fp.Format("2006-01-02"), h.Format("2006-01-02")),
		})
	}
	return advertencias
}

// CalcularLitrosTotales aplica la fórmula
// (pallets × unidades_por_pallet + parciales) × litros_por_unidad.
func CalcularLitrosTotales(pallets, parciales, unidadesPorPallet int, litrosPorUnidad decimal.Decimal) decimal.Decimal {
	unidades := decimal.NewFromInt(int64(pallets*unidadesPorPallet + parciales))
	return unidades.Mul(litrosPorUnidad)
}

// CalcularFechaVencimiento suma años calendario completos a la fecha de
// producción (29 de febrero normaliza a 1 de marzo en años no bisiestos).
func CalcularFechaVencimiento(fechaProduccion time.Time, anosVencimiento int) time.Time {
	return trunc(fechaProduccion).AddDate(anosVencimiento, 0, 0)
}

// DescribirAdvertenciaDuplicado arma la advertencia de número repetido.
func DescribirAdvertenciaDuplicado(numeroLote string) Advertencia {
	return Advertencia{
		Tipo:    AdvLoteDuplicado,
		Mensaje: fmt.Sprintf("Ya existe un lote '%s' para este producto", numeroLote),
		Detalle: "Se recomienda verificar si es un error o si el lote ya fue registrado",
	}
}

// DescribirAdvertenciaSalto arma la advertencia de salto de secuencia.
func DescribirAdvertenciaSalto(numeroPropuesto, ultimoNumero, esperado string) Advertencia {
	if ultimoNumero == "" {
		return Advertencia{
			Tipo:    AdvSaltoLote,
			Mensaje: fmt.Sprintf("El primer lote debería ser '%s', se ingresó '%s'", esperado, numeroPropuesto),
			Detalle: "Se recomienda iniciar la secuencia desde 1 o verificar si faltan lotes anteriores",
		}
	}
	return Advertencia{
		Tipo:    AdvSaltoLote,
		Mensaje: "Se detectó un salto en la secuencia de lotes",
		Detalle: fmt.Sprintf("Último lote: %s, Esperado: %s, Ingresado: %s", ultimoNumero, esperado, numeroPropuesto),
	}
}

func trunc(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TieneAdvertencia indica si la lista contiene una advertencia del tipo dado.
func TieneAdvertencia(advertencias []Advertencia, tipo string) bool {
	for _, a := range advertencias {
		if a.Tipo == tipo {
			return true
		}
	}
	return false
}

// ResumenAdvertencias concatena los mensajes para logging.
func ResumenAdvertencias(advertencias []Advertencia) string {
	msgs := make([]string, len(advertencias))
	for i, a := range advertencias {
		msgs[i] = a.Tipo
	}
	return strings.Join(msgs, ",")
}
