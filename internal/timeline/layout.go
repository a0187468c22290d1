// Package timeline calcula la geometría del timeline diario de estados de
// línea: mapea intervalos de tiempo a offsets en píxeles sobre un eje fijo de
// 24 horas. No conoce HTTP ni persistencia; el cliente lo usa para proyectar
// la respuesta de /estados-linea/timeline en bloques renderizables.
package timeline

import "time"

const (
	// PixelsPerHour fija la escala horizontal: 1 hora = 60 px.
	PixelsPerHour = 60.0
	// MinBlockWidth garantiza que intervalos muy cortos sigan siendo
	// visibles y clickeables.
	MinBlockWidth = 20.0
	// HoursPerDay cubre el eje visible 0–23.
	HoursPerDay = 24
)

// Interval es un intervalo de estado sobre una línea. Fin nulo significa
// estado aún abierto, que se recorta contra "ahora" y no contra medianoche.
type Interval struct {
	Inicio time.Time
	Fin    *time.Time
}

// Block es un bloque posicionado sobre el eje del día, en píxeles.
type Block struct {
	Left  float64
	Width float64
}

// Right devuelve el borde derecho del bloque.
func (b Block) Right() float64 { return b.Left + b.Width }

// Detail es el nivel de detalle textual que cabe en un bloque según su ancho.
type Detail int

const (
	DetailAbbrev    Detail = iota // solo código abreviado del tipo
	DetailLabel                   // rótulo completo del tipo
	DetailTimeRange               // + rango horario y duración
	DetailNotes                   // + observaciones truncadas
)

// DetailFor escalona la densidad de texto por ancho renderizado, evitando
// desbordes sin necesidad de medir texto.
func DetailFor(width float64) Detail {
	switch {
	case width > 150:
		return DetailNotes
	case width > 100:
		return DetailTimeRange
	case width > 60:
		return DetailLabel
	default:
		return DetailAbbrev
	}
}

// Abbrev son los códigos cortos por tipo de estado para bloques angostos.
var Abbrev = map[string]string{
	"produccion":           "PRO",
	"parada_programada":    "PP",
	"parada_no_programada": "PNP",
	"mantenimiento":        "MNT",
	"limpieza":             "LIM",
	"cambio_formato":       "CF",
	"sin_demanda":          "SD",
	"otro":                 "OT",
}

// DayBounds devuelve el inicio (00:00:00) y fin (23:59:59.999) del día.
func DayBounds(dia time.Time) (time.Time, time.Time) {
	start := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Layout proyecta un intervalo sobre el día seleccionado.
//
// El inicio efectivo se recorta a max(inicio, 00:00) y el fin efectivo a
// min(fin ?? ahora, 23:59:59.999): un estado abierto de días anteriores sigue
// siendo visible, recortado a la ventana. ok=false únicamente cuando el
// intervalo no solapa el día en absoluto.
//
// Para intervalos abiertos el borde derecho nunca supera la posición del
// marcador de "ahora", aun cuando el ancho mínimo lo empujaría más allá.
func Layout(dia time.Time, iv Interval, now time.Time) (Block, bool) {
	dayStart, dayEnd := DayBounds(dia)

	fin := now
	if iv.Fin != nil {
		fin = *iv.Fin
	}

	effStart := iv.Inicio
	if effStart.Before(dayStart) {
		effStart = dayStart
	}
	effEnd := fin
	if effEnd.After(dayEnd) {
		effEnd = dayEnd
	}

	if !effEnd.After(effStart) && !effEnd.Equal(effStart) {
		return Block{}, false
	}
	if iv.Inicio.After(dayEnd) || fin.Before(dayStart) {
		return Block{}, false
	}

	left := offsetPx(dayStart, effStart)
	width := offsetPx(dayStart, effEnd) - left
	if width < MinBlockWidth {
		width = MinBlockWidth
	}

	// Estado abierto: el bloque termina exactamente en "ahora"
	if iv.Fin == nil && !now.After(dayEnd) && !now.Before(dayStart) {
		nowX := offsetPx(dayStart, now)
		if left+width > nowX {
			width = nowX - left
		}
		if width < 0 {
			return Block{}, false
		}
	}

	return Block{Left: left, Width: width}, true
}

// NowOffset devuelve la posición del marcador de hora actual cuando el día
// seleccionado es hoy. ok=false para cualquier otro día.
func NowOffset(dia time.Time, now time.Time) (float64, bool) {
	if dia.Year() != now.Year() || dia.Month() != now.Month() || now.Day() != dia.Day() {
		return 0, false
	}
	dayStart, _ := DayBounds(dia)
	return offsetPx(dayStart, now), true
}

// AxisWidth es el ancho total del eje de 24 horas.
func AxisWidth() float64 { return HoursPerDay * PixelsPerHour }

func offsetPx(dayStart, t time.Time) float64 {
	return t.Sub(dayStart).Hours() * PixelsPerHour
}
