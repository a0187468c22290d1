package client

// Proyección del timeline: convierte la respuesta agrupada del servidor en
// bloques posicionados en píxeles listos para renderizar, usando el motor de
// geometría puro de internal/timeline.

import (
	"time"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/timeline"
)

// BloqueEstado es un estado posicionado sobre el eje del día.
type BloqueEstado struct {
	Estado dto.EstadoLineaResponse
	Left   float64
	Width  float64
	// Detail indica cuánto texto cabe en el bloque.
	Detail timeline.Detail
	// Abbrev es el código corto del tipo para bloques angostos.
	Abbrev string
}

// LineaRender es una línea con sus bloques del día.
type LineaRender struct {
	ID      uint
	Nombre  string
	Bloques []BloqueEstado
}

// SectorRender agrupa las líneas renderizadas de un sector.
type SectorRender struct {
	ID     uint
	Nombre string
	Lineas []LineaRender
}

// TimelineRender es la vista completa lista para dibujar.
type TimelineRender struct {
	Fecha     time.Time
	Sectores  []SectorRender
	AxisWidth float64
	// NowOffset es la posición del marcador de hora actual; válido sólo
	// cuando HayNow es true (el día renderizado es hoy). El llamador debe
	// refrescarlo por minuto.
	NowOffset float64
	HayNow    bool
}

// RenderTimeline proyecta la respuesta del servidor al plano de píxeles.
// Estados que no solapan el día se omiten; los abiertos se recortan a now.
func RenderTimeline(resp *dto.TimelineResponse, now time.Time) (*TimelineRender, error) {
	fecha, err := time.ParseInLocation("2006-01-02", resp.Fecha, now.Location())
	if err != nil {
		return nil, err
	}

	render := &TimelineRender{
		Fecha:     fecha,
		AxisWidth: timeline.AxisWidth(),
	}
	render.NowOffset, render.HayNow = timeline.NowOffset(fecha, now)

	for _, sector := range resp.Sectores {
		sr := SectorRender{ID: sector.ID, Nombre: sector.Nombre}
		for _, linea := range sector.Lineas {
			lr := LineaRender{ID: linea.ID, Nombre: linea.Nombre, Bloques: []BloqueEstado{}}
			for _, estado := range linea.Estados {
				iv := timeline.Interval{Inicio: estado.FechaHoraInicio, Fin: estado.FechaHoraFin}
				block, ok := timeline.Layout(fecha, iv, now)
				if !ok {
					continue
				}
				lr.Bloques = append(lr.Bloques, BloqueEstado{
					Estado: estado,
					Left:   block.Left,
					Width:  block.Width,
					Detail: timeline.DetailFor(block.Width),
					Abbrev: timeline.Abbrev[estado.TipoEstado],
				})
			}
			sr.Lineas = append(sr.Lineas, lr)
		}
		render.Sectores = append(render.Sectores, sr)
	}
	return render, nil
}
