package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/timeline"
)

func ts(h, m int) time.Time {
	return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
}

func TestRenderTimelinePosicionaBloques(t *testing.T) {
	fin := ts(10, 0)
	resp := &dto.TimelineResponse{
		Fecha: "2026-08-31",
		Sectores: []dto.TimelineSector{{
			ID: 1, Nombre: "Envasado",
			Lineas: []dto.TimelineLinea{{
				ID: 3, Nombre: "Línea 1",
				Estados: []dto.EstadoLineaResponse{
					{ID: 10, TipoEstado: "produccion", FechaHoraInicio: ts(8, 0), FechaHoraFin: &fin},
					{ID: 11, TipoEstado: "limpieza", FechaHoraInicio: ts(10, 0)}, // abierto
				},
			}},
		}},
	}

	now := ts(12, 0)
	render, err := RenderTimeline(resp, now)
	require.NoError(t, err)

	require.Len(t, render.Sectores, 1)
	require.Len(t, render.Sectores[0].Lineas, 1)
	bloques := render.Sectores[0].Lineas[0].Bloques
	require.Len(t, bloques, 2)

	// 08:00–10:00 → left 480, width 120
	assert.InDelta(t, 480.0, bloques[0].Left, 0.01)
	assert.InDelta(t, 120.0, bloques[0].Width, 0.01)
	assert.Equal(t, timeline.DetailTimeRange, bloques[0].Detail)

	// Abierto desde 10:00: recortado a now (12:00) → width 120
	assert.InDelta(t, 600.0, bloques[1].Left, 0.01)
	assert.InDelta(t, 120.0, bloques[1].Width, 0.01)
	assert.Equal(t, "LIM", bloques[1].Abbrev)

	// Marcador de "ahora" presente porque el día renderizado es hoy
	assert.True(t, render.HayNow)
	assert.InDelta(t, 720.0, render.NowOffset, 0.01)
}

func TestRenderTimelineOmiteEstadosDeOtroDia(t *testing.T) {
	finVieja := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	resp := &dto.TimelineResponse{
		Fecha: "2026-08-31",
		Sectores: []dto.TimelineSector{{
			ID: 1, Nombre: "Envasado",
			Lineas: []dto.TimelineLinea{{
				ID: 3, Nombre: "Línea 1",
				Estados: []dto.EstadoLineaResponse{
					{ID: 9, TipoEstado: "produccion", FechaHoraInicio: time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC), FechaHoraFin: &finVieja},
				},
			}},
		}},
	}

	render, err := RenderTimeline(resp, ts(12, 0))
	require.NoError(t, err)
	assert.Empty(t, render.Sectores[0].Lineas[0].Bloques)
}
