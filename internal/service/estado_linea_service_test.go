package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type estadoFixture struct {
	svc      EstadoLineaService
	estados  *stubEstadoLineaRepo
	sectores *stubSectorRepo
	lineas   *stubLineaRepo
	audit    *stubAuditRepo
}

func newEstadoFixture() *estadoFixture {
	estados := &stubEstadoLineaRepo{}
	sectores := &stubSectorRepo{}
	lineas := &stubLineaRepo{}
	audit := &stubAuditRepo{}
	svc := NewEstadoLineaService(estados, sectores, lineas, NewAuditService(audit))
	return &estadoFixture{svc: svc, estados: estados, sectores: sectores, lineas: lineas, audit: audit}
}

func (f *estadoFixture) conSector(nombre string) uint {
	s := model.Sector{Codigo: "SC", Nombre: nombre, Activo: true}
	_ = f.sectores.Create(context.Background(), &s)
	return s.ID
}

func (f *estadoFixture) conLinea(nombre string, sectorID uint) uint {
	l := model.Linea{Codigo: "LN", Nombre: nombre, SectorID: sectorID, Activo: true}
	_ = f.lineas.Create(context.Background(), &l)
	return l.ID
}

func hora(h, m int) time.Time {
	return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
}

func TestCrearEstadoDerivaDuracion(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)

	fin := hora(10, 30)
	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearEstadoLineaRequest{
		SectorID:        sectorID,
		LineaID:         lineaID,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: hora(8, 0),
		FechaHoraFin:    &fin,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.DuracionMinutos)
	assert.Equal(t, 150, *resp.DuracionMinutos)
	assert.Equal(t, "Producción", resp.TipoEstadoLabel)
}

func TestCrearEstadoDuracionExplicitaSeRespeta(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)

	fin := hora(10, 30)
	duracion := 120 // descontando una pausa no registrada
	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearEstadoLineaRequest{
		SectorID:        sectorID,
		LineaID:         lineaID,
		TipoEstado:      model.TipoMantenimiento,
		FechaHoraInicio: hora(8, 0),
		FechaHoraFin:    &fin,
		DuracionMinutos: &duracion,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.DuracionMinutos)
	assert.Equal(t, 120, *resp.DuracionMinutos)
}

func TestCrearEstadoFinAnteriorAlInicioFalla(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)

	fin := hora(7, 0)
	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearEstadoLineaRequest{
		SectorID:        sectorID,
		LineaID:         lineaID,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: hora(8, 0),
		FechaHoraFin:    &fin,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "la fecha de fin debe ser posterior al inicio")
	assert.Empty(t, f.estados.estados)
}

func TestCrearEstadoLineaDeOtroSectorFalla(t *testing.T) {
	f := newEstadoFixture()
	sectorA := f.conSector("Envasado")
	sectorB := f.conSector("Elaboración")
	lineaDeB := f.conLinea("Línea B1", sectorB)

	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearEstadoLineaRequest{
		SectorID:        sectorA,
		LineaID:         lineaDeB,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: hora(8, 0),
	})
	require.Error(t, err)
	assert.EqualError(t, err, "la línea no pertenece al sector indicado")
}

func TestActualizarCierreRederivaDuracion(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)
	actor := actorPrueba()

	abierto, err := f.svc.Crear(context.Background(), actor, dto.CrearEstadoLineaRequest{
		SectorID:        sectorID,
		LineaID:         lineaID,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: hora(8, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, abierto.DuracionMinutos)

	fin := hora(9, 15)
	cerrado, err := f.svc.Actualizar(context.Background(), actor, abierto.ID, dto.ActualizarEstadoLineaRequest{
		FechaHoraFin: &fin,
	})
	require.NoError(t, err)
	require.NotNil(t, cerrado.DuracionMinutos)
	assert.Equal(t, 75, *cerrado.DuracionMinutos)

	// Alta + edición auditadas
	require.Len(t, f.audit.logs, 2)
	assert.Equal(t, model.AccionEditar, f.audit.logs[1].Accion)
}

func TestDesactivarEstadoConLotesAsociadosFalla(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)
	actor := actorPrueba()

	creado, err := f.svc.Crear(context.Background(), actor, dto.CrearEstadoLineaRequest{
		SectorID:        sectorID,
		LineaID:         lineaID,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: hora(8, 0),
	})
	require.NoError(t, err)

	f.estados.lotesAsociados = 2
	err = f.svc.Desactivar(context.Background(), actor, creado.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "el estado tiene lotes asociados")

	f.estados.lotesAsociados = 0
	require.NoError(t, f.svc.Desactivar(context.Background(), actor, creado.ID))
}

func TestTimelineAgrupaPorSectorYLinea(t *testing.T) {
	f := newEstadoFixture()
	sectorA := f.conSector("Envasado")
	sectorB := f.conSector("Elaboración")
	lineaA1 := f.conLinea("Línea A1", sectorA)
	lineaA2 := f.conLinea("Línea A2", sectorA)
	f.conLinea("Línea B1", sectorB)
	actor := actorPrueba()

	fin := hora(12, 0)
	_, err := f.svc.Crear(context.Background(), actor, dto.CrearEstadoLineaRequest{
		SectorID: sectorA, LineaID: lineaA1,
		TipoEstado: model.TipoProduccion, FechaHoraInicio: hora(8, 0), FechaHoraFin: &fin,
	})
	require.NoError(t, err)
	_, err = f.svc.Crear(context.Background(), actor, dto.CrearEstadoLineaRequest{
		SectorID: sectorA, LineaID: lineaA1,
		TipoEstado: model.TipoLimpieza, FechaHoraInicio: hora(12, 0), // sigue abierto
	})
	require.NoError(t, err)

	resp, err := f.svc.Timeline(context.Background(), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2026-08-31", resp.Fecha)
	assert.Len(t, resp.Estados, 2)
	require.Len(t, resp.Sectores, 2)

	envasado := resp.Sectores[0]
	assert.Equal(t, "Envasado", envasado.Nombre)
	require.Len(t, envasado.Lineas, 2)
	assert.Len(t, envasado.Lineas[0].Estados, 2)

	// Las líneas sin estados llegan con lista vacía, nunca nula
	for _, s := range resp.Sectores {
		for _, l := range s.Lineas {
			if l.ID != lineaA1 {
				assert.NotNil(t, l.Estados)
				assert.Empty(t, l.Estados)
			}
		}
	}
	_ = lineaA2

	// Catálogo de tipos en orden de presentación
	require.Len(t, resp.TiposEstado, len(model.TiposEstado))
	assert.Equal(t, model.TipoProduccion, resp.TiposEstado[0].Value)
	assert.Equal(t, "Producción", resp.TiposEstado[0].Label)
}

func TestTimelineExcluyeEstadosDeOtroDia(t *testing.T) {
	f := newEstadoFixture()
	sectorID := f.conSector("Envasado")
	lineaID := f.conLinea("Línea 1", sectorID)
	actor := actorPrueba()

	finAyer := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	_, err := f.svc.Crear(context.Background(), actor, dto.CrearEstadoLineaRequest{
		SectorID: sectorID, LineaID: lineaID,
		TipoEstado:      model.TipoProduccion,
		FechaHoraInicio: time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC),
		FechaHoraFin:    &finAyer,
	})
	require.NoError(t, err)

	resp, err := f.svc.Timeline(context.Background(), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, resp.Estados)
	assert.Empty(t, resp.Sectores[0].Lineas[0].Estados)
}
