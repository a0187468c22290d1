package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

func TestCrearSectorRechazaNombreRepetido(t *testing.T) {
	repo := &stubSectorRepo{}
	svc := NewSectorService(repo, NewAuditService(&stubAuditRepo{}))
	actor := actorPrueba()

	_, err := svc.Crear(context.Background(), actor, dto.CrearSectorRequest{Nombre: "Envasado"})
	require.NoError(t, err)

	// La comparación de nombres no distingue mayúsculas
	_, err = svc.Crear(context.Background(), actor, dto.CrearSectorRequest{Nombre: "envasado"})
	require.Error(t, err)
	assert.EqualError(t, err, "ya existe un sector con ese nombre")
	assert.Len(t, repo.sectores, 1)
}

func TestDesactivarSectorConLineasActivasFalla(t *testing.T) {
	repo := &stubSectorRepo{}
	audit := &stubAuditRepo{}
	svc := NewSectorService(repo, NewAuditService(audit))
	actor := actorPrueba()

	creado, err := svc.Crear(context.Background(), actor, dto.CrearSectorRequest{Nombre: "Envasado"})
	require.NoError(t, err)

	repo.lineasActivas = 3
	err = svc.Desactivar(context.Background(), actor, creado.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "el sector tiene líneas activas asociadas")

	repo.lineasActivas = 0
	require.NoError(t, svc.Desactivar(context.Background(), actor, creado.ID))
	assert.False(t, repo.sectores[0].Activo)

	// alta + baja
	require.Len(t, audit.logs, 2)
	assert.Equal(t, model.AccionEliminar, audit.logs[1].Accion)
}

func TestActualizarSectorAuditaSoloCambios(t *testing.T) {
	repo := &stubSectorRepo{}
	audit := &stubAuditRepo{}
	svc := NewSectorService(repo, NewAuditService(audit))
	actor := actorPrueba()

	creado, err := svc.Crear(context.Background(), actor, dto.CrearSectorRequest{Nombre: "Envasado"})
	require.NoError(t, err)

	// Sin cambios efectivos: no genera registro de edición
	mismoNombre := "Envasado"
	_, err = svc.Actualizar(context.Background(), actor, creado.ID, dto.ActualizarSectorRequest{Nombre: &mismoNombre})
	require.NoError(t, err)
	assert.Len(t, audit.logs, 1)

	nuevo := "Envasado Norte"
	_, err = svc.Actualizar(context.Background(), actor, creado.ID, dto.ActualizarSectorRequest{Nombre: &nuevo})
	require.NoError(t, err)
	require.Len(t, audit.logs, 2)

	edicion := audit.logs[1]
	assert.Equal(t, model.AccionEditar, edicion.Accion)
	require.NotNil(t, edicion.DatosNuevos)
	assert.Contains(t, *edicion.DatosNuevos, "Envasado Norte")
	assert.NotContains(t, *edicion.DatosNuevos, "descripcion")
}
