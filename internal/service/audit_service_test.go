package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

func TestEditarRegistraSoloLasClavesQueCambiaron(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	antes := map[string]interface{}{"nombre": "Línea 1", "activo": true, "descripcion": "vieja"}
	despues := map[string]interface{}{"nombre": "Línea 1", "activo": false, "descripcion": "nueva"}
	svc.Editar(context.Background(), actorPrueba(), "linea", 5, "Línea 1", antes, despues)

	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	assert.Equal(t, model.AccionEditar, entry.Accion)
	assert.Equal(t, "linea", entry.Entidad)
	assert.Equal(t, uint(5), entry.EntidadID)

	var nuevos map[string]interface{}
	require.NotNil(t, entry.DatosNuevos)
	require.NoError(t, json.Unmarshal([]byte(*entry.DatosNuevos), &nuevos))
	assert.Len(t, nuevos, 2)
	assert.Equal(t, false, nuevos["activo"])
	assert.Equal(t, "nueva", nuevos["descripcion"])
	assert.NotContains(t, nuevos, "nombre")

	var anteriores map[string]interface{}
	require.NotNil(t, entry.DatosAnteriores)
	require.NoError(t, json.Unmarshal([]byte(*entry.DatosAnteriores), &anteriores))
	assert.Equal(t, "vieja", anteriores["descripcion"])
}

func TestEditarSinCambiosNoRegistra(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	datos := map[string]interface{}{"nombre": "Línea 1", "activo": true}
	svc.Editar(context.Background(), actorPrueba(), "linea", 5, "Línea 1", datos, datos)

	assert.Empty(t, repo.logs)
}

func TestSnapshotsExcluyenHashedPassword(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	svc.Crear(context.Background(), actorPrueba(), "usuario", 9, "operador1", map[string]interface{}{
		"username":        "operador1",
		"hashed_password": "$2a$12$secreto",
	})

	require.Len(t, repo.logs, 1)
	require.NotNil(t, repo.logs[0].DatosNuevos)
	assert.NotContains(t, *repo.logs[0].DatosNuevos, "hashed_password")
	assert.NotContains(t, *repo.logs[0].DatosNuevos, "secreto")
	assert.Contains(t, *repo.logs[0].DatosNuevos, "operador1")

	// Aunque el hash cambie, la edición no lo filtra al log
	svc.Editar(context.Background(), actorPrueba(), "usuario", 9, "operador1",
		map[string]interface{}{"hashed_password": "a", "email": "x@y.z"},
		map[string]interface{}{"hashed_password": "b", "email": "x@y.z"})
	assert.Len(t, repo.logs, 1)
}

func TestEliminarGuardaLosDatosPrevios(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	svc.Eliminar(context.Background(), actorPrueba(), "lote", 3, "2026001", map[string]interface{}{
		"numero_lote": "2026001",
	})

	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	assert.Equal(t, model.AccionEliminar, entry.Accion)
	require.NotNil(t, entry.DatosAnteriores)
	assert.Contains(t, *entry.DatosAnteriores, "2026001")
	assert.Nil(t, entry.DatosNuevos)
}

func TestListarMapeaLabelsYPagina(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)
	svc.Crear(context.Background(), actorPrueba(), "sector", 1, "Envasado", map[string]interface{}{"nombre": "Envasado"})

	list, err := svc.Listar(context.Background(), dto.AuditoriaFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Size)
	require.Len(t, list.Items, 1)
	assert.Equal(t, model.AccionLabels[model.AccionCrear], list.Items[0].AccionLabel)
	assert.Equal(t, model.EntidadLabels["sector"], list.Items[0].EntidadLabel)
	assert.Equal(t, "operador1", list.Items[0].UsuarioUsername)
}

func TestEstadisticasAgrupanPorAccionYEntidad(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)
	actor := actorPrueba()

	svc.Crear(context.Background(), actor, "sector", 1, "a", map[string]interface{}{"x": 1})
	svc.Crear(context.Background(), actor, "lote", 2, "b", map[string]interface{}{"x": 1})
	svc.Eliminar(context.Background(), actor, "lote", 2, "b", map[string]interface{}{"x": 1})

	stats, err := svc.Estadisticas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRegistros)
	assert.Equal(t, int64(2), stats.PorAccion[model.AccionCrear])
	assert.Equal(t, int64(2), stats.PorEntidad["lote"])
	require.Len(t, stats.TopUsuarios, 1)
	assert.Equal(t, "operador1", stats.TopUsuarios[0].Username)
	assert.Equal(t, int64(3), stats.TopUsuarios[0].Registros)
}
