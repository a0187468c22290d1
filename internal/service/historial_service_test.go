package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

func newHistorialFixture(t *testing.T) (HistorialService, *stubLoteRepo) {
	t.Helper()
	lotes := &stubLoteRepo{}

	cliente := &model.Cliente{ID: 1, Nombre: "Distribuidora Sur"}
	producto := &model.Producto{ID: 1, Nombre: "Lavandina 5L", Cliente: cliente}
	venc := time.Date(2028, 8, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, lotes.Create(context.Background(), &model.Lote{
		Codigo: "LT260001", NumeroLote: "2026001", ProductoID: 1,
		Pallets: 2, Parciales: 5, UnidadesPorPallet: 10,
		LitrosTotales:   decimal.RequireFromString("37.500"),
		FechaProduccion: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		FechaVencimiento: &venc,
		Activo:           true,
		Producto:         producto,
		Usuario:          &model.User{ID: 7, Username: "operador1"},
	}))
	require.NoError(t, lotes.Create(context.Background(), &model.Lote{
		Codigo: "LT260002", NumeroLote: "2026002", ProductoID: 1,
		Pallets:         1,
		LitrosTotales:   decimal.RequireFromString("10.000"),
		FechaProduccion: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Activo:          true,
		Producto:        producto,
	}))

	return NewHistorialService(lotes, t.TempDir()), lotes
}

func TestHistorialListarIncluyeEstadisticasYFiltros(t *testing.T) {
	svc, _ := newHistorialFixture(t)

	productoID := uint(1)
	resp, err := svc.Listar(context.Background(), dto.HistorialFilter{
		ProductoID: &productoID,
		NumeroLote: "2026",
		OrdenarPor: "litros_totales",
		Orden:      "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Size)
	assert.Equal(t, int64(2), resp.Estadisticas.TotalLotes)
	assert.Equal(t, int64(3), resp.Estadisticas.TotalPallets)
	assert.True(t, resp.Estadisticas.TotalLitros.Equal(decimal.RequireFromString("47.5")))
	assert.Equal(t, int64(1), resp.Estadisticas.ProductosDistintos)

	assert.Equal(t, map[string]string{
		"producto_id": "1",
		"numero_lote": "2026",
		"ordenar_por": "litros_totales",
		"orden":       "asc",
	}, resp.FiltrosAplicados)
}

func TestExportarCSVFormatoExcel(t *testing.T) {
	svc, _ := newHistorialFixture(t)

	data, filename, err := svc.ExportarCSV(context.Background(), dto.HistorialFilter{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "historial_lotes_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	// BOM UTF-8 para que Excel abra bien los acentos
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // encabezado + 2 lotes

	assert.Equal(t, "Número de Lote", rows[0][1])
	assert.Equal(t, []string{
		"LT260001", "2026001", "Lavandina 5L", "Distribuidora Sur",
		"2", "5", "37.500", "31/08/2026", "31/08/2028", "operador1",
	}, rows[1])

	// Sin vencimiento ni usuario: columnas vacías
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "", rows[2][9])
}

func TestExportarCSVSinResultados(t *testing.T) {
	svc := NewHistorialService(&stubLoteRepo{}, t.TempDir())

	data, _, err := svc.ExportarCSV(context.Background(), dto.HistorialFilter{})
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // solo el encabezado
}
