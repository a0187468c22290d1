package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/lotecalc"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type loteFixture struct {
	svc       LoteService
	lotes     *stubLoteRepo
	productos *stubProductoRepo
	estados   *stubEstadoLineaRepo
	auditRepo *stubAuditRepo
}

func newLoteFixture() *loteFixture {
	lotes := &stubLoteRepo{}
	productos := &stubProductoRepo{}
	estados := &stubEstadoLineaRepo{}
	auditRepo := &stubAuditRepo{}
	svc := NewLoteService(lotes, productos, estados, NewAuditService(auditRepo))
	return &loteFixture{svc: svc, lotes: lotes, productos: productos, estados: estados, auditRepo: auditRepo}
}

func (f *loteFixture) conProducto(litrosPorUnidad string, anosVencimiento int) uint {
	p := model.Producto{
		Codigo:          "PD260001",
		Nombre:          "Lavandina 5L",
		LitrosPorUnidad: decimal.RequireFromString(litrosPorUnidad),
		AnosVencimiento: anosVencimiento,
		Activo:          true,
	}
	_ = f.productos.Create(context.Background(), &p)
	return p.ID
}

func actorPrueba() Actor {
	id := uint(7)
	return Actor{UserID: &id, Username: "operador1"}
}

func TestCrearLoteSinAdvertencias(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote:      "1",
		ProductoID:      productoID,
		FechaProduccion: dto.NuevaFecha(time.Now()),
	})
	require.NoError(t, err)

	assert.True(t, resp.Creado)
	assert.Empty(t, resp.Advertencias)
	assert.Equal(t, "Lote creado", resp.Mensaje)
	require.NotNil(t, resp.Lote)
	assert.Equal(t, "1", resp.Lote.NumeroLote)
	assert.True(t, resp.Lote.Activo)

	// El alta queda auditada con snapshot de datos nuevos
	require.Len(t, f.auditRepo.logs, 1)
	assert.Equal(t, model.AccionCrear, f.auditRepo.logs[0].Accion)
	assert.Equal(t, "lote", f.auditRepo.logs[0].Entidad)
}

func TestCrearLoteDuplicadoRequiereConfirmacion(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)
	actor := actorPrueba()
	hoy := dto.NuevaFecha(time.Now())

	primero, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "1", ProductoID: productoID, FechaProduccion: hoy,
	})
	require.NoError(t, err)
	require.True(t, primero.Creado)

	// Mismo número: advertencia, nada persistido
	repetido, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "1", ProductoID: productoID, FechaProduccion: hoy,
	})
	require.NoError(t, err)
	assert.False(t, repetido.Creado)
	assert.Nil(t, repetido.Lote)
	assert.True(t, lotecalc.TieneAdvertencia(repetido.Advertencias, lotecalc.AdvLoteDuplicado))
	assert.Equal(t, "El lote tiene advertencias; confirme para crearlo igualmente", repetido.Mensaje)
	assert.Len(t, f.lotes.lotes, 1)

	// Confirmado: se persiste y las advertencias viajan igual
	confirmado, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "1", ProductoID: productoID, FechaProduccion: hoy,
		IgnorarAdvertencias: true,
	})
	require.NoError(t, err)
	assert.True(t, confirmado.Creado)
	assert.True(t, lotecalc.TieneAdvertencia(confirmado.Advertencias, lotecalc.AdvLoteDuplicado))
	assert.Equal(t, "Lote creado con advertencias confirmadas", confirmado.Mensaje)
	assert.Len(t, f.lotes.lotes, 2)
}

func TestCrearLoteDerivaLitrosYVencimiento(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1.5", 2)

	pallets, parciales, upp := 2, 5, 10
	fecha := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote:        "1",
		ProductoID:        productoID,
		Pallets:           &pallets,
		Parciales:         &parciales,
		UnidadesPorPallet: &upp,
		FechaProduccion:   dto.NuevaFecha(fecha),
	})
	require.NoError(t, err)
	require.True(t, resp.Creado)

	// (2×10 + 5) × 1.5 = 37.5
	assert.True(t, resp.Lote.LitrosTotales.Equal(decimal.RequireFromString("37.5")),
		"litros_totales = %s", resp.Lote.LitrosTotales)

	require.NotNil(t, resp.Lote.FechaVencimiento)
	assert.Equal(t, "2028-08-31", resp.Lote.FechaVencimiento.Time.Format("2006-01-02"))
}

func TestCrearLoteValoresExplicitosGanan(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1.5", 2)

	pallets := 4
	litros := decimal.RequireFromString("99.9")
	venc := dto.NuevaFecha(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC))
	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote:       "1",
		ProductoID:       productoID,
		Pallets:          &pallets,
		LitrosTotales:    &litros,
		FechaProduccion:  dto.NuevaFecha(time.Now()),
		FechaVencimiento: &venc,
	})
	require.NoError(t, err)
	require.True(t, resp.Creado)

	assert.True(t, resp.Lote.LitrosTotales.Equal(litros))
	require.NotNil(t, resp.Lote.FechaVencimiento)
	assert.Equal(t, "2027-01-15", resp.Lote.FechaVencimiento.Time.Format("2006-01-02"))
}

func TestCrearLoteFechaFuturaAdvierte(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	resp, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote:      "1",
		ProductoID:      productoID,
		FechaProduccion: dto.NuevaFecha(time.Now().AddDate(0, 0, 3)),
	})
	require.NoError(t, err)
	assert.False(t, resp.Creado)
	assert.True(t, lotecalc.TieneAdvertencia(resp.Advertencias, lotecalc.AdvFechaFutura))
}

func TestCrearLoteExigeEstadoDeProduccion(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	limpieza := model.EstadoLinea{
		Codigo: "EL260001", SectorID: 1, LineaID: 1,
		TipoEstado: model.TipoLimpieza, FechaHoraInicio: time.Now(), Activo: true,
	}
	require.NoError(t, f.estados.Create(context.Background(), &limpieza))

	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote:      "1",
		ProductoID:      productoID,
		EstadoLineaID:   &limpieza.ID,
		FechaProduccion: dto.NuevaFecha(time.Now()),
	})
	require.Error(t, err)
	assert.EqualError(t, err, "el estado de línea asociado debe ser de tipo producción")
}

func TestActualizarRevalidaComoElAlta(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)
	actor := actorPrueba()
	hoy := dto.NuevaFecha(time.Now())
	antigua := dto.NuevaFecha(time.Now().AddDate(0, 0, -90))

	a, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "1", ProductoID: productoID, FechaProduccion: hoy,
	})
	require.NoError(t, err)
	b, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "2", ProductoID: productoID, FechaProduccion: antigua,
		IgnorarAdvertencias: true,
	})
	require.NoError(t, err)
	require.True(t, b.Creado)

	// Cambiar solo pallets también revalida: la fecha antigua del lote
	// vuelve a exigir confirmación
	pallets := 3
	soloCantidades, err := f.svc.Actualizar(context.Background(), actor, b.Lote.ID, dto.ActualizarLoteRequest{
		Pallets: &pallets,
	})
	require.NoError(t, err)
	assert.False(t, soloCantidades.Creado)
	assert.True(t, lotecalc.TieneAdvertencia(soloCantidades.Advertencias, lotecalc.AdvFechaMuyAntigua))

	confirmado, err := f.svc.Actualizar(context.Background(), actor, b.Lote.ID, dto.ActualizarLoteRequest{
		Pallets: &pallets, IgnorarAdvertencias: true,
	})
	require.NoError(t, err)
	assert.True(t, confirmado.Creado)
	assert.Equal(t, 3, confirmado.Lote.Pallets)

	// Renombrar al número del otro lote: duplicado pendiente de confirmación
	numeroAjeno := a.Lote.NumeroLote
	conflicto, err := f.svc.Actualizar(context.Background(), actor, b.Lote.ID, dto.ActualizarLoteRequest{
		NumeroLote: &numeroAjeno,
	})
	require.NoError(t, err)
	assert.False(t, conflicto.Creado)
	assert.True(t, lotecalc.TieneAdvertencia(conflicto.Advertencias, lotecalc.AdvLoteDuplicado))

	// El lote quedó intacto
	actual, err := f.svc.Obtener(context.Background(), b.Lote.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", actual.NumeroLote)
}

func TestValidarDetectaSaltoDeSecuencia(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)
	hoy := dto.NuevaFecha(time.Now())

	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote: "2026001", ProductoID: productoID, FechaProduccion: hoy,
		IgnorarAdvertencias: true, // arranque fuera de secuencia, confirmado
	})
	require.NoError(t, err)

	resp, err := f.svc.Validar(context.Background(), dto.ValidarLoteRequest{
		ProductoID: productoID, NumeroLote: "2026005", FechaProduccion: hoy,
	})
	require.NoError(t, err)

	assert.False(t, resp.Valido)
	assert.True(t, lotecalc.TieneAdvertencia(resp.Advertencias, lotecalc.AdvSaltoLote))
	require.NotNil(t, resp.LoteAnterior)
	assert.Equal(t, "2026001", *resp.LoteAnterior)
	require.NotNil(t, resp.LoteEsperado)
	assert.Equal(t, "2026002", *resp.LoteEsperado)
}

func TestValidarSinAnomalias(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)
	hoy := dto.NuevaFecha(time.Now())

	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote: "2026001", ProductoID: productoID, FechaProduccion: hoy,
		IgnorarAdvertencias: true,
	})
	require.NoError(t, err)

	resp, err := f.svc.Validar(context.Background(), dto.ValidarLoteRequest{
		ProductoID: productoID, NumeroLote: "2026002", FechaProduccion: hoy,
	})
	require.NoError(t, err)

	assert.True(t, resp.Valido)
	assert.NotNil(t, resp.Advertencias)
	assert.Empty(t, resp.Advertencias)
}

func TestSugerirNumeroSigueAlUltimo(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	_, err := f.svc.Crear(context.Background(), actorPrueba(), dto.CrearLoteRequest{
		NumeroLote: "LOTE-0007", ProductoID: productoID, FechaProduccion: dto.NuevaFecha(time.Now()),
		IgnorarAdvertencias: true, // arranque fuera de secuencia, confirmado
	})
	require.NoError(t, err)

	resp, err := f.svc.SugerirNumero(context.Background(), productoID)
	require.NoError(t, err)
	assert.Equal(t, "LOTE-0008", resp.Sugerencia)
	require.NotNil(t, resp.UltimoLote)
	assert.Equal(t, "LOTE-0007", *resp.UltimoLote)
}

func TestSugerirNumeroSinHistorial(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	resp, err := f.svc.SugerirNumero(context.Background(), productoID)
	require.NoError(t, err)
	assert.Empty(t, resp.Sugerencia)
	assert.Nil(t, resp.UltimoLote)
	assert.Equal(t, "Sin lotes previos: ingrese el primer número libremente", resp.Mensaje)
}

func TestUltimoSinLotesDevuelveNil(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)

	lote, err := f.svc.Ultimo(context.Background(), productoID)
	require.NoError(t, err)
	assert.Nil(t, lote)
}

func TestDesactivarYReactivarAuditan(t *testing.T) {
	f := newLoteFixture()
	productoID := f.conProducto("1", 2)
	actor := actorPrueba()

	creado, err := f.svc.Crear(context.Background(), actor, dto.CrearLoteRequest{
		NumeroLote: "1", ProductoID: productoID, FechaProduccion: dto.NuevaFecha(time.Now()),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Desactivar(context.Background(), actor, creado.Lote.ID))
	require.NoError(t, f.svc.Reactivar(context.Background(), actor, creado.Lote.ID))

	acciones := make([]string, 0, len(f.auditRepo.logs))
	for _, l := range f.auditRepo.logs {
		acciones = append(acciones, l.Accion)
	}
	assert.Equal(t, []string{model.AccionCrear, model.AccionEliminar, model.AccionEditar}, acciones)

	actual, err := f.svc.Obtener(context.Background(), creado.Lote.ID)
	require.NoError(t, err)
	assert.True(t, actual.Activo)
}
