package client

// Métodos tipados del lado operativo: estados de línea, timeline, lotes con
// su flujo de advertencias, historial con exportaciones y auditoría.
// Los listados de consulta frecuente (timeline, historial) pasan por el guard
// latest-wins: un filtro nuevo cancela la consulta anterior en vuelo.

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

// ─── Estados de línea ────────────────────────────────────────────────────────

func (c *Client) CrearEstadoLinea(ctx context.Context, req dto.CrearEstadoLineaRequest) (*dto.EstadoLineaResponse, error) {
	var resp dto.EstadoLineaResponse
	if err := c.do(ctx, "POST", "/v1/estados-linea", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarEstadosLinea(ctx context.Context, filter dto.EstadoLineaFilter) (*dto.EstadoLineaList, error) {
	v := url.Values{}
	if filter.Page > 0 {
		v.Set("page", fmt.Sprint(filter.Page))
	}
	if filter.Size > 0 {
		v.Set("size", fmt.Sprint(filter.Size))
	}
	if filter.SectorID != nil {
		v.Set("sector_id", fmt.Sprint(*filter.SectorID))
	}
	if filter.LineaID != nil {
		v.Set("linea_id", fmt.Sprint(*filter.LineaID))
	}
	if filter.TipoEstado != "" {
		v.Set("tipo_estado", filter.TipoEstado)
	}
	if filter.FechaDesde != nil {
		v.Set("fecha_desde", filter.FechaDesde.Format(time.RFC3339))
	}
	if filter.FechaHasta != nil {
		v.Set("fecha_hasta", filter.FechaHasta.Format(time.RFC3339))
	}
	if filter.Activo != "" {
		v.Set("activo", filter.Activo)
	}
	var resp dto.EstadoLineaList
	if err := c.do(ctx, "GET", withQuery("/v1/estados-linea", v), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerEstadoLinea(ctx context.Context, id uint) (*dto.EstadoLineaResponse, error) {
	var resp dto.EstadoLineaResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/estados-linea/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarEstadoLinea(ctx context.Context, id uint, req dto.ActualizarEstadoLineaRequest) (*dto.EstadoLineaResponse, error) {
	var resp dto.EstadoLineaResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/estados-linea/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarEstadoLinea(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/estados-linea/%d", id), nil, nil)
}

func (c *Client) ReactivarEstadoLinea(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/estados-linea/%d/reactivar", id), nil, nil)
}

func (c *Client) TiposEstado(ctx context.Context) ([]dto.TipoEstadoOption, error) {
	var tipos []dto.TipoEstadoOption
	if err := c.do(ctx, "GET", "/v1/estados-linea/tipos-estado", nil, &tipos); err != nil {
		return nil, err
	}
	return tipos, nil
}

// Timeline trae la vista del día. Latest-wins: una llamada nueva cancela la
// anterior aún en vuelo, así el render nunca muestra un día viejo.
func (c *Client) Timeline(ctx context.Context, fecha time.Time, sectorID, lineaID *uint) (*dto.TimelineResponse, error) {
	ctx, done := c.latest.Acquire(ctx, "timeline")
	defer done()

	v := url.Values{}
	if sectorID != nil {
		v.Set("sector_id", fmt.Sprint(*sectorID))
	}
	if lineaID != nil {
		v.Set("linea_id", fmt.Sprint(*lineaID))
	}
	path := withQuery("/v1/estados-linea/timeline/"+fecha.Format("2006-01-02"), v)

	var resp dto.TimelineResponse
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ─── Lotes ───────────────────────────────────────────────────────────────────

// CrearLote registra un lote. Si la respuesta trae creado=false el servidor
// detectó advertencias: reintente con IgnorarAdvertencias=true para confirmar.
func (c *Client) CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteConAdvertencias, error) {
	var resp dto.LoteConAdvertencias
	if err := c.do(ctx, "POST", "/v1/lotes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarLotes(ctx context.Context, filter dto.LoteFilter) (*dto.LoteList, error) {
	v := listQueryValues(filter.ListQuery)
	if filter.ProductoID != nil {
		v.Set("producto_id", fmt.Sprint(*filter.ProductoID))
	}
	if filter.EstadoLineaID != nil {
		v.Set("estado_linea_id", fmt.Sprint(*filter.EstadoLineaID))
	}
	var resp dto.LoteList
	if err := c.do(ctx, "GET", withQuery("/v1/lotes", v), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerLote(ctx context.Context, id uint) (*dto.LoteResponse, error) {
	var resp dto.LoteResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/lotes/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarLote(ctx context.Context, id uint, req dto.ActualizarLoteRequest) (*dto.LoteConAdvertencias, error) {
	var resp dto.LoteConAdvertencias
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/lotes/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarLote(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/lotes/%d", id), nil, nil)
}

func (c *Client) ReactivarLote(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/lotes/%d/reactivar", id), nil, nil)
}

// ValidarLote evalúa un número propuesto sin persistir nada (validación en
// vivo del formulario). Latest-wins por producto.
func (c *Client) ValidarLote(ctx context.Context, req dto.ValidarLoteRequest) (*dto.ValidarLoteResponse, error) {
	ctx, done := c.latest.Acquire(ctx, fmt.Sprintf("validar-lote:%d", req.ProductoID))
	defer done()

	var resp dto.ValidarLoteResponse
	if err := c.do(ctx, "POST", "/v1/lotes/validar", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SugerirNumeroLote(ctx context.Context, productoID uint) (*dto.SugerenciaNumeroResponse, error) {
	var resp dto.SugerenciaNumeroResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/lotes/producto/%d/sugerir-numero", productoID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UltimoLote(ctx context.Context, productoID uint) (*dto.LoteResponse, error) {
	var resp dto.LoteResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/lotes/producto/%d/ultimo", productoID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, nil
	}
	return &resp, nil
}

// ─── Historial ───────────────────────────────────────────────────────────────

func historialValues(filter dto.HistorialFilter) url.Values {
	v := url.Values{}
	if filter.Page > 0 {
		v.Set("page", fmt.Sprint(filter.Page))
	}
	if filter.Size > 0 {
		v.Set("size", fmt.Sprint(filter.Size))
	}
	if filter.Search != "" {
		v.Set("search", filter.Search)
	}
	if filter.NumeroLote != "" {
		v.Set("numero_lote", filter.NumeroLote)
	}
	if filter.ProductoID != nil {
		v.Set("producto_id", fmt.Sprint(*filter.ProductoID))
	}
	if filter.ClienteID != nil {
		v.Set("cliente_id", fmt.Sprint(*filter.ClienteID))
	}
	if filter.FechaDesde != nil && !filter.FechaDesde.IsZero() {
		v.Set("fecha_desde", filter.FechaDesde.String())
	}
	if filter.FechaHasta != nil && !filter.FechaHasta.IsZero() {
		v.Set("fecha_hasta", filter.FechaHasta.String())
	}
	if filter.Activo != "" {
		v.Set("activo", filter.Activo)
	}
	if filter.OrdenarPor != "" {
		v.Set("ordenar_por", filter.OrdenarPor)
	}
	if filter.Orden != "" {
		v.Set("orden", filter.Orden)
	}
	return v
}

// Historial consulta el libro de producción. Latest-wins sobre los filtros.
func (c *Client) Historial(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialResponse, error) {
	ctx, done := c.latest.Acquire(ctx, "historial")
	defer done()

	var resp dto.HistorialResponse
	if err := c.do(ctx, "GET", withQuery("/v1/historial", historialValues(filter)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) HistorialEstadisticas(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialEstadisticas, error) {
	var resp dto.HistorialEstadisticas
	if err := c.do(ctx, "GET", withQuery("/v1/historial/estadisticas", historialValues(filter)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportarHistorialCSV descarga el CSV filtrado completo (bytes crudos con BOM).
func (c *Client) ExportarHistorialCSV(ctx context.Context, filter dto.HistorialFilter) ([]byte, error) {
	data, _, err := c.doRaw(ctx, withQuery("/v1/historial/exportar/csv", historialValues(filter)))
	return data, err
}

// ExportarHistorialPDF descarga el PDF filtrado completo.
func (c *Client) ExportarHistorialPDF(ctx context.Context, filter dto.HistorialFilter) ([]byte, error) {
	data, _, err := c.doRaw(ctx, withQuery("/v1/historial/exportar/pdf", historialValues(filter)))
	return data, err
}

// ─── Auditoría ───────────────────────────────────────────────────────────────

func (c *Client) Auditoria(ctx context.Context, filter dto.AuditoriaFilter) (*dto.AuditoriaList, error) {
	v := url.Values{}
	if filter.Page > 0 {
		v.Set("page", fmt.Sprint(filter.Page))
	}
	if filter.Size > 0 {
		v.Set("size", fmt.Sprint(filter.Size))
	}
	if filter.UsuarioID != nil {
		v.Set("usuario_id", fmt.Sprint(*filter.UsuarioID))
	}
	if filter.Accion != "" {
		v.Set("accion", filter.Accion)
	}
	if filter.Entidad != "" {
		v.Set("entidad", filter.Entidad)
	}
	if filter.Search != "" {
		v.Set("search", filter.Search)
	}
	if filter.FechaDesde != nil {
		v.Set("fecha_desde", filter.FechaDesde.Format(time.RFC3339))
	}
	if filter.FechaHasta != nil {
		v.Set("fecha_hasta", filter.FechaHasta.Format(time.RFC3339))
	}
	var resp dto.AuditoriaList
	if err := c.do(ctx, "GET", withQuery("/v1/auditoria", v), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AuditoriaEstadisticas(ctx context.Context) (*dto.AuditoriaEstadisticas, error) {
	var resp dto.AuditoriaEstadisticas
	if err := c.do(ctx, "GET", "/v1/auditoria/estadisticas", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
