package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistorialFilter cubre los filtros del historial de lotes.
type HistorialFilter struct {
	Page       int    `form:"page"`
	Size       int    `form:"size"`
	Search     string `form:"search"`
	ProductoID *uint  `form:"producto_id"`
	ClienteID  *uint  `form:"cliente_id"`
	NumeroLote string `form:"numero_lote"`
	FechaDesde *Fecha `form:"fecha_desde"`
	FechaHasta *Fecha `form:"fecha_hasta"`
	Activo     string `form:"activo"`
	// OrdenarPor: fecha_produccion | numero_lote | litros_totales | created_at
	OrdenarPor string `form:"ordenar_por"`
	Orden      string `form:"orden"` // asc | desc
}

// HistorialEstadisticas resume la producción del período filtrado.
type HistorialEstadisticas struct {
	TotalLotes         int64           `json:"total_lotes"`
	TotalLitros        decimal.Decimal `json:"total_litros"`
	TotalPallets       int64           `json:"total_pallets"`
	ProductosDistintos int64           `json:"productos_distintos"`
}

// HistorialResponse devuelve la página de lotes junto a las estadísticas y
// los filtros efectivamente aplicados.
type HistorialResponse struct {
	Items            []LoteResponse        `json:"items"`
	Total            int64                 `json:"total"`
	Page             int                   `json:"page"`
	Size             int                   `json:"size"`
	Pages            int                   `json:"pages"`
	Estadisticas     HistorialEstadisticas `json:"estadisticas"`
	FiltrosAplicados map[string]string     `json:"filtros_aplicados"`
}

// HistorialExport es un lote aplanado para exportar a CSV o PDF.
type HistorialExport struct {
	Codigo           string
	NumeroLote       string
	Producto         string
	Cliente          string
	Pallets          int
	Parciales        int
	LitrosTotales    decimal.Decimal
	FechaProduccion  time.Time
	FechaVencimiento *time.Time
	Usuario          string
}
