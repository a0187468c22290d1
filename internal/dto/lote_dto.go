package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mattygrunge/planproduccion/internal/lotecalc"
)

type CrearLoteRequest struct {
	NumeroLote        string           `json:"numero_lote"         validate:"required,min=1,max=50"`
	ProductoID        uint             `json:"producto_id"         validate:"required"`
	EstadoLineaID     *uint            `json:"estado_linea_id"`
	Pallets           *int             `json:"pallets"             validate:"omitempty,min=0"`
	Parciales         *int             `json:"parciales"           validate:"omitempty,min=0"`
	UnidadesPorPallet *int             `json:"unidades_por_pallet" validate:"omitempty,min=0"`
	LitrosTotales     *decimal.Decimal `json:"litros_totales"      validate:"omitempty,min=0"`
	FechaProduccion   Fecha            `json:"fecha_produccion"    validate:"required"`
	FechaVencimiento  *Fecha           `json:"fecha_vencimiento"`
	LinkSenasa        *string          `json:"link_senasa"         validate:"omitempty,max=500"`
	Observaciones     *string          `json:"observaciones"`
	Activo            *bool            `json:"activo"`

	// Con advertencias presentes el alta se rechaza salvo confirmación
	IgnorarAdvertencias bool `json:"ignorar_advertencias"`
}

type ActualizarLoteRequest struct {
	NumeroLote        *string          `json:"numero_lote"         validate:"omitempty,min=1,max=50"`
	ProductoID        *uint            `json:"producto_id"`
	EstadoLineaID     *uint            `json:"estado_linea_id"`
	Pallets           *int             `json:"pallets"             validate:"omitempty,min=0"`
	Parciales         *int             `json:"parciales"           validate:"omitempty,min=0"`
	UnidadesPorPallet *int             `json:"unidades_por_pallet" validate:"omitempty,min=0"`
	LitrosTotales     *decimal.Decimal `json:"litros_totales"      validate:"omitempty,min=0"`
	FechaProduccion   *Fecha           `json:"fecha_produccion"`
	FechaVencimiento  *Fecha           `json:"fecha_vencimiento"`
	LinkSenasa        *string          `json:"link_senasa"         validate:"omitempty,max=500"`
	Observaciones     *string          `json:"observaciones"`
	Activo            *bool            `json:"activo"`

	IgnorarAdvertencias bool `json:"ignorar_advertencias"`
}

type LoteResponse struct {
	ID                uint                 `json:"id"`
	Codigo            string               `json:"codigo"`
	NumeroLote        string               `json:"numero_lote"`
	ProductoID        uint                 `json:"producto_id"`
	Producto          *ProductoSimple      `json:"producto,omitempty"`
	EstadoLineaID     *uint                `json:"estado_linea_id"`
	EstadoLinea       *EstadoLineaResponse `json:"estado_linea,omitempty"`
	Pallets           int                  `json:"pallets"`
	Parciales         int                  `json:"parciales"`
	UnidadesPorPallet int                  `json:"unidades_por_pallet"`
	LitrosTotales     decimal.Decimal      `json:"litros_totales"`
	FechaProduccion   Fecha                `json:"fecha_produccion"`
	FechaVencimiento  *Fecha               `json:"fecha_vencimiento"`
	LinkSenasa        *string              `json:"link_senasa"`
	Observaciones     *string              `json:"observaciones"`
	Usuario           *UsuarioSimple       `json:"usuario,omitempty"`
	Activo            bool                 `json:"activo"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type LoteList struct {
	Items []LoteResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

// LoteFilter cubre los filtros del listado de lotes.
type LoteFilter struct {
	ListQuery
	ProductoID    *uint `form:"producto_id"`
	EstadoLineaID *uint `form:"estado_linea_id"`
}

// LoteConAdvertencias es la respuesta de crear/actualizar: Creado=false con
// advertencias pendientes de confirmación, Creado=true cuando se persistió
// (las advertencias ignoradas viajan igual para que la UI las muestre).
type LoteConAdvertencias struct {
	Lote         *LoteResponse          `json:"lote"`
	Advertencias []lotecalc.Advertencia `json:"advertencias"`
	Creado       bool                   `json:"creado"`
	Mensaje      string                 `json:"mensaje"`
}

type ValidarLoteRequest struct {
	ProductoID      uint   `json:"producto_id"      validate:"required"`
	NumeroLote      string `json:"numero_lote"      validate:"required,min=1,max=50"`
	FechaProduccion Fecha  `json:"fecha_produccion" validate:"required"`
}

type ValidarLoteResponse struct {
	Valido       bool                   `json:"valido"`
	Advertencias []lotecalc.Advertencia `json:"advertencias"`
	LoteAnterior *string                `json:"lote_anterior"`
	LoteEsperado *string                `json:"lote_esperado"`
}

type SugerenciaNumeroResponse struct {
	Sugerencia string  `json:"sugerencia"`
	UltimoLote *string `json:"ultimo_lote"`
	Mensaje    string  `json:"mensaje"`
}
