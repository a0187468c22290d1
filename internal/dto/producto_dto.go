package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CrearProductoRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=1,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`

	FormatoLote    *string `json:"formato_lote"    validate:"omitempty,max=50"`
	ClienteID      *uint   `json:"cliente_id"`
	TipoProducto   *string `json:"tipo_producto"   validate:"omitempty,max=100"`
	ColorBanda     *string `json:"color_banda"     validate:"omitempty,max=50"`
	CodigoProducto *string `json:"codigo_producto" validate:"omitempty,max=50"`

	Densidad *decimal.Decimal `json:"densidad" validate:"omitempty,min=0"`

	BidonProveedor           *string `json:"bidon_proveedor"            validate:"omitempty,max=100"`
	BidonDescripcion         *string `json:"bidon_descripcion"          validate:"omitempty,max=200"`
	TapaProveedor            *string `json:"tapa_proveedor"             validate:"omitempty,max=100"`
	TapaDescripcion          *string `json:"tapa_descripcion"           validate:"omitempty,max=200"`
	PalletProveedor          *string `json:"pallet_proveedor"           validate:"omitempty,max=100"`
	PalletDescripcion        *string `json:"pallet_descripcion"         validate:"omitempty,max=200"`
	CobertorProveedor        *string `json:"cobertor_proveedor"         validate:"omitempty,max=100"`
	CobertorDescripcion      *string `json:"cobertor_descripcion"       validate:"omitempty,max=200"`
	FundaEtiquetaProveedor   *string `json:"funda_etiqueta_proveedor"   validate:"omitempty,max=100"`
	FundaEtiquetaDescripcion *string `json:"funda_etiqueta_descripcion" validate:"omitempty,max=200"`
	EsquineroProveedor       *string `json:"esquinero_proveedor"        validate:"omitempty,max=100"`
	EsquineroDescripcion     *string `json:"esquinero_descripcion"      validate:"omitempty,max=200"`

	LitrosPorPallet  *int    `json:"litros_por_pallet"  validate:"omitempty,min=0"`
	BidonesPorPallet *int    `json:"bidones_por_pallet" validate:"omitempty,min=0"`
	BidonesPorPiso   *string `json:"bidones_por_piso"   validate:"omitempty,max=50"`

	UnidadMedida    *string          `json:"unidad_medida"     validate:"omitempty,max=20"`
	PrecioUnitario  *decimal.Decimal `json:"precio_unitario"   validate:"omitempty,min=0"`
	AnosVencimiento *int             `json:"anos_vencimiento"  validate:"omitempty,min=0,max=10"`
	LitrosPorUnidad *decimal.Decimal `json:"litros_por_unidad" validate:"omitempty,min=0"`
	Activo          *bool            `json:"activo"`
}

type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=1,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`

	FormatoLote    *string `json:"formato_lote"    validate:"omitempty,max=50"`
	ClienteID      *uint   `json:"cliente_id"`
	TipoProducto   *string `json:"tipo_producto"   validate:"omitempty,max=100"`
	ColorBanda     *string `json:"color_banda"     validate:"omitempty,max=50"`
	CodigoProducto *string `json:"codigo_producto" validate:"omitempty,max=50"`

	Densidad *decimal.Decimal `json:"densidad" validate:"omitempty,min=0"`

	BidonProveedor           *string `json:"bidon_proveedor"            validate:"omitempty,max=100"`
	BidonDescripcion         *string `json:"bidon_descripcion"          validate:"omitempty,max=200"`
	TapaProveedor            *string `json:"tapa_proveedor"             validate:"omitempty,max=100"`
	TapaDescripcion          *string `json:"tapa_descripcion"           validate:"omitempty,max=200"`
	PalletProveedor          *string `json:"pallet_proveedor"           validate:"omitempty,max=100"`
	PalletDescripcion        *string `json:"pallet_descripcion"         validate:"omitempty,max=200"`
	CobertorProveedor        *string `json:"cobertor_proveedor"         validate:"omitempty,max=100"`
	CobertorDescripcion      *string `json:"cobertor_descripcion"       validate:"omitempty,max=200"`
	FundaEtiquetaProveedor   *string `json:"funda_etiqueta_proveedor"   validate:"omitempty,max=100"`
	FundaEtiquetaDescripcion *string `json:"funda_etiqueta_descripcion" validate:"omitempty,max=200"`
	EsquineroProveedor       *string `json:"esquinero_proveedor"        validate:"omitempty,max=100"`
	EsquineroDescripcion     *string `json:"esquinero_descripcion"      validate:"omitempty,max=200"`

	LitrosPorPallet  *int    `json:"litros_por_pallet"  validate:"omitempty,min=0"`
	BidonesPorPallet *int    `json:"bidones_por_pallet" validate:"omitempty,min=0"`
	BidonesPorPiso   *string `json:"bidones_por_piso"   validate:"omitempty,max=50"`

	UnidadMedida    *string          `json:"unidad_medida"     validate:"omitempty,max=20"`
	PrecioUnitario  *decimal.Decimal `json:"precio_unitario"   validate:"omitempty,min=0"`
	AnosVencimiento *int             `json:"anos_vencimiento"  validate:"omitempty,min=0,max=10"`
	LitrosPorUnidad *decimal.Decimal `json:"litros_por_unidad" validate:"omitempty,min=0"`
	Activo          *bool            `json:"activo"`
}

type ProductoResponse struct {
	ID          uint    `json:"id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`

	FormatoLote    *string        `json:"formato_lote"`
	ClienteID      *uint          `json:"cliente_id"`
	Cliente        *ClienteSimple `json:"cliente,omitempty"`
	TipoProducto   *string        `json:"tipo_producto"`
	ColorBanda     *string        `json:"color_banda"`
	CodigoProducto *string        `json:"codigo_producto"`

	Densidad *decimal.Decimal `json:"densidad"`

	BidonProveedor           *string `json:"bidon_proveedor"`
	BidonDescripcion         *string `json:"bidon_descripcion"`
	TapaProveedor            *string `json:"tapa_proveedor"`
	TapaDescripcion          *string `json:"tapa_descripcion"`
	PalletProveedor          *string `json:"pallet_proveedor"`
	PalletDescripcion        *string `json:"pallet_descripcion"`
	CobertorProveedor        *string `json:"cobertor_proveedor"`
	CobertorDescripcion      *string `json:"cobertor_descripcion"`
	FundaEtiquetaProveedor   *string `json:"funda_etiqueta_proveedor"`
	FundaEtiquetaDescripcion *string `json:"funda_etiqueta_descripcion"`
	EsquineroProveedor       *string `json:"esquinero_proveedor"`
	EsquineroDescripcion     *string `json:"esquinero_descripcion"`

	LitrosPorPallet  *int    `json:"litros_por_pallet"`
	BidonesPorPallet *int    `json:"bidones_por_pallet"`
	BidonesPorPiso   *string `json:"bidones_por_piso"`

	UnidadMedida    string          `json:"unidad_medida"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	AnosVencimiento int             `json:"anos_vencimiento"`
	LitrosPorUnidad decimal.Decimal `json:"litros_por_unidad"`

	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductoList struct {
	Items []ProductoResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
}

// ProductoFilter agrega el filtro por cliente al listado estándar.
type ProductoFilter struct {
	ListQuery
	ClienteID *uint `form:"cliente_id"`
}

// ProductoSimple es la referencia anidada en LoteResponse.
type ProductoSimple struct {
	ID     uint   `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}
