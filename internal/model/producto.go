package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto describe un producto terminado: identificación comercial, formato
// de lote, envases por proveedor y métricas de palletizado que alimentan los
// cálculos derivados de los lotes (litros totales, fecha de vencimiento).
type Producto struct {
	ID          uint   `gorm:"primaryKey"`
	Codigo      string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Nombre      string `gorm:"type:varchar(200);index;not null"`
	Descripcion *string

	// Formato de lote (ej: AF01-25) — plantilla de numeración sugerida
	FormatoLote *string `gorm:"type:varchar(50)"`

	ClienteID      *uint   `gorm:"index"`
	TipoProducto   *string `gorm:"type:varchar(100)"`
	ColorBanda     *string `gorm:"type:varchar(50)"`
	CodigoProducto *string `gorm:"type:varchar(50);index"`

	Densidad *decimal.Decimal `gorm:"type:decimal(10,4)"`

	// Envases: proveedor + descripción por componente
	BidonProveedor           *string `gorm:"type:varchar(100)"`
	BidonDescripcion         *string `gorm:"type:varchar(200)"`
	TapaProveedor            *string `gorm:"type:varchar(100)"`
	TapaDescripcion          *string `gorm:"type:varchar(200)"`
	PalletProveedor          *string `gorm:"type:varchar(100)"`
	PalletDescripcion        *string `gorm:"type:varchar(200)"`
	CobertorProveedor        *string `gorm:"type:varchar(100)"`
	CobertorDescripcion      *string `gorm:"type:varchar(200)"`
	FundaEtiquetaProveedor   *string `gorm:"type:varchar(100)"`
	FundaEtiquetaDescripcion *string `gorm:"type:varchar(200)"`
	EsquineroProveedor       *string `gorm:"type:varchar(100)"`
	EsquineroDescripcion     *string `gorm:"type:varchar(200)"`

	// Palletizado
	LitrosPorPallet  *int
	BidonesPorPallet *int
	BidonesPorPiso   *string `gorm:"type:varchar(50)"`

	UnidadMedida    string          `gorm:"type:varchar(20);not null;default:'unidad'"`
	PrecioUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AnosVencimiento int             `gorm:"not null;default:2"`
	LitrosPorUnidad decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1"`

	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Producto) TableName() string { return "productos" }
