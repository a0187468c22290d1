package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lote es una partida de producción de un producto, opcionalmente ligada al
// estado de línea (tipo producción) que la originó.
type Lote struct {
	ID     uint   `gorm:"primaryKey"`
	Codigo string `gorm:"type:varchar(20);uniqueIndex;not null"`

	// Número de lote visible al operador (ej: "2024001", "L-001")
	NumeroLote string `gorm:"type:varchar(50);index;not null"`

	ProductoID    uint  `gorm:"index;not null"`
	EstadoLineaID *uint `gorm:"index"`

	Pallets           int `gorm:"not null;default:0"`
	Parciales         int `gorm:"not null;default:0"`
	UnidadesPorPallet int `gorm:"not null;default:1"`

	LitrosTotales decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`

	FechaProduccion  time.Time `gorm:"type:date;index;not null"`
	FechaVencimiento *time.Time `gorm:"type:date"`

	// Trazabilidad externa (SENASA)
	LinkSenasa    *string `gorm:"type:varchar(500)"`
	Observaciones *string `gorm:"type:text"`

	UsuarioID *uint `gorm:"index"`
	Activo    bool  `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Producto    *Producto    `gorm:"foreignKey:ProductoID"`
	EstadoLinea *EstadoLinea `gorm:"foreignKey:EstadoLineaID"`
	Usuario     *User        `gorm:"foreignKey:UsuarioID"`
}

func (Lote) TableName() string { return "lotes" }
