package model

import "time"

// Linea es una línea de producción; pertenece siempre a un sector.
type Linea struct {
	ID          uint   `gorm:"primaryKey"`
	Codigo      string `gorm:"type:varchar(20);uniqueIndex;not null"`
	Nombre      string `gorm:"type:varchar(100);index;not null"`
	Descripcion *string
	SectorID    uint `gorm:"index;not null"`
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sector *Sector `gorm:"foreignKey:SectorID"`
}

func (Linea) TableName() string { return "lineas" }
