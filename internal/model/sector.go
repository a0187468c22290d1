package model

import "time"

// Sector agrupa las líneas de producción de la planta.
type Sector struct {
	ID          uint   `gorm:"primaryKey"`
	Codigo      string `gorm:"type:varchar(20);uniqueIndex;not null"`
	Nombre      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lineas []Linea `gorm:"foreignKey:SectorID"`
}

func (Sector) TableName() string { return "sectores" }
