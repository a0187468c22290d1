package model

import "time"

// Cliente es el destinatario comercial de un producto.
type Cliente struct {
	ID          uint    `gorm:"primaryKey"`
	Codigo      string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Nombre      string  `gorm:"type:varchar(200);index;not null"`
	RazonSocial *string `gorm:"type:varchar(200)"`
	CUIT        *string `gorm:"column:cuit;type:varchar(20);uniqueIndex"`
	Direccion   *string `gorm:"type:varchar(300)"`
	Telefono    *string `gorm:"type:varchar(50)"`
	Email       *string `gorm:"type:varchar(100)"`
	Contacto    *string `gorm:"type:varchar(100)"`
	Activo      bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Cliente) TableName() string { return "clientes" }
