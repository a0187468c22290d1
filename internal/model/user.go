package model

import "time"

// Roles del sistema. Solo "admin" accede a usuarios y auditoría.
const (
	RolAdmin    = "admin"
	RolOperador = "operador"
)

// Role agrupa permisos por nombre.
type Role struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description *string `gorm:"type:varchar(200)"`
}

func (Role) TableName() string { return "roles" }

// User es un usuario del sistema con acceso por rol.
type User struct {
	ID             uint    `gorm:"primaryKey"`
	Codigo         string  `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email          string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username       string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	HashedPassword string  `gorm:"type:varchar(255);not null"`
	FullName       *string `gorm:"type:varchar(200)"`
	IsActive       bool    `gorm:"not null;default:true"`
	RoleID         uint    `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Role *Role `gorm:"foreignKey:RoleID"`
}

func (User) TableName() string { return "users" }

// EsAdmin indica si el usuario tiene rol administrador.
func (u *User) EsAdmin() bool {
	return u.Role != nil && u.Role.Name == RolAdmin
}
