package model

import "time"

// Acciones auditables.
const (
	AccionCrear    = "crear"
	AccionEditar   = "editar"
	AccionEliminar = "eliminar"
)

// AccionLabels traduce la acción al rótulo visible.
var AccionLabels = map[string]string{
	AccionCrear:    "Creación",
	AccionEditar:   "Edición",
	AccionEliminar: "Eliminación",
}

// EntidadLabels traduce el tipo de entidad auditada al rótulo visible.
var EntidadLabels = map[string]string{
	"sector":       "Sector",
	"linea":        "Línea",
	"producto":     "Producto",
	"cliente":      "Cliente",
	"estado_linea": "Estado de Línea",
	"lote":         "Lote",
	"usuario":      "Usuario",
}

// AuditLog es un registro append-only de operaciones de escritura.
// UsuarioID nulo significa acción del sistema. Los snapshots anteriores y
// nuevos se guardan como JSON serializado.
type AuditLog struct {
	ID uint `gorm:"primaryKey"`

	UsuarioID       *uint  `gorm:"index"`
	UsuarioUsername string `gorm:"type:varchar(100)"`

	Accion string `gorm:"type:varchar(20);index;not null"`

	Entidad            string  `gorm:"type:varchar(50);index;not null"`
	EntidadID          uint    `gorm:"not null"`
	EntidadDescripcion *string `gorm:"type:varchar(255)"`

	DatosAnteriores *string `gorm:"type:text"`
	DatosNuevos     *string `gorm:"type:text"`

	FechaHora time.Time `gorm:"index;not null"`
	IPAddress *string   `gorm:"type:varchar(45)"`
	UserAgent *string   `gorm:"type:varchar(255)"`

	Usuario *User `gorm:"foreignKey:UsuarioID"`
}

func (AuditLog) TableName() string { return "audit_logs" }
