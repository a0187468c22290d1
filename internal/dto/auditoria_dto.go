package dto

import "time"

type AuditLogResponse struct {
	ID                 uint      `json:"id"`
	UsuarioID          *uint     `json:"usuario_id"`
	UsuarioUsername    string    `json:"usuario_username"`
	Accion             string    `json:"accion"`
	AccionLabel        string    `json:"accion_label"`
	Entidad            string    `json:"entidad"`
	EntidadLabel       string    `json:"entidad_label"`
	EntidadID          uint      `json:"entidad_id"`
	EntidadDescripcion *string   `json:"entidad_descripcion"`
	DatosAnteriores    *string   `json:"datos_anteriores"`
	DatosNuevos        *string   `json:"datos_nuevos"`
	FechaHora          time.Time `json:"fecha_hora"`
	IPAddress          *string   `json:"ip_address"`
	UserAgent          *string   `json:"user_agent"`
}

type AuditoriaList struct {
	Items []AuditLogResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
}

// AuditoriaFilter cubre los filtros del visor de auditoría.
type AuditoriaFilter struct {
	Page       int        `form:"page"`
	Size       int        `form:"size"`
	UsuarioID  *uint      `form:"usuario_id"`
	Accion     string     `form:"accion"`
	Entidad    string     `form:"entidad"`
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02T15:04:05Z07:00"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02T15:04:05Z07:00"`
	// Search busca en la descripción de la entidad y el username del actor
	Search string `form:"search"`
}

// UsuarioActividad es una fila del ranking de usuarios más activos.
type UsuarioActividad struct {
	Username  string `json:"username"`
	Registros int64  `json:"registros"`
}

// AuditoriaEstadisticas resume la actividad registrada.
type AuditoriaEstadisticas struct {
	TotalRegistros int64              `json:"total_registros"`
	PorAccion      map[string]int64   `json:"por_accion"`
	PorEntidad     map[string]int64   `json:"por_entidad"`
	TopUsuarios    []UsuarioActividad `json:"top_usuarios"`
}
