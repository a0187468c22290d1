package dto

import "time"

type CrearEstadoLineaRequest struct {
	SectorID        uint       `json:"sector_id"         validate:"required"`
	LineaID         uint       `json:"linea_id"          validate:"required"`
	TipoEstado      string     `json:"tipo_estado"       validate:"required,oneof=produccion parada_programada parada_no_programada mantenimiento limpieza cambio_formato sin_demanda otro"`
	FechaHoraInicio time.Time  `json:"fecha_hora_inicio" validate:"required"`
	FechaHoraFin    *time.Time `json:"fecha_hora_fin"`
	DuracionMinutos *int       `json:"duracion_minutos"  validate:"omitempty,min=0"`
	Observaciones   *string    `json:"observaciones"`
	Activo          *bool      `json:"activo"`
}

type ActualizarEstadoLineaRequest struct {
	SectorID        *uint      `json:"sector_id"`
	LineaID         *uint      `json:"linea_id"`
	TipoEstado      *string    `json:"tipo_estado" validate:"omitempty,oneof=produccion parada_programada parada_no_programada mantenimiento limpieza cambio_formato sin_demanda otro"`
	FechaHoraInicio *time.Time `json:"fecha_hora_inicio"`
	FechaHoraFin    *time.Time `json:"fecha_hora_fin"`
	DuracionMinutos *int       `json:"duracion_minutos" validate:"omitempty,min=0"`
	Observaciones   *string    `json:"observaciones"`
	Activo          *bool      `json:"activo"`
}

type EstadoLineaResponse struct {
	ID              uint          `json:"id"`
	Codigo          string        `json:"codigo"`
	SectorID        uint          `json:"sector_id"`
	LineaID         uint          `json:"linea_id"`
	TipoEstado      string        `json:"tipo_estado"`
	TipoEstadoLabel string        `json:"tipo_estado_label"`
	FechaHoraInicio time.Time     `json:"fecha_hora_inicio"`
	FechaHoraFin    *time.Time    `json:"fecha_hora_fin"`
	DuracionMinutos *int          `json:"duracion_minutos"`
	Observaciones   *string       `json:"observaciones"`
	Sector          *SectorSimple `json:"sector,omitempty"`
	Linea           *LineaSimple  `json:"linea,omitempty"`
	Usuario         *UsuarioSimple `json:"usuario,omitempty"`
	Activo          bool          `json:"activo"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// UsuarioSimple es la referencia anidada al usuario que registró un dato.
type UsuarioSimple struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

type EstadoLineaList struct {
	Items []EstadoLineaResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Size  int                   `json:"size"`
	Pages int                   `json:"pages"`
}

// EstadoLineaFilter cubre los filtros del listado de estados.
type EstadoLineaFilter struct {
	Page       int        `form:"page"`
	Size       int        `form:"size"`
	SectorID   *uint      `form:"sector_id"`
	LineaID    *uint      `form:"linea_id"`
	TipoEstado string     `form:"tipo_estado"`
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02T15:04:05Z07:00"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02T15:04:05Z07:00"`
	Activo     string     `form:"activo"`
}

type TipoEstadoOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ─── Timeline ────────────────────────────────────────────────────────────────

type TimelineLinea struct {
	ID      uint                  `json:"id"`
	Nombre  string                `json:"nombre"`
	Estados []EstadoLineaResponse `json:"estados"`
}

type TimelineSector struct {
	ID     uint            `json:"id"`
	Nombre string          `json:"nombre"`
	Lineas []TimelineLinea `json:"lineas"`
}

// TimelineResponse agrupa los estados del día por sector y línea, además de
// la lista plana y el catálogo de tipos para la leyenda.
type TimelineResponse struct {
	Fecha       string                `json:"fecha"`
	Sectores    []TimelineSector      `json:"sectores"`
	Estados     []EstadoLineaResponse `json:"estados"`
	TiposEstado []TipoEstadoOption    `json:"tipos_estado"`
}
