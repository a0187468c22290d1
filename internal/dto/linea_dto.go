package dto

import "time"

type CrearLineaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=1,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
	SectorID    uint    `json:"sector_id"   validate:"required"`
	Activo      *bool   `json:"activo"`
}

type ActualizarLineaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=1,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
	SectorID    *uint   `json:"sector_id"`
	Activo      *bool   `json:"activo"`
}

type LineaResponse struct {
	ID          uint          `json:"id"`
	Codigo      string        `json:"codigo"`
	Nombre      string        `json:"nombre"`
	Descripcion *string       `json:"descripcion"`
	SectorID    uint          `json:"sector_id"`
	Sector      *SectorSimple `json:"sector,omitempty"`
	Activo      bool          `json:"activo"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type LineaList struct {
	Items []LineaResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Pages int             `json:"pages"`
}

// LineaFilter agrega el filtro por sector al listado estándar.
type LineaFilter struct {
	ListQuery
	SectorID *uint `form:"sector_id"`
}

// LineaSimple es la referencia anidada en otras respuestas.
type LineaSimple struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
}
