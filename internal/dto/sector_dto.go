package dto

import "time"

type CrearSectorRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=1,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
	Activo      *bool   `json:"activo"`
}

type ActualizarSectorRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=1,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
	Activo      *bool   `json:"activo"`
}

type SectorResponse struct {
	ID          uint      `json:"id"`
	Codigo      string    `json:"codigo"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SectorList struct {
	Items []SectorResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Pages int              `json:"pages"`
}

// SectorSimple es la referencia anidada en otras respuestas.
type SectorSimple struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
}
