package model

import "time"

// Tipos de estado registrables sobre una línea.
const (
	TipoProduccion         = "produccion"
	TipoParadaProgramada   = "parada_programada"
	TipoParadaNoProgramada = "parada_no_programada"
	TipoMantenimiento      = "mantenimiento"
	TipoLimpieza           = "limpieza"
	TipoCambioFormato      = "cambio_formato"
	TipoSinDemanda         = "sin_demanda"
	TipoOtro               = "otro"
)

// TiposEstado preserva el orden de presentación en formularios y timeline.
var TiposEstado = []string{
	TipoProduccion,
	TipoParadaProgramada,
	TipoParadaNoProgramada,
	TipoMantenimiento,
	TipoLimpieza,
	TipoCambioFormato,
	TipoSinDemanda,
	TipoOtro,
}

// TipoEstadoLabels traduce el valor de wire al rótulo visible.
var TipoEstadoLabels = map[string]string{
	TipoProduccion:         "Producción",
	TipoParadaProgramada:   "Parada Programada",
	TipoParadaNoProgramada: "Parada No Programada",
	TipoMantenimiento:      "Mantenimiento",
	TipoLimpieza:           "Limpieza",
	TipoCambioFormato:      "Cambio de Formato",
	TipoSinDemanda:         "Sin Demanda",
	TipoOtro:               "Otro",
}

// EstadoLinea registra un intervalo de estado sobre una línea.
// FechaHoraFin nula significa estado aún abierto ("en curso").
type EstadoLinea struct {
	ID              uint   `gorm:"primaryKey"`
	Codigo          string `gorm:"type:varchar(20);uniqueIndex;not null"`
	SectorID        uint   `gorm:"index;not null"`
	LineaID         uint   `gorm:"index;not null"`
	TipoEstado      string `gorm:"type:varchar(50);index;not null"`
	FechaHoraInicio time.Time
	FechaHoraFin    *time.Time
	// DuracionMinutos se informa o se deriva de (fin - inicio)
	DuracionMinutos *int
	Observaciones   *string `gorm:"type:text"`
	UsuarioID       *uint   `gorm:"index"`
	Activo          bool    `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Sector  *Sector `gorm:"foreignKey:SectorID"`
	Linea   *Linea  `gorm:"foreignKey:LineaID"`
	Usuario *User   `gorm:"foreignKey:UsuarioID"`
}

func (EstadoLinea) TableName() string { return "estados_linea" }
