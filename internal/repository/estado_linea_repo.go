package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type EstadoLineaRepository interface {
	Create(ctx context.Context, e *model.EstadoLinea) error
	FindByID(ctx context.Context, id uint) (*model.EstadoLinea, error)
	List(ctx context.Context, filter dto.EstadoLineaFilter) ([]model.EstadoLinea, int64, error)
	// FindDelDia devuelve los estados activos que intersecan el día dado:
	// inician antes del fin del día y terminan después de su inicio (o siguen
	// abiertos).
	FindDelDia(ctx context.Context, desde, hasta time.Time) ([]model.EstadoLinea, error)
	FindAbiertoByLinea(ctx context.Context, lineaID uint) (*model.EstadoLinea, error)
	Update(ctx context.Context, e *model.EstadoLinea) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	NextCodigo(ctx context.Context) (string, error)
	CountLotes(ctx context.Context, estadoLineaID uint) (int64, error)
}

type estadoLineaRepo struct{ db *gorm.DB }

func NewEstadoLineaRepository(db *gorm.DB) EstadoLineaRepository { return &estadoLineaRepo{db: db} }

func (r *estadoLineaRepo) Create(ctx context.Context, e *model.EstadoLinea) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *estadoLineaRepo) FindByID(ctx context.Context, id uint) (*model.EstadoLinea, error) {
	var e model.EstadoLinea
	err := r.db.WithContext(ctx).
		Preload("Sector").Preload("Linea").Preload("Usuario").
		First(&e, id).Error
	return &e, err
}

func (r *estadoLineaRepo) List(ctx context.Context, filter dto.EstadoLineaFilter) ([]model.EstadoLinea, int64, error) {
	var estados []model.EstadoLinea
	var total int64

	q := r.db.WithContext(ctx).Model(&model.EstadoLinea{})
	q = aplicarActivo(q, filter.Activo)

	if filter.SectorID != nil {
		q = q.Where("sector_id = ?", *filter.SectorID)
	}
	if filter.LineaID != nil {
		q = q.Where("linea_id = ?", *filter.LineaID)
	}
	if filter.TipoEstado != "" {
		q = q.Where("tipo_estado = ?", filter.TipoEstado)
	}
	if filter.FechaDesde != nil {
		q = q.Where("fecha_hora_inicio >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("fecha_hora_inicio <= ?", *filter.FechaHasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Preload("Sector").Preload("Linea").Preload("Usuario").
		Order("fecha_hora_inicio DESC").
		Limit(filter.Size).Offset(offset).Find(&estados).Error
	return estados, total, err
}

func (r *estadoLineaRepo) FindDelDia(ctx context.Context, desde, hasta time.Time) ([]model.EstadoLinea, error) {
	var estados []model.EstadoLinea
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Where("fecha_hora_inicio <= ?", hasta).
		Where("fecha_hora_fin IS NULL OR fecha_hora_fin >= ?", desde).
		Preload("Sector").Preload("Linea").Preload("Usuario").
		Order("fecha_hora_inicio ASC").
		Find(&estados).Error
	return estados, err
}

func (r *estadoLineaRepo) FindAbiertoByLinea(ctx context.Context, lineaID uint) (*model.EstadoLinea, error) {
	var e model.EstadoLinea
	err := r.db.WithContext(ctx).
		Where("linea_id = ? AND fecha_hora_fin IS NULL AND activo = true", lineaID).
		Order("fecha_hora_inicio DESC").
		First(&e).Error
	return &e, err
}

func (r *estadoLineaRepo) Update(ctx context.Context, e *model.EstadoLinea) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *estadoLineaRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.EstadoLinea{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *estadoLineaRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.EstadoLinea{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *estadoLineaRepo) NextCodigo(ctx context.Context) (string, error) {
	return nextCodigo(r.db.WithContext(ctx), "estados_linea", PrefijoEstadoLinea)
}

func (r *estadoLineaRepo) CountLotes(ctx context.Context, estadoLineaID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Lote{}).
		Where("estado_linea_id = ? AND activo = true", estadoLineaID).Count(&n).Error
	return n, err
}
