package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type LineaRepository interface {
	Create(ctx context.Context, l *model.Linea) error
	FindByID(ctx context.Context, id uint) (*model.Linea, error)
	List(ctx context.Context, filter dto.LineaFilter) ([]model.Linea, int64, error)
	ListActivasBySector(ctx context.Context, sectorID uint) ([]model.Linea, error)
	Update(ctx context.Context, l *model.Linea) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	NextCodigo(ctx context.Context) (string, error)
}

type lineaRepo struct{ db *gorm.DB }

func NewLineaRepository(db *gorm.DB) LineaRepository { return &lineaRepo{db: db} }

func (r *lineaRepo) Create(ctx context.Context, l *model.Linea) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lineaRepo) FindByID(ctx context.Context, id uint) (*model.Linea, error) {
	var l model.Linea
	err := r.db.WithContext(ctx).Preload("Sector").First(&l, id).Error
	return &l, err
}

func (r *lineaRepo) List(ctx context.Context, filter dto.LineaFilter) ([]model.Linea, int64, error) {
	var lineas []model.Linea
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Linea{})
	q = aplicarActivo(q, filter.Activo)

	if filter.SectorID != nil {
		q = q.Where("sector_id = ?", *filter.SectorID)
	}
	if filter.Search != "" {
		q = q.Where("nombre ILIKE ? OR codigo ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Preload("Sector").Order("nombre ASC").Limit(filter.Size).Offset(offset).Find(&lineas).Error
	return lineas, total, err
}

func (r *lineaRepo) ListActivasBySector(ctx context.Context, sectorID uint) ([]model.Linea, error) {
	var lineas []model.Linea
	err := r.db.WithContext(ctx).
		Where("sector_id = ? AND activo = true", sectorID).
		Order("nombre ASC").Find(&lineas).Error
	return lineas, err
}

func (r *lineaRepo) Update(ctx context.Context, l *model.Linea) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lineaRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Linea{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *lineaRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Linea{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *lineaRepo) NextCodigo(ctx context.Context) (string, error) {
	return nextCodigo(r.db.WithContext(ctx), "lineas", PrefijoLinea)
}
