package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

// SectorRepository defines the data access contract for sectors.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type SectorRepository interface {
	Create(ctx context.Context, s *model.Sector) error
	FindByID(ctx context.Context, id uint) (*model.Sector, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Sector, error)
	List(ctx context.Context, filter dto.ListQuery) ([]model.Sector, int64, error)
	ListActivos(ctx context.Context) ([]model.Sector, error)
	Update(ctx context.Context, s *model.Sector) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	NextCodigo(ctx context.Context) (string, error)
	CountLineasActivas(ctx context.Context, sectorID uint) (int64, error)
}

type sectorRepo struct{ db *gorm.DB }

func NewSectorRepository(db *gorm.DB) SectorRepository { return &sectorRepo{db: db} }

func (r *sectorRepo) Create(ctx context.Context, s *model.Sector) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sectorRepo) FindByID(ctx context.Context, id uint) (*model.Sector, error) {
	var s model.Sector
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *sectorRepo) FindByNombre(ctx context.Context, nombre string) (*model.Sector, error) {
	var s model.Sector
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&s).Error
	return &s, err
}

func (r *sectorRepo) List(ctx context.Context, filter dto.ListQuery) ([]model.Sector, int64, error) {
	var sectores []model.Sector
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sector{})
	q = aplicarActivo(q, filter.Activo)

	if filter.Search != "" {
		q = q.Where("nombre ILIKE ? OR codigo ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Order("nombre ASC").Limit(filter.Size).Offset(offset).Find(&sectores).Error
	return sectores, total, err
}

func (r *sectorRepo) ListActivos(ctx context.Context) ([]model.Sector, error) {
	var sectores []model.Sector
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&sectores).Error
	return sectores, err
}

func (r *sectorRepo) Update(ctx context.Context, s *model.Sector) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sectorRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Sector{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *sectorRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Sector{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *sectorRepo) NextCodigo(ctx context.Context) (string, error) {
	return nextCodigo(r.db.WithContext(ctx), "sectores", PrefijoSector)
}

func (r *sectorRepo) CountLineasActivas(ctx context.Context, sectorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Linea{}).
		Where("sector_id = ? AND activo = true", sectorID).Count(&n).Error
	return n, err
}

// aplicarActivo resuelve el filtro de estado compartido por los listados:
// "false" = inactivos, "all" = todos, cualquier otro valor = activos.
func aplicarActivo(q *gorm.DB, activo string) *gorm.DB {
	switch activo {
	case "false":
		return q.Where("activo = false")
	case "all":
		return q
	default:
		return q.Where("activo = true")
	}
}
