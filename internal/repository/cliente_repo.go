package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uint) (*model.Cliente, error)
	FindByCUIT(ctx context.Context, cuit string) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ListQuery) ([]model.Cliente, int64, error)
	ListActivos(ctx context.Context) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	NextCodigo(ctx context.Context) (string, error)
	CountProductosActivos(ctx context.Context, clienteID uint) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uint) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindByCUIT(ctx context.Context, cuit string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("cuit = ?", cuit).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ListQuery) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	q = aplicarActivo(q, filter.Activo)

	if filter.Search != "" {
		q = q.Where("nombre ILIKE ? OR razon_social ILIKE ? OR cuit ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Order("nombre ASC").Limit(filter.Size).Offset(offset).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) ListActivos(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *clienteRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *clienteRepo) NextCodigo(ctx context.Context) (string, error) {
	return nextCodigo(r.db.WithContext(ctx), "clientes", PrefijoCliente)
}

func (r *clienteRepo) CountProductosActivos(ctx context.Context, clienteID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("cliente_id = ? AND activo = true", clienteID).Count(&n).Error
	return n, err
}
