package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	FindByID(ctx context.Context, id uint) (*model.Lote, error)
	List(ctx context.Context, filter dto.LoteFilter) ([]model.Lote, int64, error)
	// FindUltimoByProducto devuelve el lote activo más reciente del producto,
	// por fecha de producción y desempate por id.
	FindUltimoByProducto(ctx context.Context, productoID uint) (*model.Lote, error)
	ExisteNumero(ctx context.Context, productoID uint, numeroLote string, excluirID uint) (bool, error)
	// Historial pagina lotes con joins a producto y cliente según los filtros
	// del libro de producción.
	Historial(ctx context.Context, filter dto.HistorialFilter) ([]model.Lote, int64, error)
	HistorialEstadisticas(ctx context.Context, filter dto.HistorialFilter) (dto.HistorialEstadisticas, error)
	// FindPorVencer devuelve lotes activos cuya fecha de vencimiento cae
	// dentro de la ventana [hoy, hoy+dias].
	FindPorVencer(ctx context.Context, hoy time.Time, dias int) ([]model.Lote, error)
	Update(ctx context.Context, l *model.Lote) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	NextCodigo(ctx context.Context) (string, error)
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uint) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("Producto.Cliente").
		Preload("EstadoLinea").Preload("Usuario").
		First(&l, id).Error
	return &l, err
}

func (r *loteRepo) List(ctx context.Context, filter dto.LoteFilter) ([]model.Lote, int64, error) {
	var lotes []model.Lote
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Lote{})
	q = aplicarActivo(q, filter.Activo)

	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.EstadoLineaID != nil {
		q = q.Where("estado_linea_id = ?", *filter.EstadoLineaID)
	}
	if filter.Search != "" {
		q = q.Where("numero_lote ILIKE ? OR codigo ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Preload("Producto").Preload("Usuario").
		Order("fecha_produccion DESC, id DESC").
		Limit(filter.Size).Offset(offset).Find(&lotes).Error
	return lotes, total, err
}

func (r *loteRepo) FindUltimoByProducto(ctx context.Context, productoID uint) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND activo = true", productoID).
		Order("fecha_produccion DESC, id DESC").
		First(&l).Error
	return &l, err
}

func (r *loteRepo) ExisteNumero(ctx context.Context, productoID uint, numeroLote string, excluirID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Lote{}).
		Where("producto_id = ? AND numero_lote = ? AND activo = true", productoID, numeroLote)
	if excluirID != 0 {
		q = q.Where("id <> ?", excluirID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func historialQuery(q *gorm.DB, filter dto.HistorialFilter) *gorm.DB {
	switch filter.Activo {
	case "false":
		q = q.Where("lotes.activo = false")
	case "all":
	default:
		q = q.Where("lotes.activo = true")
	}

	if filter.ProductoID != nil {
		q = q.Where("lotes.producto_id = ?", *filter.ProductoID)
	}
	if filter.ClienteID != nil {
		q = q.Joins("JOIN productos ON productos.id = lotes.producto_id").
			Where("productos.cliente_id = ?", *filter.ClienteID)
	}
	if filter.FechaDesde != nil {
		q = q.Where("lotes.fecha_produccion >= ?", filter.FechaDesde.Time)
	}
	if filter.FechaHasta != nil {
		q = q.Where("lotes.fecha_produccion <= ?", filter.FechaHasta.Time)
	}
	if filter.NumeroLote != "" {
		q = q.Where("lotes.numero_lote ILIKE ?", "%"+filter.NumeroLote+"%")
	}
	if filter.Search != "" {
		q = q.Where("lotes.numero_lote ILIKE ? OR lotes.codigo ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return q
}

// historialOrden traduce el par ordenar_por/orden a una cláusula segura.
// Cualquier valor fuera de la lista blanca cae al orden por defecto.
func historialOrden(filter dto.HistorialFilter) string {
	col := "lotes.fecha_produccion"
	switch filter.OrdenarPor {
	case "numero_lote":
		col = "lotes.numero_lote"
	case "litros_totales":
		col = "lotes.litros_totales"
	case "created_at":
		col = "lotes.created_at"
	case "", "fecha_produccion":
	default:
	}
	dir := "DESC"
	if filter.Orden == "asc" {
		dir = "ASC"
	}
	return col + " " + dir + ", lotes.id DESC"
}

func (r *loteRepo) Historial(ctx context.Context, filter dto.HistorialFilter) ([]model.Lote, int64, error) {
	var lotes []model.Lote
	var total int64

	q := historialQuery(r.db.WithContext(ctx).Model(&model.Lote{}), filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Preload("Producto").Preload("Producto.Cliente").Preload("Usuario").
		Order(historialOrden(filter)).
		Limit(filter.Size).Offset(offset).Find(&lotes).Error
	return lotes, total, err
}

func (r *loteRepo) HistorialEstadisticas(ctx context.Context, filter dto.HistorialFilter) (dto.HistorialEstadisticas, error) {
	var row struct {
		TotalLotes         int64
		TotalLitros        decimal.Decimal
		TotalPallets       int64
		ProductosDistintos int64
	}
	q := historialQuery(r.db.WithContext(ctx).Model(&model.Lote{}), filter)
	err := q.Select(
		"COUNT(*) AS total_lotes, " +
			"COALESCE(SUM(lotes.litros_totales), 0) AS total_litros, " +
			"COALESCE(SUM(lotes.pallets), 0) AS total_pallets, " +
			"COUNT(DISTINCT lotes.producto_id) AS productos_distintos",
	).Scan(&row).Error
	return dto.HistorialEstadisticas{
		TotalLotes:         row.TotalLotes,
		TotalLitros:        row.TotalLitros,
		TotalPallets:       row.TotalPallets,
		ProductosDistintos: row.ProductosDistintos,
	}, err
}

func (r *loteRepo) FindPorVencer(ctx context.Context, hoy time.Time, dias int) ([]model.Lote, error) {
	var lotes []model.Lote
	limite := hoy.AddDate(0, 0, dias)
	err := r.db.WithContext(ctx).
		Where("activo = true AND fecha_vencimiento IS NOT NULL").
		Where("fecha_vencimiento BETWEEN ? AND ?", hoy, limite).
		Preload("Producto").
		Order("fecha_vencimiento ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) Update(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *loteRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Lote{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *loteRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Lote{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *loteRepo) NextCodigo(ctx context.Context) (string, error) {
	return nextCodigo(r.db.WithContext(ctx), "lotes", PrefijoLote)
}
