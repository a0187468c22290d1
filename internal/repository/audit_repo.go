package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

type AuditRepository interface {
	Create(ctx context.Context, a *model.AuditLog) error
	FindByID(ctx context.Context, id uint) (*model.AuditLog, error)
	List(ctx context.Context, filter dto.AuditoriaFilter) ([]model.AuditLog, int64, error)
	Estadisticas(ctx context.Context) (dto.AuditoriaEstadisticas, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, a *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *auditRepo) FindByID(ctx context.Context, id uint) (*model.AuditLog, error) {
	var a model.AuditLog
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *auditRepo) List(ctx context.Context, filter dto.AuditoriaFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *filter.UsuarioID)
	}
	if filter.Accion != "" {
		q = q.Where("accion = ?", filter.Accion)
	}
	if filter.Entidad != "" {
		q = q.Where("entidad = ?", filter.Entidad)
	}
	if filter.FechaDesde != nil {
		q = q.Where("fecha_hora >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("fecha_hora <= ?", *filter.FechaHasta)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("entidad_descripcion ILIKE ? OR usuario_username ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Size
	err := q.Order("fecha_hora DESC").Limit(filter.Size).Offset(offset).Find(&logs).Error
	return logs, total, err
}

func (r *auditRepo) Estadisticas(ctx context.Context) (dto.AuditoriaEstadisticas, error) {
	stats := dto.AuditoriaEstadisticas{
		PorAccion:  make(map[string]int64),
		PorEntidad: make(map[string]int64),
	}

	if err := r.db.WithContext(ctx).Model(&model.AuditLog{}).Count(&stats.TotalRegistros).Error; err != nil {
		return stats, err
	}

	type grupo struct {
		Clave string
		N     int64
	}

	var porAccion []grupo
	if err := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Select("accion AS clave, COUNT(*) AS n").Group("accion").Scan(&porAccion).Error; err != nil {
		return stats, err
	}
	for _, g := range porAccion {
		stats.PorAccion[g.Clave] = g.N
	}

	var porEntidad []grupo
	if err := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Select("entidad AS clave, COUNT(*) AS n").Group("entidad").Scan(&porEntidad).Error; err != nil {
		return stats, err
	}
	for _, g := range porEntidad {
		stats.PorEntidad[g.Clave] = g.N
	}

	var top []grupo
	if err := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Select("usuario_username AS clave, COUNT(*) AS n").
		Group("usuario_username").Order("n DESC").Limit(5).Scan(&top).Error; err != nil {
		return stats, err
	}
	for _, g := range top {
		stats.TopUsuarios = append(stats.TopUsuarios, dto.UsuarioActividad{Username: g.Clave, Registros: g.N})
	}

	return stats, nil
}
