package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

type LineaService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearLineaRequest) (*dto.LineaResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.LineaResponse, error)
	Listar(ctx context.Context, filter dto.LineaFilter) (dto.LineaList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarLineaRequest) (*dto.LineaResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error
}

type lineaService struct {
	repo    repository.LineaRepository
	sectores repository.SectorRepository
	audit   AuditService
}

func NewLineaService(repo repository.LineaRepository, sectores repository.SectorRepository, audit AuditService) LineaService {
	return &lineaService{repo: repo, sectores: sectores, audit: audit}
}

func mapLinea(l *model.Linea) *dto.LineaResponse {
	resp := &dto.LineaResponse{
		ID:          l.ID,
		Codigo:      l.Codigo,
		Nombre:      l.Nombre,
		Descripcion: l.Descripcion,
		SectorID:    l.SectorID,
		Activo:      l.Activo,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Sector != nil {
		resp.Sector = &dto.SectorSimple{ID: l.Sector.ID, Nombre: l.Sector.Nombre}
	}
	return resp
}

func snapshotLinea(l *model.Linea) map[string]interface{} {
	return map[string]interface{}{
		"nombre":      l.Nombre,
		"descripcion": l.Descripcion,
		"sector_id":   l.SectorID,
		"activo":      l.Activo,
	}
}

func (s *lineaService) Crear(ctx context.Context, actor Actor, req dto.CrearLineaRequest) (*dto.LineaResponse, error) {
	sector, err := s.sectores.FindByID(ctx, req.SectorID)
	if err != nil || !sector.Activo {
		return nil, errors.New("sector no encontrado o inactivo")
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	linea := &model.Linea{
		Codigo:      codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		SectorID:    req.SectorID,
		Activo:      true,
	}
	if req.Activo != nil {
		linea.Activo = *req.Activo
	}
	if err := s.repo.Create(ctx, linea); err != nil {
		return nil, err
	}
	linea.Sector = sector

	s.audit.Crear(ctx, actor, "linea", linea.ID, linea.Nombre, snapshotLinea(linea))
	return mapLinea(linea), nil
}

func (s *lineaService) Obtener(ctx context.Context, id uint) (*dto.LineaResponse, error) {
	linea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("línea no encontrada")
	}
	return mapLinea(linea), nil
}

func (s *lineaService) Listar(ctx context.Context, filter dto.LineaFilter) (dto.LineaList, error) {
	filter.Normalizar()
	lineas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LineaList{}, err
	}
	items := make([]dto.LineaResponse, 0, len(lineas))
	for i := range lineas {
		items = append(items, *mapLinea(&lineas[i]))
	}
	return dto.LineaList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *lineaService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarLineaRequest) (*dto.LineaResponse, error) {
	linea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("línea no encontrada")
		}
		return nil, err
	}

	antes := snapshotLinea(linea)

	if req.SectorID != nil && *req.SectorID != linea.SectorID {
		sector, err := s.sectores.FindByID(ctx, *req.SectorID)
		if err != nil || !sector.Activo {
			return nil, errors.New("sector no encontrado o inactivo")
		}
		linea.SectorID = *req.SectorID
		linea.Sector = sector
	}
	if req.Nombre != nil {
		linea.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		linea.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		linea.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, linea); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "linea", linea.ID, linea.Nombre, antes, snapshotLinea(linea))
	return mapLinea(linea), nil
}

func (s *lineaService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	linea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("línea no encontrada")
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "linea", id, linea.Nombre, snapshotLinea(linea))
	return nil
}

func (s *lineaService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	linea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("línea no encontrada")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotLinea(linea)
	linea.Activo = true
	s.audit.Editar(ctx, actor, "linea", id, linea.Nombre, antes, snapshotLinea(linea))
	return nil
}
