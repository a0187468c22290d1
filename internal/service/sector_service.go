package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

type SectorService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearSectorRequest) (*dto.SectorResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.SectorResponse, error)
	Listar(ctx context.Context, filter dto.ListQuery) (dto.SectorList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarSectorRequest) (*dto.SectorResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error
}

type sectorService struct {
	repo  repository.SectorRepository
	audit AuditService
}

func NewSectorService(repo repository.SectorRepository, audit AuditService) SectorService {
	return &sectorService{repo: repo, audit: audit}
}

func mapSector(s *model.Sector) *dto.SectorResponse {
	return &dto.SectorResponse{
		ID:          s.ID,
		Codigo:      s.Codigo,
		Nombre:      s.Nombre,
		Descripcion: s.Descripcion,
		Activo:      s.Activo,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func snapshotSector(s *model.Sector) map[string]interface{} {
	return map[string]interface{}{
		"nombre":      s.Nombre,
		"descripcion": s.Descripcion,
		"activo":      s.Activo,
	}
}

func (s *sectorService) Crear(ctx context.Context, actor Actor, req dto.CrearSectorRequest) (*dto.SectorResponse, error) {
	existente, err := s.repo.FindByNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existente != nil {
		return nil, errors.New("ya existe un sector con ese nombre")
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	sector := &model.Sector{
		Codigo:      codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if req.Activo != nil {
		sector.Activo = *req.Activo
	}
	if err := s.repo.Create(ctx, sector); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "sector", sector.ID, sector.Nombre, snapshotSector(sector))
	return mapSector(sector), nil
}

func (s *sectorService) Obtener(ctx context.Context, id uint) (*dto.SectorResponse, error) {
	sector, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sector no encontrado")
	}
	return mapSector(sector), nil
}

func (s *sectorService) Listar(ctx context.Context, filter dto.ListQuery) (dto.SectorList, error) {
	filter.Normalizar()
	sectores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SectorList{}, err
	}
	items := make([]dto.SectorResponse, 0, len(sectores))
	for i := range sectores {
		items = append(items, *mapSector(&sectores[i]))
	}
	return dto.SectorList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *sectorService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarSectorRequest) (*dto.SectorResponse, error) {
	sector, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("sector no encontrado")
		}
		return nil, err
	}

	antes := snapshotSector(sector)

	if req.Nombre != nil && *req.Nombre != sector.Nombre {
		existente, err := s.repo.FindByNombre(ctx, *req.Nombre)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existente != nil && existente.ID != id {
			return nil, errors.New("ya existe un sector con ese nombre")
		}
		sector.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		sector.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		sector.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, sector); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "sector", sector.ID, sector.Nombre, antes, snapshotSector(sector))
	return mapSector(sector), nil
}

func (s *sectorService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	sector, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("sector no encontrado")
		}
		return err
	}

	// A sector with active lines cannot be deactivated
	lineas, err := s.repo.CountLineasActivas(ctx, id)
	if err != nil {
		return err
	}
	if lineas > 0 {
		return errors.New("el sector tiene líneas activas asociadas")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "sector", id, sector.Nombre, snapshotSector(sector))
	return nil
}

func (s *sectorService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	sector, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("sector no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotSector(sector)
	sector.Activo = true
	s.audit.Editar(ctx, actor, "sector", id, sector.Nombre, antes, snapshotSector(sector))
	return nil
}
