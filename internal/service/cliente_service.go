package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

type ClienteService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ListQuery) (dto.ClienteList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error
}

type clienteService struct {
	repo  repository.ClienteRepository
	audit AuditService
}

func NewClienteService(repo repository.ClienteRepository, audit AuditService) ClienteService {
	return &clienteService{repo: repo, audit: audit}
}

func mapCliente(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:          c.ID,
		Codigo:      c.Codigo,
		Nombre:      c.Nombre,
		RazonSocial: c.RazonSocial,
		CUIT:        c.CUIT,
		Direccion:   c.Direccion,
		Telefono:    c.Telefono,
		Email:       c.Email,
		Contacto:    c.Contacto,
		Activo:      c.Activo,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func snapshotCliente(c *model.Cliente) map[string]interface{} {
	return map[string]interface{}{
		"nombre":       c.Nombre,
		"razon_social": c.RazonSocial,
		"cuit":         c.CUIT,
		"direccion":    c.Direccion,
		"telefono":     c.Telefono,
		"email":        c.Email,
		"contacto":     c.Contacto,
		"activo":       c.Activo,
	}
}

func (s *clienteService) Crear(ctx context.Context, actor Actor, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if req.CUIT != nil && *req.CUIT != "" {
		existente, err := s.repo.FindByCUIT(ctx, *req.CUIT)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existente != nil {
			return nil, errors.New("ya existe un cliente con ese CUIT")
		}
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	cliente := &model.Cliente{
		Codigo:      codigo,
		Nombre:      req.Nombre,
		RazonSocial: req.RazonSocial,
		CUIT:        req.CUIT,
		Direccion:   req.Direccion,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Contacto:    req.Contacto,
		Activo:      true,
	}
	if req.Activo != nil {
		cliente.Activo = *req.Activo
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "cliente", cliente.ID, cliente.Nombre, snapshotCliente(cliente))
	return mapCliente(cliente), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return mapCliente(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ListQuery) (dto.ClienteList, error) {
	filter.Normalizar()
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ClienteList{}, err
	}
	items := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		items = append(items, *mapCliente(&clientes[i]))
	}
	return dto.ClienteList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cliente no encontrado")
		}
		return nil, err
	}

	antes := snapshotCliente(cliente)

	if req.CUIT != nil && *req.CUIT != "" && (cliente.CUIT == nil || *req.CUIT != *cliente.CUIT) {
		existente, err := s.repo.FindByCUIT(ctx, *req.CUIT)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existente != nil && existente.ID != id {
			return nil, errors.New("ya existe un cliente con ese CUIT")
		}
	}

	if req.Nombre != nil {
		cliente.Nombre = *req.Nombre
	}
	if req.RazonSocial != nil {
		cliente.RazonSocial = req.RazonSocial
	}
	if req.CUIT != nil {
		cliente.CUIT = req.CUIT
	}
	if req.Direccion != nil {
		cliente.Direccion = req.Direccion
	}
	if req.Telefono != nil {
		cliente.Telefono = req.Telefono
	}
	if req.Email != nil {
		cliente.Email = req.Email
	}
	if req.Contacto != nil {
		cliente.Contacto = req.Contacto
	}
	if req.Activo != nil {
		cliente.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "cliente", cliente.ID, cliente.Nombre, antes, snapshotCliente(cliente))
	return mapCliente(cliente), nil
}

func (s *clienteService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cliente no encontrado")
		}
		return err
	}

	productos, err := s.repo.CountProductosActivos(ctx, id)
	if err != nil {
		return err
	}
	if productos > 0 {
		return errors.New("el cliente tiene productos activos asociados")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "cliente", id, cliente.Nombre, snapshotCliente(cliente))
	return nil
}

func (s *clienteService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cliente no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotCliente(cliente)
	cliente.Activo = true
	s.audit.Editar(ctx, actor, "cliente", id, cliente.Nombre, antes, snapshotCliente(cliente))
	return nil
}
