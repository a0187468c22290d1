package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

// UserService son las operaciones de administración de usuarios (solo admin).
type UserService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearUsuarioRequest) (*dto.UserResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.UserResponse, error)
	Listar(ctx context.Context, filter dto.ListQuery) (dto.UserList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarUsuarioRequest) (*dto.UserResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error
	ListarRoles(ctx context.Context) ([]dto.RoleResponse, error)
}

type userService struct {
	repo  repository.UserRepository
	audit AuditService
}

func NewUserService(repo repository.UserRepository, audit AuditService) UserService {
	return &userService{repo: repo, audit: audit}
}

func snapshotUser(u *model.User) map[string]interface{} {
	return map[string]interface{}{
		"email":     u.Email,
		"username":  u.Username,
		"full_name": u.FullName,
		"is_active": u.IsActive,
		"role_id":   u.RoleID,
	}
}

func (s *userService) Crear(ctx context.Context, actor Actor, req dto.CrearUsuarioRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.FindRoleByID(ctx, req.RoleID); err != nil {
		return nil, errors.New("rol no encontrado")
	}
	if existente, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existente != nil {
		return nil, errors.New("ya existe un usuario con ese email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Codigo:         codigo,
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: string(hash),
		FullName:       req.FullName,
		IsActive:       true,
		RoleID:         req.RoleID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "usuario", user.ID, user.Username, snapshotUser(user))

	// reload with role for the response
	creado, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return mapUser(user), nil
	}
	return mapUser(creado), nil
}

func (s *userService) Obtener(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	return mapUser(user), nil
}

func (s *userService) Listar(ctx context.Context, filter dto.ListQuery) (dto.UserList, error) {
	filter.Normalizar()
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.UserList{}, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *mapUser(&users[i]))
	}
	return dto.UserList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *userService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarUsuarioRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("usuario no encontrado")
		}
		return nil, err
	}

	antes := snapshotUser(user)

	if req.Email != nil && *req.Email != user.Email {
		existente, err := s.repo.FindByEmail(ctx, *req.Email)
		if err == nil && existente.ID != user.ID {
			return nil, errors.New("ya existe un usuario con ese email")
		}
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.RoleID != nil {
		if _, err := s.repo.FindRoleByID(ctx, *req.RoleID); err != nil {
			return nil, errors.New("rol no encontrado")
		}
		user.RoleID = *req.RoleID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "usuario", user.ID, user.Username, antes, snapshotUser(user))
	return mapUser(user), nil
}

func (s *userService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("usuario no encontrado")
		}
		return err
	}
	if actor.UserID != nil && *actor.UserID == id {
		return errors.New("no puede desactivar su propio usuario")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "usuario", id, user.Username, snapshotUser(user))
	return nil
}

func (s *userService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("usuario no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotUser(user)
	user.IsActive = true
	s.audit.Editar(ctx, actor, "usuario", id, user.Username, antes, snapshotUser(user))
	return nil
}

func (s *userService) ListarRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, dto.RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return resp, nil
}
