package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mattygrunge/planproduccion/internal/config"
	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

var ErrCredencialesInvalidas = errors.New("usuario o contraseña incorrectos")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
	ActualizarPerfil(ctx context.Context, actor Actor, userID uint, req dto.ActualizarPerfilRequest) (*dto.UserResponse, error)
	CambiarPassword(ctx context.Context, userID uint, req dto.CambiarPasswordRequest) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func mapUser(u *model.User) *dto.UserResponse {
	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Codigo:    u.Codigo,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		RoleID:    u.RoleID,
		RoleName:  roleName,
		CreatedAt: u.CreatedAt,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	return mapUser(user), nil
}

func (s *authService) ActualizarPerfil(ctx context.Context, actor Actor, userID uint, req dto.ActualizarPerfilRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}

	if req.Email != nil && *req.Email != user.Email {
		existente, err := s.repo.FindByEmail(ctx, *req.Email)
		if err == nil && existente.ID != user.ID {
			return nil, errors.New("ya existe un usuario con ese email")
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return mapUser(user), nil
}

func (s *authService) CambiarPassword(ctx context.Context, userID uint, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return errors.New("usuario no encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.PasswordActual)); err != nil {
		return errors.New("la contraseña actual es incorrecta")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), 12)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	return s.repo.Update(ctx, user)
}

func (s *authService) generateToken(user *model.User) (string, error) {
	rol := ""
	if user.Role != nil {
		rol = user.Role.Name
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"rol":      rol,
		"exp":      now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
