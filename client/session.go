package client

import (
	"sync"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

// Session guarda el token bearer y el usuario resuelto. Única persistencia
// del lado cliente: no hay storage de datos más allá de esto.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *dto.UserResponse
}

func NewSession() *Session { return &Session{} }

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) SetUser(user *dto.UserResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *dto.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Autenticada indica si hay un token vigente cargado.
func (s *Session) Autenticada() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// EsAdmin consulta el rol del usuario resuelto.
func (s *Session) EsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.RoleName == "admin"
}

// Clear descarta token y usuario.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}
