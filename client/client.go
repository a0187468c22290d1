// Package client es el cliente HTTP tipado del servicio de plan de
// producción. Adjunta el token de sesión, centraliza la URL base, propaga el
// detail de los errores del servidor tal cual y fuerza el logout ante un 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

// ErrSesionExpirada marca los errores por 401: la sesión local ya fue
// limpiada y el callback de logout forzado invocado. Se detecta con
// errors.Is; el mensaje visible sigue siendo el detail del servidor.
var ErrSesionExpirada = errors.New("sesión expirada")

// APIError es el error del servidor con su detail textual.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string { return e.Detail }

// errNoAutorizado conserva el detail del 401 (p.ej. "Usuario o contraseña
// incorrectos") y a la vez responde a errors.Is(err, ErrSesionExpirada).
type errNoAutorizado struct {
	api *APIError
}

func (e *errNoAutorizado) Error() string { return e.api.Detail }

func (e *errNoAutorizado) Unwrap() []error { return []error{ErrSesionExpirada, e.api} }

// Client habla con la API. Es seguro para uso concurrente.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	latest  *latestWins

	// OnUnauthorized se invoca (si está seteado) tras limpiar la sesión por
	// un 401 — el frontend lo usa para redirigir al login.
	OnUnauthorized func()
}

// New crea un cliente contra baseURL (p.ej. "http://localhost:8000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: NewSession(),
		latest:  newLatestWins(),
	}
}

// Session expone el store de sesión (token + usuario resuelto).
func (c *Client) Session() *Session { return c.session }

// Login autentica y deja la sesión lista (token + usuario resuelto vía /me).
func (c *Client) Login(ctx context.Context, username, password string) (*dto.UserResponse, error) {
	var tok dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Username: username, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	c.session.SetToken(tok.AccessToken)

	user, err := c.Me(ctx)
	if err != nil {
		c.session.Clear()
		return nil, err
	}
	c.session.SetUser(user)
	return user, nil
}

// Logout descarta la sesión local. No hay invalidación server-side del JWT.
func (c *Client) Logout() { c.session.Clear() }

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ActualizarPerfil(ctx context.Context, req dto.ActualizarPerfilRequest) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/v1/auth/me", req, &user); err != nil {
		return nil, err
	}
	c.session.SetUser(&user)
	return &user, nil
}

func (c *Client) CambiarPassword(ctx context.Context, req dto.CambiarPasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/auth/me/password", req, nil)
}

// do ejecuta un request JSON. body nil omite el cuerpo; out nil descarta la
// respuesta. No reintenta: los errores suben al llamador.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := decodeError(resp)
		c.session.Clear()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return &errNoAutorizado{api: apiErr}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw trae el cuerpo crudo (exportaciones CSV/PDF).
func (c *Client) doRaw(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := decodeError(resp)
		c.session.Clear()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, "", &errNoAutorizado{api: apiErr}
	}
	if resp.StatusCode >= 400 {
		return nil, "", decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Disposition"), nil
}

func decodeError(resp *http.Response) *APIError {
	var envelope struct {
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Detail == "" {
		return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("error HTTP %d", resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Detail: envelope.Detail}
}

// withQuery arma path?query a partir de un url.Values ya poblado.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func listQueryValues(q dto.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", fmt.Sprint(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Activo != "" {
		v.Set("activo", q.Activo)
	}
	return v
}
