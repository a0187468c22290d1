package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

func servidorAuth(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var req dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Username != "operador1" || req.Password != "secreta123" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Usuario o contraseña incorrectos"})
				return
			}
			json.NewEncoder(w).Encode(dto.TokenResponse{AccessToken: "tok-abc", TokenType: "bearer"})
		case "/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-abc" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Token invalido o expirado"})
				return
			}
			json.NewEncoder(w).Encode(dto.UserResponse{ID: 7, Username: "operador1", RoleName: "operador"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginGuardaSesion(t *testing.T) {
	srv := servidorAuth(t)
	c := New(srv.URL)

	user, err := c.Login(context.Background(), "operador1", "secreta123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.True(t, c.Session().Autenticada())
	assert.Equal(t, "tok-abc", c.Session().Token())
	assert.Equal(t, "operador1", c.Session().User().Username)
}

func TestLoginInvalidoPropagaDetail(t *testing.T) {
	srv := servidorAuth(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "operador1", "incorrecta")
	require.Error(t, err)

	// El mensaje del servidor llega tal cual al llamador
	assert.Equal(t, "Usuario o contraseña incorrectos", err.Error())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	// El 401 de login también fuerza la limpieza de sesión
	assert.ErrorIs(t, err, ErrSesionExpirada)
	assert.False(t, c.Session().Autenticada())
}

func TestTokenExpiradoFuerzaLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token invalido o expirado"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	c.Session().SetToken("tok-viejo")

	var desconectado bool
	c.OnUnauthorized = func() { desconectado = true }

	_, err := c.ListarSectores(context.Background(), dto.ListQuery{})
	assert.ErrorIs(t, err, ErrSesionExpirada)
	assert.True(t, desconectado)
	assert.False(t, c.Session().Autenticada())
}

func TestErrorDelServidorSurfaceDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "el sector tiene líneas activas asociadas"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	err := c.DesactivarSector(context.Background(), 3)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "el sector tiene líneas activas asociadas", apiErr.Detail)
}

func TestFlujoAdvertenciasDeLote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/lotes", r.URL.Path)
		var req dto.CrearLoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if !req.IgnorarAdvertencias {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"lote":   nil,
				"creado": false,
				"advertencias": []map[string]string{
					{"tipo": "lote_duplicado", "mensaje": "Ya existe un lote con ese número"},
				},
				"mensaje": "El lote tiene advertencias; confirme para crearlo igualmente",
			})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"lote":         map[string]interface{}{"id": 12, "numero_lote": req.NumeroLote},
			"creado":       true,
			"advertencias": []map[string]string{{"tipo": "lote_duplicado", "mensaje": "Ya existe un lote con ese número"}},
			"mensaje":      "Lote creado con advertencias confirmadas",
		})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	req := dto.CrearLoteRequest{NumeroLote: "L042", ProductoID: 1}

	resp, err := c.CrearLote(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Creado)
	assert.Nil(t, resp.Lote)
	require.Len(t, resp.Advertencias, 1)
	assert.Equal(t, "lote_duplicado", resp.Advertencias[0].Tipo)

	// Confirmación explícita
	req.IgnorarAdvertencias = true
	resp, err = c.CrearLote(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Creado)
	require.NotNil(t, resp.Lote)
	assert.Equal(t, uint(12), resp.Lote.ID)
}

func TestLatestWinsCancelaConsultaAnterior(t *testing.T) {
	bloquear := make(chan struct{})
	var primera sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		esPrimera := false
		primera.Do(func() { esPrimera = true })
		if esPrimera {
			// La primera consulta queda colgada hasta que el test libere
			select {
			case <-bloquear:
			case <-r.Context().Done():
				return
			}
		}
		json.NewEncoder(w).Encode(dto.HistorialResponse{Items: []dto.LoteResponse{}, Total: 1})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Historial(context.Background(), dto.HistorialFilter{Page: 1})
		errCh <- err
	}()

	// Dar tiempo a que la primera consulta entre en vuelo
	time.Sleep(50 * time.Millisecond)

	resp, err := c.Historial(context.Background(), dto.HistorialFilter{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	close(bloquear)
	err = <-errCh
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
