package client

// Métodos tipados sobre los maestros: sectores, líneas, clientes, productos,
// usuarios y roles. Las bajas son lógicas (activo=false) con reactivación.

import (
	"context"
	"fmt"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

// ─── Sectores ────────────────────────────────────────────────────────────────

func (c *Client) CrearSector(ctx context.Context, req dto.CrearSectorRequest) (*dto.SectorResponse, error) {
	var resp dto.SectorResponse
	if err := c.do(ctx, "POST", "/v1/sectores", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarSectores(ctx context.Context, q dto.ListQuery) (*dto.SectorList, error) {
	var resp dto.SectorList
	if err := c.do(ctx, "GET", withQuery("/v1/sectores", listQueryValues(q)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerSector(ctx context.Context, id uint) (*dto.SectorResponse, error) {
	var resp dto.SectorResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/sectores/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarSector(ctx context.Context, id uint, req dto.ActualizarSectorRequest) (*dto.SectorResponse, error) {
	var resp dto.SectorResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/sectores/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarSector(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/sectores/%d", id), nil, nil)
}

func (c *Client) ReactivarSector(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/sectores/%d/reactivar", id), nil, nil)
}

// ─── Líneas ──────────────────────────────────────────────────────────────────

func (c *Client) CrearLinea(ctx context.Context, req dto.CrearLineaRequest) (*dto.LineaResponse, error) {
	var resp dto.LineaResponse
	if err := c.do(ctx, "POST", "/v1/lineas", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarLineas(ctx context.Context, filter dto.LineaFilter) (*dto.LineaList, error) {
	v := listQueryValues(filter.ListQuery)
	if filter.SectorID != nil {
		v.Set("sector_id", fmt.Sprint(*filter.SectorID))
	}
	var resp dto.LineaList
	if err := c.do(ctx, "GET", withQuery("/v1/lineas", v), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerLinea(ctx context.Context, id uint) (*dto.LineaResponse, error) {
	var resp dto.LineaResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/lineas/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarLinea(ctx context.Context, id uint, req dto.ActualizarLineaRequest) (*dto.LineaResponse, error) {
	var resp dto.LineaResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/lineas/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarLinea(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/lineas/%d", id), nil, nil)
}

func (c *Client) ReactivarLinea(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/lineas/%d/reactivar", id), nil, nil)
}

// ─── Clientes ────────────────────────────────────────────────────────────────

func (c *Client) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	var resp dto.ClienteResponse
	if err := c.do(ctx, "POST", "/v1/clientes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarClientes(ctx context.Context, q dto.ListQuery) (*dto.ClienteList, error) {
	var resp dto.ClienteList
	if err := c.do(ctx, "GET", withQuery("/v1/clientes", listQueryValues(q)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerCliente(ctx context.Context, id uint) (*dto.ClienteResponse, error) {
	var resp dto.ClienteResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/clientes/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarCliente(ctx context.Context, id uint, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	var resp dto.ClienteResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/clientes/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarCliente(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/clientes/%d", id), nil, nil)
}

func (c *Client) ReactivarCliente(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/clientes/%d/reactivar", id), nil, nil)
}

// ─── Productos ───────────────────────────────────────────────────────────────

func (c *Client) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	var resp dto.ProductoResponse
	if err := c.do(ctx, "POST", "/v1/productos", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarProductos(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoList, error) {
	v := listQueryValues(filter.ListQuery)
	if filter.ClienteID != nil {
		v.Set("cliente_id", fmt.Sprint(*filter.ClienteID))
	}
	var resp dto.ProductoList
	if err := c.do(ctx, "GET", withQuery("/v1/productos", v), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerProducto(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	var resp dto.ProductoResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/productos/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarProducto(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	var resp dto.ProductoResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/productos/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarProducto(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/productos/%d", id), nil, nil)
}

func (c *Client) ReactivarProducto(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/productos/%d/reactivar", id), nil, nil)
}

// ─── Usuarios y roles (admin) ────────────────────────────────────────────────

func (c *Client) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, "POST", "/v1/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListarUsuarios(ctx context.Context, q dto.ListQuery) (*dto.UserList, error) {
	var resp dto.UserList
	if err := c.do(ctx, "GET", withQuery("/v1/users", listQueryValues(q)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ObtenerUsuario(ctx context.Context, id uint) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/v1/users/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, "PUT", fmt.Sprintf("/v1/users/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DesactivarUsuario(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/v1/users/%d", id), nil, nil)
}

func (c *Client) ReactivarUsuario(ctx context.Context, id uint) error {
	return c.do(ctx, "POST", fmt.Sprintf("/v1/users/%d/reactivar", id), nil, nil)
}

func (c *Client) ListarRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	var roles []dto.RoleResponse
	if err := c.do(ctx, "GET", "/v1/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
