package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

type ProductoService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (dto.ProductoList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error
}

type productoService struct {
	repo     repository.ProductoRepository
	clientes repository.ClienteRepository
	audit    AuditService
}

func NewProductoService(repo repository.ProductoRepository, clientes repository.ClienteRepository, audit AuditService) ProductoService {
	return &productoService{repo: repo, clientes: clientes, audit: audit}
}

func mapProducto(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,

		FormatoLote:    p.FormatoLote,
		ClienteID:      p.ClienteID,
		TipoProducto:   p.TipoProducto,
		ColorBanda:     p.ColorBanda,
		CodigoProducto: p.CodigoProducto,

		Densidad: p.Densidad,

		BidonProveedor:           p.BidonProveedor,
		BidonDescripcion:         p.BidonDescripcion,
		TapaProveedor:            p.TapaProveedor,
		TapaDescripcion:          p.TapaDescripcion,
		PalletProveedor:          p.PalletProveedor,
		PalletDescripcion:        p.PalletDescripcion,
		CobertorProveedor:        p.CobertorProveedor,
		CobertorDescripcion:      p.CobertorDescripcion,
		FundaEtiquetaProveedor:   p.FundaEtiquetaProveedor,
		FundaEtiquetaDescripcion: p.FundaEtiquetaDescripcion,
		EsquineroProveedor:       p.EsquineroProveedor,
		EsquineroDescripcion:     p.EsquineroDescripcion,

		LitrosPorPallet:  p.LitrosPorPallet,
		BidonesPorPallet: p.BidonesPorPallet,
		BidonesPorPiso:   p.BidonesPorPiso,

		UnidadMedida:    p.UnidadMedida,
		PrecioUnitario:  p.PrecioUnitario,
		AnosVencimiento: p.AnosVencimiento,
		LitrosPorUnidad: p.LitrosPorUnidad,

		Activo:    p.Activo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Cliente != nil {
		resp.Cliente = &dto.ClienteSimple{ID: p.Cliente.ID, Codigo: p.Cliente.Codigo, Nombre: p.Cliente.Nombre}
	}
	return resp
}

func snapshotProducto(p *model.Producto) map[string]interface{} {
	return map[string]interface{}{
		"nombre":            p.Nombre,
		"descripcion":       p.Descripcion,
		"formato_lote":      p.FormatoLote,
		"cliente_id":        p.ClienteID,
		"tipo_producto":     p.TipoProducto,
		"color_banda":       p.ColorBanda,
		"codigo_producto":   p.CodigoProducto,
		"densidad":          p.Densidad,
		"litros_por_pallet": p.LitrosPorPallet,
		"unidad_medida":     p.UnidadMedida,
		"precio_unitario":   p.PrecioUnitario,
		"anos_vencimiento":  p.AnosVencimiento,
		"litros_por_unidad": p.LitrosPorUnidad,
		"activo":            p.Activo,
	}
}

func (s *productoService) Crear(ctx context.Context, actor Actor, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.ClienteID != nil {
		cliente, err := s.clientes.FindByID(ctx, *req.ClienteID)
		if err != nil || !cliente.Activo {
			return nil, errors.New("cliente no encontrado o inactivo")
		}
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	producto := &model.Producto{
		Codigo:      codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,

		FormatoLote:    req.FormatoLote,
		ClienteID:      req.ClienteID,
		TipoProducto:   req.TipoProducto,
		ColorBanda:     req.ColorBanda,
		CodigoProducto: req.CodigoProducto,

		Densidad: req.Densidad,

		BidonProveedor:           req.BidonProveedor,
		BidonDescripcion:         req.BidonDescripcion,
		TapaProveedor:            req.TapaProveedor,
		TapaDescripcion:          req.TapaDescripcion,
		PalletProveedor:          req.PalletProveedor,
		PalletDescripcion:        req.PalletDescripcion,
		CobertorProveedor:        req.CobertorProveedor,
		CobertorDescripcion:      req.CobertorDescripcion,
		FundaEtiquetaProveedor:   req.FundaEtiquetaProveedor,
		FundaEtiquetaDescripcion: req.FundaEtiquetaDescripcion,
		EsquineroProveedor:       req.EsquineroProveedor,
		EsquineroDescripcion:     req.EsquineroDescripcion,

		LitrosPorPallet:  req.LitrosPorPallet,
		BidonesPorPallet: req.BidonesPorPallet,
		BidonesPorPiso:   req.BidonesPorPiso,

		UnidadMedida:    "unidad",
		AnosVencimiento: 2,
		Activo:          true,
	}
	if req.UnidadMedida != nil {
		producto.UnidadMedida = *req.UnidadMedida
	}
	if req.PrecioUnitario != nil {
		producto.PrecioUnitario = *req.PrecioUnitario
	}
	if req.AnosVencimiento != nil {
		producto.AnosVencimiento = *req.AnosVencimiento
	}
	if req.LitrosPorUnidad != nil {
		producto.LitrosPorUnidad = *req.LitrosPorUnidad
	} else {
		producto.LitrosPorUnidad = decimal.NewFromInt(1)
	}
	if req.Activo != nil {
		producto.Activo = *req.Activo
	}

	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "producto", producto.ID, producto.Nombre, snapshotProducto(producto))

	creado, err := s.repo.FindByID(ctx, producto.ID)
	if err != nil {
		return mapProducto(producto), nil
	}
	return mapProducto(creado), nil
}

func (s *productoService) Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return mapProducto(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (dto.ProductoList, error) {
	filter.Normalizar()
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ProductoList{}, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *mapProducto(&productos[i]))
	}
	return dto.ProductoList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("producto no encontrado")
		}
		return nil, err
	}

	antes := snapshotProducto(producto)

	if req.ClienteID != nil && (producto.ClienteID == nil || *req.ClienteID != *producto.ClienteID) {
		cliente, err := s.clientes.FindByID(ctx, *req.ClienteID)
		if err != nil || !cliente.Activo {
			return nil, errors.New("cliente no encontrado o inactivo")
		}
		producto.Cliente = cliente
	}

	if req.Nombre != nil {
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.FormatoLote != nil {
		producto.FormatoLote = req.FormatoLote
	}
	if req.ClienteID != nil {
		producto.ClienteID = req.ClienteID
	}
	if req.TipoProducto != nil {
		producto.TipoProducto = req.TipoProducto
	}
	if req.ColorBanda != nil {
		producto.ColorBanda = req.ColorBanda
	}
	if req.CodigoProducto != nil {
		producto.CodigoProducto = req.CodigoProducto
	}
	if req.Densidad != nil {
		producto.Densidad = req.Densidad
	}
	if req.BidonProveedor != nil {
		producto.BidonProveedor = req.BidonProveedor
	}
	if req.BidonDescripcion != nil {
		producto.BidonDescripcion = req.BidonDescripcion
	}
	if req.TapaProveedor != nil {
		producto.TapaProveedor = req.TapaProveedor
	}
	if req.TapaDescripcion != nil {
		producto.TapaDescripcion = req.TapaDescripcion
	}
	if req.PalletProveedor != nil {
		producto.PalletProveedor = req.PalletProveedor
	}
	if req.PalletDescripcion != nil {
		producto.PalletDescripcion = req.PalletDescripcion
	}
	if req.CobertorProveedor != nil {
		producto.CobertorProveedor = req.CobertorProveedor
	}
	if req.CobertorDescripcion != nil {
		producto.CobertorDescripcion = req.CobertorDescripcion
	}
	if req.FundaEtiquetaProveedor != nil {
		producto.FundaEtiquetaProveedor = req.FundaEtiquetaProveedor
	}
	if req.FundaEtiquetaDescripcion != nil {
		producto.FundaEtiquetaDescripcion = req.FundaEtiquetaDescripcion
	}
	if req.EsquineroProveedor != nil {
		producto.EsquineroProveedor = req.EsquineroProveedor
	}
	if req.EsquineroDescripcion != nil {
		producto.EsquineroDescripcion = req.EsquineroDescripcion
	}
	if req.LitrosPorPallet != nil {
		producto.LitrosPorPallet = req.LitrosPorPallet
	}
	if req.BidonesPorPallet != nil {
		producto.BidonesPorPallet = req.BidonesPorPallet
	}
	if req.BidonesPorPiso != nil {
		producto.BidonesPorPiso = req.BidonesPorPiso
	}
	if req.UnidadMedida != nil {
		producto.UnidadMedida = *req.UnidadMedida
	}
	if req.PrecioUnitario != nil {
		producto.PrecioUnitario = *req.PrecioUnitario
	}
	if req.AnosVencimiento != nil {
		producto.AnosVencimiento = *req.AnosVencimiento
	}
	if req.LitrosPorUnidad != nil {
		producto.LitrosPorUnidad = *req.LitrosPorUnidad
	}
	if req.Activo != nil {
		producto.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "producto", producto.ID, producto.Nombre, antes, snapshotProducto(producto))
	return mapProducto(producto), nil
}

func (s *productoService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("producto no encontrado")
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "producto", id, producto.Nombre, snapshotProducto(producto))
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("producto no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotProducto(producto)
	producto.Activo = true
	s.audit.Editar(ctx, actor, "producto", id, producto.Nombre, antes, snapshotProducto(producto))
	return nil
}
