package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/lotecalc"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

// LoteService cubre el alta con advertencias confirmables, la validación
// previa, la sugerencia de numeración y el CRUD del libro de lotes.
type LoteService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearLoteRequest) (*dto.LoteConAdvertencias, error)
	Obtener(ctx context.Context, id uint) (*dto.LoteResponse, error)
	Listar(ctx context.Context, filter dto.LoteFilter) (dto.LoteList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarLoteRequest) (*dto.LoteConAdvertencias, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error

	// Validar evalúa un número propuesto sin persistir nada.
	Validar(ctx context.Context, req dto.ValidarLoteRequest) (*dto.ValidarLoteResponse, error)
	// SugerirNumero propone el siguiente número según el último lote del producto.
	SugerirNumero(ctx context.Context, productoID uint) (*dto.SugerenciaNumeroResponse, error)
	// Ultimo devuelve el lote más reciente del producto, o nil sin error si no hay.
	Ultimo(ctx context.Context, productoID uint) (*dto.LoteResponse, error)
}

type loteService struct {
	repo      repository.LoteRepository
	productos repository.ProductoRepository
	estados   repository.EstadoLineaRepository
	audit     AuditService
}

func NewLoteService(
	repo repository.LoteRepository,
	productos repository.ProductoRepository,
	estados repository.EstadoLineaRepository,
	audit AuditService,
) LoteService {
	return &loteService{repo: repo, productos: productos, estados: estados, audit: audit}
}

func mapLote(l *model.Lote) *dto.LoteResponse {
	resp := &dto.LoteResponse{
		ID:                l.ID,
		Codigo:            l.Codigo,
		NumeroLote:        l.NumeroLote,
		ProductoID:        l.ProductoID,
		EstadoLineaID:     l.EstadoLineaID,
		Pallets:           l.Pallets,
		Parciales:         l.Parciales,
		UnidadesPorPallet: l.UnidadesPorPallet,
		LitrosTotales:     l.LitrosTotales,
		FechaProduccion:   dto.NuevaFecha(l.FechaProduccion),
		LinkSenasa:        l.LinkSenasa,
		Observaciones:     l.Observaciones,
		Activo:            l.Activo,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
	if l.FechaVencimiento != nil {
		f := dto.NuevaFecha(*l.FechaVencimiento)
		resp.FechaVencimiento = &f
	}
	if l.Producto != nil {
		resp.Producto = &dto.ProductoSimple{ID: l.Producto.ID, Codigo: l.Producto.Codigo, Nombre: l.Producto.Nombre}
	}
	if l.EstadoLinea != nil {
		resp.EstadoLinea = mapEstadoLinea(l.EstadoLinea)
	}
	if l.Usuario != nil {
		resp.Usuario = &dto.UsuarioSimple{ID: l.Usuario.ID, Username: l.Usuario.Username, FullName: l.Usuario.FullName}
	}
	return resp
}

func snapshotLote(l *model.Lote) map[string]interface{} {
	var venc interface{}
	if l.FechaVencimiento != nil {
		venc = l.FechaVencimiento.Format("2006-01-02")
	}
	return map[string]interface{}{
		"numero_lote":         l.NumeroLote,
		"producto_id":         l.ProductoID,
		"estado_linea_id":     l.EstadoLineaID,
		"pallets":             l.Pallets,
		"parciales":           l.Parciales,
		"unidades_por_pallet": l.UnidadesPorPallet,
		"litros_totales":      l.LitrosTotales,
		"fecha_produccion":    l.FechaProduccion.Format("2006-01-02"),
		"fecha_vencimiento":   venc,
		"link_senasa":         l.LinkSenasa,
		"observaciones":       l.Observaciones,
		"activo":              l.Activo,
	}
}

// validar junta todas las advertencias del número y la fecha propuestos.
// excluirID descarta el propio lote al chequear duplicados en una edición.
func (s *loteService) validar(ctx context.Context, productoID uint, numeroLote string, fechaProduccion time.Time, excluirID uint) ([]lotecalc.Advertencia, *string, *string, error) {
	var advertencias []lotecalc.Advertencia

	duplicado, err := s.repo.ExisteNumero(ctx, productoID, numeroLote, excluirID)
	if err != nil {
		return nil, nil, nil, err
	}
	if duplicado {
		advertencias = append(advertencias, lotecalc.DescribirAdvertenciaDuplicado(numeroLote))
	}

	// El chequeo de secuencia compara contra el último lote del producto,
	// incluso si es el mismo que se está editando.
	var loteAnterior, loteEsperado *string
	ultimo, err := s.repo.FindUltimoByProducto(ctx, productoID)
	ultimoNumero := ""
	if err == nil {
		ultimoNumero = ultimo.NumeroLote
		loteAnterior = &ultimo.NumeroLote
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, err
	}

	if salto, esperado := lotecalc.DetectarSalto(numeroLote, ultimoNumero); salto {
		advertencias = append(advertencias, lotecalc.DescribirAdvertenciaSalto(numeroLote, ultimoNumero, esperado))
		loteEsperado = &esperado
	}

	advertencias = append(advertencias, lotecalc.ValidarFechaProduccion(fechaProduccion, time.Now())...)

	return advertencias, loteAnterior, loteEsperado, nil
}

func (s *loteService) validarEstadoLinea(ctx context.Context, estadoLineaID uint) error {
	estado, err := s.estados.FindByID(ctx, estadoLineaID)
	if err != nil || !estado.Activo {
		return errors.New("estado de línea no encontrado o inactivo")
	}
	if estado.TipoEstado != model.TipoProduccion {
		return errors.New("el estado de línea asociado debe ser de tipo producción")
	}
	return nil
}

func (s *loteService) Crear(ctx context.Context, actor Actor, req dto.CrearLoteRequest) (*dto.LoteConAdvertencias, error) {
	producto, err := s.productos.FindByID(ctx, req.ProductoID)
	if err != nil || !producto.Activo {
		return nil, errors.New("producto no encontrado o inactivo")
	}
	if req.EstadoLineaID != nil {
		if err := s.validarEstadoLinea(ctx, *req.EstadoLineaID); err != nil {
			return nil, err
		}
	}

	advertencias, _, _, err := s.validar(ctx, req.ProductoID, req.NumeroLote, req.FechaProduccion.Time, 0)
	if err != nil {
		return nil, err
	}
	if advertencias == nil {
		advertencias = []lotecalc.Advertencia{}
	}

	if len(advertencias) > 0 && !req.IgnorarAdvertencias {
		return &dto.LoteConAdvertencias{
			Lote:         nil,
			Advertencias: advertencias,
			Creado:       false,
			Mensaje:      "El lote tiene advertencias; confirme para crearlo igualmente",
		}, nil
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	lote := &model.Lote{
		Codigo:            codigo,
		NumeroLote:        req.NumeroLote,
		ProductoID:        req.ProductoID,
		EstadoLineaID:     req.EstadoLineaID,
		UnidadesPorPallet: 1,
		FechaProduccion:   req.FechaProduccion.Time,
		LinkSenasa:        req.LinkSenasa,
		Observaciones:     req.Observaciones,
		UsuarioID:         actor.UserID,
		Activo:            true,
	}
	if req.Pallets != nil {
		lote.Pallets = *req.Pallets
	}
	if req.Parciales != nil {
		lote.Parciales = *req.Parciales
	}
	if req.UnidadesPorPallet != nil {
		lote.UnidadesPorPallet = *req.UnidadesPorPallet
	}
	if req.Activo != nil {
		lote.Activo = *req.Activo
	}

	// Derived values: the caller's explicit figure always wins
	if req.LitrosTotales != nil {
		lote.LitrosTotales = *req.LitrosTotales
	} else {
		lote.LitrosTotales = lotecalc.CalcularLitrosTotales(lote.Pallets, lote.Parciales, lote.UnidadesPorPallet, producto.LitrosPorUnidad)
	}
	if req.FechaVencimiento != nil && !req.FechaVencimiento.IsZero() {
		lote.FechaVencimiento = &req.FechaVencimiento.Time
	} else {
		venc := lotecalc.CalcularFechaVencimiento(lote.FechaProduccion, producto.AnosVencimiento)
		lote.FechaVencimiento = &venc
	}

	if err := s.repo.Create(ctx, lote); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "lote", lote.ID, lote.NumeroLote, snapshotLote(lote))

	creado, err := s.repo.FindByID(ctx, lote.ID)
	if err != nil {
		creado = lote
	}

	mensaje := "Lote creado"
	if len(advertencias) > 0 {
		mensaje = "Lote creado con advertencias confirmadas"
	}
	return &dto.LoteConAdvertencias{
		Lote:         mapLote(creado),
		Advertencias: advertencias,
		Creado:       true,
		Mensaje:      mensaje,
	}, nil
}

func (s *loteService) Obtener(ctx context.Context, id uint) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("lote no encontrado")
	}
	return mapLote(lote), nil
}

func (s *loteService) Listar(ctx context.Context, filter dto.LoteFilter) (dto.LoteList, error) {
	filter.Normalizar()
	lotes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LoteList{}, err
	}
	items := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		items = append(items, *mapLote(&lotes[i]))
	}
	return dto.LoteList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *loteService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarLoteRequest) (*dto.LoteConAdvertencias, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("lote no encontrado")
		}
		return nil, err
	}

	antes := snapshotLote(lote)

	productoID := lote.ProductoID
	if req.ProductoID != nil {
		productoID = *req.ProductoID
	}
	producto, err := s.productos.FindByID(ctx, productoID)
	if err != nil || !producto.Activo {
		return nil, errors.New("producto no encontrado o inactivo")
	}
	if req.EstadoLineaID != nil {
		if err := s.validarEstadoLinea(ctx, *req.EstadoLineaID); err != nil {
			return nil, err
		}
	}

	numeroLote := lote.NumeroLote
	if req.NumeroLote != nil {
		numeroLote = *req.NumeroLote
	}
	fechaProduccion := lote.FechaProduccion
	if req.FechaProduccion != nil && !req.FechaProduccion.IsZero() {
		fechaProduccion = req.FechaProduccion.Time
	}

	// La edición pasa por la misma validación que el alta, excluyendo al
	// propio lote del chequeo de duplicado.
	advertencias, _, _, err := s.validar(ctx, productoID, numeroLote, fechaProduccion, lote.ID)
	if err != nil {
		return nil, err
	}
	if advertencias == nil {
		advertencias = []lotecalc.Advertencia{}
	}
	if len(advertencias) > 0 && !req.IgnorarAdvertencias {
		return &dto.LoteConAdvertencias{
			Advertencias: advertencias,
			Creado:       false,
			Mensaje:      "La edición tiene advertencias; confirme para guardarla igualmente",
		}, nil
	}

	lote.NumeroLote = numeroLote
	lote.ProductoID = productoID
	lote.FechaProduccion = fechaProduccion
	if req.EstadoLineaID != nil {
		lote.EstadoLineaID = req.EstadoLineaID
	}
	if req.Pallets != nil {
		lote.Pallets = *req.Pallets
	}
	if req.Parciales != nil {
		lote.Parciales = *req.Parciales
	}
	if req.UnidadesPorPallet != nil {
		lote.UnidadesPorPallet = *req.UnidadesPorPallet
	}
	if req.LitrosTotales != nil {
		lote.LitrosTotales = *req.LitrosTotales
	} else if req.Pallets != nil || req.Parciales != nil || req.UnidadesPorPallet != nil {
		lote.LitrosTotales = lotecalc.CalcularLitrosTotales(lote.Pallets, lote.Parciales, lote.UnidadesPorPallet, producto.LitrosPorUnidad)
	}
	if req.FechaVencimiento != nil && !req.FechaVencimiento.IsZero() {
		lote.FechaVencimiento = &req.FechaVencimiento.Time
	} else if req.FechaProduccion != nil {
		venc := lotecalc.CalcularFechaVencimiento(lote.FechaProduccion, producto.AnosVencimiento)
		lote.FechaVencimiento = &venc
	}
	if req.LinkSenasa != nil {
		lote.LinkSenasa = req.LinkSenasa
	}
	if req.Observaciones != nil {
		lote.Observaciones = req.Observaciones
	}
	if req.Activo != nil {
		lote.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, lote); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "lote", lote.ID, lote.NumeroLote, antes, snapshotLote(lote))

	actualizado, err := s.repo.FindByID(ctx, lote.ID)
	if err != nil {
		actualizado = lote
	}

	mensaje := "Lote actualizado"
	if len(advertencias) > 0 {
		mensaje = "Lote actualizado con advertencias confirmadas"
	}
	return &dto.LoteConAdvertencias{
		Lote:         mapLote(actualizado),
		Advertencias: advertencias,
		Creado:       true,
		Mensaje:      mensaje,
	}, nil
}

func (s *loteService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("lote no encontrado")
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "lote", id, lote.NumeroLote, snapshotLote(lote))
	return nil
}

func (s *loteService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("lote no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotLote(lote)
	lote.Activo = true
	s.audit.Editar(ctx, actor, "lote", id, lote.NumeroLote, antes, snapshotLote(lote))
	return nil
}

func (s *loteService) Validar(ctx context.Context, req dto.ValidarLoteRequest) (*dto.ValidarLoteResponse, error) {
	if _, err := s.productos.FindByID(ctx, req.ProductoID); err != nil {
		return nil, errors.New("producto no encontrado")
	}

	advertencias, loteAnterior, loteEsperado, err := s.validar(ctx, req.ProductoID, req.NumeroLote, req.FechaProduccion.Time, 0)
	if err != nil {
		return nil, err
	}
	if advertencias == nil {
		advertencias = []lotecalc.Advertencia{}
	}

	return &dto.ValidarLoteResponse{
		Valido:       len(advertencias) == 0,
		Advertencias: advertencias,
		LoteAnterior: loteAnterior,
		LoteEsperado: loteEsperado,
	}, nil
}

func (s *loteService) SugerirNumero(ctx context.Context, productoID uint) (*dto.SugerenciaNumeroResponse, error) {
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, errors.New("producto no encontrado")
	}

	ultimo, err := s.repo.FindUltimoByProducto(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.SugerenciaNumeroResponse{
				Sugerencia: "",
				Mensaje:    "Sin lotes previos: ingrese el primer número libremente",
			}, nil
		}
		return nil, err
	}

	return &dto.SugerenciaNumeroResponse{
		Sugerencia: lotecalc.SugerirSiguiente(ultimo.NumeroLote),
		UltimoLote: &ultimo.NumeroLote,
		Mensaje:    "Sugerencia basada en el último lote registrado",
	}, nil
}

func (s *loteService) Ultimo(ctx context.Context, productoID uint) (*dto.LoteResponse, error) {
	ultimo, err := s.repo.FindUltimoByProducto(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapLote(ultimo), nil
}
