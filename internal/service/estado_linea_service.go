package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
	"github.com/mattygrunge/planproduccion/internal/timeline"
)

type EstadoLineaService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearEstadoLineaRequest) (*dto.EstadoLineaResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.EstadoLineaResponse, error)
	Listar(ctx context.Context, filter dto.EstadoLineaFilter) (dto.EstadoLineaList, error)
	Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarEstadoLineaRequest) (*dto.EstadoLineaResponse, error)
	Desactivar(ctx context.Context, actor Actor, id uint) error
	Reactivar(ctx context.Context, actor Actor, id uint) error

	// Timeline arma la vista del día: estados agrupados por sector y línea.
	Timeline(ctx context.Context, fecha time.Time) (*dto.TimelineResponse, error)
	TiposEstado() []dto.TipoEstadoOption
}

type estadoLineaService struct {
	repo     repository.EstadoLineaRepository
	sectores repository.SectorRepository
	lineas   repository.LineaRepository
	audit    AuditService
}

func NewEstadoLineaService(
	repo repository.EstadoLineaRepository,
	sectores repository.SectorRepository,
	lineas repository.LineaRepository,
	audit AuditService,
) EstadoLineaService {
	return &estadoLineaService{repo: repo, sectores: sectores, lineas: lineas, audit: audit}
}

func mapEstadoLinea(e *model.EstadoLinea) *dto.EstadoLineaResponse {
	resp := &dto.EstadoLineaResponse{
		ID:              e.ID,
		Codigo:          e.Codigo,
		SectorID:        e.SectorID,
		LineaID:         e.LineaID,
		TipoEstado:      e.TipoEstado,
		TipoEstadoLabel: model.TipoEstadoLabels[e.TipoEstado],
		FechaHoraInicio: e.FechaHoraInicio,
		FechaHoraFin:    e.FechaHoraFin,
		DuracionMinutos: e.DuracionMinutos,
		Observaciones:   e.Observaciones,
		Activo:          e.Activo,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Sector != nil {
		resp.Sector = &dto.SectorSimple{ID: e.Sector.ID, Nombre: e.Sector.Nombre}
	}
	if e.Linea != nil {
		resp.Linea = &dto.LineaSimple{ID: e.Linea.ID, Nombre: e.Linea.Nombre}
	}
	if e.Usuario != nil {
		resp.Usuario = &dto.UsuarioSimple{ID: e.Usuario.ID, Username: e.Usuario.Username, FullName: e.Usuario.FullName}
	}
	return resp
}

func snapshotEstadoLinea(e *model.EstadoLinea) map[string]interface{} {
	return map[string]interface{}{
		"sector_id":         e.SectorID,
		"linea_id":          e.LineaID,
		"tipo_estado":       e.TipoEstado,
		"fecha_hora_inicio": e.FechaHoraInicio,
		"fecha_hora_fin":    e.FechaHoraFin,
		"duracion_minutos":  e.DuracionMinutos,
		"observaciones":     e.Observaciones,
		"activo":            e.Activo,
	}
}

// derivarDuracion completes DuracionMinutos from the interval when the caller
// closed the state without reporting it.
func derivarDuracion(e *model.EstadoLinea) error {
	if e.FechaHoraFin == nil {
		return nil
	}
	if !e.FechaHoraFin.After(e.FechaHoraInicio) {
		return errors.New("la fecha de fin debe ser posterior al inicio")
	}
	if e.DuracionMinutos == nil {
		min := int(e.FechaHoraFin.Sub(e.FechaHoraInicio) / time.Minute)
		e.DuracionMinutos = &min
	}
	return nil
}

func (s *estadoLineaService) validarLineaSector(ctx context.Context, lineaID, sectorID uint) error {
	linea, err := s.lineas.FindByID(ctx, lineaID)
	if err != nil || !linea.Activo {
		return errors.New("línea no encontrada o inactiva")
	}
	if linea.SectorID != sectorID {
		return errors.New("la línea no pertenece al sector indicado")
	}
	sector, err := s.sectores.FindByID(ctx, sectorID)
	if err != nil || !sector.Activo {
		return errors.New("sector no encontrado o inactivo")
	}
	return nil
}

func (s *estadoLineaService) Crear(ctx context.Context, actor Actor, req dto.CrearEstadoLineaRequest) (*dto.EstadoLineaResponse, error) {
	if err := s.validarLineaSector(ctx, req.LineaID, req.SectorID); err != nil {
		return nil, err
	}

	codigo, err := s.repo.NextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	estado := &model.EstadoLinea{
		Codigo:          codigo,
		SectorID:        req.SectorID,
		LineaID:         req.LineaID,
		TipoEstado:      req.TipoEstado,
		FechaHoraInicio: req.FechaHoraInicio,
		FechaHoraFin:    req.FechaHoraFin,
		DuracionMinutos: req.DuracionMinutos,
		Observaciones:   req.Observaciones,
		UsuarioID:       actor.UserID,
		Activo:          true,
	}
	if req.Activo != nil {
		estado.Activo = *req.Activo
	}
	if err := derivarDuracion(estado); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, estado); err != nil {
		return nil, err
	}

	s.audit.Crear(ctx, actor, "estado_linea", estado.ID, estado.Codigo, snapshotEstadoLinea(estado))

	creado, err := s.repo.FindByID(ctx, estado.ID)
	if err != nil {
		return mapEstadoLinea(estado), nil
	}
	return mapEstadoLinea(creado), nil
}

func (s *estadoLineaService) Obtener(ctx context.Context, id uint) (*dto.EstadoLineaResponse, error) {
	estado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("estado no encontrado")
	}
	return mapEstadoLinea(estado), nil
}

func (s *estadoLineaService) Listar(ctx context.Context, filter dto.EstadoLineaFilter) (dto.EstadoLineaList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 || filter.Size > 100 {
		filter.Size = 20
	}

	estados, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.EstadoLineaList{}, err
	}
	items := make([]dto.EstadoLineaResponse, 0, len(estados))
	for i := range estados {
		items = append(items, *mapEstadoLinea(&estados[i]))
	}
	return dto.EstadoLineaList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *estadoLineaService) Actualizar(ctx context.Context, actor Actor, id uint, req dto.ActualizarEstadoLineaRequest) (*dto.EstadoLineaResponse, error) {
	estado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("estado no encontrado")
		}
		return nil, err
	}

	antes := snapshotEstadoLinea(estado)

	sectorID := estado.SectorID
	lineaID := estado.LineaID
	if req.SectorID != nil {
		sectorID = *req.SectorID
	}
	if req.LineaID != nil {
		lineaID = *req.LineaID
	}
	if sectorID != estado.SectorID || lineaID != estado.LineaID {
		if err := s.validarLineaSector(ctx, lineaID, sectorID); err != nil {
			return nil, err
		}
		estado.SectorID = sectorID
		estado.LineaID = lineaID
		estado.Sector = nil
		estado.Linea = nil
	}

	if req.TipoEstado != nil {
		estado.TipoEstado = *req.TipoEstado
	}
	if req.FechaHoraInicio != nil {
		estado.FechaHoraInicio = *req.FechaHoraInicio
	}
	if req.FechaHoraFin != nil {
		estado.FechaHoraFin = req.FechaHoraFin
		// Re-derive unless the caller also sent an explicit duration
		if req.DuracionMinutos == nil {
			estado.DuracionMinutos = nil
		}
	}
	if req.DuracionMinutos != nil {
		estado.DuracionMinutos = req.DuracionMinutos
	}
	if req.Observaciones != nil {
		estado.Observaciones = req.Observaciones
	}
	if req.Activo != nil {
		estado.Activo = *req.Activo
	}
	if err := derivarDuracion(estado); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, estado); err != nil {
		return nil, err
	}

	s.audit.Editar(ctx, actor, "estado_linea", estado.ID, estado.Codigo, antes, snapshotEstadoLinea(estado))

	actualizado, err := s.repo.FindByID(ctx, estado.ID)
	if err != nil {
		return mapEstadoLinea(estado), nil
	}
	return mapEstadoLinea(actualizado), nil
}

func (s *estadoLineaService) Desactivar(ctx context.Context, actor Actor, id uint) error {
	estado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("estado no encontrado")
		}
		return err
	}

	lotes, err := s.repo.CountLotes(ctx, id)
	if err != nil {
		return err
	}
	if lotes > 0 {
		return errors.New("el estado tiene lotes asociados")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit.Eliminar(ctx, actor, "estado_linea", id, estado.Codigo, snapshotEstadoLinea(estado))
	return nil
}

func (s *estadoLineaService) Reactivar(ctx context.Context, actor Actor, id uint) error {
	estado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("estado no encontrado")
		}
		return err
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	antes := snapshotEstadoLinea(estado)
	estado.Activo = true
	s.audit.Editar(ctx, actor, "estado_linea", id, estado.Codigo, antes, snapshotEstadoLinea(estado))
	return nil
}

func (s *estadoLineaService) Timeline(ctx context.Context, fecha time.Time) (*dto.TimelineResponse, error) {
	desde, hasta := timeline.DayBounds(fecha)

	estados, err := s.repo.FindDelDia(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	sectores, err := s.sectores.ListActivos(ctx)
	if err != nil {
		return nil, err
	}

	// estados por línea
	porLinea := make(map[uint][]dto.EstadoLineaResponse)
	planos := make([]dto.EstadoLineaResponse, 0, len(estados))
	for i := range estados {
		e := mapEstadoLinea(&estados[i])
		porLinea[e.LineaID] = append(porLinea[e.LineaID], *e)
		planos = append(planos, *e)
	}

	resp := &dto.TimelineResponse{
		Fecha:       fecha.Format("2006-01-02"),
		Sectores:    make([]dto.TimelineSector, 0, len(sectores)),
		Estados:     planos,
		TiposEstado: s.TiposEstado(),
	}

	for _, sec := range sectores {
		lineas, err := s.lineas.ListActivasBySector(ctx, sec.ID)
		if err != nil {
			return nil, err
		}
		ts := dto.TimelineSector{ID: sec.ID, Nombre: sec.Nombre, Lineas: make([]dto.TimelineLinea, 0, len(lineas))}
		for _, ln := range lineas {
			lineaEstados := porLinea[ln.ID]
			if lineaEstados == nil {
				lineaEstados = []dto.EstadoLineaResponse{}
			}
			ts.Lineas = append(ts.Lineas, dto.TimelineLinea{ID: ln.ID, Nombre: ln.Nombre, Estados: lineaEstados})
		}
		resp.Sectores = append(resp.Sectores, ts)
	}

	return resp, nil
}

func (s *estadoLineaService) TiposEstado() []dto.TipoEstadoOption {
	opts := make([]dto.TipoEstadoOption, 0, len(model.TiposEstado))
	for _, t := range model.TiposEstado {
		opts = append(opts, dto.TipoEstadoOption{Value: t, Label: model.TipoEstadoLabels[t]})
	}
	return opts
}
