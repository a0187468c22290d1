package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

// Actor identifies who performed an audited operation and from where.
// UserID nil means a system action (workers, seeds).
type Actor struct {
	UserID    *uint
	Username  string
	IP        *string
	UserAgent *string
}

// AuditService registra y consulta el log de auditoría. Los snapshots se
// guardan como JSON: el alta guarda los datos nuevos, la edición solo las
// claves que cambiaron, la baja los datos previos. Una falla al registrar
// nunca aborta la operación de negocio: se loguea y sigue.
type AuditService interface {
	Crear(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, datos map[string]interface{})
	Editar(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, antes, despues map[string]interface{})
	Eliminar(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, datos map[string]interface{})

	Listar(ctx context.Context, filter dto.AuditoriaFilter) (dto.AuditoriaList, error)
	Estadisticas(ctx context.Context) (dto.AuditoriaEstadisticas, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// camposExcluidos nunca se serializan en los snapshots.
var camposExcluidos = map[string]bool{
	"hashed_password": true,
}

func serializar(datos map[string]interface{}) *string {
	if len(datos) == 0 {
		return nil
	}
	limpio := make(map[string]interface{}, len(datos))
	for k, v := range datos {
		if camposExcluidos[k] {
			continue
		}
		limpio[k] = v
	}
	b, err := json.Marshal(limpio)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// diff keeps only the keys whose value changed between both snapshots.
func diff(antes, despues map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	anteriores := make(map[string]interface{})
	nuevos := make(map[string]interface{})
	for k, nuevo := range despues {
		if camposExcluidos[k] {
			continue
		}
		previo, existia := antes[k]
		bPrevio, _ := json.Marshal(previo)
		bNuevo, _ := json.Marshal(nuevo)
		if !existia || string(bPrevio) != string(bNuevo) {
			anteriores[k] = previo
			nuevos[k] = nuevo
		}
	}
	return anteriores, nuevos
}

func (s *auditService) registrar(ctx context.Context, actor Actor, accion, entidad string, entidadID uint, descripcion string, anteriores, nuevos map[string]interface{}) {
	var descr *string
	if descripcion != "" {
		descr = &descripcion
	}
	entry := &model.AuditLog{
		UsuarioID:          actor.UserID,
		UsuarioUsername:    actor.Username,
		Accion:             accion,
		Entidad:            entidad,
		EntidadID:          entidadID,
		EntidadDescripcion: descr,
		DatosAnteriores:    serializar(anteriores),
		DatosNuevos:        serializar(nuevos),
		FechaHora:          time.Now(),
		IPAddress:          actor.IP,
		UserAgent:          actor.UserAgent,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Warn().
			Err(err).
			Str("accion", accion).
			Str("entidad", entidad).
			Uint("entidad_id", entidadID).
			Msg("no se pudo registrar auditoria")
	}
}

func (s *auditService) Crear(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, datos map[string]interface{}) {
	s.registrar(ctx, actor, model.AccionCrear, entidad, entidadID, descripcion, nil, datos)
}

func (s *auditService) Editar(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, antes, despues map[string]interface{}) {
	anteriores, nuevos := diff(antes, despues)
	if len(nuevos) == 0 {
		return
	}
	s.registrar(ctx, actor, model.AccionEditar, entidad, entidadID, descripcion, anteriores, nuevos)
}

func (s *auditService) Eliminar(ctx context.Context, actor Actor, entidad string, entidadID uint, descripcion string, datos map[string]interface{}) {
	s.registrar(ctx, actor, model.AccionEliminar, entidad, entidadID, descripcion, datos, nil)
}

func (s *auditService) Listar(ctx context.Context, filter dto.AuditoriaFilter) (dto.AuditoriaList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 || filter.Size > 100 {
		filter.Size = 20
	}

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditoriaList{}, err
	}

	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.AuditLogResponse{
			ID:                 l.ID,
			UsuarioID:          l.UsuarioID,
			UsuarioUsername:    l.UsuarioUsername,
			Accion:             l.Accion,
			AccionLabel:        model.AccionLabels[l.Accion],
			Entidad:            l.Entidad,
			EntidadLabel:       model.EntidadLabels[l.Entidad],
			EntidadID:          l.EntidadID,
			EntidadDescripcion: l.EntidadDescripcion,
			DatosAnteriores:    l.DatosAnteriores,
			DatosNuevos:        l.DatosNuevos,
			FechaHora:          l.FechaHora,
			IPAddress:          l.IPAddress,
			UserAgent:          l.UserAgent,
		})
	}

	return dto.AuditoriaList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: dto.Pages(total, filter.Size),
	}, nil
}

func (s *auditService) Estadisticas(ctx context.Context) (dto.AuditoriaEstadisticas, error) {
	return s.repo.Estadisticas(ctx)
}
