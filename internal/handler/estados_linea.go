package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mattygrunge/planproduccion/internal/apierror"
	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/service"
)

type EstadosLineaHandler struct{ svc service.EstadoLineaService }

func NewEstadosLineaHandler(svc service.EstadoLineaService) *EstadosLineaHandler {
	return &EstadosLineaHandler{svc: svc}
}

// Crear POST /v1/estados-linea
func (h *EstadosLineaHandler) Crear(c *gin.Context) {
	var req dto.CrearEstadoLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/estados-linea
func (h *EstadosLineaHandler) Listar(c *gin.Context) {
	var filter dto.EstadoLineaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar estados de línea"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/estados-linea/:id
func (h *EstadosLineaHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Estado de línea no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/estados-linea/:id
func (h *EstadosLineaHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarEstadoLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar DELETE /v1/estados-linea/:id
func (h *EstadosLineaHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), actorDe(c), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar POST /v1/estados-linea/:id/reactivar
func (h *EstadosLineaHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), actorDe(c), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Estado de línea reactivado"})
}

// Timeline GET /v1/estados-linea/timeline/:fecha?sector_id&linea_id
func (h *EstadosLineaHandler) Timeline(c *gin.Context) {
	fecha, err := time.ParseInLocation("2006-01-02", c.Param("fecha"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Fecha inválida (formato esperado 2006-01-02)"))
		return
	}
	resp, err := h.svc.Timeline(c.Request.Context(), fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al armar la línea de tiempo"))
		return
	}
	filtrarTimeline(c, resp)
	c.JSON(http.StatusOK, resp)
}

// filtrarTimeline acota la respuesta a un sector o línea puntual.
func filtrarTimeline(c *gin.Context, resp *dto.TimelineResponse) {
	sectorID, _ := strconv.ParseUint(c.Query("sector_id"), 10, 32)
	lineaID, _ := strconv.ParseUint(c.Query("linea_id"), 10, 32)
	if sectorID == 0 && lineaID == 0 {
		return
	}

	sectores := resp.Sectores[:0]
	for _, s := range resp.Sectores {
		if sectorID != 0 && s.ID != uint(sectorID) {
			continue
		}
		if lineaID != 0 {
			lineas := s.Lineas[:0]
			for _, l := range s.Lineas {
				if l.ID == uint(lineaID) {
					lineas = append(lineas, l)
				}
			}
			s.Lineas = lineas
			if len(lineas) == 0 {
				continue
			}
		}
		sectores = append(sectores, s)
	}
	resp.Sectores = sectores
}

// TiposEstado GET /v1/estados-linea/tipos-estado
func (h *EstadosLineaHandler) TiposEstado(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TiposEstado())
}
