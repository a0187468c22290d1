package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattygrunge/planproduccion/internal/apierror"
	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/service"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler {
	return &LotesHandler{svc: svc}
}

// Crear POST /v1/lotes
// Con advertencias sin confirmar responde 200 y creado=false; el cliente
// reintenta con ignorar_advertencias=true para persistir.
func (h *LotesHandler) Crear(c *gin.Context) {
	var req dto.CrearLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if !resp.Creado {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/lotes
func (h *LotesHandler) Listar(c *gin.Context) {
	var filter dto.LoteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar lotes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/lotes/:id
func (h *LotesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Lote no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/lotes/:id
func (h *LotesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarLoteRequest
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

// Desactivar DELETE /v1/lotes/:id
func (h *LotesHandler) Desactivar(c *gin.Context) {
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

// Reactivar POST /v1/lotes/:id/reactivar
func (h *LotesHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), actorDe(c), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Lote reactivado"})
}

// Validar POST /v1/lotes/validar
func (h *LotesHandler) Validar(c *gin.Context) {
	var req dto.ValidarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SugerirNumero GET /v1/lotes/producto/:producto_id/sugerir-numero
func (h *LotesHandler) SugerirNumero(c *gin.Context) {
	productoID, ok := parseParamID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.SugerirNumero(c.Request.Context(), productoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ultimo GET /v1/lotes/producto/:producto_id/ultimo
func (h *LotesHandler) Ultimo(c *gin.Context) {
	productoID, ok := parseParamID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.Ultimo(c.Request.Context(), productoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusOK, gin.H{"lote": nil})
		return
	}
	c.JSON(http.StatusOK, resp)
}
