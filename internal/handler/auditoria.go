package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattygrunge/planproduccion/internal/apierror"
	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/service"
)

type AuditoriaHandler struct{ svc service.AuditService }

func NewAuditoriaHandler(svc service.AuditService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// Listar GET /v1/auditoria
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	var filter dto.AuditoriaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar la auditoría"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estadisticas GET /v1/auditoria/estadisticas
func (h *AuditoriaHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular estadísticas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
