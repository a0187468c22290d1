package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattygrunge/planproduccion/internal/apierror"
	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/service"
)

type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

// Listar GET /v1/historial
func (h *HistorialHandler) Listar(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar el historial"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estadisticas GET /v1/historial/estadisticas
func (h *HistorialHandler) Estadisticas(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	stats, err := h.svc.Estadisticas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular estadísticas"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportarCSV GET /v1/historial/exportar/csv
// Aplica los mismos filtros del listado y descarga el set completo.
func (h *HistorialHandler) ExportarCSV(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	data, filename, err := h.svc.ExportarCSV(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al exportar el historial"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportarPDF GET /v1/historial/exportar/pdf
func (h *HistorialHandler) ExportarPDF(c *gin.Context) {
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos"))
		return
	}
	path, err := h.svc.ExportarPDF(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el PDF"))
		return
	}
	c.FileAttachment(path, "historial_lotes.pdf")
}
