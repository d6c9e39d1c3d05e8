package reports

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/dashboard", h.Dashboard)
	router.GET("/projects/:id/export/xlsx", h.ExportXLSX)
	router.GET("/projects/:id/export/pdf", h.ExportPDF)
}

func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), projectID, &buf); err != nil {
		h.respondExportError(c, err)
		return
	}

	filename := fmt.Sprintf("emissions-report-%s.xlsx", projectID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) ExportPDF(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportPDF(c.Request.Context(), projectID, &buf); err != nil {
		h.respondExportError(c, err)
		return
	}

	filename := fmt.Sprintf("emissions-report-%s.pdf", projectID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) respondExportError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotExportable) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Export failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
}
