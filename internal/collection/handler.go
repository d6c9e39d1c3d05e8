package collection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	entry := router.Group("", auth.RequireRole(workflows.RoleDataEntry))
	{
		entry.POST("/activity-data", h.UpsertLine)
		entry.DELETE("/activity-data/:id", h.DeleteLine)
		entry.POST("/activity-data/:id/evidence", h.AttachEvidence)
		entry.DELETE("/evidence/:id", h.RemoveEvidence)
	}

	router.GET("/projects/:id/activity-data", h.ListLines)
	router.GET("/evidence/:id/url", h.EvidenceURL)
}

func (h *Handler) UpsertLine(c *gin.Context) {
	var req UpsertLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := auth.ActorFromContext(c)

	line, err := h.service.UpsertLine(c.Request.Context(), req, actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) DeleteLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line ID"})
		return
	}
	if err := h.service.DeleteLine(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity line deleted"})
}

func (h *Handler) ListLines(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	lines, err := h.service.ListLines(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity_data": lines, "count": len(lines)})
}

func (h *Handler) AttachEvidence(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	actor, _ := auth.ActorFromContext(c)
	contentType := fileHeader.Header.Get("Content-Type")

	ev, err := h.service.AttachEvidence(c.Request.Context(), lineID,
		fileHeader.Filename, contentType, fileHeader.Size, file, actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handler) RemoveEvidence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid evidence ID"})
		return
	}
	if err := h.service.RemoveEvidence(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "evidence removed"})
}

func (h *Handler) EvidenceURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid evidence ID"})
		return
	}
	url, err := h.service.EvidenceURL(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, ErrNotEditable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Collection request failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
