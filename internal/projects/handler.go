package projects

import (
	"errors"
	"net/http"
	"strconv"

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
	router.POST("/projects", auth.RequireRole(workflows.RoleDataEntry), h.Create)
	router.GET("/projects", h.List)
	router.GET("/projects/:id", h.Get)
	router.DELETE("/projects/:id", auth.RequireRole(workflows.RoleDataEntry, workflows.RoleApprover), h.Delete)

	router.POST("/projects/:id/transitions", h.Transition)
	router.GET("/projects/:id/transitions", h.AllowedTransitions)
	router.GET("/projects/:id/audit", h.AuditTrail)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := auth.ActorFromContext(c)

	project, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("Failed to load project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) List(c *gin.Context) {
	filter := ProjectFilter{
		Status: workflows.Status(c.Query("status")),
	}
	if year := c.Query("reporting_year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			filter.ReportingYear = y
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil {
			filter.Offset = o
		}
	}

	projects, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": total})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	project, err := h.service.AttemptTransition(c.Request.Context(), id, req, actor)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) AllowedTransitions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	targets, err := h.service.AllowedTransitions(c.Request.Context(), id, actor.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve transitions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed_transitions": targets})
}

func (h *Handler) AuditTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	entries, err := h.service.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load audit trail", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit trail"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_log": entries, "count": len(entries)})
}

func (h *Handler) respondTransitionError(c *gin.Context, err error) {
	var (
		invalid    *workflows.InvalidTransitionError
		incomplete *workflows.IncompleteCalculationsError
		missing    *workflows.MissingReviewDataError
	)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusConflict, gin.H{
			"error":              err.Error(),
			"missing_categories": incomplete.MissingCategories,
		})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflows.ErrConfirmationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Transition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
	}
}
