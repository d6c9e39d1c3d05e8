package calculation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// Handler handles HTTP requests for emission calculations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers calculation routes. All routes require the
// calculator role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	calcs := router.Group("/calculations")
	calcs.Use(auth.RequireRole(workflows.RoleCalculator))
	{
		calcs.POST("", h.calculateLine)
		calcs.PUT("/:id", h.updateLine)
	}

	projects := router.Group("/projects/:id")
	{
		projects.GET("/calculations", h.listCalculations)
		projects.GET("/calculations/coverage", h.coverage)
	}
}

func (h *Handler) calculateLine(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CalculateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calc, err := h.service.CalculateLine(c.Request.Context(), req, actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, calc)
}

func (h *Handler) updateLine(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	calcID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid calculation id"})
		return
	}

	var req CalculateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calc, err := h.service.UpdateLine(c.Request.Context(), calcID, req, actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *Handler) listCalculations(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	includeSuperseded := c.Query("include_superseded") == "true"
	calcs, err := h.service.ListByProject(c.Request.Context(), projectID, includeSuperseded)
	if err != nil {
		h.logger.Error("Failed to list calculations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list calculations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calculations": calcs})
}

func (h *Handler) coverage(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	summary, err := h.service.Coverage(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("Failed to compute coverage", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute coverage"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var invalid *InvalidQuantityError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Warn("Calculation request rejected", zap.Error(err))
	c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
}
