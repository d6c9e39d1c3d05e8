package masterdata

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for reference data
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers master data routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	md := router.Group("/masterdata")
	{
		md.GET("/criteria", h.listCriteria)
		md.GET("/reason-codes", h.listReasonCodes)
		md.GET("/factors", h.searchFactors)
		md.GET("/factors/:id", h.getFactor)
	}
}

func (h *Handler) listCriteria(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	criteria, err := h.repo.ListCriteria(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list criteria", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list criteria"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"criteria": criteria})
}

func (h *Handler) listReasonCodes(c *gin.Context) {
	codes, err := h.repo.ListReasonCodes(c.Request.Context(), true)
	if err != nil {
		h.logger.Error("Failed to list reason codes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reason codes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reason_codes": codes})
}

func (h *Handler) searchFactors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := FactorFilter{
		Query:    c.Query("q"),
		Scope:    c.Query("scope"),
		Category: c.Query("category"),
		Region:   c.Query("region"),
		Limit:    limit,
	}

	factors, err := h.repo.SearchFactors(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to search factors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search emission factors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"factors": factors, "count": len(factors)})
}

func (h *Handler) getFactor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid factor id"})
		return
	}

	factor, err := h.repo.GetFactor(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "emission factor not found"})
			return
		}
		h.logger.Error("Failed to get factor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get emission factor"})
		return
	}
	c.JSON(http.StatusOK, factor)
}
