package analytics

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// BusinessFinder looks up a business by slug.
type BusinessFinder interface {
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
}

// Handler serves analytics endpoints.
type Handler struct {
	businesses BusinessFinder
	aggregator *Aggregator
}

// NewHandler creates a new analytics handler
func NewHandler(businesses BusinessFinder, aggregator *Aggregator) *Handler {
	return &Handler{businesses: businesses, aggregator: aggregator}
}

// CountsResponse is the analytics.json body.
type CountsResponse struct {
	Business string          `json:"business"`
	Counts   []PlatformCount `json:"counts"`
}

// Counts handles GET /business/:slug/analytics.json
func (h *Handler) Counts(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.businesses.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	counts, err := h.aggregator.CountsByPlatform(ctx, biz.ID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, CountsResponse{Business: biz.Slug, Counts: counts})
}

// RegisterRoutes registers analytics routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/business/:slug/analytics.json", h.Counts)
}
