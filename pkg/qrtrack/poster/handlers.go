// Package poster renders the printable flyer for a business.
package poster

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// BusinessFinder loads a business together with its steps.
type BusinessFinder interface {
	GetWithSteps(ctx context.Context, slug string) (*models.Business, error)
}

// Handler serves poster pages.
type Handler struct {
	businesses BusinessFinder
}

// NewHandler creates a new poster handler
func NewHandler(businesses BusinessFinder) *Handler {
	return &Handler{businesses: businesses}
}

// Preview handles GET /poster/:slug, the admin copy with a print toolbar.
func (h *Handler) Preview(c *gin.Context) {
	h.render(c, false)
}

// Public handles GET /p/:slug, the bare flyer scanners land on.
func (h *Handler) Public(c *gin.Context) {
	h.render(c, true)
}

func (h *Handler) render(c *gin.Context, isPublic bool) {
	biz, err := h.businesses.GetWithSteps(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	c.HTML(http.StatusOK, "poster.html", gin.H{
		"biz":       biz,
		"isPublic":  isPublic,
		"platforms": biz.Enabled(),
	})
}

// RegisterRoutes registers poster routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/poster/:slug", h.Preview)
	r.GET("/p/:slug", h.Public)
}
