package qr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
)

// Handler serves QR images.
type Handler struct {
	resolver *Resolver
}

// NewHandler creates a new QR handler
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Image handles GET /qr/:slug/:platform.png
func (h *Handler) Image(c *gin.Context) {
	platform, ok := strings.CutSuffix(c.Param("file"), ".png")
	if !ok {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	png, err := h.resolver.Render(c.Request.Context(), c.Param("slug"), platform)
	if err != nil {
		apperr.Text(c, err)
		return
	}

	c.Header("Cache-Control", CacheControl)
	c.Data(http.StatusOK, "image/png", png)
}

// RegisterRoutes registers QR routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/qr/:slug/:file", h.Image)
}
