package redirect

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/scans"
)

// BusinessFinder looks up a business by slug.
type BusinessFinder interface {
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
}

// Recorder appends a scan event.
type Recorder interface {
	Record(ctx context.Context, biz *models.Business, platform models.Platform, meta scans.Metadata) error
}

// Handler handles redirect requests
type Handler struct {
	businesses BusinessFinder
	recorder   Recorder
}

// NewHandler creates a new redirect handler
func NewHandler(businesses BusinessFinder, recorder Recorder) *Handler {
	return &Handler{businesses: businesses, recorder: recorder}
}

// LandingPath is where scanners land when a platform has no destination.
func LandingPath(slug string) string {
	return "/p/" + url.PathEscape(slug)
}

// Redirect handles the stable URL printed into QR codes.
// A platform without a destination lands on the public poster instead of
// erroring. Scan recording never affects the response.
func (h *Handler) Redirect(c *gin.Context) {
	platform, ok := models.ParsePlatform(c.Param("platform"))
	if !ok {
		apperr.Text(c, &apperr.InvalidPlatformError{Platform: c.Param("platform")})
		return
	}

	biz, err := h.businesses.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	target, ok := biz.Destination(platform)
	if !ok {
		c.Redirect(http.StatusFound, LandingPath(biz.Slug))
		return
	}

	h.record(c, biz, platform)

	c.Redirect(http.StatusFound, target)
}

// record logs and swallows every failure, panics included.
func (h *Handler) record(c *gin.Context, biz *models.Business, platform models.Platform) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("slug", biz.Slug).Msg("scan recorder panicked")
		}
	}()

	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.recorder.Record(ctx, biz, platform, scans.MetadataFromRequest(c.Request)); err != nil {
		log.Error().Err(err).Str("slug", biz.Slug).Str("platform", string(platform)).Msg("failed to record scan")
	}
}

// RegisterRoutes registers redirect routes on the root router
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/r/:slug/:platform", h.Redirect)
}
