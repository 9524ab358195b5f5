package businesses

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/mikepea/qrtrack/pkg/qrtrack/analytics"
	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// Handler serves the admin pages and their form posts.
type Handler struct {
	store      *Store
	aggregator *analytics.Aggregator
}

// NewHandler creates a new business handler
func NewHandler(store *Store, aggregator *analytics.Aggregator) *Handler {
	return &Handler{store: store, aggregator: aggregator}
}

// BusinessForm is the create and theme form body.
type BusinessForm struct {
	Name           string `form:"name"`
	Slug           string `form:"slug"`
	LogoURL        string `form:"logoUrl"`
	BrandColor     string `form:"brandColor"`
	ShowLogo       string `form:"showLogo"`
	PublicTitle    string `form:"publicTitle"`
	PublicSubtitle string `form:"publicSubtitle"`
	PublicFooter   string `form:"publicFooter"`
	CTALabel       string `form:"ctaLabel"`
	CTAText        string `form:"ctaText"`
	InstagramURL   string `form:"instagramUrl"`
	TikTokURL      string `form:"tiktokUrl"`
	YouTubeURL     string `form:"youtubeUrl"`
	QRLayout       string `form:"qrLayout"`
	Steps          string `form:"steps"`
}

func (f BusinessForm) branding() Branding {
	return Branding{
		LogoURL:        f.LogoURL,
		BrandColor:     f.BrandColor,
		ShowLogo:       f.ShowLogo != "",
		PublicTitle:    f.PublicTitle,
		PublicSubtitle: f.PublicSubtitle,
		PublicFooter:   f.PublicFooter,
		CTALabel:       f.CTALabel,
		CTAText:        f.CTAText,
		QRLayout:       f.QRLayout,
	}
}

func (f BusinessForm) destinations() map[models.Platform]string {
	return map[models.Platform]string{
		models.PlatformInstagram: f.InstagramURL,
		models.PlatformTikTok:    f.TikTokURL,
		models.PlatformYouTube:   f.YouTubeURL,
	}
}

// DestinationForm is the body of the update and toggle posts.
type DestinationForm struct {
	Platform string `form:"platform"`
	NewURL   string `form:"newUrl"`
	Enabled  string `form:"enabled"`
}

// HistoryEntry is one audit row in history.json.
type HistoryEntry struct {
	Platform  string    `json:"platform"`
	FromURL   *string   `json:"fromUrl"`
	ToURL     string    `json:"toUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryResponse is the history.json body.
type HistoryResponse struct {
	Business string         `json:"business"`
	History  []HistoryEntry `json:"history"`
}

// AdminPath is the manage page for slug.
func AdminPath(slug string) string {
	return "/business/" + url.PathEscape(slug)
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		apperr.Text(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"businesses": list})
}

// Create handles POST /business
func (h *Handler) Create(c *gin.Context) {
	var form BusinessForm
	if err := c.ShouldBind(&form); err != nil {
		apperr.Text(c, &apperr.ValidationError{Message: err.Error()})
		return
	}

	biz, err := h.store.Create(c.Request.Context(), CreateInput{
		Name:         form.Name,
		Slug:         form.Slug,
		Branding:     form.branding(),
		Destinations: form.destinations(),
		Steps:        form.Steps,
	})
	if err != nil {
		apperr.Text(c, err)
		return
	}

	c.Redirect(http.StatusFound, AdminPath(biz.Slug))
}

// Show handles GET /business/:slug
func (h *Handler) Show(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetWithSteps(ctx, c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	counts, err := h.aggregator.CountsByPlatform(ctx, biz.ID)
	if err != nil {
		apperr.Text(c, err)
		return
	}
	history, err := h.store.Registry().History(ctx, biz.ID)
	if err != nil {
		apperr.Text(c, err)
		return
	}

	c.HTML(http.StatusOK, "business.html", gin.H{
		"biz":     biz,
		"counts":  analytics.Dense(counts),
		"total":   analytics.Total(counts),
		"history": history,
	})
}

// Update handles POST /business/:slug/update
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	var form DestinationForm
	if err := c.ShouldBind(&form); err != nil {
		apperr.Text(c, &apperr.ValidationError{Message: err.Error()})
		return
	}
	platform, ok := models.ParsePlatform(form.Platform)
	if !ok {
		apperr.Text(c, &apperr.InvalidPlatformError{Platform: form.Platform})
		return
	}

	if err := h.store.Registry().SetDestination(ctx, biz, platform, lo.EmptyableToPtr(form.NewURL)); err != nil {
		apperr.Text(c, err)
		return
	}

	c.Redirect(http.StatusFound, AdminPath(biz.Slug))
}

// Theme handles POST /business/:slug/theme
func (h *Handler) Theme(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	var form BusinessForm
	if err := c.ShouldBind(&form); err != nil {
		apperr.Text(c, &apperr.ValidationError{Message: err.Error()})
		return
	}

	err = h.store.UpdateTheme(ctx, biz, ThemeInput{
		Branding:     form.branding(),
		Destinations: form.destinations(),
		Steps:        form.Steps,
	})
	if err != nil {
		apperr.Text(c, err)
		return
	}

	c.Redirect(http.StatusFound, AdminPath(biz.Slug))
}

// Toggle handles POST /business/:slug/toggle
func (h *Handler) Toggle(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	var form DestinationForm
	if err := c.ShouldBind(&form); err != nil {
		apperr.Text(c, &apperr.ValidationError{Message: err.Error()})
		return
	}
	platform, ok := models.ParsePlatform(form.Platform)
	if !ok {
		apperr.Text(c, &apperr.InvalidPlatformError{Platform: form.Platform})
		return
	}

	if err := h.store.Registry().Toggle(ctx, biz, platform, form.Enabled == "on", form.NewURL); err != nil {
		apperr.Text(c, err)
		return
	}

	c.Redirect(http.StatusFound, AdminPath(biz.Slug))
}

// Delete handles POST /business/:slug/delete
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.Text(c, err)
		return
	}

	if err := h.store.Delete(ctx, biz); err != nil {
		apperr.Text(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// History handles GET /business/:slug/history.json
func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()

	biz, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	rows, err := h.store.Registry().History(ctx, biz.ID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Business: biz.Slug,
		History: lo.Map(rows, func(r models.RedirectHistory, _ int) HistoryEntry {
			return HistoryEntry{Platform: r.Platform, FromURL: r.FromURL, ToURL: r.ToURL, CreatedAt: r.CreatedAt}
		}),
	})
}

// RegisterRoutes registers the admin routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.POST("/business", h.Create)

	biz := r.Group("/business/:slug")
	{
		biz.GET("", h.Show)
		biz.POST("/update", h.Update)
		biz.POST("/theme", h.Theme)
		biz.POST("/toggle", h.Toggle)
		biz.POST("/delete", h.Delete)
		biz.GET("/history.json", h.History)
	}
}
