package businesses

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/registry"
	"github.com/mikepea/qrtrack/pkg/qrtrack/slug"
)

// Store reads and writes businesses.
type Store struct {
	db       *gorm.DB
	registry *registry.Registry
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, registry: registry.New(db)}
}

// Registry returns the link registry sharing the store's handle.
func (s *Store) Registry() *registry.Registry {
	return s.registry
}

// Branding is the operator editable poster copy and look.
type Branding struct {
	LogoURL        string
	BrandColor     string
	ShowLogo       bool
	PublicTitle    string
	PublicSubtitle string
	PublicFooter   string
	CTALabel       string
	CTAText        string
	QRLayout       string
}

// CreateInput describes a new business.
type CreateInput struct {
	Name         string
	Slug         string
	Branding     Branding
	Destinations map[models.Platform]string
	Steps        string
}

// ThemeInput replaces branding, destinations and steps in one save.
type ThemeInput struct {
	Branding     Branding
	Destinations map[models.Platform]string
	Steps        string
}

// List returns all businesses, newest first.
func (s *Store) List(ctx context.Context) ([]models.Business, error) {
	var list []models.Business
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, apperr.Internal("List", err)
}

// GetBySlug returns the business owning slug or a NotFoundError.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var biz models.Business
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&biz).Error; err != nil {
		return nil, apperr.Internal("Lookup", apperr.FromLookup(slug, err))
	}
	return &biz, nil
}

// GetWithSteps is GetBySlug with steps loaded in poster order.
func (s *Store) GetWithSteps(ctx context.Context, slug string) (*models.Business, error) {
	var biz models.Business
	err := s.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("slug = ?", slug).
		First(&biz).Error
	if err != nil {
		return nil, apperr.Internal("Lookup", apperr.FromLookup(slug, err))
	}
	return &biz, nil
}

// Create inserts a business and its initial steps. A taken slug is a
// ConflictError; it is never silently altered.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Business, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &apperr.ValidationError{Message: "Name is required"}
	}
	key, err := slug.Resolve(name, in.Slug)
	if err != nil {
		return nil, err
	}

	biz := &models.Business{Name: name, Slug: key}
	applyBranding(biz, in.Branding)
	for _, p := range models.Platforms {
		biz.SetDestination(p, lo.EmptyableToPtr(strings.TrimSpace(in.Destinations[p])))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", key).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return &apperr.ConflictError{Slug: key}
		}
		if err := tx.Create(biz).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.ConflictError{Slug: key}
			}
			return err
		}
		return s.registry.WithTx(tx).ReplaceSteps(ctx, biz.ID, registry.ParseSteps(in.Steps))
	})
	if err != nil {
		return nil, apperr.Internal("Create", err)
	}

	log.Info().Str("slug", biz.Slug).Uint("id", biz.ID).Msg("business created")
	return biz, nil
}

// UpdateTheme saves branding, routes every changed destination through the
// registry so it is audited, and replaces the steps, all in one transaction.
func (s *Store) UpdateTheme(ctx context.Context, biz *models.Business, in ThemeInput) error {
	changed := map[models.Platform]*string{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated := *biz
		applyBranding(&updated, in.Branding)
		res := tx.Model(&models.Business{}).Where("id = ?", biz.ID).Updates(map[string]any{
			"logo_url":        updated.LogoURL,
			"brand_color":     updated.BrandColor,
			"show_logo":       updated.ShowLogo,
			"public_title":    updated.PublicTitle,
			"public_subtitle": updated.PublicSubtitle,
			"public_footer":   updated.PublicFooter,
			"cta_label":       updated.CTALabel,
			"cta_text":        updated.CTAText,
			"qr_layout":       updated.QRLayout,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperr.NotFoundError{Slug: biz.Slug}
		}

		for _, p := range models.Platforms {
			next := strings.TrimSpace(in.Destinations[p])
			current, _ := biz.Destination(p)
			if next == current {
				continue
			}
			staged, err := registry.StageDestination(tx, biz, p, lo.EmptyableToPtr(next))
			if err != nil {
				return err
			}
			changed[p] = staged
		}

		return s.registry.WithTx(tx).ReplaceSteps(ctx, biz.ID, registry.ParseSteps(in.Steps))
	})
	if err != nil {
		return apperr.Internal("Theme save", err)
	}

	applyBranding(biz, in.Branding)
	for p, next := range changed {
		biz.SetDestination(p, next)
		log.Info().Str("slug", biz.Slug).Str("platform", string(p)).Bool("enabled", next != nil).Msg("destination updated")
	}
	return nil
}

// Delete removes the business with its steps, history and scan events.
func (s *Store) Delete(ctx context.Context, biz *models.Business) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&models.RedirectHistory{}, &models.ScanEvent{}, &models.Step{}} {
			if err := tx.Where("business_id = ?", biz.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Business{}, biz.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperr.NotFoundError{Slug: biz.Slug}
		}
		return nil
	})
	if err != nil {
		return apperr.Internal("Delete", err)
	}

	log.Info().Str("slug", biz.Slug).Msg("business deleted")
	return nil
}

func applyBranding(biz *models.Business, b Branding) {
	biz.LogoURL = optional(b.LogoURL)
	biz.BrandColor = optional(b.BrandColor)
	biz.ShowLogo = b.ShowLogo
	biz.PublicTitle = optional(b.PublicTitle)
	biz.PublicSubtitle = optional(b.PublicSubtitle)
	biz.PublicFooter = optional(b.PublicFooter)
	biz.CTALabel = optional(b.CTALabel)
	biz.CTAText = optional(b.CTAText)
	biz.QRLayout = models.ParseLayout(b.QRLayout)
}

func optional(s string) *string {
	return lo.EmptyableToPtr(strings.TrimSpace(s))
}
