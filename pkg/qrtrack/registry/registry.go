// Package registry owns the per-business platform destinations and steps.
//
// Every destination change writes a RedirectHistory row and updates the
// business in the same transaction, so the audit trail never drifts from the
// current state.
package registry

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// Registry writes destinations, steps and their audit trail.
type Registry struct {
	db *gorm.DB
}

// New creates a Registry on db.
func New(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// WithTx returns a Registry whose writes join tx.
func (r *Registry) WithTx(tx *gorm.DB) *Registry {
	return &Registry{db: tx}
}

// SetDestination points platform at newURL, or disables it when newURL is
// nil or blank. The history row and the business update commit together.
func (r *Registry) SetDestination(ctx context.Context, biz *models.Business, platform models.Platform, newURL *string) error {
	if !platform.Valid() {
		return &apperr.InvalidPlatformError{Platform: string(platform)}
	}
	next := normalize(newURL)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setDestination(tx, biz, platform, next)
	})
	if err != nil {
		return apperr.Internal("Update", err)
	}

	biz.SetDestination(platform, next)
	log.Info().Str("slug", biz.Slug).Str("platform", string(platform)).Bool("enabled", next != nil).Msg("destination updated")
	return nil
}

// Toggle disables platform, or enables it with newURL falling back to the
// platform's current destination. Enabling with no URL at all is a
// ValidationError.
func (r *Registry) Toggle(ctx context.Context, biz *models.Business, platform models.Platform, enable bool, newURL string) error {
	if !platform.Valid() {
		return &apperr.InvalidPlatformError{Platform: string(platform)}
	}

	var next *string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if enable {
			to := strings.TrimSpace(newURL)
			if to == "" {
				current, err := currentDestination(tx, biz, platform)
				if err != nil {
					return err
				}
				to = lo.FromPtr(current)
			}
			if to == "" {
				return &apperr.ValidationError{Message: "Provide a URL to enable this platform."}
			}
			next = &to
		}
		return setDestination(tx, biz, platform, next)
	})
	if err != nil {
		return apperr.Internal("Toggle", err)
	}

	biz.SetDestination(platform, next)
	log.Info().Str("slug", biz.Slug).Str("platform", string(platform)).Bool("enabled", enable).Msg("platform toggled")
	return nil
}

// ReplaceSteps swaps the business's steps for lines. Positions are the
// 1-based index of each line; readers never observe a partial list.
func (r *Registry) ReplaceSteps(ctx context.Context, businessID uint, lines []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessID).Delete(&models.Step{}).Error; err != nil {
			return err
		}
		steps := buildSteps(businessID, lines)
		if len(steps) == 0 {
			return nil
		}
		return tx.Create(&steps).Error
	})
	return apperr.Internal("Step save", err)
}

// Steps returns the business's steps in poster order.
func (r *Registry) Steps(ctx context.Context, businessID uint) ([]models.Step, error) {
	var steps []models.Step
	err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("position ASC").Find(&steps).Error
	return steps, apperr.Internal("Step lookup", err)
}

// History returns the audit trail for a business, newest first.
func (r *Registry) History(ctx context.Context, businessID uint) ([]models.RedirectHistory, error) {
	var rows []models.RedirectHistory
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, apperr.Internal("History lookup", err)
}

// ParseSteps splits newline separated text into trimmed, non-blank lines.
func ParseSteps(text string) []string {
	lines := lo.Map(strings.Split(text, "\n"), func(l string, _ int) string {
		return strings.TrimSpace(l)
	})
	return lo.Compact(lines)
}

func buildSteps(businessID uint, lines []string) []models.Step {
	lines = lo.Compact(lo.Map(lines, func(l string, _ int) string { return strings.TrimSpace(l) }))
	return lo.Map(lines, func(text string, i int) models.Step {
		return models.Step{BusinessID: businessID, Position: i + 1, Text: text}
	})
}

// StageDestination writes the history row and the destination update on tx
// without touching biz in memory. Callers that own the surrounding
// transaction apply the change to biz once it commits.
func StageDestination(tx *gorm.DB, biz *models.Business, platform models.Platform, newURL *string) (*string, error) {
	if !platform.Valid() {
		return nil, &apperr.InvalidPlatformError{Platform: string(platform)}
	}
	next := normalize(newURL)
	return next, setDestination(tx, biz, platform, next)
}

// setDestination runs inside a transaction: history first, then the update.
func setDestination(tx *gorm.DB, biz *models.Business, platform models.Platform, next *string) error {
	current, err := currentDestination(tx, biz, platform)
	if err != nil {
		return err
	}

	entry := models.RedirectHistory{
		BusinessID: biz.ID,
		Platform:   platform.Code(),
		FromURL:    current,
		ToURL:      lo.FromPtr(next),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	var value any
	if next != nil {
		value = *next
	}
	res := tx.Model(&models.Business{}).Where("id = ?", biz.ID).Update(platform.Column(), value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Slug: biz.Slug}
	}
	return nil
}

func currentDestination(tx *gorm.DB, biz *models.Business, platform models.Platform) (*string, error) {
	var current models.Business
	if err := tx.Select("id", platform.Column()).First(&current, biz.ID).Error; err != nil {
		return nil, apperr.FromLookup(biz.Slug, err)
	}
	if u, ok := current.Destination(platform); ok {
		return &u, nil
	}
	return nil, nil
}

func normalize(u *string) *string {
	if u == nil {
		return nil
	}
	t := strings.TrimSpace(*u)
	if t == "" {
		return nil
	}
	return &t
}
