// Package analytics summarises scan events.
package analytics

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// PlatformCount is the number of scans recorded for one platform.
type PlatformCount struct {
	Platform string `db:"platform" json:"platform"`
	Count    int64  `db:"count" json:"count"`
}

// Aggregator runs read-only reporting queries.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates an Aggregator on db.
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// CountsByPlatform groups a business's scan events by platform. Platforms
// without events are omitted.
func (a *Aggregator) CountsByPlatform(ctx context.Context, businessID uint) ([]PlatformCount, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, apperr.Internal("Analytics", err)
	}

	query := goqu.New("sqlite3", sqlDB).
		From("scan_events").
		Select(goqu.C("platform"), goqu.COUNT("*").As("count")).
		Where(goqu.C("business_id").Eq(businessID)).
		GroupBy(goqu.C("platform")).
		Order(goqu.C("platform").Asc())

	counts := []PlatformCount{}
	if err := query.ScanStructsContext(ctx, &counts); err != nil {
		return nil, apperr.Internal("Analytics", err)
	}
	return counts, nil
}

// Dense fills in a zero count for every platform missing from counts,
// in models.Platforms order.
func Dense(counts []PlatformCount) []PlatformCount {
	byCode := lo.SliceToMap(counts, func(c PlatformCount) (string, int64) {
		return c.Platform, c.Count
	})
	return lo.Map(models.Platforms, func(p models.Platform, _ int) PlatformCount {
		return PlatformCount{Platform: p.Code(), Count: byCode[p.Code()]}
	})
}

// Total sums counts.
func Total(counts []PlatformCount) int64 {
	return lo.SumBy(counts, func(c PlatformCount) int64 { return c.Count })
}
