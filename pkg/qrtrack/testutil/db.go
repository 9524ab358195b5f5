// Package testutil provides shared helpers for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/database"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// The pool is capped at one connection so every query sees the same memory
// database. It is closed automatically when the test finishes.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name))
	if err != nil {
		t.Fatalf("testutil.NewDB: open: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testutil.NewDB: sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("testutil.NewDB: migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateBusiness inserts a business with the given slug and destinations.
func CreateBusiness(t *testing.T, db *gorm.DB, slug string, destinations map[models.Platform]string) *models.Business {
	t.Helper()

	biz := &models.Business{Name: slug, Slug: slug, QRLayout: models.LayoutVertical}
	for p, u := range destinations {
		u := u
		biz.SetDestination(p, &u)
	}
	if err := db.Create(biz).Error; err != nil {
		t.Fatalf("testutil.CreateBusiness: %v", err)
	}
	return biz
}
