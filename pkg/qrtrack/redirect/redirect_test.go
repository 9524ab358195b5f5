package redirect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/businesses"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/scans"
	"github.com/mikepea/qrtrack/pkg/qrtrack/testutil"
)

type failingRecorder struct {
	calls int
	panic bool
}

func (f *failingRecorder) Record(context.Context, *models.Business, models.Platform, scans.Metadata) error {
	f.calls++
	if f.panic {
		panic("recorder exploded")
	}
	return errors.New("scan store unavailable")
}

func setupTestRouter(db *gorm.DB, recorder Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(businesses.NewStore(db), recorder)
	handler.RegisterRoutes(r)
	return r
}

func countScans(db *gorm.DB) int64 {
	var n int64
	db.Model(&models.ScanEvent{}).Count(&n)
	return n
}

func TestRedirectToDestination(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))
	testutil.CreateBusiness(t, db, "cafe", map[models.Platform]string{
		models.PlatformInstagram: "https://instagram.com/cafe",
	})

	req, _ := http.NewRequest("GET", "/r/cafe/instagram", nil)
	req.Header.Set("User-Agent", "Camera/1.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
	location := resp.Header().Get("Location")
	if location != "https://instagram.com/cafe" {
		t.Errorf("Expected Location 'https://instagram.com/cafe', got %s", location)
	}

	var events []models.ScanEvent
	db.Find(&events)
	if len(events) != 1 {
		t.Fatalf("Expected exactly 1 scan event, got %d", len(events))
	}
	if events[0].Platform != "INSTAGRAM" {
		t.Errorf("Expected platform INSTAGRAM, got %s", events[0].Platform)
	}
	if events[0].IPHash == nil || *events[0].IPHash != *scans.Fingerprint("203.0.113.7") {
		t.Errorf("Expected fingerprint of first forwarded address")
	}
}

func TestRedirectPlatformIsCaseInsensitive(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))
	testutil.CreateBusiness(t, db, "cafe", map[models.Platform]string{
		models.PlatformTikTok: "https://tiktok.com/@cafe",
	})

	req, _ := http.NewRequest("GET", "/r/cafe/TikTok", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound || resp.Header().Get("Location") != "https://tiktok.com/@cafe" {
		t.Errorf("Expected redirect to tiktok, got %d %s", resp.Code, resp.Header().Get("Location"))
	}
}

func TestRedirectUnsetPlatformLandsOnPoster(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))
	testutil.CreateBusiness(t, db, "cafe", nil)

	req, _ := http.NewRequest("GET", "/r/cafe/youtube", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
	if location := resp.Header().Get("Location"); location != "/p/cafe" {
		t.Errorf("Expected Location '/p/cafe', got %s", location)
	}
	if n := countScans(db); n != 0 {
		t.Errorf("Expected no scan events for landing fallback, got %d", n)
	}
}

func TestRedirectSucceedsWhenRecordingFails(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &failingRecorder{}
	router := setupTestRouter(db, recorder)
	testutil.CreateBusiness(t, db, "cafe", map[models.Platform]string{
		models.PlatformInstagram: "https://instagram.com/cafe",
	})

	req, _ := http.NewRequest("GET", "/r/cafe/instagram", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
	if location := resp.Header().Get("Location"); location != "https://instagram.com/cafe" {
		t.Errorf("Expected Location 'https://instagram.com/cafe', got %s", location)
	}
	if recorder.calls != 1 {
		t.Errorf("Expected recorder to be called once, got %d", recorder.calls)
	}
}

func TestRedirectSucceedsWhenRecorderPanics(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, &failingRecorder{panic: true})
	testutil.CreateBusiness(t, db, "cafe", map[models.Platform]string{
		models.PlatformYouTube: "https://youtube.com/@cafe",
	})

	req, _ := http.NewRequest("GET", "/r/cafe/youtube", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
}

func TestRedirectSucceedsWhenScanInsertFails(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))
	testutil.CreateBusiness(t, db, "cafe", map[models.Platform]string{
		models.PlatformInstagram: "https://instagram.com/cafe",
	})
	db.Callback().Create().Before("gorm:create").Register("test:fail_scan_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "scan_events" {
			tx.AddError(errors.New("injected"))
		}
	})

	req, _ := http.NewRequest("GET", "/r/cafe/instagram", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
	if n := countScans(db); n != 0 {
		t.Errorf("Expected failed insert to leave no events, got %d", n)
	}
}

func TestRedirectInvalidPlatform(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))
	testutil.CreateBusiness(t, db, "cafe", nil)

	req, _ := http.NewRequest("GET", "/r/cafe/myspace", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
	if resp.Body.String() != "Invalid platform" {
		t.Errorf("Expected body 'Invalid platform', got %q", resp.Body.String())
	}
}

func TestRedirectNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db, scans.NewRecorder(db))

	req, _ := http.NewRequest("GET", "/r/nonexistent/instagram", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
