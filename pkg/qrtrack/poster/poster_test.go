package poster_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/businesses"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/poster"
	"github.com/mikepea/qrtrack/pkg/qrtrack/testutil"
	"github.com/mikepea/qrtrack/pkg/qrtrack/views"
)

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(views.Must("http://localhost:3000"))
	poster.NewHandler(businesses.NewStore(db)).RegisterRoutes(r)
	return r
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	_, err := businesses.NewStore(db).Create(context.Background(), businesses.CreateInput{
		Name: "Corner Bakery",
		Slug: "bakery",
		Branding: businesses.Branding{
			PublicTitle:  "Find us online",
			PublicFooter: "Thanks for visiting",
			CTALabel:     "Tag us",
			CTAText:      "@bakery",
		},
		Destinations: map[models.Platform]string{
			models.PlatformInstagram: "https://instagram.com/bakery",
			models.PlatformYouTube:   "https://youtube.com/@bakery",
		},
		Steps: "Open your camera\nPoint at a code",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestPublicPoster(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db)
	seed(t, db)

	req, _ := http.NewRequest("GET", "/p/bakery", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := resp.Body.String()
	for _, want := range []string{
		"Find us online",
		"<li>Open your camera</li>",
		"<li>Point at a code</li>",
		"/qr/bakery/instagram.png",
		"/qr/bakery/youtube.png",
		"Thanks for visiting",
		`class="public"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "/qr/bakery/tiktok.png") {
		t.Error("Expected disabled platform to be left off the poster")
	}
	if strings.Contains(body, "window.print()") {
		t.Error("Expected public poster to omit the toolbar")
	}
}

func TestPreviewPoster(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db)
	seed(t, db)

	req, _ := http.NewRequest("GET", "/poster/bakery", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "window.print()") {
		t.Error("Expected preview to include the print toolbar")
	}
	if !strings.Contains(body, `href="/business/bakery"`) {
		t.Error("Expected preview to link back to the admin page")
	}
}

func TestPosterNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	router := setupTestRouter(db)

	for _, path := range []string{"/p/missing", "/poster/missing"} {
		req, _ := http.NewRequest("GET", path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, resp.Code)
		}
		if resp.Body.String() != "Not found" {
			t.Errorf("%s: expected body 'Not found', got %q", path, resp.Body.String())
		}
	}
}
