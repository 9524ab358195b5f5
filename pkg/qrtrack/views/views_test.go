package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

func TestParseDefinesPages(t *testing.T) {
	tmpl, err := Parse("http://localhost:3000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, name := range []string{"index.html", "business.html", "poster.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("Expected template %q to be defined", name)
		}
	}
}

func TestFuncs(t *testing.T) {
	funcs := Funcs("https://qr.example.com/")

	stableURL := funcs["stableURL"].(func(string, models.Platform) string)
	if got := stableURL("cafe", models.PlatformTikTok); got != "https://qr.example.com/r/cafe/tiktok" {
		t.Errorf("stableURL = %q", got)
	}

	qrPath := funcs["qrPath"].(func(string, models.Platform) string)
	if got := qrPath("cafe", models.PlatformYouTube); got != "/qr/cafe/youtube.png" {
		t.Errorf("qrPath = %q", got)
	}

	deref := funcs["deref"].(func(*string) string)
	s := "x"
	if deref(nil) != "" || deref(&s) != "x" {
		t.Error("deref mismatch")
	}
}

func TestIndexRendersEmptyList(t *testing.T) {
	tmpl := Must("http://localhost:3000")

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index.html", map[string]any{"businesses": []models.Business{}}); err != nil {
		t.Fatalf("ExecuteTemplate: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "No businesses yet.") {
		t.Error("Expected empty state")
	}
	if !strings.Contains(body, `name="instagramUrl"`) {
		t.Error("Expected a destination input per platform")
	}
}
