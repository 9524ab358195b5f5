// Package views holds the embedded admin and poster templates.
package views

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/qr"
)

//go:embed templates/*.html
var files embed.FS

// Parse loads every template. baseURL feeds the stableURL helper.
func Parse(baseURL string) (*template.Template, error) {
	return template.New("").Funcs(Funcs(baseURL)).ParseFS(files, "templates/*.html")
}

// Must is Parse that panics on error.
func Must(baseURL string) *template.Template {
	return template.Must(Parse(baseURL))
}

// Funcs are the helpers available to every template.
func Funcs(baseURL string) template.FuncMap {
	return template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"platforms": func() []models.Platform {
			return models.Platforms
		},
		"destination": func(biz *models.Business, p models.Platform) string {
			u, _ := biz.Destination(p)
			return u
		},
		"qrPath": func(slug string, p models.Platform) string {
			return "/qr/" + url.PathEscape(slug) + "/" + string(p) + ".png"
		},
		"stableURL": func(slug string, p models.Platform) string {
			return qr.StableURL(baseURL, slug, p)
		},
	}
}
