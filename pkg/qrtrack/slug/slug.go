// Package slug derives the public business identifier.
package slug

import (
	"regexp"
	"strings"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Resolve picks the slug for a new business: a non-blank operator candidate
// wins (trimmed and lower-cased), otherwise the name is slugified.
func Resolve(name, candidate string) (string, error) {
	if c := strings.TrimSpace(candidate); c != "" {
		return strings.ToLower(c), nil
	}
	s := Slugify(name)
	if s == "" {
		return "", &apperr.ValidationError{Message: "Name must contain at least one letter or digit"}
	}
	return s, nil
}
