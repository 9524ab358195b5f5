// Package qr renders QR codes that encode a business's stable redirect URL.
//
// The encoded content depends only on the base URL, the slug and the
// platform, so an image never goes stale when the destination behind it
// changes and can be cached indefinitely.
package qr

import (
	"context"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

const (
	// ImageWidth is the rendered PNG width in pixels.
	ImageWidth = 800

	// RecoveryLevel is error correction level M (~15%).
	RecoveryLevel = qrcode.Medium

	// CacheControl is sent with every image; the content is immutable.
	CacheControl = "public, max-age=31536000, immutable"
)

// BusinessFinder looks up a business by slug.
type BusinessFinder interface {
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
}

// StableURL is the redirect endpoint printed into QR codes.
func StableURL(baseURL, slug string, platform models.Platform) string {
	return strings.TrimRight(baseURL, "/") + "/r/" + url.PathEscape(slug) + "/" + string(platform)
}

// Encode renders content as a PNG with the fixed recovery level and width.
func Encode(content string) ([]byte, error) {
	code, err := qrcode.New(content, RecoveryLevel)
	if err != nil {
		return nil, err
	}
	return code.PNG(ImageWidth)
}

// Resolver maps (slug, platform) to a QR image.
type Resolver struct {
	businesses BusinessFinder
	baseURL    string
}

// NewResolver creates a Resolver that embeds baseURL into every code.
func NewResolver(businesses BusinessFinder, baseURL string) *Resolver {
	return &Resolver{businesses: businesses, baseURL: baseURL}
}

// StableURL is the redirect endpoint for slug and platform on this deployment.
func (r *Resolver) StableURL(slug string, platform models.Platform) string {
	return StableURL(r.baseURL, slug, platform)
}

// Render validates platform, confirms the business exists and returns the PNG.
func (r *Resolver) Render(ctx context.Context, slug, platform string) ([]byte, error) {
	p, ok := models.ParsePlatform(platform)
	if !ok {
		return nil, &apperr.InvalidPlatformError{Platform: platform}
	}

	biz, err := r.businesses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	png, err := Encode(r.StableURL(biz.Slug, p))
	if err != nil {
		return nil, apperr.Internal("QR render", err)
	}
	return png, nil
}
