package models

import (
	"time"
)

// Layout controls how QR codes are arranged on the poster.
type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
)

// ParseLayout coerces anything other than "horizontal" to vertical.
func ParseLayout(s string) Layout {
	if s == string(LayoutHorizontal) {
		return LayoutHorizontal
	}
	return LayoutVertical
}

// Business is a registered venue with its branding, poster copy and
// per-platform destinations. Slug is the only public lookup key and never
// changes after creation.
type Business struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `gorm:"not null" json:"name"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	LogoURL        *string   `json:"logo_url"`
	BrandColor     *string   `json:"brand_color"`
	ShowLogo       bool      `json:"show_logo"`
	PublicTitle    *string   `json:"public_title"`
	PublicSubtitle *string   `json:"public_subtitle"`
	PublicFooter   *string   `json:"public_footer"`
	CTALabel       *string   `gorm:"column:cta_label" json:"cta_label"`
	CTAText        *string   `gorm:"column:cta_text" json:"cta_text"`
	InstagramURL   *string   `gorm:"column:instagram_url" json:"instagram_url"`
	TikTokURL      *string   `gorm:"column:tiktok_url" json:"tiktok_url"`
	YouTubeURL     *string   `gorm:"column:youtube_url" json:"youtube_url"`
	QRLayout       Layout    `gorm:"column:qr_layout;type:varchar(16);not null" json:"qr_layout"`

	// Relationships
	Steps   []Step            `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	History []RedirectHistory `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	Scans   []ScanEvent       `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

// Destination returns the live destination for p, or false when the
// platform is disabled.
func (b *Business) Destination(p Platform) (string, bool) {
	ref := b.destinationRef(p)
	if ref == nil || *ref == nil || **ref == "" {
		return "", false
	}
	return **ref, true
}

// SetDestination stores url for p in memory. A nil url disables the platform.
func (b *Business) SetDestination(p Platform, url *string) {
	if ref := b.destinationRef(p); ref != nil {
		*ref = url
	}
}

// Enabled returns the platforms that currently have a destination.
func (b *Business) Enabled() []Platform {
	var out []Platform
	for _, p := range Platforms {
		if _, ok := b.Destination(p); ok {
			out = append(out, p)
		}
	}
	return out
}

func (b *Business) destinationRef(p Platform) **string {
	switch p {
	case PlatformInstagram:
		return &b.InstagramURL
	case PlatformTikTok:
		return &b.TikTokURL
	case PlatformYouTube:
		return &b.YouTubeURL
	}
	return nil
}
