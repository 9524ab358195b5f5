package models

import "strings"

// Platform is one of the social platforms a business can route scanners to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformInstagram, PlatformTikTok, PlatformYouTube}

// ParsePlatform maps a user supplied key onto a Platform.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

// Code is the upper-case form persisted on history and scan rows.
func (p Platform) Code() string {
	return strings.ToUpper(string(p))
}

// Column is the businesses column holding the destination for p.
func (p Platform) Column() string {
	switch p {
	case PlatformInstagram:
		return "instagram_url"
	case PlatformTikTok:
		return "tiktok_url"
	case PlatformYouTube:
		return "youtube_url"
	}
	return ""
}

// Label is the human readable platform name.
func (p Platform) Label() string {
	switch p {
	case PlatformInstagram:
		return "Instagram"
	case PlatformTikTok:
		return "TikTok"
	case PlatformYouTube:
		return "YouTube"
	}
	return string(p)
}
