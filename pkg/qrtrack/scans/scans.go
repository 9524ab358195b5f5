// Package scans appends one ScanEvent per redirect hit.
package scans

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/apperr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
)

// Metadata is what a scan captures about the requester.
type Metadata struct {
	UserAgent  string
	ClientAddr string
	Referer    string
}

// MetadataFromRequest extracts scan metadata from an inbound request.
func MetadataFromRequest(r *http.Request) Metadata {
	return Metadata{
		UserAgent:  r.UserAgent(),
		ClientAddr: ClientAddress(r),
		Referer:    r.Referer(),
	}
}

// ClientAddress returns the first X-Forwarded-For entry, falling back to the
// connection's remote address without its port.
func ClientAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

// Fingerprint is the hex SHA-256 of addr, or nil for an empty address.
// The digest is unsalted so identical addresses correlate across events.
func Fingerprint(addr string) *string {
	if addr == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(addr))
	h := hex.EncodeToString(sum[:])
	return &h
}

// Recorder persists scan events.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a Recorder on db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends exactly one ScanEvent for biz and platform. Only the
// fingerprint of the client address is stored.
func (r *Recorder) Record(ctx context.Context, biz *models.Business, platform models.Platform, meta Metadata) error {
	if !platform.Valid() {
		return &apperr.InvalidPlatformError{Platform: string(platform)}
	}

	event := models.ScanEvent{
		BusinessID: biz.ID,
		Platform:   platform.Code(),
		UserAgent:  lo.EmptyableToPtr(meta.UserAgent),
		IPHash:     Fingerprint(meta.ClientAddr),
		Referer:    lo.EmptyableToPtr(meta.Referer),
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return apperr.Internal("Scan record", err)
	}

	log.Debug().Str("slug", biz.Slug).Str("platform", string(platform)).Uint("event_id", event.ID).Msg("scan recorded")
	return nil
}
