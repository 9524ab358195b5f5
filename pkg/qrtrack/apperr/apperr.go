// Package apperr defines the error kinds shared by the registry, resolver
// and HTTP handlers, and how each kind maps onto an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InvalidPlatformError is returned when a platform key is outside the
// supported set.
type InvalidPlatformError struct {
	Platform string
}

func (e *InvalidPlatformError) Error() string {
	return "Invalid platform"
}

// NotFoundError is returned when no business owns the requested slug.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return "Not found"
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError is returned when a slug is already taken.
type ConflictError struct {
	Slug string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slug %q is already taken", e.Slug)
}

// InternalError wraps a datastore or encoding failure.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Internal wraps err as an InternalError unless it already carries one of
// the client-facing kinds.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if StatusCode(err) != http.StatusInternalServerError {
		return err
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

// FromLookup translates a gorm lookup error for slug into NotFoundError.
func FromLookup(slug string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Slug: slug}
	}
	return err
}

// StatusCode maps err onto the HTTP status reported to clients.
func StatusCode(err error) int {
	var (
		ip *InvalidPlatformError
		nf *NotFoundError
		ve *ValidationError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ip), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Text writes err as a plain text response. Server errors are logged.
func Text(c *gin.Context, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.String(code, err.Error())
}

// JSON writes err as {"error": "..."}. Server errors are logged.
func JSON(c *gin.Context, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
