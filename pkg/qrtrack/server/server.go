// Package server wires every handler into one gin engine and runs it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/analytics"
	"github.com/mikepea/qrtrack/pkg/qrtrack/businesses"
	"github.com/mikepea/qrtrack/pkg/qrtrack/middleware"
	"github.com/mikepea/qrtrack/pkg/qrtrack/poster"
	"github.com/mikepea/qrtrack/pkg/qrtrack/qr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/redirect"
	"github.com/mikepea/qrtrack/pkg/qrtrack/scans"
	"github.com/mikepea/qrtrack/pkg/qrtrack/views"
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown.
const ShutdownTimeout = 10 * time.Second

// NewRouter builds the engine with every route registered. baseURL is the
// public origin printed into QR codes.
func NewRouter(db *gorm.DB, baseURL string, logger zerolog.Logger) (*gin.Engine, error) {
	tmpl, err := views.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := businesses.NewStore(db)
	aggregator := analytics.NewAggregator(db)

	businesses.NewHandler(store, aggregator).RegisterRoutes(r)
	analytics.NewHandler(store, aggregator).RegisterRoutes(r)
	poster.NewHandler(store).RegisterRoutes(r)
	qr.NewHandler(qr.NewResolver(store, baseURL)).RegisterRoutes(r)
	redirect.NewHandler(store, scans.NewRecorder(db)).RegisterRoutes(r)

	return r, nil
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
