package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mikepea/qrtrack/pkg/qrtrack/analytics"
	"github.com/mikepea/qrtrack/pkg/qrtrack/businesses"
	"github.com/mikepea/qrtrack/pkg/qrtrack/config"
	"github.com/mikepea/qrtrack/pkg/qrtrack/database"
	"github.com/mikepea/qrtrack/pkg/qrtrack/logger"
	"github.com/mikepea/qrtrack/pkg/qrtrack/qr"
	"github.com/mikepea/qrtrack/pkg/qrtrack/slug"
)

var errUsage = errors.New("expected 'slugify', 'qr' or 'stats' subcommands")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	slugifyCmd := flag.NewFlagSet("slugify", flag.ContinueOnError)

	qrCmd := flag.NewFlagSet("qr", flag.ContinueOnError)
	qrSlug := qrCmd.String("slug", "", "business slug")
	qrPlatform := qrCmd.String("platform", "", "instagram, tiktok or youtube")
	qrOut := qrCmd.String("out", "", "PNG file to write (default: <slug>-<platform>.png)")

	statsCmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	statsSlug := statsCmd.String("slug", "", "business slug")

	if len(args) < 1 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, false)
	ctx := context.Background()

	switch args[0] {
	case "slugify":
		if err := slugifyCmd.Parse(args[1:]); err != nil {
			return err
		}
		for _, name := range slugifyCmd.Args() {
			fmt.Println(slug.Slugify(name))
		}
		return nil
	case "qr":
		if err := qrCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *qrSlug == "" || *qrPlatform == "" {
			qrCmd.PrintDefaults()
			return errUsage
		}
		return withDB(cfg, func(db *gorm.DB) error {
			out, err := doQR(ctx, db, cfg.BaseURL, *qrSlug, *qrPlatform, *qrOut)
			if err == nil {
				log.Info().Str("file", out).Msg("qr written")
			}
			return err
		})
	case "stats":
		if err := statsCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *statsSlug == "" {
			statsCmd.PrintDefaults()
			return errUsage
		}
		return withDB(cfg, func(db *gorm.DB) error {
			return doStats(ctx, db, *statsSlug, os.Stdout)
		})
	}
	return errUsage
}

// withDB opens the configured database for fn and always closes it.
func withDB(cfg config.Config, fn func(db *gorm.DB) error) (err error) {
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBPath, err)
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(db)
}

func defaultOutput(key, platform string) string {
	return fmt.Sprintf("%s-%s.png", key, strings.ToLower(strings.TrimSpace(platform)))
}

// doQR renders the code for key and platform into out, or the default file
// name when out is empty, and returns the path written.
func doQR(ctx context.Context, db *gorm.DB, baseURL, key, platform, out string) (string, error) {
	resolver := qr.NewResolver(businesses.NewStore(db), baseURL)
	png, err := resolver.Render(ctx, key, platform)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = defaultOutput(key, platform)
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// doStats writes the analytics.json body for key to w.
func doStats(ctx context.Context, db *gorm.DB, key string, w io.Writer) error {
	biz, err := businesses.NewStore(db).GetBySlug(ctx, key)
	if err != nil {
		return err
	}
	counts, err := analytics.NewAggregator(db).CountsByPlatform(ctx, biz.ID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(analytics.CountsResponse{Business: biz.Slug, Counts: counts})
}
