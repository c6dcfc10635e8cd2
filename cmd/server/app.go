package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/affirmations/internal/config"
	"github.com/sakif/affirmations/internal/logging"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/repository"
	"github.com/sakif/affirmations/internal/repository/postgres"
	"github.com/sakif/affirmations/internal/repository/sqlite"
)

// app bundles what every subcommand needs. close releases the log file.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	close  func()
}

func loadApp(configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return nil, err
	}
	// Handlers log encoding failures through the default logger.
	slog.SetDefault(logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		close:  func() { closeQuietly(closer) },
	}, nil
}

// openStore opens the configured database and applies pending migrations.
func (a *app) openStore(ctx context.Context) (repository.Store, error) {
	db := a.cfg.Database
	switch db.Driver {
	case config.DriverPostgres:
		a.logger.Info("opening database", slog.String("driver", db.Driver))
		return postgres.New(ctx, db.URL)
	default:
		if db.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(db.Path), 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		a.logger.Info("opening database", slog.String("driver", db.Driver), slog.String("path", db.Path))
		return sqlite.New(db.Path)
	}
}

// mediaResolver picks S3 presigning, a static base URL, or nothing.
func (a *app) mediaResolver(ctx context.Context) (media.Resolver, error) {
	m := a.cfg.Media
	switch {
	case m.S3Bucket != "":
		a.logger.Info("media URLs presigned from S3", slog.String("bucket", m.S3Bucket))
		return media.NewS3(ctx, media.S3Config{
			Bucket:     m.S3Bucket,
			Region:     m.S3Region,
			Endpoint:   m.S3Endpoint,
			AccessKey:  m.S3AccessKey,
			SecretKey:  m.S3SecretKey,
			PresignTTL: m.PresignTTLDuration(),
		})
	case m.BaseURL != "":
		return media.NewStatic(m.BaseURL)
	default:
		return media.Noop{}, nil
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
