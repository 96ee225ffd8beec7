// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/pipeline"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// Run reorganizes the configured repository with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{logOut: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("%w: config is required", apperr.ErrConfig)
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("repository_path", cfg.Repository.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("dry_run", app.dryRun))

	store, err := storage.NewFS(cfg.Repository.Path)
	if err != nil {
		return fmt.Errorf("%w: repository: %w", apperr.ErrConfig, err)
	}

	res, err := pipeline.Run(ctx, store, logger, pipeline.Options{DryRun: app.dryRun})
	if err != nil {
		logger.Error("Reorganization failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Reorganization finished",
		slog.String("repository_path", store.Root()),
		slog.Int("records", len(res.Records)),
		slog.Int("files_copied", res.Copy.Files),
		slog.Int("dirs_removed", len(res.Deleted.Removed)),
		slog.Bool("dry_run", res.DryRun))
	return nil
}
