// Package app wires configuration, logging and the stripper into the batch
// and watch entry points.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/gcslaoli/bgstrip"
	"github.com/gcslaoli/bgstrip/internal/watch"
)

// Run strips every configured file once.
func Run(ctx context.Context, opts ...Option) (bgstrip.Summary, error) {
	app, err := newApplication(opts)
	if err != nil {
		return bgstrip.Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return bgstrip.Summary{}, err
	}

	batch := app.batch(newLogger(app.config))

	if app.progress {
		bar := progressbar.NewOptions(len(batch.Files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("stripping"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		batch.OnResult = func(bgstrip.Report) {
			_ = bar.Add(1)
		}
		defer func() { _ = bar.Finish() }()
	}

	return batch.Run(), nil
}

// Watch strips every configured file once, then again each time one of them
// changes, until ctx is cancelled or the process receives SIGINT/SIGTERM.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	cfg := app.config
	logger := newLogger(cfg)
	batch := app.batch(logger)
	batch.Run()

	w, err := watch.New(cfg.Strip.BaseDir, cfg.Strip.Files, cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return w.Run(watchCtx, func(name string) {
			batch.Reprocess(name)
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("watch error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return app, nil
}

func (a *application) batch(logger *slog.Logger) *bgstrip.Batch {
	cfg := a.config
	return &bgstrip.Batch{
		BaseDir:  cfg.Strip.BaseDir,
		Files:    cfg.Strip.Files,
		Stripper: bgstrip.NewStripper(bgstrip.WithThreshold(uint8(cfg.Strip.Threshold))),
		DryRun:   a.dryRun,
		Out:      a.out,
		Logger:   logger,
	}
}

func newLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}
