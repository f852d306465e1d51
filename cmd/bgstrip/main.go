package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/gcslaoli/bgstrip/internal/app"
	pkgconfig "github.com/gcslaoli/bgstrip/pkg/config"
)

// go run ./cmd/bgstrip
// go run ./cmd/bgstrip --dir ./public --threshold 240
// go run ./cmd/bgstrip --dry-run
// go run ./cmd/bgstrip watch
// go run ./cmd/bgstrip defaults > config/config.yaml

func loadConfig(cmd *cli.Command) (*app.Config, error) {
	configPath := cmd.String("config")

	cfg := app.NewDefaultConfig()
	found, err := pkgconfig.LoadIfExists(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found && cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if cmd.IsSet("dir") {
		cfg.Strip.BaseDir = cmd.String("dir")
	}
	if cmd.IsSet("threshold") {
		cfg.Strip.Threshold = int(cmd.Int("threshold"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func options(cmd *cli.Command, cfg *app.Config) []app.Option {
	return []app.Option{
		app.WithConfig(cfg),
		app.WithOutput(os.Stdout),
		app.WithDryRun(cmd.Bool("dry-run")),
		app.WithProgress(cmd.Bool("progress")),
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Per-file failures are reported, never turned into a non-zero exit.
	if _, err := app.Run(ctx, options(cmd, cfg)...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := app.Watch(ctx, options(cmd, cfg)...); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func printDefaults(_ context.Context, _ *cli.Command) error {
	_, err := os.Stdout.Write(app.DefaultsYAML())
	return err
}

func main() {
	cmd := &cli.Command{
		Name:   "bgstrip",
		Usage:  "Replace near-white backgrounds of PNG files with transparency, in place",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (embedded defaults are used when it is missing)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("BGSTRIP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Base directory the file list is resolved against",
			},
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Channel value R, G and B must all exceed to be stripped",
				Value: 230,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Count near-white pixels without rewriting files",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Strip the files, then strip them again whenever they change",
				Action: runWatch,
			},
			{
				Name:   "defaults",
				Usage:  "Print the built-in configuration as YAML",
				Action: printDefaults,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
