package app

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	out      io.Writer
	dryRun   bool
	progress bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where per-file status lines are printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithDryRun reports near-white counts without rewriting files.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithProgress renders a progress bar on stderr while the batch runs.
func WithProgress(progress bool) Option {
	return func(a *application) {
		a.progress = progress
	}
}
