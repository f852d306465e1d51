package app

import (
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	pkgconfig "github.com/gcslaoli/bgstrip/pkg/config"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Strip StripConfig       `yaml:"strip"`
	Watch WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Strip.Validate(); err != nil {
		return fmt.Errorf("strip: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// StripConfig names the files to strip and how.
type StripConfig struct {
	BaseDir   string   `yaml:"base_dir"`
	Files     []string `yaml:"files"`
	Threshold int      `yaml:"threshold"`
}

// Validate validates the strip configuration.
func (c *StripConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
		validation.Field(&c.Files, validation.Required, validation.Each(validation.Required)),
		// 255 would never match: the test is strictly greater than.
		validation.Field(&c.Threshold, validation.Min(0), validation.Max(254)),
	)
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond), validation.Max(time.Minute)),
	)
}

// NewDefaultConfig returns the configuration embedded in the binary.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	if err := pkgconfig.Parse(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("embedded defaults: %v", err))
	}
	return cfg
}

// DefaultsYAML returns a copy of the embedded default configuration.
func DefaultsYAML() []byte {
	return append([]byte(nil), defaultsYAML...)
}
