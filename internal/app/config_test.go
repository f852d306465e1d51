package app

import (
	"log/slog"
	"testing"
	"time"

	pkgconfig "github.com/gcslaoli/bgstrip/pkg/config"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Strip.BaseDir != "./public" {
		t.Errorf("base dir = %q", cfg.Strip.BaseDir)
	}
	want := []string{"level-1.png", "level-2.png", "level-3.png", "level-4.png"}
	if len(cfg.Strip.Files) != len(want) {
		t.Fatalf("files = %v, want %v", cfg.Strip.Files, want)
	}
	for i := range want {
		if cfg.Strip.Files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, cfg.Strip.Files[i], want[i])
		}
	}
	if cfg.Strip.Threshold != 230 {
		t.Errorf("threshold = %d, want 230", cfg.Strip.Threshold)
	}
	if cfg.App.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
}

func TestStripConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StripConfig
		wantErr bool
	}{
		{name: "ok", cfg: StripConfig{BaseDir: ".", Files: []string{"a.png"}, Threshold: 230}},
		{name: "zero_threshold", cfg: StripConfig{BaseDir: ".", Files: []string{"a.png"}, Threshold: 0}},
		{name: "no_dir", cfg: StripConfig{Files: []string{"a.png"}, Threshold: 230}, wantErr: true},
		{name: "no_files", cfg: StripConfig{BaseDir: ".", Threshold: 230}, wantErr: true},
		{name: "blank_file", cfg: StripConfig{BaseDir: ".", Files: []string{"a.png", ""}, Threshold: 230}, wantErr: true},
		{name: "threshold_255", cfg: StripConfig{BaseDir: ".", Files: []string{"a.png"}, Threshold: 255}, wantErr: true},
		{name: "negative_threshold", cfg: StripConfig{BaseDir: ".", Files: []string{"a.png"}, Threshold: -1}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestWatchConfig_Validate(t *testing.T) {
	if err := (&WatchConfig{Debounce: time.Millisecond}).Validate(); err == nil {
		t.Error("1ms debounce should fail")
	}
	if err := (&WatchConfig{Debounce: time.Second}).Validate(); err != nil {
		t.Errorf("1s debounce should pass: %v", err)
	}
}

func TestConfigYAMLOverride(t *testing.T) {
	cfg := NewDefaultConfig()
	data := []byte("app:\n  log_level: debug\nstrip:\n  base_dir: /srv/icons\n  threshold: 240\n")
	if err := pkgconfig.Parse(data, cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Strip.BaseDir != "/srv/icons" || cfg.Strip.Threshold != 240 {
		t.Errorf("strip = %+v", cfg.Strip)
	}
	if len(cfg.Strip.Files) != 4 {
		t.Errorf("files should keep defaults, got %v", cfg.Strip.Files)
	}
}

func TestDefaultsYAMLIsCopy(t *testing.T) {
	a := DefaultsYAML()
	a[0] = '#'
	if DefaultsYAML()[0] == '#' {
		t.Fatal("DefaultsYAML exposed the embedded buffer")
	}
}
