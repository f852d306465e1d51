package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("BGSTRIP_TEST_NAME", "icons")
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("name: ${BGSTRIP_TEST_NAME}\ncount: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "icons" || s.Count != 3 {
		t.Fatalf("got %+v", s)
	}
}

func TestLoadOverlaysExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("count: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := sample{Name: "kept", Count: 1}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "kept" || s.Count != 9 {
		t.Fatalf("got %+v", s)
	}
}

func TestLoadRunsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("count: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLoadIfExistsMissingFile(t *testing.T) {
	s := sample{Name: "default"}
	found, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if found {
		t.Fatalf("found = true for missing file")
	}
	if s.Name != "default" {
		t.Fatalf("target changed: %+v", s)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	var s sample
	if err := Parse([]byte("name: [unclosed"), &s); err == nil {
		t.Fatalf("expected parse error")
	}
}
