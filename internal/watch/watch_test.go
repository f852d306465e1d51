package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"level-1.png", "sub/level-2.png"}, 20*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name   string
		ev     fsnotify.Event
		want   string
		wantOK bool
	}{
		{name: "write_listed", ev: fsnotify.Event{Name: filepath.Join(dir, "level-1.png"), Op: fsnotify.Write}, want: "level-1.png", wantOK: true},
		{name: "create_listed", ev: fsnotify.Event{Name: filepath.Join(dir, "level-1.png"), Op: fsnotify.Create}, want: "level-1.png", wantOK: true},
		{name: "nested_listed", ev: fsnotify.Event{Name: filepath.Join(dir, "sub", "level-2.png"), Op: fsnotify.Write}, want: filepath.Join("sub", "level-2.png"), wantOK: true},
		{name: "remove_listed", ev: fsnotify.Event{Name: filepath.Join(dir, "level-1.png"), Op: fsnotify.Remove}},
		{name: "chmod_listed", ev: fsnotify.Event{Name: filepath.Join(dir, "level-1.png"), Op: fsnotify.Chmod}},
		{name: "unlisted", ev: fsnotify.Event{Name: filepath.Join(dir, "other.png"), Op: fsnotify.Write}},
		{name: "temp_file", ev: fsnotify.Event{Name: filepath.Join(dir, ".bgstrip-tmp-123"), Op: fsnotify.Create}},
		{name: "outside_dir", ev: fsnotify.Event{Name: filepath.Join(filepath.Dir(dir), "level-1.png"), Op: fsnotify.Write}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := w.Match(tc.ev)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Match = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestRunCallsHandlerOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"a.png"}, 20*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(name string) { got <- name })
	}()

	// Keep touching the file until the watcher is up and reports it.
	path := filepath.Join(dir, "a.png")
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case name := <-got:
			if name != "a.png" {
				t.Fatalf("handler got %q, want a.png", name)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Run: %v", err)
			}
			return
		case <-ticker.C:
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-ctx.Done():
			t.Fatal("handler was not called before timeout")
		}
	}
}
