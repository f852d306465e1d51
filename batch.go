package bgstrip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

// Status is the terminal state of one file in a batch.
type Status int

const (
	StatusProcessed Status = iota
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusNotFound:
		return "not found"
	default:
		return "error"
	}
}

// Report is the result of processing one listed file.
type Report struct {
	Name    string
	Path    string
	Status  Status
	Outcome Outcome
	Err     error
}

// Summary counts reports per status.
type Summary struct {
	Processed int
	NotFound  int
	Failed    int
	Written   int
}

func (s *Summary) add(r Report) {
	switch r.Status {
	case StatusProcessed:
		s.Processed++
		if r.Outcome.Written {
			s.Written++
		}
	case StatusNotFound:
		s.NotFound++
	default:
		s.Failed++
	}
}

// Batch strips a fixed list of files resolved against one directory.
// Files are handled one at a time, in list order; a failure on one file never
// stops the others.
type Batch struct {
	BaseDir  string
	Files    []string
	Stripper *Stripper
	// DryRun reports near-white counts without writing.
	DryRun bool
	// Out receives one human-readable status line per file. Nil discards.
	Out    io.Writer
	Logger *slog.Logger
	// OnResult, when set, is called after every file.
	OnResult func(Report)
}

// Run processes every listed file and returns the per-status counts.
func (b *Batch) Run() Summary {
	var sum Summary
	for _, name := range b.Files {
		r := b.Process(name)
		sum.add(r)
		if b.OnResult != nil {
			b.OnResult(r)
		}
	}

	b.logger().Info("batch finished",
		slog.String("dir", b.BaseDir),
		slog.Int("processed", sum.Processed),
		slog.Int("written", sum.Written),
		slog.Int("not_found", sum.NotFound),
		slog.Int("failed", sum.Failed))
	return sum
}

// Process strips a single listed file and prints its status line.
func (b *Batch) Process(name string) Report {
	return b.process(name, false)
}

// Reprocess is Process for files that may already be stripped: a file that
// was left untouched gets no status line.
func (b *Batch) Reprocess(name string) Report {
	return b.process(name, true)
}

func (b *Batch) process(name string, quietUnchanged bool) Report {
	path := filepath.Join(b.BaseDir, name)
	r := Report{Name: name, Path: path}

	s := b.Stripper
	if s == nil {
		s = getDefaultStripper()
	}

	var err error
	if b.DryRun {
		r.Outcome, err = s.CheckFile(path)
	} else {
		r.Outcome, err = s.StripFile(path)
	}

	switch {
	case err == nil:
		r.Status = StatusProcessed
	case errors.Is(err, ErrNotFound):
		r.Status = StatusNotFound
		r.Err = err
	default:
		r.Status = StatusError
		r.Err = err
	}

	if quietUnchanged && !b.DryRun && r.Status == StatusProcessed && !r.Outcome.Written {
		b.logger().Debug("file unchanged", slog.String("file", r.Name))
		return r
	}
	b.report(r)
	return r
}

func (b *Batch) report(r Report) {
	logger := b.logger().With(slog.String("file", r.Name), slog.String("status", r.Status.String()))

	switch r.Status {
	case StatusProcessed:
		if b.DryRun {
			b.printf("Checked %s: %d near-white pixels\n", r.Name, r.Outcome.Stats.NearWhite)
		} else {
			b.printf("Processed %s: Removed white background\n", r.Name)
		}
		logger.Debug("file processed",
			slog.String("format", r.Outcome.Format),
			slog.Int("near_white", r.Outcome.Stats.NearWhite),
			slog.Int("changed", r.Outcome.Stats.Changed),
			slog.Bool("written", r.Outcome.Written))
	case StatusNotFound:
		b.printf("File not found: %s\n", r.Path)
		logger.Warn("file not found", slog.String("path", r.Path))
	default:
		b.printf("Error processing %s: %s\n", r.Name, errorMessage(r.Err))
		logger.Error("file failed",
			slog.String("kind", KindOf(r.Err).String()),
			slog.String("error", r.Err.Error()))
	}
}

// errorMessage returns the underlying cause; the status line already names
// the file.
func errorMessage(err error) string {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

func (b *Batch) printf(format string, args ...any) {
	if b.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(b.Out, format, args...)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (b *Batch) logger() *slog.Logger {
	if b.Logger == nil {
		return discardLogger
	}
	return b.Logger
}
