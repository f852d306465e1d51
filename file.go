package bgstrip

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
)

// Outcome describes what happened to a single file.
type Outcome struct {
	Path    string
	Format  string // format the file was decoded as
	Stats   Stats
	Written bool // false when the image needed no change
}

// StripFile strips the image at path and overwrites it as PNG.
//
// The file is decoded completely before anything is written, and the new
// content goes to a temporary file in the same directory that is renamed over
// the original only once fully encoded and synced. A decode, encode or I/O
// failure therefore leaves the original untouched. A PNG in which no pixel
// changes is not rewritten at all; any other format is always re-encoded as
// PNG.
func (s *Stripper) StripFile(path string) (Outcome, error) {
	img, out, mode, err := loadFile(path)
	if err != nil {
		return out, err
	}

	stripped, stats, err := s.Strip(img)
	if err != nil {
		return out, &FileError{Path: path, Kind: KindDecode, Err: err}
	}
	out.Stats = stats

	if stats.Changed == 0 && out.Format == "png" {
		return out, nil
	}

	if err := writePNGAtomic(path, stripped, mode); err != nil {
		return out, err
	}
	out.Written = true
	return out, nil
}

// CheckFile decodes path and reports what StripFile would change, without
// writing.
func (s *Stripper) CheckFile(path string) (Outcome, error) {
	img, out, _, err := loadFile(path)
	if err != nil {
		return out, err
	}

	stats, err := s.Inspect(img)
	if err != nil {
		return out, &FileError{Path: path, Kind: KindDecode, Err: err}
	}
	out.Stats = stats
	return out, nil
}

func loadFile(path string) (image.Image, Outcome, fs.FileMode, error) {
	out := Outcome{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, out, 0, &FileError{Path: path, Kind: KindNotFound, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
		}
		return nil, out, 0, &FileError{Path: path, Kind: KindIO, Err: err}
	}
	if info.IsDir() {
		return nil, out, 0, &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, out, 0, &FileError{Path: path, Kind: KindIO, Err: err}
	}

	img, format, err := DecodeImageBytes(data)
	if err != nil {
		return nil, out, 0, &FileError{Path: path, Kind: KindDecode, Err: err}
	}
	out.Format = format

	return img, out, info.Mode().Perm(), nil
}

// writePNGAtomic encodes img and replaces path with it: tmp file, fsync,
// chmod, rename.
func writePNGAtomic(path string, img image.Image, mode fs.FileMode) error {
	data, err := EncodePNGBytes(img)
	if err != nil {
		return &FileError{Path: path, Kind: KindEncode, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bgstrip-tmp-*")
	if err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("create temp: %w", err)}
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("write temp: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("fsync: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("close temp: %w", err)}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("chmod temp: %w", err)}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &FileError{Path: path, Kind: KindIO, Err: fmt.Errorf("rename: %w", err)}
	}
	success = true
	return nil
}
