package bgstrip

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a file to strip does not exist.
var ErrNotFound = errors.New("file not found")

// Kind classifies a per-file failure.
type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindDecode
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	default:
		return "io"
	}
}

// FileError records which file failed and at what stage.
type FileError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindIO when err is not a
// *FileError.
func KindOf(err error) Kind {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindIO
}
