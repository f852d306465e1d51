package bgstrip

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

// DefaultThreshold is the channel value every one of R, G and B must exceed
// for a pixel to count as near-white.
const DefaultThreshold uint8 = 230

// Transparent is the value near-white pixels are rewritten to.
var Transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Stats summarizes one pass over an image.
type Stats struct {
	Width     int
	Height    int
	NearWhite int // pixels matching the near-white predicate
	Changed   int // pixels whose bytes differ after stripping
}

// Stripper rewrites near-white pixels to transparent white.
type Stripper struct {
	threshold uint8
}

// StripperOption configures a Stripper.
type StripperOption func(*Stripper)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t uint8) StripperOption {
	return func(s *Stripper) {
		s.threshold = t
	}
}

// NewStripper constructs a Stripper.
func NewStripper(opts ...StripperOption) *Stripper {
	s := &Stripper{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold reports the configured threshold.
func (s *Stripper) Threshold() uint8 {
	return s.threshold
}

var defaultStripper struct {
	once sync.Once
	s    *Stripper
}

func getDefaultStripper() *Stripper {
	defaultStripper.once.Do(func() {
		defaultStripper.s = NewStripper()
	})
	return defaultStripper.s
}

// Strip applies the default stripper to the provided image.
func Strip(img image.Image) (*image.NRGBA, Stats, error) {
	return getDefaultStripper().Strip(img)
}

// NearWhite reports whether c has red, green and blue all strictly above
// threshold. Alpha is ignored.
func NearWhite(c color.NRGBA, threshold uint8) bool {
	return nearWhite(c.R, c.G, c.B, threshold)
}

func nearWhite(r, g, b, t uint8) bool {
	return r > t && g > t && b > t
}

// Strip returns a copy of img with every near-white pixel replaced by
// Transparent. The source image is not modified. The result has the same
// width and height as img, anchored at the origin.
func (s *Stripper) Strip(img image.Image) (*image.NRGBA, Stats, error) {
	if err := checkImage(img); err != nil {
		return nil, Stats{}, err
	}

	dst := imaging.Clone(img)
	stats := s.scan(dst, true)
	return dst, stats, nil
}

// Inspect counts near-white pixels without modifying anything.
func (s *Stripper) Inspect(img image.Image) (Stats, error) {
	if err := checkImage(img); err != nil {
		return Stats{}, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(img)
	}
	return s.scan(nrgba, false), nil
}

func checkImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image provided")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}
	return nil
}

// scan walks the pixel buffer row by row. When apply is set, near-white
// pixels are rewritten in place.
func (s *Stripper) scan(img *image.NRGBA, apply bool) Stats {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	stats := Stats{Width: width, Height: height}
	t := s.threshold

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		offset := img.PixOffset(bounds.Min.X, y)
		row := img.Pix[offset : offset+width*4]

		for i := 0; i < len(row); i += 4 {
			if !nearWhite(row[i], row[i+1], row[i+2], t) {
				continue
			}
			stats.NearWhite++

			if row[i] == Transparent.R && row[i+1] == Transparent.G && row[i+2] == Transparent.B && row[i+3] == Transparent.A {
				continue
			}
			stats.Changed++

			if apply {
				row[i], row[i+1], row[i+2], row[i+3] = Transparent.R, Transparent.G, Transparent.B, Transparent.A
			}
		}
	}

	return stats
}
