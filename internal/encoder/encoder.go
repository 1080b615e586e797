// Package encoder serializes rendered frames: still formats behind a common
// interface and a GIF stream for animations.
package encoder

import (
	"errors"
	"image"
)

// ErrUnavailable is returned for formats with no usable encoder.
var ErrUnavailable = errors.New("encoder unavailable")

// Encoder encodes a still image to one format.
type Encoder interface {
	// Format returns the format name ("png", "jpeg", "webp").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can run here. External
	// encoders (cwebp) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
