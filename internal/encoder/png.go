package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PNGEncoder writes lossless PNG; the default still format.
type PNGEncoder struct {
	// Fast trades size for speed, for previews.
	Fast bool
}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	level := png.BestCompression
	if e.Fast {
		level = png.BestSpeed
	}
	var buf bytes.Buffer
	buf.Grow(512 * 1024)
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
