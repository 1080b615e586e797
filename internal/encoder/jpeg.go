package encoder

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// JPEGEncoder writes baseline JPEG. Transparent areas are flattened onto
// white first, since JPEG has no alpha.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpg" }
func (e *JPEGEncoder) Available() bool   { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), image.White.C)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1)

	var buf bytes.Buffer
	buf.Grow(256 * 1024)
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
