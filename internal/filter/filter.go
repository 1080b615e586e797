// Package filter defines the closed set of colour recipes applied to photos.
package filter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ErrUnknown is returned for filter ids outside the closed set.
var ErrUnknown = errors.New("unknown filter")

// ID names a filter. Persisted in session files.
type ID string

const (
	Normal    ID = "normal"
	Grayscale ID = "grayscale"
	Sepia     ID = "sepia"
	Vivid     ID = "vivid"
	Vintage   ID = "vintage"
	Dreamy    ID = "dreamy"
)

// All lists the filters in menu order.
var All = []ID{Normal, Grayscale, Sepia, Vivid, Vintage, Dreamy}

var names = map[ID]string{
	Normal:    "Normal",
	Grayscale: "B&W",
	Sepia:     "Sepia",
	Vivid:     "Vivid",
	Vintage:   "Vintage",
	Dreamy:    "Dreamy",
}

// Name returns the display label.
func (id ID) Name() string { return names[id] }

// Valid reports whether id belongs to the closed set.
func (id ID) Valid() bool {
	_, ok := names[id]
	return ok
}

// Parse converts a string into a filter id.
func Parse(s string) (ID, error) {
	id := ID(s)
	if s == "" {
		return Normal, nil
	}
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	return id, nil
}

// Next cycles through All.
func (id ID) Next() ID {
	for i, v := range All {
		if v == id {
			return All[(i+1)%len(All)]
		}
	}
	return Normal
}

// Apply runs the recipe for id and returns a new image. The source is never
// modified; Normal returns src itself. blurScale converts the nominal blur
// radius (canvas units) into pixels at the current output scale.
func Apply(id ID, src image.Image, blurScale float64) image.Image {
	switch id {
	case Normal, "":
		return src
	case Grayscale:
		return imaging.AdjustContrast(imaging.Grayscale(src), 10)
	case Sepia:
		return imaging.AdjustContrast(sepia(src, 0.8), 10)
	case Vivid:
		return imaging.AdjustContrast(imaging.AdjustSaturation(src, 50), 10)
	case Vintage:
		img := sepia(src, 0.4)
		img = imaging.AdjustContrast(img, 20)
		img = brightness(img, 0.9)
		return imaging.AdjustSaturation(img, -20)
	case Dreamy:
		var img image.Image = src
		if sigma := 0.5 * blurScale; sigma >= 0.25 {
			img = imaging.Blur(src, sigma)
		}
		return brightness(imaging.AdjustSaturation(img, 20), 1.1)
	default:
		panic(fmt.Sprintf("filter: no recipe for %q", string(id)))
	}
}

// sepia blends each pixel toward the classic sepia matrix by amount.
func sepia(src image.Image, amount float64) *image.NRGBA {
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return color.NRGBA{
			R: clamp(r + (sr-r)*amount),
			G: clamp(g + (sg-g)*amount),
			B: clamp(b + (sb-b)*amount),
			A: c.A,
		}
	})
}

// brightness multiplies every channel by f.
func brightness(src image.Image, f float64) *image.NRGBA {
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(float64(c.R) * f),
			G: clamp(float64(c.G) * f),
			B: clamp(float64(c.B) * f),
			A: c.A,
		}
	})
}

func clamp(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, math.Round(v))))
}
