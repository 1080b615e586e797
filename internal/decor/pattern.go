// Package decor draws procedural backgrounds: flat fills, pattern overlays
// and the fixed signature motifs of individual templates.
package decor

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/fogleman/gg"
)

// ErrUnknownPattern is returned for pattern ids outside the closed set.
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern identifies a procedural overlay.
type Pattern string

const (
	None      Pattern = "none"
	Dots      Pattern = "dots"
	Stripes   Pattern = "stripes"
	Waves     Pattern = "waves"
	Hearts    Pattern = "hearts"
	Halftone  Pattern = "halftone"
	Scanlines Pattern = "scanlines"
	Checker   Pattern = "checker"
	Grid      Pattern = "grid"
	Sparkles  Pattern = "sparkles"
)

// Patterns lists every overlay in menu order.
var Patterns = []Pattern{None, Dots, Stripes, Waves, Hearts, Halftone, Scanlines, Checker, Grid, Sparkles}

// BackgroundPresets is the swatch palette offered by the editor.
var BackgroundPresets = []string{
	"#ffffff", "#fff0f5", "#e6e6fa", "#f0f8ff", "#f5f5dc",
	"#1a1a1a", "#ffb7b2", "#000000", "#fdf6e3",
}

// seed keeps scattered patterns identical between renders.
const seed = 0x6b617761

// ParsePattern converts a string into a pattern id. Empty means None.
func ParsePattern(s string) (Pattern, error) {
	if s == "" {
		return None, nil
	}
	for _, p := range Patterns {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// Next cycles through Patterns.
func (p Pattern) Next() Pattern {
	for i, v := range Patterns {
		if v == p {
			return Patterns[(i+1)%len(Patterns)]
		}
	}
	return None
}

// Tint returns the overlay colour for a background: dark ink on light
// backgrounds, light ink on dark ones.
func Tint(bg color.Color) color.NRGBA {
	if colorx.IsLight(color.NRGBAModel.Convert(bg).(color.NRGBA)) {
		return color.NRGBA{0, 0, 0, 20}
	}
	return color.NRGBA{255, 255, 255, 38}
}

// FillBackground paints the whole canvas with bg.
func FillBackground(dc *gg.Context, w, h float64, bg color.Color) {
	dc.Push()
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	dc.Pop()
}

// DrawPattern overlays pattern p on a w x h canvas. Coordinates are canvas
// units; the caller's transform maps them to device pixels.
func DrawPattern(dc *gg.Context, w, h float64, bg color.Color, p Pattern) {
	if p == None || p == "" {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.SetColor(Tint(bg))
	u := unit(dc)

	switch p {
	case Dots:
		const step = 40
		for y := step / 2.0; y < h; y += step {
			for x := step / 2.0; x < w; x += step {
				dc.DrawCircle(x, y, 5)
			}
		}
		dc.Fill()
	case Stripes:
		dc.SetLineWidth(14 * u)
		d := w + h
		for o := -h; o < d; o += 48 {
			dc.DrawLine(o, 0, o+h, h)
		}
		dc.Stroke()
	case Waves:
		dc.SetLineWidth(5 * u)
		for y := 30.0; y < h+30; y += 60 {
			dc.MoveTo(0, y)
			for x := 0.0; x <= w; x += 10 {
				dc.LineTo(x, y+math.Sin(x/40)*12)
			}
			dc.Stroke()
		}
	case Hearts:
		rng := rand.New(rand.NewPCG(seed, 1))
		n := int(w * h / 9000)
		for i := 0; i < n; i++ {
			heart(dc, rng.Float64()*w, rng.Float64()*h, 10+rng.Float64()*14)
		}
		dc.Fill()
	case Halftone:
		const step = 24
		for y := 0.0; y < h; y += step {
			r := 1 + 7*(y/h)
			off := 0.0
			if int(y/step)%2 == 1 {
				off = step / 2
			}
			for x := off; x < w; x += step {
				dc.DrawCircle(x, y, r)
			}
		}
		dc.Fill()
	case Scanlines:
		for y := 0.0; y < h; y += 6 {
			dc.DrawRectangle(0, y, w, 2)
		}
		dc.Fill()
	case Checker:
		const tile = 50
		for r := 0; float64(r)*tile < h; r++ {
			for c := 0; float64(c)*tile < w; c++ {
				if (r+c)%2 == 0 {
					dc.DrawRectangle(float64(c)*tile, float64(r)*tile, tile, tile)
				}
			}
		}
		dc.Fill()
	case Grid:
		dc.SetLineWidth(2 * u)
		for x := 0.0; x <= w; x += 40 {
			dc.DrawLine(x, 0, x, h)
		}
		for y := 0.0; y <= h; y += 40 {
			dc.DrawLine(0, y, w, y)
		}
		dc.Stroke()
	case Sparkles:
		rng := rand.New(rand.NewPCG(seed, 2))
		n := int(w * h / 12000)
		for i := 0; i < n; i++ {
			sparkle(dc, rng.Float64()*w, rng.Float64()*h, 6+rng.Float64()*16)
		}
		dc.Fill()
	default:
		panic(fmt.Sprintf("decor: no routine for pattern %q", string(p)))
	}
}

// unit returns device pixels per canvas unit. gg applies line widths in
// device space, so strokes are scaled by hand.
func unit(dc *gg.Context) float64 {
	x0, y0 := dc.TransformPoint(0, 0)
	x1, y1 := dc.TransformPoint(1, 0)
	if u := math.Hypot(x1-x0, y1-y0); u > 0 {
		return u
	}
	return 1
}

// heart adds a heart-shaped subpath centred on (x, y).
func heart(dc *gg.Context, x, y, s float64) {
	dc.NewSubPath()
	dc.MoveTo(x, y+s*0.35)
	dc.CubicTo(x-s*1.1, y-s*0.35, x-s*0.45, y-s*1.05, x, y-s*0.4)
	dc.CubicTo(x+s*0.45, y-s*1.05, x+s*1.1, y-s*0.35, x, y+s*0.35)
	dc.ClosePath()
}

// sparkle adds a four-point star centred on (x, y).
func sparkle(dc *gg.Context, x, y, r float64) {
	k := r * 0.22
	dc.NewSubPath()
	dc.MoveTo(x, y-r)
	dc.QuadraticTo(x+k, y-k, x+r, y)
	dc.QuadraticTo(x+k, y+k, x, y+r)
	dc.QuadraticTo(x-k, y+k, x-r, y)
	dc.QuadraticTo(x-k, y-k, x, y-r)
	dc.ClosePath()
}
