package decor

import (
	"image/color"
	"math"

	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/fogleman/gg"
)

var (
	neon     = color.NRGBA{0, 255, 240, 90}
	neonPink = color.NRGBA{255, 0, 170, 255}
	neonCyan = color.NRGBA{0, 240, 255, 255}
)

// DrawSignature draws the fixed motif of templates that have one. It runs
// after the pattern overlay and before the photos.
func DrawSignature(dc *gg.Context, t template.Template) {
	w, h := t.Size()
	dc.Push()
	defer dc.Pop()
	switch t.ID {
	case template.Y2K:
		wavyChecker(dc, w, h, color.Black)
	case template.Film:
		sprockets(dc, w, h)
	case template.Cyber:
		cyberGrid(dc, w, h)
	}
}

// wavyChecker draws a two-tone checkerboard whose columns sway along y.
func wavyChecker(dc *gg.Context, w, h float64, ink color.Color) {
	const tile = 80
	wave := func(y float64) float64 { return math.Sin(y*0.005) * 60 }
	cols := int(math.Ceil(w/tile)) + 2
	rows := int(math.Ceil(h / tile))
	dc.SetColor(ink)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if (r+c)%2 != 1 {
				continue
			}
			x := float64(c)*tile - 50
			y := float64(r) * tile
			top, bottom := wave(y), wave(y+tile)
			dc.NewSubPath()
			dc.MoveTo(x+top, y)
			dc.LineTo(x+tile+top, y)
			dc.LineTo(x+tile+bottom, y+tile)
			dc.LineTo(x+bottom, y+tile)
			dc.ClosePath()
		}
	}
	dc.Fill()
}

// sprockets punches film-strip holes down both edges.
func sprockets(dc *gg.Context, w, h float64) {
	const holeW, holeH, gap = 30, 20, 30
	dc.SetColor(color.White)
	for y := 20.0; y < h; y += holeH + gap {
		dc.DrawRectangle(15, y, holeW, holeH)
		dc.DrawRectangle(w-15-holeW, y, holeW, holeH)
	}
	dc.Fill()
}

// cyberGrid draws a perspective-free neon grid and two radial corner glows.
func cyberGrid(dc *gg.Context, w, h float64) {
	glow := func(x, y float64, c color.NRGBA) {
		r := math.Max(w, h) * 0.6
		g := gg.NewRadialGradient(x, y, 0, x, y, r)
		c.A = 110
		g.AddColorStop(0, c)
		c.A = 0
		g.AddColorStop(1, c)
		dc.SetFillStyle(g)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}
	glow(0, 0, neonPink)
	glow(w, h, neonCyan)

	u := unit(dc)
	dc.SetColor(neon)
	dc.SetLineWidth(2 * u)
	for x := 0.0; x <= w; x += 60 {
		dc.DrawLine(x, 0, x, h)
	}
	for y := 0.0; y <= h; y += 60 {
		dc.DrawLine(0, y, w, y)
	}
	dc.Stroke()

	dc.SetColor(neonPink)
	dc.SetLineWidth(6 * u)
	dc.DrawRectangle(20, 20, w-40, h-40)
	dc.Stroke()
}
