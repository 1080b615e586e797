package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// label is text anchored at the origin of the current transform, which
// must map one unit to one device pixel. Anchors follow gg: ax 0/0.5/1 is
// left/centre/right, ay 0 puts the baseline on the origin.
type label struct {
	text   string
	face   font.Face
	color  color.Color
	shadow color.NRGBA
	blur   float64 // device pixels
	ax, ay float64
}

func drawLabel(dc *gg.Context, l label) {
	dc.SetFontFace(l.face)
	if l.shadow.A > 0 {
		drawTextShadow(dc, l)
	}
	dc.SetColor(l.color)
	dc.DrawStringAnchored(l.text, 0, 0, l.ax, l.ay)
}

// drawTextShadow renders the text into a sprite, blurs it and draws it
// under where the text will land.
func drawTextShadow(dc *gg.Context, l label) {
	w, h := dc.MeasureString(l.text)
	pad := math.Ceil(l.blur*2) + 2
	sw, sh := int(math.Ceil(w+2*pad)), int(math.Ceil(h*1.4+2*pad))
	if sw < 1 || sh < 1 {
		return
	}
	sprite := gg.NewContext(sw, sh)
	sprite.SetFontFace(l.face)
	sprite.SetColor(l.shadow)
	sprite.DrawString(l.text, pad, pad+h)

	var img image.Image = sprite.Image()
	if l.blur > 0 {
		img = imaging.Blur(img, l.blur/2)
	}
	// Text start and baseline relative to the anchor, as gg computes them.
	x := -l.ax*w - pad
	y := l.ay*h - pad - h
	dc.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
}
