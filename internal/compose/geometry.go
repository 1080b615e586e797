// Package compose draws photos into template slots.
package compose

import (
	"math"

	"github.com/AnyUserName/kawaiibooth/internal/template"
)

// Offset pans a photo inside its crop window, in canvas units.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inner is the photo window: the slot shrunk by padding, minus the bottom
// inset of polaroid-style layouts.
func Inner(s template.Slot, st template.Style) Rect {
	return Rect{
		X: s.X + st.Padding,
		Y: s.Y + st.Padding,
		W: s.W - 2*st.Padding,
		H: s.H - 2*st.Padding - st.BottomInset,
	}
}

// CoverRect places a srcW x srcH image so that it covers inner completely,
// centred, then shifted by off. The offset is not clamped.
func CoverRect(srcW, srcH int, inner Rect, off Offset) Rect {
	if srcW <= 0 || srcH <= 0 {
		return Rect{}
	}
	ratio := math.Max(inner.W/float64(srcW), inner.H/float64(srcH))
	w := float64(srcW) * ratio
	h := float64(srcH) * ratio
	return Rect{
		X: inner.X + (inner.W-w)/2 + off.DX,
		Y: inner.Y + (inner.H-h)/2 + off.DY,
		W: w,
		H: h,
	}
}
