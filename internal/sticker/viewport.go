package sticker

import "math"

// Point is a position in canvas or device units.
type Point struct {
	X, Y float64
}

// Viewport maps device (window or element) coordinates onto the canvas:
// device = canvas*scale + offset, per axis.
type Viewport struct {
	ScaleX, ScaleY float64
	OffX, OffY     float64
}

// Identity is a viewport where device and canvas units coincide.
var Identity = Viewport{ScaleX: 1, ScaleY: 1}

// Fit letterboxes a canvas into a display area, preserving aspect ratio and
// centring the leftover space.
func Fit(canvasW, canvasH, displayW, displayH float64) Viewport {
	if canvasW <= 0 || canvasH <= 0 || displayW <= 0 || displayH <= 0 {
		return Identity
	}
	s := math.Min(displayW/canvasW, displayH/canvasH)
	return Viewport{
		ScaleX: s,
		ScaleY: s,
		OffX:   (displayW - canvasW*s) / 2,
		OffY:   (displayH - canvasH*s) / 2,
	}
}

// Stretch maps a displayed element of size displayW x displayH onto a
// backing canvas that may be sized differently on each axis.
func Stretch(canvasW, canvasH, displayW, displayH float64) Viewport {
	if canvasW <= 0 || canvasH <= 0 || displayW <= 0 || displayH <= 0 {
		return Identity
	}
	return Viewport{ScaleX: displayW / canvasW, ScaleY: displayH / canvasH}
}

// ToCanvas converts a device point to canvas units.
func (v Viewport) ToCanvas(p Point) Point {
	return Point{X: (p.X - v.OffX) / v.ScaleX, Y: (p.Y - v.OffY) / v.ScaleY}
}

// ToDevice converts a canvas point to device units.
func (v Viewport) ToDevice(p Point) Point {
	return Point{X: p.X*v.ScaleX + v.OffX, Y: p.Y*v.ScaleY + v.OffY}
}
