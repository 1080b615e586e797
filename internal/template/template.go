// Package template holds the static registry of collage layouts.
package template

import "math"

// ID identifies a template. The set is closed; see the constants below.
type ID string

const (
	Strip  ID = "strip"
	Y2K    ID = "y2k"
	Grid   ID = "grid"
	Film   ID = "film"
	Modern ID = "modern"
	Retro  ID = "retro"
	Wide   ID = "wide"
	Cyber  ID = "cyber"
)

// Slot is a photo rectangle in canvas space, optionally rotated (degrees)
// about its own centre.
type Slot struct {
	X, Y, W, H float64
	Rotation   float64
}

// Center returns the rotation pivot of the slot.
func (s Slot) Center() (float64, float64) {
	return s.X + s.W/2, s.Y + s.H/2
}

// Contains reports whether the canvas point lies inside the (rotated) slot.
func (s Slot) Contains(x, y float64) bool {
	if s.Rotation != 0 {
		cx, cy := s.Center()
		sin, cos := math.Sincos(-s.Rotation * math.Pi / 180)
		dx, dy := x-cx, y-cy
		x = cx + dx*cos - dy*sin
		y = cy + dx*sin + dy*cos
	}
	return x >= s.X && x <= s.X+s.W && y >= s.Y && y <= s.Y+s.H
}

// Style controls how photos are framed inside their slots.
type Style struct {
	CornerRadius float64
	Padding      float64
	ShadowBlur   float64
	ShadowOffset float64
	// BottomInset trims the photo window from below, leaving a polaroid lip.
	BottomInset float64
}

// Seed is a decor sticker placed when a template is first chosen.
type Seed struct {
	Glyph    string
	X, Y     float64
	Scale    float64
	Rotation float64
}

// Inset places the date stamp relative to the bottom-right corner.
type Inset struct {
	Right, Bottom float64
}

// Template is an immutable collage layout.
type Template struct {
	ID         ID
	Name       string
	Width      int
	Height     int
	Background string // default background, hex
	Slots      []Slot
	Style      Style
	DateColor  string // hex
	DateInset  Inset
	Branding   string // optional footer text
	Decor      []Seed
}

// Size returns the canvas dimensions as floats.
func (t Template) Size() (float64, float64) {
	return float64(t.Width), float64(t.Height)
}

// SlotAt returns the index of the topmost slot containing (x, y), or -1.
func (t Template) SlotAt(x, y float64) int {
	for i := len(t.Slots) - 1; i >= 0; i-- {
		if t.Slots[i].Contains(x, y) {
			return i
		}
	}
	return -1
}
