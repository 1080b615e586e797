// Package profile defines named export settings for stills and loops.
package profile

import (
	"math"
	"sort"
)

// Still describes a single-image export.
type Still struct {
	Name    string
	Scale   float64 // output pixels per canvas unit
	Format  string  // png, jpeg or webp
	Quality int     // 1-100, ignored by png
}

// Animation describes a looping GIF export.
type Animation struct {
	Name   string
	Width  int
	Height int
	Intro  int // title frames
	Hold   int // frames per photo
	Fade   int // crossfade frames between photos
	Outro  int // sign-off frames
	Colors int // palette size per frame, at most 256

	// Frame delays in hundredths of a second.
	IntroDelay int
	HoldDelay  int
	FadeDelay  int
	OutroDelay int

	// Stickers draws the session's stickers with an idle wiggle.
	Stickers bool
}

// Built-in still profiles.
var stills = map[string]Still{
	"still-2x": {
		Name:   "still-2x",
		Scale:  2,
		Format: "png",
	},
	"still-1x": {
		Name:   "still-1x",
		Scale:  1,
		Format: "png",
	},
	"still-jpeg": {
		Name:    "still-jpeg",
		Scale:   2,
		Format:  "jpeg",
		Quality: 90,
	},
	"share-webp": {
		Name:    "share-webp",
		Scale:   1,
		Format:  "webp",
		Quality: 85,
	},
}

// Built-in animation profiles.
var animations = map[string]Animation{
	"loop": {
		Name:  "loop",
		Width: 360, Height: 480,
		Intro: 2, Hold: 6, Fade: 4, Outro: 2,
		Colors:     256,
		IntroDelay: 40, HoldDelay: 15, FadeDelay: 6, OutroDelay: 60,
		Stickers: true,
	},
	"loop-hq": {
		Name:  "loop-hq",
		Width: 480, Height: 640,
		Intro: 2, Hold: 8, Fade: 6, Outro: 2,
		Colors:     256,
		IntroDelay: 40, HoldDelay: 12, FadeDelay: 5, OutroDelay: 60,
		Stickers: true,
	},
	"loop-lite": {
		Name:  "loop-lite",
		Width: 240, Height: 320,
		Intro: 2, Hold: 4, Fade: 3, Outro: 2,
		Colors:     64,
		IntroDelay: 40, HoldDelay: 20, FadeDelay: 8, OutroDelay: 60,
	},
}

// GetStill returns a still profile. Unknown names fall back to still-2x.
func GetStill(name string) Still {
	if p, ok := stills[name]; ok {
		return p
	}
	p := stills["still-2x"]
	p.Name = name // preserve requested name
	return p
}

// GetAnimation returns an animation profile. Unknown names fall back to loop.
func GetAnimation(name string) Animation {
	if p, ok := animations[name]; ok {
		return p
	}
	p := animations["loop"]
	p.Name = name
	return p
}

// Known reports whether name is a built-in profile of either kind.
func Known(name string) bool {
	_, s := stills[name]
	_, a := animations[name]
	return s || a
}

// StillNames lists the built-in still profiles.
func StillNames() []string { return keys(stills) }

// AnimationNames lists the built-in animation profiles.
func AnimationNames() []string { return keys(animations) }

func keys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Size returns the output dimensions for a canvas of w x h units.
func (p Still) Size(w, h int) (int, int) {
	s := p.Scale
	if s <= 0 {
		s = 1
	}
	return int(math.Round(float64(w) * s)), int(math.Round(float64(h) * s))
}

// FrameCount returns the number of frames scripted for n photos.
func (a Animation) FrameCount(n int) int {
	if n <= 0 {
		return 0
	}
	return a.Intro + n*a.Hold + (n-1)*a.Fade + a.Outro
}
