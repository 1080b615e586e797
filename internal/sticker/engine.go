package sticker

import (
	"math"
	"math/rand/v2"
)

// Config holds the tunable interaction constants.
type Config struct {
	HitRadius     float64 // nominal half-size of a sticker at scale 1
	Snap          bool
	SnapTolerance float64
	MinScale      float64
	MaxScale      float64
	EnlargeFactor float64
	ShrinkFactor  float64
	RotateStep    float64 // degrees
	DefaultScale  float64
	MaxTilt       float64 // new stickers tilt within ±MaxTilt degrees
}

// DefaultConfig returns the booth's stock tuning.
func DefaultConfig() Config {
	return Config{
		HitRadius:     50,
		Snap:          true,
		SnapTolerance: 30,
		MinScale:      0.5,
		MaxScale:      10,
		EnlargeFactor: 1.1,
		ShrinkFactor:  0.9,
		RotateStep:    15,
		DefaultScale:  2,
		MaxTilt:       15,
	}
}

// State is the interaction state.
type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Engine applies pointer events and control actions to a Model.
type Engine struct {
	cfg      Config
	model    *Model
	w, h     float64
	dragging bool
	grab     Point // pointer minus sticker centre, fixed for the whole drag
	rng      *rand.Rand
}

// NewEngine binds an engine to m for a w x h canvas.
func NewEngine(m *Model, cfg Config, w, h float64) *Engine {
	return &Engine{
		cfg:   cfg,
		model: m,
		w:     w,
		h:     h,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetCanvas updates the canvas size after a template change.
func (e *Engine) SetCanvas(w, h float64) {
	e.w, e.h = w, h
}

// SetRand replaces the tilt source, for reproducible tests.
func (e *Engine) SetRand(r *rand.Rand) { e.rng = r }

// Config returns the engine's tuning.
func (e *Engine) Config() Config { return e.cfg }

// State reports the current interaction state.
func (e *Engine) State() State {
	if e.model.Selected() == nil {
		e.dragging = false
		return Idle
	}
	if e.dragging {
		return Dragging
	}
	return Selected
}

// PointerDown hit-tests at p (canvas units). A hit selects the sticker and
// starts a drag; a miss clears the selection. Returns the hit sticker.
func (e *Engine) PointerDown(p Point) *Sticker {
	s := e.model.HitTest(p, e.cfg.HitRadius)
	if s == nil {
		e.model.Deselect()
		e.dragging = false
		return nil
	}
	e.model.Select(s.ID)
	e.grab = Point{X: p.X - s.X, Y: p.Y - s.Y}
	e.dragging = true
	return s
}

// PointerMove drags the selected sticker. It reports whether anything moved.
func (e *Engine) PointerMove(p Point) bool {
	if !e.dragging {
		return false
	}
	s := e.model.Selected()
	if s == nil {
		e.dragging = false
		return false
	}
	x, y := p.X-e.grab.X, p.Y-e.grab.Y
	if e.cfg.Snap {
		if math.Abs(x-e.w/2) < e.cfg.SnapTolerance {
			x = e.w / 2
		}
		if math.Abs(y-e.h/2) < e.cfg.SnapTolerance {
			y = e.h / 2
		}
	}
	s.X, s.Y = x, y
	return true
}

// PointerUp ends a drag; the selection stays.
func (e *Engine) PointerUp() { e.dragging = false }

// PointerLeave ends a drag when the pointer leaves the surface.
func (e *Engine) PointerLeave() { e.dragging = false }

// Enlarge scales the selection up by one step.
func (e *Engine) Enlarge() bool { return e.rescale(e.cfg.EnlargeFactor) }

// Shrink scales the selection down by one step.
func (e *Engine) Shrink() bool { return e.rescale(e.cfg.ShrinkFactor) }

func (e *Engine) rescale(f float64) bool {
	s := e.model.Selected()
	if s == nil {
		return false
	}
	s.Scale = e.ClampScale(s.Scale * f)
	return true
}

// ClampScale bounds v to the configured scale range.
func (e *Engine) ClampScale(v float64) float64 {
	return math.Min(e.cfg.MaxScale, math.Max(e.cfg.MinScale, v))
}

// RotateCW turns the selection clockwise by one step.
func (e *Engine) RotateCW() bool { return e.rotate(e.cfg.RotateStep) }

// RotateCCW turns the selection counter-clockwise by one step.
func (e *Engine) RotateCCW() bool { return e.rotate(-e.cfg.RotateStep) }

func (e *Engine) rotate(deg float64) bool {
	s := e.model.Selected()
	if s == nil {
		return false
	}
	s.Rotation += deg
	return true
}

// Delete removes the selected sticker. Without a selection it does nothing.
func (e *Engine) Delete() bool {
	s := e.model.Selected()
	e.dragging = false
	if s == nil {
		return false
	}
	return e.model.Remove(s.ID)
}

// Deselect returns to Idle.
func (e *Engine) Deselect() {
	e.model.Deselect()
	e.dragging = false
}

// Add places new content at the canvas centre with a small random tilt and
// selects it.
func (e *Engine) Add(c Content, ai bool) *Sticker {
	tilt := (e.rng.Float64()*2 - 1) * e.cfg.MaxTilt
	s := e.model.Insert(Sticker{
		Content:  c,
		X:        e.w / 2,
		Y:        e.h / 2,
		Scale:    e.cfg.DefaultScale,
		Rotation: tilt,
		AI:       ai,
	})
	e.model.Select(s.ID)
	e.dragging = false
	return s
}
