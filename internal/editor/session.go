// Package editor is the editing session: it owns every piece of mutable
// collage state and is driven from a single goroutine (the preview loop or
// a CLI command). Only sticker generation runs elsewhere, and its results
// are applied by Pump on the owning goroutine.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/compose"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/provider"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/sirupsen/logrus"
)

// Options wires a session to its collaborators.
type Options struct {
	Templates   *template.Catalog
	Photos      *photo.Cache
	Provider    provider.Provider
	Interaction sticker.Config
	Notify      func(Notice) // nil drops notices
	Log         *logrus.Entry
}

type generated struct {
	prompt string
	data   []byte
	err    error
}

// Session is one collage being edited.
type Session struct {
	templates *template.Catalog
	photos    *photo.Cache
	provider  provider.Provider
	notify    func(Notice)
	log       *logrus.Entry

	tpl        template.Template
	filter     filter.ID
	background string
	pattern    decor.Pattern
	showDate   bool
	date       time.Time

	shots   []photo.Key
	paths   map[photo.Key]string // where a photo or sticker image came from
	offsets map[int]compose.Offset

	model  *sticker.Model
	engine *sticker.Engine

	panSlot int // -1 when not panning
	panLast sticker.Point

	results   chan generated
	inflight  int
	generated []photo.Key // AI sticker history, newest first

	created string
	exports []session.Export
}

// New starts a session on template id with the given captured shots.
func New(id template.ID, shots []photo.Source, opts Options) (*Session, error) {
	if opts.Templates == nil {
		opts.Templates = template.Builtin()
	}
	if opts.Photos == nil {
		return nil, fmt.Errorf("new session: photo cache is required")
	}
	if opts.Provider == nil {
		opts.Provider = provider.Disabled
	}
	if opts.Interaction == (sticker.Config{}) {
		opts.Interaction = sticker.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	tpl, err := opts.Templates.Get(id)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		templates: opts.Templates,
		photos:    opts.Photos,
		provider:  opts.Provider,
		notify:    opts.Notify,
		log:       opts.Log,
		tpl:       tpl,
		filter:    filter.Normal,
		showDate:  true,
		paths:     make(map[photo.Key]string),
		offsets:   make(map[int]compose.Offset),
		model:     sticker.NewModel(),
		panSlot:   -1,
		results:   make(chan generated, 8),
	}
	w, h := tpl.Size()
	s.engine = sticker.NewEngine(s.model, opts.Interaction, w, h)
	for _, src := range shots {
		s.shots = append(s.shots, s.photos.Add(src))
	}
	s.seedDecor()
	return s, nil
}

// Template returns the active layout.
func (s *Session) Template() template.Template { return s.tpl }

// Engine exposes the sticker transform engine for control actions.
func (s *Session) Engine() *sticker.Engine { return s.engine }

// Model exposes the sticker collection.
func (s *Session) Model() *sticker.Model { return s.model }

// Photos returns the session's shot keys in slot order.
func (s *Session) Photos() []photo.Key { return append([]photo.Key(nil), s.shots...) }

// SetTemplate switches layout. The background resets to the template
// default and, when no stickers are placed, the template's decor is seeded.
// Offsets and stickers are kept.
func (s *Session) SetTemplate(id template.ID) error {
	tpl, err := s.templates.Get(id)
	if err != nil {
		return fmt.Errorf("set template: %w", err)
	}
	s.tpl = tpl
	s.background = ""
	s.panSlot = -1
	w, h := tpl.Size()
	s.engine.SetCanvas(w, h)
	s.seedDecor()
	s.log.WithField("template", id).Debug("template changed")
	return nil
}

// NextTemplate cycles to the following catalog entry.
func (s *Session) NextTemplate() {
	_ = s.SetTemplate(s.templates.Next(s.tpl.ID))
}

func (s *Session) seedDecor() {
	if s.model.Len() > 0 {
		return
	}
	for _, d := range s.tpl.Decor {
		s.model.Insert(sticker.Sticker{
			Content:  sticker.Content{Glyph: d.Glyph},
			X:        d.X,
			Y:        d.Y,
			Scale:    d.Scale,
			Rotation: d.Rotation,
		})
	}
}

// Filter returns the active filter.
func (s *Session) Filter() filter.ID { return s.filter }

// SetFilter switches filter; photos are never modified.
func (s *Session) SetFilter(f filter.ID) { s.filter = f }

// Background returns the effective background colour as hex.
func (s *Session) Background() string {
	if s.background == "" {
		return s.tpl.Background
	}
	return s.background
}

// SetBackground overrides the template background; "" restores it.
func (s *Session) SetBackground(hex string) { s.background = hex }

// NextBackground cycles through the preset palette.
func (s *Session) NextBackground() {
	cur := s.Background()
	presets := decor.BackgroundPresets
	for i, p := range presets {
		if p == cur {
			s.background = presets[(i+1)%len(presets)]
			return
		}
	}
	s.background = presets[0]
}

// Pattern returns the overlay pattern.
func (s *Session) Pattern() decor.Pattern { return s.pattern }

// SetPattern sets the overlay pattern.
func (s *Session) SetPattern(p decor.Pattern) { s.pattern = p }

// ShowDate reports whether the date stamp is drawn.
func (s *Session) ShowDate() bool { return s.showDate }

// SetShowDate toggles the date stamp.
func (s *Session) SetShowDate(on bool) { s.showDate = on }

// SetDate fixes the stamped day; the zero time stamps the render day.
func (s *Session) SetDate(t time.Time) { s.date = t }

// Offset returns the pan of slot i.
func (s *Session) Offset(i int) compose.Offset { return s.offsets[i] }

// SetOffset pans the photo in slot i.
func (s *Session) SetOffset(i int, off compose.Offset) { s.offsets[i] = off }

// Scene snapshots the state for one render pass.
func (s *Session) Scene() render.Scene {
	offsets := make(map[int]compose.Offset, len(s.offsets))
	for k, v := range s.offsets {
		offsets[k] = v
	}
	return render.Scene{
		Template:   s.tpl,
		Filter:     s.filter,
		Background: s.Background(),
		Pattern:    s.pattern,
		Photos:     s.Photos(),
		Offsets:    offsets,
		Stickers:   s.model.All(),
		Selected:   s.model.SelectedID(),
		ShowDate:   s.showDate,
		Date:       s.date,
	}
}

// Frozen is Scene with the stickers copied, safe to hand to another
// goroutine while editing continues.
func (s *Session) Frozen() render.Scene {
	sc := s.Scene()
	live := sc.Stickers
	sc.Stickers = make([]*sticker.Sticker, len(live))
	for i, st := range live {
		cp := *st
		sc.Stickers[i] = &cp
	}
	return sc
}

// PointerDown routes a press at p (canvas units). A sticker hit selects it
// and starts a drag; otherwise the selection clears and a press inside a
// filled slot starts panning that photo.
func (s *Session) PointerDown(p sticker.Point) {
	s.panSlot = -1
	if s.engine.PointerDown(p) != nil {
		return
	}
	if i := s.tpl.SlotAt(p.X, p.Y); i >= 0 && i < len(s.shots) {
		s.panSlot = i
		s.panLast = p
	}
}

// PointerMove drags the selected sticker or pans the grabbed photo.
func (s *Session) PointerMove(p sticker.Point) bool {
	if s.engine.PointerMove(p) {
		return true
	}
	if s.panSlot < 0 {
		return false
	}
	dx, dy := p.X-s.panLast.X, p.Y-s.panLast.Y
	s.panLast = p
	// Pan in the slot's own frame so a tilted polaroid follows the pointer.
	if rot := s.tpl.Slots[s.panSlot].Rotation; rot != 0 {
		sin, cos := math.Sincos(-rot * math.Pi / 180)
		dx, dy = dx*cos-dy*sin, dx*sin+dy*cos
	}
	off := s.offsets[s.panSlot]
	off.DX += dx
	off.DY += dy
	s.offsets[s.panSlot] = off
	return true
}

// PointerUp ends any drag or pan.
func (s *Session) PointerUp() {
	s.engine.PointerUp()
	s.panSlot = -1
}

// PointerLeave ends any drag or pan when the pointer leaves the surface.
func (s *Session) PointerLeave() {
	s.engine.PointerLeave()
	s.panSlot = -1
}

// Panning reports whether a photo pan is in progress.
func (s *Session) Panning() bool { return s.panSlot >= 0 }

// AddGlyph places a glyph sticker at the canvas centre.
func (s *Session) AddGlyph(glyph string) *sticker.Sticker {
	return s.engine.Add(sticker.Content{Glyph: glyph}, false)
}

// AddImage registers encoded image bytes and places them as a sticker.
func (s *Session) AddImage(src photo.Source, ai bool) *sticker.Sticker {
	k := s.photos.Add(src)
	return s.engine.Add(sticker.Content{Image: k}, ai)
}

// RequestSticker asks the provider for a sticker in the background. The
// result is applied by the next Pump. Blank prompts are ignored. A result
// that arrives after ctx ends is dropped.
func (s *Session) RequestSticker(ctx context.Context, prompt string) bool {
	if prompt == "" {
		return false
	}
	s.inflight++
	go func() {
		data, err := s.provider.Generate(ctx, prompt)
		select {
		case s.results <- generated{prompt: prompt, data: data, err: err}:
		case <-ctx.Done():
		}
	}()
	return true
}

// Generating reports how many sticker requests are outstanding.
func (s *Session) Generating() int { return s.inflight }

// Pump applies finished sticker requests. Call it once per frame, before
// rendering. It returns the number of results applied.
func (s *Session) Pump() int {
	n := 0
	for {
		select {
		case r := <-s.results:
			s.inflight--
			n++
			s.apply(r)
		default:
			return n
		}
	}
}

// Await blocks until every outstanding request is applied or ctx ends.
func (s *Session) Await(ctx context.Context) error {
	for s.inflight > 0 {
		select {
		case r := <-s.results:
			s.inflight--
			s.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Session) apply(r generated) {
	log := s.log.WithField("prompt", r.prompt)
	if r.err != nil {
		log.WithError(r.err).Warn("sticker generation failed")
		s.emit(Notice{Kind: Failure, Message: describe(r.err), Err: r.err})
		return
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(r.data)); err != nil {
		err = fmt.Errorf("%w: %v", photo.ErrDecode, err)
		log.WithError(err).Warn("generated sticker is not an image")
		s.emit(Notice{Kind: Failure, Message: describe(err), Err: err})
		return
	}
	src := photo.NewSource("ai-"+r.prompt, r.data)
	st := s.AddImage(src, true)
	s.generated = append([]photo.Key{src.Key}, s.generated...)
	log.WithField("sticker", st.ID).Info("ai sticker added")
	s.emit(Notice{Kind: Info, Message: fmt.Sprintf("Added %q", r.prompt)})
}

// Generated lists AI sticker images produced this session, newest first.
func (s *Session) Generated() []photo.Key {
	return append([]photo.Key(nil), s.generated...)
}

// SetNotify replaces the notice sink.
func (s *Session) SetNotify(fn func(Notice)) { s.notify = fn }

// RecordExport remembers an artifact so the next Snapshot lists it.
func (s *Session) RecordExport(e session.Export) {
	s.exports = append(s.exports, e)
}

// Report forwards a notice to the session's sink.
func (s *Session) Report(err error) {
	if err == nil {
		return
	}
	s.emit(Notice{Kind: Failure, Message: describe(err), Err: err})
}

func (s *Session) emit(n Notice) {
	if s.notify != nil {
		s.notify(n)
	}
}
