package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/quantize"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
)

const (
	introCaption = "READY?"
	outroCaption = "KawaiiBooth"
)

type shotKind int

const (
	intro shotKind = iota
	hold
	fade
	outro
)

// shot is one scripted frame. a and b index the decoded photos; t is the
// progress within the shot's phase in [0, 1].
type shot struct {
	kind  shotKind
	a, b  int
	t     float64
	delay int
}

// script lays out the frames for n photos: intro, then hold (and a fade
// into the next photo, except after the last), then outro.
func script(p profile.Animation, n int) []shot {
	var out []shot
	phase := func(i, total int) float64 {
		if total <= 1 {
			return 0
		}
		return float64(i) / float64(total-1)
	}
	for i := 0; i < p.Intro; i++ {
		out = append(out, shot{kind: intro, t: phase(i, p.Intro), delay: p.IntroDelay})
	}
	for k := 0; k < n; k++ {
		for i := 0; i < p.Hold; i++ {
			out = append(out, shot{kind: hold, a: k, t: float64(i) / float64(p.Hold), delay: p.HoldDelay})
		}
		if k == n-1 {
			break
		}
		for i := 1; i <= p.Fade; i++ {
			out = append(out, shot{kind: fade, a: k, b: k + 1, t: float64(i) / float64(p.Fade+1), delay: p.FadeDelay})
		}
	}
	for i := 0; i < p.Outro; i++ {
		out = append(out, shot{kind: outro, t: phase(i, p.Outro), delay: p.OutroDelay})
	}
	return out
}

// Animation renders the scripted loop at the profile's fixed size,
// quantizes every frame and encodes a GIF. Frames are rendered in parallel
// and appended in script order.
func (e *Exporter) Animation(ctx context.Context, sc render.Scene, p profile.Animation) (*Artifact, error) {
	if err := e.acquire(Animation); err != nil {
		return nil, err
	}
	defer e.release(Animation)
	start := time.Now()

	cache := e.renderer.Photos()
	if err := cache.Wait(ctx, sceneKeys(sc)...); err != nil {
		return nil, fmt.Errorf("wait for photos: %w", err)
	}
	keys := sc.Photos
	if n := len(sc.Template.Slots); len(keys) > n {
		keys = keys[:n]
	}
	var photos []photo.Key
	for _, k := range keys {
		if _, ok := cache.Lookup(k); ok {
			photos = append(photos, k)
		}
	}
	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}

	shots := script(p, len(photos))
	base := loopScene(sc, p)
	frames := make([]*image.Paletted, len(shots))
	q := quantize.MedianCut{MaxColors: p.Colors}

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i, s := range shots {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s shot) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			frames[i] = q.Paletted(e.renderShot(base, photos, s, p))
		}(i, s)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render frames: %w", err)
	}

	stream := encoder.NewGIFStream(0)
	for i, f := range frames {
		if err := stream.Append(f, shots[i].delay); err != nil {
			return nil, err
		}
	}
	data, err := stream.Finish()
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Name:   e.name("gif"),
		Kind:   Animation,
		Format: "gif",
		Data:   data,
		Width:  p.Width,
		Height: p.Height,
		Frames: stream.Len(),
		Hash:   string(photo.KeyOf(data)),
	}
	e.log.WithFields(logrus.Fields{
		"artifact": art.Name,
		"profile":  p.Name,
		"frames":   art.Frames,
		"photos":   len(photos),
		"bytes":    len(data),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("animation exported")
	return art, nil
}

// loopScene adapts the session's scene to the loop size: one large slot,
// the same background and pattern, stickers rescaled into the new frame.
func loopScene(sc render.Scene, p profile.Animation) render.Scene {
	t := sc.Template
	tw, th := t.Size()
	w, h := float64(p.Width), float64(p.Height)

	lt := t
	lt.Width, lt.Height = p.Width, p.Height
	lt.Branding = ""
	lt.Decor = nil
	margin := math.Min(w, h) * 0.08
	mx := margin
	if t.ID == template.Film {
		mx = 60 // clear the sprocket holes
	}
	lt.Slots = []template.Slot{{X: mx, Y: margin, W: w - 2*mx, H: h - 2*margin - margin/2}}
	lt.Style = template.Style{
		Padding:      margin / 3,
		CornerRadius: t.Style.CornerRadius / 2,
		ShadowBlur:   6,
		ShadowOffset: 2,
		BottomInset:  t.Style.BottomInset * h / th,
	}
	lt.DateInset = template.Inset{Right: 16, Bottom: 14}

	out := render.Scene{
		Template:   lt,
		Filter:     sc.Filter,
		Background: sc.Background,
		Pattern:    sc.Pattern,
		Date:       sc.Date,
	}
	if p.Stickers {
		fx, fy := w/tw, h/th
		fs := math.Min(fx, fy)
		for _, s := range sc.Stickers {
			c := *s
			c.X, c.Y = s.X*fx, s.Y*fy
			c.Scale = s.Scale * fs
			out.Stickers = append(out.Stickers, &c)
		}
	}
	return out
}

// renderShot renders one frame of the script.
func (e *Exporter) renderShot(base render.Scene, photos []photo.Key, s shot, p profile.Animation) *image.RGBA {
	sc := base
	sc.Stickers = wiggle(base.Stickers, s)

	switch s.kind {
	case intro:
		sc.Caption = introCaption
		// Pulse: grow then settle.
		sc.CaptionScale = 0.8 + 0.4*float64(ease.InOutSine(float32(s.t), 0, 1, 1))
		return e.renderer.Render(sc, 1).Image
	case outro:
		sc.Caption = outroCaption
		sc.CaptionScale = 1 + 0.05*float64(ease.InOutSine(float32(s.t), 0, 1, 1))
		sc.ShowDate = true
		return e.renderer.Render(sc, 1).Image
	case hold:
		sc.Photos = []photo.Key{photos[s.a]}
		return e.renderer.Render(sc, 1).Image
	default:
		sc.Photos = []photo.Key{photos[s.a]}
		from := e.renderer.Render(sc, 1).Image
		sc.Photos = []photo.Key{photos[s.b]}
		to := e.renderer.Render(sc, 1).Image
		alpha := float64(ease.InOutSine(float32(s.t), 0, 1, 1))
		return crossfade(from, to, alpha)
	}
}

// wiggle returns per-frame copies of the stickers with a small rotation
// sway and bounce, phased per sticker so they do not move in lockstep.
func wiggle(in []*sticker.Sticker, s shot) []*sticker.Sticker {
	if len(in) == 0 {
		return nil
	}
	out := make([]*sticker.Sticker, len(in))
	for i, st := range in {
		c := *st
		if s.kind == hold || s.kind == fade {
			ph := 2*math.Pi*s.t + float64(i)*1.7
			c.Rotation += 8 * math.Sin(ph)
			bounce := float64(ease.OutBounce(float32(0.5+0.5*math.Sin(ph)), 0, 1, 1))
			c.Scale *= 1 + 0.06*bounce
		}
		out[i] = &c
	}
	return out
}

// crossfade draws to over from with uniform opacity alpha.
func crossfade(from, to *image.RGBA, alpha float64) *image.RGBA {
	out := image.NewRGBA(from.Bounds())
	draw.Draw(out, out.Bounds(), from, from.Bounds().Min, draw.Src)
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	mask := image.NewUniform(color.Alpha{A: a})
	draw.DrawMask(out, out.Bounds(), to, to.Bounds().Min, mask, image.Point{}, draw.Over)
	return out
}

// IsUserError reports whether err is something the user can act on by
// changing the session, rather than an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoPhotos) || errors.Is(err, ErrInFlight)
}
