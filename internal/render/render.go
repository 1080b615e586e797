// Package render composes one frame of a collage: background, pattern,
// signature motif, photos, date stamp, stickers, branding and grain.
package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/AnyUserName/kawaiibooth/internal/compose"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
)

// Scene is everything a frame depends on. Stickers are the live objects of
// the sticker model.
type Scene struct {
	Template   template.Template
	Filter     filter.ID
	Background string // hex; empty uses the template default
	Pattern    decor.Pattern
	Photos     []photo.Key
	Offsets    map[int]compose.Offset
	Stickers   []*sticker.Sticker
	Selected   sticker.ID
	ShowDate   bool
	Date       time.Time // zero means now

	// Caption is large centred text, used by animation title cards.
	Caption      string
	CaptionScale float64
}

// Frame is a rendered buffer. Pending counts images that were skipped
// because they are still decoding; a caller redraws once they are ready.
type Frame struct {
	Image   *image.RGBA
	Pending int
}

// Options tune the renderer.
type Options struct {
	DateLayout string // time layout for the date stamp
	Grain      int    // max per-channel noise, 0 disables
	Log        *logrus.Entry
}

// DefaultOptions returns the stock look.
func DefaultOptions() Options {
	return Options{DateLayout: "1/2/2006", Grain: 6}
}

// Renderer turns scenes into frames. It is safe for concurrent use.
type Renderer struct {
	fonts    *Fonts
	photos   *photo.Cache
	comp     *compose.Compositor
	stickers *imageCache
	grain    *grain
	opts     Options
	log      *logrus.Entry
}

// New creates a renderer drawing photos and image stickers from photos.
func New(photos *photo.Cache, fonts *Fonts, opts Options) *Renderer {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultOptions().DateLayout
	}
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Renderer{
		fonts:    fonts,
		photos:   photos,
		comp:     compose.New(),
		stickers: newImageCache(),
		grain:    newGrain(opts.Grain),
		opts:     opts,
		log:      log,
	}
}

// Photos returns the cache the renderer reads from.
func (r *Renderer) Photos() *photo.Cache { return r.photos }

// Render draws sc at scale device pixels per canvas unit.
func (r *Renderer) Render(sc Scene, scale float64) Frame {
	t := sc.Template
	tw, th := t.Size()
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(tw * scale))
	h := int(math.Round(th * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)
	dc.Scale(scale, scale)

	bg := r.background(sc)
	faces := &faceSet{}
	var pending int

	// 1. background
	decor.FillBackground(dc, tw, th, bg)
	// 2. pattern overlay
	decor.DrawPattern(dc, tw, th, bg, sc.Pattern)
	// 3. signature motif
	decor.DrawSignature(dc, t)
	// 4. photos under the active filter; the filter is applied per photo
	// copy, so nothing carries over into step 5.
	pending += r.drawPhotos(dc, sc)
	// 6. date stamp
	if sc.ShowDate {
		r.drawDate(dc, faces, sc, scale)
	}
	// 7. stickers, insertion order
	pending += r.drawStickers(dc, faces, sc, scale)
	// 8. branding and captions
	r.drawBranding(dc, faces, sc, scale)
	// 9. grain
	r.grain.apply(img)

	return Frame{Image: img, Pending: pending}
}

func (r *Renderer) background(sc Scene) color.NRGBA {
	for _, hex := range []string{sc.Background, sc.Template.Background} {
		if hex == "" {
			continue
		}
		c, err := colorx.ParseHex(hex)
		if err == nil {
			return c
		}
		r.log.WithError(err).WithField("template", sc.Template.ID).Warn("bad background colour")
	}
	return colorx.MustHex("#ffffff")
}

func (r *Renderer) drawPhotos(dc *gg.Context, sc Scene) int {
	pending := 0
	t := sc.Template
	for i, key := range sc.Photos {
		if i >= len(t.Slots) {
			break
		}
		var p compose.Photo
		img, err := r.photos.Get(key)
		switch {
		case err == nil:
			p = compose.Photo{Key: key, Image: img}
		case errors.Is(err, photo.ErrPending):
			pending++
		default:
			// Failed sources keep their empty card.
		}
		r.comp.Draw(dc, p, t.Slots[i], sc.Offsets[i], t.Style, sc.Filter)
	}
	return pending
}
