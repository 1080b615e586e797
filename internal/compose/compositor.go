package compose

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// maxCached bounds the scaled-photo cache; panning creates a new entry per
// crop so the cache is trimmed rather than grown without limit.
const maxCached = 64

var (
	cardColor   = color.White
	shadowColor = color.NRGBA{0, 0, 0, 38}
)

// Photo is a decoded image together with its content key. A nil Image
// draws the backing card only.
type Photo struct {
	Key   photo.Key
	Image image.Image
}

type scaledKey struct {
	key    photo.Key
	filter filter.ID
	src    image.Rectangle
	w, h   int
}

type shadowKey struct {
	w, h, blur int
}

// Compositor draws photos into slots. It keeps scaled, filtered copies of
// the photos so an unchanged frame does not rescale anything. Safe for
// concurrent use by renderers that draw into different contexts.
type Compositor struct {
	mu      sync.Mutex
	scaled  map[scaledKey]image.Image
	shadows map[shadowKey]image.Image
}

// New returns an empty compositor.
func New() *Compositor {
	return &Compositor{
		scaled:  make(map[scaledKey]image.Image),
		shadows: make(map[shadowKey]image.Image),
	}
}

// Draw renders p into slot on dc. dc's transform must be a uniform scale
// from canvas units to device pixels and dc must not carry a clip; both
// are unchanged when Draw returns.
func (c *Compositor) Draw(dc *gg.Context, p Photo, slot template.Slot, off Offset, st template.Style, f filter.ID) {
	scale := deviceScale(dc)

	dc.Push()
	defer dc.Pop()
	if slot.Rotation != 0 {
		cx, cy := slot.Center()
		dc.RotateAbout(gg.Radians(slot.Rotation), cx, cy)
	}

	if st.ShadowBlur > 0 {
		c.drawShadow(dc, slot, st, scale)
	}
	dc.SetColor(cardColor)
	if st.CornerRadius > 0 {
		dc.DrawRoundedRectangle(slot.X, slot.Y, slot.W, slot.H, st.CornerRadius)
	} else {
		dc.DrawRectangle(slot.X, slot.Y, slot.W, slot.H)
	}
	dc.Fill()

	if p.Image == nil {
		return
	}
	inner := Inner(slot, st)
	if inner.Empty() {
		return
	}
	if st.CornerRadius > 0 {
		dc.DrawRoundedRectangle(inner.X, inner.Y, inner.W, inner.H, st.CornerRadius)
	} else {
		dc.DrawRectangle(inner.X, inner.Y, inner.W, inner.H)
	}
	dc.Clip()
	defer dc.ResetClip()

	c.drawPhoto(dc, p, inner, off, f, scale)
}

func (c *Compositor) drawPhoto(dc *gg.Context, p Photo, inner Rect, off Offset, f filter.ID, scale float64) {
	b := p.Image.Bounds()
	cover := CoverRect(b.Dx(), b.Dy(), inner, off)
	vis := cover.Intersect(inner)
	if vis.Empty() {
		return
	}
	ratio := cover.W / float64(b.Dx())

	// Source pixels that land inside the window, widened to whole pixels.
	sx0 := clampInt(int(math.Floor((vis.X-cover.X)/ratio)), 0, b.Dx()-1)
	sy0 := clampInt(int(math.Floor((vis.Y-cover.Y)/ratio)), 0, b.Dy()-1)
	sx1 := clampInt(int(math.Ceil((vis.X+vis.W-cover.X)/ratio)), sx0+1, b.Dx())
	sy1 := clampInt(int(math.Ceil((vis.Y+vis.H-cover.Y)/ratio)), sy0+1, b.Dy())
	src := image.Rect(b.Min.X+sx0, b.Min.Y+sy0, b.Min.X+sx1, b.Min.Y+sy1)

	// Device rectangle of that crop, rounded outward so it still covers.
	x0 := math.Floor((cover.X + float64(sx0)*ratio) * scale)
	y0 := math.Floor((cover.Y + float64(sy0)*ratio) * scale)
	x1 := math.Ceil((cover.X + float64(sx1)*ratio) * scale)
	y1 := math.Ceil((cover.Y + float64(sy1)*ratio) * scale)
	w, h := int(x1-x0), int(y1-y0)
	if w < 1 || h < 1 {
		return
	}

	img := c.scaledPhoto(p, src, w, h, f, scale)

	dc.Push()
	dc.Scale(1/scale, 1/scale)
	dc.DrawImage(img, int(x0), int(y0))
	dc.Pop()
}

func (c *Compositor) scaledPhoto(p Photo, src image.Rectangle, w, h int, f filter.ID, scale float64) image.Image {
	k := scaledKey{key: p.Key, filter: f, src: src, w: w, h: h}
	if p.Key != "" {
		c.mu.Lock()
		img, ok := c.scaled[k]
		c.mu.Unlock()
		if ok {
			return img
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), p.Image, src, draw.Src, nil)
	img := filter.Apply(f, dst, scale)

	if p.Key != "" {
		c.mu.Lock()
		if len(c.scaled) >= maxCached {
			for old := range c.scaled {
				delete(c.scaled, old)
				break
			}
		}
		c.scaled[k] = img
		c.mu.Unlock()
	}
	return img
}

// drawShadow draws a soft dark sprite offset below-right of the card.
func (c *Compositor) drawShadow(dc *gg.Context, slot template.Slot, st template.Style, scale float64) {
	blur := st.ShadowBlur * scale
	margin := math.Ceil(blur * 2)
	w := int(math.Ceil(slot.W*scale)) + int(2*margin)
	h := int(math.Ceil(slot.H*scale)) + int(2*margin)
	k := shadowKey{w: w, h: h, blur: int(math.Round(blur))}

	c.mu.Lock()
	sprite, ok := c.shadows[k]
	c.mu.Unlock()
	if !ok {
		base := image.NewNRGBA(image.Rect(0, 0, w, h))
		m := int(margin)
		inner := image.Rect(m, m, w-m, h-m)
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			for x := inner.Min.X; x < inner.Max.X; x++ {
				base.SetNRGBA(x, y, shadowColor)
			}
		}
		sprite = imaging.Blur(base, math.Max(blur/2, 0.5))
		c.mu.Lock()
		c.shadows[k] = sprite
		c.mu.Unlock()
	}

	x := math.Round((slot.X+st.ShadowOffset)*scale - margin)
	y := math.Round((slot.Y+st.ShadowOffset)*scale - margin)
	dc.Push()
	dc.Scale(1/scale, 1/scale)
	dc.DrawImage(sprite, int(x), int(y))
	dc.Pop()
}

// deviceScale recovers the canvas-to-device scale from dc's transform.
func deviceScale(dc *gg.Context) float64 {
	x0, y0 := dc.TransformPoint(0, 0)
	x1, y1 := dc.TransformPoint(1, 0)
	s := math.Hypot(x1-x0, y1-y0)
	if s == 0 {
		return 1
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
