package render

import (
	"errors"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	dateSize     = 30
	brandSize    = 40
	glyphSize    = 80
	stickerBox   = 100 // image stickers fill a 100x100 box at scale 1
	haloRadius   = 60
	handleRadius = 10
)

var (
	haloColor     = colorx.MustHex("#3b82f6")
	dateShadow    = color.NRGBA{0, 0, 0, 128}
	glyphShadow   = color.NRGBA{0, 0, 0, 51}
	brandColor    = colorx.MustHex("#ff69b4")
	captionShadow = color.NRGBA{0, 0, 0, 90}
)

func (r *Renderer) drawDate(dc *gg.Context, faces *faceSet, sc Scene, scale float64) {
	t := sc.Template
	when := sc.Date
	if when.IsZero() {
		when = time.Now()
	}
	fg, err := colorx.ParseHex(t.DateColor)
	if err != nil {
		fg = brandColor
	}
	tw, th := t.Size()

	dc.Push()
	defer dc.Pop()
	dc.Translate(tw-t.DateInset.Right, th-t.DateInset.Bottom)
	dc.Scale(1/scale, 1/scale)
	drawLabel(dc, label{
		text:   when.Format(r.opts.DateLayout),
		face:   faces.face(r.fonts.Mono, dateSize*scale),
		color:  fg,
		shadow: dateShadow,
		blur:   4 * scale,
		ax:     1,
	})
}

func (r *Renderer) drawStickers(dc *gg.Context, faces *faceSet, sc Scene, scale float64) int {
	pending := 0
	for _, s := range sc.Stickers {
		if !r.drawSticker(dc, faces, s, s.ID == sc.Selected && sc.Selected != "", scale) {
			pending++
		}
	}
	return pending
}

// drawSticker reports false when an image sticker is still decoding.
func (r *Renderer) drawSticker(dc *gg.Context, faces *faceSet, s *sticker.Sticker, selected bool, scale float64) bool {
	dc.Push()
	defer dc.Pop()
	dc.Translate(s.X, s.Y)
	dc.Rotate(gg.Radians(s.Rotation))
	dc.Scale(s.Scale, s.Scale)

	if selected {
		drawHalo(dc, s.Scale, scale)
	}

	px := s.Scale * scale // device pixels per sticker unit
	if s.Content.IsImage() {
		img, err := r.photos.Get(s.Content.Image)
		if errors.Is(err, photo.ErrPending) {
			return false
		}
		if err != nil {
			return true
		}
		n := int(math.Round(stickerBox * px))
		if n < 1 {
			return true
		}
		fitted := r.stickers.get(s.Content.Image, img, n)
		dc.Push()
		dc.Scale(1/px, 1/px)
		dc.DrawImage(fitted, -n/2, -n/2)
		dc.Pop()
		return true
	}

	f := r.fonts.Sticker
	if !covers(f, s.Content.Glyph) {
		f = r.fonts.Bold
	}
	if !covers(f, s.Content.Glyph) {
		drawBadge(dc, s.Content.Glyph)
		return true
	}
	dc.Push()
	dc.Scale(1/px, 1/px)
	drawLabel(dc, label{
		text:   s.Content.Glyph,
		face:   faces.face(f, glyphSize*px),
		color:  color.Black,
		shadow: glyphShadow,
		blur:   10 * px,
		ax:     0.5,
		ay:     0.35,
	})
	dc.Pop()
	return true
}

// drawHalo draws the dashed selection ring and the rotate handle below it,
// in sticker units.
func drawHalo(dc *gg.Context, stickerScale, scale float64) {
	dc.Push()
	defer dc.Pop()
	dc.SetColor(haloColor)
	dc.SetLineWidth(4 * scale)
	dash := stickerScale * scale
	dc.SetDash(10*dash, 5*dash)
	dc.DrawCircle(0, 0, haloRadius)
	dc.Stroke()
	dc.SetDash()
	dc.DrawCircle(0, haloRadius, handleRadius/stickerScale)
	dc.Fill()
}

// drawBadge stands in for glyphs no loaded font can draw: a round sticker
// tinted by the glyph with a sparkle on top.
func drawBadge(dc *gg.Context, glyph string) {
	h := fnv.New32a()
	h.Write([]byte(glyph))
	hue := float64(h.Sum32()%360) / 360

	dc.Push()
	defer dc.Pop()
	dc.SetColor(color.White)
	dc.DrawCircle(0, 0, 42)
	dc.Fill()
	dc.SetColor(hsl(hue, 0.75, 0.72))
	dc.DrawCircle(0, 0, 36)
	dc.Fill()
	dc.SetColor(color.White)
	const r, k = 20.0, 5.0
	dc.MoveTo(0, -r)
	dc.QuadraticTo(k, -k, r, 0)
	dc.QuadraticTo(k, k, 0, r)
	dc.QuadraticTo(-k, k, -r, 0)
	dc.QuadraticTo(-k, -k, 0, -r)
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawBranding(dc *gg.Context, faces *faceSet, sc Scene, scale float64) {
	t := sc.Template
	tw, th := t.Size()
	if t.Branding != "" {
		dc.Push()
		dc.Translate(tw/2, th-80)
		dc.Scale(1/scale, 1/scale)
		drawLabel(dc, label{
			text:  t.Branding,
			face:  faces.face(r.fonts.Bold, brandSize*scale),
			color: brandColor,
			ax:    0.5,
		})
		dc.Pop()
	}
	if sc.Caption != "" {
		cs := sc.CaptionScale
		if cs <= 0 {
			cs = 1
		}
		size := math.Min(tw, th) / 7 * cs
		fg := color.Color(color.White)
		if bg := r.background(sc); colorx.IsLight(bg) {
			fg = brandColor
		}
		dc.Push()
		dc.Translate(tw/2, th/2)
		dc.Scale(1/scale, 1/scale)
		drawLabel(dc, label{
			text:   sc.Caption,
			face:   faces.face(r.fonts.Bold, size*scale),
			color:  fg,
			shadow: captionShadow,
			blur:   6 * scale,
			ax:     0.5,
			ay:     0.35,
		})
		dc.Pop()
	}
}

// imageCache keeps image stickers resized to their on-screen box.
type imageCache struct {
	mu   sync.Mutex
	imgs map[imageKey]image.Image
}

type imageKey struct {
	key photo.Key
	n   int
}

func newImageCache() *imageCache {
	return &imageCache{imgs: make(map[imageKey]image.Image)}
}

func (c *imageCache) get(key photo.Key, src image.Image, n int) image.Image {
	k := imageKey{key: key, n: n}
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.imgs[k]; ok {
		return img
	}
	if len(c.imgs) >= 64 {
		for old := range c.imgs {
			delete(c.imgs, old)
			break
		}
	}
	img := imaging.Resize(src, n, n, imaging.Lanczos)
	c.imgs[k] = img
	return img
}

func hsl(h, s, l float64) color.NRGBA {
	f := func(n float64) uint8 {
		k := math.Mod(n+h*12, 12)
		a := s * math.Min(l, 1-l)
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{f(0), f(8), f(4), 255}
}
