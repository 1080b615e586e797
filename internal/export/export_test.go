package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
)

func pngShot(t *testing.T, c color.NRGBA) photo.Source {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 48, 36))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return photo.NewSource("shot.png", buf.Bytes())
}

func newExporter(t *testing.T, sources ...photo.Source) (*Exporter, []photo.Key) {
	t.Helper()
	cache := photo.NewCache(2, nil)
	var keys []photo.Key
	for _, s := range sources {
		keys = append(keys, cache.Add(s))
	}
	fonts, err := render.LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	r := render.New(cache, fonts, render.DefaultOptions())
	e := New(r, encoder.NewRegistryWith(&encoder.PNGEncoder{Fast: true}), 3, nil)
	e.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return e, keys
}

func gridScene(keys []photo.Key) render.Scene {
	m := sticker.NewModel()
	s := m.Insert(sticker.Sticker{Content: sticker.Content{Glyph: "✨"}, X: 600, Y: 800, Scale: 2})
	m.Select(s.ID)
	return render.Scene{
		Template: template.Builtin().MustGet(template.Grid),
		Filter:   filter.Grayscale,
		Photos:   keys,
		Stickers: m.All(),
		Selected: s.ID,
		ShowDate: true,
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScript_FrameCounts(t *testing.T) {
	p := profile.GetAnimation("loop")
	for n := 1; n <= 4; n++ {
		shots := script(p, n)
		if len(shots) != p.FrameCount(n) {
			t.Errorf("n=%d: %d shots, want %d", n, len(shots), p.FrameCount(n))
		}
		last := shots[len(shots)-p.Outro-1]
		if last.kind != hold || last.a != n-1 {
			t.Errorf("n=%d: frame before outro is %+v, want hold of last photo", n, last)
		}
		for _, s := range shots {
			if s.kind == fade && (s.t <= 0 || s.t >= 1 || s.b != s.a+1) {
				t.Errorf("bad fade shot %+v", s)
			}
		}
	}
}

func TestAnimation_NoPhotosFails(t *testing.T) {
	e, keys := newExporter(t, photo.NewSource("bad.jpg", []byte("not a jpeg")))
	art, err := e.Animation(context.Background(), gridScene(keys), profile.GetAnimation("loop-lite"))
	if !errors.Is(err, ErrNoPhotos) {
		t.Fatalf("expected ErrNoPhotos, got %v", err)
	}
	if art != nil {
		t.Error("no artifact expected")
	}
	if e.Busy(Animation) {
		t.Error("guard not released after failure")
	}
}

func TestAnimation_EncodesScript(t *testing.T) {
	e, keys := newExporter(t,
		pngShot(t, color.NRGBA{220, 40, 90, 255}),
		photo.NewSource("broken.png", []byte("nope")),
		pngShot(t, color.NRGBA{30, 160, 220, 255}),
	)
	p := profile.GetAnimation("loop-lite")
	art, err := e.Animation(context.Background(), gridScene(keys), p)
	if err != nil {
		t.Fatal(err)
	}
	if art.Name != "kawaiibooth-1700000000123.gif" {
		t.Errorf("name %q", art.Name)
	}
	g, err := gif.DecodeAll(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatal(err)
	}
	// The broken photo is skipped: two photos remain.
	if want := p.FrameCount(2); len(g.Image) != want || art.Frames != want {
		t.Fatalf("frames %d (artifact %d), want %d", len(g.Image), art.Frames, want)
	}
	if g.Config.Width != p.Width || g.Config.Height != p.Height {
		t.Errorf("size %dx%d", g.Config.Width, g.Config.Height)
	}
	for i, f := range g.Image {
		if len(f.Palette) > 256 || len(f.Palette) > p.Colors {
			t.Errorf("frame %d palette %d", i, len(f.Palette))
		}
	}
	if g.Delay[0] != p.IntroDelay || g.Delay[len(g.Delay)-1] != p.OutroDelay {
		t.Errorf("delays %v", g.Delay)
	}
}

func TestAnimation_IgnoresPhotosBeyondSlots(t *testing.T) {
	var srcs []photo.Source
	for i := 0; i < 5; i++ {
		srcs = append(srcs, pngShot(t, color.NRGBA{uint8(40 * i), 90, 180, 255}))
	}
	e, keys := newExporter(t, srcs...)
	p := profile.GetAnimation("loop-lite")
	art, err := e.Animation(context.Background(), gridScene(keys), p)
	if err != nil {
		t.Fatal(err)
	}
	if want := p.FrameCount(4); art.Frames != want {
		t.Fatalf("frames %d, want %d for a four-slot grid", art.Frames, want)
	}
}

func TestStill_HidesSelectionAndNamesFile(t *testing.T) {
	var srcs []photo.Source
	for i := 0; i < 4; i++ {
		srcs = append(srcs, pngShot(t, color.NRGBA{uint8(60 * i), 120, 200, 255}))
	}
	e, keys := newExporter(t, srcs...)
	sc := gridScene(keys)
	p := profile.Still{Name: "tiny", Scale: 0.25, Format: "png"}

	art, err := e.Still(context.Background(), sc, p)
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^kawaiibooth-\d+\.png$`).MatchString(art.Name) {
		t.Errorf("name %q", art.Name)
	}
	img, err := png.Decode(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 400 {
		t.Fatalf("size %v", img.Bounds())
	}

	unselected := sc
	unselected.Selected = ""
	want := e.renderer.Render(unselected, 0.25).Image
	for y := 0; y < 400; y += 2 {
		for x := 0; x < 300; x += 2 {
			if color.RGBAModel.Convert(img.At(x, y)) != want.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs from halo-free render", x, y)
			}
		}
	}
	if art.Hash != string(photo.KeyOf(art.Data)) {
		t.Error("hash mismatch")
	}
}

func TestGuard_PerKind(t *testing.T) {
	e, keys := newExporter(t, pngShot(t, color.NRGBA{1, 2, 3, 255}))
	if err := e.acquire(Still); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Still(context.Background(), gridScene(keys), profile.GetStill("still-1x")); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if !e.Busy(Still) || e.Busy(Animation) {
		t.Error("busy flags wrong")
	}
	e.release(Still)
	if e.Busy(Still) {
		t.Error("release failed")
	}
}

func TestCrossfade_Endpoints(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(a.Pix); i += 4 {
		copy(a.Pix[i:], []uint8{200, 0, 0, 255})
		copy(b.Pix[i:], []uint8{0, 0, 200, 255})
	}
	if got := crossfade(a, b, 0).RGBAAt(1, 1); got != (color.RGBA{200, 0, 0, 255}) {
		t.Errorf("alpha 0: %v", got)
	}
	if got := crossfade(a, b, 1).RGBAAt(1, 1); got != (color.RGBA{0, 0, 200, 255}) {
		t.Errorf("alpha 1: %v", got)
	}
	mid := crossfade(a, b, 0.5).RGBAAt(1, 1)
	if mid.R < 90 || mid.R > 110 || mid.B < 90 || mid.B > 110 {
		t.Errorf("alpha 0.5: %v", mid)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir() + "/out"
	path, err := Write(dir, &Artifact{Name: "kawaiibooth-1.png", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "x" {
		t.Errorf("read back %q %v", data, err)
	}
}
