package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/compose"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/provider"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/sirupsen/logrus"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type notices []Notice

func (n *notices) add(x Notice) { *n = append(*n, x) }

func newSession(t *testing.T, id template.ID, p provider.Provider) (*Session, *notices) {
	t.Helper()
	var shots []photo.Source
	for i, c := range []color.NRGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {255, 255, 0, 255}} {
		shots = append(shots, photo.NewSource(string(rune('a'+i))+".png", pngBytes(t, c)))
	}
	var got notices
	s, err := New(id, shots, Options{
		Photos:   photo.NewCache(2, quiet()),
		Provider: p,
		Notify:   got.add,
		Log:      quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Engine().SetRand(rand.New(rand.NewPCG(1, 2)))
	return s, &got
}

func TestDragMovesStickerByPointerDelta(t *testing.T) {
	s, _ := newSession(t, template.Grid, nil)
	st := s.AddGlyph("🎀")
	x0, y0 := st.X, st.Y

	s.PointerDown(sticker.Point{X: x0 + 10, Y: y0 - 5})
	if s.Engine().State() != sticker.Dragging {
		t.Fatalf("state: got %v", s.Engine().State())
	}
	s.PointerMove(sticker.Point{X: x0 + 60, Y: y0 - 5})
	s.PointerUp()

	if st.X != x0+50 || st.Y != y0 {
		t.Errorf("sticker at (%v, %v), want (%v, %v)", st.X, st.Y, x0+50, y0)
	}
	if s.Panning() {
		t.Error("a sticker drag must not pan the photo under it")
	}
	if s.Offset(0) != (compose.Offset{}) {
		t.Errorf("offset changed: %+v", s.Offset(0))
	}
}

func TestPressOnSlotPansPhoto(t *testing.T) {
	s, _ := newSession(t, template.Grid, nil)
	st := s.AddGlyph("⭐")

	// Slot 0 of the grid, far from the centred sticker.
	s.PointerDown(sticker.Point{X: 200, Y: 300})
	if s.Model().Selected() != nil {
		t.Error("pressing empty space should clear the selection")
	}
	if !s.Panning() {
		t.Fatal("expected a pan to start")
	}
	s.PointerMove(sticker.Point{X: 210, Y: 290})
	s.PointerMove(sticker.Point{X: 230, Y: 280})
	s.PointerLeave()
	s.PointerMove(sticker.Point{X: 400, Y: 400})

	if got := s.Offset(0); got != (compose.Offset{DX: 30, DY: -20}) {
		t.Errorf("offset: got %+v", got)
	}
	if st.X != 600 || st.Y != 800 {
		t.Errorf("sticker moved to (%v, %v)", st.X, st.Y)
	}
}

func TestPressOnEmptySlotDoesNotPan(t *testing.T) {
	s, _ := newSession(t, template.Grid, nil)
	s.shots = s.shots[:2]
	s.PointerDown(sticker.Point{X: 200, Y: 1000}) // slot 2
	if s.Panning() {
		t.Error("slot without a photo should not pan")
	}
}

func TestSetTemplate(t *testing.T) {
	s, _ := newSession(t, template.Strip, nil)
	if s.Model().Len() != 0 {
		t.Fatalf("strip has no decor, got %d stickers", s.Model().Len())
	}
	s.SetBackground("#000000")

	if err := s.SetTemplate(template.Y2K); err != nil {
		t.Fatal(err)
	}
	y2k := template.Builtin().MustGet(template.Y2K)
	if s.Background() != y2k.Background {
		t.Errorf("background: got %s, want %s", s.Background(), y2k.Background)
	}
	if s.Model().Len() != len(y2k.Decor) {
		t.Errorf("decor: got %d stickers", s.Model().Len())
	}

	if err := s.SetTemplate(template.Strip); err != nil {
		t.Fatal(err)
	}
	if s.Model().Len() != len(y2k.Decor) {
		t.Error("changing template should keep placed stickers")
	}
	if err := s.SetTemplate("nope"); !errors.Is(err, template.ErrNotFound) {
		t.Errorf("got %v", err)
	}
	if s.Template().ID != template.Strip {
		t.Error("failed change must leave the template alone")
	}
}

func TestNextBackgroundCycles(t *testing.T) {
	s, _ := newSession(t, template.Strip, nil)
	seen := map[string]bool{}
	for range decor.BackgroundPresets {
		s.NextBackground()
		seen[s.Background()] = true
	}
	if len(seen) != len(decor.BackgroundPresets) {
		t.Errorf("visited %d of %d presets", len(seen), len(decor.BackgroundPresets))
	}
}

func TestPumpAddsGeneratedSticker(t *testing.T) {
	art := pngBytes(t, color.NRGBA{255, 105, 180, 255})
	release := make(chan struct{})
	p := provider.Func(func(ctx context.Context, prompt string) ([]byte, error) {
		<-release
		return art, nil
	})
	s, got := newSession(t, template.Grid, p)

	if !s.RequestSticker(context.Background(), "pink bow") {
		t.Fatal("request refused")
	}
	if s.RequestSticker(context.Background(), "") {
		t.Error("blank prompt should be ignored")
	}
	if n := s.Pump(); n != 0 || s.Model().Len() != 0 {
		t.Fatal("nothing should apply before the provider answers")
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Await(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Model().Len() != 1 {
		t.Fatalf("stickers: got %d", s.Model().Len())
	}
	st := s.Model().Selected()
	if st == nil || !st.AI || !st.Content.IsImage() {
		t.Fatalf("selected: got %+v", st)
	}
	if st.Content.Image != photo.KeyOf(art) {
		t.Error("sticker should reference the generated bytes")
	}
	if len(s.Generated()) != 1 {
		t.Errorf("history: got %d", len(s.Generated()))
	}
	if len(*got) != 1 || (*got)[0].Kind != Info {
		t.Errorf("notices: got %v", *got)
	}
}

func TestProviderFailureBecomesNotice(t *testing.T) {
	boom := &provider.StatusError{Code: 500}
	p := provider.Func(func(context.Context, string) ([]byte, error) { return nil, boom })
	s, got := newSession(t, template.Grid, p)
	before := s.Scene()

	s.RequestSticker(context.Background(), "cat")
	if err := s.Await(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Model().Len() != 0 {
		t.Error("a failed request must not add a sticker")
	}
	if len(*got) != 1 || (*got)[0].Kind != Failure || !errors.Is((*got)[0].Err, boom) {
		t.Fatalf("notices: got %v", *got)
	}
	after := s.Scene()
	if after.Template.ID != before.Template.ID || after.Background != before.Background {
		t.Error("state changed after a failure")
	}
}

func TestUndecodableResultAddsNothing(t *testing.T) {
	p := provider.Func(func(context.Context, string) ([]byte, error) {
		return []byte("<html>not an image</html>"), nil
	})
	s, got := newSession(t, template.Grid, p)

	s.RequestSticker(context.Background(), "bow")
	if err := s.Await(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Model().Len() != 0 {
		t.Errorf("stickers: got %d, want 0", s.Model().Len())
	}
	if len(s.Generated()) != 0 {
		t.Error("undecodable result recorded as generated")
	}
	if len(*got) != 1 || (*got)[0].Kind != Failure || !errors.Is((*got)[0].Err, photo.ErrDecode) {
		t.Fatalf("notices: got %v", *got)
	}
}

func TestCancelledRequestDoesNotBlock(t *testing.T) {
	returned := make(chan struct{})
	p := provider.Func(func(ctx context.Context, _ string) ([]byte, error) {
		defer close(returned)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s, _ := newSession(t, template.Grid, p)
	s.results = make(chan generated)

	ctx, cancel := context.WithCancel(context.Background())
	s.RequestSticker(ctx, "cat")
	cancel()
	<-returned
	time.Sleep(50 * time.Millisecond)

	select {
	case r := <-s.results:
		t.Fatalf("result delivered after cancel: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSceneReflectsState(t *testing.T) {
	s, _ := newSession(t, template.Grid, nil)
	s.SetFilter(filter.Sepia)
	s.SetPattern(decor.Hearts)
	s.SetShowDate(false)
	s.SetOffset(2, compose.Offset{DX: 4})
	st := s.AddGlyph("🍓")

	sc := s.Scene()
	if sc.Filter != filter.Sepia || sc.Pattern != decor.Hearts || sc.ShowDate {
		t.Errorf("scene: %+v", sc)
	}
	if len(sc.Photos) != 4 || sc.Selected != st.ID {
		t.Errorf("photos %d selected %q", len(sc.Photos), sc.Selected)
	}
	sc.Offsets[2] = compose.Offset{DX: 99}
	if s.Offset(2).DX != 4 {
		t.Error("scene offsets must be a copy")
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	art := pngBytes(t, color.NRGBA{10, 20, 30, 255})
	p := provider.Func(func(context.Context, string) ([]byte, error) { return art, nil })
	s, _ := newSession(t, template.Retro, p)
	s.SetFilter(filter.Vintage)
	s.SetBackground("#e6e6fa")
	s.SetDate(time.Date(2024, 2, 14, 0, 0, 0, 0, time.Local))
	s.SetOffset(1, compose.Offset{DX: -8, DY: 12})
	glyph := s.AddGlyph("💖")
	s.RequestSticker(context.Background(), "bunny")
	if err := s.Await(context.Background()); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	f, err := s.Snapshot(dir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "session.json")
	if err := session.WriteJSON(f, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, f.Stickers[1].Image)); err != nil {
		t.Errorf("generated sticker not written: %v", err)
	}

	loaded, err := session.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Open(loaded, dir, Options{Photos: photo.NewCache(1, quiet()), Log: quiet()})
	if err != nil {
		t.Fatal(err)
	}

	a, b := s.Scene(), r.Scene()
	if b.Template.ID != template.Retro || b.Filter != filter.Vintage || b.Background != "#e6e6fa" {
		t.Errorf("restored scene: %+v", b)
	}
	if b.Date.Format(session.DateLayout) != "2024-02-14" {
		t.Errorf("date: got %v", b.Date)
	}
	if b.Offsets[1] != a.Offsets[1] {
		t.Errorf("offset: got %+v", b.Offsets[1])
	}
	for i := range a.Photos {
		if a.Photos[i] != b.Photos[i] {
			t.Errorf("photo %d key changed", i)
		}
	}
	if len(b.Stickers) != 2 {
		t.Fatalf("stickers: got %d", len(b.Stickers))
	}
	if b.Stickers[0].ID != glyph.ID || b.Stickers[0].Content.Glyph != "💖" {
		t.Errorf("glyph sticker: %+v", b.Stickers[0])
	}
	if !b.Stickers[1].AI || b.Stickers[1].Content.Image != photo.KeyOf(art) {
		t.Errorf("image sticker: %+v", b.Stickers[1])
	}

	// A second snapshot reuses the files written by the first.
	again, err := r.Snapshot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if again.Photos[0] != f.Photos[0] || again.Stickers[1].Image != f.Stickers[1].Image {
		t.Error("paths should be stable across snapshots")
	}
}

func TestOpenClampsStickerScale(t *testing.T) {
	dir := t.TempDir()
	shot := filepath.Join(dir, "a.png")
	if err := os.WriteFile(shot, pngBytes(t, color.NRGBA{1, 2, 3, 255}), 0o644); err != nil {
		t.Fatal(err)
	}
	f := session.New(string(template.Grid))
	f.Photos = []string{"a.png"}
	f.Stickers = []session.Sticker{
		{ID: "zero", Glyph: "⭐", X: 100, Y: 100, Scale: 0},
		{ID: "huge", Glyph: "🌸", X: 1100, Y: 1500, Scale: 500},
	}
	s, err := Open(f, dir, Options{Photos: photo.NewCache(1, quiet()), Log: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sticker.DefaultConfig()
	got := s.Model().All()
	if got[0].Scale != cfg.MinScale || got[1].Scale != cfg.MaxScale {
		t.Errorf("scales: got %v and %v", got[0].Scale, got[1].Scale)
	}
	if hit := s.Model().HitTest(sticker.Point{X: 100, Y: 100}, cfg.HitRadius); hit == nil || hit.ID != "zero" {
		t.Errorf("clamped sticker not hittable: %v", hit)
	}
}

func TestFrozenCopiesStickers(t *testing.T) {
	s, _ := newSession(t, template.Grid, nil)
	st := s.AddGlyph("🌈")
	sc := s.Frozen()
	st.X += 100
	if sc.Stickers[0].X == st.X {
		t.Error("frozen scene should not follow later edits")
	}
	if sc.Stickers[0].ID != st.ID {
		t.Error("frozen sticker lost its id")
	}
}

func TestSnapshotKeepsExportHistory(t *testing.T) {
	s, _ := newSession(t, template.Strip, nil)
	s.RecordExport(session.Export{Name: "kawaiibooth-1.png", Kind: "still", Size: 10})
	f, err := s.Snapshot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Exports) != 1 || f.Exports[0].Name != "kawaiibooth-1.png" {
		t.Errorf("exports: %+v", f.Exports)
	}
}
