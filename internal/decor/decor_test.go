package decor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/fogleman/gg"
)

func paint(t *testing.T, bg color.Color, p Pattern) *image.RGBA {
	t.Helper()
	dc := gg.NewContext(200, 160)
	FillBackground(dc, 200, 160, bg)
	DrawPattern(dc, 200, 160, bg, p)
	return dc.Image().(*image.RGBA)
}

func TestDrawPattern_Deterministic(t *testing.T) {
	for _, p := range Patterns {
		a := paint(t, color.White, p)
		b := paint(t, color.White, p)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%s: two renders differ", p)
		}
	}
}

func TestDrawPattern_VisibleOnLightAndDark(t *testing.T) {
	for _, p := range Patterns[1:] {
		light := paint(t, color.White, p)
		dark := paint(t, color.Black, p)
		if !hasDarker(light, 255) {
			t.Errorf("%s: no ink on white", p)
		}
		if !hasLighter(dark, 0) {
			t.Errorf("%s: no ink on black", p)
		}
	}
}

func TestDrawPattern_NoneLeavesBackground(t *testing.T) {
	img := paint(t, color.White, None)
	if hasDarker(img, 255) {
		t.Error("none should not draw")
	}
}

func TestDrawPattern_RestoresState(t *testing.T) {
	dc := gg.NewContext(50, 50)
	dc.Scale(2, 2)
	DrawPattern(dc, 25, 25, color.White, Stripes)
	if x, y := dc.TransformPoint(1, 1); x != 2 || y != 2 {
		t.Errorf("transform leaked: (%v,%v)", x, y)
	}
}

func TestTint_Inverts(t *testing.T) {
	if c := Tint(color.White); c.R != 0 {
		t.Errorf("light background tint %v", c)
	}
	if c := Tint(color.NRGBA{0x1a, 0x1a, 0x1a, 255}); c.R != 255 {
		t.Errorf("dark background tint %v", c)
	}
}

func TestParsePattern(t *testing.T) {
	if p, err := ParsePattern("hearts"); err != nil || p != Hearts {
		t.Errorf("hearts: %v %v", p, err)
	}
	if _, err := ParsePattern("plaid"); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestDrawSignature_FilmHoles(t *testing.T) {
	tpl := template.Builtin().MustGet(template.Film)
	dc := gg.NewContext(tpl.Width, tpl.Height)
	FillBackground(dc, 600, 1800, color.Black)
	DrawSignature(dc, tpl)
	img := dc.Image().(*image.RGBA)
	if c := img.RGBAAt(30, 30); c.R != 255 {
		t.Errorf("expected sprocket hole at (30,30), got %v", c)
	}
	if c := img.RGBAAt(300, 30); c.R != 0 {
		t.Errorf("centre should stay black, got %v", c)
	}
}

func hasDarker(img *image.RGBA, than uint8) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < than {
			return true
		}
	}
	return false
}

func hasLighter(img *image.RGBA, than uint8) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > than {
			return true
		}
	}
	return false
}
