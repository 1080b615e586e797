package filter

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 180, 255})
		}
	}
	return img
}

func TestGrayscale_NoSaturation(t *testing.T) {
	out := Apply(Grayscale, gradient(32, 32), 1)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				t.Fatalf("pixel (%d,%d) = %v is not gray", x, y, c)
			}
		}
	}
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	src := gradient(16, 16)
	orig := append([]uint8(nil), src.Pix...)
	for _, id := range All {
		out := Apply(id, src, 2)
		if out.Bounds().Size() != src.Bounds().Size() {
			t.Errorf("%s: size changed to %v", id, out.Bounds().Size())
		}
	}
	for i := range orig {
		if orig[i] != src.Pix[i] {
			t.Fatal("source pixels were modified")
		}
	}
}

func TestApply_NormalIsIdentity(t *testing.T) {
	src := gradient(4, 4)
	if Apply(Normal, src, 1) != image.Image(src) {
		t.Error("normal should return the source unchanged")
	}
}

func TestSepia_WarmsNeutralGray(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{128, 128, 128, 255})
	c := Apply(Sepia, src, 1).(*image.NRGBA).NRGBAAt(0, 0)
	if !(c.R > c.G && c.G > c.B) {
		t.Errorf("expected warm tone, got %v", c)
	}
}

func TestParse(t *testing.T) {
	if id, err := Parse(""); err != nil || id != Normal {
		t.Errorf("empty: %v %v", id, err)
	}
	if id, err := Parse("vivid"); err != nil || id != Vivid {
		t.Errorf("vivid: %v %v", id, err)
	}
	if _, err := Parse("lomo"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestNext_Cycles(t *testing.T) {
	id := Normal
	for range All {
		id = id.Next()
	}
	if id != Normal {
		t.Errorf("cycle ended at %s", id)
	}
}
