package quantize

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

func noisy(w, h int) *image.RGBA {
	rng := rand.New(rand.NewPCG(7, 7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.IntN(256))
		img.Pix[i+1] = uint8(rng.IntN(256))
		img.Pix[i+2] = uint8(rng.IntN(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestQuantize_BoundedPalette(t *testing.T) {
	img := noisy(200, 150)
	for _, n := range []int{0, 16, 256, 1000} {
		pal := MedianCut{MaxColors: n}.Quantize(make(color.Palette, 0, 256), img)
		want := n
		if n <= 0 || n > 256 {
			want = 256
		}
		if len(pal) != want {
			t.Errorf("max %d: palette has %d colours, want %d", n, len(pal), want)
		}
	}
}

func TestQuantize_RespectsCapacity(t *testing.T) {
	pal := MedianCut{}.Quantize(make(color.Palette, 0, 8), noisy(40, 40))
	if len(pal) != 8 {
		t.Errorf("got %d colours for capacity 8", len(pal))
	}
}

func TestPaletted_ExactForFewColours(t *testing.T) {
	cols := []color.RGBA{{255, 0, 0, 255}, {0, 128, 255, 255}, {250, 250, 250, 255}, {10, 10, 10, 255}}
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, cols[(x/10+y/10)%4])
		}
	}
	p := MedianCut{}.Paletted(img)
	if len(p.Palette) != 4 {
		t.Fatalf("palette size %d", len(p.Palette))
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if got, want := color.RGBAModel.Convert(p.At(x, y)), cols[(x/10+y/10)%4]; got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPaletted_NearestIsClose(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 256, 4))
	for x := 0; x < 256; x++ {
		for y := 0; y < 4; y++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(x), uint8(x), 255})
		}
	}
	p := MedianCut{MaxColors: 32}.Paletted(img)
	for x := 0; x < 256; x++ {
		c := color.RGBAModel.Convert(p.At(x, 0)).(color.RGBA)
		if d := int(c.R) - x; d < -16 || d > 16 {
			t.Fatalf("x=%d mapped to %v", x, c)
		}
	}
}

func TestPaletted_NonRGBASource(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 12, 9))
	for y := 3; y < 9; y++ {
		for x := 2; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 20), 90, uint8(y * 25), 255})
		}
	}
	p := MedianCut{}.Paletted(img)
	if p.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v", p.Bounds())
	}
	if got := color.RGBAModel.Convert(p.At(11, 8)).(color.RGBA); got.R != 220 || got.B != 200 {
		t.Errorf("corner pixel %v", got)
	}
}

func TestPaletted_MapsEachPixelToItsOwnNearest(t *testing.T) {
	img := noisy(120, 90)
	dst := MedianCut{MaxColors: 16}.Paletted(img)
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			c := img.RGBAAt(x, y)
			if got, want := int(dst.ColorIndexAt(x, y)), nearest(dst.Palette, c.R, c.G, c.B); got != want {
				t.Fatalf("pixel (%d,%d) %v: index %d, want %d", x, y, c, got, want)
			}
		}
	}
}
