package render

import (
	"image"
	"math/rand/v2"
)

const grainTile = 128

// grain is a fixed monochrome noise tile. The same delta is added to all
// three channels, so gray pixels stay gray.
type grain struct {
	delta []int8
}

func newGrain(amount int) *grain {
	if amount <= 0 {
		return nil
	}
	if amount > 127 {
		amount = 127
	}
	rng := rand.New(rand.NewPCG(0x67726169, 0x6e))
	g := &grain{delta: make([]int8, grainTile*grainTile)}
	for i := range g.delta {
		g.delta[i] = int8(rng.IntN(2*amount+1) - amount)
	}
	return g
}

func (g *grain) apply(img *image.RGBA) {
	if g == nil {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.delta[(y%grainTile)*grainTile:]
		off := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			d := int(row[x%grainTile])
			p := img.Pix[off : off+4 : off+4]
			a := int(p[3])
			// Premultiplied: keep each channel within [0, alpha].
			p[0] = clampTo(int(p[0])+d, a)
			p[1] = clampTo(int(p[1])+d, a)
			p[2] = clampTo(int(p[2])+d, a)
			off += 4
		}
	}
}

func clampTo(v, hi int) uint8 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return uint8(hi)
	}
	return uint8(v)
}
