// Package quantize reduces frames to small palettes for GIF encoding.
package quantize

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
)

// MaxColors is the GIF palette limit.
const MaxColors = 256

const (
	bits  = 5
	side  = 1 << bits
	shift = 8 - bits
)

var _ draw.Quantizer = MedianCut{}

// MedianCut builds a palette by recursively splitting the colour box with
// the widest weighted range, on its widest channel, at the weighted median.
type MedianCut struct {
	// MaxColors caps the palette; 0 or values above 256 mean 256.
	MaxColors int
}

type bin struct {
	r, g, b    uint8 // 5-bit coordinates
	count      int
	sr, sg, sb int
}

type box struct {
	bins  []bin
	count int
}

func (bx *box) ranges() (int, int, int) {
	minR, minG, minB := 255, 255, 255
	maxR, maxG, maxB := 0, 0, 0
	for _, b := range bx.bins {
		minR, maxR = min(minR, int(b.r)), max(maxR, int(b.r))
		minG, maxG = min(minG, int(b.g)), max(maxG, int(b.g))
		minB, maxB = min(minB, int(b.b)), max(maxB, int(b.b))
	}
	return maxR - minR, maxG - minG, maxB - minB
}

// score orders boxes for splitting; single-bin boxes cannot split.
func (bx *box) score() int {
	if len(bx.bins) < 2 {
		return -1
	}
	r, g, b := bx.ranges()
	return max(r, g, b) * bx.count
}

func (bx *box) mean() color.RGBA {
	var sr, sg, sb int
	for _, b := range bx.bins {
		sr += b.sr
		sg += b.sg
		sb += b.sb
	}
	n := bx.count
	return color.RGBA{uint8((sr + n/2) / n), uint8((sg + n/2) / n), uint8((sb + n/2) / n), 255}
}

func (bx *box) split() (box, box) {
	r, g, b := bx.ranges()
	var key func(bin) uint8
	switch {
	case r >= g && r >= b:
		key = func(x bin) uint8 { return x.r }
	case g >= b:
		key = func(x bin) uint8 { return x.g }
	default:
		key = func(x bin) uint8 { return x.b }
	}
	sort.SliceStable(bx.bins, func(i, j int) bool { return key(bx.bins[i]) < key(bx.bins[j]) })

	half := bx.count / 2
	acc, cut := 0, 1
	for i, b := range bx.bins[:len(bx.bins)-1] {
		acc += b.count
		cut = i + 1
		if acc >= half {
			break
		}
	}
	lo := box{bins: bx.bins[:cut]}
	hi := box{bins: bx.bins[cut:]}
	for _, b := range lo.bins {
		lo.count += b.count
	}
	hi.count = bx.count - lo.count
	return lo, hi
}

func histogram(m image.Image) []bin {
	hist := make([]bin, side*side*side)
	forEachPixel(m, func(r, g, b uint8) {
		i := index(r, g, b)
		h := &hist[i]
		h.count++
		h.sr += int(r)
		h.sg += int(g)
		h.sb += int(b)
	})
	var out []bin
	for i, h := range hist {
		if h.count == 0 {
			continue
		}
		h.r = uint8(i >> (2 * bits))
		h.g = uint8(i >> bits & (side - 1))
		h.b = uint8(i & (side - 1))
		out = append(out, h)
	}
	return out
}

func index(r, g, b uint8) int {
	return int(r>>shift)<<(2*bits) | int(g>>shift)<<bits | int(b>>shift)
}

// Quantize implements draw.Quantizer: it appends up to cap(p)-len(p)
// colours (bounded by MaxColors) describing m.
func (q MedianCut) Quantize(p color.Palette, m image.Image) color.Palette {
	n := q.MaxColors
	if n <= 0 || n > MaxColors {
		n = MaxColors
	}
	if c := cap(p) - len(p); c > 0 && c < n {
		n = c
	}
	bins := histogram(m)
	if len(bins) == 0 {
		return p
	}
	boxes := []box{{bins: bins}}
	for _, b := range bins {
		boxes[0].count += b.count
	}
	for len(boxes) < n {
		best, bestScore := -1, 0
		for i := range boxes {
			if s := boxes[i].score(); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			break
		}
		lo, hi := boxes[best].split()
		boxes[best] = lo
		boxes = append(boxes, hi)
	}
	for i := range boxes {
		p = append(p, boxes[i].mean())
	}
	return p
}

// Paletted quantizes m into a new paletted image with at most q.MaxColors
// colours. Each pixel maps to its nearest palette entry.
func (q MedianCut) Paletted(m image.Image) *image.Paletted {
	pal := q.Quantize(make(color.Palette, 0, MaxColors), m)
	if len(pal) == 0 {
		pal = color.Palette{color.Black}
	}
	b := m.Bounds()
	dst := image.NewPaletted(b, pal)

	seen := make(map[uint32]uint8)
	x, y := b.Min.X, b.Min.Y
	forEachPixel(m, func(r, g, bl uint8) {
		rgb := uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
		i, ok := seen[rgb]
		if !ok {
			i = uint8(nearest(pal, r, g, bl))
			seen[rgb] = i
		}
		dst.Pix[dst.PixOffset(x, y)] = i
		x++
		if x == b.Max.X {
			x = b.Min.X
			y++
		}
	})
	return dst
}

func nearest(pal color.Palette, r, g, b uint8) int {
	best, bestD := 0, 1<<30
	for i, c := range pal {
		cr, cg, cb, _ := c.RGBA()
		dr := int(cr>>8) - int(r)
		dg := int(cg>>8) - int(g)
		db := int(cb>>8) - int(b)
		if d := dr*dr + dg*dg + db*db; d < bestD {
			best, bestD = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// forEachPixel visits pixels in row-major order as 8-bit RGB.
func forEachPixel(m image.Image, fn func(r, g, b uint8)) {
	b := m.Bounds()
	if rgba, ok := m.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := rgba.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				fn(rgba.Pix[off], rgba.Pix[off+1], rgba.Pix[off+2])
				off += 4
			}
		}
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.At(x, y).RGBA()
			fn(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
}
