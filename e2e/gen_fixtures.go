//go:build ignore

// gen_fixtures creates a small capture directory for the E2E smoke test:
// four shots of different aspect ratios and one transparent sticker.
// Usage: go run gen_fixtures.go <output_dir>
//
//	booth new <output_dir>/shots -t grid -o <output_dir>/session.json
//	booth sticker <output_dir>/session.json --image <output_dir>/bow.png
//	booth render <output_dir> --animate -o <output_dir>/out
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	shots := filepath.Join(dir, "shots")
	if err := os.MkdirAll(shots, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Landscape, portrait and square shots, plus a 1px-wide strip that
	// exercises cover-fit on degenerate input.
	writeJPEG(filepath.Join(shots, "shot-1.jpg"), gradient(640, 480))
	writeImage(filepath.Join(shots, "shot-2.png"), face(360, 480, color.NRGBA{R: 255, G: 183, B: 178, A: 255}))
	writeImage(filepath.Join(shots, "shot-3.png"), face(400, 400, color.NRGBA{R: 230, G: 230, B: 250, A: 255}))
	writeImage(filepath.Join(shots, "shot-4.png"), gradient(1, 300))

	writeImage(filepath.Join(dir, "bow.png"), bow(200))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 160,
				A: 255,
			})
		}
	}
	return img
}

// face draws a flat background with a darker disc, enough to see crops.
func face(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy, r := float64(w)/2, float64(h)*0.45, float64(min(w, h))/3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := bg
			if math.Hypot(float64(x)-cx, float64(y)-cy) < r {
				c = color.NRGBA{R: bg.R / 2, G: bg.G / 2, B: bg.B / 2, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// bow is two pink triangles on a transparent square.
func bow(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	mid := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dy := int(math.Abs(float64(y - mid)))
			dx := int(math.Abs(float64(x - mid)))
			if dy <= dx/2+size/16 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 105, B: 180, A: 255})
			}
		}
	}
	return img
}

func writeImage(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}
