package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// WebPEncoder shells out to cwebp, keeping the build free of cgo.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once sync.Once
	path string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		if p, err := exec.LookPath("cwebp"); err == nil {
			e.path = p
		}
	})
	return e.path != ""
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: cwebp not found in PATH", ErrUnavailable)
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	dir, err := os.MkdirTemp("", "booth-webp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	src := filepath.Join(dir, "frame.png")
	dst := filepath.Join(dir, "frame.webp")

	f, err := os.Create(src)
	if err != nil {
		return nil, fmt.Errorf("create temp png: %w", err)
	}
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.Command(e.path,
		"-q", strconv.Itoa(quality),
		"-m", "6",
		"-mt",
		"-quiet",
		src,
		"-o", dst,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}
	return os.ReadFile(dst)
}
