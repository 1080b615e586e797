// Package export produces the downloadable artifacts of a session: a
// high-resolution still and a short looping GIF.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoPhotos means no photo decoded, so there is nothing to animate.
	ErrNoPhotos = errors.New("no photo could be decoded")
	// ErrInFlight rejects a second export of a kind that is still running.
	ErrInFlight = errors.New("export already in progress")
)

// Kind is the artifact type. Each kind has its own in-flight guard.
type Kind int

const (
	Still Kind = iota
	Animation
	numKinds
)

func (k Kind) String() string {
	switch k {
	case Still:
		return "still"
	case Animation:
		return "animation"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Artifact is an encoded export ready to be written or downloaded.
type Artifact struct {
	Name   string
	Kind   Kind
	Format string
	Data   []byte
	Width  int
	Height int
	Frames int
	Hash   string // content hash of Data
}

// Exporter renders and encodes artifacts.
type Exporter struct {
	renderer *render.Renderer
	encoders *encoder.Registry
	workers  int
	log      *logrus.Entry
	busy     [numKinds]atomic.Bool
	now      func() time.Time
}

// New creates an exporter. workers bounds parallel frame rendering.
func New(r *render.Renderer, reg *encoder.Registry, workers int, log *logrus.Entry) *Exporter {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Exporter{renderer: r, encoders: reg, workers: workers, log: log, now: time.Now}
}

// Busy reports whether an export of kind k is running.
func (e *Exporter) Busy(k Kind) bool { return e.busy[k].Load() }

func (e *Exporter) acquire(k Kind) error {
	if !e.busy[k].CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", k, ErrInFlight)
	}
	return nil
}

func (e *Exporter) release(k Kind) { e.busy[k].Store(false) }

// Still renders sc at the profile scale without the selection halo and
// encodes it.
func (e *Exporter) Still(ctx context.Context, sc render.Scene, p profile.Still) (*Artifact, error) {
	if err := e.acquire(Still); err != nil {
		return nil, err
	}
	defer e.release(Still)
	start := time.Now()

	if err := e.renderer.Photos().Wait(ctx, sceneKeys(sc)...); err != nil {
		return nil, fmt.Errorf("wait for photos: %w", err)
	}
	enc, fellBack, err := e.encoders.Resolve(p.Format)
	if err != nil {
		return nil, fmt.Errorf("export still: %w", err)
	}
	if fellBack {
		e.log.WithFields(logrus.Fields{"profile": p.Name, "format": p.Format}).Warn("encoder missing, writing png")
	}

	sc.Selected = ""
	frame := e.renderer.Render(sc, p.Scale)
	data, err := enc.Encode(frame.Image, p.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}

	b := frame.Image.Bounds()
	art := &Artifact{
		Name:   e.name(enc.Extension()),
		Kind:   Still,
		Format: enc.Format(),
		Data:   data,
		Width:  b.Dx(),
		Height: b.Dy(),
		Frames: 1,
		Hash:   string(photo.KeyOf(data)),
	}
	e.log.WithFields(logrus.Fields{
		"artifact": art.Name,
		"template": sc.Template.ID,
		"bytes":    len(data),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("still exported")
	return art, nil
}

func (e *Exporter) name(ext string) string {
	return fmt.Sprintf("kawaiibooth-%d.%s", e.now().UnixMilli(), ext)
}

// sceneKeys lists every image the scene needs: photos and image stickers.
func sceneKeys(sc render.Scene) []photo.Key {
	keys := append([]photo.Key(nil), sc.Photos...)
	for _, s := range sc.Stickers {
		if s.Content.IsImage() {
			keys = append(keys, s.Content.Image)
		}
	}
	return keys
}

// Write stores an artifact in dir and returns its path.
func Write(dir string, art *Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, art.Name)
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", art.Name, err)
	}
	return path, nil
}
