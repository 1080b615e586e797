package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/editor"
	"github.com/AnyUserName/kawaiibooth/internal/export"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/sirupsen/logrus"
)

// Output is one artifact written for a session.
type Output struct {
	Session string
	Path    string
	Kind    export.Kind
	Format  string
	Width   int
	Height  int
	Frames  int
	Size    int64
	Hash    string
}

// processResult holds what one session produced.
type processResult struct {
	session string
	outputs []Output
	err     error
}

// processSession loads one session file and exports the configured
// artifacts into its own output directory.
func (p *Pipeline) processSession(ctx context.Context, path string) processResult {
	result := processResult{session: path}
	log := p.log.WithField("session", filepath.Base(filepath.Dir(path))+"/"+filepath.Base(path))

	f, err := session.Load(path)
	if err != nil {
		result.err = err
		return result
	}
	dir := filepath.Dir(path)
	s, err := editor.Open(f, dir, editor.Options{
		Templates: p.cfg.Templates,
		Photos:    p.cfg.Renderer.Photos(),
		Log:       log,
	})
	if err != nil {
		result.err = err
		return result
	}
	sc := s.Scene()

	// The in-flight guard is per exporter, so each session gets its own.
	ex := export.New(p.cfg.Renderer, p.cfg.Encoders, p.cfg.FrameWorkers, log)
	outDir := filepath.Join(p.cfg.OutputDir, outputName(path))

	var arts []*export.Artifact
	if p.cfg.Still != nil {
		art, err := ex.Still(ctx, sc, *p.cfg.Still)
		if err != nil {
			result.err = fmt.Errorf("%s: %w", filepath.Base(path), err)
			return result
		}
		arts = append(arts, art)
	}
	if p.cfg.Animation != nil {
		art, err := ex.Animation(ctx, sc, *p.cfg.Animation)
		if err != nil {
			result.err = fmt.Errorf("%s: %w", filepath.Base(path), err)
			return result
		}
		arts = append(arts, art)
	}

	for _, art := range arts {
		out, err := export.Write(outDir, art)
		if err != nil {
			result.err = err
			return result
		}
		o := Output{
			Session: path,
			Path:    out,
			Kind:    art.Kind,
			Format:  art.Format,
			Width:   art.Width,
			Height:  art.Height,
			Frames:  art.Frames,
			Size:    int64(len(art.Data)),
			Hash:    art.Hash,
		}
		result.outputs = append(result.outputs, o)
		f.AddExport(session.Export{
			Name:   art.Name,
			Kind:   art.Kind.String(),
			Format: art.Format,
			Width:  art.Width,
			Height: art.Height,
			Frames: art.Frames,
			Size:   o.Size,
			Hash:   art.Hash,
			At:     time.Now().UTC().Format(time.RFC3339),
		})
		log.WithFields(logrus.Fields{"artifact": out, "bytes": o.Size}).Debug("artifact written")
	}

	if p.cfg.Record && len(arts) > 0 {
		if err := session.WriteJSON(f, path); err != nil {
			result.err = fmt.Errorf("record exports: %w", err)
		}
	}
	return result
}
