// Package pipeline exports many saved sessions at once.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/sirupsen/logrus"
)

// Config holds all parameters for a batch run.
type Config struct {
	Sessions  []string // session files or directories holding session.json
	OutputDir string

	Still     *profile.Still     // nil skips stills
	Animation *profile.Animation // nil skips animations

	Workers      int  // sessions processed at once
	FrameWorkers int  // animation frames rendered at once per session
	Record       bool // append export records to each session file

	Templates *template.Catalog
	Renderer  *render.Renderer
	Encoders  *encoder.Registry
	Log       *logrus.Entry
}

// Failure is a session that could not be exported.
type Failure struct {
	Session string
	Err     error
}

// Report summarizes a run.
type Report struct {
	Sessions  int
	Outputs   []Output
	Bytes     int64
	Failures  []Failure
	Workers   int
	Elapsed   time.Duration
	Encoders  string
	StillName string
	AnimName  string
}

// Pipeline orchestrates a batch export.
type Pipeline struct {
	cfg Config
	log *logrus.Entry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.FrameWorkers <= 0 {
		cfg.FrameWorkers = runtime.NumCPU()
	}
	if cfg.Templates == nil {
		cfg.Templates = template.Builtin()
	}
	if cfg.Encoders == nil {
		cfg.Encoders = encoder.NewRegistry()
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pipeline{cfg: cfg, log: cfg.Log}
}

// Run exports every session. Individual failures are collected in the
// report; Run only fails when nothing could be exported.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.cfg.Renderer == nil {
		return nil, errors.New("pipeline: renderer is required")
	}
	if p.cfg.Still == nil && p.cfg.Animation == nil {
		return nil, errors.New("pipeline: nothing to export")
	}
	start := time.Now()
	p.log.Debug(p.cfg.Encoders.String())

	// Step 1: find session files.
	paths, err := FindSessions(p.cfg.Sessions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}
	p.log.WithField("sessions", len(paths)).Info("exporting")

	// Step 2: export sessions in parallel.
	results := make([]processResult, len(paths))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = p.processSession(ctx, path)
			if results[idx].err != nil {
				p.log.WithField("session", path).WithError(results[idx].err).Error("export failed")
			}
		}(i, path)
	}
	wg.Wait()

	// Step 3: collect.
	rep := &Report{
		Sessions: len(paths),
		Workers:  p.cfg.Workers,
		Encoders: p.cfg.Encoders.String(),
	}
	if p.cfg.Still != nil {
		rep.StillName = p.cfg.Still.Name
	}
	if p.cfg.Animation != nil {
		rep.AnimName = p.cfg.Animation.Name
	}
	for _, r := range results {
		if r.err != nil {
			rep.Failures = append(rep.Failures, Failure{Session: r.session, Err: r.err})
			continue
		}
		for _, o := range r.outputs {
			rep.Outputs = append(rep.Outputs, o)
			rep.Bytes += o.Size
		}
	}
	rep.Elapsed = time.Since(start)

	if len(rep.Failures) == len(paths) {
		return rep, fmt.Errorf("all %d sessions failed to export", len(paths))
	}
	if len(rep.Failures) > 0 {
		p.log.Warnf("%d of %d sessions had errors", len(rep.Failures), len(paths))
	}
	return rep, nil
}
