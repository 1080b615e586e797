// Package preview is the interactive editing window. Every refresh it
// applies pending input to the session and renders the whole frame again.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/editor"
	"github.com/AnyUserName/kawaiibooth/internal/export"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// Options configures the window.
type Options struct {
	Session   *editor.Session
	Renderer  *render.Renderer
	Exporter  *export.Exporter
	Still     profile.Still
	Animation profile.Animation
	OutDir    string
	SavePath  string // session file written by Ctrl+S; empty disables saving
	Width     int
	Height    int
	Log       *logrus.Entry
}

type exportDone struct {
	art  *export.Artifact
	path string
	err  error
}

// Game implements ebiten.Game.
type Game struct {
	opts Options
	s    *editor.Session
	log  *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	screenW, screenH int
	vp               sticker.Viewport
	canvas           *ebiten.Image

	mouseDown bool
	touch     ebiten.TouchID
	touching  bool

	prompting bool
	prompt    []rune

	status      string
	statusUntil time.Time
	done        chan exportDone
}

var backdrop = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}

// New creates the game and takes over the session's notice sink.
func New(opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 720, 960
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		opts:   opts,
		s:      opts.Session,
		log:    opts.Log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan exportDone, 4),
	}
	g.s.SetNotify(g.notify)
	return g
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	defer g.cancel()
	ebiten.SetWindowTitle("KawaiiBooth")
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) notify(n editor.Notice) {
	g.flash(n.String())
	entry := g.log
	if n.Err != nil {
		entry = entry.WithError(n.Err)
	}
	switch n.Kind {
	case editor.Info:
		entry.Info(n.Message)
	case editor.Warning:
		entry.Warn(n.Message)
	default:
		entry.Error(n.Message)
	}
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(4 * time.Second)
}

// Update applies finished background work, then input.
func (g *Game) Update() error {
	g.s.Pump()
	g.drainExports()

	if g.prompting {
		g.updatePrompt()
		return nil
	}
	if quit := g.handleKeys(); quit {
		return ebiten.Termination
	}
	g.handleMouse()
	g.handleTouch()
	return nil
}

func (g *Game) drainExports() {
	for {
		select {
		case d := <-g.done:
			if d.err != nil {
				g.s.Report(d.err)
				continue
			}
			g.s.RecordExport(session.Export{
				Name:   d.art.Name,
				Kind:   d.art.Kind.String(),
				Format: d.art.Format,
				Width:  d.art.Width,
				Height: d.art.Height,
				Frames: d.art.Frames,
				Size:   int64(len(d.art.Data)),
				Hash:   d.art.Hash,
			})
			g.notify(editor.Notice{Kind: editor.Info, Message: "Saved " + d.path})
		default:
			return
		}
	}
}

func (g *Game) toCanvas(x, y int) sticker.Point {
	return g.vp.ToCanvas(sticker.Point{X: float64(x), Y: float64(y)})
}

func (g *Game) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.screenW && y < g.screenH
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !g.mouseDown:
		if g.inside(x, y) {
			g.mouseDown = true
			g.s.PointerDown(g.toCanvas(x, y))
		}
	case pressed && g.mouseDown:
		if !g.inside(x, y) {
			g.mouseDown = false
			g.s.PointerLeave()
			return
		}
		g.s.PointerMove(g.toCanvas(x, y))
	case !pressed && g.mouseDown:
		g.mouseDown = false
		g.s.PointerUp()
	}
}

func (g *Game) handleTouch() {
	if !g.touching {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			return
		}
		g.touch, g.touching = ids[0], true
		x, y := ebiten.TouchPosition(g.touch)
		g.s.PointerDown(g.toCanvas(x, y))
		return
	}
	if inpututil.IsTouchJustReleased(g.touch) {
		g.touching = false
		g.s.PointerUp()
		return
	}
	x, y := ebiten.TouchPosition(g.touch)
	g.s.PointerMove(g.toCanvas(x, y))
}

func (g *Game) startStill() {
	sc := g.s.Frozen()
	ex, p, dir := g.opts.Exporter, g.opts.Still, g.opts.OutDir
	g.flash("Exporting still...")
	go func() {
		art, err := ex.Still(g.ctx, sc, p)
		g.finish(art, dir, err)
	}()
}

func (g *Game) startAnimation() {
	sc := g.s.Frozen()
	ex, p, dir := g.opts.Exporter, g.opts.Animation, g.opts.OutDir
	g.flash("Rendering animation...")
	go func() {
		art, err := ex.Animation(g.ctx, sc, p)
		g.finish(art, dir, err)
	}()
}

func (g *Game) finish(art *export.Artifact, dir string, err error) {
	d := exportDone{err: err}
	if err == nil {
		d.art = art
		d.path, d.err = export.Write(dir, art)
	}
	select {
	case g.done <- d:
	case <-g.ctx.Done():
	}
}

func (g *Game) save() {
	if g.opts.SavePath == "" {
		g.flash("No session file to save to")
		return
	}
	f, err := g.s.Snapshot(filepath.Dir(g.opts.SavePath))
	if err == nil {
		err = session.WriteJSON(f, g.opts.SavePath)
	}
	if err != nil {
		g.s.Report(fmt.Errorf("save session: %w", err))
		return
	}
	g.notify(editor.Notice{Kind: editor.Info, Message: "Session saved"})
}

// Draw renders the session from scratch on every refresh.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)

	frame := g.opts.Renderer.Render(g.s.Scene(), g.vp.ScaleX)
	b := frame.Image.Bounds()
	if g.canvas == nil || g.canvas.Bounds().Size() != b.Size() {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.canvas.WritePixels(frame.Image.Pix)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(math.Round(g.vp.OffX), math.Round(g.vp.OffY))
	screen.DrawImage(g.canvas, &op)

	g.drawHUD(screen, frame.Pending)
}

func (g *Game) drawHUD(screen *ebiten.Image, pending int) {
	t := g.s.Template()
	line := fmt.Sprintf("%s  filter:%s  pattern:%s  %s", t.Name, g.s.Filter(), g.s.Pattern(), g.s.Engine().State())
	if pending > 0 {
		line += fmt.Sprintf("  loading %d", pending)
	}
	if n := g.s.Generating(); n > 0 {
		line += fmt.Sprintf("  generating %d", n)
	}
	ebitenutil.DebugPrintAt(screen, line, 6, 4)
	if g.prompting {
		ebitenutil.DebugPrintAt(screen, "sticker: "+string(g.prompt)+"_", 6, 20)
	} else if g.status != "" && time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.status, 6, 20)
	}
}

// Layout fits the canvas into the window.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.screenW, g.screenH = outsideW, outsideH
	tw, th := g.s.Template().Size()
	g.vp = sticker.Fit(tw, th, float64(outsideW), float64(outsideH))
	return outsideW, outsideH
}
