package preview

import (
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

func pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func ctrlHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

// handleKeys applies keyboard controls and reports whether to quit.
func (g *Game) handleKeys() bool {
	e := g.s.Engine()
	switch {
	case pressed(ebiten.KeyQ):
		return true
	case ctrlHeld() && pressed(ebiten.KeyS):
		g.save()
	case pressed(ebiten.KeyS):
		g.startStill()
	case pressed(ebiten.KeyG):
		g.startAnimation()
	case pressed(ebiten.KeyA):
		g.prompting, g.prompt = true, g.prompt[:0]
	case pressed(ebiten.KeyDelete, ebiten.KeyBackspace):
		e.Delete()
	case pressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd):
		e.Enlarge()
	case pressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract):
		e.Shrink()
	case pressed(ebiten.KeyBracketRight):
		e.RotateCW()
	case pressed(ebiten.KeyBracketLeft):
		e.RotateCCW()
	case pressed(ebiten.KeyEscape):
		e.Deselect()
	case pressed(ebiten.KeyT):
		g.s.NextTemplate()
	case pressed(ebiten.KeyF):
		g.s.SetFilter(g.s.Filter().Next())
	case pressed(ebiten.KeyP):
		g.s.SetPattern(g.s.Pattern().Next())
	case pressed(ebiten.KeyB):
		g.s.NextBackground()
	case pressed(ebiten.KeyD):
		g.s.SetShowDate(!g.s.ShowDate())
	}
	for i, k := range digitKeys {
		if i < len(sticker.Quick) && inpututil.IsKeyJustPressed(k) {
			g.s.AddGlyph(sticker.Quick[i])
		}
	}
	return false
}

// updatePrompt edits the sticker prompt line. Enter submits, Esc cancels.
func (g *Game) updatePrompt() {
	g.prompt = ebiten.AppendInputChars(g.prompt)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.prompting = false
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if n := len(g.prompt); n > 0 {
			g.prompt = g.prompt[:n-1]
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.prompting = false
		if g.s.RequestSticker(g.ctx, string(g.prompt)) {
			g.flash("Generating sticker...")
		}
	}
}
