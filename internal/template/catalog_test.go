package template

import (
	"errors"
	"testing"
)

func TestBuiltin_SlotsWithinCanvas(t *testing.T) {
	for _, tpl := range Builtin().List() {
		if len(tpl.Slots) == 0 {
			t.Errorf("%s: no slots", tpl.ID)
		}
		for i, s := range tpl.Slots {
			if s.X < 0 || s.Y < 0 || s.X+s.W > float64(tpl.Width) || s.Y+s.H > float64(tpl.Height) {
				t.Errorf("%s slot[%d]: %+v outside %dx%d", tpl.ID, i, s, tpl.Width, tpl.Height)
			}
			if s.W <= 2*tpl.Style.Padding || s.H <= 2*tpl.Style.Padding+tpl.Style.BottomInset {
				t.Errorf("%s slot[%d]: padding leaves no photo window", tpl.ID, i)
			}
		}
	}
}

func TestBuiltin_SlotCounts(t *testing.T) {
	want := map[ID]int{Strip: 3, Y2K: 3, Grid: 4, Film: 4, Modern: 3, Retro: 4, Wide: 3, Cyber: 4}
	c := Builtin()
	for id, n := range want {
		tpl, err := c.Get(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if len(tpl.Slots) != n {
			t.Errorf("%s: got %d slots, want %d", id, len(tpl.Slots), n)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := Builtin().Get("collage")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMustGet_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Builtin().MustGet("nope")
}

func TestCatalog_CustomAndOrder(t *testing.T) {
	c := NewCatalog(
		Template{ID: "a", Width: 10, Height: 10},
		Template{ID: "b", Width: 20, Height: 20},
		Template{ID: "a", Width: 30, Height: 30},
	)
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("ids: %v", ids)
	}
	if c.MustGet("a").Width != 30 {
		t.Error("duplicate should replace")
	}
	if c.Next("b") != "a" || c.Next("zzz") != "a" {
		t.Error("next should wrap")
	}
}

func TestSlotContains_Rotated(t *testing.T) {
	s := Slot{X: 0, Y: 0, W: 100, H: 100, Rotation: 45}
	// Corner of the unrotated square falls outside once rotated.
	if s.Contains(1, 1) {
		t.Error("rotated slot should not contain old corner")
	}
	if !s.Contains(50, 50) {
		t.Error("centre must be inside")
	}
	// A point beyond the old edge but inside the rotated diamond.
	if !s.Contains(50, -15) {
		t.Error("rotated tip should be inside")
	}
}

func TestSlotAt(t *testing.T) {
	tpl := Builtin().MustGet(Grid)
	if got := tpl.SlotAt(700, 900); got != 3 {
		t.Errorf("got slot %d, want 3", got)
	}
	if got := tpl.SlotAt(600, 20); got != -1 {
		t.Errorf("gutter should miss, got %d", got)
	}
}
