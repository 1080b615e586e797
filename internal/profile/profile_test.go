package profile

import "testing"

func TestGetStill_Fallback(t *testing.T) {
	p := GetStill("poster")
	if p.Name != "poster" || p.Scale != 2 || p.Format != "png" {
		t.Errorf("fallback: %+v", p)
	}
	if GetStill("still-jpeg").Format != "jpeg" {
		t.Error("still-jpeg should be jpeg")
	}
}

func TestStill_Size(t *testing.T) {
	w, h := GetStill("still-2x").Size(600, 1800)
	if w != 1200 || h != 3600 {
		t.Errorf("got %dx%d", w, h)
	}
	w, h = Still{}.Size(10, 20)
	if w != 10 || h != 20 {
		t.Errorf("zero scale: %dx%d", w, h)
	}
}

func TestAnimation_FrameCount(t *testing.T) {
	a := GetAnimation("loop")
	// 2 intro + 4*6 hold + 3*4 fade + 2 outro
	if got := a.FrameCount(4); got != 40 {
		t.Errorf("frames for 4 photos: %d", got)
	}
	if got := a.FrameCount(1); got != 2+6+2 {
		t.Errorf("frames for 1 photo: %d", got)
	}
	if a.FrameCount(0) != 0 {
		t.Error("no photos, no frames")
	}
}

func TestNames(t *testing.T) {
	for _, n := range append(StillNames(), AnimationNames()...) {
		if !Known(n) {
			t.Errorf("%s not known", n)
		}
	}
	if Known("telegram-webview") {
		t.Error("unexpected profile")
	}
	if len(AnimationNames()) != 3 || AnimationNames()[0] != "loop" {
		t.Errorf("animation names %v", AnimationNames())
	}
}
