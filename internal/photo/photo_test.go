package photo

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestKeyOf_Stable(t *testing.T) {
	a := []byte("shot one")
	k1 := KeyOf(a)
	k2, err := KeyOfReader(strings.NewReader("shot one"))
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Errorf("reader key %s != %s", k2, k1)
	}
	if len(k1) != 16 {
		t.Errorf("key length %d", len(k1))
	}
	if KeyOf([]byte("shot two")) == k1 {
		t.Error("different bytes share a key")
	}
}

func TestCache_DecodesOnce(t *testing.T) {
	c := NewCache(2, nil)
	done := make(chan Key, 4)
	c.OnReady(func(k Key) { done <- k })

	k := c.Add(NewSource("a.png", encodePNG(t, 8, 6, color.White)))
	if k2 := c.Add(NewSource("copy.png", encodePNG(t, 8, 6, color.White))); k2 != k {
		t.Fatal("identical bytes should share a key")
	}
	c.Lookup(k)
	c.Lookup(k)
	if err := c.Wait(context.Background(), k); err != nil {
		t.Fatal(err)
	}
	img, ok := c.Lookup(k)
	if !ok || img.Bounds().Dx() != 8 {
		t.Fatalf("lookup after wait: %v %v", img, ok)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onReady not called")
	}
	select {
	case <-done:
		t.Fatal("decoded twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCache_DecodeError(t *testing.T) {
	c := NewCache(1, nil)
	k := c.Add(NewSource("broken.png", []byte("not an image")))
	if err := c.Wait(context.Background(), k); err != nil {
		t.Fatal(err)
	}
	if err := c.Err(k); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if _, ok := c.Lookup(k); ok {
		t.Error("broken photo reported ready")
	}
}

func TestCache_Unknown(t *testing.T) {
	c := NewCache(1, nil)
	if _, err := c.Get("deadbeef"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestScan_OrderedShots(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shot_2.png", "shot_1.jpg", ".hidden.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "sub.png"), 0o755)

	got, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "shot_1.jpg"), filepath.Join(dir, "shot_2.png")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_Empty(t *testing.T) {
	if _, err := Scan(t.TempDir()); !errors.Is(err, ErrNoShots) {
		t.Errorf("expected ErrNoShots, got %v", err)
	}
}
