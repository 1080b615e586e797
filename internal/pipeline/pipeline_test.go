package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/export"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/sirupsen/logrus"
)

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func writeShot(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// makeSession writes dir/name/session.json with n shots.
func makeSession(t *testing.T, root, name string, n int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	f := session.New("strip")
	for i := 0; i < n; i++ {
		shot := filepath.Join(dir, "shot"+string(rune('0'+i))+".png")
		writeShot(t, shot, color.NRGBA{uint8(60 * i), 100, 200, 255})
		f.Photos = append(f.Photos, session.Relative(dir, shot))
	}
	path := filepath.Join(dir, SessionFile)
	if err := session.WriteJSON(f, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, out string, sessions ...string) Config {
	t.Helper()
	fonts, err := render.LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	opts := render.DefaultOptions()
	opts.Log = quiet()
	r := render.New(photo.NewCache(2, quiet()), fonts, opts)
	still := profile.Still{Name: "tiny", Scale: 0.25, Format: "png"}
	return Config{
		Sessions:     sessions,
		OutputDir:    out,
		Still:        &still,
		Workers:      2,
		FrameWorkers: 2,
		Renderer:     r,
		Encoders:     encoder.NewRegistryWith(&encoder.PNGEncoder{Fast: true}),
		Log:          quiet(),
	}
}

func TestRunPartialFailure(t *testing.T) {
	root := t.TempDir()
	good := makeSession(t, root, "alice", 3)
	bad := makeSession(t, root, "bob", 2)
	if err := os.Remove(filepath.Join(root, "bob", "shot1.png")); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()

	cfg := testConfig(t, out, root)
	cfg.Record = true
	rep, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Sessions != 2 {
		t.Errorf("sessions: got %d", rep.Sessions)
	}
	if len(rep.Failures) != 1 || !strings.HasSuffix(rep.Failures[0].Session, filepath.Join("bob", SessionFile)) {
		t.Fatalf("failures: got %+v", rep.Failures)
	}
	if len(rep.Outputs) != 1 {
		t.Fatalf("outputs: got %d", len(rep.Outputs))
	}
	o := rep.Outputs[0]
	if o.Kind != export.Still || o.Width != 150 || o.Height != 450 {
		t.Errorf("output: %+v", o)
	}
	if filepath.Dir(o.Path) != filepath.Join(out, "alice") {
		t.Errorf("path: got %s", o.Path)
	}
	info, err := os.Stat(o.Path)
	if err != nil || info.Size() != rep.Bytes {
		t.Errorf("written size mismatch: %v", err)
	}

	f, err := session.Load(good)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Exports) != 1 || f.Exports[0].Hash != o.Hash {
		t.Errorf("recorded exports: %+v", f.Exports)
	}
	if g, _ := session.Load(bad); len(g.Exports) != 0 {
		t.Error("failed session should not be recorded")
	}
}

func TestRunAllFail(t *testing.T) {
	root := t.TempDir()
	makeSession(t, root, "empty", 0)
	cfg := testConfig(t, t.TempDir(), root)
	cfg.Still = nil
	lite := profile.GetAnimation("loop-lite")
	cfg.Animation = &lite

	rep, err := New(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("expected an error when every session fails")
	}
	if rep == nil || len(rep.Failures) != 1 {
		t.Errorf("report: %+v", rep)
	}
}

func TestRunNothingToExport(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), t.TempDir())
	cfg.Still = nil
	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("expected an error")
	}
}

func TestFindSessions(t *testing.T) {
	root := t.TempDir()
	a := makeSession(t, root, "a", 1)
	b := makeSession(t, root, "b", 1)
	makeSession(t, filepath.Join(root, ".trash"), "c", 1)

	got, err := FindSessions([]string{root, a})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("got %v", got)
	}
	if outputName(a) != "a" || outputName("/x/party.json") != "party" {
		t.Error("output names")
	}
	if _, err := FindSessions([]string{filepath.Join(root, "missing")}); err == nil {
		t.Error("missing path should fail")
	}
}
