package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/sticker"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	if c.StickerConfig() != sticker.DefaultConfig() {
		t.Errorf("interaction: got %+v", c.StickerConfig())
	}
	if c.Interaction.HitRadius != 50 || c.Interaction.SnapTolerance != 30 {
		t.Errorf("hit radius %v snap %v", c.Interaction.HitRadius, c.Interaction.SnapTolerance)
	}
	if c.Render.DateLayout != "1/2/2006" || c.Render.Grain != 6 {
		t.Errorf("render: got %+v", c.Render)
	}
	if c.Export.StillProfile != "still-2x" || c.Export.AnimationProfile != "loop" {
		t.Errorf("export: got %+v", c.Export)
	}
	if c.Provider.Model != "gemini-2.5-flash-image" || c.Provider.Timeout != time.Minute {
		t.Errorf("provider: got %+v", c.Provider)
	}
	if c.WorkerCount() < 1 {
		t.Error("worker count must be positive")
	}
}

func TestFileAndEnvLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "booth.yaml")
	yaml := "interaction:\n  hit_radius: 70\n  snap: false\nrender:\n  grain: 0\nworkers: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOOTH_WORKERS", "5")
	t.Setenv("GEMINI_API_KEY", "from-env")

	v, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Interaction.HitRadius != 70 || c.Interaction.Snap {
		t.Errorf("file values not applied: %+v", c.Interaction)
	}
	if c.Interaction.SnapTolerance != 30 {
		t.Errorf("unset key lost its default: %v", c.Interaction.SnapTolerance)
	}
	if c.Render.Grain != 0 {
		t.Errorf("grain: got %d", c.Render.Grain)
	}
	if c.Workers != 5 {
		t.Errorf("env should beat file: workers %d", c.Workers)
	}
	if c.Provider.APIKey != "from-env" {
		t.Errorf("api key: got %q", c.Provider.APIKey)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	c := Defaults()
	c.Interaction.MinScale = 20
	if c.Validate() == nil {
		t.Error("min above max should fail")
	}
	c = Defaults()
	c.Interaction.ShrinkFactor = 1.2
	if c.Validate() == nil {
		t.Error("shrink factor above 1 should fail")
	}
	c = Defaults()
	c.Workers = -1
	if c.Validate() == nil {
		t.Error("negative workers should fail")
	}
}
