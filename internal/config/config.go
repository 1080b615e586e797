// Package config layers booth settings: defaults, an optional config file,
// BOOTH_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/provider"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOOTH_WORKERS.
const EnvPrefix = "BOOTH"

// Config is the resolved configuration.
type Config struct {
	Interaction Interaction `mapstructure:"interaction"`
	Render      Render      `mapstructure:"render"`
	Export      Export      `mapstructure:"export"`
	Provider    Provider    `mapstructure:"provider"`
	Workers     int         `mapstructure:"workers"` // 0 means one per CPU
}

// Interaction tunes the sticker engine.
type Interaction struct {
	HitRadius     float64 `mapstructure:"hit_radius"`
	Snap          bool    `mapstructure:"snap"`
	SnapTolerance float64 `mapstructure:"snap_tolerance"`
	MinScale      float64 `mapstructure:"min_scale"`
	MaxScale      float64 `mapstructure:"max_scale"`
	EnlargeFactor float64 `mapstructure:"enlarge_factor"`
	ShrinkFactor  float64 `mapstructure:"shrink_factor"`
	RotateStep    float64 `mapstructure:"rotate_step"`
	DefaultScale  float64 `mapstructure:"default_scale"`
	MaxTilt       float64 `mapstructure:"max_tilt"`
}

type Render struct {
	DateLayout  string `mapstructure:"date_layout"`
	Grain       int    `mapstructure:"grain"`
	StickerFont string `mapstructure:"sticker_font"`
}

type Export struct {
	OutDir           string `mapstructure:"out_dir"`
	StillProfile     string `mapstructure:"still_profile"`
	AnimationProfile string `mapstructure:"animation_profile"`
}

type Provider struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	ic := sticker.DefaultConfig()
	v.SetDefault("interaction.hit_radius", ic.HitRadius)
	v.SetDefault("interaction.snap", ic.Snap)
	v.SetDefault("interaction.snap_tolerance", ic.SnapTolerance)
	v.SetDefault("interaction.min_scale", ic.MinScale)
	v.SetDefault("interaction.max_scale", ic.MaxScale)
	v.SetDefault("interaction.enlarge_factor", ic.EnlargeFactor)
	v.SetDefault("interaction.shrink_factor", ic.ShrinkFactor)
	v.SetDefault("interaction.rotate_step", ic.RotateStep)
	v.SetDefault("interaction.default_scale", ic.DefaultScale)
	v.SetDefault("interaction.max_tilt", ic.MaxTilt)

	ro := render.DefaultOptions()
	v.SetDefault("render.date_layout", ro.DateLayout)
	v.SetDefault("render.grain", ro.Grain)
	v.SetDefault("render.sticker_font", "")

	v.SetDefault("export.out_dir", "./booth_out")
	v.SetDefault("export.still_profile", "still-2x")
	v.SetDefault("export.animation_profile", "loop")

	v.SetDefault("workers", 0)

	v.SetDefault("provider.base_url", provider.DefaultBaseURL)
	v.SetDefault("provider.model", provider.DefaultModel)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", 60*time.Second)
}

// New returns a viper instance with defaults and environment bindings. If
// file is empty, booth.yaml (or .json/.toml) in the working directory is
// read when present; an explicit file must exist.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The key is commonly exported under the provider's own names.
	if err := v.BindEnv("provider.api_key", EnvPrefix+"_PROVIDER_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}
	v.SetConfigName("booth")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load resolves v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Defaults is the configuration with nothing overridden.
func Defaults() Config {
	v := viper.New()
	SetDefaults(v)
	c, err := Load(v)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	i := c.Interaction
	switch {
	case i.HitRadius <= 0:
		return fmt.Errorf("interaction.hit_radius must be positive")
	case i.MinScale <= 0 || i.MaxScale < i.MinScale:
		return fmt.Errorf("interaction scale range [%g, %g] is invalid", i.MinScale, i.MaxScale)
	case i.EnlargeFactor <= 1 || i.ShrinkFactor <= 0 || i.ShrinkFactor >= 1:
		return fmt.Errorf("interaction enlarge/shrink factors must bracket 1")
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative")
	case c.Render.Grain < 0 || c.Render.Grain > 64:
		return fmt.Errorf("render.grain must be in [0, 64]")
	}
	return nil
}

// StickerConfig converts the interaction block for the sticker engine.
func (c Config) StickerConfig() sticker.Config {
	i := c.Interaction
	return sticker.Config{
		HitRadius:     i.HitRadius,
		Snap:          i.Snap,
		SnapTolerance: i.SnapTolerance,
		MinScale:      i.MinScale,
		MaxScale:      i.MaxScale,
		EnlargeFactor: i.EnlargeFactor,
		ShrinkFactor:  i.ShrinkFactor,
		RotateStep:    i.RotateStep,
		DefaultScale:  i.DefaultScale,
		MaxTilt:       i.MaxTilt,
	}
}

// RenderOptions converts the render block.
func (c Config) RenderOptions(log *logrus.Entry) render.Options {
	return render.Options{DateLayout: c.Render.DateLayout, Grain: c.Render.Grain, Log: log}
}

// GeminiConfig converts the provider block.
func (c Config) GeminiConfig(log *logrus.Entry) provider.GeminiConfig {
	return provider.GeminiConfig{
		BaseURL: c.Provider.BaseURL,
		Model:   c.Provider.Model,
		APIKey:  c.Provider.APIKey,
		Timeout: c.Provider.Timeout,
		Log:     log,
	}
}

// WorkerCount resolves Workers, substituting the CPU count for 0.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
