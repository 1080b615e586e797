package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/kawaiibooth/internal/config"
	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/export"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/provider"
	"github.com/AnyUserName/kawaiibooth/internal/render"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	version    = "0.1.0"
	verbose    bool
	logLevel   string
	configFile string

	cfg config.Config
	log *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "booth",
	Short: "Photo-booth collage engine",
	Long: `booth arranges captured shots into themed collages, decorates them
with stickers and filters, and exports stills or looping GIFs.

Sessions are JSON files that record the layout, the shots and every
sticker; they can be edited interactively or exported in batches.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./booth.yaml if present)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"booth %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"workers":   "workers",
	"out":       "export.out_dir",
	"profile":   "export.still_profile",
	"animation": "export.animation_profile",
	"grain":     "render.grain",
	"font":      "render.sticker_font",
	"api-key":   "provider.api_key",
	"model":     "provider.model",
}

func setup(cmd *cobra.Command, _ []string) error {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	log = logrus.WithField("cmd", cmd.Name())

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if cfg, err = config.Load(v); err != nil {
		return err
	}
	if f := v.ConfigFileUsed(); f != "" {
		log.WithField("file", f).Debug("config loaded")
	}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// newRenderer builds a renderer over a fresh photo cache.
func newRenderer() (*render.Renderer, error) {
	fonts, err := render.LoadFonts(cfg.Render.StickerFont)
	if err != nil {
		return nil, err
	}
	cache := photo.NewCache(cfg.WorkerCount(), log.WithField("component", "photos"))
	return render.New(cache, fonts, cfg.RenderOptions(log.WithField("component", "render"))), nil
}

func newExporter(r *render.Renderer) *export.Exporter {
	return export.New(r, encoder.NewRegistry(), cfg.WorkerCount(), log.WithField("component", "export"))
}

func newProvider() provider.Provider {
	if cfg.Provider.APIKey == "" {
		return provider.Disabled
	}
	return provider.NewGemini(cfg.GeminiConfig(log.WithField("component", "provider")))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
