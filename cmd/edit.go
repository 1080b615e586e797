package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/kawaiibooth/internal/editor"
	"github.com/AnyUserName/kawaiibooth/internal/preview"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var (
	editWidth  int
	editHeight int
)

var editCmd = &cobra.Command{
	Use:   "edit <session.json>",
	Short: "Open a session in the interactive preview",
	Long: `Drag stickers or pan photos with the mouse or touch.

  Delete/Backspace  delete sticker     +/-   scale      [ ]  rotate
  Esc               deselect           1-9   add sticker  A  AI sticker
  T F P B           cycle template, filter, pattern, background
  D                 toggle date        S     export still  G  export GIF
  Ctrl+S            save session       Q     quit`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringP("out", "o", "./booth_out", "export directory")
	editCmd.Flags().StringP("profile", "p", "still-2x", "still profile")
	editCmd.Flags().StringP("animation", "a", "loop", "animation profile")
	editCmd.Flags().String("api-key", "", "sticker provider API key")
	editCmd.Flags().IntVar(&editWidth, "width", 720, "window width")
	editCmd.Flags().IntVar(&editHeight, "height", 960, "window height")
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	f, err := session.Load(path)
	if err != nil {
		return err
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}
	s, err := editor.Open(f, filepath.Dir(path), editor.Options{
		Templates:   template.Builtin(),
		Photos:      r.Photos(),
		Provider:    newProvider(),
		Interaction: cfg.StickerConfig(),
		Log:         log.WithField("session", filepath.Base(path)),
	})
	if err != nil {
		return err
	}

	g := preview.New(preview.Options{
		Session:   s,
		Renderer:  r,
		Exporter:  newExporter(r),
		Still:     profile.GetStill(cfg.Export.StillProfile),
		Animation: profile.GetAnimation(cfg.Export.AnimationProfile),
		OutDir:    cfg.Export.OutDir,
		SavePath:  path,
		Width:     editWidth,
		Height:    editHeight,
		Log:       log,
	})
	if err := g.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
