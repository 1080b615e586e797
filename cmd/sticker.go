package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/kawaiibooth/internal/editor"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var (
	stickerPrompt string
	stickerGlyph  string
	stickerImage  string
	stickerX      float64
	stickerY      float64
	stickerScale  float64
)

var stickerCmd = &cobra.Command{
	Use:   "sticker <session.json>",
	Short: "Add a sticker to a session",
	Long: `Adds one sticker at the canvas centre (or --x/--y) and saves the
session. The sticker is a glyph (--glyph), an image file (--image) or an
AI-generated die-cut illustration of --prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runSticker,
}

func init() {
	stickerCmd.Flags().StringVar(&stickerPrompt, "prompt", "", "describe a sticker to generate")
	stickerCmd.Flags().StringVar(&stickerGlyph, "glyph", "", "emoji or symbol")
	stickerCmd.Flags().StringVar(&stickerImage, "image", "", "PNG file to place")
	stickerCmd.Flags().Float64Var(&stickerX, "x", -1, "centre x (default canvas centre)")
	stickerCmd.Flags().Float64Var(&stickerY, "y", -1, "centre y (default canvas centre)")
	stickerCmd.Flags().Float64Var(&stickerScale, "scale", 0, "scale (default from config)")
	stickerCmd.Flags().String("api-key", "", "sticker provider API key")
	stickerCmd.Flags().String("model", "", "sticker provider model")
	stickerCmd.MarkFlagsMutuallyExclusive("prompt", "glyph", "image")
	stickerCmd.MarkFlagsOneRequired("prompt", "glyph", "image")
	rootCmd.AddCommand(stickerCmd)
}

func runSticker(cmd *cobra.Command, args []string) error {
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

	var failed error
	s, err := editor.Open(f, filepath.Dir(path), editor.Options{
		Templates:   template.Builtin(),
		Photos:      r.Photos(),
		Provider:    newProvider(),
		Interaction: cfg.StickerConfig(),
		Notify: func(n editor.Notice) {
			if n.Kind == editor.Failure {
				failed = n.Err
			}
			fmt.Printf("  %s\n", n)
		},
		Log: log,
	})
	if err != nil {
		return err
	}

	var st *sticker.Sticker
	switch {
	case stickerGlyph != "":
		st = s.AddGlyph(stickerGlyph)
	case stickerImage != "":
		src, err := photo.ReadFile(stickerImage)
		if err != nil {
			return err
		}
		st = s.AddImage(src, false)
	default:
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Provider.Timeout)
		defer cancel()
		s.RequestSticker(ctx, stickerPrompt)
		if err := s.Await(ctx); err != nil {
			return err
		}
		if failed != nil {
			return failed
		}
		st = s.Model().Selected()
	}
	if st == nil {
		return fmt.Errorf("no sticker added")
	}
	if stickerX >= 0 {
		st.X = stickerX
	}
	if stickerY >= 0 {
		st.Y = stickerY
	}
	if stickerScale > 0 {
		st.Scale = s.Engine().ClampScale(stickerScale)
	}

	out, err := s.Snapshot(filepath.Dir(path))
	if err != nil {
		return err
	}
	if err := session.WriteJSON(out, path); err != nil {
		return err
	}
	fmt.Printf("  ✓ sticker %s at (%.0f, %.0f) ×%.2f, %d sticker(s) in session\n",
		st.ID, st.X, st.Y, st.Scale, s.Model().Len())
	return nil
}
