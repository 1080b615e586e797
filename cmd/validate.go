package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/kawaiibooth/internal/pipeline"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <session.json|dir>...",
	Short: "Check sessions: ids, shot files and sticker ranges",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	paths, err := pipeline.FindSessions(args)
	if err != nil {
		return err
	}
	catalog := template.Builtin()
	ic := cfg.StickerConfig()
	lim := session.Limits{MinScale: ic.MinScale, MaxScale: ic.MaxScale}

	bad := 0
	for _, path := range paths {
		f, err := session.Load(path)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", path, err)
			bad++
			continue
		}
		problems := session.Validate(f, filepath.Dir(path), catalog, lim)
		if !session.HasErrors(problems) {
			fmt.Printf("  ✓ %s: %s, %d shot(s), %d sticker(s)\n", path, f.Template, len(f.Photos), len(f.Stickers))
		} else {
			bad++
			fmt.Printf("  ✗ %s:\n", path)
		}
		for _, p := range problems {
			mark := "•"
			if p.Warning {
				mark = "⚠"
			}
			fmt.Printf("    %s %s\n", mark, p)
		}
	}
	if bad > 0 {
		return fmt.Errorf("validation failed for %d of %d session(s)", bad, len(paths))
	}
	return nil
}
