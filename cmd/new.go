package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var (
	newTemplate   string
	newOutput     string
	newFilter     string
	newPattern    string
	newBackground string
	newNoDate     bool
	newDate       string
	newForce      bool
)

var newCmd = &cobra.Command{
	Use:   "new <shots_dir>",
	Short: "Create a session from a directory of captured shots",
	Long: `Collects the images in shots_dir in name order and writes a session
file that places them into the chosen template, one shot per slot.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", string(template.Strip), "template id")
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "session.json", "session file to write")
	newCmd.Flags().StringVarP(&newFilter, "filter", "f", string(filter.Normal), "filter id")
	newCmd.Flags().StringVar(&newPattern, "pattern", string(decor.None), "background pattern id")
	newCmd.Flags().StringVar(&newBackground, "bg", "", "background colour (default: template's)")
	newCmd.Flags().BoolVar(&newNoDate, "no-date", false, "hide the date stamp")
	newCmd.Flags().StringVar(&newDate, "date", "", "stamp a fixed day, YYYY-MM-DD")
	newCmd.Flags().BoolVar(&newForce, "force", false, "overwrite an existing session file")
	rootCmd.AddCommand(newCmd)
}

func runNew(_ *cobra.Command, args []string) error {
	catalog := template.Builtin()
	id, err := catalog.ParseID(newTemplate)
	if err != nil {
		return err
	}
	tpl := catalog.MustGet(id)
	if _, err := filter.Parse(newFilter); err != nil {
		return err
	}
	if _, err := decor.ParsePattern(newPattern); err != nil {
		return err
	}
	if newBackground != "" {
		if _, err := colorx.ParseHex(newBackground); err != nil {
			return err
		}
	}

	shots, err := photo.Scan(args[0])
	if err != nil {
		return err
	}
	out, err := filepath.Abs(newOutput)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if _, err := os.Stat(out); err == nil && !newForce {
		return fmt.Errorf("%s exists (use --force to overwrite)", newOutput)
	}
	dir := filepath.Dir(out)

	f := session.New(string(id))
	f.Filter = newFilter
	f.Pattern = newPattern
	f.Background = newBackground
	f.ShowDate = !newNoDate
	f.Date = newDate
	if _, err := f.StampDate(); err != nil {
		return err
	}
	for _, s := range shots {
		abs, err := filepath.Abs(s)
		if err != nil {
			return err
		}
		f.Photos = append(f.Photos, session.Relative(dir, abs))
	}
	for _, d := range tpl.Decor {
		f.Stickers = append(f.Stickers, session.Sticker{
			Glyph: d.Glyph, X: d.X, Y: d.Y, Scale: d.Scale, Rotation: d.Rotation,
		})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := session.WriteJSON(f, out); err != nil {
		return err
	}

	fmt.Printf("  ✓ %s: %s, %d shot(s) for %d slot(s)\n", newOutput, tpl.Name, len(shots), len(tpl.Slots))
	if len(shots) < len(tpl.Slots) {
		fmt.Printf("  ⚠ %d slot(s) will stay empty\n", len(tpl.Slots)-len(shots))
	}
	if len(shots) > len(tpl.Slots) {
		fmt.Printf("  ⚠ %d extra shot(s) will not be shown\n", len(shots)-len(tpl.Slots))
	}
	return nil
}
