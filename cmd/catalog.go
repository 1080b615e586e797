package cmd

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/encoder"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List templates, filters, patterns, stickers and export profiles",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println("  Templates:")
	for _, t := range template.Builtin().List() {
		rotated := ""
		for _, s := range t.Slots {
			if s.Rotation != 0 {
				rotated = "  tilted"
				break
			}
		}
		fmt.Printf("    %-8s %-12s %5dx%-5d %d slots  bg %s%s\n",
			t.ID, t.Name, t.Width, t.Height, len(t.Slots), t.Background, rotated)
	}
	fmt.Println()

	var filters []string
	for _, f := range filter.All {
		filters = append(filters, string(f))
	}
	fmt.Printf("  Filters:     %s\n", strings.Join(filters, ", "))

	var patterns []string
	for _, p := range decor.Patterns {
		patterns = append(patterns, string(p))
	}
	fmt.Printf("  Patterns:    %s\n", strings.Join(patterns, ", "))
	fmt.Printf("  Backgrounds: %s\n", strings.Join(decor.BackgroundPresets, " "))
	fmt.Println()

	fmt.Println("  Stickers:")
	for _, c := range sticker.Palette {
		fmt.Printf("    %-10s %s\n", c.Name, strings.Join(c.Glyphs, " "))
	}
	fmt.Println()

	fmt.Println("  Still profiles:")
	for _, name := range profile.StillNames() {
		p := profile.GetStill(name)
		q := ""
		if p.Quality > 0 {
			q = fmt.Sprintf(" q%d", p.Quality)
		}
		fmt.Printf("    %-12s %gx %s%s\n", p.Name, p.Scale, p.Format, q)
	}
	fmt.Println("  Animation profiles:")
	for _, name := range profile.AnimationNames() {
		p := profile.GetAnimation(name)
		fmt.Printf("    %-12s %dx%d  %d colours  hold %d fade %d\n",
			p.Name, p.Width, p.Height, p.Colors, p.Hold, p.Fade)
	}
	fmt.Println()

	fmt.Printf("  %s\n", encoder.NewRegistry())
	fmt.Println()
	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
