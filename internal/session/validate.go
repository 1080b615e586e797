package session

import (
	"fmt"
	"os"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/template"
)

// Problem is one validation finding.
type Problem struct {
	Field   string
	Message string
	Warning bool // warnings do not fail validation
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// Limits bounds sticker values during validation.
type Limits struct {
	MinScale, MaxScale float64
}

// Validate checks ids against the catalogs, that referenced files exist
// (relative to dir) and that sticker values are in range.
func Validate(f *File, dir string, templates *template.Catalog, lim Limits) []Problem {
	var out []Problem
	add := func(field, format string, args ...any) {
		out = append(out, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(field, format string, args ...any) {
		out = append(out, Problem{Field: field, Message: fmt.Sprintf(format, args...), Warning: true})
	}

	tpl, err := templates.Get(template.ID(f.Template))
	if err != nil {
		add("template", "%v", err)
	}
	if _, err := filter.Parse(f.Filter); err != nil {
		add("filter", "%v", err)
	}
	if _, err := decor.ParsePattern(f.Pattern); err != nil {
		add("pattern", "%v", err)
	}
	if f.Background != "" {
		if _, err := colorx.ParseHex(f.Background); err != nil {
			add("background", "%v", err)
		}
	}
	if _, err := f.StampDate(); err != nil {
		add("date", "%v", err)
	}

	if len(f.Photos) == 0 {
		add("photos", "no photos")
	}
	for i, p := range f.Photos {
		if _, err := os.Stat(Resolve(dir, p)); err != nil {
			add(fmt.Sprintf("photos[%d]", i), "%v", err)
		}
	}
	if err == nil {
		if n := len(tpl.Slots); len(f.Photos) > n {
			warn("photos", "%d photos for %d slots; extras are ignored", len(f.Photos), n)
		}
		for slot := range f.Offsets {
			if slot < 0 || slot >= len(tpl.Slots) {
				warn("offsets", "slot %d does not exist in %s", slot, tpl.ID)
			}
		}
	}

	seen := map[string]bool{}
	for i, s := range f.Stickers {
		field := fmt.Sprintf("stickers[%d]", i)
		switch {
		case s.Glyph == "" && s.Image == "":
			add(field, "neither glyph nor image")
		case s.Glyph != "" && s.Image != "":
			add(field, "both glyph and image")
		case s.Image != "":
			if _, err := os.Stat(Resolve(dir, s.Image)); err != nil {
				add(field, "%v", err)
			}
		}
		if s.ID != "" {
			if seen[s.ID] {
				add(field, "duplicate id %s", s.ID)
			}
			seen[s.ID] = true
		}
		if s.Scale < lim.MinScale || s.Scale > lim.MaxScale {
			add(field, "scale %.2f outside [%.2f, %.2f]", s.Scale, lim.MinScale, lim.MaxScale)
		}
		if err == nil {
			w, h := tpl.Size()
			if s.X < 0 || s.Y < 0 || s.X > w || s.Y > h {
				warn(field, "centre (%.0f, %.0f) is off the %.0fx%.0f canvas", s.X, s.Y, w, h)
			}
		}
	}
	return out
}

// HasErrors reports whether any problem is not a warning.
func HasErrors(ps []Problem) bool {
	for _, p := range ps {
		if !p.Warning {
			return true
		}
	}
	return false
}
