package render

import (
	"fmt"
	"os"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomonobold"
)

// Fonts are the parsed typefaces the renderer draws with.
type Fonts struct {
	Mono    *truetype.Font // date stamp
	Bold    *truetype.Font // branding, captions
	Sticker *truetype.Font // glyph stickers; nil falls back to Bold
}

// LoadFonts parses the embedded Go fonts and, if path is set, a TrueType
// font for glyph stickers.
func LoadFonts(stickerFont string) (*Fonts, error) {
	mono, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse mono font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	f := &Fonts{Mono: mono, Bold: bold}
	if stickerFont != "" {
		data, err := os.ReadFile(stickerFont)
		if err != nil {
			return nil, fmt.Errorf("read sticker font: %w", err)
		}
		if f.Sticker, err = truetype.Parse(data); err != nil {
			return nil, fmt.Errorf("parse sticker font %s: %w", stickerFont, err)
		}
	}
	return f, nil
}

// faceSet builds faces on demand. truetype faces cache glyphs internally
// and are not safe for concurrent use, so each render owns its own set.
type faceSet struct {
	faces map[faceKey]font.Face
}

type faceKey struct {
	f    *truetype.Font
	size int // quarter pixels
}

func (s *faceSet) face(f *truetype.Font, px float64) font.Face {
	if s.faces == nil {
		s.faces = make(map[faceKey]font.Face)
	}
	k := faceKey{f: f, size: int(px*4 + 0.5)}
	if face, ok := s.faces[k]; ok {
		return face
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(k.size) / 4, Hinting: font.HintingNone})
	s.faces[k] = face
	return face
}

// covers reports whether f has a glyph for every visible rune of s.
func covers(f *truetype.Font, s string) bool {
	if f == nil {
		return false
	}
	for _, r := range s {
		if r == 0x200d || unicode.Is(unicode.Variation_Selector, r) {
			continue
		}
		if f.Index(r) == 0 {
			return false
		}
	}
	return true
}
