// Package session defines the JSON file a booth session is saved in.
package session

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// File is a saved editing session. Paths are relative to the file.
type File struct {
	Version    int            `json:"version"`
	CreatedAt  string         `json:"created_at"`
	Template   string         `json:"template"`
	Filter     string         `json:"filter,omitempty"`
	Background string         `json:"background,omitempty"` // hex; empty uses the template default
	Pattern    string         `json:"pattern,omitempty"`
	ShowDate   bool           `json:"show_date"`
	Date       string         `json:"date,omitempty"` // YYYY-MM-DD; empty stamps the export day
	Photos     []string       `json:"photos"`
	Offsets    map[int]Offset `json:"offsets,omitempty"` // by slot index
	Stickers   []Sticker      `json:"stickers,omitempty"`
	Exports    []Export       `json:"exports,omitempty"`
}

// Offset pans a photo inside its slot.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Sticker is a placed sticker. Exactly one of Glyph and Image is set.
type Sticker struct {
	ID       string  `json:"id"`
	Glyph    string  `json:"glyph,omitempty"`
	Image    string  `json:"image,omitempty"` // path to a PNG
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
	AI       bool    `json:"ai,omitempty"`
}

// Export records an artifact produced from the session.
type Export struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"` // still or animation
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Frames int    `json:"frames,omitempty"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // xxhash64 of the bytes
	At     string `json:"at"`
}
