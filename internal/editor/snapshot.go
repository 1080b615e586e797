package editor

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/AnyUserName/kawaiibooth/internal/colorx"
	"github.com/AnyUserName/kawaiibooth/internal/compose"
	"github.com/AnyUserName/kawaiibooth/internal/decor"
	"github.com/AnyUserName/kawaiibooth/internal/filter"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/session"
	"github.com/AnyUserName/kawaiibooth/internal/sticker"
	"github.com/AnyUserName/kawaiibooth/internal/template"
)

// Open restores a session saved in f. Paths in f are relative to dir.
func Open(f *session.File, dir string, opts Options) (*Session, error) {
	if opts.Templates == nil {
		opts.Templates = template.Builtin()
	}
	id, err := opts.Templates.ParseID(f.Template)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	fl, err := filter.Parse(f.Filter)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	pat, err := decor.ParsePattern(f.Pattern)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if f.Background != "" {
		if _, err := colorx.ParseHex(f.Background); err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
	}
	date, err := f.StampDate()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	shots := make([]photo.Source, 0, len(f.Photos))
	paths := make([]string, 0, len(f.Photos))
	for _, p := range f.Photos {
		path := session.Resolve(dir, p)
		src, err := photo.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		shots = append(shots, src)
		paths = append(paths, path)
	}

	// Stickers come from the file, so the template decor must not be seeded.
	s, err := New(id, shots, opts)
	if err != nil {
		return nil, err
	}
	s.model.Clear()
	for i, src := range shots {
		s.paths[src.Key] = paths[i]
	}
	s.filter = fl
	s.pattern = pat
	s.background = f.Background
	s.showDate = f.ShowDate
	s.date = date
	s.created = f.CreatedAt
	s.exports = append([]session.Export(nil), f.Exports...)
	for slot, off := range f.Offsets {
		s.offsets[slot] = compose.Offset{DX: off.DX, DY: off.DY}
	}

	for i, st := range f.Stickers {
		c := sticker.Content{Glyph: st.Glyph}
		if st.Image != "" {
			path := session.Resolve(dir, st.Image)
			src, err := photo.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("open session: sticker %d: %w", i, err)
			}
			c = sticker.Content{Image: s.photos.Add(src)}
			s.paths[src.Key] = path
		}
		s.model.Insert(sticker.Sticker{
			ID:       sticker.ID(st.ID),
			Content:  c,
			X:        st.X,
			Y:        st.Y,
			Scale:    s.engine.ClampScale(st.Scale),
			Rotation: st.Rotation,
			AI:       st.AI,
		})
	}
	return s, nil
}

// Snapshot converts the session into a file stored in dir. Images that
// never lived on disk, such as generated stickers, are written next to it.
func (s *Session) Snapshot(dir string) (*session.File, error) {
	f := session.New(string(s.tpl.ID))
	if s.created != "" {
		f.CreatedAt = s.created
	}
	f.Exports = append(f.Exports, s.exports...)
	f.Filter = string(s.filter)
	f.Background = s.background
	f.Pattern = string(s.pattern)
	f.ShowDate = s.showDate
	if !s.date.IsZero() {
		f.Date = s.date.Format(session.DateLayout)
	}

	for _, k := range s.shots {
		p, err := s.persist(dir, "shots", k)
		if err != nil {
			return nil, err
		}
		f.Photos = append(f.Photos, p)
	}
	for slot, off := range s.offsets {
		if off != (compose.Offset{}) {
			f.Offsets[slot] = session.Offset{DX: off.DX, DY: off.DY}
		}
	}
	for _, st := range s.model.All() {
		e := session.Sticker{
			ID:       string(st.ID),
			Glyph:    st.Content.Glyph,
			X:        st.X,
			Y:        st.Y,
			Scale:    st.Scale,
			Rotation: st.Rotation,
			AI:       st.AI,
		}
		if st.Content.IsImage() {
			p, err := s.persist(dir, "stickers", st.Content.Image)
			if err != nil {
				return nil, err
			}
			e.Glyph, e.Image = "", p
		}
		f.Stickers = append(f.Stickers, e)
	}
	return f, nil
}

// persist returns the session-relative path of image k, writing its bytes
// under dir/sub first if it has no file yet.
func (s *Session) persist(dir, sub string, k photo.Key) (string, error) {
	if p, ok := s.paths[k]; ok {
		return session.Relative(dir, p), nil
	}
	src, ok := s.photos.Source(k)
	if !ok {
		return "", fmt.Errorf("snapshot: unknown image %s", k.Short())
	}
	ext := "png"
	if _, format, err := image.DecodeConfig(bytes.NewReader(src.Data)); err == nil {
		ext = format
	}
	if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	path := filepath.Join(dir, sub, k.Short()+"."+ext)
	if err := os.WriteFile(path, src.Data, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	s.paths[k] = path
	return session.Relative(dir, path), nil
}
