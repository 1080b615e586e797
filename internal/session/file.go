package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrVersion is returned for files written by a newer booth.
var ErrVersion = errors.New("unsupported session version")

// DateLayout is the format of File.Date.
const DateLayout = "2006-01-02"

// New creates an empty session for a template.
func New(templateID string) *File {
	return &File{
		Version:   SupportedVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Template:  templateID,
		Filter:    "normal",
		ShowDate:  true,
		Offsets:   make(map[int]Offset),
	}
}

// Load reads and parses a session file. Unknown fields are ignored.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", filepath.Base(path), err)
	}
	if f.Version == 0 {
		f.Version = SupportedVersion
	}
	if f.Version > SupportedVersion {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrVersion, f.Version, SupportedVersion)
	}
	if f.Offsets == nil {
		f.Offsets = make(map[int]Offset)
	}
	return &f, nil
}

// WriteJSON serializes f to path, replacing any existing file atomically.
func WriteJSON(f *File, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Resolve turns a path stored in the file into one usable from the
// process, relative to dir (the session file's directory).
func Resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

// Relative stores p relative to dir when possible, with forward slashes.
func Relative(dir, p string) string {
	if rel, err := filepath.Rel(dir, p); err == nil && !filepath.IsAbs(rel) {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

// StampDate parses File.Date; the zero time means "today".
func (f *File) StampDate() (time.Time, error) {
	if f.Date == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, f.Date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", f.Date, err)
	}
	return t, nil
}

// AddExport appends an export record.
func (f *File) AddExport(e Export) {
	if e.At == "" {
		e.At = time.Now().UTC().Format(time.RFC3339)
	}
	f.Exports = append(f.Exports, e)
}

// TotalExportBytes sums the size of every recorded export.
func (f *File) TotalExportBytes() int64 {
	var n int64
	for _, e := range f.Exports {
		n += e.Size
	}
	return n
}
