// Package photo holds captured shots: content-addressed sources and an
// asynchronous decode cache shared by the renderer and the exporters.
package photo

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrPending means the image is still decoding. Callers skip and retry.
	ErrPending = errors.New("photo decode pending")
	// ErrDecode wraps failures to decode a source.
	ErrDecode = errors.New("photo decode failed")
	// ErrNoShots is returned when a capture directory holds no images.
	ErrNoShots = errors.New("no captured shots")
	// ErrUnknown is returned for keys that were never added to the cache.
	ErrUnknown = errors.New("unknown photo")
)

// Key identifies an image by the xxHash64 of its encoded bytes.
type Key string

// KeyOf hashes encoded image bytes into a Key.
func KeyOf(data []byte) Key {
	return Key(encodeHash(xxhash.Sum64(data)))
}

// KeyOfReader hashes a stream without buffering it.
func KeyOfReader(r io.Reader) (Key, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Key(encodeHash(h.Sum64())), nil
}

// Short returns an 8 character prefix for logs.
func (k Key) Short() string {
	if len(k) > 8 {
		return string(k[:8])
	}
	return string(k)
}

func encodeHash(v uint64) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// Source is one encoded still handed over by the capture side.
type Source struct {
	Name string
	Key  Key
	Data []byte
}

// NewSource wraps encoded bytes.
func NewSource(name string, data []byte) Source {
	return Source{Name: name, Key: KeyOf(data), Data: data}
}

// ReadFile loads a source from disk.
func ReadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read photo: %w", err)
	}
	return NewSource(filepath.Base(path), data), nil
}

var shotExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// IsShot reports whether path has a recognised image extension.
func IsShot(path string) bool {
	return shotExtensions[strings.ToLower(filepath.Ext(path))]
}

// Scan lists the capture shots in dir (not recursive), ordered by file
// name so shot_1, shot_2, ... map onto slots in order.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan shots: %w", err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsShot(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoShots, dir)
	}
	sort.Strings(paths)
	return paths, nil
}
