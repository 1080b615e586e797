// Package sticker owns the placed sticker objects and the pointer-driven
// state machine that moves, scales and rotates them.
package sticker

import (
	"math"

	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/oklog/ulid/v2"
)

// ID is unique and stable for the lifetime of a sticker.
type ID string

// NewID returns a fresh, time-ordered id.
func NewID() ID {
	return ID(ulid.Make().String())
}

// Content is either a glyph (emoji or symbol) or a reference to an image
// registered in the photo cache.
type Content struct {
	Glyph string
	Image photo.Key
}

// IsImage reports whether the sticker draws an image rather than a glyph.
func (c Content) IsImage() bool { return c.Image != "" }

// Sticker is a placed decoration. X and Y are canvas coordinates of its
// centre; Rotation is in degrees.
type Sticker struct {
	ID       ID
	Content  Content
	X, Y     float64
	Scale    float64
	Rotation float64
	AI       bool
}

// Model is an arena of stickers keyed by id, kept in insertion (z) order,
// plus the single selection.
type Model struct {
	byID     map[ID]*Sticker
	order    []ID
	selected ID
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{byID: make(map[ID]*Sticker)}
}

// Insert adds s on top of the stack and returns the stored sticker. An empty
// id is replaced by a fresh one; an existing id is overwritten in place.
func (m *Model) Insert(s Sticker) *Sticker {
	if s.ID == "" {
		s.ID = NewID()
	}
	if cur, ok := m.byID[s.ID]; ok {
		*cur = s
		return cur
	}
	p := &s
	m.byID[s.ID] = p
	m.order = append(m.order, s.ID)
	return p
}

// Get returns the live sticker for id.
func (m *Model) Get(id ID) (*Sticker, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// All returns live pointers in insertion order; later entries draw on top.
func (m *Model) All() []*Sticker {
	out := make([]*Sticker, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

// Len returns the number of stickers.
func (m *Model) Len() int { return len(m.order) }

// Remove deletes id. Removing the selected sticker clears the selection.
func (m *Model) Remove(id ID) bool {
	if _, ok := m.byID[id]; !ok {
		return false
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.selected == id {
		m.selected = ""
	}
	return true
}

// Clear removes every sticker.
func (m *Model) Clear() {
	m.byID = make(map[ID]*Sticker)
	m.order = nil
	m.selected = ""
}

// Select marks id as selected. Unknown ids clear the selection.
func (m *Model) Select(id ID) {
	if _, ok := m.byID[id]; !ok {
		id = ""
	}
	m.selected = id
}

// Deselect clears the selection.
func (m *Model) Deselect() { m.selected = "" }

// Selected returns the selected sticker, or nil. A stale id reads as none.
func (m *Model) Selected() *Sticker {
	if m.selected == "" {
		return nil
	}
	s, ok := m.byID[m.selected]
	if !ok {
		m.selected = ""
		return nil
	}
	return s
}

// SelectedID returns the selected id or "".
func (m *Model) SelectedID() ID {
	if m.Selected() == nil {
		return ""
	}
	return m.selected
}

// HitTest returns the topmost sticker whose hit circle (radius * scale)
// contains p, or nil.
func (m *Model) HitTest(p Point, radius float64) *Sticker {
	for i := len(m.order) - 1; i >= 0; i-- {
		s := m.byID[m.order[i]]
		if math.Hypot(p.X-s.X, p.Y-s.Y) < radius*s.Scale {
			return s
		}
	}
	return nil
}
