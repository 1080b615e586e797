package template

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for ids that are not in the catalog.
var ErrNotFound = errors.New("template not found")

// Catalog is a read-only, ordered set of templates.
type Catalog struct {
	order []ID
	byID  map[ID]Template
}

// NewCatalog builds a catalog; later duplicates replace earlier ones.
func NewCatalog(ts ...Template) *Catalog {
	c := &Catalog{byID: make(map[ID]Template, len(ts))}
	for _, t := range ts {
		if _, ok := c.byID[t.ID]; !ok {
			c.order = append(c.order, t.ID)
		}
		c.byID[t.ID] = t
	}
	return c
}

// List returns every template in registration order.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id ID) (Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return t, nil
}

// MustGet panics on unknown ids. Use it only with the ID constants.
func (c *Catalog) MustGet(id ID) Template {
	t, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return t
}

// IDs returns the registered ids in order.
func (c *Catalog) IDs() []ID {
	return append([]ID(nil), c.order...)
}

// Next returns the id after id, wrapping around. Unknown ids yield the first.
func (c *Catalog) Next(id ID) ID {
	for i, v := range c.order {
		if v == id {
			return c.order[(i+1)%len(c.order)]
		}
	}
	return c.order[0]
}

// ParseID validates a user-supplied template id against the catalog.
func (c *Catalog) ParseID(s string) (ID, error) {
	id := ID(s)
	if _, ok := c.byID[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, s)
	}
	return id, nil
}
