package models

import (
	"fmt"
)

// Collection is the ordered set of passes. Order is display order and new
// passes go to the front. The helpers below never modify the receiver.
type Collection []Pass

// Clone returns an independent copy of c.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Find returns the pass with id, or false.
func (c Collection) Find(id string) (Pass, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Pass{}, false
}

func (c Collection) Prepend(p Pass) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, p)
	return append(out, c...)
}

// Without drops every pass with id. An unknown id yields an equal copy.
func (c Collection) Without(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, p := range c {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Toggled flips RequiresBiometric on the pass with id. It reports false
// when no such pass exists.
func (c Collection) Toggled(id string) (Collection, bool) {
	out := c.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].RequiresBiometric = !out[i].RequiresBiometric
			return out, true
		}
	}
	return out, false
}

// Validate checks every pass and that ids are unique.
func (c Collection) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, p := range c {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidPass, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
