// Package events holds the ordered list of user-defined detection events
// together with the form's edit cursor.
package events

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteDefinition is returned when a definition has an empty field.
var ErrIncompleteDefinition = errors.New("event definition requires code, description and guidelines")

// Definition describes one event the detector should look for. Codes are
// labels only; duplicates are allowed.
type Definition struct {
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
	Guidelines  string `yaml:"guidelines" json:"guidelines"`
}

// Validate reports whether every field is non-blank.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Code) == "" ||
		strings.TrimSpace(d.Description) == "" ||
		strings.TrimSpace(d.Guidelines) == "" {
		return ErrIncompleteDefinition
	}
	return nil
}

// Registry is an in-memory ordered list of definitions. It is owned by the
// UI goroutine and is not safe for concurrent use.
//
// The edit cursor, when set, always refers to a live index.
type Registry struct {
	defs    []Definition
	editing int // -1 when not editing
}

// NewRegistry creates a registry seeded with a copy of defs.
func NewRegistry(defs []Definition) *Registry {
	r := &Registry{editing: -1}
	r.defs = append(r.defs, defs...)
	return r
}

// Len returns the number of definitions.
func (r *Registry) Len() int { return len(r.defs) }

// List returns a copy of the definitions in display order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get returns the definition at index i.
func (r *Registry) Get(i int) Definition {
	r.mustIndex(i)
	return r.defs[i]
}

// Add appends def.
func (r *Registry) Add(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.defs = append(r.defs, def)
	return nil
}

// Update replaces the definition at index i.
func (r *Registry) Update(i int, def Definition) error {
	r.mustIndex(i)
	if err := def.Validate(); err != nil {
		return err
	}
	r.defs[i] = def
	return nil
}

// Remove deletes the definition at index i and keeps the edit cursor
// pointing at the same entry, or clears it if that entry was removed.
func (r *Registry) Remove(i int) {
	r.mustIndex(i)
	r.defs = append(r.defs[:i], r.defs[i+1:]...)
	switch {
	case r.editing == i:
		r.editing = -1
	case r.editing > i:
		r.editing--
	}
}

// BeginEdit points the edit cursor at index i and returns the entry so the
// form can be pre-filled.
func (r *Registry) BeginEdit(i int) Definition {
	r.mustIndex(i)
	r.editing = i
	return r.defs[i]
}

// CancelEdit clears the edit cursor.
func (r *Registry) CancelEdit() { r.editing = -1 }

// Editing returns the index under edit, if any.
func (r *Registry) Editing() (int, bool) {
	if r.editing < 0 {
		return 0, false
	}
	return r.editing, true
}

// Submit stores def: it replaces the entry under edit and clears the
// cursor, or appends when nothing is being edited.
func (r *Registry) Submit(def Definition) error {
	if i, ok := r.Editing(); ok {
		if err := r.Update(i, def); err != nil {
			return err
		}
		r.editing = -1
		return nil
	}
	return r.Add(def)
}

func (r *Registry) mustIndex(i int) {
	if i < 0 || i >= len(r.defs) {
		panic(fmt.Sprintf("events: index %d out of range [0,%d)", i, len(r.defs)))
	}
}
