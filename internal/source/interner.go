package source

import (
	"slices"
)

// StringID is a handle into an Interner.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier and literal text for one arena.
type Interner struct {
	byID  []string            // byID[0] = "" for NoStringID
	index map[string]StringID // text -> id
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts s and returns its ID. Existing strings keep their ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}

	// own copy, so the interner never pins the source buffer
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or "" and false when id is unknown.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id is valid.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts interned strings, NoStringID included. Never less than 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
