package ast

import (
	"ember/internal/source"
)

// TypeExpr is a written type: a bare name or the unit type `()`.
// The zero value means "omitted".
type TypeExpr struct {
	Name source.StringID
	Unit bool
	Span source.Span
}

// IsOmitted reports whether no type was written.
func (t TypeExpr) IsOmitted() bool {
	return !t.Unit && t.Name == source.NoStringID
}
