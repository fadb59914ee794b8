package ast

// Unit is the ordered list of top-level declarations handed to analysis.
// The first NumPreludeDecls entries always come from the prelude.
type Unit struct {
	File            FileID
	Decls           []ItemID
	NumPreludeDecls int
}

// AddPrelude places decls ahead of the unit's own declarations.
func (u *Unit) AddPrelude(decls []ItemID) {
	merged := make([]ItemID, 0, len(decls)+len(u.Decls))
	merged = append(merged, decls...)
	merged = append(merged, u.Decls...)
	u.Decls = merged
	u.NumPreludeDecls += len(decls)
}

// PreludeDecls returns the declarations contributed by the prelude.
func (u *Unit) PreludeDecls() []ItemID {
	return u.Decls[:u.NumPreludeDecls]
}

// ProgramDecls returns the candidate program's own declarations.
func (u *Unit) ProgramDecls() []ItemID {
	return u.Decls[u.NumPreludeDecls:]
}
