package ast

import (
	"ember/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder is the arena of one pipeline invocation.
type Builder struct {
	Strings *source.Interner
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 2 // программа + прелюдия
	}
	if hints.Items == 0 {
		hints.Items = 1 << 5
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Strings: source.NewInterner(),
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(src source.FileID, sp source.Span) FileID {
	return b.Files.New(src, sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Name returns the interned text for id.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// NodeCount is the total number of items, statements and expressions allocated.
func (b *Builder) NodeCount() uint32 {
	return b.Items.Arena.Len() + b.Stmts.Arena.Len() + b.Exprs.Arena.Len()
}
