package ast

import (
	"ember/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota + 1
	ItemVar
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemVar:
		return "var"
	default:
		return "invalid"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type FnParam struct {
	Name source.StringID
	Span source.Span
	Type TypeExpr
}

// FnItem is a function declaration. Result is omitted for unit functions.
type FnItem struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []FnParam
	Result   TypeExpr
	Body     StmtID
}

// VarDecl is shared by top-level variables and local var statements.
type VarDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeExpr
	Value    ExprID
}

type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
	Vars  *Arena[VarDecl]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
		Vars:  NewArena[VarDecl](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(span source.Span, fn FnItem) ItemID {
	fn.Params = append([]FnParam(nil), fn.Params...)
	payload := i.Fns.Allocate(fn)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFn, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewVar(span source.Span, decl VarDecl) ItemID {
	payload := i.Vars.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemVar, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Var(id ItemID) (*VarDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemVar {
		return nil, false
	}
	return i.Vars.Get(uint32(item.Payload)), true
}

// DeclName returns the declared name of a top-level item.
func (i *Items) DeclName(id ItemID) (source.StringID, source.Span) {
	if fn, ok := i.Fn(id); ok {
		return fn.Name, fn.NameSpan
	}
	if v, ok := i.Var(id); ok {
		return v.Name, v.NameSpan
	}
	return source.NoStringID, source.Span{}
}
