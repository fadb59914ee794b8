package sema

import (
	"ember/internal/ast"
	"ember/internal/source"
)

// Type is an Ember value type. Functions are not values.
type Type uint8

const (
	TypeInvalid Type = iota // poisoned; suppresses follow-up diagnostics
	TypeUnit
	TypeBool
	TypeI32
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeUnit:
		return "()"
	case TypeBool:
		return "bool"
	case TypeI32:
		return "i32"
	case TypeString:
		return "String"
	default:
		return "<invalid>"
	}
}

var builtinTypes = map[string]Type{
	"i32":    TypeI32,
	"bool":   TypeBool,
	"String": TypeString,
}

// Func describes one top-level function.
type Func struct {
	Name   string
	Item   ast.ItemID
	Params []Type
	Result Type
	// Frame is the number of local slots; parameters occupy the first ones.
	Frame uint32
	Span  source.Span
}

// Global describes one top-level variable. Slots follow declaration order.
type Global struct {
	Name string
	Item ast.ItemID
	Type Type
	Init ast.ExprID
}

// Program is the analyzed unit handed to the interpreter. Identifier bindings
// and local slots are written into the arena itself.
type Program struct {
	Builder   *ast.Builder
	Files     *source.FileSet
	Unit      ast.Unit
	Funcs     []Func
	Globals   []Global
	Main      uint32
	ExprTypes []Type // indexed by ExprID
}

// TypeOf returns the analyzed type of expr.
func (p *Program) TypeOf(expr ast.ExprID) Type {
	if int(expr) >= len(p.ExprTypes) {
		return TypeInvalid
	}
	return p.ExprTypes[expr]
}
