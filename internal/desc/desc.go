// Package desc is the structured, grammar-constrained description of a
// candidate program. Fuzzers mutate values of these types; the renderer turns
// them into Ember source.
//
// Every union is a struct of optional fields with at most one set. A union
// with nothing set is legal and renders as a placeholder.
package desc

// Program is the root of a description.
type Program struct {
	Decls []Decl `msgpack:"decls" toml:"decls" yaml:"decls"`
}

type Decl struct {
	Function *Function `msgpack:"function,omitempty" toml:"function,omitempty" yaml:"function,omitempty"`
	Variable *Variable `msgpack:"variable,omitempty" toml:"variable,omitempty" yaml:"variable,omitempty"`
}

// Type names a type: "i32", "bool", "String" or "()". For function results
// an empty Type means unit.
type Type string

const (
	I32Type    Type = "i32"
	BoolType   Type = "bool"
	StringType Type = "String"
	UnitType   Type = "()"
)

type Function struct {
	Name   string  `msgpack:"name" toml:"name" yaml:"name"`
	Params []Param `msgpack:"params,omitempty" toml:"params,omitempty" yaml:"params,omitempty"`
	Return Type    `msgpack:"return,omitempty" toml:"return,omitempty" yaml:"return,omitempty"`
	Body   []Stmt  `msgpack:"body,omitempty" toml:"body,omitempty" yaml:"body,omitempty"`
}

type Param struct {
	Name string `msgpack:"name" toml:"name" yaml:"name"`
	Type Type   `msgpack:"type" toml:"type" yaml:"type"`
}

type Variable struct {
	Name string `msgpack:"name" toml:"name" yaml:"name"`
	Type Type   `msgpack:"type" toml:"type" yaml:"type"`
	Init *Expr  `msgpack:"init,omitempty" toml:"init,omitempty" yaml:"init,omitempty"`
}

type Stmt struct {
	Var      *Variable `msgpack:"var,omitempty" toml:"var,omitempty" yaml:"var,omitempty"`
	Assign   *Assign   `msgpack:"assign,omitempty" toml:"assign,omitempty" yaml:"assign,omitempty"`
	Expr     *Expr     `msgpack:"expr,omitempty" toml:"expr,omitempty" yaml:"expr,omitempty"`
	Return   *Return   `msgpack:"return,omitempty" toml:"return,omitempty" yaml:"return,omitempty"`
	If       *If       `msgpack:"if,omitempty" toml:"if,omitempty" yaml:"if,omitempty"`
	While    *While    `msgpack:"while,omitempty" toml:"while,omitempty" yaml:"while,omitempty"`
	Block    *Block    `msgpack:"block,omitempty" toml:"block,omitempty" yaml:"block,omitempty"`
	Break    bool      `msgpack:"break,omitempty" toml:"break,omitempty" yaml:"break,omitempty"`
	Continue bool      `msgpack:"continue,omitempty" toml:"continue,omitempty" yaml:"continue,omitempty"`
}

type Assign struct {
	Target string `msgpack:"target" toml:"target" yaml:"target"`
	Value  *Expr  `msgpack:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
}

// Return with a nil Value is a bare `return;`.
type Return struct {
	Value *Expr `msgpack:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
}

type If struct {
	Cond *Expr  `msgpack:"cond,omitempty" toml:"cond,omitempty" yaml:"cond,omitempty"`
	Then []Stmt `msgpack:"then,omitempty" toml:"then,omitempty" yaml:"then,omitempty"`
	Else []Stmt `msgpack:"else,omitempty" toml:"else,omitempty" yaml:"else,omitempty"`
}

type While struct {
	Cond *Expr  `msgpack:"cond,omitempty" toml:"cond,omitempty" yaml:"cond,omitempty"`
	Body []Stmt `msgpack:"body,omitempty" toml:"body,omitempty" yaml:"body,omitempty"`
}

type Block struct {
	Stmts []Stmt `msgpack:"stmts,omitempty" toml:"stmts,omitempty" yaml:"stmts,omitempty"`
}

type Expr struct {
	Int    *int64  `msgpack:"int,omitempty" toml:"int,omitempty" yaml:"int,omitempty"`
	Bool   *bool   `msgpack:"bool,omitempty" toml:"bool,omitempty" yaml:"bool,omitempty"`
	String *string `msgpack:"string,omitempty" toml:"string,omitempty" yaml:"string,omitempty"`
	Ident  *string `msgpack:"ident,omitempty" toml:"ident,omitempty" yaml:"ident,omitempty"`
	Unit   bool    `msgpack:"unit,omitempty" toml:"unit,omitempty" yaml:"unit,omitempty"`
	Unary  *Unary  `msgpack:"unary,omitempty" toml:"unary,omitempty" yaml:"unary,omitempty"`
	Binary *Binary `msgpack:"binary,omitempty" toml:"binary,omitempty" yaml:"binary,omitempty"`
	Call   *Call   `msgpack:"call,omitempty" toml:"call,omitempty" yaml:"call,omitempty"`
	Paren  *Expr   `msgpack:"paren,omitempty" toml:"paren,omitempty" yaml:"paren,omitempty"`
}

// Unary.Op is "-" or "not".
type Unary struct {
	Op      string `msgpack:"op" toml:"op" yaml:"op"`
	Operand *Expr  `msgpack:"operand,omitempty" toml:"operand,omitempty" yaml:"operand,omitempty"`
}

// Binary.Op is one of + - * / % == != < <= > >= and or.
type Binary struct {
	Op    string `msgpack:"op" toml:"op" yaml:"op"`
	Left  *Expr  `msgpack:"left,omitempty" toml:"left,omitempty" yaml:"left,omitempty"`
	Right *Expr  `msgpack:"right,omitempty" toml:"right,omitempty" yaml:"right,omitempty"`
}

type Call struct {
	Callee string `msgpack:"callee" toml:"callee" yaml:"callee"`
	Args   []Expr `msgpack:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
}

// MainName is the entry point every runnable program needs.
const MainName = "Main"

// HasMain reports whether p declares a function named Main.
func (p *Program) HasMain() bool {
	if p == nil {
		return false
	}
	for _, d := range p.Decls {
		if d.Function != nil && d.Function.Name == MainName {
			return true
		}
	}
	return false
}
