// Package render turns a structured program description into Ember source.
package render

import (
	"strconv"
	"strings"

	"ember/internal/desc"
	"ember/internal/lexer"
)

// DefaultMain is appended when a description has no Main and one is requested.
const DefaultMain = "fn Main() -> i32 { return 0; }\n"

// Source renders p. It never fails: missing pieces become placeholders that
// the parser or analyzer will reject. With maybeAddMain a trivial Main is
// appended unless p already declares one.
func Source(p *desc.Program, maybeAddMain bool) string {
	r := renderer{}
	if p != nil {
		for i := range p.Decls {
			r.decl(&p.Decls[i])
		}
	}
	if maybeAddMain && !p.HasMain() {
		if r.sb.Len() > 0 {
			r.sb.WriteByte('\n')
		}
		r.sb.WriteString(DefaultMain)
	}
	return r.sb.String()
}

type renderer struct {
	sb     strings.Builder
	indent int
}

func (r *renderer) line(parts ...string) {
	for range r.indent {
		r.sb.WriteString("    ")
	}
	for _, p := range parts {
		r.sb.WriteString(p)
	}
	r.sb.WriteByte('\n')
}

func name(n string) string {
	if n == "" {
		return "_"
	}
	return n
}

func typ(t desc.Type) string {
	if t == "" {
		return string(desc.UnitType)
	}
	return string(t)
}

func (r *renderer) decl(d *desc.Decl) {
	switch {
	case d.Function != nil:
		r.function(d.Function)
	case d.Variable != nil:
		r.line(variable(d.Variable))
	}
}

func (r *renderer) function(fn *desc.Function) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, name(p.Name)+": "+typ(p.Type))
	}
	head := "fn " + name(fn.Name) + "(" + strings.Join(params, ", ") + ")"
	if fn.Return != "" {
		head += " -> " + string(fn.Return)
	}
	r.line(head, " {")
	r.stmts(fn.Body)
	r.line("}")
}

func variable(v *desc.Variable) string {
	return "var " + name(v.Name) + ": " + typ(v.Type) + " = " + expr(v.Init) + ";"
}

func (r *renderer) stmts(list []desc.Stmt) {
	r.indent++
	for i := range list {
		r.stmt(&list[i])
	}
	r.indent--
}

func (r *renderer) stmt(s *desc.Stmt) {
	switch {
	case s.Var != nil:
		r.line(variable(s.Var))
	case s.Assign != nil:
		r.line(name(s.Assign.Target), " = ", expr(s.Assign.Value), ";")
	case s.Expr != nil:
		r.line(expr(s.Expr), ";")
	case s.Return != nil:
		if s.Return.Value == nil {
			r.line("return;")
		} else {
			r.line("return ", expr(s.Return.Value), ";")
		}
	case s.If != nil:
		r.line("if (", expr(s.If.Cond), ") {")
		r.stmts(s.If.Then)
		if len(s.If.Else) > 0 {
			r.line("} else {")
			r.stmts(s.If.Else)
		}
		r.line("}")
	case s.While != nil:
		r.line("while (", expr(s.While.Cond), ") {")
		r.stmts(s.While.Body)
		r.line("}")
	case s.Block != nil:
		r.line("{")
		r.stmts(s.Block.Stmts)
		r.line("}")
	case s.Break:
		r.line("break;")
	case s.Continue:
		r.line("continue;")
	default:
		r.line("();")
	}
}

func expr(e *desc.Expr) string {
	if e == nil {
		return "()"
	}
	switch {
	case e.Int != nil:
		if *e.Int < 0 {
			return "(" + strconv.FormatInt(*e.Int, 10) + ")"
		}
		return strconv.FormatInt(*e.Int, 10)
	case e.Bool != nil:
		return strconv.FormatBool(*e.Bool)
	case e.String != nil:
		return lexer.Quote(*e.String)
	case e.Ident != nil:
		return name(*e.Ident)
	case e.Unit:
		return "()"
	case e.Unary != nil:
		op := e.Unary.Op
		if op == "not" {
			op += " "
		}
		return "(" + op + expr(e.Unary.Operand) + ")"
	case e.Binary != nil:
		return "(" + expr(e.Binary.Left) + " " + e.Binary.Op + " " + expr(e.Binary.Right) + ")"
	case e.Call != nil:
		args := make([]string, 0, len(e.Call.Args))
		for i := range e.Call.Args {
			args = append(args, expr(&e.Call.Args[i]))
		}
		return name(e.Call.Callee) + "(" + strings.Join(args, ", ") + ")"
	case e.Paren != nil:
		return "(" + expr(e.Paren) + ")"
	default:
		return "()"
	}
}
