package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/ast"
	"ember/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within file content bounds and is non-empty when items exist
// 2) every item span is non-empty and fully contained in file.Span
// 3) every statement and expression span nests inside its parent's span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	if len(f.Items) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}

	c := checker{b: b, file: sf.ID}
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		if err := c.span(f.Span, item.Span, "item"); err != nil {
			return err
		}
		switch item.Kind {
		case ast.ItemFn:
			fn, _ := b.Items.Fn(it)
			if err := c.stmt(item.Span, fn.Body); err != nil {
				return err
			}
		case ast.ItemVar:
			v, _ := b.Items.Var(it)
			if err := c.expr(item.Span, v.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

type checker struct {
	b    *ast.Builder
	file source.FileID
}

func (c checker) span(parent, sp source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != c.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, c.file)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%s span %v is outside parent span %v", what, sp, parent)
	}
	return nil
}

func (c checker) stmt(parent source.Span, id ast.StmtID) error {
	st := c.b.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("nil stmt for id=%d", id)
	}
	if err := c.span(parent, st.Span, "stmt "+st.Kind.String()); err != nil {
		return err
	}
	var kids []ast.StmtID
	var exprs []ast.ExprID
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := c.b.Stmts.Block(id)
		kids = blk.Stmts
	case ast.StmtVar:
		v, _ := c.b.Stmts.Var(id)
		exprs = append(exprs, v.Decl.Value)
	case ast.StmtAssign:
		a, _ := c.b.Stmts.Assign(id)
		exprs = append(exprs, a.Target, a.Value)
	case ast.StmtExpr:
		e, _ := c.b.Stmts.Expr(id)
		exprs = append(exprs, e.Expr)
	case ast.StmtReturn:
		r, _ := c.b.Stmts.Return(id)
		if r.Value.IsValid() {
			exprs = append(exprs, r.Value)
		}
	case ast.StmtIf:
		s, _ := c.b.Stmts.If(id)
		exprs = append(exprs, s.Cond)
		kids = append(kids, s.Then)
		if s.Else.IsValid() {
			kids = append(kids, s.Else)
		}
	case ast.StmtWhile:
		w, _ := c.b.Stmts.While(id)
		exprs = append(exprs, w.Cond)
		kids = append(kids, w.Body)
	}
	for _, e := range exprs {
		if err := c.expr(st.Span, e); err != nil {
			return err
		}
	}
	for _, k := range kids {
		if err := c.stmt(st.Span, k); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) expr(parent source.Span, id ast.ExprID) error {
	e := c.b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := c.span(parent, e.Span, "expr "+e.Kind.String()); err != nil {
		return err
	}
	var kids []ast.ExprID
	switch e.Kind {
	case ast.ExprCall:
		call, _ := c.b.Exprs.Call(id)
		kids = append(kids, call.Target)
		kids = append(kids, call.Args...)
	case ast.ExprBinary:
		bin, _ := c.b.Exprs.Binary(id)
		kids = append(kids, bin.Left, bin.Right)
	case ast.ExprUnary:
		un, _ := c.b.Exprs.Unary(id)
		kids = append(kids, un.Operand)
	case ast.ExprGroup:
		g, _ := c.b.Exprs.Group(id)
		kids = append(kids, g.Inner)
	}
	for _, k := range kids {
		if err := c.expr(e.Span, k); err != nil {
			return err
		}
	}
	return nil
}
