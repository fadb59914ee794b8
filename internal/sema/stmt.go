package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
)

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := tc.builder.Stmts.Block(id)
		tc.pushScope()
		for _, s := range blk.Stmts {
			tc.checkStmt(s)
		}
		tc.popScope()

	case ast.StmtVar:
		v, _ := tc.builder.Stmts.Var(id)
		typ := tc.resolveType(v.Decl.Type)
		got := tc.checkExpr(v.Decl.Value)
		tc.expectType(v.Decl.Value, got, typ, "initializer of "+tc.name(v.Decl.Name))
		// the name is visible only after its initializer
		v.Slot = tc.declareLocal(v.Decl.Name, v.Decl.NameSpan, typ, true)

	case ast.StmtAssign:
		a, _ := tc.builder.Stmts.Assign(id)
		target := tc.checkAssignTarget(a.Target)
		got := tc.checkExpr(a.Value)
		tc.expectType(a.Value, got, target, "assignment")

	case ast.StmtExpr:
		e, _ := tc.builder.Stmts.Expr(id)
		tc.checkExpr(e.Expr)

	case ast.StmtReturn:
		r, _ := tc.builder.Stmts.Return(id)
		if !r.Value.IsValid() {
			if tc.fn.result != TypeUnit && tc.fn.result != TypeInvalid {
				tc.report(diag.SemaTypeMismatch, st.Span, "missing return value of type %s", tc.fn.result)
			}
			return
		}
		got := tc.checkExpr(r.Value)
		tc.expectType(r.Value, got, tc.fn.result, "return value")

	case ast.StmtIf:
		ifs, _ := tc.builder.Stmts.If(id)
		tc.checkCond(ifs.Cond, "if")
		tc.checkStmt(ifs.Then)
		if ifs.Else.IsValid() {
			tc.checkStmt(ifs.Else)
		}

	case ast.StmtWhile:
		w, _ := tc.builder.Stmts.While(id)
		tc.checkCond(w.Cond, "while")
		tc.fn.loopDepth++
		tc.checkStmt(w.Body)
		tc.fn.loopDepth--

	case ast.StmtBreak, ast.StmtContinue:
		if tc.fn.loopDepth == 0 {
			tc.report(diag.SemaBreakOutsideLoop, st.Span, "%s outside of a loop", st.Kind)
		}
	}
}

func (tc *typeChecker) checkCond(cond ast.ExprID, kw string) {
	got := tc.checkExpr(cond)
	if got != TypeBool && got != TypeInvalid {
		tc.report(diag.SemaTypeMismatch, tc.span(cond), "%s condition must be bool, found %s", kw, got)
	}
}

// checkAssignTarget resolves the left side of `=`: a mutable local or a global.
func (tc *typeChecker) checkAssignTarget(target ast.ExprID) Type {
	ident, ok := tc.builder.Exprs.Ident(target)
	if !ok {
		tc.checkExpr(target)
		tc.report(diag.SemaNotAssignable, tc.span(target), "left side of assignment must be a variable")
		return TypeInvalid
	}
	if l, ok := tc.lookupLocal(ident.Name); ok {
		if !l.mutable {
			tc.report(diag.SemaNotAssignable, tc.span(target), "cannot assign to parameter %q", tc.name(ident.Name))
			return TypeInvalid
		}
		ident.Binding = ast.Binding{Kind: ast.BindLocal, Index: l.slot}
		tc.prog.ExprTypes[target] = l.typ
		return l.typ
	}
	sym, ok := tc.top[ident.Name]
	switch {
	case !ok:
		tc.report(diag.SemaUnresolvedSymbol, tc.span(target), "undefined name %q", tc.name(ident.Name))
		return TypeInvalid
	case sym.kind != symGlobal:
		tc.report(diag.SemaNotAssignable, tc.span(target), "cannot assign to function %q", tc.name(ident.Name))
		return TypeInvalid
	}
	ident.Binding = ast.Binding{Kind: ast.BindGlobal, Index: sym.index}
	typ := tc.prog.Globals[sym.index].Type
	tc.prog.ExprTypes[target] = typ
	return typ
}
