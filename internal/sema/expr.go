package sema

import (
	"math"
	"strconv"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
)

func (tc *typeChecker) span(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// expectType reports a mismatch unless either side is already poisoned.
func (tc *typeChecker) expectType(expr ast.ExprID, got, want Type, what string) {
	if got == want || got == TypeInvalid || want == TypeInvalid {
		return
	}
	tc.report(diag.SemaTypeMismatch, tc.span(expr), "%s: expected %s, found %s", what, want, got)
}

func (tc *typeChecker) checkExpr(id ast.ExprID) Type {
	typ := tc.exprType(id)
	if int(id) < len(tc.prog.ExprTypes) {
		tc.prog.ExprTypes[id] = typ
	}
	return typ
}

func (tc *typeChecker) exprType(id ast.ExprID) Type {
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		return TypeInvalid
	}
	switch e.Kind {
	case ast.ExprLit:
		return tc.checkLiteral(id, false)
	case ast.ExprIdent:
		return tc.checkIdent(id)
	case ast.ExprGroup:
		g, _ := tc.builder.Exprs.Group(id)
		return tc.checkExpr(g.Inner)
	case ast.ExprUnary:
		return tc.checkUnary(id)
	case ast.ExprBinary:
		return tc.checkBinary(id)
	case ast.ExprCall:
		return tc.checkCall(id)
	default:
		return TypeInvalid
	}
}

// checkLiteral types a literal. negated allows the magnitude of i32's minimum.
func (tc *typeChecker) checkLiteral(id ast.ExprID, negated bool) Type {
	lit, _ := tc.builder.Exprs.Literal(id)
	switch lit.Kind {
	case ast.ExprLitInt:
		limit := uint64(math.MaxInt32)
		if negated {
			limit++
		}
		if lit.Overflow || lit.Int > limit {
			tc.report(diag.SemaIntLiteralRange, tc.span(id), "integer literal %s does not fit in i32", tc.name(lit.Value))
			return TypeInvalid
		}
		return TypeI32
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return TypeBool
	case ast.ExprLitString:
		return TypeString
	case ast.ExprLitUnit:
		return TypeUnit
	default:
		return TypeInvalid
	}
}

func (tc *typeChecker) checkIdent(id ast.ExprID) Type {
	ident, _ := tc.builder.Exprs.Ident(id)
	if l, ok := tc.lookupLocal(ident.Name); ok {
		ident.Binding = ast.Binding{Kind: ast.BindLocal, Index: l.slot}
		return l.typ
	}
	sym, ok := tc.top[ident.Name]
	if !ok {
		tc.report(diag.SemaUnresolvedSymbol, tc.span(id), "undefined name %q", tc.name(ident.Name))
		return TypeInvalid
	}
	switch sym.kind {
	case symGlobal:
		if int(sym.index) >= tc.globalLimit {
			diag.ReportError(tc.reporter, diag.SemaUseBeforeDeclaration, tc.span(id),
				"global "+tc.name(ident.Name)+" is used before its declaration").
				WithNote(sym.span, "declared here").
				Emit()
			return TypeInvalid
		}
		ident.Binding = ast.Binding{Kind: ast.BindGlobal, Index: sym.index}
		return tc.prog.Globals[sym.index].Type
	default:
		tc.report(diag.SemaNotAValue, tc.span(id), "function %q can only be called", tc.name(ident.Name))
		return TypeInvalid
	}
}

func (tc *typeChecker) checkUnary(id ast.ExprID) Type {
	un, _ := tc.builder.Exprs.Unary(id)
	var operand Type
	if un.Op == ast.ExprUnaryNeg && tc.isIntLiteral(un.Operand) {
		operand = tc.checkLiteral(un.Operand, true)
		tc.prog.ExprTypes[un.Operand] = operand
	} else {
		operand = tc.checkExpr(un.Operand)
	}
	if operand == TypeInvalid {
		return TypeInvalid
	}
	switch {
	case un.Op == ast.ExprUnaryNeg && operand == TypeI32:
		return TypeI32
	case un.Op == ast.ExprUnaryNot && operand == TypeBool:
		return TypeBool
	}
	tc.report(diag.SemaInvalidUnaryOperand, tc.span(id), "operator %s cannot be applied to %s", un.Op, operand)
	return TypeInvalid
}

func (tc *typeChecker) isIntLiteral(id ast.ExprID) bool {
	lit, ok := tc.builder.Exprs.Literal(id)
	return ok && lit.Kind == ast.ExprLitInt
}

func (tc *typeChecker) checkBinary(id ast.ExprID) Type {
	bin, _ := tc.builder.Exprs.Binary(id)
	left := tc.checkExpr(bin.Left)
	right := tc.checkExpr(bin.Right)
	if left == TypeInvalid || right == TypeInvalid {
		return TypeInvalid
	}
	op := bin.Op
	switch {
	case op == ast.ExprBinaryAdd && left == TypeString && right == TypeString:
		return TypeString
	case op.IsArithmetic() && left == TypeI32 && right == TypeI32:
		return TypeI32
	case op.IsOrdering() && left == TypeI32 && right == TypeI32:
		return TypeBool
	case op.IsEquality() && left == right:
		return TypeBool
	case op.IsLogical() && left == TypeBool && right == TypeBool:
		return TypeBool
	}
	tc.report(diag.SemaInvalidBinaryOperands, tc.span(id), "operator %s cannot be applied to %s and %s", op, left, right)
	return TypeInvalid
}

func (tc *typeChecker) checkCall(id ast.ExprID) Type {
	call, _ := tc.builder.Exprs.Call(id)

	ident, ok := tc.builder.Exprs.Ident(call.Target)
	if !ok {
		tc.checkExpr(call.Target)
		tc.report(diag.SemaNotCallable, tc.span(call.Target), "only named functions can be called")
		tc.checkArgs(call.Args)
		return TypeInvalid
	}

	var (
		params []Type
		result Type
		name   = tc.name(ident.Name)
	)
	if _, shadowed := tc.lookupLocal(ident.Name); shadowed {
		tc.report(diag.SemaNotCallable, tc.span(call.Target), "%q is a variable, not a function", name)
		tc.checkArgs(call.Args)
		return TypeInvalid
	}
	sym, ok := tc.top[ident.Name]
	switch {
	case !ok:
		tc.report(diag.SemaUnresolvedSymbol, tc.span(call.Target), "undefined name %q", name)
		tc.checkArgs(call.Args)
		return TypeInvalid
	case sym.kind == symFunc:
		f := tc.prog.Funcs[sym.index]
		params, result = f.Params, f.Result
		ident.Binding = ast.Binding{Kind: ast.BindFunc, Index: sym.index}
	case sym.kind == symIntrinsic:
		sig := Intrinsics[sym.index]
		params, result = sig.Params, sig.Result
		ident.Binding = ast.Binding{Kind: ast.BindIntrinsic, Index: sym.index}
	default:
		tc.report(diag.SemaNotCallable, tc.span(call.Target), "%q is a variable, not a function", name)
		tc.checkArgs(call.Args)
		return TypeInvalid
	}

	if len(call.Args) != len(params) {
		tc.report(diag.SemaArgumentCount, tc.span(id), "%s expects %d argument(s), got %d", name, len(params), len(call.Args))
		tc.checkArgs(call.Args)
		return result
	}
	for i, arg := range call.Args {
		got := tc.checkExpr(arg)
		tc.expectType(arg, got, params[i], "argument "+strconv.Itoa(i+1)+" of "+name)
	}
	return result
}

func (tc *typeChecker) checkArgs(args []ast.ExprID) {
	for _, a := range args {
		tc.checkExpr(a)
	}
}
