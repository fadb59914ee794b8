package interp

import (
	"fortio.org/safecast"

	"ember/internal/ast"
	"ember/internal/source"
)

func (in *Interp) eval(id ast.ExprID) (Value, error) {
	e := in.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprLit:
		lit, _ := in.b.Exprs.Literal(id)
		switch lit.Kind {
		case ast.ExprLitInt:
			// may be 2^31 here; only as the operand of a negation
			return intValue(int64(lit.Int)), nil //nolint:gosec
		case ast.ExprLitTrue:
			return boolValue(true), nil
		case ast.ExprLitFalse:
			return boolValue(false), nil
		case ast.ExprLitString:
			return stringValue(in.b.Name(lit.Value)), nil
		default:
			return unitValue, nil
		}

	case ast.ExprIdent:
		ident, _ := in.b.Exprs.Ident(id)
		return in.load(ident, e.Span)

	case ast.ExprGroup:
		g, _ := in.b.Exprs.Group(id)
		return in.eval(g.Inner)

	case ast.ExprUnary:
		return in.evalUnary(id, e.Span)

	case ast.ExprBinary:
		return in.evalBinary(id, e.Span)

	case ast.ExprCall:
		return in.evalCall(id, e.Span)
	}
	return Value{}, in.makeError(PanicInternal, e.Span, "cannot evaluate %s expression", e.Kind)
}

func (in *Interp) load(ident *ast.ExprIdentData, sp source.Span) (Value, error) {
	switch ident.Binding.Kind {
	case ast.BindLocal:
		return in.top().slots[ident.Binding.Index], nil
	case ast.BindGlobal:
		if !in.ready[ident.Binding.Index] {
			return Value{}, in.makeError(PanicUninitializedGlobal, sp,
				"global %s read before its initializer finished", in.b.Name(ident.Name))
		}
		return in.globals[ident.Binding.Index], nil
	}
	return Value{}, in.makeError(PanicInternal, sp, "unbound identifier %s", in.b.Name(ident.Name))
}

// checked narrows an intermediate result back into i32.
func (in *Interp) checked(v int64, sp source.Span, op string) (Value, error) {
	n, err := safecast.Conv[int32](v)
	if err != nil {
		return Value{}, in.makeError(PanicIntegerOverflow, sp, "integer overflow in %s", op)
	}
	return intValue(int64(n)), nil
}

func (in *Interp) evalUnary(id ast.ExprID, sp source.Span) (Value, error) {
	un, _ := in.b.Exprs.Unary(id)
	v, err := in.eval(un.Operand)
	if err != nil {
		return Value{}, err
	}
	if un.Op == ast.ExprUnaryNot {
		return boolValue(!v.Bool), nil
	}
	return in.checked(-v.Int, sp, "negation")
}

func (in *Interp) evalBinary(id ast.ExprID, sp source.Span) (Value, error) {
	bin, _ := in.b.Exprs.Binary(id)

	left, err := in.eval(bin.Left)
	if err != nil {
		return Value{}, err
	}
	// short-circuit
	switch bin.Op {
	case ast.ExprBinaryAnd:
		if !left.Bool {
			return left, nil
		}
		return in.eval(bin.Right)
	case ast.ExprBinaryOr:
		if left.Bool {
			return left, nil
		}
		return in.eval(bin.Right)
	}

	right, err := in.eval(bin.Right)
	if err != nil {
		return Value{}, err
	}

	switch bin.Op {
	case ast.ExprBinaryEq:
		return boolValue(left.Equal(right)), nil
	case ast.ExprBinaryNotEq:
		return boolValue(!left.Equal(right)), nil
	case ast.ExprBinaryLess:
		return boolValue(left.Int < right.Int), nil
	case ast.ExprBinaryLessEq:
		return boolValue(left.Int <= right.Int), nil
	case ast.ExprBinaryGreater:
		return boolValue(left.Int > right.Int), nil
	case ast.ExprBinaryGreaterEq:
		return boolValue(left.Int >= right.Int), nil
	case ast.ExprBinaryAdd:
		if left.Kind == KindString {
			return stringValue(left.Str + right.Str), nil
		}
		return in.checked(left.Int+right.Int, sp, "addition")
	case ast.ExprBinarySub:
		return in.checked(left.Int-right.Int, sp, "subtraction")
	case ast.ExprBinaryMul:
		return in.checked(left.Int*right.Int, sp, "multiplication")
	case ast.ExprBinaryDiv:
		if right.Int == 0 {
			return Value{}, in.makeError(PanicDivisionByZero, sp, "division by zero")
		}
		return in.checked(left.Int/right.Int, sp, "division")
	case ast.ExprBinaryMod:
		if right.Int == 0 {
			return Value{}, in.makeError(PanicDivisionByZero, sp, "remainder by zero")
		}
		return in.checked(left.Int%right.Int, sp, "remainder")
	}
	return Value{}, in.makeError(PanicInternal, sp, "unknown operator %s", bin.Op)
}

func (in *Interp) evalCall(id ast.ExprID, sp source.Span) (Value, error) {
	call, _ := in.b.Exprs.Call(id)
	target, _ := in.b.Exprs.Ident(call.Target)

	args := make([]Value, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := in.eval(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	switch target.Binding.Kind {
	case ast.BindFunc:
		return in.call(target.Binding.Index, args, sp)
	case ast.BindIntrinsic:
		return in.intrinsic(target.Binding.Index, args, sp)
	}
	return Value{}, in.makeError(PanicInternal, sp, "%s is not callable", in.b.Name(target.Name))
}
