package ast

import (
	"ember/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLit
	ExprCall
	ExprBinary
	ExprUnary
	ExprGroup
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLit:
		return "lit"
	case ExprCall:
		return "call"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	case ExprGroup:
		return "group"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprLitKind distinguishes literal flavours.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota + 1
	ExprLitTrue
	ExprLitFalse
	ExprLitString
	ExprLitUnit
)

// ExprUnaryOp enumerates prefix operators.
type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota + 1
	ExprUnaryNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryNot:
		return "not"
	default:
		return "?"
	}
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota + 1
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	// Логические
	ExprBinaryAnd
	ExprBinaryOr
)

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNotEq:
		return "!="
	case ExprBinaryLess:
		return "<"
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryGreaterEq:
		return ">="
	case ExprBinaryAnd:
		return "and"
	case ExprBinaryOr:
		return "or"
	default:
		return "?"
	}
}

// IsArithmetic reports whether op works on i32 operands and yields i32.
func (op ExprBinaryOp) IsArithmetic() bool {
	return op >= ExprBinaryAdd && op <= ExprBinaryMod
}

// IsOrdering reports whether op is one of < <= > >=.
func (op ExprBinaryOp) IsOrdering() bool {
	return op >= ExprBinaryLess && op <= ExprBinaryGreaterEq
}

// IsEquality reports whether op is == or !=.
func (op ExprBinaryOp) IsEquality() bool {
	return op == ExprBinaryEq || op == ExprBinaryNotEq
}

// IsLogical reports whether op is and/or.
func (op ExprBinaryOp) IsLogical() bool {
	return op == ExprBinaryAnd || op == ExprBinaryOr
}

// BindingKind tells what an identifier refers to after analysis.
type BindingKind uint8

const (
	BindNone BindingKind = iota
	BindGlobal
	BindLocal
	BindFunc
	BindIntrinsic
)

// Binding is filled in by semantic analysis. Index is a global slot, a frame
// slot, a function number or an intrinsic number depending on Kind.
type Binding struct {
	Kind  BindingKind
	Index uint32
}

type ExprIdentData struct {
	Name    source.StringID
	Binding Binding
}

// ExprLiteralData holds a literal. For strings Value is the decoded text; for
// integers it is the digit string and Int the parsed magnitude (Overflow is set
// when the digits do not fit into uint64).
type ExprLiteralData struct {
	Kind     ExprLitKind
	Value    source.StringID
	Int      uint64
	Overflow bool
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprGroupData struct {
	Inner ExprID
}
