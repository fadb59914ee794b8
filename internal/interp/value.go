package interp

import (
	"strconv"
)

type ValueKind uint8

const (
	KindUnit ValueKind = iota
	KindBool
	KindInt
	KindString
)

// Value is a runtime value. Int always holds an i32 once stored.
type Value struct {
	Kind ValueKind
	Int  int64
	Bool bool
	Str  string
}

var unitValue = Value{Kind: KindUnit}

func intValue(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func boolValue(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func stringValue(v string) Value { return Value{Kind: KindString, Str: v} }

func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindString:
		return v.Str == o.Str
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindString:
		return strconv.Quote(v.Str)
	default:
		return "()"
	}
}
