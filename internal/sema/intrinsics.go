package sema

// Intrinsic numbers are the Binding.Index of BindIntrinsic identifiers.
type Intrinsic uint32

const (
	IntrinsicPrint Intrinsic = iota
	IntrinsicIntToStr
	IntrinsicStrLen
	IntrinsicAssert
)

type IntrinsicSig struct {
	Name   string
	Params []Type
	Result Type
}

// Intrinsics is indexed by Intrinsic.
var Intrinsics = [...]IntrinsicSig{
	IntrinsicPrint:    {Name: "__intrinsic_print", Params: []Type{TypeString}, Result: TypeUnit},
	IntrinsicIntToStr: {Name: "__intrinsic_int_to_str", Params: []Type{TypeI32}, Result: TypeString},
	IntrinsicStrLen:   {Name: "__intrinsic_str_len", Params: []Type{TypeString}, Result: TypeI32},
	IntrinsicAssert:   {Name: "__intrinsic_assert", Params: []Type{TypeBool, TypeString}, Result: TypeUnit},
}
