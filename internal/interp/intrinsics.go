package interp

import (
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ember/internal/sema"
	"ember/internal/source"
)

func (in *Interp) intrinsic(index uint32, args []Value, sp source.Span) (Value, error) {
	switch sema.Intrinsic(index) {
	case sema.IntrinsicPrint:
		// print failures are not program failures
		_, _ = io.WriteString(in.opts.Print, args[0].Str+"\n") //nolint:errcheck
		return unitValue, nil

	case sema.IntrinsicIntToStr:
		return stringValue(strconv.FormatInt(args[0].Int, 10)), nil

	case sema.IntrinsicStrLen:
		n := utf8.RuneCountInString(norm.NFC.String(args[0].Str))
		return in.checked(int64(n), sp, "string length")

	case sema.IntrinsicAssert:
		if !args[0].Bool {
			return Value{}, in.makeError(PanicAssertFailed, sp, "assertion failed: %s", args[1].Str)
		}
		return unitValue, nil
	}
	return Value{}, in.makeError(PanicInternal, sp, "unknown intrinsic #%d", index)
}
