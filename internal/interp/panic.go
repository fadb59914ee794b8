package interp

import (
	"fmt"
	"strings"

	"ember/internal/source"
)

// PanicCode identifies the type of runtime failure.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicIntegerOverflow     PanicCode = 4001 // RT4001: i32 overflow
	PanicDivisionByZero      PanicCode = 4002 // RT4002: division or remainder by zero
	PanicAssertFailed        PanicCode = 4003 // RT4003: __intrinsic_assert(false, ...)
	PanicStackOverflow       PanicCode = 4004 // RT4004: call depth above MaxCallDepth
	PanicUninitializedGlobal PanicCode = 4005 // RT4005: global read during its own initialization
	PanicStepLimit           PanicCode = 4006 // RT4006: MaxSteps exhausted
	PanicInternal            PanicCode = 4999 // RT4999: malformed program reached the interpreter
)

func (c PanicCode) String() string {
	return fmt.Sprintf("RT%d", c)
}

// BacktraceFrame represents one frame in the panic backtrace.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span
}

// Error is a runtime failure of the interpreted program.
type Error struct {
	Code      PanicCode
	Message   string
	Span      source.Span      // where it happened
	Backtrace []BacktraceFrame // innermost first
}

func (e *Error) Error() string {
	return fmt.Sprintf("panic %s: %s", e.Code, e.Message)
}

// FormatWithFiles formats the panic with resolved file:line:col information.
func (e *Error) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s\n", e.Code, e.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteString("\n")
	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	return files.Location(span)
}

func (in *Interp) makeError(code PanicCode, sp source.Span, format string, args ...any) *Error {
	e := &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    sp,
	}
	e.Backtrace = make([]BacktraceFrame, 0, len(in.stack))
	for i := len(in.stack) - 1; i >= 0; i-- {
		fr := in.stack[i]
		e.Backtrace = append(e.Backtrace, BacktraceFrame{FuncName: fr.name, Span: fr.at})
	}
	return e
}
