// Package check raises unrecoverable failures.
//
// A failed check panics with a *Failure; it is never returned as an error.
// ExitOnFailure, deferred in main, turns it into process termination.
package check

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// ExitCode is the status used by ExitOnFailure (EX_SOFTWARE).
const ExitCode = 70

// Failure is the panic payload of a failed check.
type Failure struct {
	Msg  string
	File string
	Line int
}

func (f *Failure) String() string {
	if f.File == "" {
		return "CHECK failure: " + f.Msg
	}
	return fmt.Sprintf("CHECK failure at %s:%d: %s", f.File, f.Line, f.Msg)
}

// That fails when cond is false.
func That(cond bool, format string, args ...any) {
	if cond {
		return
	}
	raise(2, format, args...)
}

// Failf fails unconditionally.
func Failf(format string, args ...any) {
	raise(2, format, args...)
}

func raise(skip int, format string, args ...any) {
	f := &Failure{Msg: fmt.Sprintf(format, args...)}
	if _, file, line, ok := runtime.Caller(skip); ok {
		f.File, f.Line = file, line
	}
	panic(f)
}

// Recover converts a recovered value back into a *Failure. Other panics are
// re-raised unchanged. Use as `defer func() { f = check.Recover(recover()) }()`.
func Recover(r any) *Failure {
	if r == nil {
		return nil
	}
	if f, ok := r.(*Failure); ok {
		return f
	}
	panic(r)
}

// ExitOnFailure is deferred at the top of main: it reports a failed check
// through report (stderr when nil) and exits with ExitCode.
func ExitOnFailure(report func(*Failure)) {
	f := Recover(recover())
	if f == nil {
		return
	}
	if report != nil {
		report(f)
	} else {
		writeFailure(os.Stderr, f)
	}
	os.Exit(ExitCode)
}

func writeFailure(w io.Writer, f *Failure) {
	fmt.Fprintln(w, f.String())
}
