// Package failure classifies recoverable pipeline failures.
//
// A *Error always carries one Kind. Fatal conditions are not errors at all;
// see package check.
package failure

import (
	"errors"
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/source"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	// Configuration: the runtime resource layout could not be established.
	Configuration
	// NotFound: a resource mapped to a path that does not exist.
	NotFound
	// Syntax: rendered or loaded source failed to parse.
	Syntax
	// Semantic: the parsed program failed analysis.
	Semantic
	// Runtime: execution failed.
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case NotFound:
		return "not found"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind  Kind
	Msg   string
	Path  string   // offending path, for Configuration and NotFound
	Diags []string // rendered diagnostics, "path:line:col: CODE message"
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Missing is the NotFound error for path.
func Missing(path string) *Error {
	return &Error{Kind: NotFound, Msg: "no such file " + path, Path: path}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromBag builds an error of kind from the error diagnostics in bag.
// Msg is the first error located in fs.
func FromBag(kind Kind, fs *source.FileSet, bag *diag.Bag) *Error {
	e := &Error{Kind: kind}
	if bag == nil {
		return e
	}
	for _, d := range bag.Items() {
		if d.Severity < diag.SevError {
			continue
		}
		line := fmt.Sprintf("%s: %s %s", fs.Location(d.Primary), d.Code.ID(), d.Message)
		if e.Msg == "" {
			e.Msg = line
		}
		e.Diags = append(e.Diags, line)
	}
	return e
}
