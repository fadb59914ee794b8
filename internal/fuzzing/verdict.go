package fuzzing

import (
	"github.com/fatih/color"

	"ember/internal/failure"
)

// Verdict classifies one invocation. An Abort never produces a verdict.
type Verdict string

const (
	VerdictOK       Verdict = "ok"
	VerdictSyntax   Verdict = "syntax"
	VerdictSemantic Verdict = "semantic"
	VerdictRuntime  Verdict = "runtime"
	// VerdictError covers failures outside the program itself
	// (configuration, missing files).
	VerdictError Verdict = "error"
)

// Verdicts lists every verdict in report order.
var Verdicts = []Verdict{VerdictOK, VerdictSyntax, VerdictSemantic, VerdictRuntime, VerdictError}

func Classify(err error) Verdict {
	if err == nil {
		return VerdictOK
	}
	switch failure.KindOf(err) {
	case failure.Syntax:
		return VerdictSyntax
	case failure.Semantic:
		return VerdictSemantic
	case failure.Runtime:
		return VerdictRuntime
	default:
		return VerdictError
	}
}

var verdictColors = map[Verdict]*color.Color{
	VerdictOK:       color.New(color.FgGreen),
	VerdictSyntax:   color.New(color.FgYellow),
	VerdictSemantic: color.New(color.FgMagenta),
	VerdictRuntime:  color.New(color.FgRed),
	VerdictError:    color.New(color.FgRed, color.Bold),
}

// Colored returns v for terminal output; color.NoColor disables it.
func (v Verdict) Colored() string {
	if c, ok := verdictColors[v]; ok {
		return c.Sprint(string(v))
	}
	return string(v)
}
