package fuzzing

import (
	"context"
	"errors"
	"io"

	"ember/data"
	"ember/internal/ast"
	"ember/internal/check"
	"ember/internal/desc"
	"ember/internal/failure"
	"ember/internal/interp"
	"ember/internal/observ"
	"ember/internal/parser"
	"ember/internal/pipeline"
	"ember/internal/prelude"
	"ember/internal/render"
	"ember/internal/runfiles"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/trace"
)

// SourceName is the synthetic file name of every rendered program.
const SourceName = "Fuzzer.em"

type Options struct {
	// Runfiles configures prelude lookup relative to the executable.
	Runfiles runfiles.Options
	// PreludeID defaults to data.PreludeID.
	PreludeID string
	// Locate overrides the runfiles lookup; nil uses runfiles.Locate.
	Locate func(id string) (string, error)

	// Print and Tracer receive the analyzed program's own output. Nil
	// discards it.
	Print  io.Writer
	Tracer trace.Tracer

	MaxCallDepth int
	MaxSteps     int64

	// Timer, when set, records one phase per stage. Not safe for
	// concurrent invocations.
	Timer *observ.Timer
}

// Harness holds configuration only; every ParseAndExecute call builds its
// own arena, file set and interpreter.
type Harness struct {
	opts Options
}

func New(opts Options) *Harness {
	if opts.PreludeID == "" {
		opts.PreludeID = data.PreludeID
	}
	if opts.Print == nil {
		opts.Print = io.Discard
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Locate == nil {
		rf := opts.Runfiles
		opts.Locate = func(id string) (string, error) {
			return runfiles.Locate(id, rf)
		}
	}
	return &Harness{opts: opts}
}

// ParseAndExecute runs prog with the default harness.
func ParseAndExecute(ctx context.Context, prog *desc.Program) (int, error) {
	return New(Options{}).ParseAndExecute(ctx, prog)
}

// ParseAndExecute renders prog, runs it against the prelude and returns the
// value returned by Main.
func (h *Harness) ParseAndExecute(ctx context.Context, prog *desc.Program) (int, error) {
	root, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "fuzz:parse_and_execute")
	result, err := h.run(ctx, prog)
	root.WithExtra("verdict", string(Classify(err))).End("")
	return result, err
}

func (h *Harness) run(ctx context.Context, prog *desc.Program) (int, error) {
	var src string
	// rendering never fails
	_ = pipeline.Run(ctx, h.opts.Timer, pipeline.StageRender, func() error {
		src = render.Source(prog, true)
		return nil
	})

	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	var unit ast.Unit
	err := pipeline.Run(ctx, h.opts.Timer, pipeline.StageParse, func() error {
		u, bag := parser.ParseString(b, fs, SourceName, src)
		if bag.HasErrors() {
			fe := failure.FromBag(failure.Syntax, fs, bag)
			fe.Path = SourceName
			return fe
		}
		unit = u
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = pipeline.Run(ctx, h.opts.Timer, pipeline.StagePrelude, func() error {
		path, lerr := h.opts.Locate(h.opts.PreludeID)
		if lerr != nil {
			check.Failf("could not find prelude %s: %v", h.opts.PreludeID, lerr)
		}
		return prelude.Add(path, b, fs, &unit)
	})
	if err != nil {
		return 0, err
	}

	var program *sema.Program
	err = pipeline.Run(ctx, h.opts.Timer, pipeline.StageAnalyze, func() error {
		p, bag := sema.Analyze(b, fs, unit, sema.Options{Tracer: h.opts.Tracer, Print: h.opts.Print})
		if bag.HasErrors() {
			return failure.FromBag(failure.Semantic, fs, bag)
		}
		program = p
		return nil
	})
	if err != nil {
		return 0, err
	}

	var result int
	err = pipeline.Run(ctx, h.opts.Timer, pipeline.StageExecute, func() error {
		r, xerr := interp.Exec(program, interp.Options{
			Tracer:       h.opts.Tracer,
			Print:        h.opts.Print,
			MaxCallDepth: h.opts.MaxCallDepth,
			MaxSteps:     h.opts.MaxSteps,
		})
		if xerr != nil {
			return runtimeFailure(fs, xerr)
		}
		result = r
		return nil
	})
	return result, err
}

func runtimeFailure(fs *source.FileSet, err error) *failure.Error {
	fe := failure.Wrap(failure.Runtime, err, "")
	var rtErr *interp.Error
	if errors.As(err, &rtErr) {
		fe.Msg = fs.Location(rtErr.Span)
		for _, fr := range rtErr.Backtrace {
			fe.Diags = append(fe.Diags, fr.FuncName+" at "+fs.Location(fr.Span))
		}
	}
	return fe
}
