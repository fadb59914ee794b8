// Package driver runs Ember source files from disk: parse, attach the
// prelude, analyze and execute, with the program's output on stdout.
//
// Unlike the fuzzing harness, every failure here is an ordinary error,
// including a prelude that cannot be located.
package driver

import (
	"context"
	"errors"
	"io"
	"os"

	"ember/data"
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/failure"
	"ember/internal/interp"
	"ember/internal/observ"
	"ember/internal/parser"
	"ember/internal/pipeline"
	"ember/internal/prelude"
	"ember/internal/runfiles"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/trace"
)

type Options struct {
	Runfiles  runfiles.Options
	PreludeID string // defaults to data.PreludeID
	// PreludePath bypasses the runfiles lookup.
	PreludePath string

	// Stdout receives __intrinsic_print output; nil means os.Stdout.
	Stdout io.Writer
	// Tracer receives the program's call spans; nil means trace.Nop.
	Tracer trace.Tracer

	MaxErrors    int
	MaxCallDepth int
	MaxSteps     int64

	Timer *observ.Timer

	// Report, when set, sees every diagnosed Result before RunFile decides
	// whether to execute it.
	Report func(*Result)
}

// Result is everything Diagnose produced. Program is nil when Bag holds
// errors.
type Result struct {
	Files   *source.FileSet
	Builder *ast.Builder
	Unit    ast.Unit
	Program *sema.Program
	Bag     *diag.Bag
	// Failed is the stage whose diagnostics stopped the pipeline.
	Failed pipeline.Stage
}

func (o *Options) defaults() {
	if o.PreludeID == "" {
		o.PreludeID = data.PreludeID
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = parser.DefaultMaxErrors
	}
}

// Diagnose parses path, attaches the prelude and analyzes the result.
// Diagnostics in the program are reported through Result.Bag with a nil
// error; err is set for everything else (missing file, prelude lookup).
func Diagnose(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.defaults()
	res := &Result{
		Files:   source.NewFileSet(),
		Builder: ast.NewBuilder(ast.Hints{}),
	}

	var bag *diag.Bag
	err := pipeline.Run(ctx, opts.Timer, pipeline.StageParse, func() error {
		unit, b, perr := parser.ParseFile(res.Builder, res.Files, path)
		if perr != nil {
			if errors.Is(perr, os.ErrNotExist) {
				return failure.Missing(path)
			}
			return failure.Wrap(failure.Configuration, perr, "read %s", path)
		}
		res.Unit, bag = unit, b
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Bag = bag
	if bag.HasErrors() {
		res.Failed = pipeline.StageParse
		return res, nil
	}

	err = pipeline.Run(ctx, opts.Timer, pipeline.StagePrelude, func() error {
		p := opts.PreludePath
		if p == "" {
			var lerr error
			if p, lerr = runfiles.Locate(opts.PreludeID, opts.Runfiles); lerr != nil {
				return lerr
			}
		}
		return prelude.Add(p, res.Builder, res.Files, &res.Unit)
	})
	if err != nil {
		return nil, err
	}

	err = pipeline.Run(ctx, opts.Timer, pipeline.StageAnalyze, func() error {
		prog, sbag := sema.Analyze(res.Builder, res.Files, res.Unit, sema.Options{
			Tracer:    opts.Tracer,
			Print:     opts.Stdout,
			MaxErrors: opts.MaxErrors,
		})
		res.Bag.Merge(sbag)
		if sbag.HasErrors() {
			res.Failed = pipeline.StageAnalyze
		} else {
			res.Program = prog
		}
		return nil
	})
	return res, err
}

// Execute runs an analyzed program.
func Execute(ctx context.Context, res *Result, opts Options) (int, error) {
	opts.defaults()
	if res == nil || res.Program == nil {
		return 0, failure.New(failure.Semantic, "program was not analyzed")
	}
	var out int
	err := pipeline.Run(ctx, opts.Timer, pipeline.StageExecute, func() error {
		r, xerr := interp.Exec(res.Program, interp.Options{
			Tracer:       opts.Tracer,
			Print:        opts.Stdout,
			MaxCallDepth: opts.MaxCallDepth,
			MaxSteps:     opts.MaxSteps,
		})
		if xerr != nil {
			return failure.Wrap(failure.Runtime, xerr, "%s", sourcePath(res))
		}
		out = r
		return nil
	})
	return out, err
}

// RunFile is Diagnose followed by Execute. Diagnostics become Syntax or
// Semantic failures.
func RunFile(ctx context.Context, path string, opts Options) (int, error) {
	res, err := Diagnose(ctx, path, opts)
	if err != nil {
		return 0, err
	}
	if opts.Report != nil {
		opts.Report(res)
	}
	if err := BagError(res); err != nil {
		return 0, err
	}
	return Execute(ctx, res, opts)
}

// BagError converts errors in res.Bag into a failure, nil when clean.
func BagError(res *Result) error {
	if res == nil || !res.Bag.HasErrors() {
		return nil
	}
	kind := failure.Semantic
	if res.Failed == pipeline.StageParse {
		kind = failure.Syntax
	}
	return failure.FromBag(kind, res.Files, res.Bag)
}

func sourcePath(res *Result) string {
	if f := res.Builder.Files.Get(res.Unit.File); f != nil {
		if sf := res.Files.Get(f.Source); sf != nil {
			return sf.Path
		}
	}
	return ""
}
