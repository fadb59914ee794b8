// Package sema analyzes a parsed unit: name resolution, type checking and
// entry point validation. Resolved bindings are written back into the arena.
package sema

import (
	"fmt"
	"io"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/trace"
)

// EntryName is the function execution starts at.
const EntryName = "Main"

// DefaultMaxErrors caps the diagnostics of one analysis.
const DefaultMaxErrors = 64

// Options configure a semantic pass over a unit.
type Options struct {
	// Tracer receives one span per analyzed function. Nil means trace.Nop.
	Tracer trace.Tracer
	// Print is the program's print sink. Analysis never writes to it.
	Print     io.Writer
	MaxErrors int
}

type symbolKind uint8

const (
	symFunc symbolKind = iota + 1
	symGlobal
	symIntrinsic
)

type symbol struct {
	kind  symbolKind
	index uint32
	span  source.Span
}

type typeChecker struct {
	builder  *ast.Builder
	fs       *source.FileSet
	reporter diag.Reporter
	tracer   trace.Tracer
	prog     *Program

	top    map[source.StringID]symbol
	scopes []scope
	fn     *fnState
	// globals with slot >= globalLimit are not yet initialized
	globalLimit int
}

// Analyze checks unit and returns the program ready for execution. The bag
// holds every diagnostic; the program must not be executed when the bag has
// errors.
func Analyze(b *ast.Builder, fs *source.FileSet, unit ast.Unit, opts Options) (*Program, *diag.Bag) {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = DefaultMaxErrors
	}
	bag := diag.NewBag(opts.MaxErrors)
	tc := &typeChecker{
		builder:  b,
		fs:       fs,
		reporter: diag.BagReporter{Bag: bag},
		tracer:   opts.Tracer,
		prog: &Program{
			Builder:   b,
			Files:     fs,
			Unit:      unit,
			ExprTypes: make([]Type, b.Exprs.Arena.Len()+1),
		},
		top: make(map[source.StringID]symbol, len(unit.Decls)+len(Intrinsics)),
	}
	tc.run()
	return tc.prog, bag
}

func (tc *typeChecker) report(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.builder.Name(id)
}

func (tc *typeChecker) run() {
	sp := trace.Begin(tc.tracer, trace.ScopeStage, "sema", 0)
	defer sp.End("")

	tc.collectTop()
	tc.checkGlobals()
	for i := range tc.prog.Funcs {
		tc.checkFunc(uint32(i))
	}
	tc.validateEntrypoint()
}

// collectTop registers every function and global. Functions are hoisted;
// globals keep declaration order.
func (tc *typeChecker) collectTop() {
	for i, sig := range Intrinsics {
		tc.top[tc.builder.Strings.Intern(sig.Name)] = symbol{kind: symIntrinsic, index: uint32(i)}
	}

	for _, itemID := range tc.prog.Unit.Decls {
		name, nameSpan := tc.builder.Items.DeclName(itemID)
		if prev, ok := tc.top[name]; ok {
			b := diag.ReportError(tc.reporter, diag.SemaDuplicateSymbol, nameSpan,
				fmt.Sprintf("%q is already declared", tc.name(name)))
			if prev.kind != symIntrinsic {
				b.WithNote(prev.span, "previous declaration is here")
			}
			b.Emit()
			continue
		}

		switch item := tc.builder.Items.Get(itemID); item.Kind {
		case ast.ItemFn:
			fn, _ := tc.builder.Items.Fn(itemID)
			f := Func{
				Name:   tc.name(fn.Name),
				Item:   itemID,
				Result: tc.resolveType(fn.Result),
				Span:   nameSpan,
			}
			for _, p := range fn.Params {
				f.Params = append(f.Params, tc.resolveType(p.Type))
			}
			tc.top[name] = symbol{kind: symFunc, index: uint32(len(tc.prog.Funcs)), span: nameSpan}
			tc.prog.Funcs = append(tc.prog.Funcs, f)

		case ast.ItemVar:
			v, _ := tc.builder.Items.Var(itemID)
			tc.top[name] = symbol{kind: symGlobal, index: uint32(len(tc.prog.Globals)), span: nameSpan}
			tc.prog.Globals = append(tc.prog.Globals, Global{
				Name: tc.name(v.Name),
				Item: itemID,
				Type: tc.resolveType(v.Type),
				Init: v.Value,
			})
		}
	}
}

// resolveType maps a written type; omitted means unit.
func (tc *typeChecker) resolveType(t ast.TypeExpr) Type {
	if t.IsOmitted() || t.Unit {
		return TypeUnit
	}
	if ty, ok := builtinTypes[tc.name(t.Name)]; ok {
		return ty
	}
	tc.report(diag.SemaUnknownType, t.Span, "unknown type %q", tc.name(t.Name))
	return TypeInvalid
}

func (tc *typeChecker) checkGlobals() {
	for i := range tc.prog.Globals {
		g := &tc.prog.Globals[i]
		tc.globalLimit = i
		got := tc.checkExpr(g.Init)
		tc.expectType(g.Init, got, g.Type, "initializer of "+g.Name)
	}
	tc.globalLimit = len(tc.prog.Globals)
}

func (tc *typeChecker) checkFunc(index uint32) {
	f := &tc.prog.Funcs[index]
	fn, _ := tc.builder.Items.Fn(f.Item)

	sp := trace.Begin(tc.tracer, trace.ScopeFunc, "fn:"+f.Name, 0)
	defer sp.End("")

	tc.fn = &fnState{result: f.Result}
	tc.pushScope()
	for i, p := range fn.Params {
		tc.declareLocal(p.Name, p.Span, f.Params[i], false)
	}
	// the body block shares the parameter scope
	body, _ := tc.builder.Stmts.Block(fn.Body)
	for _, st := range body.Stmts {
		tc.checkStmt(st)
	}
	tc.popScope()

	f.Frame = tc.fn.nextSlot
	if f.Result != TypeUnit && f.Result != TypeInvalid && !tc.alwaysReturns(fn.Body) {
		tc.report(diag.SemaMissingReturn, f.Span, "function %s must return a value of type %s on every path", f.Name, f.Result)
	}
	tc.fn = nil
}

func (tc *typeChecker) validateEntrypoint() {
	for i, f := range tc.prog.Funcs {
		if f.Name != EntryName {
			continue
		}
		tc.prog.Main = uint32(i)
		if len(f.Params) != 0 || f.Result != TypeI32 {
			tc.report(diag.SemaEntrypointSignature, f.Span, "%s must be declared as `fn %s() -> i32`", EntryName, EntryName)
		}
		return
	}
	sp := source.Span{}
	if f := tc.builder.Files.Get(tc.prog.Unit.File); f != nil {
		sp = source.Span{File: f.Span.File, Start: f.Span.Start, End: f.Span.Start}
	}
	tc.report(diag.SemaEntrypointNotFound, sp, "program has no %s function", EntryName)
}
