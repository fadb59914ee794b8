package sema

import (
	"testing"

	"ember/data"
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/parser"
	"ember/internal/source"
	"ember/internal/trace"
)

func analyze(t *testing.T, src string) (*Program, *diag.Bag, *source.FileSet) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	unit, bag := parser.ParseString(b, fs, "test.em", src)
	if bag.HasErrors() {
		d, _ := bag.FirstError()
		t.Fatalf("parse error: %s at %s", d.Message, fs.Location(d.Primary))
	}
	pre, pbag := parser.ParseString(b, fs, "prelude.em", string(data.Prelude))
	if pbag.HasErrors() {
		t.Fatalf("prelude does not parse")
	}
	unit.AddPrelude(pre.Decls)
	prog, sbag := Analyze(b, fs, unit, Options{})
	return prog, sbag, fs
}

func requireClean(t *testing.T, src string) *Program {
	t.Helper()
	prog, bag, fs := analyze(t, src)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s %s", fs.Location(d.Primary), d.Code.ID(), d.Message)
		}
		t.Fatalf("unexpected semantic errors")
	}
	return prog
}

func requireError(t *testing.T, src string, want diag.Code) diag.Diagnostic {
	t.Helper()
	_, bag, fs := analyze(t, src)
	d, ok := bag.FirstError()
	if !ok {
		t.Fatalf("expected %s, got no errors", want.ID())
	}
	if d.Code != want {
		t.Fatalf("first error = %s %q at %s, want %s", d.Code.ID(), d.Message, fs.Location(d.Primary), want.ID())
	}
	return d
}

func TestPreludeAloneIsWellFormed(t *testing.T) {
	prog := requireClean(t, "fn Main() -> i32 { return 0; }")
	if len(prog.Globals) != 2 {
		t.Fatalf("globals = %d, want INT_MAX and INT_MIN", len(prog.Globals))
	}
	if prog.Funcs[prog.Main].Name != "Main" {
		t.Fatalf("Main index points at %s", prog.Funcs[prog.Main].Name)
	}
}

func TestBindingsAreWrittenIntoArena(t *testing.T) {
	prog := requireClean(t, `
var counter: i32 = 1;
fn Bump(by: i32) -> i32 {
	var next: i32 = counter + by;
	counter = next;
	return next;
}
fn Main() -> i32 {
	Print("hi");
	return Bump(INT_MIN + 2147483647);
}
`)
	b := prog.Builder
	kinds := map[string]ast.BindingKind{}
	for i := uint32(1); i <= b.Exprs.Arena.Len(); i++ {
		if id, ok := b.Exprs.Ident(ast.ExprID(i)); ok && id.Binding.Kind != ast.BindNone {
			kinds[b.Name(id.Name)] = id.Binding.Kind
		}
	}
	want := map[string]ast.BindingKind{
		"counter":           ast.BindGlobal,
		"by":                ast.BindLocal,
		"next":              ast.BindLocal,
		"Print":             ast.BindFunc,
		"Bump":              ast.BindFunc,
		"INT_MIN":           ast.BindGlobal,
		"__intrinsic_print": ast.BindIntrinsic,
	}
	for name, k := range want {
		if kinds[name] != k {
			t.Fatalf("%s bound as %d, want %d", name, kinds[name], k)
		}
	}
	for _, f := range prog.Funcs {
		if f.Name == "Bump" && f.Frame != 2 {
			t.Fatalf("Bump frame = %d, want 2", f.Frame)
		}
	}
}

func TestUndefinedNameHasLocation(t *testing.T) {
	d := requireError(t, "fn Main() -> i32 { return Foo(); }", diag.SemaUnresolvedSymbol)
	if d.Primary.Empty() {
		t.Fatalf("diagnostic must carry a location")
	}
}

func TestSemanticErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"mismatch", `fn Main() -> i32 { var b: bool = 1; return 0; }`, diag.SemaTypeMismatch},
		{"return type", `fn Main() -> i32 { return true; }`, diag.SemaTypeMismatch},
		{"condition", `fn Main() -> i32 { if (1) { } return 0; }`, diag.SemaTypeMismatch},
		{"missing return", `fn F(x: i32) -> i32 { if (x > 0) { return 1; } } fn Main() -> i32 { return 0; }`, diag.SemaMissingReturn},
		{"break outside", `fn Main() -> i32 { break; return 0; }`, diag.SemaBreakOutsideLoop},
		{"top redeclared", `fn Main() -> i32 { return 0; } var Main: i32 = 1;`, diag.SemaDuplicateSymbol},
		{"prelude clash", `fn Print(s: String) { } fn Main() -> i32 { return 0; }`, diag.SemaDuplicateSymbol},
		{"block redeclared", `fn Main() -> i32 { var a: i32 = 1; var a: i32 = 2; return a; }`, diag.SemaDuplicateSymbol},
		{"param redeclared", `fn F(a: i32) { var a: i32 = 1; } fn Main() -> i32 { return 0; }`, diag.SemaDuplicateSymbol},
		{"assign param", `fn F(a: i32) { a = 2; } fn Main() -> i32 { return 0; }`, diag.SemaNotAssignable},
		{"assign call", `fn Main() -> i32 { Abs(1) = 2; return 0; }`, diag.SemaNotAssignable},
		{"literal range", `fn Main() -> i32 { return 2147483648; }`, diag.SemaIntLiteralRange},
		{"no main", `fn F() { }`, diag.SemaEntrypointNotFound},
		{"main signature", `fn Main(x: i32) -> i32 { return x; }`, diag.SemaEntrypointSignature},
		{"main unit", `fn Main() { }`, diag.SemaEntrypointSignature},
		{"global order", `var a: i32 = b; var b: i32 = 1; fn Main() -> i32 { return a; }`, diag.SemaUseBeforeDeclaration},
		{"call variable", `fn Main() -> i32 { var f: i32 = 1; return f(); }`, diag.SemaNotCallable},
		{"fn as value", `fn Main() -> i32 { var f: i32 = Abs; return 0; }`, diag.SemaNotAValue},
		{"arity", `fn Main() -> i32 { return Abs(1, 2); }`, diag.SemaArgumentCount},
		{"arg type", `fn Main() -> i32 { return Abs("x"); }`, diag.SemaTypeMismatch},
		{"unknown type", `fn Main() -> i32 { var x: float = 1; return 0; }`, diag.SemaUnknownType},
		{"bad binary", `fn Main() -> i32 { return 1 + "x"; }`, diag.SemaInvalidBinaryOperands},
		{"bad equality", `fn Main() -> i32 { var b: bool = 1 == true; return 0; }`, diag.SemaInvalidBinaryOperands},
		{"bad unary", `fn Main() -> i32 { var b: bool = not 1; return 0; }`, diag.SemaInvalidUnaryOperand},
		{"bare return", `fn Main() -> i32 { return; }`, diag.SemaTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireError(t, tc.src, tc.want)
		})
	}
}

func TestAcceptedPrograms(t *testing.T) {
	srcs := []string{
		`fn Main() -> i32 { return -2147483648 + 2147483647 + 1; }`,
		`fn Main() -> i32 { var s: String = "a" + "b"; if (s == "ab") { return 1; } else { return 2; } }`,
		`fn Main() -> i32 { var i: i32 = 0; while (true) { i = i + 1; if (i > 3) { break; } continue; } return i; }`,
		`fn Main() -> i32 { var a: i32 = 1; { var a: i32 = 2; } return a; }`,
		`fn U() -> () { return (); } fn Main() -> i32 { U(); return 0; }`,
		`fn Main() -> i32 { return Later(); } fn Later() -> i32 { return INT_MAX; }`,
		`var g: i32 = Abs(-3); fn Main() -> i32 { return g; }`,
	}
	for _, src := range srcs {
		requireClean(t, src)
	}
}

func TestTracerGetsFunctionSpans(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	unit, _ := parser.ParseString(b, fs, "t.em", "fn Main() -> i32 { return 0; }")
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	_, bag := Analyze(b, fs, unit, Options{Tracer: ring})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	found := false
	for _, ev := range ring.Snapshot() {
		if ev.Name == "fn:Main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no span for Main")
	}
}
