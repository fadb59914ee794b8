package parser

import (
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/testkit"
)

func parseSrc(t *testing.T, src string) (*ast.Builder, *source.FileSet, ast.Unit, *diag.Bag) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	unit, bag := ParseString(b, fs, "test.em", src)
	return b, fs, unit, bag
}

func requireOK(t *testing.T, src string) (*ast.Builder, ast.Unit) {
	t.Helper()
	b, fs, unit, bag := parseSrc(t, src)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s %s", fs.Location(d.Primary), d.Code.ID(), d.Message)
		}
		t.Fatalf("unexpected diagnostics for %q", src)
	}
	f := b.Files.Get(unit.File)
	if err := testkit.CheckSpanInvariants(b, unit.File, fs.Get(f.Source)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return b, unit
}

func requireCode(t *testing.T, src string, want diag.Code) {
	t.Helper()
	_, fs, _, bag := parseSrc(t, src)
	d, ok := bag.FirstError()
	if !ok {
		t.Fatalf("expected %s for %q, got no errors", want.ID(), src)
	}
	if d.Code != want {
		t.Fatalf("first error for %q = %s (%s at %s), want %s",
			src, d.Code.ID(), d.Message, fs.Location(d.Primary), want.ID())
	}
}

func TestParseFunctionsAndGlobals(t *testing.T) {
	src := `
var limit: i32 = 10;

fn Add(a: i32, b: i32) -> i32 {
	return (a + b);
}

fn Log(msg: String) {
	Print(msg);
	return;
}

fn Main() -> i32 {
	var i: i32 = 0;
	var ok: bool = true;
	while ((i < limit)) {
		i = (i + 1);
		if ((i == 5)) { continue; } else if (not ok) { break; } else { }
	}
	{ var inner: () = (); }
	return Add(i, -1);
}
`
	b, unit := requireOK(t, src)
	if len(unit.Decls) != 4 {
		t.Fatalf("decls = %d, want 4", len(unit.Decls))
	}
	if unit.NumPreludeDecls != 0 {
		t.Fatalf("NumPreludeDecls = %d", unit.NumPreludeDecls)
	}
	if _, ok := b.Items.Var(unit.Decls[0]); !ok {
		t.Fatalf("first decl must be var")
	}
	fn, ok := b.Items.Fn(unit.Decls[1])
	if !ok {
		t.Fatalf("second decl must be fn")
	}
	if b.Name(fn.Name) != "Add" || len(fn.Params) != 2 || b.Name(fn.Result.Name) != "i32" {
		t.Fatalf("bad fn header: %s %d %s", b.Name(fn.Name), len(fn.Params), b.Name(fn.Result.Name))
	}
	logFn, _ := b.Items.Fn(unit.Decls[2])
	if !logFn.Result.IsOmitted() {
		t.Fatalf("Log result should be omitted")
	}
}

func TestParsePrecedence(t *testing.T) {
	b, unit := requireOK(t, `var x: i32 = 1 + 2 * 3 - 4;`)
	v, _ := b.Items.Var(unit.Decls[0])
	top, ok := b.Exprs.Binary(v.Value)
	if !ok || top.Op != ast.ExprBinarySub {
		t.Fatalf("top operator should be '-', got %+v", top)
	}
	left, ok := b.Exprs.Binary(top.Left)
	if !ok || left.Op != ast.ExprBinaryAdd {
		t.Fatalf("left operand should be '+'")
	}
	mul, ok := b.Exprs.Binary(left.Right)
	if !ok || mul.Op != ast.ExprBinaryMul {
		t.Fatalf("'*' should bind tighter than '+'")
	}
}

func TestParseLogicalAndUnary(t *testing.T) {
	b, unit := requireOK(t, `var x: bool = not a or b and c == d;`)
	v, _ := b.Items.Var(unit.Decls[0])
	or, ok := b.Exprs.Binary(v.Value)
	if !ok || or.Op != ast.ExprBinaryOr {
		t.Fatalf("top operator should be 'or'")
	}
	if _, ok := b.Exprs.Unary(or.Left); !ok {
		t.Fatalf("'not' should apply to a only")
	}
	and, ok := b.Exprs.Binary(or.Right)
	if !ok || and.Op != ast.ExprBinaryAnd {
		t.Fatalf("right side should be 'and'")
	}
}

func TestParseLiterals(t *testing.T) {
	b, unit := requireOK(t, `var s: String = "a\tb"; var big: i32 = 99999999999999999999999; var u: () = ();`)
	s, _ := b.Items.Var(unit.Decls[0])
	lit, ok := b.Exprs.Literal(s.Value)
	if !ok || lit.Kind != ast.ExprLitString || b.Name(lit.Value) != "a\tb" {
		t.Fatalf("string literal not decoded: %+v", lit)
	}
	big, _ := b.Items.Var(unit.Decls[1])
	lit, _ = b.Exprs.Literal(big.Value)
	if !lit.Overflow {
		t.Fatalf("oversized literal must be flagged")
	}
	u, _ := b.Items.Var(unit.Decls[2])
	lit, _ = b.Exprs.Literal(u.Value)
	if lit.Kind != ast.ExprLitUnit || !u.Type.Unit {
		t.Fatalf("unit literal/type not recognised")
	}
}

func TestParseCalls(t *testing.T) {
	b, unit := requireOK(t, `fn Main() -> i32 { return F(1, G(), (2)); }`)
	fn, _ := b.Items.Fn(unit.Decls[0])
	body, _ := b.Stmts.Block(fn.Body)
	ret, _ := b.Stmts.Return(body.Stmts[0])
	call, ok := b.Exprs.Call(ret.Value)
	if !ok || len(call.Args) != 3 {
		t.Fatalf("expected call with 3 args, got %+v", call)
	}
	if _, ok := b.Exprs.Group(call.Args[2]); !ok {
		t.Fatalf("third argument should be a group")
	}
}

func TestChainedComparisonIsError(t *testing.T) {
	requireCode(t, `fn Main() -> i32 { var b: bool = 1 < 2 < 3; return 0; }`, diag.SynChainedComparison)
	requireCode(t, `var b: bool = 1 == 2 != 3;`, diag.SynChainedComparison)
	requireOK(t, `var b: bool = (1 < 2) == (2 < 3);`)
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src  string
		want diag.Code
	}{
		{`fn Main() -> i32 { return 0 }`, diag.SynExpectSemicolon},
		{`fn Main() -> i32 { return 0;`, diag.SynUnclosedBrace},
		{`fn () -> i32 { return 0; }`, diag.SynExpectIdentifier},
		{`fn F(a) {}`, diag.SynExpectType},
		{`var x: = 1;`, diag.SynExpectType},
		{`return 1;`, diag.SynUnexpectedTopLevel},
		{`var x: i32 = ;`, diag.SynExpectExpression},
		{`var x: i32 = (1 + 2;`, diag.SynUnclosedParen},
		{`fn F() { if x { } }`, diag.SynUnexpectedToken},
		{`var x: i32 = "open`, diag.LexUnterminatedString},
	}
	for _, tc := range cases {
		requireCode(t, tc.src, tc.want)
	}
}

func TestRecoveryContinuesAfterBadItem(t *testing.T) {
	b, _, unit, bag := parseSrc(t, `var = 1; fn Ok() { } junk junk fn Also() { }`)
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	var names []string
	for _, id := range unit.Decls {
		if fn, ok := b.Items.Fn(id); ok {
			names = append(names, b.Name(fn.Name))
		}
	}
	if len(names) != 2 || names[0] != "Ok" || names[1] != "Also" {
		t.Fatalf("recovered functions = %v", names)
	}
}

func TestMaxErrorsStopsParsing(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	src := "fn F() { "
	for range 50 {
		src += ") ; "
	}
	src += "}"
	id := fs.AddVirtual("many.em", []byte(src))
	bag := diag.NewBag(0)
	Parse(b, fs, id, Options{MaxErrors: 3, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 3 {
		t.Fatalf("diagnostics = %d, want 3", bag.Len())
	}
}

func TestParseFileMissing(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	fs := source.NewFileSet()
	if _, _, err := ParseFile(b, fs, t.TempDir()+"/nope.em"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEmptySourceParses(t *testing.T) {
	_, unit := requireOK(t, "// nothing here\n")
	if len(unit.Decls) != 0 {
		t.Fatalf("decls = %d", len(unit.Decls))
	}
}
