package lexer

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.em", []byte(src)))
	bag := diag.NewBag(16)
	lx := New(file, Options{Reporter: diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind.IsEOF() {
			break
		}
		toks = append(toks, tok)
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexFunction(t *testing.T) {
	toks, bag := lexAll(t, "fn Main() -> i32 { return 0; } // trailing\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.RParen, token.Arrow, token.Ident,
		token.LBrace, token.KwReturn, token.IntLit, token.Semicolon, token.RBrace,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Text != "Main" || toks[5].Text != "i32" {
		t.Fatalf("unexpected texts %q %q", toks[1].Text, toks[5].Text)
	}
}

func TestLexOperatorsLongestMatch(t *testing.T) {
	toks, bag := lexAll(t, "== != <= >= < > = - -> not and or")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.EqEq, token.BangEq, token.LtEq, token.GtEq, token.Lt, token.Gt,
		token.Assign, token.Minus, token.Arrow, token.KwNot, token.KwAnd, token.KwOr,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenTextMatchesSpan(t *testing.T) {
	src := `var s: String = "a\"b"; // c`
	toks, _ := lexAll(t, src)
	for _, tok := range toks {
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span text %q != token text %q", got, tok.Text)
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := map[string]diag.Code{
		`"open`:    diag.LexUnterminatedString,
		"\"a\nb\"": diag.LexUnterminatedString,
		`"bad \q"`: diag.LexBadEscape,
		"12abc":    diag.LexBadNumber,
		"x $ y":    diag.LexUnknownChar,
		"a ! b":    diag.LexUnknownChar,
		"\xff\xfe": diag.LexUnknownChar,
		"idé ∑":    diag.LexUnknownChar,
	}
	for src, code := range cases {
		_, bag := lexAll(t, src)
		d, ok := bag.FirstError()
		if !ok {
			t.Fatalf("%q: expected a diagnostic", src)
		}
		if d.Code != code {
			t.Fatalf("%q: got %s, want %s", src, d.Code, code)
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks, bag := lexAll(t, "var größe: i32 = 1;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[1].Kind != token.Ident || toks[1].Text != "größe" {
		t.Fatalf("unexpected token %+v", toks[1])
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := New(fs.Get(fs.AddVirtual("p.em", []byte("a b"))), Options{})
	if lx.Peek().Text != "a" || lx.Peek().Text != "a" {
		t.Fatalf("Peek must be idempotent")
	}
	if lx.Next().Text != "a" || lx.Next().Text != "b" {
		t.Fatalf("Next after Peek out of order")
	}
	if !lx.Next().Kind.IsEOF() || !lx.Next().Kind.IsEOF() {
		t.Fatalf("EOF must be sticky")
	}
}

func TestQuoteUnquote(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\tnew\nline", `q"uote`, `back\slash`} {
		got, ok := Unquote(Quote(s))
		if !ok || got != s {
			t.Fatalf("Unquote(Quote(%q)) = %q,%v", s, got, ok)
		}
	}
	if _, ok := Unquote(`"\q"`); ok {
		t.Fatalf("invalid escape must not unquote")
	}
	if _, ok := Unquote(`x`); ok {
		t.Fatalf("unquoted text must fail")
	}
}
