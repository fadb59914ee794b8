package lexer

import (
	"fmt"
	"unicode/utf8"

	"ember/internal/diag"
	"ember/internal/token"
)

// scanOperatorOrPunct сканирует операторы и пунктуацию, longest match first.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	kind := token.Invalid
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	case '+':
		kind = token.Plus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '-':
		kind = token.Minus
		if lx.cursor.Eat('>') {
			kind = token.Arrow
		}
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kind == token.Invalid {
		r, sz := utf8.DecodeRuneInString(text)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+quoteRune(r, sz))
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func quoteRune(r rune, size int) string {
	if r == utf8.RuneError && size <= 1 {
		return "(invalid UTF-8)"
	}
	return fmt.Sprintf("%q", r)
}
