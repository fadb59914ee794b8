package lexer

import (
	"ember/internal/diag"
	"ember/internal/token"
)

// scanNumber сканирует десятичный целый литерал. Range checks belong to sema.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// "12abc" is one bad token, not a number followed by an identifier
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid number literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
