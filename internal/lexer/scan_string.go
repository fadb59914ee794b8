package lexer

import (
	"strings"

	"ember/internal/diag"
	"ember/internal/token"
)

// scanString scans "..." with escapes \n \t \" \\. Token.Text keeps the quotes.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	bad := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			kind := token.StringLit
			if bad {
				kind = token.Invalid
			}
			return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			if !isEscape(lx.cursor.Peek()) {
				lx.bumpRune()
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence")
				bad = true
				continue
			}
			lx.cursor.Bump()
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func isEscape(b byte) bool {
	switch b {
	case 'n', 't', '"', '\\':
		return true
	}
	return false
}

// Unquote decodes the text of a StringLit token, quotes included.
// ok is false for text the lexer would not have produced as StringLit.
func Unquote(text string) (string, bool) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// Quote is the inverse of Unquote.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
