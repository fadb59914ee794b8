package lexer

import (
	"ember/internal/source"
	"ember/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	errors int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is a zero-length span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Errors counts lexical errors reported so far.
func (lx *Lexer) Errors() int {
	return lx.errors
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}
