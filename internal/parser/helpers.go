package parser

import (
	"fmt"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: лучший span для диагностики: на EOF указываем сразу за последним токеном.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	if !p.at(token.Invalid) {
		p.report(code, sp, fmt.Sprintf("%s, got %s", msg, describe(p.lx.Peek())))
	}
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	if p.at(token.Invalid) {
		return
	}
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}
