package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/token"
)

// parseType: IDENT | '(' ')'
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	switch {
	case p.at(token.Ident):
		tok := p.advance()
		return ast.TypeExpr{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span}, true
	case p.at(token.LParen):
		open := p.advance()
		closeTok, ok := p.expect(token.RParen, diag.SynExpectType, "expected ')' for the unit type")
		if !ok {
			return ast.TypeExpr{}, false
		}
		return ast.TypeExpr{Unit: true, Span: open.Span.Cover(closeTok.Span)}, true
	default:
		p.err(diag.SynExpectType, "expected type, got "+describe(p.lx.Peek()))
		return ast.TypeExpr{}, false
	}
}
