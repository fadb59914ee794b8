package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

// parseVarDecl разбирает `var name: Type = expr;` и возвращает объявление и полный span.
func (p *Parser) parseVarDecl() (ast.VarDecl, source.Span, bool) {
	varTok := p.advance()

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.VarDecl{}, source.Span{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' and a type after variable name"); !ok {
		return ast.VarDecl{}, source.Span{}, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.VarDecl{}, source.Span{}, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in variable declaration"); !ok {
		return ast.VarDecl{}, source.Span{}, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.VarDecl{}, source.Span{}, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration")
	if !ok {
		return ast.VarDecl{}, source.Span{}, false
	}

	return ast.VarDecl{
		Name:     name,
		NameSpan: nameSpan,
		Type:     typ,
		Value:    value,
	}, varTok.Span.Cover(semi.Span), true
}

func (p *Parser) parseVarItem() (ast.ItemID, bool) {
	decl, span, ok := p.parseVarDecl()
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewVar(span, decl), true
}
