package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/token"
)

// parseFnItem разбирает `fn Name(params) -> Type { ... }`.
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	fnTok := p.advance()

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoItemID, false
	}
	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}

	var result ast.TypeExpr
	if p.at(token.Arrow) {
		p.advance()
		if result, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}

	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body, got "+describe(p.lx.Peek()))
		return ast.NoItemID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}

	span := fnTok.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Items.NewFn(span, ast.FnItem{
		Name:     name,
		NameSpan: nameSpan,
		Params:   params,
		Result:   result,
		Body:     body,
	}), true
}

// parseFnParams разбирает список параметров после '(' включая ')'.
func (p *Parser) parseFnParams() ([]ast.FnParam, bool) {
	var params []ast.FnParam
	if p.at(token.RParen) {
		p.advance()
		return params, true
	}
	for {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' after parameter name"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		params = append(params, ast.FnParam{Name: name, Span: nameSpan.Cover(typ.Span), Type: typ})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ',' or ')' in parameter list"); !ok {
			return nil, false
		}
		return params, true
	}
}
