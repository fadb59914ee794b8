package parser

import (
	"strconv"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/token"
)

// parseExpr is the entry point: expr := or.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseOr()
}

func (p *Parser) binary(left, right ast.ExprID, op ast.ExprBinaryOp) ast.ExprID {
	span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
	return p.arenas.Exprs.NewBinary(span, op, left, right)
}

// parseLeftAssoc разбирает цепочку `next (op next)*` для операторов из ops.
func (p *Parser) parseLeftAssoc(next func() (ast.ExprID, bool), ops map[token.Kind]ast.ExprBinaryOp) (ast.ExprID, bool) {
	left, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, isOp := ops[p.lx.Peek().Kind]
		if !isOp {
			return left, true
		}
		p.advance()
		right, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		left = p.binary(left, right, op)
	}
}

// parseNonAssoc разбирает `next (op next)?`; второй оператор того же уровня: ошибка.
func (p *Parser) parseNonAssoc(next func() (ast.ExprID, bool), ops map[token.Kind]ast.ExprBinaryOp) (ast.ExprID, bool) {
	left, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	op, isOp := ops[p.lx.Peek().Kind]
	if !isOp {
		return left, true
	}
	p.advance()
	right, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	if _, chained := ops[p.lx.Peek().Kind]; chained {
		p.err(diag.SynChainedComparison, "comparison operators cannot be chained; use parentheses")
		return ast.NoExprID, false
	}
	return p.binary(left, right, op), true
}

var (
	orOps  = map[token.Kind]ast.ExprBinaryOp{token.KwOr: ast.ExprBinaryOr}
	andOps = map[token.Kind]ast.ExprBinaryOp{token.KwAnd: ast.ExprBinaryAnd}
	eqOps  = map[token.Kind]ast.ExprBinaryOp{
		token.EqEq:   ast.ExprBinaryEq,
		token.BangEq: ast.ExprBinaryNotEq,
	}
	cmpOps = map[token.Kind]ast.ExprBinaryOp{
		token.Lt:   ast.ExprBinaryLess,
		token.LtEq: ast.ExprBinaryLessEq,
		token.Gt:   ast.ExprBinaryGreater,
		token.GtEq: ast.ExprBinaryGreaterEq,
	}
	addOps = map[token.Kind]ast.ExprBinaryOp{
		token.Plus:  ast.ExprBinaryAdd,
		token.Minus: ast.ExprBinarySub,
	}
	mulOps = map[token.Kind]ast.ExprBinaryOp{
		token.Star:    ast.ExprBinaryMul,
		token.Slash:   ast.ExprBinaryDiv,
		token.Percent: ast.ExprBinaryMod,
	}
)

func (p *Parser) parseOr() (ast.ExprID, bool)  { return p.parseLeftAssoc(p.parseAnd, orOps) }
func (p *Parser) parseAnd() (ast.ExprID, bool) { return p.parseLeftAssoc(p.parseEq, andOps) }
func (p *Parser) parseEq() (ast.ExprID, bool)  { return p.parseNonAssoc(p.parseCmp, eqOps) }
func (p *Parser) parseCmp() (ast.ExprID, bool) { return p.parseNonAssoc(p.parseAdd, cmpOps) }
func (p *Parser) parseAdd() (ast.ExprID, bool) { return p.parseLeftAssoc(p.parseMul, addOps) }
func (p *Parser) parseMul() (ast.ExprID, bool) { return p.parseLeftAssoc(p.parseUnary, mulOps) }

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.ExprUnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.ExprUnaryNeg
	case token.KwNot:
		op = ast.ExprUnaryNot
	default:
		return p.parsePostfix()
	}
	opTok := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// parsePostfix: primary ('(' args? ')')*
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.LParen) {
		p.advance()
		var args []ast.ExprID
		if !p.at(token.RParen) {
			for {
				arg, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close call arguments")
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(expr).Span.Cover(closeTok.Span)
		expr = p.arenas.Exprs.NewCall(span, expr, args)
	}
	return expr, true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		data := ast.ExprLiteralData{Kind: ast.ExprLitInt, Value: p.arenas.Strings.Intern(tok.Text)}
		v, err := strconv.ParseUint(tok.Text, 10, 64)
		if err != nil {
			data.Overflow = true
		}
		data.Int = v
		return p.arenas.Exprs.NewLiteral(tok.Span, data), true

	case token.StringLit:
		p.advance()
		text, ok := lexer.Unquote(tok.Text)
		if !ok {
			p.report(diag.SynUnexpectedToken, tok.Span, "malformed string literal")
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{
			Kind:  ast.ExprLitString,
			Value: p.arenas.Strings.Intern(text),
		}), true

	case token.KwTrue, token.KwFalse:
		p.advance()
		kind := ast.ExprLitTrue
		if tok.Kind == token.KwFalse {
			kind = ast.ExprLitFalse
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: kind}), true

	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.arenas.Strings.Intern(tok.Text)), true

	case token.LParen:
		open := p.advance()
		if p.at(token.RParen) {
			closeTok := p.advance()
			return p.arenas.Exprs.NewLiteral(open.Span.Cover(closeTok.Span), ast.ExprLiteralData{Kind: ast.ExprLitUnit}), true
		}
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parenthesized expression")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), true

	case token.Invalid:
		// лексер уже сообщил
		p.advance()
		return ast.NoExprID, false

	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return ast.NoExprID, false
	}
}
