package parser

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/token"
)

func (p *Parser) parseBlock() (ast.StmtID, bool) {
	if !p.at(token.LBrace) {
		return ast.NoStmtID, false
	}

	openTok := p.advance()
	var stmtIDs []ast.StmtID

	for !p.at(token.EOF) && !p.at(token.RBrace) && !p.at(token.KwFn) {
		if p.opts.Enough() {
			return ast.NoStmtID, false
		}
		before := p.lx.Peek().Span
		stmtID, ok := p.parseStmt()
		if ok {
			stmtIDs = append(stmtIDs, stmtID)
			continue
		}

		// ошибка при парсинге statement: восстанавливаемся до следующего statement
		p.resyncStatement()
		if p.at(token.Semicolon) {
			p.advance()
		}
		p.ensureProgress(before)
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(openTok.Span.Cover(closeTok.Span), stmtIDs), true
}

// resyncStatement прокручивает до ';', '}' или начала следующего statement.
func (p *Parser) resyncStatement() {
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon, token.RBrace, token.LBrace,
			token.KwVar, token.KwReturn, token.KwIf, token.KwWhile,
			token.KwBreak, token.KwContinue, token.KwFn:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwVar:
		decl, span, ok := p.parseVarDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewVar(span, decl), true
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwBreak, token.KwContinue:
		return p.parseJumpStmt()
	case token.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	retTok := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(retTok.Span.Cover(semi.Span), value), true
}

func (p *Parser) parseJumpStmt() (ast.StmtID, bool) {
	kw := p.advance()
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+kw.Text)
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(semi.Span)
	if kw.Kind == token.KwBreak {
		return p.arenas.Stmts.NewBreak(span), true
	}
	return p.arenas.Stmts.NewContinue(span), true
}

// parseCond разбирает `( expr )` после if/while.
func (p *Parser) parseCond(kw string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+kw); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after "+kw+" condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseBody(kw string) (ast.StmtID, bool) {
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' after "+kw+" condition, got "+describe(p.lx.Peek()))
		return ast.NoStmtID, false
	}
	return p.parseBlock()
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	ifTok := p.advance()
	cond, ok := p.parseCond("if")
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseBody("if")
	if !ok {
		return ast.NoStmtID, false
	}
	span := ifTok.Span.Cover(p.arenas.Stmts.Get(then).Span)

	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		switch {
		case p.at(token.KwIf):
			els, ok = p.parseIfStmt()
		case p.at(token.LBrace):
			els, ok = p.parseBlock()
		default:
			p.err(diag.SynUnexpectedToken, "expected '{' or 'if' after else, got "+describe(p.lx.Peek()))
			ok = false
		}
		if !ok {
			return ast.NoStmtID, false
		}
		span = span.Cover(p.arenas.Stmts.Get(els).Span)
	}
	return p.arenas.Stmts.NewIf(span, cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	whileTok := p.advance()
	cond, ok := p.parseCond("while")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBody("while")
	if !ok {
		return ast.NoStmtID, false
	}
	span := whileTok.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Stmts.NewWhile(span, cond, body), true
}

// parseExprStmt: expr ('=' expr)? ';'
func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	lhs, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	start := p.arenas.Exprs.Get(lhs).Span

	if p.at(token.Assign) {
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment")
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(start.Cover(semi.Span), lhs, rhs), true
	}

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(start.Cover(semi.Span), lhs), true
}
