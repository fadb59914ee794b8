package parser

import (
	"fmt"
	"slices"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/source"
	"ember/internal/token"
)

// DefaultMaxErrors caps diagnostics for the convenience entry points.
const DefaultMaxErrors = 64

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Unit ast.Unit
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
}

// Parse разбирает уже зарегистрированный в fs файл в арену b.
func Parse(b *ast.Builder, fs *source.FileSet, id source.FileID, opts Options) Result {
	f := fs.Get(id)
	lx := lexer.New(f, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		lx:       lx,
		arenas:   b,
		file:     b.NewFile(id, lx.EmptySpan()),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.parseItems()

	file := b.Files.Get(p.file)
	return Result{
		File: p.file,
		Unit: ast.Unit{
			File:  p.file,
			Decls: slices.Clone(file.Items),
		},
	}
}

// ParseString parses src registered under name as a virtual file.
func ParseString(b *ast.Builder, fs *source.FileSet, name, src string) (ast.Unit, *diag.Bag) {
	id := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(DefaultMaxErrors)
	res := Parse(b, fs, id, Options{
		MaxErrors: DefaultMaxErrors,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	return res.Unit, bag
}

// ParseFile loads path into fs and parses it.
func ParseFile(b *ast.Builder, fs *source.FileSet, path string) (ast.Unit, *diag.Bag, error) {
	id, err := fs.Load(path)
	if err != nil {
		return ast.Unit{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	bag := diag.NewBag(DefaultMaxErrors)
	res := Parse(b, fs, id, Options{
		MaxErrors: DefaultMaxErrors,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	return res.Unit, bag, nil
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems: основной цикл верхнего уровня: пока не EOF: parseItem.
func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) && !p.opts.Enough() {
		before := p.lx.Peek().Span
		itemID, ok := p.parseItem()
		if ok {
			p.arenas.PushItem(p.file, itemID)
			continue
		}
		p.resyncTop()
		p.ensureProgress(before)
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwFn:
		return p.parseFnItem()
	case token.KwVar:
		return p.parseVarItem()
	case token.Invalid:
		// лексер уже сообщил
		p.advance()
		return ast.NoItemID, false
	default:
		tok := p.lx.Peek()
		p.report(diag.SynUnexpectedTopLevel, tok.Span,
			fmt.Sprintf("expected 'fn' or 'var' at top level, got %s", describe(tok)))
		return ast.NoItemID, false
	}
}

// resyncTop: прокручиваем до стартового токена следующего item или EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !isTopLevelStarter(p.lx.Peek().Kind) {
		p.advance()
	}
}

// ensureProgress consumes one token when recovery stopped where it started.
func (p *Parser) ensureProgress(before source.Span) {
	cur := p.lx.Peek()
	if cur.Kind != token.EOF && cur.Span == before {
		p.advance()
	}
}

func isTopLevelStarter(k token.Kind) bool {
	return k == token.KwFn || k == token.KwVar
}

// parseIdent: ожидает Ident и интернирует его.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Strings.Intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.lx.Peek()))
	return source.NoStringID, source.Span{}, false
}
