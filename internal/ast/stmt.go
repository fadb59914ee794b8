package ast

import (
	"ember/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota + 1
	StmtVar
	StmtAssign
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtBreak
	StmtContinue
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtVar:
		return "var"
	case StmtAssign:
		return "assign"
	case StmtExpr:
		return "expr"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	default:
		return "invalid"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

// LocalVarStmt wraps a VarDecl; Slot is the frame slot assigned by analysis.
type LocalVarStmt struct {
	Decl VarDecl
	Slot uint32
}

type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

type ExprStmt struct {
	Expr ExprID
}

// ReturnStmt.Value is NoExprID for a bare `return;`.
type ReturnStmt struct {
	Value ExprID
}

// IfStmt.Else is NoStmtID, a block or another if.
type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Vars    *Arena[LocalVarStmt]
	Assigns *Arena[AssignStmt]
	Exprs   *Arena[ExprStmt]
	Returns *Arena[ReturnStmt]
	Ifs     *Arena[IfStmt]
	Whiles  *Arena[WhileStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint / 4),
		Vars:    NewArena[LocalVarStmt](capHint / 4),
		Assigns: NewArena[AssignStmt](capHint / 4),
		Exprs:   NewArena[ExprStmt](capHint / 4),
		Returns: NewArena[ReturnStmt](capHint / 4),
		Ifs:     NewArena[IfStmt](capHint / 8),
		Whiles:  NewArena[WhileStmt](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(BlockStmt{Stmts: append([]StmtID(nil), stmts...)})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewVar(span source.Span, decl VarDecl) StmtID {
	payload := s.Vars.Allocate(LocalVarStmt{Decl: decl})
	return s.new(StmtVar, span, PayloadID(payload))
}

func (s *Stmts) Var(id StmtID) (*LocalVarStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtVar {
		return nil, false
	}
	return s.Vars.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	payload := s.Assigns.Allocate(AssignStmt{Target: target, Value: value})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) (*AssignStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(ExprStmt{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(ReturnStmt{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(uint32(st.Payload)), true
}

// NewBreak and NewContinue carry no payload.
func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, NoPayloadID)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, NoPayloadID)
}
