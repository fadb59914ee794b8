package sema

import (
	"fmt"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
)

type local struct {
	slot    uint32
	typ     Type
	mutable bool
	span    source.Span
}

type scope map[source.StringID]local

type fnState struct {
	result    Type
	loopDepth int
	nextSlot  uint32
}

func (tc *typeChecker) pushScope() {
	tc.scopes = append(tc.scopes, scope{})
}

func (tc *typeChecker) popScope() {
	tc.scopes = tc.scopes[:len(tc.scopes)-1]
}

// declareLocal allocates a fresh frame slot. Redeclaring a name in the same
// scope is an error; shadowing an outer scope is allowed.
func (tc *typeChecker) declareLocal(name source.StringID, sp source.Span, typ Type, mutable bool) uint32 {
	slot := tc.fn.nextSlot
	tc.fn.nextSlot++

	cur := tc.scopes[len(tc.scopes)-1]
	if prev, ok := cur[name]; ok {
		diag.ReportError(tc.reporter, diag.SemaDuplicateSymbol, sp,
			fmt.Sprintf("%q is already declared in this scope", tc.name(name))).
			WithNote(prev.span, "previous declaration is here").
			Emit()
		return slot
	}
	cur[name] = local{slot: slot, typ: typ, mutable: mutable, span: sp}
	return slot
}

// lookupLocal searches block scopes innermost first.
func (tc *typeChecker) lookupLocal(name source.StringID) (local, bool) {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if l, ok := tc.scopes[i][name]; ok {
			return l, true
		}
	}
	return local{}, false
}

// alwaysReturns reports whether every path through st ends in a return.
func (tc *typeChecker) alwaysReturns(id ast.StmtID) bool {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtReturn:
		return true
	case ast.StmtBlock:
		blk, _ := tc.builder.Stmts.Block(id)
		for _, s := range blk.Stmts {
			if tc.alwaysReturns(s) {
				return true
			}
		}
		return false
	case ast.StmtIf:
		ifs, _ := tc.builder.Stmts.If(id)
		return ifs.Else.IsValid() && tc.alwaysReturns(ifs.Then) && tc.alwaysReturns(ifs.Else)
	default:
		return false
	}
}
