// Package interp executes an analyzed Ember program by walking its AST.
package interp

import (
	"io"

	"ember/internal/ast"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/trace"
)

// DefaultMaxCallDepth bounds recursion of interpreted programs.
const DefaultMaxCallDepth = 1024

type Options struct {
	// Tracer receives a span per call at trace.LevelDetail. Nil means trace.Nop.
	Tracer trace.Tracer
	// Print receives __intrinsic_print output. Nil means io.Discard.
	Print        io.Writer
	MaxCallDepth int
	// MaxSteps bounds executed statements; 0 means unlimited.
	MaxSteps int64
}

type frame struct {
	name  string
	slots []Value
	at    source.Span // statement being executed
}

type Interp struct {
	prog    *sema.Program
	b       *ast.Builder
	opts    Options
	globals []Value
	ready   []bool // globals whose initializer has finished
	stack   []*frame
	steps   int64
}

// Exec initializes globals in declaration order, calls Main and returns its
// result. Failures of the running program are *Error values.
func Exec(prog *sema.Program, opts Options) (int, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Print == nil {
		opts.Print = io.Discard
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	in := &Interp{
		prog:    prog,
		b:       prog.Builder,
		opts:    opts,
		globals: make([]Value, len(prog.Globals)),
		ready:   make([]bool, len(prog.Globals)),
	}
	return in.run()
}

func (in *Interp) run() (int, error) {
	root := &frame{name: "<globals>"}
	in.stack = append(in.stack, root)
	for i, g := range in.prog.Globals {
		root.at = in.b.Items.Get(g.Item).Span
		v, err := in.eval(g.Init)
		if err != nil {
			return 0, err
		}
		in.globals[i] = v
		in.ready[i] = true
	}
	in.stack = in.stack[:0]

	main := in.prog.Funcs[in.prog.Main]
	ret, err := in.call(in.prog.Main, nil, main.Span)
	if err != nil {
		return 0, err
	}
	if ret.Kind != KindInt {
		return 0, in.makeError(PanicInternal, main.Span, "%s returned %s", main.Name, ret)
	}
	return int(ret.Int), nil
}

type control uint8

const (
	ctrlNext control = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// call runs function index with args. site is the call expression, used for
// the stack overflow report.
func (in *Interp) call(index uint32, args []Value, site source.Span) (Value, error) {
	f := &in.prog.Funcs[index]
	if len(in.stack) >= in.opts.MaxCallDepth {
		return Value{}, in.makeError(PanicStackOverflow, site,
			"call depth exceeded %d while calling %s", in.opts.MaxCallDepth, f.Name)
	}

	var sp *trace.Span
	if in.opts.Tracer.Enabled() {
		sp = trace.Begin(in.opts.Tracer, trace.ScopeFunc, "call:"+f.Name, 0)
	}

	fr := &frame{name: f.Name, slots: make([]Value, f.Frame), at: f.Span}
	copy(fr.slots, args)
	in.stack = append(in.stack, fr)

	fn, _ := in.b.Items.Fn(f.Item)
	ret := unitValue
	ctl, val, err := in.execBlockStmts(fn.Body)
	if ctl == ctrlReturn {
		ret = val
	}

	in.stack = in.stack[:len(in.stack)-1]
	if sp != nil {
		sp.End("")
	}
	return ret, err
}

func (in *Interp) top() *frame {
	return in.stack[len(in.stack)-1]
}

func (in *Interp) execBlockStmts(id ast.StmtID) (control, Value, error) {
	blk, ok := in.b.Stmts.Block(id)
	if !ok {
		return in.exec(id)
	}
	for _, st := range blk.Stmts {
		ctl, v, err := in.exec(st)
		if err != nil || ctl != ctrlNext {
			return ctl, v, err
		}
	}
	return ctrlNext, unitValue, nil
}

func (in *Interp) exec(id ast.StmtID) (control, Value, error) {
	st := in.b.Stmts.Get(id)
	fr := in.top()
	fr.at = st.Span

	in.steps++
	if in.opts.MaxSteps > 0 && in.steps > in.opts.MaxSteps {
		return ctrlNext, Value{}, in.makeError(PanicStepLimit, st.Span, "step limit %d exhausted", in.opts.MaxSteps)
	}

	switch st.Kind {
	case ast.StmtBlock:
		return in.execBlockStmts(id)

	case ast.StmtVar:
		v, _ := in.b.Stmts.Var(id)
		val, err := in.eval(v.Decl.Value)
		if err != nil {
			return ctrlNext, Value{}, err
		}
		fr.slots[v.Slot] = val

	case ast.StmtAssign:
		a, _ := in.b.Stmts.Assign(id)
		val, err := in.eval(a.Value)
		if err != nil {
			return ctrlNext, Value{}, err
		}
		in.store(a.Target, val)

	case ast.StmtExpr:
		e, _ := in.b.Stmts.Expr(id)
		if _, err := in.eval(e.Expr); err != nil {
			return ctrlNext, Value{}, err
		}

	case ast.StmtReturn:
		r, _ := in.b.Stmts.Return(id)
		if !r.Value.IsValid() {
			return ctrlReturn, unitValue, nil
		}
		val, err := in.eval(r.Value)
		if err != nil {
			return ctrlNext, Value{}, err
		}
		return ctrlReturn, val, nil

	case ast.StmtIf:
		s, _ := in.b.Stmts.If(id)
		cond, err := in.eval(s.Cond)
		if err != nil {
			return ctrlNext, Value{}, err
		}
		if cond.Bool {
			return in.exec(s.Then)
		}
		if s.Else.IsValid() {
			return in.exec(s.Else)
		}

	case ast.StmtWhile:
		w, _ := in.b.Stmts.While(id)
		for {
			cond, err := in.eval(w.Cond)
			if err != nil {
				return ctrlNext, Value{}, err
			}
			if !cond.Bool {
				break
			}
			ctl, val, err := in.exec(w.Body)
			if err != nil {
				return ctrlNext, Value{}, err
			}
			if ctl == ctrlBreak {
				break
			}
			if ctl == ctrlReturn {
				return ctl, val, nil
			}
		}

	case ast.StmtBreak:
		return ctrlBreak, unitValue, nil
	case ast.StmtContinue:
		return ctrlContinue, unitValue, nil
	}
	return ctrlNext, unitValue, nil
}

func (in *Interp) store(target ast.ExprID, val Value) {
	ident, _ := in.b.Exprs.Ident(target)
	switch ident.Binding.Kind {
	case ast.BindLocal:
		in.top().slots[ident.Binding.Index] = val
	case ast.BindGlobal:
		in.globals[ident.Binding.Index] = val
	}
}
