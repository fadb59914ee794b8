package desc

// Helpers for assembling descriptions in tests and seed corpora.

func I32(v int64) *Expr   { return &Expr{Int: &v} }
func Bool(v bool) *Expr   { return &Expr{Bool: &v} }
func Str(v string) *Expr  { return &Expr{String: &v} }
func Name(n string) *Expr { return &Expr{Ident: &n} }
func UnitExpr() *Expr     { return &Expr{Unit: true} }
func Paren(e *Expr) *Expr { return &Expr{Paren: e} }
func Not(e *Expr) *Expr   { return &Expr{Unary: &Unary{Op: "not", Operand: e}} }
func Neg(e *Expr) *Expr   { return &Expr{Unary: &Unary{Op: "-", Operand: e}} }

func Bin(op string, l, r *Expr) *Expr {
	return &Expr{Binary: &Binary{Op: op, Left: l, Right: r}}
}

func CallOf(callee string, args ...*Expr) *Expr {
	c := &Call{Callee: callee}
	for _, a := range args {
		if a == nil {
			a = &Expr{}
		}
		c.Args = append(c.Args, *a)
	}
	return &Expr{Call: c}
}

func Ret(e *Expr) Stmt  { return Stmt{Return: &Return{Value: e}} }
func Eval(e *Expr) Stmt { return Stmt{Expr: e} }
func Set(name string, e *Expr) Stmt {
	return Stmt{Assign: &Assign{Target: name, Value: e}}
}

func Local(name string, t Type, init *Expr) Stmt {
	return Stmt{Var: &Variable{Name: name, Type: t, Init: init}}
}

func Loop(cond *Expr, body ...Stmt) Stmt {
	return Stmt{While: &While{Cond: cond, Body: body}}
}

func Cond(cond *Expr, then, els []Stmt) Stmt {
	return Stmt{If: &If{Cond: cond, Then: then, Else: els}}
}

func Func(name string, ret Type, params []Param, body ...Stmt) Decl {
	return Decl{Function: &Function{Name: name, Params: params, Return: ret, Body: body}}
}

func Global(name string, t Type, init *Expr) Decl {
	return Decl{Variable: &Variable{Name: name, Type: t, Init: init}}
}

// MainReturning is `fn Main() -> i32 { <body>; return e; }`.
func MainReturning(e *Expr, body ...Stmt) Decl {
	return Func(MainName, I32Type, nil, append(body, Ret(e))...)
}
