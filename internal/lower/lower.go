package lower

import (
	"fmt"

	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/checker"
	"github.com/owl-lang/owlc/internal/lexer"
	"github.com/owl-lang/owlc/internal/types"
)

// subst maps pattern-binding names to their accessor expressions.
// Substitution happens at the AST level while lowering arm bodies,
// and only on the exact bound identifier.
type subst map[string]Expr

func (s subst) clone() subst {
	out := make(subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type lowerer struct {
	res *checker.Result
	tmp int
}

func (l *lowerer) nextTmp() int {
	n := l.tmp
	l.tmp++
	return n
}

// Lower rewrites a checked program into the lowered module form.
// The result-runtime decision is made once for the whole program.
func Lower(prog *ast.Program, res *checker.Result) *Module {
	l := &lowerer{res: res}

	mod := &Module{
		NeedsResultRuntime: usesResult(prog),
	}

	for _, imp := range prog.Imports {
		switch i := imp.(type) {
		case *ast.PythonImport:
			mod.Imports = append(mod.Imports, &Import{Module: i.Module, Alias: i.Alias})
		case *ast.PythonFromImport:
			out := &Import{Module: i.Module}
			for _, n := range i.Names {
				out.Names = append(out.Names, ImportName{Name: n.Name, Alias: n.Alias})
			}
			mod.Imports = append(mod.Imports, out)
		}
	}

	for _, fn := range prog.Functions {
		sig, ok := res.Functions[fn.Name]
		if !ok {
			continue
		}
		if fn.Name == "main" && len(fn.Params) == 0 {
			mod.HasMainFn = true
		}
		implicit := 0
		if sig.Return.Kind != types.KindVoid {
			implicit = 2
		}
		f := &Function{Name: fn.Name}
		for _, p := range fn.Params {
			f.Params = append(f.Params, p.Name)
		}
		f.Body = l.lowerStmts(fn.Body.Statements, subst{}, implicit)
		mod.Functions = append(mod.Functions, f)
	}

	mod.Main = l.lowerStmts(prog.Statements, subst{}, 0)

	return mod
}

// lowerStmts lowers a statement list. implicit tracks the remaining
// implicit-return unwrap depth for the trailing statement, mirroring
// the checker's rule.
func (l *lowerer) lowerStmts(stmts []ast.Statement, env subst, implicit int) []Stmt {
	env = env.clone()
	var out []Stmt
	for i, stmt := range stmts {
		d := 0
		if i == len(stmts)-1 {
			d = implicit
		}
		out = append(out, l.lowerStmt(stmt, env, d)...)
	}
	return out
}

func (l *lowerer) lowerStmt(stmt ast.Statement, env subst, implicit int) []Stmt {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		pre, v := l.lowerExpr(s.Value, env)
		// rebinding ends the pattern substitution for this name
		delete(env, s.Name)
		return append(pre, &LetStmt{Name: s.Name, Value: v})

	case *ast.AssignStmt:
		pre, v := l.lowerExpr(s.Value, env)
		return append(pre, &AssignStmt{Name: s.Name, Value: v})

	case *ast.ReturnStmt:
		if s.Value == nil {
			return []Stmt{&ReturnStmt{}}
		}
		if m, ok := s.Value.(*ast.MatchExpr); ok {
			return l.lowerMatchInto(m, env, func(e Expr) Stmt { return &ReturnStmt{Value: e} })
		}
		pre, v := l.lowerExpr(s.Value, env)
		return append(pre, &ReturnStmt{Value: v})

	case *ast.IfStmt:
		branchImplicit := 0
		if implicit > 1 {
			branchImplicit = implicit - 1
		}
		pre, cond := l.lowerExpr(s.Condition, env)
		out := &IfStmt{
			Cond: cond,
			Then: l.lowerStmts(s.Then.Statements, env, branchImplicit),
		}
		switch e := s.Else.(type) {
		case *ast.Block:
			out.Else = l.lowerStmts(e.Statements, env, branchImplicit)
		case *ast.IfStmt:
			out.Else = l.lowerStmt(e, env, branchImplicit)
		}
		return append(pre, out)

	case *ast.WhileStmt:
		pre, cond := l.lowerExpr(s.Condition, env)
		body := l.lowerStmts(s.Body.Statements, env, 0)
		if len(pre) == 0 {
			return []Stmt{&WhileStmt{Cond: cond, Body: body}}
		}
		// the condition needs statements of its own, so it must be
		// re-evaluated at the top of every iteration
		inner := append(pre, &IfStmt{
			Cond: &UnaryExpr{Op: "not", Operand: cond},
			Then: []Stmt{&BreakStmt{}},
		})
		inner = append(inner, body...)
		return []Stmt{&WhileStmt{Cond: &BoolLit{Value: true}, Body: inner}}

	case *ast.ForInStmt:
		pre, iter := l.lowerExpr(s.Iterable, env)
		bodyEnv := env.clone()
		delete(bodyEnv, s.Variable)
		return append(pre, &ForInStmt{
			Var:  s.Variable,
			Iter: iter,
			Body: l.lowerStmts(s.Body.Statements, bodyEnv, 0),
		})

	case *ast.LoopStmt:
		return []Stmt{&WhileStmt{
			Cond: &BoolLit{Value: true},
			Body: l.lowerStmts(s.Body.Statements, env, 0),
		}}

	case *ast.BreakStmt:
		return []Stmt{&BreakStmt{}}

	case *ast.ContinueStmt:
		return []Stmt{&ContinueStmt{}}

	case *ast.ExprStmt:
		if implicit > 0 {
			// trailing expression becomes the return value
			if m, ok := s.Expr.(*ast.MatchExpr); ok {
				return l.lowerMatchInto(m, env, func(e Expr) Stmt { return &ReturnStmt{Value: e} })
			}
			pre, v := l.lowerExpr(s.Expr, env)
			return append(pre, &ReturnStmt{Value: v})
		}
		if m, ok := s.Expr.(*ast.MatchExpr); ok {
			return l.lowerMatchInto(m, env, func(e Expr) Stmt { return &ExprStmt{Expr: e} })
		}
		pre, v := l.lowerExpr(s.Expr, env)
		return append(pre, &ExprStmt{Expr: v})

	case *ast.Block:
		return l.lowerStmts(s.Statements, env, 0)

	default:
		panic(fmt.Sprintf("lower: unhandled statement node %T", stmt))
	}
}

// lowerExpr lowers an expression to a prelude (statements that must
// run first) plus the resulting expression. The prelude mechanism is
// what lets '?' and match expand correctly in any syntactic position.
func (l *lowerer) lowerExpr(expr ast.Expression, env subst) ([]Stmt, Expr) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return nil, &IntLit{Value: e.Value}
	case *ast.FloatLit:
		return nil, &FloatLit{Value: e.Value}
	case *ast.StringLit:
		return nil, &StringLit{Value: e.Value}
	case *ast.BoolLit:
		return nil, &BoolLit{Value: e.Value}

	case *ast.Identifier:
		if e.Name == "None" {
			return nil, &NoneLit{}
		}
		if sub, ok := env[e.Name]; ok {
			return nil, sub
		}
		return nil, &VarRef{Name: e.Name}

	case *ast.ListLit:
		pre, elems := l.lowerOperands(e.Elements, env)
		return pre, &ListLit{Elements: elems}

	case *ast.BinaryExpr:
		leftPre, left := l.lowerExpr(e.Left, env)
		if hasPrelude(e.Right) {
			// the right operand expands into statements; pin the left
			// operand first so source evaluation order is preserved
			leftPre, left = l.hoist(leftPre, left)
		}
		rightPre, right := l.lowerExpr(e.Right, env)
		op := pyOp(e.Op)
		if e.Op == lexer.SLASH &&
			l.res.TypeOf(e.Left).Kind == types.KindInt &&
			l.res.TypeOf(e.Right).Kind == types.KindInt {
			op = "//"
		}
		return append(leftPre, rightPre...), &BinaryExpr{Op: op, Left: left, Right: right}

	case *ast.UnaryExpr:
		pre, operand := l.lowerExpr(e.Operand, env)
		op := "-"
		if e.Op == lexer.BANG {
			op = "not"
		}
		return pre, &UnaryExpr{Op: op, Operand: operand}

	case *ast.FieldAccessExpr:
		pre, obj := l.lowerExpr(e.Object, env)
		return pre, &AttrExpr{Object: obj, Name: e.Field}

	case *ast.CallExpr:
		return l.lowerCall(e, env)

	case *ast.TryExpr:
		pre, operand := l.lowerExpr(e.Expr, env)
		tmp := fmt.Sprintf("__try_%d", l.nextTmp())
		pre = append(pre,
			&LetStmt{Name: tmp, Value: operand},
			&IfStmt{
				Cond: &IsInstance{Value: &VarRef{Name: tmp}, Class: "Err"},
				Then: []Stmt{&ReturnStmt{Value: &VarRef{Name: tmp}}},
			},
		)
		return pre, &AttrExpr{Object: &VarRef{Name: tmp}, Name: "value"}

	case *ast.MatchExpr:
		result := fmt.Sprintf("__match_%d", l.nextTmp())
		stmts := l.lowerMatchInto(e, env, func(v Expr) Stmt {
			return &LetStmt{Name: result, Value: v}
		})
		return stmts, &VarRef{Name: result}

	default:
		panic(fmt.Sprintf("lower: unhandled expression node %T", expr))
	}
}

func (l *lowerer) lowerCall(e *ast.CallExpr, env subst) ([]Stmt, Expr) {
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		switch ident.Name {
		case "Some":
			// Option erases to the bare value
			if len(e.Args) == 1 {
				return l.lowerExpr(e.Args[0], env)
			}
		case "Ok", "Err":
			pre, args := l.lowerOperands(e.Args, env)
			return pre, &CallExpr{Callee: &VarRef{Name: ident.Name}, Args: args}
		}

		// built-in patterns apply only when the checker resolved the
		// name to a built-in, not to a user function
		if _, userFn := l.res.Functions[ident.Name]; !userFn {
			switch ident.Name {
			case "is_empty":
				// is_empty(xs) becomes len(xs) == 0
				if len(e.Args) == 1 {
					pre, arg := l.lowerExpr(e.Args[0], env)
					lenCall := &CallExpr{Callee: &VarRef{Name: "len"}, Args: []Expr{arg}}
					return pre, &BinaryExpr{Op: "==", Left: lenCall, Right: &IntLit{Value: "0"}}
				}
			case "get":
				// get(xs, i) becomes xs[i]
				if len(e.Args) == 2 {
					pre, ops := l.lowerOperands(e.Args, env)
					return pre, &IndexExpr{Object: ops[0], Index: ops[1]}
				}
			case "push":
				// push(xs, x) becomes xs + [x]
				if len(e.Args) == 2 {
					pre, ops := l.lowerOperands(e.Args, env)
					return pre, &BinaryExpr{Op: "+", Left: ops[0], Right: &ListLit{Elements: []Expr{ops[1]}}}
				}
			}
		}

		var callee Expr = &VarRef{Name: ident.Name}
		if sub, ok := env[ident.Name]; ok {
			callee = sub
		}
		pre, args := l.lowerOperands(e.Args, env)
		return pre, &CallExpr{Callee: callee, Args: args}
	}

	pre, callee := l.lowerExpr(e.Callee, env)
	if anyHasPrelude(e.Args) {
		pre, callee = l.hoist(pre, callee)
	}
	argPre, args := l.lowerOperands(e.Args, env)
	pre = append(pre, argPre...)
	return pre, &CallExpr{Callee: callee, Args: args}
}

// lowerOperands lowers a left-to-right operand list. An operand is
// pinned to a temporary whenever a later operand expands into
// statements, preserving source evaluation order.
func (l *lowerer) lowerOperands(exprs []ast.Expression, env subst) ([]Stmt, []Expr) {
	var pre []Stmt
	var out []Expr
	for i, expr := range exprs {
		p, v := l.lowerExpr(expr, env)
		pre = append(pre, p...)
		if anyHasPrelude(exprs[i+1:]) {
			pre, v = l.hoist(pre, v)
		}
		out = append(out, v)
	}
	return pre, out
}

// hoist pins an already-lowered operand into a temporary so that
// statements produced for a later operand cannot run ahead of it.
func (l *lowerer) hoist(pre []Stmt, v Expr) ([]Stmt, Expr) {
	if isPure(v) {
		return pre, v
	}
	tmp := fmt.Sprintf("__lhs_%d", l.nextTmp())
	pre = append(pre, &LetStmt{Name: tmp, Value: v})
	return pre, &VarRef{Name: tmp}
}

// isPure reports whether re-reading the expression later cannot
// observe a side effect, making a pinning temporary unnecessary.
func isPure(e Expr) bool {
	switch e.(type) {
	case *VarRef, *IntLit, *FloatLit, *StringLit, *BoolLit, *NoneLit:
		return true
	}
	return false
}

// hasPrelude reports whether lowering the expression produces
// statements of its own: a '?' or a match anywhere inside it.
func hasPrelude(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.TryExpr, *ast.MatchExpr:
		return true
	case *ast.BinaryExpr:
		return hasPrelude(e.Left) || hasPrelude(e.Right)
	case *ast.UnaryExpr:
		return hasPrelude(e.Operand)
	case *ast.CallExpr:
		if hasPrelude(e.Callee) {
			return true
		}
		return anyHasPrelude(e.Args)
	case *ast.FieldAccessExpr:
		return hasPrelude(e.Object)
	case *ast.ListLit:
		return anyHasPrelude(e.Elements)
	default:
		return false
	}
}

func anyHasPrelude(exprs []ast.Expression) bool {
	for _, e := range exprs {
		if hasPrelude(e) {
			return true
		}
	}
	return false
}

// lowerMatchInto rewrites a match into a guard chain. sink builds the
// leaf statement each arm's value flows into (assignment, return, or
// bare evaluation). The last arm is the exhaustive fallback and needs
// no guard.
func (l *lowerer) lowerMatchInto(m *ast.MatchExpr, env subst, sink func(Expr) Stmt) []Stmt {
	pre, subjExpr := l.lowerExpr(m.Subject, env)

	subj := subjExpr
	if _, isVar := subjExpr.(*VarRef); !isVar {
		tmp := fmt.Sprintf("__match_subj_%d", l.nextTmp())
		pre = append(pre, &LetStmt{Name: tmp, Value: subjExpr})
		subj = &VarRef{Name: tmp}
	}

	if len(m.Arms) == 0 {
		return pre
	}

	var build func(arms []*ast.MatchArm) []Stmt
	build = func(arms []*ast.MatchArm) []Stmt {
		arm := arms[0]
		armEnv := env.clone()
		if arm.Pattern.Binding != "" {
			armEnv[arm.Pattern.Binding] = patternAccessor(arm.Pattern.Kind, subj)
		}
		bodyPre, bodyExpr := l.lowerExpr(arm.Body, armEnv)
		leaf := append(bodyPre, sink(bodyExpr))

		if len(arms) == 1 {
			return leaf
		}
		return []Stmt{&IfStmt{
			Cond: patternGuard(arm.Pattern.Kind, subj),
			Then: leaf,
			Else: build(arms[1:]),
		}}
	}

	return append(pre, build(m.Arms)...)
}

func patternGuard(k ast.PatternKind, subj Expr) Expr {
	switch k {
	case ast.SomePattern:
		return &IsNotNone{Value: subj}
	case ast.NonePattern:
		return &IsNone{Value: subj}
	case ast.OkPattern:
		return &IsInstance{Value: subj, Class: "Ok"}
	default: // Err
		return &IsInstance{Value: subj, Class: "Err"}
	}
}

func patternAccessor(k ast.PatternKind, subj Expr) Expr {
	switch k {
	case ast.SomePattern:
		return subj
	case ast.OkPattern:
		return &AttrExpr{Object: subj, Name: "value"}
	case ast.ErrPattern:
		return &AttrExpr{Object: subj, Name: "error"}
	default:
		return subj
	}
}

func pyOp(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.EQ:
		return "=="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LEQ:
		return "<="
	case lexer.GEQ:
		return ">="
	default:
		return "?"
	}
}

// --- Result-runtime reachability ---

// usesResult reports whether the program touches Result values:
// a '?' expression, an Ok/Err constructor or pattern, or a Result
// annotation anywhere. Checked once per program.
func usesResult(prog *ast.Program) bool {
	for _, fn := range prog.Functions {
		for _, p := range fn.Params {
			if annUsesResult(p.Type) {
				return true
			}
		}
		if annUsesResult(fn.ReturnType) {
			return true
		}
		if stmtsUseResult(fn.Body.Statements) {
			return true
		}
	}
	return stmtsUseResult(prog.Statements)
}

func annUsesResult(ann *ast.TypeAnnotation) bool {
	if ann == nil {
		return false
	}
	if ann.Name == "Result" {
		return true
	}
	for _, p := range ann.Params {
		if annUsesResult(p) {
			return true
		}
	}
	return false
}

func stmtsUseResult(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if stmtUsesResult(stmt) {
			return true
		}
	}
	return false
}

func stmtUsesResult(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return annUsesResult(s.Type) || exprUsesResult(s.Value)
	case *ast.AssignStmt:
		return exprUsesResult(s.Value)
	case *ast.ReturnStmt:
		return s.Value != nil && exprUsesResult(s.Value)
	case *ast.IfStmt:
		if exprUsesResult(s.Condition) || stmtsUseResult(s.Then.Statements) {
			return true
		}
		if s.Else != nil {
			return stmtUsesResult(s.Else)
		}
		return false
	case *ast.WhileStmt:
		return exprUsesResult(s.Condition) || stmtsUseResult(s.Body.Statements)
	case *ast.ForInStmt:
		return exprUsesResult(s.Iterable) || stmtsUseResult(s.Body.Statements)
	case *ast.LoopStmt:
		return stmtsUseResult(s.Body.Statements)
	case *ast.ExprStmt:
		return exprUsesResult(s.Expr)
	case *ast.Block:
		return stmtsUseResult(s.Statements)
	default:
		return false
	}
}

func exprUsesResult(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.TryExpr:
		return true
	case *ast.BinaryExpr:
		return exprUsesResult(e.Left) || exprUsesResult(e.Right)
	case *ast.UnaryExpr:
		return exprUsesResult(e.Operand)
	case *ast.CallExpr:
		if ident, ok := e.Callee.(*ast.Identifier); ok {
			if ident.Name == "Ok" || ident.Name == "Err" {
				return true
			}
		} else if exprUsesResult(e.Callee) {
			return true
		}
		for _, arg := range e.Args {
			if exprUsesResult(arg) {
				return true
			}
		}
		return false
	case *ast.FieldAccessExpr:
		return exprUsesResult(e.Object)
	case *ast.ListLit:
		for _, elem := range e.Elements {
			if exprUsesResult(elem) {
				return true
			}
		}
		return false
	case *ast.MatchExpr:
		if exprUsesResult(e.Subject) {
			return true
		}
		for _, arm := range e.Arms {
			if arm.Pattern.Kind == ast.OkPattern || arm.Pattern.Kind == ast.ErrPattern {
				return true
			}
			if exprUsesResult(arm.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
