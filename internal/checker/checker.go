package checker

import (
	"fmt"

	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/lexer"
	"github.com/owl-lang/owlc/internal/types"
)

// FuncSig describes a checked function signature
type FuncSig struct {
	Name   string
	Params []*types.Type
	Return *types.Type
	Decl   *ast.FnDecl
}

// Result carries everything downstream passes need from checking
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	ExprTypes   map[ast.Expression]*types.Type
	Functions   map[string]*FuncSig
}

// TypeOf returns the checked type of an expression node
func (r *Result) TypeOf(expr ast.Expression) *types.Type {
	if t, ok := r.ExprTypes[expr]; ok {
		return t
	}
	return types.Unknown
}

// Checker walks the AST and produces diagnostics and type judgments.
// A Checker is single-use: one instance per program.
type Checker struct {
	diags     *diagnostic.Diagnostics
	global    *Scope
	scope     *Scope
	funcs     map[string]*FuncSig
	exprTypes map[ast.Expression]*types.Type
	current   *FuncSig
	loopDepth int
}

// Check type-checks a program and returns its diagnostics
func Check(prog *ast.Program) *diagnostic.Diagnostics {
	return CheckWithResult(prog).Diagnostics
}

// CheckWithResult type-checks a program and returns diagnostics plus
// the judgments lowering needs
func CheckWithResult(prog *ast.Program) *Result {
	c := &Checker{
		diags:     diagnostic.New(),
		global:    NewScope(nil),
		funcs:     make(map[string]*FuncSig),
		exprTypes: make(map[ast.Expression]*types.Type),
	}
	c.scope = c.global

	c.registerSignatures(prog)

	for _, fn := range prog.Functions {
		if sig, ok := c.funcs[fn.Name]; ok && sig.Decl == fn {
			c.checkFunction(fn, sig)
		}
	}

	c.checkTopLevel(prog.Statements)

	return &Result{
		Diagnostics: c.diags,
		ExprTypes:   c.exprTypes,
		Functions:   c.funcs,
	}
}

func spanOf(n ast.Node) diagnostic.Span {
	line, col := n.Pos()
	return diagnostic.At(line, col)
}

// registerSignatures is pass 1: imports and function signatures go
// into the root scope before any body is checked, so call order does
// not matter.
func (c *Checker) registerSignatures(prog *ast.Program) {
	for _, imp := range prog.Imports {
		switch i := imp.(type) {
		case *ast.PythonImport:
			c.defineImport(i.LocalName(), spanOf(i))
		case *ast.PythonFromImport:
			for _, n := range i.Names {
				c.defineImport(n.LocalName(), spanOf(n))
			}
		}
	}

	for _, fn := range prog.Functions {
		if _, exists := c.funcs[fn.Name]; exists {
			c.diags.Add(diagnostic.Redefinition(spanOf(fn), fn.Name))
			continue
		}
		sig := &FuncSig{Name: fn.Name, Decl: fn}
		for _, p := range fn.Params {
			if p.Type != nil {
				sig.Params = append(sig.Params, types.FromAnnotation(p.Type, c.diags))
			} else {
				// unannotated parameters accept anything
				sig.Params = append(sig.Params, types.Interop)
			}
		}
		if fn.ReturnType != nil {
			sig.Return = types.FromAnnotation(fn.ReturnType, c.diags)
		} else {
			sig.Return = types.Void
		}
		c.funcs[fn.Name] = sig
	}
}

// defineImport binds an imported name as Interop in the root scope.
// Imports are exempt from unused warnings.
func (c *Checker) defineImport(name string, span diagnostic.Span) {
	b := &Binding{
		Name: name,
		Type: types.Interop,
		Span: span,
		Used: true,
	}
	if !c.global.Define(b) {
		c.diags.Add(diagnostic.Redefinition(span, name))
	}
}

func (c *Checker) checkFunction(fn *ast.FnDecl, sig *FuncSig) {
	prevScope, prevFunc, prevDepth := c.scope, c.current, c.loopDepth
	c.scope = c.global.Child()
	c.current = sig
	c.loopDepth = 0

	for i, p := range fn.Params {
		b := &Binding{
			Name:        p.Name,
			Type:        sig.Params[i],
			Span:        spanOf(p),
			IsParameter: true,
		}
		if !c.scope.Define(b) {
			c.diags.Add(diagnostic.Redefinition(spanOf(p), p.Name))
		}
	}

	implicit := 0
	if sig.Return.Kind != types.KindVoid {
		implicit = 2
	}
	c.checkStmts(fn.Body.Statements, implicit)

	c.checkFunctionReturns(fn, sig)

	c.scope.ReportUnused(c.diags)
	c.scope, c.current, c.loopDepth = prevScope, prevFunc, prevDepth
}

// checkFunctionReturns enforces that a non-Void function returns on
// every path, either explicitly or through a trailing implicit-return
// expression.
func (c *Checker) checkFunctionReturns(fn *ast.FnDecl, sig *FuncSig) {
	if sig.Return.Kind == types.KindVoid || sig.Return.Kind == types.KindUnknown {
		return
	}
	if allPathsReturn(fn.Body.Statements) {
		return
	}

	stmts := fn.Body.Statements
	if len(stmts) == 0 {
		c.diags.Add(diagnostic.MissingReturn(spanOf(fn), fn.Name, sig.Return.String()))
		return
	}

	last := stmts[len(stmts)-1]
	if t, ok := c.implicitReturnType(last); ok {
		// a trailing Void expression (e.g. a print call) yields no value
		if t.Kind == types.KindVoid {
			c.diags.Add(diagnostic.MissingReturn(spanOf(fn), fn.Name, sig.Return.String()))
			return
		}
		if !types.Compatible(sig.Return, t) {
			c.diags.Add(diagnostic.ReturnMismatch(spanOf(last), sig.Return.String(), t.String()))
		}
		return
	}
	c.diags.Add(diagnostic.MissingReturn(spanOf(fn), fn.Name, sig.Return.String()))
}

// implicitReturnType reduces a trailing statement to the type it
// yields in implicit-return position. An if requires an else; both
// branches reduce recursively and must agree.
func (c *Checker) implicitReturnType(stmt ast.Statement) (*types.Type, bool) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return c.typeOf(s.Expr), true
	case *ast.ReturnStmt:
		// explicit return already checked; treat as satisfying
		return c.current.Return, true
	case *ast.IfStmt:
		if s.Else == nil {
			return nil, false
		}
		thenT, okThen := c.blockTrailingType(s.Then)
		var elseT *types.Type
		var okElse bool
		switch e := s.Else.(type) {
		case *ast.Block:
			elseT, okElse = c.blockTrailingType(e)
		case *ast.IfStmt:
			elseT, okElse = c.implicitReturnType(e)
		}
		if !okThen || !okElse {
			return nil, false
		}
		if !types.Compatible(thenT, elseT) {
			c.diags.Add(diagnostic.BranchMismatch(spanOf(s), thenT.String(), elseT.String()))
			return types.Unknown, true
		}
		if thenT.Kind == types.KindUnknown {
			return elseT, true
		}
		return thenT, true
	default:
		return nil, false
	}
}

func (c *Checker) blockTrailingType(b *ast.Block) (*types.Type, bool) {
	if b == nil || len(b.Statements) == 0 {
		return nil, false
	}
	return c.implicitReturnType(b.Statements[len(b.Statements)-1])
}

// allPathsReturn reports whether every control path through the
// statements ends in an explicit return.
func allPathsReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if stmtReturns(stmt) {
			return true
		}
	}
	return false
}

func stmtReturns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		if s.Else == nil {
			return false
		}
		thenReturns := allPathsReturn(s.Then.Statements)
		switch e := s.Else.(type) {
		case *ast.Block:
			return thenReturns && allPathsReturn(e.Statements)
		case *ast.IfStmt:
			return thenReturns && stmtReturns(e)
		}
		return false
	default:
		return false
	}
}

func (c *Checker) checkTopLevel(stmts []ast.Statement) {
	prev := c.scope
	c.scope = c.global.Child()
	c.checkStmts(stmts, 0)
	c.scope.ReportUnused(c.diags)
	c.scope = prev
}

// checkStmts checks a statement list. implicit tracks how many levels
// of implicit-return unwrapping remain for the trailing statement:
// 2 at a non-Void function body, decremented through one if/match
// level, 0 everywhere else.
func (c *Checker) checkStmts(stmts []ast.Statement, implicit int) {
	terminated := false
	for i, stmt := range stmts {
		if terminated {
			c.diags.Add(diagnostic.Unreachable(spanOf(stmt)))
		}

		stmtImplicit := 0
		if i == len(stmts)-1 {
			stmtImplicit = implicit
		}
		c.checkStmt(stmt, stmtImplicit)

		switch stmt.(type) {
		case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
			terminated = true
		}
	}
}

func (c *Checker) checkStmt(stmt ast.Statement, implicit int) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		c.checkLet(s)
	case *ast.AssignStmt:
		c.checkAssign(s)
	case *ast.ReturnStmt:
		c.checkReturn(s)
	case *ast.IfStmt:
		c.checkIf(s, implicit)
	case *ast.WhileStmt:
		c.checkWhile(s)
	case *ast.ForInStmt:
		c.checkForIn(s)
	case *ast.LoopStmt:
		c.checkLoop(s)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.diags.Add(diagnostic.BreakOutsideLoop(spanOf(s)))
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.diags.Add(diagnostic.ContinueOutsideLoop(spanOf(s)))
		}
	case *ast.ExprStmt:
		c.checkExprStmt(s, implicit)
	case *ast.Block:
		prev := c.scope
		c.scope = c.scope.Child()
		c.checkStmts(s.Statements, 0)
		c.scope.ReportUnused(c.diags)
		c.scope = prev
	default:
		// parser/checker version skew, not a user error
		panic(fmt.Sprintf("checker: unhandled statement node %T", stmt))
	}
}

func (c *Checker) checkLet(s *ast.LetStmt) {
	valueT := c.checkExpr(s.Value)

	bindT := valueT
	if s.Type != nil {
		declT := types.FromAnnotation(s.Type, c.diags)
		if declT.Kind != types.KindUnknown && !types.Compatible(declT, valueT) {
			c.diags.Add(diagnostic.TypeMismatch(spanOf(s.Value), declT.String(), valueT.String()))
		}
		bindT = declT
	}

	if c.scope.LookupLocal(s.Name) == nil && c.scope.Shadows(s.Name) {
		c.diags.Add(diagnostic.Shadowing(spanOf(s), s.Name))
	}

	b := &Binding{
		Name:      s.Name,
		Type:      bindT,
		Span:      spanOf(s),
		IsMutable: s.Mutable,
	}
	if !c.scope.Define(b) {
		c.diags.Add(diagnostic.Redefinition(spanOf(s), s.Name))
	}
}

func (c *Checker) checkAssign(s *ast.AssignStmt) {
	valueT := c.checkExpr(s.Value)

	b := c.scope.Lookup(s.Name)
	if b == nil {
		c.diags.Add(diagnostic.UndefinedVariable(spanOf(s), s.Name))
		return
	}
	if !b.IsMutable {
		c.diags.Add(diagnostic.AssignImmutable(spanOf(s), s.Name))
		return
	}
	if !types.Compatible(b.Type, valueT) {
		c.diags.Add(diagnostic.TypeMismatch(spanOf(s.Value), b.Type.String(), valueT.String()))
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	actual := types.Void
	if s.Value != nil {
		actual = c.checkExpr(s.Value)
	}

	if c.current == nil {
		c.diags.Errorf(diagnostic.ErrInvalidOperation, spanOf(s), "'return' outside of a function")
		return
	}

	if !types.Compatible(c.current.Return, actual) {
		c.diags.Add(diagnostic.ReturnMismatch(spanOf(s), c.current.Return.String(), actual.String()))
	}
}

func (c *Checker) checkCondition(cond ast.Expression) {
	if lit, ok := cond.(*ast.BoolLit); ok {
		value := "false"
		if lit.Value {
			value = "true"
		}
		c.diags.Add(diagnostic.ConstantCondition(spanOf(cond), value))
	}
	condT := c.checkExpr(cond)
	if !types.Compatible(types.Bool, condT) {
		c.diags.Add(diagnostic.CondNotBool(spanOf(cond), condT.String()))
	}
}

func (c *Checker) checkIf(s *ast.IfStmt, implicit int) {
	c.checkCondition(s.Condition)

	branchImplicit := 0
	if implicit > 1 {
		branchImplicit = implicit - 1
	}

	prev := c.scope
	c.scope = prev.Child()
	c.checkStmts(s.Then.Statements, branchImplicit)
	c.scope.ReportUnused(c.diags)
	c.scope = prev

	switch e := s.Else.(type) {
	case nil:
	case *ast.Block:
		c.scope = prev.Child()
		c.checkStmts(e.Statements, branchImplicit)
		c.scope.ReportUnused(c.diags)
		c.scope = prev
	case *ast.IfStmt:
		c.checkIf(e, branchImplicit)
	}
}

func (c *Checker) checkWhile(s *ast.WhileStmt) {
	c.checkCondition(s.Condition)

	prev := c.scope
	c.scope = prev.Child()
	c.loopDepth++
	c.checkStmts(s.Body.Statements, 0)
	c.loopDepth--
	c.scope.ReportUnused(c.diags)
	c.scope = prev
}

func (c *Checker) checkForIn(s *ast.ForInStmt) {
	iterT := c.checkExpr(s.Iterable)

	elemT := types.Unknown
	switch iterT.Kind {
	case types.KindList:
		elemT = iterT.Inner()
	case types.KindInterop:
		elemT = types.Interop
	case types.KindUnknown:
	default:
		c.diags.Add(diagnostic.TypeMismatch(spanOf(s.Iterable), "List[...]", iterT.String()))
	}

	prev := c.scope
	c.scope = prev.Child()
	c.scope.Define(&Binding{
		Name: s.Variable,
		Type: elemT,
		Span: diagnostic.At(s.VarLine, s.VarCol),
	})
	c.loopDepth++
	c.checkStmts(s.Body.Statements, 0)
	c.loopDepth--
	c.scope.ReportUnused(c.diags)
	c.scope = prev
}

func (c *Checker) checkLoop(s *ast.LoopStmt) {
	prev := c.scope
	c.scope = prev.Child()
	c.loopDepth++
	c.checkStmts(s.Body.Statements, 0)
	c.loopDepth--
	c.scope.ReportUnused(c.diags)
	c.scope = prev

	if !containsLoopExit(s.Body.Statements) {
		c.diags.Add(diagnostic.LoopNoExit(spanOf(s)))
	}
}

// containsLoopExit looks for any break or return reachable inside the
// statement list, descending into nested blocks.
func containsLoopExit(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.BreakStmt, *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if containsLoopExit(s.Then.Statements) {
				return true
			}
			switch e := s.Else.(type) {
			case *ast.Block:
				if containsLoopExit(e.Statements) {
					return true
				}
			case *ast.IfStmt:
				if containsLoopExit([]ast.Statement{e}) {
					return true
				}
			}
		case *ast.WhileStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		case *ast.ForInStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		case *ast.LoopStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		}
	}
	return false
}

// containsReturn is like containsLoopExit but break in a nested loop
// exits only that loop, so only return counts.
func containsReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if containsReturn(s.Then.Statements) {
				return true
			}
			switch e := s.Else.(type) {
			case *ast.Block:
				if containsReturn(e.Statements) {
					return true
				}
			case *ast.IfStmt:
				if containsReturn([]ast.Statement{e}) {
					return true
				}
			}
		case *ast.WhileStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		case *ast.ForInStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		case *ast.LoopStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		}
	}
	return false
}

func (c *Checker) checkExprStmt(s *ast.ExprStmt, implicit int) {
	t := c.checkExpr(s.Expr)

	if implicit > 0 {
		return // implicit-return position, the value is consumed
	}
	switch t.Kind {
	case types.KindResult:
		c.diags.Add(diagnostic.ResultIgnored(spanOf(s)))
	case types.KindOption:
		c.diags.Add(diagnostic.OptionIgnored(spanOf(s)))
	}
}

// --- Expressions ---

func (c *Checker) typeOf(expr ast.Expression) *types.Type {
	if t, ok := c.exprTypes[expr]; ok {
		return t
	}
	return types.Unknown
}

func (c *Checker) setType(expr ast.Expression, t *types.Type) *types.Type {
	c.exprTypes[expr] = t
	return t
}

func (c *Checker) checkExpr(expr ast.Expression) *types.Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return c.setType(e, types.Int)
	case *ast.FloatLit:
		return c.setType(e, types.Float)
	case *ast.StringLit:
		return c.setType(e, types.String)
	case *ast.BoolLit:
		return c.setType(e, types.Bool)
	case *ast.Identifier:
		return c.setType(e, c.checkIdentifier(e))
	case *ast.ListLit:
		return c.setType(e, c.checkListLit(e))
	case *ast.BinaryExpr:
		return c.setType(e, c.checkBinary(e))
	case *ast.UnaryExpr:
		return c.setType(e, c.checkUnary(e))
	case *ast.CallExpr:
		return c.setType(e, c.checkCall(e))
	case *ast.FieldAccessExpr:
		return c.setType(e, c.checkFieldAccess(e))
	case *ast.TryExpr:
		return c.setType(e, c.checkTry(e))
	case *ast.MatchExpr:
		return c.setType(e, c.checkMatch(e))
	default:
		panic(fmt.Sprintf("checker: unhandled expression node %T", expr))
	}
}

func (c *Checker) checkIdentifier(e *ast.Identifier) *types.Type {
	// None is the empty Option literal; its payload type is only
	// known at the use site.
	if e.Name == "None" {
		return types.OptionOf(types.Interop)
	}

	if b := c.scope.Lookup(e.Name); b != nil {
		c.scope.MarkUsed(e.Name)
		return b.Type
	}
	c.diags.Add(diagnostic.UndefinedVariable(spanOf(e), e.Name))
	return types.Unknown
}

func (c *Checker) checkListLit(e *ast.ListLit) *types.Type {
	if len(e.Elements) == 0 {
		return types.ListOf(types.Unknown)
	}

	elemT := types.Unknown
	for _, elem := range e.Elements {
		t := c.checkExpr(elem)
		if elemT.Kind == types.KindUnknown {
			elemT = t
			continue
		}
		if !types.Compatible(elemT, t) {
			c.diags.Add(diagnostic.IncompatibleTypes(spanOf(elem), "list literal", elemT.String(), t.String()))
		}
	}
	return types.ListOf(elemT)
}

func opText(op lexer.TokenType) string {
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
	case lexer.BANG:
		return "!"
	default:
		return op.String()
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) *types.Type {
	leftT := c.checkExpr(e.Left)
	rightT := c.checkExpr(e.Right)

	t, ok := types.BinaryResult(e.Op, leftT, rightT)
	if !ok {
		switch types.ClassOf(e.Op) {
		case types.OpEquality:
			c.diags.Add(diagnostic.IncompatibleTypes(spanOf(e), "comparison", leftT.String(), rightT.String()))
		default:
			c.diags.Add(diagnostic.InvalidOperation(spanOf(e), opText(e.Op), leftT.String(), rightT.String()))
		}
	}
	return t
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) *types.Type {
	operandT := c.checkExpr(e.Operand)

	t, ok := types.UnaryResult(e.Op, operandT)
	if !ok {
		c.diags.Add(diagnostic.CannotNegate(spanOf(e), opText(e.Op), operandT.String()))
	}
	return t
}

func (c *Checker) checkCall(e *ast.CallExpr) *types.Type {
	ident, isIdent := e.Callee.(*ast.Identifier)
	if !isIdent {
		// interop attribute call: m.sqrt(2.0)
		calleeT := c.checkExpr(e.Callee)
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		if calleeT.Kind == types.KindInterop {
			return types.Interop
		}
		return types.Unknown
	}

	switch ident.Name {
	case "Some", "Ok", "Err":
		return c.checkConstructor(e, ident.Name)
	}

	if sig, ok := c.funcs[ident.Name]; ok {
		c.setType(ident, types.Unknown)
		if len(e.Args) != len(sig.Params) {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), ident.Name, len(sig.Params), len(e.Args)))
		}
		for i, arg := range e.Args {
			argT := c.checkExpr(arg)
			if i < len(sig.Params) && !types.Compatible(sig.Params[i], argT) {
				c.diags.Add(diagnostic.TypeMismatch(spanOf(arg), sig.Params[i].String(), argT.String()).
					WithNote("in argument %d of '%s'", i+1, ident.Name))
			}
		}
		return sig.Return
	}

	// built-ins apply only when not shadowed by a user function
	if IsBuiltin(ident.Name) {
		return c.checkBuiltin(e, ident.Name)
	}

	// interop value used as a callable
	if b := c.scope.Lookup(ident.Name); b != nil {
		c.scope.MarkUsed(ident.Name)
		c.setType(ident, b.Type)
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		if b.Type.Kind == types.KindInterop || b.Type.Kind == types.KindUnknown {
			return types.Interop
		}
		c.diags.Add(diagnostic.UndefinedFunction(spanOf(e), ident.Name))
		return types.Unknown
	}

	for _, arg := range e.Args {
		c.checkExpr(arg)
	}
	c.diags.Add(diagnostic.UndefinedFunction(spanOf(e), ident.Name))
	return types.Unknown
}

// checkConstructor types Some/Ok/Err. The unknown half of a Result is
// Interop until the value meets an annotation or return type.
func (c *Checker) checkConstructor(e *ast.CallExpr, name string) *types.Type {
	if len(e.Args) != 1 {
		c.diags.Add(diagnostic.WrongArgCount(spanOf(e), name, 1, len(e.Args)))
		return types.Unknown
	}
	argT := c.checkExpr(e.Args[0])
	switch name {
	case "Some":
		return types.OptionOf(argT)
	case "Ok":
		return types.ResultOf(argT, types.Interop)
	default: // Err
		return types.ResultOf(types.Interop, argT)
	}
}

func (c *Checker) checkFieldAccess(e *ast.FieldAccessExpr) *types.Type {
	objT := c.checkExpr(e.Object)
	switch objT.Kind {
	case types.KindInterop:
		return types.Interop
	case types.KindUnknown:
		return types.Unknown
	default:
		c.diags.Errorf(diagnostic.ErrInvalidOperation, spanOf(e), "type %s has no field '%s'", objT.String(), e.Field)
		return types.Unknown
	}
}

func (c *Checker) checkTry(e *ast.TryExpr) *types.Type {
	operandT := c.checkExpr(e.Expr)

	if operandT.Kind == types.KindUnknown {
		return types.Unknown
	}

	var okT, errT *types.Type
	switch operandT.Kind {
	case types.KindResult:
		okT, errT = operandT.Ok(), operandT.Err()
	case types.KindInterop:
		okT, errT = types.Interop, types.Interop
	default:
		c.diags.Add(diagnostic.TryNotResult(spanOf(e), operandT.String()))
		return types.Unknown
	}

	if c.current == nil {
		c.diags.Add(diagnostic.Diagnostic{
			Code:     diagnostic.ErrTryOutsideResult,
			Severity: diagnostic.Error,
			Message:  "'?' used outside of a function",
			Span:     spanOf(e),
		}.WithHint("'?' can only propagate errors from a function returning Result[...]"))
		return okT
	}

	ret := c.current.Return
	switch ret.Kind {
	case types.KindResult:
		if !types.Compatible(ret.Err(), errT) {
			c.diags.Add(diagnostic.TryErrorMismatch(spanOf(e), errT.String(), ret.Err().String()))
		}
	case types.KindUnknown, types.KindInterop:
	default:
		c.diags.Add(diagnostic.TryOutsideResult(spanOf(e), ret.String()))
	}

	return okT
}

func (c *Checker) checkMatch(e *ast.MatchExpr) *types.Type {
	subjT := c.checkExpr(e.Subject)

	var family []ast.PatternKind
	enforce := true
	switch subjT.Kind {
	case types.KindOption:
		family = []ast.PatternKind{ast.SomePattern, ast.NonePattern}
	case types.KindResult:
		family = []ast.PatternKind{ast.OkPattern, ast.ErrPattern}
	case types.KindInterop, types.KindUnknown:
		enforce = false
	default:
		c.diags.Add(diagnostic.MatchNotAlgebraic(spanOf(e.Subject), subjT.String()))
		enforce = false
	}

	seen := make(map[ast.PatternKind]bool)
	armT := types.Unknown

	for _, arm := range e.Arms {
		bindT := types.Unknown
		if enforce {
			if !kindInFamily(arm.Pattern.Kind, family) {
				c.diags.Add(diagnostic.InvalidPattern(spanOf(arm.Pattern), arm.Pattern.Kind.String(), subjT.String()))
			} else {
				seen[arm.Pattern.Kind] = true
				bindT = patternBindingType(arm.Pattern.Kind, subjT)
			}
		} else if subjT.Kind == types.KindInterop {
			bindT = types.Interop
		}

		prev := c.scope
		c.scope = prev.Child()
		if arm.Pattern.Binding != "" {
			c.scope.Define(&Binding{
				Name: arm.Pattern.Binding,
				Type: bindT,
				Span: spanOf(arm.Pattern),
			})
		}
		bodyT := c.checkExpr(arm.Body)
		c.scope.ReportUnused(c.diags)
		c.scope = prev

		if armT.Kind == types.KindUnknown {
			armT = bodyT
		} else if !types.Compatible(armT, bodyT) {
			c.diags.Add(diagnostic.IncompatibleTypes(spanOf(arm), "match arms", armT.String(), bodyT.String()))
		}
	}

	if enforce {
		var missing []string
		for _, k := range family {
			if !seen[k] {
				missing = append(missing, k.String())
			}
		}
		if len(missing) > 0 {
			c.diags.Add(diagnostic.NonExhaustiveMatch(spanOf(e), missing))
		}
	}

	return armT
}

func kindInFamily(k ast.PatternKind, family []ast.PatternKind) bool {
	for _, f := range family {
		if f == k {
			return true
		}
	}
	return false
}

func patternBindingType(k ast.PatternKind, subj *types.Type) *types.Type {
	switch k {
	case ast.SomePattern:
		return subj.Inner()
	case ast.OkPattern:
		return subj.Ok()
	case ast.ErrPattern:
		return subj.Err()
	default:
		return types.Unknown
	}
}
