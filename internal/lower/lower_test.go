package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owl-lang/owlc/internal/checker"
	"github.com/owl-lang/owlc/internal/parser"
)

func lowerSource(t *testing.T, source string) *Module {
	t.Helper()
	p := parser.New(source)
	prog := p.Parse()
	require.False(t, p.Diagnostics().HasErrors(),
		"parse errors: %s", p.Diagnostics().Format("test"))

	res := checker.CheckWithResult(prog)
	require.False(t, res.Diagnostics.HasErrors(),
		"check errors: %s", res.Diagnostics.Format("test"))

	return Lower(prog, res)
}

func fnBody(t *testing.T, mod *Module, name string) []Stmt {
	t.Helper()
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn.Body
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func TestTryDesugarsToGuardedEarlyReturn(t *testing.T) {
	mod := lowerSource(t, `
fn parse(s: String) -> Result[Int, String] {
    return Ok(1)
}

fn run() -> Result[Int, String] {
    let n = parse("42")?
    return Ok(n + 1)
}
`)
	body := fnBody(t, mod, "run")
	require.Len(t, body, 4)

	tmp := body[0].(*LetStmt)
	assert.Equal(t, "__try_0", tmp.Name)
	call := tmp.Value.(*CallExpr)
	assert.Equal(t, "parse", call.Callee.(*VarRef).Name)

	guard := body[1].(*IfStmt)
	inst := guard.Cond.(*IsInstance)
	assert.Equal(t, "Err", inst.Class)
	assert.Equal(t, "__try_0", inst.Value.(*VarRef).Name)
	require.Len(t, guard.Then, 1)
	ret := guard.Then[0].(*ReturnStmt)
	assert.Equal(t, "__try_0", ret.Value.(*VarRef).Name)
	assert.Nil(t, guard.Else)

	bind := body[2].(*LetStmt)
	assert.Equal(t, "n", bind.Name)
	attr := bind.Value.(*AttrExpr)
	assert.Equal(t, "value", attr.Name)
	assert.Equal(t, "__try_0", attr.Object.(*VarRef).Name)
}

func TestMatchInValuePositionUsesResultTemp(t *testing.T) {
	mod := lowerSource(t, `
fn unwrap(o: Option[Int]) -> Int {
    let r = match o {
        Some(x) => x + 1,
        None => 0
    }
    return r
}
`)
	body := fnBody(t, mod, "unwrap")
	require.Len(t, body, 3)

	chain := body[0].(*IfStmt)
	guard := chain.Cond.(*IsNotNone)
	assert.Equal(t, "o", guard.Value.(*VarRef).Name)

	// Some(x) arm: the binding substitutes to the subject itself
	thenLet := chain.Then[0].(*LetStmt)
	assert.Equal(t, "__match_0", thenLet.Name)
	sum := thenLet.Value.(*BinaryExpr)
	assert.Equal(t, "o", sum.Left.(*VarRef).Name)

	elseLet := chain.Else[0].(*LetStmt)
	assert.Equal(t, "__match_0", elseLet.Name)
	assert.Equal(t, "0", elseLet.Value.(*IntLit).Value)

	bind := body[1].(*LetStmt)
	assert.Equal(t, "r", bind.Name)
	assert.Equal(t, "__match_0", bind.Value.(*VarRef).Name)
}

func TestMatchInImplicitReturnPositionReturnsDirectly(t *testing.T) {
	mod := lowerSource(t, `
fn unwrap(o: Option[Int]) -> Int {
    match o {
        Some(x) => x,
        None => 0
    }
}
`)
	body := fnBody(t, mod, "unwrap")
	require.Len(t, body, 1)

	chain := body[0].(*IfStmt)
	_, isGuard := chain.Cond.(*IsNotNone)
	assert.True(t, isGuard)

	thenRet := chain.Then[0].(*ReturnStmt)
	assert.Equal(t, "o", thenRet.Value.(*VarRef).Name)
	elseRet := chain.Else[0].(*ReturnStmt)
	assert.Equal(t, "0", elseRet.Value.(*IntLit).Value)
}

func TestMatchOnResultAccessors(t *testing.T) {
	mod := lowerSource(t, `
fn f(r: Result[Int, String]) -> Int {
    match r {
        Ok(v) => v,
        Err(e) => len(e)
    }
}
`)
	body := fnBody(t, mod, "f")
	chain := body[0].(*IfStmt)

	inst := chain.Cond.(*IsInstance)
	assert.Equal(t, "Ok", inst.Class)

	okRet := chain.Then[0].(*ReturnStmt)
	okAttr := okRet.Value.(*AttrExpr)
	assert.Equal(t, "value", okAttr.Name)
	assert.Equal(t, "r", okAttr.Object.(*VarRef).Name)

	errRet := chain.Else[0].(*ReturnStmt)
	errCall := errRet.Value.(*CallExpr)
	errAttr := errCall.Args[0].(*AttrExpr)
	assert.Equal(t, "error", errAttr.Name)
}

func TestMatchSubjectExpressionEvaluatedOnce(t *testing.T) {
	mod := lowerSource(t, `
fn get() -> Option[Int] {
    return Some(1)
}

fn f() -> Int {
    match get() {
        Some(x) => x,
        None => 0
    }
}
`)
	body := fnBody(t, mod, "f")

	subj := body[0].(*LetStmt)
	assert.Equal(t, "__match_subj_0", subj.Name)
	assert.Equal(t, "get", subj.Value.(*CallExpr).Callee.(*VarRef).Name)

	chain := body[1].(*IfStmt)
	guard := chain.Cond.(*IsNotNone)
	assert.Equal(t, "__match_subj_0", guard.Value.(*VarRef).Name)
}

func TestOptionErases(t *testing.T) {
	mod := lowerSource(t, `
fn some() -> Option[Int] {
    return Some(41 + 1)
}

fn none() -> Option[Int] {
    return None
}
`)
	someRet := fnBody(t, mod, "some")[0].(*ReturnStmt)
	_, isBin := someRet.Value.(*BinaryExpr)
	assert.True(t, isBin, "Some wrapper should erase to its payload")

	noneRet := fnBody(t, mod, "none")[0].(*ReturnStmt)
	_, isNone := noneRet.Value.(*NoneLit)
	assert.True(t, isNone)
}

func TestIntDivisionBecomesFloorDivision(t *testing.T) {
	mod := lowerSource(t, `
fn intdiv(a: Int, b: Int) -> Int {
    return a / b
}

fn floatdiv(a: Float, b: Float) -> Float {
    return a / b
}
`)
	intRet := fnBody(t, mod, "intdiv")[0].(*ReturnStmt)
	assert.Equal(t, "//", intRet.Value.(*BinaryExpr).Op)

	floatRet := fnBody(t, mod, "floatdiv")[0].(*ReturnStmt)
	assert.Equal(t, "/", floatRet.Value.(*BinaryExpr).Op)
}

func TestLoopBecomesWhileTrue(t *testing.T) {
	mod := lowerSource(t, `
fn f() {
    loop {
        break
    }
}
`)
	body := fnBody(t, mod, "f")
	while := body[0].(*WhileStmt)
	lit := while.Cond.(*BoolLit)
	assert.True(t, lit.Value)
	_, isBreak := while.Body[0].(*BreakStmt)
	assert.True(t, isBreak)
}

func TestWhileWithStatementConditionReevaluates(t *testing.T) {
	mod := lowerSource(t, `
fn next() -> Result[Int, String] {
    return Ok(1)
}

fn f() -> Result[Int, String] {
    let mut total = 0
    while next()? < 10 {
        total = total + 1
    }
    return Ok(total)
}
`)
	body := fnBody(t, mod, "f")
	while := body[1].(*WhileStmt)

	lit, isTrue := while.Cond.(*BoolLit)
	require.True(t, isTrue)
	assert.True(t, lit.Value)

	// condition prelude runs at the top of every iteration
	tmp := while.Body[0].(*LetStmt)
	assert.Equal(t, "__try_0", tmp.Name)

	var sawExitGuard bool
	for _, stmt := range while.Body {
		ifStmt, ok := stmt.(*IfStmt)
		if !ok {
			continue
		}
		if not, ok := ifStmt.Cond.(*UnaryExpr); ok && not.Op == "not" {
			if _, isBreak := ifStmt.Then[0].(*BreakStmt); isBreak {
				sawExitGuard = true
			}
		}
	}
	assert.True(t, sawExitGuard, "expected a 'if not cond: break' guard")
}

func TestNeedsResultRuntime(t *testing.T) {
	withResult := lowerSource(t, `
fn f() -> Result[Int, String] {
    return Ok(1)
}
`)
	assert.True(t, withResult.NeedsResultRuntime)

	withoutResult := lowerSource(t, `
fn f() -> Option[Int] {
    return Some(1)
}

fn main() {
    print(f())
}
`)
	assert.False(t, withoutResult.NeedsResultRuntime)
}

func TestHasMainFn(t *testing.T) {
	withMain := lowerSource(t, `
fn main() {
    print("hi")
}
`)
	assert.True(t, withMain.HasMainFn)

	withoutMain := lowerSource(t, `
fn helper() {
    print("hi")
}
`)
	assert.False(t, withoutMain.HasMainFn)
}

func TestTryInRightOperandKeepsEvaluationOrder(t *testing.T) {
	mod := lowerSource(t, `
fn left() -> Int {
    return 1
}

fn right() -> Result[Int, String] {
    return Ok(2)
}

fn f() -> Result[Int, String] {
    return Ok(left() + right()?)
}
`)
	body := fnBody(t, mod, "f")
	require.Len(t, body, 4)

	// left() runs before anything the '?' expands into
	pin := body[0].(*LetStmt)
	assert.Equal(t, "__lhs_0", pin.Name)
	assert.Equal(t, "left", pin.Value.(*CallExpr).Callee.(*VarRef).Name)

	tmp := body[1].(*LetStmt)
	assert.Equal(t, "__try_1", tmp.Name)
	assert.Equal(t, "right", tmp.Value.(*CallExpr).Callee.(*VarRef).Name)

	_, isGuard := body[2].(*IfStmt)
	assert.True(t, isGuard)

	ret := body[3].(*ReturnStmt)
	sum := ret.Value.(*CallExpr).Args[0].(*BinaryExpr)
	assert.Equal(t, "__lhs_0", sum.Left.(*VarRef).Name)
	attr := sum.Right.(*AttrExpr)
	assert.Equal(t, "__try_1", attr.Object.(*VarRef).Name)
}

func TestPureLeftOperandIsNotPinned(t *testing.T) {
	mod := lowerSource(t, `
fn get() -> Result[Int, String] {
    return Ok(2)
}

fn f(n: Int) -> Result[Int, String] {
    return Ok(n + get()?)
}
`)
	body := fnBody(t, mod, "f")
	require.Len(t, body, 3)

	tmp := body[0].(*LetStmt)
	assert.Equal(t, "__try_0", tmp.Name)

	ret := body[2].(*ReturnStmt)
	sum := ret.Value.(*CallExpr).Args[0].(*BinaryExpr)
	assert.Equal(t, "n", sum.Left.(*VarRef).Name)
}

func TestTryInLaterArgumentPinsEarlierArgument(t *testing.T) {
	mod := lowerSource(t, `
fn make() -> Int {
    return 1
}

fn get() -> Result[Int, String] {
    return Ok(2)
}

fn pair(a: Int, b: Int) -> Int {
    return a + b
}

fn f() -> Result[Int, String] {
    return Ok(pair(make(), get()?))
}
`)
	body := fnBody(t, mod, "f")

	pin := body[0].(*LetStmt)
	assert.Equal(t, "__lhs_0", pin.Name)
	assert.Equal(t, "make", pin.Value.(*CallExpr).Callee.(*VarRef).Name)

	ret := body[3].(*ReturnStmt)
	call := ret.Value.(*CallExpr).Args[0].(*CallExpr)
	assert.Equal(t, "__lhs_0", call.Args[0].(*VarRef).Name)
}

func TestIsEmptyLowersToLenComparison(t *testing.T) {
	mod := lowerSource(t, `
fn f(xs: List[Int]) -> Bool {
    return is_empty(xs)
}
`)
	ret := fnBody(t, mod, "f")[0].(*ReturnStmt)
	cmp := ret.Value.(*BinaryExpr)
	assert.Equal(t, "==", cmp.Op)
	lenCall := cmp.Left.(*CallExpr)
	assert.Equal(t, "len", lenCall.Callee.(*VarRef).Name)
	assert.Equal(t, "0", cmp.Right.(*IntLit).Value)
}

func TestGetLowersToSubscript(t *testing.T) {
	mod := lowerSource(t, `
fn f(xs: List[Int], i: Int) -> Int {
    return get(xs, i)
}
`)
	ret := fnBody(t, mod, "f")[0].(*ReturnStmt)
	idx := ret.Value.(*IndexExpr)
	assert.Equal(t, "xs", idx.Object.(*VarRef).Name)
	assert.Equal(t, "i", idx.Index.(*VarRef).Name)
}

func TestPushLowersToConcatenation(t *testing.T) {
	mod := lowerSource(t, `
fn f(xs: List[Int]) -> List[Int] {
    return push(xs, 4)
}
`)
	ret := fnBody(t, mod, "f")[0].(*ReturnStmt)
	cat := ret.Value.(*BinaryExpr)
	assert.Equal(t, "+", cat.Op)
	assert.Equal(t, "xs", cat.Left.(*VarRef).Name)
	single := cat.Right.(*ListLit)
	require.Len(t, single.Elements, 1)
	assert.Equal(t, "4", single.Elements[0].(*IntLit).Value)
}

func TestRangeLowersToPlainCall(t *testing.T) {
	mod := lowerSource(t, `
fn f() {
    for i in range(0, 3) {
        print(i)
    }
}
`)
	loop := fnBody(t, mod, "f")[0].(*ForInStmt)
	call := loop.Iter.(*CallExpr)
	assert.Equal(t, "range", call.Callee.(*VarRef).Name)
	require.Len(t, call.Args, 2)
}

func TestImportsCarryAliases(t *testing.T) {
	mod := lowerSource(t, `
from python import math
from python import numpy as np

fn f() -> Float {
    return math.pi + np.e
}
`)
	require.Len(t, mod.Imports, 2)
	assert.Equal(t, "math", mod.Imports[0].Module)
	assert.Empty(t, mod.Imports[0].Alias)
	assert.Equal(t, "numpy", mod.Imports[1].Module)
	assert.Equal(t, "np", mod.Imports[1].Alias)
}

func TestFromImportsCarryNames(t *testing.T) {
	mod := lowerSource(t, `
from python.os.path import join, exists as there

fn f(base: String) {
    print(join(base, "owl"))
    print(there(base))
}
`)
	require.Len(t, mod.Imports, 1)
	imp := mod.Imports[0]
	assert.Equal(t, "os.path", imp.Module)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, ImportName{Name: "join"}, imp.Names[0])
	assert.Equal(t, ImportName{Name: "exists", Alias: "there"}, imp.Names[1])
}

func TestTopLevelStatementsLowerToMain(t *testing.T) {
	mod := lowerSource(t, `
fn double(n: Int) -> Int {
    return n * 2
}

let answer = double(21)
print(answer)
`)
	require.Len(t, mod.Main, 2)
	let := mod.Main[0].(*LetStmt)
	assert.Equal(t, "answer", let.Name)
	_, isExpr := mod.Main[1].(*ExprStmt)
	assert.True(t, isExpr)
}

func TestSubstitutionAppliesToEveryUse(t *testing.T) {
	mod := lowerSource(t, `
fn f(o: Option[Int]) -> Int {
    match o {
        Some(x) => x + x,
        None => 0
    }
}
`)
	body := fnBody(t, mod, "f")
	chain := body[0].(*IfStmt)
	ret := chain.Then[0].(*ReturnStmt)
	sum := ret.Value.(*BinaryExpr)
	assert.Equal(t, "o", sum.Left.(*VarRef).Name)
	assert.Equal(t, "o", sum.Right.(*VarRef).Name)
}

func TestIgnoredWarningProgramStillLowers(t *testing.T) {
	// warnings do not block lowering
	p := parser.New(`
fn f() {
    let unused = 1
}
`)
	prog := p.Parse()
	require.False(t, p.Diagnostics().HasErrors())
	res := checker.CheckWithResult(prog)
	require.False(t, res.Diagnostics.HasErrors())
	require.NotEmpty(t, res.Diagnostics.Warnings())

	mod := Lower(prog, res)
	require.Len(t, fnBody(t, mod, "f"), 1)
}
