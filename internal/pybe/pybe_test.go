package pybe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owl-lang/owlc/internal/checker"
	"github.com/owl-lang/owlc/internal/lower"
	"github.com/owl-lang/owlc/internal/parser"
)

func genSource(t *testing.T, source string) string {
	t.Helper()
	p := parser.New(source)
	prog := p.Parse()
	require.False(t, p.Diagnostics().HasErrors(),
		"parse errors: %s", p.Diagnostics().Format("test"))

	res := checker.CheckWithResult(prog)
	require.False(t, res.Diagnostics.HasErrors(),
		"check errors: %s", res.Diagnostics.Format("test"))

	return Generate(lower.Lower(prog, res))
}

func TestSimpleProgram(t *testing.T) {
	got := genSource(t, `
fn add(a: Int, b: Int) -> Int {
    return a + b
}

fn main() {
    print(add(1, 2))
}
`)
	want := `# Generated by owlc

def add(a, b):
    return a + b

def main():
    print(add(1, 2))

if __name__ == "__main__":
    main()
`
	assert.Equal(t, want, got)
}

func TestResultShimEmittedOnlyWhenNeeded(t *testing.T) {
	withResult := genSource(t, `
fn f() -> Result[Int, String] {
    return Ok(1)
}
`)
	assert.Contains(t, withResult, "class Ok:")
	assert.Contains(t, withResult, "class Err:")
	assert.Contains(t, withResult, "self.value = value")
	assert.Contains(t, withResult, "self.error = error")
	assert.Equal(t, 1, strings.Count(withResult, "class Ok:"))

	withoutResult := genSource(t, `
fn f() -> Option[Int] {
    return Some(1)
}
`)
	assert.NotContains(t, withoutResult, "class Ok:")
	assert.NotContains(t, withoutResult, "class Err:")
}

func TestTryExpansion(t *testing.T) {
	got := genSource(t, `
fn get() -> Result[Int, String] {
    return Ok(1)
}

fn run() -> Result[Int, String] {
    let n = get()?
    return Ok(n + 1)
}
`)
	assert.Contains(t, got, "    __try_0 = get()\n")
	assert.Contains(t, got, "    if isinstance(__try_0, Err):\n        return __try_0\n")
	assert.Contains(t, got, "    n = __try_0.value\n")
	assert.Contains(t, got, "    return Ok(n + 1)\n")
}

func TestMatchGeneratesGuardChain(t *testing.T) {
	got := genSource(t, `
fn classify(o: Option[Int]) -> String {
    match o {
        Some(n) => "value",
        None => "empty"
    }
}
`)
	want := `# Generated by owlc

def classify(o):
    if o is not None:
        return "value"
    else:
        return "empty"
`
	assert.Equal(t, want, got)
}

func TestElseIfFlattensToElif(t *testing.T) {
	got := genSource(t, `
fn sign(n: Int) -> Int {
    if n < 0 {
        return -1
    } else if n == 0 {
        return 0
    } else {
        return 1
    }
}
`)
	assert.Contains(t, got, "    elif n == 0:\n")
	assert.Equal(t, 1, strings.Count(got, "else:"))
}

func TestImports(t *testing.T) {
	got := genSource(t, `
from python import math
from python import numpy as np

fn f() -> Float {
    return math.sqrt(np.e)
}
`)
	assert.Contains(t, got, "import math\n")
	assert.Contains(t, got, "import numpy as np\n")
}

func TestFromImports(t *testing.T) {
	got := genSource(t, `
from python.os.path import join, exists as there

fn f(base: String) {
    print(join(base, "owl"))
    print(there(base))
}
`)
	assert.Contains(t, got, "from os.path import join, exists as there\n")
}

func TestBuiltinTranspilePatterns(t *testing.T) {
	got := genSource(t, `
fn f(xs: List[Int]) -> Int {
    if is_empty(xs) {
        return 0
    }
    let grown = push(xs, 9)
    let mut total = get(grown, 0)
    for i in range(1, len(grown)) {
        total = total + get(grown, i)
    }
    return total
}
`)
	assert.Contains(t, got, "if len(xs) == 0:")
	assert.Contains(t, got, "grown = xs + [9]")
	assert.Contains(t, got, "total = grown[0]")
	assert.Contains(t, got, "for i in range(1, len(grown)):")
	assert.Contains(t, got, "total = total + grown[i]")
}

func TestOperandOrderPreservedAroundTry(t *testing.T) {
	got := genSource(t, `
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
	assert.Contains(t, got, "    __lhs_0 = left()\n    __try_1 = right()\n")
	assert.Contains(t, got, "return Ok(__lhs_0 + __try_1.value)")
}

func TestEmptyFunctionBodyEmitsPass(t *testing.T) {
	got := genSource(t, `
fn noop() {
}
`)
	assert.Contains(t, got, "def noop():\n    pass\n")
}

func TestStringEscaping(t *testing.T) {
	got := genSource(t, `
fn main() {
    print("say \"hi\"\n")
}
`)
	assert.Contains(t, got, `print("say \"hi\"\n")`)
}

func TestParenthesizationFollowsPrecedence(t *testing.T) {
	got := genSource(t, `
fn f(a: Int, b: Int, c: Int) -> Int {
    return (a + b) * c
}
`)
	assert.Contains(t, got, "return (a + b) * c")

	flat := genSource(t, `
fn f(a: Int, b: Int, c: Int) -> Int {
    return a + b * c
}
`)
	assert.Contains(t, flat, "return a + b * c")
}

func TestUnaryOperators(t *testing.T) {
	got := genSource(t, `
fn f(b: Bool, n: Int) -> Bool {
    if !b {
        return n > -1
    }
    return b
}
`)
	assert.Contains(t, got, "if not b:")
	assert.Contains(t, got, "n > -1")
}

func TestLoopsAndControlFlow(t *testing.T) {
	got := genSource(t, `
fn f(xs: List[Int]) -> Int {
    let mut total = 0
    for x in xs {
        if x < 0 {
            continue
        }
        total = total + x
    }
    while total > 100 {
        total = total - 1
    }
    loop {
        break
    }
    return total
}
`)
	assert.Contains(t, got, "for x in xs:")
	assert.Contains(t, got, "continue")
	assert.Contains(t, got, "while total > 100:")
	assert.Contains(t, got, "while True:")
	assert.Contains(t, got, "break")
}

func TestTopLevelScript(t *testing.T) {
	got := genSource(t, `
fn double(n: Int) -> Int {
    return n * 2
}

let answer = double(21)
print(answer)
`)
	assert.Contains(t, got, "\nanswer = double(21)\nprint(answer)\n")
	assert.NotContains(t, got, "__main__")
}

func TestBooleansAndNone(t *testing.T) {
	got := genSource(t, `
fn f() -> Option[Bool] {
    if true {
        return Some(false)
    }
    return None
}
`)
	assert.Contains(t, got, "if True:")
	assert.Contains(t, got, "return False")
	assert.Contains(t, got, "return None")
}

func TestIntDivisionRendersFloorDiv(t *testing.T) {
	got := genSource(t, `
fn half(n: Int) -> Int {
    return n / 2
}
`)
	assert.Contains(t, got, "return n // 2")
}

func TestDeterministicOutput(t *testing.T) {
	source := `
fn get(flag: Bool) -> Result[Int, String] {
    if flag {
        return Ok(1)
    }
    return Err("no")
}

fn run() -> Result[Int, String] {
    let a = get(true)?
    let b = get(false)?
    return Ok(a + b)
}
`
	first := genSource(t, source)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, genSource(t, source))
	}
}
