package pybe

import (
	"fmt"
	"strings"

	"github.com/owl-lang/owlc/internal/lower"
)

// Generate produces Python source code from a lowered Module.
func Generate(mod *lower.Module) string {
	g := &generator{}

	g.emitLine("# Generated by owlc")

	if len(mod.Imports) > 0 {
		g.emitLine("")
		for _, imp := range mod.Imports {
			switch {
			case len(imp.Names) > 0:
				names := make([]string, len(imp.Names))
				for i, n := range imp.Names {
					if n.Alias != "" {
						names[i] = n.Name + " as " + n.Alias
					} else {
						names[i] = n.Name
					}
				}
				g.emitLinef("from %s import %s", imp.Module, strings.Join(names, ", "))
			case imp.Alias != "":
				g.emitLinef("import %s as %s", imp.Module, imp.Alias)
			default:
				g.emitLinef("import %s", imp.Module)
			}
		}
	}

	if mod.NeedsResultRuntime {
		g.emitLine("")
		g.emitLine("class Ok:")
		g.incIndent()
		g.emitLine("def __init__(self, value):")
		g.incIndent()
		g.emitLine("self.value = value")
		g.decIndent()
		g.decIndent()
		g.emitLine("")
		g.emitLine("class Err:")
		g.incIndent()
		g.emitLine("def __init__(self, error):")
		g.incIndent()
		g.emitLine("self.error = error")
		g.decIndent()
		g.decIndent()
	}

	for _, fn := range mod.Functions {
		g.emitLine("")
		g.generateFunction(fn)
	}

	if len(mod.Main) > 0 {
		g.emitLine("")
		g.generateStmts(mod.Main)
	}

	if mod.HasMainFn {
		g.emitLine("")
		g.emitLine(`if __name__ == "__main__":`)
		g.incIndent()
		g.emitLine("main()")
		g.decIndent()
	}

	return g.sb.String()
}

type generator struct {
	sb     strings.Builder
	indent int
}

func (g *generator) emitLine(s string) {
	if s != "" {
		g.sb.WriteString(g.indentStr())
	}
	g.sb.WriteString(s)
	g.sb.WriteString("\n")
}

func (g *generator) emitLinef(format string, args ...any) {
	g.emitLine(fmt.Sprintf(format, args...))
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat("    ", g.indent)
}

func (g *generator) generateFunction(fn *lower.Function) {
	g.emitLinef("def %s(%s):", fn.Name, strings.Join(fn.Params, ", "))
	g.incIndent()
	if len(fn.Body) == 0 {
		g.emitLine("pass")
	} else {
		g.generateStmts(fn.Body)
	}
	g.decIndent()
}

func (g *generator) generateStmts(stmts []lower.Stmt) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *generator) generateBody(stmts []lower.Stmt) {
	g.incIndent()
	if len(stmts) == 0 {
		g.emitLine("pass")
	} else {
		g.generateStmts(stmts)
	}
	g.decIndent()
}

func (g *generator) generateStmt(stmt lower.Stmt) {
	switch s := stmt.(type) {
	case *lower.LetStmt:
		g.emitLinef("%s = %s", s.Name, g.expr(s.Value))
	case *lower.AssignStmt:
		g.emitLinef("%s = %s", s.Name, g.expr(s.Value))
	case *lower.ReturnStmt:
		if s.Value == nil {
			g.emitLine("return")
		} else {
			g.emitLinef("return %s", g.expr(s.Value))
		}
	case *lower.IfStmt:
		g.generateIf(s, "if")
	case *lower.WhileStmt:
		g.emitLinef("while %s:", g.expr(s.Cond))
		g.generateBody(s.Body)
	case *lower.ForInStmt:
		g.emitLinef("for %s in %s:", s.Var, g.expr(s.Iter))
		g.generateBody(s.Body)
	case *lower.BreakStmt:
		g.emitLine("break")
	case *lower.ContinueStmt:
		g.emitLine("continue")
	case *lower.ExprStmt:
		g.emitLine(g.expr(s.Expr))
	default:
		panic(fmt.Sprintf("pybe: unhandled statement node %T", stmt))
	}
}

// generateIf flattens else-if chains into elif
func (g *generator) generateIf(s *lower.IfStmt, keyword string) {
	g.emitLinef("%s %s:", keyword, g.expr(s.Cond))
	g.generateBody(s.Then)
	if len(s.Else) == 0 {
		return
	}
	if len(s.Else) == 1 {
		if nested, ok := s.Else[0].(*lower.IfStmt); ok {
			g.generateIf(nested, "elif")
			return
		}
	}
	g.emitLine("else:")
	g.generateBody(s.Else)
}

// Operator precedence levels, low to high. Used to decide where
// parentheses are required in the generated source.
const (
	precNot = iota + 3
	precCmp
	precAdd
	precMul
	precNeg
	precAtom
)

func opPrec(op string) int {
	switch op {
	case "+", "-":
		return precAdd
	case "*", "/", "//", "%":
		return precMul
	default:
		return precCmp
	}
}

func (g *generator) expr(e lower.Expr) string {
	s, _ := g.exprPrec(e)
	return s
}

func (g *generator) exprPrec(e lower.Expr) (string, int) {
	switch v := e.(type) {
	case *lower.IntLit:
		return v.Value, precAtom
	case *lower.FloatLit:
		return v.Value, precAtom
	case *lower.StringLit:
		return quote(v.Value), precAtom
	case *lower.BoolLit:
		if v.Value {
			return "True", precAtom
		}
		return "False", precAtom
	case *lower.NoneLit:
		return "None", precAtom
	case *lower.VarRef:
		return v.Name, precAtom

	case *lower.BinaryExpr:
		p := opPrec(v.Op)
		left := g.sub(v.Left, p, false)
		right := g.sub(v.Right, p, true)
		// comparisons chain in the target language, so nested
		// comparisons are always parenthesized (sub uses <=)
		return fmt.Sprintf("%s %s %s", left, v.Op, right), p

	case *lower.UnaryExpr:
		if v.Op == "not" {
			operand := g.sub(v.Operand, precNot, true)
			return "not " + operand, precNot
		}
		operand := g.sub(v.Operand, precNeg, false)
		return "-" + operand, precNeg

	case *lower.CallExpr:
		callee := g.sub(v.Callee, precAtom, false)
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = g.expr(a)
		}
		return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), precAtom

	case *lower.AttrExpr:
		obj := g.sub(v.Object, precAtom, false)
		return fmt.Sprintf("%s.%s", obj, v.Name), precAtom

	case *lower.IndexExpr:
		obj := g.sub(v.Object, precAtom, false)
		return fmt.Sprintf("%s[%s]", obj, g.expr(v.Index)), precAtom

	case *lower.ListLit:
		elems := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = g.expr(el)
		}
		return "[" + strings.Join(elems, ", ") + "]", precAtom

	case *lower.IsInstance:
		return fmt.Sprintf("isinstance(%s, %s)", g.expr(v.Value), v.Class), precAtom
	case *lower.IsNotNone:
		return fmt.Sprintf("%s is not None", g.sub(v.Value, precCmp, true)), precCmp
	case *lower.IsNone:
		return fmt.Sprintf("%s is None", g.sub(v.Value, precCmp, true)), precCmp

	default:
		panic(fmt.Sprintf("pybe: unhandled expression node %T", e))
	}
}

// sub renders a child expression, parenthesizing it when its
// precedence is too low for the enclosing context. strict also
// parenthesizes equal precedence (right operands, comparison chains).
func (g *generator) sub(e lower.Expr, parent int, strict bool) string {
	s, p := g.exprPrec(e)
	if p < parent || (strict && p == parent) {
		return "(" + s + ")"
	}
	return s
}

// quote renders a string as a double-quoted Python literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
