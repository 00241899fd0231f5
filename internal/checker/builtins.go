package checker

import (
	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/types"
)

// IsBuiltin reports whether a name is a built-in function.
func IsBuiltin(name string) bool {
	switch name {
	case "print", "len", "is_empty", "get", "push", "range":
		return true
	}
	return false
}

// checkBuiltin types the built-in functions. get and push are generic
// over the element type of their list argument.
func (c *Checker) checkBuiltin(e *ast.CallExpr, name string) *types.Type {
	switch name {
	case "print":
		if len(e.Args) != 1 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "print", 1, len(e.Args)))
		}
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		return types.Void

	case "len":
		if len(e.Args) != 1 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "len", 1, len(e.Args)))
			c.checkArgs(e.Args)
			return types.Int
		}
		argT := c.checkExpr(e.Args[0])
		switch argT.Kind {
		case types.KindList, types.KindString, types.KindInterop, types.KindUnknown:
		default:
			c.diags.Add(diagnostic.TypeMismatch(spanOf(e.Args[0]), "List[...] or String", argT.String()))
		}
		return types.Int

	case "is_empty":
		if len(e.Args) != 1 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "is_empty", 1, len(e.Args)))
			c.checkArgs(e.Args)
			return types.Bool
		}
		c.checkListArg(e.Args[0])
		return types.Bool

	case "get":
		if len(e.Args) != 2 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "get", 2, len(e.Args)))
			c.checkArgs(e.Args)
			return types.Unknown
		}
		listT := c.checkListArg(e.Args[0])
		c.checkIntArg(e.Args[1])
		switch listT.Kind {
		case types.KindList:
			return listT.Inner()
		case types.KindInterop:
			return types.Interop
		default:
			return types.Unknown
		}

	case "push":
		if len(e.Args) != 2 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "push", 2, len(e.Args)))
			c.checkArgs(e.Args)
			return types.Unknown
		}
		listT := c.checkListArg(e.Args[0])
		elemT := c.checkExpr(e.Args[1])
		switch listT.Kind {
		case types.KindList:
			if !types.Compatible(listT.Inner(), elemT) {
				c.diags.Add(diagnostic.TypeMismatch(spanOf(e.Args[1]), listT.Inner().String(), elemT.String()).
					WithNote("the appended element must match the list's element type"))
			}
			return listT
		case types.KindInterop:
			return types.Interop
		default:
			return types.Unknown
		}

	case "range":
		if len(e.Args) != 2 {
			c.diags.Add(diagnostic.WrongArgCount(spanOf(e), "range", 2, len(e.Args)))
		}
		for _, arg := range e.Args {
			c.checkIntArg(arg)
		}
		return types.ListOf(types.Int)
	}
	return types.Unknown
}

func (c *Checker) checkArgs(args []ast.Expression) {
	for _, arg := range args {
		c.checkExpr(arg)
	}
}

func (c *Checker) checkListArg(arg ast.Expression) *types.Type {
	t := c.checkExpr(arg)
	switch t.Kind {
	case types.KindList, types.KindInterop, types.KindUnknown:
	default:
		c.diags.Add(diagnostic.TypeMismatch(spanOf(arg), "List[...]", t.String()))
	}
	return t
}

func (c *Checker) checkIntArg(arg ast.Expression) {
	t := c.checkExpr(arg)
	if !types.Compatible(types.Int, t) {
		c.diags.Add(diagnostic.TypeMismatch(spanOf(arg), "Int", t.String()))
	}
}
