package types

import (
	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/diagnostic"
)

// FromAnnotation resolves a written type annotation to a Type,
// validating arity and rejecting the interop spelling at any nesting
// depth. Invalid annotations report a diagnostic and resolve to
// Unknown so checking can continue.
func FromAnnotation(ann *ast.TypeAnnotation, diags *diagnostic.Diagnostics) *Type {
	if ann == nil {
		return Unknown
	}
	span := diagnostic.At(ann.Line, ann.Column)

	switch ann.Name {
	case "Int", "Float", "String", "Bool", "Void":
		if len(ann.Params) != 0 {
			diags.Add(diagnostic.WrongTypeArity(span, ann.Name, 0, len(ann.Params)))
			return Unknown
		}
		switch ann.Name {
		case "Int":
			return Int
		case "Float":
			return Float
		case "String":
			return String
		case "Bool":
			return Bool
		default:
			return Void
		}
	case "Any":
		// Interop is never user-annotatable, even nested.
		diags.Add(diagnostic.InteropAnnotation(span))
		return Unknown
	case "Option":
		if len(ann.Params) != 1 {
			diags.Add(diagnostic.WrongTypeArity(span, "Option", 1, len(ann.Params)))
			return Unknown
		}
		inner := FromAnnotation(ann.Params[0], diags)
		return OptionOf(inner)
	case "Result":
		if len(ann.Params) != 2 {
			diags.Add(diagnostic.WrongTypeArity(span, "Result", 2, len(ann.Params)))
			return Unknown
		}
		ok := FromAnnotation(ann.Params[0], diags)
		errT := FromAnnotation(ann.Params[1], diags)
		return ResultOf(ok, errT)
	case "List":
		if len(ann.Params) != 1 {
			diags.Add(diagnostic.WrongTypeArity(span, "List", 1, len(ann.Params)))
			return Unknown
		}
		elem := FromAnnotation(ann.Params[0], diags)
		return ListOf(elem)
	default:
		diags.Add(diagnostic.UnknownType(span, ann.Name))
		return Unknown
	}
}
