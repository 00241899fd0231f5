package diagnostic

import (
	"fmt"
	"strings"
)

// Stable diagnostic codes. The partitioning follows the category scheme:
// E01xx lexical, E02xx syntax, E03xx type/scope, E04xx import,
// E05xx control flow; W01xx variables, W02xx dead code, W03xx
// style/value-ignored, W04xx shadowing.
const (
	// Lexical
	ErrUnexpectedChar      Code = "E0101"
	ErrUnterminatedString  Code = "E0102"
	ErrInvalidEscape       Code = "E0103"
	ErrMalformedNumber     Code = "E0104"
	ErrUnterminatedComment Code = "E0105"

	// Syntax
	ErrUnexpectedToken  Code = "E0201"
	ErrExpectedToken    Code = "E0202"
	ErrExpectedExpr     Code = "E0203"
	ErrExpectedType     Code = "E0204"
	ErrBadAssignTarget  Code = "E0205"
	ErrExpectedPattern  Code = "E0206"

	// Types and scope
	ErrTypeMismatch       Code = "E0301"
	ErrUndefinedVariable  Code = "E0302"
	ErrUndefinedFunction  Code = "E0303"
	ErrInvalidOperation   Code = "E0304"
	ErrIncompatibleTypes  Code = "E0305"
	ErrReturnMismatch     Code = "E0306"
	ErrBranchMismatch     Code = "E0307"
	ErrWrongArgCount      Code = "E0308"
	ErrCondNotBool        Code = "E0309"
	ErrCannotNegate       Code = "E0310"
	ErrTryNotResult       Code = "E0311"
	ErrTryOutsideResult   Code = "E0312"
	ErrTryErrorMismatch   Code = "E0313"
	ErrWrongTypeArity     Code = "E0314"
	ErrUnknownType        Code = "E0315"
	ErrInteropAnnotation  Code = "E0316"
	ErrRedefinition       Code = "E0320"
	ErrAssignImmutable    Code = "E0323"

	// Imports. E0401 is part of the stable code table; module existence
	// is only knowable at run time, so the compiler never produces it.
	ErrImportNotFound Code = "E0401"

	// Control flow
	ErrMissingReturn      Code = "E0501"
	ErrNonExhaustiveMatch Code = "E0503"
	ErrInvalidPattern     Code = "E0504"
	ErrBreakOutsideLoop   Code = "E0505"
	ErrContinueOutside    Code = "E0506"
	ErrMatchNotAlgebraic  Code = "E0507"

	// Warnings
	WarnUnusedVariable  Code = "W0101"
	WarnUnusedParameter Code = "W0102"
	WarnUnreachable     Code = "W0201"
	WarnLoopNoExit      Code = "W0204"
	WarnResultIgnored   Code = "W0304"
	WarnOptionIgnored   Code = "W0305"
	WarnConstantCond    Code = "W0306"
	WarnShadowing       Code = "W0401"
)

// Factory constructors. Each condition has exactly one factory, so a
// given condition always carries the same code and message shape.
// Every warning factory attaches at least one hint.

func TypeMismatch(span Span, expected, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrTypeMismatch,
		Severity: Error,
		Message:  fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual),
		Span:     span,
	}
}

func UndefinedVariable(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     ErrUndefinedVariable,
		Severity: Error,
		Message:  fmt.Sprintf("undefined variable '%s'", name),
		Span:     span,
	}.WithHint("declare it first with 'let %s = ...'", name)
}

func UndefinedFunction(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     ErrUndefinedFunction,
		Severity: Error,
		Message:  fmt.Sprintf("undefined function '%s'", name),
		Span:     span,
	}
}

func InvalidOperation(span Span, op, left, right string) Diagnostic {
	return Diagnostic{
		Code:     ErrInvalidOperation,
		Severity: Error,
		Message:  fmt.Sprintf("invalid operation: %s %s %s", left, op, right),
		Span:     span,
	}
}

func IncompatibleTypes(span Span, context, left, right string) Diagnostic {
	return Diagnostic{
		Code:     ErrIncompatibleTypes,
		Severity: Error,
		Message:  fmt.Sprintf("incompatible types in %s: %s vs %s", context, left, right),
		Span:     span,
	}
}

func ReturnMismatch(span Span, declared, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrReturnMismatch,
		Severity: Error,
		Message:  fmt.Sprintf("return type mismatch: function returns %s, found %s", declared, actual),
		Span:     span,
	}
}

func BranchMismatch(span Span, thenType, elseType string) Diagnostic {
	return Diagnostic{
		Code:     ErrBranchMismatch,
		Severity: Error,
		Message:  fmt.Sprintf("if branches have mismatched types: %s vs %s", thenType, elseType),
		Span:     span,
	}
}

func WrongArgCount(span Span, name string, want, got int) Diagnostic {
	return Diagnostic{
		Code:     ErrWrongArgCount,
		Severity: Error,
		Message:  fmt.Sprintf("'%s' expects %d argument(s), found %d", name, want, got),
		Span:     span,
	}
}

func CondNotBool(span Span, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrCondNotBool,
		Severity: Error,
		Message:  fmt.Sprintf("condition must be Bool, found %s", actual),
		Span:     span,
	}
}

func CannotNegate(span Span, op, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrCannotNegate,
		Severity: Error,
		Message:  fmt.Sprintf("cannot apply unary '%s' to %s", op, actual),
		Span:     span,
	}
}

func TryNotResult(span Span, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrTryNotResult,
		Severity: Error,
		Message:  fmt.Sprintf("'?' requires a Result operand, found %s", actual),
		Span:     span,
	}.WithNote("only Result values can be propagated with '?'")
}

func TryOutsideResult(span Span, declared string) Diagnostic {
	return Diagnostic{
		Code:     ErrTryOutsideResult,
		Severity: Error,
		Message:  fmt.Sprintf("'?' used in a function returning %s", declared),
		Span:     span,
	}.WithHint("change the return type to Result[...] to propagate errors")
}

func TryErrorMismatch(span Span, operandErr, fnErr string) Diagnostic {
	return Diagnostic{
		Code:     ErrTryErrorMismatch,
		Severity: Error,
		Message:  fmt.Sprintf("'?' propagates error type %s, but the function returns error type %s", operandErr, fnErr),
		Span:     span,
	}
}

func WrongTypeArity(span Span, name string, want, got int) Diagnostic {
	return Diagnostic{
		Code:     ErrWrongTypeArity,
		Severity: Error,
		Message:  fmt.Sprintf("type %s expects %d parameter(s), found %d", name, want, got),
		Span:     span,
	}
}

func UnknownType(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     ErrUnknownType,
		Severity: Error,
		Message:  fmt.Sprintf("unknown type '%s'", name),
		Span:     span,
	}
}

func InteropAnnotation(span Span) Diagnostic {
	return Diagnostic{
		Code:     ErrInteropAnnotation,
		Severity: Error,
		Message:  "'Any' cannot be written in a type annotation",
		Span:     span,
	}.WithNote("values from python imports carry this type implicitly; it never appears in source")
}

func Redefinition(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     ErrRedefinition,
		Severity: Error,
		Message:  fmt.Sprintf("'%s' is already defined in this scope", name),
		Span:     span,
	}
}

func AssignImmutable(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     ErrAssignImmutable,
		Severity: Error,
		Message:  fmt.Sprintf("cannot assign to immutable variable '%s'", name),
		Span:     span,
	}.WithHint("declare it with 'let mut %s' to allow reassignment", name)
}

func MissingReturn(span Span, name, declared string) Diagnostic {
	return Diagnostic{
		Code:     ErrMissingReturn,
		Severity: Error,
		Message:  fmt.Sprintf("function '%s' returns %s but not all paths return a value", name, declared),
		Span:     span,
	}
}

func NonExhaustiveMatch(span Span, missing []string) Diagnostic {
	return Diagnostic{
		Code:     ErrNonExhaustiveMatch,
		Severity: Error,
		Message:  fmt.Sprintf("non-exhaustive match: missing pattern(s) %s", strings.Join(missing, ", ")),
		Span:     span,
	}.WithHint("add an arm for %s", strings.Join(missing, " and "))
}

func InvalidPattern(span Span, pattern, subject string) Diagnostic {
	return Diagnostic{
		Code:     ErrInvalidPattern,
		Severity: Error,
		Message:  fmt.Sprintf("pattern %s does not apply to subject of type %s", pattern, subject),
		Span:     span,
	}
}

func BreakOutsideLoop(span Span) Diagnostic {
	return Diagnostic{
		Code:     ErrBreakOutsideLoop,
		Severity: Error,
		Message:  "'break' outside of a loop",
		Span:     span,
	}
}

func ContinueOutsideLoop(span Span) Diagnostic {
	return Diagnostic{
		Code:     ErrContinueOutside,
		Severity: Error,
		Message:  "'continue' outside of a loop",
		Span:     span,
	}
}

func MatchNotAlgebraic(span Span, actual string) Diagnostic {
	return Diagnostic{
		Code:     ErrMatchNotAlgebraic,
		Severity: Error,
		Message:  fmt.Sprintf("match subject must be Option or Result, found %s", actual),
		Span:     span,
	}
}

func UnusedVariable(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     WarnUnusedVariable,
		Severity: Warning,
		Message:  fmt.Sprintf("unused variable '%s'", name),
		Span:     span,
	}.WithHint("rename it to '_%s' to silence this warning", name)
}

func UnusedParameter(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     WarnUnusedParameter,
		Severity: Warning,
		Message:  fmt.Sprintf("unused parameter '%s'", name),
		Span:     span,
	}.WithHint("rename it to '_%s' to silence this warning", name)
}

func Unreachable(span Span) Diagnostic {
	return Diagnostic{
		Code:     WarnUnreachable,
		Severity: Warning,
		Message:  "unreachable code",
		Span:     span,
	}.WithHint("remove this statement or move it before the return")
}

func LoopNoExit(span Span) Diagnostic {
	return Diagnostic{
		Code:     WarnLoopNoExit,
		Severity: Warning,
		Message:  "loop has no reachable exit",
		Span:     span,
	}.WithHint("add a 'break' or 'return' inside the loop body")
}

func ResultIgnored(span Span) Diagnostic {
	return Diagnostic{
		Code:     WarnResultIgnored,
		Severity: Warning,
		Message:  "Result value is ignored",
		Span:     span,
	}.WithHint("handle it with 'match' or propagate it with '?'")
}

func OptionIgnored(span Span) Diagnostic {
	return Diagnostic{
		Code:     WarnOptionIgnored,
		Severity: Warning,
		Message:  "Option value is ignored",
		Span:     span,
	}.WithHint("handle it with 'match' or bind it with 'let'")
}

func ConstantCondition(span Span, value string) Diagnostic {
	return Diagnostic{
		Code:     WarnConstantCond,
		Severity: Warning,
		Message:  fmt.Sprintf("condition is always %s", value),
		Span:     span,
	}.WithHint("replace the literal condition or remove the branch")
}

func Shadowing(span Span, name string) Diagnostic {
	return Diagnostic{
		Code:     WarnShadowing,
		Severity: Warning,
		Message:  fmt.Sprintf("'%s' shadows an outer binding", name),
		Span:     span,
	}.WithHint("rename the inner '%s' to avoid confusion", name)
}
