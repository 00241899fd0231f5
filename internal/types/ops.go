package types

import "github.com/owl-lang/owlc/internal/lexer"

// OpClass distinguishes operator families for error reporting
type OpClass int

const (
	OpArithmetic OpClass = iota
	OpEquality
	OpOrdering
)

// ClassOf returns the operator family of a binary operator token
func ClassOf(op lexer.TokenType) OpClass {
	switch op {
	case lexer.EQ, lexer.NEQ:
		return OpEquality
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return OpOrdering
	default:
		return OpArithmetic
	}
}

// BinaryResult types a binary operation. It returns the result type
// and whether the combination is valid. Unknown operands absorb the
// check so one error does not cascade.
func BinaryResult(op lexer.TokenType, left, right *Type) (*Type, bool) {
	if left.Kind == KindUnknown || right.Kind == KindUnknown {
		if ClassOf(op) == OpArithmetic {
			return Unknown, true
		}
		return Bool, true
	}

	switch ClassOf(op) {
	case OpArithmetic:
		// String concatenation is spelled with +.
		if op == lexer.PLUS && left.Kind == KindString && right.Kind == KindString {
			return String, true
		}
		if left.Kind == KindInterop || right.Kind == KindInterop {
			return Interop, true
		}
		if left.IsNumeric() && right.IsNumeric() {
			if left.Kind == KindFloat || right.Kind == KindFloat {
				return Float, true
			}
			return Int, true
		}
		return Unknown, false

	case OpEquality:
		if left.Kind == KindInterop || right.Kind == KindInterop {
			return Bool, true
		}
		if left.Equal(right) {
			return Bool, true
		}
		return Bool, false

	default: // ordering
		if left.Kind == KindInterop || right.Kind == KindInterop {
			return Bool, true
		}
		if left.IsNumeric() && right.IsNumeric() {
			return Bool, true
		}
		return Bool, false
	}
}

// UnaryResult types a unary operation (- or !)
func UnaryResult(op lexer.TokenType, operand *Type) (*Type, bool) {
	if operand.Kind == KindUnknown {
		return Unknown, true
	}
	switch op {
	case lexer.MINUS:
		if operand.Kind == KindInterop {
			return Interop, true
		}
		if operand.IsNumeric() {
			return operand, true
		}
		return Unknown, false
	case lexer.BANG:
		if operand.Kind == KindInterop || operand.Kind == KindBool {
			return Bool, true
		}
		return Bool, false
	default:
		return Unknown, false
	}
}
