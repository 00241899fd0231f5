package types

// Kind discriminates the closed set of Owl types
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindVoid
	KindUnknown // internal error sentinel, absorbs follow-on errors
	KindInterop // values crossing the python import boundary
	KindOption
	KindResult
	KindList
)

// Type represents a type in the Owl type system. Params holds the
// inner type for Option/List and [ok, err] for Result.
type Type struct {
	Kind   Kind
	Params []*Type
}

// Singleton instances for the parameterless types
var (
	Int     = &Type{Kind: KindInt}
	Float   = &Type{Kind: KindFloat}
	String  = &Type{Kind: KindString}
	Bool    = &Type{Kind: KindBool}
	Void    = &Type{Kind: KindVoid}
	Unknown = &Type{Kind: KindUnknown}
	Interop = &Type{Kind: KindInterop}
)

// OptionOf builds Option[inner]
func OptionOf(inner *Type) *Type {
	return &Type{Kind: KindOption, Params: []*Type{inner}}
}

// ResultOf builds Result[ok, err]
func ResultOf(ok, err *Type) *Type {
	return &Type{Kind: KindResult, Params: []*Type{ok, err}}
}

// ListOf builds List[elem]
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Params: []*Type{elem}}
}

// Inner returns the payload type of an Option or List
func (t *Type) Inner() *Type {
	if (t.Kind == KindOption || t.Kind == KindList) && len(t.Params) == 1 {
		return t.Params[0]
	}
	return Unknown
}

// Ok returns the success type of a Result
func (t *Type) Ok() *Type {
	if t.Kind == KindResult && len(t.Params) == 2 {
		return t.Params[0]
	}
	return Unknown
}

// Err returns the error type of a Result
func (t *Type) Err() *Type {
	if t.Kind == KindResult && len(t.Params) == 2 {
		return t.Params[1]
	}
	return Unknown
}

// IsNumeric reports whether the type is Int or Float
func (t *Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindFloat
}

// Equal checks structural equality
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// Compatible implements the assignment/return relation. Unknown on
// either side absorbs the comparison (error recovery). Interop acts
// as a wildcard at the position where it appears, because it can only
// originate at the import boundary.
func Compatible(expected, actual *Type) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	if expected.Kind == KindUnknown || actual.Kind == KindUnknown {
		return true
	}
	if expected.Kind == KindInterop || actual.Kind == KindInterop {
		return true
	}
	if expected.Kind != actual.Kind {
		return false
	}
	if len(expected.Params) != len(actual.Params) {
		return false
	}
	for i := range expected.Params {
		if !Compatible(expected.Params[i], actual.Params[i]) {
			return false
		}
	}
	return true
}

// String renders the type the way users write it, e.g. Option[Int]
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindVoid:
		return "Void"
	case KindUnknown:
		return "<unknown>"
	case KindInterop:
		return "Any"
	case KindOption:
		return "Option[" + t.Inner().String() + "]"
	case KindResult:
		return "Result[" + t.Ok().String() + ", " + t.Err().String() + "]"
	case KindList:
		return "List[" + t.Inner().String() + "]"
	default:
		return "<invalid>"
	}
}
