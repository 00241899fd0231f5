package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/lexer"
)

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "Int", Int.String())
	assert.Equal(t, "Any", Interop.String())
	assert.Equal(t, "Option[Int]", OptionOf(Int).String())
	assert.Equal(t, "Result[Int, String]", ResultOf(Int, String).String())
	assert.Equal(t, "List[Option[Float]]", ListOf(OptionOf(Float)).String())
}

func TestEqualIsStructural(t *testing.T) {
	assert.True(t, OptionOf(Int).Equal(OptionOf(Int)))
	assert.False(t, OptionOf(Int).Equal(OptionOf(Float)))
	assert.False(t, OptionOf(Int).Equal(ListOf(Int)))
}

func TestCompatibleExactAndMismatched(t *testing.T) {
	assert.True(t, Compatible(Int, Int))
	assert.False(t, Compatible(Int, String))
	assert.False(t, Compatible(OptionOf(Int), OptionOf(String)))
}

func TestUnknownAbsorbsCompatibility(t *testing.T) {
	assert.True(t, Compatible(Unknown, String))
	assert.True(t, Compatible(Int, Unknown))
	assert.True(t, Compatible(OptionOf(Unknown), OptionOf(Int)))
}

func TestInteropIsWildcard(t *testing.T) {
	assert.True(t, Compatible(Int, Interop))
	assert.True(t, Compatible(Interop, ResultOf(Int, String)))
	assert.True(t, Compatible(ResultOf(Int, String), ResultOf(Int, Interop)))
	assert.False(t, Compatible(ResultOf(Int, String), ResultOf(String, String)))
}

func TestAccessors(t *testing.T) {
	r := ResultOf(Int, String)
	assert.Equal(t, Int, r.Ok())
	assert.Equal(t, String, r.Err())
	assert.Equal(t, Float, OptionOf(Float).Inner())
	assert.Equal(t, KindUnknown, Int.Inner().Kind)
}

func TestBinaryResultPromotion(t *testing.T) {
	got, ok := BinaryResult(lexer.PLUS, Int, Float)
	require.True(t, ok)
	assert.Equal(t, KindFloat, got.Kind)

	got, ok = BinaryResult(lexer.STAR, Int, Int)
	require.True(t, ok)
	assert.Equal(t, KindInt, got.Kind)
}

func TestBinaryResultStringConcat(t *testing.T) {
	got, ok := BinaryResult(lexer.PLUS, String, String)
	require.True(t, ok)
	assert.Equal(t, KindString, got.Kind)

	_, ok = BinaryResult(lexer.MINUS, String, String)
	assert.False(t, ok)
}

func TestBinaryResultUnknownAbsorbs(t *testing.T) {
	got, ok := BinaryResult(lexer.PLUS, Unknown, Int)
	assert.True(t, ok)
	assert.Equal(t, KindUnknown, got.Kind)

	got, ok = BinaryResult(lexer.LT, Unknown, String)
	assert.True(t, ok)
	assert.Equal(t, KindBool, got.Kind)
}

func TestBinaryResultEquality(t *testing.T) {
	got, ok := BinaryResult(lexer.EQ, Int, Int)
	require.True(t, ok)
	assert.Equal(t, KindBool, got.Kind)

	got, ok = BinaryResult(lexer.NEQ, Int, String)
	assert.False(t, ok)
	assert.Equal(t, KindBool, got.Kind)
}

func TestBinaryResultOrdering(t *testing.T) {
	_, ok := BinaryResult(lexer.LEQ, Int, Float)
	assert.True(t, ok)

	_, ok = BinaryResult(lexer.GT, String, String)
	assert.False(t, ok)
}

func TestBinaryResultInterop(t *testing.T) {
	got, ok := BinaryResult(lexer.PLUS, Interop, Int)
	require.True(t, ok)
	assert.Equal(t, KindInterop, got.Kind)

	got, ok = BinaryResult(lexer.EQ, Interop, String)
	require.True(t, ok)
	assert.Equal(t, KindBool, got.Kind)
}

func TestUnaryResult(t *testing.T) {
	got, ok := UnaryResult(lexer.MINUS, Float)
	require.True(t, ok)
	assert.Equal(t, KindFloat, got.Kind)

	_, ok = UnaryResult(lexer.MINUS, Bool)
	assert.False(t, ok)

	got, ok = UnaryResult(lexer.BANG, Bool)
	require.True(t, ok)
	assert.Equal(t, KindBool, got.Kind)

	_, ok = UnaryResult(lexer.BANG, Int)
	assert.False(t, ok)
}

// --- Annotation resolution ---

func ann(name string, params ...*ast.TypeAnnotation) *ast.TypeAnnotation {
	return &ast.TypeAnnotation{Name: name, Params: params, Line: 1, Column: 1}
}

func TestFromAnnotationPrimitives(t *testing.T) {
	diags := diagnostic.New()
	assert.Equal(t, Int, FromAnnotation(ann("Int"), diags))
	assert.Equal(t, Bool, FromAnnotation(ann("Bool"), diags))
	assert.Equal(t, Void, FromAnnotation(ann("Void"), diags))
	assert.False(t, diags.HasErrors())
}

func TestFromAnnotationGenerics(t *testing.T) {
	diags := diagnostic.New()
	got := FromAnnotation(ann("Result", ann("Int"), ann("String")), diags)
	assert.Equal(t, "Result[Int, String]", got.String())
	assert.False(t, diags.HasErrors())
}

func TestFromAnnotationArityErrors(t *testing.T) {
	diags := diagnostic.New()
	got := FromAnnotation(ann("Option", ann("Int"), ann("String")), diags)
	assert.Equal(t, KindUnknown, got.Kind)
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "E0314", string(diags.Errors()[0].Code))

	diags = diagnostic.New()
	FromAnnotation(ann("Int", ann("Int")), diags)
	assert.Equal(t, "E0314", string(diags.Errors()[0].Code))
}

func TestFromAnnotationRejectsAnyAtAnyDepth(t *testing.T) {
	diags := diagnostic.New()
	FromAnnotation(ann("Any"), diags)
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "E0316", string(diags.Errors()[0].Code))

	diags = diagnostic.New()
	FromAnnotation(ann("List", ann("Option", ann("Any"))), diags)
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "E0316", string(diags.Errors()[0].Code))
}

func TestFromAnnotationUnknownType(t *testing.T) {
	diags := diagnostic.New()
	got := FromAnnotation(ann("Widget"), diags)
	assert.Equal(t, KindUnknown, got.Kind)
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "E0315", string(diags.Errors()[0].Code))
}
