package diagnostic

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	diags := New()
	diags.Add(UndefinedVariable(At(3, 10), "x"))
	diags.Add(UnusedVariable(At(5, 1), "z"))

	got := diags.Format("main.owl")
	want := "error[E0302][main.owl:3:10]: undefined variable 'x'\n" +
		"  hint: declare it first with 'let x = ...'\n" +
		"warning[W0101][main.owl:5:1]: unused variable 'z'\n" +
		"  hint: rename it to '_z' to silence this warning"
	assert.Equal(t, want, got)
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", New().Format("main.owl"))
}

func TestWithNoteDoesNotMutateOriginal(t *testing.T) {
	base := TypeMismatch(At(1, 1), "Int", "String")
	withNote := base.WithNote("in argument 1 of 'f'")

	assert.Empty(t, base.Notes)
	require.Len(t, withNote.Notes, 1)
	assert.Equal(t, "in argument 1 of 'f'", withNote.Notes[0])
}

func TestCounts(t *testing.T) {
	diags := New()
	diags.Add(UndefinedVariable(At(1, 1), "a"))
	diags.Add(UndefinedVariable(At(2, 1), "b"))
	diags.Add(UnusedVariable(At(3, 1), "c"))

	assert.True(t, diags.HasErrors())
	assert.Equal(t, 3, diags.Count())
	assert.Equal(t, 2, diags.ErrorCount())
	assert.Equal(t, 1, diags.WarningCount())
	assert.Len(t, diags.Errors(), 2)
	assert.Len(t, diags.Warnings(), 1)
}

func TestMergePreservesOrder(t *testing.T) {
	first := New()
	first.Add(UndefinedVariable(At(1, 1), "a"))
	second := New()
	second.Add(UnusedVariable(At(2, 1), "b"))

	first.Merge(second)
	all := first.All()
	require.Len(t, all, 2)
	assert.Equal(t, ErrUndefinedVariable, all[0].Code)
	assert.Equal(t, WarnUnusedVariable, all[1].Code)
}

func TestEveryWarningFactoryCarriesAHint(t *testing.T) {
	warnings := []Diagnostic{
		UnusedVariable(At(1, 1), "x"),
		UnusedParameter(At(1, 1), "x"),
		Unreachable(At(1, 1)),
		LoopNoExit(At(1, 1)),
		ResultIgnored(At(1, 1)),
		OptionIgnored(At(1, 1)),
		ConstantCondition(At(1, 1), "true"),
		Shadowing(At(1, 1), "x"),
	}
	for _, w := range warnings {
		assert.Equal(t, Warning, w.Severity, string(w.Code))
		assert.NotEmpty(t, w.Hints, string(w.Code))
	}
}

func TestNonExhaustiveMatchNamesMissingPatterns(t *testing.T) {
	d := NonExhaustiveMatch(At(1, 1), []string{"None"})
	assert.Contains(t, d.Message, "None")
	d = NonExhaustiveMatch(At(1, 1), []string{"Ok", "Err"})
	assert.Contains(t, d.Message, "Ok, Err")
}

func TestReportJSONShape(t *testing.T) {
	diags := New()
	diags.Add(UndefinedVariable(At(3, 10), "x"))
	diags.Add(UnusedVariable(At(5, 1), "z"))

	report := NewReport("0.1.0")
	report.AddFile("main.owl", diags)
	report.AddFile("clean.owl", New())

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "0.1.0", decoded["version"])
	files := decoded["files"].([]any)
	require.Len(t, files, 2)

	first := files[0].(map[string]any)
	assert.Equal(t, "main.owl", first["file"])
	assert.Equal(t, false, first["success"])
	assert.Len(t, first["errors"].([]any), 1)
	assert.Len(t, first["warnings"].([]any), 1)

	second := files[1].(map[string]any)
	assert.Equal(t, true, second["success"])

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_files"])
	assert.Equal(t, float64(1), summary["files_with_errors"])
	assert.Equal(t, float64(1), summary["total_errors"])
	assert.Equal(t, float64(1), summary["total_warnings"])
}

func TestReportEmptyFileArraysNotNull(t *testing.T) {
	report := NewReport("0.1.0")
	report.AddFile("clean.owl", New())

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"errors":[]`)
	assert.Contains(t, string(data), `"warnings":[]`)
}

func TestRenderPlain(t *testing.T) {
	diags := New()
	diags.Add(TypeMismatch(At(2, 5), "Int", "String").WithNote("in argument 1 of 'f'"))

	var buf bytes.Buffer
	Render(&buf, "main.owl", diags, false)

	out := buf.String()
	assert.Contains(t, out, "error[E0301][main.owl:2:5]: type mismatch: expected Int, found String")
	assert.Contains(t, out, "  note: in argument 1 of 'f'")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderColor(t *testing.T) {
	diags := New()
	diags.Add(UnusedVariable(At(1, 1), "x"))

	var buf bytes.Buffer
	Render(&buf, "main.owl", diags, true)
	assert.Contains(t, buf.String(), "\x1b[33m")
}
