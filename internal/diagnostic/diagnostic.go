package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Code is a stable diagnostic code such as "E0301" or "W0101".
// Codes are a public contract: the same condition always produces
// the same code, and external tooling matches on them.
type Code string

// Span marks the source region a diagnostic points at. EndLine and
// EndColumn are zero for single-point spans.
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// At builds a single-point span.
func At(line, col int) Span {
	return Span{Line: line, Column: col}
}

// Diagnostic represents a single compiler error or warning
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Span     Span
	Notes    []string
	Hints    []string
}

// WithNote returns a copy of the diagnostic with an extra note attached.
func (d Diagnostic) WithNote(format string, args ...interface{}) Diagnostic {
	d.Notes = append(append([]string(nil), d.Notes...), fmt.Sprintf(format, args...))
	return d
}

// WithHint returns a copy of the diagnostic with an extra hint attached.
func (d Diagnostic) WithHint(format string, args ...interface{}) Diagnostic {
	d.Hints = append(append([]string(nil), d.Hints...), fmt.Sprintf(format, args...))
	return d
}

// Diagnostics manages a collection of diagnostic messages.
// Append-only within a run; a fresh collection is created per run.
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Add appends a diagnostic to the collection.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// Merge appends all diagnostics from another collection.
func (d *Diagnostics) Merge(other *Diagnostics) {
	d.items = append(d.items, other.items...)
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(code Code, span Span, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// Warnings returns only the warning-level diagnostics
func (d *Diagnostics) Warnings() []Diagnostic {
	warnings := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Warning {
			warnings = append(warnings, item)
		}
	}
	return warnings
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Warning {
			count++
		}
	}
	return count
}

// Format returns human-readable diagnostic messages.
// Output format:
//
//	error[E0302][filename:3:10]: undefined variable 'x'
//	  hint: did you declare it?
//	warning[W0101][filename:5:1]: unused variable 'z'
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		builder.WriteString(fmt.Sprintf("%s[%s][%s:%d:%d]: %s",
			item.Severity.String(),
			item.Code,
			filename,
			item.Span.Line,
			item.Span.Column,
			item.Message,
		))

		for _, note := range item.Notes {
			builder.WriteString(fmt.Sprintf("\n  note: %s", note))
		}
		for _, hint := range item.Hints {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", hint))
		}

		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
