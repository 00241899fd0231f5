package checker

import (
	"strings"

	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/types"
)

// Binding represents a named value in scope. Used is the only field
// mutated after creation.
type Binding struct {
	Name        string
	Type        *types.Type
	Span        diagnostic.Span
	IsParameter bool
	IsMutable   bool
	Used        bool
}

// Scope is one frame of the lexical scope chain. Bindings are kept in
// insertion order so unused-binding warnings come out deterministically.
type Scope struct {
	parent   *Scope
	bindings []*Binding
	byName   map[string]*Binding
}

// NewScope creates a scope with an optional parent
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		byName: make(map[string]*Binding),
	}
}

// Child creates a nested scope
func (s *Scope) Child() *Scope {
	return NewScope(s)
}

// Define adds a binding to this scope. Returns false if the name is
// already bound in this same scope.
func (s *Scope) Define(b *Binding) bool {
	if _, exists := s.byName[b.Name]; exists {
		return false
	}
	s.bindings = append(s.bindings, b)
	s.byName[b.Name] = b
	return true
}

// Lookup walks the scope chain for a binding
func (s *Scope) Lookup(name string) *Binding {
	if b, ok := s.byName[name]; ok {
		return b
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil
}

// LookupLocal looks only in this scope
func (s *Scope) LookupLocal(name string) *Binding {
	return s.byName[name]
}

// Shadows reports whether the name is bound in an enclosing scope
func (s *Scope) Shadows(name string) bool {
	if s.parent == nil {
		return false
	}
	return s.parent.Lookup(name) != nil
}

// MarkUsed sets the used flag on the nearest binding with the name
func (s *Scope) MarkUsed(name string) {
	if b, ok := s.byName[name]; ok {
		b.Used = true
		return
	}
	if s.parent != nil {
		s.parent.MarkUsed(name)
	}
}

// ReportUnused emits a warning for every unused binding in this scope
// (not parents), in declaration order. Names starting with '_' are
// suppressed.
func (s *Scope) ReportUnused(diags *diagnostic.Diagnostics) {
	for _, b := range s.bindings {
		if b.Used || strings.HasPrefix(b.Name, "_") {
			continue
		}
		if b.IsParameter {
			diags.Add(diagnostic.UnusedParameter(b.Span, b.Name))
		} else {
			diags.Add(diagnostic.UnusedVariable(b.Span, b.Name))
		}
	}
}
