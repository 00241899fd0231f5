package ast

import "github.com/owl-lang/owlc/internal/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Program represents an entire Owl source file
type Program struct {
	Imports    []Import
	Functions  []*FnDecl
	Statements []Statement // top-level script statements
}

func (p *Program) Pos() (int, int) {
	if len(p.Imports) > 0 {
		return p.Imports[0].Pos()
	}
	if len(p.Functions) > 0 {
		return p.Functions[0].Pos()
	}
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 0, 0
}

// Import is a host interop import, either a whole module or a list of
// names from a dotted module path
type Import interface {
	Node
	importNode()
}

// PythonImport represents a host interop import:
// from python import <module> [as <alias>]
type PythonImport struct {
	Module string
	Alias  string // empty when no alias
	Line   int
	Column int
}

func (i *PythonImport) Pos() (int, int) { return i.Line, i.Column }
func (i *PythonImport) importNode()     {}

// LocalName returns the name the import binds in scope.
func (i *PythonImport) LocalName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Module
}

// PythonFromImport represents a dotted host interop import:
// from python.os.path import join, exists as e
// Module holds the dotted path without the leading "python".
type PythonFromImport struct {
	Module string
	Names  []*ImportName
	Line   int
	Column int
}

func (i *PythonFromImport) Pos() (int, int) { return i.Line, i.Column }
func (i *PythonFromImport) importNode()     {}

// ImportName is one imported name in a from-import list
type ImportName struct {
	Name   string
	Alias  string // empty when no alias
	Line   int
	Column int
}

func (n *ImportName) Pos() (int, int) { return n.Line, n.Column }

// LocalName returns the name the import binds in scope.
func (n *ImportName) LocalName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// FnDecl represents a function declaration
type FnDecl struct {
	Name       string
	Params     []*Param
	ReturnType *TypeAnnotation // nil means Void
	Body       *Block
	Line       int
	Column     int
}

func (f *FnDecl) Pos() (int, int) { return f.Line, f.Column }

// Param represents a function parameter
type Param struct {
	Name   string
	Type   *TypeAnnotation // nil for unannotated parameters
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// TypeAnnotation represents a written type such as Int or Option[Int]
type TypeAnnotation struct {
	Name   string
	Params []*TypeAnnotation
	Line   int
	Column int
}

func (t *TypeAnnotation) Pos() (int, int) { return t.Line, t.Column }

// Block represents a braced sequence of statements
type Block struct {
	Statements []Statement
	Line       int
	Column     int
	EndLine    int
	EndColumn  int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }
func (b *Block) stmtNode()       {}

// LetStmt represents a let or let mut binding
type LetStmt struct {
	Name    string
	Mutable bool
	Type    *TypeAnnotation // nil when inferred
	Value   Expression
	Line    int
	Column  int
}

func (l *LetStmt) Pos() (int, int) { return l.Line, l.Column }
func (l *LetStmt) stmtNode()       {}

// AssignStmt represents a reassignment of an existing binding
type AssignStmt struct {
	Name   string
	Value  Expression
	Line   int
	Column int
}

func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Value  Expression // nil for bare return
	Line   int
	Column int
}

func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// IfStmt represents an if statement; Else is nil, a *Block, or an *IfStmt
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      Statement
	Line      int
	Column    int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents a while loop
type WhileStmt struct {
	Condition Expression
	Body      *Block
	Line      int
	Column    int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// ForInStmt represents iteration over a list: for x in xs { ... }
type ForInStmt struct {
	Variable string
	VarLine  int
	VarCol   int
	Iterable Expression
	Body     *Block
	Line     int
	Column   int
}

func (f *ForInStmt) Pos() (int, int) { return f.Line, f.Column }
func (f *ForInStmt) stmtNode()       {}

// LoopStmt represents an unconditional loop
type LoopStmt struct {
	Body   *Block
	Line   int
	Column int
}

func (l *LoopStmt) Pos() (int, int) { return l.Line, l.Column }
func (l *LoopStmt) stmtNode()       {}

// BreakStmt represents a break statement
type BreakStmt struct {
	Line   int
	Column int
}

func (b *BreakStmt) Pos() (int, int) { return b.Line, b.Column }
func (b *BreakStmt) stmtNode()       {}

// ContinueStmt represents a continue statement
type ContinueStmt struct {
	Line   int
	Column int
}

func (c *ContinueStmt) Pos() (int, int) { return c.Line, c.Column }
func (c *ContinueStmt) stmtNode()       {}

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (e *ExprStmt) Pos() (int, int) { return e.Line, e.Column }
func (e *ExprStmt) stmtNode()       {}

// Identifier represents a name reference
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  string
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// FloatLit represents a float literal
type FloatLit struct {
	Value  string
	Line   int
	Column int
}

func (f *FloatLit) Pos() (int, int) { return f.Line, f.Column }
func (f *FloatLit) exprNode()       {}

// StringLit represents a string literal (decoded value)
type StringLit struct {
	Value  string
	Line   int
	Column int
}

func (s *StringLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StringLit) exprNode()       {}

// BoolLit represents a boolean literal
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// ListLit represents a list literal [a, b, c]
type ListLit struct {
	Elements []Expression
	Line     int
	Column   int
}

func (l *ListLit) Pos() (int, int) { return l.Line, l.Column }
func (l *ListLit) exprNode()       {}

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents a unary expression (- or !)
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// CallExpr represents a call; Callee is an Identifier or a
// FieldAccessExpr (interop module call)
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Line   int
	Column int
}

func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}

// FieldAccessExpr represents attribute access on an interop value
type FieldAccessExpr struct {
	Object Expression
	Field  string
	Line   int
	Column int
}

func (f *FieldAccessExpr) Pos() (int, int) { return f.Line, f.Column }
func (f *FieldAccessExpr) exprNode()       {}

// TryExpr represents the error-propagation operator (expr?)
type TryExpr struct {
	Expr   Expression
	Line   int
	Column int
}

func (t *TryExpr) Pos() (int, int) { return t.Line, t.Column }
func (t *TryExpr) exprNode()       {}

// MatchExpr represents a match expression
type MatchExpr struct {
	Subject   Expression
	Arms      []*MatchArm
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (m *MatchExpr) Pos() (int, int) { return m.Line, m.Column }
func (m *MatchExpr) exprNode()       {}

// MatchArm represents one arm: Pattern => body
type MatchArm struct {
	Pattern *Pattern
	Body    Expression
	Line    int
	Column  int
}

func (m *MatchArm) Pos() (int, int) { return m.Line, m.Column }

// PatternKind discriminates the four pattern forms
type PatternKind int

const (
	SomePattern PatternKind = iota
	NonePattern
	OkPattern
	ErrPattern
)

// String returns the source spelling of the pattern kind
func (k PatternKind) String() string {
	switch k {
	case SomePattern:
		return "Some"
	case NonePattern:
		return "None"
	case OkPattern:
		return "Ok"
	case ErrPattern:
		return "Err"
	default:
		return "?"
	}
}

// Pattern represents a match pattern. Binding is empty for None.
type Pattern struct {
	Kind    PatternKind
	Binding string
	Line    int
	Column  int
}

func (p *Pattern) Pos() (int, int) { return p.Line, p.Column }
