package lower

// Module represents a lowered Owl program, ready for code generation.
// Match expressions and the '?' operator are already rewritten into
// primitive control flow.
type Module struct {
	Imports            []*Import
	Functions          []*Function
	Main               []Stmt // top-level script statements
	NeedsResultRuntime bool   // emit the Ok/Err wrapper classes
	HasMainFn          bool   // emit the entry-point guard
}

// Import represents a host module import. Names is empty for a whole
// module import and non-empty for a from-import of specific names.
type Import struct {
	Module string
	Alias  string
	Names  []ImportName
}

// ImportName is one name in a from-import list
type ImportName struct {
	Name  string
	Alias string
}

// Function represents a lowered function
type Function struct {
	Name   string
	Params []string
	Body   []Stmt
}

// --- Statements ---

// Stmt is the interface for all lowered statement nodes.
type Stmt interface {
	stmtNode()
}

// LetStmt binds or rebinds a name. The target language does not
// distinguish declaration from assignment.
type LetStmt struct {
	Name  string
	Value Expr
}

func (*LetStmt) stmtNode() {}

// AssignStmt reassigns a name
type AssignStmt struct {
	Name  string
	Value Expr
}

func (*AssignStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function
type ReturnStmt struct {
	Value Expr // nil for bare return
}

func (*ReturnStmt) stmtNode() {}

// IfStmt represents an if/else chain
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil when absent
}

func (*IfStmt) stmtNode() {}

// WhileStmt represents a while loop
type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

func (*WhileStmt) stmtNode() {}

// ForInStmt represents iteration over a sequence
type ForInStmt struct {
	Var  string
	Iter Expr
	Body []Stmt
}

func (*ForInStmt) stmtNode() {}

// BreakStmt exits the innermost loop
type BreakStmt struct{}

func (*BreakStmt) stmtNode() {}

// ContinueStmt continues the innermost loop
type ContinueStmt struct{}

func (*ContinueStmt) stmtNode() {}

// ExprStmt evaluates an expression for effect
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

// --- Expressions ---

// Expr is the interface for all lowered expression nodes.
type Expr interface {
	exprNode()
}

// IntLit is an integer literal
type IntLit struct {
	Value string
}

func (*IntLit) exprNode() {}

// FloatLit is a float literal
type FloatLit struct {
	Value string
}

func (*FloatLit) exprNode() {}

// StringLit is a string literal (decoded value)
type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}

// BoolLit is a boolean literal
type BoolLit struct {
	Value bool
}

func (*BoolLit) exprNode() {}

// NoneLit is the absent-value literal; Option erases to it
type NoneLit struct{}

func (*NoneLit) exprNode() {}

// VarRef references a variable or function by name
type VarRef struct {
	Name string
}

func (*VarRef) exprNode() {}

// BinaryExpr applies a target-language binary operator
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr applies a target-language unary operator ("-" or "not")
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// CallExpr calls a function or attribute
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// AttrExpr accesses an attribute on a value
type AttrExpr struct {
	Object Expr
	Name   string
}

func (*AttrExpr) exprNode() {}

// IndexExpr subscripts a sequence: xs[i]
type IndexExpr struct {
	Object Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// ListLit is a list literal
type ListLit struct {
	Elements []Expr
}

func (*ListLit) exprNode() {}

// IsInstance guards a Result variant: isinstance(x, Ok) / isinstance(x, Err)
type IsInstance struct {
	Value Expr
	Class string
}

func (*IsInstance) exprNode() {}

// IsNotNone guards the present Option variant: x is not None
type IsNotNone struct {
	Value Expr
}

func (*IsNotNone) exprNode() {}

// IsNone guards the absent Option variant: x is None
type IsNone struct {
	Value Expr
}

func (*IsNone) exprNode() {}
