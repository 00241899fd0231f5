package parser

import (
	"strings"

	"github.com/owl-lang/owlc/internal/ast"
	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/lexer"
)

// Parser builds an AST from Owl source via recursive descent
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// New creates a parser over the given source text
func New(source string) *Parser {
	l := lexer.New(source)
	tokens := l.Tokenize()
	p := &Parser{
		tokens: tokens,
		diags:  diagnostic.New(),
	}
	p.diags.Merge(l.Diagnostics())
	return p
}

// Diagnostics returns lexical and syntax diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) span(tok lexer.Token) diagnostic.Span {
	return diagnostic.At(tok.Line, tok.Column)
}

// expect consumes the current token if it matches, otherwise reports
// E0202 and leaves the position unchanged.
func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, bool) {
	if p.curIs(t) {
		return p.advance(), true
	}
	tok := p.cur()
	p.diags.Add(diagnostic.Diagnostic{
		Code:     diagnostic.ErrExpectedToken,
		Severity: diagnostic.Error,
		Message:  "expected " + what + ", found '" + tokenText(tok) + "'",
		Span:     p.span(tok),
	})
	return tok, false
}

func tokenText(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of file"
	}
	return tok.Literal
}

// synchronize skips tokens until a likely statement boundary
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		switch p.cur().Type {
		case lexer.FN, lexer.LET, lexer.RETURN, lexer.IF, lexer.WHILE,
			lexer.FOR, lexer.LOOP, lexer.BREAK, lexer.CONTINUE,
			lexer.MATCH, lexer.FROM, lexer.RBRACE:
			return
		}
		p.advance()
	}
}

// Parse consumes the whole token stream and returns the program
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}

	for !p.curIs(lexer.EOF) {
		switch p.cur().Type {
		case lexer.FROM:
			if imp := p.parseImport(); imp != nil {
				prog.Imports = append(prog.Imports, imp)
			}
		case lexer.FN:
			if fn := p.parseFnDecl(); fn != nil {
				prog.Functions = append(prog.Functions, fn)
			}
		default:
			before := p.pos
			if stmt := p.parseStatement(); stmt != nil {
				prog.Statements = append(prog.Statements, stmt)
			}
			if p.pos == before {
				// no progress, skip the offending token
				p.advance()
			}
		}
	}

	return prog
}

// parseImport parses either import form:
//
//	from python import <module> [as <alias>]
//	from python.<dotted.path> import <name> [as <alias>], ...
func (p *Parser) parseImport() ast.Import {
	fromTok := p.advance() // consume 'from'

	if _, ok := p.expect(lexer.PYTHON, "'python'"); !ok {
		p.synchronize()
		return nil
	}

	var parts []string
	for p.curIs(lexer.DOT) {
		p.advance()
		partTok, ok := p.expect(lexer.IDENT, "module name")
		if !ok {
			p.synchronize()
			return nil
		}
		parts = append(parts, partTok.Literal)
	}

	if _, ok := p.expect(lexer.IMPORT, "'import'"); !ok {
		p.synchronize()
		return nil
	}

	if len(parts) > 0 {
		imp := &ast.PythonFromImport{
			Module: strings.Join(parts, "."),
			Line:   fromTok.Line,
			Column: fromTok.Column,
		}
		for {
			nameTok, ok := p.expect(lexer.IDENT, "import name")
			if !ok {
				p.synchronize()
				return nil
			}
			name := &ast.ImportName{
				Name:   nameTok.Literal,
				Line:   nameTok.Line,
				Column: nameTok.Column,
			}
			if p.curIs(lexer.AS) {
				p.advance()
				aliasTok, ok := p.expect(lexer.IDENT, "import alias")
				if !ok {
					p.synchronize()
					return nil
				}
				name.Alias = aliasTok.Literal
			}
			imp.Names = append(imp.Names, name)
			if !p.curIs(lexer.COMMA) {
				break
			}
			p.advance()
		}
		return imp
	}

	nameTok, ok := p.expect(lexer.IDENT, "module name")
	if !ok {
		p.synchronize()
		return nil
	}

	imp := &ast.PythonImport{
		Module: nameTok.Literal,
		Line:   fromTok.Line,
		Column: fromTok.Column,
	}

	if p.curIs(lexer.AS) {
		p.advance()
		aliasTok, ok := p.expect(lexer.IDENT, "import alias")
		if !ok {
			p.synchronize()
			return nil
		}
		imp.Alias = aliasTok.Literal
	}

	return imp
}

// parseFnDecl parses: fn name(params) [-> Type] { ... }
func (p *Parser) parseFnDecl() *ast.FnDecl {
	fnTok := p.advance() // consume 'fn'

	nameTok, ok := p.expect(lexer.IDENT, "function name")
	if !ok {
		p.synchronize()
		return nil
	}

	fn := &ast.FnDecl{
		Name:   nameTok.Literal,
		Line:   fnTok.Line,
		Column: fnTok.Column,
	}

	if _, ok := p.expect(lexer.LPAREN, "'('"); !ok {
		p.synchronize()
		return nil
	}

	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		paramTok, ok := p.expect(lexer.IDENT, "parameter name")
		if !ok {
			p.synchronize()
			return nil
		}
		param := &ast.Param{
			Name:   paramTok.Literal,
			Line:   paramTok.Line,
			Column: paramTok.Column,
		}
		if p.curIs(lexer.COLON) {
			p.advance()
			param.Type = p.parseTypeAnnotation()
		}
		fn.Params = append(fn.Params, param)

		if p.curIs(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, ok := p.expect(lexer.RPAREN, "')'"); !ok {
		p.synchronize()
		return nil
	}

	if p.curIs(lexer.ARROW) {
		p.advance()
		fn.ReturnType = p.parseTypeAnnotation()
	}

	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseTypeAnnotation parses: Name or Name[T, ...]
func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	if !p.curIs(lexer.IDENT) {
		p.diags.Add(diagnostic.Diagnostic{
			Code:     diagnostic.ErrExpectedType,
			Severity: diagnostic.Error,
			Message:  "expected a type, found '" + tokenText(p.cur()) + "'",
			Span:     p.span(p.cur()),
		})
		return nil
	}
	nameTok := p.advance()

	ann := &ast.TypeAnnotation{
		Name:   nameTok.Literal,
		Line:   nameTok.Line,
		Column: nameTok.Column,
	}

	if p.curIs(lexer.LBRACKET) {
		p.advance()
		for {
			inner := p.parseTypeAnnotation()
			if inner == nil {
				return ann
			}
			ann.Params = append(ann.Params, inner)
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.RBRACKET, "']'")
	}

	return ann
}

// parseBlock parses a braced statement list
func (p *Parser) parseBlock() *ast.Block {
	lbrace, ok := p.expect(lexer.LBRACE, "'{'")
	if !ok {
		p.synchronize()
		return nil
	}

	block := &ast.Block{Line: lbrace.Line, Column: lbrace.Column}

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}

	rbrace, _ := p.expect(lexer.RBRACE, "'}'")
	block.EndLine = rbrace.Line
	block.EndColumn = rbrace.Column
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.BREAK:
		tok := p.advance()
		return &ast.BreakStmt{Line: tok.Line, Column: tok.Column}
	case lexer.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStmt{Line: tok.Line, Column: tok.Column}
	default:
		if p.curIs(lexer.IDENT) && p.peekIs(lexer.ASSIGN) {
			return p.parseAssign()
		}
		return p.parseExprStatement()
	}
}

func (p *Parser) parseLet() ast.Statement {
	letTok := p.advance() // consume 'let'

	mutable := false
	if p.curIs(lexer.MUT) {
		p.advance()
		mutable = true
	}

	nameTok, ok := p.expect(lexer.IDENT, "variable name")
	if !ok {
		p.synchronize()
		return nil
	}

	stmt := &ast.LetStmt{
		Name:    nameTok.Literal,
		Mutable: mutable,
		Line:    letTok.Line,
		Column:  letTok.Column,
	}

	if p.curIs(lexer.COLON) {
		p.advance()
		stmt.Type = p.parseTypeAnnotation()
	}

	if _, ok := p.expect(lexer.ASSIGN, "'='"); !ok {
		p.synchronize()
		return nil
	}

	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseAssign() ast.Statement {
	nameTok := p.advance() // IDENT
	p.advance()            // '='

	stmt := &ast.AssignStmt{
		Name:   nameTok.Literal,
		Line:   nameTok.Line,
		Column: nameTok.Column,
	}
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	retTok := p.advance() // consume 'return'

	stmt := &ast.ReturnStmt{Line: retTok.Line, Column: retTok.Column}
	if canStartExpression(p.cur().Type) {
		stmt.Value = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parseIf() ast.Statement {
	ifTok := p.advance() // consume 'if'

	stmt := &ast.IfStmt{Line: ifTok.Line, Column: ifTok.Column}
	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.synchronize()
		return nil
	}

	stmt.Then = p.parseBlock()
	if stmt.Then == nil {
		return nil
	}

	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}

	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	whileTok := p.advance() // consume 'while'

	stmt := &ast.WhileStmt{Line: whileTok.Line, Column: whileTok.Column}
	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.synchronize()
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseFor() ast.Statement {
	forTok := p.advance() // consume 'for'

	varTok, ok := p.expect(lexer.IDENT, "loop variable")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(lexer.IN, "'in'"); !ok {
		p.synchronize()
		return nil
	}

	stmt := &ast.ForInStmt{
		Variable: varTok.Literal,
		VarLine:  varTok.Line,
		VarCol:   varTok.Column,
		Line:     forTok.Line,
		Column:   forTok.Column,
	}
	stmt.Iterable = p.parseExpression()
	if stmt.Iterable == nil {
		p.synchronize()
		return nil
	}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseLoop() ast.Statement {
	loopTok := p.advance() // consume 'loop'

	stmt := &ast.LoopStmt{Line: loopTok.Line, Column: loopTok.Column}
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExprStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression()
	if expr == nil {
		p.synchronize()
		return nil
	}
	return &ast.ExprStmt{Expr: expr, Line: tok.Line, Column: tok.Column}
}

// canStartExpression reports whether a token type can begin an expression
func canStartExpression(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.INT_LIT, lexer.FLOAT_LIT, lexer.STRING_LIT,
		lexer.TRUE, lexer.FALSE, lexer.LPAREN, lexer.LBRACKET,
		lexer.MINUS, lexer.BANG, lexer.MATCH:
		return true
	}
	return false
}

// --- Expressions ---

func (p *Parser) parseExpression() ast.Expression {
	return p.parseEquality()
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for left != nil && (p.curIs(lexer.EQ) || p.curIs(lexer.NEQ)) {
		opTok := p.advance()
		right := p.parseComparison()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{
			Left: left, Op: opTok.Type, Right: right,
			Line: opTok.Line, Column: opTok.Column,
		}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for left != nil && (p.curIs(lexer.LT) || p.curIs(lexer.GT) ||
		p.curIs(lexer.LEQ) || p.curIs(lexer.GEQ)) {
		opTok := p.advance()
		right := p.parseAdditive()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{
			Left: left, Op: opTok.Type, Right: right,
			Line: opTok.Line, Column: opTok.Column,
		}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for left != nil && (p.curIs(lexer.PLUS) || p.curIs(lexer.MINUS)) {
		opTok := p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{
			Left: left, Op: opTok.Type, Right: right,
			Line: opTok.Line, Column: opTok.Column,
		}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for left != nil && (p.curIs(lexer.STAR) || p.curIs(lexer.SLASH) || p.curIs(lexer.PERCENT)) {
		opTok := p.advance()
		right := p.parseUnary()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{
			Left: left, Op: opTok.Type, Right: right,
			Line: opTok.Line, Column: opTok.Column,
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curIs(lexer.MINUS) || p.curIs(lexer.BANG) {
		opTok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Op: opTok.Type, Operand: operand,
			Line: opTok.Line, Column: opTok.Column,
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.cur().Type {
		case lexer.LPAREN:
			lparen := p.advance()
			call := &ast.CallExpr{
				Callee: expr,
				Line:   lparen.Line,
				Column: lparen.Column,
			}
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				arg := p.parseExpression()
				if arg == nil {
					p.synchronize()
					return call
				}
				call.Args = append(call.Args, arg)
				if p.curIs(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN, "')'")
			expr = call
		case lexer.DOT:
			p.advance()
			fieldTok, ok := p.expect(lexer.IDENT, "field name")
			if !ok {
				return expr
			}
			expr = &ast.FieldAccessExpr{
				Object: expr,
				Field:  fieldTok.Literal,
				Line:   fieldTok.Line,
				Column: fieldTok.Column,
			}
		case lexer.QUESTION:
			qTok := p.advance()
			expr = &ast.TryExpr{Expr: expr, Line: qTok.Line, Column: qTok.Column}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.FloatLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.StringLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Line: tok.Line, Column: tok.Column}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN, "')'")
		return expr
	case lexer.LBRACKET:
		return p.parseListLit()
	case lexer.MATCH:
		return p.parseMatch()
	default:
		p.diags.Add(diagnostic.Diagnostic{
			Code:     diagnostic.ErrExpectedExpr,
			Severity: diagnostic.Error,
			Message:  "expected an expression, found '" + tokenText(tok) + "'",
			Span:     p.span(tok),
		})
		return nil
	}
}

func (p *Parser) parseListLit() ast.Expression {
	lbracket := p.advance() // consume '['

	lit := &ast.ListLit{Line: lbracket.Line, Column: lbracket.Column}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		elem := p.parseExpression()
		if elem == nil {
			p.synchronize()
			return lit
		}
		lit.Elements = append(lit.Elements, elem)
		if p.curIs(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET, "']'")
	return lit
}

func (p *Parser) parseMatch() ast.Expression {
	matchTok := p.advance() // consume 'match'

	m := &ast.MatchExpr{Line: matchTok.Line, Column: matchTok.Column}
	m.Subject = p.parseExpression()
	if m.Subject == nil {
		p.synchronize()
		return nil
	}

	if _, ok := p.expect(lexer.LBRACE, "'{'"); !ok {
		p.synchronize()
		return nil
	}

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		arm := p.parseMatchArm()
		if arm == nil {
			p.synchronize()
			break
		}
		m.Arms = append(m.Arms, arm)
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}

	rbrace, _ := p.expect(lexer.RBRACE, "'}'")
	m.EndLine = rbrace.Line
	m.EndColumn = rbrace.Column
	return m
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	arm := &ast.MatchArm{Pattern: pat, Line: pat.Line, Column: pat.Column}

	if _, ok := p.expect(lexer.FATARROW, "'=>'"); !ok {
		return nil
	}

	arm.Body = p.parseExpression()
	if arm.Body == nil {
		return nil
	}
	return arm
}

func (p *Parser) parsePattern() *ast.Pattern {
	tok := p.cur()
	if tok.Type != lexer.IDENT {
		p.diags.Add(diagnostic.Diagnostic{
			Code:     diagnostic.ErrExpectedPattern,
			Severity: diagnostic.Error,
			Message:  "expected a pattern (Some, None, Ok or Err), found '" + tokenText(tok) + "'",
			Span:     p.span(tok),
		})
		return nil
	}

	var kind ast.PatternKind
	needsBinding := true
	switch tok.Literal {
	case "Some":
		kind = ast.SomePattern
	case "None":
		kind = ast.NonePattern
		needsBinding = false
	case "Ok":
		kind = ast.OkPattern
	case "Err":
		kind = ast.ErrPattern
	default:
		p.diags.Add(diagnostic.Diagnostic{
			Code:     diagnostic.ErrExpectedPattern,
			Severity: diagnostic.Error,
			Message:  "unknown pattern '" + tok.Literal + "'",
			Span:     p.span(tok),
		})
		return nil
	}
	p.advance()

	pat := &ast.Pattern{Kind: kind, Line: tok.Line, Column: tok.Column}
	if needsBinding {
		if _, ok := p.expect(lexer.LPAREN, "'('"); !ok {
			return nil
		}
		bindTok, ok := p.expect(lexer.IDENT, "binding name")
		if !ok {
			return nil
		}
		pat.Binding = bindTok.Literal
		if _, ok := p.expect(lexer.RPAREN, "')'"); !ok {
			return nil
		}
	}
	return pat
}
