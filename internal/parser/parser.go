// Package parser implements the syntax analysis for the core compiler.
// It is a hand-written recursive-descent parser with a precedence-climbing
// expression sub-parser driven by an external Operator Table.
package parser

import (
	"fmt"
	"strconv"

	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/optable"
	"bulatc/internal/span"
	"bulatc/internal/token"
	"bulatc/internal/types"
)

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	ops    *optable.Table
	types  *types.Pool
	diags  []diag.Diagnostic
	failed bool
}

// New creates a parser over tokens, driven by ops for expression precedence
// and interning parsed type annotations through pool.
func New(tokens []token.Token, ops *optable.Table, pool *types.Pool) *Parser {
	return &Parser{tokens: tokens, ops: ops, types: pool}
}

// ParseFile parses an entire compilation unit. The parser does not
// attempt recovery: the first ParseError stops the walk and the partial
// File plus the diagnostic are returned together.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{}
	start := p.peek().Span.Start

	p.skipNewlines()
	for !p.isAtEnd() && !p.failed {
		node := p.parseTopLevel()
		if node != nil {
			file.Body = append(file.Body, node)
		}
		p.skipNewlines()
	}

	file.Span = span.Span{Start: start, End: p.prevEnd()}
	return file, p.diags
}

// ---- token navigation ----

func (p *Parser) peek() token.Token { return p.peekAt(0) }

func (p *Parser) peekAt(k int) token.Token {
	idx := p.pos + k
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) consumeIf(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// consumeOperator consumes the head token only if it is an OPERATOR token
// carrying the given lexeme.
func (p *Parser) consumeOperator(lexeme string) bool {
	tok := p.peek()
	if tok.Kind == token.OPERATOR && tok.Lexeme == lexeme {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind, description string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.fail(diag.KindParseError, tok.Span, fmt.Sprintf("expected %s, found %q", description, tok.Lexeme))
	return tok, false
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) fail(kind diag.Kind, s span.Span, msg string) {
	p.diags = append(p.diags, diag.New("E2001", kind, s, "%s", msg))
	p.failed = true
}

func exprBase(start span.Position, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func stmtBase(start span.Position, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func declBase(name string, start span.Position, end span.Position) ast.DeclBase {
	return ast.DeclBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}, Name: name}
}

// ============================================================
// Top level
// ============================================================

func (p *Parser) parseTopLevel() ast.Node {
	switch p.peek().Kind {
	case token.KW_FUNC:
		fd := p.parseFuncDecl()
		return &ast.DeclStmt{StmtBase: stmtBase(fd.Span.Start, fd.Span.End), D: fd}
	default:
		return p.parseStmt()
	}
}

// ============================================================
// Statements
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Kind {
	case token.KW_LET:
		return p.parseLetStmt()
	case token.KW_VAR:
		return p.parseVarStmt()
	case token.KW_IF:
		return p.parseConditionalBlock()
	case token.KW_WHILE:
		return p.parseWhileLoop()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.LBRACE:
		return p.parseCompoundStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.advance() // 'let'
	nameTok, ok := p.expect(token.IDENT, "an identifier")
	if !ok {
		return &ast.DeclStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd())}
	}
	p.expect(token.OPERATOR, "'='")
	value := p.parseTopExpr()
	decl := &ast.LetDecl{DeclBase: declBase(nameTok.Lexeme, start.Span.Start, p.prevEnd()), Expr: value}
	return &ast.DeclStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd()), D: decl}
}

func (p *Parser) parseVarStmt() ast.Stmt {
	start := p.advance() // 'var'
	nameTok, ok := p.expect(token.IDENT, "an identifier")
	if !ok {
		return &ast.DeclStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd())}
	}
	var declaredType *types.Type
	if p.consumeIf(token.COLON) {
		declaredType = p.parseType()
	}
	var init ast.Expr
	if p.consumeOperator("=") {
		init = p.parseTopExpr()
	}
	decl := &ast.VarDecl{
		DeclBase:     declBase(nameTok.Lexeme, start.Span.Start, p.prevEnd()),
		DeclaredType: declaredType,
		Init:         init,
	}
	return &ast.DeclStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd()), D: decl}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance() // 'return'
	var value ast.Expr
	if !p.check(token.NEWLINE) && !p.check(token.RBRACE) && !p.isAtEnd() {
		value = p.parseTopExpr()
	}
	return &ast.ReturnStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd()), Value: value}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.peek()
	expr := p.parseTopExpr()
	if expr == nil {
		p.fail(diag.KindParseError, start.Span, fmt.Sprintf("unexpected token %q", start.Lexeme))
		p.advance()
		return &ast.ExprStmt{StmtBase: stmtBase(start.Span.Start, p.prevEnd())}
	}
	return &ast.ExprStmt{StmtBase: stmtBase(expr.GetSpan().Start, expr.GetSpan().End), Expr: expr}
}

// parseCompoundStmt parses a brace-delimited block. Its DeclContext is left
// nil here; the scope builder attaches one when it walks the tree, since
// the parser has no notion of enclosing scope.
func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	start, _ := p.expect(token.LBRACE, "'{'")
	block := &ast.CompoundStmt{}

	p.skipNewlines()
	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.failed {
		block.Stmts = append(block.Stmts, p.parseStmt())
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "'}'")
	block.Span = span.Span{Start: start.Span.Start, End: p.prevEnd()}
	return block
}

// parseConditionalBlock parses an if / else-if* / else? chain into a single
// ConditionalBlock node.
func (p *Parser) parseConditionalBlock() *ast.ConditionalBlock {
	start := p.peek()
	block := &ast.ConditionalBlock{}

	for {
		armStart := p.advance() // 'if'
		arm := &ast.ConditionalStmt{}
		arm.Condition = p.parseTopExpr()
		arm.Body = p.parseCompoundStmt()
		arm.Span = span.Span{Start: armStart.Span.Start, End: p.prevEnd()}
		block.Arms = append(block.Arms, arm)

		if !p.check(token.KW_ELSE) {
			break
		}
		p.advance() // 'else'
		if p.check(token.KW_IF) {
			continue
		}
		block.Else = p.parseCompoundStmt()
		break
	}

	block.Span = span.Span{Start: start.Span.Start, End: p.prevEnd()}
	return block
}

func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	start := p.advance() // 'while'
	loop := &ast.WhileLoop{}

	if p.check(token.KW_LET) {
		letStart := p.advance()
		nameTok, ok := p.expect(token.IDENT, "an identifier")
		if ok {
			p.expect(token.OPERATOR, "'='")
			value := p.parseTopExpr()
			loop.Decl = &ast.LetDecl{DeclBase: declBase(nameTok.Lexeme, letStart.Span.Start, p.prevEnd()), Expr: value}
		}
	}

	loop.Condition = p.parseTopExpr()
	loop.Body = p.parseCompoundStmt()
	loop.Span = span.Span{Start: start.Span.Start, End: p.prevEnd()}
	return loop
}

// parseFuncDecl parses: func IDENT ( params ) -> Type block
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.advance() // 'func'
	nameTok, ok := p.expect(token.IDENT, "an identifier")
	if !ok {
		return &ast.FuncDecl{DeclBase: declBase("", start.Span.Start, p.prevEnd())}
	}

	params, paramTypes := p.parseParamList()

	retType := p.types.Named("void")
	if p.consumeOperator("->") {
		retType = p.parseType()
	}

	body := p.parseCompoundStmt()

	decl := &ast.FuncDecl{
		DeclBase: declBase(nameTok.Lexeme, start.Span.Start, p.prevEnd()),
		Sig:      p.types.FuncOf(paramTypes, retType),
		Params:   params,
		Body:     body,
	}
	return decl
}

func (p *Parser) parseParamList() ([]*ast.ParamDecl, []*types.Type) {
	var params []*ast.ParamDecl
	var paramTypes []*types.Type

	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return params, paramTypes
	}

	if !p.check(token.RPAREN) {
		for {
			nameTok, ok := p.expect(token.IDENT, "a parameter name")
			if !ok {
				break
			}
			p.expect(token.COLON, "':'")
			t := p.parseType()
			params = append(params, &ast.ParamDecl{DeclBase: declBase(nameTok.Lexeme, nameTok.Span.Start, p.prevEnd()), Type: t})
			paramTypes = append(paramTypes, t)
			if !p.consumeIf(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "')'")
	return params, paramTypes
}

// ============================================================
// Expression parsing (precedence climbing)
// ============================================================

// parseTopExpr parses one complete expression, entering the precedence
// chain at level 2: levels 0 (values) and 1 (prefix unary) are reserved,
// so 2 is always the loosest binary level regardless of how many binary
// levels the table defines above it.
func (p *Parser) parseTopExpr() ast.Expr {
	return p.parseExpr(2)
}

// parseExpr implements parse_expr(p): an l_paren always begins a
// parenthesized/tuple expression regardless of p.
func (p *Parser) parseExpr(prec int) ast.Expr {
	if p.check(token.LPAREN) {
		return p.parseTupleExpr()
	}
	switch prec {
	case 0:
		return p.parseValueExpr()
	case 1:
		return p.parseUnaryExpr()
	default:
		return p.parseBinaryExpr(prec)
	}
}

func (p *Parser) parseValueExpr() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IDENT:
		return p.parseIdentifierOrCall()
	case token.INT:
		p.advance()
		val, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.IntegerExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Value: val}
	case token.DOUBLE:
		p.advance()
		val, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.DoubleExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Value: val}
	case token.STRING:
		p.advance()
		return &ast.StringExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Value: tok.Lexeme}
	case token.KW_TRUE:
		p.advance()
		return &ast.BoolExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Value: true}
	case token.KW_FALSE:
		p.advance()
		return &ast.BoolExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Value: false}
	case token.LSQUARE:
		return p.parseListExpr()
	default:
		return p.parseTupleExpr()
	}
}

// parseUnaryExpr: if head lexeme is in level 1 (prefix unary), parse
// operator and a value expression; else parse value expression.
func (p *Parser) parseUnaryExpr() ast.Expr {
	tok := p.peek()
	if tok.Kind == token.OPERATOR && p.ops.Contains(1, tok.Lexeme) {
		p.advance()
		operand := p.parseValueExpr()
		op := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: tok.Lexeme, PrecedenceLevel: 1}
		return &ast.UnaryExpr{ExprBase: exprBase(tok.Span.Start, operand.GetSpan().End), Op: op, Operand: operand}
	}
	return p.parseValueExpr()
}

// parseBinaryExpr(p) dispatches on the associativity of level p. Operands
// bind at the next tighter level (p+1); level indices increase toward
// tighter binding (optable.Default's layout), so an operand is parsed
// one level tighter than its operator, bottoming out at the reserved
// unary level once p reaches the table's tightest binary level.
func (p *Parser) parseBinaryExpr(prec int) ast.Expr {
	level := p.ops.Level(prec)
	operandPrec := prec + 1
	if operandPrec >= p.ops.NumLevels() {
		operandPrec = 1
	}
	switch level.Assoc {
	case optable.AssocRight:
		left := p.parseExpr(operandPrec)
		tok := p.peek()
		if tok.Kind == token.OPERATOR {
			if baseOp, baseLevel, ok := compoundAssignBase(tok.Lexeme); ok {
				return p.parseCompoundAssign(left, tok, baseOp, baseLevel)
			}
		}
		if tok.Kind != token.OPERATOR || !level.Contains(tok.Lexeme) {
			return left
		}
		p.advance()
		op := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: tok.Lexeme, PrecedenceLevel: prec}
		right := p.parseExpr(prec)
		return &ast.BinaryExpr{ExprBase: exprBase(left.GetSpan().Start, right.GetSpan().End), Left: left, Op: op, Right: right}
	case optable.AssocNone:
		left := p.parseExpr(operandPrec)
		tok := p.peek()
		if tok.Kind != token.OPERATOR || !level.Contains(tok.Lexeme) {
			return left
		}
		p.advance()
		op := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: tok.Lexeme, PrecedenceLevel: prec}
		right := p.parseExpr(operandPrec)
		bin := &ast.BinaryExpr{ExprBase: exprBase(left.GetSpan().Start, right.GetSpan().End), Left: left, Op: op, Right: right}
		if next := p.peek(); next.Kind == token.OPERATOR && level.Contains(next.Lexeme) {
			p.fail(diag.KindParseError, next.Span, fmt.Sprintf("operator %q does not associate; parenthesize to disambiguate", next.Lexeme))
		}
		return bin
	default: // left
		left := p.parseExpr(operandPrec)
		for {
			tok := p.peek()
			if tok.Kind != token.OPERATOR || !level.Contains(tok.Lexeme) {
				break
			}
			p.advance()
			op := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: tok.Lexeme, PrecedenceLevel: prec}
			right := p.parseExpr(operandPrec)
			left = &ast.BinaryExpr{ExprBase: exprBase(left.GetSpan().Start, right.GetSpan().End), Left: left, Op: op, Right: right}
		}
		return left
	}
}

// compoundAssignBase maps a compound-assignment lexeme to the arithmetic
// operator and precedence level it desugars against. This is sugar added
// purely at parse time, folded into plain "=" before the checker ever
// sees it.
func compoundAssignBase(lexeme string) (string, int, bool) {
	switch lexeme {
	case "+=":
		return "+", 6, true
	case "-=":
		return "-", 6, true
	case "*=":
		return "*", 7, true
	case "/=":
		return "/", 7, true
	default:
		return "", 0, false
	}
}

// parseCompoundAssign desugars `target op= rhs` into `target = target op
// rhs`, reusing the already-parsed target node as both the assignment's
// left value and the inner expression's left operand.
func (p *Parser) parseCompoundAssign(target ast.Expr, tok token.Token, baseOp string, baseLevel int) ast.Expr {
	p.advance()
	rhs := p.parseExpr(2)
	innerOp := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: baseOp, PrecedenceLevel: baseLevel}
	inner := &ast.BinaryExpr{ExprBase: exprBase(target.GetSpan().Start, rhs.GetSpan().End), Left: target, Op: innerOp, Right: rhs}
	assignOp := &ast.OperatorExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Lexeme: "=", PrecedenceLevel: 2}
	return &ast.BinaryExpr{ExprBase: exprBase(target.GetSpan().Start, rhs.GetSpan().End), Left: target, Op: assignOp, Right: inner}
}

// parseTupleExpr: consume l_paren; parse an ExprList; consume r_paren.
// A single LabeledExpr element is rejected; a length-1 list unwraps.
func (p *Parser) parseTupleExpr() ast.Expr {
	start, ok := p.expect(token.LPAREN, "'('")
	if !ok {
		return &ast.TupleExpr{ExprBase: exprBase(start.Span.Start, start.Span.End)}
	}
	if p.check(token.COLON) {
		p.fail(diag.KindParseError, p.peek().Span, "tuple elements cannot begin with a label colon")
	}
	elems := p.parseExprList()
	end, _ := p.expect(token.RPAREN, "')'")

	if len(elems) == 1 {
		if lbl, ok := elems[0].(*ast.LabeledExpr); ok {
			p.fail(diag.KindParseError, lbl.GetSpan(), "labels are not allowed around a single parenthesized expression")
			return lbl.Inner
		}
		return elems[0]
	}
	return &ast.TupleExpr{ExprBase: exprBase(start.Span.Start, end.Span.End), Elems: elems}
}

// parseExprList: labeled_or_expr (, labeled_or_expr)*; trailing comma rejected.
func (p *Parser) parseExprList() []ast.Expr {
	var elems []ast.Expr
	if p.check(token.RPAREN) {
		return elems
	}
	elems = append(elems, p.parseLabeledOrExpr())
	for p.consumeIf(token.COMMA) {
		if p.check(token.RPAREN) {
			p.fail(diag.KindParseError, p.peek().Span, "trailing comma is not allowed")
			break
		}
		elems = append(elems, p.parseLabeledOrExpr())
	}
	return elems
}

func (p *Parser) parseLabeledOrExpr() ast.Expr {
	if p.peek().Kind == token.IDENT && p.peekAt(1).Kind == token.COLON {
		nameTok := p.advance()
		p.advance() // ':'
		inner := p.parseTopExpr()
		return &ast.LabeledExpr{ExprBase: exprBase(nameTok.Span.Start, inner.GetSpan().End), Label: nameTok.Lexeme, Inner: inner}
	}
	return p.parseTopExpr()
}

// parseIdentifierOrCall: IdentifierExpr, optionally followed immediately by
// a parenthesized argument list forming a FunctionCall.
func (p *Parser) parseIdentifierOrCall() ast.Expr {
	tok := p.advance()
	ident := &ast.IdentifierExpr{ExprBase: exprBase(tok.Span.Start, tok.Span.End), Name: tok.Lexeme}

	if !p.check(token.LPAREN) {
		return p.parseAccessorTail(ident)
	}

	p.advance() // '('
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		args = p.parseExprList()
	}
	end, _ := p.expect(token.RPAREN, "')'")
	call := &ast.FunctionCall{ExprBase: exprBase(tok.Span.Start, end.Span.End), CalleeName: tok.Lexeme, Args: args}
	return p.parseAccessorTail(call)
}

// parseAccessorTail handles `.N` constant-index tuple accessors chained
// after a primary expression, parsed as a postfix accessor chain.
func (p *Parser) parseAccessorTail(base ast.Expr) ast.Expr {
	for p.check(token.OPERATOR) && p.peek().Lexeme == "." {
		p.advance()
		idxTok, ok := p.expect(token.INT, "a constant integer index")
		if !ok {
			break
		}
		idx, _ := strconv.ParseInt(idxTok.Lexeme, 10, 64)
		base = &ast.AccessorExpr{ExprBase: exprBase(base.GetSpan().Start, idxTok.Span.End), Base: base, Index: idx}
	}
	return base
}

func (p *Parser) parseListExpr() ast.Expr {
	start, _ := p.expect(token.LSQUARE, "'['")
	var elems []ast.Expr
	if !p.check(token.RSQUARE) {
		elems = append(elems, p.parseTopExpr())
		for p.consumeIf(token.COMMA) {
			elems = append(elems, p.parseTopExpr())
		}
	}
	end, _ := p.expect(token.RSQUARE, "']'")
	return &ast.ListExpr{ExprBase: exprBase(start.Span.Start, end.Span.End), Elems: elems}
}

// ============================================================
// Type grammar
// ============================================================

func (p *Parser) parseType() *types.Type {
	tok := p.peek()
	switch {
	case tok.Kind == token.LPAREN:
		return p.parseTupleOrFunctionType()
	case tok.Kind == token.IDENT:
		p.advance()
		switch tok.Lexeme {
		case "i64":
			return p.types.Int()
		case "bool":
			return p.types.Bool()
		case "f64":
			return p.types.Dbl()
		case "char":
			return p.types.Char()
		default:
			return p.types.Named(tok.Lexeme)
		}
	case tok.Kind == token.LBRACE:
		return p.parseStructType()
	case tok.Kind == token.OPERATOR && tok.Lexeme == "*":
		p.advance()
		return p.types.PointerTo(p.parseType())
	case tok.Kind == token.OPERATOR && tok.Lexeme == "&":
		p.advance()
		if p.check(token.LSQUARE) {
			p.advance()
			elem := p.parseType()
			p.expect(token.RSQUARE, "']'")
			return p.types.SliceOf(elem)
		}
		return p.types.ReferenceTo(p.parseType())
	case tok.Kind == token.LSQUARE:
		return p.parseListOrMapType()
	default:
		p.fail(diag.KindParseError, tok.Span, fmt.Sprintf("expected a type, found %q", tok.Lexeme))
		return p.types.Named("<error>")
	}
}

func (p *Parser) parseTupleOrFunctionType() *types.Type {
	p.advance() // '('
	var elems []*types.Type
	if !p.check(token.RPAREN) {
		elems = append(elems, p.parseType())
		for p.consumeIf(token.COMMA) {
			elems = append(elems, p.parseType())
		}
	}
	p.expect(token.RPAREN, "')'")

	if p.consumeOperator("->") {
		ret := p.parseType()
		return p.types.FuncOf(elems, ret)
	}
	return p.types.TupleOf(elems...)
}

func (p *Parser) parseStructType() *types.Type {
	p.advance() // '{'
	p.skipNewlines()
	seen := map[string]bool{}
	var fields []types.StructField
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		nameTok, ok := p.expect(token.IDENT, "a field name")
		if !ok {
			break
		}
		if seen[nameTok.Lexeme] {
			p.fail(diag.KindDuplicateDeclaration, nameTok.Span, fmt.Sprintf("duplicate struct field %q", nameTok.Lexeme))
		}
		seen[nameTok.Lexeme] = true
		p.expect(token.COLON, "':'")
		t := p.parseType()
		fields = append(fields, types.StructField{Name: nameTok.Lexeme, Type: t})
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "'}'")
	return p.types.StructOf(fields)
}

func (p *Parser) parseListOrMapType() *types.Type {
	p.advance() // '['
	elem := p.parseType()
	if p.consumeIf(token.COLON) {
		val := p.parseType()
		p.expect(token.RSQUARE, "']'")
		return p.types.MapOf(elem, val)
	}
	if p.consumeIf(token.COMMA) {
		sizeTok, ok := p.expect(token.INT, "a constant integer size")
		size := 0
		if ok {
			n, _ := strconv.ParseInt(sizeTok.Lexeme, 10, 64)
			size = int(n)
		}
		p.expect(token.RSQUARE, "']'")
		return p.types.ListOf(elem, size)
	}
	p.expect(token.RSQUARE, "']'")
	return p.types.ListOf(elem, -1)
}
