package parser

import (
	"testing"

	"bulatc/internal/ast"
	"bulatc/internal/lexer"
	"bulatc/internal/optable"
	"bulatc/internal/types"
)

func parseOK(t *testing.T, source string) *ast.File {
	t.Helper()
	l := lexer.New(source, "test.bc")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens, optable.Default(), types.NewPool())
	file, parseDiags := p.ParseFile()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return file
}

func parseErr(t *testing.T, source string) []string {
	t.Helper()
	l := lexer.New(source, "test.bc")
	tokens, _ := l.Tokenize()
	p := New(tokens, optable.Default(), types.NewPool())
	_, diags := p.ParseFile()
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func declStmt(t *testing.T, node ast.Node) ast.Decl {
	t.Helper()
	ds, ok := node.(*ast.DeclStmt)
	if !ok {
		t.Fatalf("expected *ast.DeclStmt, got %T", node)
	}
	return ds.D
}

func TestParseLetDecl(t *testing.T) {
	file := parseOK(t, `let x = 42`)
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Body))
	}
	decl, ok := declStmt(t, file.Body[0]).(*ast.LetDecl)
	if !ok {
		t.Fatalf("expected LetDecl, got %T", declStmt(t, file.Body[0]))
	}
	if decl.Name != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name)
	}
	lit, ok := decl.Expr.(*ast.IntegerExpr)
	if !ok || lit.Value != 42 {
		t.Fatalf("expected IntegerExpr(42), got %#v", decl.Expr)
	}
}

func TestParseVarDeclWithType(t *testing.T) {
	file := parseOK(t, `var x: i64 = 1`)
	decl, ok := declStmt(t, file.Body[0]).(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", declStmt(t, file.Body[0]))
	}
	if decl.DeclaredType == nil || decl.DeclaredType.Kind != types.Integer {
		t.Fatalf("expected declared type i64, got %v", decl.DeclaredType)
	}
}

// TestPrecedenceClimbing covers property 1: higher-precedence pairs group
// first; "1 + 2 * 3" must parse as "1 + (2 * 3)".
func TestPrecedenceClimbing(t *testing.T) {
	file := parseOK(t, `let z = 1 + 2 * 3`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	bin, ok := decl.Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Expr)
	}
	if bin.Op.Lexeme != "+" {
		t.Errorf("expected top operator '+', got %q", bin.Op.Lexeme)
	}
	rightBin, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rightBin.Op.Lexeme != "*" {
		t.Fatalf("expected right BinaryExpr('*'), got %#v", bin.Right)
	}
}

// TestLeftAssociativity: "1 - 2 - 3" must parse as "(1 - 2) - 3".
func TestLeftAssociativity(t *testing.T) {
	file := parseOK(t, `let z = 1 - 2 - 3`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	top, ok := decl.Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Expr)
	}
	left, ok := top.Left.(*ast.BinaryExpr)
	if !ok || left.Op.Lexeme != "-" {
		t.Fatalf("expected left grouping '(1 - 2)', got %#v", top.Left)
	}
	if _, ok := top.Right.(*ast.IntegerExpr); !ok {
		t.Fatalf("expected right operand to be the literal 3, got %#v", top.Right)
	}
}

func TestAssignmentParses(t *testing.T) {
	file := parseOK(t, `{ var x: i64 = 0 x = 1 }`)
	cs, ok := file.Body[0].(*ast.CompoundStmt)
	if !ok {
		t.Fatalf("expected CompoundStmt, got %T", file.Body[0])
	}
	if len(cs.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(cs.Stmts))
	}
	exprStmt, ok := cs.Stmts[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", cs.Stmts[1])
	}
	bin, ok := exprStmt.Expr.(*ast.BinaryExpr)
	if !ok || bin.Op.Lexeme != "=" {
		t.Fatalf("expected assignment BinaryExpr, got %#v", exprStmt.Expr)
	}
}

// TestCompoundAssignDesugars covers the supplemented compound-assignment
// sugar: "x += 1" must desugar to "x = x + 1" at parse time, so the
// checker and lowerer only ever see plain "=".
func TestCompoundAssignDesugars(t *testing.T) {
	file := parseOK(t, `{ var x: i64 = 0 x += 1 }`)
	cs := file.Body[0].(*ast.CompoundStmt)
	exprStmt := cs.Stmts[1].(*ast.ExprStmt)
	assign, ok := exprStmt.Expr.(*ast.BinaryExpr)
	if !ok || assign.Op.Lexeme != "=" {
		t.Fatalf("expected a desugared '=' BinaryExpr, got %#v", exprStmt.Expr)
	}
	target, ok := assign.Left.(*ast.IdentifierExpr)
	if !ok || target.Name != "x" {
		t.Fatalf("expected assignment target 'x', got %#v", assign.Left)
	}
	inner, ok := assign.Right.(*ast.BinaryExpr)
	if !ok || inner.Op.Lexeme != "+" {
		t.Fatalf("expected inner '+' BinaryExpr, got %#v", assign.Right)
	}
	innerTarget, ok := inner.Left.(*ast.IdentifierExpr)
	if !ok || innerTarget.Name != "x" {
		t.Fatalf("expected inner left operand 'x', got %#v", inner.Left)
	}
	if _, ok := inner.Right.(*ast.IntegerExpr); !ok {
		t.Fatalf("expected inner right operand to be the literal 1, got %#v", inner.Right)
	}
}

// TestNoneAssociativeChainRejected covers property 1/S6: "a == b == c" must
// be rejected with a ParseError at the second "==".
func TestNoneAssociativeChainRejected(t *testing.T) {
	msgs := parseErr(t, `let z = a == b == c`)
	if len(msgs) == 0 {
		t.Fatal("expected a ParseError for a chained none-associative operator, got none")
	}
}

// TestLabelRejectedAroundSingleParenExpr covers property 2: a label is not
// allowed around a single parenthesized expression outside a call.
func TestLabelRejectedAroundSingleParenExpr(t *testing.T) {
	msgs := parseErr(t, `let z = (x: 1)`)
	if len(msgs) == 0 {
		t.Fatal("expected an error for a label around a single parenthesized expression")
	}
}

func TestLabelAllowedInCallArgs(t *testing.T) {
	file := parseOK(t, `let z = f(x: 1)`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	call, ok := decl.Expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected FunctionCall, got %T", decl.Expr)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
	lbl, ok := call.Args[0].(*ast.LabeledExpr)
	if !ok || lbl.Label != "x" {
		t.Fatalf("expected LabeledExpr(x), got %#v", call.Args[0])
	}
}

// TestTupleUnwrapping covers property 3: "(e)" yields e, not a 1-tuple.
func TestTupleUnwrapping(t *testing.T) {
	file := parseOK(t, `let z = (1)`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	if _, ok := decl.Expr.(*ast.IntegerExpr); !ok {
		t.Fatalf("expected a bare IntegerExpr, got %#v", decl.Expr)
	}
}

func TestTupleOfMultipleElements(t *testing.T) {
	file := parseOK(t, `let z = (1, 2, 3)`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	tup, ok := decl.Expr.(*ast.TupleExpr)
	if !ok || len(tup.Elems) != 3 {
		t.Fatalf("expected a 3-element TupleExpr, got %#v", decl.Expr)
	}
}

// TestTrailingCommaRejected covers property 3: "(e,)" is rejected.
func TestTrailingCommaRejected(t *testing.T) {
	msgs := parseErr(t, `let z = (1,)`)
	if len(msgs) == 0 {
		t.Fatal("expected a trailing-comma ParseError")
	}
}

func TestAccessorExpr(t *testing.T) {
	file := parseOK(t, `let z = t.0`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	acc, ok := decl.Expr.(*ast.AccessorExpr)
	if !ok || acc.Index != 0 {
		t.Fatalf("expected AccessorExpr(index 0), got %#v", decl.Expr)
	}
	if _, ok := acc.Base.(*ast.IdentifierExpr); !ok {
		t.Fatalf("expected base to be an IdentifierExpr, got %#v", acc.Base)
	}
}

func TestParseFuncDecl(t *testing.T) {
	file := parseOK(t, `func add(a: i64, b: i64) -> i64 { return a + b }`)
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Body))
	}
	fd, ok := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", file.Body[0])
	}
	if fd.Name != "add" || len(fd.Params) != 2 {
		t.Fatalf("unexpected func shape: %#v", fd)
	}
	if len(fd.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fd.Body.Stmts))
	}
}

func TestConditionalBlockElseIfElse(t *testing.T) {
	file := parseOK(t, `if a { } else if b { } else { }`)
	block, ok := file.Body[0].(*ast.ConditionalBlock)
	if !ok {
		t.Fatalf("expected ConditionalBlock, got %T", file.Body[0])
	}
	if len(block.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(block.Arms))
	}
	if block.Else == nil {
		t.Fatal("expected a trailing else block")
	}
}

func TestWhileLoopWithLet(t *testing.T) {
	file := parseOK(t, `while let x = f() x > 0 { }`)
	loop, ok := file.Body[0].(*ast.WhileLoop)
	if !ok {
		t.Fatalf("expected WhileLoop, got %T", file.Body[0])
	}
	if loop.Decl == nil {
		t.Fatal("expected an optional let declaration")
	}
}

func TestParseListExpr(t *testing.T) {
	file := parseOK(t, `let z = [1, 2, 3]`)
	decl := declStmt(t, file.Body[0]).(*ast.LetDecl)
	list, ok := decl.Expr.(*ast.ListExpr)
	if !ok || len(list.Elems) != 3 {
		t.Fatalf("expected 3-element ListExpr, got %#v", decl.Expr)
	}
}

// TestTypeSingletons covers property 5: two "i64" annotations in different
// places parse to the same interned *types.Type instance.
func TestTypeSingletons(t *testing.T) {
	file := parseOK(t, `func f(a: i64, b: i64) -> i64 { return a }`)
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	if fd.Params[0].Type != fd.Params[1].Type {
		t.Fatal("expected the two i64 annotations to intern to the same *types.Type")
	}
	if fd.Params[0].Type != fd.Sig.Ret {
		t.Fatal("expected the return type i64 to be the same interned instance")
	}
}

func TestParseTupleType(t *testing.T) {
	file := parseOK(t, `func f(p: (i64, bool)) -> i64 { return 0 }`)
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	pt := fd.Params[0].Type
	if pt.Kind != types.Tuple || len(pt.Elems) != 2 {
		t.Fatalf("expected a 2-element TupleType, got %v", pt)
	}
}

func TestParseFunctionType(t *testing.T) {
	file := parseOK(t, `func f(cb: (i64) -> bool) -> i64 { return 0 }`)
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	ft := fd.Params[0].Type
	if ft.Kind != types.Function || ft.Ret.Kind != types.Boolean {
		t.Fatalf("expected a FunctionType returning bool, got %v", ft)
	}
}

func TestParseStructType(t *testing.T) {
	file := parseOK(t, "func f(p: {\n x: i64\n y: i64\n}) -> i64 { return 0 }")
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	st := fd.Params[0].Type
	if st.Kind != types.Struct || len(st.Fields) != 2 {
		t.Fatalf("expected a 2-field StructType, got %v", st)
	}
}

func TestParseDuplicateStructField(t *testing.T) {
	msgs := parseErr(t, "func f(p: {\n x: i64\n x: i64\n}) -> i64 { return 0 }")
	if len(msgs) == 0 {
		t.Fatal("expected a DuplicateDeclaration error for a repeated struct field")
	}
}

func TestParsePointerReferenceSliceTypes(t *testing.T) {
	file := parseOK(t, `func f(p: *i64, r: &i64, s: &[i64]) -> i64 { return 0 }`)
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	if fd.Params[0].Type.Kind != types.Pointer {
		t.Fatalf("expected PointerType, got %v", fd.Params[0].Type)
	}
	if fd.Params[1].Type.Kind != types.Reference {
		t.Fatalf("expected ReferenceType, got %v", fd.Params[1].Type)
	}
	if fd.Params[2].Type.Kind != types.Slice {
		t.Fatalf("expected SliceType, got %v", fd.Params[2].Type)
	}
}

func TestParseListAndMapTypes(t *testing.T) {
	file := parseOK(t, `func f(l: [i64, 3], m: [i64: bool]) -> i64 { return 0 }`)
	fd := declStmt(t, file.Body[0]).(*ast.FuncDecl)
	lt := fd.Params[0].Type
	if lt.Kind != types.List || lt.Size != 3 {
		t.Fatalf("expected ListType of size 3, got %v", lt)
	}
	mt := fd.Params[1].Type
	if mt.Kind != types.Map || mt.Key.Kind != types.Integer {
		t.Fatalf("expected MapType keyed by i64, got %v", mt)
	}
}
