package sema

import (
	"testing"

	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/lexer"
	"bulatc/internal/optable"
	"bulatc/internal/parser"
	"bulatc/internal/types"
)

func checkOK(t *testing.T, source string) (*ast.File, *ast.DeclContext, *types.Pool) {
	t.Helper()
	pool := types.NewPool()
	l := lexer.New(source, "test.bc")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := parser.New(tokens, optable.Default(), pool)
	file, parseDiags := p.ParseFile()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	global := NewGlobalContext(pool)
	unit, err := New(pool, global).CheckFile(file)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	return file, unit, pool
}

func checkErr(t *testing.T, source string) (*diag.Diagnostic, *types.Pool) {
	t.Helper()
	pool := types.NewPool()
	l := lexer.New(source, "test.bc")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens, optable.Default(), pool)
	file, _ := p.ParseFile()
	global := NewGlobalContext(pool)
	_, err := New(pool, global).CheckFile(file)
	return err, pool
}

func TestGlobalContextRegistersArithmeticOverloads(t *testing.T) {
	pool := types.NewPool()
	g := NewGlobalContext(pool)
	res := g.Lookup("+", []*types.Type{pool.Int(), pool.Int()})
	if res.Unresolved || len(res.Matches) != 1 {
		t.Fatalf("expected exactly one int + int overload, got %+v", res)
	}
	fd := res.Matches[0].(*ast.FuncDecl)
	if fd.Sig.Ret != pool.Int() {
		t.Fatalf("expected int + int to return i64, got %v", fd.Sig.Ret)
	}
}

func TestGlobalContextOverloadsByType(t *testing.T) {
	pool := types.NewPool()
	g := NewGlobalContext(pool)
	res := g.Lookup("+", []*types.Type{pool.Dbl(), pool.Dbl()})
	if res.Unresolved || len(res.Matches) != 1 {
		t.Fatalf("expected exactly one f64 + f64 overload, got %+v", res)
	}
	fd := res.Matches[0].(*ast.FuncDecl)
	if fd.Sig.Ret != pool.Dbl() {
		t.Fatalf("expected f64 + f64 to return f64, got %v", fd.Sig.Ret)
	}
}

func TestLetDeclTypeInference(t *testing.T) {
	file, _, pool := checkOK(t, `let x = 1 + 2`)
	ds := file.Body[0].(*ast.DeclStmt)
	decl := ds.D.(*ast.LetDecl)
	if decl.Expr.Type() != pool.Int() {
		t.Fatalf("expected inferred type i64, got %v", decl.Expr.Type())
	}
}

// TestForwardFunctionReference covers property 4: a function may call
// another function declared later in the same file.
func TestForwardFunctionReference(t *testing.T) {
	checkOK(t, `
func caller() -> i64 { return callee() }
func callee() -> i64 { return 1 }
`)
}

// TestUndefinedNameIsUnresolved covers §7's UnresolvedName diagnostic.
func TestUndefinedNameIsUnresolved(t *testing.T) {
	err, _ := checkErr(t, `let x = y`)
	if err == nil {
		t.Fatal("expected an UnresolvedName diagnostic")
	}
	if err.Kind != diag.KindUnresolvedName {
		t.Fatalf("expected KindUnresolvedName, got %v", err.Kind)
	}
}

func TestDuplicateDeclarationInSameScope(t *testing.T) {
	err, _ := checkErr(t, `{ let x = 1 let x = 2 }`)
	if err == nil || err.Kind != diag.KindDuplicateDeclaration {
		t.Fatalf("expected KindDuplicateDeclaration, got %v", err)
	}
}

// TestConditionMustBeBool covers property 6: a non-bool if-condition is a
// TypeMismatch.
func TestConditionMustBeBool(t *testing.T) {
	err, _ := checkErr(t, `if 1 { }`)
	if err == nil || err.Kind != diag.KindTypeMismatch {
		t.Fatalf("expected KindTypeMismatch, got %v", err)
	}
}

func TestWhileConditionMustBeBool(t *testing.T) {
	err, _ := checkErr(t, `while 1 { }`)
	if err == nil || err.Kind != diag.KindTypeMismatch {
		t.Fatalf("expected KindTypeMismatch, got %v", err)
	}
}

func TestConditionalBlockOK(t *testing.T) {
	checkOK(t, `if true { } else if false { } else { }`)
}

func TestAssignmentRequiresLeftValue(t *testing.T) {
	err, _ := checkErr(t, `{ 1 = 2 }`)
	if err == nil || err.Kind != diag.KindNotAssignable {
		t.Fatalf("expected KindNotAssignable, got %v", err)
	}
}

func TestAssignmentToVarOK(t *testing.T) {
	checkOK(t, `{ var x: i64 = 0 x = 1 }`)
}

// TestAccessorOnTuple covers AccessorExpr's invented semantics: indexing a
// tuple by a valid constant yields that element's type.
func TestAccessorOnTuple(t *testing.T) {
	file, _, pool := checkOK(t, `let t = (1, true)
let z = t.0`)
	ds := file.Body[1].(*ast.DeclStmt)
	decl := ds.D.(*ast.LetDecl)
	if decl.Expr.Type() != pool.Int() {
		t.Fatalf("expected t.0 to be i64, got %v", decl.Expr.Type())
	}
}

func TestAccessorOutOfRange(t *testing.T) {
	err, _ := checkErr(t, `let t = (1, true)
let z = t.5`)
	if err == nil || err.Kind != diag.KindTypeMismatch {
		t.Fatalf("expected KindTypeMismatch for an out-of-range accessor, got %v", err)
	}
}

func TestListRequiresHomogeneousElements(t *testing.T) {
	err, _ := checkErr(t, `let z = [1, true]`)
	if err == nil || err.Kind != diag.KindTypeMismatch {
		t.Fatalf("expected KindTypeMismatch for a heterogeneous list, got %v", err)
	}
}

// TestFunctionCallResolvesOverload checks resolution of a user function by
// its argument types, separate from builtin operator overloads.
func TestFunctionCallResolvesOverload(t *testing.T) {
	file, _, pool := checkOK(t, `
func identity(x: i64) -> i64 { return x }
let z = identity(5)
`)
	ds := file.Body[1].(*ast.DeclStmt)
	decl := ds.D.(*ast.LetDecl)
	if decl.Expr.Type() != pool.Int() {
		t.Fatalf("expected call result type i64, got %v", decl.Expr.Type())
	}
	call := decl.Expr.(*ast.FunctionCall)
	if call.Resolved == nil || call.Resolved.Name != "identity" {
		t.Fatalf("expected call to resolve to 'identity', got %#v", call.Resolved)
	}
}

func TestFunctionCallNoMatchingOverload(t *testing.T) {
	err, _ := checkErr(t, `
func identity(x: i64) -> i64 { return x }
let z = identity(true)
`)
	if err == nil || err.Kind != diag.KindUnresolvedName {
		t.Fatalf("expected KindUnresolvedName for a mismatched call, got %v", err)
	}
}
