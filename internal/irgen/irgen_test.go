package irgen

import (
	"testing"

	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/ir"
	"bulatc/internal/lexer"
	"bulatc/internal/optable"
	"bulatc/internal/parser"
	"bulatc/internal/sema"
	"bulatc/internal/types"
)

// lowerSource parses and checks source, then lowers the named function.
func lowerSource(t *testing.T, source, fnName string) *ir.Func {
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
	global := sema.NewGlobalContext(pool)
	if _, err := sema.New(pool, global).CheckFile(file); err != nil {
		t.Fatalf("check error: %v", err)
	}

	var fd *ast.FuncDecl
	for _, node := range file.Body {
		ds, ok := node.(*ast.DeclStmt)
		if !ok {
			continue
		}
		f, ok := ds.D.(*ast.FuncDecl)
		if ok && f.Name == fnName {
			fd = f
		}
	}
	if fd == nil {
		t.Fatalf("function %q not found", fnName)
	}

	fn, err := LowerFunction(fd)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}
	return fn
}

func blockByLabel(t *testing.T, fn *ir.Func, label string) *ir.Block {
	t.Helper()
	for _, b := range fn.Blocks {
		if b.Label == label {
			return b
		}
	}
	t.Fatalf("no block labeled %q among %d blocks", label, len(fn.Blocks))
	return nil
}

func TestLowerSimpleReturn(t *testing.T) {
	fn := lowerSource(t, `func f() -> i64 { return 1 }`, "f")
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	if entry.Term == nil || entry.Term.Op != ir.OpRet || !entry.Term.HasValue {
		t.Fatalf("expected a valued ret terminator, got %#v", entry.Term)
	}
}

// TestLowerArithmetic covers binary-operator lowering for parameters.
func TestLowerArithmetic(t *testing.T) {
	fn := lowerSource(t, `func add(a: i64, b: i64) -> i64 { return a + b }`, "add")
	entry := fn.Blocks[0]
	var addInstr *ir.Instr
	for i := range entry.Instrs {
		if entry.Instrs[i].Op == ir.OpAdd {
			addInstr = &entry.Instrs[i]
		}
	}
	if addInstr == nil {
		t.Fatal("expected an add instruction")
	}
	if len(addInstr.Args) != 2 || addInstr.Args[0] != 0 || addInstr.Args[1] != 1 {
		t.Fatalf("expected add to take the two parameter values, got %#v", addInstr.Args)
	}
	if entry.Term == nil || entry.Term.Op != ir.OpRet || entry.Term.Args[0] != addInstr.Result {
		t.Fatalf("expected ret to return the add's result, got %#v", entry.Term)
	}
}

// TestLowerAssignment covers property 9: assigning to a var emits exactly
// one store per assignment to its slot.
func TestLowerAssignment(t *testing.T) {
	fn := lowerSource(t, `func f() -> i64 { var x: i64 = 0 x = 5 return x }`, "f")
	entry := fn.Blocks[0]
	var stores int
	var loads int
	for _, in := range entry.Instrs {
		if in.Op == ir.OpStore {
			stores++
		}
		if in.Op == ir.OpLoad {
			loads++
		}
	}
	if stores != 2 {
		t.Fatalf("expected 2 stores (init + assignment), got %d", stores)
	}
	if loads != 1 {
		t.Fatalf("expected 1 load (the return of x), got %d", loads)
	}
}

// TestLowerConditionalBothArmsReturn covers property 7/S3: when every arm
// of an if/else terminates, no if_exit block is created.
func TestLowerConditionalBothArmsReturn(t *testing.T) {
	fn := lowerSource(t, `func f(a: bool) -> i64 { if a { return 1 } else { return 2 } }`, "f")
	for _, b := range fn.Blocks {
		if b.Label == "if_exit" {
			t.Fatalf("did not expect an if_exit block when every arm returns, got blocks %v", blockLabels(fn))
		}
	}
	entry := fn.Blocks[0]
	if entry.Term == nil || entry.Term.Op != ir.OpBr {
		t.Fatalf("expected entry to branch unconditionally into if_cond, got %#v", entry.Term)
	}
	cond := blockByLabel(t, fn, "if_cond")
	if cond.Term == nil || cond.Term.Op != ir.OpCondBr {
		t.Fatalf("expected if_cond to end in a cond_br, got %#v", cond.Term)
	}
}

// TestLowerConditionalNoElseHasExit covers S4: an if without an else whose
// body falls through joins a shared if_exit block.
func TestLowerConditionalNoElseHasExit(t *testing.T) {
	fn := lowerSource(t, `func f(a: bool) -> i64 { if a { } return 1 }`, "f")
	exit := blockByLabel(t, fn, "if_exit")
	if exit.Term == nil || exit.Term.Op != ir.OpRet {
		t.Fatalf("expected if_exit to end in ret, got %#v", exit.Term)
	}
}

// TestLowerWhileLoop covers property 8: the loop's body ends in a back-edge
// branch to loop_cond.
func TestLowerWhileLoop(t *testing.T) {
	fn := lowerSource(t, `func f() -> i64 { var i: i64 = 0 while i < 10 { i = i + 1 } return i }`, "f")
	cond := blockByLabel(t, fn, "loop_cond")
	if cond.Term == nil || cond.Term.Op != ir.OpCondBr {
		t.Fatalf("expected loop_cond to end in cond_br, got %#v", cond.Term)
	}
	body := blockByLabel(t, fn, "loop_body_entry")
	if body.Term == nil || body.Term.Op != ir.OpBr || body.Term.Then.Label != "loop_cond" {
		t.Fatalf("expected loop body to branch back to loop_cond, got %#v", body.Term)
	}
	exit := blockByLabel(t, fn, "loop_exit")
	if exit.Term == nil || exit.Term.Op != ir.OpRet {
		t.Fatalf("expected loop_exit to end in ret, got %#v", exit.Term)
	}
}

// TestLowerTupleAccessor covers the supplemented AccessorExpr lowering:
// a tuple literal packs into one tuple_make, and ".N" emits a
// tuple_extract reading that same aggregate value by constant index.
func TestLowerTupleAccessor(t *testing.T) {
	fn := lowerSource(t, `func f() -> i64 { let pair = (1, true) return pair.0 }`, "f")
	entry := fn.Blocks[0]

	var make_, extract *ir.Instr
	for i := range entry.Instrs {
		switch entry.Instrs[i].Op {
		case ir.OpTupleMake:
			make_ = &entry.Instrs[i]
		case ir.OpTupleExtract:
			extract = &entry.Instrs[i]
		}
	}
	if make_ == nil {
		t.Fatal("expected a tuple_make instruction")
	}
	if len(make_.Args) != 2 {
		t.Fatalf("expected tuple_make to pack 2 elements, got %#v", make_.Args)
	}
	if extract == nil {
		t.Fatal("expected a tuple_extract instruction")
	}
	if len(extract.Args) != 1 || extract.Args[0] != make_.Result {
		t.Fatalf("expected tuple_extract to read the tuple_make result, got %#v", extract.Args)
	}
	if extract.IntConst != 0 {
		t.Fatalf("expected tuple_extract index 0, got %d", extract.IntConst)
	}
	if entry.Term == nil || entry.Term.Op != ir.OpRet || entry.Term.Args[0] != extract.Result {
		t.Fatalf("expected ret to return the extracted element, got %#v", entry.Term)
	}
}

// TestLowerFunctionCall covers call-instruction lowering: a call to a
// checked, resolved callee lowers each argument and emits one call
// instruction naming the callee, whose result feeds the caller's return.
func TestLowerFunctionCall(t *testing.T) {
	fn := lowerSource(t, `
func add(a: i64, b: i64) -> i64 { return a + b }
func f() -> i64 { return add(1, 2) }
`, "f")
	entry := fn.Blocks[0]
	var call *ir.Instr
	for i := range entry.Instrs {
		if entry.Instrs[i].Op == ir.OpCall {
			call = &entry.Instrs[i]
		}
	}
	if call == nil {
		t.Fatal("expected a call instruction")
	}
	if call.Callee != "add" {
		t.Fatalf("expected call to target %q, got %q", "add", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected call to carry 2 lowered arguments, got %#v", call.Args)
	}
	if entry.Term == nil || entry.Term.Op != ir.OpRet || entry.Term.Args[0] != call.Result {
		t.Fatalf("expected ret to return the call's result, got %#v", entry.Term)
	}
}

// TestLowerUnimplementedExpressionFails covers codegen-time Unimplemented:
// a checked StringExpr type-checks fine but has no lowering, so
// LowerFunction must stop with a diagnostic rather than emit a zero value.
func TestLowerUnimplementedExpressionFails(t *testing.T) {
	pool := types.NewPool()
	l := lexer.New(`func f() -> i64 { let s = "hi" return 1 }`, "test.bc")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := parser.New(tokens, optable.Default(), pool)
	file, parseDiags := p.ParseFile()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	global := sema.NewGlobalContext(pool)
	if _, err := sema.New(pool, global).CheckFile(file); err != nil {
		t.Fatalf("check error: %v", err)
	}

	var fd *ast.FuncDecl
	for _, node := range file.Body {
		if ds, ok := node.(*ast.DeclStmt); ok {
			if f, ok := ds.D.(*ast.FuncDecl); ok {
				fd = f
			}
		}
	}
	if fd == nil {
		t.Fatal("function f not found")
	}

	_, err := LowerFunction(fd)
	if err == nil {
		t.Fatal("expected lowering a string literal to fail with Unimplemented")
	}
	if err.Kind != diag.KindUnimplemented {
		t.Fatalf("expected KindUnimplemented, got %v", err.Kind)
	}
}

func blockLabels(fn *ir.Func) []string {
	labels := make([]string, len(fn.Blocks))
	for i, b := range fn.Blocks {
		labels[i] = b.Label
	}
	return labels
}
