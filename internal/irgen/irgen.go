// Package irgen implements the IR Lowerer: it walks one checked FuncDecl at
// a time and builds a target ir.Func CFG. It is the structural descendant of
// a classic tree-walking interpreter, re-targeted from evaluating values to
// emitting instructions into open blocks.
package irgen

import (
	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/ir"
	"bulatc/internal/span"
	"bulatc/internal/types"
)

// namedValueKind discriminates how a bound name is materialized in the
// current function.
type namedValueKind int

const (
	kindDirect namedValueKind = iota
	kindSlot
)

// namedValue is one entry of `named_values`: a direct SSA value (LetDecl,
// ParamDecl) or a stack slot (VarDecl).
type namedValue struct {
	kind  namedValueKind
	value ir.ValueHandle
	slot  ir.SlotHandle
	typ   ir.Kind
}

// Lowerer lowers one FuncDecl at a time into an ir.Func. A fresh Lowerer is
// used per function; named_values never survives across functions, since
// variable storage is scoped per function.
type Lowerer struct {
	fn    *ir.Func
	block *ir.Block
	named map[string]namedValue
	err   *diag.Diagnostic
}

// LowerFunction lowers a single checked FuncDecl.
func LowerFunction(fd *ast.FuncDecl) (*ir.Func, *diag.Diagnostic) {
	l := &Lowerer{named: make(map[string]namedValue)}

	paramTypes := make([]ir.Kind, len(fd.Params))
	for i, p := range fd.Params {
		paramTypes[i] = l.lowerType(p.Type, p.GetSpan())
	}
	retType, hasRet := l.lowerReturnType(fd.Sig.Ret, fd.GetSpan())
	if l.err != nil {
		return nil, l.err
	}

	fn := ir.MakeFunction(fd.Name, paramTypes, retType, hasRet)
	l.fn = fn

	entry := fn.NewBlock("entry")
	l.block = entry

	for i, p := range fd.Params {
		// ParamDecl: bind name -> direct value (the argument itself).
		l.named[p.Name] = namedValue{kind: kindDirect, value: ir.ValueHandle(i), typ: paramTypes[i]}
	}

	if fd.Body != nil {
		l.lowerCompoundStmt(fd.Body)
	}
	if l.err != nil {
		return fn, l.err
	}

	if l.block != nil && l.block.IsOpen() {
		// An implicit fall-off-the-end return for a function whose body
		// does not end in an explicit return statement.
		fn.Ret(l.block, nil)
	}
	return fn, nil
}

func (l *Lowerer) lowerReturnType(t *types.Type, at span.Span) (ir.Kind, bool) {
	if t == nil || t.Kind == types.Named && t.Name == "void" {
		return ir.I64, false
	}
	return l.lowerType(t, at), true
}

// lowerType implements the type-lowering table: IntegerType -> i64,
// BooleanType -> i1, DoubleType -> f64, TupleType -> an aggregate value.
// Any other type raises Unimplemented rather than silently guessing i64.
func (l *Lowerer) lowerType(t *types.Type, at span.Span) ir.Kind {
	switch t.Kind {
	case types.Integer:
		return ir.I64
	case types.Boolean:
		return ir.I1
	case types.Double:
		return ir.F64
	case types.Tuple:
		return ir.Aggregate
	default:
		l.fail(at, "cannot lower type %s to the target IR", t)
		return ir.I64
	}
}

// fail records the first Unimplemented/codegen diagnostic raised while
// lowering; subsequent calls are no-ops, mirroring the checker's
// fail-fast behavior.
func (l *Lowerer) fail(s span.Span, format string, args ...interface{}) {
	if l.err != nil {
		return
	}
	d := diag.New("E4001", diag.KindUnimplemented, s, format, args...)
	l.err = &d
}

func (l *Lowerer) lowerCompoundStmt(body *ast.CompoundStmt) {
	for _, stmt := range body.Stmts {
		if l.block == nil || !l.block.IsOpen() {
			// Dead code after a terminator; nothing left to lower into.
			return
		}
		l.lowerStmt(stmt)
		if l.err != nil {
			return
		}
	}
}

func (l *Lowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		l.lowerDecl(s.D)
	case *ast.ExprStmt:
		l.lowerExpr(s.Expr)
	case *ast.ReturnStmt:
		l.lowerReturnStmt(s)
	case *ast.CompoundStmt:
		l.lowerCompoundStmt(s)
	case *ast.ConditionalBlock:
		l.lowerConditionalBlock(s)
	case *ast.WhileLoop:
		l.lowerWhileLoop(s)
	}
}

func (l *Lowerer) lowerDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.LetDecl:
		v := l.lowerExpr(d.Expr)
		l.named[d.Name] = namedValue{kind: kindDirect, value: v, typ: l.lowerType(d.Expr.Type(), d.GetSpan())}
	case *ast.VarDecl:
		t := l.lowerType(d.DeclaredType, d.GetSpan())
		slot := l.fn.Alloca(l.block, t)
		if d.Init != nil {
			v := l.lowerExpr(d.Init)
			l.fn.Store(l.block, slot, v)
		}
		l.named[d.Name] = namedValue{kind: kindSlot, slot: slot, typ: t}
	case *ast.FuncDecl:
		l.fail(d.GetSpan(), "nested function declarations are not lowered")
	}
}

func (l *Lowerer) lowerReturnStmt(s *ast.ReturnStmt) {
	if s.Value == nil {
		l.fn.Ret(l.block, nil)
		return
	}
	v := l.lowerExpr(s.Value)
	l.fn.Ret(l.block, &v)
}

// lowerConditionalBlock implements the if-lowering algorithm: the
// incoming block branches unconditionally into the first arm's if_cond
// block; each arm gets its own condition block and a body block; the
// chain threads false edges to the next arm's if_cond (or the else, or a
// shared if_exit); bodies that fall through join at if_exit. A trailing
// arm whose every body unconditionally returns/branches needs no
// if_exit at all — it never gets built in the final function when every
// arm terminates.
func (l *Lowerer) lowerConditionalBlock(block *ast.ConditionalBlock) {
	var exit *ir.Block
	ensureExit := func() *ir.Block {
		if exit == nil {
			exit = l.fn.NewBlock("if_exit")
		}
		return exit
	}

	firstCond := l.fn.NewBlock("if_cond")
	l.fn.Br(l.block, firstCond)
	condBlock := firstCond

	for i, arm := range block.Arms {
		l.block = condBlock
		cond := l.lowerExpr(arm.Condition)

		bodyBlock := l.fn.NewBlock("if_body")
		var nextBlock *ir.Block
		isLast := i == len(block.Arms)-1
		if !isLast {
			nextBlock = l.fn.NewBlock("if_cond")
		} else if block.Else != nil {
			nextBlock = l.fn.NewBlock("if_else")
		}

		if nextBlock != nil {
			l.fn.CondBr(condBlock, cond, bodyBlock, nextBlock)
		} else {
			l.fn.CondBr(condBlock, cond, bodyBlock, ensureExit())
		}

		l.block = bodyBlock
		l.lowerCompoundStmt(arm.Body)
		if l.block != nil && l.block.IsOpen() {
			l.fn.Br(l.block, ensureExit())
		}

		condBlock = nextBlock
	}

	if block.Else != nil {
		l.block = condBlock
		l.lowerCompoundStmt(block.Else)
		if l.block != nil && l.block.IsOpen() {
			l.fn.Br(l.block, ensureExit())
		}
	}

	l.block = exit
}

// lowerWhileLoop implements the loop-lowering algorithm: entry branches
// unconditionally to loop_cond; loop_cond conditionally branches to
// loop_body_entry or loop_exit; the body's last open block branches back
// to loop_cond (the back-edge).
func (l *Lowerer) lowerWhileLoop(loop *ast.WhileLoop) {
	if loop.Decl != nil {
		l.lowerDecl(loop.Decl)
	}

	condBlock := l.fn.NewBlock("loop_cond")
	l.fn.Br(l.block, condBlock)

	l.block = condBlock
	cond := l.lowerExpr(loop.Condition)

	bodyBlock := l.fn.NewBlock("loop_body_entry")
	exitBlock := l.fn.NewBlock("loop_exit")
	l.fn.CondBr(condBlock, cond, bodyBlock, exitBlock)

	l.block = bodyBlock
	l.lowerCompoundStmt(loop.Body)
	if l.block != nil && l.block.IsOpen() {
		l.fn.Br(l.block, condBlock)
	}

	l.block = exitBlock
}

// ============================================================
// Expression lowering
// ============================================================

func (l *Lowerer) lowerExpr(e ast.Expr) ir.ValueHandle {
	switch x := e.(type) {
	case *ast.IntegerExpr:
		return l.fn.ConstInt(l.block, x.Value)
	case *ast.DoubleExpr:
		return l.fn.ConstFP(l.block, x.Value)
	case *ast.BoolExpr:
		return l.fn.ConstBool(l.block, x.Value)
	case *ast.IdentifierExpr:
		return l.lowerIdentifier(x)
	case *ast.UnaryExpr:
		return l.lowerUnaryExpr(x)
	case *ast.BinaryExpr:
		return l.lowerBinaryExpr(x)
	case *ast.FunctionCall:
		return l.lowerFunctionCall(x)
	case *ast.LabeledExpr:
		return l.lowerExpr(x.Inner)
	case *ast.TupleExpr:
		return l.lowerTupleExpr(x)
	case *ast.AccessorExpr:
		return l.lowerAccessorExpr(x)
	default:
		// StringExpr, ListExpr, and the struct/pointer/reference/slice-typed
		// expressions are parsed and type-checked but not lowered; codegen
		// stops with Unimplemented rather than silently emitting garbage.
		l.fail(e.GetSpan(), "cannot lower expression of kind %T", e)
		return 0
	}
}

// lowerTupleExpr packs a tuple literal's lowered elements into one
// aggregate value.
func (l *Lowerer) lowerTupleExpr(t *ast.TupleExpr) ir.ValueHandle {
	elems := make([]ir.ValueHandle, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = l.lowerExpr(e)
	}
	return l.fn.TupleMake(l.block, elems)
}

// lowerAccessorExpr implements AccessorExpr lowering: a tuple_extract
// instruction pulls the checked, constant-range index out of the base's
// lowered aggregate value.
func (l *Lowerer) lowerAccessorExpr(a *ast.AccessorExpr) ir.ValueHandle {
	base := l.lowerExpr(a.Base)
	elemType := l.lowerType(a.Type(), a.GetSpan())
	return l.fn.TupleExtract(l.block, base, a.Index, elemType)
}

func (l *Lowerer) lowerIdentifier(id *ast.IdentifierExpr) ir.ValueHandle {
	nv, ok := l.named[id.Name]
	if !ok {
		return 0
	}
	if nv.kind == kindDirect {
		return nv.value
	}
	return l.fn.Load(l.block, nv.slot, nv.typ)
}

func (l *Lowerer) lowerUnaryExpr(u *ast.UnaryExpr) ir.ValueHandle {
	operand := l.lowerExpr(u.Operand)
	resultType := l.lowerType(u.Op.Type(), u.GetSpan())
	switch u.Op.Lexeme {
	case "-":
		return l.fn.UnOp(l.block, ir.OpNeg, operand, resultType)
	case "!":
		return l.fn.UnOp(l.block, ir.OpNot, operand, resultType)
	default:
		return operand
	}
}

func (l *Lowerer) lowerBinaryExpr(b *ast.BinaryExpr) ir.ValueHandle {
	if b.Op.Lexeme == "=" {
		return l.lowerAssignment(b)
	}

	lhs := l.lowerExpr(b.Left)
	rhs := l.lowerExpr(b.Right)
	resultType := l.lowerType(b.Op.Type(), b.GetSpan())

	op, ok := binOpFor(b.Op.Lexeme)
	if !ok {
		return lhs
	}
	return l.fn.BinOp(l.block, op, lhs, rhs, resultType)
}

// lowerAssignment: lowering `x = e` where x is a var emits exactly one
// store to x's slot, and the stored value equals e's lowered value (the
// assignment expression's own value).
func (l *Lowerer) lowerAssignment(b *ast.BinaryExpr) ir.ValueHandle {
	rhs := l.lowerExpr(b.Right)
	id, ok := b.Left.(*ast.IdentifierExpr)
	if !ok {
		return rhs
	}
	nv, ok := l.named[id.Name]
	if !ok || nv.kind != kindSlot {
		return rhs
	}
	l.fn.Store(l.block, nv.slot, rhs)
	return rhs
}

// lowerFunctionCall lowers a call to its checked, resolved overload: each
// argument is lowered in order, then a call instruction invokes the
// callee by name. Arity and argument-type compatibility were already
// proven during checking (call.Resolved is set there), so there is
// nothing left to validate here beyond the resolution itself.
func (l *Lowerer) lowerFunctionCall(call *ast.FunctionCall) ir.ValueHandle {
	args := make([]ir.ValueHandle, len(call.Args))
	for i, a := range call.Args {
		args[i] = l.lowerExpr(a)
	}
	if call.Resolved == nil {
		l.fail(call.GetSpan(), "call to %q has no resolved callee", call.CalleeName)
		return 0
	}
	resultType, _ := l.lowerReturnType(call.Resolved.Sig.Ret, call.GetSpan())
	return l.fn.Call(l.block, call.Resolved.Name, args, resultType)
}

func binOpFor(lexeme string) (ir.Op, bool) {
	switch lexeme {
	case "+":
		return ir.OpAdd, true
	case "-":
		return ir.OpSub, true
	case "*":
		return ir.OpMul, true
	case "/":
		return ir.OpDiv, true
	case "%":
		return ir.OpRem, true
	case "==":
		return ir.OpEq, true
	case "!=":
		return ir.OpNeq, true
	case "<":
		return ir.OpLt, true
	case "<=":
		return ir.OpLte, true
	case ">":
		return ir.OpGt, true
	case ">=":
		return ir.OpGte, true
	case "&&":
		return ir.OpAnd, true
	case "||":
		return ir.OpOr, true
	default:
		return 0, false
	}
}
