package sema

import (
	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/span"
	"bulatc/internal/types"
)

// Checker builds DeclContexts top-down and type-checks expressions
// bottom-up over one compilation unit's File. It terminates on the first
// diagnostic — there is no speculative error recovery, mirroring the
// parser's fail-fast behavior.
type Checker struct {
	pool   *types.Pool
	global *ast.DeclContext
	err    *diag.Diagnostic
}

// New creates a Checker rooted at global (normally sema.NewGlobalContext's
// result for the same pool; the CLI builds one per compilation unit).
func New(pool *types.Pool, global *ast.DeclContext) *Checker {
	return &Checker{pool: pool, global: global}
}

// CheckFile builds the CompilationUnit scope and checks every top-level
// declaration and statement. All top-level DeclStmts are inserted into the
// unit's context first, so functions may forward-reference each other;
// it returns the unit scope and, on failure, the diagnostic that stopped
// the walk.
func (c *Checker) CheckFile(file *ast.File) (*ast.DeclContext, *diag.Diagnostic) {
	unit := ast.NewDeclContext(c.global)

	for _, node := range file.Body {
		decl, ok := topLevelDecl(node)
		if !ok {
			continue
		}
		if !unit.Define(decl) {
			c.fail(diag.KindDuplicateDeclaration, decl.GetSpan(), "%q is already declared in this scope", decl.DeclName())
			return unit, c.err
		}
	}

	for _, node := range file.Body {
		switch n := node.(type) {
		case *ast.DeclStmt:
			if fd, ok := n.D.(*ast.FuncDecl); ok {
				c.checkFunc(fd)
			} else if n.D != nil {
				c.checkDeclInScope(n.D, unit)
			}
		case ast.Stmt:
			c.checkStmt(n, unit)
		}
		if c.err != nil {
			return unit, c.err
		}
	}
	return unit, nil
}

func topLevelDecl(node ast.Node) (ast.Decl, bool) {
	if ds, ok := node.(*ast.DeclStmt); ok && ds.D != nil {
		return ds.D, true
	}
	return nil, false
}

func (c *Checker) fail(kind diag.Kind, s span.Span, format string, args ...interface{}) {
	if c.err != nil {
		return
	}
	d := diag.New("E3001", kind, s, format, args...)
	c.err = &d
}

// ============================================================
// Scope building + statement checking
// ============================================================

// checkDeclInScope handles a LetDecl/VarDecl appearing as a statement: set
// its parent to scope, add it, and type-check its initializer.
func (c *Checker) checkDeclInScope(decl ast.Decl, scope *ast.DeclContext) {
	// A top-level decl was already added to the unit scope by CheckFile.
	predefined := decl.Context() == scope
	switch d := decl.(type) {
	case *ast.LetDecl:
		c.checkExpr(d.Expr, scope)
		if c.err != nil {
			return
		}
		if !predefined && !scope.Define(d) {
			c.fail(diag.KindDuplicateDeclaration, d.GetSpan(), "%q is already declared in this scope", d.Name)
		}
	case *ast.VarDecl:
		if d.Init != nil {
			c.checkExpr(d.Init, scope)
			if c.err != nil {
				return
			}
			if d.DeclaredType != nil && d.Init.Type() != d.DeclaredType {
				c.fail(diag.KindTypeMismatch, d.Init.GetSpan(), "cannot initialize %q of type %s with value of type %s", d.Name, d.DeclaredType, d.Init.Type())
				return
			}
			if d.DeclaredType == nil {
				d.DeclaredType = d.Init.Type()
			}
		}
		if !predefined && !scope.Define(d) {
			c.fail(diag.KindDuplicateDeclaration, d.GetSpan(), "%q is already declared in this scope", d.Name)
		}
	default:
		if !predefined && !scope.Define(decl) {
			c.fail(diag.KindDuplicateDeclaration, decl.GetSpan(), "%q is already declared in this scope", decl.DeclName())
		}
	}
}

// checkFunc builds a FuncDecl's own context (parameters) and its body's
// context (parent = the func's own context).
func (c *Checker) checkFunc(fd *ast.FuncDecl) {
	fnCtx := ast.NewDeclContext(fd.Context())
	for _, param := range fd.Params {
		if !fnCtx.Define(param) {
			c.fail(diag.KindDuplicateDeclaration, param.GetSpan(), "duplicate parameter %q", param.Name)
			return
		}
	}
	fd.SetContext(fnCtx)

	if fd.Body == nil {
		return
	}
	bodyCtx := ast.NewDeclContext(fnCtx)
	fd.Body.Ctx = bodyCtx
	c.checkCompoundStmts(fd.Body, bodyCtx)
}

// checkStmt dispatches on the statement family for scope building + checks.
func (c *Checker) checkStmt(stmt ast.Stmt, scope *ast.DeclContext) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		if s.D != nil {
			c.checkDeclInScope(s.D, scope)
		}
	case *ast.ExprStmt:
		c.checkExpr(s.Expr, scope)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.checkExpr(s.Value, scope)
		}
	case *ast.CompoundStmt:
		inner := ast.NewDeclContext(scope)
		s.Ctx = inner
		c.checkCompoundStmts(s, inner)
	case *ast.ConditionalBlock:
		c.checkConditionalBlock(s, scope)
	case *ast.WhileLoop:
		c.checkWhileLoop(s, scope)
	}
}

func (c *Checker) checkCompoundStmts(body *ast.CompoundStmt, scope *ast.DeclContext) {
	for _, stmt := range body.Stmts {
		c.checkStmt(stmt, scope)
		if c.err != nil {
			return
		}
	}
}

// checkConditionalBlock type-checks every arm's condition (must be
// BooleanType) and builds each arm body's scope, plus the optional else's.
func (c *Checker) checkConditionalBlock(block *ast.ConditionalBlock, scope *ast.DeclContext) {
	for _, arm := range block.Arms {
		armScope := ast.NewDeclContext(scope)
		arm.Ctx = armScope
		c.checkExpr(arm.Condition, armScope)
		if c.err != nil {
			return
		}
		if arm.Condition.Type() != c.pool.Bool() {
			c.fail(diag.KindTypeMismatch, arm.Condition.GetSpan(), "condition must be bool, found %s", arm.Condition.Type())
			return
		}
		arm.Body.Ctx = armScope
		c.checkCompoundStmts(arm.Body, armScope)
		if c.err != nil {
			return
		}
	}
	if block.Else != nil {
		elseScope := ast.NewDeclContext(scope)
		block.Else.Ctx = elseScope
		c.checkCompoundStmts(block.Else, elseScope)
	}
}

// checkWhileLoop attaches parent, checks the condition (BooleanType
// required), adds the optional LetDecl to the loop's scope, and recurses
// into the body's scope.
func (c *Checker) checkWhileLoop(loop *ast.WhileLoop, scope *ast.DeclContext) {
	loopScope := ast.NewDeclContext(scope)
	loop.Ctx = loopScope

	if loop.Decl != nil {
		if let, ok := loop.Decl.(*ast.LetDecl); ok {
			c.checkExpr(let.Expr, loopScope)
			if c.err != nil {
				return
			}
			if !loopScope.Define(let) {
				c.fail(diag.KindDuplicateDeclaration, let.GetSpan(), "%q is already declared in this scope", let.Name)
				return
			}
		}
	}

	c.checkExpr(loop.Condition, loopScope)
	if c.err != nil {
		return
	}
	if loop.Condition.Type() != c.pool.Bool() {
		c.fail(diag.KindTypeMismatch, loop.Condition.GetSpan(), "condition must be bool, found %s", loop.Condition.Type())
		return
	}

	bodyScope := ast.NewDeclContext(loopScope)
	loop.Body.Ctx = bodyScope
	c.checkCompoundStmts(loop.Body, bodyScope)
}

// ============================================================
// Expression type-check (bottom-up)
// ============================================================

func (c *Checker) checkExpr(e ast.Expr, scope *ast.DeclContext) {
	if e == nil || c.err != nil {
		return
	}
	switch x := e.(type) {
	case *ast.IntegerExpr:
		x.SetType(c.pool.Int())
	case *ast.DoubleExpr:
		x.SetType(c.pool.Dbl())
	case *ast.BoolExpr:
		x.SetType(c.pool.Bool())
	case *ast.StringExpr:
		x.SetType(c.pool.Named("string"))
	case *ast.IdentifierExpr:
		c.checkIdentifier(x, scope)
	case *ast.TupleExpr:
		c.checkTupleExpr(x, scope)
	case *ast.ListExpr:
		c.checkListExpr(x, scope)
	case *ast.AccessorExpr:
		c.checkAccessorExpr(x, scope)
	case *ast.UnaryExpr:
		c.checkUnaryExpr(x, scope)
	case *ast.BinaryExpr:
		c.checkBinaryExpr(x, scope)
	case *ast.FunctionCall:
		c.checkFunctionCall(x, scope)
	case *ast.LabeledExpr:
		c.checkExpr(x.Inner, scope)
		if c.err == nil {
			x.SetType(x.Inner.Type())
		}
	default:
		c.fail(diag.KindUnimplemented, e.GetSpan(), "unsupported expression kind %T", e)
	}
}

func (c *Checker) checkIdentifier(id *ast.IdentifierExpr, scope *ast.DeclContext) {
	res := scope.Lookup(id.Name, nil)
	if res.Unresolved || len(res.Matches) == 0 {
		c.fail(diag.KindUnresolvedName, id.GetSpan(), "undefined name %q", id.Name)
		return
	}
	if res.Ambiguous || len(res.Matches) > 1 {
		c.fail(diag.KindAmbiguousName, id.GetSpan(), "ambiguous reference to %q", id.Name)
		return
	}
	decl := res.Matches[0]
	id.Resolved = decl
	id.SetLeftValue(decl.DeclKind() == ast.DeclVar)
	switch d := decl.(type) {
	case *ast.VarDecl:
		id.SetType(d.DeclaredType)
	case *ast.ParamDecl:
		id.SetType(d.Type)
	case *ast.LetDecl:
		id.SetType(d.Expr.Type())
	case *ast.FuncDecl:
		id.SetType(d.Sig)
	}
}

func (c *Checker) checkTupleExpr(t *ast.TupleExpr, scope *ast.DeclContext) {
	elemTypes := make([]*types.Type, len(t.Elems))
	for i, elem := range t.Elems {
		c.checkExpr(elem, scope)
		if c.err != nil {
			return
		}
		elemTypes[i] = elem.Type()
	}
	t.SetType(c.pool.TupleOf(elemTypes...))
}

func (c *Checker) checkListExpr(l *ast.ListExpr, scope *ast.DeclContext) {
	var elem *types.Type
	for _, e := range l.Elems {
		c.checkExpr(e, scope)
		if c.err != nil {
			return
		}
		if elem == nil {
			elem = e.Type()
		} else if elem != e.Type() {
			c.fail(diag.KindTypeMismatch, e.GetSpan(), "list elements must share one type: expected %s, found %s", elem, e.Type())
			return
		}
	}
	if elem == nil {
		elem = c.pool.Named("<unknown>")
	}
	l.SetType(c.pool.ListOf(elem, len(l.Elems)))
}

// checkAccessorExpr: if base is a TupleType, the result is the index-th
// element type; the index must be a constant integer literal in range.
func (c *Checker) checkAccessorExpr(a *ast.AccessorExpr, scope *ast.DeclContext) {
	c.checkExpr(a.Base, scope)
	if c.err != nil {
		return
	}
	baseType := a.Base.Type()
	if baseType.Kind != types.Tuple {
		c.fail(diag.KindTypeMismatch, a.GetSpan(), "accessor base must be a tuple, found %s", baseType)
		return
	}
	if a.Index < 0 || int(a.Index) >= len(baseType.Elems) {
		c.fail(diag.KindTypeMismatch, a.GetSpan(), "tuple index %d out of range for %s", a.Index, baseType)
		return
	}
	a.SetType(baseType.Elems[a.Index])
}

// checkUnaryExpr resolves op.lexeme as a function of one argument in scope,
// analogous to the binary case.
func (c *Checker) checkUnaryExpr(u *ast.UnaryExpr, scope *ast.DeclContext) {
	c.checkExpr(u.Operand, scope)
	if c.err != nil {
		return
	}
	res := scope.Lookup(u.Op.Lexeme, []*types.Type{u.Operand.Type()})
	if !c.resolveOperator(u.Op, res, u.GetSpan()) {
		return
	}
	u.SetType(u.Op.Type())
}

// checkBinaryExpr resolves op.lexeme in scope as a function of two
// arguments typed (l.type, r.type); "=" requires the left operand to be an
// l-value, and its result type is the left type.
func (c *Checker) checkBinaryExpr(b *ast.BinaryExpr, scope *ast.DeclContext) {
	c.checkExpr(b.Left, scope)
	if c.err != nil {
		return
	}
	c.checkExpr(b.Right, scope)
	if c.err != nil {
		return
	}

	if b.Op.Lexeme == "=" {
		if !b.Left.IsLeftValue() {
			c.fail(diag.KindNotAssignable, b.Left.GetSpan(), "left-hand side of assignment is not assignable")
			return
		}
	}

	res := scope.Lookup(b.Op.Lexeme, []*types.Type{b.Left.Type(), b.Right.Type()})
	if !c.resolveOperator(b.Op, res, b.GetSpan()) {
		return
	}

	if b.Op.Lexeme == "=" {
		b.SetType(b.Left.Type())
		return
	}
	b.SetType(b.Op.ResolvedType)
}

// resolveOperator records the function resolution result onto op (reusing
// its ResolvedType field as the call's result type) and reports the
// appropriate diagnostic on failure.
func (c *Checker) resolveOperator(op *ast.OperatorExpr, res ast.LookupResult, s span.Span) bool {
	if res.Unresolved || len(res.Matches) == 0 {
		c.fail(diag.KindUnresolvedName, s, "no overload of %q accepts these operand types", op.Lexeme)
		return false
	}
	if res.Ambiguous {
		c.fail(diag.KindAmbiguousName, s, "ambiguous overload of %q", op.Lexeme)
		return false
	}
	fd := res.Matches[0].(*ast.FuncDecl)
	op.SetType(fd.Sig.Ret)
	return true
}

// checkFunctionCall recursively checks args, then resolves name by arg
// types; the result type is the callee's return type.
func (c *Checker) checkFunctionCall(call *ast.FunctionCall, scope *ast.DeclContext) {
	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		c.checkExpr(arg, scope)
		if c.err != nil {
			return
		}
		argTypes[i] = arg.Type()
	}

	res := scope.Lookup(call.CalleeName, argTypes)
	if res.Unresolved || len(res.Matches) == 0 {
		c.fail(diag.KindUnresolvedName, call.GetSpan(), "no function %q accepts these argument types", call.CalleeName)
		return
	}
	if res.Ambiguous {
		c.fail(diag.KindAmbiguousName, call.GetSpan(), "ambiguous call to %q", call.CalleeName)
		return
	}
	fd := res.Matches[0].(*ast.FuncDecl)
	call.Resolved = fd
	call.SetType(fd.Sig.Ret)
}
