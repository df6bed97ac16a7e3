// Package sema builds DeclContexts and type-checks the AST. Its
// parent-chain DeclContext generalizes a classic Environment chain into a
// declaration-scope used by a static type checker rather than a
// tree-walk evaluator.
package sema

import "bulatc/internal/ast"
import "bulatc/internal/types"

// operatorSpec describes one builtin operator overload registered into
// GlobalContext: its lexeme, operand types, and result type.
type operatorSpec struct {
	lexeme string
	params []*types.Type
	ret    *types.Type
}

// NewGlobalContext builds a fresh root DeclContext for pool, preloaded with
// builtin operator overloads. Each is a FuncDecl whose name is the operator
// lexeme, so that expression type-check can resolve `op.lexeme` exactly like
// a user function call. Registered: + - * / % and the six comparisons for
// i64 and f64, && and || for bool, unary - for i64 and f64, unary ! for
// bool, and = for i64, f64 and bool. There is no builtin over char, no
// equality over bool, and no unary +.
func NewGlobalContext(pool *types.Pool) *ast.DeclContext {
	g := ast.NewDeclContext(nil)

	i64, f64, bl := pool.Int(), pool.Dbl(), pool.Bool()

	arith := []string{"+", "-", "*", "/", "%"}
	cmp := []string{"==", "!=", "<", "<=", ">", ">="}

	var specs []operatorSpec
	for _, lex := range arith {
		specs = append(specs, operatorSpec{lex, []*types.Type{i64, i64}, i64})
		specs = append(specs, operatorSpec{lex, []*types.Type{f64, f64}, f64})
	}
	for _, lex := range cmp {
		specs = append(specs, operatorSpec{lex, []*types.Type{i64, i64}, bl})
		specs = append(specs, operatorSpec{lex, []*types.Type{f64, f64}, bl})
	}
	specs = append(specs,
		operatorSpec{"&&", []*types.Type{bl, bl}, bl},
		operatorSpec{"||", []*types.Type{bl, bl}, bl},
		operatorSpec{"-", []*types.Type{i64}, i64},
		operatorSpec{"-", []*types.Type{f64}, f64},
		operatorSpec{"!", []*types.Type{bl}, bl},
		operatorSpec{"=", []*types.Type{i64, i64}, i64},
		operatorSpec{"=", []*types.Type{f64, f64}, f64},
		operatorSpec{"=", []*types.Type{bl, bl}, bl},
	)

	for _, s := range specs {
		defineBuiltin(g, pool, s)
	}
	return g
}

func defineBuiltin(g *ast.DeclContext, pool *types.Pool, s operatorSpec) {
	names := []string{"operand"}
	if len(s.params) == 2 {
		names = []string{"lhs", "rhs"}
	}
	params := make([]*ast.ParamDecl, len(s.params))
	for i, t := range s.params {
		params[i] = &ast.ParamDecl{DeclBase: ast.DeclBase{Name: names[i]}, Type: t}
	}
	fn := &ast.FuncDecl{
		DeclBase: ast.DeclBase{Name: s.lexeme},
		Sig:      pool.FuncOf(s.params, s.ret),
		Params:   params,
	}
	// Builtins are allowed to share a name across arities/types: they are
	// always FuncDecls, so DeclContext.Define's overload rule admits them.
	g.Define(fn)
}
