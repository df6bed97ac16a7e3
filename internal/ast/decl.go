package ast

import "bulatc/internal/types"

// LetDecl is an immutable binding; no storage allocation is required since
// the lowerer binds its name directly to the evaluated RHS value.
type LetDecl struct {
	DeclBase
	Expr Expr
}

func (d *LetDecl) Children() []Node  { return []Node{d.Expr} }
func (d *LetDecl) DeclKind() DeclKind { return DeclLet }

// VarDecl is a mutable binding backed by a stack slot.
type VarDecl struct {
	DeclBase
	DeclaredType *types.Type
	Init         Expr
}

func (d *VarDecl) Children() []Node  { return []Node{d.Init} }
func (d *VarDecl) DeclKind() DeclKind { return DeclVar }

// ParamDecl is one function parameter.
type ParamDecl struct {
	DeclBase
	Type *types.Type
}

func (d *ParamDecl) Children() []Node  { return nil }
func (d *ParamDecl) DeclKind() DeclKind { return DeclParam }

// FuncDecl is a function declaration: its own DeclContext parents the
// body's DeclContext and contains the ParamDecls.
type FuncDecl struct {
	DeclBase
	Sig    *types.Type // FunctionType
	Params []*ParamDecl
	Body   *CompoundStmt
}

func (d *FuncDecl) Children() []Node {
	out := make([]Node, 0, len(d.Params)+1)
	for _, p := range d.Params {
		out = append(out, p)
	}
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return out
}
func (d *FuncDecl) DeclKind() DeclKind { return DeclFunc }
