// Package ast defines the abstract syntax tree for the core: the Expr,
// Stmt, and Decl variant families, plus the DeclContext scope node that
// attaches to every lexical region. The fourth family, Type, is the
// interned internal/types.Type — there is no separate syntactic
// pre-resolution Type node, since a parsed type annotation is
// immediately interned.
package ast

import (
	"bulatc/internal/span"
	"bulatc/internal/types"
)

// Node is the interface implemented by all AST nodes; every node exposes
// Children for uniform traversal and GetSpan for its source range.
type Node interface {
	nodeNode()
	GetSpan() span.Span
	Children() []Node
}

// Expr is the interface for expression nodes. Every Expr carries a mutable
// resolved_type filled by the checker and an is_left_value flag.
type Expr interface {
	Node
	exprNode()
	Type() *types.Type
	SetType(*types.Type)
	IsLeftValue() bool
	SetLeftValue(bool)
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is the interface for declaration nodes. Every Decl has a Kind
// discriminator and may be attached to a parent DeclContext.
type Decl interface {
	Node
	declNode()
	DeclName() string
	DeclKind() DeclKind
	Context() *DeclContext
	SetContext(*DeclContext)
}

// DeclKind discriminates the Decl variants.
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclVar
	DeclParam
	DeclFunc
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclVar:
		return "var"
	case DeclParam:
		return "param"
	case DeclFunc:
		return "func"
	default:
		return "decl"
	}
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes; it carries the mutable
// resolved_type and is_left_value fields the checker fills in.
type ExprBase struct {
	NodeBase
	ResolvedType *types.Type
	LeftValue    bool
}

func (ExprBase) exprNode() {}

func (e *ExprBase) Type() *types.Type    { return e.ResolvedType }
func (e *ExprBase) SetType(t *types.Type) { e.ResolvedType = t }
func (e *ExprBase) IsLeftValue() bool     { return e.LeftValue }
func (e *ExprBase) SetLeftValue(v bool)   { e.LeftValue = v }

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// DeclBase is embedded by all declaration nodes.
type DeclBase struct {
	NodeBase
	Name string
	Ctx  *DeclContext
}

func (DeclBase) declNode() {}

func (d *DeclBase) DeclName() string          { return d.Name }
func (d *DeclBase) Context() *DeclContext     { return d.Ctx }
func (d *DeclBase) SetContext(c *DeclContext) { d.Ctx = c }

// File represents the entire compiled source file (the CompilationUnit's
// parsed root); Body holds top-level statements and declarations.
type File struct {
	NodeBase
	Body []Node
}

func (f *File) Children() []Node { return f.Body }
