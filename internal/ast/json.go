package ast

import (
	"bulatc/internal/span"
	"bulatc/internal/types"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field,
// and every Expr additionally carries its resolved type once the checker
// has run (nil before that).
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "body", nodeSlice(n.Body))

	// ---- Expressions ----
	case *IntegerExpr:
		return exprMap(n, "IntegerExpr", n.Span, "value", n.Value)
	case *DoubleExpr:
		return exprMap(n, "DoubleExpr", n.Span, "value", n.Value)
	case *BoolExpr:
		return exprMap(n, "BoolExpr", n.Span, "value", n.Value)
	case *StringExpr:
		return exprMap(n, "StringExpr", n.Span, "value", n.Value)
	case *IdentifierExpr:
		return exprMap(n, "IdentifierExpr", n.Span, "name", n.Name)
	case *TupleExpr:
		return exprMap(n, "TupleExpr", n.Span, "elems", exprSlice(n.Elems))
	case *ListExpr:
		return exprMap(n, "ListExpr", n.Span, "elems", exprSlice(n.Elems))
	case *AccessorExpr:
		return exprMap(n, "AccessorExpr", n.Span, "base", NodeToMap(n.Base), "index", n.Index)
	case *OperatorExpr:
		return exprMap(n, "OperatorExpr", n.Span, "lexeme", n.Lexeme, "level", n.PrecedenceLevel)
	case *UnaryExpr:
		return exprMap(n, "UnaryExpr", n.Span, "op", NodeToMap(n.Op), "operand", NodeToMap(n.Operand))
	case *BinaryExpr:
		return exprMap(n, "BinaryExpr", n.Span,
			"left", NodeToMap(n.Left),
			"op", NodeToMap(n.Op),
			"right", NodeToMap(n.Right))
	case *FunctionCall:
		result := exprMap(n, "FunctionCall", n.Span, "callee", n.CalleeName, "args", exprSlice(n.Args))
		if n.Resolved != nil {
			result["resolved"] = n.Resolved.DeclName()
		}
		return result
	case *LabeledExpr:
		return exprMap(n, "LabeledExpr", n.Span, "label", n.Label, "inner", NodeToMap(n.Inner))

	// ---- Statements ----
	case *DeclStmt:
		return m("DeclStmt", n.Span, "decl", NodeToMap(n.D))
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *ReturnStmt:
		result := m("ReturnStmt", n.Span)
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result
	case *CompoundStmt:
		return m("CompoundStmt", n.Span, "stmts", nodeSlice(stmtsToNodes(n.Stmts)))
	case *ConditionalStmt:
		result := m("ConditionalStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", NodeToMap(n.Body))
		if n.Decl != nil {
			result["decl"] = NodeToMap(n.Decl)
		}
		return result
	case *ConditionalBlock:
		result := m("ConditionalBlock", n.Span, "arms", conditionalArmsToNodes(n.Arms))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileLoop:
		result := m("WhileLoop", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", NodeToMap(n.Body))
		if n.Decl != nil {
			result["decl"] = NodeToMap(n.Decl)
		}
		return result

	// ---- Declarations ----
	case *LetDecl:
		return m("LetDecl", n.Span, "name", n.Name, "expr", NodeToMap(n.Expr))
	case *VarDecl:
		result := m("VarDecl", n.Span, "name", n.Name, "type", typeString(n.DeclaredType))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *ParamDecl:
		return m("ParamDecl", n.Span, "name", n.Name, "type", typeString(n.Type))
	case *FuncDecl:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = NodeToMap(p)
		}
		return m("FuncDecl", n.Span,
			"name", n.Name,
			"signature", typeString(n.Sig),
			"params", params,
			"body", NodeToMap(n.Body))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

// exprMap is m plus the resolvedType/leftValue fields every Expr carries
// once the checker has run.
func exprMap(e Expr, kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := m(kind, s, kvs...)
	if t := e.Type(); t != nil {
		result["resolvedType"] = t.String()
	}
	if e.IsLeftValue() {
		result["leftValue"] = true
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func nodeSlice(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

func stmtsToNodes(stmts []Stmt) []Node {
	out := make([]Node, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}

func conditionalArmsToNodes(arms []*ConditionalStmt) []interface{} {
	out := make([]interface{}, len(arms))
	for i, a := range arms {
		out[i] = NodeToMap(a)
	}
	return out
}

func typeString(t *types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
