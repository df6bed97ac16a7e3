package ast

import "bulatc/internal/types"

// DeclContext is the mutable scope node: it holds an ordered list of
// contained Decls and a weak link to a parent context. It generalizes a
// classic value-only Environment parent chain into a declaration-scope,
// since this compiler resolves names to typed declarations rather than
// evaluating them.
type DeclContext struct {
	parent   *DeclContext
	decls    []Decl
	byName   map[string][]Decl // supports overload sets (multiple FuncDecls sharing a name)
}

// NewDeclContext creates a scope with the given parent (nil for the root).
func NewDeclContext(parent *DeclContext) *DeclContext {
	return &DeclContext{parent: parent, byName: make(map[string][]Decl)}
}

// Parent returns the enclosing scope, or nil for GlobalContext.
func (c *DeclContext) Parent() *DeclContext { return c.parent }

// Decls returns the ordered list of declarations directly in this scope.
func (c *DeclContext) Decls() []Decl { return c.decls }

// Define adds decl to this scope. It returns false (DuplicateDeclaration)
// if a non-function decl of the same name already exists here; multiple
// FuncDecls may share a name (overload resolution).
func (c *DeclContext) Define(decl Decl) bool {
	name := decl.DeclName()
	existing := c.byName[name]
	if len(existing) > 0 {
		// Only function declarations may coexist under one name.
		if decl.DeclKind() != DeclFunc {
			return false
		}
		for _, e := range existing {
			if e.DeclKind() != DeclFunc {
				return false
			}
		}
	}
	decl.SetContext(c)
	c.decls = append(c.decls, decl)
	c.byName[name] = append(c.byName[name], decl)
	return true
}

// LookupResult is the outcome of a name lookup.
type LookupResult struct {
	Matches    []Decl
	Ambiguous  bool
	Unresolved bool
}

// Lookup searches this context's declared names for matches, ascending
// the parent chain on a miss. When argTypes is non-nil, candidates are
// filtered to FuncDecls whose parameter types are compatible — this is
// the overload-resolution path used for binary/unary operators and
// user/builtin function calls.
func (c *DeclContext) Lookup(name string, argTypes []*types.Type) LookupResult {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		candidates, ok := ctx.byName[name]
		if !ok || len(candidates) == 0 {
			continue
		}
		if argTypes == nil {
			return LookupResult{Matches: candidates}
		}
		var matches []Decl
		for _, d := range candidates {
			fd, ok := d.(*FuncDecl)
			if !ok {
				continue
			}
			if paramsCompatible(fd, argTypes) {
				matches = append(matches, d)
			}
		}
		if len(matches) == 0 {
			// Names exist at this scope but none accept these arg types —
			// shadowing stops the ascent once a name is found at all, so
			// this is Unresolved, not a continued search.
			return LookupResult{Unresolved: true}
		}
		if len(matches) > 1 {
			return LookupResult{Matches: matches, Ambiguous: true}
		}
		return LookupResult{Matches: matches}
	}
	return LookupResult{Unresolved: true}
}

func paramsCompatible(fd *FuncDecl, argTypes []*types.Type) bool {
	if len(fd.Params) != len(argTypes) {
		return false
	}
	for i, p := range fd.Params {
		if p.Type != argTypes[i] {
			return false
		}
	}
	return true
}
