// Package types implements the interned Type family. Two structurally
// equal Types share one *Type instance, so equality reduces to pointer
// identity everywhere else in the compiler (checker, lowerer).
package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind discriminates the Type variants.
type Kind int

const (
	Invalid Kind = iota
	Integer
	Boolean
	Double
	Character
	Named     // TypeIdentifier(name) — a declared, not-yet-resolved name
	Tuple
	Function
	List
	Map
	Pointer
	Reference
	Slice
	Struct
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "i64"
	case Boolean:
		return "bool"
	case Double:
		return "f64"
	case Character:
		return "char"
	case Named:
		return "named"
	case Tuple:
		return "tuple"
	case Function:
		return "function"
	case List:
		return "list"
	case Map:
		return "map"
	case Pointer:
		return "pointer"
	case Reference:
		return "reference"
	case Slice:
		return "slice"
	case Struct:
		return "struct"
	default:
		return "invalid"
	}
}

// StructField is one ordered field of a StructType.
type StructField struct {
	Name string
	Type *Type
}

// Type is a tagged variant covering every member of the Type family. Only
// fields relevant to Kind are populated; the zero value of the rest is
// ignored. Every *Type in circulation was produced by a Pool, which is the
// only thing that may construct one — callers never build a Type literal.
type Type struct {
	Kind Kind

	Name string // Named

	Elems []*Type // Tuple (element types), Function (param types)
	Ret   *Type   // Function return type

	Elem *Type // List/Map-value/Pointer/Reference/Slice pointee
	Size int   // List size
	Key  *Type // Map key type

	Fields []StructField // Struct, in declaration order
}

// key returns a canonical structural string that uniquely identifies the
// Type's shape, used by the interning Pool to decide identity.
func (t *Type) key() string {
	switch t.Kind {
	case Integer, Boolean, Double, Character:
		return t.Kind.String()
	case Named:
		return "named:" + t.Name
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.key()
		}
		return "tuple(" + strings.Join(parts, ",") + ")"
	case Function:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.key()
		}
		ret := "void"
		if t.Ret != nil {
			ret = t.Ret.key()
		}
		return "func(" + strings.Join(parts, ",") + ")->" + ret
	case List:
		return fmt.Sprintf("list(%s,%d)", t.Elem.key(), t.Size)
	case Map:
		return fmt.Sprintf("map(%s:%s)", t.Key.key(), t.Elem.key())
	case Pointer:
		return "*" + t.Elem.key()
	case Reference:
		return "&" + t.Elem.key()
	case Slice:
		return "&[" + t.Elem.key() + "]"
	case Struct:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.Name + ":" + f.Type.key()
		}
		sort.Strings(fields) // struct identity is by field set+types, not declared order
		return "struct{" + strings.Join(fields, ",") + "}"
	default:
		return "invalid"
	}
}

// String renders the Type the way the parser's source-level syntax would.
func (t *Type) String() string {
	switch t.Kind {
	case Integer:
		return "i64"
	case Boolean:
		return "bool"
	case Double:
		return "f64"
	case Character:
		return "char"
	case Named:
		return t.Name
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Function:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		ret := "void"
		if t.Ret != nil {
			ret = t.Ret.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + ret
	case List:
		return fmt.Sprintf("[%s, %d]", t.Elem.String(), t.Size)
	case Map:
		return fmt.Sprintf("[%s: %s]", t.Key.String(), t.Elem.String())
	case Pointer:
		return "*" + t.Elem.String()
	case Reference:
		return "&" + t.Elem.String()
	case Slice:
		return "&[" + t.Elem.String() + "]"
	case Struct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "{" + strings.Join(parts, "; ") + "}"
	default:
		return "<invalid>"
	}
}

// Pool is the process-wide interning pool: types are interned, so equality
// is identity after interning. A Pool's mutex guards concurrent
// construction when several compilation units share it; a single-threaded
// driver may also allocate one Pool per unit.
type Pool struct {
	mu    sync.Mutex
	byKey map[string]*Type
}

// NewPool creates an empty interning pool preloaded with nothing; the
// fundamental singletons are obtained by calling Int/Bool/Dbl/Char on
// the pool so that even the singletons go through one interning path.
func NewPool() *Pool {
	return &Pool{byKey: make(map[string]*Type)}
}

func (p *Pool) intern(t *Type) *Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := t.key()
	if existing, ok := p.byKey[k]; ok {
		return existing
	}
	p.byKey[k] = t
	return t
}

// Int returns the singleton IntegerType.
func (p *Pool) Int() *Type { return p.intern(&Type{Kind: Integer}) }

// Bool returns the singleton BooleanType.
func (p *Pool) Bool() *Type { return p.intern(&Type{Kind: Boolean}) }

// Dbl returns the singleton DoubleType.
func (p *Pool) Dbl() *Type { return p.intern(&Type{Kind: Double}) }

// Char returns the singleton CharacterType.
func (p *Pool) Char() *Type { return p.intern(&Type{Kind: Character}) }

// Named interns a TypeIdentifier(name) placeholder.
func (p *Pool) Named(name string) *Type { return p.intern(&Type{Kind: Named, Name: name}) }

// TupleOf interns a TupleType over elems.
func (p *Pool) TupleOf(elems ...*Type) *Type { return p.intern(&Type{Kind: Tuple, Elems: elems}) }

// FuncOf interns a FunctionType with the given params and return type.
func (p *Pool) FuncOf(params []*Type, ret *Type) *Type {
	return p.intern(&Type{Kind: Function, Elems: params, Ret: ret})
}

// ListOf interns a fixed-size ListType.
func (p *Pool) ListOf(elem *Type, size int) *Type {
	return p.intern(&Type{Kind: List, Elem: elem, Size: size})
}

// MapOf interns a MapType.
func (p *Pool) MapOf(key, val *Type) *Type {
	return p.intern(&Type{Kind: Map, Key: key, Elem: val})
}

// PointerTo interns a PointerType.
func (p *Pool) PointerTo(elem *Type) *Type { return p.intern(&Type{Kind: Pointer, Elem: elem}) }

// ReferenceTo interns a ReferenceType.
func (p *Pool) ReferenceTo(elem *Type) *Type { return p.intern(&Type{Kind: Reference, Elem: elem}) }

// SliceOf interns a SliceType.
func (p *Pool) SliceOf(elem *Type) *Type { return p.intern(&Type{Kind: Slice, Elem: elem}) }

// StructOf interns a StructType over an ordered field list. Duplicate field
// names are the parser's concern (DuplicateDeclaration), not the pool's.
func (p *Pool) StructOf(fields []StructField) *Type {
	return p.intern(&Type{Kind: Struct, Fields: fields})
}

// IsNumeric reports whether t is IntegerType or DoubleType.
func IsNumeric(t *Type) bool {
	return t != nil && (t.Kind == Integer || t.Kind == Double)
}

// IsPrimitive reports whether t is one of the four fundamental singletons.
func IsPrimitive(t *Type) bool {
	return t != nil && (t.Kind == Integer || t.Kind == Boolean || t.Kind == Double || t.Kind == Character)
}
