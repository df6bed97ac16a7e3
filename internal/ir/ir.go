// Package ir implements the target IR's abstract interface: a typed
// basic-block CFG per function. This package describes the lowering
// target's concrete shape, not any particular backend's on-disk form —
// the IR's binary/textual encoding is deliberately out of scope. Value/Slot
// identity is a simple incrementing id, mirroring the tagged-value style a
// tree-walking runtime's value representation would use.
package ir

import "fmt"

// Kind discriminates the primitive IR types a lowered program's values
// carry (the type-lowering table: IntegerType→i64, BooleanType→i1,
// DoubleType→f64).
type Kind int

const (
	I64 Kind = iota
	I1
	F64
	// Aggregate is a coarse stand-in for a tuple-typed value: the IR's type
	// lattice only needs to distinguish scalars it arithmetic-lowers from
	// composite values it merely moves around whole or extracts from, so
	// it does not track element shape the way internal/types does.
	Aggregate
)

func (k Kind) String() string {
	switch k {
	case I64:
		return "i64"
	case I1:
		return "i1"
	case F64:
		return "f64"
	case Aggregate:
		return "aggregate"
	default:
		return "invalid"
	}
}

// ValueHandle identifies an SSA-style value produced by one instruction.
type ValueHandle int

// SlotHandle identifies a stack slot produced by an alloca.
type SlotHandle int

// Op discriminates instruction opcodes.
type Op int

const (
	OpConstInt Op = iota
	OpConstFP
	OpConstBool
	OpAlloca
	OpLoad
	OpStore
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpNeg
	OpNot
	OpTupleMake
	OpTupleExtract
	OpCall
	OpBr
	OpCondBr
	OpRet
)

func (o Op) String() string {
	names := [...]string{
		"const_int", "const_fp", "const_bool", "alloca", "load", "store",
		"add", "sub", "mul", "div", "rem",
		"eq", "neq", "lt", "lte", "gt", "gte", "and", "or", "neg", "not",
		"tuple_make", "tuple_extract", "call",
		"br", "cond_br", "ret",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Instr is one IR instruction. Not every field is meaningful for every Op;
// only the ones the instruction's opcode documents are read by consumers.
type Instr struct {
	Op     Op
	Result ValueHandle // the value this instruction defines, for value-producing ops
	Type   Kind

	IntConst  int64
	FPConst   float64
	BoolConst bool

	Slot SlotHandle
	Args []ValueHandle // operand values, in operand order

	Callee string // call: name of the target function

	Then  *Block // cond_br / br target(s)
	Else  *Block
	HasValue bool // ret: whether Args[0] is present
}

// Block is a basic block: a maximal straight-line instruction sequence
// ending in at most one terminator: a block has at most one terminator,
// and terminator-less blocks are open.
type Block struct {
	Label string
	Instrs []Instr
	Term   *Instr // nil while open
}

// IsOpen reports whether this block still lacks a terminator.
func (b *Block) IsOpen() bool { return b.Term == nil }

// Func is one lowered function: a CFG of Blocks plus its parameter/return
// IR types.
type Func struct {
	Name       string
	ParamTypes []Kind
	RetType    Kind
	HasRet     bool // false for a void FunctionType
	Blocks     []*Block

	nextValue int
	nextSlot  int
	nextLabel int
}

// MakeFunction is the target IR's make_function(name, signature) entry
// point. Value handles 0..len(paramTypes)-1 name the parameters, so
// instruction results are numbered from len(paramTypes) upward.
func MakeFunction(name string, paramTypes []Kind, retType Kind, hasRet bool) *Func {
	return &Func{Name: name, ParamTypes: paramTypes, RetType: retType, HasRet: hasRet, nextValue: len(paramTypes)}
}

// NewBlock is the target IR's new_block(fn, label) entry point. An empty
// label is auto-numbered.
func (f *Func) NewBlock(label string) *Block {
	if label == "" {
		label = fmt.Sprintf("bb%d", f.nextLabel)
		f.nextLabel++
	}
	b := &Block{Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) freshValue() ValueHandle {
	v := ValueHandle(f.nextValue)
	f.nextValue++
	return v
}

func (f *Func) freshSlot() SlotHandle {
	s := SlotHandle(f.nextSlot)
	f.nextSlot++
	return s
}

// Alloca is the target IR's alloca(block, type) entry point: reserves a
// stack slot of the given type in block and returns its handle.
func (f *Func) Alloca(b *Block, t Kind) SlotHandle {
	slot := f.freshSlot()
	b.Instrs = append(b.Instrs, Instr{Op: OpAlloca, Slot: slot, Type: t})
	return slot
}

// Store is the target IR's store(block, slot, value) entry point.
func (f *Func) Store(b *Block, slot SlotHandle, value ValueHandle) {
	b.Instrs = append(b.Instrs, Instr{Op: OpStore, Slot: slot, Args: []ValueHandle{value}})
}

// Load is the target IR's load(block, slot) entry point.
func (f *Func) Load(b *Block, slot SlotHandle, t Kind) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpLoad, Result: res, Slot: slot, Type: t})
	return res
}

// ConstInt is the target IR's const_int(type, i64) entry point.
func (f *Func) ConstInt(b *Block, v int64) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpConstInt, Result: res, Type: I64, IntConst: v})
	return res
}

// ConstFP is the target IR's const_fp(type, f64) entry point.
func (f *Func) ConstFP(b *Block, v float64) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpConstFP, Result: res, Type: F64, FPConst: v})
	return res
}

// ConstBool is the target IR's const_bool(bool) entry point.
func (f *Func) ConstBool(b *Block, v bool) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpConstBool, Result: res, Type: I1, BoolConst: v})
	return res
}

// BinOp emits an arithmetic/comparison/logic instruction over two operands,
// parameterized by op and result type.
func (f *Func) BinOp(b *Block, op Op, lhs, rhs ValueHandle, resultType Kind) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: op, Result: res, Type: resultType, Args: []ValueHandle{lhs, rhs}})
	return res
}

// UnOp emits a negation/logical-not instruction over one operand.
func (f *Func) UnOp(b *Block, op Op, operand ValueHandle, resultType Kind) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: op, Result: res, Type: resultType, Args: []ValueHandle{operand}})
	return res
}

// TupleMake packs operand values into one aggregate value, in element
// order, for a tuple literal's lowering.
func (f *Func) TupleMake(b *Block, elems []ValueHandle) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpTupleMake, Result: res, Type: Aggregate, Args: append([]ValueHandle(nil), elems...)})
	return res
}

// TupleExtract reads one element out of an aggregate value by constant
// index, implementing AccessorExpr lowering.
func (f *Func) TupleExtract(b *Block, tuple ValueHandle, index int64, elemType Kind) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpTupleExtract, Result: res, Type: elemType, Args: []ValueHandle{tuple}, IntConst: index})
	return res
}

// Call is the target IR's call(block, callee, args, type) entry point: it
// invokes another lowered function by name and binds its result to a fresh
// value, the same way a direct (non-virtual) call instruction would.
func (f *Func) Call(b *Block, callee string, args []ValueHandle, resultType Kind) ValueHandle {
	res := f.freshValue()
	b.Instrs = append(b.Instrs, Instr{Op: OpCall, Result: res, Type: resultType, Callee: callee, Args: append([]ValueHandle(nil), args...)})
	return res
}

// Br is the target IR's br(block, target) terminator.
func (f *Func) Br(b *Block, target *Block) {
	if b.Term != nil {
		return
	}
	instr := Instr{Op: OpBr, Then: target}
	b.Term = &instr
}

// CondBr is the target IR's cond_br(block, cond, then_target, else_target)
// terminator.
func (f *Func) CondBr(b *Block, cond ValueHandle, thenTarget, elseTarget *Block) {
	if b.Term != nil {
		return
	}
	instr := Instr{Op: OpCondBr, Args: []ValueHandle{cond}, Then: thenTarget, Else: elseTarget}
	b.Term = &instr
}

// Ret is the target IR's ret(block, optional value) terminator.
func (f *Func) Ret(b *Block, value *ValueHandle) {
	if b.Term != nil {
		return
	}
	instr := Instr{Op: OpRet}
	if value != nil {
		instr.Args = []ValueHandle{*value}
		instr.HasValue = true
	}
	b.Term = &instr
}

// Dump renders fn as an indented textual listing for CLI introspection
// (the `build` subcommand's output). The IR's on-disk encoding is out of
// scope entirely; this is debug tooling, not a wire format other passes
// read back in.
func (f *Func) Dump() string {
	var b []byte
	buf := func(s string) { b = append(b, s...) }

	buf(fmt.Sprintf("func %s(", f.Name))
	for i, pt := range f.ParamTypes {
		if i > 0 {
			buf(", ")
		}
		buf(fmt.Sprintf("%%%d: %s", i, pt))
	}
	buf(")")
	if f.HasRet {
		buf(fmt.Sprintf(" -> %s", f.RetType))
	}
	buf(" {\n")
	for _, block := range f.Blocks {
		buf(fmt.Sprintf("%s:\n", block.Label))
		for _, in := range block.Instrs {
			buf("  " + dumpInstr(in) + "\n")
		}
		if block.Term != nil {
			buf("  " + dumpInstr(*block.Term) + "\n")
		}
	}
	buf("}\n")
	return string(b)
}

func dumpInstr(in Instr) string {
	switch in.Op {
	case OpConstInt:
		return fmt.Sprintf("%%%d = const_int %d", in.Result, in.IntConst)
	case OpConstFP:
		return fmt.Sprintf("%%%d = const_fp %g", in.Result, in.FPConst)
	case OpConstBool:
		return fmt.Sprintf("%%%d = const_bool %t", in.Result, in.BoolConst)
	case OpAlloca:
		return fmt.Sprintf("slot%d = alloca %s", in.Slot, in.Type)
	case OpLoad:
		return fmt.Sprintf("%%%d = load slot%d", in.Result, in.Slot)
	case OpStore:
		return fmt.Sprintf("store slot%d, %%%d", in.Slot, in.Args[0])
	case OpTupleExtract:
		return fmt.Sprintf("%%%d = tuple_extract %%%d, %d", in.Result, in.Args[0], in.IntConst)
	case OpCall:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = fmt.Sprintf("%%%d", a)
		}
		return fmt.Sprintf("%%%d = call %s(%s)", in.Result, in.Callee, joinArgs(args))
	case OpBr:
		return fmt.Sprintf("br %s", in.Then.Label)
	case OpCondBr:
		return fmt.Sprintf("cond_br %%%d, %s, %s", in.Args[0], in.Then.Label, in.Else.Label)
	case OpRet:
		if in.HasValue {
			return fmt.Sprintf("ret %%%d", in.Args[0])
		}
		return "ret"
	default:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = fmt.Sprintf("%%%d", a)
		}
		return fmt.Sprintf("%%%d = %s %s", in.Result, in.Op, joinArgs(args))
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
