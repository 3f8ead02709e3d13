package ir

// Op enumerates the typed three-address operations of spec.md 3's
// Instruction variant: arithmetic, comparison, logical, memory, and
// control-flow ops.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpNot
	OpNeg
	OpLoad
	OpStore
	OpAlloca
	OpGEP // getelementptr: struct-field/array-index address computation
	OpCall
	OpBr
	OpBrCond
	OpRet
	OpPhi
	OpUnreachable
	OpConst // materializes a literal operand into Dest; emitted by constant folding
)

// PhiIncoming is one (value, predecessor label) pair of a phi
// instruction, matching spec.md 3's invariant that "phi sources exactly
// match the block's predecessor set".
type PhiIncoming struct {
	Value Value
	Block string
}

// Instruction is one typed three-address operation. Dest is the
// register it defines (spec.md 3: "each register is defined exactly
// once within a function"); it is the zero Value for side-effect-only
// ops (Store, Br, BrCond, Ret, Unreachable).
type Instruction struct {
	Op       Op
	Dest     uint32 // valid iff HasDest
	HasDest  bool
	Type     Type
	Operands []Value

	// OpCall
	Callee string
	Args   []Value

	// OpBr
	Target string

	// OpBrCond
	Cond        Value
	TrueTarget  string
	FalseTarget string

	// OpRet
	RetValue    Value
	HasRetValue bool

	// OpPhi
	Incoming []PhiIncoming

	// OpGEP
	BaseType Type
	Index    Value

	// Volatile loads survive dead-store elimination even when their
	// destination is unused (spec.md 4.G: "side-effect-free (not ...
	// volatile Load)").
	Volatile bool
}

// IsTerminator reports whether this instruction ends a basic block
// (spec.md 3: "every block ends in exactly one terminator").
func (i Instruction) IsTerminator() bool {
	switch i.Op {
	case OpBr, OpBrCond, OpRet, OpUnreachable:
		return true
	}
	return false
}

// IsSideEffectFree reports whether removing this instruction (when its
// destination is dead) changes no observable behavior, per spec.md 4.G's
// dead-store-elimination eligibility rule.
func (i Instruction) IsSideEffectFree() bool {
	switch i.Op {
	case OpStore, OpCall, OpAlloca:
		return false
	case OpLoad:
		return !i.Volatile
	}
	return !i.IsTerminator()
}

// Uses returns every register this instruction reads, used by the
// liveness pass's backward dataflow walk.
func (i Instruction) Uses() []uint32 {
	var regs []uint32
	collect := func(v Value) {
		if v.Kind == VRegister {
			regs = append(regs, v.Register)
		}
	}
	for _, v := range i.Operands {
		collect(v)
	}
	for _, v := range i.Args {
		collect(v)
	}
	if i.Op == OpBrCond {
		collect(i.Cond)
	}
	if i.Op == OpRet && i.HasRetValue {
		collect(i.RetValue)
	}
	if i.Op == OpGEP {
		collect(i.Index)
	}
	if i.Op == OpPhi {
		for _, in := range i.Incoming {
			collect(in.Value)
		}
	}
	return regs
}

// Defines returns the register this instruction defines, if any.
func (i Instruction) Defines() (uint32, bool) {
	return i.Dest, i.HasDest
}

func binary(op Op, t Type, dest uint32, a, b Value) Instruction {
	return Instruction{Op: op, Dest: dest, HasDest: true, Type: t, Operands: []Value{a, b}}
}

func Add(dest uint32, t Type, a, b Value) Instruction  { return binary(OpAdd, t, dest, a, b) }
func Sub(dest uint32, t Type, a, b Value) Instruction  { return binary(OpSub, t, dest, a, b) }
func Mul(dest uint32, t Type, a, b Value) Instruction  { return binary(OpMul, t, dest, a, b) }
func Div(dest uint32, t Type, a, b Value) Instruction  { return binary(OpDiv, t, dest, a, b) }
func Mod(dest uint32, t Type, a, b Value) Instruction  { return binary(OpMod, t, dest, a, b) }
func FAdd(dest uint32, t Type, a, b Value) Instruction { return binary(OpFAdd, t, dest, a, b) }
func FSub(dest uint32, t Type, a, b Value) Instruction { return binary(OpFSub, t, dest, a, b) }
func FMul(dest uint32, t Type, a, b Value) Instruction { return binary(OpFMul, t, dest, a, b) }
func FDiv(dest uint32, t Type, a, b Value) Instruction { return binary(OpFDiv, t, dest, a, b) }
func CmpEq(dest uint32, a, b Value) Instruction        { return binary(OpEq, Boolean(), dest, a, b) }
func CmpNeq(dest uint32, a, b Value) Instruction       { return binary(OpNeq, Boolean(), dest, a, b) }
func CmpLt(dest uint32, a, b Value) Instruction        { return binary(OpLt, Boolean(), dest, a, b) }
func CmpLte(dest uint32, a, b Value) Instruction       { return binary(OpLte, Boolean(), dest, a, b) }
func CmpGt(dest uint32, a, b Value) Instruction        { return binary(OpGt, Boolean(), dest, a, b) }
func CmpGte(dest uint32, a, b Value) Instruction       { return binary(OpGte, Boolean(), dest, a, b) }
func LogicalAnd(dest uint32, a, b Value) Instruction   { return binary(OpAnd, Boolean(), dest, a, b) }
func LogicalOr(dest uint32, a, b Value) Instruction    { return binary(OpOr, Boolean(), dest, a, b) }

func LogicalNot(dest uint32, a Value) Instruction {
	return Instruction{Op: OpNot, Dest: dest, HasDest: true, Type: Boolean(), Operands: []Value{a}}
}

func Neg(dest uint32, t Type, a Value) Instruction {
	return Instruction{Op: OpNeg, Dest: dest, HasDest: true, Type: t, Operands: []Value{a}}
}

func Load(dest uint32, t Type, addr Value, volatile bool) Instruction {
	return Instruction{Op: OpLoad, Dest: dest, HasDest: true, Type: t, Operands: []Value{addr}, Volatile: volatile}
}

func Store(addr, val Value) Instruction {
	return Instruction{Op: OpStore, Operands: []Value{addr, val}}
}

func Alloca(dest uint32, t Type) Instruction {
	return Instruction{Op: OpAlloca, Dest: dest, HasDest: true, Type: Pointer(t)}
}

func GEP(dest uint32, baseType Type, base, index Value) Instruction {
	return Instruction{Op: OpGEP, Dest: dest, HasDest: true, Type: Pointer(baseType), BaseType: baseType, Operands: []Value{base}, Index: index}
}

func Call(dest uint32, hasDest bool, t Type, callee string, args []Value) Instruction {
	return Instruction{Op: OpCall, Dest: dest, HasDest: hasDest, Type: t, Callee: callee, Args: args}
}

func Br(target string) Instruction {
	return Instruction{Op: OpBr, Target: target}
}

func BrCond(cond Value, trueTarget, falseTarget string) Instruction {
	return Instruction{Op: OpBrCond, Cond: cond, TrueTarget: trueTarget, FalseTarget: falseTarget}
}

func Ret(v Value) Instruction {
	return Instruction{Op: OpRet, RetValue: v, HasRetValue: true}
}

func RetVoid() Instruction {
	return Instruction{Op: OpRet}
}

func Unreachable() Instruction {
	return Instruction{Op: OpUnreachable}
}

func Phi(dest uint32, t Type, incoming []PhiIncoming) Instruction {
	return Instruction{Op: OpPhi, Dest: dest, HasDest: true, Type: t, Incoming: incoming}
}

// Const materializes a compile-time-known literal into dest, replacing
// an arithmetic/compare instruction constant folding has already
// evaluated (spec.md 4.G).
func Const(dest uint32, t Type, v Value) Instruction {
	return Instruction{Op: OpConst, Dest: dest, HasDest: true, Type: t, Operands: []Value{v}}
}
