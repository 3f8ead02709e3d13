package llvm

import (
	"fmt"
	"strings"

	"github.com/seen-lang/seenc/internal/compiler/ir"
)

// rvvElementTypes are the element types the vectorised RVV intrinsics
// are emitted for (spec.md 4.I: "expose vectorised intrinsics for
// map/filter/reduce/scan/zip/merge; these appear as dedicated functions
// named by operation + element type").
var rvvElementTypes = []string{"i32", "i64", "double"}
var rvvOperations = []string{"map", "filter", "reduce", "scan", "zip", "merge"}

// Emitter renders one ir.Module as textual LLVM IR for a single Target.
type Emitter struct {
	target Target
	buf    strings.Builder

	// regTypes records the declared Type of every register defined so
	// far in the function currently being emitted. Store and GEP carry
	// no Type of their own (ir/instruction.go), so operand types for
	// those two ops are recovered by looking up the producing
	// instruction's Dest type here instead.
	regTypes map[uint32]ir.Type
	fn       *ir.Function
}

func NewEmitter(target Target) *Emitter {
	return &Emitter{target: target}
}

// Emit produces the full textual module (spec.md 4.I: "module header,
// string constants, function definitions with explicit basic-block
// labels").
func (e *Emitter) Emit(module *ir.Module) (string, error) {
	spec, err := e.target.resolve()
	if err != nil {
		return "", err
	}
	e.emitHeader(module, spec)
	e.emitStringTable(module)
	if e.target.Vector {
		e.emitRVVDeclarations()
	}
	for _, fn := range module.Functions {
		e.emitFunction(fn)
	}
	return e.buf.String(), nil
}

func (e *Emitter) emitHeader(module *ir.Module, spec Spec) {
	fmt.Fprintf(&e.buf, "; ModuleID = '%s'\n", module.Name)
	fmt.Fprintf(&e.buf, "target datalayout = \"%s\"\n", spec.DataLayout)
	fmt.Fprintf(&e.buf, "target triple = \"%s\"\n", spec.Triple)
	if spec.Features != "" {
		fmt.Fprintf(&e.buf, "; target-features = \"%s\"\n", spec.Features)
	}
	if spec.RiscVISA != "" {
		e.buf.WriteString("!llvm.module.flags = !{!0}\n")
		fmt.Fprintf(&e.buf, "!0 = !{i32 1, !\"riscv-isa\", !\"%s\"}\n", spec.RiscVISA)
	}
	e.buf.WriteString("\n")
}

func (e *Emitter) emitStringTable(module *ir.Module) {
	for i, s := range module.StringTable {
		escaped, length := escapeLLVMString(s)
		fmt.Fprintf(&e.buf, "@str.%d = private unnamed_addr constant [%d x i8] c\"%s\"\n", i, length, escaped)
	}
	if len(module.StringTable) > 0 {
		e.buf.WriteString("\n")
	}
}

// escapeLLVMString renders s as an LLVM string-constant body (each byte
// hex-escaped) plus a trailing NUL, returning the escaped text and the
// total byte length the array type must declare.
func escapeLLVMString(s string) (string, int) {
	var b strings.Builder
	bytes := []byte(s)
	for _, c := range bytes {
		fmt.Fprintf(&b, "\\%02X", c)
	}
	b.WriteString("\\00")
	return b.String(), len(bytes) + 1
}

func (e *Emitter) emitRVVDeclarations() {
	e.buf.WriteString("; RVV 1.0 vectorised intrinsics\n")
	for _, op := range rvvOperations {
		for _, t := range rvvElementTypes {
			fmt.Fprintf(&e.buf, "declare %s* @%s(%s*, i64)\n", t, rvvSymbol(op, t), t)
		}
	}
	e.buf.WriteString("\n")
}

// rvvSymbol names the RVV wrapper declared for op over element type t. Every
// operation is named "vector_<op>_<type>" except reduce, which spec.md 8
// scenario 6 names "vector_reduce_sum_<type>" since today's reduce always
// folds with addition; the other fold operators reduce is meant to grow
// into (min, max, product) would earn their own sibling symbols rather than
// overload this one's name.
func rvvSymbol(op, t string) string {
	if op == "reduce" {
		return fmt.Sprintf("vector_reduce_sum_%s", sanitizeTypeName(t))
	}
	return fmt.Sprintf("vector_%s_%s", op, sanitizeTypeName(t))
}

func sanitizeTypeName(t string) string {
	if t == "double" {
		return "f64"
	}
	return t
}

func (e *Emitter) emitFunction(fn *ir.Function) {
	e.fn = fn
	e.regTypes = map[uint32]ir.Type{}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", llvmType(p.Type), p.Name)
	}
	linkage := ""
	if fn.Visibility == ir.Private {
		linkage = "internal "
	}
	fmt.Fprintf(&e.buf, "define %s%s @%s(%s) {\n", linkage, llvmType(fn.ReturnType), fn.Name, strings.Join(params, ", "))
	for _, block := range fn.CFG.Blocks() {
		e.emitBlock(block)
	}
	e.buf.WriteString("}\n\n")
}

func (e *Emitter) emitBlock(block *ir.BasicBlock) {
	fmt.Fprintf(&e.buf, "%s:\n", block.Label)
	for _, instr := range block.Instructions {
		e.emitInstruction(instr)
		if instr.HasDest {
			e.regTypes[instr.Dest] = instr.Type
		}
	}
}

// operandType resolves the IR type of v within the function currently
// being emitted, consulting regTypes for registers and the function's
// local-variable table for named variables.
func (e *Emitter) operandType(v ir.Value) ir.Type {
	switch v.Kind {
	case ir.VInt:
		return ir.Integer()
	case ir.VFloat:
		return ir.Float()
	case ir.VBool:
		return ir.Boolean()
	case ir.VChar:
		return ir.Char()
	case ir.VString, ir.VStringConstant:
		return ir.StringT()
	case ir.VNull:
		return ir.VoidType()
	case ir.VRegister:
		if t, ok := e.regTypes[v.Register]; ok {
			return t
		}
	case ir.VVariable:
		// The only site lowering emits a VVariable operand is a
		// function parameter's initial spill-to-stack store
		// (internal/compiler/lowering/lower.go's lowerFunction); every
		// other binding addresses its slot by register, never by name.
		if e.fn != nil {
			for _, p := range e.fn.Params {
				if p.Name == v.String {
					return p.Type
				}
			}
		}
	}
	return ir.Integer()
}

func (e *Emitter) emitInstruction(instr ir.Instruction) {
	e.buf.WriteString("  ")
	switch instr.Op {
	case ir.OpConst:
		fmt.Fprintf(&e.buf, "%%r%d = add %s %s, 0\n", instr.Dest, llvmType(instr.Type), operand(instr.Operands[0]))
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpAnd, ir.OpOr:
		fmt.Fprintf(&e.buf, "%%r%d = %s %s %s, %s\n", instr.Dest, intMnemonic[instr.Op], llvmType(instr.Type),
			operand(instr.Operands[0]), operand(instr.Operands[1]))
	case ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv:
		fmt.Fprintf(&e.buf, "%%r%d = %s %s %s, %s\n", instr.Dest, floatMnemonic[instr.Op], llvmType(instr.Type),
			operand(instr.Operands[0]), operand(instr.Operands[1]))
	case ir.OpEq, ir.OpNeq, ir.OpLt, ir.OpLte, ir.OpGt, ir.OpGte:
		e.emitComparison(instr)
	case ir.OpNot:
		fmt.Fprintf(&e.buf, "%%r%d = xor i1 %s, true\n", instr.Dest, operand(instr.Operands[0]))
	case ir.OpNeg:
		if instr.Type.Kind == ir.KFloat {
			fmt.Fprintf(&e.buf, "%%r%d = fneg double %s\n", instr.Dest, operand(instr.Operands[0]))
		} else {
			fmt.Fprintf(&e.buf, "%%r%d = sub %s 0, %s\n", instr.Dest, llvmType(instr.Type), operand(instr.Operands[0]))
		}
	case ir.OpLoad:
		fmt.Fprintf(&e.buf, "%%r%d = load %s, %s* %s\n", instr.Dest, llvmType(instr.Type),
			llvmType(instr.Type), operand(instr.Operands[0]))
	case ir.OpStore:
		valType := e.operandType(instr.Operands[1])
		fmt.Fprintf(&e.buf, "store %s %s, %s* %s\n", llvmType(valType), operand(instr.Operands[1]),
			llvmType(valType), operand(instr.Operands[0]))
	case ir.OpAlloca:
		fmt.Fprintf(&e.buf, "%%r%d = alloca %s\n", instr.Dest, llvmType(*instr.Type.Elem))
	case ir.OpGEP:
		fmt.Fprintf(&e.buf, "%%r%d = getelementptr %s, %s* %s, i64 0, %s %s\n", instr.Dest, llvmType(instr.BaseType),
			llvmType(instr.BaseType), operand(instr.Operands[0]), llvmType(e.operandType(instr.Index)), operand(instr.Index))
	case ir.OpCall:
		e.emitCall(instr)
	case ir.OpBr:
		fmt.Fprintf(&e.buf, "br label %%%s\n", instr.Target)
	case ir.OpBrCond:
		fmt.Fprintf(&e.buf, "br i1 %s, label %%%s, label %%%s\n", operand(instr.Cond), instr.TrueTarget, instr.FalseTarget)
	case ir.OpRet:
		if instr.HasRetValue {
			fmt.Fprintf(&e.buf, "ret %s %s\n", llvmType(e.operandType(instr.RetValue)), operand(instr.RetValue))
		} else {
			e.buf.WriteString("ret void\n")
		}
	case ir.OpUnreachable:
		e.buf.WriteString("unreachable\n")
	case ir.OpPhi:
		e.emitPhi(instr)
	}
}

func (e *Emitter) emitComparison(instr ir.Instruction) {
	opType := e.operandType(instr.Operands[0])
	if opType.Kind == ir.KFloat {
		fmt.Fprintf(&e.buf, "%%r%d = fcmp %s %s %s, %s\n", instr.Dest, floatPredicate[instr.Op], llvmType(opType),
			operand(instr.Operands[0]), operand(instr.Operands[1]))
		return
	}
	fmt.Fprintf(&e.buf, "%%r%d = icmp %s %s %s, %s\n", instr.Dest, intPredicate[instr.Op], llvmType(opType),
		operand(instr.Operands[0]), operand(instr.Operands[1]))
}

func (e *Emitter) emitCall(instr ir.Instruction) {
	args := make([]string, len(instr.Args))
	for i, a := range instr.Args {
		args[i] = fmt.Sprintf("%s %s", llvmType(e.operandType(a)), operand(a))
	}
	if instr.HasDest {
		fmt.Fprintf(&e.buf, "%%r%d = call %s @%s(%s)\n", instr.Dest, llvmType(instr.Type), instr.Callee, strings.Join(args, ", "))
		return
	}
	fmt.Fprintf(&e.buf, "call %s @%s(%s)\n", llvmType(instr.Type), instr.Callee, strings.Join(args, ", "))
}

func (e *Emitter) emitPhi(instr ir.Instruction) {
	pairs := make([]string, len(instr.Incoming))
	for i, in := range instr.Incoming {
		pairs[i] = fmt.Sprintf("[ %s, %%%s ]", operand(in.Value), in.Block)
	}
	fmt.Fprintf(&e.buf, "%%r%d = phi %s %s\n", instr.Dest, llvmType(instr.Type), strings.Join(pairs, ", "))
}

func operand(v ir.Value) string {
	switch v.Kind {
	case ir.VInt:
		return fmt.Sprintf("%d", v.Int)
	case ir.VFloat:
		return fmt.Sprintf("%g", v.Float)
	case ir.VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ir.VChar:
		return fmt.Sprintf("%d", v.Char)
	case ir.VStringConstant:
		return fmt.Sprintf("getelementptr inbounds ([0 x i8], [0 x i8]* @str.%d, i64 0, i64 0)", v.StringConstID)
	case ir.VRegister:
		return fmt.Sprintf("%%r%d", v.Register)
	case ir.VVariable:
		return "%" + v.String
	case ir.VGlobalVariable:
		return "@" + v.String
	case ir.VFunction:
		return "@" + v.String
	case ir.VNull:
		return "null"
	case ir.VUndefined:
		return "undef"
	}
	return "undef"
}
