package passes

import "github.com/seen-lang/seenc/internal/compiler/ir"

// FoldConstants implements spec.md 4.G: "replace pure arithmetic/compare
// over literal operands with the literal result." A folded instruction
// becomes an ir.Const materializing the computed literal into the same
// Dest register, so every existing reference to that register (other
// instructions' operands, phi incoming values) keeps working unchanged.
// Returns the number of instructions folded.
func FoldConstants(fn *ir.Function) int {
	folded := 0
	for _, block := range fn.CFG.Blocks() {
		for i, instr := range block.Instructions {
			v, ok := evalConstant(instr)
			if !ok {
				continue
			}
			block.Instructions[i] = ir.Const(instr.Dest, instr.Type, v)
			folded++
		}
	}
	return folded
}

// evalConstant evaluates instr at compile time if every operand it
// reads is itself a literal constant, returning the folded Value.
func evalConstant(instr ir.Instruction) (ir.Value, bool) {
	if !instr.HasDest || len(instr.Operands) != 2 {
		return ir.Value{}, false
	}
	a, b := instr.Operands[0], instr.Operands[1]
	if !a.IsConstant() || !b.IsConstant() {
		return ir.Value{}, false
	}

	switch instr.Op {
	case ir.OpAdd:
		return foldIntOrFloat(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	case ir.OpSub:
		return foldIntOrFloat(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	case ir.OpMul:
		return foldIntOrFloat(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
	case ir.OpDiv:
		if (b.Kind == ir.VInt && b.Int == 0) || (b.Kind == ir.VFloat && b.Float == 0) {
			return ir.Value{}, false // division by zero folds at runtime, not compile time
		}
		return foldIntOrFloat(a, b, func(x, y int64) int64 { return x / y }, func(x, y float64) float64 { return x / y })
	case ir.OpMod:
		if a.Kind != ir.VInt || b.Kind != ir.VInt || b.Int == 0 {
			return ir.Value{}, false
		}
		return ir.Int(a.Int % b.Int), true
	case ir.OpEq:
		return ir.Bool(valuesEqual(a, b)), true
	case ir.OpNeq:
		return ir.Bool(!valuesEqual(a, b)), true
	case ir.OpLt:
		return foldCompare(a, b, func(c int) bool { return c < 0 })
	case ir.OpLte:
		return foldCompare(a, b, func(c int) bool { return c <= 0 })
	case ir.OpGt:
		return foldCompare(a, b, func(c int) bool { return c > 0 })
	case ir.OpGte:
		return foldCompare(a, b, func(c int) bool { return c >= 0 })
	case ir.OpAnd:
		if a.Kind != ir.VBool || b.Kind != ir.VBool {
			return ir.Value{}, false
		}
		return ir.Bool(a.Bool && b.Bool), true
	case ir.OpOr:
		if a.Kind != ir.VBool || b.Kind != ir.VBool {
			return ir.Value{}, false
		}
		return ir.Bool(a.Bool || b.Bool), true
	}
	return ir.Value{}, false
}

func asFloat(v ir.Value) (float64, bool) {
	switch v.Kind {
	case ir.VInt:
		return float64(v.Int), true
	case ir.VFloat:
		return v.Float, true
	}
	return 0, false
}

func foldIntOrFloat(a, b ir.Value, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) (ir.Value, bool) {
	if a.Kind == ir.VInt && b.Kind == ir.VInt {
		return ir.Int(intOp(a.Int, b.Int)), true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return ir.Value{}, false
	}
	return ir.FloatVal(floatOp(af, bf)), true
}

func foldCompare(a, b ir.Value, pred func(cmp int) bool) (ir.Value, bool) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return ir.Value{}, false
	}
	switch {
	case af < bf:
		return ir.Bool(pred(-1)), true
	case af > bf:
		return ir.Bool(pred(1)), true
	default:
		return ir.Bool(pred(0)), true
	}
}

func valuesEqual(a, b ir.Value) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ir.VBool:
		return a.Bool == b.Bool
	case ir.VChar:
		return a.Char == b.Char
	case ir.VString:
		return a.String == b.String
	case ir.VStringConstant:
		return a.StringConstID == b.StringConstID
	case ir.VNull:
		return true
	}
	return false
}
