package llvm

import "github.com/seen-lang/seenc/internal/compiler/ir"

// intMnemonic and floatMnemonic map an ir.Op to the LLVM instruction
// keyword used on integer or floating-point operands respectively,
// grounded on original_source/seen_ir/src/llvm_mapping.rs's
// map_binary_operator (build_int_add vs build_float_add, and so on).
var intMnemonic = map[ir.Op]string{
	ir.OpAdd: "add",
	ir.OpSub: "sub",
	ir.OpMul: "mul",
	ir.OpDiv: "sdiv",
	ir.OpMod: "srem",
	ir.OpAnd: "and",
	ir.OpOr:  "or",
}

var floatMnemonic = map[ir.Op]string{
	ir.OpFAdd: "fadd",
	ir.OpFSub: "fsub",
	ir.OpFMul: "fmul",
	ir.OpFDiv: "fdiv",
}

// intPredicate/floatPredicate map a comparison op to LLVM's icmp/fcmp
// condition codes, mirroring llvm_mapping.rs's IntPredicate::SLT-style
// choices (signed comparisons; Seen's Int is always signed) and its
// ordered (O-prefixed) float predicates.
var intPredicate = map[ir.Op]string{
	ir.OpEq:  "eq",
	ir.OpNeq: "ne",
	ir.OpLt:  "slt",
	ir.OpLte: "sle",
	ir.OpGt:  "sgt",
	ir.OpGte: "sge",
}

var floatPredicate = map[ir.Op]string{
	ir.OpEq:  "oeq",
	ir.OpNeq: "one",
	ir.OpLt:  "olt",
	ir.OpLte: "ole",
	ir.OpGt:  "ogt",
	ir.OpGte: "oge",
}

