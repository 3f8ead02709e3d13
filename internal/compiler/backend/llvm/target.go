// Package llvm implements spec.md 4.I: emitting textual LLVM IR from an
// internal/compiler/ir.Module. Only the textual .ll is produced; running
// llc/clang over it is left to an out-of-core process runner (spec.md
// 4.I: "invoking the assembler/linker is delegated to an out-of-core
// process runner"), the same split original_source/compiler_bootstrap's
// seen_cli/src/commands/riscv.rs draws between generating IR and
// shelling out to a toolchain.
package llvm

import "fmt"

// Target names one of spec.md 4.I's supported triples plus, for
// RISC-V, whether the vector extension is enabled.
type Target struct {
	Triple string
	Vector bool // RVV 1.0, RISC-V only
}

// Spec resolves t's target triple, datalayout, and target-features
// string (spec.md 4.I's selection table).
type Spec struct {
	Triple     string
	DataLayout string
	Features   string
	RiscVISA   string // module flag value, empty for non-RISC-V targets
}

func (t Target) resolve() (Spec, error) {
	switch t.Triple {
	case "riscv64-unknown-linux-gnu":
		features := "+m,+a,+f,+d,+c"
		isa := "rv64imafdc"
		if t.Vector {
			features += ",+v,+zvl128b"
			isa = "rv64imafdcv"
		}
		return Spec{
			Triple:     t.Triple,
			DataLayout: "e-m:e-p:64:64-i64:64-i128:128-n64-S128",
			Features:   features,
			RiscVISA:   isa,
		}, nil
	case "riscv32-unknown-linux-gnu":
		features := "+m,+a,+f,+d,+c"
		isa := "rv32imafdc"
		if t.Vector {
			features += ",+v,+zvl128b"
			isa = "rv32imafdcv"
		}
		return Spec{
			Triple:     t.Triple,
			DataLayout: "e-m:e-p:32:32-i64:64-n32-S128",
			Features:   features,
			RiscVISA:   isa,
		}, nil
	case "x86_64-unknown-linux-gnu":
		return Spec{
			Triple:     t.Triple,
			DataLayout: "e-m:e-i64:64-f80:128-n8:16:32:64-S128",
		}, nil
	case "wasm32-unknown-unknown":
		return Spec{
			Triple:     t.Triple,
			DataLayout: "e-m:e-p:32:32-i64:64-n32:64-S128",
		}, nil
	}
	return Spec{}, fmt.Errorf("llvm: unsupported target triple %q", t.Triple)
}
