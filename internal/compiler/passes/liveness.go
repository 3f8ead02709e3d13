// Package passes implements spec.md 4.G's control-flow and data-flow
// optimizations over internal/compiler/ir: liveness analysis, dead store
// elimination, unreachable-block elimination, and constant folding.
// Grounded on original_source/compiler_seen/src/optimizations/dead_code_elimination.rs,
// whose eliminate_dead_code_in_function couples unreachable-block removal with
// a liveness-driven dead-store sweep the same way RunDeadCodeElimination does here.
package passes

import "github.com/seen-lang/seenc/internal/compiler/ir"

// Liveness holds, for every block in a function, the set of registers
// live on entry to and live on exit from that block (spec.md 4.G: "for
// each instruction produces the live-out set").
type Liveness struct {
	LiveIn  map[string]map[uint32]bool
	LiveOut map[string]map[uint32]bool
}

// IsLiveAfter reports whether reg is live immediately after instruction
// index instrIdx within block, the predicate dead-store elimination
// consults before removing a definition.
func (lv *Liveness) IsLiveAfter(block *ir.BasicBlock, instrIdx int, reg uint32) bool {
	live := map[uint32]bool{}
	for r := range lv.LiveOut[block.Label] {
		live[r] = true
	}
	for i := len(block.Instructions) - 1; i > instrIdx; i-- {
		instr := block.Instructions[i]
		if dest, ok := instr.Defines(); ok {
			delete(live, dest)
		}
		for _, u := range instr.Uses() {
			live[u] = true
		}
	}
	return live[reg]
}

// AnalyzeLiveness runs the standard backward worklist dataflow described
// by spec.md 4.G, converging in at most |blocks|*|registers| iterations:
// each block's live-in set is its uses plus (live-out minus its defs),
// and live-out is the union of successors' live-in sets.
func AnalyzeLiveness(fn *ir.Function) *Liveness {
	blocks := fn.CFG.Blocks()
	liveIn := make(map[string]map[uint32]bool, len(blocks))
	liveOut := make(map[string]map[uint32]bool, len(blocks))
	for _, b := range blocks {
		liveIn[b.Label] = map[uint32]bool{}
		liveOut[b.Label] = map[uint32]bool{}
	}

	maxIterations := len(blocks)*int(fn.RegisterCount) + 1
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i := len(blocks) - 1; i >= 0; i-- {
			b := blocks[i]
			out := map[uint32]bool{}
			for _, succ := range fn.CFG.Successors(b.Label) {
				for r := range liveIn[succ] {
					out[r] = true
				}
			}

			in := map[uint32]bool{}
			defined := map[uint32]bool{}
			for j := len(b.Instructions) - 1; j >= 0; j-- {
				instr := b.Instructions[j]
				if dest, ok := instr.Defines(); ok {
					defined[dest] = true
				}
			}
			for r := range out {
				if !defined[r] {
					in[r] = true
				}
			}
			for _, instr := range b.Instructions {
				for _, u := range instr.Uses() {
					in[u] = true
				}
			}

			if !equalSets(in, liveIn[b.Label]) || !equalSets(out, liveOut[b.Label]) {
				changed = true
			}
			liveIn[b.Label] = in
			liveOut[b.Label] = out
		}
		if !changed {
			break
		}
	}

	return &Liveness{LiveIn: liveIn, LiveOut: liveOut}
}

func equalSets(a, b map[uint32]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
