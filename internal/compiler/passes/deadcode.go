package passes

import "github.com/seen-lang/seenc/internal/compiler/ir"

// EliminateUnreachableBlocks implements spec.md 4.G: "BFS from entry;
// blocks not reached are dropped; predecessor/successor lists are
// re-pruned." Successor/predecessor lists in this IR are derived live
// from each block's terminator (see ir.ControlFlowGraph), so removing
// the block is the only re-pruning needed. Returns the number of blocks
// removed.
func EliminateUnreachableBlocks(fn *ir.Function) int {
	if fn.CFG.Entry == "" {
		return 0
	}
	reachable := fn.CFG.ReachableFrom(fn.CFG.Entry)
	removed := 0
	for _, b := range fn.CFG.Blocks() {
		if !reachable[b.Label] {
			fn.CFG.RemoveBlock(b.Label)
			removed++
		}
	}
	if removed > 0 {
		prunePhiIncoming(fn)
	}
	return removed
}

// prunePhiIncoming drops phi incoming entries whose source block no
// longer exists, keeping every phi's incoming set equal to its block's
// (possibly shrunk) predecessor set.
func prunePhiIncoming(fn *ir.Function) {
	for _, block := range fn.CFG.Blocks() {
		for i, instr := range block.Instructions {
			if instr.Op != ir.OpPhi {
				continue
			}
			kept := instr.Incoming[:0:0]
			for _, in := range instr.Incoming {
				if _, ok := fn.CFG.Block(in.Block); ok {
					kept = append(kept, in)
				}
			}
			instr.Incoming = kept
			block.Instructions[i] = instr
		}
	}
}

// EliminateDeadStores implements spec.md 4.G: "an instruction whose
// destination register is not live-after and whose opcode is
// side-effect-free ... is removed. Iterates until fixed point." Returns
// the number of instructions removed.
func EliminateDeadStores(fn *ir.Function) int {
	removedTotal := 0
	for {
		lv := AnalyzeLiveness(fn)
		removedThisPass := 0
		for _, block := range fn.CFG.Blocks() {
			kept := block.Instructions[:0:0]
			for i, instr := range block.Instructions {
				dest, hasDest := instr.Defines()
				if hasDest && instr.IsSideEffectFree() && !lv.IsLiveAfter(block, i, dest) {
					removedThisPass++
					continue
				}
				kept = append(kept, instr)
			}
			block.Instructions = kept
		}
		removedTotal += removedThisPass
		if removedThisPass == 0 {
			break
		}
	}
	return removedTotal
}

// RunDeadCodeElimination applies unreachable-block elimination followed
// by dead-store elimination to fn, mirroring
// eliminate_dead_code_in_function's two-phase shape.
func RunDeadCodeElimination(fn *ir.Function) {
	EliminateUnreachableBlocks(fn)
	EliminateDeadStores(fn)
}

// RunModule applies the full optimization pipeline (spec.md 4.G/4.J) to
// every function in module: constant folding first so folded branches
// open up more unreachable blocks and dead stores for the later passes
// to remove.
func RunModule(module *ir.Module) {
	for _, fn := range module.Functions {
		FoldConstants(fn)
		RunDeadCodeElimination(fn)
	}
}
