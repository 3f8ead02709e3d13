package ir

import "fmt"

// ControlFlowGraph is the set of basic blocks belonging to one
// function, with successor/predecessor lists derivable from each
// block's terminator (spec.md 3). Blocks are kept in an insertion-order
// slice plus a name index so textual emission is deterministic.
type ControlFlowGraph struct {
	Entry  string
	order  []string
	blocks map[string]*BasicBlock
}

func NewCFG() *ControlFlowGraph {
	return &ControlFlowGraph{blocks: map[string]*BasicBlock{}}
}

// AddBlock appends block to the graph. The first block added becomes
// Entry.
func (g *ControlFlowGraph) AddBlock(block *BasicBlock) {
	if g.blocks == nil {
		g.blocks = map[string]*BasicBlock{}
	}
	if _, exists := g.blocks[block.Label]; !exists {
		g.order = append(g.order, block.Label)
	}
	g.blocks[block.Label] = block
	if g.Entry == "" {
		g.Entry = block.Label
	}
}

func (g *ControlFlowGraph) Block(label string) (*BasicBlock, bool) {
	b, ok := g.blocks[label]
	return b, ok
}

// RemoveBlock deletes a block by label, used by unreachable-block
// elimination. It is a no-op if the label was already absent.
func (g *ControlFlowGraph) RemoveBlock(label string) {
	if _, ok := g.blocks[label]; !ok {
		return
	}
	delete(g.blocks, label)
	for i, l := range g.order {
		if l == label {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Blocks returns every block in insertion order.
func (g *ControlFlowGraph) Blocks() []*BasicBlock {
	out := make([]*BasicBlock, 0, len(g.order))
	for _, l := range g.order {
		out = append(out, g.blocks[l])
	}
	return out
}

// Successors returns the labels block `label` branches to.
func (g *ControlFlowGraph) Successors(label string) []string {
	b, ok := g.blocks[label]
	if !ok {
		return nil
	}
	return b.Successors()
}

// Predecessors returns every block with an edge into `label`, computed
// fresh from the current terminators rather than cached, so it is never
// stale after a pass rewrites branches.
func (g *ControlFlowGraph) Predecessors(label string) []string {
	var preds []string
	for _, l := range g.order {
		for _, succ := range g.blocks[l].Successors() {
			if succ == label {
				preds = append(preds, l)
				break
			}
		}
	}
	return preds
}

// ReachableFrom runs a BFS from start and returns the set of reachable
// block labels, the shape spec.md 4.G's unreachable-block elimination
// and 9's dead-code-elimination notes both describe ("BFS from entry").
func (g *ControlFlowGraph) ReachableFrom(start string) map[string]bool {
	visited := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		queue = append(queue, g.Successors(cur)...)
	}
	return visited
}

// Validate checks every cross-block invariant of spec.md 3: every block
// is individually well-formed, every branch target exists in the same
// function, and every phi's incoming set exactly matches the block's
// predecessor set.
func (g *ControlFlowGraph) Validate() error {
	for _, label := range g.order {
		block := g.blocks[label]
		if err := block.Validate(); err != nil {
			return err
		}
		for _, succ := range block.Successors() {
			if _, ok := g.blocks[succ]; !ok {
				return fmt.Errorf("block %q branches to undefined label %q", label, succ)
			}
		}
		if err := g.validatePhis(block); err != nil {
			return err
		}
	}
	return nil
}

func (g *ControlFlowGraph) validatePhis(block *BasicBlock) error {
	preds := g.Predecessors(block.Label)
	predSet := map[string]bool{}
	for _, p := range preds {
		predSet[p] = true
	}
	for _, instr := range block.Instructions {
		if instr.Op != OpPhi {
			continue
		}
		if len(instr.Incoming) != len(predSet) {
			return fmt.Errorf("phi in block %q has %d incoming values, block has %d predecessors",
				block.Label, len(instr.Incoming), len(predSet))
		}
		seen := map[string]bool{}
		for _, in := range instr.Incoming {
			if !predSet[in.Block] {
				return fmt.Errorf("phi in block %q names %q, which is not a predecessor", block.Label, in.Block)
			}
			seen[in.Block] = true
		}
		for p := range predSet {
			if !seen[p] {
				return fmt.Errorf("phi in block %q is missing an incoming value from predecessor %q", block.Label, p)
			}
		}
	}
	return nil
}
