package ir

import "fmt"

// BasicBlock is a straight-line sequence of instructions ending in
// exactly one terminator (spec.md 3). Successors/predecessors are not
// stored here; they are derived by ControlFlowGraph from the
// terminator, so a block never falls out of sync with its own edges.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
}

// NewBlock returns an empty block; AddInstruction appends to it until a
// terminator is added, at which point the block is considered closed.
func NewBlock(label string) *BasicBlock {
	return &BasicBlock{Label: label}
}

// AddInstruction appends instr, which must not follow an existing
// terminator (lowering builds one block at a time and always finishes a
// block immediately after adding its terminator, so this is checked by
// Validate rather than enforced here).
func (b *BasicBlock) AddInstruction(instr Instruction) {
	b.Instructions = append(b.Instructions, instr)
}

// Terminator returns the block's terminating instruction, if the block
// is well-formed (spec.md 3's "exactly one terminator").
func (b *BasicBlock) Terminator() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return Instruction{}, false
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.IsTerminator() {
		return Instruction{}, false
	}
	return last, true
}

// Successors returns the labels this block branches to, derived purely
// from its terminator.
func (b *BasicBlock) Successors() []string {
	term, ok := b.Terminator()
	if !ok {
		return nil
	}
	switch term.Op {
	case OpBr:
		return []string{term.Target}
	case OpBrCond:
		return []string{term.TrueTarget, term.FalseTarget}
	default:
		return nil
	}
}

// Validate checks the block-local invariants of spec.md 3: exactly one
// terminator, and it is the last instruction.
func (b *BasicBlock) Validate() error {
	if len(b.Instructions) == 0 {
		return fmt.Errorf("block %q has no instructions", b.Label)
	}
	for i, instr := range b.Instructions {
		isLast := i == len(b.Instructions)-1
		if instr.IsTerminator() && !isLast {
			return fmt.Errorf("block %q has a terminator before its last instruction", b.Label)
		}
	}
	if _, ok := b.Terminator(); !ok {
		return fmt.Errorf("block %q does not end in a terminator", b.Label)
	}
	return nil
}
