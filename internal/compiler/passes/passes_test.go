package passes

import (
	"testing"

	"github.com/seen-lang/seenc/internal/compiler/ir"
)

func TestEliminateUnreachableBlocks(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.VoidType())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Br("live"))
	fn.AddBlock(entry)

	live := ir.NewBlock("live")
	live.AddInstruction(ir.RetVoid())
	fn.AddBlock(live)

	dead := ir.NewBlock("dead")
	dead.AddInstruction(ir.RetVoid())
	fn.AddBlock(dead)

	removed := EliminateUnreachableBlocks(fn)
	if removed != 1 {
		t.Fatalf("expected 1 block removed, got %d", removed)
	}
	if _, ok := fn.CFG.Block("dead"); ok {
		t.Error("expected dead block to be removed")
	}
	if _, ok := fn.CFG.Block("live"); !ok {
		t.Error("expected live block to remain")
	}
}

func TestEliminateDeadStores(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.Integer())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Add(0, ir.Integer(), ir.Int(1), ir.Int(2))) // dead: r0 unused
	entry.AddInstruction(ir.Add(1, ir.Integer(), ir.Int(3), ir.Int(4))) // live: returned
	entry.AddInstruction(ir.Ret(ir.Register(1)))
	fn.RegisterCount = 2
	fn.AddBlock(entry)

	removed := EliminateDeadStores(fn)
	if removed != 1 {
		t.Fatalf("expected 1 dead store removed, got %d", removed)
	}
	if len(entry.Instructions) != 2 {
		t.Fatalf("expected 2 instructions remaining, got %d", len(entry.Instructions))
	}
	dest, ok := entry.Instructions[0].Defines()
	if !ok || dest != 1 {
		t.Errorf("expected surviving instruction to define r1, got %v (ok=%v)", dest, ok)
	}
}

func TestEliminateDeadStoresKeepsSideEffects(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.VoidType())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Call(0, true, ir.Integer(), "some_func", nil)) // unused result, but has side effects
	entry.AddInstruction(ir.RetVoid())
	fn.RegisterCount = 1
	fn.AddBlock(entry)

	removed := EliminateDeadStores(fn)
	if removed != 0 {
		t.Fatalf("expected calls to survive DSE even with unused result, removed %d", removed)
	}
	if len(entry.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(entry.Instructions))
	}
}

func TestAnalyzeLivenessAcrossBranch(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.Integer())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Add(0, ir.Integer(), ir.Int(1), ir.Int(2)))
	entry.AddInstruction(ir.BrCond(ir.Bool(true), "a", "b"))
	a := ir.NewBlock("a")
	a.AddInstruction(ir.Ret(ir.Register(0)))
	b := ir.NewBlock("b")
	b.AddInstruction(ir.RetVoid())
	fn.RegisterCount = 1
	fn.AddBlock(entry)
	fn.AddBlock(a)
	fn.AddBlock(b)

	lv := AnalyzeLiveness(fn)
	if !lv.LiveOut["entry"][0] {
		t.Error("expected r0 to be live-out of entry (used by block a)")
	}
	if lv.IsLiveAfter(b, 0, 0) {
		t.Error("did not expect r0 to be live after b's terminator, b never uses it")
	}
}

func TestFoldConstantsArithmetic(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.Integer())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Add(0, ir.Integer(), ir.Int(2), ir.Int(3)))
	entry.AddInstruction(ir.Ret(ir.Register(0)))
	fn.RegisterCount = 1
	fn.AddBlock(entry)

	folded := FoldConstants(fn)
	if folded != 1 {
		t.Fatalf("expected 1 instruction folded, got %d", folded)
	}
	if entry.Instructions[0].Op != ir.OpConst {
		t.Fatalf("expected folded instruction to be OpConst, got %v", entry.Instructions[0].Op)
	}
	v := entry.Instructions[0].Operands[0]
	if v.Kind != ir.VInt || v.Int != 5 {
		t.Errorf("expected folded value 5, got %+v", v)
	}
}

func TestFoldConstantsLeavesNonConstantOperandsAlone(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Param{{Name: "x", Type: ir.Integer()}}, ir.Integer())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Add(0, ir.Integer(), ir.Variable("x"), ir.Int(1)))
	entry.AddInstruction(ir.Ret(ir.Register(0)))
	fn.RegisterCount = 1
	fn.AddBlock(entry)

	if folded := FoldConstants(fn); folded != 0 {
		t.Fatalf("expected no folding when an operand is not constant, folded %d", folded)
	}
	if entry.Instructions[0].Op != ir.OpAdd {
		t.Error("expected the original Add instruction to survive unchanged")
	}
}

func TestFoldConstantsComparison(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.Boolean())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.CmpLt(0, ir.Int(1), ir.Int(2)))
	entry.AddInstruction(ir.Ret(ir.Register(0)))
	fn.RegisterCount = 1
	fn.AddBlock(entry)

	FoldConstants(fn)
	v := entry.Instructions[0].Operands[0]
	if v.Kind != ir.VBool || !v.Bool {
		t.Errorf("expected 1 < 2 to fold to true, got %+v", v)
	}
}

func TestRunDeadCodeEliminationCombinesBothPasses(t *testing.T) {
	fn := ir.NewFunction("f", nil, ir.Integer())
	entry := ir.NewBlock("entry")
	entry.AddInstruction(ir.Add(0, ir.Integer(), ir.Int(1), ir.Int(1))) // dead
	entry.AddInstruction(ir.Br("live"))
	fn.AddBlock(entry)

	live := ir.NewBlock("live")
	live.AddInstruction(ir.Ret(ir.Int(0)))
	fn.AddBlock(live)

	dead := ir.NewBlock("dead")
	dead.AddInstruction(ir.RetVoid())
	fn.RegisterCount = 1
	fn.AddBlock(dead)

	RunDeadCodeElimination(fn)

	if _, ok := fn.CFG.Block("dead"); ok {
		t.Error("expected unreachable block to be removed")
	}
	if len(entry.Instructions) != 1 {
		t.Fatalf("expected the dead store to be removed, leaving only the branch, got %d instructions", len(entry.Instructions))
	}
}
