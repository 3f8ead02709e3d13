package ir

import "testing"

func TestTypeSizeBytes(t *testing.T) {
	if Integer().SizeBytes() != 8 {
		t.Errorf("Integer size = %d, want 8", Integer().SizeBytes())
	}
	if Boolean().SizeBytes() != 1 {
		t.Errorf("Boolean size = %d, want 1", Boolean().SizeBytes())
	}
	s := Struct("Point", []StructFieldShape{{Name: "X", Type: Integer()}, {Name: "Y", Type: Integer()}})
	if s.SizeBytes() != 16 {
		t.Errorf("Point size = %d, want 16", s.SizeBytes())
	}
}

func TestTypeIsAssignableFrom(t *testing.T) {
	if !Float().IsAssignableFrom(Integer()) {
		t.Error("expected Float to accept Integer (numeric promotion)")
	}
	if Integer().IsAssignableFrom(Float()) {
		t.Error("did not expect Integer to accept Float")
	}
	opt := Optional(Integer())
	if !opt.IsAssignableFrom(Integer()) {
		t.Error("expected Integer? to accept Integer")
	}
}

func TestValueIsConstant(t *testing.T) {
	if !Int(42).IsConstant() {
		t.Error("expected Int to be constant")
	}
	if Variable("x").IsConstant() {
		t.Error("did not expect Variable to be constant")
	}
	if !Variable("x").IsVariable() {
		t.Error("expected Variable to be a variable")
	}
}

func buildReturningFunction() *Function {
	f := NewFunction("f", nil, Integer())
	entry := NewBlock("entry")
	entry.AddInstruction(Ret(Int(1)))
	f.AddBlock(entry)
	return f
}

func TestFunctionValidate_WellFormed(t *testing.T) {
	f := buildReturningFunction()
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestFunctionValidate_MissingTerminator(t *testing.T) {
	f := NewFunction("f", nil, Integer())
	entry := NewBlock("entry")
	entry.AddInstruction(Add(0, Integer(), Int(1), Int(2)))
	f.AddBlock(entry)
	if err := f.Validate(); err == nil {
		t.Fatal("expected a missing-terminator error")
	}
}

func TestFunctionValidate_DoubleDefinition(t *testing.T) {
	f := NewFunction("f", nil, Integer())
	entry := NewBlock("entry")
	entry.AddInstruction(Add(0, Integer(), Int(1), Int(2)))
	entry.AddInstruction(Add(0, Integer(), Int(3), Int(4)))
	entry.AddInstruction(Ret(Register(0)))
	f.AddBlock(entry)
	err := f.Validate()
	if err == nil {
		t.Fatal("expected a double-definition error")
	}
	if _, ok := err.(*DoubleDefinitionError); !ok {
		t.Fatalf("expected *DoubleDefinitionError, got %T", err)
	}
}

func TestCFGBranchTargetMustExist(t *testing.T) {
	f := NewFunction("f", nil, VoidType())
	entry := NewBlock("entry")
	entry.AddInstruction(Br("missing"))
	f.AddBlock(entry)
	if err := f.Validate(); err == nil {
		t.Fatal("expected an unknown-branch-target error")
	}
}

func TestCFGPhiMustMatchPredecessors(t *testing.T) {
	f := NewFunction("f", nil, Integer())
	entry := NewBlock("entry")
	entry.AddInstruction(BrCond(Bool(true), "a", "b"))
	a := NewBlock("a")
	a.AddInstruction(Br("join"))
	b := NewBlock("b")
	b.AddInstruction(Br("join"))
	join := NewBlock("join")
	join.AddInstruction(Phi(2, Integer(), []PhiIncoming{{Value: Int(1), Block: "a"}})) // missing "b"
	join.AddInstruction(Ret(Register(2)))
	f.AddBlock(entry)
	f.AddBlock(a)
	f.AddBlock(b)
	f.AddBlock(join)
	if err := f.Validate(); err == nil {
		t.Fatal("expected a phi/predecessor mismatch error")
	}
}

func TestCFGReachableFrom(t *testing.T) {
	g := NewCFG()
	entry := NewBlock("entry")
	entry.AddInstruction(Br("live"))
	live := NewBlock("live")
	live.AddInstruction(Ret(Int(0)))
	dead := NewBlock("dead")
	dead.AddInstruction(Ret(Int(1)))
	g.AddBlock(entry)
	g.AddBlock(live)
	g.AddBlock(dead)

	reachable := g.ReachableFrom(g.Entry)
	if !reachable["entry"] || !reachable["live"] {
		t.Fatal("expected entry and live to be reachable")
	}
	if reachable["dead"] {
		t.Fatal("did not expect dead to be reachable")
	}
}

func TestModuleInternStringDeduplicates(t *testing.T) {
	m := NewModule("test")
	a := m.InternString("hello")
	b := m.InternString("hello")
	c := m.InternString("world")
	if a != b {
		t.Errorf("expected repeated InternString to return the same id, got %d and %d", a, b)
	}
	if a == c {
		t.Error("expected distinct strings to get distinct ids")
	}
	if len(m.StringTable) != 2 {
		t.Errorf("expected 2 interned strings, got %d", len(m.StringTable))
	}
}
