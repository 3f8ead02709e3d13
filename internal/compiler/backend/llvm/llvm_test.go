package llvm

import (
	"strings"
	"testing"

	"github.com/seen-lang/seenc/internal/compiler/ir"
)

func TestResolveX86_64(t *testing.T) {
	spec, err := Target{Triple: "x86_64-unknown-linux-gnu"}.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.RiscVISA != "" {
		t.Errorf("expected no riscv-isa flag for x86_64, got %q", spec.RiscVISA)
	}
	if !strings.Contains(spec.DataLayout, "e-m:e") {
		t.Errorf("unexpected datalayout %q", spec.DataLayout)
	}
}

func TestResolveRiscv64Vector(t *testing.T) {
	spec, err := Target{Triple: "riscv64-unknown-linux-gnu", Vector: true}.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.RiscVISA != "rv64imafdcv" {
		t.Errorf("expected rv64imafdcv, got %q", spec.RiscVISA)
	}
	if !strings.Contains(spec.Features, "+v") {
		t.Errorf("expected vector feature flag, got %q", spec.Features)
	}
}

func TestResolveRiscv32NoVector(t *testing.T) {
	spec, err := Target{Triple: "riscv32-unknown-linux-gnu"}.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.RiscVISA != "rv32imafdc" {
		t.Errorf("expected rv32imafdc, got %q", spec.RiscVISA)
	}
}

func TestResolveWasm32(t *testing.T) {
	spec, err := Target{Triple: "wasm32-unknown-unknown"}.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.Triple != "wasm32-unknown-unknown" {
		t.Errorf("unexpected triple %q", spec.Triple)
	}
}

func TestResolveUnsupportedTriple(t *testing.T) {
	if _, err := (Target{Triple: "sparc64-unknown-none"}).resolve(); err == nil {
		t.Fatal("expected an error for an unsupported triple")
	}
}

// buildAddOneFunction returns a function computing x + 1 and returning it,
// exercising a parameter, an Add instruction, and a single-block Ret.
func buildAddOneFunction() *ir.Function {
	fn := ir.NewFunction("add_one", []ir.Param{{Name: "x", Type: ir.Integer()}}, ir.Integer())
	fn.Visibility = ir.Public
	entry := ir.NewBlock("entry")
	dest := fn.AllocateRegister()
	entry.AddInstruction(ir.Add(dest, ir.Integer(), ir.Variable("x"), ir.Int(1)))
	entry.AddInstruction(ir.Ret(ir.Register(dest)))
	fn.AddBlock(entry)
	return fn
}

func TestEmitModuleHeader(t *testing.T) {
	module := ir.NewModule("sample")
	module.AddFunction(buildAddOneFunction())

	e := NewEmitter(Target{Triple: "x86_64-unknown-linux-gnu"})
	out, err := e.Emit(module)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, `target triple = "x86_64-unknown-linux-gnu"`) {
		t.Errorf("missing target triple in output:\n%s", out)
	}
	if !strings.Contains(out, "define i64 @add_one(i64 %x) {") {
		t.Errorf("missing function signature in output:\n%s", out)
	}
	if !strings.Contains(out, "entry:") {
		t.Errorf("missing entry label in output:\n%s", out)
	}
	if !strings.Contains(out, "add i64 %x, 1") {
		t.Errorf("missing add instruction in output:\n%s", out)
	}
	if !strings.Contains(out, "ret i64 %r0") {
		t.Errorf("missing ret instruction in output:\n%s", out)
	}
}

func TestEmitModuleStringTable(t *testing.T) {
	module := ir.NewModule("strings")
	module.InternString("hello")
	e := NewEmitter(Target{Triple: "x86_64-unknown-linux-gnu"})
	out, err := e.Emit(module)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, `@str.0 = private unnamed_addr constant [6 x i8] c"`) {
		t.Errorf("missing interned string constant in output:\n%s", out)
	}
}

func TestEmitModuleRVVDeclarations(t *testing.T) {
	module := ir.NewModule("vectorised")
	e := NewEmitter(Target{Triple: "riscv64-unknown-linux-gnu", Vector: true})
	out, err := e.Emit(module)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "declare i32* @vector_map_i32(i32*, i64)") {
		t.Errorf("missing vectorised map declaration:\n%s", out)
	}
	if !strings.Contains(out, "declare double* @vector_reduce_sum_f64(double*, i64)") {
		t.Errorf("missing vectorised reduce declaration:\n%s", out)
	}
}

func TestEmitModuleNoRVVWithoutVectorFlag(t *testing.T) {
	module := ir.NewModule("scalar")
	e := NewEmitter(Target{Triple: "riscv64-unknown-linux-gnu"})
	out, err := e.Emit(module)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Contains(out, "@vector_map_i32") {
		t.Errorf("did not expect vectorised declarations without Vector: true:\n%s", out)
	}
}

func TestLLVMTypeMapping(t *testing.T) {
	cases := []struct {
		t    ir.Type
		want string
	}{
		{ir.VoidType(), "void"},
		{ir.Integer(), "i64"},
		{ir.Float(), "double"},
		{ir.Boolean(), "i1"},
		{ir.StringT(), "i8*"},
		{ir.Optional(ir.Integer()), "{ i1, i64 }"},
	}
	for _, c := range cases {
		if got := llvmType(c.t); got != c.want {
			t.Errorf("llvmType(%v) = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestEmitComparisonUsesFloatPredicateForFloatOperands(t *testing.T) {
	fn := ir.NewFunction("cmp", nil, ir.Boolean())
	entry := ir.NewBlock("entry")
	a := fn.AllocateRegister()
	entry.AddInstruction(ir.Alloca(a, ir.Float()))
	dest := fn.AllocateRegister()
	entry.AddInstruction(ir.CmpLt(dest, ir.FloatVal(1.5), ir.FloatVal(2.5)))
	entry.AddInstruction(ir.Ret(ir.Register(dest)))
	fn.AddBlock(entry)

	module := ir.NewModule("cmpmod")
	module.AddFunction(fn)
	e := NewEmitter(Target{Triple: "x86_64-unknown-linux-gnu"})
	out, err := e.Emit(module)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "fcmp olt double") {
		t.Errorf("expected a float comparison, got:\n%s", out)
	}
}
