// Package lowering implements spec.md 4.H: translating a type-checked
// AST into the SSA-ish IR of internal/compiler/ir. Variable bindings
// lower to alloca+store/load pairs (see ir.LocalVariable's doc comment
// for why), control flow lowers to explicit basic blocks joined by phi
// where the expression's value is used, and nullable operators lower to
// explicit null-check branches ending in either a join or an
// unreachable trap.
package lowering

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/ir"
	"github.com/seen-lang/seenc/internal/compiler/typechecker"
)

// Lowerer owns one Program's worth of lowering. Lower performs no
// type-error check of its own: the caller inspects CheckProgram's
// diagnostics before Lower runs, and the only per-function check here is
// fn.Validate on the lowered IR, whose failure is reported as an
// ErrIRMalformedBlock diagnostic.
type Lowerer struct {
	module *ir.Module
	file   string
	tp     *typechecker.TypedProgram
	diags  *cerrors.ErrorRecovery
}

// Lower runs spec.md 4.H over tp, producing an IR module named after
// the compilation unit.
func Lower(tp *typechecker.TypedProgram, moduleName, file string) (*ir.Module, *cerrors.ErrorRecovery) {
	l := &Lowerer{
		module: ir.NewModule(moduleName),
		file:   file,
		tp:     tp,
		diags:  cerrors.NewErrorRecovery(),
	}
	for _, item := range tp.Program.Items {
		l.lowerItem(item)
	}
	return l.module, l.diags
}

func (l *Lowerer) errorAt(span ast.Span, code, message string) {
	loc := cerrors.SourceLocation{File: l.file, Line: span.Start.Line, Column: span.Start.Column}
	l.diags.Recover(cerrors.NewCompilerError(cerrors.PhaseIR, code, message, loc, cerrors.Error))
}

func (l *Lowerer) lowerItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FunItem:
		l.lowerFunction(it, "")
	case *ast.ExtensionItem:
		for _, m := range it.Methods {
			l.lowerFunction(m, it.TargetType+".")
		}
	case *ast.StructItem, *ast.EnumItem, *ast.InterfaceItem, *ast.TypeAliasItem:
		// Shape-only declarations; nothing to lower, their fields were
		// already captured as ir.Type shapes via irType at use sites.
	case *ast.ValItem:
		l.lowerGlobal(it.Name, it.Value)
	case *ast.VarItem:
		l.lowerGlobal(it.Name, it.Value)
	}
}

func (l *Lowerer) lowerGlobal(name string, value ast.Expr) {
	if value == nil {
		return
	}
	lit, ok := value.(*ast.LiteralExpr)
	if !ok {
		// Non-literal top-level initializers require running
		// arbitrary code at module load; spec.md's IR has no static
		// initializer block, so only literal globals are supported.
		return
	}
	t := irType(l.tp.TypeOf(value))
	var v ir.Value
	switch lit.Kind {
	case ast.LitInt:
		v = ir.Int(lit.Int)
	case ast.LitFloat:
		v = ir.FloatVal(lit.Float)
	case ast.LitBool:
		v = ir.Bool(lit.Bool)
	case ast.LitString:
		v = ir.StringConst(l.module.InternString(lit.Str))
	default:
		v = ir.Null()
	}
	l.module.AddGlobalConstant(ir.GlobalConstant{Name: name, Type: t, Value: v})
}

// funcCtx is the lowering state local to one function body: the
// function being built, the block currently receiving instructions,
// and the scope of local variable -> alloca-pointer register bindings.
type funcCtx struct {
	fn         *ir.Function
	block      *ir.BasicBlock
	scopes     []map[string]varSlot
	blockSeq   int
	terminated bool // true once the current block has received a terminator

	// breakTarget/continueTarget name the exit/latch blocks of the
	// innermost enclosing loop; lowerStmt's Break/Continue cases branch
	// to whichever is set, and loop lowering restores the enclosing
	// loop's targets on exit so nested loops don't leak into each other.
	breakTarget    string
	continueTarget string
}

type varSlot struct {
	ptr ir.Value
	typ ir.Type
}

func (fc *funcCtx) pushScope() { fc.scopes = append(fc.scopes, map[string]varSlot{}) }
func (fc *funcCtx) popScope()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *funcCtx) define(name string, slot varSlot) {
	fc.scopes[len(fc.scopes)-1][name] = slot
}

func (fc *funcCtx) lookup(name string) (varSlot, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if s, ok := fc.scopes[i][name]; ok {
			return s, true
		}
	}
	return varSlot{}, false
}

func (fc *funcCtx) newLabel(prefix string) string {
	fc.blockSeq++
	return fmt.Sprintf("%s.%d", prefix, fc.blockSeq)
}

// emit appends instr to the current block unless it has already been
// terminated (a dead tail after an earlier return/break is simply
// dropped; unreachable-block elimination would remove it anyway).
func (fc *funcCtx) emit(instr ir.Instruction) {
	if fc.terminated {
		return
	}
	fc.block.AddInstruction(instr)
	if instr.IsTerminator() {
		fc.terminated = true
	}
}

// switchTo finishes the current block (the caller must already have
// emitted its terminator) and makes next the active block.
func (fc *funcCtx) switchTo(next *ir.BasicBlock) {
	fc.fn.AddBlock(next)
	fc.block = next
	fc.terminated = false
}

func (l *Lowerer) lowerFunction(f *ast.FunItem, namePrefix string) {
	if f.Body == nil {
		return // extern/interface-only declarations carry no body to lower
	}
	sig, ok := l.tp.Globals.Lookup("func:" + namePrefix + f.Name)
	var retType ir.Type = ir.VoidType()
	params := make([]ir.Param, len(f.Params))
	for i, p := range f.Params {
		var pt ir.Type
		if ok && i < len(sig.Params) {
			pt = irType(sig.Params[i])
		} else {
			pt = ir.Generic(p.Name)
		}
		params[i] = ir.Param{Name: p.Name, Type: pt}
	}
	if ok {
		retType = irType(sig.Return)
	}

	fn := ir.NewFunction(namePrefix+f.Name, params, retType)
	if f.Visibility == ast.Public {
		fn.Visibility = ir.Public
	}

	fc := &funcCtx{fn: fn}
	fc.pushScope()
	entry := ir.NewBlock("entry")
	fc.switchTo(entry)

	for i, p := range f.Params {
		pt := params[i].Type
		reg := fc.fn.AllocateRegister()
		fc.emit(ir.Alloca(reg, pt))
		ptr := ir.Register(reg)
		fc.emit(ir.Store(ptr, ir.Variable(p.Name)))
		fc.define(p.Name, varSlot{ptr: ptr, typ: pt})
	}

	result := l.lowerExpr(f.Body, fc)
	if !fc.terminated {
		if retType.Kind == ir.KVoid {
			fc.emit(ir.RetVoid())
		} else {
			fc.emit(ir.Ret(result))
		}
	}
	fc.popScope()

	if err := fn.Validate(); err != nil {
		l.errorAt(f.Span_, cerrors.ErrIRMalformedBlock, err.Error())
		return
	}
	l.module.AddFunction(fn)
}
