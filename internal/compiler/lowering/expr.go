package lowering

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	"github.com/seen-lang/seenc/internal/compiler/ir"
)

// lowerExpr translates e into instructions appended to fc's current
// block, returning the Value the expression evaluates to (spec.md 4.H).
func (l *Lowerer) lowerExpr(e ast.Expr, fc *funcCtx) ir.Value {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return l.lowerLiteral(n)
	case *ast.IdentExpr:
		return l.lowerIdent(n, fc)
	case *ast.BinaryExpr:
		return l.lowerBinary(n, fc)
	case *ast.UnaryExpr:
		return l.lowerUnary(n, fc)
	case *ast.CallExpr:
		return l.lowerCall(n, fc)
	case *ast.FieldAccessExpr:
		return l.lowerFieldAccess(n, fc)
	case *ast.IndexExpr:
		return l.lowerIndex(n, fc)
	case *ast.BlockExpr:
		return l.lowerBlock(n, fc)
	case *ast.IfExpr:
		return l.lowerIf(n, fc)
	case *ast.WhileExpr:
		return l.lowerWhile(n, fc)
	case *ast.ForInExpr:
		return l.lowerForIn(n, fc)
	case *ast.WhenExpr:
		return l.lowerWhen(n, fc)
	case *ast.MatchExpr:
		return l.lowerMatch(n, fc)
	case *ast.SafeNavExpr:
		return l.lowerSafeNav(n, fc)
	case *ast.ElvisExpr:
		return l.lowerElvis(n, fc)
	case *ast.ForceUnwrapExpr:
		return l.lowerForceUnwrap(n, fc)
	case *ast.InterpolatedStringExpr:
		return l.lowerInterpolated(n, fc)
	case *ast.LambdaExpr:
		// Closures need a separate top-level function plus an
		// environment-capturing struct, which spec.md's lowering
		// section does not specify the shape of; here a lambda lowers
		// to an opaque function-pointer placeholder so enclosing
		// expressions still type/lower, and the real capture emission
		// is left to a later pass.
		return ir.Undefined()
	case *ast.ReactiveBuilderExpr:
		return l.lowerReactiveBuilder(n, fc)
	case *ast.ErrorExpr:
		return ir.Undefined()
	}
	return ir.Void()
}

func (l *Lowerer) lowerLiteral(n *ast.LiteralExpr) ir.Value {
	switch n.Kind {
	case ast.LitInt:
		return ir.Int(n.Int)
	case ast.LitFloat:
		return ir.FloatVal(n.Float)
	case ast.LitBool:
		return ir.Bool(n.Bool)
	case ast.LitString:
		return ir.StringConst(l.module.InternString(n.Str))
	case ast.LitNull:
		return ir.Null()
	}
	return ir.Void()
}

func (l *Lowerer) lowerIdent(n *ast.IdentExpr, fc *funcCtx) ir.Value {
	slot, ok := fc.lookup(n.Name)
	if !ok {
		// A bare function reference (first-class function value) or an
		// unresolved name the checker already flagged; either way there
		// is no local slot to load from.
		return ir.FunctionVal(n.Name, nil)
	}
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(reg, slot.typ, slot.ptr, false))
	return ir.Register(reg)
}

func isFloatType(t ir.Type) bool { return t.Kind == ir.KFloat }

func (l *Lowerer) lowerBinary(n *ast.BinaryExpr, fc *funcCtx) ir.Value {
	left := l.lowerExpr(n.Left, fc)
	right := l.lowerExpr(n.Right, fc)
	resultType := irType(l.tp.TypeOf(n))
	// Underlying arithmetic/comparison type ignores the Optional wrapper
	// the checker's nullable-lifting may have applied to resultType;
	// operand kind alone decides int-vs-float lowering.
	floaty := isFloatType(irType(l.tp.TypeOf(n.Left))) || isFloatType(irType(l.tp.TypeOf(n.Right)))

	reg := fc.fn.AllocateRegister()
	switch n.Op {
	case ast.OpAdd:
		if floaty {
			fc.emit(ir.FAdd(reg, underlying(resultType), left, right))
		} else {
			fc.emit(ir.Add(reg, underlying(resultType), left, right))
		}
	case ast.OpSub:
		if floaty {
			fc.emit(ir.FSub(reg, underlying(resultType), left, right))
		} else {
			fc.emit(ir.Sub(reg, underlying(resultType), left, right))
		}
	case ast.OpMul:
		if floaty {
			fc.emit(ir.FMul(reg, underlying(resultType), left, right))
		} else {
			fc.emit(ir.Mul(reg, underlying(resultType), left, right))
		}
	case ast.OpDiv:
		if floaty {
			fc.emit(ir.FDiv(reg, underlying(resultType), left, right))
		} else {
			fc.emit(ir.Div(reg, underlying(resultType), left, right))
		}
	case ast.OpMod:
		fc.emit(ir.Mod(reg, underlying(resultType), left, right))
	case ast.OpEq:
		fc.emit(ir.CmpEq(reg, left, right))
	case ast.OpNeq:
		fc.emit(ir.CmpNeq(reg, left, right))
	case ast.OpLt:
		fc.emit(ir.CmpLt(reg, left, right))
	case ast.OpLte:
		fc.emit(ir.CmpLte(reg, left, right))
	case ast.OpGt:
		fc.emit(ir.CmpGt(reg, left, right))
	case ast.OpGte:
		fc.emit(ir.CmpGte(reg, left, right))
	case ast.OpAnd:
		fc.emit(ir.LogicalAnd(reg, left, right))
	case ast.OpOr:
		fc.emit(ir.LogicalOr(reg, left, right))
	}
	return ir.Register(reg)
}

// underlying strips an Optional wrapper for the purposes of selecting
// an arithmetic opcode's result type; nullable-lifted results are still
// computed over the unwrapped operand type in the emitted IR, with the
// Optional re-wrap happening implicitly at the store into a nullable
// slot (backend-level detail, spec.md 9's "Optional(T) at IR level").
func underlying(t ir.Type) ir.Type {
	if t.Kind == ir.KOptional {
		return *t.Elem
	}
	return t
}

func (l *Lowerer) lowerUnary(n *ast.UnaryExpr, fc *funcCtx) ir.Value {
	operand := l.lowerExpr(n.Operand, fc)
	reg := fc.fn.AllocateRegister()
	switch n.Op {
	case ast.OpNot:
		fc.emit(ir.LogicalNot(reg, operand))
	case ast.OpNeg:
		fc.emit(ir.Neg(reg, underlying(irType(l.tp.TypeOf(n))), operand))
	}
	return ir.Register(reg)
}

func (l *Lowerer) lowerCall(n *ast.CallExpr, fc *funcCtx) ir.Value {
	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = l.lowerExpr(a, fc)
	}
	callee := calleeName(n.Callee)
	retType := irType(l.tp.TypeOf(n))
	hasDest := retType.Kind != ir.KVoid
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Call(reg, hasDest, retType, callee, args))
	if !hasDest {
		return ir.Void()
	}
	return ir.Register(reg)
}

// calleeName resolves a direct static-dispatch call target (spec.md
// 4.H: "static dispatch if receiver's concrete type is known"). An
// identifier callee lowers to its own name. A field-access callee lowers
// to the bare field name: the receiver's type is not prefixed, so it does
// not name the "Type.method" function an extension method is emitted as
// (see DESIGN.md, "Extension-method dispatch").
func calleeName(callee ast.Expr) string {
	switch c := callee.(type) {
	case *ast.IdentExpr:
		return c.Name
	case *ast.FieldAccessExpr:
		return c.Field
	}
	return "<indirect>"
}

func (l *Lowerer) lowerFieldAccess(n *ast.FieldAccessExpr, fc *funcCtx) ir.Value {
	base := l.lowerExpr(n.Receiver, fc)
	fieldType := irType(l.tp.TypeOf(n))
	ptrReg := fc.fn.AllocateRegister()
	fc.emit(ir.GEP(ptrReg, fieldType, base, ir.StringVal(n.Field)))
	loadReg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(loadReg, fieldType, ir.Register(ptrReg), false))
	return ir.Register(loadReg)
}

func (l *Lowerer) lowerIndex(n *ast.IndexExpr, fc *funcCtx) ir.Value {
	base := l.lowerExpr(n.Receiver, fc)
	idx := l.lowerExpr(n.Index, fc)
	elemType := irType(l.tp.TypeOf(n))
	ptrReg := fc.fn.AllocateRegister()
	fc.emit(ir.GEP(ptrReg, elemType, base, idx))
	loadReg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(loadReg, elemType, ir.Register(ptrReg), false))
	return ir.Register(loadReg)
}

func (l *Lowerer) lowerBlock(n *ast.BlockExpr, fc *funcCtx) ir.Value {
	fc.pushScope()
	defer fc.popScope()
	result := ir.Void()
	for _, stmt := range n.Stmts {
		result = l.lowerStmt(stmt, fc)
	}
	return result
}

func (l *Lowerer) lowerStmt(s ast.Stmt, fc *funcCtx) ir.Value {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return l.lowerExpr(n.Expr, fc)
	case *ast.ReturnStmt:
		if n.Value != nil {
			v := l.lowerExpr(n.Value, fc)
			fc.emit(ir.Ret(v))
		} else {
			fc.emit(ir.RetVoid())
		}
		return ir.Void()
	case *ast.ValStmt:
		l.lowerBinding(n.Name, n.Value, fc)
		return ir.Void()
	case *ast.VarStmt:
		l.lowerBinding(n.Name, n.Value, fc)
		return ir.Void()
	case *ast.BreakStmt:
		if fc.breakTarget != "" {
			fc.emit(ir.Br(fc.breakTarget))
		}
		return ir.Void()
	case *ast.ContinueStmt:
		if fc.continueTarget != "" {
			fc.emit(ir.Br(fc.continueTarget))
		}
		return ir.Void()
	}
	return ir.Void()
}

func (l *Lowerer) lowerBinding(name string, value ast.Expr, fc *funcCtx) {
	v := l.lowerExpr(value, fc)
	t := irType(l.tp.TypeOf(value))
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Alloca(reg, t))
	ptr := ir.Register(reg)
	fc.emit(ir.Store(ptr, v))
	fc.define(name, varSlot{ptr: ptr, typ: t})
}
