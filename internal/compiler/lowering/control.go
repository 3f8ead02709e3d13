package lowering

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	"github.com/seen-lang/seenc/internal/compiler/ir"
)

// lowerIf implements spec.md 4.H: "explicit basic blocks with br/br_cond;
// if/else join via phi when the expression is used".
func (l *Lowerer) lowerIf(n *ast.IfExpr, fc *funcCtx) ir.Value {
	thenLabel := fc.newLabel("if.then")
	joinLabel := fc.newLabel("if.join")
	elseLabel := joinLabel
	if n.Else != nil {
		elseLabel = fc.newLabel("if.else")
	}

	cond := l.lowerExpr(n.Cond, fc)
	fc.emit(ir.BrCond(cond, thenLabel, elseLabel))

	fc.switchTo(ir.NewBlock(thenLabel))
	thenVal := l.lowerExpr(n.Then, fc)
	thenEndLabel := fc.block.Label
	thenTerminated := fc.terminated
	if !fc.terminated {
		fc.emit(ir.Br(joinLabel))
	}

	var elseVal ir.Value
	elseEndLabel := elseLabel
	elseTerminated := false
	if n.Else != nil {
		fc.switchTo(ir.NewBlock(elseLabel))
		elseVal = l.lowerExpr(n.Else, fc)
		elseEndLabel = fc.block.Label
		elseTerminated = fc.terminated
		if !fc.terminated {
			fc.emit(ir.Br(joinLabel))
		}
	}

	resultType := irType(l.tp.TypeOf(n))
	fc.switchTo(ir.NewBlock(joinLabel))
	if resultType.Kind == ir.KVoid || thenTerminated && (n.Else == nil || elseTerminated) {
		return ir.Void()
	}
	if n.Else == nil {
		return ir.Void()
	}
	var incoming []ir.PhiIncoming
	if !thenTerminated {
		incoming = append(incoming, ir.PhiIncoming{Value: thenVal, Block: thenEndLabel})
	}
	if !elseTerminated {
		incoming = append(incoming, ir.PhiIncoming{Value: elseVal, Block: elseEndLabel})
	}
	if len(incoming) < 2 {
		// Only one branch reaches the join (the other diverges via
		// return/break), so the joined value is simply that branch's.
		if len(incoming) == 1 {
			return incoming[0].Value
		}
		return ir.Void()
	}
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Phi(reg, resultType, incoming))
	return ir.Register(reg)
}

// lowerWhile implements spec.md 4.H: "Loops -> header block with cond
// branch, body block, latch, exit."
func (l *Lowerer) lowerWhile(n *ast.WhileExpr, fc *funcCtx) ir.Value {
	headerLabel := fc.newLabel("while.header")
	bodyLabel := fc.newLabel("while.body")
	exitLabel := fc.newLabel("while.exit")

	fc.emit(ir.Br(headerLabel))
	fc.switchTo(ir.NewBlock(headerLabel))
	cond := l.lowerExpr(n.Cond, fc)
	fc.emit(ir.BrCond(cond, bodyLabel, exitLabel))

	prevBreak, prevContinue := fc.breakTarget, fc.continueTarget
	fc.breakTarget, fc.continueTarget = exitLabel, headerLabel

	fc.switchTo(ir.NewBlock(bodyLabel))
	l.lowerExpr(n.Body, fc)
	if !fc.terminated {
		fc.emit(ir.Br(headerLabel))
	}

	fc.breakTarget, fc.continueTarget = prevBreak, prevContinue
	fc.switchTo(ir.NewBlock(exitLabel))
	return ir.Void()
}

// lowerForIn desugars `for x in iterable { ... }` to explicit
// index-driven iterator blocks (spec.md 4.H): an index local walks
// [0, len) over the array value, loading the element into the binding
// each iteration. This covers Array(T) iterables; a user-defined
// `next()`-style iterator protocol is left to the runtime collaborator
// spec.md 1 scopes out of this core.
func (l *Lowerer) lowerForIn(n *ast.ForInExpr, fc *funcCtx) ir.Value {
	iterable := l.lowerExpr(n.Iterable, fc)
	elemType := ir.Generic("?")
	if arrT := irType(l.tp.TypeOf(n.Iterable)); arrT.Kind == ir.KArray {
		elemType = *arrT.Elem
	}

	idxPtrReg := fc.fn.AllocateRegister()
	fc.emit(ir.Alloca(idxPtrReg, ir.Integer()))
	idxPtr := ir.Register(idxPtrReg)
	fc.emit(ir.Store(idxPtr, ir.Int(0)))

	lenReg := fc.fn.AllocateRegister()
	fc.emit(ir.Call(lenReg, true, ir.Integer(), "seen_array_len", []ir.Value{iterable}))
	length := ir.Register(lenReg)

	headerLabel := fc.newLabel("for.header")
	bodyLabel := fc.newLabel("for.body")
	exitLabel := fc.newLabel("for.exit")

	fc.emit(ir.Br(headerLabel))
	fc.switchTo(ir.NewBlock(headerLabel))
	idxLoadReg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(idxLoadReg, ir.Integer(), idxPtr, false))
	cmpReg := fc.fn.AllocateRegister()
	fc.emit(ir.CmpLt(cmpReg, ir.Register(idxLoadReg), length))
	fc.emit(ir.BrCond(ir.Register(cmpReg), bodyLabel, exitLabel))

	prevBreak, prevContinue := fc.breakTarget, fc.continueTarget
	fc.breakTarget, fc.continueTarget = exitLabel, headerLabel

	fc.switchTo(ir.NewBlock(bodyLabel))
	elemPtrReg := fc.fn.AllocateRegister()
	fc.emit(ir.GEP(elemPtrReg, elemType, iterable, ir.Register(idxLoadReg)))
	elemReg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(elemReg, elemType, ir.Register(elemPtrReg), false))

	fc.pushScope()
	elemPtr2Reg := fc.fn.AllocateRegister()
	fc.emit(ir.Alloca(elemPtr2Reg, elemType))
	fc.emit(ir.Store(ir.Register(elemPtr2Reg), ir.Register(elemReg)))
	fc.define(n.Binding, varSlot{ptr: ir.Register(elemPtr2Reg), typ: elemType})
	l.lowerExpr(n.Body, fc)
	fc.popScope()

	if !fc.terminated {
		nextReg := fc.fn.AllocateRegister()
		fc.emit(ir.Add(nextReg, ir.Integer(), ir.Register(idxLoadReg), ir.Int(1)))
		fc.emit(ir.Store(idxPtr, ir.Register(nextReg)))
		fc.emit(ir.Br(headerLabel))
	}

	fc.breakTarget, fc.continueTarget = prevBreak, prevContinue
	fc.switchTo(ir.NewBlock(exitLabel))
	return ir.Void()
}

// armClause is the common shape of a when/match arm for lowerArmChain's
// purposes: an optional equality pattern (nil for the else/default arm)
// and a body expression.
type armClause struct {
	Pattern ast.Expr
	Body    ast.Expr
}

// lowerArmChain lowers a when/match expression's arms to a sequential
// chain of conditional branches terminating in a join block (spec.md
// 4.H), each arm testing subject equality against its pattern and
// falling through to the next arm's test on mismatch. labelPrefix keys
// the generated block names ("when"/"match") purely for readability in
// emitted IR.
func (l *Lowerer) lowerArmChain(subject ir.Value, arms []armClause, resultType ir.Type, labelPrefix string, fc *funcCtx) ir.Value {
	joinLabel := fc.newLabel(labelPrefix + ".join")
	var incoming []ir.PhiIncoming

	for i, arm := range arms {
		isLast := i == len(arms)-1
		bodyLabel := fc.newLabel(labelPrefix + ".arm")
		nextLabel := joinLabel
		if !isLast {
			nextLabel = fc.newLabel(labelPrefix + ".next")
		}
		if arm.Pattern != nil {
			pattern := l.lowerExpr(arm.Pattern, fc)
			cmpReg := fc.fn.AllocateRegister()
			fc.emit(ir.CmpEq(cmpReg, subject, pattern))
			if isLast {
				// No else arm: the last test's false edge falls through
				// to the join, contributing an undefined value so the
				// join phi's incoming set matches its predecessor set.
				incoming = append(incoming, ir.PhiIncoming{Value: ir.Undefined(), Block: fc.block.Label})
			}
			fc.emit(ir.BrCond(ir.Register(cmpReg), bodyLabel, nextLabel))
		} else {
			fc.emit(ir.Br(bodyLabel))
		}

		fc.switchTo(ir.NewBlock(bodyLabel))
		bodyVal := l.lowerExpr(arm.Body, fc)
		if !fc.terminated {
			incoming = append(incoming, ir.PhiIncoming{Value: bodyVal, Block: fc.block.Label})
			fc.emit(ir.Br(joinLabel))
		}

		if !isLast {
			fc.switchTo(ir.NewBlock(nextLabel))
		}
	}

	fc.switchTo(ir.NewBlock(joinLabel))
	if resultType.Kind == ir.KVoid || len(incoming) == 0 {
		return ir.Void()
	}
	if len(incoming) == 1 {
		return incoming[0].Value
	}
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Phi(reg, resultType, incoming))
	return ir.Register(reg)
}

// lowerWhen desugars a when expression's `is T` / value arms via
// lowerArmChain; the type-test refinement itself is a checker-time
// concern (TypeEnvironment.Refine) and changes no lowered shape here.
func (l *Lowerer) lowerWhen(n *ast.WhenExpr, fc *funcCtx) ir.Value {
	subject := l.lowerExpr(n.Subject, fc)
	clauses := make([]armClause, len(n.Arms))
	for i, arm := range n.Arms {
		clauses[i] = armClause{Pattern: arm.Pattern, Body: arm.Body}
	}
	return l.lowerArmChain(subject, clauses, irType(l.tp.TypeOf(n)), "when", fc)
}

// lowerMatch shares when's branch-chain shape; pattern destructuring
// beyond equality is handled by the checker's arm-pattern unification
// and does not change the branch shape lowering produces here.
func (l *Lowerer) lowerMatch(n *ast.MatchExpr, fc *funcCtx) ir.Value {
	subject := l.lowerExpr(n.Subject, fc)
	clauses := make([]armClause, len(n.Arms))
	for i, arm := range n.Arms {
		clauses[i] = armClause{Pattern: arm.Pattern, Body: arm.Body}
	}
	return l.lowerArmChain(subject, clauses, irType(l.tp.TypeOf(n)), "match", fc)
}

// lowerSafeNav implements spec.md 4.H: "?. check-null branch". The
// receiver is tested against Null; on the null path the result is Null,
// on the non-null path the field is loaded, and the two join as an
// Optional(U) phi.
func (l *Lowerer) lowerSafeNav(n *ast.SafeNavExpr, fc *funcCtx) ir.Value {
	receiver := l.lowerExpr(n.Receiver, fc)
	isNullReg := fc.fn.AllocateRegister()
	fc.emit(ir.CmpEq(isNullReg, receiver, ir.Null()))

	nullLabel := fc.newLabel("safenav.null")
	loadLabel := fc.newLabel("safenav.load")
	joinLabel := fc.newLabel("safenav.join")
	fc.emit(ir.BrCond(ir.Register(isNullReg), nullLabel, loadLabel))

	fc.switchTo(ir.NewBlock(nullLabel))
	fc.emit(ir.Br(joinLabel))

	fc.switchTo(ir.NewBlock(loadLabel))
	fieldType := irType(l.tp.TypeOf(n))
	ptrReg := fc.fn.AllocateRegister()
	fc.emit(ir.GEP(ptrReg, underlying(fieldType), receiver, ir.StringVal(n.Field)))
	loadReg := fc.fn.AllocateRegister()
	fc.emit(ir.Load(loadReg, underlying(fieldType), ir.Register(ptrReg), false))
	fc.emit(ir.Br(joinLabel))

	fc.switchTo(ir.NewBlock(joinLabel))
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Phi(reg, fieldType, []ir.PhiIncoming{
		{Value: ir.Null(), Block: nullLabel},
		{Value: ir.Register(loadReg), Block: loadLabel},
	}))
	return ir.Register(reg)
}

// lowerElvis implements spec.md 4.H: "?: branch+select". When the left
// side is non-null it is used directly; otherwise the right side (the
// default) is evaluated and used.
func (l *Lowerer) lowerElvis(n *ast.ElvisExpr, fc *funcCtx) ir.Value {
	left := l.lowerExpr(n.Left, fc)
	isNullReg := fc.fn.AllocateRegister()
	fc.emit(ir.CmpEq(isNullReg, left, ir.Null()))

	defaultLabel := fc.newLabel("elvis.default")
	joinLabel := fc.newLabel("elvis.join")
	leftLabel := fc.block.Label
	fc.emit(ir.BrCond(ir.Register(isNullReg), defaultLabel, joinLabel))

	fc.switchTo(ir.NewBlock(defaultLabel))
	right := l.lowerExpr(n.Right, fc)
	defaultEndLabel := fc.block.Label
	fc.emit(ir.Br(joinLabel))

	fc.switchTo(ir.NewBlock(joinLabel))
	resultType := irType(l.tp.TypeOf(n))
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Phi(reg, resultType, []ir.PhiIncoming{
		{Value: left, Block: leftLabel},
		{Value: right, Block: defaultEndLabel},
	}))
	return ir.Register(reg)
}

// lowerForceUnwrap implements spec.md 4.H: "!! null-check that falls
// through to unreachable on null."
func (l *Lowerer) lowerForceUnwrap(n *ast.ForceUnwrapExpr, fc *funcCtx) ir.Value {
	operand := l.lowerExpr(n.Operand, fc)
	isNullReg := fc.fn.AllocateRegister()
	fc.emit(ir.CmpEq(isNullReg, operand, ir.Null()))

	trapLabel := fc.newLabel("forceunwrap.trap")
	okLabel := fc.newLabel("forceunwrap.ok")
	fc.emit(ir.BrCond(ir.Register(isNullReg), trapLabel, okLabel))

	fc.switchTo(ir.NewBlock(trapLabel))
	fc.emit(ir.Unreachable())

	fc.switchTo(ir.NewBlock(okLabel))
	return operand
}

// lowerInterpolated implements spec.md 4.H: "builder call-chain on a
// runtime string-builder intrinsic."
func (l *Lowerer) lowerInterpolated(n *ast.InterpolatedStringExpr, fc *funcCtx) ir.Value {
	builderReg := fc.fn.AllocateRegister()
	fc.emit(ir.Call(builderReg, true, ir.StringT(), "seen_string_builder_new", nil))
	cur := ir.Register(builderReg)
	for _, part := range n.Parts {
		var piece ir.Value
		if part.IsExpr {
			piece = l.lowerExpr(part.Expr, fc)
		} else {
			piece = ir.StringConst(l.module.InternString(part.Text))
		}
		nextReg := fc.fn.AllocateRegister()
		fc.emit(ir.Call(nextReg, true, ir.StringT(), "seen_string_builder_append", []ir.Value{cur, piece}))
		cur = ir.Register(nextReg)
	}
	return cur
}

// lowerReactiveBuilder lowers `flow { }`/`reactive { }` to a call into
// the reactive runtime collaborator (spec.md 1 scopes the runtime
// itself out of this core; only the IR call site is this package's
// concern).
func (l *Lowerer) lowerReactiveBuilder(n *ast.ReactiveBuilderExpr, fc *funcCtx) ir.Value {
	intrinsic := "seen_reactive_flow_new"
	if n.Kind == ast.BuilderReactive {
		intrinsic = "seen_reactive_new"
	}
	reg := fc.fn.AllocateRegister()
	fc.emit(ir.Call(reg, true, ir.Generic("Flow"), intrinsic, nil))
	fc.pushScope()
	l.lowerExpr(n.Body, fc)
	fc.popScope()
	return ir.Register(reg)
}
