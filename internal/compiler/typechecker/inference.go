package typechecker

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/types"
)

// inferExpr infers e's type bottom-up, recording the result against e's
// expression id (spec.md 4.F: "Infer expression types bottom-up; for
// each expression generate a type and a set of constraints" — the
// constraint set here is solved eagerly via Unify rather than collected
// and solved as a batch, since Seen's grammar has no let-polymorphism
// that would require generalization before solving).
func (c *Checker) inferExpr(e ast.Expr, env *types.TypeEnvironment) *types.Type {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return c.inferLiteral(n)
	case *ast.IdentExpr:
		return c.inferIdent(n, env)
	case *ast.BinaryExpr:
		return c.inferBinary(n, env)
	case *ast.UnaryExpr:
		return c.inferUnary(n, env)
	case *ast.CallExpr:
		return c.inferCall(n, env)
	case *ast.FieldAccessExpr:
		return c.inferFieldAccess(n, env)
	case *ast.IndexExpr:
		return c.inferIndex(n, env)
	case *ast.BlockExpr:
		return c.inferBlock(n, env)
	case *ast.IfExpr:
		return c.inferIf(n, env)
	case *ast.WhenExpr:
		return c.inferWhen(n, env)
	case *ast.MatchExpr:
		return c.inferMatch(n, env)
	case *ast.ForInExpr:
		return c.inferForIn(n, env)
	case *ast.WhileExpr:
		return c.inferWhile(n, env)
	case *ast.LambdaExpr:
		return c.inferLambda(n, env)
	case *ast.ReactiveBuilderExpr:
		c.inferExpr(n.Body, env.Child())
		return c.setType(n, types.Unknown())
	case *ast.SafeNavExpr:
		return c.inferSafeNav(n, env)
	case *ast.ElvisExpr:
		return c.inferElvis(n, env)
	case *ast.ForceUnwrapExpr:
		return c.inferForceUnwrap(n, env)
	case *ast.InterpolatedStringExpr:
		return c.inferInterpolated(n, env)
	case *ast.ErrorExpr:
		return c.setType(n, types.ErrorType())
	}
	return types.Unknown()
}

func (c *Checker) inferLiteral(n *ast.LiteralExpr) *types.Type {
	switch n.Kind {
	case ast.LitInt:
		return c.setType(n, types.Prim(types.I64))
	case ast.LitFloat:
		return c.setType(n, types.Prim(types.F64))
	case ast.LitString:
		return c.setType(n, types.Prim(types.Str))
	case ast.LitBool:
		return c.setType(n, types.Prim(types.Bool))
	case ast.LitNull:
		return c.setType(n, types.Nullable(c.freshVar()))
	}
	return c.setType(n, types.Unknown())
}

func (c *Checker) inferIdent(n *ast.IdentExpr, env *types.TypeEnvironment) *types.Type {
	if t, ok := env.Lookup("var:" + n.Name); ok {
		return c.setType(n, t)
	}
	if t, ok := env.Lookup("func:" + n.Name); ok {
		return c.setType(n, t)
	}
	c.errorAt(n.ExprSpan(), cerrors.ErrUndefinedIdentifier, fmt.Sprintf("undefined identifier %q", n.Name))
	return c.setType(n, types.ErrorType())
}

// binaryResultKind classifies an operator family for the resolution
// table in spec.md 4.F ("Binary operator resolution").
type binaryResultKind int

const (
	resultArith binaryResultKind = iota
	resultCompareEq
	resultCompareOrder
	resultLogical
)

func binaryKind(op ast.BinaryOp) binaryResultKind {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return resultArith
	case ast.OpEq, ast.OpNeq:
		return resultCompareEq
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return resultCompareOrder
	case ast.OpAnd, ast.OpOr:
		return resultLogical
	}
	return resultArith
}

func (c *Checker) inferBinary(n *ast.BinaryExpr, env *types.TypeEnvironment) *types.Type {
	left := c.inferExpr(n.Left, env)
	right := c.inferExpr(n.Right, env)
	kind := binaryKind(n.Op)

	leftNullable := left.IsNullable()
	rightNullable := right.IsNullable()
	leftU, rightU := left.Underlying(), right.Underlying()

	var result *types.Type
	switch kind {
	case resultLogical:
		if !leftU.Equal(types.Prim(types.Bool)) || !rightU.Equal(types.Prim(types.Bool)) {
			c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "and/or require Bool operands")
		}
		result = types.Prim(types.Bool)
	case resultCompareEq:
		// Equality-for-comparison is exempt from nullable lifting per
		// spec.md 4.F: "if ... op is not comparison-for-equality".
		if _, err := types.Unify(left, right); err != nil {
			c.errorAt(n.ExprSpan(), cerrors.ErrTypeMismatch, fmt.Sprintf("cannot compare %s and %s", left, right))
		}
		result = types.Prim(types.Bool)
	case resultCompareOrder:
		if _, ok := types.PromoteNumeric(leftU, rightU); !ok {
			c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, fmt.Sprintf("ordering operator requires numeric operands, got %s and %s", left, right))
		}
		result = types.Prim(types.Bool)
	default: // resultArith
		if leftU.Equal(types.Prim(types.Str)) && rightU.Equal(types.Prim(types.Str)) && n.Op == ast.OpAdd {
			result = types.Prim(types.Str)
		} else if promoted, ok := types.PromoteNumeric(leftU, rightU); ok {
			result = promoted
		} else {
			c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, fmt.Sprintf("arithmetic operator not defined for %s and %s", left, right))
			result = types.ErrorType()
		}
	}

	// Nullable-lifting: result becomes Nullable unless this was an
	// equality comparison (spec.md 4.F).
	if kind != resultCompareEq && (leftNullable || rightNullable) {
		result = types.Nullable(result)
	}
	return c.setType(n, result)
}

func (c *Checker) inferUnary(n *ast.UnaryExpr, env *types.TypeEnvironment) *types.Type {
	operand := c.inferExpr(n.Operand, env)
	switch n.Op {
	case ast.OpNot:
		if !operand.Underlying().Equal(types.Prim(types.Bool)) {
			c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "! requires a Bool operand")
		}
		return c.setType(n, types.Prim(types.Bool))
	case ast.OpNeg:
		if !operand.Underlying().IsNumeric() {
			c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "unary - requires a numeric operand")
			return c.setType(n, types.ErrorType())
		}
		return c.setType(n, operand)
	}
	return c.setType(n, types.Unknown())
}

func (c *Checker) inferCall(n *ast.CallExpr, env *types.TypeEnvironment) *types.Type {
	calleeType := c.inferExpr(n.Callee, env)
	argTypes := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.inferExpr(a, env)
	}
	fn := calleeType.Underlying()
	if fn.Kind == types.KUnknown || fn.Kind == types.KError {
		return c.setType(n, types.Unknown())
	}
	if fn.Kind != types.KFunction {
		c.errorAt(n.ExprSpan(), cerrors.ErrNotCallable, fmt.Sprintf("%s is not callable", calleeType))
		return c.setType(n, types.ErrorType())
	}
	if len(fn.Params) != len(argTypes) {
		c.errorAt(n.ExprSpan(), cerrors.ErrArityMismatch,
			fmt.Sprintf("expected %d argument(s), got %d", len(fn.Params), len(argTypes)))
		return c.setType(n, fn.Return)
	}
	for i, want := range fn.Params {
		if _, err := types.Unify(argTypes[i], want); err != nil {
			c.errorAt(n.Args[i].ExprSpan(), cerrors.ErrTypeMismatch,
				fmt.Sprintf("argument %d: expected %s, got %s", i+1, want, argTypes[i]))
		}
	}
	return c.setType(n, fn.Return)
}

func (c *Checker) inferFieldAccess(n *ast.FieldAccessExpr, env *types.TypeEnvironment) *types.Type {
	recv := c.inferExpr(n.Receiver, env)
	recvU := recv.Underlying()
	if recvU.Kind == types.KUnknown || recvU.Kind == types.KError {
		return c.setType(n, types.Unknown())
	}
	if recv.IsNullable() {
		c.errorAt(n.ExprSpan(), cerrors.ErrNullabilityViolation,
			fmt.Sprintf("%q is nullable; use ?. or !! to access its fields", n.Field))
	}
	if recvU.Kind != types.KStruct {
		c.errorAt(n.ExprSpan(), cerrors.ErrNotIndexable, fmt.Sprintf("%s has no field %q", recv, n.Field))
		return c.setType(n, types.ErrorType())
	}
	for _, f := range recvU.Fields {
		if f.Name == n.Field {
			return c.setType(n, f.Type)
		}
	}
	c.errorAt(n.ExprSpan(), cerrors.ErrUndefinedIdentifier, fmt.Sprintf("%s has no field %q", recv, n.Field))
	return c.setType(n, types.ErrorType())
}

func (c *Checker) inferIndex(n *ast.IndexExpr, env *types.TypeEnvironment) *types.Type {
	recv := c.inferExpr(n.Receiver, env)
	c.inferExpr(n.Index, env)
	recvU := recv.Underlying()
	if recvU.Kind == types.KArray {
		return c.setType(n, recvU.Elem)
	}
	if recvU.Kind == types.KUnknown || recvU.Kind == types.KError {
		return c.setType(n, types.Unknown())
	}
	c.errorAt(n.ExprSpan(), cerrors.ErrNotIndexable, fmt.Sprintf("%s is not indexable", recv))
	return c.setType(n, types.ErrorType())
}

func (c *Checker) inferBlock(n *ast.BlockExpr, env *types.TypeEnvironment) *types.Type {
	scope := env.Child()
	result := types.Prim(types.Unit)
	for _, stmt := range n.Stmts {
		result = c.checkStmt(stmt, scope)
	}
	return c.setType(n, result)
}

func (c *Checker) checkStmt(s ast.Stmt, env *types.TypeEnvironment) *types.Type {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return c.inferExpr(n.Expr, env)
	case *ast.ReturnStmt:
		if n.Value != nil {
			valueType := c.inferExpr(n.Value, env)
			if c.currentReturn != nil {
				if _, err := types.Unify(valueType, c.currentReturn); err != nil {
					c.errorAt(n.Span, cerrors.ErrTypeMismatch,
						fmt.Sprintf("return type %s does not match declared %s", valueType, c.currentReturn))
				}
			}
		}
		return types.Prim(types.Never)
	case *ast.ValStmt:
		c.checkValDecl(n.Name, n.Type, n.Value, n.Span, env)
		return types.Prim(types.Unit)
	case *ast.VarStmt:
		c.checkValDecl(n.Name, n.Type, n.Value, n.Span, env)
		return types.Prim(types.Unit)
	case *ast.BreakStmt, *ast.ContinueStmt:
		return types.Prim(types.Never)
	}
	return types.Prim(types.Unit)
}

func (c *Checker) inferIf(n *ast.IfExpr, env *types.TypeEnvironment) *types.Type {
	condType := c.inferExpr(n.Cond, env)
	if !condType.Underlying().Equal(types.Prim(types.Bool)) {
		c.errorAt(n.Cond.ExprSpan(), cerrors.ErrTypeMismatch, "if condition must be Bool")
	}

	thenEnv := env.Child()
	applySmartCast(n.Cond, thenEnv, false)
	thenType := c.inferExpr(n.Then, thenEnv)

	if n.Else == nil {
		return c.setType(n, types.Prim(types.Unit))
	}
	elseEnv := env.Child()
	applySmartCast(n.Cond, elseEnv, true)
	elseType := c.inferExpr(n.Else, elseEnv)

	if thenType.IsNever() {
		return c.setType(n, elseType)
	}
	if elseType.IsNever() {
		return c.setType(n, thenType)
	}
	if _, err := types.Unify(thenType, elseType); err != nil {
		c.errorAt(n.ExprSpan(), cerrors.ErrTypeMismatch,
			fmt.Sprintf("if branches disagree: %s vs %s", thenType, elseType))
		return c.setType(n, types.ErrorType())
	}
	return c.setType(n, thenType)
}

// applySmartCast implements spec.md 4.F's narrowing: `if (x != null)`
// refines x to its non-nullable underlying type in the branch taken when
// the null-test succeeds (negate=true flips it for the opposite branch,
// e.g. an else-branch after `if (x == null)`).
func applySmartCast(cond ast.Expr, env *types.TypeEnvironment, negate bool) {
	bin, ok := cond.(*ast.BinaryExpr)
	if !ok {
		return
	}
	ident, isIdent := bin.Left.(*ast.IdentExpr)
	if !isIdent {
		return
	}
	lit, isLit := bin.Right.(*ast.LiteralExpr)
	if !isLit || lit.Kind != ast.LitNull {
		return
	}
	narrowOnNotNull := bin.Op == ast.OpNeq
	if negate {
		narrowOnNotNull = !narrowOnNotNull
	}
	if !narrowOnNotNull {
		return
	}
	if t, ok := env.Lookup("var:" + ident.Name); ok && t.IsNullable() {
		env.Refine("var:"+ident.Name, t.Underlying())
	}
}

func (c *Checker) inferWhen(n *ast.WhenExpr, env *types.TypeEnvironment) *types.Type {
	subjectType := c.inferExpr(n.Subject, env)
	var result *types.Type
	subjectIdent, subjectIsIdent := n.Subject.(*ast.IdentExpr)
	for i, arm := range n.Arms {
		armEnv := env.Child()
		if arm.TypeTest != nil && subjectIsIdent {
			armEnv.Refine("var:"+subjectIdent.Name, c.resolveTypeExpr(arm.TypeTest, env))
		}
		if arm.Pattern != nil {
			patType := c.inferExpr(arm.Pattern, armEnv)
			if _, err := types.Unify(patType, subjectType); err != nil {
				c.errorAt(arm.Span, cerrors.ErrTypeMismatch, "when arm pattern does not match subject type")
			}
		}
		if arm.Guard != nil {
			c.inferExpr(arm.Guard, armEnv)
		}
		bodyType := c.inferExpr(arm.Body, armEnv)
		if i == 0 {
			result = bodyType
		} else if !bodyType.IsNever() && !result.IsNever() {
			if _, err := types.Unify(result, bodyType); err != nil {
				c.errorAt(arm.Span, cerrors.ErrTypeMismatch, "when arms disagree in type")
			}
		} else if result.IsNever() {
			result = bodyType
		}
	}
	if result == nil {
		result = types.Prim(types.Unit)
	}
	return c.setType(n, result)
}

func (c *Checker) inferMatch(n *ast.MatchExpr, env *types.TypeEnvironment) *types.Type {
	subjectType := c.inferExpr(n.Subject, env)
	var result *types.Type
	for i, arm := range n.Arms {
		armEnv := env.Child()
		patType := c.inferExpr(arm.Pattern, armEnv)
		if _, err := types.Unify(patType, subjectType); err != nil {
			c.errorAt(arm.Span, cerrors.ErrTypeMismatch, "match arm pattern does not match subject type")
		}
		bodyType := c.inferExpr(arm.Body, armEnv)
		if i == 0 || result.IsNever() {
			result = bodyType
		} else if !bodyType.IsNever() {
			if _, err := types.Unify(result, bodyType); err != nil {
				c.errorAt(arm.Span, cerrors.ErrTypeMismatch, "match arms disagree in type")
			}
		}
	}
	if result == nil {
		result = types.Prim(types.Unit)
	}
	return c.setType(n, result)
}

func (c *Checker) inferForIn(n *ast.ForInExpr, env *types.TypeEnvironment) *types.Type {
	iterType := c.inferExpr(n.Iterable, env)
	elem := types.Unknown()
	if arr := iterType.Underlying(); arr.Kind == types.KArray {
		elem = arr.Elem
	}
	bodyEnv := env.Child()
	bodyEnv.Define("var:"+n.Binding, elem)
	c.inferExpr(n.Body, bodyEnv)
	return c.setType(n, types.Prim(types.Unit))
}

func (c *Checker) inferWhile(n *ast.WhileExpr, env *types.TypeEnvironment) *types.Type {
	condType := c.inferExpr(n.Cond, env)
	if !condType.Underlying().Equal(types.Prim(types.Bool)) {
		c.errorAt(n.Cond.ExprSpan(), cerrors.ErrTypeMismatch, "while condition must be Bool")
	}
	c.inferExpr(n.Body, env.Child())
	return c.setType(n, types.Prim(types.Unit))
}

func (c *Checker) inferLambda(n *ast.LambdaExpr, env *types.TypeEnvironment) *types.Type {
	scope := env.Child()
	params := make([]*types.Type, len(n.Params))
	for i, p := range n.Params {
		pt := c.freshVar()
		if p.Type != nil {
			pt = c.resolveTypeExpr(p.Type, scope)
		}
		params[i] = pt
		scope.Define("var:"+p.Name, pt)
	}
	bodyType := c.inferExpr(n.Body, scope)
	ret := bodyType
	if n.ReturnType != nil {
		ret = c.resolveTypeExpr(n.ReturnType, scope)
	}
	return c.setType(n, types.Function(params, ret, false))
}

func (c *Checker) inferSafeNav(n *ast.SafeNavExpr, env *types.TypeEnvironment) *types.Type {
	recv := c.inferExpr(n.Receiver, env)
	if !recv.IsNullable() {
		c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "?. on a non-nullable receiver; use . instead")
	}
	recvU := recv.Underlying()
	if recvU.Kind != types.KStruct {
		if recvU.Kind == types.KUnknown || recvU.Kind == types.KError {
			return c.setType(n, types.Nullable(types.Unknown()))
		}
		c.errorAt(n.ExprSpan(), cerrors.ErrNotIndexable, fmt.Sprintf("%s has no field %q", recv, n.Field))
		return c.setType(n, types.ErrorType())
	}
	for _, f := range recvU.Fields {
		if f.Name == n.Field {
			// spec.md 4.F: "?. on T? yields U?".
			return c.setType(n, types.Nullable(f.Type))
		}
	}
	c.errorAt(n.ExprSpan(), cerrors.ErrUndefinedIdentifier, fmt.Sprintf("%s has no field %q", recv, n.Field))
	return c.setType(n, types.ErrorType())
}

func (c *Checker) inferElvis(n *ast.ElvisExpr, env *types.TypeEnvironment) *types.Type {
	left := c.inferExpr(n.Left, env)
	right := c.inferExpr(n.Right, env)
	if !left.IsNullable() {
		c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "?: left operand must be nullable")
	}
	// spec.md 4.F: "?: on T? and T yields T".
	if _, err := types.Unify(left.Underlying(), right); err != nil {
		c.errorAt(n.ExprSpan(), cerrors.ErrTypeMismatch,
			fmt.Sprintf("elvis default %s does not match %s", right, left.Underlying()))
	}
	return c.setType(n, right)
}

func (c *Checker) inferForceUnwrap(n *ast.ForceUnwrapExpr, env *types.TypeEnvironment) *types.Type {
	operand := c.inferExpr(n.Operand, env)
	if !operand.IsNullable() {
		c.errorAt(n.ExprSpan(), cerrors.ErrInvalidOperatorUse, "!! on a non-nullable operand has no effect")
		return c.setType(n, operand)
	}
	// spec.md 4.F: "!! on T? yields T and can fail at runtime".
	return c.setType(n, operand.Underlying())
}

func (c *Checker) inferInterpolated(n *ast.InterpolatedStringExpr, env *types.TypeEnvironment) *types.Type {
	for _, part := range n.Parts {
		if part.IsExpr {
			c.inferExpr(part.Expr, env)
		}
	}
	return c.setType(n, types.Prim(types.Str))
}
