package ast

// Constructor functions for every Expr variant. exprBase is unexported
// so that external packages (the parser, lowering passes building
// synthetic nodes) go through these rather than poking at the id/span
// bookkeeping directly.

func NewLiteralInt(id uint64, span Span, v int64) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{id, span}, Kind: LitInt, Int: v}
}

func NewLiteralFloat(id uint64, span Span, v float64) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{id, span}, Kind: LitFloat, Float: v}
}

func NewLiteralString(id uint64, span Span, v string) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{id, span}, Kind: LitString, Str: v}
}

func NewLiteralBool(id uint64, span Span, v bool) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{id, span}, Kind: LitBool, Bool: v}
}

func NewLiteralNull(id uint64, span Span) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{id, span}, Kind: LitNull}
}

func NewIdent(id uint64, span Span, name string) *IdentExpr {
	return &IdentExpr{exprBase: exprBase{id, span}, Name: name}
}

func NewBinary(id uint64, span Span, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: exprBase{id, span}, Op: op, Left: left, Right: right}
}

func NewUnary(id uint64, span Span, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{exprBase: exprBase{id, span}, Op: op, Operand: operand}
}

func NewCall(id uint64, span Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{exprBase: exprBase{id, span}, Callee: callee, Args: args}
}

func NewFieldAccess(id uint64, span Span, receiver Expr, field string) *FieldAccessExpr {
	return &FieldAccessExpr{exprBase: exprBase{id, span}, Receiver: receiver, Field: field}
}

func NewIndex(id uint64, span Span, receiver, index Expr) *IndexExpr {
	return &IndexExpr{exprBase: exprBase{id, span}, Receiver: receiver, Index: index}
}

func NewBlock(id uint64, span Span, stmts []Stmt) *BlockExpr {
	return &BlockExpr{exprBase: exprBase{id, span}, Stmts: stmts}
}

func NewIf(id uint64, span Span, cond Expr, then *BlockExpr, els Expr) *IfExpr {
	return &IfExpr{exprBase: exprBase{id, span}, Cond: cond, Then: then, Else: els}
}

func NewWhen(id uint64, span Span, subject Expr, arms []WhenArm) *WhenExpr {
	return &WhenExpr{exprBase: exprBase{id, span}, Subject: subject, Arms: arms}
}

func NewMatch(id uint64, span Span, subject Expr, arms []MatchArm) *MatchExpr {
	return &MatchExpr{exprBase: exprBase{id, span}, Subject: subject, Arms: arms}
}

func NewForIn(id uint64, span Span, binding string, iterable Expr, body *BlockExpr) *ForInExpr {
	return &ForInExpr{exprBase: exprBase{id, span}, Binding: binding, Iterable: iterable, Body: body}
}

func NewWhile(id uint64, span Span, cond Expr, body *BlockExpr) *WhileExpr {
	return &WhileExpr{exprBase: exprBase{id, span}, Cond: cond, Body: body}
}

func NewLambda(id uint64, span Span, params []Param, ret *TypeExpr, body *BlockExpr) *LambdaExpr {
	return &LambdaExpr{exprBase: exprBase{id, span}, Params: params, ReturnType: ret, Body: body}
}

func NewReactiveBuilder(id uint64, span Span, kind ReactiveBuilderKind, body *BlockExpr) *ReactiveBuilderExpr {
	return &ReactiveBuilderExpr{exprBase: exprBase{id, span}, Kind: kind, Body: body}
}

func NewSafeNav(id uint64, span Span, receiver Expr, field string) *SafeNavExpr {
	return &SafeNavExpr{exprBase: exprBase{id, span}, Receiver: receiver, Field: field}
}

func NewElvis(id uint64, span Span, left, right Expr) *ElvisExpr {
	return &ElvisExpr{exprBase: exprBase{id, span}, Left: left, Right: right}
}

func NewForceUnwrap(id uint64, span Span, operand Expr) *ForceUnwrapExpr {
	return &ForceUnwrapExpr{exprBase: exprBase{id, span}, Operand: operand}
}

func NewInterpolatedString(id uint64, span Span, parts []InterpolatedStringPart) *InterpolatedStringExpr {
	return &InterpolatedStringExpr{exprBase: exprBase{id, span}, Parts: parts}
}

func NewErrorExpr(id uint64, span Span, message string) *ErrorExpr {
	return &ErrorExpr{exprBase: exprBase{id, span}, Message: message}
}
