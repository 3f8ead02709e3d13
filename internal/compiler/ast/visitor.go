package ast

// Visitor walks a tree read-only. Each Visit method returns a child
// visitor to continue into that node's children, or nil to stop
// descending; Walk supplies the default "visit every child" behavior, so
// a visitor that returns itself from all four methods sees every node
// (see BaseVisitor for why embedding it does not achieve that).
type Visitor interface {
	VisitProgram(*Program) Visitor
	VisitItem(Item) Visitor
	VisitExpr(Expr) Visitor
	VisitStmt(Stmt) Visitor
}

// BaseVisitor is a complete no-op Visitor, useful on its own when a
// caller wants to drive Walk purely for its side effects (none) or as a
// starting point to copy from. Note that embedding it and overriding
// only some methods does NOT give "continue with the embedder" for the
// un-overridden ones: Go dispatches promoted methods on the embedded
// value, not the outer type, so an un-overridden method returns a bare
// BaseVisitor and the walk silently stops taking the embedder's
// overrides from that point down. A Visitor meant to recurse should
// implement all four methods and return itself from each.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) Visitor { return BaseVisitor{} }
func (BaseVisitor) VisitItem(Item) Visitor         { return BaseVisitor{} }
func (BaseVisitor) VisitExpr(Expr) Visitor         { return BaseVisitor{} }
func (BaseVisitor) VisitStmt(Stmt) Visitor         { return BaseVisitor{} }

// Walk drives v over prog's full tree, calling the appropriate Visit*
// method at every node and recursing into children using whatever
// visitor each call returns (nil stops that branch).
func Walk(v Visitor, prog *Program) {
	if v = v.VisitProgram(prog); v == nil {
		return
	}
	for _, item := range prog.Items {
		WalkItem(v, item)
	}
}

func WalkItem(v Visitor, item Item) {
	if v = v.VisitItem(item); v == nil {
		return
	}
	switch it := item.(type) {
	case *FunItem:
		for _, p := range it.Params {
			walkTypeExpr(v, p.Type)
		}
		walkTypeExpr(v, it.ReturnType)
		if it.Body != nil {
			WalkExpr(v, it.Body)
		}
	case *StructItem:
		for _, f := range it.Fields {
			walkTypeExpr(v, f.Type)
		}
	case *EnumItem:
		for _, variant := range it.Variants {
			for _, f := range variant.Fields {
				walkTypeExpr(v, f.Type)
			}
		}
	case *InterfaceItem:
		for _, m := range it.Methods {
			for _, p := range m.Params {
				walkTypeExpr(v, p.Type)
			}
			walkTypeExpr(v, m.ReturnType)
		}
	case *ExtensionItem:
		for _, m := range it.Methods {
			WalkItem(v, m)
		}
	case *ValItem:
		walkTypeExpr(v, it.Type)
		if it.Value != nil {
			WalkExpr(v, it.Value)
		}
	case *VarItem:
		walkTypeExpr(v, it.Type)
		if it.Value != nil {
			WalkExpr(v, it.Value)
		}
	case *TypeAliasItem:
		walkTypeExpr(v, it.Aliased)
	}
}

func walkTypeExpr(v Visitor, t *TypeExpr) {
	if t == nil {
		return
	}
	for _, g := range t.Generics {
		walkTypeExpr(v, g)
	}
}

// WalkExpr recurses into e's children, dispatching on the concrete node
// kind. It is exported so typecheckers and lowering passes that already
// hold an Expr (e.g. from a parent node) can resume the walk directly.
func WalkExpr(v Visitor, e Expr) {
	if e == nil {
		return
	}
	if v = v.VisitExpr(e); v == nil {
		return
	}
	switch n := e.(type) {
	case *LiteralExpr, *IdentExpr, *ErrorExpr:
		// leaves
	case *BinaryExpr:
		WalkExpr(v, n.Left)
		WalkExpr(v, n.Right)
	case *UnaryExpr:
		WalkExpr(v, n.Operand)
	case *CallExpr:
		WalkExpr(v, n.Callee)
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	case *FieldAccessExpr:
		WalkExpr(v, n.Receiver)
	case *IndexExpr:
		WalkExpr(v, n.Receiver)
		WalkExpr(v, n.Index)
	case *BlockExpr:
		for _, s := range n.Stmts {
			WalkStmt(v, s)
		}
	case *IfExpr:
		WalkExpr(v, n.Cond)
		WalkExpr(v, n.Then)
		if n.Else != nil {
			WalkExpr(v, n.Else)
		}
	case *WhenExpr:
		WalkExpr(v, n.Subject)
		for _, arm := range n.Arms {
			if arm.Pattern != nil {
				WalkExpr(v, arm.Pattern)
			}
			if arm.Guard != nil {
				WalkExpr(v, arm.Guard)
			}
			WalkExpr(v, arm.Body)
		}
	case *MatchExpr:
		WalkExpr(v, n.Subject)
		for _, arm := range n.Arms {
			WalkExpr(v, arm.Pattern)
			WalkExpr(v, arm.Body)
		}
	case *ForInExpr:
		WalkExpr(v, n.Iterable)
		WalkExpr(v, n.Body)
	case *WhileExpr:
		WalkExpr(v, n.Cond)
		WalkExpr(v, n.Body)
	case *LambdaExpr:
		WalkExpr(v, n.Body)
	case *ReactiveBuilderExpr:
		WalkExpr(v, n.Body)
	case *SafeNavExpr:
		WalkExpr(v, n.Receiver)
	case *ElvisExpr:
		WalkExpr(v, n.Left)
		WalkExpr(v, n.Right)
	case *ForceUnwrapExpr:
		WalkExpr(v, n.Operand)
	case *InterpolatedStringExpr:
		for _, part := range n.Parts {
			if part.IsExpr {
				WalkExpr(v, part.Expr)
			}
		}
	}
}

func WalkStmt(v Visitor, s Stmt) {
	if v = v.VisitStmt(s); v == nil {
		return
	}
	switch n := s.(type) {
	case *ExprStmt:
		WalkExpr(v, n.Expr)
	case *ReturnStmt:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	case *ValStmt:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	case *VarStmt:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	case *BreakStmt, *ContinueStmt:
		// leaves
	}
}

// MutVisitor rewrites a tree, returning a (possibly new) node at each
// step so a pass can substitute nodes in place — e.g. constant folding
// replacing a BinaryExpr with a LiteralExpr. Returning the same node
// unchanged is the identity transform.
type MutVisitor interface {
	MutateExpr(Expr) Expr
	MutateStmt(Stmt) Stmt
}

// MutateProgram rewrites every item's reachable expressions in place
// using v, in Program.Items order.
func MutateProgram(v MutVisitor, prog *Program) {
	for _, item := range prog.Items {
		MutateItem(v, item)
	}
}

func MutateItem(v MutVisitor, item Item) {
	switch it := item.(type) {
	case *FunItem:
		if it.Body != nil {
			it.Body = mutateBlock(v, it.Body)
		}
	case *ExtensionItem:
		for _, m := range it.Methods {
			MutateItem(v, m)
		}
	case *ValItem:
		if it.Value != nil {
			it.Value = v.MutateExpr(it.Value)
		}
	case *VarItem:
		if it.Value != nil {
			it.Value = v.MutateExpr(it.Value)
		}
	}
}

func mutateBlock(v MutVisitor, b *BlockExpr) *BlockExpr {
	for i, s := range b.Stmts {
		b.Stmts[i] = v.MutateStmt(s)
	}
	return b
}
