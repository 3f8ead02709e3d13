// Package ast defines the spanned syntax tree the parser produces: a
// Program of Items, expressions carrying a unique id for later typing,
// and the Visitor/MutVisitor traversal contracts later passes use for
// collection, transformation, and analysis (spec.md 4.D).
package ast

import "github.com/seen-lang/seenc/internal/compiler/lexer"

// Span is reused directly from the lexer: every AST node's span is a
// sub-range of the token stream that produced it.
type Span = lexer.Span

// NextID is bumped by the parser (or any other tree builder) to hand out
// unique expression ids; ast itself never allocates one on its own so a
// rewritten tree can preserve old ids where it chooses to.
type NextID struct{ n uint64 }

// Next returns the next unused id, starting at 1 (0 means "unassigned").
func (g *NextID) Next() uint64 {
	g.n++
	return g.n
}

// Program is the AST root: a flat list of top-level items.
type Program struct {
	Items []Item
	Span  Span
}

// Visibility is derived from the identifier's capitalization at lex time
// (spec.md 4.C): a capitalized name is Public.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// ---- Items ----

// Item is any top-level declaration.
type Item interface {
	itemNode()
	ItemSpan() Span
}

type Param struct {
	Name string
	Type *TypeExpr
	Span Span
}

type GenericParam struct {
	Name   string
	Bounds []string // interface/type names this generic must satisfy
}

type FunItem struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Params     []Param
	ReturnType *TypeExpr // nil means Unit
	IsSuspend  bool
	Body       *BlockExpr
	Span_      Span
}

func (*FunItem) itemNode()            {}
func (f *FunItem) ItemSpan() Span     { return f.Span_ }

type FieldDecl struct {
	Name string
	Type *TypeExpr
	Span Span
}

type StructItem struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Fields     []FieldDecl
	Span_      Span
}

func (*StructItem) itemNode()        {}
func (s *StructItem) ItemSpan() Span { return s.Span_ }

type EnumVariant struct {
	Name   string
	Fields []FieldDecl // empty for a unit variant
	Span   Span
}

type EnumItem struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Variants   []EnumVariant
	Span_      Span
}

func (*EnumItem) itemNode()        {}
func (e *EnumItem) ItemSpan() Span { return e.Span_ }

type MethodSig struct {
	Name       string
	Params     []Param
	ReturnType *TypeExpr
	Span       Span
}

type InterfaceItem struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Methods    []MethodSig
	Span_      Span
}

func (*InterfaceItem) itemNode()        {}
func (i *InterfaceItem) ItemSpan() Span { return i.Span_ }

// ExtensionItem adds methods to an existing type without modifying its
// declaration, per spec.md 9's open question on extension-method dispatch
// (resolved in DESIGN.md: static dispatch, see internal/compiler/lowering).
type ExtensionItem struct {
	TargetType string
	Generics   []GenericParam
	Methods    []*FunItem
	Span_      Span
}

func (*ExtensionItem) itemNode()        {}
func (e *ExtensionItem) ItemSpan() Span { return e.Span_ }

type ValItem struct {
	Name       string
	Visibility Visibility
	Type       *TypeExpr // nil when inferred
	Value      Expr
	Span_      Span
}

func (*ValItem) itemNode()        {}
func (v *ValItem) ItemSpan() Span { return v.Span_ }

type VarItem struct {
	Name       string
	Visibility Visibility
	Type       *TypeExpr
	Value      Expr
	Span_      Span
}

func (*VarItem) itemNode()        {}
func (v *VarItem) ItemSpan() Span { return v.Span_ }

type TypeAliasItem struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Aliased    *TypeExpr
	Span_      Span
}

func (*TypeAliasItem) itemNode()        {}
func (t *TypeAliasItem) ItemSpan() Span { return t.Span_ }

// ---- Type expressions ----

// TypeExpr is the parsed shape of a type annotation: a name, optional
// generic arguments, and a nullability marker (spec.md 3 AST invariant:
// IsNullable only attaches to reference-capable types, enforced by the
// type checker rather than the parser).
type TypeExpr struct {
	Name       string
	Generics   []*TypeExpr
	IsNullable bool
	Span       Span
}

// ---- Expressions ----

// Expr is any expression node. Every Expr has a unique id assigned at
// parse time (spec.md 3's "expression ids are unique") so later passes
// can attach inferred types in a side table instead of mutating the node.
type Expr interface {
	exprNode()
	ExprID() uint64
	ExprSpan() Span
}

type exprBase struct {
	ID_   uint64
	Span_ Span
}

func (e exprBase) ExprID() uint64  { return e.ID_ }
func (e exprBase) ExprSpan() Span  { return e.Span_ }

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

type LiteralExpr struct {
	exprBase
	Kind   LiteralKind
	Int    int64
	Float  float64
	Str    string
	Bool   bool
}

func (*LiteralExpr) exprNode() {}

type IdentExpr struct {
	exprBase
	Name string
}

func (*IdentExpr) exprNode() {}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

type BinaryExpr struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

type FieldAccessExpr struct {
	exprBase
	Receiver Expr
	Field    string
}

func (*FieldAccessExpr) exprNode() {}

type IndexExpr struct {
	exprBase
	Receiver Expr
	Index    Expr
}

func (*IndexExpr) exprNode() {}

type BlockExpr struct {
	exprBase
	Stmts []Stmt
}

func (*BlockExpr) exprNode() {}

type IfExpr struct {
	exprBase
	Cond       Expr
	Then       *BlockExpr
	Else       Expr // *BlockExpr or *IfExpr, nil if absent
}

func (*IfExpr) exprNode() {}

// WhenArm is one `is Type ->` or `value ->` arm of a when/match expression.
type WhenArm struct {
	Pattern Expr // nil means the `else` arm
	TypeTest *TypeExpr // non-nil for `is T` arms (smart-cast)
	Guard   Expr      // optional extra boolean condition
	Body    Expr
	Span    Span
}

type WhenExpr struct {
	exprBase
	Subject Expr
	Arms    []WhenArm
}

func (*WhenExpr) exprNode() {}

// MatchExpr is the pattern-matching sibling of WhenExpr; kept distinct
// because match arms destructure rather than type-test.
type MatchArm struct {
	Pattern Expr
	Body    Expr
	Span    Span
}

type MatchExpr struct {
	exprBase
	Subject Expr
	Arms    []MatchArm
}

func (*MatchExpr) exprNode() {}

type ForInExpr struct {
	exprBase
	Binding  string
	Iterable Expr
	Body     *BlockExpr
}

func (*ForInExpr) exprNode() {}

type WhileExpr struct {
	exprBase
	Cond Expr
	Body *BlockExpr
}

func (*WhileExpr) exprNode() {}

type LambdaExpr struct {
	exprBase
	Params     []Param
	ReturnType *TypeExpr
	Body       *BlockExpr
}

func (*LambdaExpr) exprNode() {}

// ReactiveBuilderKind distinguishes `flow { }` from `reactive { }` blocks
// (spec.md 4.E grammar highlights).
type ReactiveBuilderKind int

const (
	BuilderFlow ReactiveBuilderKind = iota
	BuilderReactive
)

type ReactiveBuilderExpr struct {
	exprBase
	Kind ReactiveBuilderKind
	Body *BlockExpr
}

func (*ReactiveBuilderExpr) exprNode() {}

type SafeNavExpr struct {
	exprBase
	Receiver Expr
	Field    string
}

func (*SafeNavExpr) exprNode() {}

type ElvisExpr struct {
	exprBase
	Left, Right Expr
}

func (*ElvisExpr) exprNode() {}

type ForceUnwrapExpr struct {
	exprBase
	Operand Expr
}

func (*ForceUnwrapExpr) exprNode() {}

// InterpolatedStringPart mirrors lexer.InterpolationPart but with the
// expression slice already re-parsed into an Expr.
type InterpolatedStringPart struct {
	IsExpr bool
	Text   string
	Expr   Expr
}

type InterpolatedStringExpr struct {
	exprBase
	Parts []InterpolatedStringPart
}

func (*InterpolatedStringExpr) exprNode() {}

// ErrorExpr is the placeholder the parser substitutes at an expression
// position it could not parse, per spec.md 4.E's error-recovery rule.
type ErrorExpr struct {
	exprBase
	Message string
}

func (*ErrorExpr) exprNode() {}

// ---- Statements ----

type Stmt interface {
	stmtNode()
	StmtSpan() Span
}

type ExprStmt struct {
	Expr Expr
	Span Span
}

func (*ExprStmt) stmtNode()        {}
func (s *ExprStmt) StmtSpan() Span { return s.Span }

type ReturnStmt struct {
	Value Expr // nil for a bare `return`
	Span  Span
}

func (*ReturnStmt) stmtNode()        {}
func (s *ReturnStmt) StmtSpan() Span { return s.Span }

type BreakStmt struct{ Span Span }

func (*BreakStmt) stmtNode()        {}
func (s *BreakStmt) StmtSpan() Span { return s.Span }

type ContinueStmt struct{ Span Span }

func (*ContinueStmt) stmtNode()        {}
func (s *ContinueStmt) StmtSpan() Span { return s.Span }

// ValStmt/VarStmt are the statement-position counterparts of ValItem/
// VarItem, used for local bindings inside a function body.
type ValStmt struct {
	Name  string
	Type  *TypeExpr
	Value Expr
	Span  Span
}

func (*ValStmt) stmtNode()        {}
func (s *ValStmt) StmtSpan() Span { return s.Span }

type VarStmt struct {
	Name  string
	Type  *TypeExpr
	Value Expr
	Span  Span
}

func (*VarStmt) stmtNode()        {}
func (s *VarStmt) StmtSpan() Span { return s.Span }
