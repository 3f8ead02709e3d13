package parser

import (
	"testing"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

func english(t *testing.T) *keyword.Table {
	t.Helper()
	lang, ok := keyword.Lookup("en")
	if !ok {
		t.Fatal("missing built-in English language table")
	}
	return lang.Table
}

func parse(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	l := lexer.New(src, "t.seen", 0, "en", english(t))
	tokens, diags := l.Tokenize()
	if len(diags) != 0 {
		t.Fatalf("unexpected lex diagnostics: %v", diags)
	}
	p := New(tokens, "t.seen").WithLanguage("en", english(t))
	prog, rec := p.Parse()
	if rec.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %s", rec.FormatForTerminal())
	}
	return prog, p
}

func TestParser_SimpleFunction(t *testing.T) {
	prog, _ := parse(t, `fun main() { println("Hello") }`)
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FunItem)
	if !ok {
		t.Fatalf("expected *ast.FunItem, got %T", prog.Items[0])
	}
	if fn.Name != "main" {
		t.Errorf("name = %q, want main", fn.Name)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body.Stmts))
	}
	exprStmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", fn.Body.Stmts[0])
	}
	call, ok := exprStmt.Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", exprStmt.Expr)
	}
	if callee, ok := call.Callee.(*ast.IdentExpr); !ok || callee.Name != "println" {
		t.Errorf("expected callee println, got %+v", call.Callee)
	}
}

func TestParser_FunctionWithParamsAndReturnType(t *testing.T) {
	prog, _ := parse(t, `fun add(a: I32, b: I32) -> I32 { return a + b }`)
	fn := prog.Items[0].(*ast.FunItem)
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "I32" {
		t.Fatalf("expected return type I32, got %+v", fn.ReturnType)
	}
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr return value, got %T", ret.Value)
	}
	if bin.Op != ast.OpAdd {
		t.Errorf("expected OpAdd, got %v", bin.Op)
	}
}

func TestParser_ArithmeticPrecedence(t *testing.T) {
	prog, _ := parse(t, `val x = 2 + 3 * 4`)
	item := prog.Items[0].(*ast.ValItem)
	bin := item.Value.(*ast.BinaryExpr)
	if bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level op to be +, got %v", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected right side to be 3 * 4, got %+v", bin.Right)
	}
}

func TestParser_NullableOperators(t *testing.T) {
	prog, _ := parse(t, `val s = user?.name ?: "Anonymous"`)
	item := prog.Items[0].(*ast.ValItem)
	elvis, ok := item.Value.(*ast.ElvisExpr)
	if !ok {
		t.Fatalf("expected top-level ElvisExpr, got %T", item.Value)
	}
	safeNav, ok := elvis.Left.(*ast.SafeNavExpr)
	if !ok {
		t.Fatalf("expected left side to be SafeNavExpr, got %T", elvis.Left)
	}
	if safeNav.Field != "name" {
		t.Errorf("field = %q, want name", safeNav.Field)
	}
	if _, ok := elvis.Right.(*ast.LiteralExpr); !ok {
		t.Fatalf("expected right side to be a literal, got %T", elvis.Right)
	}
}

func TestParser_ForceUnwrapPostfix(t *testing.T) {
	prog, _ := parse(t, `val x = maybe!!`)
	item := prog.Items[0].(*ast.ValItem)
	if _, ok := item.Value.(*ast.ForceUnwrapExpr); !ok {
		t.Fatalf("expected ForceUnwrapExpr, got %T", item.Value)
	}
}

func TestParser_StructDecl(t *testing.T) {
	prog, _ := parse(t, `struct User { name: Str, age: I32 }`)
	s := prog.Items[0].(*ast.StructItem)
	if s.Name != "User" {
		t.Errorf("name = %q, want User", s.Name)
	}
	if s.Visibility != ast.Public {
		t.Error("expected User to be public (capitalized)")
	}
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
}

func TestParser_NullableFieldType(t *testing.T) {
	prog, _ := parse(t, `struct Profile { bio: Str? }`)
	s := prog.Items[0].(*ast.StructItem)
	if !s.Fields[0].Type.IsNullable {
		t.Error("expected bio field type to be nullable")
	}
}

func TestParser_EnumWithVariantFields(t *testing.T) {
	prog, _ := parse(t, `enum Shape { Circle(radius: F64), Square(side: F64), Point }`)
	e := prog.Items[0].(*ast.EnumItem)
	if len(e.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(e.Variants))
	}
	if len(e.Variants[0].Fields) != 1 || e.Variants[0].Fields[0].Name != "radius" {
		t.Errorf("unexpected Circle fields: %+v", e.Variants[0].Fields)
	}
	if len(e.Variants[2].Fields) != 0 {
		t.Errorf("expected Point to be a unit variant")
	}
}

func TestParser_IfElseExpression(t *testing.T) {
	prog, _ := parse(t, `fun f() { if x > 0 { return 1 } else { return 0 } }`)
	fn := prog.Items[0].(*ast.FunItem)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	ifExpr, ok := exprStmt.Expr.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected IfExpr, got %T", exprStmt.Expr)
	}
	if ifExpr.Else == nil {
		t.Fatal("expected an else branch")
	}
}

func TestParser_WhenWithIsArmSmartCast(t *testing.T) {
	prog, _ := parse(t, `
fun describe(x: Shape) {
	when x {
		is Circle -> return 1
		else -> return 0
	}
}`)
	fn := prog.Items[0].(*ast.FunItem)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	when, ok := exprStmt.Expr.(*ast.WhenExpr)
	if !ok {
		t.Fatalf("expected WhenExpr, got %T", exprStmt.Expr)
	}
	if len(when.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(when.Arms))
	}
	if when.Arms[0].TypeTest == nil || when.Arms[0].TypeTest.Name != "Circle" {
		t.Errorf("expected first arm to be 'is Circle', got %+v", when.Arms[0])
	}
	if when.Arms[1].Pattern != nil || when.Arms[1].TypeTest != nil {
		t.Error("expected second arm to be the else arm")
	}
}

func TestParser_ForInLoop(t *testing.T) {
	prog, _ := parse(t, `fun f() { for x in items { println(x) } }`)
	fn := prog.Items[0].(*ast.FunItem)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	forIn, ok := exprStmt.Expr.(*ast.ForInExpr)
	if !ok {
		t.Fatalf("expected ForInExpr, got %T", exprStmt.Expr)
	}
	if forIn.Binding != "x" {
		t.Errorf("binding = %q, want x", forIn.Binding)
	}
}

func TestParser_ReactiveBuilder(t *testing.T) {
	prog, _ := parse(t, `fun f() { flow { emit(1) } }`)
	fn := prog.Items[0].(*ast.FunItem)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	builder, ok := exprStmt.Expr.(*ast.ReactiveBuilderExpr)
	if !ok {
		t.Fatalf("expected ReactiveBuilderExpr, got %T", exprStmt.Expr)
	}
	if builder.Kind != ast.BuilderFlow {
		t.Errorf("expected BuilderFlow, got %v", builder.Kind)
	}
}

func TestParser_GenericStruct(t *testing.T) {
	prog, _ := parse(t, `struct Box<T> { value: T }`)
	s := prog.Items[0].(*ast.StructItem)
	if len(s.Generics) != 1 || s.Generics[0].Name != "T" {
		t.Fatalf("expected generic param T, got %+v", s.Generics)
	}
}

func TestParser_GenericBound(t *testing.T) {
	prog, _ := parse(t, `fun max<T: Ord>(a: T, b: T) -> T { return a }`)
	fn := prog.Items[0].(*ast.FunItem)
	if len(fn.Generics) != 1 || len(fn.Generics[0].Bounds) != 1 || fn.Generics[0].Bounds[0] != "Ord" {
		t.Fatalf("expected generic T: Ord, got %+v", fn.Generics)
	}
}

func TestParser_InterpolatedStringReentersExpressionParsing(t *testing.T) {
	prog, _ := parse(t, `val greeting = "Hello, {name}!"`)
	item := prog.Items[0].(*ast.ValItem)
	interp, ok := item.Value.(*ast.InterpolatedStringExpr)
	if !ok {
		t.Fatalf("expected InterpolatedStringExpr, got %T", item.Value)
	}
	if len(interp.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(interp.Parts))
	}
	if interp.Parts[0].IsExpr || interp.Parts[0].Text != "Hello, " {
		t.Errorf("part 0 = %+v", interp.Parts[0])
	}
	ident, ok := interp.Parts[1].Expr.(*ast.IdentExpr)
	if !ok || ident.Name != "name" {
		t.Fatalf("expected part 1 to re-parse to IdentExpr(name), got %+v", interp.Parts[1].Expr)
	}
}

func TestParser_ExtensionMethodStaticDispatch(t *testing.T) {
	prog, _ := parse(t, `
extension User {
	fun greeting() -> Str { return "hi" }
}`)
	ext := prog.Items[0].(*ast.ExtensionItem)
	if ext.TargetType != "User" {
		t.Errorf("target = %q, want User", ext.TargetType)
	}
	if len(ext.Methods) != 1 || ext.Methods[0].Name != "greeting" {
		t.Fatalf("unexpected methods: %+v", ext.Methods)
	}
}

func TestParser_Lambda(t *testing.T) {
	prog, _ := parse(t, `val add = (a: I32, b: I32) -> I32 { return a + b }`)
	item := prog.Items[0].(*ast.ValItem)
	lambda, ok := item.Value.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected LambdaExpr, got %T", item.Value)
	}
	if len(lambda.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(lambda.Params))
	}
}

func TestParser_ErrorRecoveryStillProducesRemainingItems(t *testing.T) {
	src := "val 123 = 1\nfun f() { return 1 }"
	l := lexer.New(src, "t.seen", 0, "en", english(t))
	tokens, _ := l.Tokenize()
	p := New(tokens, "t.seen")
	prog, rec := p.Parse()
	if !rec.HasErrors() {
		t.Fatal("expected a diagnostic from the malformed val declaration")
	}
	var found bool
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FunItem); ok && fn.Name == "f" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the parser to recover and still produce the following function item")
	}
}

func TestParser_ExpressionIDsAreUnique(t *testing.T) {
	prog, _ := parse(t, `fun f() { val a = 1 + 2 * 3 }`)
	c := &idCollector{ids: map[uint64]bool{}}
	ast.Walk(c, prog)
	if len(c.ids) == 0 {
		t.Fatal("expected the walk to visit at least one expression")
	}
}

// idCollector overrides every Visit* method so the walk keeps using it
// at every depth (BaseVisitor's promoted methods would otherwise reset
// traversal to a plain BaseVisitor after the first unoverridden call).
type idCollector struct {
	ast.BaseVisitor
	ids map[uint64]bool
}

func (c *idCollector) VisitProgram(pr *ast.Program) ast.Visitor { return c }
func (c *idCollector) VisitItem(it ast.Item) ast.Visitor        { return c }
func (c *idCollector) VisitStmt(s ast.Stmt) ast.Visitor         { return c }

func (c *idCollector) VisitExpr(e ast.Expr) ast.Visitor {
	if c.ids[e.ExprID()] {
		panic("duplicate expression id")
	}
	c.ids[e.ExprID()] = true
	return c
}
