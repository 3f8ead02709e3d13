package ast

import (
	"testing"

	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

func sp(startOff, endOff int) Span {
	return Span{Start: lexer.Position{Offset: startOff}, End: lexer.Position{Offset: endOff}}
}

func TestNextID_MonotonicAndUnique(t *testing.T) {
	var gen NextID
	seen := map[uint64]bool{}
	for i := 0; i < 5; i++ {
		id := gen.Next()
		if id == 0 {
			t.Fatal("id 0 is reserved for 'unassigned'")
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

// countingVisitor tallies every expression kind it sees, proving Walk
// reaches every reachable node exactly once.
type countingVisitor struct {
	BaseVisitor
	exprs int
	stmts int
	items int
}

func (c *countingVisitor) VisitProgram(pr *Program) Visitor {
	return c
}

func (c *countingVisitor) VisitItem(it Item) Visitor {
	c.items++
	return c
}

func (c *countingVisitor) VisitExpr(e Expr) Visitor {
	c.exprs++
	return c
}

func (c *countingVisitor) VisitStmt(s Stmt) Visitor {
	c.stmts++
	return c
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	var gen NextID
	// fun main() { val x = 1 + 2 return x }
	body := &BlockExpr{
		exprBase: exprBase{ID_: gen.Next(), Span_: sp(10, 40)},
		Stmts: []Stmt{
			&ValStmt{
				Name: "x",
				Value: &BinaryExpr{
					exprBase: exprBase{ID_: gen.Next(), Span_: sp(15, 20)},
					Op:       OpAdd,
					Left:     &LiteralExpr{exprBase: exprBase{ID_: gen.Next(), Span_: sp(15, 16)}, Kind: LitInt, Int: 1},
					Right:    &LiteralExpr{exprBase: exprBase{ID_: gen.Next(), Span_: sp(19, 20)}, Kind: LitInt, Int: 2},
				},
				Span: sp(11, 20),
			},
			&ReturnStmt{
				Value: &IdentExpr{exprBase: exprBase{ID_: gen.Next(), Span_: sp(30, 31)}, Name: "x"},
				Span:  sp(22, 31),
			},
		},
	}
	prog := &Program{
		Items: []Item{
			&FunItem{Name: "main", Body: body, Span_: sp(0, 40)},
		},
		Span: sp(0, 40),
	}

	cv := &countingVisitor{}
	Walk(cv, prog)

	if cv.items != 1 {
		t.Errorf("items visited = %d, want 1", cv.items)
	}
	// body block, binary, lit 1, lit 2, ident x = 5 expr nodes
	if cv.exprs != 5 {
		t.Errorf("exprs visited = %d, want 5", cv.exprs)
	}
	if cv.stmts != 2 {
		t.Errorf("stmts visited = %d, want 2", cv.stmts)
	}
}

func TestWalk_StopsWhenVisitorReturnsNil(t *testing.T) {
	stopAtBinary := &stoppingVisitor{}
	var gen NextID
	bin := &BinaryExpr{
		exprBase: exprBase{ID_: gen.Next(), Span_: sp(0, 10)},
		Op:       OpAdd,
		Left:     &LiteralExpr{exprBase: exprBase{ID_: gen.Next(), Span_: sp(0, 1)}, Kind: LitInt, Int: 1},
		Right:    &LiteralExpr{exprBase: exprBase{ID_: gen.Next(), Span_: sp(2, 3)}, Kind: LitInt, Int: 2},
	}
	WalkExpr(stopAtBinary, bin)
	if stopAtBinary.seenChildren {
		t.Fatal("expected Walk to stop descending once the visitor returned nil")
	}
}

type stoppingVisitor struct {
	BaseVisitor
	seenChildren bool
}

func (s *stoppingVisitor) VisitExpr(e Expr) Visitor {
	if _, ok := e.(*BinaryExpr); ok {
		return nil
	}
	s.seenChildren = true
	return s
}

// foldConstants is a minimal MutVisitor proving rewrite-in-place works:
// it folds `int + int` literals into a single literal.
type foldConstants struct{}

func (foldConstants) MutateExpr(e Expr) Expr {
	bin, ok := e.(*BinaryExpr)
	if !ok {
		return e
	}
	left, lok := bin.Left.(*LiteralExpr)
	right, rok := bin.Right.(*LiteralExpr)
	if !lok || !rok || left.Kind != LitInt || right.Kind != LitInt || bin.Op != OpAdd {
		return e
	}
	return &LiteralExpr{exprBase: bin.exprBase, Kind: LitInt, Int: left.Int + right.Int}
}

func (foldConstants) MutateStmt(s Stmt) Stmt {
	if rs, ok := s.(*ReturnStmt); ok && rs.Value != nil {
		rs.Value = foldConstants{}.MutateExpr(rs.Value)
		return rs
	}
	return s
}

func TestMutateProgram_RewritesInPlace(t *testing.T) {
	var gen NextID
	ret := &ReturnStmt{
		Value: &BinaryExpr{
			exprBase: exprBase{ID_: gen.Next()},
			Op:       OpAdd,
			Left:     &LiteralExpr{Kind: LitInt, Int: 2},
			Right:    &LiteralExpr{Kind: LitInt, Int: 3},
		},
	}
	prog := &Program{
		Items: []Item{
			&FunItem{Name: "f", Body: &BlockExpr{Stmts: []Stmt{ret}}},
		},
	}
	MutateProgram(foldConstants{}, prog)

	lit, ok := ret.Value.(*LiteralExpr)
	if !ok {
		t.Fatalf("expected folded literal, got %T", ret.Value)
	}
	if lit.Int != 5 {
		t.Errorf("folded value = %d, want 5", lit.Int)
	}
}

func TestSpan_EmbeddedFromLexer(t *testing.T) {
	// ast.Span is a type alias for lexer.Span; this locks that contract in
	// place since the parser constructs ast nodes directly from lexer spans.
	var s Span = sp(1, 2)
	if s.Start.Offset != 1 || s.End.Offset != 2 {
		t.Fatal("Span alias did not preserve lexer.Span fields")
	}
}
