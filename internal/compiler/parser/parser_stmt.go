package parser

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

// parseBlock parses a `{ stmt* }` block.
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.peek()
	id := p.nextID()
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open block")
	var stmts []ast.Stmt
	for !p.check(lexer.RBrace) && !p.atEnd() {
		stmts = append(stmts, p.parseStmt())
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close block")
	return ast.NewBlock(id, p.spanFrom(start), stmts)
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.peek()

	if p.peek().Kind == lexer.Keyword {
		switch p.peek().KeywordName {
		case keyword.KeywordReturn:
			p.advance()
			var value ast.Expr
			if !p.check(lexer.RBrace) {
				value = p.parseExpression()
			}
			return &ast.ReturnStmt{Value: value, Span: p.spanFrom(start)}
		case keyword.KeywordBreak:
			p.advance()
			return &ast.BreakStmt{Span: p.spanFrom(start)}
		case keyword.KeywordContinue:
			p.advance()
			return &ast.ContinueStmt{Span: p.spanFrom(start)}
		case keyword.KeywordVal:
			p.advance()
			return p.parseLocalBinding(start, false)
		case keyword.KeywordVar:
			p.advance()
			return p.parseLocalBinding(start, true)
		}
	}

	expr := p.parseExpression()
	return &ast.ExprStmt{Expr: expr, Span: p.spanFrom(start)}
}

func (p *Parser) parseLocalBinding(start lexer.Token, mutable bool) ast.Stmt {
	name, ok := p.parseIdentifier()
	if !ok {
		p.synchronize()
		name = "<error>"
	}
	var typ *ast.TypeExpr
	if p.match(lexer.Colon) {
		typ = p.parseTypeExpr()
	}
	var value ast.Expr
	if p.match(lexer.Eq) {
		value = p.parseExpression()
	}
	if mutable {
		return &ast.VarStmt{Name: name, Type: typ, Value: value, Span: p.spanFrom(start)}
	}
	return &ast.ValStmt{Name: name, Type: typ, Value: value, Span: p.spanFrom(start)}
}
