package parser

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

// parseTypeExpr parses a type annotation: a name, optional `<...>`
// generic arguments, and a trailing `?` for nullability.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.peek()
	name, ok := p.parseIdentifier()
	if !ok {
		return &ast.TypeExpr{Name: "<error>", Span: p.spanFrom(start)}
	}

	var generics []*ast.TypeExpr
	if p.match(lexer.Lt) {
		for {
			generics = append(generics, p.parseTypeExpr())
			if !p.match(lexer.Comma) {
				break
			}
		}
		p.consume(lexer.Gt, cerrors.ErrExpectedType, "expected '>' to close generic argument list")
	}

	nullable := p.match(lexer.Question)

	return &ast.TypeExpr{
		Name:       name,
		Generics:   generics,
		IsNullable: nullable,
		Span:       p.spanFrom(start),
	}
}

// parseGenericParams parses `<T, U: Bound + Bound>` following an item
// name, per spec.md 4.E's grammar highlights.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.match(lexer.Lt) {
		return nil
	}
	var params []ast.GenericParam
	for {
		name, ok := p.parseIdentifier()
		if !ok {
			break
		}
		gp := ast.GenericParam{Name: name}
		if p.match(lexer.Colon) {
			for {
				bound, ok := p.parseIdentifier()
				if !ok {
					break
				}
				gp.Bounds = append(gp.Bounds, bound)
				if !p.match(lexer.Plus) {
					break
				}
			}
		}
		params = append(params, gp)
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.consume(lexer.Gt, cerrors.ErrExpectedType, "expected '>' to close generic parameter list")
	return params
}

// parseParams parses a parenthesized, comma-separated parameter list.
func (p *Parser) parseParams() []ast.Param {
	p.consume(lexer.LParen, cerrors.ErrExpectedParen, "expected '(' to start parameter list")
	var params []ast.Param
	if !p.check(lexer.RParen) {
		for {
			start := p.peek()
			name, ok := p.parseIdentifier()
			if !ok {
				break
			}
			p.consume(lexer.Colon, cerrors.ErrExpectedColon, "expected ':' before parameter type")
			typ := p.parseTypeExpr()
			params = append(params, ast.Param{Name: name, Type: typ, Span: p.spanFrom(start)})
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RParen, cerrors.ErrExpectedParen, "expected ')' to close parameter list")
	return params
}

func visibilityOf(lex lexer.Token) ast.Visibility {
	if lex.Kind == lexer.Identifier && lex.IsPublic {
		return ast.Public
	}
	return ast.Private
}
