package parser

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

// parseItem parses one top-level declaration. On an unrecognized token
// it records a diagnostic and synchronizes to the next likely item
// start, per spec.md 4.E's statement-level recovery rule.
func (p *Parser) parseItem() ast.Item {
	// Attributes (@Name(args)) decorate the following item; Seen doesn't
	// yet attach them to the AST node (spec.md's grammar mentions them
	// only as surface syntax), so they're parsed and discarded.
	for p.check(lexer.At) {
		p.parseAttribute()
	}

	if p.atEnd() {
		return nil
	}

	if p.peek().Kind == lexer.Keyword {
		switch p.peek().KeywordName {
		case keyword.KeywordSuspend:
			p.advance()
			return p.parseFun(true)
		case keyword.KeywordFun:
			return p.parseFun(false)
		case keyword.KeywordStruct:
			return p.parseStruct()
		case keyword.KeywordEnum:
			return p.parseEnum()
		case keyword.KeywordInterface:
			return p.parseInterface()
		case keyword.KeywordExtension:
			return p.parseExtension()
		case keyword.KeywordVal:
			return p.parseValItem()
		case keyword.KeywordVar:
			return p.parseVarItem()
		case keyword.KeywordType:
			return p.parseTypeAlias()
		case keyword.KeywordClass:
			return p.parseClassAsStruct()
		}
	}

	p.errorAtCurrent(cerrors.ErrUnexpectedToken, "expected a top-level declaration (fun, val, var, struct, enum, interface, extension)")
	p.synchronize()
	return nil
}

// parseAttribute consumes `@Name(args...)`, discarding the argument
// expressions (attributes carry no runtime semantics in this pipeline).
func (p *Parser) parseAttribute() {
	p.advance() // '@'
	p.parseIdentifier()
	if p.match(lexer.LParen) {
		if !p.check(lexer.RParen) {
			for {
				p.parseExpression()
				if !p.match(lexer.Comma) {
					break
				}
			}
		}
		p.consume(lexer.RParen, cerrors.ErrExpectedParen, "expected ')' to close attribute arguments")
	}
}

func (p *Parser) parseFun(suspend bool) ast.Item {
	start := p.previous()
	if !suspend {
		start = p.peek()
	}
	p.advance() // 'fun'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	params := p.parseParams()
	var ret *ast.TypeExpr
	if p.match(lexer.Arrow) {
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.FunItem{
		Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics,
		Params: params, ReturnType: ret, IsSuspend: suspend, Body: body,
		Span_: p.spanFrom(start),
	}
}

func (p *Parser) parseStruct() ast.Item {
	start := p.peek()
	p.advance() // 'struct'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	var fields []ast.FieldDecl
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open struct body")
	for !p.check(lexer.RBrace) && !p.atEnd() {
		fstart := p.peek()
		name, ok := p.parseIdentifier()
		if !ok {
			p.synchronize()
			break
		}
		p.consume(lexer.Colon, cerrors.ErrExpectedColon, "expected ':' before field type")
		typ := p.parseTypeExpr()
		fields = append(fields, ast.FieldDecl{Name: name, Type: typ, Span: p.spanFrom(fstart)})
		p.match(lexer.Comma)
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close struct body")
	return &ast.StructItem{
		Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics,
		Fields: fields, Span_: p.spanFrom(start),
	}
}

func (p *Parser) parseEnum() ast.Item {
	start := p.peek()
	p.advance() // 'enum'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	var variants []ast.EnumVariant
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open enum body")
	for !p.check(lexer.RBrace) && !p.atEnd() {
		vstart := p.peek()
		name, ok := p.parseIdentifier()
		if !ok {
			p.synchronize()
			break
		}
		var fields []ast.FieldDecl
		if p.match(lexer.LParen) {
			if !p.check(lexer.RParen) {
				for {
					fname, ok := p.parseIdentifier()
					if !ok {
						break
					}
					p.consume(lexer.Colon, cerrors.ErrExpectedColon, "expected ':' before variant field type")
					ftyp := p.parseTypeExpr()
					fields = append(fields, ast.FieldDecl{Name: fname, Type: ftyp})
					if !p.match(lexer.Comma) {
						break
					}
				}
			}
			p.consume(lexer.RParen, cerrors.ErrExpectedParen, "expected ')' to close variant fields")
		}
		variants = append(variants, ast.EnumVariant{Name: name, Fields: fields, Span: p.spanFrom(vstart)})
		p.match(lexer.Comma)
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close enum body")
	return &ast.EnumItem{
		Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics,
		Variants: variants, Span_: p.spanFrom(start),
	}
}

func (p *Parser) parseInterface() ast.Item {
	start := p.peek()
	p.advance() // 'interface'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	var methods []ast.MethodSig
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open interface body")
	for !p.check(lexer.RBrace) && !p.atEnd() {
		mstart := p.peek()
		if !p.matchKeyword(keyword.KeywordFun) {
			p.errorAtCurrent(cerrors.ErrUnexpectedToken, "expected 'fun' in interface body")
			p.synchronize()
			continue
		}
		mname, ok := p.parseIdentifier()
		if !ok {
			p.synchronize()
			continue
		}
		params := p.parseParams()
		var ret *ast.TypeExpr
		if p.match(lexer.Arrow) {
			ret = p.parseTypeExpr()
		}
		methods = append(methods, ast.MethodSig{Name: mname, Params: params, ReturnType: ret, Span: p.spanFrom(mstart)})
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close interface body")
	return &ast.InterfaceItem{
		Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics,
		Methods: methods, Span_: p.spanFrom(start),
	}
}

// parseExtension parses `extension TargetType { fun ... }`, resolved per
// DESIGN.md as static dispatch (spec.md 9 open question).
func (p *Parser) parseExtension() ast.Item {
	start := p.peek()
	p.advance() // 'extension'
	target, ok := p.parseIdentifier()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	var methods []*ast.FunItem
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open extension body")
	for !p.check(lexer.RBrace) && !p.atEnd() {
		suspend := p.matchKeyword(keyword.KeywordSuspend)
		if !p.checkKeyword(keyword.KeywordFun) {
			p.errorAtCurrent(cerrors.ErrUnexpectedToken, "expected 'fun' in extension body")
			p.synchronize()
			continue
		}
		if fn, ok := p.parseFun(suspend).(*ast.FunItem); ok {
			methods = append(methods, fn)
		}
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close extension body")
	return &ast.ExtensionItem{TargetType: target, Generics: generics, Methods: methods, Span_: p.spanFrom(start)}
}

// parseClassAsStruct treats `class` (with an optional `companion` block,
// discarded as static-member sugar this pipeline doesn't model
// separately) as sugar over struct, matching how the rest of the
// toolchain only needs field layout and methods via extension.
func (p *Parser) parseClassAsStruct() ast.Item {
	p.advance() // 'class'
	item := p.parseStructBodyAsClass()
	return item
}

func (p *Parser) parseStructBodyAsClass() ast.Item {
	start := p.previous()
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	var fields []ast.FieldDecl
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open class body")
	for !p.check(lexer.RBrace) && !p.atEnd() {
		if p.matchKeyword(keyword.KeywordCompanion) {
			p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open companion body")
			depth := 1
			for depth > 0 && !p.atEnd() {
				if p.check(lexer.LBrace) {
					depth++
				} else if p.check(lexer.RBrace) {
					depth--
					if depth == 0 {
						p.advance()
						break
					}
				}
				p.advance()
			}
			continue
		}
		fstart := p.peek()
		name, ok := p.parseIdentifier()
		if !ok {
			p.synchronize()
			break
		}
		p.consume(lexer.Colon, cerrors.ErrExpectedColon, "expected ':' before field type")
		typ := p.parseTypeExpr()
		fields = append(fields, ast.FieldDecl{Name: name, Type: typ, Span: p.spanFrom(fstart)})
		p.match(lexer.Comma)
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close class body")
	return &ast.StructItem{
		Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics,
		Fields: fields, Span_: p.spanFrom(start),
	}
}

func (p *Parser) parseValItem() ast.Item {
	start := p.peek()
	p.advance() // 'val'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	var typ *ast.TypeExpr
	if p.match(lexer.Colon) {
		typ = p.parseTypeExpr()
	}
	var value ast.Expr
	if p.match(lexer.Eq) {
		value = p.parseExpression()
	}
	return &ast.ValItem{Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Type: typ, Value: value, Span_: p.spanFrom(start)}
}

func (p *Parser) parseVarItem() ast.Item {
	start := p.peek()
	p.advance() // 'var'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	var typ *ast.TypeExpr
	if p.match(lexer.Colon) {
		typ = p.parseTypeExpr()
	}
	var value ast.Expr
	if p.match(lexer.Eq) {
		value = p.parseExpression()
	}
	return &ast.VarItem{Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Type: typ, Value: value, Span_: p.spanFrom(start)}
}

func (p *Parser) parseTypeAlias() ast.Item {
	start := p.peek()
	p.advance() // 'type'
	nameTok, ok := p.parseIdentifierTok()
	if !ok {
		p.synchronize()
		return nil
	}
	generics := p.parseGenericParams()
	p.consume(lexer.Eq, cerrors.ErrUnexpectedToken, "expected '=' in type alias")
	aliased := p.parseTypeExpr()
	return &ast.TypeAliasItem{Name: nameTok.Lexeme, Visibility: visibilityOf(nameTok), Generics: generics, Aliased: aliased, Span_: p.spanFrom(start)}
}
