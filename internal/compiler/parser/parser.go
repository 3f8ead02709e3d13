// Package parser implements Seen's recursive-descent, Pratt-precedence
// expression parser. It consumes a lexer.Token stream and produces a
// spanned ast.Program plus a diagnostics bag (spec.md 4.E).
package parser

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

// Parser turns a token stream into an AST, collecting diagnostics into
// an ErrorRecovery bag rather than stopping at the first syntax error.
type Parser struct {
	tokens  []lexer.Token
	current int
	file    string
	diags   *cerrors.ErrorRecovery
	ids     ast.NextID

	// language/table let a sub-parse of a string-interpolation slice
	// (parseSubExpression) re-lex under the same bilingual keyword
	// table as the enclosing token stream.
	language string
	table    *keyword.Table
}

// New creates a Parser over tokens produced by lexer.Tokenize for file.
func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file, diags: cerrors.NewErrorRecovery()}
}

// WithLanguage records the language tag and keyword table the tokens
// were lexed under, so embedded string-interpolation expressions re-lex
// correctly (spec.md 9's lexer/parser interpolation contract).
func (p *Parser) WithLanguage(tag string, table *keyword.Table) *Parser {
	p.language = tag
	p.table = table
	return p
}

// Parse parses the full token stream into a Program. It always returns a
// best-effort Program (spec.md 4.E: "parse_program returns Ok(program)
// whenever it can produce any item"); callers inspect Diagnostics() for
// errors.
func (p *Parser) Parse() (*ast.Program, *cerrors.ErrorRecovery) {
	start := p.peek().Span
	var items []ast.Item
	for !p.atEnd() {
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		}
	}
	end := p.previous().Span
	return &ast.Program{Items: items, Span: joinSpan(start, end)}, p.diags
}

// Diagnostics returns the diagnostics bag accumulated during Parse.
func (p *Parser) Diagnostics() *cerrors.ErrorRecovery { return p.diags }

func joinSpan(start, end lexer.Span) ast.Span {
	return ast.Span{Start: start.Start, End: end.End, FileID: start.FileID}
}

// ---- cursor primitives ----

func (p *Parser) atEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Kind == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(k lexer.Kind) bool {
	return !p.atEnd() && p.peek().Kind == k
}

func (p *Parser) checkKeyword(name keyword.TokenName) bool {
	return !p.atEnd() && p.peek().Kind == lexer.Keyword && p.peek().KeywordName == name
}

func (p *Parser) match(k lexer.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(name keyword.TokenName) bool {
	if p.checkKeyword(name) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(k lexer.Kind, code, message string) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), code, message)
	return lexer.Token{}, false
}

// errorAt records a ParseError-phase diagnostic at tok's span.
func (p *Parser) errorAt(tok lexer.Token, code, message string) {
	loc := cerrors.SourceLocation{
		File: p.file, Line: tok.Span.Start.Line, Column: tok.Span.Start.Column,
		Length: tok.Span.End.Offset - tok.Span.Start.Offset,
	}
	p.diags.Recover(cerrors.NewCompilerError(cerrors.PhaseParser, code, message, loc, cerrors.Error))
}

func (p *Parser) errorAtCurrent(code, message string) {
	p.errorAt(p.peek(), code, message)
}

// synchronize implements spec.md 4.E's statement-level recovery: skip to
// the next `;`-equivalent (Seen has no semicolons so this resyncs on a
// matching `}` or an item-start keyword), consuming at least one token
// so a stuck cursor can never loop forever.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == lexer.RBrace {
			return
		}
		if p.peek().Kind == lexer.Keyword {
			switch p.peek().KeywordName {
			case keyword.KeywordFun, keyword.KeywordStruct, keyword.KeywordEnum,
				keyword.KeywordInterface, keyword.KeywordExtension, keyword.KeywordClass,
				keyword.KeywordVal, keyword.KeywordVar, keyword.KeywordType:
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) nextID() uint64 { return p.ids.Next() }

func (p *Parser) spanFrom(start lexer.Token) ast.Span {
	return ast.Span{Start: start.Span.Start, End: p.previous().Span.End, FileID: start.Span.FileID}
}

// parseIdentifier consumes an Identifier token and returns its lexeme.
func (p *Parser) parseIdentifier() (string, bool) {
	tok, ok := p.parseIdentifierTok()
	return tok.Lexeme, ok
}

// parseIdentifierTok is parseIdentifier but also returns the raw token,
// needed where the caller derives Visibility from IsPublic.
func (p *Parser) parseIdentifierTok() (lexer.Token, bool) {
	if !p.check(lexer.Identifier) {
		p.errorAtCurrent(cerrors.ErrExpectedIdentifier, fmt.Sprintf("expected identifier, found %s", p.peek().Kind))
		return lexer.Token{}, false
	}
	return p.advance(), true
}
