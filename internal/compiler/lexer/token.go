// Package lexer turns Seen source text into a stream of spanned tokens,
// delegating character handling to charstream and keyword resolution to
// the keyword package's per-language perfect-hash tables.
package lexer

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/keyword"
)

// Kind enumerates every token kind the parser can see.
type Kind int

const (
	EOF Kind = iota
	Error

	Identifier
	IntLiteral
	FloatLiteral
	StringLiteral
	InterpolatedString

	// Keywords resolved through a keyword.Table; KeywordName carries the
	// matched keyword.TokenName.
	Keyword

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	DoubleColon
	Dot
	Arrow
	At

	Plus
	Minus
	Star
	Slash
	Percent

	Eq
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq

	Bang
	Question       // bare ? (nullable type marker)
	SafeNav        // ?.
	Elvis          // ?:
	ForceUnwrap    // !!
	DoubleQuestion // ?? reserved as an alias of Elvis in some source dialects
)

var kindNames = map[Kind]string{
	EOF: "EOF", Error: "ERROR",
	Identifier: "IDENTIFIER", IntLiteral: "INT_LITERAL", FloatLiteral: "FLOAT_LITERAL",
	StringLiteral: "STRING_LITERAL", InterpolatedString: "INTERPOLATED_STRING",
	Keyword: "KEYWORD",
	LParen: "LPAREN", RParen: "RPAREN", LBrace: "LBRACE", RBrace: "RBRACE",
	LBracket: "LBRACKET", RBracket: "RBRACKET", Comma: "COMMA", Colon: "COLON",
	DoubleColon: "DOUBLE_COLON", Dot: "DOT", Arrow: "ARROW", At: "AT",
	Plus: "PLUS", Minus: "MINUS", Star: "STAR", Slash: "SLASH", Percent: "PERCENT",
	Eq: "EQ", EqEq: "EQEQ", NotEq: "NOTEQ", Lt: "LT", LtEq: "LTEQ", Gt: "GT", GtEq: "GTEQ",
	Bang: "BANG", Question: "QUESTION", SafeNav: "SAFE_NAV", Elvis: "ELVIS",
	ForceUnwrap: "FORCE_UNWRAP", DoubleQuestion: "DOUBLE_QUESTION",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// Position is one endpoint of a Span: a 1-based line/column pair plus the
// byte offset it resolves from.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span is a start-end source range tagged with the originating file id.
// Spans are non-decreasing within a token stream (spec.md 3 Token
// invariants): tokens[i].End <= tokens[i+1].Start.
type Span struct {
	Start  Position
	End    Position
	FileID int
}

// InterpolationPart is either a literal text run or an embedded expression
// source slice captured verbatim for later re-lexing (spec.md 9's
// "lexer records positions of embedded expressions").
type InterpolationPart struct {
	IsExpr bool
	Text   string // literal text, when !IsExpr
	Expr   string // raw expression source, when IsExpr
	Span   Span
}

// Token is one lexical unit: a kind, its source lexeme, position span, and
// the active language tag it was lexed under.
type Token struct {
	Kind     Kind
	Lexeme   string
	Span     Span
	Language string

	// Populated depending on Kind.
	KeywordName  keyword.TokenName
	IntValue     int64
	FloatValue   float64
	StringValue  string
	Interpolated []InterpolationPart
	IsPublic     bool // Identifier only: spelling starts with an uppercase letter
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d:%d", t.Kind, t.Lexeme, t.Span.Start.Line, t.Span.Start.Column)
}
