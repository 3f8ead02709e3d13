package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
)

// Lexer tokenizes Seen source code for one file under one active
// language. Instances are not safe for concurrent use; the job driver
// creates one Lexer per file (spec.md 5's per-job, single-threaded core).
type Lexer struct {
	src      string
	file     string
	fileID   int
	language string
	table    *keyword.Table

	bytePos int
	line    int
	column  int

	tokens []Token
	diags  []cerrors.CompilerError
}

// New creates a Lexer over src for the given file, tagged with fileID and
// the active language. table is the language's keyword.Table (built once,
// read-only, safely shared across jobs per spec.md 5).
func New(src, file string, fileID int, language string, table *keyword.Table) *Lexer {
	return &Lexer{src: src, file: file, fileID: fileID, language: language, table: table, line: 1, column: 1}
}

// Tokenize scans the entire source, returning every token (always
// terminated by exactly one EOF token) and any diagnostics recorded along
// the way. It never panics on malformed input: a lex error is recorded
// and scanning resynchronises at the next token boundary (spec.md 7).
func (l *Lexer) Tokenize() ([]Token, []cerrors.CompilerError) {
	for !l.atEnd() {
		l.skipWhitespaceAndComments()
		if l.atEnd() {
			break
		}
		l.scanToken()
	}
	pos := l.pos()
	l.tokens = append(l.tokens, Token{
		Kind:     EOF,
		Span:     Span{Start: pos, End: pos, FileID: l.fileID},
		Language: l.language,
	})
	return l.tokens, l.diags
}

// --- cursor primitives (byte-indexed, ASCII-fast-pathed with a UTF-8
// fallback since Seen source outside string/identifier content is ASCII
// punctuation) ---

func (l *Lexer) atEnd() bool { return l.bytePos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.bytePos]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.bytePos+n >= len(l.src) {
		return 0
	}
	return l.src[l.bytePos+n]
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.bytePos}
}

// advanceRune consumes one rune (possibly multi-byte) and updates
// line/column; identifiers are the only place multi-byte runes occur
// outside of comments/strings, since Arabic keyword spellings are
// multi-byte UTF-8.
func (l *Lexer) advanceRune() rune {
	if l.atEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.bytePos:])
	l.bytePos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advanceRune()
		case c == '/' && l.peekByteAt(1) == '/':
			for !l.atEnd() && l.peekByte() != '\n' {
				l.advanceRune()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.skipBlockComment()
		case c == '#' && l.peekByteAt(1) == '#':
			for !l.atEnd() && l.peekByte() != '\n' {
				l.advanceRune()
			}
		default:
			if unicode.IsSpace(rune(c)) {
				l.advanceRune()
				continue
			}
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, honoring nesting.
func (l *Lexer) skipBlockComment() {
	startPos := l.pos()
	l.advanceRune() // '/'
	l.advanceRune() // '*'
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			l.errorAt(startPos, cerrors.ErrUnterminatedComment, "unterminated block comment")
			return
		}
		if l.peekByte() == '/' && l.peekByteAt(1) == '*' {
			l.advanceRune()
			l.advanceRune()
			depth++
			continue
		}
		if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
			l.advanceRune()
			l.advanceRune()
			depth--
			continue
		}
		l.advanceRune()
	}
}

func (l *Lexer) errorAt(start Position, code, msg string) {
	loc := cerrors.SourceLocation{File: l.file, Line: start.Line, Column: start.Column, Length: l.bytePos - start.Offset}
	l.diags = append(l.diags, cerrors.NewCompilerError(cerrors.PhaseLexer, code, msg, loc, cerrors.Error))
}

func (l *Lexer) emit(kind Kind, start Position, lexeme string) {
	l.tokens = append(l.tokens, Token{
		Kind: kind, Lexeme: lexeme,
		Span:     Span{Start: start, End: l.pos(), FileID: l.fileID},
		Language: l.language,
	})
}

// scanToken dispatches on the first byte/rune of the next token.
func (l *Lexer) scanToken() {
	start := l.pos()
	c := l.peekByte()

	switch {
	case c == '(':
		l.advanceRune()
		l.emit(LParen, start, "(")
	case c == ')':
		l.advanceRune()
		l.emit(RParen, start, ")")
	case c == '{':
		l.advanceRune()
		l.emit(LBrace, start, "{")
	case c == '}':
		l.advanceRune()
		l.emit(RBrace, start, "}")
	case c == '[':
		l.advanceRune()
		l.emit(LBracket, start, "[")
	case c == ']':
		l.advanceRune()
		l.emit(RBracket, start, "]")
	case c == ',':
		l.advanceRune()
		l.emit(Comma, start, ",")
	case c == '@':
		l.advanceRune()
		l.emit(At, start, "@")
	case c == ':':
		l.advanceRune()
		if l.peekByte() == ':' {
			l.advanceRune()
			l.emit(DoubleColon, start, "::")
		} else {
			l.emit(Colon, start, ":")
		}
	case c == '.':
		if isDigit(l.peekByteAt(1)) {
			l.scanNumber(start)
		} else {
			l.advanceRune()
			l.emit(Dot, start, ".")
		}
	case c == '+':
		l.advanceRune()
		l.emit(Plus, start, "+")
	case c == '-':
		l.advanceRune()
		if l.peekByte() == '>' {
			l.advanceRune()
			l.emit(Arrow, start, "->")
		} else {
			l.emit(Minus, start, "-")
		}
	case c == '*':
		l.advanceRune()
		l.emit(Star, start, "*")
	case c == '/':
		l.advanceRune()
		l.emit(Slash, start, "/")
	case c == '%':
		l.advanceRune()
		l.emit(Percent, start, "%")
	case c == '=':
		l.advanceRune()
		if l.peekByte() == '=' {
			l.advanceRune()
			l.emit(EqEq, start, "==")
		} else {
			l.emit(Eq, start, "=")
		}
	case c == '<':
		l.advanceRune()
		if l.peekByte() == '=' {
			l.advanceRune()
			l.emit(LtEq, start, "<=")
		} else {
			l.emit(Lt, start, "<")
		}
	case c == '>':
		l.advanceRune()
		if l.peekByte() == '=' {
			l.advanceRune()
			l.emit(GtEq, start, ">=")
		} else {
			l.emit(Gt, start, ">")
		}
	case c == '!':
		l.advanceRune()
		switch {
		case l.peekByte() == '!':
			l.advanceRune()
			l.emit(ForceUnwrap, start, "!!")
		case l.peekByte() == '=':
			l.advanceRune()
			l.emit(NotEq, start, "!=")
		default:
			l.emit(Bang, start, "!")
		}
	case c == '?':
		l.advanceRune()
		switch {
		case l.peekByte() == '.':
			l.advanceRune()
			l.emit(SafeNav, start, "?.")
		case l.peekByte() == ':':
			l.advanceRune()
			l.emit(Elvis, start, "?:")
		default:
			l.emit(Question, start, "?")
		}
	case c == '"':
		l.scanString(start)
	case isDigit(c):
		l.scanNumber(start)
	default:
		l.scanIdentifierOrError(start)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanIdentifierOrError scans an identifier (which may resolve to a
// keyword through the active language table) or records InvalidCharacter
// for anything else, then resynchronises by consuming one rune.
func (l *Lexer) scanIdentifierOrError(start Position) {
	r := peekRune(l.src[l.bytePos:])
	if !isIdentStart(r) {
		l.advanceRune()
		l.errorAt(start, cerrors.ErrInvalidCharacter, "invalid character '"+string(r)+"'")
		return
	}
	startOffset := l.bytePos
	for !l.atEnd() {
		next := peekRune(l.src[l.bytePos:])
		if !isIdentContinue(next) {
			break
		}
		l.advanceRune()
	}
	text := l.src[startOffset:l.bytePos]

	if l.table != nil {
		if name, ok := l.table.Lookup(text); ok {
			tok := Token{
				Kind: Keyword, Lexeme: text, KeywordName: name,
				Span:     Span{Start: start, End: l.pos(), FileID: l.fileID},
				Language: l.language,
			}
			l.tokens = append(l.tokens, tok)
			return
		}
	}

	firstRune := []rune(text)[0]
	tok := Token{
		Kind: Identifier, Lexeme: text, IsPublic: unicode.IsUpper(firstRune),
		Span:     Span{Start: start, End: l.pos(), FileID: l.fileID},
		Language: l.language,
	}
	l.tokens = append(l.tokens, tok)
}

func peekRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// scanNumber handles decimal, 0x/0b/0o, float-with-exponent, and
// underscore-separated numeric literals.
func (l *Lexer) scanNumber(start Position) {
	startOffset := l.bytePos

	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		l.advanceRune()
		l.advanceRune()
		l.consumeDigitsAndUnderscores(isHexDigit)
		l.finishInt(start, startOffset, 16, cerrors.ErrInvalidHexNumber)
		return
	}
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'b' || l.peekByteAt(1) == 'B') {
		l.advanceRune()
		l.advanceRune()
		l.consumeDigitsAndUnderscores(isBinDigit)
		l.finishInt(start, startOffset, 2, cerrors.ErrInvalidBinaryNumber)
		return
	}
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'o' || l.peekByteAt(1) == 'O') {
		l.advanceRune()
		l.advanceRune()
		l.consumeDigitsAndUnderscores(isOctDigit)
		l.finishInt(start, startOffset, 8, cerrors.ErrInvalidOctalNumber)
		return
	}

	l.consumeDigitsAndUnderscores(isDigitRune)
	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.advanceRune()
		l.consumeDigitsAndUnderscores(isDigitRune)
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advanceRune()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advanceRune()
		}
		if !isDigit(l.peekByte()) {
			l.errorAt(start, cerrors.ErrInvalidNumber, "expected digits after exponent")
			return
		}
		l.consumeDigitsAndUnderscores(isDigitRune)
	}

	lexeme := l.src[startOffset:l.bytePos]
	clean := strings.ReplaceAll(lexeme, "_", "")
	if isFloat {
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			l.errorAt(start, cerrors.ErrInvalidNumber, "invalid float literal '"+lexeme+"'")
			return
		}
		l.tokens = append(l.tokens, Token{
			Kind: FloatLiteral, Lexeme: lexeme, FloatValue: v,
			Span: Span{Start: start, End: l.pos(), FileID: l.fileID}, Language: l.language,
		})
		return
	}
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		l.errorAt(start, cerrors.ErrInvalidNumber, "invalid integer literal '"+lexeme+"'")
		return
	}
	l.tokens = append(l.tokens, Token{
		Kind: IntLiteral, Lexeme: lexeme, IntValue: v,
		Span: Span{Start: start, End: l.pos(), FileID: l.fileID}, Language: l.language,
	})
}

func (l *Lexer) finishInt(start Position, startOffset int, base int, errCode string) {
	lexeme := l.src[startOffset:l.bytePos]
	clean := strings.ReplaceAll(lexeme[2:], "_", "")
	v, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		l.errorAt(start, errCode, "invalid number literal '"+lexeme+"'")
		return
	}
	l.tokens = append(l.tokens, Token{
		Kind: IntLiteral, Lexeme: lexeme, IntValue: v,
		Span: Span{Start: start, End: l.pos(), FileID: l.fileID}, Language: l.language,
	})
}

func (l *Lexer) consumeDigitsAndUnderscores(pred func(byte) bool) {
	for !l.atEnd() && (pred(l.peekByte()) || l.peekByte() == '_') {
		l.advanceRune()
	}
}

func isDigitRune(c byte) bool { return isDigit(c) }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }

// scanString handles a double-quoted string literal, recognising
// interpolation `{expr}`, the `{{`/`}}` brace escapes, and the standard
// backslash escapes. Returns an InterpolatedString token when at least one
// embedded expression was found, else a plain StringLiteral.
func (l *Lexer) scanString(start Position) {
	startOffset := l.bytePos
	l.advanceRune() // opening quote

	var parts []InterpolationPart
	var textBuf strings.Builder
	textStart := l.pos()
	hasInterpolation := false

	flushText := func() {
		if textBuf.Len() > 0 {
			parts = append(parts, InterpolationPart{IsExpr: false, Text: textBuf.String(), Span: Span{Start: textStart, End: l.pos(), FileID: l.fileID}})
			textBuf.Reset()
		}
		textStart = l.pos()
	}

	for {
		if l.atEnd() {
			l.errorAt(start, cerrors.ErrUnterminatedString, "unterminated string literal")
			return
		}
		c := l.peekByte()
		if c == '"' {
			break
		}
		if c == '\\' {
			l.advanceRune()
			if l.atEnd() {
				l.errorAt(start, cerrors.ErrUnterminatedString, "unterminated string literal")
				return
			}
			esc := l.advanceRune()
			switch esc {
			case 'n':
				textBuf.WriteByte('\n')
			case 't':
				textBuf.WriteByte('\t')
			case 'r':
				textBuf.WriteByte('\r')
			case '\\':
				textBuf.WriteByte('\\')
			case '"':
				textBuf.WriteByte('"')
			case '\'':
				textBuf.WriteByte('\'')
			case '{':
				textBuf.WriteByte('{')
			case '}':
				textBuf.WriteByte('}')
			default:
				l.errorAt(start, cerrors.ErrInvalidEscape, "invalid escape sequence '\\"+string(esc)+"'")
			}
			continue
		}
		if c == '{' {
			if l.peekByteAt(1) == '{' {
				l.advanceRune()
				l.advanceRune()
				textBuf.WriteByte('{')
				continue
			}
			exprStart := l.pos()
			l.advanceRune() // consume '{'
			depth := 1
			exprOffset := l.bytePos
			for depth > 0 {
				if l.atEnd() {
					l.errorAt(exprStart, cerrors.ErrUnterminatedString, "unterminated interpolation")
					return
				}
				switch l.peekByte() {
				case '{':
					depth++
					l.advanceRune()
				case '}':
					depth--
					if depth > 0 {
						l.advanceRune()
					}
				default:
					l.advanceRune()
				}
			}
			exprText := l.src[exprOffset:l.bytePos]
			l.advanceRune() // consume closing '}'
			if strings.TrimSpace(exprText) == "" {
				l.errorAt(exprStart, cerrors.ErrInvalidInterpolation, "empty interpolation '{}'")
				continue
			}
			flushText()
			parts = append(parts, InterpolationPart{IsExpr: true, Expr: exprText, Span: Span{Start: exprStart, End: l.pos(), FileID: l.fileID}})
			textStart = l.pos()
			hasInterpolation = true
			continue
		}
		if c == '}' {
			if l.peekByteAt(1) == '}' {
				l.advanceRune()
				l.advanceRune()
				textBuf.WriteByte('}')
				continue
			}
			l.advanceRune()
			textBuf.WriteByte('}')
			continue
		}
		runeStart := l.bytePos
		l.advanceRune()
		textBuf.WriteString(l.src[runeStart:l.bytePos])
	}
	flushText()
	l.advanceRune() // closing quote

	lexeme := l.src[startOffset:l.bytePos]
	if hasInterpolation {
		l.tokens = append(l.tokens, Token{
			Kind: InterpolatedString, Lexeme: lexeme, Interpolated: parts,
			Span: Span{Start: start, End: l.pos(), FileID: l.fileID}, Language: l.language,
		})
		return
	}
	var plain strings.Builder
	for _, p := range parts {
		plain.WriteString(p.Text)
	}
	l.tokens = append(l.tokens, Token{
		Kind: StringLiteral, Lexeme: lexeme, StringValue: plain.String(),
		Span: Span{Start: start, End: l.pos(), FileID: l.fileID}, Language: l.language,
	})
}

