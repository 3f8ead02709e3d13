package parser

import (
	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
	"github.com/seen-lang/seenc/internal/compiler/lexer"
)

// parseExpression is the entry point: spec.md 4.E's precedence table
// level 1, the elvis operator, binds loosest.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseElvis()
}

// Level 1: `?:` (elvis), right-associative.
func (p *Parser) parseElvis() ast.Expr {
	start := p.peek()
	left := p.parseOr()
	if p.match(lexer.Elvis) {
		right := p.parseElvis() // right-assoc: recurse at the same level
		return ast.NewElvis(p.nextID(), p.spanFrom(start), left, right)
	}
	return left
}

// Level 2: `or`, left-associative.
func (p *Parser) parseOr() ast.Expr {
	start := p.peek()
	left := p.parseAnd()
	for p.matchKeyword(keyword.KeywordOr) {
		right := p.parseAnd()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), ast.OpOr, left, right)
	}
	return left
}

// Level 3: `and`, left-associative.
func (p *Parser) parseAnd() ast.Expr {
	start := p.peek()
	left := p.parseEquality()
	for p.matchKeyword(keyword.KeywordAnd) {
		right := p.parseEquality()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), ast.OpAnd, left, right)
	}
	return left
}

// Level 4: `==` `!=`, left-associative.
func (p *Parser) parseEquality() ast.Expr {
	start := p.peek()
	left := p.parseComparison()
	for {
		var op ast.BinaryOp
		switch {
		case p.match(lexer.EqEq):
			op = ast.OpEq
		case p.match(lexer.NotEq):
			op = ast.OpNeq
		default:
			return left
		}
		right := p.parseComparison()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), op, left, right)
	}
}

// Level 5: `< <= > >=`, left-associative.
func (p *Parser) parseComparison() ast.Expr {
	start := p.peek()
	left := p.parseTerm()
	for {
		var op ast.BinaryOp
		switch {
		case p.match(lexer.Lt):
			op = ast.OpLt
		case p.match(lexer.LtEq):
			op = ast.OpLte
		case p.match(lexer.Gt):
			op = ast.OpGt
		case p.match(lexer.GtEq):
			op = ast.OpGte
		default:
			return left
		}
		right := p.parseTerm()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), op, left, right)
	}
}

// Level 6: binary `+ -`, left-associative.
func (p *Parser) parseTerm() ast.Expr {
	start := p.peek()
	left := p.parseFactor()
	for {
		var op ast.BinaryOp
		switch {
		case p.match(lexer.Plus):
			op = ast.OpAdd
		case p.match(lexer.Minus):
			op = ast.OpSub
		default:
			return left
		}
		right := p.parseFactor()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), op, left, right)
	}
}

// Level 7: `* / %`, left-associative.
func (p *Parser) parseFactor() ast.Expr {
	start := p.peek()
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch {
		case p.match(lexer.Star):
			op = ast.OpMul
		case p.match(lexer.Slash):
			op = ast.OpDiv
		case p.match(lexer.Percent):
			op = ast.OpMod
		default:
			return left
		}
		right := p.parseUnary()
		left = ast.NewBinary(p.nextID(), p.spanFrom(start), op, left, right)
	}
}

// Level 8: unary `- !` (and keyword `not`), right-associative (i.e.
// recurses into itself so `- - x` parses as `-(-x)`).
func (p *Parser) parseUnary() ast.Expr {
	start := p.peek()
	switch {
	case p.match(lexer.Minus):
		operand := p.parseUnary()
		return ast.NewUnary(p.nextID(), p.spanFrom(start), ast.OpNeg, operand)
	case p.match(lexer.Bang):
		operand := p.parseUnary()
		return ast.NewUnary(p.nextID(), p.spanFrom(start), ast.OpNot, operand)
	case p.matchKeyword(keyword.KeywordNot):
		operand := p.parseUnary()
		return ast.NewUnary(p.nextID(), p.spanFrom(start), ast.OpNot, operand)
	}
	return p.parsePostfix()
}

// Level 9/10: postfix `?.` `.` `[]` `()` and `!!`, left-associative.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.peek()
	expr := p.parsePrimary()
	for {
		switch {
		case p.match(lexer.Dot):
			name, ok := p.parseIdentifier()
			if !ok {
				name = "<error>"
			}
			expr = ast.NewFieldAccess(p.nextID(), p.spanFrom(start), expr, name)
		case p.match(lexer.SafeNav):
			name, ok := p.parseIdentifier()
			if !ok {
				name = "<error>"
			}
			expr = ast.NewSafeNav(p.nextID(), p.spanFrom(start), expr, name)
		case p.match(lexer.LBracket):
			idx := p.parseExpression()
			p.consume(lexer.RBracket, cerrors.ErrExpectedBracket, "expected ']' to close index expression")
			expr = ast.NewIndex(p.nextID(), p.spanFrom(start), expr, idx)
		case p.check(lexer.LParen):
			args := p.parseArgs()
			expr = ast.NewCall(p.nextID(), p.spanFrom(start), expr, args)
		case p.match(lexer.ForceUnwrap):
			expr = ast.NewForceUnwrap(p.nextID(), p.spanFrom(start), expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.consume(lexer.LParen, cerrors.ErrExpectedParen, "expected '(' to start argument list")
	var args []ast.Expr
	if !p.check(lexer.RParen) {
		for {
			args = append(args, p.parseExpression())
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RParen, cerrors.ErrExpectedParen, "expected ')' to close argument list")
	return args
}

// parsePrimary covers literals, identifiers, parenthesized expressions,
// and the expression-flavored constructs (if/when/match/for/while,
// lambda, the reactive builders) per spec.md 4.E's grammar highlights.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.peek()

	switch {
	case p.check(lexer.IntLiteral):
		tok := p.advance()
		return ast.NewLiteralInt(p.nextID(), p.spanFrom(start), tok.IntValue)
	case p.check(lexer.FloatLiteral):
		tok := p.advance()
		return ast.NewLiteralFloat(p.nextID(), p.spanFrom(start), tok.FloatValue)
	case p.check(lexer.StringLiteral):
		tok := p.advance()
		return ast.NewLiteralString(p.nextID(), p.spanFrom(start), tok.StringValue)
	case p.check(lexer.InterpolatedString):
		return p.parseInterpolated()
	case p.checkKeyword(keyword.KeywordTrue):
		p.advance()
		return ast.NewLiteralBool(p.nextID(), p.spanFrom(start), true)
	case p.checkKeyword(keyword.KeywordFalse):
		p.advance()
		return ast.NewLiteralBool(p.nextID(), p.spanFrom(start), false)
	case p.checkKeyword(keyword.KeywordNull):
		p.advance()
		return ast.NewLiteralNull(p.nextID(), p.spanFrom(start))
	case p.checkKeyword(keyword.KeywordIf):
		return p.parseIfExpr()
	case p.checkKeyword(keyword.KeywordWhen):
		return p.parseWhenExpr()
	case p.checkKeyword(keyword.KeywordMatch):
		return p.parseMatchExpr()
	case p.checkKeyword(keyword.KeywordFor):
		return p.parseForExpr()
	case p.checkKeyword(keyword.KeywordWhile):
		return p.parseWhileExpr()
	case p.checkKeyword(keyword.KeywordFlow):
		p.advance()
		body := p.parseBlock()
		return ast.NewReactiveBuilder(p.nextID(), p.spanFrom(start), ast.BuilderFlow, body)
	case p.checkKeyword(keyword.KeywordReactive):
		p.advance()
		body := p.parseBlock()
		return ast.NewReactiveBuilder(p.nextID(), p.spanFrom(start), ast.BuilderReactive, body)
	case p.check(lexer.LParen):
		return p.parseParenOrLambda()
	case p.check(lexer.Identifier):
		tok := p.advance()
		return ast.NewIdent(p.nextID(), p.spanFrom(start), tok.Lexeme)
	}

	p.errorAtCurrent(cerrors.ErrInvalidExpression, "expected an expression")
	// Expression-level recovery: resync to the next likely infix
	// operator or statement boundary, substituting an Expr::Error
	// placeholder (spec.md 4.E error recovery).
	if !p.atEnd() {
		p.advance()
	}
	return ast.NewErrorExpr(p.nextID(), p.spanFrom(start), "invalid expression")
}

// parseParenOrLambda disambiguates `(expr)` from `(a: T, b: T) -> ... { }`
// by scanning ahead for a top-level Arrow or, when the parens are empty
// or hold only `name: Type` pairs, for the following `->`.
func (p *Parser) parseParenOrLambda() ast.Expr {
	if p.looksLikeLambdaParams() {
		start := p.peek()
		params := p.parseParams()
		p.consume(lexer.Arrow, cerrors.ErrUnexpectedToken, "expected '->' in lambda")
		var ret *ast.TypeExpr
		if !p.check(lexer.LBrace) {
			ret = p.parseTypeExpr()
		}
		body := p.parseBlock()
		return ast.NewLambda(p.nextID(), p.spanFrom(start), params, ret, body)
	}

	p.advance() // '('
	inner := p.parseExpression()
	p.consume(lexer.RParen, cerrors.ErrExpectedParen, "expected ')' to close parenthesized expression")
	return inner
}

// looksLikeLambdaParams scans from the current '(' to its matching ')'
// without consuming tokens, reporting whether a '->' immediately follows.
func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	i := p.current
	for i < len(p.tokens) {
		switch p.tokens[i].Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Kind == lexer.Arrow
			}
		case lexer.EOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.peek()
	p.advance() // 'if'
	cond := p.parseExpression()
	then := p.parseBlock()
	var els ast.Expr
	if p.matchKeyword(keyword.KeywordElse) {
		if p.checkKeyword(keyword.KeywordIf) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIf(p.nextID(), p.spanFrom(start), cond, then, els)
}

func (p *Parser) parseWhenExpr() ast.Expr {
	start := p.peek()
	p.advance() // 'when'
	subject := p.parseExpression()
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open when body")
	var arms []ast.WhenArm
	for !p.check(lexer.RBrace) && !p.atEnd() {
		arms = append(arms, p.parseWhenArm())
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close when body")
	return ast.NewWhen(p.nextID(), p.spanFrom(start), subject, arms)
}

func (p *Parser) parseWhenArm() ast.WhenArm {
	start := p.peek()
	var arm ast.WhenArm
	switch {
	case p.matchKeyword(keyword.KeywordElse):
		// Pattern stays nil: the else arm.
	case p.matchKeyword(keyword.KeywordIs):
		arm.TypeTest = p.parseTypeExpr()
	default:
		arm.Pattern = p.parseExpression()
	}
	if p.matchKeyword(keyword.KeywordAnd) {
		arm.Guard = p.parseExpression()
	}
	p.consume(lexer.Arrow, cerrors.ErrUnexpectedToken, "expected '->' in when arm")
	arm.Body = p.parseArmBody()
	arm.Span = p.spanFrom(start)
	return arm
}

// parseArmBody allows a block, a single expression, or a single
// statement (return/break/continue/val/var, wrapped in a one-statement
// block) as a when/match arm's body.
func (p *Parser) parseArmBody() ast.Expr {
	if p.check(lexer.LBrace) {
		return p.parseBlock()
	}
	if p.peek().Kind == lexer.Keyword {
		switch p.peek().KeywordName {
		case keyword.KeywordReturn, keyword.KeywordBreak, keyword.KeywordContinue,
			keyword.KeywordVal, keyword.KeywordVar:
			start := p.peek()
			id := p.nextID()
			stmt := p.parseStmt()
			return ast.NewBlock(id, p.spanFrom(start), []ast.Stmt{stmt})
		}
	}
	return p.parseExpression()
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.peek()
	p.advance() // 'match'
	subject := p.parseExpression()
	p.consume(lexer.LBrace, cerrors.ErrExpectedBrace, "expected '{' to open match body")
	var arms []ast.MatchArm
	for !p.check(lexer.RBrace) && !p.atEnd() {
		astart := p.peek()
		pattern := p.parseExpression()
		p.consume(lexer.Arrow, cerrors.ErrUnexpectedToken, "expected '->' in match arm")
		body := p.parseArmBody()
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body, Span: p.spanFrom(astart)})
	}
	p.consume(lexer.RBrace, cerrors.ErrExpectedBrace, "expected '}' to close match body")
	return ast.NewMatch(p.nextID(), p.spanFrom(start), subject, arms)
}

func (p *Parser) parseForExpr() ast.Expr {
	start := p.peek()
	p.advance() // 'for'
	binding, ok := p.parseIdentifier()
	if !ok {
		binding = "<error>"
	}
	p.matchKeyword(keyword.KeywordIn)
	iterable := p.parseExpression()
	body := p.parseBlock()
	return ast.NewForIn(p.nextID(), p.spanFrom(start), binding, iterable, body)
}

func (p *Parser) parseWhileExpr() ast.Expr {
	start := p.peek()
	p.advance() // 'while'
	cond := p.parseExpression()
	body := p.parseBlock()
	return ast.NewWhile(p.nextID(), p.spanFrom(start), cond, body)
}

// parseInterpolated converts the lexer's already-split InterpolationPart
// list into ast parts, re-entering expression parsing on each captured
// raw-source slice (spec.md 9: "the parser re-enters expression mode on
// those sub-slices, sharing the same expression id space").
func (p *Parser) parseInterpolated() ast.Expr {
	start := p.peek()
	tok := p.advance()
	parts := make([]ast.InterpolatedStringPart, 0, len(tok.Interpolated))
	for _, part := range tok.Interpolated {
		if !part.IsExpr {
			parts = append(parts, ast.InterpolatedStringPart{IsExpr: false, Text: part.Text})
			continue
		}
		expr := p.parseSubExpression(part.Expr, tok.Span.FileID)
		parts = append(parts, ast.InterpolatedStringPart{IsExpr: true, Expr: expr})
	}
	return ast.NewInterpolatedString(p.nextID(), p.spanFrom(start), parts)
}

// parseSubExpression re-lexes and parses a standalone expression slice
// captured from within a string interpolation, continuing the same id
// generator and diagnostics bag as the enclosing parse.
func (p *Parser) parseSubExpression(src string, fileID int) ast.Expr {
	sub := lexer.New(src, p.file, fileID, p.currentLanguage(), p.keywordTable())
	tokens, diags := sub.Tokenize()
	for _, d := range diags {
		p.diags.Recover(d)
	}
	subParser := &Parser{tokens: tokens, file: p.file, diags: p.diags, ids: p.ids}
	expr := subParser.parseExpression()
	p.ids = subParser.ids
	return expr
}

// currentLanguage/keywordTable let parseSubExpression re-lex an embedded
// interpolation slice under the same bilingual table as the enclosing
// token stream. Set by the driver that constructs the Parser (job
// package) via WithLanguage; defaulting to English keeps standalone
// parser tests (which only exercise English source) working without
// extra setup.
func (p *Parser) currentLanguage() string {
	if p.language != "" {
		return p.language
	}
	return "en"
}

func (p *Parser) keywordTable() *keyword.Table {
	if p.table != nil {
		return p.table
	}
	lang, _ := keyword.Lookup("en")
	return lang.Table
}
