package parser

import (
	"strconv"
	"strings"

	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// parseExpression is the Pratt climbing loop: parse a prefix expression,
// then keep folding in infix operators whose precedence exceeds the
// caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.addError(UnexpectedToken, p.cur.Pos, "no prefix parse function for %s", p.cur.Type)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.cur.Literal}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.addError(UnexpectedToken, tok.Pos, "invalid integer literal: %q", tok.Literal)
		v = 0
	}
	return &ast.IntLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError(UnexpectedToken, tok.Pos, "invalid float literal: %q", tok.Literal)
		v = 0
	}
	return &ast.FloatLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	resolved, ok := p.resolveEscapes(tok.Literal, tok.Pos)
	if !ok {
		return &ast.StringLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: tok.Literal}
	}
	return &ast.StringLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: resolved}
}

// resolveEscapes interprets the raw two-byte `\x` sequences the lexer
// preserved verbatim. Unknown escapes or a trailing backslash are
// MalformedEscape parse errors.
func (p *Parser) resolveEscapes(raw string, pos token.Position) (string, bool) {
	var sb strings.Builder
	ok := true
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if i+1 >= len(raw) {
			p.addError(MalformedEscape, pos, "trailing backslash in string literal")
			ok = false
			break
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '?':
			sb.WriteByte('?')
		default:
			p.addError(MalformedEscape, pos, "unknown escape sequence: \\%c", raw[i])
			ok = false
			sb.WriteByte(raw[i])
		}
	}
	return sb.String(), ok
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{BaseNode: ast.BaseNode{Token: p.cur}}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	p.skipNewlines()
	expr := p.parseExpression(LOWEST)
	p.skipNewlines()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	elements := []ast.Expression{}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLiteral{BaseNode: ast.BaseNode{Token: tok}, Elements: elements}
	}

	p.nextToken()
	elements = append(elements, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elements = append(elements, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListLiteral{BaseNode: ast.BaseNode{Token: tok}, Elements: elements}
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params := p.parseFunctionParameters()

	p.nextToken() // move past ')' onto the block's first token
	block := p.parseBlockStatement(token.END)
	if !p.expectPeek(token.FUNCTION) {
		return &ast.FunctionLiteral{BaseNode: ast.BaseNode{Token: tok}, Parameters: params, Body: block}
	}
	return &ast.FunctionLiteral{BaseNode: ast.BaseNode{Token: tok}, Parameters: params, Body: block}
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	params := []*ast.Identifier{}
	seen := map[string]bool{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	first := &ast.Identifier{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.cur.Literal}
	params = append(params, first)
	seen[first.Value] = true

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		ident := &ast.Identifier{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.cur.Literal}
		if seen[ident.Value] {
			p.addError(DuplicateParameter, ident.Pos(), "duplicate parameter name: %s", ident.Value)
		}
		seen[ident.Value] = true
		params = append(params, ident)
	}

	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.cur
	operator := tok.Literal
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.Prefix{BaseNode: ast.BaseNode{Token: tok}, Operator: operator, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	operator := tok.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.Infix{BaseNode: ast.BaseNode{Token: tok}, Operator: operator, Left: left, Right: right}
}

// parseCaretExpression handles `^`, which is right-associative: parsing
// the right operand at PREFIX-1 lets a further `^` to the right recurse
// instead of folding leftward.
func (p *Parser) parseCaretExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	right := p.parseExpression(PREFIX - 1)
	return &ast.Infix{BaseNode: ast.BaseNode{Token: tok}, Operator: "^", Left: left, Right: right}
}

// parseIndexExpression handles both `operand[i]` and the slice forms
// `operand[a:b]`, `operand[:b]`, `operand[a:]`, `operand[:]`.
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.cur // '['
	var first, second ast.Expression
	isSlice := false

	if p.peekTokenIs(token.COLON) {
		isSlice = true
		p.nextToken() // cur = ':'
	} else {
		p.nextToken()
		first = p.parseExpression(LOWEST)
		if p.peekTokenIs(token.COLON) {
			isSlice = true
			p.nextToken() // cur = ':'
		}
	}

	if isSlice && !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		second = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(token.RBRACKET) {
		p.addError(MalformedIndex, tok.Pos, "malformed index or slice expression")
		return nil
	}

	return &ast.Index{
		BaseNode:    ast.BaseNode{Token: tok},
		Operand:     left,
		Index:       first,
		SecondIndex: second,
		IsSlice:     isSlice,
	}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.cur // '('
	args := p.parseCallArguments()
	return &ast.Call{BaseNode: ast.BaseNode{Token: tok}, Callee: callee, Args: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			p.addError(UnexpectedToken, p.peek.Pos, "trailing comma not allowed in call arguments")
			p.nextToken()
			return args
		}
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

// parseIfExpression parses `if cond then ... (elseif cond then ...)*
// (else ...)? end if`. An `else` immediately followed by `if` is treated
// identically to `elseif`.
func (p *Parser) parseIfExpression() ast.Expression {
	tok := p.cur
	branches := []ast.IfBranch{}

	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken() // move past 'then' onto the block's first token
	body := p.parseBlockStatement(token.ELSEIF, token.ELSE, token.END)
	branches = append(branches, ast.IfBranch{Condition: cond, Consequence: body})

	for p.curTokenIs(token.ELSEIF) || (p.curTokenIs(token.ELSE) && p.peekTokenIs(token.IF)) {
		if p.curTokenIs(token.ELSE) {
			p.nextToken() // consume 'else', cur becomes 'if'
		}
		p.nextToken() // consume 'elseif'/'if'
		cond := p.parseExpression(LOWEST)
		if !p.expectPeek(token.THEN) {
			return nil
		}
		p.nextToken() // move past 'then' onto the block's first token
		body := p.parseBlockStatement(token.ELSEIF, token.ELSE, token.END)
		branches = append(branches, ast.IfBranch{Condition: cond, Consequence: body})
	}

	if p.curTokenIs(token.ELSE) {
		p.nextToken() // consume 'else'
		body := p.parseBlockStatement(token.END)
		branches = append(branches, ast.IfBranch{Condition: nil, Consequence: body})
	}

	if !p.expectPeek(token.IF) {
		return &ast.If{BaseNode: ast.BaseNode{Token: tok}, Branches: branches}
	}
	return &ast.If{BaseNode: ast.BaseNode{Token: tok}, Branches: branches}
}
