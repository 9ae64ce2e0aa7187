package parser

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// parseStatement dispatches on the current token to the right statement
// parser. It always leaves p.cur on the last token it consumed.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.IDENT:
		if isAssignStart(p.peek.Type) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return &ast.Break{BaseNode: ast.BaseNode{Token: p.cur}}
	case token.CONTINUE:
		return &ast.Continue{BaseNode: ast.BaseNode{Token: p.cur}}
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func isAssignStart(t token.TokenType) bool {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.ASTERISK_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.CARET_ASSIGN:
		return true
	default:
		return false
	}
}

var compoundOperators = map[token.TokenType]string{
	token.PLUS_ASSIGN:     "+",
	token.MINUS_ASSIGN:    "-",
	token.ASTERISK_ASSIGN: "*",
	token.SLASH_ASSIGN:    "/",
	token.PERCENT_ASSIGN:  "%",
	token.CARET_ASSIGN:    "^",
}

func (p *Parser) parseAssignStatement() ast.Statement {
	name := &ast.Identifier{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.cur.Literal}
	tok := p.cur

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // cur = '='
		p.nextToken() // cur = first token of rhs
		value := p.parseExpression(LOWEST)
		return &ast.Assign{BaseNode: ast.BaseNode{Token: tok}, Name: name, Value: value}
	}

	op := compoundOperators[p.peek.Type]
	p.nextToken() // cur = compound-assign operator
	p.nextToken() // cur = first token of rhs
	value := p.parseExpression(LOWEST)
	return &ast.OperatorAssign{BaseNode: ast.BaseNode{Token: tok}, Name: name, Operator: op, Value: value}
}

// parseReturnStatement parses `return expr` or a bare `return`, which
// yields nil. A bare return is recognized when nothing that could start
// an expression follows on the same statement.
func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF) || isBlockTerminator(p.peek.Type) {
		return &ast.Return{BaseNode: ast.BaseNode{Token: tok}, Value: nil}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.Return{BaseNode: ast.BaseNode{Token: tok}, Value: value}
}

func isBlockTerminator(t token.TokenType) bool {
	switch t {
	case token.END, token.ELSE, token.ELSEIF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.nextToken() // cur = first token of condition
	cond := p.parseExpression(LOWEST)
	p.nextToken() // move past condition onto the block's first token
	body := p.parseBlockStatement(token.END)
	if !p.expectPeek(token.WHILE) {
		return &ast.While{BaseNode: ast.BaseNode{Token: tok}, Condition: cond, Body: body}
	}
	return &ast.While{BaseNode: ast.BaseNode{Token: tok}, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	iterName := &ast.Identifier{BaseNode: ast.BaseNode{Token: p.cur}, Value: p.cur.Literal}

	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken() // cur = first token of iterable expression
	iterable := p.parseExpression(LOWEST)
	p.nextToken() // move past the iterable onto the block's first token
	body := p.parseBlockStatement(token.END)
	if !p.expectPeek(token.FOR) {
		return &ast.For{BaseNode: ast.BaseNode{Token: tok}, IterName: iterName, Iterable: iterable, Body: body}
	}
	return &ast.For{BaseNode: ast.BaseNode{Token: tok}, IterName: iterName, Iterable: iterable, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	return &ast.ExpressionStatement{BaseNode: ast.BaseNode{Token: tok}, Expression: expr}
}
