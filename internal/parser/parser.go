// Package parser implements a Pratt-style precedence-climbing parser that
// turns a token stream into an AST Program.
package parser

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/lexer"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// Precedence levels, lowest to highest, per the language's precedence
// ladder. Indexing and the power operator share the Prefix level; call
// expressions bind tightest of all.
const (
	LOWEST int = iota
	EQUALS
	COMPARISON
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[token.TokenType]int{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.GT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.AND:      COMPARISON,
	token.OR:       COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.PERCENT:  SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.CARET:    PREFIX,
	token.LBRACKET: PREFIX,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes tokens from a lexer.Lexer and produces an *ast.Program.
type Parser struct {
	l *lexer.Lexer

	errors []*Error

	cur  token.Token
	peek token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NIL:      p.parseNilLiteral,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseListLiteral,
		token.FUNCTION:  p.parseFunctionLiteral,
		token.MINUS:    p.parsePrefixExpression,
		token.PLUS:     p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.NOT:      p.parsePrefixExpression,
		token.IF:       p.parseIfExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LT_EQ:    p.parseInfixExpression,
		token.GT_EQ:    p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.CARET:    p.parseCaretExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.LPAREN:   p.parseCallExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) addError(kind Kind, pos token.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, newError(kind, pos, format, args...))
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peek.Type == t }

// expectPeek advances past peek if it matches t, otherwise records an
// UnexpectedToken error and leaves the parser positioned at the offender.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(UnexpectedToken, p.peek.Pos, "expected %s, got %s", t, p.peek.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipNewlines consumes any run of NEWLINE tokens at the current position.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseProgram parses the entire token stream into a Program.
//
// parseStatement leaves p.cur on the last token it actually consumed (the
// same convention parseExpression follows); callers advance past it with
// nextToken() before skipping the run of NEWLINE separators.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	p.skipNewlines()
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
		p.skipNewlines()
	}
	return program
}

// parseBlockStatement parses statements until the current token matches
// one of the given terminator types (left unconsumed for the caller), or
// reports UnterminatedBlock on EOF.
func (p *Parser) parseBlockStatement(terminators ...token.TokenType) *ast.BlockStatement {
	block := &ast.BlockStatement{BaseNode: ast.BaseNode{Token: p.cur}}

	p.skipNewlines()
	for !p.atTerminator(terminators) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
		p.skipNewlines()
	}
	if p.curTokenIs(token.EOF) && !p.atTerminator(terminators) {
		p.addError(UnterminatedBlock, p.cur.Pos, "unterminated block: expected %s before end of input", terminatorNames(terminators))
	}
	return block
}

func (p *Parser) atTerminator(terminators []token.TokenType) bool {
	for _, t := range terminators {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

func terminatorNames(terminators []token.TokenType) string {
	out := ""
	for i, t := range terminators {
		if i > 0 {
			out += " or "
		}
		out += t.String()
	}
	return out
}
