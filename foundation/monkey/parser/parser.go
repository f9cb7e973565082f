// File: parser.go
// Title: Monkey Pratt Parser
// Description: Builds a Monkey AST from the lexer's token stream. Statements
//              are parsed by recursive descent, expressions by precedence
//              climbing over a two-token window (current and peek). A
//              malformed statement records one error and parsing resumes
//              after the next semicolon, so the rest of the input is
//              always parsed.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strconv"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/foundation/monkey/ast"
	"github.com/msto63/mAF/foundation/monkey/lexer"
	"github.com/msto63/mAF/foundation/monkey/token"
)

type (
	prefixParseFn func() (ast.Expression, *ParseError)
	infixParseFn  func(left ast.Expression) (ast.Expression, *ParseError)
)

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger

	// SkipValues makes let and return skip everything up to the next
	// semicolon instead of parsing a value expression.
	SkipValues bool
}

// Option modifies Options
type Option func(*Options)

// WithLogger sets the logger used for debug output
func WithLogger(logger *mdwlog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithSkipValues enables or disables value parsing for let and return
func WithSkipValues(skip bool) Option {
	return func(o *Options) { o.SkipValues = skip }
}

// Parser implements Pratt parsing for Monkey
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []*ParseError

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn

	logger  *mdwlog.Logger
	options Options
}

// New creates a parser reading from l. The first two tokens are consumed
// immediately to fill the current/peek window.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = mdwlog.GetDefault()
	}

	p := &Parser{
		l:              l,
		prefixParseFns: make(map[token.Kind]prefixParseFn),
		infixParseFns:  make(map[token.Kind]infixParseFn),
		logger:         options.Logger.WithField("component", "monkey-parser"),
		options:        options,
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	for _, kind := range []token.Kind{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK,
		token.EQ, token.NOT_EQ, token.LT, token.GT,
	} {
		p.registerInfix(kind, p.parseInfixExpression)
	}

	p.nextToken()
	p.nextToken()

	return p
}

// Parse lexes and parses input in one step
func Parse(input string, opts ...Option) (*ast.Program, []string) {
	p := New(lexer.New(input), opts...)
	program := p.ParseProgram()
	return program, p.Errors()
}

// Errors returns the messages of all recorded parse errors in order
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.errors))
	for i, err := range p.errors {
		msgs[i] = err.Message
	}
	return msgs
}

// Diagnostics returns the recorded parse errors with token information
func (p *Parser) Diagnostics() []*ParseError {
	return p.errors
}

// Err returns nil when the parse succeeded, otherwise a MONKEY_SYNTAX
// error carrying all messages in the "errors" detail.
func (p *Parser) Err() error {
	if len(p.errors) == 0 {
		return nil
	}

	first := p.errors[0]
	return mdwerror.New(fmt.Sprintf("%d parse error(s), first at %s: %s", len(p.errors), first.Token.Pos, first.Message)).
		WithCode(mdwerror.CodeMonkeySyntax).
		WithOperation("parser.ParseProgram").
		WithDetail("errors", p.Errors())
}

// ParseProgram parses statements until EOF. The returned program contains
// every statement that parsed; callers must check Errors to know whether
// it is complete.
func (p *Parser) ParseProgram() *ast.Program {
	p.logger.Debug("Starting Monkey parsing", mdwlog.Fields{
		"first_token": p.cur.Kind.String(),
	})

	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			p.errors = append(p.errors, err)
			p.logger.Debug("Statement skipped", mdwlog.Fields{
				"error":    err.Message,
				"position": err.Token.Pos.String(),
			})
			p.synchronize()
		} else {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	p.logger.Debug("Monkey parsing completed", mdwlog.Fields{
		"statements": len(program.Statements),
		"errors":     len(p.errors),
	})

	return program
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curTokenIs(kind token.Kind) bool {
	return p.cur.Kind == kind
}

func (p *Parser) peekTokenIs(kind token.Kind) bool {
	return p.peek.Kind == kind
}

// expectPeek advances only if the peek token has the expected kind
func (p *Parser) expectPeek(kind token.Kind) *ParseError {
	if !p.peekTokenIs(kind) {
		return newPeekError(kind, p.peek)
	}
	p.nextToken()
	return nil
}

func (p *Parser) peekPrecedence() Precedence {
	return PrecedenceOf(p.peek.Kind)
}

func (p *Parser) curPrecedence() Precedence {
	return PrecedenceOf(p.cur.Kind)
}

// synchronize moves cur onto the next semicolon (or EOF) after an error so
// that the rest of a broken statement is not parsed as new statements.
func (p *Parser) synchronize() {
	p.skipToSemicolon()
}

func (p *Parser) skipToSemicolon() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) registerPrefix(kind token.Kind, fn prefixParseFn) {
	p.prefixParseFns[kind] = fn
}

func (p *Parser) registerInfix(kind token.Kind, fn infixParseFn) {
	p.infixParseFns[kind] = fn
}

// Statements

func (p *Parser) parseStatement() (ast.Statement, *ParseError) {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Statement, *ParseError) {
	stmt := &ast.LetStatement{Token: p.cur}

	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}

	stmt.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}

	if err := p.expectPeek(token.ASSIGN); err != nil {
		return nil, err
	}

	if p.options.SkipValues {
		p.skipToSemicolon()
		return stmt, nil
	}

	p.nextToken()

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Value = value

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, *ParseError) {
	stmt := &ast.ReturnStatement{Token: p.cur}

	if p.options.SkipValues {
		p.skipToSemicolon()
		return stmt, nil
	}

	// return; and a bare return at the end of input carry no value
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt, nil
	}
	if p.peekTokenIs(token.EOF) {
		return stmt, nil
	}

	p.nextToken()

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.ReturnValue = value

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// parseExpressionStatement accepts a missing trailing semicolon, which
// keeps single REPL expressions like `5 + 5` valid.
func (p *Parser) parseExpressionStatement() (ast.Statement, *ParseError) {
	stmt := &ast.ExpressionStatement{Token: p.cur}

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Expression = expr

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// Expressions

func (p *Parser) parseExpression(precedence Precedence) (ast.Expression, *ParseError) {
	prefix := p.prefixParseFns[p.cur.Kind]
	if prefix == nil {
		return nil, newNoPrefixParseFnError(p.cur)
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Kind]
		if infix == nil {
			return left, nil
		}

		p.nextToken()

		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, *ParseError) {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Literal}, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, *ParseError) {
	value, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		return nil, newInvalidIntegerError(p.cur)
	}

	return &ast.IntegerLiteral{Token: p.cur, Value: value}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, *ParseError) {
	return &ast.Boolean{Token: p.cur, Value: p.curTokenIs(token.TRUE)}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, *ParseError) {
	expr := &ast.PrefixExpression{
		Token:    p.cur,
		Operator: p.cur.Literal,
	}

	p.nextToken()

	right, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	expr.Right = right

	return expr, nil
}

// parseInfixExpression recurses with the operator's own precedence, which
// makes all binary operators left-associative.
func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, *ParseError) {
	expr := &ast.InfixExpression{
		Token:    p.cur,
		Operator: p.cur.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	expr.Right = right

	return expr, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, *ParseError) {
	p.nextToken()

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}

	return expr, nil
}
