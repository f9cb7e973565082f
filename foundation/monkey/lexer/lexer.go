// File: lexer.go
// Title: Monkey Lexical Analyzer
// Description: Turns Monkey source text into tokens on demand. The lexer
//              keeps a one-character lookahead for the two-character
//              operators == and != and never fails: unknown characters
//              become ILLEGAL tokens for the parser to report.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial lexer implementation

package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/msto63/mAF/foundation/monkey/token"
)

// eof is the sentinel rune stored in ch once the input is exhausted
const eof rune = -1

// Lexer performs lexical analysis of Monkey source text
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current character
	line    int
	column  int
}

// New creates a lexer positioned on the first character of input
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token. Once the input is exhausted every
// call returns a new EOF token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start := token.Position{Offset: l.pos, Line: l.line, Column: l.column}

	var tok token.Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Kind: token.EQ, Literal: "=="}
		} else {
			tok = l.newToken(token.ASSIGN)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Kind: token.NOT_EQ, Literal: "!="}
		} else {
			tok = l.newToken(token.BANG)
		}
	case '+':
		tok = l.newToken(token.PLUS)
	case '-':
		tok = l.newToken(token.MINUS)
	case '*':
		tok = l.newToken(token.ASTERISK)
	case '/':
		tok = l.newToken(token.SLASH)
	case '<':
		tok = l.newToken(token.LT)
	case '>':
		tok = l.newToken(token.GT)
	case ',':
		tok = l.newToken(token.COMMA)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case eof:
		tok = token.Token{Kind: token.EOF, Literal: ""}
		tok.Pos = start
		return tok
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return token.Token{Kind: token.LookupIdent(literal), Literal: literal, Pos: start}
		}
		if isDigit(l.ch) {
			return token.Token{Kind: token.INT, Literal: l.readNumber(), Pos: start}
		}
		tok = l.newToken(token.ILLEGAL)
	}

	tok.Pos = start
	l.readChar()
	return tok
}

// Tokenize drains the lexer and returns all tokens including the final EOF
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// Tokenize is a convenience function that lexes a complete input
func Tokenize(input string) []token.Token {
	return New(input).Tokenize()
}

// readChar advances to the next rune. Invalid UTF-8 bytes are passed on
// as utf8.RuneError and end up as ILLEGAL tokens.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	l.pos = l.readPos
	l.column++
	if l.readPos >= len(l.input) {
		l.ch = eof
		return
	}

	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += width
}

// peekChar returns the next character without consuming it
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// newToken builds a single-character token from the current character
func (l *Lexer) newToken(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Literal: l.input[l.pos:l.readPos]}
}

// isLetter accepts Unicode letters and underscore
func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

// isDigit accepts ASCII decimal digits only, so INT literals always parse
// with strconv.
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
