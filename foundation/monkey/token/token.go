// File: token.go
// Title: Monkey Token Model
// Description: Defines the closed set of lexical categories of the Monkey
//              language and the Token value produced by the lexer. Kinds
//              print as upper-case names (IDENT, ASSIGN, ...), which is
//              the form used in parser diagnostics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial token model

package token

import "fmt"

// Kind represents the lexical category of a token
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	ILLEGAL

	// Identifiers and literals
	IDENT // add, foobar, x, y
	INT   // 1343456

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	BANG     // !
	ASTERISK // *
	SLASH    // /
	LT       // <
	GT       // >
	EQ       // ==
	NOT_EQ   // !=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	// Keywords
	FUNCTION // fn
	LET      // let
	TRUE     // true
	FALSE    // false
	IF       // if
	ELSE     // else
	RETURN   // return

	kindCount
)

var kindNames = [...]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	INT:       "INT",
	ASSIGN:    "ASSIGN",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	BANG:      "BANG",
	ASTERISK:  "ASTERISK",
	SLASH:     "SLASH",
	LT:        "LT",
	GT:        "GT",
	EQ:        "EQ",
	NOT_EQ:    "NOT_EQ",
	COMMA:     "COMMA",
	SEMICOLON: "SEMICOLON",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	FUNCTION:  "FUNCTION",
	LET:       "LET",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	IF:        "IF",
	ELSE:      "ELSE",
	RETURN:    "RETURN",
}

// String returns the diagnostic name of the kind
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether the kind is one of the reserved words
func (k Kind) IsKeyword() bool {
	return k >= FUNCTION && k <= RETURN
}

// IsOperator reports whether the kind is an operator
func (k Kind) IsOperator() bool {
	return k >= ASSIGN && k <= NOT_EQ
}

// IsDelimiter reports whether the kind is a delimiter
func (k Kind) IsDelimiter() bool {
	return k >= COMMA && k <= RBRACE
}

// Kinds returns all token kinds in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(kindCount))
	for k := EOF; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind is the inverse of Kind.String
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return ILLEGAL, false
}

// Position marks where a token starts in the input
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column in runes (1-based)
}

// String returns line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified lexical unit. Tokens are small values and are
// copied freely between the lexer, the parser and AST nodes.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

// New creates a token without position information
func New(kind Kind, literal string) Token {
	return Token{Kind: kind, Literal: literal}
}

// String renders the token the way the REPL echoes it
func (t Token) String() string {
	return fmt.Sprintf("{Kind:%s Literal:%q}", t.Kind, t.Literal)
}

var keywords = map[string]Kind{
	"fn":     FUNCTION,
	"let":    LET,
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent classifies an identifier as keyword or plain IDENT
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}
