// File: errors.go
// Title: Parse Error Values
// Description: Structured parse diagnostics. The parser collects these as
//              values; they are turned into a single mAF error only where
//              a caller needs one (services, CLI exit codes).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parse error types

package parser

import (
	"fmt"

	"github.com/msto63/mAF/foundation/monkey/token"
)

// ErrorKind classifies a parse error
type ErrorKind int

const (
	// ErrUnexpectedToken: a required next token was missing
	ErrUnexpectedToken ErrorKind = iota

	// ErrNoPrefixParseFn: no expression can start with the current token
	ErrNoPrefixParseFn

	// ErrInvalidInteger: an INT literal does not fit into int64
	ErrInvalidInteger
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected_token"
	case ErrNoPrefixParseFn:
		return "no_prefix_parse_fn"
	case ErrInvalidInteger:
		return "invalid_integer"
	default:
		return "unknown"
	}
}

// ParseError represents a parsing error with the offending token
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Token    token.Token // the token that caused the error
	Expected token.Kind  // only set for ErrUnexpectedToken
}

// Error returns the bare message, e.g.
// "expected next token to be IDENT, got ASSIGN"
func (pe *ParseError) Error() string {
	return pe.Message
}

// Detail returns the message prefixed with the source position
func (pe *ParseError) Detail() string {
	return fmt.Sprintf("%s: %s", pe.Token.Pos, pe.Message)
}

func newPeekError(expected token.Kind, got token.Token) *ParseError {
	return &ParseError{
		Kind:     ErrUnexpectedToken,
		Message:  fmt.Sprintf("expected next token to be %s, got %s", expected, got.Kind),
		Token:    got,
		Expected: expected,
	}
}

func newNoPrefixParseFnError(tok token.Token) *ParseError {
	return &ParseError{
		Kind:    ErrNoPrefixParseFn,
		Message: fmt.Sprintf("no prefix parse function for token %s", tok.Kind),
		Token:   tok,
	}
}

func newInvalidIntegerError(tok token.Token) *ParseError {
	return &ParseError{
		Kind:    ErrInvalidInteger,
		Message: fmt.Sprintf("could not parse %q as integer", tok.Literal),
		Token:   tok,
	}
}
