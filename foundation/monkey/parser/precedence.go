// File: precedence.go
// Title: Operator Precedence Table
// Description: The precedence ladder of the Monkey expression grammar and
//              the operator-to-precedence lookup. Kept apart from the
//              parsing control flow: supporting a new binary operator is
//              one table entry plus one infix registration.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial precedence table

package parser

import "github.com/msto63/mAF/foundation/monkey/token"

// Precedence is the binding power of an operator; higher binds tighter
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

// String returns the name of the precedence level
func (p Precedence) String() string {
	switch p {
	case LOWEST:
		return "LOWEST"
	case EQUALS:
		return "EQUALS"
	case LESSGREATER:
		return "LESSGREATER"
	case SUM:
		return "SUM"
	case PRODUCT:
		return "PRODUCT"
	case PREFIX:
		return "PREFIX"
	case CALL:
		return "CALL"
	default:
		return "UNKNOWN"
	}
}

var precedences = map[token.Kind]Precedence{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
}

// PrecedenceOf returns the infix precedence of a token kind. Kinds that are
// not binary operators resolve to LOWEST, which ends expression extension.
func PrecedenceOf(kind token.Kind) Precedence {
	if p, ok := precedences[kind]; ok {
		return p
	}
	return LOWEST
}
