// File: nodes.go
// Title: Monkey AST Node Definitions
// Description: Defines the closed set of statement and expression nodes
//              produced by the Monkey parser and their canonical textual
//              rendering. Statements and expressions are sealed through
//              unexported marker methods; every consumer dispatches over
//              them through the Visitor interface.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST node definitions

package ast

import (
	"strings"

	"github.com/msto63/mAF/foundation/monkey/token"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// TokenLiteral returns the literal of the token the node starts with
	TokenLiteral() string

	// String returns the canonical rendering of the node
	String() string

	// Pos returns the source position of the node
	Pos() token.Position

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}
}

// Statement is a node that can appear at the top level of a program
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node. Statements keep source order.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String concatenates the rendering of all statements without separator
func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) Accept(v Visitor) interface{} { return v.VisitProgram(p) }

// Statements

// LetStatement binds a name: let <Name> = <Value>;
// Value is nil when the parser runs with value parsing disabled.
type LetStatement struct {
	Token token.Token // the LET token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode()               {}
func (ls *LetStatement) TokenLiteral() string         { return ls.Token.Literal }
func (ls *LetStatement) Pos() token.Position          { return ls.Token.Pos }
func (ls *LetStatement) Accept(v Visitor) interface{} { return v.VisitLetStatement(ls) }

func (ls *LetStatement) String() string {
	var out strings.Builder

	out.WriteString(ls.TokenLiteral())
	out.WriteString(" ")
	out.WriteString(ls.Name.String())
	out.WriteString(" = ")
	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}
	out.WriteString(";")

	return out.String()
}

// ReturnStatement: return <ReturnValue>;
type ReturnStatement struct {
	Token       token.Token // the RETURN token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()               {}
func (rs *ReturnStatement) TokenLiteral() string         { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position          { return rs.Token.Pos }
func (rs *ReturnStatement) Accept(v Visitor) interface{} { return v.VisitReturnStatement(rs) }

func (rs *ReturnStatement) String() string {
	var out strings.Builder

	out.WriteString(rs.TokenLiteral())
	out.WriteString(" ")
	if rs.ReturnValue != nil {
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")

	return out.String()
}

// ExpressionStatement wraps a bare expression such as `x + 10;`
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()               {}
func (es *ExpressionStatement) TokenLiteral() string         { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position          { return es.Token.Pos }
func (es *ExpressionStatement) Accept(v Visitor) interface{} { return v.VisitExpressionStatement(es) }

func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// Expressions

// Identifier names a binding
type Identifier struct {
	Token token.Token // the IDENT token
	Value string
}

func (i *Identifier) expressionNode()              {}
func (i *Identifier) TokenLiteral() string         { return i.Token.Literal }
func (i *Identifier) Pos() token.Position          { return i.Token.Pos }
func (i *Identifier) String() string               { return i.Value }
func (i *Identifier) Accept(v Visitor) interface{} { return v.VisitIdentifier(i) }

// IntegerLiteral is a 64-bit signed integer
type IntegerLiteral struct {
	Token token.Token // the INT token
	Value int64
}

func (il *IntegerLiteral) expressionNode()              {}
func (il *IntegerLiteral) TokenLiteral() string         { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position          { return il.Token.Pos }
func (il *IntegerLiteral) String() string               { return il.Token.Literal }
func (il *IntegerLiteral) Accept(v Visitor) interface{} { return v.VisitIntegerLiteral(il) }

// Boolean is true or false
type Boolean struct {
	Token token.Token // TRUE or FALSE
	Value bool
}

func (b *Boolean) expressionNode()              {}
func (b *Boolean) TokenLiteral() string         { return b.Token.Literal }
func (b *Boolean) Pos() token.Position          { return b.Token.Pos }
func (b *Boolean) String() string               { return b.Token.Literal }
func (b *Boolean) Accept(v Visitor) interface{} { return v.VisitBoolean(b) }

// PrefixExpression is a unary operator applied to Right: (<op><right>)
type PrefixExpression struct {
	Token    token.Token // the operator token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()              {}
func (pe *PrefixExpression) TokenLiteral() string         { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() token.Position          { return pe.Token.Pos }
func (pe *PrefixExpression) Accept(v Visitor) interface{} { return v.VisitPrefixExpression(pe) }

func (pe *PrefixExpression) String() string {
	var out strings.Builder

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

// InfixExpression is a binary operation: (<left> <op> <right>)
type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()              {}
func (ie *InfixExpression) TokenLiteral() string         { return ie.Token.Literal }
func (ie *InfixExpression) Pos() token.Position          { return ie.Token.Pos }
func (ie *InfixExpression) Accept(v Visitor) interface{} { return v.VisitInfixExpression(ie) }

func (ie *InfixExpression) String() string {
	var out strings.Builder

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" ")
	out.WriteString(ie.Operator)
	out.WriteString(" ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}
