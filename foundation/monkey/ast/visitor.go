// File: visitor.go
// Title: Monkey AST Visitor Pattern Implementation
// Description: Visitor interface with one method per node variant plus the
//              visitors used by the tooling: an indented tree dump, an
//              invariant validator, a generic map conversion for JSON and
//              protobuf transport, and a node counter.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial visitor implementations

package ast

import (
	"fmt"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	mdwstringx "github.com/msto63/mAF/foundation/utils/stringx"
)

// Visitor must handle every node variant. Adding a node type means adding
// a method here, which breaks every visitor until it handles the new node.
type Visitor interface {
	VisitProgram(program *Program) interface{}

	// Statements
	VisitLetStatement(stmt *LetStatement) interface{}
	VisitReturnStatement(stmt *ReturnStatement) interface{}
	VisitExpressionStatement(stmt *ExpressionStatement) interface{}

	// Expressions
	VisitIdentifier(expr *Identifier) interface{}
	VisitIntegerLiteral(expr *IntegerLiteral) interface{}
	VisitBoolean(expr *Boolean) interface{}
	VisitPrefixExpression(expr *PrefixExpression) interface{}
	VisitInfixExpression(expr *InfixExpression) interface{}
}

// TreeVisitor renders an indented, one node per line view of the tree
type TreeVisitor struct {
	builder strings.Builder
	indent  int
}

// NewTreeVisitor creates a new tree visitor
func NewTreeVisitor() *TreeVisitor {
	return &TreeVisitor{}
}

// String returns the rendered tree
func (tv *TreeVisitor) String() string {
	return tv.builder.String()
}

func (tv *TreeVisitor) line(format string, args ...interface{}) {
	tv.builder.WriteString(strings.Repeat("  ", tv.indent))
	tv.builder.WriteString(fmt.Sprintf(format, args...))
	tv.builder.WriteString("\n")
}

func (tv *TreeVisitor) child(label string, node Node) {
	tv.indent++
	if node == nil {
		tv.line("%s: <none>", label)
	} else {
		tv.line("%s:", label)
		tv.indent++
		node.Accept(tv)
		tv.indent--
	}
	tv.indent--
}

func (tv *TreeVisitor) VisitProgram(program *Program) interface{} {
	tv.line("Program (%d statements)", len(program.Statements))
	tv.indent++
	for _, stmt := range program.Statements {
		stmt.Accept(tv)
	}
	tv.indent--
	return nil
}

func (tv *TreeVisitor) VisitLetStatement(stmt *LetStatement) interface{} {
	tv.line("LetStatement %s @%s", stmt.Name.Value, stmt.Pos())
	tv.child("value", optional(stmt.Value))
	return nil
}

func (tv *TreeVisitor) VisitReturnStatement(stmt *ReturnStatement) interface{} {
	tv.line("ReturnStatement @%s", stmt.Pos())
	tv.child("value", optional(stmt.ReturnValue))
	return nil
}

func (tv *TreeVisitor) VisitExpressionStatement(stmt *ExpressionStatement) interface{} {
	tv.line("ExpressionStatement @%s", stmt.Pos())
	tv.indent++
	if stmt.Expression != nil {
		stmt.Expression.Accept(tv)
	}
	tv.indent--
	return nil
}

func (tv *TreeVisitor) VisitIdentifier(expr *Identifier) interface{} {
	tv.line("Identifier %s", expr.Value)
	return nil
}

func (tv *TreeVisitor) VisitIntegerLiteral(expr *IntegerLiteral) interface{} {
	tv.line("IntegerLiteral %d", expr.Value)
	return nil
}

func (tv *TreeVisitor) VisitBoolean(expr *Boolean) interface{} {
	tv.line("Boolean %t", expr.Value)
	return nil
}

func (tv *TreeVisitor) VisitPrefixExpression(expr *PrefixExpression) interface{} {
	tv.line("PrefixExpression %s", expr.Operator)
	tv.indent++
	expr.Right.Accept(tv)
	tv.indent--
	return nil
}

func (tv *TreeVisitor) VisitInfixExpression(expr *InfixExpression) interface{} {
	tv.line("InfixExpression %s", expr.Operator)
	tv.indent++
	expr.Left.Accept(tv)
	expr.Right.Accept(tv)
	tv.indent--
	return nil
}

// ValidationVisitor checks the structural invariants of a parsed tree:
// identifiers are never blank and integer literals round-trip to the
// decimal text they were parsed from.
type ValidationVisitor struct {
	violations []string
}

// NewValidationVisitor creates a new validation visitor
func NewValidationVisitor() *ValidationVisitor {
	return &ValidationVisitor{}
}

// Violations returns all collected invariant violations
func (vv *ValidationVisitor) Violations() []string {
	return vv.violations
}

func (vv *ValidationVisitor) addf(node Node, format string, args ...interface{}) {
	vv.violations = append(vv.violations, fmt.Sprintf("%s: %s", node.Pos(), fmt.Sprintf(format, args...)))
}

func (vv *ValidationVisitor) VisitProgram(program *Program) interface{} {
	for i, stmt := range program.Statements {
		if stmt == nil {
			vv.violations = append(vv.violations, fmt.Sprintf("statement %d is nil", i))
			continue
		}
		stmt.Accept(vv)
	}
	return nil
}

func (vv *ValidationVisitor) VisitLetStatement(stmt *LetStatement) interface{} {
	if stmt.Name == nil {
		vv.addf(stmt, "let statement without name")
	} else {
		stmt.Name.Accept(vv)
	}
	if stmt.Value != nil {
		stmt.Value.Accept(vv)
	}
	return nil
}

func (vv *ValidationVisitor) VisitReturnStatement(stmt *ReturnStatement) interface{} {
	if stmt.ReturnValue != nil {
		stmt.ReturnValue.Accept(vv)
	}
	return nil
}

func (vv *ValidationVisitor) VisitExpressionStatement(stmt *ExpressionStatement) interface{} {
	if stmt.Expression == nil {
		vv.addf(stmt, "expression statement without expression")
		return nil
	}
	stmt.Expression.Accept(vv)
	return nil
}

func (vv *ValidationVisitor) VisitIdentifier(expr *Identifier) interface{} {
	if mdwstringx.IsBlank(expr.Value) {
		vv.addf(expr, "identifier is empty")
	}
	return nil
}

func (vv *ValidationVisitor) VisitIntegerLiteral(expr *IntegerLiteral) interface{} {
	if text := strconv.FormatInt(expr.Value, 10); text != expr.Token.Literal {
		vv.addf(expr, "integer literal %q does not round-trip (value %s)", expr.Token.Literal, text)
	}
	return nil
}

func (vv *ValidationVisitor) VisitBoolean(expr *Boolean) interface{} {
	if strconv.FormatBool(expr.Value) != expr.Token.Literal {
		vv.addf(expr, "boolean literal %q does not match value %t", expr.Token.Literal, expr.Value)
	}
	return nil
}

func (vv *ValidationVisitor) VisitPrefixExpression(expr *PrefixExpression) interface{} {
	if expr.Right == nil {
		vv.addf(expr, "prefix %s without operand", expr.Operator)
		return nil
	}
	expr.Right.Accept(vv)
	return nil
}

func (vv *ValidationVisitor) VisitInfixExpression(expr *InfixExpression) interface{} {
	if expr.Left == nil || expr.Right == nil {
		vv.addf(expr, "infix %s with missing operand", expr.Operator)
		return nil
	}
	expr.Left.Accept(vv)
	expr.Right.Accept(vv)
	return nil
}

// MapVisitor converts nodes into nested map[string]interface{} values.
// Only types accepted by encoding/json and structpb.NewValue are used.
type MapVisitor struct{}

func (mv *MapVisitor) node(kind string, n Node) map[string]interface{} {
	pos := n.Pos()
	return map[string]interface{}{
		"type":   kind,
		"line":   pos.Line,
		"column": pos.Column,
	}
}

func (mv *MapVisitor) optional(expr Expression) interface{} {
	if expr == nil {
		return nil
	}
	return expr.Accept(mv)
}

func (mv *MapVisitor) VisitProgram(program *Program) interface{} {
	statements := make([]interface{}, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		statements = append(statements, stmt.Accept(mv))
	}
	return map[string]interface{}{
		"type":       "Program",
		"statements": statements,
	}
}

func (mv *MapVisitor) VisitLetStatement(stmt *LetStatement) interface{} {
	m := mv.node("LetStatement", stmt)
	m["name"] = stmt.Name.Value
	m["value"] = mv.optional(stmt.Value)
	return m
}

func (mv *MapVisitor) VisitReturnStatement(stmt *ReturnStatement) interface{} {
	m := mv.node("ReturnStatement", stmt)
	m["value"] = mv.optional(stmt.ReturnValue)
	return m
}

func (mv *MapVisitor) VisitExpressionStatement(stmt *ExpressionStatement) interface{} {
	m := mv.node("ExpressionStatement", stmt)
	m["expression"] = mv.optional(stmt.Expression)
	return m
}

func (mv *MapVisitor) VisitIdentifier(expr *Identifier) interface{} {
	m := mv.node("Identifier", expr)
	m["value"] = expr.Value
	return m
}

func (mv *MapVisitor) VisitIntegerLiteral(expr *IntegerLiteral) interface{} {
	m := mv.node("IntegerLiteral", expr)
	m["value"] = expr.Value
	return m
}

func (mv *MapVisitor) VisitBoolean(expr *Boolean) interface{} {
	m := mv.node("Boolean", expr)
	m["value"] = expr.Value
	return m
}

func (mv *MapVisitor) VisitPrefixExpression(expr *PrefixExpression) interface{} {
	m := mv.node("PrefixExpression", expr)
	m["operator"] = expr.Operator
	m["right"] = expr.Right.Accept(mv)
	return m
}

func (mv *MapVisitor) VisitInfixExpression(expr *InfixExpression) interface{} {
	m := mv.node("InfixExpression", expr)
	m["operator"] = expr.Operator
	m["left"] = expr.Left.Accept(mv)
	m["right"] = expr.Right.Accept(mv)
	return m
}

// CountVisitor counts nodes per variant name
type CountVisitor struct {
	Counts map[string]int
}

// NewCountVisitor creates a new count visitor
func NewCountVisitor() *CountVisitor {
	return &CountVisitor{Counts: make(map[string]int)}
}

func (cv *CountVisitor) visitOptional(expr Expression) {
	if expr != nil {
		expr.Accept(cv)
	}
}

func (cv *CountVisitor) VisitProgram(program *Program) interface{} {
	for _, stmt := range program.Statements {
		stmt.Accept(cv)
	}
	return nil
}

func (cv *CountVisitor) VisitLetStatement(stmt *LetStatement) interface{} {
	cv.Counts["LetStatement"]++
	stmt.Name.Accept(cv)
	cv.visitOptional(stmt.Value)
	return nil
}

func (cv *CountVisitor) VisitReturnStatement(stmt *ReturnStatement) interface{} {
	cv.Counts["ReturnStatement"]++
	cv.visitOptional(stmt.ReturnValue)
	return nil
}

func (cv *CountVisitor) VisitExpressionStatement(stmt *ExpressionStatement) interface{} {
	cv.Counts["ExpressionStatement"]++
	cv.visitOptional(stmt.Expression)
	return nil
}

func (cv *CountVisitor) VisitIdentifier(expr *Identifier) interface{} {
	cv.Counts["Identifier"]++
	return nil
}

func (cv *CountVisitor) VisitIntegerLiteral(expr *IntegerLiteral) interface{} {
	cv.Counts["IntegerLiteral"]++
	return nil
}

func (cv *CountVisitor) VisitBoolean(expr *Boolean) interface{} {
	cv.Counts["Boolean"]++
	return nil
}

func (cv *CountVisitor) VisitPrefixExpression(expr *PrefixExpression) interface{} {
	cv.Counts["PrefixExpression"]++
	expr.Right.Accept(cv)
	return nil
}

func (cv *CountVisitor) VisitInfixExpression(expr *InfixExpression) interface{} {
	cv.Counts["InfixExpression"]++
	expr.Left.Accept(cv)
	expr.Right.Accept(cv)
	return nil
}

// optional converts a possibly nil expression into a Node without
// producing a non-nil interface holding a nil pointer.
func optional(expr Expression) Node {
	if expr == nil {
		return nil
	}
	return expr
}

// Convenience functions

// Dump returns the indented tree view of a node
func Dump(node Node) string {
	tv := NewTreeVisitor()
	node.Accept(tv)
	return tv.String()
}

// Validate checks the invariants of a tree and returns a VALIDATION_FAILED
// error listing every violation, or nil.
func Validate(node Node) error {
	vv := NewValidationVisitor()
	node.Accept(vv)

	if len(vv.violations) == 0 {
		return nil
	}

	return mdwerror.New(fmt.Sprintf("AST validation failed: %s", strings.Join(vv.violations, "; "))).
		WithCode(mdwerror.CodeValidationFailed).
		WithOperation("ast.Validate").
		WithDetail("violations", vv.violations)
}

// ToMap converts a node into a generic map tree
func ToMap(node Node) map[string]interface{} {
	m, _ := node.Accept(&MapVisitor{}).(map[string]interface{})
	return m
}

// Count returns the number of nodes per variant below node
func Count(node Node) map[string]int {
	cv := NewCountVisitor()
	node.Accept(cv)
	return cv.Counts
}
