// Package ast — expression nodes.
//
// Every splice expression parses into a tree of Expression nodes:
//
//	Expression (interface)
//	  Identifier, IntLiteral, FloatLiteral
//	  TupleLiteral, ListLiteral
//	  PrefixExpr, InfixExpr
//	  CallExpr, FieldExpr, IndexExpr, SliceExpr
//
// Positional information is stored on the Token field present in every node.
package ast

import (
	"fmt"
	"strings"
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element in the expression tree.
type Node interface {
	// TokenLiteral returns the literal string of the token that began this node.
	TokenLiteral() string
	// String returns a compact, fully parenthesised representation of the node.
	// It is intended for debugging and test output, not pretty-printing.
	String() string
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// ── Literals and names ────────────────────────────────────────────────────────

// Identifier is a name resolved against the evaluation scope, then builtins.
type Identifier struct {
	Token Token
	Name  string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string       { return e.Name }

// IntLiteral is a decimal integer constant.
type IntLiteral struct {
	Token Token
	Value int64
}

func (e *IntLiteral) expressionNode()      {}
func (e *IntLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *IntLiteral) String() string       { return e.Token.Literal }

// FloatLiteral is a decimal floating-point constant.
type FloatLiteral struct {
	Token Token
	Value float64
}

func (e *FloatLiteral) expressionNode()      {}
func (e *FloatLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *FloatLiteral) String() string       { return e.Token.Literal }

// TupleLiteral is a parenthesised, comma-separated sequence.
//
//	()        → Items=[]
//	(3,)      → Items=[3]
//	(1, 2)    → Items=[1, 2]
type TupleLiteral struct {
	Token Token // the '(' token
	Items []Expression
}

func (e *TupleLiteral) expressionNode()      {}
func (e *TupleLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *TupleLiteral) String() string {
	if len(e.Items) == 1 {
		return "(" + e.Items[0].String() + ",)"
	}
	return "(" + joinExprs(e.Items) + ")"
}

// ListLiteral is a bracketed, comma-separated sequence: [1, 2].
type ListLiteral struct {
	Token Token // the '[' token
	Items []Expression
}

func (e *ListLiteral) expressionNode()      {}
func (e *ListLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ListLiteral) String() string       { return "[" + joinExprs(e.Items) + "]" }

// ── Operators ─────────────────────────────────────────────────────────────────

// PrefixExpr is a unary operator applied to an operand: -x, +x.
type PrefixExpr struct {
	Token    Token
	Operator string
	Right    Expression
}

func (e *PrefixExpr) expressionNode()      {}
func (e *PrefixExpr) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpr) String() string {
	return fmt.Sprintf("(%s%s)", e.Operator, e.Right.String())
}

// InfixExpr is a binary operator: a + b, n // 2.
type InfixExpr struct {
	Token    Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpr) expressionNode()      {}
func (e *InfixExpr) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Operator, e.Right.String())
}

// ── Postfix forms ─────────────────────────────────────────────────────────────

// CallExpr is a function call: range(1, 4).
type CallExpr struct {
	Token    Token // the '(' token
	Function Expression
	Args     []Expression
}

func (e *CallExpr) expressionNode()      {}
func (e *CallExpr) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpr) String() string {
	return e.Function.String() + "(" + joinExprs(e.Args) + ")"
}

// FieldExpr is an attribute access: self.shape.
type FieldExpr struct {
	Token  Token // the '.' token
	Object Expression
	Field  string
}

func (e *FieldExpr) expressionNode()      {}
func (e *FieldExpr) TokenLiteral() string { return e.Token.Literal }
func (e *FieldExpr) String() string       { return e.Object.String() + "." + e.Field }

// IndexExpr selects one item of a sequence: x.shape[-1].
type IndexExpr struct {
	Token Token // the '[' token
	Left  Expression
	Index Expression
}

func (e *IndexExpr) expressionNode()      {}
func (e *IndexExpr) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Left.String(), e.Index.String())
}

// SliceExpr selects a sub-sequence: x.shape[1:], x.shape[:-1].
// Low and High are nil when omitted.
type SliceExpr struct {
	Token Token // the '[' token
	Left  Expression
	Low   Expression
	High  Expression
}

func (e *SliceExpr) expressionNode()      {}
func (e *SliceExpr) TokenLiteral() string { return e.Token.Literal }
func (e *SliceExpr) String() string {
	lo, hi := "", ""
	if e.Low != nil {
		lo = e.Low.String()
	}
	if e.High != nil {
		hi = e.High.String()
	}
	return fmt.Sprintf("%s[%s:%s]", e.Left.String(), lo, hi)
}

func joinExprs(xs []Expression) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}
