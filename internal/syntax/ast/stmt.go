package ast

import (
	"strings"

	"github.com/hargabyte/rsfix/internal/syntax"
)

// Stmt is a statement view.
type Stmt interface {
	Syntax() *syntax.Node
	stmt()
}

// ExprStmt is an expression used as a statement, with or without `;`.
type ExprStmt struct{ node *syntax.Node }

// TailExpr is a block's trailing expression.
type TailExpr struct{ node *syntax.Node }

// OtherStmt is any other statement: let, item, macro, attribute.
type OtherStmt struct{ node *syntax.Node }

func (s *ExprStmt) Syntax() *syntax.Node  { return s.node }
func (s *TailExpr) Syntax() *syntax.Node  { return s.node }
func (s *OtherStmt) Syntax() *syntax.Node { return s.node }

func (*ExprStmt) stmt()  {}
func (*TailExpr) stmt()  {}
func (*OtherStmt) stmt() {}

// CastStmt returns the typed view of a block child.
func CastStmt(n *syntax.Node) Stmt {
	switch n.Kind() {
	case syntax.ExprStmt:
		return &ExprStmt{node: n}
	case syntax.Block:
		return &TailExpr{node: n}
	}
	if isExpressionType(n.Type()) {
		return &TailExpr{node: n}
	}
	return &OtherStmt{node: n}
}

// Expr returns the wrapped expression.
func (s *ExprStmt) Expr() Expr {
	for n := range s.node.ChildNodes() {
		return CastExpr(n)
	}
	return nil
}

// Expr returns the expression itself.
func (s *TailExpr) Expr() Expr {
	return CastExpr(s.node)
}

// isExpressionType reports whether a grammar type name denotes an
// expression.
func isExpressionType(typ string) bool {
	switch typ {
	case "identifier", "self", "integer_literal", "float_literal", "string_literal",
		"boolean_literal", "char_literal", "macro_invocation", "scoped_identifier",
		"unsafe_block", "async_block":
		return true
	}
	return strings.HasSuffix(typ, "_expression")
}
