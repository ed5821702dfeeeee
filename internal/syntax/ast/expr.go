// Package ast provides typed views over the syntax tree.
//
// Only the shapes rsfix rewrites are modelled. Each family (expressions,
// statements, patterns) is a closed interface; casting a node that does
// not belong to a modelled category yields the family's Other* case, so
// every type switch has an explicit fallback.
package ast

import "github.com/hargabyte/rsfix/internal/syntax"

// Expr is an expression view.
type Expr interface {
	Syntax() *syntax.Node
	expr()
}

// MethodCallExpr is `receiver.name(args)`, optionally with turbofish
// type arguments.
type MethodCallExpr struct{ node *syntax.Node }

// ClosureExpr is `|params| body`.
type ClosureExpr struct{ node *syntax.Node }

// IfExpr is `if cond { .. } else ..`.
type IfExpr struct{ node *syntax.Node }

// BlockExpr is `{ stmts }`.
type BlockExpr struct{ node *syntax.Node }

// OtherExpr is any expression not modelled above.
type OtherExpr struct{ node *syntax.Node }

func (e *MethodCallExpr) Syntax() *syntax.Node { return e.node }
func (e *ClosureExpr) Syntax() *syntax.Node    { return e.node }
func (e *IfExpr) Syntax() *syntax.Node         { return e.node }
func (e *BlockExpr) Syntax() *syntax.Node      { return e.node }
func (e *OtherExpr) Syntax() *syntax.Node      { return e.node }

func (*MethodCallExpr) expr() {}
func (*ClosureExpr) expr()    {}
func (*IfExpr) expr()         {}
func (*BlockExpr) expr()      {}
func (*OtherExpr) expr()      {}

// CastExpr returns the typed view of n, or nil for a nil node.
func CastExpr(n *syntax.Node) Expr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case syntax.CallExpr:
		if methodField(n) != nil {
			return &MethodCallExpr{node: n}
		}
	case syntax.ClosureExpr:
		return &ClosureExpr{node: n}
	case syntax.IfExpr:
		return &IfExpr{node: n}
	case syntax.Block:
		return &BlockExpr{node: n}
	}
	return &OtherExpr{node: n}
}

// AsMethodCall reports whether n is a method call and returns its view.
func AsMethodCall(n *syntax.Node) (*MethodCallExpr, bool) {
	m, ok := CastExpr(n).(*MethodCallExpr)
	return m, ok
}

// methodField returns the field expression naming the method of a call,
// looking through a turbofish.
func methodField(call *syntax.Node) *syntax.Node {
	fn := call.NodeByField("function")
	if fn == nil {
		return nil
	}
	if fn.Kind() == syntax.GenericFunction {
		fn = fn.NodeByField("function")
		if fn == nil {
			return nil
		}
	}
	if fn.Kind() != syntax.FieldExpr {
		return nil
	}
	return fn
}

// Receiver returns the expression the method is called on.
func (e *MethodCallExpr) Receiver() Expr {
	return CastExpr(methodField(e.node).NodeByField("value"))
}

// NameRef returns the method name node, or nil.
func (e *MethodCallExpr) NameRef() *syntax.Node {
	return methodField(e.node).NodeByField("field")
}

// Args returns the argument expressions in order.
func (e *MethodCallExpr) Args() []Expr {
	list := e.node.NodeByField("arguments")
	if list == nil {
		return nil
	}
	var args []Expr
	for n := range list.ChildNodes() {
		if n.Type() == "attribute_item" {
			continue
		}
		args = append(args, CastExpr(n))
	}
	return args
}

// Params returns the closure parameters in order. A parameter is either a
// pattern or a typed Parameter node; `_` parameters are tokens.
func (e *ClosureExpr) Params() []Param {
	list := e.node.NodeByField("parameters")
	if list == nil {
		return nil
	}
	var params []Param
	for _, c := range list.Children() {
		if c.Kind().IsTrivia() {
			continue
		}
		switch c.Kind() {
		case syntax.Pipe, syntax.Comma:
			continue
		}
		params = append(params, Param{elem: c})
	}
	return params
}

// IsMove reports whether the closure is written `move |..| ..`.
func (e *ClosureExpr) IsMove() bool {
	for _, c := range e.node.Children() {
		if c.Kind() == syntax.MoveKw {
			return true
		}
	}
	return false
}

// Body returns the closure body.
func (e *ClosureExpr) Body() Expr {
	return CastExpr(e.node.NodeByField("body"))
}

// Condition returns the condition node, which may be a let condition.
func (e *IfExpr) Condition() *syntax.Node {
	return e.node.NodeByField("condition")
}

// ThenBranch returns the consequence block.
func (e *IfExpr) ThenBranch() *BlockExpr {
	b := e.node.NodeByField("consequence")
	if b == nil || b.Kind() != syntax.Block {
		return nil
	}
	return &BlockExpr{node: b}
}

// ElseBranch returns the else clause, or nil.
func (e *IfExpr) ElseBranch() *syntax.Node {
	if alt := e.node.NodeByField("alternative"); alt != nil {
		return alt
	}
	el, _ := e.node.ChildOfKind(syntax.ElseClause).(*syntax.Node)
	return el
}

// IsLetCondition reports whether the condition destructures with `let`.
func (e *IfExpr) IsLetCondition() bool {
	cond := e.Condition()
	if cond == nil {
		return false
	}
	switch cond.Kind() {
	case syntax.LetCondition, syntax.LetChain:
		return true
	}
	return false
}

// Statements returns the statements of the block. Empty statements and
// labels are skipped; a trailing expression counts as a statement.
func (e *BlockExpr) Statements() []Stmt {
	var stmts []Stmt
	for n := range e.node.ChildNodes() {
		switch n.Kind() {
		case syntax.EmptyStmt, syntax.Label:
			continue
		}
		stmts = append(stmts, CastStmt(n))
	}
	return stmts
}
