package handlers

import (
	"fmt"
	"strings"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/syntax"
	"github.com/hargabyte/rsfix/internal/syntax/ast"
)

// ConvertIfToFilter turns an `if` that guards the whole body of a
// for_each closure into a filter call:
//
//	it.for_each(|x| {
//	    if x > 4 {
//	        println!("{}", x);
//	    };
//	});
//
// becomes
//
//	it.filter(|&x| x > 4).for_each(|x| {
//	    println!("{}", x);
//	});
var ConvertIfToFilter = assist.Handler{
	ID:    convertIfToFilterID,
	Label: convertIfToFilterLabel,
	Run:   convertIfToFilter,
}

var convertIfToFilterID = assist.ID{Name: "convert_if_to_filter", Kind: assist.KindRefactorRewrite}

const convertIfToFilterLabel = "Replace this `if { ... }` with a `filter()`"

// ifInForEach is a matched `recv.for_each(|param| { if cond { then } })`.
// Every field points into the original tree.
type ifInForEach struct {
	method    *ast.MethodCallExpr
	receiver  ast.Expr
	param     ast.Param
	move      bool
	condition *syntax.Node
	then      *ast.BlockExpr
}

func convertIfToFilter(acc *assist.Assists, ctx *assist.Context) bool {
	m, ok := matchIfInForEach(ctx)
	if !ok {
		return false
	}
	target := m.method.Syntax().TextRange()
	return acc.Add(convertIfToFilterID, convertIfToFilterLabel, target, func(b *assist.Builder) {
		b.Replace(target, m.rewrite())
	})
}

func matchIfInForEach(ctx *assist.Context) (ifInForEach, bool) {
	var m ifInForEach

	n := ctx.FindNodeAtOffset(func(n *syntax.Node) bool {
		_, ok := ast.AsMethodCall(n)
		return ok
	})
	if n == nil {
		return m, false
	}
	m.method, _ = ast.AsMethodCall(n)

	// Extra arguments are not rejected; only the first one is inspected.
	args := m.method.Args()
	if len(args) == 0 {
		return m, false
	}
	closure, ok := args[0].(*ast.ClosureExpr)
	if !ok {
		return m, false
	}

	if name := m.method.NameRef(); name == nil || name.Text() != "for_each" {
		return m, false
	}
	if m.receiver = m.method.Receiver(); m.receiver == nil {
		return m, false
	}

	params := closure.Params()
	if len(params) == 0 || params[0].Pat() == nil {
		return m, false
	}
	m.param = params[0]
	m.move = closure.IsMove()

	ifExpr := guardingIf(closure.Body())
	if ifExpr == nil {
		return m, false
	}
	if m.condition = ifExpr.Condition(); m.condition == nil || ifExpr.IsLetCondition() {
		return m, false
	}
	if ifExpr.ElseBranch() != nil {
		return m, false
	}
	if m.then = ifExpr.ThenBranch(); m.then == nil {
		return m, false
	}
	return m, true
}

// guardingIf returns the if expression that makes up the whole closure
// body, either directly or as the only statement of a block.
func guardingIf(body ast.Expr) *ast.IfExpr {
	switch body := body.(type) {
	case *ast.IfExpr:
		return body
	case *ast.BlockExpr:
		stmts := body.Statements()
		if len(stmts) != 1 {
			return nil
		}
		var expr ast.Expr
		switch s := stmts[0].(type) {
		case *ast.ExprStmt:
			expr = s.Expr()
		case *ast.TailExpr:
			expr = s.Expr()
		default:
			return nil
		}
		ifExpr, _ := expr.(*ast.IfExpr)
		return ifExpr
	default:
		return nil
	}
}

func (m ifInForEach) rewrite() string {
	indent := syntax.IndentLevelOf(m.method.Syntax())

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s.filter(|&%s| %s)",
		m.receiver.Syntax().Text(), immutablePattern(m.param), m.condition.Text())

	then := m.then.Syntax()
	block := then.CloneForUpdate()
	block.Reindent(syntax.IndentLevelOf(then), indent)

	// The filter closure only reads the item, so `move` stays with the
	// closure that owns the body.
	move := ""
	if m.move {
		move = "move "
	}
	fmt.Fprintf(&buf, ".for_each(%s|%s| %s)", move, bindingPattern(m.param), block.Text())
	return buf.String()
}

// bindingPattern returns the parameter's pattern as written, including a
// leading `mut` of a typed parameter but not its type.
func bindingPattern(p ast.Param) string {
	param, ok := p.Syntax().(*syntax.Node)
	if !ok || !p.IsTyped() {
		return p.Syntax().Text()
	}
	pat := p.Pat().Syntax()
	var sb strings.Builder
	for _, c := range param.Children() {
		sb.WriteString(c.Text())
		if c == pat {
			break
		}
	}
	return sb.String()
}

// immutablePattern returns the parameter's pattern with every binding
// `mut` removed, at any depth.
func immutablePattern(p ast.Param) string {
	n, ok := p.Pat().Syntax().(*syntax.Node)
	if !ok {
		return p.Pat().Syntax().Text()
	}
	pat := n.CloneForUpdate()

	var marks []*syntax.Node
	ast.WalkPat(ast.CastPat(pat), func(p ast.Pat) {
		var m *syntax.Node
		switch p := p.(type) {
		case *ast.IdentPat:
			m = p.MutSpecifier()
		case *ast.RecordFieldPat:
			m = p.MutSpecifier()
		}
		if m != nil {
			marks = append(marks, m)
		}
	})
	for _, m := range marks {
		if ws := m.LastToken().NextToken(); ws != nil && ws.Kind() == syntax.Whitespace {
			ws.Detach()
		}
		m.Detach()
	}
	return pat.Text()
}
