// Package syntax provides a lossless concrete syntax tree for Rust source.
//
// The tree is built from a tree-sitter parse (see Build) and differs from
// it in two ways: every byte of the input belongs to exactly one token, so
// whitespace and comments are first-class trivia tokens, and any subtree
// can be copied into a detached, mutable tree with CloneForUpdate.
//
// Trees produced by Build are immutable and may be read by any number of
// goroutines. Mutation (Detach, Token.SetText, indentation edits) is only
// permitted on trees returned by CloneForUpdate, which are owned by the
// caller that cloned them.
package syntax

import (
	"iter"
	"strings"
)

// TextRange is a half-open byte interval [Start, End) in a source text.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside the range, end excluded.
func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive reports whether offset lies inside the range or on
// its end boundary.
func (r TextRange) ContainsInclusive(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// Element is either a *Node or a *Token.
type Element interface {
	// Kind returns the syntactic category of the element.
	Kind() Kind
	// Type returns the tree-sitter type name the element was built from.
	Type() string
	// Field returns the grammar field name the element fills in its
	// parent, or "" if it fills none.
	Field() string
	// Parent returns the enclosing node, or nil for a root.
	Parent() *Node
	// TextRange returns the span of the element in its tree's text.
	TextRange() TextRange
	// Text returns the exact source text of the element.
	Text() string
	String() string
	// IsMutable reports whether the element belongs to a tree created by
	// CloneForUpdate.
	IsMutable() bool
	// Detach removes the element from its parent. It panics on immutable
	// trees.
	Detach()

	textLen() int
	setParent(parent *Node, index int)
	clone(mutable bool) Element
}

// Node is an interior element of the tree.
type Node struct {
	kind     Kind
	typ      string
	field    string
	parent   *Node
	index    int
	children []Element

	// start and length are only meaningful for immutable trees; mutable
	// trees compute them on demand since edits shift them.
	start   int
	length  int
	mutable bool
}

// Token is a leaf element carrying source text.
type Token struct {
	kind   Kind
	typ    string
	field  string
	text   string
	parent *Node
	index  int

	start   int
	mutable bool
}

// Kind returns the syntactic category of the node.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the tree-sitter type name of the node.
func (n *Node) Type() string { return n.typ }

// Field returns the grammar field name of the node in its parent.
func (n *Node) Field() string { return n.field }

// Parent returns the enclosing node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// IsMutable reports whether the node belongs to a mutable tree.
func (n *Node) IsMutable() bool { return n.mutable }

// Kind returns the syntactic category of the token.
func (t *Token) Kind() Kind { return t.kind }

// Type returns the tree-sitter type name of the token.
func (t *Token) Type() string { return t.typ }

// Field returns the grammar field name of the token in its parent.
func (t *Token) Field() string { return t.field }

// Parent returns the enclosing node, or nil.
func (t *Token) Parent() *Node { return t.parent }

// IsMutable reports whether the token belongs to a mutable tree.
func (t *Token) IsMutable() bool { return t.mutable }

// Text returns the token text.
func (t *Token) Text() string { return t.text }

func (t *Token) String() string { return t.text }

func (t *Token) textLen() int { return len(t.text) }

func (t *Token) setParent(parent *Node, index int) {
	t.parent = parent
	t.index = index
}

// TextRange returns the span of the token.
func (t *Token) TextRange() TextRange {
	start := t.start
	if t.mutable {
		start = offsetOf(t.parent, t.index)
	}
	return TextRange{Start: start, End: start + len(t.text)}
}

// Text returns the source text covered by the node, trivia included.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) String() string { return n.Text() }

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			sb.WriteString(c.text)
		case *Node:
			c.writeText(sb)
		}
	}
}

func (n *Node) textLen() int {
	if !n.mutable {
		return n.length
	}
	total := 0
	for _, c := range n.children {
		total += c.textLen()
	}
	return total
}

func (n *Node) setParent(parent *Node, index int) {
	n.parent = parent
	n.index = index
}

// TextRange returns the span of the node.
func (n *Node) TextRange() TextRange {
	if !n.mutable {
		return TextRange{Start: n.start, End: n.start + n.length}
	}
	start := 0
	if n.parent != nil {
		start = offsetOf(n.parent, n.index)
	}
	return TextRange{Start: start, End: start + n.textLen()}
}

// offsetOf computes the start of the index-th child of parent in a
// mutable tree.
func offsetOf(parent *Node, index int) int {
	if parent == nil {
		return 0
	}
	off := parent.TextRange().Start
	for _, c := range parent.children[:index] {
		off += c.textLen()
	}
	return off
}

// Children returns the direct children of the node, trivia included.
// The returned slice must not be modified.
func (n *Node) Children() []Element {
	return n.children
}

// ChildNodes yields the direct child nodes, skipping tokens.
func (n *Node) ChildNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.children {
			if cn, ok := c.(*Node); ok {
				if !yield(cn) {
					return
				}
			}
		}
	}
}

// ChildByField returns the first child filling the named grammar field.
func (n *Node) ChildByField(field string) Element {
	for _, c := range n.children {
		if c.Field() == field {
			return c
		}
	}
	return nil
}

// NodeByField returns the first child node filling the named field, or
// nil if there is none or the field is filled by a token.
func (n *Node) NodeByField(field string) *Node {
	cn, _ := n.ChildByField(field).(*Node)
	return cn
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Node) ChildOfKind(kind Kind) Element {
	for _, c := range n.children {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// Ancestors yields the node itself followed by each enclosing node up to
// the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := n; cur != nil; cur = cur.parent {
			if !yield(cur) {
				return
			}
		}
	}
}

// Preorder yields the node and all descendant nodes, parents first.
func (n *Node) Preorder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.preorder(yield)
	}
}

func (n *Node) preorder(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			if !cn.preorder(yield) {
				return false
			}
		}
	}
	return true
}

// Tokens yields every token under the node in source order.
func (n *Node) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		n.tokens(yield)
	}
}

func (n *Node) tokens(yield func(*Token) bool) bool {
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			if !yield(c) {
				return false
			}
		case *Node:
			if !c.tokens(yield) {
				return false
			}
		}
	}
	return true
}

// FirstToken returns the first token under the node, or nil if the node
// has no text.
func (n *Node) FirstToken() *Token {
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			return c
		case *Node:
			if t := c.FirstToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// LastToken returns the last token under the node.
func (n *Node) LastToken() *Token {
	for i := len(n.children) - 1; i >= 0; i-- {
		switch c := n.children[i].(type) {
		case *Token:
			return c
		case *Node:
			if t := c.LastToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// NextToken returns the token following t in its tree, or nil.
func (t *Token) NextToken() *Token {
	for parent, index := t.parent, t.index; parent != nil; parent, index = parent.parent, parent.index {
		for _, sib := range parent.children[index+1:] {
			switch sib := sib.(type) {
			case *Token:
				return sib
			case *Node:
				if first := sib.FirstToken(); first != nil {
					return first
				}
			}
		}
	}
	return nil
}

// PrevToken returns the token preceding t in its tree, or nil.
func (t *Token) PrevToken() *Token {
	for parent, index := t.parent, t.index; parent != nil; parent, index = parent.parent, parent.index {
		for i := index - 1; i >= 0; i-- {
			switch sib := parent.children[i].(type) {
			case *Token:
				return sib
			case *Node:
				if last := sib.LastToken(); last != nil {
					return last
				}
			}
		}
	}
	return nil
}

// Ancestors yields each node enclosing the token, innermost first.
func (t *Token) Ancestors() iter.Seq[*Node] {
	if t.parent == nil {
		return func(func(*Node) bool) {}
	}
	return t.parent.Ancestors()
}
