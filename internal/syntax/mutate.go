package syntax

import "slices"

// CloneForUpdate returns a deep copy of the node as the root of a new,
// mutable tree. The original tree is left untouched.
func (n *Node) CloneForUpdate() *Node {
	c := n.clone(true).(*Node)
	c.field = ""
	return c
}

// CloneForUpdate returns a detached, mutable copy of the token.
func (t *Token) CloneForUpdate() *Token {
	c := t.clone(true).(*Token)
	c.field = ""
	return c
}

func (n *Node) clone(mutable bool) Element {
	c := &Node{
		kind:     n.kind,
		typ:      n.typ,
		field:    n.field,
		children: make([]Element, len(n.children)),
		mutable:  mutable,
	}
	for i, child := range n.children {
		cc := child.clone(mutable)
		cc.setParent(c, i)
		c.children[i] = cc
	}
	return c
}

func (t *Token) clone(mutable bool) Element {
	return &Token{
		kind:    t.kind,
		typ:     t.typ,
		field:   t.field,
		text:    t.text,
		mutable: mutable,
	}
}

// Detach removes the node from its parent. Detaching a root is a no-op.
func (n *Node) Detach() {
	detach(n, n.parent, n.index)
}

// Detach removes the token from its parent.
func (t *Token) Detach() {
	detach(t, t.parent, t.index)
}

func detach(e Element, parent *Node, index int) {
	if !e.IsMutable() {
		panic("syntax: detach on an immutable tree; use CloneForUpdate")
	}
	if parent == nil {
		return
	}
	parent.children = slices.Delete(parent.children, index, index+1)
	for i := index; i < len(parent.children); i++ {
		parent.children[i].setParent(parent, i)
	}
	e.setParent(nil, 0)
}

// SetText replaces the token text.
func (t *Token) SetText(text string) {
	if !t.mutable {
		panic("syntax: SetText on an immutable tree; use CloneForUpdate")
	}
	t.text = text
}
