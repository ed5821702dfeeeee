package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/rsfix/internal/parser"
)

// Build converts a tree-sitter tree into an immutable syntax tree.
//
// Named tree-sitter nodes become Nodes (named leaves such as identifiers
// wrap a single Token of the same kind), anonymous leaves become Tokens,
// comments become Comment tokens and every gap between leaves becomes a
// Whitespace token. The returned root spans the whole of src, so its Text
// is always identical to src.
func Build(root *sitter.Node, src []byte) *Node {
	b := &builder{src: src}
	n := b.node(root, "", 0, len(src))
	b.finish(n, nil, 0, 0)
	return n
}

type builder struct {
	src []byte
}

func (b *builder) element(n *sitter.Node, field string) Element {
	typ := n.Type()
	if parser.IsRustComment(typ) {
		return &Token{kind: Comment, typ: typ, field: field, text: commentText(n.Content(b.src))}
	}
	if n.ChildCount() == 0 {
		text := n.Content(b.src)
		if !n.IsNamed() {
			return &Token{kind: KindOf(typ), typ: typ, field: field, text: text}
		}
		kind := KindOf(typ)
		leaf := &Node{kind: kind, typ: typ, field: field}
		leaf.children = []Element{&Token{kind: kind, typ: typ, text: text}}
		return leaf
	}
	return b.node(n, field, int(n.StartByte()), int(n.EndByte()))
}

// node converts an interior tree-sitter node whose text spans [start, end).
func (b *builder) node(n *sitter.Node, field string, start, end int) *Node {
	typ := n.Type()
	out := &Node{kind: KindOf(typ), typ: typ, field: field}
	fields := fieldsOf(n)

	cursor := start
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil || c.IsMissing() {
			continue
		}
		cs, ce := int(c.StartByte()), int(c.EndByte())
		if ce <= cs && c.ChildCount() == 0 {
			continue
		}
		if cs < cursor {
			// Overlapping children only occur in broken trees; keep the
			// text lossless by skipping the overlap.
			continue
		}
		if cs > cursor {
			out.children = append(out.children, b.gap(cursor, cs))
		}
		e := b.element(c, fields[i])
		out.children = append(out.children, e)
		if e.Kind() == Comment {
			// The newline ending a line comment joins the following gap,
			// so indentation stays in one whitespace token.
			ce = cs + e.textLen()
		}
		cursor = ce
	}
	if end > cursor {
		out.children = append(out.children, b.gap(cursor, end))
	}
	return out
}

// gap builds the trivia token covering bytes the grammar skipped.
func (b *builder) gap(start, end int) *Token {
	text := string(b.src[start:end])
	if strings.TrimSpace(text) == "" {
		return &Token{kind: Whitespace, typ: "whitespace", text: text}
	}
	return &Token{kind: Unknown, typ: "skipped", text: text}
}

// commentText strips the line terminator some grammar versions include
// in line comments.
func commentText(text string) string {
	text = strings.TrimSuffix(text, "\n")
	return strings.TrimSuffix(text, "\r")
}

// fieldsOf returns the grammar field name of each child of n.
func fieldsOf(n *sitter.Node) []string {
	fields := make([]string, n.ChildCount())
	for _, name := range parser.RustFieldNames {
		fc := n.ChildByFieldName(name)
		if fc == nil {
			continue
		}
		for i := range fields {
			c := n.Child(i)
			if c != nil && fields[i] == "" && sameNode(c, fc) {
				fields[i] = name
				break
			}
		}
	}
	return fields
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// finish assigns parents, indices and absolute offsets. It returns the
// offset just past the element.
func (b *builder) finish(e Element, parent *Node, index, offset int) int {
	e.setParent(parent, index)
	switch e := e.(type) {
	case *Token:
		e.start = offset
		return offset + len(e.text)
	case *Node:
		e.start = offset
		end := offset
		for i, c := range e.children {
			end = b.finish(c, e, i, end)
		}
		e.length = end - offset
		return end
	}
	return offset
}
