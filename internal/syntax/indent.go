package syntax

import (
	"strings"
	"unicode/utf8"
)

// IndentWidth is the number of columns in one indentation level.
const IndentWidth = 4

// IndentLevel counts indentation steps of IndentWidth spaces.
type IndentLevel int

// String renders the level as spaces.
func (l IndentLevel) String() string {
	if l <= 0 {
		return ""
	}
	return strings.Repeat(" ", int(l)*IndentWidth)
}

// IndentLevelOf returns the indentation of the line an element starts on:
// the column after the last newline of the nearest whitespace token at or
// before the element's first token, divided by IndentWidth.
func IndentLevelOf(e Element) IndentLevel {
	var tok *Token
	switch e := e.(type) {
	case *Token:
		tok = e
	case *Node:
		tok = e.FirstToken()
	}
	for ; tok != nil; tok = tok.PrevToken() {
		if tok.kind != Whitespace {
			continue
		}
		if i := strings.LastIndexByte(tok.text, '\n'); i >= 0 {
			return IndentLevel(utf8.RuneCountInString(tok.text[i+1:]) / IndentWidth)
		}
	}
	return 0
}

// Increase appends the level's indentation to every newline-carrying
// whitespace token inside n. n must be mutable.
func (l IndentLevel) Increase(n *Node) {
	if l <= 0 {
		return
	}
	indent := l.String()
	for tok := range n.Tokens() {
		if tok.kind == Whitespace && strings.Contains(tok.text, "\n") {
			tok.SetText(tok.text + indent)
		}
	}
}

// Decrease removes the level's indentation after every newline inside the
// whitespace tokens of n. Lines indented less than the level are left
// alone. n must be mutable.
func (l IndentLevel) Decrease(n *Node) {
	if l <= 0 {
		return
	}
	prefix := "\n" + l.String()
	for tok := range n.Tokens() {
		if tok.kind == Whitespace && strings.Contains(tok.text, prefix) {
			tok.SetText(strings.ReplaceAll(tok.text, prefix, "\n"))
		}
	}
}

// Reindent shifts n from indentation level from to level to. n must be
// mutable; from is usually IndentLevelOf the subtree n was cloned from.
func (n *Node) Reindent(from, to IndentLevel) {
	from.Decrease(n)
	to.Increase(n)
}
