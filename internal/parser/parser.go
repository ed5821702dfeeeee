// Package parser wraps the tree-sitter Rust grammar so the rest of rsfix
// never touches the C bindings directly.
//
// A Result owns the tree-sitter tree. Callers convert it into the lossless
// syntax tree (package syntax) and close it right away; nothing outlives
// the Result.
package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language names a grammar.
type Language string

// Rust is the only grammar rsfix parses.
const Rust Language = "rust"

// Parser is a tree-sitter parser bound to one grammar.
// A Parser is not safe for concurrent use; see Get for a shared pool.
type Parser struct {
	ts   *sitter.Parser
	lang Language
}

// Result is a tree-sitter parse of one source buffer.
type Result struct {
	Tree   *sitter.Tree
	Root   *sitter.Node
	Source []byte
}

// NewParser returns a parser for lang, or an UnsupportedLanguageError.
func NewParser(lang Language) (*Parser, error) {
	if lang != Rust {
		return nil, &UnsupportedLanguageError{Language: string(lang)}
	}
	return &Parser{ts: newRustParser(), lang: lang}, nil
}

// Language returns the grammar of p.
func (p *Parser) Language() Language {
	return p.lang
}

// Parse parses source, giving up when ctx is done. Syntax errors are not
// reported here; they appear as error nodes in the tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Result, error) {
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	return &Result{Tree: tree, Root: tree.RootNode(), Source: source}, nil
}

// Close releases the parser. It must not be used afterwards.
func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
}

// Close releases the tree.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree, r.Root = nil, nil
	}
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (r *Result) HasErrors() bool {
	return r.Root != nil && r.Root.HasError()
}

// FirstError returns the byte offset of the first error or missing node
// in source order, or -1 when the tree is clean.
func (r *Result) FirstError() int {
	if !r.HasErrors() {
		return -1
	}
	n := r.Root
	for {
		if isErrorNode(n) {
			return int(n.StartByte())
		}
		var next *sitter.Node
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if isErrorNode(c) || c.HasError() {
				next = c
				break
			}
		}
		if next == nil {
			return int(n.StartByte())
		}
		n = next
	}
}

func isErrorNode(n *sitter.Node) bool {
	return n.Type() == "ERROR" || n.IsMissing()
}

// LanguageFromExtension returns the language of a file extension, or ""
// when rsfix does not parse it.
func LanguageFromExtension(ext string) Language {
	if ext == ".rs" {
		return Rust
	}
	return ""
}
