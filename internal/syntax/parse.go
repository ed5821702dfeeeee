package syntax

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hargabyte/rsfix/internal/parser"
)

// Tree is a parsed Rust source file.
type Tree struct {
	// Root spans the whole source.
	Root *Node
	// HasErrors is true when the parser had to recover from syntax errors.
	HasErrors bool
	// ErrorOffset is the byte offset of the first syntax error, or -1.
	ErrorOffset int
}

// Parse parses Rust source with a pooled parser.
func Parse(src []byte) (*Tree, error) {
	p := parser.Get()
	defer parser.Put(p)
	return ParseWith(context.Background(), p, src)
}

// ParseWith parses src with an existing parser. The tree-sitter tree is
// released before returning; the syntax tree does not reference it.
func ParseWith(ctx context.Context, p *parser.Parser, src []byte) (*Tree, error) {
	res, err := p.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return &Tree{
		Root:        Build(res.Root, src),
		HasErrors:   res.HasErrors(),
		ErrorOffset: res.FirstError(),
	}, nil
}

// ParseFile reads and parses a Rust source file, returning the tree and
// the bytes it was built from.
func ParseFile(ctx context.Context, path string) (*Tree, []byte, error) {
	ext := filepath.Ext(path)
	if parser.LanguageFromExtension(ext) != parser.Rust {
		return nil, nil, &parser.UnsupportedLanguageError{Language: ext}
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &parser.FileReadError{Path: path, Err: err}
	}

	p := parser.Get()
	defer parser.Put(p)

	tree, err := ParseWith(ctx, p, src)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			pe.File = path
		}
		return nil, nil, err
	}
	return tree, src, nil
}
