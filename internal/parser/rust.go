package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

var rustLanguage = rust.GetLanguage()

func newRustParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(rustLanguage)
	return p
}

// Field names the Rust grammar attaches to children. The syntax package
// records them on its own nodes so lookups survive cloning.
var RustFieldNames = []string{
	"function",
	"arguments",
	"value",
	"field",
	"type_arguments",
	"parameters",
	"return_type",
	"body",
	"condition",
	"consequence",
	"alternative",
	"pattern",
	"type",
	"name",
	"left",
	"right",
	"operator",
}

// IsRustComment reports whether a tree-sitter node type is a comment.
// Comments are extras in the grammar and carry no expression semantics.
func IsRustComment(nodeType string) bool {
	return nodeType == "line_comment" || nodeType == "block_comment"
}
