package syntax

import (
	"fmt"
	"strings"
)

// Dump renders the tree under e one element per line, e.g.
//
//	CallExpr@4..30 call_expression
//	  FieldExpr@4..15 field_expression [function]
//	    Identifier@4..6 identifier [value]
//	      Identifier@4..6 "it"
func Dump(e Element) string {
	var sb strings.Builder
	dump(&sb, e, 0)
	return sb.String()
}

func dump(sb *strings.Builder, e Element, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	r := e.TextRange()
	switch e := e.(type) {
	case *Token:
		fmt.Fprintf(sb, "%s@%d..%d %q", e.kind, r.Start, r.End, e.text)
	case *Node:
		fmt.Fprintf(sb, "%s@%d..%d %s", e.kind, r.Start, r.End, e.typ)
	}
	if f := e.Field(); f != "" {
		fmt.Fprintf(sb, " [%s]", f)
	}
	sb.WriteByte('\n')
	if n, ok := e.(*Node); ok {
		for _, c := range n.children {
			dump(sb, c, depth+1)
		}
	}
}
