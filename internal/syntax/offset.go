package syntax

// TokensAtOffset returns the tokens touching offset. Inside a token the
// result is that single token; on the boundary between two tokens it is
// both, left first. Empty tokens are never returned.
func (n *Node) TokensAtOffset(offset int) []*Token {
	r := n.TextRange()
	if !r.ContainsInclusive(offset) {
		return nil
	}
	var out []*Token
	for tok := range n.Tokens() {
		tr := tok.TextRange()
		if tr.Len() == 0 {
			continue
		}
		if tr.Start > offset {
			break
		}
		if tr.Start < offset && offset < tr.End {
			return []*Token{tok}
		}
		if tr.End == offset || tr.Start == offset {
			out = append(out, tok)
		}
	}
	return out
}

// FindNodeAtOffset returns the smallest node that encloses a token
// touching offset and satisfies match, or nil.
func (n *Node) FindNodeAtOffset(offset int, match func(*Node) bool) *Node {
	var best *Node
	for _, tok := range n.TokensAtOffset(offset) {
		for anc := range tok.Ancestors() {
			if !match(anc) {
				continue
			}
			if best == nil || anc.TextRange().Len() < best.TextRange().Len() {
				best = anc
			}
			break
		}
	}
	return best
}
