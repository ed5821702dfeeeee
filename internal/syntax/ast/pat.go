package ast

import "github.com/hargabyte/rsfix/internal/syntax"

// Pat is a pattern view. Patterns may be tokens (`_`), so views wrap a
// syntax.Element rather than a node.
type Pat interface {
	Syntax() syntax.Element
	pat()
}

// IdentPat is a binding: `x` or `mut x`.
type IdentPat struct{ node *syntax.Node }

// RecordFieldPat is a field inside a struct pattern: `mut x` or `x: pat`.
type RecordFieldPat struct{ node *syntax.Node }

// CompositePat is a pattern made of sub-patterns: tuples, tuple structs,
// structs, slices, alternatives, `ref`, `&` and `@` patterns.
type CompositePat struct{ node *syntax.Node }

// OtherPat is a pattern without bindings: literals, ranges, paths, `_`.
type OtherPat struct{ elem syntax.Element }

func (p *IdentPat) Syntax() syntax.Element       { return p.node }
func (p *RecordFieldPat) Syntax() syntax.Element { return p.node }
func (p *CompositePat) Syntax() syntax.Element   { return p.node }
func (p *OtherPat) Syntax() syntax.Element       { return p.elem }

func (*IdentPat) pat()       {}
func (*RecordFieldPat) pat() {}
func (*CompositePat) pat()   {}
func (*OtherPat) pat()       {}

// CastPat returns the typed view of a pattern element, or nil for nil.
func CastPat(e syntax.Element) Pat {
	if e == nil {
		return nil
	}
	n, ok := e.(*syntax.Node)
	if !ok {
		return &OtherPat{elem: e}
	}
	switch n.Kind() {
	case syntax.Identifier, syntax.MutPattern:
		return &IdentPat{node: n}
	case syntax.FieldPattern:
		return &RecordFieldPat{node: n}
	case syntax.TuplePattern, syntax.TupleStructPattern, syntax.StructPattern,
		syntax.SlicePattern, syntax.OrPattern, syntax.RefPattern,
		syntax.ReferencePattern, syntax.CapturedPattern:
		return &CompositePat{node: n}
	}
	return &OtherPat{elem: n}
}

// MutSpecifier returns the `mut` marker of the binding, or nil.
func (p *IdentPat) MutSpecifier() *syntax.Node {
	return mutSpecifier(p.node)
}

// Inner returns the pattern following `mut`, or nil for a bare name.
func (p *IdentPat) Inner() Pat {
	if p.node.Kind() != syntax.MutPattern {
		return nil
	}
	for n := range p.node.ChildNodes() {
		if n.Kind() != syntax.MutableSpecifier {
			return CastPat(n)
		}
	}
	return nil
}

// MutSpecifier returns the `mut` marker of a shorthand field, or nil.
func (p *RecordFieldPat) MutSpecifier() *syntax.Node {
	return mutSpecifier(p.node)
}

// Pattern returns the explicit sub-pattern of `name: pat`, or nil for the
// shorthand form.
func (p *RecordFieldPat) Pattern() Pat {
	return CastPat(p.node.ChildByField("pattern"))
}

// SubPatterns returns the direct sub-patterns in source order.
func (p *CompositePat) SubPatterns() []Pat {
	var subs []Pat
	for _, c := range p.node.Children() {
		switch c.Field() {
		case "type", "name":
			continue
		}
		switch c.Kind() {
		case syntax.Whitespace, syntax.Comment, syntax.MutableSpecifier:
			continue
		case syntax.Underscore:
			subs = append(subs, CastPat(c))
			continue
		}
		if n, ok := c.(*syntax.Node); ok {
			subs = append(subs, CastPat(n))
		}
	}
	return subs
}

// Param is a closure parameter: a pattern, optionally typed.
type Param struct{ elem syntax.Element }

// Syntax returns the parameter element.
func (p Param) Syntax() syntax.Element { return p.elem }

// IsTyped reports whether the parameter carries a type annotation.
func (p Param) IsTyped() bool {
	return p.elem.Kind() == syntax.Parameter
}

// Pat returns the parameter's pattern, or nil if it has none.
func (p Param) Pat() Pat {
	if n, ok := p.elem.(*syntax.Node); ok && n.Kind() == syntax.Parameter {
		return CastPat(n.ChildByField("pattern"))
	}
	return CastPat(p.elem)
}

// MutSpecifier returns the `mut` written before a typed parameter's
// pattern (`|mut x: T|`), or nil.
func (p Param) MutSpecifier() *syntax.Node {
	if n, ok := p.elem.(*syntax.Node); ok && n.Kind() == syntax.Parameter {
		return mutSpecifier(n)
	}
	return nil
}

func mutSpecifier(n *syntax.Node) *syntax.Node {
	m, _ := n.ChildOfKind(syntax.MutableSpecifier).(*syntax.Node)
	return m
}

// WalkPat calls fn for p and every pattern nested in it, parents first.
func WalkPat(p Pat, fn func(Pat)) {
	if p == nil {
		return
	}
	fn(p)
	switch p := p.(type) {
	case *IdentPat:
		WalkPat(p.Inner(), fn)
	case *RecordFieldPat:
		WalkPat(p.Pattern(), fn)
	case *CompositePat:
		for _, sub := range p.SubPatterns() {
			WalkPat(sub, fn)
		}
	case *OtherPat:
	}
}
