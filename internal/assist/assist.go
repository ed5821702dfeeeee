// Package assist is the host side of rsfix's code actions.
//
// A Handler inspects a parsed file at a cursor offset and, when its shape
// matches, registers an Assist with the Assists accumulator. The Assist
// carries the edits that perform the rewrite. Handlers never mutate the
// tree they are given; the Engine may run many of them over the same tree
// at once.
package assist

import (
	"fmt"

	"github.com/hargabyte/rsfix/internal/syntax"
)

// Kind is the category of an assist, following LSP code action kinds.
type Kind string

const (
	KindNone            Kind = ""
	KindQuickFix        Kind = "quickfix"
	KindGenerate        Kind = "generate"
	KindRefactor        Kind = "refactor"
	KindRefactorExtract Kind = "refactor.extract"
	KindRefactorInline  Kind = "refactor.inline"
	KindRefactorRewrite Kind = "refactor.rewrite"
)

// ID identifies an assist. Name is stable across releases.
type ID struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

func (id ID) String() string {
	return fmt.Sprintf("%s (%s)", id.Name, id.Kind)
}

// Edit replaces the bytes of Range in the original source with
// Replacement.
type Edit struct {
	Range       syntax.TextRange
	Replacement string
}

// Assist is an applicable code action.
type Assist struct {
	ID     ID
	Label  string
	Target syntax.TextRange
	Edits  []Edit
}

// Handler is a registered code action. Run reports whether it added an
// assist; not applying is not an error.
type Handler struct {
	ID    ID
	Label string
	Run   func(acc *Assists, ctx *Context) bool
}

// Assists collects the assists produced for one cursor position.
type Assists struct {
	list []Assist
}

// Add registers an applicable assist. build is called immediately with a
// fresh Builder and its edits become the assist's edits. Add always
// returns true so handlers can end with `return acc.Add(...)`.
func (a *Assists) Add(id ID, label string, target syntax.TextRange, build func(*Builder)) bool {
	b := &Builder{}
	build(b)
	a.list = append(a.list, Assist{
		ID:     id,
		Label:  label,
		Target: target,
		Edits:  b.edits,
	})
	return true
}

// List returns the collected assists in registration order.
func (a *Assists) List() []Assist {
	return a.list
}

// Builder accumulates the edits of a single assist.
type Builder struct {
	edits []Edit
}

// Replace replaces the text of r with text.
func (b *Builder) Replace(r syntax.TextRange, text string) {
	b.edits = append(b.edits, Edit{Range: r, Replacement: text})
}

// Insert inserts text at offset.
func (b *Builder) Insert(offset int, text string) {
	b.Replace(syntax.TextRange{Start: offset, End: offset}, text)
}

// Delete removes the text of r.
func (b *Builder) Delete(r syntax.TextRange) {
	b.Replace(r, "")
}
