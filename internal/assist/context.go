package assist

import "github.com/hargabyte/rsfix/internal/syntax"

// Context is the input of one handler invocation: a parsed file and the
// cursor offset inside it. The tree is shared and must not be mutated.
type Context struct {
	Tree   *syntax.Tree
	Offset int
	// Path is the file the tree was parsed from, if any. Only used for
	// logging.
	Path string
}

// NewContext returns a context for the cursor at offset in tree.
func NewContext(tree *syntax.Tree, offset int) *Context {
	return &Context{Tree: tree, Offset: offset}
}

// Root returns the root of the file's tree.
func (c *Context) Root() *syntax.Node {
	return c.Tree.Root
}

// FindNodeAtOffset returns the innermost node at the cursor accepted by
// match, or nil.
func (c *Context) FindNodeAtOffset(match func(*syntax.Node) bool) *syntax.Node {
	return c.Tree.Root.FindNodeAtOffset(c.Offset, match)
}
