// Package refactor runs assists against a single file at a cursor. It is
// the shared core of the CLI commands and the MCP tools.
package refactor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/syntax"
)

// ErrNoSource is returned when a request names neither a file nor text.
var ErrNoSource = errors.New("no file or source given")

// Request identifies a cursor in a Rust file.
//
// Source, when set, is used instead of reading Path; Path then only names
// the text in output. A Line greater than zero selects the cursor by
// 1-based line and rune column, otherwise Offset is used.
type Request struct {
	Path   string
	Source []byte
	Offset int
	Line   int
	Column int
	// Assist restricts Apply to the assist with this id name.
	Assist string
}

// Document is a parsed request.
type Document struct {
	Path   string
	Text   string
	Tree   *syntax.Tree
	Offset int
}

// Load reads, parses and positions a request.
func Load(ctx context.Context, req Request) (*Document, error) {
	var (
		tree *syntax.Tree
		src  []byte
		err  error
	)
	switch {
	case req.Source != nil:
		src = req.Source
		tree, err = syntax.Parse(src)
	case req.Path != "":
		tree, src, err = syntax.ParseFile(ctx, req.Path)
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{Path: req.Path, Text: string(src), Tree: tree}
	doc.Offset, err = cursor(doc.Text, req)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func cursor(text string, req Request) (int, error) {
	if req.Line > 0 {
		col := req.Column
		if col == 0 {
			col = 1
		}
		return assist.OffsetAt(text, req.Line, col)
	}
	if req.Offset < 0 || req.Offset > len(text) {
		return 0, fmt.Errorf("%w: offset %d of %d", assist.ErrInvalidPosition, req.Offset, len(text))
	}
	return req.Offset, nil
}

func (d *Document) context() *assist.Context {
	actx := assist.NewContext(d.Tree, d.Offset)
	actx.Path = d.Path
	return actx
}

// Assists lists the assists applicable at the request cursor.
func Assists(ctx context.Context, engine *assist.Engine, req Request) (*output.AssistsOutput, error) {
	doc, err := Load(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &output.AssistsOutput{
		File:    doc.Path,
		Cursor:  output.PositionAt(doc.Text, doc.Offset),
		Assists: []output.AssistOutput{},
	}
	for _, a := range engine.Assists(ctx, doc.context()) {
		out.Assists = append(out.Assists, output.NewAssistOutput(doc.Text, a))
	}
	return out, nil
}

// ApplyOptions controls what Apply does with the rewritten text.
type ApplyOptions struct {
	// Write stores the result back to the request's Path.
	Write bool
	// Diff computes a unified diff of the change.
	Diff bool
}

// Apply resolves one assist at the request cursor and applies its edits.
// An inapplicable cursor is not an error; the output reports Applied
// false.
func Apply(ctx context.Context, engine *assist.Engine, req Request, opts ApplyOptions) (*output.ApplyOutput, error) {
	if req.Assist != "" && !engine.Enabled(req.Assist) {
		return nil, fmt.Errorf("unknown or disabled assist %q", req.Assist)
	}
	doc, err := Load(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &output.ApplyOutput{File: doc.Path}

	a, ok := engine.Resolve(ctx, doc.context(), req.Assist)
	if !ok {
		return out, nil
	}
	result, err := assist.ApplyEdits(doc.Text, a.Edits)
	if err != nil {
		return nil, err
	}
	ao := output.NewAssistOutput(doc.Text, a)
	out.Applied = true
	out.Assist = &ao
	out.Result = result

	if opts.Diff {
		name := filepath.ToSlash(doc.Path)
		if name == "" {
			name = "stdin.rs"
		}
		out.Diff, err = output.UnifiedDiff(name, doc.Text, result)
		if err != nil {
			return nil, err
		}
		out.Stat, err = output.Stat(out.Diff)
		if err != nil {
			return nil, err
		}
	}

	if opts.Write {
		if doc.Path == "" || req.Source != nil {
			return nil, errors.New("cannot write back source that was not read from a file")
		}
		info, err := os.Stat(doc.Path)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(doc.Path, []byte(result), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("writing %s: %w", doc.Path, err)
		}
		out.Written = true
	}
	return out, nil
}
