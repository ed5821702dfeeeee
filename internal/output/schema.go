package output

import (
	"fmt"
	"io"

	"github.com/hargabyte/rsfix/internal/assist"
)

// Position is a location in a file, 1-based, columns in runes.
type Position struct {
	Offset int `yaml:"offset" json:"offset"`
	Line   int `yaml:"line" json:"line"`
	Column int `yaml:"column" json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionAt returns the position of offset in text.
func PositionAt(text string, offset int) Position {
	line, col := assist.PositionOf(text, offset)
	return Position{Offset: offset, Line: line, Column: col}
}

// Range is a span of a file.
type Range struct {
	Start Position `yaml:"start" json:"start"`
	End   Position `yaml:"end" json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// EditOutput is a single text replacement.
type EditOutput struct {
	Range       Range  `yaml:"range" json:"range"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// AssistOutput describes one applicable assist.
type AssistOutput struct {
	ID     string       `yaml:"id" json:"id"`
	Kind   string       `yaml:"kind" json:"kind"`
	Label  string       `yaml:"label" json:"label"`
	Target Range        `yaml:"target" json:"target"`
	Edits  []EditOutput `yaml:"edits,omitempty" json:"edits,omitempty"`
}

// NewAssistOutput converts an assist computed over text.
func NewAssistOutput(text string, a assist.Assist) AssistOutput {
	out := AssistOutput{
		ID:     a.ID.Name,
		Kind:   string(a.ID.Kind),
		Label:  a.Label,
		Target: Range{Start: PositionAt(text, a.Target.Start), End: PositionAt(text, a.Target.End)},
	}
	for _, e := range a.Edits {
		out.Edits = append(out.Edits, EditOutput{
			Range:       Range{Start: PositionAt(text, e.Range.Start), End: PositionAt(text, e.Range.End)},
			Replacement: e.Replacement,
		})
	}
	return out
}

// AssistsOutput lists the assists applicable at a cursor.
type AssistsOutput struct {
	File    string         `yaml:"file" json:"file"`
	Cursor  Position       `yaml:"cursor" json:"cursor"`
	Assists []AssistOutput `yaml:"assists" json:"assists"`
}

// WriteText implements TextWriter.
func (o *AssistsOutput) WriteText(w io.Writer) error {
	if len(o.Assists) == 0 {
		_, err := fmt.Fprintf(w, "%s:%s: no assists\n", o.File, o.Cursor)
		return err
	}
	for _, a := range o.Assists {
		if _, err := fmt.Fprintf(w, "%s:%s: %s [%s] %s\n", o.File, a.Target.Start, a.ID, a.Kind, a.Label); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOutput is the result of applying an assist to a file.
type ApplyOutput struct {
	File    string        `yaml:"file" json:"file"`
	Applied bool          `yaml:"applied" json:"applied"`
	Written bool          `yaml:"written,omitempty" json:"written,omitempty"`
	Assist  *AssistOutput `yaml:"assist,omitempty" json:"assist,omitempty"`
	Stat    *DiffStat     `yaml:"stat,omitempty" json:"stat,omitempty"`
	Diff    string        `yaml:"diff,omitempty" json:"diff,omitempty"`
	// Result is the full rewritten text.
	Result string `yaml:"-" json:"-"`
}

// WriteText implements TextWriter. An applied result prints the rewritten
// source unless it was written back to disk.
func (o *ApplyOutput) WriteText(w io.Writer) error {
	switch {
	case !o.Applied:
		_, err := fmt.Fprintf(w, "%s: no applicable assist\n", o.File)
		return err
	case o.Written:
		_, err := fmt.Fprintf(w, "%s: applied %s\n", o.File, o.Assist.ID)
		return err
	default:
		_, err := io.WriteString(w, o.Result)
		return err
	}
}

// WriteDiff implements DiffWriter.
func (o *ApplyOutput) WriteDiff(w io.Writer) error {
	_, err := io.WriteString(w, o.Diff)
	return err
}

// ScanRewrite is one assist found by a scan.
type ScanRewrite struct {
	Assist      string   `yaml:"assist" json:"assist"`
	Position    Position `yaml:"position" json:"position"`
	Before      string   `yaml:"before" json:"before"`
	Replacement string   `yaml:"replacement" json:"replacement"`
}

// ScanFile groups the rewrites of one file.
type ScanFile struct {
	Path     string        `yaml:"path" json:"path"`
	Rewrites []ScanRewrite `yaml:"rewrites" json:"rewrites"`
	// Skipped counts rewrites that overlapped an earlier one in the file
	// and were left for a later run.
	Skipped int       `yaml:"skipped,omitempty" json:"skipped,omitempty"`
	Written bool      `yaml:"written,omitempty" json:"written,omitempty"`
	Stat    *DiffStat `yaml:"stat,omitempty" json:"stat,omitempty"`
	Diff    string    `yaml:"-" json:"-"`
}

// ScanOutput is the result of scanning a set of paths.
type ScanOutput struct {
	FilesScanned int        `yaml:"files_scanned" json:"files_scanned"`
	Files        []ScanFile `yaml:"files" json:"files"`
	Warnings     []string   `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// RewriteCount returns the number of rewrites across all files.
func (o *ScanOutput) RewriteCount() int {
	n := 0
	for _, f := range o.Files {
		n += len(f.Rewrites)
	}
	return n
}

// WriteText implements TextWriter.
func (o *ScanOutput) WriteText(w io.Writer) error {
	for _, f := range o.Files {
		for _, r := range f.Rewrites {
			if _, err := fmt.Fprintf(w, "%s:%s: %s\n", f.Path, r.Position, r.Assist); err != nil {
				return err
			}
		}
	}
	for _, warn := range o.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return err
		}
	}
	verb := "found"
	if len(o.Files) > 0 && o.Files[0].Written {
		verb = "applied"
	}
	_, err := fmt.Fprintf(w, "%s %d rewrites in %d of %d files\n", verb, o.RewriteCount(), len(o.Files), o.FilesScanned)
	return err
}

// WriteDiff implements DiffWriter.
func (o *ScanOutput) WriteDiff(w io.Writer) error {
	for _, f := range o.Files {
		if _, err := io.WriteString(w, f.Diff); err != nil {
			return err
		}
	}
	return nil
}

// CacheOutput describes the scan cache.
type CacheOutput struct {
	Path    string `yaml:"path" json:"path"`
	Files   int64  `yaml:"files" json:"files"`
	Hits    int64  `yaml:"hits" json:"hits"`
	Pruned  int    `yaml:"pruned,omitempty" json:"pruned,omitempty"`
	Cleared bool   `yaml:"cleared,omitempty" json:"cleared,omitempty"`
}

// WriteText implements TextWriter.
func (o *CacheOutput) WriteText(w io.Writer) error {
	if o.Cleared {
		if _, err := fmt.Fprintln(w, "cache cleared"); err != nil {
			return err
		}
	}
	if o.Pruned > 0 {
		if _, err := fmt.Fprintf(w, "pruned %d entries\n", o.Pruned); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d clean files\n", o.Path, o.Files)
	return err
}
