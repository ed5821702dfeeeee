package output

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// DiffContext is the number of context lines around each hunk.
const DiffContext = 3

// DiffStat summarizes a unified diff.
type DiffStat struct {
	Hunks   int `yaml:"hunks" json:"hunks"`
	Added   int `yaml:"added" json:"added"`
	Changed int `yaml:"changed" json:"changed"`
	Deleted int `yaml:"deleted" json:"deleted"`
}

// UnifiedDiff returns a unified diff turning before into after, with
// a/ and b/ prefixed file names. Identical inputs produce "".
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  DiffContext,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", path, err)
	}
	return d, nil
}

// Stat parses a single-file unified diff and counts its changes.
func Stat(unified string) (*DiffStat, error) {
	if unified == "" {
		return &DiffStat{}, nil
	}
	fd, err := diff.ParseFileDiff([]byte(unified))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	st := fd.Stat()
	return &DiffStat{
		Hunks:   len(fd.Hunks),
		Added:   int(st.Added),
		Changed: int(st.Changed),
		Deleted: int(st.Deleted),
	}, nil
}
