package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/refactor"
)

// stdinPath names source read from standard input.
const stdinPath = "-"

// parseLocation parses a `file[:line[:column]]` argument. A file of "-"
// reads the source from in.
func parseLocation(arg string, in io.Reader) (refactor.Request, error) {
	var req refactor.Request
	path, rest, _ := strings.Cut(arg, ":")
	// A drive letter is part of the path.
	if len(path) == 1 && rest != "" && (rest[0] == '\\' || rest[0] == '/') {
		var more string
		rest, more, _ = strings.Cut(rest, ":")
		path, rest = path+":"+rest, more
	}
	if path == "" {
		return req, fmt.Errorf("missing file in %q", arg)
	}
	req.Path = path

	if rest != "" {
		lineStr, colStr, hasCol := strings.Cut(rest, ":")
		line, err := strconv.Atoi(lineStr)
		if err != nil || line < 1 {
			return req, fmt.Errorf("invalid line in %q", arg)
		}
		req.Line = line
		if hasCol {
			col, err := strconv.Atoi(colStr)
			if err != nil || col < 1 {
				return req, fmt.Errorf("invalid column in %q", arg)
			}
			req.Column = col
		}
	}

	if path == stdinPath {
		src, err := io.ReadAll(in)
		if err != nil {
			return req, fmt.Errorf("reading stdin: %w", err)
		}
		req.Source = src
		req.Path = "stdin.rs"
	}
	return req, nil
}

// cursorFlags are the flags shared by commands taking a cursor.
type cursorFlags struct {
	offset int
}

func (f *cursorFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.offset, "offset", -1, "Cursor byte offset (instead of :line:column)")
}

// request resolves the location argument and cursor flags.
func (f *cursorFlags) request(cmd *cobra.Command, arg string) (refactor.Request, error) {
	req, err := parseLocation(arg, cmd.InOrStdin())
	if err != nil {
		return req, err
	}
	switch {
	case f.offset >= 0 && req.Line > 0:
		return req, fmt.Errorf("use either --offset or :line:column, not both")
	case f.offset >= 0:
		req.Offset = f.offset
	case req.Line == 0:
		return req, fmt.Errorf("no cursor: use %s:LINE:COLUMN or --offset", req.Path)
	}
	return req, nil
}

// writeOutput renders v in the selected format to the command's stdout.
func writeOutput(cmd *cobra.Command, format output.Format, v any) error {
	f, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return f.FormatToWriter(cmd.OutOrStdout(), v)
}
