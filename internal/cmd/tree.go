package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/syntax"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the syntax tree of a Rust file",
	Long: `Print the lossless syntax tree rsfix builds for a Rust file, one element
per line with its kind, byte range and, for tokens, its text.

Useful when an assist does not trigger where expected.

Examples:
  rsfix tree src/main.rs
  echo 'fn f() { x.y(); }' | rsfix tree -`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	var (
		tree *syntax.Tree
		err  error
	)
	if args[0] == stdinPath {
		src, rerr := io.ReadAll(cmd.InOrStdin())
		if rerr != nil {
			return rerr
		}
		tree, err = syntax.Parse(src)
	} else {
		tree, _, err = syntax.ParseFile(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), syntax.Dump(tree.Root))
	return err
}
