package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/refactor"
)

var assistsCmd = &cobra.Command{
	Use:   "assists <file:line:column>",
	Short: "List the assists applicable at a position",
	Long: `List the assists applicable at a cursor position in a Rust file.

The position is 1-based; columns count characters. Use --offset to give a
byte offset instead. A file of "-" reads the source from stdin.

Examples:
  rsfix assists src/main.rs:12:9
  rsfix assists src/main.rs --offset 240 --format json
  cat src/main.rs | rsfix assists -:12:9`,
	Args: cobra.ExactArgs(1),
	RunE: runAssists,
}

var assistsCursor cursorFlags

func init() {
	rootCmd.AddCommand(assistsCmd)
	assistsCursor.register(assistsCmd)
}

func runAssists(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	req, err := assistsCursor.request(cmd, args[0])
	if err != nil {
		return err
	}
	out, err := refactor.Assists(cmd.Context(), s.engine, req)
	if err != nil {
		return err
	}
	return writeOutput(cmd, s.format, out)
}
