package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/refactor"
)

var applyCmd = &cobra.Command{
	Use:   "apply <file:line:column>",
	Short: "Apply an assist at a position",
	Long: `Apply the first assist applicable at a cursor position.

Without --write the rewritten file is printed to stdout (or, with
--format diff, a unified diff). With --write the file is updated in place.
Use --assist to pick a specific assist when several apply.

Exits with an error when no assist applies, unless --allow-none is set.

Examples:
  rsfix apply src/main.rs:12:9
  rsfix apply src/main.rs:12:9 --write
  rsfix apply src/main.rs:12:9 --assist convert_if_to_filter --format diff`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var (
	applyCursor    cursorFlags
	applyAssist    string
	applyWrite     bool
	applyAllowNone bool
)

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCursor.register(applyCmd)
	applyCmd.Flags().StringVar(&applyAssist, "assist", "", "Assist id to apply (default: first applicable)")
	applyCmd.Flags().BoolVarP(&applyWrite, "write", "w", false, "Write the result back to the file")
	applyCmd.Flags().BoolVar(&applyAllowNone, "allow-none", false, "Do not fail when no assist applies")
}

func runApply(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	req, err := applyCursor.request(cmd, args[0])
	if err != nil {
		return err
	}
	req.Assist = applyAssist

	out, err := refactor.Apply(cmd.Context(), s.engine, req, refactor.ApplyOptions{
		Write: applyWrite,
		Diff:  s.format != output.FormatText || applyWrite,
	})
	if err != nil {
		return err
	}
	if out.Applied {
		s.logger.Info("assist applied",
			slog.String("file", out.File),
			slog.String("assist", out.Assist.ID),
			slog.Bool("written", out.Written),
		)
	}
	if err := writeOutput(cmd, s.format, out); err != nil {
		return err
	}
	if !out.Applied && !applyAllowNone {
		return fmt.Errorf("no applicable assist at %s", out.File)
	}
	return nil
}
