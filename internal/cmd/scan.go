package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/cache"
	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Find or apply every rewrite under a set of paths",
	Long: `Scan Rust files and report every place an assist applies.

Directories are walked recursively. Files are filtered by the include and
exclude globs of .rsfix/config.yaml (default: all *.rs files outside target/,
.git/ and vendor/); files named explicitly are always scanned.

Cargo target directories and vendored crates are skipped automatically
(scan.auto_exclude). Inside a project initialized with 'rsfix init', files
with nothing to rewrite are remembered in .rsfix/cache.db and skipped until
they change (scan.cache, --no-cache).

When two rewrites overlap, only the outer one is made; run the scan again
to pick up the rest.

Examples:
  rsfix scan                        # Report rewrites under the current directory
  rsfix scan src --format diff      # Preview them as a unified diff
  rsfix scan src --write            # Apply them in place
  rsfix scan --exclude 'benches/**' --concurrency 2`,
	RunE: runScan,
}

var (
	scanWrite       bool
	scanCheck       bool
	scanInclude     []string
	scanExclude     []string
	scanConcurrency int
	scanNoCache     bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVarP(&scanWrite, "write", "w", false, "Rewrite files in place")
	scanCmd.Flags().BoolVar(&scanCheck, "check", false, "Exit with an error if any rewrite is found")
	scanCmd.Flags().StringSliceVar(&scanInclude, "include", nil, "Glob of files to scan (replaces scan.include)")
	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Glob of files to skip (added to scan.exclude)")
	scanCmd.Flags().IntVarP(&scanConcurrency, "concurrency", "j", 0, "Files processed in parallel (default: scan.concurrency)")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "Do not read or update .rsfix/cache.db")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if scanWrite && scanCheck {
		return fmt.Errorf("--write and --check cannot be combined")
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	opts := scanOptions(s)
	if !scanNoCache && s.cfg.Scan.CacheEnabled() {
		if c := openScanCache(s.logger); c != nil {
			defer c.Close()
			opts.Cache = c
		}
	}

	sc, err := scan.New(s.engine, opts, s.logger)
	if err != nil {
		return err
	}
	out, err := sc.Run(cmd.Context(), roots)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, s.format, out); err != nil {
		return err
	}
	if scanCheck && out.RewriteCount() > 0 {
		return fmt.Errorf("%d rewrites found", out.RewriteCount())
	}
	return nil
}

// scanOptions combines the scan config with command flags.
func scanOptions(s *settings) scan.Options {
	opts := scan.Options{
		Include:     s.cfg.Scan.Include,
		Exclude:     append(append([]string(nil), s.cfg.Scan.Exclude...), scanExclude...),
		Concurrency: s.cfg.Scan.Concurrency,
		Write:       scanWrite,
		Diff:        s.format == output.FormatDiff || s.format == output.FormatYAML || s.format == output.FormatJSON,
		AutoExclude: s.cfg.Scan.AutoExcludeEnabled(),
	}
	if len(scanInclude) > 0 {
		opts.Include = scanInclude
	}
	if scanConcurrency > 0 {
		opts.Concurrency = scanConcurrency
	}
	return opts
}

// openScanCache opens the cache of the current project. Scans run
// uncached outside a project or when the database cannot be opened.
func openScanCache(logger *slog.Logger) *cache.Cache {
	dir, ok := projectDir()
	if !ok {
		return nil
	}
	c, err := cache.Open(dir)
	if err != nil {
		logger.Warn("scan cache unavailable", slog.String("dir", dir), slog.Any("error", err))
		return nil
	}
	return c
}
