package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/cache"
	"github.com/hargabyte/rsfix/internal/config"
	"github.com/hargabyte/rsfix/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the scan cache",
	Long: `The scan cache lives in .rsfix/cache.db and lists files a scan found
nothing to rewrite in. Entries are keyed by file content and the enabled
assists, so stale entries are never used; clear and prune only reclaim space.

Examples:
  rsfix cache stats    # Show the number of cached files
  rsfix cache prune    # Drop entries for files that no longer exist
  rsfix cache clear    # Drop every entry`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scan cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(c *cache.Cache, out *output.CacheOutput) error {
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every scan cache entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(c *cache.Cache, out *output.CacheOutput) error {
			out.Cleared = true
			return c.Clear()
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove scan cache entries for deleted files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(c *cache.Cache, out *output.CacheOutput) error {
			var err error
			out.Pruned, err = c.Prune(func(path string) bool {
				_, err := os.Stat(path)
				return err == nil
			})
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd)
}

// withCache opens the project cache, runs fn and prints the cache state.
func withCache(cmd *cobra.Command, fn func(*cache.Cache, *output.CacheOutput) error) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dir, ok := projectDir()
	if !ok {
		return fmt.Errorf("no %s directory found; run 'rsfix init' first", config.ConfigDirName)
	}
	c, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer c.Close()

	out := &output.CacheOutput{}
	if err := fn(c, out); err != nil {
		return err
	}
	stats, err := c.GetStats()
	if err != nil {
		return err
	}
	out.Path, out.Files, out.Hits = stats.Path, stats.Files, stats.Hits
	return writeOutput(cmd, s.format, out)
}

// projectDir returns the .rsfix directory in use: the one holding the
// --config file, or the nearest one above the working directory.
func projectDir() (string, bool) {
	if configPath != "" {
		dir := filepath.Dir(configPath)
		if filepath.Base(dir) != config.ConfigDirName {
			return "", false
		}
		info, err := os.Stat(dir)
		return dir, err == nil && info.IsDir()
	}
	dir, err := config.FindConfigDir(".")
	return dir, err == nil
}
