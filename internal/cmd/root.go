// Package cmd contains all CLI commands for rsfix.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/assist/handlers"
	"github.com/hargabyte/rsfix/internal/config"
	"github.com/hargabyte/rsfix/internal/output"
)

var (
	// Version is the current version of rsfix
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	forAgents    bool
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rsfix",
	Short: "Syntax-aware refactoring assists for Rust",
	Long: `rsfix applies small, syntax-preserving refactorings to Rust source.

Each refactoring is an assist: it looks at the code under a cursor position
and, when the shape matches, offers a rewrite. Comments, blank lines and the
formatting of untouched code are kept as written.

Assists:
  convert_if_to_filter   it.for_each(|x| { if c { .. } })  ->  it.filter(|&x| c).for_each(|x| { .. })

Output Format:
  Commands print text by default. Use --format to switch to yaml, json or
  diff. The default can be set in .rsfix/config.yaml.

Examples:
  rsfix assists src/main.rs:12:9          # List assists at a position
  rsfix apply src/main.rs:12:9 --write    # Apply the assist in place
  rsfix scan . --format diff              # Preview every rewrite in a crate
  rsfix scan src --write                  # Apply every rewrite
  rsfix tree src/main.rs                  # Dump the syntax tree
  rsfix cache stats                       # Show the scan cache

See 'rsfix <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .rsfix/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (text|yaml|json|diff)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// settings is the resolved configuration of one command run.
type settings struct {
	cfg    *config.Config
	format output.Format
	logger *slog.Logger
	engine *assist.Engine
}

// loadSettings reads the config file, applies global flags and builds the
// logger and assist engine.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	format := cfg.Output.Format
	if outputFormat != "" {
		format = outputFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	for _, id := range cfg.Assists.Disabled {
		if _, ok := handlers.ByName(id); !ok {
			logger.Warn("unknown assist in assists.disabled", slog.String("assist", id))
		}
	}

	return &settings{
		cfg:    cfg,
		format: f,
		logger: logger,
		engine: assist.NewEngine(handlers.All(),
			assist.WithLogger(logger),
			assist.WithDisabled(cfg.Assists.Disabled...),
		),
	}, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	out := map[string]any{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
		"assists":      assistIDs(),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func assistIDs() []string {
	var ids []string
	for _, h := range handlers.All() {
		ids = append(ids, h.ID.Name)
	}
	return ids
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
