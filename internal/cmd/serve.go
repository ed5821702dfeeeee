package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/config"
	"github.com/hargabyte/rsfix/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server for AI agent integration.

This lets AI agents list and apply assists through MCP tools instead of
spawning CLI commands for every edit.

Available Tools:
  rsfix_assists   List the assists applicable at a position
  rsfix_apply     Apply an assist and return the result and diff
  rsfix_scan      Find or apply every rewrite under a path

Examples:
  rsfix serve --mcp                        # Start with all tools
  rsfix serve --mcp --tools assists,apply  # Start with specific tools only
  rsfix serve --mcp --timeout 30m          # Auto-stop after 30 minutes idle
  rsfix serve --mcp --metrics-addr :9464   # Also serve Prometheus metrics
  rsfix serve --status                     # Check if server is running
  rsfix serve --stop                       # Stop running server
  rsfix serve --list-tools                 # Show available tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
	serveMetrics   string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
	serveCmd.Flags().StringVar(&serveMetrics, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  rsfix_assists   List the assists applicable at a position")
		fmt.Fprintln(out, "  rsfix_apply     Apply an assist and return the result and diff")
		fmt.Fprintln(out, "  rsfix_scan      Find or apply every rewrite under a path")
		return nil
	}
	if serveStatus {
		return checkServerStatus(cmd)
	}
	if serveStop {
		return stopServer(cmd)
	}
	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	server, err := mcp.New(mcp.Config{
		Tools:   parseToolList(serveTools),
		Timeout: timeout,
		Engine:  s.engine,
		Scan:    scanOptions(s),
		Logger:  s.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if serveMetrics != "" {
		srv, err := startMetricsServer(serveMetrics, s.logger)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer srv.Close()
	}

	if err := writePIDFile(); err != nil {
		s.logger.Warn("could not write PID file", slog.Any("error", err))
	}
	defer removePIDFile()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		s.logger.Info("shutting down")
		removePIDFile()
		os.Exit(0)
	}()

	// stdout carries the MCP protocol; logs go to stderr.
	s.logger.Info("starting MCP server",
		slog.Any("tools", server.ListTools()),
		slog.Duration("timeout", timeout),
	)
	return server.ServeStdio()
}

// parseToolList splits a comma separated tool list, accepting names
// without the rsfix_ prefix.
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, normalizeToolName(t))
		}
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	dir, ok := projectDir()
	if !ok {
		return "", config.ErrConfigNotFound
	}
	return filepath.Join(dir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

func readPID() (int, bool) {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0, false
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return 0, false
	}
	return pid, true
}

func checkServerStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	pid, ok := readPID()
	if !ok {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	pid, ok := readPID()
	if !ok {
		fmt.Fprintln(out, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.SIGTERM)
	}
	if err != nil {
		removePIDFile()
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
