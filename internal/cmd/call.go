package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/assist/handlers"
	"github.com/hargabyte/rsfix/internal/mcp"
)

var (
	callList bool
	callPipe bool
)

var callCmd = &cobra.Command{
	Use:   "call [tool] [json-args]",
	Short: "Call an MCP tool once from the command line",
	Long: `Call any rsfix MCP tool with structured JSON input/output, without
starting a server.

Modes:
  rsfix call --list                          List all tools and parameters
  rsfix call <tool> '{"key":"value"}'        Call a tool with JSON args
  rsfix call --pipe                          Read JSON lines from stdin

Tool names accept shorthand: "apply" is equivalent to "rsfix_apply".

Examples:
  rsfix call --list
  rsfix call assists '{"file":"src/main.rs","line":12,"column":9}'
  rsfix call apply '{"file":"src/main.rs","offset":240,"write":true}'
  rsfix call scan '{"path":"src"}'
  echo '{"tool":"rsfix_scan","args":{"path":"."}}' | rsfix call --pipe`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().BoolVar(&callList, "list", false, "List all available tools and their parameters")
	callCmd.Flags().BoolVar(&callPipe, "pipe", false, "Read JSON lines from stdin (pipe mode)")
}

func runCall(cmd *cobra.Command, args []string) error {
	if callList {
		return runCallList(cmd)
	}
	if !callPipe && len(args) == 0 {
		return fmt.Errorf("tool name required (run 'rsfix call --list' to see available tools)")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	srv, err := mcp.New(mcp.Config{
		Tools:  mcp.AllTools,
		Engine: s.engine,
		Scan:   scanOptions(s),
		Logger: s.logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if callPipe {
		return runCallPipe(cmd, srv)
	}
	return runCallSingle(cmd, srv, args)
}

// runCallList prints the tool schemas. It accepts the extra jsonl format
// and so does not go through loadSettings.
func runCallList(cmd *cobra.Command) error {
	srv, err := mcp.New(mcp.Config{Engine: assist.NewEngine(handlers.All())})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	schemas := srv.GetToolSchemas()
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schemas)
	case "jsonl":
		enc := json.NewEncoder(w)
		for _, s := range schemas {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	default: // yaml
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(schemas)
	}
}

func runCallSingle(cmd *cobra.Command, srv *mcp.Server, args []string) error {
	toolName := normalizeToolName(args[0])

	toolArgs := make(map[string]any)
	if len(args) >= 2 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("invalid JSON args: %w", err)
		}
	}

	result, err := srv.CallTool(cmd.Context(), toolName, toolArgs)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

// pipeRequest is the JSON format for pipe mode input.
type pipeRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// pipeResponse is the JSON format for pipe mode output.
type pipeResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func runCallPipe(cmd *cobra.Command, srv *mcp.Server) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	// Allow larger lines (4MB), sources travel inline.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req pipeRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			enc.Encode(pipeResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		if req.Args == nil {
			req.Args = make(map[string]any)
		}

		result, err := srv.CallTool(cmd.Context(), normalizeToolName(req.Tool), req.Args)
		if err != nil {
			enc.Encode(pipeResponse{Error: err.Error()})
			continue
		}
		enc.Encode(pipeResponse{Result: json.RawMessage(result)})
	}

	return scanner.Err()
}

// normalizeToolName converts shorthand names to full tool names.
// "apply" -> "rsfix_apply", "rsfix_apply" -> "rsfix_apply"
func normalizeToolName(name string) string {
	if !strings.HasPrefix(name, "rsfix_") {
		return "rsfix_" + name
	}
	return name
}
