// Package mcp provides an MCP (Model Context Protocol) server for rsfix.
// This allows AI agents to list and apply assists through MCP tools instead
// of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/refactor"
	"github.com/hargabyte/rsfix/internal/scan"
)

// Server wraps the MCP server with rsfix tools.
type Server struct {
	mcpServer    *server.MCPServer
	engine       *assist.Engine
	scan         scan.Options
	logger       *slog.Logger
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration.
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
	Engine  *assist.Engine
	// Scan is the base configuration of rsfix_scan; the write argument
	// overrides Write.
	Scan   scan.Options
	Logger *slog.Logger
}

// AllTools lists all available tools.
var AllTools = []string{"rsfix_assists", "rsfix_apply", "rsfix_scan"}

// New creates a new MCP server.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("mcp: no assist engine configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			"rsfix",
			"1.0.0",
			server.WithToolCapabilities(false),
		),
		engine:       cfg.Engine,
		scan:         cfg.Scan,
		logger:       logger,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}
	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}
	return s, nil
}

func (s *Server) registerTool(name string) error {
	var tool mcp.Tool
	switch name {
	case "rsfix_assists":
		tool = mcp.NewTool(name,
			mcp.WithDescription(toolSchemaRegistry[name].Description),
			withCursorParams(),
		)
	case "rsfix_apply":
		tool = mcp.NewTool(name,
			mcp.WithDescription(toolSchemaRegistry[name].Description),
			withCursorParams(),
			mcp.WithString("assist", mcp.Description("Assist id to apply (default: first applicable)")),
			mcp.WithBoolean("write", mcp.Description("Write the result back to the file")),
		)
	case "rsfix_scan":
		tool = mcp.NewTool(name,
			mcp.WithDescription(toolSchemaRegistry[name].Description),
			mcp.WithString("path", mcp.Required(), mcp.Description("File or directory to scan")),
			mcp.WithBoolean("write", mcp.Description("Rewrite files in place")),
		)
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
	s.mcpServer.AddTool(tool, s.handle(name))
	return nil
}

// withCursorParams adds the parameters locating a cursor in a file.
func withCursorParams() mcp.ToolOption {
	return func(t *mcp.Tool) {
		for _, opt := range []mcp.ToolOption{
			mcp.WithString("file", mcp.Description("Path of the Rust file")),
			mcp.WithString("source", mcp.Description("Rust source text, used instead of reading file")),
			mcp.WithNumber("offset", mcp.Description("Cursor byte offset")),
			mcp.WithNumber("line", mcp.Description("Cursor line, 1-based; takes precedence over offset")),
			mcp.WithNumber("column", mcp.Description("Cursor column in characters, 1-based (default: 1)")),
		} {
			opt(t)
		}
	}
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}
	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded.
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.logger.Info("mcp server idle, exiting", slog.Duration("timeout", s.timeout))
			os.Exit(0)
		}
	}
}

func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tools in sorted order.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	slices.Sort(tools)
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

var cursorParams = []ParameterSchema{
	{Name: "file", Type: "string", Description: "Path of the Rust file"},
	{Name: "source", Type: "string", Description: "Rust source text, used instead of reading file"},
	{Name: "offset", Type: "number", Description: "Cursor byte offset"},
	{Name: "line", Type: "number", Description: "Cursor line, 1-based; takes precedence over offset"},
	{Name: "column", Type: "number", Description: "Cursor column in characters, 1-based (default: 1)"},
}

// toolSchemaRegistry mirrors the mcp.NewTool definitions in registerTool
// for the call command.
var toolSchemaRegistry = map[string]ToolSchema{
	"rsfix_assists": {
		Name:        "rsfix_assists",
		Description: "List the refactoring assists applicable at a cursor position in a Rust file.",
		Parameters:  cursorParams,
	},
	"rsfix_apply": {
		Name:        "rsfix_apply",
		Description: "Apply an assist at a cursor position and return the rewritten source and diff.",
		Parameters: append(slices.Clone(cursorParams),
			ParameterSchema{Name: "assist", Type: "string", Description: "Assist id to apply (default: first applicable)"},
			ParameterSchema{Name: "write", Type: "boolean", Description: "Write the result back to the file"},
		),
	},
	"rsfix_scan": {
		Name:        "rsfix_scan",
		Description: "Find every applicable rewrite under a file or directory, optionally applying them.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "File or directory to scan", Required: true},
			{Name: "write", Type: "boolean", Description: "Rewrite files in place"},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(s.tools))
	for _, name := range s.ListTools() {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// handle adapts CallTool to an MCP tool handler. Tool failures are
// reported as error results, not protocol errors.
func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()
		result, err := s.CallTool(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'rsfix call --list' to see available tools)", name)
	}
	s.logger.Debug("mcp tool call", slog.String("tool", name))

	switch name {
	case "rsfix_assists":
		req, err := cursorRequest(args)
		if err != nil {
			return "", err
		}
		out, err := refactor.Assists(ctx, s.engine, req)
		if err != nil {
			return "", err
		}
		return toJSON(out)

	case "rsfix_apply":
		req, err := cursorRequest(args)
		if err != nil {
			return "", err
		}
		req.Assist, _ = args["assist"].(string)
		write, _ := args["write"].(bool)
		out, err := refactor.Apply(ctx, s.engine, req, refactor.ApplyOptions{Write: write, Diff: true})
		if err != nil {
			return "", err
		}
		return toJSON(applyResult{ApplyOutput: out, Result: out.Result})

	case "rsfix_scan":
		path, _ := args["path"].(string)
		if path == "" {
			return "", fmt.Errorf("path parameter is required")
		}
		opts := s.scan
		opts.Write, _ = args["write"].(bool)
		sc, err := scan.New(s.engine, opts, s.logger)
		if err != nil {
			return "", err
		}
		out, err := sc.Run(ctx, []string{path})
		if err != nil {
			return "", err
		}
		return toJSON(out)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// applyResult exposes the rewritten text, which the CLI output omits from
// structured formats.
type applyResult struct {
	*output.ApplyOutput
	Result string `json:"result,omitempty"`
}

func cursorRequest(args map[string]any) (refactor.Request, error) {
	var req refactor.Request
	req.Path, _ = args["file"].(string)
	if src, ok := args["source"].(string); ok {
		req.Source = []byte(src)
	}
	if req.Path == "" && req.Source == nil {
		return req, fmt.Errorf("file or source parameter is required")
	}
	if o, ok := args["offset"].(float64); ok {
		req.Offset = int(o)
	}
	if l, ok := args["line"].(float64); ok {
		req.Line = int(l)
	}
	if c, ok := args["column"].(float64); ok {
		req.Column = int(c)
	}
	return req, nil
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
