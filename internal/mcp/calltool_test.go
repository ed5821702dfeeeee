package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/assist/handlers"
)

const (
	source = "fn main() {\n    it.for_each(|x| { if x > 4 { f(x); } });\n}\n"
	result = "fn main() {\n    it.filter(|&x| x > 4).for_each(|x| { f(x); });\n}\n"
)

func newServer(t *testing.T, tools ...string) *Server {
	t.Helper()
	s, err := New(Config{Tools: tools, Engine: assist.NewEngine(handlers.All())})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestGetToolSchemas(t *testing.T) {
	for _, name := range AllTools {
		schema, ok := toolSchemaRegistry[name]
		if !ok {
			t.Errorf("toolSchemaRegistry missing tool: %s", name)
			continue
		}
		if schema.Name != name {
			t.Errorf("schema name mismatch: got %q, want %q", schema.Name, name)
		}
		if schema.Description == "" {
			t.Errorf("tool %s has empty description", name)
		}
	}

	s := newServer(t, "rsfix_scan", "rsfix_apply")
	schemas := s.GetToolSchemas()
	if len(schemas) != 2 || schemas[0].Name != "rsfix_apply" || schemas[1].Name != "rsfix_scan" {
		t.Errorf("GetToolSchemas() = %+v", schemas)
	}
}

func TestToolSchemaParameters(t *testing.T) {
	tests := []struct {
		tool     string
		param    string
		required bool
	}{
		{"rsfix_assists", "file", false},
		{"rsfix_assists", "line", false},
		{"rsfix_apply", "assist", false},
		{"rsfix_apply", "write", false},
		{"rsfix_scan", "path", true},
	}

	for _, tt := range tests {
		schema, ok := toolSchemaRegistry[tt.tool]
		if !ok {
			t.Fatalf("missing tool: %s", tt.tool)
		}

		found := false
		for _, p := range schema.Parameters {
			if p.Name == tt.param {
				found = true
				if p.Required != tt.required {
					t.Errorf("tool %s param %s required = %v, want %v", tt.tool, tt.param, p.Required, tt.required)
				}
			}
		}
		if !found {
			t.Errorf("tool %s missing parameter %s", tt.tool, tt.param)
		}
	}
}

func TestAllToolsMatchesRegistry(t *testing.T) {
	registryNames := make([]string, 0, len(toolSchemaRegistry))
	for name := range toolSchemaRegistry {
		registryNames = append(registryNames, name)
	}
	sort.Strings(registryNames)

	allToolsCopy := make([]string, len(AllTools))
	copy(allToolsCopy, AllTools)
	sort.Strings(allToolsCopy)

	if strings.Join(registryNames, ",") != strings.Join(allToolsCopy, ",") {
		t.Errorf("registry = %v, AllTools = %v", registryNames, allToolsCopy)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without engine")
	}
	if _, err := New(Config{Tools: []string{"rsfix_show"}, Engine: assist.NewEngine(nil)}); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestCallToolAssists(t *testing.T) {
	s := newServer(t)
	got, err := s.CallTool(context.Background(), "rsfix_assists", map[string]any{
		"source": source,
		"line":   float64(2),
		"column": float64(8),
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	var out struct {
		Assists []struct {
			ID string `json:"id"`
		} `json:"assists"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, got)
	}
	if len(out.Assists) != 1 || out.Assists[0].ID != "convert_if_to_filter" {
		t.Errorf("assists = %+v", out.Assists)
	}
}

func TestCallToolApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newServer(t)
	got, err := s.CallTool(context.Background(), "rsfix_apply", map[string]any{
		"file":   path,
		"offset": float64(19),
		"write":  true,
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	var out struct {
		Applied bool   `json:"applied"`
		Written bool   `json:"written"`
		Diff    string `json:"diff"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, got)
	}
	if !out.Applied || !out.Written || out.Result != result || out.Diff == "" {
		t.Errorf("apply result = %+v", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != result {
		t.Errorf("file = %q, want %q", data, result)
	}
}

func TestCallToolScan(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.rs"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newServer(t)
	got, err := s.CallTool(context.Background(), "rsfix_scan", map[string]any{"path": dir})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	var out struct {
		FilesScanned int `json:"files_scanned"`
		Files        []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, got)
	}
	if out.FilesScanned != 1 || len(out.Files) != 1 {
		t.Errorf("scan result = %+v", out)
	}
}

func TestCallToolErrors(t *testing.T) {
	s := newServer(t, "rsfix_assists", "rsfix_scan")
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"unregistered tool", "rsfix_apply", map[string]any{"source": source}},
		{"unknown tool", "rsfix_show", nil},
		{"missing file", "rsfix_assists", map[string]any{}},
		{"bad position", "rsfix_assists", map[string]any{"source": source, "line": float64(40)}},
		{"missing path", "rsfix_scan", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CallTool(context.Background(), tt.tool, tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
