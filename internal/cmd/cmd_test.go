package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	mainSrc = "fn main() {\n    it.for_each(|x| { if x > 4 { f(x); } });\n}\n"
	mainOut = "fn main() {\n    it.filter(|&x| x > 4).for_each(|x| { f(x); });\n}\n"
)

// resetFlags restores every package level flag variable to its default;
// cobra keeps values between Execute calls.
func resetFlags() {
	verbose, configPath, forAgents, outputFormat = false, "", false, ""
	assistsCursor = cursorFlags{offset: -1}
	applyCursor = cursorFlags{offset: -1}
	applyAssist, applyWrite, applyAllowNone = "", false, false
	scanWrite, scanCheck, scanInclude, scanExclude, scanConcurrency = false, false, nil, nil, 0
	scanNoCache = false
	callList, callPipe = false, false
	initForce = false
	serveMCP, serveTools, serveTimeout, serveStatus, serveStop, serveListTools = false, "", "30m", false, false, false
	serveMetrics = ""
}

// execute runs the root command with args. A --config flag pointing at a
// missing file is added so the tests never pick up a stray config.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	if !strings.Contains(strings.Join(args, " "), "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	}
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRust(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		arg     string
		path    string
		line    int
		col     int
		wantErr bool
	}{
		{"src/main.rs", "src/main.rs", 0, 0, false},
		{"src/main.rs:12", "src/main.rs", 12, 0, false},
		{"src/main.rs:12:9", "src/main.rs", 12, 9, false},
		{`C:\src\main.rs:3:4`, `C:\src\main.rs`, 3, 4, false},
		{"src/main.rs:x", "", 0, 0, true},
		{"src/main.rs:0:1", "", 0, 0, true},
		{"src/main.rs:2:0", "", 0, 0, true},
		{":2:3", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			req, err := parseLocation(tt.arg, strings.NewReader(""))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLocation(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if req.Path != tt.path || req.Line != tt.line || req.Column != tt.col {
				t.Errorf("parseLocation(%q) = %s %d:%d, want %s %d:%d", tt.arg, req.Path, req.Line, req.Column, tt.path, tt.line, tt.col)
			}
		})
	}

	req, err := parseLocation("-:2", strings.NewReader(mainSrc))
	if err != nil {
		t.Fatalf("parseLocation(stdin) failed: %v", err)
	}
	if string(req.Source) != mainSrc || req.Path != "stdin.rs" {
		t.Errorf("parseLocation(stdin) = %+v", req)
	}
}

func TestNormalizeToolName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"apply", "rsfix_apply"},
		{"rsfix_apply", "rsfix_apply"},
		{"assists", "rsfix_assists"},
		{"scan", "rsfix_scan"},
		{"nonexistent", "rsfix_nonexistent"},
	}

	for _, tt := range tests {
		if got := normalizeToolName(tt.input); got != tt.want {
			t.Errorf("normalizeToolName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := parseToolList(" apply, rsfix_scan ,,"); strings.Join(got, ",") != "rsfix_apply,rsfix_scan" {
		t.Errorf("parseToolList() = %v", got)
	}
}

func TestAssistsCommand(t *testing.T) {
	path := writeRust(t, mainSrc)

	out, err := execute(t, "", "assists", path+":2:8")
	if err != nil {
		t.Fatalf("assists failed: %v", err)
	}
	if !strings.Contains(out, ":2:5: convert_if_to_filter [refactor.rewrite]") {
		t.Errorf("assists output = %q", out)
	}

	out, err = execute(t, "", "assists", path, "--offset", "0", "--format", "json")
	if err != nil {
		t.Fatalf("assists --offset failed: %v", err)
	}
	var parsed struct {
		Assists []any `json:"assists"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(parsed.Assists) != 0 {
		t.Errorf("assists at offset 0 = %v", parsed.Assists)
	}

	out, err = execute(t, mainSrc, "assists", "-:2:8")
	if err != nil {
		t.Fatalf("assists from stdin failed: %v", err)
	}
	if !strings.HasPrefix(out, "stdin.rs:2:5: convert_if_to_filter") {
		t.Errorf("assists stdin output = %q", out)
	}

	if _, err := execute(t, "", "assists", path); err == nil {
		t.Error("expected error without a cursor")
	}
	if _, err := execute(t, "", "assists", path+":2:8", "--offset", "3"); err == nil {
		t.Error("expected error with both cursor forms")
	}
}

func TestApplyCommand(t *testing.T) {
	path := writeRust(t, mainSrc)

	out, err := execute(t, "", "apply", path+":2:8")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if out != mainOut {
		t.Errorf("apply output = %q, want %q", out, mainOut)
	}
	if readFile(t, path) != mainSrc {
		t.Error("apply without --write modified the file")
	}

	out, err = execute(t, "", "apply", path+":2:8", "--format", "diff")
	if err != nil {
		t.Fatalf("apply --format diff failed: %v", err)
	}
	if !strings.Contains(out, "+    it.filter(|&x| x > 4).for_each(|x| { f(x); });") {
		t.Errorf("apply diff = %q", out)
	}

	if _, err := execute(t, "", "apply", path+":1:1"); err == nil {
		t.Error("expected error when no assist applies")
	}
	if _, err := execute(t, "", "apply", path+":1:1", "--allow-none"); err != nil {
		t.Errorf("apply --allow-none failed: %v", err)
	}

	out, err = execute(t, "", "apply", path+":2:8", "--write", "--assist", "convert_if_to_filter")
	if err != nil {
		t.Fatalf("apply --write failed: %v", err)
	}
	if !strings.HasSuffix(out, ": applied convert_if_to_filter\n") {
		t.Errorf("apply --write output = %q", out)
	}
	if got := readFile(t, path); got != mainOut {
		t.Errorf("file = %q, want %q", got, mainOut)
	}
}

func TestApplyDisabledByConfig(t *testing.T) {
	path := writeRust(t, mainSrc)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("assists:\n  disabled: [convert_if_to_filter]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "apply", path+":2:8", "--config", cfg); err == nil {
		t.Error("expected error for disabled assist")
	}
	out, err := execute(t, "", "assists", path+":2:8", "--config", cfg)
	if err != nil {
		t.Fatalf("assists failed: %v", err)
	}
	if !strings.HasSuffix(out, ": no assists\n") {
		t.Errorf("assists output = %q", out)
	}
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"src/main.rs":      mainSrc,
		"target/gen.rs":    mainSrc,
		"benches/b.rs":     mainSrc,
		"src/unchanged.rs": "fn f() {}\n",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "", "scan", dir, "--exclude", "benches/**")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.HasSuffix(out, "found 1 rewrites in 1 of 2 files\n") {
		t.Errorf("scan output = %q", out)
	}

	if _, err := execute(t, "", "scan", dir, "--check"); err == nil {
		t.Error("expected scan --check to fail")
	}
	if _, err := execute(t, "", "scan", dir, "--check", "--write"); err == nil {
		t.Error("expected error combining --check and --write")
	}

	out, err = execute(t, "", "scan", dir, "--format", "diff", "-j", "2")
	if err != nil {
		t.Fatalf("scan --format diff failed: %v", err)
	}
	if strings.Count(out, "+++ b/") != 2 {
		t.Errorf("expected 2 file diffs:\n%s", out)
	}

	if _, err := execute(t, "", "scan", dir, "--write", "--include", "src/**"); err != nil {
		t.Fatalf("scan --write failed: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "src", "main.rs")); got != mainOut {
		t.Errorf("src/main.rs = %q, want %q", got, mainOut)
	}
	if got := readFile(t, filepath.Join(dir, "benches", "b.rs")); got != mainSrc {
		t.Error("scan --include src/** rewrote benches/b.rs")
	}

	if _, err := execute(t, "", "scan", dir, "--exclude", "[bad"); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func TestScanCache(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll("src", 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"src/main.rs":      mainSrc,
		"src/unchanged.rs": "fn f() {}\n",
	} {
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := execute(t, "", "cache", "stats"); err == nil {
		t.Error("expected cache stats to fail before init")
	}
	if _, err := execute(t, "", "init", "--config", ".rsfix/config.yaml"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := filepath.Join(".rsfix", "config.yaml")
	want := filepath.Join(".rsfix", "cache.db")
	if _, err := execute(t, "", "scan", "--config", cfg); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	out, err := execute(t, "", "cache", "stats", "--config", cfg)
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if out != want+": 1 clean files\n" {
		t.Errorf("cache stats = %q", out)
	}

	if err := os.Remove(filepath.Join("src", "unchanged.rs")); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "", "cache", "prune", "--config", cfg)
	if err != nil {
		t.Fatalf("cache prune failed: %v", err)
	}
	if out != "pruned 1 entries\n"+want+": 0 clean files\n" {
		t.Errorf("cache prune = %q", out)
	}

	if err := os.WriteFile(filepath.Join("src", "other.rs"), []byte("fn g() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "scan", "--no-cache", "--config", cfg); err != nil {
		t.Fatalf("scan --no-cache failed: %v", err)
	}
	if _, err := execute(t, "", "scan", "--config", cfg); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	out, err = execute(t, "", "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	if out != "cache cleared\n"+want+": 0 clean files\n" {
		t.Errorf("cache clear = %q", out)
	}
}

func TestTreeCommand(t *testing.T) {
	out, err := execute(t, "fn f() { x.y(); }", "tree", "-")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if !strings.Contains(out, "CallExpr@9..14 call_expression") {
		t.Errorf("tree output missing call expression:\n%s", out)
	}
	if _, err := execute(t, "", "tree", "notes.txt"); err == nil {
		t.Error("expected error for non-Rust file")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "", "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Initialized rsfix config at .rsfix/config.yaml") &&
		!strings.Contains(out, filepath.Join(".rsfix", "config.yaml")) {
		t.Errorf("init output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".rsfix", "config.yaml")); err != nil {
		t.Fatalf("config not created: %v", err)
	}

	out, err = execute(t, "", "init")
	if err != nil || !strings.HasPrefix(out, "Already initialized") {
		t.Errorf("second init = %q, %v", out, err)
	}
	if _, err := execute(t, "", "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestCallCommand(t *testing.T) {
	path := writeRust(t, mainSrc)

	out, err := execute(t, "", "call", "assists", `{"file":"`+filepath.ToSlash(path)+`","line":2,"column":8}`)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !strings.Contains(out, `"id": "convert_if_to_filter"`) {
		t.Errorf("call output = %q", out)
	}

	out, err = execute(t, "", "call", "--list", "--format", "json")
	if err != nil {
		t.Fatalf("call --list failed: %v", err)
	}
	var schemas []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &schemas); err != nil {
		t.Fatalf("call --list is not JSON: %v\n%s", err, out)
	}
	if len(schemas) != 3 {
		t.Errorf("call --list returned %d tools, want 3", len(schemas))
	}

	pipe := `{"tool":"assists","args":{"source":"fn main() { it.for_each(|x| { if x { f(); } }); }","offset":15}}
not json
{"tool":"nope"}
`
	out, err = execute(t, pipe, "call", "--pipe")
	if err != nil {
		t.Fatalf("call --pipe failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("call --pipe wrote %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "convert_if_to_filter") || !strings.Contains(lines[1], "invalid JSON") || !strings.Contains(lines[2], "unknown tool") {
		t.Errorf("call --pipe output:\n%s", out)
	}

	if _, err := execute(t, "", "call"); err == nil {
		t.Error("call with no args should return error")
	}
}

func TestServeListTools(t *testing.T) {
	out, err := execute(t, "", "serve", "--list-tools")
	if err != nil {
		t.Fatalf("serve --list-tools failed: %v", err)
	}
	for _, tool := range []string{"rsfix_assists", "rsfix_apply", "rsfix_scan"} {
		if !strings.Contains(out, tool) {
			t.Errorf("serve --list-tools missing %s", tool)
		}
	}
	if _, err := execute(t, "", "serve"); err == nil {
		t.Error("serve without --mcp should return error")
	}
}

func TestParseDuration(t *testing.T) {
	for in, want := range map[string]string{"0": "0s", "": "0s", "30m": "30m0s"} {
		d, err := parseDuration(in)
		if err != nil || d.String() != want {
			t.Errorf("parseDuration(%q) = %v, %v, want %s", in, d, err, want)
		}
	}
	if _, err := parseDuration("soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
}
