package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Scan.Include) != 1 || cfg.Scan.Include[0] != "**.rs" {
		t.Errorf("expected default include [**.rs], got %v", cfg.Scan.Include)
	}

	if len(cfg.Scan.Exclude) != 4 {
		t.Errorf("expected 4 exclude patterns, got %d", len(cfg.Scan.Exclude))
	}

	if cfg.Scan.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Scan.Concurrency)
	}

	if !cfg.Scan.AutoExcludeEnabled() || !cfg.Scan.CacheEnabled() {
		t.Error("expected auto exclude and cache on by default")
	}

	if len(cfg.Assists.Disabled) != 0 {
		t.Errorf("expected no disabled assists, got %v", cfg.Assists.Disabled)
	}

	if cfg.Output.Format != "text" {
		t.Errorf("expected format text, got %s", cfg.Output.Format)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "json format",
			modify: func(c *Config) {
				c.Output.Format = "json"
			},
			wantErr: false,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "verbose"
			},
			wantErr: true,
		},
		{
			name: "zero concurrency",
			modify: func(c *Config) {
				c.Scan.Concurrency = 0
			},
			wantErr: true,
		},
		{
			name: "bad glob",
			modify: func(c *Config) {
				c.Scan.Exclude = []string{"[unterminated"}
			},
			wantErr: true,
		},
		{
			name: "empty disabled id",
			modify: func(c *Config) {
				c.Assists.Disabled = []string{""}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range ValidLevels {
		if _, err := ParseLevel(level); err != nil {
			t.Errorf("ParseLevel(%q) error = %v", level, err)
		}
	}
	if _, err := ParseLevel("DEBUG"); err == nil {
		t.Error("ParseLevel(DEBUG) should be case sensitive")
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty config uses defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)
		if merged.Scan.Concurrency != defaults.Scan.Concurrency {
			t.Errorf("expected concurrency %d, got %d", defaults.Scan.Concurrency, merged.Scan.Concurrency)
		}
		if merged.Output.Format != "text" {
			t.Errorf("expected format text, got %s", merged.Output.Format)
		}
		if len(merged.Scan.Include) != 1 {
			t.Errorf("expected default include, got %v", merged.Scan.Include)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Scan:    ScanConfig{Exclude: []string{"gen/**"}, Concurrency: 2},
			Assists: AssistsConfig{Disabled: []string{"convert_if_to_filter"}},
			Log:     LogConfig{Level: "debug"},
		}
		merged := Merge(loaded, defaults)
		if len(merged.Scan.Exclude) != 1 || merged.Scan.Exclude[0] != "gen/**" {
			t.Errorf("expected exclude [gen/**], got %v", merged.Scan.Exclude)
		}
		if merged.Scan.Concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", merged.Scan.Concurrency)
		}
		if merged.Scan.Include[0] != "**.rs" {
			t.Errorf("expected default include, got %v", merged.Scan.Include)
		}
		if len(merged.Assists.Disabled) != 1 {
			t.Errorf("expected 1 disabled assist, got %v", merged.Assists.Disabled)
		}
		if merged.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", merged.Log.Level)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	nested := filepath.Join(tmpDir, "crates", "core", "src")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("returns error when not found", func(t *testing.T) {
		// The temp dir may sit under a directory holding a .rsfix of its
		// own; only assert the sentinel when nothing was found.
		dir, err := FindConfigDir(nested)
		if err != nil && !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
		if err == nil && strings.HasPrefix(dir, tmpDir) {
			t.Errorf("found unexpected config dir %s", dir)
		}
	})

	configDir := filepath.Join(tmpDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config in parent", func(t *testing.T) {
		dir, err := FindConfigDir(nested)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != configDir {
			t.Errorf("expected %s, got %s", configDir, dir)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := EnsureConfigDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(tmpDir, ConfigDirName); dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("config directory not created: %v", err)
	}

	if again, err := EnsureConfigDir(tmpDir); err != nil || again != dir {
		t.Errorf("second call = %s, %v", again, err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
scan:
  exclude:
    - fixtures/**
  concurrency: 3
  cache: false
assists:
  disabled: [convert_if_to_filter]
output:
  format: json
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Scan.Concurrency != 3 {
			t.Errorf("expected concurrency 3, got %d", cfg.Scan.Concurrency)
		}
		if cfg.Output.Format != "json" {
			t.Errorf("expected format json, got %s", cfg.Output.Format)
		}
		if cfg.Scan.CacheEnabled() {
			t.Error("expected cache disabled")
		}
		if !cfg.Scan.AutoExcludeEnabled() {
			t.Error("expected default auto exclude")
		}
		if len(cfg.Assists.Disabled) != 1 || cfg.Assists.Disabled[0] != "convert_if_to_filter" {
			t.Errorf("expected disabled [convert_if_to_filter], got %v", cfg.Assists.Disabled)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("expected default log level, got %s", cfg.Log.Level)
		}
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nope.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Output.Format != "text" {
			t.Errorf("expected defaults, got format %s", cfg.Output.Format)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("scan: [unclosed"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("output:\n  format: xml\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveDefault(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(tmpDir, ConfigDirName, ConfigFileName); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scan.Concurrency != DefaultConfig().Scan.Concurrency {
		t.Errorf("round-tripped concurrency = %d", cfg.Scan.Concurrency)
	}

	if _, err := SaveDefault(tmpDir); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestScanConfigToggles(t *testing.T) {
	off := false
	tests := []struct {
		name string
		cfg  ScanConfig
		want bool
	}{
		{"unset", ScanConfig{}, true},
		{"off", ScanConfig{AutoExclude: &off, Cache: &off}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.AutoExcludeEnabled(); got != tt.want {
				t.Errorf("AutoExcludeEnabled() = %v, want %v", got, tt.want)
			}
			if got := tt.cfg.CacheEnabled(); got != tt.want {
				t.Errorf("CacheEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
