package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the rsfix configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the rsfix configuration directory
const ConfigDirName = ".rsfix"

// Config holds all rsfix configuration
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Assists AssistsConfig `yaml:"assists"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// ScanConfig holds configuration for `rsfix scan`
type ScanConfig struct {
	// Include and Exclude are glob patterns matched against slash
	// separated paths relative to the scan root.
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Concurrency int      `yaml:"concurrency"`

	// AutoExclude skips Cargo target directories and vendored crates.
	AutoExclude *bool `yaml:"auto_exclude,omitempty"`

	// Cache keeps a record of unchanged files in .rsfix/cache.db.
	Cache *bool `yaml:"cache,omitempty"`
}

// AutoExcludeEnabled reports whether auto exclusion is on. Unset means on.
func (c ScanConfig) AutoExcludeEnabled() bool {
	return c.AutoExclude == nil || *c.AutoExclude
}

// CacheEnabled reports whether the scan cache is on. Unset means on.
func (c ScanConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// AssistsConfig selects which assists are offered
type AssistsConfig struct {
	Disabled []string `yaml:"disabled"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .rsfix/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .rsfix directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .rsfix directory if it doesn't exist.
// Returns the path to the .rsfix directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !slices.Contains(ValidFormats, cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	if cfg.Scan.Concurrency <= 0 {
		return fmt.Errorf("%w: scan.concurrency must be positive, got %d",
			ErrInvalidConfig, cfg.Scan.Concurrency)
	}

	for _, p := range append(slices.Clone(cfg.Scan.Include), cfg.Scan.Exclude...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("%w: bad scan pattern %q: %v", ErrInvalidConfig, p, err)
		}
	}

	for _, id := range cfg.Assists.Disabled {
		if id == "" {
			return fmt.Errorf("%w: assists.disabled contains an empty id", ErrInvalidConfig)
		}
	}

	return nil
}

// ParseLevel converts a log.level value into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log.level must be one of %v, got %q",
		ErrInvalidConfig, ValidLevels, level)
}

// SaveDefault writes the default configuration to .rsfix/config.yaml in workDir.
// Creates the .rsfix directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# rsfix configuration\n# Run `rsfix assists --help` for the list of assist ids.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
