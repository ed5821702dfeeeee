package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Include: []string{"**.rs"},
			Exclude: []string{
				"target/**",
				"**/target/**",
				".git/**",
				"vendor/**",
			},
			Concurrency: 8,
			AutoExclude: boolPtr(true),
			Cache:       boolPtr(true),
		},
		Assists: AssistsConfig{},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Scan:    mergeScanConfig(loaded.Scan, defaults.Scan),
		Assists: mergeAssistsConfig(loaded.Assists, defaults.Assists),
		Output:  mergeOutputConfig(loaded.Output, defaults.Output),
		Log:     mergeLogConfig(loaded.Log, defaults.Log),
	}
}

func mergeScanConfig(loaded, defaults ScanConfig) ScanConfig {
	result := ScanConfig{}

	if len(loaded.Include) > 0 {
		result.Include = loaded.Include
	} else {
		result.Include = defaults.Include
	}

	// Exclude patterns replace the defaults rather than extending them so
	// a project can scan vendored code if it wants to.
	if len(loaded.Exclude) > 0 {
		result.Exclude = loaded.Exclude
	} else {
		result.Exclude = defaults.Exclude
	}

	if loaded.Concurrency != 0 {
		result.Concurrency = loaded.Concurrency
	} else {
		result.Concurrency = defaults.Concurrency
	}

	result.AutoExclude = mergeBool(loaded.AutoExclude, defaults.AutoExclude)
	result.Cache = mergeBool(loaded.Cache, defaults.Cache)

	return result
}

func mergeBool(loaded, defaults *bool) *bool {
	if loaded != nil {
		return loaded
	}
	return defaults
}

func boolPtr(b bool) *bool { return &b }

func mergeAssistsConfig(loaded, defaults AssistsConfig) AssistsConfig {
	if len(loaded.Disabled) > 0 {
		return loaded
	}
	return defaults
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	if loaded.Format != "" {
		return loaded
	}
	return defaults
}

func mergeLogConfig(loaded, defaults LogConfig) LogConfig {
	if loaded.Level != "" {
		return loaded
	}
	return defaults
}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"text", "yaml", "json", "diff"}

// ValidLevels lists the valid values for log.level
var ValidLevels = []string{"debug", "info", "warn", "error"}
