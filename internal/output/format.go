package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the default human-readable output
	FormatText Format = "text"

	// FormatYAML is the self-documenting YAML output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"

	// FormatDiff prints unified diffs of rewritten files
	FormatDiff Format = "diff"
)

// DefaultFormat is the default output format when none is specified.
const DefaultFormat = FormatText

// ParseFormat parses a format string into a Format value.
// Accepts: "text", "yaml", "json", "diff" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "diff":
		return FormatDiff, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected text, yaml, json, or diff)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatText, FormatYAML, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}
