package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Formatter is the interface for formatting command output.
type Formatter interface {
	// Format formats v and returns the result.
	Format(v any) (string, error)

	// FormatToWriter writes formatted output directly to a writer.
	FormatToWriter(w io.Writer, v any) error
}

// TextWriter is implemented by outputs with a plain text rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// DiffWriter is implemented by outputs that carry unified diffs.
type DiffWriter interface {
	WriteDiff(w io.Writer) error
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats v as YAML.
func (f *YAMLFormatter) Format(v any) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(v)
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats v as JSON.
func (f *JSONFormatter) Format(v any) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// TextFormatter renders outputs implementing TextWriter.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats v as text.
func (f *TextFormatter) Format(v any) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes text output to a writer.
func (f *TextFormatter) FormatToWriter(w io.Writer, v any) error {
	tw, ok := v.(TextWriter)
	if !ok {
		return fmt.Errorf("text formatter does not support type %T", v)
	}
	return tw.WriteText(w)
}

// DiffFormatter renders outputs implementing DiffWriter.
type DiffFormatter struct{}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter() *DiffFormatter {
	return &DiffFormatter{}
}

// Format formats v as a unified diff.
func (f *DiffFormatter) Format(v any) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes the diffs carried by v to a writer.
func (f *DiffFormatter) FormatToWriter(w io.Writer, v any) error {
	dw, ok := v.(DiffWriter)
	if !ok {
		return fmt.Errorf("diff formatter does not support type %T", v)
	}
	return dw.WriteDiff(w)
}

func formatString(f Formatter, v any) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetFormatter returns a formatter for the given format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatDiff:
		return NewDiffFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
