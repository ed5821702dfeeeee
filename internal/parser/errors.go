package parser

import "fmt"

// ParseError is returned when tree-sitter gives up on a source file.
// Syntax errors do not produce a ParseError; they show up as ERROR nodes
// in the tree (see Result.HasErrors).
type ParseError struct {
	Message string
	File    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: parse failed: %s", e.File, e.Message)
	}
	return fmt.Sprintf("parse failed: %s", e.Message)
}

// UnsupportedLanguageError is returned when attempting to parse an unsupported language.
type UnsupportedLanguageError struct {
	Language string
}

// Error implements the error interface.
func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

// FileReadError is returned when a file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileReadError) Unwrap() error {
	return e.Err
}
