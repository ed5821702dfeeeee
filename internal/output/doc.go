// Package output renders rsfix results.
//
// # Output Types
//
//   - AssistsOutput: assists applicable at a cursor (rsfix assists)
//   - ApplyOutput: the result of applying one assist (rsfix apply)
//   - ScanOutput: every rewrite found under a set of paths (rsfix scan)
//
// # Format Types
//
//   - Text (default): one line per item, for terminals
//   - YAML: self-documenting, same structure as JSON
//   - JSON: machine-readable
//   - Diff: unified diff of the rewritten files, where the command
//     produces rewritten text
//
// Unified diffs are computed with go-difflib and parsed back with
// sourcegraph/go-diff for change statistics.
package output
