// Package exclude detects directories a Rust scan should never enter:
// Cargo build output and crates copied in by `cargo vendor`.
package exclude

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// AutoExcludeResult contains the directories to exclude and why.
type AutoExcludeResult struct {
	// Directories to exclude, slash separated and relative to the root.
	Directories []string
	// Reasons maps each directory to why it was excluded
	Reasons map[string]string
}

// Contains reports whether rel, a slash separated path relative to the
// root, is an excluded directory.
func (r *AutoExcludeResult) Contains(rel string) bool {
	return slices.Contains(r.Directories, rel)
}

func (r *AutoExcludeResult) add(dir, reason string) {
	if r.Contains(dir) {
		return
	}
	r.Directories = append(r.Directories, dir)
	r.Reasons[dir] = reason
}

// DetectAutoExcludes walks root looking for marker files. Only file
// existence checks are used, so a detected directory is always right:
//
//   - Cargo.toml with a target/ sibling excludes target/
//   - a crate holding .cargo-checksum.json excludes its parent, the
//     directory `cargo vendor` wrote
//
// Nested workspaces are found at any depth.
func DetectAutoExcludes(root string) *AutoExcludeResult {
	result := &AutoExcludeResult{
		Directories: []string{},
		Reasons:     make(map[string]string),
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			for _, excluded := range result.Directories {
				if rel == excluded || strings.HasPrefix(rel, excluded+"/") {
					return filepath.SkipDir
				}
			}
			switch d.Name() {
			case "target", ".git":
				return filepath.SkipDir
			}
			return nil
		}

		dir := filepath.ToSlash(filepath.Dir(rel))
		switch d.Name() {
		case "Cargo.toml":
			target := joinRel(dir, "target")
			if dirExists(filepath.Join(root, filepath.FromSlash(target))) {
				result.add(target, "Cargo build output (Cargo.toml detected)")
			}
		case ".cargo-checksum.json":
			if dir == "." {
				return nil
			}
			vendor := filepath.ToSlash(filepath.Dir(dir))
			if vendor == "." {
				// Crates directly under root are excluded one by one.
				vendor = dir
			}
			result.add(vendor, "vendored crates (.cargo-checksum.json detected)")
			return filepath.SkipDir
		}
		return nil
	})

	return result
}

func joinRel(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
