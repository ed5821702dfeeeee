// Package scan runs the assist engine over every Rust file under a set of
// paths and reports, or applies, the rewrites it finds.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/hargabyte/rsfix/internal/assist"
	"github.com/hargabyte/rsfix/internal/cache"
	"github.com/hargabyte/rsfix/internal/exclude"
	"github.com/hargabyte/rsfix/internal/output"
	"github.com/hargabyte/rsfix/internal/parser"
	"github.com/hargabyte/rsfix/internal/syntax"
	"github.com/hargabyte/rsfix/internal/syntax/ast"
)

// ErrInvalidPattern indicates a glob pattern could not be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Options configures a Scanner.
type Options struct {
	// Include and Exclude are matched against slash separated paths
	// relative to the scanned directory. Files named explicitly are
	// always scanned.
	Include []string
	Exclude []string
	// Concurrency bounds the number of files processed at once.
	Concurrency int
	// Write rewrites files in place.
	Write bool
	// Diff computes a unified diff per changed file.
	Diff bool
	// AutoExclude skips Cargo build output and vendored crates found
	// under scanned directories.
	AutoExclude bool
	// Cache, when set, remembers files with nothing to rewrite so later
	// scans skip them while their content is unchanged.
	Cache Index
}

// Index records files known to need no rewrite.
type Index interface {
	IsClean(path, hash string) (bool, error)
	MarkClean(path, hash string) error
	Forget(path string) error
}

// Scanner finds assists across files.
type Scanner struct {
	engine  *assist.Engine
	opts    Options
	include []glob.Glob
	exclude []glob.Glob
	logger  *slog.Logger
	// assists names the enabled assists; it is part of every cache key.
	assists string
}

// New returns a Scanner running engine. A nil logger means slog.Default().
func New(engine *assist.Engine, opts Options, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	include, err := compileGlobs(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}
	var enabled []string
	for _, h := range engine.Handlers() {
		if engine.Enabled(h.ID.Name) {
			enabled = append(enabled, h.ID.Name)
		}
	}
	return &Scanner{
		engine:  engine,
		opts:    opts,
		include: include,
		exclude: exclude,
		logger:  logger,
		assists: strings.Join(enabled, ","),
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		m, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, fmt.Errorf("%q: %w", pattern, err))
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func matchAny(matchers []glob.Glob, path string) bool {
	return slices.ContainsFunc(matchers, func(g glob.Glob) bool { return g.Match(path) })
}

// Files returns the Rust files under roots, sorted and deduplicated.
func (s *Scanner) Files(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		if !info.IsDir() {
			if filepath.Ext(root) != ".rs" {
				return nil, fmt.Errorf("scanning %s: not a Rust file", root)
			}
			add(filepath.Clean(root))
			continue
		}

		auto := &exclude.AutoExcludeResult{}
		if s.opts.AutoExclude {
			auto = exclude.DetectAutoExcludes(root)
			for _, dir := range auto.Directories {
				s.logger.Debug("auto-excluded directory",
					slog.String("dir", dir),
					slog.String("reason", auto.Reasons[dir]),
				)
			}
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsPermission(err) {
					return nil
				}
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && (auto.Contains(rel) || matchAny(s.exclude, rel+"/")) {
					return fs.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".rs" || !d.Type().IsRegular() {
				return nil
			}
			if len(s.include) > 0 && !matchAny(s.include, rel) {
				return nil
			}
			if matchAny(s.exclude, rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// Run scans roots. Files are processed concurrently; the output lists
// them in path order. A file that cannot be read or parsed fails the run.
func (s *Scanner) Run(ctx context.Context, roots []string) (*output.ScanOutput, error) {
	files, err := s.Files(roots)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.scanFile(gctx, path)
			if err != nil {
				filesTotal.WithLabelValues(resultError).Inc()
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &output.ScanOutput{FilesScanned: len(files)}
	for _, r := range results {
		if r.warning != "" {
			out.Warnings = append(out.Warnings, r.warning)
		}
		if len(r.file.Rewrites) > 0 {
			out.Files = append(out.Files, r.file)
		}
	}
	s.logger.Info("scan finished",
		slog.Int("files", len(files)),
		slog.Int("changed_files", len(out.Files)),
		slog.Int("rewrites", out.RewriteCount()),
	)
	return out, nil
}

type fileResult struct {
	file    output.ScanFile
	warning string
}

func (s *Scanner) scanFile(ctx context.Context, path string) (fileResult, error) {
	var res fileResult
	res.file.Path = path

	src, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, &parser.FileReadError{Path: path, Err: err}
	}
	var hash string
	if s.opts.Cache != nil {
		hash = cache.Hash(src, s.assists)
		clean, err := s.opts.Cache.IsClean(path, hash)
		if err != nil {
			return fileResult{}, err
		}
		if clean {
			filesTotal.WithLabelValues(resultCached).Inc()
			return res, nil
		}
	}

	p := parser.Get()
	tree, err := syntax.ParseWith(ctx, p, src)
	parser.Put(p)
	if err != nil {
		if ctx.Err() != nil {
			return fileResult{}, ctx.Err()
		}
		if pe, ok := err.(*parser.ParseError); ok {
			pe.File = path
		}
		return fileResult{}, err
	}
	text := string(src)
	if tree.HasErrors {
		res.warning = fmt.Sprintf("%s:%s: syntax errors; rewrites are best effort",
			path, output.PositionAt(text, tree.ErrorOffset))
	}

	found := s.collect(ctx, tree, path)
	var edits []assist.Edit
	end := -1
	for _, a := range found {
		if a.Target.Start < end {
			res.file.Skipped++
			continue
		}
		end = a.Target.End
		edits = append(edits, a.Edits...)
		res.file.Rewrites = append(res.file.Rewrites, output.ScanRewrite{
			Assist:      a.ID.Name,
			Position:    output.PositionAt(text, a.Target.Start),
			Before:      text[a.Target.Start:a.Target.End],
			Replacement: replacementOf(a),
		})
	}

	if len(edits) == 0 {
		filesTotal.WithLabelValues(resultUnchanged).Inc()
		if s.opts.Cache != nil && !tree.HasErrors {
			if err := s.opts.Cache.MarkClean(path, hash); err != nil {
				return fileResult{}, err
			}
		}
		return res, nil
	}
	rewritesTotal.Add(float64(len(res.file.Rewrites)))
	if s.opts.Cache != nil {
		if err := s.opts.Cache.Forget(path); err != nil {
			return fileResult{}, err
		}
	}

	if !s.opts.Write && !s.opts.Diff {
		filesTotal.WithLabelValues(resultChanged).Inc()
		return res, nil
	}

	newText, err := assist.ApplyEdits(text, edits)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.opts.Diff {
		d, err := output.UnifiedDiff(filepath.ToSlash(path), text, newText)
		if err != nil {
			return fileResult{}, err
		}
		st, err := output.Stat(d)
		if err != nil {
			return fileResult{}, err
		}
		res.file.Diff, res.file.Stat = d, st
	}
	if s.opts.Write {
		if err := writeFile(path, newText); err != nil {
			return fileResult{}, err
		}
		res.file.Written = true
		s.logger.Debug("rewrote file", slog.String("path", path), slog.Int("rewrites", len(res.file.Rewrites)))
	}
	filesTotal.WithLabelValues(resultChanged).Inc()
	return res, nil
}

// collect runs the engine at the name of every method call in the tree
// and returns the assists ordered by target start. Assists with the same
// id and target are reported once.
func (s *Scanner) collect(ctx context.Context, tree *syntax.Tree, path string) []assist.Assist {
	type key struct {
		id    string
		start int
		end   int
	}
	seen := make(map[key]bool)
	var found []assist.Assist

	for n := range tree.Root.Preorder() {
		m, ok := ast.AsMethodCall(n)
		if !ok {
			continue
		}
		name := m.NameRef()
		if name == nil {
			continue
		}
		actx := assist.NewContext(tree, name.TextRange().Start)
		actx.Path = path
		for _, a := range s.engine.Assists(ctx, actx) {
			k := key{a.ID.Name, a.Target.Start, a.Target.End}
			if seen[k] {
				continue
			}
			seen[k] = true
			found = append(found, a)
		}
	}

	slices.SortStableFunc(found, func(a, b assist.Assist) int {
		return a.Target.Start - b.Target.Start
	})
	return found
}

func replacementOf(a assist.Assist) string {
	var parts []string
	for _, e := range a.Edits {
		parts = append(parts, e.Replacement)
	}
	return strings.Join(parts, "\n")
}

func writeFile(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
