package analyzer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"route-recon/internal/logger"
	"route-recon/internal/model"
	"route-recon/internal/pyparser"
)

// sourceFile is one read (and, when readable, parsed) Python file
type sourceFile struct {
	Path    string // As returned by ScanDirectory
	Rel     string // Root-relative, forward slashes
	Content string
	Module  *pyparser.Module

	// Err is set when the file could not be read or parsed; Kind says which
	Err  error
	Kind model.DiagnosticKind
}

// moduleCache memoises parsed files within one run
type moduleCache = lru.Cache[string, *sourceFile]

func newModuleCache(size int) *moduleCache {
	cache, err := lru.New[string, *sourceFile](size)
	if err != nil {
		// only reachable with a non-positive size
		cache, _ = lru.New[string, *sourceFile](1)
	}
	return cache
}

// relPath returns path relative to root with forward slashes
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// loadSources reads and parses files on a bounded worker group. Results are stored
// at the index of their path, so the returned order always matches paths.
// One file failing never affects the others; only context cancellation is an error.
func loadSources(ctx context.Context, cfg *AnalyzerConfig, paths []string, cache *moduleCache) ([]*sourceFile, error) {
	results := make([]*sourceFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if cache != nil {
				if sf, ok := cache.Get(path); ok {
					results[i] = sf
					return nil
				}
			}

			sf := loadSource(gctx, cfg, path)
			if cache != nil {
				cache.Add(path, sf)
			}
			results[i] = sf
			if cfg.OnFileDone != nil {
				cfg.OnFileDone(sf.Rel)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadSource(ctx context.Context, cfg *AnalyzerConfig, path string) *sourceFile {
	sf := &sourceFile{Path: path, Rel: relPath(cfg.RootDir, path)}

	content, err := ReadFile(path, cfg.EncodingHints)
	if err != nil {
		sf.Err, sf.Kind = err, model.DiagReadError
		return sf
	}
	sf.Content = content

	mod, err := pyparser.ParseFile(ctx, []byte(content))
	if err != nil {
		sf.Err, sf.Kind = err, model.DiagParseError
		return sf
	}
	sf.Module = mod
	return sf
}

// failureRecorder turns read/parse failures into diagnostics, once per file per run
type failureRecorder struct {
	inv  *model.Inventory
	seen map[string]bool
}

func newFailureRecorder(inv *model.Inventory) *failureRecorder {
	return &failureRecorder{inv: inv, seen: make(map[string]bool)}
}

// record reports sf if it failed and returns true when the caller should skip it
func (r *failureRecorder) record(sf *sourceFile, stage string) bool {
	if sf.Err == nil {
		return false
	}
	if r.seen[sf.Rel] {
		return true
	}
	r.seen[sf.Rel] = true

	line := 0
	var se *pyparser.SyntaxError
	if errors.As(sf.Err, &se) {
		line = se.Line
	}
	r.inv.AddDiagnostic(sf.Kind, sf.Rel, line, "%v", sf.Err)
	logger.LogParseError(sf.Rel, sf.Err, stage)
	return true
}

// filterPaths keeps paths whose root-relative form satisfies keep
func filterPaths(root string, paths []string, keep func(rel string) bool) []string {
	var out []string
	for _, p := range paths {
		if keep(relPath(root, p)) {
			out = append(out, p)
		}
	}
	return out
}

// baseContains reports whether any base class source text contains fragment
func baseContains(cls *pyparser.ClassDef, fragment string) bool {
	for _, b := range cls.BaseText() {
		if strings.Contains(b, fragment) {
			return true
		}
	}
	return false
}
