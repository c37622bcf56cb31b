package query

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// files lists the supported files under scope in lexical path order. scope
// may be a file or a directory; empty means the root. .git directories and
// configured exclusions are skipped.
func (e *Engine) files(scope string) ([]sourceFile, error) {
	if scope == "" {
		scope = e.root
	}
	abs, _ := e.resolve(scope)

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scope: %w", err)
	}
	if !info.IsDir() {
		f, err := e.describe(abs)
		if err != nil {
			return nil, err
		}
		return []sourceFile{f}, nil
	}

	var out []sourceFile
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logger.WithError(err).WithField("path", path).Warn("skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		_, rel := e.resolve(path)
		if d.IsDir() {
			if path != abs && (d.Name() == ".git" || e.excludes.SkipDir(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || e.excludes.SkipFile(rel) {
			return nil
		}
		desc, err := e.registry.Resolve(path)
		if err != nil {
			return nil
		}
		out = append(out, sourceFile{abs: path, rel: rel, desc: desc})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", scope, err)
	}
	return out, nil
}

// scan runs fn on every file under scope with at most e.workers files in
// flight. fn's results are returned in file order; files for which fn fails
// are logged and skipped unless the context was cancelled.
func scan[T any](ctx context.Context, e *Engine, scope string, fn func(context.Context, sourceFile) (T, bool, error)) ([]T, int, error) {
	files, err := e.files(scope)
	if err != nil {
		return nil, 0, err
	}

	results := make([]T, len(files))
	keep := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var mu sync.Mutex
	skipped := 0
	for i, f := range files {
		g.Go(func() error {
			res, ok, err := fn(gctx, f)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				e.logger.WithError(err).WithField("path", f.rel).Warn("skipping file")
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			results[i], keep[i] = res, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]T, 0, len(files))
	for i := range files {
		if keep[i] {
			out = append(out, results[i])
		}
	}
	if skipped > 0 {
		e.logger.WithField("skipped", skipped).Debug("scope scan finished with skipped files")
	}
	return out, len(files), nil
}
