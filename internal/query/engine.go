// Package query answers navigation queries over a source tree. Files are read
// on demand, parsed through the shared cache and never modified.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dusk-indust/codenav/internal/cache"
	"github.com/dusk-indust/codenav/internal/config"
	"github.com/dusk-indust/codenav/internal/lang"
	"github.com/dusk-indust/codenav/internal/logging"
	"github.com/dusk-indust/codenav/internal/metrics"
	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// ErrUnsupported is returned for files no registered language handles.
var ErrUnsupported = lang.ErrUnsupported

const tracerName = "github.com/dusk-indust/codenav/internal/query"

// FileReader supplies file contents.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads from the local filesystem.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Option configures an Engine.
type Option func(*Engine)

// WithReader replaces the file reader.
func WithReader(r FileReader) Option {
	return func(e *Engine) { e.reader = r }
}

// WithLogger sets the logger. Skipped files are logged at warn level.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrDiscard(l) }
}

// WithMetrics records query durations.
func WithMetrics(m *metrics.Collectors) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithWorkers bounds the number of files processed concurrently by scope
// scans. Values below one select runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		e.workers = n
	}
}

// WithExcludes sets the directory and file exclusions for scope scans.
func WithExcludes(m *config.Matcher) Option {
	return func(e *Engine) { e.excludes = m }
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// Engine is safe for concurrent use.
type Engine struct {
	root     string
	registry *lang.Registry
	cache    *cache.Cache
	reader   FileReader
	logger   *logrus.Logger
	metrics  *metrics.Collectors
	workers  int
	excludes *config.Matcher
	tracer   trace.Tracer
}

// NewEngine creates an engine answering queries for files under root.
// Relative query paths are resolved against root.
func NewEngine(root string, reg *lang.Registry, c *cache.Cache, opts ...Option) *Engine {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	e := &Engine{
		root:     filepath.Clean(root),
		registry: reg,
		cache:    c,
		reader:   OSReader{},
		logger:   logging.Discard(),
		workers:  runtime.NumCPU(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the absolute root directory.
func (e *Engine) Root() string { return e.root }

// Registry returns the language registry.
func (e *Engine) Registry() *lang.Registry { return e.registry }

// CacheStats returns the shared cache counters.
func (e *Engine) CacheStats() cache.Stats { return e.cache.Stats() }

// resolve returns the absolute path for p and the display path used in
// results and as the cache key: slash-separated and relative to root when p
// lies under it.
func (e *Engine) resolve(p string) (abs, rel string) {
	abs = p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.root, abs)
	}
	abs = filepath.Clean(abs)

	r, err := filepath.Rel(e.root, abs)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return abs, filepath.ToSlash(abs)
	}
	return abs, filepath.ToSlash(r)
}

// sourceFile pairs a resolved path with its language.
type sourceFile struct {
	abs, rel string
	desc     *lang.Descriptor
}

func (e *Engine) describe(p string) (sourceFile, error) {
	abs, rel := e.resolve(p)
	desc, err := e.registry.Resolve(abs)
	if err != nil {
		return sourceFile{}, fmt.Errorf("%s: %w", rel, err)
	}
	return sourceFile{abs: abs, rel: rel, desc: desc}, nil
}

func (e *Engine) read(f sourceFile) (symbol.SourceFile, error) {
	content, err := e.reader.ReadFile(f.abs)
	if err != nil {
		return symbol.SourceFile{}, fmt.Errorf("read %s: %w", f.rel, err)
	}
	return symbol.NewSourceFile(f.rel, content), nil
}

// entry reads f and returns its cache entry.
func (e *Engine) entry(ctx context.Context, f sourceFile) (*cache.Entry, error) {
	src, err := e.read(f)
	if err != nil {
		return nil, err
	}
	return e.cache.GetOrCompute(ctx, src, f.desc)
}

// view runs fn against the tree of f and its symbols. If the entry is
// released between lookup and view, the lookup is retried once; a second
// release falls back to a private parse that is closed after fn returns.
func (e *Engine) view(ctx context.Context, f sourceFile, fn func([]symbol.Record, *syntax.Tree) error) error {
	src, err := e.read(f)
	if err != nil {
		return err
	}
	return e.viewSource(ctx, f, src, fn)
}

// viewSource is view for content already read from disk.
func (e *Engine) viewSource(ctx context.Context, f sourceFile, src symbol.SourceFile, fn func([]symbol.Record, *syntax.Tree) error) error {
	for attempt := 0; attempt < 2; attempt++ {
		ent, err := e.cache.GetOrCompute(ctx, src, f.desc)
		if err != nil {
			return err
		}
		err = ent.View(func(tree *syntax.Tree) error { return fn(ent.Symbols(), tree) })
		if !errors.Is(err, cache.ErrReleased) {
			return err
		}
		e.logger.WithField("path", f.rel).Debug("cache entry released during view, retrying")
	}

	tree, records, err := cache.ParseFile(ctx, src, f.desc)
	if err != nil {
		return err
	}
	defer tree.Close()
	return fn(records, tree)
}

// span starts a trace span and returns a finish func that records err and
// the query duration.
func (e *Engine) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "query."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		e.metrics.ObserveQuery(op, start)
	}
}
