// Package cache holds parsed syntax trees and their extracted symbols keyed
// by (path, fingerprint). Concurrent requests for the same snapshot share one
// parse, and the least recently used entries are released when the cache is
// over capacity.
package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"github.com/dusk-indust/codenav/internal/extract"
	"github.com/dusk-indust/codenav/internal/lang"
	"github.com/dusk-indust/codenav/internal/logging"
	"github.com/dusk-indust/codenav/internal/metrics"
	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// ErrReleased is returned by Entry.View when the entry was evicted or
// replaced after it was looked up. Callers should look the file up again.
var ErrReleased = errors.New("cache entry released")

const (
	DefaultMaxEntries = 256
	DefaultShards     = 16
)

// ParseFunc produces the tree and symbols for one snapshot. It must not
// retain file.Content beyond the returned tree.
type ParseFunc func(ctx context.Context, file symbol.SourceFile, desc *lang.Descriptor) (*syntax.Tree, []symbol.Record, error)

// ParseFile is the default ParseFunc: syntax.Parse followed by
// extract.Extract.
func ParseFile(_ context.Context, file symbol.SourceFile, desc *lang.Descriptor) (*syntax.Tree, []symbol.Record, error) {
	tree, err := syntax.Parse(file.Content, desc)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	records, err := extract.Extract(tree, desc, file.Path)
	if err != nil {
		tree.Close()
		return nil, nil, err
	}
	return tree, records, nil
}

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	MaxEntries int
	Shards     int
	Parse      ParseFunc
	Logger     *logrus.Logger
	Metrics    *metrics.Collectors
}

// Key identifies one file snapshot.
type Key struct {
	Path        string
	Fingerprint symbol.Fingerprint
}

func (k Key) flightKey() string {
	return k.Path + "\x00" + string(k.Fingerprint)
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits         uint64 `json:"hits"`
	Misses       uint64 `json:"misses"`
	Fills        uint64 `json:"fills"`
	Evictions    uint64 `json:"evictions"`
	Replacements uint64 `json:"replacements"`
	Entries      int    `json:"entries"`
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// Cache is safe for concurrent use.
type Cache struct {
	shards     []*shard
	maxEntries int
	parse      ParseFunc
	logger     *logrus.Logger
	metrics    *metrics.Collectors

	group singleflight.Group
	clock atomic.Uint64
	count atomic.Int64

	hits, misses, fills, evictions, replacements atomic.Uint64
}

// New creates an empty cache.
func New(opts Options) *Cache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Shards <= 0 {
		opts.Shards = DefaultShards
	}
	if opts.Parse == nil {
		opts.Parse = ParseFile
	}

	c := &Cache{
		shards:     make([]*shard, opts.Shards),
		maxEntries: opts.MaxEntries,
		parse:      opts.Parse,
		logger:     logging.OrDiscard(opts.Logger),
		metrics:    opts.Metrics,
	}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[string]*Entry)}
	}
	return c
}

// GetOrCompute returns the entry for file, parsing it on a miss. Concurrent
// callers for the same snapshot share one parse. If ctx is cancelled while
// waiting, ctx.Err() is returned but the parse still completes and populates
// the cache for later callers. Parse failures are returned and not cached.
func (c *Cache) GetOrCompute(ctx context.Context, file symbol.SourceFile, desc *lang.Descriptor) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := Key{Path: file.Path, Fingerprint: file.Fingerprint}
	if e := c.lookup(key); e != nil {
		c.hits.Add(1)
		c.metrics.Hit()
		return e, nil
	}
	c.misses.Add(1)
	c.metrics.Miss()

	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.flightKey(), func() (any, error) {
		// A previous flight may have finished between our lookup and now.
		if e := c.lookup(key); e != nil {
			return e, nil
		}
		return c.fill(fillCtx, file, desc, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

func (c *Cache) fill(ctx context.Context, file symbol.SourceFile, desc *lang.Descriptor, key Key) (*Entry, error) {
	log := c.logger.WithFields(logrus.Fields{
		"path":        key.Path,
		"fingerprint": key.Fingerprint,
	})

	start := time.Now()
	tree, records, err := c.parse(ctx, file, desc)
	c.metrics.ObserveParse(string(desc.Language()), start)
	if err != nil {
		log.WithError(err).Debug("cache fill failed")
		return nil, err
	}
	c.fills.Add(1)

	e := newEntry(key, tree, records)
	e.touch(c.clock.Add(1))
	c.insert(e)
	log.WithFields(logrus.Fields{
		"symbols": len(records),
		"errors":  len(e.errors),
	}).Debug("cache fill")

	c.evict()
	return e, nil
}

func (c *Cache) shardFor(path string) *shard {
	return c.shards[xxh3.HashString(path)%uint64(len(c.shards))]
}

// lookup returns the live entry for key and marks it as most recently used.
func (c *Cache) lookup(key Key) *Entry {
	s := c.shardFor(key.Path)
	s.mu.RLock()
	e, ok := s.entries[key.Path]
	s.mu.RUnlock()
	if !ok || e.key != key {
		return nil
	}
	e.touch(c.clock.Add(1))
	return e
}

// insert stores e, releasing any stale entry held for the same path.
func (c *Cache) insert(e *Entry) {
	s := c.shardFor(e.key.Path)
	s.mu.Lock()
	old := s.entries[e.key.Path]
	s.entries[e.key.Path] = e
	s.mu.Unlock()

	if old != nil {
		old.release()
		c.replacements.Add(1)
		c.logger.WithFields(logrus.Fields{
			"path":        old.key.Path,
			"fingerprint": old.key.Fingerprint,
		}).Debug("cache entry replaced")
	} else {
		c.count.Add(1)
	}
	c.metrics.SetEntries(c.Len())
}

// evict releases least recently used entries until the cache is within
// bounds. Shards are scanned one at a time; no lock is held across shards.
func (c *Cache) evict() {
	for c.count.Load() > int64(c.maxEntries) {
		victim := c.oldest()
		if victim == nil {
			return
		}
		if !c.remove(victim) {
			// Replaced or removed concurrently; rescan.
			continue
		}
		c.evictions.Add(1)
		c.metrics.Evicted(1)
		c.logger.WithFields(logrus.Fields{
			"path":        victim.key.Path,
			"last_access": victim.lastAccess.Load(),
		}).Debug("cache entry evicted")
	}
}

func (c *Cache) oldest() *Entry {
	var victim *Entry
	oldestAt := uint64(math.MaxUint64)
	for _, s := range c.shards {
		s.mu.RLock()
		for _, e := range s.entries {
			if at := e.lastAccess.Load(); at < oldestAt {
				oldestAt, victim = at, e
			}
		}
		s.mu.RUnlock()
	}
	return victim
}

// remove drops e if it is still the entry held for its path.
func (c *Cache) remove(e *Entry) bool {
	s := c.shardFor(e.key.Path)
	s.mu.Lock()
	if s.entries[e.key.Path] != e {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, e.key.Path)
	s.mu.Unlock()

	c.count.Add(-1)
	e.release()
	c.metrics.SetEntries(c.Len())
	return true
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) bool {
	s := c.shardFor(path)
	s.mu.RLock()
	e, ok := s.entries[path]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return c.remove(e)
}

// Purge drops every entry. Subsequent lookups reparse.
func (c *Cache) Purge() {
	for _, s := range c.shards {
		s.mu.Lock()
		dropped := s.entries
		s.entries = make(map[string]*Entry)
		s.mu.Unlock()

		for _, e := range dropped {
			c.count.Add(-1)
			e.release()
		}
	}
	c.metrics.SetEntries(c.Len())
	c.logger.Debug("cache purged")
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return int(c.count.Load())
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Fills:        c.fills.Load(),
		Evictions:    c.evictions.Load(),
		Replacements: c.replacements.Load(),
		Entries:      c.Len(),
	}
}
