package cache

import (
	"sync"
	"sync/atomic"

	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// Entry is one cached snapshot. The tree and symbols were derived from the
// same bytes. The tree is owned by the entry and only reachable through
// View; it is closed when the entry is evicted or replaced.
type Entry struct {
	key        Key
	lastAccess atomic.Uint64

	mu      sync.RWMutex
	tree    *syntax.Tree
	symbols []symbol.Record
	errors  []symbol.Span
}

func newEntry(key Key, tree *syntax.Tree, records []symbol.Record) *Entry {
	return &Entry{
		key:     key,
		tree:    tree,
		symbols: records,
		errors:  tree.Errors(),
	}
}

// Key returns the snapshot key.
func (e *Entry) Key() Key { return e.key }

// Symbols returns a copy of the extracted records in source order. Records
// stay available after the entry is released.
func (e *Entry) Symbols() []symbol.Record {
	return append([]symbol.Record(nil), e.symbols...)
}

// Errors returns a copy of the parse error spans.
func (e *Entry) Errors() []symbol.Span {
	return append([]symbol.Span(nil), e.errors...)
}

// Partial reports whether the snapshot had syntax errors.
func (e *Entry) Partial() bool { return len(e.errors) > 0 }

// View calls fn with the entry's tree while holding the entry's read lock.
// fn must not keep the tree or any node after it returns. View returns
// ErrReleased if the entry has been released.
func (e *Entry) View(fn func(*syntax.Tree) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.tree == nil {
		return ErrReleased
	}
	return fn(e.tree)
}

// Released reports whether the tree has been closed.
func (e *Entry) Released() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree == nil
}

func (e *Entry) touch(at uint64) {
	e.lastAccess.Store(at)
}

// release closes the tree once all readers are done.
func (e *Entry) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tree != nil {
		e.tree.Close()
		e.tree = nil
	}
}
