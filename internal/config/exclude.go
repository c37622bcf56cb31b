package config

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Matcher decides which directories and files a scope walk skips. A nil
// *Matcher skips nothing.
type Matcher struct {
	dirs  []glob.Glob
	files []glob.Glob
}

// ExcludeMatcher compiles ExcludeDirs and ExcludeGlobs. Directory patterns
// match a directory's base name. File patterns match either the base name or
// the slash-separated path relative to the root, so "*.pb.go" and
// "gen/**" both work.
func (c *Config) ExcludeMatcher() (*Matcher, error) {
	return NewMatcher(c.ExcludeDirs, c.ExcludeGlobs)
}

// NewMatcher compiles directory and file exclusion patterns.
func NewMatcher(dirPatterns, filePatterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range dirPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("excludeDirs %q: %w", pattern, err)
		}
		m.dirs = append(m.dirs, g)
	}
	for _, pattern := range filePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("excludeGlobs %q: %w", pattern, err)
		}
		m.files = append(m.files, g)
	}
	return m, nil
}

// SkipDir reports whether the directory at rel (relative to the root) is
// excluded.
func (m *Matcher) SkipDir(rel string) bool {
	if m == nil {
		return false
	}
	base := filepath.Base(rel)
	for _, g := range m.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// SkipFile reports whether the file at rel (relative to the root) is
// excluded.
func (m *Matcher) SkipFile(rel string) bool {
	if m == nil {
		return false
	}
	slashed := filepath.ToSlash(rel)
	base := path.Base(slashed)
	for _, g := range m.files {
		if g.Match(base) || g.Match(slashed) {
			return true
		}
	}
	return false
}
