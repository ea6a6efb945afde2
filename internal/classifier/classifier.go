// Package classifier decides whether a path inside an archive is bloat.
//
// The same Set is used when scanning and when repairing, so what gets
// reported as infected is exactly what gets left out of a cleaned archive.
package classifier

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrNoPatterns = errors.New("пустой список шаблонов исключений")

type Shape int

const (
	ShapeSubstring Shape = iota
	ShapeDirectory
	ShapeSuffix
)

// ShapeOf reports how a pattern is interpreted:
// "name/" matches a directory segment, "*.ext" matches a suffix,
// anything else matches as a substring.
func ShapeOf(pattern string) Shape {
	switch {
	case strings.HasSuffix(pattern, "/"):
		return ShapeDirectory
	case strings.HasPrefix(pattern, "*."):
		return ShapeSuffix
	default:
		return ShapeSubstring
	}
}

// Matches reports whether relPath is matched by a single pattern.
func Matches(relPath, pattern string) bool {
	p := filepath.ToSlash(relPath)

	switch ShapeOf(pattern) {
	case ShapeDirectory:
		dir := strings.Trim(pattern, "/")
		if dir == "" {
			return false
		}
		return strings.Contains("/"+strings.Trim(p, "/")+"/", "/"+dir+"/")
	case ShapeSuffix:
		return strings.HasSuffix(p, pattern[1:])
	default:
		return pattern != "" && strings.Contains(p, pattern)
	}
}

// Classify is true when any pattern matches. Order does not matter.
func Classify(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if Matches(relPath, pattern) {
			return true
		}
	}
	return false
}

// Set is an immutable, non-empty pattern list.
type Set struct {
	patterns []string
}

func New(patterns []string) (*Set, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoPatterns
	}
	return &Set{patterns: cleaned}, nil
}

func (s *Set) Match(relPath string) bool {
	return Classify(relPath, s.patterns)
}

// Filter returns the subset of paths matched by the set, keeping input order.
func (s *Set) Filter(paths []string) []string {
	matched := make([]string, 0)
	for _, p := range paths {
		if s.Match(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Patterns returns a copy of the configured patterns.
func (s *Set) Patterns() []string {
	out := make([]string, len(s.patterns))
	copy(out, s.patterns)
	return out
}
