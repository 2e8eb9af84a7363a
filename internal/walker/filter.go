package walker

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into, on top of hidden directories.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"__macosx":     true,
}

// skipDir reports whether a directory below the root is left out of the
// walk: hidden directories (.git, .svn, editor state) and skippedDirs.
func skipDir(name string) bool {
	if len(name) > 1 && name[0] == '.' {
		return true
	}
	return skippedDirs[strings.ToLower(name)]
}

// ValidatePatterns returns an error naming the first malformed glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// MatchesInclude reports whether relPath matches one of patterns. An empty
// pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	return len(patterns) == 0 || matchesAny(relPath, patterns)
}

// MatchesExclude reports whether relPath matches one of patterns. An empty
// pattern list excludes nothing.
func MatchesExclude(relPath string, patterns []string) bool {
	return len(patterns) > 0 && matchesAny(relPath, patterns)
}

// matchesAny tries each pattern against the slash path and, for patterns
// without a separator, against the base name, so "index.html" matches at
// any depth.
func matchesAny(relPath string, patterns []string) bool {
	p := filepath.ToSlash(relPath)
	base := path.Base(p)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
