package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SkippedDirs are directory names never descended into.
var SkippedDirs = []string{
	".git",
	"node_modules",
	"__pycache__",
	".docqa",
	".venv",
	".idea",
	".vscode",
}

// IsSkippedDir checks whether a directory name is one of SkippedDirs.
func IsSkippedDir(name string) bool {
	for _, excl := range SkippedDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// Accept reports whether relPath passes both the include and exclude lists.
// The watcher uses it to filter individual file events.
func Accept(relPath string, include, exclude []string) bool {
	return MatchesInclude(relPath, include) && !MatchesExclude(relPath, exclude)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// A pattern that fails against the full path is retried on the base name.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
