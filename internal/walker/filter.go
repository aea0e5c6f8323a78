package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names skipped during traversal.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".thesisweb",
	"public",
	"dist",
	".next",
	".idea",
	".vscode",
}

// shouldExcludeDir checks whether a directory name matches any default
// exclusion pattern. This is used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// isHidden reports dotfiles such as .DS_Store or editor swap files.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
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

// matchesAny checks relPath, and its base name, against doublestar globs.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory with the given base name is left out
// of traversal and watching.
func SkipDir(name string) bool {
	return isHidden(name) || shouldExcludeDir(name)
}
