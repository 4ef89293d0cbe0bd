package utils

import "strings"

// nonViewKeywords are identifiers the URL regexes can capture that never name a view
var nonViewKeywords = map[string]bool{
	"include":  true,
	"path":     true,
	"re_path":  true,
	"name":     true,
	"basename": true,
}

// IsNonViewKeyword reports whether a captured URL target is a routing helper or
// keyword argument rather than a view name
func IsNonViewKeyword(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	return nonViewKeywords[trimmed]
}

// IsExcluded reports whether a root-relative path contains any of the exclusion substrings
func IsExcluded(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(relPath, p) {
			return true
		}
	}
	return false
}
