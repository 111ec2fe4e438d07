package harness

import (
	"regexp"
	"strings"
)

// matches evaluates expr against path: as a regular expression when it
// compiles, as a plain substring otherwise.
func matches(expr, path string) bool {
	re, err := regexp.Compile(expr)
	if err != nil {
		return strings.Contains(path, expr)
	}
	return re.MatchString(path)
}

// shouldSkip decides whether a case at the given dot-joined path runs.
// Skip is a deny-list evaluated first; filter is an allow-list applied
// only when no skip matched.
func shouldSkip(path, skip, filter string) bool {
	if skip != "" && matches(skip, path) {
		return true
	}
	if filter != "" && !matches(filter, path) {
		return true
	}
	return false
}
