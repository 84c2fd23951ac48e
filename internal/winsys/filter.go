package winsys

import "strings"

// matchesFilter implements the List filter: case-insensitive substring
// match on title or class. Untitled windows are skipped so the listing
// stays readable; they are never discovery candidates anyway.
func matchesFilter(info WindowInfo, filter string) bool {
	if info.Title == "" {
		return false
	}
	if filter == "" {
		return true
	}
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(info.Title), f) ||
		strings.Contains(strings.ToLower(info.Class), f)
}
