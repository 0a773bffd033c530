package query

import (
	"slices"
	"strings"
	"time"
)

// containsFold reports whether substr occurs in s, ignoring case. An empty
// substr matches everything.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// matchAny reports whether q occurs in any of fields, ignoring case
func matchAny(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, q) {
			return true
		}
	}
	return false
}

// compareIDs orders "2" before "10" and "PRD002" before "PRD010"
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// sortByCreation orders items oldest first, falling back to id order
func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := ta.Compare(tb); c != 0 {
			return c
		}
		return compareIDs(ia, ib)
	})
}
