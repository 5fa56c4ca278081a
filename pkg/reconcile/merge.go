package reconcile

import (
	"slices"
)

// ComparePaths orders '/'-separated relative paths component by component,
// so a directory's descendants directly follow it ("a", "a/b", "a.txt").
func ComparePaths(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		switch {
		case a[i] == '/':
			return -1
		case b[i] == '/':
			return 1
		case a[i] < b[i]:
			return -1
		default:
			return 1
		}
	}
	return len(a) - len(b)
}

// Union merges path lists into one sorted list with each path once
func Union(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	paths := make([]string, 0, total)
	for _, l := range lists {
		paths = append(paths, l...)
	}

	slices.SortFunc(paths, ComparePaths)
	return slices.Compact(paths)
}
