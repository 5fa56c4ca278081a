package storage

import (
	"path/filepath"
	"strings"
)

// Relative paths are '/'-separated and never start with the root. The empty
// string is the root itself.

// PathJoin appends a leaf name to a relative path
func PathJoin(base, leaf string) string {
	if base == "" {
		return leaf
	}
	return base + "/" + leaf
}

// PathDir returns the parent of a relative path, "" for top-level entries
func PathDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i == -1 {
		return ""
	}
	return path[:i]
}

func native(relPath string) string {
	return filepath.FromSlash(relPath)
}
