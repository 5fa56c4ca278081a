package models

import (
	"io/fs"
)

// EntryKind is the broad category of a filesystem entry
type EntryKind string

const (
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindOther covers symlinks, fifos, devices, sockets and anything else
	KindOther EntryKind = "other"
)

// KindFromMode maps lstat-style mode bits to an entry kind.
// Symbolic links are never resolved, so a link to a directory is KindOther.
func KindFromMode(mode fs.FileMode) EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindOther
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// Ptr returns a pointer to a copy of k, for optional kind fields
func (k EntryKind) Ptr() *EntryKind {
	return &k
}

// String returns the kind name
func (k EntryKind) String() string {
	return string(k)
}
