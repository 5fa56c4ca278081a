package storage

import (
	"context"
	"io"
	"io/fs"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/sdejongh/cmptree/pkg/models"
)

// FileInfo represents lstat metadata about one entry of a tree
type FileInfo struct {
	// Path is the entry's path including the root
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	Mode         fs.FileMode
	Kind         models.EntryKind
}

// Backend is a read-only view of one directory tree
type Backend interface {
	// Root returns the tree's root path
	Root() string

	// Abs joins a '/'-separated relative path to the root
	Abs(relPath string) string

	// List enumerates every entry below the root
	List(ctx context.Context) (*Listing, error)

	// Lstat returns metadata without following symbolic links. A missing
	// entry yields an error for which IsNotExist is true.
	Lstat(ctx context.Context, relPath string) (*FileInfo, error)

	// Open opens a regular file for reading
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)

	// Close releases any resources held by the backend
	Close() error
}

// IsNotExist reports whether err means the entry is absent. ENOTDIR counts:
// "b/x" does not exist when "b" is a regular file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
