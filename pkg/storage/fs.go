package storage

import (
	"context"
	"io"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"

	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/models"
)

// FS is a Backend over a billy filesystem rooted at the tree root
type FS struct {
	fs     billy.Filesystem
	root   string
	logger logging.Logger

	// dirCache remembers whether a relative path is a real (non-link)
	// directory, for the parent checks in Lstat
	dirCache map[string]bool
}

// NewLocal creates a backend for a directory on the local filesystem.
// The root does not have to exist; List reports it as missing.
func NewLocal(rootPath string) (*FS, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve path %s", rootPath)
	}
	return NewFS(osfs.New(absPath), absPath), nil
}

// NewFS creates a backend over any billy filesystem. root is only used to
// build display paths.
func NewFS(fs billy.Filesystem, root string) *FS {
	return &FS{
		fs:       fs,
		root:     root,
		logger:   logging.NewNullLogger(),
		dirCache: map[string]bool{"": true},
	}
}

// SetLogger sets the logger used to report skipped subtrees
func (f *FS) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	f.logger = logger.WithFields(logging.Fields{"root": f.root})
}

// Root returns the root path
func (f *FS) Root() string {
	return f.root
}

// Abs joins a relative path to the root
func (f *FS) Abs(relPath string) string {
	return filepath.Join(f.root, native(relPath))
}

// Lstat returns metadata for relPath without following symbolic links.
// An entry whose parent is not a real directory on this side (for example a
// path below a symlinked directory) is reported as not existing.
func (f *FS) Lstat(ctx context.Context, relPath string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := f.fs.Lstat(native(relPath))
	if err != nil {
		return nil, errors.Wrapf(err, "lstat %s", f.Abs(relPath))
	}

	if relPath != "" {
		parentOK, err := f.isRealDir(PathDir(relPath))
		if err != nil {
			return nil, errors.Wrapf(err, "lstat parent of %s", f.Abs(relPath))
		}
		if !parentOK {
			return nil, errors.Wrapf(syscall.ENOTDIR, "lstat %s", f.Abs(relPath))
		}
	}

	return &FileInfo{
		Path:         f.Abs(relPath),
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Mode:         info.Mode(),
		Kind:         models.KindFromMode(info.Mode()),
	}, nil
}

func (f *FS) isRealDir(relPath string) (bool, error) {
	if ok, cached := f.dirCache[relPath]; cached {
		return ok, nil
	}

	info, err := f.fs.Lstat(native(relPath))
	ok := false
	switch {
	case err == nil:
		ok = info.IsDir()
	case IsNotExist(err):
	default:
		return false, err
	}

	if ok {
		ok, err = f.isRealDir(PathDir(relPath))
		if err != nil {
			return false, err
		}
	}
	f.dirCache[relPath] = ok
	return ok, nil
}

// Open opens a regular file for reading
func (f *FS) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := f.fs.Open(native(relPath))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", f.Abs(relPath))
	}
	return file, nil
}

// Close releases resources (no-op for billy filesystems)
func (f *FS) Close() error {
	return nil
}

var _ Backend = (*FS)(nil)
