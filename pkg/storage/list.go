package storage

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/models"
)

// Listing is the enumeration of one tree
type Listing struct {
	Root string

	// Paths holds every relative path found, in no particular order
	Paths []string

	// Errors holds subdirectories that could not be read; their contents
	// are absent from Paths
	Errors []*models.EntryError

	// Missing is set when the root does not exist
	Missing bool

	Dirs   int
	Files  int
	Others int
}

// List enumerates every entry below the root: directories (as entries of
// their own), regular files and everything else, hidden entries included.
// Symbolic links are listed but never followed. An unreadable subdirectory is
// recorded in Listing.Errors and skipped. A missing root yields an empty
// listing; a root that is not a readable directory is an OpRootAccess error.
func (f *FS) List(ctx context.Context) (*Listing, error) {
	listing := &Listing{Root: f.root}

	// the root itself may be a symlink to a directory
	info, err := f.fs.Stat("")
	if err != nil {
		if IsNotExist(err) {
			f.logger.Warn(ctx, "Root does not exist", nil)
			listing.Missing = true
			return listing, nil
		}
		return nil, models.NewEntryError(models.OpRootAccess, f.root, err)
	}
	if !info.IsDir() {
		return nil, models.NewEntryError(models.OpRootAccess, f.root, errors.New("not a directory"))
	}

	entries, err := f.fs.ReadDir("")
	if err != nil {
		return nil, models.NewEntryError(models.OpRootAccess, f.root, err)
	}

	f.logger.Debug(ctx, "Enumerating tree", nil)
	if err := f.walk(ctx, "", entries, listing); err != nil {
		return nil, err
	}

	f.logger.Info(ctx, "Enumeration complete", logging.Fields{
		"entries": len(listing.Paths),
		"dirs":    listing.Dirs,
		"files":   listing.Files,
		"others":  listing.Others,
		"skipped": len(listing.Errors),
	})
	return listing, nil
}

func (f *FS) walk(ctx context.Context, dir string, entries []os.FileInfo, listing *Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, entry := range entries {
		relPath := PathJoin(dir, entry.Name())
		listing.Paths = append(listing.Paths, relPath)

		switch models.KindFromMode(entry.Mode()) {
		case models.KindFile:
			listing.Files++
			continue
		case models.KindOther:
			listing.Others++
			continue
		}

		listing.Dirs++
		f.dirCache[relPath] = true

		children, err := f.fs.ReadDir(native(relPath))
		if err != nil {
			entryErr := models.NewEntryError(models.OpDirectoryRead, f.Abs(relPath), err)
			listing.Errors = append(listing.Errors, entryErr)
			f.logger.Warn(ctx, "Skipping unreadable directory", logging.Fields{
				"path":  relPath,
				"error": err.Error(),
			})
			continue
		}

		if err := f.walk(ctx, relPath, children, listing); err != nil {
			return err
		}
	}
	return nil
}
