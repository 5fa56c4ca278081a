package compare

import (
	"context"
	"io"

	"github.com/sdejongh/cmptree/pkg/storage"
)

// ContentResult represents the outcome of comparing two regular files
type ContentResult string

const (
	// Identical indicates the files are byte-for-byte equal
	Identical ContentResult = "identical"
	// DifferentLength indicates one file ends before the other
	DifferentLength ContentResult = "different_length"
	// DifferentContent indicates same-length files with different bytes
	DifferentContent ContentResult = "different_content"
)

// ContentComparison holds the result of comparing two regular files
type ContentComparison struct {
	Result ContentResult

	// Offset is the first differing byte for DifferentContent, -1 otherwise
	Offset int64

	// BytesCompared counts bytes read from each file
	BytesCompared int64

	// Opened is false when the files were told apart from metadata alone
	Opened bool

	Reason string
}

// ReaderWrapper wraps an opened file, e.g. for rate limiting. Closing the
// returned reader must close the file.
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// ContentComparator decides whether two regular files have equal content.
// It fails only on I/O errors, returned as *models.EntryError with
// OpFileOpen or OpFileRead.
type ContentComparator interface {
	CompareContent(ctx context.Context, first, second storage.Backend, firstInfo, secondInfo *storage.FileInfo) (*ContentComparison, error)

	// Name returns the name of the comparison method
	Name() string
}
