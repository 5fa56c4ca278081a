package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/cmptree/pkg/models"
	"github.com/sdejongh/cmptree/pkg/storage"
)

// BinaryComparator compares regular files byte-by-byte, reading both in
// lockstep chunks. Memory use is two chunk buffers regardless of file size.
type BinaryComparator struct {
	bufferSize    int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
}

// NewBinaryComparator creates a comparator reading chunks of bufferSize
// bytes (models.DefaultChunkSize when bufferSize <= 0).
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize <= 0 {
		bufferSize = models.DefaultChunkSize
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// BufferSize returns the chunk size
func (c *BinaryComparator) BufferSize() int {
	return c.bufferSize
}

func (c *BinaryComparator) open(ctx context.Context, backend storage.Backend, info *storage.FileInfo) (io.ReadCloser, error) {
	rc, err := backend.Open(ctx, info.RelativePath)
	if err != nil {
		return nil, models.NewEntryError(models.OpFileOpen, info.Path, err)
	}
	if c.readerWrapper != nil {
		rc = c.readerWrapper(rc)
	}
	return rc, nil
}

// CompareContent compares two regular files. Sizes are checked first and a
// size difference is reported without opening either file.
func (c *BinaryComparator) CompareContent(ctx context.Context, first, second storage.Backend, firstInfo, secondInfo *storage.FileInfo) (*ContentComparison, error) {
	if firstInfo.Size != secondInfo.Size {
		return &ContentComparison{
			Result: DifferentLength,
			Offset: -1,
			Reason: fmt.Sprintf("size mismatch: %s vs %s",
				humanize.IBytes(uint64(firstInfo.Size)), humanize.IBytes(uint64(secondInfo.Size))),
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	firstSrc, err := c.open(ctx, first, firstInfo)
	if err != nil {
		return nil, err
	}
	defer firstSrc.Close()

	secondSrc, err := c.open(ctx, second, secondInfo)
	if err != nil {
		return nil, err
	}
	defer secondSrc.Close()

	firstBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(firstBufPtr)
	firstBuf := *firstBufPtr

	secondBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(secondBufPtr)
	secondBuf := *secondBufPtr

	var compared int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		firstN, err := readChunk(firstSrc, firstBuf)
		if err != nil {
			return nil, models.NewEntryError(models.OpFileRead, firstInfo.Path, err)
		}
		secondN, err := readChunk(secondSrc, secondBuf)
		if err != nil {
			return nil, models.NewEntryError(models.OpFileRead, secondInfo.Path, err)
		}

		// one file ended first (it changed size after the metadata check)
		if firstN != secondN {
			return &ContentComparison{
				Result:        DifferentLength,
				Offset:        -1,
				BytesCompared: compared,
				Opened:        true,
				Reason: fmt.Sprintf("length differs after %d bytes: read %d vs %d",
					compared, firstN, secondN),
			}, nil
		}

		if firstN == 0 {
			return &ContentComparison{
				Result:        Identical,
				Offset:        -1,
				BytesCompared: compared,
				Opened:        true,
				Reason:        fmt.Sprintf("binary content matches (%s)", humanize.IBytes(uint64(compared))),
			}, nil
		}

		if !bytes.Equal(firstBuf[:firstN], secondBuf[:secondN]) {
			offset := compared + int64(firstDifference(firstBuf[:firstN], secondBuf[:secondN]))
			return &ContentComparison{
				Result:        DifferentContent,
				Offset:        offset,
				BytesCompared: compared + int64(firstN),
				Opened:        true,
				Reason:        fmt.Sprintf("content differs at byte offset %d", offset),
			}, nil
		}

		compared += int64(firstN)
	}
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

// readChunk fills buf unless end of file comes first. The returned count is
// the realized length; it is short only at end of file.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

func firstDifference(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}
