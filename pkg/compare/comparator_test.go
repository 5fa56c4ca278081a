package compare

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/cmptree/pkg/models"
	"github.com/sdejongh/cmptree/pkg/storage"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t         *testing.T
	tempDir   string
	firstDir  string
	secondDir string
	first     *storage.FS
	second    *storage.FS
}

// NewTestHelper creates a new test helper with two temporary trees
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	firstDir := filepath.Join(tempDir, "first")
	secondDir := filepath.Join(tempDir, "second")

	for _, dir := range []string{firstDir, secondDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create tree root: %v", err)
		}
	}

	first, err := storage.NewLocal(firstDir)
	if err != nil {
		t.Fatalf("failed to create first backend: %v", err)
	}
	second, err := storage.NewLocal(secondDir)
	if err != nil {
		t.Fatalf("failed to create second backend: %v", err)
	}

	return &TestHelper{
		t:         t,
		tempDir:   tempDir,
		firstDir:  firstDir,
		secondDir: secondDir,
		first:     first,
		second:    second,
	}
}

func (h *TestHelper) writeFile(root, name string, content []byte) {
	h.t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

// CreateFirstFile creates a file in the first tree
func (h *TestHelper) CreateFirstFile(name string, content []byte) {
	h.t.Helper()
	h.writeFile(h.firstDir, name, content)
}

// CreateSecondFile creates a file in the second tree
func (h *TestHelper) CreateSecondFile(name string, content []byte) {
	h.t.Helper()
	h.writeFile(h.secondDir, name, content)
}

// CreateFirstDir creates a directory in the first tree
func (h *TestHelper) CreateFirstDir(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.firstDir, filepath.FromSlash(name)), 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

// CreateSecondDir creates a directory in the second tree
func (h *TestHelper) CreateSecondDir(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.secondDir, filepath.FromSlash(name)), 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

// Infos returns lstat metadata for name on both sides
func (h *TestHelper) Infos(name string) (*storage.FileInfo, *storage.FileInfo) {
	h.t.Helper()
	ctx := context.Background()
	firstInfo, err := h.first.Lstat(ctx, name)
	if err != nil {
		h.t.Fatalf("failed to stat first %s: %v", name, err)
	}
	secondInfo, err := h.second.Lstat(ctx, name)
	if err != nil {
		h.t.Fatalf("failed to stat second %s: %v", name, err)
	}
	return firstInfo, secondInfo
}

// openCounter counts Open calls and can make them fail
type openCounter struct {
	storage.Backend
	opens int
	fail  error
}

func (o *openCounter) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	o.opens++
	if o.fail != nil {
		return nil, o.fail
	}
	return o.Backend.Open(ctx, relPath)
}

func TestBinaryComparator(t *testing.T) {
	ctx := context.Background()

	t.Run("IdenticalFiles", func(t *testing.T) {
		h := NewTestHelper(t)
		content := []byte("Hello, World! This is a test file with some content.")
		h.CreateFirstFile("test.txt", content)
		h.CreateSecondFile("test.txt", content)

		comp := NewBinaryComparator(4096)
		firstInfo, secondInfo := h.Infos("test.txt")
		result, err := comp.CompareContent(ctx, h.first, h.second, firstInfo, secondInfo)
		if err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if result.Result != Identical {
			t.Errorf("expected Identical, got %s (%s)", result.Result, result.Reason)
		}
		if result.BytesCompared != int64(len(content)) {
			t.Errorf("BytesCompared = %d, want %d", result.BytesCompared, len(content))
		}
	})

	t.Run("EmptyFiles", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFirstFile("empty", nil)
		h.CreateSecondFile("empty", nil)

		firstInfo, secondInfo := h.Infos("empty")
		result, err := NewBinaryComparator(0).CompareContent(ctx, h.first, h.second, firstInfo, secondInfo)
		if err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if result.Result != Identical {
			t.Errorf("expected Identical, got %s", result.Result)
		}
	})

	t.Run("DifferentSizesNotOpened", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFirstFile("test.txt", []byte("short"))
		h.CreateSecondFile("test.txt", []byte("much longer content"))

		first := &openCounter{Backend: h.first}
		second := &openCounter{Backend: h.second}
		firstInfo, secondInfo := h.Infos("test.txt")

		result, err := NewBinaryComparator(4096).CompareContent(ctx, first, second, firstInfo, secondInfo)
		if err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if result.Result != DifferentLength {
			t.Errorf("expected DifferentLength, got %s", result.Result)
		}
		if result.Opened {
			t.Error("files of different sizes should not be opened")
		}
		if first.opens != 0 || second.opens != 0 {
			t.Errorf("Open called %d/%d times, want 0/0", first.opens, second.opens)
		}
	})

	t.Run("DifferentLastByte", func(t *testing.T) {
		h := NewTestHelper(t)
		a := bytes.Repeat([]byte("x"), 3*models.DefaultChunkSize+17)
		b := append([]byte(nil), a...)
		b[len(b)-1] = 'y'
		h.CreateFirstFile("big.bin", a)
		h.CreateSecondFile("big.bin", b)

		firstInfo, secondInfo := h.Infos("big.bin")
		result, err := NewBinaryComparator(models.DefaultChunkSize).CompareContent(ctx, h.first, h.second, firstInfo, secondInfo)
		if err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if result.Result != DifferentContent {
			t.Fatalf("expected DifferentContent, got %s", result.Result)
		}
		if result.Offset != int64(len(a)-1) {
			t.Errorf("Offset = %d, want %d", result.Offset, len(a)-1)
		}
	})

	t.Run("ChunkBoundaries", func(t *testing.T) {
		const chunk = 1024
		sizes := []int{chunk - 1, chunk, chunk + 1, 2 * chunk, 2*chunk + 1}

		for _, size := range sizes {
			h := NewTestHelper(t)
			content := bytes.Repeat([]byte{0xAB}, size)
			h.CreateFirstFile("f", content)
			h.CreateSecondFile("f", content)

			firstInfo, secondInfo := h.Infos("f")
			result, err := NewBinaryComparator(chunk).CompareContent(ctx, h.first, h.second, firstInfo, secondInfo)
			if err != nil {
				t.Fatalf("size %d: CompareContent failed: %v", size, err)
			}
			if result.Result != Identical {
				t.Errorf("size %d: expected Identical, got %s", size, result.Result)
			}
			if result.BytesCompared != int64(size) {
				t.Errorf("size %d: BytesCompared = %d", size, result.BytesCompared)
			}
		}
	})

	t.Run("DifferenceInFirstChunkStopsEarly", func(t *testing.T) {
		h := NewTestHelper(t)
		a := bytes.Repeat([]byte("a"), 4*1024)
		b := append([]byte("b"), a[1:]...)
		h.CreateFirstFile("f", a)
		h.CreateSecondFile("f", b)

		firstInfo, secondInfo := h.Infos("f")
		result, err := NewBinaryComparator(1024).CompareContent(ctx, h.first, h.second, firstInfo, secondInfo)
		if err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if result.Result != DifferentContent || result.Offset != 0 {
			t.Errorf("got %s at %d, want DifferentContent at 0", result.Result, result.Offset)
		}
		if result.BytesCompared != 1024 {
			t.Errorf("BytesCompared = %d, want one chunk", result.BytesCompared)
		}
	})

	t.Run("OpenError", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFirstFile("f", []byte("same"))
		h.CreateSecondFile("f", []byte("same"))

		second := &openCounter{Backend: h.second, fail: os.ErrPermission}
		firstInfo, secondInfo := h.Infos("f")
		_, err := NewBinaryComparator(4096).CompareContent(ctx, h.first, second, firstInfo, secondInfo)

		var entryErr *models.EntryError
		if !errors.As(err, &entryErr) {
			t.Fatalf("expected *models.EntryError, got %v", err)
		}
		if entryErr.Op != models.OpFileOpen {
			t.Errorf("Op = %s, want %s", entryErr.Op, models.OpFileOpen)
		}
		if entryErr.Path != secondInfo.Path {
			t.Errorf("Path = %s, want %s", entryErr.Path, secondInfo.Path)
		}
	})

	t.Run("ReaderWrapper", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFirstFile("f", []byte("wrapped"))
		h.CreateSecondFile("f", []byte("wrapped"))

		var wrappers []*closeCounter
		comp := NewBinaryComparator(4096)
		comp.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			w := &closeCounter{ReadCloser: rc}
			wrappers = append(wrappers, w)
			return w
		})

		firstInfo, secondInfo := h.Infos("f")
		if _, err := comp.CompareContent(ctx, h.first, h.second, firstInfo, secondInfo); err != nil {
			t.Fatalf("CompareContent failed: %v", err)
		}
		if len(wrappers) != 2 {
			t.Fatalf("wrapper called %d times, want 2", len(wrappers))
		}
		for i, w := range wrappers {
			if w.closed != 1 {
				t.Errorf("wrapped reader %d closed %d times, want 1", i, w.closed)
			}
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateFirstFile("f", []byte("data"))
		h.CreateSecondFile("f", []byte("data"))

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		firstInfo, secondInfo := h.Infos("f")
		_, err := NewBinaryComparator(4096).CompareContent(cctx, h.first, h.second, firstInfo, secondInfo)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Name", func(t *testing.T) {
		comp := NewBinaryComparator(0)
		if comp.Name() != "binary" {
			t.Errorf("Name() = %s, want binary", comp.Name())
		}
		if comp.BufferSize() != models.DefaultChunkSize {
			t.Errorf("BufferSize() = %d, want %d", comp.BufferSize(), models.DefaultChunkSize)
		}
	})
}

func TestReadChunk(t *testing.T) {
	buf := make([]byte, 8)

	n, err := readChunk(strings.NewReader("abc"), buf)
	if err != nil || n != 3 {
		t.Errorf("readChunk(short) = %d, %v; want 3, nil", n, err)
	}

	n, err = readChunk(strings.NewReader(""), buf)
	if err != nil || n != 0 {
		t.Errorf("readChunk(empty) = %d, %v; want 0, nil", n, err)
	}

	// short reads still fill the chunk
	n, err = readChunk(io.LimitReader(oneByteReader{strings.NewReader("0123456789")}, 10), buf)
	if err != nil || n != 8 {
		t.Errorf("readChunk(one byte reads) = %d, %v; want 8, nil", n, err)
	}
}

type oneByteReader struct {
	r io.Reader
}

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}

type closeCounter struct {
	io.ReadCloser
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.ReadCloser.Close()
}
