package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.BytesPerSecond() != 1024*1024 {
			t.Errorf("BytesPerSecond() = %d, want %d", limiter.BytesPerSecond(), 1024*1024)
		}
		if limiter.Burst() != 1024*1024 {
			t.Errorf("Burst() = %d, want one second of data", limiter.Burst())
		}
	})

	t.Run("Unlimited", func(t *testing.T) {
		for _, bps := range []int64{0, -100} {
			if NewLimiter(bps) != nil {
				t.Errorf("NewLimiter(%d) should return nil", bps)
			}
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.Burst() < minBurst {
			t.Errorf("Burst() = %d, want at least %d", limiter.Burst(), minBurst)
		}
	})
}

func TestNewReader(t *testing.T) {
	src := strings.NewReader("data")

	if got := NewReader(context.Background(), src, nil); got != src {
		t.Error("NewReader with nil limiter should return the original reader")
	}
	if _, ok := NewReader(context.Background(), src, NewLimiter(1024)).(*Reader); !ok {
		t.Error("NewReader should wrap when a limiter is set")
	}
}

func TestReaderRead(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 10000)
	r := NewReader(context.Background(), bytes.NewReader(data), NewLimiter(1024*1024))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("data read through the limiter should be unchanged")
	}
}

func TestReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(ctx, strings.NewReader("data"), NewLimiter(1024))
	buf := make([]byte, 4)
	if _, err := r.Read(buf); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}

func TestRateLimiting(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	const bps = 256 * 1024
	// one burst is free, the remaining half second of data is throttled
	data := make([]byte, bps+bps/2)
	r := NewReader(context.Background(), bytes.NewReader(data), NewLimiter(bps))

	start := time.Now()
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Errorf("read took %v, expected throttling to about 500ms", elapsed)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestReadCloser(t *testing.T) {
	rc := &closeTracker{Reader: strings.NewReader("data")}

	if got := NewReadCloser(context.Background(), rc, nil); got != io.ReadCloser(rc) {
		t.Error("NewReadCloser with nil limiter should return the original")
	}

	wrapped := NewReadCloser(context.Background(), rc, NewLimiter(1024))
	if _, err := io.ReadAll(wrapped); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := wrapped.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !rc.closed {
		t.Error("Close() should close the wrapped reader")
	}
}
