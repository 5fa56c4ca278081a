package models

import (
	"time"
)

// DefaultChunkSize is the lockstep read size used for content comparison
const DefaultChunkSize = 8192

// Operation describes one comparison run
type Operation struct {
	ID         string
	FirstRoot  string
	SecondRoot string

	// BufferSize is the chunk size for lockstep content reads
	BufferSize int

	// BandwidthLimit caps content reads in bytes per second, 0 = unlimited
	BandwidthLimit int64

	// ReadErrorsAsMismatch records content open/read failures as
	// content mismatches instead of skipping the path
	ReadErrorsAsMismatch bool

	CreatedAt time.Time
}

// Validate checks if the operation configuration is valid
func (op *Operation) Validate() error {
	if op.FirstRoot == "" {
		return &ValidationError{Field: "FirstRoot", Message: "first root path is required"}
	}
	if op.SecondRoot == "" {
		return &ValidationError{Field: "SecondRoot", Message: "second root path is required"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
