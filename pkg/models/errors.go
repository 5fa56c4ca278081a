package models

import (
	"errors"
	"fmt"
)

// ErrorOp identifies the step that failed while comparing trees
type ErrorOp string

const (
	// OpRootAccess is a failure to read a root's top level; fatal for the run
	OpRootAccess ErrorOp = "root_access"
	// OpDirectoryRead is a failure to list a subdirectory; the subtree is skipped
	OpDirectoryRead ErrorOp = "directory_read"
	// OpMetadata is a failure to stat an entry; the record is skipped
	OpMetadata ErrorOp = "metadata"
	// OpFileOpen is a failure to open a regular file for content comparison
	OpFileOpen ErrorOp = "file_open"
	// OpFileRead is a failure while reading a regular file's content
	OpFileRead ErrorOp = "file_read"
)

// EntryError is a failure tied to one path of one tree
type EntryError struct {
	Path string
	Op   ErrorOp
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// NewEntryError creates an EntryError
func NewEntryError(op ErrorOp, path string, err error) *EntryError {
	return &EntryError{Path: path, Op: op, Err: err}
}

// IsContentError reports whether err stems from opening or reading file content
func IsContentError(err error) bool {
	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		return false
	}
	return entryErr.Op == OpFileOpen || entryErr.Op == OpFileRead
}
