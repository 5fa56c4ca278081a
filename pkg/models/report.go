package models

import (
	"time"
)

// Report represents the results of one comparison run
type Report struct {
	// Operation details
	OperationID string
	FirstRoot   string
	SecondRoot  string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Records in reconciliation order, one per unique relative path
	Records []*Record

	// Errors encountered; each one skipped a subtree or a record
	Errors []*EntryError

	Stats Statistics

	Status Status
}

// Statistics holds run metrics
type Statistics struct {
	// Entries enumerated per side
	FirstEntries  int
	SecondEntries int

	// FirstMissing and SecondMissing are set when a root does not exist
	FirstMissing  bool
	SecondMissing bool

	// UniquePaths is the size of the reconciled path union
	UniquePaths int

	// Regular file pairs whose content was read
	FilesContentCompared int

	// BytesCompared counts bytes read from the first tree during content comparison
	BytesCompared int64
}

// Status represents the overall result
type Status string

const (
	// StatusIdentical indicates every path matched and nothing failed
	StatusIdentical Status = "identical"
	// StatusDifferent indicates at least one path did not match
	StatusDifferent Status = "different"
	// StatusPartial indicates some paths could not be compared
	StatusPartial Status = "partial"
	// StatusFailed indicates the run could not complete
	StatusFailed Status = "failed"
)

// Differences returns the number of records that are not matches
func (r *Report) Differences() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome.IsDifference() {
			n++
		}
	}
	return n
}

// ResolveStatus derives the status from the records and errors collected
func (r *Report) ResolveStatus() Status {
	switch {
	case len(r.Errors) > 0:
		r.Status = StatusPartial
	case r.Differences() > 0:
		r.Status = StatusDifferent
	default:
		r.Status = StatusIdentical
	}
	return r.Status
}

// ExitCode returns the process exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusIdentical:
		return 0
	case StatusDifferent:
		return 1
	case StatusPartial:
		return 2
	default:
		return 3
	}
}
