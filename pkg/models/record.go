package models

// Outcome is the result of comparing the entries found at one relative path
type Outcome string

const (
	// OutcomeMatch indicates both entries exist, have the same kind and
	// equivalent content (or a kind that needs no content check)
	OutcomeMatch Outcome = "match"
	// OutcomeTypeMismatch indicates both entries exist with different kinds
	OutcomeTypeMismatch Outcome = "type_mismatch"
	// OutcomeContentMismatch indicates two regular files whose bytes differ
	OutcomeContentMismatch Outcome = "content_mismatch"
	// OutcomeNeitherExists indicates neither entry exists
	OutcomeNeitherExists Outcome = "neither_exists"
	// OutcomeOnlyFirstExists indicates the entry exists in the first tree only
	OutcomeOnlyFirstExists Outcome = "only_first_exists"
	// OutcomeOnlySecondExists indicates the entry exists in the second tree only
	OutcomeOnlySecondExists Outcome = "only_second_exists"
)

// Outcomes lists every outcome in reporting order
var Outcomes = []Outcome{
	OutcomeTypeMismatch,
	OutcomeContentMismatch,
	OutcomeOnlyFirstExists,
	OutcomeOnlySecondExists,
	OutcomeNeitherExists,
	OutcomeMatch,
}

// IsDifference reports whether the outcome means the trees disagree
func (o Outcome) IsDifference() bool {
	return o != OutcomeMatch
}

// Record is the comparison result for a single relative path.
// It is created once during reconciliation and never modified.
type Record struct {
	// RelativePath is the reconciliation key, '/'-separated
	RelativePath string `json:"relative_path"`

	// FirstPath and SecondPath are the relative path joined to each root
	FirstPath  string `json:"first_path"`
	SecondPath string `json:"second_path"`

	Outcome Outcome `json:"outcome"`

	// FirstKind and SecondKind are nil exactly when that side does not exist
	FirstKind  *EntryKind `json:"first_kind,omitempty"`
	SecondKind *EntryKind `json:"second_kind,omitempty"`

	// Reason is a human-readable detail, informational only
	Reason string `json:"reason,omitempty"`
}

// FirstExists reports whether the entry exists in the first tree
func (r *Record) FirstExists() bool {
	return r.FirstKind != nil
}

// SecondExists reports whether the entry exists in the second tree
func (r *Record) SecondExists() bool {
	return r.SecondKind != nil
}

// EitherIs reports whether at least one side is an entry of kind k
func (r *Record) EitherIs(k EntryKind) bool {
	return (r.FirstKind != nil && *r.FirstKind == k) ||
		(r.SecondKind != nil && *r.SecondKind == k)
}
