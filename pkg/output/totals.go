package output

import (
	"github.com/sdejongh/cmptree/pkg/models"
)

// Totals are match counters derived from a record sequence
type Totals struct {
	// FileMatches counts records where both sides are regular files that match
	FileMatches int
	// FileTotal counts records where at least one side is a regular file
	FileTotal int

	DirMatches int
	DirTotal   int

	// ByOutcome counts records per outcome
	ByOutcome map[models.Outcome]int
}

// Summarize folds records into Totals
func Summarize(records []*models.Record) Totals {
	t := Totals{ByOutcome: make(map[models.Outcome]int)}
	for _, rec := range records {
		t.Add(rec)
	}
	return t
}

// Add counts one record
func (t *Totals) Add(rec *models.Record) {
	if t.ByOutcome == nil {
		t.ByOutcome = make(map[models.Outcome]int)
	}
	t.ByOutcome[rec.Outcome]++

	match := rec.Outcome == models.OutcomeMatch
	if rec.EitherIs(models.KindFile) {
		t.FileTotal++
		if match {
			t.FileMatches++
		}
	}
	if rec.EitherIs(models.KindDirectory) {
		t.DirTotal++
		if match {
			t.DirMatches++
		}
	}
}

// Differences returns the number of non-matching records
func (t Totals) Differences() int {
	n := 0
	for outcome, count := range t.ByOutcome {
		if outcome.IsDifference() {
			n += count
		}
	}
	return n
}
