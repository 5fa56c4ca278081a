package output

import (
	"github.com/sdejongh/cmptree/pkg/models"
)

// Formatter defines the interface for output formatting.
// Implementations include human-readable, JSON and progress bar formatters.
type Formatter interface {
	// Start is called once the path union is known
	Start(totalPaths int) error

	// Record reports one classified path, in reconciliation order
	Record(record *models.Record) error

	// Error reports a path or subtree that could not be compared
	Error(err error) error

	// Complete finalizes output and displays the summary. It is also called
	// when the run fails, with report.Status set to StatusFailed.
	Complete(report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// Options controls which records are shown and how
type Options struct {
	// ShowMatches prints Match records too; differences are always shown
	ShowMatches bool

	// Pretty colors matches green and differences red
	Pretty bool

	// Totals prints file and directory match counters at the end
	Totals bool
}

// Visible reports whether a record should be printed under opts
func (o Options) Visible(record *models.Record) bool {
	return o.ShowMatches || record.Outcome.IsDifference()
}
