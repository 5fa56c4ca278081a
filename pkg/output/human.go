package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/sdejongh/cmptree/pkg/models"
)

// HumanFormatter prints one line per shown record
type HumanFormatter struct {
	writer    io.Writer
	opts      Options
	startTime time.Time

	matchColor *color.Color
	diffColor  *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(writer io.Writer, opts Options) *HumanFormatter {
	if writer == nil {
		writer = io.Discard
	}

	matchColor := color.New(color.FgGreen, color.Bold)
	diffColor := color.New(color.FgRed, color.Bold)
	if opts.Pretty {
		// pretty output was asked for explicitly, so ignore tty detection
		matchColor.EnableColor()
		diffColor.EnableColor()
	}

	return &HumanFormatter{
		writer:     writer,
		opts:       opts,
		matchColor: matchColor,
		diffColor:  diffColor,
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(totalPaths int) error {
	f.startTime = time.Now()
	return nil
}

// Record prints a record when it is visible under the options
func (f *HumanFormatter) Record(record *models.Record) error {
	if !f.opts.Visible(record) {
		return nil
	}

	line := Describe(record)
	if f.opts.Pretty {
		if record.Outcome == models.OutcomeMatch {
			line = f.matchColor.Sprint(line)
		} else {
			line = f.diffColor.Sprint(line)
		}
	}
	_, err := fmt.Fprintln(f.writer, line)
	return err
}

// Complete prints totals when requested and any errors
func (f *HumanFormatter) Complete(report *models.Report) error {
	if report.Status == models.StatusFailed {
		return nil
	}

	if f.opts.Totals {
		totals := Summarize(report.Records)
		fmt.Fprintf(f.writer, "\nAll done!\n")
		fmt.Fprintf(f.writer, "File byte-for-byte matches: %d/%d\n", totals.FileMatches, totals.FileTotal)
		fmt.Fprintf(f.writer, "Directory matches: %d/%d\n", totals.DirMatches, totals.DirTotal)
		fmt.Fprintf(f.writer, "Differences: %d\n", totals.Differences())
		fmt.Fprintf(f.writer, "Compared %s in %s\n",
			humanize.IBytes(uint64(report.Stats.BytesCompared)), report.Duration.Round(time.Millisecond))
	}

	if n := len(report.Errors); n > 0 {
		fmt.Fprintf(f.writer, "\n%d paths could not be compared\n", n)
	}
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	_, werr := fmt.Fprintf(f.writer, "Error: %v\n", err)
	return werr
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// Describe returns the one-line description of a record
func Describe(record *models.Record) string {
	first, second := record.FirstPath, record.SecondPath
	switch record.Outcome {
	case models.OutcomeMatch:
		return fmt.Sprintf("%q == %q", first, second)
	case models.OutcomeContentMismatch:
		return fmt.Sprintf("%q differs from %q", first, second)
	case models.OutcomeTypeMismatch:
		return fmt.Sprintf("%q is not of the same type as %q", first, second)
	case models.OutcomeNeitherExists:
		return fmt.Sprintf("Neither %q nor %q exist", first, second)
	case models.OutcomeOnlyFirstExists:
		return fmt.Sprintf("%q exists, but %q does NOT exist", first, second)
	case models.OutcomeOnlySecondExists:
		return fmt.Sprintf("%q does NOT exist, but %q does exist", first, second)
	default:
		return fmt.Sprintf("%q ? %q (%s)", first, second, record.Outcome)
	}
}
