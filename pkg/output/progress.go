package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/cmptree/pkg/models"
)

const progressTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// ProgressFormatter shows a progress bar over the reconciled paths on one
// writer and delegates records to another formatter once the bar is done.
// Records are buffered so bar redraws do not interleave with them.
type ProgressFormatter struct {
	mu sync.Mutex

	barWriter io.Writer
	inner     Formatter
	bar       *pb.ProgressBar

	pending []*models.Record
	errors  []error
}

// NewProgressFormatter wraps inner with a progress bar drawn on barWriter
func NewProgressFormatter(barWriter io.Writer, inner Formatter) *ProgressFormatter {
	if barWriter == nil {
		barWriter = os.Stderr
	}
	return &ProgressFormatter{
		barWriter: barWriter,
		inner:     inner,
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start draws the bar
func (f *ProgressFormatter) Start(totalPaths int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bar = pb.New(totalPaths)
	f.bar.SetWriter(f.barWriter)
	f.bar.SetTemplateString(progressTemplate)
	f.bar.Set("prefix", "Comparing")
	if file, ok := f.barWriter.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.bar.SetMaxWidth(width)
		}
	}
	f.bar.Start()

	return f.inner.Start(totalPaths)
}

// Record advances the bar
func (f *ProgressFormatter) Record(record *models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = append(f.pending, record)
	if f.bar != nil {
		f.bar.Increment()
	}
	return nil
}

// Error advances the bar; errors are replayed after it finishes
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = append(f.errors, err)
	if f.bar != nil && skipsPath(err) {
		f.bar.Increment()
	}
	return nil
}

// skipsPath reports whether err stands for one reconciled path; subtree
// errors happen before the bar starts counting
func skipsPath(err error) bool {
	entryErr, ok := err.(*models.EntryError)
	return !ok || entryErr.Op != models.OpDirectoryRead
}

// Complete finishes the bar and replays buffered output to the inner formatter
func (f *ProgressFormatter) Complete(report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
	}

	for _, err := range f.errors {
		if werr := f.inner.Error(err); werr != nil {
			return werr
		}
	}
	for _, record := range f.pending {
		if err := f.inner.Record(record); err != nil {
			return err
		}
	}
	f.pending = nil
	f.errors = nil

	return f.inner.Complete(report)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress+" + f.inner.Name()
}
