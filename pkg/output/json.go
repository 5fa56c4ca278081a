package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/cmptree/pkg/models"
)

// JSONFormatter writes one JSON document for the whole run, for automation
// and scripting
type JSONFormatter struct {
	writer     io.Writer
	opts       Options
	totalPaths int
	records    []*models.Record
	errors     []JSONErrorData
}

// JSONReportData is the document written by JSONFormatter
type JSONReportData struct {
	OperationID string           `json:"operation_id"`
	FirstRoot   string           `json:"first_root"`
	SecondRoot  string           `json:"second_root"`
	Status      string           `json:"status"`
	ExitCode    int              `json:"exit_code"`
	Duration    string           `json:"duration"`
	DurationMs  int64            `json:"duration_ms"`
	Stats       JSONStatsData    `json:"stats"`
	Totals      JSONTotalsData   `json:"totals"`
	Records     []*models.Record `json:"records"`
	Errors      []JSONErrorData  `json:"errors,omitempty"`
}

// JSONStatsData represents enumeration statistics
type JSONStatsData struct {
	FirstEntries         int   `json:"first_entries"`
	SecondEntries        int   `json:"second_entries"`
	FirstMissing         bool  `json:"first_missing,omitempty"`
	SecondMissing        bool  `json:"second_missing,omitempty"`
	UniquePaths          int   `json:"unique_paths"`
	FilesContentCompared int   `json:"files_content_compared"`
	BytesCompared        int64 `json:"bytes_compared"`
}

// JSONTotalsData represents match counters
type JSONTotalsData struct {
	FileMatches int            `json:"file_matches"`
	FileTotal   int            `json:"file_total"`
	DirMatches  int            `json:"dir_matches"`
	DirTotal    int            `json:"dir_total"`
	ByOutcome   map[string]int `json:"by_outcome"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path,omitempty"`
	Op    string `json:"op,omitempty"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer, opts Options) *JSONFormatter {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONFormatter{
		writer:  writer,
		opts:    opts,
		records: make([]*models.Record, 0),
	}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(totalPaths int) error {
	f.totalPaths = totalPaths
	return nil
}

// Record collects a record when it is visible under the options
func (f *JSONFormatter) Record(record *models.Record) error {
	if f.opts.Visible(record) {
		f.records = append(f.records, record)
	}
	return nil
}

// Error collects an error
func (f *JSONFormatter) Error(err error) error {
	f.errors = append(f.errors, errorData(err))
	return nil
}

// Complete writes the JSON document
func (f *JSONFormatter) Complete(report *models.Report) error {
	totals := Summarize(report.Records)
	byOutcome := make(map[string]int, len(totals.ByOutcome))
	for outcome, n := range totals.ByOutcome {
		byOutcome[string(outcome)] = n
	}

	data := JSONReportData{
		OperationID: report.OperationID,
		FirstRoot:   report.FirstRoot,
		SecondRoot:  report.SecondRoot,
		Status:      string(report.Status),
		ExitCode:    report.Status.ExitCode(),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FirstEntries:         report.Stats.FirstEntries,
			SecondEntries:        report.Stats.SecondEntries,
			FirstMissing:         report.Stats.FirstMissing,
			SecondMissing:        report.Stats.SecondMissing,
			UniquePaths:          report.Stats.UniquePaths,
			FilesContentCompared: report.Stats.FilesContentCompared,
			BytesCompared:        report.Stats.BytesCompared,
		},
		Totals: JSONTotalsData{
			FileMatches: totals.FileMatches,
			FileTotal:   totals.FileTotal,
			DirMatches:  totals.DirMatches,
			DirTotal:    totals.DirTotal,
			ByOutcome:   byOutcome,
		},
		Records: f.records,
		Errors:  f.errors,
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func errorData(err error) JSONErrorData {
	if entryErr, ok := err.(*models.EntryError); ok {
		return JSONErrorData{
			Path:  entryErr.Path,
			Op:    string(entryErr.Op),
			Error: entryErr.Err.Error(),
		}
	}
	return JSONErrorData{Error: err.Error()}
}
