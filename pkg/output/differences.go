package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/sdejongh/cmptree/pkg/models"
)

var outcomeLabels = map[models.Outcome]string{
	models.OutcomeTypeMismatch:     "Type Mismatches",
	models.OutcomeContentMismatch:  "Content Differences",
	models.OutcomeOnlyFirstExists:  "Only in First",
	models.OutcomeOnlySecondExists: "Only in Second",
	models.OutcomeNeitherExists:    "Missing on Both Sides",
	models.OutcomeMatch:            "Matches",
}

// WriteDifferencesReport writes the differences of a report to a file.
// Format can be "human" or "json". Nothing is written when the trees are
// identical.
func WriteDifferencesReport(report *models.Report, path string, format string) error {
	if report.Differences() == 0 && len(report.Errors) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create differences file")
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeDifferencesJSON(report, file)
	default:
		err = writeDifferencesHuman(report, file)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to write differences to %s", path)
	}
	return file.Close()
}

// writeDifferencesHuman writes differences grouped by outcome
func writeDifferencesHuman(report *models.Report, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "First:     %s\n", report.FirstRoot)
	fmt.Fprintf(w, "Second:    %s\n", report.SecondRoot)
	fmt.Fprintf(w, "Status:    %s\n\n", report.Status)

	totals := Summarize(report.Records)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Outcome", "Paths"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, outcome := range models.Outcomes {
		if n := totals.ByOutcome[outcome]; n > 0 {
			table.Append([]string{outcomeLabels[outcome], strconv.Itoa(n)})
		}
	}
	table.Append([]string{"Errors", strconv.Itoa(len(report.Errors))})
	table.Append([]string{"Bytes compared", humanize.IBytes(uint64(report.Stats.BytesCompared))})
	table.Render()
	fmt.Fprintf(w, "\n")

	byOutcome := make(map[models.Outcome][]*models.Record)
	for _, rec := range report.Records {
		if rec.Outcome.IsDifference() {
			byOutcome[rec.Outcome] = append(byOutcome[rec.Outcome], rec)
		}
	}

	for _, outcome := range models.Outcomes {
		records := byOutcome[outcome]
		if len(records) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d paths)", outcomeLabels[outcome], len(records))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, rec := range records {
			fmt.Fprintf(w, "  %s\n", rec.RelativePath)
			if rec.FirstKind != nil || rec.SecondKind != nil {
				fmt.Fprintf(w, "    Kinds:   %s / %s\n", kindLabel(rec.FirstKind), kindLabel(rec.SecondKind))
			}
			if rec.Reason != "" {
				fmt.Fprintf(w, "    Details: %s\n", rec.Reason)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if len(report.Errors) > 0 {
		label := fmt.Sprintf("Errors (%d)", len(report.Errors))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  %s\n", err)
		}
	}

	return nil
}

func kindLabel(kind *models.EntryKind) string {
	if kind == nil {
		return "missing"
	}
	return kind.String()
}

// writeDifferencesJSON writes differences in JSON format
func writeDifferencesJSON(report *models.Report, w io.Writer) error {
	differences := make([]*models.Record, 0, report.Differences())
	for _, rec := range report.Records {
		if rec.Outcome.IsDifference() {
			differences = append(differences, rec)
		}
	}

	errs := make([]JSONErrorData, 0, len(report.Errors))
	for _, err := range report.Errors {
		errs = append(errs, errorData(err))
	}

	output := struct {
		Generated   string           `json:"generated"`
		FirstRoot   string           `json:"first_root"`
		SecondRoot  string           `json:"second_root"`
		Status      string           `json:"status"`
		TotalCount  int              `json:"total_count"`
		Differences []*models.Record `json:"differences"`
		Errors      []JSONErrorData  `json:"errors,omitempty"`
	}{
		Generated:   time.Now().Format(time.RFC3339),
		FirstRoot:   report.FirstRoot,
		SecondRoot:  report.SecondRoot,
		Status:      string(report.Status),
		TotalCount:  len(differences),
		Differences: differences,
		Errors:      errs,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
