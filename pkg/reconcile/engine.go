package reconcile

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sdejongh/cmptree/pkg/compare"
	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/models"
	"github.com/sdejongh/cmptree/pkg/output"
	"github.com/sdejongh/cmptree/pkg/storage"
)

// Engine orchestrates the comparison of two trees
type Engine struct {
	first      storage.Backend
	second     storage.Backend
	classifier *compare.Classifier
	formatter  output.Formatter
	logger     logging.Logger
	operation  *models.Operation
}

// NewEngine creates a new comparison engine
func NewEngine(
	first, second storage.Backend,
	classifier *compare.Classifier,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.Operation,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		first:      first,
		second:     second,
		classifier: classifier,
		formatter:  formatter,
		logger:     logger,
		operation:  operation,
	}
}

// Run enumerates both trees, reconciles their relative paths and classifies
// each path once, in sorted order. Records stream to the formatter as they are
// produced. The returned error is non-nil only when the run could not
// complete: a root is inaccessible or ctx was cancelled. The report is
// returned in both cases, with Status set to StatusFailed on error.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	startTime := time.Now()
	report := &models.Report{
		OperationID: e.operation.ID,
		FirstRoot:   e.first.Root(),
		SecondRoot:  e.second.Root(),
		StartTime:   startTime,
	}

	e.logger.Info(ctx, "Starting comparison", logging.Fields{
		"operation_id": e.operation.ID,
		"first":        e.first.Root(),
		"second":       e.second.Root(),
	})

	firstListing, err := e.first.List(ctx)
	if err != nil {
		return e.fail(ctx, report, err)
	}
	secondListing, err := e.second.List(ctx)
	if err != nil {
		return e.fail(ctx, report, err)
	}

	report.Stats.FirstEntries = len(firstListing.Paths)
	report.Stats.SecondEntries = len(secondListing.Paths)
	report.Stats.FirstMissing = firstListing.Missing
	report.Stats.SecondMissing = secondListing.Missing

	paths := Union(firstListing.Paths, secondListing.Paths)
	report.Stats.UniquePaths = len(paths)
	report.Records = make([]*models.Record, 0, len(paths))

	e.logger.Info(ctx, "Reconciled trees", logging.Fields{
		"first_entries":  report.Stats.FirstEntries,
		"second_entries": report.Stats.SecondEntries,
		"unique_paths":   len(paths),
	})

	if err := e.formatter.Start(len(paths)); err != nil {
		return e.fail(ctx, report, errors.Wrap(err, "failed to start output"))
	}

	for _, entryErr := range append(firstListing.Errors, secondListing.Errors...) {
		e.addError(report, entryErr)
	}

	for _, relPath := range paths {
		record, err := e.classifier.Classify(ctx, relPath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return e.fail(ctx, report, ctxErr)
			}
			e.logger.Warn(ctx, "Skipping path", logging.Fields{
				"path":  relPath,
				"error": err.Error(),
			})
			e.addError(report, asEntryError(err, e.first.Abs(relPath)))
			continue
		}

		report.Records = append(report.Records, record)
		if err := e.formatter.Record(record); err != nil {
			return e.fail(ctx, report, errors.Wrap(err, "failed to write record"))
		}
	}

	e.finish(report)
	report.ResolveStatus()

	e.logger.Info(ctx, "Comparison complete", logging.Fields{
		"status":      string(report.Status),
		"records":     len(report.Records),
		"differences": report.Differences(),
		"errors":      len(report.Errors),
		"duration":    report.Duration.String(),
	})

	if err := e.formatter.Complete(report); err != nil {
		return report, errors.Wrap(err, "failed to complete output")
	}
	return report, nil
}

func (e *Engine) addError(report *models.Report, entryErr *models.EntryError) {
	report.Errors = append(report.Errors, entryErr)
	e.formatter.Error(entryErr)
}

func (e *Engine) finish(report *models.Report) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Stats.FilesContentCompared = e.classifier.FilesCompared()
	report.Stats.BytesCompared = e.classifier.BytesCompared()
}

func (e *Engine) fail(ctx context.Context, report *models.Report, err error) (*models.Report, error) {
	e.finish(report)
	report.Status = models.StatusFailed
	e.logger.Error(ctx, "Comparison failed", err, nil)
	e.formatter.Complete(report)
	return report, err
}

// asEntryError keeps classifier errors as they are and attributes anything
// else to the metadata step of path
func asEntryError(err error, path string) *models.EntryError {
	var entryErr *models.EntryError
	if errors.As(err, &entryErr) {
		return entryErr
	}
	return models.NewEntryError(models.OpMetadata, path, err)
}
