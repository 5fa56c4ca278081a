package compare

import (
	"context"

	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/models"
	"github.com/sdejongh/cmptree/pkg/storage"
)

// ClassifierOptions configures a Classifier
type ClassifierOptions struct {
	// ReadErrorsAsMismatch turns content open/read failures into
	// ContentMismatch records instead of returning them
	ReadErrorsAsMismatch bool

	Logger logging.Logger
}

// Classifier determines the outcome for one relative path present in at
// least one of two trees
type Classifier struct {
	first      storage.Backend
	second     storage.Backend
	comparator ContentComparator
	opts       ClassifierOptions
	logger     logging.Logger

	filesCompared int
	bytesCompared int64
}

// NewClassifier creates a classifier over two trees
func NewClassifier(first, second storage.Backend, comparator ContentComparator, opts ClassifierOptions) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Classifier{
		first:      first,
		second:     second,
		comparator: comparator,
		opts:       opts,
		logger:     logger.WithFields(logging.Fields{"component": "classifier"}),
	}
}

// Classify compares the entries at relPath in both trees. An error means the
// record was skipped: a metadata failure (OpMetadata), a content failure
// (OpFileOpen/OpFileRead) or cancellation.
func (c *Classifier) Classify(ctx context.Context, relPath string) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := &models.Record{
		RelativePath: relPath,
		FirstPath:    c.first.Abs(relPath),
		SecondPath:   c.second.Abs(relPath),
	}

	firstInfo, err := c.stat(ctx, c.first, relPath)
	if err != nil {
		return nil, err
	}
	secondInfo, err := c.stat(ctx, c.second, relPath)
	if err != nil {
		return nil, err
	}

	if firstInfo != nil {
		record.FirstKind = firstInfo.Kind.Ptr()
	}
	if secondInfo != nil {
		record.SecondKind = secondInfo.Kind.Ptr()
	}

	outcome, needsContent := decide(record.FirstKind, record.SecondKind)
	record.Outcome = outcome
	if !needsContent {
		return record, nil
	}

	result, err := c.comparator.CompareContent(ctx, c.first, c.second, firstInfo, secondInfo)
	if err != nil {
		if c.opts.ReadErrorsAsMismatch && models.IsContentError(err) && ctx.Err() == nil {
			c.logger.Warn(ctx, "Content unreadable, recording mismatch", logging.Fields{
				"path":  relPath,
				"error": err.Error(),
			})
			record.Outcome = models.OutcomeContentMismatch
			record.Reason = "content unreadable: " + err.Error()
			return record, nil
		}
		return nil, err
	}

	if result.Opened {
		c.filesCompared++
		c.bytesCompared += result.BytesCompared
	}
	record.Reason = result.Reason
	if result.Result != Identical {
		record.Outcome = models.OutcomeContentMismatch
	}
	return record, nil
}

// stat returns nil info when the entry does not exist
func (c *Classifier) stat(ctx context.Context, backend storage.Backend, relPath string) (*storage.FileInfo, error) {
	info, err := backend.Lstat(ctx, relPath)
	if err == nil {
		return info, nil
	}
	if storage.IsNotExist(err) {
		return nil, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, models.NewEntryError(models.OpMetadata, backend.Abs(relPath), err)
}

// FilesCompared returns the number of file pairs whose content was read
func (c *Classifier) FilesCompared() int {
	return c.filesCompared
}

// BytesCompared returns the bytes read per side during content comparison
func (c *Classifier) BytesCompared() int64 {
	return c.bytesCompared
}

// decide maps the kinds found on each side (nil = absent) to an outcome.
// needsContent is set when the outcome is Match pending a content check.
func decide(first, second *models.EntryKind) (outcome models.Outcome, needsContent bool) {
	switch {
	case first == nil && second == nil:
		return models.OutcomeNeitherExists, false
	case second == nil:
		return models.OutcomeOnlyFirstExists, false
	case first == nil:
		return models.OutcomeOnlySecondExists, false
	case *first != *second:
		return models.OutcomeTypeMismatch, false
	case *first == models.KindFile:
		return models.OutcomeMatch, true
	default:
		return models.OutcomeMatch, false
	}
}
