package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/cmptree/internal/platform"
	"github.com/sdejongh/cmptree/pkg/compare"
	"github.com/sdejongh/cmptree/pkg/config"
	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/output"
	"github.com/sdejongh/cmptree/pkg/ratelimit"
	"github.com/sdejongh/cmptree/pkg/reconcile"
	"github.com/sdejongh/cmptree/pkg/storage"
)

// ExitError carries a non-zero process exit code out of a command
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the exit code carried by err: 0 for nil, the code of an
// ExitError, and 3 for any other error
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 3
}

// NewRootCommand creates the cmptree command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmptree [flags] FIRST_DIR SECOND_DIR",
		Short: "Recursively compare two directory trees",
		Long: `cmptree compares two directory trees and reports, for every relative path
present in either tree, whether the entries match, differ in content, differ
in type, or exist on one side only.

Regular files are compared byte for byte. Symbolic links, fifos and devices
are compared by type only and are never followed.

Exit codes: 0 identical, 1 different, 2 some paths could not be compared,
3 the comparison could not run.`,
		Args:          cobra.ExactArgs(2),
		RunE:          runCompare,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd)
	AddCompareFlags(cmd)

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	first := platform.NormalizePath(args[0])
	second := platform.NormalizePath(args[1])

	// Validate arguments
	if err := validateCompareArgs(first, second); err != nil {
		return err
	}

	// Load configuration
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	operation, err := createOperation(cfg, first, second)
	if err != nil {
		return fmt.Errorf("failed to create comparison: %w", err)
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger = logger.WithFields(logging.Fields{"operation_id": operation.ID})

	// Create storage backends
	firstBackend, err := storage.NewLocal(operation.FirstRoot)
	if err != nil {
		return fmt.Errorf("failed to create first backend: %w", err)
	}
	defer firstBackend.Close()
	firstBackend.SetLogger(logger.WithFields(logging.Fields{"tree": "first"}))

	secondBackend, err := storage.NewLocal(operation.SecondRoot)
	if err != nil {
		return fmt.Errorf("failed to create second backend: %w", err)
	}
	defer secondBackend.Close()
	secondBackend.SetLogger(logger.WithFields(logging.Fields{"tree": "second"}))

	// Create comparator
	comparator := compare.NewBinaryComparator(operation.BufferSize)
	if limiter := ratelimit.NewLimiter(operation.BandwidthLimit); limiter != nil {
		comparator.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, rc, limiter)
		})
		logger.Debug(ctx, "Bandwidth limit enabled", logging.Fields{
			"bytes_per_second": limiter.BytesPerSecond(),
		})
	}

	logger.Debug(ctx, "Content comparator ready", logging.Fields{
		"comparator":  comparator.Name(),
		"buffer_size": comparator.BufferSize(),
	})

	classifier := compare.NewClassifier(firstBackend, secondBackend, comparator, compare.ClassifierOptions{
		ReadErrorsAsMismatch: operation.ReadErrorsAsMismatch,
		Logger:               logger,
	})

	formatter := createFormatter(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())

	engine := reconcile.NewEngine(firstBackend, secondBackend, classifier, formatter, logger, operation)

	report, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	// Write differences report if requested
	if compareFlags.DiffReport != "" {
		if err := output.WriteDifferencesReport(report, compareFlags.DiffReport, compareFlags.DiffFormat); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// createFormatter picks the formatter for the configured output
func createFormatter(cfg *config.Config, stdout, stderr io.Writer) output.Formatter {
	opts := output.Options{
		ShowMatches: cfg.Output.ShowMatches,
		Pretty:      cfg.Output.Pretty,
		Totals:      cfg.Output.Totals,
	}

	if cfg.Output.Quiet {
		stdout = io.Discard
	}

	if cfg.Output.Format == "json" {
		return output.NewJSONFormatter(stdout, opts)
	}

	var formatter output.Formatter = output.NewHumanFormatter(stdout, opts)
	if cfg.Output.Progress && output.IsTerminal(stderr) {
		formatter = output.NewProgressFormatter(stderr, formatter)
	}
	return formatter
}
