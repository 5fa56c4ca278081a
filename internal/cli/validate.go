package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/cmptree/internal/platform"
	"github.com/sdejongh/cmptree/pkg/config"
	"github.com/sdejongh/cmptree/pkg/logging"
	"github.com/sdejongh/cmptree/pkg/models"
)

// validateCompareArgs checks the two root arguments. The roots do not have to
// exist: a missing root is reported path by path.
func validateCompareArgs(first, second string) error {
	if err := platform.ValidatePath(first); err != nil {
		return fmt.Errorf("first root: %w", err)
	}
	if err := platform.ValidatePath(second); err != nil {
		return fmt.Errorf("second root: %w", err)
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[compareFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", compareFlags.Output)
	}
	if !validFormats[compareFlags.DiffFormat] {
		return fmt.Errorf("invalid differences report format: %s (valid: human, json)", compareFlags.DiffFormat)
	}

	return nil
}

// loadConfig loads the --config file, the default file or the built-in
// defaults, and returns the path it read
func loadConfig() (*config.Config, string, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with the flags set on the
// command line
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("matches") {
		cfg.Output.ShowMatches = compareFlags.Matches
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = compareFlags.Pretty
	}
	if flags.Changed("totals") {
		cfg.Output.Totals = compareFlags.Totals
	}
	if flags.Changed("output") {
		cfg.Output.Format = compareFlags.Output
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = compareFlags.Progress
	}
	if flags.Changed("buffer-size") {
		cfg.Compare.BufferSize = compareFlags.BufferSize
	}
	if flags.Changed("errors-as-mismatch") {
		cfg.Compare.ErrorsAsMismatch = compareFlags.ErrorsAsMismatch
	}
	if flags.Changed("bandwidth") {
		limit, err := parseBandwidth(compareFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if flags.Changed("log-file") {
		cfg.Logging.File = compareFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = compareFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = compareFlags.LogLevel
	}

	// Quiet wins over everything that prints
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	return cfg.Validate()
}

// parseBandwidth parses a byte rate such as "10M" or "1GiB"; empty or "0"
// means unlimited
func parseBandwidth(s string) (int64, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth limit %q: %w", s, err)
	}
	return int64(n), nil
}

// createOperation creates a comparison operation from configuration
func createOperation(cfg *config.Config, first, second string) (*models.Operation, error) {
	operation := &models.Operation{
		ID:                   uuid.New().String(),
		FirstRoot:            first,
		SecondRoot:           second,
		BufferSize:           cfg.Compare.BufferSize,
		BandwidthLimit:       cfg.Performance.BandwidthLimit,
		ReadErrorsAsMismatch: cfg.Compare.ErrorsAsMismatch,
		CreatedAt:            time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createLogger creates the run logger: a file logger when a log file is
// configured, a stderr logger at debug level in verbose mode, both when both
// are asked for, and a null logger otherwise
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Logging.Format)

	var loggers []logging.Logger
	if cfg.Logging.File != "" {
		fileLogger, err := logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    10 * 1024 * 1024, // 10 MB
			MaxBackups: 5,
		})
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fileLogger)
	}

	if globalFlags.Verbose {
		loggers = append(loggers, logging.NewWriterLogger(stderr, format, logging.DebugLevel))
	}

	if len(loggers) == 0 {
		return logging.NewNullLogger(), nil
	}
	return logging.NewMultiLogger(loggers...), nil
}
