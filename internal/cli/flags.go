package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/cmptree/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"log progress to stderr at debug level (alongside --log-file if set)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress record output, only set the exit code",
	)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// CompareFlags holds compare flags
type CompareFlags struct {
	Matches          bool
	Pretty           bool
	Totals           bool
	Output           string
	Progress         bool
	BufferSize       int
	Bandwidth        string
	ErrorsAsMismatch bool
	DiffReport       string
	DiffFormat       string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var compareFlags CompareFlags

// AddCompareFlags adds the comparison flags to cmd
func AddCompareFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.BoolVarP(&compareFlags.Matches, "matches", "m", false, "print matching paths too")
	flags.BoolVarP(&compareFlags.Pretty, "pretty", "p", false, "colorize output")
	flags.BoolVarP(&compareFlags.Totals, "totals", "t", false, "print file and directory match totals")
	flags.StringVarP(&compareFlags.Output, "output", "o", "human", "output format: human, json")
	flags.BoolVar(&compareFlags.Progress, "progress", false, "show a progress bar on stderr (terminals only)")
	flags.IntVar(&compareFlags.BufferSize, "buffer-size", 0, "content comparison chunk size in bytes (default 8192)")
	flags.StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "limit content reads (e.g., \"10M\", \"1GiB\")")
	flags.BoolVar(&compareFlags.ErrorsAsMismatch, "errors-as-mismatch", false, "report unreadable files as different instead of skipping them")
	flags.StringVar(&compareFlags.DiffReport, "diff-report", "", "write differences report to file")
	flags.StringVar(&compareFlags.DiffFormat, "diff-format", "human", "differences report format: human, json")

	// Logging flags
	flags.StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	flags.StringVar(&compareFlags.LogFormat, "log-format", "text", "log format: text, json")
	flags.StringVar(&compareFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}
