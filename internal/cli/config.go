package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sdejongh/cmptree/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the cmptree configuration file.`,
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := loadConfig()
			if err != nil {
				return err
			}
			if source == "" {
				source = "(built-in defaults)"
			}

			bandwidth := "unlimited"
			if cfg.Performance.BandwidthLimit > 0 {
				bandwidth = humanize.Bytes(uint64(cfg.Performance.BandwidthLimit)) + "/s"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config File: %s\n", source)
			fmt.Fprintf(w, "Buffer Size: %d\n", cfg.Compare.BufferSize)
			fmt.Fprintf(w, "Errors As Mismatch: %v\n", cfg.Compare.ErrorsAsMismatch)
			fmt.Fprintf(w, "Bandwidth Limit: %s\n", bandwidth)
			fmt.Fprintf(w, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "Show Matches: %v\n", cfg.Output.ShowMatches)
			fmt.Fprintf(w, "Pretty: %v\n", cfg.Output.Pretty)
			fmt.Fprintf(w, "Totals: %v\n", cfg.Output.Totals)
			fmt.Fprintf(w, "Progress: %v\n", cfg.Output.Progress)
			fmt.Fprintf(w, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			cfg := config.Default()
			if err := config.Create(cfg, path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}
