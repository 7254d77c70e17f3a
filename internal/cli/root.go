// Package cli implements the creditengine command tree. It is the
// embedding harness for the calculation core: the production trip flow
// lives in the web platform, while this surface serves operators and
// developers (spot calculations, dispute recalculation batches, factor
// table inspection, configuration validation).
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the creditengine CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creditengine",
		Short:   "Commuter carbon-credit calculation engine",
		Long:    "creditengine: compute commuter carbon-credit awards from trip records",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(logging.WithContext(cmd.Context(), buildLogger(cmd)))
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to a YAML configuration overlay")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-format", "", "log format: console or json (default: console on a terminal)")

	cmd.AddCommand(newCalculateCmd(), newBatchCmd(), newFactorsCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Calculate credits for a single trip
  creditengine calculate --mode cycling --distance 17.55 --time-period peak_morning

  # Recalculate a batch of trips from a YAML file
  creditengine batch --file trips.yaml

  # Inspect the emission factor table
  creditengine factors --region in-mumbai`

// buildLogger assembles the CLI logger from the persistent flags. The
// format defaults to console on a terminal and JSON otherwise, so piped
// output stays machine-readable.
func buildLogger(cmd *cobra.Command) zerolog.Logger {
	level := "info"
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}

	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = "json"
		if isTerminal(os.Stderr) {
			format = "console"
		}
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	return logging.ComponentLogger(logger, "cli")
}

// loadConfig loads the configuration selected by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// Execute runs the CLI and returns the process exit code.
func Execute(ver string) int {
	if err := NewRootCmd(ver).Execute(); err != nil {
		return 1
	}
	return 0
}
