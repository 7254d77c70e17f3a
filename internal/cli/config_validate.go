package cli

import (
	"github.com/spf13/cobra"

	"github.com/greencommute/creditengine/internal/emissions"
)

// newConfigCmd builds the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate engine configuration",
	}
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// newConfigValidateCmd validates a configuration overlay the way startup
// would, so a bad factor table is caught before deployment instead of
// clamping silently in production.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and its load-time invariants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			table, err := cfg.Table()
			if err != nil {
				return err
			}

			tabulated := 0
			for _, mode := range emissions.Modes() {
				if _, lookupErr := table.Lookup(mode, table.DefaultRegion()); lookupErr == nil {
					tabulated++
				}
			}

			cmd.Printf("Configuration valid: %d regions, %d tabulated modes, default region %s\n",
				len(table.Regions()), tabulated, table.DefaultRegion())
			cmd.Printf("Work-from-home credit: %.4f kg CO₂e, predictor mode: %s\n",
				cfg.Credits.WorkFromHome, cfg.Predictor.Mode)
			return nil
		},
	}
}
