package cli

import (
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greencommute/creditengine/internal/emissions"
)

// newFactorsCmd builds the factor table inspection command.
func newFactorsCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "List the emission factor table for a region",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := cfg.Table()
			if err != nil {
				return err
			}

			lookupRegion := emissions.Region(region)
			if region == "" {
				lookupRegion = table.DefaultRegion()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			cmd.Printf("Emission factors (kg CO₂/km), region %s:\n\n", lookupRegion)
			_, _ = w.Write([]byte("MODE\tBASELINE\tACTUAL\tSAVINGS/KM\n"))

			for _, mode := range emissions.Modes() {
				if mode == emissions.ModeWorkFromHome {
					// Fixed award, not a factor table entry.
					continue
				}
				pair, lookupErr := table.Lookup(mode, lookupRegion)
				if lookupErr != nil {
					continue
				}
				printFactorRow(w, mode, pair)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region to list (default: the configured default region)")
	return cmd
}

func printFactorRow(w *tabwriter.Writer, mode emissions.TransportMode, pair emissions.FactorPair) {
	note := ""
	if mode.SharedOccupancy() {
		note = "\t(whole vehicle, divided by occupancy)"
	}
	_, _ = w.Write([]byte(
		mode.String() + "\t" +
			formatEF(pair.Baseline) + "\t" +
			formatEF(pair.Actual) + "\t" +
			formatEF(pair.SavingsPerKm()) + note + "\n"))
}

// formatEF renders a factor without trailing zeros; the table carries up
// to five decimal places.
func formatEF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
