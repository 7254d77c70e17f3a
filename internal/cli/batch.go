package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/engine/batch"
	"github.com/greencommute/creditengine/internal/equivalency"
	"github.com/greencommute/creditengine/internal/logging"
)

// tripFile is the YAML shape of a batch recalculation request.
type tripFile struct {
	Trips []engine.TripCalculationInput `yaml:"trips"`
}

// newBatchCmd builds the batch recalculation command.
func newBatchCmd() *cobra.Command {
	var (
		file        string
		concurrency int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:     "batch",
		Short:   "Recalculate credits for a batch of trips from a YAML file",
		Example: `  creditengine batch --file trips.yaml --concurrency 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read trip file: %w", err)
			}

			var trips tripFile
			if err := yaml.Unmarshal(data, &trips); err != nil {
				return fmt.Errorf("parse trip file: %w", err)
			}

			coordinator, _, err := buildCoordinator(cmd)
			if err != nil {
				return err
			}

			processor, err := batch.NewProcessor(coordinator, concurrency)
			if err != nil {
				return err
			}

			log := logging.FromContext(cmd.Context())
			processor.WithProgressCallback(func(p batch.Progress) {
				log.Debug().
					Int("completed", p.Completed).
					Int("failed", p.Failed).
					Int("total", p.Total).
					Msg("batch progress")
			})

			outcomes, err := processor.Run(cmd.Context(), trips.Trips)
			if err != nil {
				return err
			}

			if jsonOut {
				return printOutcomesJSON(cmd, outcomes)
			}
			printOutcomes(cmd, outcomes)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file with a 'trips' list (required)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker count (0 = number of CPUs)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit outcomes as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printOutcomes(cmd *cobra.Command, outcomes []batch.Outcome) {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			cmd.Printf("trip %d (%s): ERROR: %v\n", o.Index, o.Input.Mode, o.Err)
			continue
		}
		cmd.Printf("trip %d (%s, %.2f km): %.4f kg CO₂e [%s]\n",
			o.Index, o.Input.Mode, o.Input.DistanceKm,
			o.Result.CreditsAwarded, o.Result.Method)
	}

	total := batch.TotalCredits(outcomes)
	cmd.Printf("\nTotal: %.4f kg CO₂e across %d trips (%d failed)\n",
		total, len(outcomes), failed)

	if equiv, err := equivalency.ForCredits(total); err == nil && !equiv.IsEmpty {
		cmd.Println(equiv.DisplayText)
	}
}

func printOutcomesJSON(cmd *cobra.Command, outcomes []batch.Outcome) error {
	type outcomeJSON struct {
		Index  int                  `json:"index"`
		Result *engine.CreditResult `json:"result,omitempty"`
		Error  string               `json:"error,omitempty"`
	}

	out := make([]outcomeJSON, 0, len(outcomes))
	for _, o := range outcomes {
		oj := outcomeJSON{Index: o.Index}
		if o.Err != nil {
			oj.Error = o.Err.Error()
		} else {
			result := o.Result
			oj.Result = &result
		}
		out = append(out, oj)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
