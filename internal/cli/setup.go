package cli

import (
	"github.com/spf13/cobra"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/logging"
	"github.com/greencommute/creditengine/internal/modifiers"
	"github.com/greencommute/creditengine/internal/predictor"
)

// buildCoordinator wires the calculation stack from the loaded
// configuration: factor table, modifier resolver, formula engine and the
// optional predictor.
//
// A predictor that fails to load is a degraded deployment, not a broken
// one: the failure is logged and the coordinator runs formula-only.
func buildCoordinator(cmd *cobra.Command) (*predictor.Coordinator, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	table, err := cfg.Table()
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(table, modifiers.NewResolver(cfg.Modifiers), cfg.Credits)

	pred, err := predictor.FromConfig(cfg.Predictor)
	if err != nil {
		logging.FromContext(cmd.Context()).Warn().
			Err(err).
			Str("predictor_mode", cfg.Predictor.Mode).
			Msg("predictor unavailable, running formula-only")
		pred = nil
	}

	return predictor.NewCoordinator(eng, pred, cfg.Predictor), cfg, nil
}
