// Package config assembles the engine's process-wide read-only state: the
// emission factor table, the context modifier tables, the fixed-award and
// confidence constants, and the predictor wiring.
//
// Configuration is loaded once at startup. Defaults are embedded; a YAML
// file overlays them. There is no hot-reload contract: once a Config has
// been validated and handed to the engine it is never mutated.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// Predictor selection modes.
const (
	PredictorOff      = "off"
	PredictorArtifact = "artifact"
	PredictorRemote   = "remote"
)

// Config is the full engine configuration.
type Config struct {
	// DefaultRegion keys the factor set used when a trip's region is
	// unknown or absent.
	DefaultRegion string `yaml:"default_region"`

	Credits   CreditsConfig                  `yaml:"credits"`
	Factors   map[string]RegionFactorsConfig `yaml:"factors"`
	Modifiers modifiers.Tables               `yaml:"modifiers"`
	Predictor PredictorConfig                `yaml:"predictor"`
	Logging   LoggingConfig                  `yaml:"logging"`
}

// CreditsConfig holds the award policy constants.
type CreditsConfig struct {
	// WorkFromHome is the flat credit for a work-from-home day. WFH has
	// no distance, so the multiplicative formula is undefined for it and
	// a fixed incentive is used instead.
	WorkFromHome float64 `yaml:"work_from_home"`

	// FormulaConfidence is the confidence reported on formula-calculated
	// results.
	FormulaConfidence float64 `yaml:"formula_confidence"`
}

// RegionFactorsConfig is the YAML shape of one region's factor set.
type RegionFactorsConfig struct {
	CarBaseline   float64            `yaml:"car_baseline"`
	Actual        map[string]float64 `yaml:"actual"`
	BaselineModes []string           `yaml:"baseline_modes"`
}

// PredictorConfig selects and tunes the optional learned predictor.
type PredictorConfig struct {
	// Mode is one of "off", "artifact", "remote".
	Mode string `yaml:"mode"`

	// ArtifactPath locates the trained model artifact (artifact mode).
	ArtifactPath string `yaml:"artifact_path"`

	// Endpoint is the inference service base URL (remote mode).
	Endpoint string `yaml:"endpoint"`

	// TimeoutMS bounds a remote prediction call. A timeout is treated
	// identically to "model unavailable".
	TimeoutMS int `yaml:"timeout_ms"`

	// ConfidenceThreshold discards predictions reporting confidence
	// below it; the formula result is used instead. Predictions are
	// never blended with formula output.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// CacheDir enables the remote prediction cache when non-empty.
	// Ignored outside remote mode.
	CacheDir string `yaml:"cache_dir"`

	// CacheTTLSeconds bounds cached prediction age. Keep it short of the
	// retraining cadence.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Timeout returns the remote call deadline as a duration.
func (p PredictorConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// CacheTTL returns the prediction cache lifetime as a duration.
func (p PredictorConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load returns the default configuration overlaid with the YAML file at
// path. An empty path returns the defaults unchanged. The result is
// validated before being returned.
//
// Overlay granularity: scalar fields and map keys present in the file
// override the defaults; a region that appears under factors replaces
// that region's entire factor set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Table builds the emission factor table from the configured factor sets.
// Table construction enforces the load-time invariants (actual ≤ baseline,
// non-negativity, zero-emission policy), so the per-trip path can rely on
// clamping alone.
func (c *Config) Table() (*emissions.Table, error) {
	regions := make(map[emissions.Region]emissions.RegionFactors, len(c.Factors))

	for name, rfc := range c.Factors {
		rf := emissions.RegionFactors{
			CarBaseline:   rfc.CarBaseline,
			Actual:        make(map[emissions.TransportMode]float64, len(rfc.Actual)),
			BaselineModes: make(map[emissions.TransportMode]bool, len(rfc.BaselineModes)),
		}
		for mode, ef := range rfc.Actual {
			parsed, err := emissions.ParseMode(mode)
			if err != nil {
				return nil, fmt.Errorf("%w: region %q: %w",
					emissions.ErrConfigurationInvariant, name, err)
			}
			rf.Actual[parsed] = ef
		}
		for _, mode := range rfc.BaselineModes {
			parsed, err := emissions.ParseMode(mode)
			if err != nil {
				return nil, fmt.Errorf("%w: region %q: %w",
					emissions.ErrConfigurationInvariant, name, err)
			}
			rf.BaselineModes[parsed] = true
		}
		regions[emissions.Region(name)] = rf
	}

	return emissions.NewTable(emissions.Region(c.DefaultRegion), regions)
}

// Validate fails fast on configuration that would otherwise surface as
// silent clamping or dead predictor wiring at calculation time.
func (c *Config) Validate() error {
	if _, err := c.Table(); err != nil {
		return err
	}

	if c.Credits.WorkFromHome < 0 {
		return fmt.Errorf("%w: work_from_home credit %g is negative",
			emissions.ErrConfigurationInvariant, c.Credits.WorkFromHome)
	}
	if c.Credits.FormulaConfidence < 0 || c.Credits.FormulaConfidence > 1 {
		return fmt.Errorf("%w: formula_confidence %g outside [0,1]",
			emissions.ErrConfigurationInvariant, c.Credits.FormulaConfidence)
	}
	if c.Predictor.ConfidenceThreshold < 0 || c.Predictor.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold %g outside [0,1]",
			emissions.ErrConfigurationInvariant, c.Predictor.ConfidenceThreshold)
	}

	switch c.Predictor.Mode {
	case PredictorOff, PredictorArtifact, PredictorRemote:
	default:
		return fmt.Errorf("%w: unknown predictor mode %q",
			emissions.ErrConfigurationInvariant, c.Predictor.Mode)
	}
	if c.Predictor.Mode == PredictorRemote {
		if c.Predictor.Endpoint == "" {
			return fmt.Errorf("%w: remote predictor requires an endpoint",
				emissions.ErrConfigurationInvariant)
		}
		if c.Predictor.TimeoutMS <= 0 {
			return fmt.Errorf("%w: remote predictor requires timeout_ms > 0",
				emissions.ErrConfigurationInvariant)
		}
		if c.Predictor.CacheDir != "" && c.Predictor.CacheTTLSeconds <= 0 {
			return fmt.Errorf("%w: prediction cache requires cache_ttl_seconds > 0",
				emissions.ErrConfigurationInvariant)
		}
	}
	if c.Predictor.Mode == PredictorArtifact && c.Predictor.ArtifactPath == "" {
		return fmt.Errorf("%w: artifact predictor requires artifact_path",
			emissions.ErrConfigurationInvariant)
	}

	return validateMultipliers(c.Modifiers)
}

// validateMultipliers rejects non-positive multipliers: a zero or negative
// factor would silently zero out or invert every credit it touches.
func validateMultipliers(t modifiers.Tables) error {
	check := func(dimension string, m map[string]float64) error {
		for key, f := range m {
			if f <= 0 {
				return fmt.Errorf("%w: %s multiplier %q is %g, must be positive",
					emissions.ErrConfigurationInvariant, dimension, key, f)
			}
		}
		return nil
	}

	if err := check("peak", stringKeys(t.Peak)); err != nil {
		return err
	}
	if err := check("traffic", stringKeys(t.Traffic)); err != nil {
		return err
	}
	if err := check("weather", stringKeys(t.Weather)); err != nil {
		return err
	}
	if err := check("route", stringKeys(t.Route)); err != nil {
		return err
	}
	if err := check("aqi", stringKeys(t.AQI)); err != nil {
		return err
	}
	if err := check("season", stringKeys(t.Season)); err != nil {
		return err
	}
	return check("load", stringKeys(t.Load))
}

// stringKeys widens a typed-key multiplier map for uniform validation.
func stringKeys[K ~string](m map[K]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
