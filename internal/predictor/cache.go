package predictor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/logging"
)

// Common prediction cache errors.
var (
	ErrCacheNotFound = errors.New("cached prediction not found")
	ErrCacheExpired  = errors.New("cached prediction expired")
)

// cacheEntry is the on-disk layout of one cached prediction. Entries are
// immutable once written; expiry removes them rather than refreshing.
type cacheEntry struct {
	Key        string     `json:"key"`
	Prediction Prediction `json:"prediction"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// PredictionCache is a file-based TTL cache for remote predictions.
// Dispute recalculations replay the same trips repeatedly; the model's
// answer for identical features is stable within a training cycle, so a
// short TTL saves most of the inference round-trips.
type PredictionCache struct {
	directory string
	ttl       time.Duration

	mu sync.RWMutex
}

// NewPredictionCache opens (creating if needed) a cache directory.
func NewPredictionCache(directory string, ttl time.Duration) (*PredictionCache, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &PredictionCache{directory: directory, ttl: ttl}, nil
}

// Get returns the cached prediction for a trip, or ErrCacheNotFound /
// ErrCacheExpired. An expired entry is removed on the way out.
func (c *PredictionCache) Get(input engine.TripCalculationInput) (Prediction, error) {
	path := c.entryPath(cacheKey(input))

	c.mu.RLock()
	data, err := os.ReadFile(path)
	c.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return Prediction{}, ErrCacheNotFound
		}
		return Prediction{}, fmt.Errorf("read cached prediction: %w", err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Prediction{}, fmt.Errorf("decode cached prediction: %w", err)
	}

	if entry.expired(time.Now()) {
		c.mu.Lock()
		_ = os.Remove(path)
		c.mu.Unlock()
		return Prediction{}, ErrCacheExpired
	}

	return entry.Prediction, nil
}

// Set stores a prediction for a trip under the configured TTL.
func (c *PredictionCache) Set(input engine.TripCalculationInput, pred Prediction) error {
	now := time.Now()
	key := cacheKey(input)
	entry := cacheEntry{
		Key:        key,
		Prediction: pred,
		CreatedAt:  now,
		ExpiresAt:  now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cached prediction: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.WriteFile(c.entryPath(key), data, 0o600); err != nil {
		return fmt.Errorf("write cached prediction: %w", err)
	}
	return nil
}

// Purge removes every entry, expired or not. Retraining deployments call
// this so a new model is never shadowed by the old one's answers.
func (c *PredictionCache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.directory)
	if err != nil {
		return fmt.Errorf("list cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.directory, entry.Name())); err != nil {
			return fmt.Errorf("remove cache entry: %w", err)
		}
	}
	return nil
}

func (c *PredictionCache) entryPath(key string) string {
	return filepath.Join(c.directory, key+".json")
}

// cacheKey derives a deterministic key from the trip's feature set. Two
// trips with identical features share one prediction; the timestamp is
// excluded because recency is a formula concern, not a model feature.
func cacheKey(input engine.TripCalculationInput) string {
	features := struct {
		Mode      string  `json:"mode"`
		Distance  float64 `json:"distance"`
		Occupancy int     `json:"occupancy"`
		Context   any     `json:"context"`
	}{
		Mode:      string(input.Mode),
		Distance:  input.DistanceKm,
		Occupancy: input.OccupancyCount,
		Context:   input.Context,
	}

	data, _ := json.Marshal(features)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CachedPredictor decorates a predictor with the file cache. Cache
// failures degrade to a live prediction; they are never surfaced.
type CachedPredictor struct {
	inner Predictor
	cache *PredictionCache
}

// WithCache wraps a predictor in the cache.
func WithCache(inner Predictor, cache *PredictionCache) *CachedPredictor {
	return &CachedPredictor{inner: inner, cache: cache}
}

// Name identifies the predictor for logging.
func (p *CachedPredictor) Name() string { return "cached " + p.inner.Name() }

// Predict serves from the cache when it can, otherwise calls through and
// stores the answer.
func (p *CachedPredictor) Predict(ctx context.Context, input engine.TripCalculationInput) (Prediction, error) {
	log := logging.FromContext(ctx)

	cached, err := p.cache.Get(input)
	if err == nil {
		log.Debug().
			Str("component", "predictor").
			Str("predictor", p.inner.Name()).
			Msg("prediction served from cache")
		return cached, nil
	}
	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheExpired) {
		log.Warn().
			Str("component", "predictor").
			Err(err).
			Msg("prediction cache read failed, predicting live")
	}

	pred, err := p.inner.Predict(ctx, input)
	if err != nil {
		return Prediction{}, err
	}

	if setErr := p.cache.Set(input, pred); setErr != nil {
		log.Warn().
			Str("component", "predictor").
			Err(setErr).
			Msg("prediction cache write failed")
	}
	return pred, nil
}
