// Package batch fans trip calculations out over a bounded worker pool.
//
// Verification disputes and model retraining both recompute credits over
// historical trip sets; every calculation is an independent pure call, so
// they parallelise freely. Result order always matches input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/greencommute/creditengine/internal/engine"
)

// Concurrency bounds for the worker pool.
const (
	MinConcurrency = 1
	MaxConcurrency = 64
)

// Common batch processing errors.
var (
	ErrInvalidConcurrency = errors.New("concurrency must be between 1 and 64")
	ErrNilCalculator      = errors.New("calculator cannot be nil")
	ErrEmptyTrips         = errors.New("trips slice cannot be empty")
)

// Calculator produces one credit result per trip. Both the formula engine
// (via the coordinator) and test doubles satisfy it.
type Calculator interface {
	Calculate(ctx context.Context, input engine.TripCalculationInput) (engine.CreditResult, error)
}

// Outcome pairs one trip with its result or error. Per-trip input errors
// (unknown mode, invalid occupancy) are recorded here instead of aborting
// the batch; one bad record must not block a dispute recalculation.
type Outcome struct {
	Index  int
	Input  engine.TripCalculationInput
	Result engine.CreditResult
	Err    error
}

// Progress reports batch completion for UI updates or logging.
type Progress struct {
	Completed int
	Failed    int
	Total     int
}

// ProgressCallback is invoked after each trip completes with a snapshot
// copy of the counters. Callbacks run on the worker path outside the
// processor's lock, so they may be slow without stalling other workers,
// but they must be safe for concurrent invocation.
type ProgressCallback func(Progress)

// Processor runs trip calculations concurrently with a fixed limit.
type Processor struct {
	calc        Calculator
	concurrency int
	onProgress  ProgressCallback

	mu       sync.Mutex
	progress Progress
}

// NewProcessor builds a processor. concurrency 0 selects runtime.NumCPU,
// capped to the allowed range.
func NewProcessor(calc Calculator, concurrency int) (*Processor, error) {
	if calc == nil {
		return nil, ErrNilCalculator
	}
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
		if concurrency > MaxConcurrency {
			concurrency = MaxConcurrency
		}
	}
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Processor{calc: calc, concurrency: concurrency}, nil
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor) WithProgressCallback(callback ProgressCallback) *Processor {
	p.onProgress = callback
	return p
}

// Run calculates credits for every trip. The returned slice is indexed
// like trips; per-trip failures are carried in Outcome.Err. Run itself
// fails only for an empty input or a cancelled context.
func (p *Processor) Run(ctx context.Context, trips []engine.TripCalculationInput) ([]Outcome, error) {
	if len(trips) == 0 {
		return nil, ErrEmptyTrips
	}

	p.mu.Lock()
	p.progress = Progress{Total: len(trips)}
	p.mu.Unlock()

	outcomes := make([]Outcome, len(trips))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, trip := range trips {
		i, trip := i, trip
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			result, err := p.calc.Calculate(gCtx, trip)
			outcomes[i] = Outcome{Index: i, Input: trip, Result: result, Err: err}
			p.recordProgress(err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// recordProgress updates counters and fires the callback.
func (p *Processor) recordProgress(err error) {
	p.mu.Lock()
	p.progress.Completed++
	if err != nil {
		p.progress.Failed++
	}
	snapshot := p.progress
	callback := p.onProgress
	p.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// TotalCredits sums the awards of successful outcomes.
func TotalCredits(outcomes []Outcome) float64 {
	var total float64
	for _, o := range outcomes {
		if o.Err == nil {
			total += o.Result.CreditsAwarded
		}
	}
	return total
}
