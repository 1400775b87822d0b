package sim

import (
	"context"
	"sync"

	"github.com/san-kum/impulse/internal/scene"
)

// Ensemble runs the same configuration many times with consecutive
// seeds, one goroutine per run. Each run gets its own scene instance
// from the registry so runs never share mutable state.
type Ensemble struct {
	registry  *scene.Registry
	numRuns   int
	seedStart int64

	// MetricFactory builds a fresh metric set for each run. Sharing
	// metric instances across runs would race.
	MetricFactory func() []Metric
}

// NewEnsemble returns an ensemble of numRuns runs seeded from
// seedStart upward.
func NewEnsemble(registry *scene.Registry, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		registry:  registry,
		numRuns:   numRuns,
		seedStart: seedStart,
	}
}

// Run executes every run concurrently and returns the results in run
// order. The first error aborts the batch.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sc, err := e.registry.Get(cfg.Scene)
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sim := New(sc)
			if e.MetricFactory != nil {
				for _, m := range e.MetricFactory() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfgCopy)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
