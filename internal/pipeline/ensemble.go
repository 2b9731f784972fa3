package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/experiment"
)

// Ensemble runs the same experiment under consecutive seeds in parallel and
// averages the resulting running averages.
type Ensemble struct {
	factory   EngineFactory
	numRuns   int
	seedStart int64
}

// EnsembleResult holds the per-bucket mean over all runs.
type EnsembleResult struct {
	Runs  int
	AvgVx []float64
	AvgVy []float64
	Drift []float64
}

func NewEnsemble(factory EngineFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, exp experiment.Experiment, p config.Params, frames int) (*EnsembleResult, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble: need at least one run, got %d", e.numRuns)
	}

	vx := make([][]float64, e.numRuns)
	vy := make([][]float64, e.numRuns)
	drift := make([]float64, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			pCopy := p
			pCopy.Seed = e.seedStart + int64(i)

			s := New(e.factory, DiscardSurfaces())
			if err := s.Reset(exp, pCopy); err != nil {
				return err
			}
			if err := s.Run(ctx, frames); err != nil {
				return err
			}
			vx[i], vy[i] = s.Averaged()
			drift[i] = s.EnergyDrift()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &EnsembleResult{
		Runs:  e.numRuns,
		AvgVx: make([]float64, p.Buckets),
		AvgVy: make([]float64, p.Buckets),
		Drift: drift,
	}
	for r := 0; r < e.numRuns; r++ {
		for i := 0; i < p.Buckets; i++ {
			res.AvgVx[i] += vx[r][i] / float64(e.numRuns)
			res.AvgVy[i] += vy[r][i] / float64(e.numRuns)
		}
	}
	return res, nil
}
