package experiment

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
)

// Comparison is the outcome of one integrator in Compare.
type Comparison struct {
	Integrator string
	Result     *sim.Result
	Err        error
	Elapsed    time.Duration
	// PlantDeviation is the largest distance between this run's plant state
	// and the reference run's over the shared snapshots.
	PlantDeviation float64
}

// Compare runs the same seeded scenario once per integrator. The first
// integrator that succeeds is the reference for PlantDeviation.
func Compare(ctx context.Context, p dynamo.Params, x0 dynamo.State, names []string) ([]Comparison, error) {
	if !p.Seeded {
		return nil, fmt.Errorf("%w: comparison needs a fixed seed", dynamo.ErrInvalidParams)
	}

	out := make([]Comparison, len(names))
	var reference *dynamo.Trajectory
	for i, name := range names {
		out[i].Integrator = name
		integ, err := integrators.New(name)
		if err != nil {
			out[i].Err = err
			continue
		}
		s, err := sim.New(p, integ, sim.WithMetrics(metrics.Default()...))
		if err != nil {
			return nil, err
		}

		start := time.Now()
		out[i].Result, out[i].Err = s.Simulate(ctx, x0)
		out[i].Elapsed = time.Since(start)
		if out[i].Err != nil {
			continue
		}
		if reference == nil {
			reference = out[i].Result.Trajectory
		}
		out[i].PlantDeviation = plantDeviation(reference, out[i].Result.Trajectory)
	}
	return out, nil
}

func plantDeviation(a, b *dynamo.Trajectory) float64 {
	worst := 0.0
	for i := 0; i < min(a.Len(), b.Len()); i++ {
		pa, pb := a.At(i).State.Plant(), b.At(i).State.Plant()
		worst = max(worst, floats.Distance(pa[:], pb[:], 2))
	}
	return worst
}
