package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
)

// ErrNoCandidate is returned by GridSearch when every grid point failed.
var ErrNoCandidate = errors.New("experiment: no grid point completed")

// ParameterSweep varies one parameter over an evenly spaced range. Every run
// shares one seed, so the noise sequence is the same at every point. An
// unseeded Base gets a random seed once per sweep.
type ParameterSweep struct {
	Base       dynamo.Params
	Integrator string
	InitState  dynamo.State
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Logger     *slog.Logger
}

// SweepResult is one point of a sweep.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Err        error
}

// Values returns the swept parameter values.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	out := make([]float64, s.NumSteps)
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep executes the sweep. A failing point is reported in its
// SweepResult and does not stop the sweep; an invalid sweep definition or a
// canceled context does.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if _, err := integrators.New(sweep.Integrator); err != nil {
		return nil, err
	}
	if err := SetParam(&dynamo.Params{}, sweep.ParamName, 0); err != nil {
		return nil, err
	}
	logger := sweep.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base := seeded(sweep.Base)
	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p := base
		_ = SetParam(&p, sweep.ParamName, v)

		r := SweepResult{ParamValue: v}
		r.Metrics, r.Err = runOnce(ctx, p, sweep.Integrator, sweep.InitState)
		results = append(results, r)

		logger.Info("sweep point", "index", i+1, "of", len(values), sweep.ParamName, v, "err", r.Err)
	}
	return results, nil
}

func seeded(p dynamo.Params) dynamo.Params {
	if p.Seeded {
		return p
	}
	return p.WithSeed(rand.Uint64())
}

func runOnce(ctx context.Context, p dynamo.Params, integrator string, x0 dynamo.State) (map[string]float64, error) {
	integ, err := integrators.New(integrator)
	if err != nil {
		return nil, err
	}
	s, err := sim.New(p, integ, sim.WithMetrics(metrics.Default()...))
	if err != nil {
		return nil, err
	}
	result, err := s.Simulate(ctx, x0)
	if err != nil {
		return nil, err
	}
	return result.Metrics, nil
}

// GridSearch evaluates every combination of parameter values and keeps the
// one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters but %d ranges", dynamo.ErrInvalidParams, len(params), len(ranges))
	}
	for _, name := range params {
		if err := SetParam(&dynamo.Params{}, name, 0); err != nil {
			return nil, err
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// GridPoint is one evaluated combination.
type GridPoint struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs the grid on top of base and returns the best point together
// with every evaluated point in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.Params,
	integrator string,
	x0 dynamo.State,
	metricName string,
) (GridPoint, []GridPoint, error) {
	var all []GridPoint
	if err := g.searchRecursive(ctx, 0, seeded(base), map[string]float64{}, integrator, x0, metricName, &all); err != nil {
		return GridPoint{}, all, err
	}

	best := GridPoint{Value: math.Inf(1)}
	found := false
	for _, pt := range all {
		if pt.Err == nil && pt.Value < best.Value {
			best, found = pt, true
		}
	}
	if !found {
		return GridPoint{}, all, ErrNoCandidate
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	p dynamo.Params,
	current map[string]float64,
	integrator string,
	x0 dynamo.State,
	metricName string,
	all *[]GridPoint,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		pt := GridPoint{Params: make(map[string]float64, len(current))}
		for k, v := range current {
			pt.Params[k] = v
		}

		m, err := runOnce(ctx, p, integrator, x0)
		switch {
		case err != nil:
			pt.Err = err
		default:
			v, ok := m[metricName]
			if !ok {
				pt.Err = fmt.Errorf("metric %q not reported", metricName)
			}
			pt.Value = v
		}
		*all = append(*all, pt)
		return nil
	}

	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		next := p
		_ = SetParam(&next, name, v)
		current[name] = v
		if err := g.searchRecursive(ctx, depth+1, next, current, integrator, x0, metricName, all); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
