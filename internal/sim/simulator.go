package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/noise"
	"github.com/san-kum/lorenzobs/internal/physics"
)

// Simulator advances the plant and observer in lockstep for one parameter
// set. It is single-threaded; use Ensemble for parallel trajectories.
type Simulator struct {
	params     dynamo.Params
	dyn        *physics.Augmented
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	logger     *slog.Logger
}

// New validates p and returns a simulator. The integrator instance must not
// be shared with another simulator.
func New(p dynamo.Params, integrator dynamo.Integrator, opts ...Option) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if integrator == nil {
		return nil, fmt.Errorf("%w: nil integrator", dynamo.ErrUnknownIntegrator)
	}
	s := &Simulator{
		params:     p,
		dyn:        physics.NewAugmented(p),
		integrator: integrator,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Simulate runs p.Steps steps from x0 with the reference RK4 method.
func Simulate(ctx context.Context, x0 dynamo.State, p dynamo.Params, opts ...Option) (*Result, error) {
	s, err := New(p, integrators.NewRK4(), opts...)
	if err != nil {
		return nil, err
	}
	return s.Simulate(ctx, x0)
}

func (s *Simulator) Params() dynamo.Params { return s.params }

// Step advances x by one step of size dt starting at time t. It draws
// exactly one noise sample; the measurement it returns is x(t) + η.
func (s *Simulator) Step(x dynamo.State, t float64, gen dynamo.NoiseSource) (StepResult, error) {
	eta := gen.Next()
	u := s.dyn.Control(x, eta)
	xm := x[dynamo.X] + eta

	next := s.integrator.Step(s.dyn, x, u, t, s.params.Dt)
	nextT := t + s.params.Dt
	if !next.IsValid() {
		return StepResult{}, fmt.Errorf("%w: non-finite component at t=%g", dynamo.ErrUnstable, nextT)
	}
	return StepResult{State: next, Time: nextT, Measurement: xm, Noise: eta}, nil
}

// Simulate runs the configured number of steps from x0 with a noise stream
// owned by this call. Unseeded params get a random seed, reported in
// Result.Params.
func (s *Simulator) Simulate(ctx context.Context, x0 dynamo.State) (*Result, error) {
	p := s.params
	if !p.Seeded {
		p = p.WithSeed(rand.Uint64())
	}
	return s.run(ctx, p, x0, noise.NewGaussian(p.NoiseStd, p.Seed))
}

// SimulateWith runs from x0 drawing measurement noise from gen.
func (s *Simulator) SimulateWith(ctx context.Context, x0 dynamo.State, gen dynamo.NoiseSource) (*Result, error) {
	return s.run(ctx, s.params, x0, gen)
}

func (s *Simulator) run(ctx context.Context, p dynamo.Params, x0 dynamo.State, gen dynamo.NoiseSource) (*Result, error) {
	if len(x0) != dynamo.StateDim || !x0.IsValid() {
		return nil, fmt.Errorf("%w: initial state %v", dynamo.ErrInvalidState, x0)
	}

	result := &Result{
		Params:     p,
		Integrator: integratorName(s.integrator),
		Trajectory: dynamo.NewTrajectory(p.Steps + 1),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("simulation started",
		"integrator", result.Integrator,
		"sigma", p.Sigma, "rho", p.Rho, "beta", p.Beta,
		"noise_std", p.NoiseStd, "dt", p.Dt, "steps", p.Steps,
		"seed", p.Seed, "measurement", p.Measurement.String())

	x := x0.Clone()
	t := 0.0
	if err := s.record(result, t, x, x[dynamo.X], 0); err != nil {
		return result, err
	}

	for i := 0; i < p.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		step, err := s.Step(x, t, gen)
		if err != nil {
			s.logger.Warn("simulation diverged", "step", i+1, "t", t+p.Dt)
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i + 1, Time: t + p.Dt, State: x.Clone(), Wrapped: err}
		}

		// k·dt rather than an accumulated sum keeps snapshot times exact.
		t = float64(i+1) * p.Dt
		x = step.State
		if err := s.record(result, t, x, step.Measurement, step.Noise); err != nil {
			s.collect(result)
			return result, err
		}
		result.StepsTaken++
	}

	s.collect(result)
	s.logger.Debug("simulation finished", "steps", result.StepsTaken, "metrics", result.Metrics)
	return result, nil
}

// record stores a snapshot and shows it to the metrics with u = (xm, η).
func (s *Simulator) record(result *Result, t float64, x dynamo.State, xm, eta float64) error {
	if err := result.Trajectory.Record(t, x, xm); err != nil {
		return err
	}
	u := dynamo.Control{xm, eta}
	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	return nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func integratorName(integ dynamo.Integrator) string {
	if n, ok := integ.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", integ)
}
