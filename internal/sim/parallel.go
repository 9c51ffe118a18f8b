package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
)

// Member is the outcome of one ensemble trajectory. A diverged member keeps
// its partial Result next to Err.
type Member struct {
	Index  int
	Seed   uint64
	Result *Result
	Err    error
}

// Ensemble runs independent trajectories in parallel. Member i uses seed
// seedStart+i and owns its own integrator, noise stream and metrics, so no
// mutable state crosses worker boundaries.
type Ensemble struct {
	params     dynamo.Params
	integrator string
	seedStart  uint64
	workers    int
	metrics    func() []dynamo.Metric
	logger     *slog.Logger
}

// EnsembleOption configures an Ensemble.
type EnsembleOption func(*Ensemble)

// WithWorkers bounds the number of concurrently running members.
func WithWorkers(n int) EnsembleOption {
	return func(e *Ensemble) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMetricFactory builds a fresh metric set for every member.
func WithMetricFactory(fn func() []dynamo.Metric) EnsembleOption {
	return func(e *Ensemble) { e.metrics = fn }
}

// WithEnsembleLogger sets the logger shared by all members.
func WithEnsembleLogger(l *slog.Logger) EnsembleOption {
	return func(e *Ensemble) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEnsemble(p dynamo.Params, integrator string, seedStart uint64, opts ...EnsembleOption) (*Ensemble, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := integrators.New(integrator); err != nil {
		return nil, err
	}
	e := &Ensemble{
		params:     p,
		integrator: integrator,
		seedStart:  seedStart,
		workers:    runtime.GOMAXPROCS(0),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run simulates one member per initial state. A failing member never aborts
// its siblings; the caller inspects Member.Err.
func (e *Ensemble) Run(ctx context.Context, initial []dynamo.State) []Member {
	members := make([]Member, len(initial))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(e.workers, len(initial)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				members[idx] = e.runMember(ctx, idx, initial[idx])
			}
		}()
	}

	for i := range initial {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return members
}

func (e *Ensemble) runMember(ctx context.Context, idx int, x0 dynamo.State) Member {
	seed := e.seedStart + uint64(idx)
	m := Member{Index: idx, Seed: seed}

	integ, err := integrators.New(e.integrator)
	if err != nil {
		m.Err = err
		return m
	}
	opts := []Option{WithLogger(e.logger.With("member", idx))}
	if e.metrics != nil {
		opts = append(opts, WithMetrics(e.metrics()...))
	}
	s, err := New(e.params.WithSeed(seed), integ, opts...)
	if err != nil {
		m.Err = err
		return m
	}
	m.Result, m.Err = s.Simulate(ctx, x0)
	return m
}

// PerturbedInitialStates returns n augmented states whose plant components
// are base plus Normal(0, scale²) perturbations. The estimate components are
// copied from base unchanged.
func PerturbedInitialStates(base dynamo.State, n int, scale float64, seed uint64) []dynamo.State {
	dist := distuv.Normal{Mu: 0, Sigma: scale, Src: rand.NewPCG(seed, ^seed)}
	out := make([]dynamo.State, n)
	for i := range out {
		x := base.Clone()
		x[dynamo.X] += dist.Rand()
		x[dynamo.Y] += dist.Rand()
		x[dynamo.Z] += dist.Rand()
		out[i] = x
	}
	return out
}
