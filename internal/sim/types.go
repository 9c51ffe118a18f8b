package sim

import (
	"log/slog"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// Result is the outcome of one run. On a Numerical Instability failure it
// still holds every snapshot recorded before the failing step.
type Result struct {
	Params     dynamo.Params
	Integrator string
	Trajectory *dynamo.Trajectory
	Metrics    map[string]float64
	StepsTaken int
}

// StepResult is the output of a single integration step.
type StepResult struct {
	State       dynamo.State
	Time        float64
	Measurement float64
	Noise       float64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics registers metrics observed on every recorded snapshot.
func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Simulator) {
		s.metrics = append(s.metrics, ms...)
	}
}
