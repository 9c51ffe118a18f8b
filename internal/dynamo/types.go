package dynamo

import (
	"fmt"
	"math"
)

// Indices of the augmented state components.
const (
	X = iota
	Y
	Z
	XHat
	YHat
	ZHat

	StateDim
)

// State is the augmented state: the true plant state (x, y, z) followed by
// the observer estimate (x̂, ŷ, ẑ).
type State []float64

// NewState builds an augmented state from a plant state and an estimate.
func NewState(plant, estimate [3]float64) State {
	return State{plant[0], plant[1], plant[2], estimate[0], estimate[1], estimate[2]}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Plant returns the true state (x, y, z).
func (s State) Plant() [3]float64 { return [3]float64{s[X], s[Y], s[Z]} }

// Estimate returns the observer state (x̂, ŷ, ẑ).
func (s State) Estimate() [3]float64 { return [3]float64{s[XHat], s[YHat], s[ZHat]} }

// EstimationError returns ‖(ŷ, ẑ) − (y, z)‖, the error of the reduced-order
// observer.
func (s State) EstimationError() float64 {
	return math.Hypot(s[YHat]-s[Y], s[ZHat]-s[Z])
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Control is the exogenous input held across one integration step. For the
// observer system it carries the measurement noise sample (see
// [MeasurementMode]).
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a System by one fixed step. The input u is held
// constant across every sub-stage of the step.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// NoiseSource yields one measurement noise sample per call.
type NoiseSource interface {
	Next() float64
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

// MeasurementMode selects how the noisy measurement xm is formed inside a step.
type MeasurementMode int

const (
	// MeasureStage evaluates xm = x + η at every sub-stage, with x taken from
	// the stage state and η drawn once per step. It departs from a measurement
	// held over the step so that a noise-free estimate started on the plant
	// stays on it to rounding.
	MeasureStage MeasurementMode = iota
	// MeasureHold holds xm = x(t_n) + η constant across the whole step.
	MeasureHold
)

func (m MeasurementMode) String() string {
	switch m {
	case MeasureStage:
		return "stage"
	case MeasureHold:
		return "hold"
	default:
		return "unknown"
	}
}

// ParseMeasurementMode maps "stage" or "hold" to a MeasurementMode. An empty
// name selects MeasureStage.
func ParseMeasurementMode(name string) (MeasurementMode, error) {
	switch name {
	case "", "stage":
		return MeasureStage, nil
	case "hold":
		return MeasureHold, nil
	}
	return 0, fmt.Errorf("%w: measurement mode %q", ErrInvalidParams, name)
}
