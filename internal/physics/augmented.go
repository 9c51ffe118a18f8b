package physics

import "github.com/san-kum/lorenzobs/internal/dynamo"

// Augmented is the plant and both observers as one six-component system.
//
// The control input carries a single value whose meaning depends on the
// measurement mode: with MeasureStage it is the noise sample η and the
// measurement is formed from the stage state as x + η; with MeasureHold it
// is the full measurement xm held over the step.
type Augmented struct {
	sigma, rho, beta float64
	mode             dynamo.MeasurementMode
}

func NewAugmented(p dynamo.Params) *Augmented {
	return &Augmented{sigma: p.Sigma, rho: p.Rho, beta: p.Beta, mode: p.Measurement}
}

func (a *Augmented) StateDim() int   { return dynamo.StateDim }
func (a *Augmented) ControlDim() int { return 1 }

// Mode reports how Derive interprets its control input.
func (a *Augmented) Mode() dynamo.MeasurementMode { return a.mode }

// Measurement returns the noisy x measurement seen by the observer in state s.
func (a *Augmented) Measurement(s dynamo.State, u dynamo.Control) float64 {
	if a.mode == dynamo.MeasureHold {
		return u[0]
	}
	if len(u) == 0 {
		return s[dynamo.X]
	}
	return s[dynamo.X] + u[0]
}

// Derive calculates the combined derivative (ẋ, ẏ, ż, x̂̇, ŷ̇, ẑ̇). The
// observer-X channel is driven by the current ŷ, not by xm.
func (a *Augmented) Derive(s dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	xm := a.Measurement(s, u)
	dx, dy, dz := LorenzField(s[dynamo.X], s[dynamo.Y], s[dynamo.Z], a.sigma, a.rho, a.beta)
	dyHat, dzHat := ObserverYZField(xm, s[dynamo.YHat], s[dynamo.ZHat], a.rho, a.beta)
	dxHat := ObserverXField(s[dynamo.YHat], s[dynamo.XHat], a.sigma)
	return dynamo.State{dx, dy, dz, dxHat, dyHat, dzHat}
}

// Control returns the input to hold over a step starting at x with noise
// sample eta.
func (a *Augmented) Control(x dynamo.State, eta float64) dynamo.Control {
	if a.mode == dynamo.MeasureHold {
		return dynamo.Control{x[dynamo.X] + eta}
	}
	return dynamo.Control{eta}
}
