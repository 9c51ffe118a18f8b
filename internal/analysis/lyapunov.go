package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Accumulate ln(|δx(t)|/δ0) after every step
// 3. Pull the perturbed trajectory back to distance δ0
// 4. λ ≈ Σ ln(|δx|/δ0) / duration
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	ctrl := make(dynamo.Control, dyn.ControlDim())
	steps := int(math.Round(duration / dt))
	if steps == 0 {
		return 0
	}

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = integ.Step(dyn, x, ctrl, t, dt)
		xp = integ.Step(dyn, xp, ctrl, t, dt)

		sep := floats.Distance(x, xp, 2)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return math.NaN()
		}
		sumLog += math.Log(sep / d0)

		// Renormalize so the separation stays in the linear regime.
		scale := d0 / sep
		for k := range xp {
			xp[k] = x[k] + (xp[k]-x[k])*scale
		}
	}

	return sumLog / (float64(steps) * dt)
}
