package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Params is the parameter set of one run. It is passed by value so that a
// run and all of its vector fields see the same read-only copy.
type Params struct {
	Sigma    float64
	Rho      float64
	Beta     float64
	NoiseStd float64
	Dt       float64
	Steps    int

	// Seed is only meaningful when Seeded is true. An unseeded run draws its
	// noise from a randomly seeded stream and is not reproducible.
	Seed   uint64
	Seeded bool

	Measurement MeasurementMode
}

// DefaultParams returns the classic chaotic Lorenz parameters with unit
// measurement noise.
func DefaultParams() Params {
	return Params{
		Sigma:    10.0,
		Rho:      28.0,
		Beta:     8.0 / 3.0,
		NoiseStd: 1.0,
		Dt:       0.01,
		Steps:    2000,
	}
}

// NewParams builds and validates an unseeded parameter set.
func NewParams(sigma, rho, beta, noiseStd, dt float64, steps int) (Params, error) {
	p := Params{
		Sigma:    sigma,
		Rho:      rho,
		Beta:     beta,
		NoiseStd: noiseStd,
		Dt:       dt,
		Steps:    steps,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// WithSeed returns a copy of p with a fixed noise seed.
func (p Params) WithSeed(seed uint64) Params {
	p.Seed = seed
	p.Seeded = true
	return p
}

// WithMeasurement returns a copy of p using the given measurement mode.
func (p Params) WithMeasurement(m MeasurementMode) Params {
	p.Measurement = m
	return p
}

// Duration is the simulated time span Steps·Dt.
func (p Params) Duration() float64 {
	return float64(p.Steps) * p.Dt
}

// Validate reports every violated constraint, each wrapping ErrInvalidParams.
func (p Params) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidParams, name, v))
		}
	}
	positive("sigma", p.Sigma)
	positive("rho", p.Rho)
	positive("beta", p.Beta)
	positive("dt", p.Dt)
	if !(p.NoiseStd >= 0) || math.IsInf(p.NoiseStd, 0) {
		errs = append(errs, fmt.Errorf("%w: noise_std must be non-negative and finite, got %g", ErrInvalidParams, p.NoiseStd))
	}
	if p.Steps <= 0 {
		errs = append(errs, fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidParams, p.Steps))
	}
	if p.Measurement != MeasureStage && p.Measurement != MeasureHold {
		errs = append(errs, fmt.Errorf("%w: unknown measurement mode %d", ErrInvalidParams, int(p.Measurement)))
	}
	return errors.Join(errs...)
}
