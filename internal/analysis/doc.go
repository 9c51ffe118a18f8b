// Package analysis provides convergence and chaos analysis of simulated runs.
//
//   - [Errors]: per-snapshot estimation errors of a run
//   - [EstimateDistance]: distance between the estimates of two runs
//   - [Certify]: contraction certificate of the observer Jacobians
//   - [ContractionRate]: exponential decay rate fitted to an error series
//   - [LyapunovExponent]: largest Lyapunov exponent of the plant
//   - [Spread]: mean distance from the ensemble centroid over time
//
// # Contraction
//
// Two observers driven by the same measurement converge exponentially
// toward each other at a rate of at least min(1, β):
//
//	d := analysis.EstimateDistance(a.Trajectory, b.Trajectory)
//	rate, _ := analysis.ContractionRate(d, p.Dt, 0, len(d))
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), x0, dt, duration, 1e-8)
package analysis
