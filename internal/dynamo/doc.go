// Package dynamo provides the core simulation primitives for the Lorenz
// plant and its hierarchical observer.
//
// The package defines the fundamental types shared by every other package:
//
//   - [State]: the augmented state (x, y, z, x̂, ŷ, ẑ)
//   - [Params]: the immutable parameter set of one run
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [NoiseSource]: per-step measurement noise
//   - [Trajectory]: append-only store of timestamped snapshots
//
// # Example
//
//	p, _ := dynamo.NewParams(10, 28, 8.0/3.0, 1.0, 0.01, 2000)
//	x0 := dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0})
//	s, _ := sim.New(p.WithSeed(42), integrators.NewRK4())
//	res, err := s.Simulate(ctx, x0)
//
// # Thread Safety
//
// Params and State values are safe to share once built. Trajectory is
// owned by a single run and is not safe for concurrent appends.
package dynamo
