// Package physics provides the vector fields of the Lorenz plant and its
// hierarchical observer.
//
//   - [LorenzField]: the plant (ẋ, ẏ, ż)
//   - [ObserverYZField]: reduced-order observer for (ŷ, ẑ) driven by the noisy x measurement
//   - [ObserverXField]: first-order filter for x̂ driven by ŷ
//   - [Augmented]: the six-component system integrated in lockstep, a
//     [dynamo.System]
//
// The vector fields are pure functions of their arguments. Non-finite input
// produces non-finite output; divergence is left for the integrator loop to
// detect.
//
// # Contraction
//
// The symmetric part of the Observer-YZ Jacobian is diag(−1, −β), negative
// definite whenever β > 0, so the (ŷ, ẑ) error contracts at rate min(1, β).
// Observer-X has Jacobian −σ and is cascaded on ŷ, which keeps the whole
// estimator contracting:
//
//	j := physics.ObserverJacobian(xm, p)
//	// symmetric part of j is block diagonal with negative entries
package physics
