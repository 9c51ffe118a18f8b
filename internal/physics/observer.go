package physics

import "gonum.org/v1/gonum/mat"

// ObserverYZField returns the derivative of the reduced-order estimate:
// (ρ·xm − ŷ − xm·ẑ, −β·ẑ + xm·ŷ).
//
// β must be positive for the field to be contracting; the caller validates it.
func ObserverYZField(xm, yHat, zHat, rho, beta float64) (dyHat, dzHat float64) {
	dyHat = rho*xm - yHat - xm*zHat
	dzHat = -beta*zHat + xm*yHat
	return dyHat, dzHat
}

// ObserverXField returns σ(ŷ − x̂).
func ObserverXField(yHat, xHat, sigma float64) float64 {
	return sigma * (yHat - xHat)
}

// ObserverYZJacobian is ∂(ŷ̇, ẑ̇)/∂(ŷ, ẑ) = [[−1, −xm], [xm, −β]].
func ObserverYZJacobian(xm, beta float64) *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		-1, -xm,
		xm, -beta,
	})
}

// ObserverJacobian is the Jacobian of the whole estimator (x̂, ŷ, ẑ) with
// respect to itself. The x̂ row only depends on ŷ, so the matrix is block
// upper-triangular: a cascade of two contracting blocks.
func ObserverJacobian(xm, sigma, beta float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		-sigma, sigma, 0,
		0, -1, -xm,
		0, xm, -beta,
	})
}

// SymmetricPart returns (J + Jᵀ)/2.
func SymmetricPart(j mat.Matrix) *mat.SymDense {
	r, c := j.Dims()
	if r != c {
		panic("physics: symmetric part of a non-square matrix")
	}
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for k := i; k < r; k++ {
			s.SetSym(i, k, 0.5*(j.At(i, k)+j.At(k, i)))
		}
	}
	return s
}
