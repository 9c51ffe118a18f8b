package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/physics"
)

// ErrTooFewPoints is returned when a fit has fewer than two usable samples.
var ErrTooFewPoints = errors.New("analysis: too few positive samples to fit")

// Certificate is the contraction certificate of the cascaded observer: the
// eigenvalues of the symmetric part of each block Jacobian.
type Certificate struct {
	YZEigen []float64
	XEigen  float64
	// Rate is the guaranteed contraction rate, −max eigenvalue.
	Rate        float64
	Contracting bool
}

// Certify evaluates the certificate at measurement xm. The symmetric part of
// the Observer-YZ block does not depend on xm, so any value gives the same
// eigenvalues.
func Certify(p dynamo.Params, xm float64) (Certificate, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(physics.SymmetricPart(physics.ObserverYZJacobian(xm, p.Beta)), false); !ok {
		return Certificate{}, fmt.Errorf("analysis: eigen-decomposition of observer jacobian failed")
	}
	yz := eig.Values(nil)

	c := Certificate{YZEigen: yz, XEigen: -p.Sigma}
	maxEig := c.XEigen
	for _, v := range yz {
		maxEig = math.Max(maxEig, v)
	}
	c.Rate = -maxEig
	c.Contracting = maxEig < 0
	return c, nil
}

// ContractionRate fits log(e) = a − λ·t over samples [from, to) of an error
// series taken every dt and returns λ. Non-positive samples are skipped.
func ContractionRate(errs []float64, dt float64, from, to int) (float64, error) {
	from = max(from, 0)
	to = min(to, len(errs))

	var ts, logs []float64
	for i := from; i < to; i++ {
		if errs[i] > 0 && !math.IsInf(errs[i], 0) {
			ts = append(ts, float64(i)*dt)
			logs = append(logs, math.Log(errs[i]))
		}
	}
	if len(ts) < 2 {
		return 0, ErrTooFewPoints
	}
	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return -slope, nil
}
