package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// ErrorSeries holds estimate minus truth for every snapshot of a run.
type ErrorSeries struct {
	Times []float64
	X     []float64
	Y     []float64
	Z     []float64
	// YZ is ‖(ŷ, ẑ) − (y, z)‖.
	YZ []float64
}

// Errors computes the estimation errors of a trajectory.
func Errors(tr *dynamo.Trajectory) ErrorSeries {
	n := tr.Len()
	es := ErrorSeries{
		Times: tr.Times(),
		X:     make([]float64, n),
		Y:     make([]float64, n),
		Z:     make([]float64, n),
		YZ:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s := tr.At(i).State
		es.X[i] = s[dynamo.XHat] - s[dynamo.X]
		es.Y[i] = s[dynamo.YHat] - s[dynamo.Y]
		es.Z[i] = s[dynamo.ZHat] - s[dynamo.Z]
		es.YZ[i] = s.EstimationError()
	}
	return es
}

// EstimateDistance returns, per snapshot, the Euclidean distance between the
// (x̂, ŷ, ẑ) estimates of two runs. The shorter run bounds the length.
func EstimateDistance(a, b *dynamo.Trajectory) []float64 {
	n := min(a.Len(), b.Len())
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		ea, eb := a.At(i).State.Estimate(), b.At(i).State.Estimate()
		out[i] = floats.Distance(ea[:], eb[:], 2)
	}
	return out
}
