package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// Spread returns, for every snapshot index shared by all trajectories, the
// mean distance of the plant states (x, y, z) from their centroid. Nearby
// initial conditions on a chaotic attractor show exponential growth here.
func Spread(trs []*dynamo.Trajectory) []float64 {
	if len(trs) == 0 {
		return nil
	}
	n := trs[0].Len()
	for _, tr := range trs[1:] {
		n = min(n, tr.Len())
	}

	out := make([]float64, n)
	points := make([][3]float64, len(trs))
	for i := 0; i < n; i++ {
		var centroid [3]float64
		for k, tr := range trs {
			points[k] = tr.At(i).State.Plant()
			floats.Add(centroid[:], points[k][:])
		}
		floats.Scale(1/float64(len(trs)), centroid[:])

		sum := 0.0
		for k := range points {
			sum += floats.Distance(points[k][:], centroid[:], 2)
		}
		out[i] = sum / float64(len(trs))
	}
	return out
}
