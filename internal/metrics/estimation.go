package metrics

import (
	"math"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// EstimationRMS is the RMS of ‖(ŷ, ẑ) − (y, z)‖ over the snapshots observed
// after the first Skip ones, so the initial transient can be excluded.
type EstimationRMS struct {
	name    string
	Skip    int
	seen    int
	sumSq   float64
	samples int
}

func NewEstimationRMS(skip int) *EstimationRMS {
	return &EstimationRMS{name: "estimation_rms", Skip: skip}
}

func (e *EstimationRMS) Name() string { return e.name }

func (e *EstimationRMS) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.seen++
	if e.seen <= e.Skip {
		return
	}
	d := x.EstimationError()
	e.sumSq += d * d
	e.samples++
}

func (e *EstimationRMS) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *EstimationRMS) Reset() {
	e.seen = 0
	e.sumSq = 0
	e.samples = 0
}

// FinalEstimation is the reduced-order estimation error of the last
// observed snapshot.
type FinalEstimation struct {
	last float64
}

func NewFinalEstimation() *FinalEstimation { return &FinalEstimation{} }

func (f *FinalEstimation) Name() string { return "estimation_final" }
func (f *FinalEstimation) Observe(x dynamo.State, u dynamo.Control, t float64) {
	f.last = x.EstimationError()
}
func (f *FinalEstimation) Value() float64 { return f.last }
func (f *FinalEstimation) Reset()         { f.last = 0 }

// Default returns a fresh set of the standard run metrics.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewEstimationRMS(100),
		NewFinalEstimation(),
		NewEnvelope(),
		NewMeasurementNoise(),
	}
}
