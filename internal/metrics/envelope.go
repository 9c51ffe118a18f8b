package metrics

import (
	"math"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// Envelope is the fraction of snapshots whose plant state stays inside the
// box |x| ≤ XY, |y| ≤ XY, ZMin ≤ z ≤ ZMax.
type Envelope struct {
	name       string
	XY         float64
	ZMin, ZMax float64
	violations int
	samples    int
}

// NewEnvelope returns the envelope of the classic attractor (σ=10, ρ=28, β=8/3).
func NewEnvelope() *Envelope {
	return &Envelope{
		name: "envelope",
		XY:   30,
		ZMin: -1,
		ZMax: 55,
	}
}

func (e *Envelope) Name() string {
	return e.name
}

func (e *Envelope) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.samples++
	if math.Abs(x[dynamo.X]) > e.XY || math.Abs(x[dynamo.Y]) > e.XY ||
		x[dynamo.Z] < e.ZMin || x[dynamo.Z] > e.ZMax {
		e.violations++
	}
}

func (e *Envelope) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Envelope) Reset() {
	e.violations = 0
	e.samples = 0
}
