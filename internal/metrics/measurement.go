package metrics

import (
	"math"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// MeasurementNoise is the RMS of the realised measurement noise η over the
// observed snapshots.
type MeasurementNoise struct {
	name    string
	sumSq   float64
	samples int
}

func NewMeasurementNoise() *MeasurementNoise {
	return &MeasurementNoise{
		name: "measurement_noise_rms",
	}
}

func (m *MeasurementNoise) Name() string {
	return m.name
}

// Observe expects u to be (xm, η) as recorded by the simulator.
func (m *MeasurementNoise) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) < 2 {
		return
	}
	m.sumSq += u[1] * u[1]
	m.samples++
}

func (m *MeasurementNoise) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *MeasurementNoise) Reset() {
	m.sumSq = 0
	m.samples = 0
}
