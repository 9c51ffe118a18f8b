package dynamo

import "fmt"

// Snapshot is one recorded point of a run.
type Snapshot struct {
	Time  float64
	State State

	// Measurement is the noisy xm that produced this snapshot. The initial
	// snapshot carries the noise-free x0.
	Measurement float64
}

// Trajectory is an append-only log of snapshots in strictly increasing time.
type Trajectory struct {
	snaps []Snapshot
}

// NewTrajectory returns an empty trajectory with room for n snapshots.
func NewTrajectory(n int) *Trajectory {
	if n < 0 {
		n = 0
	}
	return &Trajectory{snaps: make([]Snapshot, 0, n)}
}

// Record appends a snapshot. The state is copied; later edits by the caller
// do not reach the store.
func (tr *Trajectory) Record(t float64, x State, measurement float64) error {
	if n := len(tr.snaps); n > 0 && !(t > tr.snaps[n-1].Time) {
		return fmt.Errorf("%w: %g after %g", ErrNonMonotonicTime, t, tr.snaps[n-1].Time)
	}
	tr.snaps = append(tr.snaps, Snapshot{Time: t, State: x.Clone(), Measurement: measurement})
	return nil
}

// History returns every snapshot in recording order. The returned slice and
// states are copies.
func (tr *Trajectory) History() []Snapshot {
	out := make([]Snapshot, len(tr.snaps))
	for i, s := range tr.snaps {
		out[i] = Snapshot{Time: s.Time, State: s.State.Clone(), Measurement: s.Measurement}
	}
	return out
}

func (tr *Trajectory) Len() int { return len(tr.snaps) }

// At returns a copy of the i-th snapshot.
func (tr *Trajectory) At(i int) Snapshot {
	s := tr.snaps[i]
	return Snapshot{Time: s.Time, State: s.State.Clone(), Measurement: s.Measurement}
}

// Last returns a copy of the most recent snapshot and false when empty.
func (tr *Trajectory) Last() (Snapshot, bool) {
	if len(tr.snaps) == 0 {
		return Snapshot{}, false
	}
	return tr.At(len(tr.snaps) - 1), true
}

// Times returns the recorded times.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.snaps))
	for i, s := range tr.snaps {
		out[i] = s.Time
	}
	return out
}

// Component returns the time series of one state component.
func (tr *Trajectory) Component(idx int) []float64 {
	out := make([]float64, len(tr.snaps))
	for i, s := range tr.snaps {
		out[i] = s.State[idx]
	}
	return out
}

// Measurements returns the recorded noisy measurements.
func (tr *Trajectory) Measurements() []float64 {
	out := make([]float64, len(tr.snaps))
	for i, s := range tr.snaps {
		out[i] = s.Measurement
	}
	return out
}
