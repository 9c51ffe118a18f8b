package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

func TestObserverYZField(t *testing.T) {
	dy, dz := ObserverYZField(2, 3, 4, 28, 8.0/3.0)

	if dy != 28*2-3-2*4 {
		t.Errorf("dŷ = %v, want 45", dy)
	}
	if math.Abs(dz-(-8.0/3.0*4+6)) > 1e-12 {
		t.Errorf("dẑ = %v", dz)
	}
}

func TestObserverYZMatchesPlantOnDiagonal(t *testing.T) {
	x, y, z := 3.5, -2.25, 17.0
	_, dy, dz := LorenzField(x, y, z, 10, 28, 8.0/3.0)
	dyHat, dzHat := ObserverYZField(x, y, z, 28, 8.0/3.0)

	if dy != dyHat || dz != dzHat {
		t.Errorf("observer (%v, %v) differs from plant (%v, %v) with exact measurement", dyHat, dzHat, dy, dz)
	}
}

func TestObserverXField(t *testing.T) {
	if got := ObserverXField(5, 3, 10); got != 20 {
		t.Errorf("ObserverXField = %v, want 20", got)
	}
	if got := ObserverXField(1, 1, 10); got != 0 {
		t.Errorf("ObserverXField at rest = %v", got)
	}
}

func TestObserverYZJacobianSymmetricPart(t *testing.T) {
	beta := 8.0 / 3.0
	for _, xm := range []float64{-20, 0, 3.7, 40} {
		s := SymmetricPart(ObserverYZJacobian(xm, beta))
		want := mat.NewSymDense(2, []float64{-1, 0, 0, -beta})
		if !mat.EqualApprox(s, want, 1e-12) {
			t.Errorf("xm=%v: symmetric part = %v, want diag(-1, -β)", xm, mat.Formatted(s))
		}
	}
}

func TestObserverJacobianIsBlockTriangular(t *testing.T) {
	j := ObserverJacobian(5, 10, 8.0/3.0)
	// x̂ row depends on ŷ, but neither ŷ nor ẑ depend on x̂.
	if j.At(1, 0) != 0 || j.At(2, 0) != 0 {
		t.Errorf("YZ block depends on x̂: %v", mat.Formatted(j))
	}
	if j.At(0, 0) != -10 || j.At(0, 1) != 10 {
		t.Errorf("unexpected x̂ row: %v", mat.Formatted(j))
	}
}

func TestAugmentedDerive(t *testing.T) {
	p := dynamo.DefaultParams()
	a := NewAugmented(p)
	s := dynamo.NewState([3]float64{1, 2, 3}, [3]float64{0.5, 1.5, 2.5})

	d := a.Derive(s, dynamo.Control{0.25}, 0)
	if len(d) != dynamo.StateDim {
		t.Fatalf("expected %d derivatives, got %d", dynamo.StateDim, len(d))
	}

	dx, dy, dz := LorenzField(1, 2, 3, p.Sigma, p.Rho, p.Beta)
	dyHat, dzHat := ObserverYZField(1.25, 1.5, 2.5, p.Rho, p.Beta)
	want := dynamo.State{dx, dy, dz, ObserverXField(1.5, 0.5, p.Sigma), dyHat, dzHat}
	for i := range want {
		if d[i] != want[i] {
			t.Errorf("component %d: got %v, want %v", i, d[i], want[i])
		}
	}
}

func TestAugmentedMeasurementModes(t *testing.T) {
	s := dynamo.NewState([3]float64{4, 0, 0}, [3]float64{})

	stage := NewAugmented(dynamo.DefaultParams())
	u := stage.Control(s, 0.5)
	if got := stage.Measurement(s, u); got != 4.5 {
		t.Errorf("stage measurement = %v, want 4.5", got)
	}
	moved := s.Clone()
	moved[dynamo.X] = 6
	if got := stage.Measurement(moved, u); got != 6.5 {
		t.Errorf("stage measurement does not follow the stage state: %v", got)
	}

	hold := NewAugmented(dynamo.DefaultParams().WithMeasurement(dynamo.MeasureHold))
	u = hold.Control(s, 0.5)
	if got := hold.Measurement(moved, u); got != 4.5 {
		t.Errorf("held measurement = %v, want 4.5", got)
	}
	if hold.Mode() != dynamo.MeasureHold {
		t.Errorf("Mode() = %v", hold.Mode())
	}
}
