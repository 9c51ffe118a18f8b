package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0, 0, 0, 0}, true},
		{"with NaN", State{1.0, math.NaN(), 0, 0, 0, 0}, false},
		{"with +Inf in estimate", State{1, 1, 1, 0, math.Inf(1), 0}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestNewState_Layout(t *testing.T) {
	s := NewState([3]float64{1, 2, 3}, [3]float64{4, 5, 6})
	if len(s) != StateDim {
		t.Fatalf("expected %d components, got %d", StateDim, len(s))
	}
	if s[X] != 1 || s[Y] != 2 || s[Z] != 3 || s[XHat] != 4 || s[YHat] != 5 || s[ZHat] != 6 {
		t.Errorf("unexpected layout: %v", s)
	}
	if s.Plant() != [3]float64{1, 2, 3} {
		t.Errorf("Plant() = %v", s.Plant())
	}
	if s.Estimate() != [3]float64{4, 5, 6} {
		t.Errorf("Estimate() = %v", s.Estimate())
	}
}

func TestState_EstimationError(t *testing.T) {
	s := NewState([3]float64{100, 1, 1}, [3]float64{-100, 4, 5})
	if got := s.EstimationError(); math.Abs(got-5) > 1e-12 {
		t.Errorf("EstimationError() = %v, want 5 (x channel excluded)", got)
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone shares storage with the original")
	}
}

func TestParseMeasurementMode(t *testing.T) {
	tests := []struct {
		in       string
		want     MeasurementMode
		wantName string
		wantErr  bool
	}{
		{"", MeasureStage, "stage", false},
		{"stage", MeasureStage, "stage", false},
		{"hold", MeasureHold, "hold", false},
		{"sample", 0, "", true},
	}
	for _, tt := range tests {
		got, err := ParseMeasurementMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMeasurementMode(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMeasurementMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != tt.wantName {
			t.Errorf("String() = %q for input %q", got.String(), tt.in)
		}
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrUnstable}
	expected := "step 150 (t=1.5000): " + ErrUnstable.Error()
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
}
