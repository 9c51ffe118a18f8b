package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int   { return 2 }
func (h *harmonicOscillator) ControlDim() int { return 0 }

func (h *harmonicOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// drivenDecay is ẋ = −x + u with u held over the step.
type drivenDecay struct{}

func (d *drivenDecay) StateDim() int   { return 1 }
func (d *drivenDecay) ControlDim() int { return 1 }
func (d *drivenDecay) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{-x[0] + u[0]}
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4HeldControl(t *testing.T) {
	dyn := &drivenDecay{}
	integ := NewRK4()

	x := dynamo.State{0}
	u := dynamo.Control{2}
	dt := 0.05
	for i := 0; i < 40; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	want := 2 * (1 - math.Exp(-2.0))
	if math.Abs(x[0]-want) > 1e-6 {
		t.Errorf("got %.8f, want %.8f", x[0], want)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1, 0}
	_ = integ.Step(&harmonicOscillator{}, x, nil, 0, 0.1)
	if x[0] != 1 || x[1] != 0 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestConvergenceOrder(t *testing.T) {
	dyn := &harmonicOscillator{}
	final := func(m Method, dt float64) float64 {
		x := dynamo.State{1, 0}
		n := int(math.Round(1.0 / dt))
		for i := 0; i < n; i++ {
			x = m.Step(dyn, x, nil, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Cos(1.0))
	}

	for _, name := range []string{"euler", "rk4"} {
		m, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		coarse, fine := final(m, 0.02), final(m, 0.01)
		order := math.Log2(coarse / fine)
		if math.Abs(order-float64(m.Order())) > 0.3 {
			t.Errorf("%s: observed order %.2f, want %d", name, order, m.Order())
		}
	}
}
