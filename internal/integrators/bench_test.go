package integrators

import (
	"testing"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// benchLorenzObserver is the augmented six-component system with the
// measurement taken from the stage state.
type benchLorenzObserver struct{}

func (b *benchLorenzObserver) StateDim() int   { return 6 }
func (b *benchLorenzObserver) ControlDim() int { return 1 }
func (b *benchLorenzObserver) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	xm := x[0] + u[0]
	return dynamo.State{
		10 * (x[1] - x[0]),
		28*x[0] - x[1] - x[0]*x[2],
		-8.0/3.0*x[2] + x[0]*x[1],
		10 * (x[4] - x[3]),
		28*xm - x[4] - xm*x[5],
		-8.0/3.0*x[5] + xm*x[4],
	}
}

func benchmarkMethod(b *testing.B, m Method) {
	dyn := &benchLorenzObserver{}
	x := dynamo.State{1, 1, 1, 0, 0, 0}
	u := dynamo.Control{0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = m.Step(dyn, x, u, 0, 0.001)
		if i%10000 == 0 {
			x = dynamo.State{1, 1, 1, 0, 0, 0}
		}
	}
}

func BenchmarkEuler(b *testing.B)  { benchmarkMethod(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)    { benchmarkMethod(b, NewRK4()) }
func BenchmarkDopri5(b *testing.B) { benchmarkMethod(b, NewDormandPrince()) }
