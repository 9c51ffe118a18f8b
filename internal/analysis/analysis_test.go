package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/physics"
	"github.com/san-kum/lorenzobs/internal/sim"
)

func buildTrajectory(t *testing.T, states ...dynamo.State) *dynamo.Trajectory {
	t.Helper()
	tr := dynamo.NewTrajectory(len(states))
	for i, s := range states {
		require.NoError(t, tr.Record(float64(i)*0.1, s, s[dynamo.X]))
	}
	return tr
}

func TestErrors(t *testing.T) {
	tr := buildTrajectory(t,
		dynamo.NewState([3]float64{1, 2, 3}, [3]float64{1, 2, 3}),
		dynamo.NewState([3]float64{1, 2, 3}, [3]float64{2, 5, 7}),
	)

	es := Errors(tr)
	require.Len(t, es.YZ, 2)
	assert.Equal(t, []float64{0, 0.1}, es.Times)
	assert.Zero(t, es.YZ[0])
	assert.Equal(t, 1.0, es.X[1])
	assert.Equal(t, 3.0, es.Y[1])
	assert.Equal(t, 4.0, es.Z[1])
	assert.InDelta(t, 5.0, es.YZ[1], 1e-12)
}

func TestEstimateDistance(t *testing.T) {
	a := buildTrajectory(t,
		dynamo.NewState([3]float64{}, [3]float64{0, 0, 0}),
		dynamo.NewState([3]float64{}, [3]float64{1, 1, 1}),
		dynamo.NewState([3]float64{}, [3]float64{2, 2, 2}),
	)
	b := buildTrajectory(t,
		dynamo.NewState([3]float64{}, [3]float64{3, 4, 0}),
		dynamo.NewState([3]float64{}, [3]float64{1, 1, 1}),
	)

	d := EstimateDistance(a, b)
	assert.Equal(t, []float64{5, 0}, d)
}

func TestCertifyDefaultParams(t *testing.T) {
	p := dynamo.DefaultParams()

	for _, xm := range []float64{-25, 0, 12.5} {
		c, err := Certify(p, xm)
		require.NoError(t, err)

		require.Len(t, c.YZEigen, 2)
		assert.InDelta(t, -p.Beta, c.YZEigen[0], 1e-12)
		assert.InDelta(t, -1, c.YZEigen[1], 1e-12)
		assert.Equal(t, -p.Sigma, c.XEigen)
		assert.InDelta(t, 1.0, c.Rate, 1e-12)
		assert.True(t, c.Contracting)
	}
}

func TestCertifySmallBeta(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Beta = 0.5

	c, err := Certify(p, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Rate, 1e-12)
}

func TestContractionRateExactExponential(t *testing.T) {
	dt := 0.01
	errs := make([]float64, 500)
	for i := range errs {
		errs[i] = 3 * math.Exp(-2.5*float64(i)*dt)
	}

	rate, err := ContractionRate(errs, dt, 0, len(errs))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, rate, 1e-9)

	// A window fit sees the same slope.
	rate, err = ContractionRate(errs, dt, 100, 200)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, rate, 1e-9)
}

func TestContractionRateTooFewPoints(t *testing.T) {
	_, err := ContractionRate([]float64{0, 0, 1}, 0.1, 0, 3)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = ContractionRate([]float64{1, 2, 3}, 0.1, 2, 100)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestLyapunovLorenzIsChaotic(t *testing.T) {
	p := dynamo.DefaultParams()
	lambda := LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0.01, 50, 1e-8)

	// The accepted value for the classic parameters is about 0.9.
	assert.Greater(t, lambda, 0.5)
	assert.Less(t, lambda, 1.4)
}

func TestLyapunovStableRegime(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Rho = 0.5 // origin is a global attractor
	lambda := LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0.01, 30, 1e-8)
	assert.Less(t, lambda, 0.0)
}

func TestLyapunovRejectsBadInput(t *testing.T) {
	p := dynamo.DefaultParams()
	assert.Zero(t, LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0, 10, 1e-8))
	assert.Zero(t, LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), nil, 0.01, 10, 1e-8))

	// Shorter than half a step rounds to zero steps.
	lambda := LyapunovExponent(physics.NewLorenz(p), integrators.NewRK4(), dynamo.State{1, 1, 1}, 0.01, 0.004, 1e-8)
	assert.False(t, math.IsNaN(lambda))
	assert.Zero(t, lambda)
}

func TestSpread(t *testing.T) {
	a := buildTrajectory(t,
		dynamo.NewState([3]float64{1, 0, 0}, [3]float64{}),
		dynamo.NewState([3]float64{2, 0, 0}, [3]float64{}),
	)
	b := buildTrajectory(t,
		dynamo.NewState([3]float64{-1, 0, 0}, [3]float64{}),
		dynamo.NewState([3]float64{-2, 0, 0}, [3]float64{}),
		dynamo.NewState([3]float64{-3, 0, 0}, [3]float64{}),
	)

	s := Spread([]*dynamo.Trajectory{a, b})
	require.Len(t, s, 2)
	assert.InDelta(t, 1.0, s[0], 1e-12)
	assert.InDelta(t, 2.0, s[1], 1e-12)
	assert.Nil(t, Spread(nil))
}

func TestTwoObserversContract(t *testing.T) {
	// Identical plant and noise, different initial estimates: the estimates
	// must converge at least at rate min(1, β).
	p := dynamo.DefaultParams().WithSeed(7)
	p.Steps = 600

	a, err := sim.Simulate(context.Background(), dynamo.NewState([3]float64{1, 1, 1}, [3]float64{0, 0, 0}), p)
	require.NoError(t, err)
	b, err := sim.Simulate(context.Background(), dynamo.NewState([3]float64{1, 1, 1}, [3]float64{5, -10, 30}), p)
	require.NoError(t, err)

	d := EstimateDistance(a.Trajectory, b.Trajectory)
	require.Len(t, d, p.Steps+1)

	rate, err := ContractionRate(d, p.Dt, 100, 400)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rate, 0.9)
}
