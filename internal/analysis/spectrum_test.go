package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lorenzobs/internal/noise"
)

func TestPowerSpectrumFindsTone(t *testing.T) {
	dt := 0.01
	data := make([]float64, 1000)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	s := PowerSpectrum(data, dt)
	require.Len(t, s.Freqs, 501)
	assert.InDelta(t, 50.0, s.Freqs[len(s.Freqs)-1], 1e-9)

	freq, power := s.Dominant()
	assert.InDelta(t, 5.0, freq, 1e-9)
	assert.InDelta(t, 0.5, power, 1e-6)
	// The mean is removed before the transform.
	assert.Less(t, s.Power[0], 1e-9)
	assert.Less(t, s.Flatness(), 0.05)
}

func TestPowerSpectrumWhiteNoiseIsFlat(t *testing.T) {
	gen := noise.NewGaussian(1, 11)
	data := make([]float64, 4096)
	for i := range data {
		data[i] = gen.Next()
	}

	// Periodogram flatness of Gaussian noise is about e^{-γ} ≈ 0.56.
	flat := PowerSpectrum(data, 0.01).Flatness()
	assert.Greater(t, flat, 0.4)
	assert.Less(t, flat, 0.75)
}

func TestPowerSpectrumDegenerate(t *testing.T) {
	assert.Empty(t, PowerSpectrum([]float64{1}, 0.01).Freqs)
	assert.Empty(t, PowerSpectrum([]float64{1, 2}, 0).Freqs)
	assert.Zero(t, Spectrum{}.Flatness())
}
