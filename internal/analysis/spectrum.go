package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns |FFT| of a series sampled every dt, after removing
// its mean. Only frequencies up to Nyquist are kept.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := stat.Mean(data, nil)
	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	half := n/2 + 1
	s := Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return s
}

// Dominant returns the frequency with the largest power, skipping DC.
func (s Spectrum) Dominant() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}

// Flatness is the ratio of the geometric to the arithmetic mean power
// (Wiener entropy), skipping DC. White noise is close to 1; a pure tone is
// close to 0.
func (s Spectrum) Flatness() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	p := s.Power[1:]
	logSum := 0.0
	for _, v := range p {
		if v <= 0 {
			return 0
		}
		logSum += math.Log(v * v)
	}
	n := float64(len(p))
	geo := math.Exp(logSum / n)
	sq := make([]float64, len(p))
	for i, v := range p {
		sq[i] = v * v
	}
	return geo / stat.Mean(sq, nil)
}
