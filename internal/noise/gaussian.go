// Package noise generates the measurement noise of one run.
package noise

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// Gaussian draws i.i.d. Normal(0, std²) samples from a private PCG stream.
// A Gaussian must not be shared between runs.
type Gaussian struct {
	dist  distuv.Normal
	draws int
}

// NewGaussian returns a generator with a fixed seed.
func NewGaussian(std float64, seed uint64) *Gaussian {
	return &Gaussian{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: std,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

// Next draws the next sample and advances the stream by one draw.
func (g *Gaussian) Next() float64 {
	g.draws++
	return g.dist.Rand()
}

// Draws reports how many samples have been taken.
func (g *Gaussian) Draws() int { return g.draws }

var _ dynamo.NoiseSource = (*Gaussian)(nil)
