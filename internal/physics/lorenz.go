package physics

import "github.com/san-kum/lorenzobs/internal/dynamo"

// LorenzField returns (σ(y−x), ρx−y−xz, −βz+xy).
func LorenzField(x, y, z, sigma, rho, beta float64) (dx, dy, dz float64) {
	dx = sigma * (y - x)
	dy = rho*x - y - x*z
	dz = -beta*z + x*y
	return dx, dy, dz
}

// Lorenz is the bare plant as a dynamo.System, used for chaos analysis.
type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz(p dynamo.Params) *Lorenz { return &Lorenz{p.Sigma, p.Rho, p.Beta} }
func (l *Lorenz) StateDim() int       { return 3 }
func (l *Lorenz) ControlDim() int     { return 0 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	dx, dy, dz := LorenzField(s[0], s[1], s[2], l.sigma, l.rho, l.beta)
	return dynamo.State{dx, dy, dz}
}
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}
