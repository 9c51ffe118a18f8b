package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
)

const (
	DefaultSigma    = 10.0
	DefaultRho      = 28.0
	DefaultBeta     = 8.0 / 3.0
	DefaultNoiseStd = 1.0
	DefaultDt       = 0.01
	DefaultSteps    = 2000
	DefaultSeed     = 42

	DefaultEnsembleCount        = 100
	DefaultEnsemblePerturbation = 0.1
)

type Config struct {
	Sigma       float64        `yaml:"sigma"`
	Rho         float64        `yaml:"rho"`
	Beta        float64        `yaml:"beta"`
	NoiseStd    float64        `yaml:"noise_std"`
	Dt          float64        `yaml:"dt"`
	Steps       int            `yaml:"steps"`
	Seed        *uint64        `yaml:"seed,omitempty"`
	Integrator  string         `yaml:"integrator"`
	Measurement string         `yaml:"measurement"`
	InitState   InitState      `yaml:"init_state"`
	Ensemble    EnsembleConfig `yaml:"ensemble"`
}

// InitState is the initial plant state and observer estimate.
type InitState struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
	XHat float64 `yaml:"x_hat"`
	YHat float64 `yaml:"y_hat"`
	ZHat float64 `yaml:"z_hat"`
}

type EnsembleConfig struct {
	Count        int     `yaml:"count"`
	Perturbation float64 `yaml:"perturbation"`
}

// DefaultConfig is the reference scenario: classic Lorenz parameters, unit
// noise, seed 42, plant at (1, 1, 1) and estimate at the origin.
func DefaultConfig() *Config {
	seed := uint64(DefaultSeed)
	return &Config{
		Sigma:       DefaultSigma,
		Rho:         DefaultRho,
		Beta:        DefaultBeta,
		NoiseStd:    DefaultNoiseStd,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Seed:        &seed,
		Integrator:  integrators.Default,
		Measurement: dynamo.MeasureStage.String(),
		InitState:   InitState{X: 1, Y: 1, Z: 1},
		Ensemble: EnsembleConfig{
			Count:        DefaultEnsembleCount,
			Perturbation: DefaultEnsemblePerturbation,
		},
	}
}

// Load reads a YAML config. Fields missing from the file keep their
// DefaultConfig values.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads path over a copy of base. Keys absent from the file keep
// base's values; base itself is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Seed != nil {
		seed := *c.Seed
		cp.Seed = &seed
	}
	return &cp
}

// SetSeed fixes the noise seed.
func (c *Config) SetSeed(seed uint64) {
	c.Seed = &seed
}

// Params converts the config into a validated parameter set.
func (c *Config) Params() (dynamo.Params, error) {
	mode, err := dynamo.ParseMeasurementMode(c.Measurement)
	if err != nil {
		return dynamo.Params{}, err
	}
	p := dynamo.Params{
		Sigma:       c.Sigma,
		Rho:         c.Rho,
		Beta:        c.Beta,
		NoiseStd:    c.NoiseStd,
		Dt:          c.Dt,
		Steps:       c.Steps,
		Measurement: mode,
	}
	if c.Seed != nil {
		p = p.WithSeed(*c.Seed)
	}
	if err := p.Validate(); err != nil {
		return dynamo.Params{}, err
	}
	return p, nil
}

func (c *Config) GetInitState() dynamo.State {
	s := c.InitState
	return dynamo.NewState([3]float64{s.X, s.Y, s.Z}, [3]float64{s.XHat, s.YHat, s.ZHat})
}

// Validate checks the parameters, the integrator name and the ensemble
// section.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if !c.GetInitState().IsValid() {
		return fmt.Errorf("%w: init_state must be finite", dynamo.ErrInvalidState)
	}
	if c.Ensemble.Count < 0 {
		return fmt.Errorf("%w: ensemble.count must not be negative, got %d", dynamo.ErrInvalidParams, c.Ensemble.Count)
	}
	if c.Ensemble.Perturbation < 0 {
		return fmt.Errorf("%w: ensemble.perturbation must not be negative, got %g", dynamo.ErrInvalidParams, c.Ensemble.Perturbation)
	}
	return nil
}
