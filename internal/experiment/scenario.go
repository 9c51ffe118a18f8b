package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorenzobs/internal/config"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
)

// Scenario is a scripted batch of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset (or the default config) and applies the
// fields given under config on top of it.
type ScenarioRun struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Overrides yaml.Node `yaml:"config"`
}

// ScenarioResult is the outcome of one scripted run.
type ScenarioResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	Err    error
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the run's effective configuration.
func (r *ScenarioRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		if cfg = config.GetPreset(r.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", r.Preset, config.ListPresets())
		}
	}
	if !r.Overrides.IsZero() {
		if err := r.Overrides.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes every run in order. A failing run is reported in its
// ScenarioResult; only a canceled context stops the batch early.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]ScenarioResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]ScenarioResult, 0, len(scenario.Runs))

	for i := range scenario.Runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		run := &scenario.Runs[i]
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		logger.Info("scenario run", "index", i+1, "of", len(scenario.Runs), "name", name)

		r := ScenarioResult{Name: name}
		r.Config, r.Err = run.Config()
		if r.Err == nil {
			r.Result, r.Err = runConfig(ctx, r.Config, logger.With("run", name))
		}
		results = append(results, r)
	}
	return results, nil
}

func runConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sim.Result, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	s, err := sim.New(p, integ, sim.WithLogger(logger), sim.WithMetrics(metrics.Default()...))
	if err != nil {
		return nil, err
	}
	return s.Simulate(ctx, cfg.GetInitState())
}
