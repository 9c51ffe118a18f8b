package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/lorenzobs/internal/config"
	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
	"github.com/san-kum/lorenzobs/internal/storage"
	"github.com/san-kum/lorenzobs/internal/viz"
)

// simFlags are the flags shared by every command that starts simulations.
type simFlags struct {
	configFile string
	preset     string

	sigma, rho, beta float64
	noiseStd, dt     float64
	steps            int
	seed             uint64
	integrator       string
	measurement      string
	x, y, z          float64
	xHat, yHat, zHat float64
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration")
	fs.Float64Var(&f.sigma, "sigma", d.Sigma, "lorenz sigma")
	fs.Float64Var(&f.rho, "rho", d.Rho, "lorenz rho")
	fs.Float64Var(&f.beta, "beta", d.Beta, "lorenz beta")
	fs.Float64Var(&f.noiseStd, "noise", d.NoiseStd, "measurement noise standard deviation")
	fs.Float64Var(&f.dt, "dt", d.Dt, "timestep")
	fs.IntVar(&f.steps, "steps", d.Steps, "number of steps")
	fs.Uint64Var(&f.seed, "seed", *d.Seed, "noise seed")
	fs.StringVar(&f.integrator, "integrator", d.Integrator, fmt.Sprintf("integrator %v", integrators.Names()))
	fs.StringVar(&f.measurement, "measurement", d.Measurement, "measurement mode (stage, hold)")
	fs.Float64Var(&f.x, "x", d.InitState.X, "initial x")
	fs.Float64Var(&f.y, "y", d.InitState.Y, "initial y")
	fs.Float64Var(&f.z, "z", d.InitState.Z, "initial z")
	fs.Float64Var(&f.xHat, "x-hat", d.InitState.XHat, "initial x estimate")
	fs.Float64Var(&f.yHat, "y-hat", d.InitState.YHat, "initial y estimate")
	fs.Float64Var(&f.zHat, "z-hat", d.InitState.ZHat, "initial z estimate")
}

// resolve builds the effective config: preset, then config file, then any
// flag set explicitly on the command line.
func (f *simFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		if cfg = config.GetPreset(f.preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}

	if f.configFile != "" {
		loaded, err := config.LoadOnto(f.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	setF := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setF("sigma", &cfg.Sigma, f.sigma)
	setF("rho", &cfg.Rho, f.rho)
	setF("beta", &cfg.Beta, f.beta)
	setF("noise", &cfg.NoiseStd, f.noiseStd)
	setF("dt", &cfg.Dt, f.dt)
	setF("x", &cfg.InitState.X, f.x)
	setF("y", &cfg.InitState.Y, f.y)
	setF("z", &cfg.InitState.Z, f.z)
	setF("x-hat", &cfg.InitState.XHat, f.xHat)
	setF("y-hat", &cfg.InitState.YHat, f.yHat)
	setF("z-hat", &cfg.InitState.ZHat, f.zHat)
	if flags.Changed("steps") {
		cfg.Steps = f.steps
	}
	if flags.Changed("seed") {
		cfg.SetSeed(f.seed)
	}
	if flags.Changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if flags.Changed("measurement") {
		cfg.Measurement = f.measurement
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var flags simFlags
	var noSave bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}
			integ, err := integrators.New(cfg.Integrator)
			if err != nil {
				return err
			}
			s, err := sim.New(p, integ,
				sim.WithLogger(logger),
				sim.WithMetrics(metrics.Default()...),
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, viz.Subtle.Render(fmt.Sprintf("running %d steps (dt=%g, noise=%g)...", p.Steps, p.Dt, p.NoiseStd)))
			start := time.Now()
			result, runErr := s.Simulate(cmd.Context(), cfg.GetInitState())
			elapsed := time.Since(start)
			if result == nil {
				return runErr
			}
			if runErr != nil && !errors.Is(runErr, dynamo.ErrUnstable) {
				return runErr
			}
			warnPartial(runErr)

			runID := "(not saved)"
			if !noSave {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				if runID, err = st.Save(result, runErr); err != nil {
					return err
				}
			}

			printRunSummary(runID, result, elapsed)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printRunSummary(runID string, result *sim.Result, elapsed time.Duration) {
	p := result.Params
	lines := []string{
		viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "run id")) + runID,
		viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "seed")) + fmt.Sprint(p.Seed),
		viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "integrator")) + result.Integrator + " / " + p.Measurement.String(),
		viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "steps")) + fmt.Sprintf("%d of %d in %v", result.StepsTaken, p.Steps, elapsed.Round(time.Microsecond)),
	}
	for _, name := range sortedKeys(result.Metrics) {
		lines = append(lines, viz.MetricLine(name, result.Metrics[name]))
	}

	errs := make([]float64, result.Trajectory.Len())
	for i, snap := range result.Trajectory.History() {
		errs[i] = snap.State.EstimationError()
	}
	lines = append(lines, viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "error")) + viz.SparklineChart(errs, 40))

	fmt.Println(viz.Summary("lorenz observer run", lines...))
}
