package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzobs/internal/analysis"
	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/metrics"
	"github.com/san-kum/lorenzobs/internal/sim"
	"github.com/san-kum/lorenzobs/internal/viz"
)

func newEnsembleCmd() *cobra.Command {
	var flags simFlags
	var count, workers int
	var perturbation float64
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run perturbed copies of the plant in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("count") {
				cfg.Ensemble.Count = count
			}
			if cmd.Flags().Changed("perturbation") {
				cfg.Ensemble.Perturbation = perturbation
			}
			if cfg.Ensemble.Count < 1 {
				return fmt.Errorf("%w: ensemble needs at least one member", dynamo.ErrInvalidParams)
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}

			seedStart := p.Seed
			initial := sim.PerturbedInitialStates(cfg.GetInitState(), cfg.Ensemble.Count, cfg.Ensemble.Perturbation, seedStart)

			opts := []sim.EnsembleOption{
				sim.WithEnsembleLogger(logger),
				sim.WithMetricFactory(metrics.Default),
			}
			if workers > 0 {
				opts = append(opts, sim.WithWorkers(workers))
			}
			ens, err := sim.NewEnsemble(p, cfg.Integrator, seedStart, opts...)
			if err != nil {
				return err
			}
			members := ens.Run(cmd.Context(), initial)

			var trs []*dynamo.Trajectory
			failed := 0
			rms := make([]float64, 0, len(members))
			for _, m := range members {
				if m.Err != nil {
					failed++
					continue
				}
				trs = append(trs, m.Result.Trajectory)
				rms = append(rms, m.Result.Metrics["estimation_rms"])
			}

			if verbose {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MEMBER\tSEED\tSTEPS\tERR_RMS\tSTATUS")
				for _, m := range members {
					if m.Err != nil {
						fmt.Fprintf(w, "%d\t%d\t-\t-\t%v\n", m.Index, m.Seed, m.Err)
						continue
					}
					fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\tok\n", m.Index, m.Seed, m.Result.StepsTaken, m.Result.Metrics["estimation_rms"])
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Println()
			}

			spread := analysis.Spread(trs)
			lines := []string{
				viz.MetricLine("members", float64(len(members))),
				viz.MetricLine("failed", float64(failed)),
			}
			if len(spread) > 0 {
				lines = append(lines,
					viz.MetricLine("initial spread", spread[0]),
					viz.MetricLine("final spread", spread[len(spread)-1]),
					viz.MetricLabel.Render(fmt.Sprintf("  %-24s", "spread")) + viz.SparklineChart(spread, 40),
				)
			}
			if len(rms) > 0 {
				worst := 0.0
				for _, v := range rms {
					worst = math.Max(worst, v)
				}
				lines = append(lines, viz.MetricLine("worst estimation_rms", worst))
			}
			fmt.Println(viz.Summary("chaos ensemble", lines...))

			if len(spread) > 0 {
				fmt.Println()
				fmt.Println(viz.LinePlot("mean distance from ensemble centroid", 80, 10, spread))
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVar(&count, "count", 0, "number of members (default from config)")
	cmd.Flags().Float64Var(&perturbation, "perturbation", 0, "initial plant perturbation std (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default GOMAXPROCS)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every member")
	return cmd
}
