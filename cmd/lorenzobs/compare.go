package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzobs/internal/experiment"
	"github.com/san-kum/lorenzobs/internal/integrators"
	"github.com/san-kum/lorenzobs/internal/storage"
)

func newCompareCmd() *cobra.Command {
	var flags simFlags

	cmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same seeded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = integrators.Names()
			}

			out, err := experiment.Compare(cmd.Context(), p, cfg.GetInitState(), names)
			if err != nil {
				return err
			}

			fmt.Printf("comparing integrators (dt=%.4f, steps=%d, seed=%d)\n\n", p.Dt, p.Steps, p.Seed)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tERR_RMS\tERR_FINAL\tPLANT_DEV\tTIME_MS")
			for _, c := range out {
				if c.Err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", c.Integrator, c.Err)
					continue
				}
				fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.2e\t%.2f\n",
					c.Integrator,
					c.Result.Metrics["estimation_rms"],
					c.Result.Metrics["estimation_final"],
					c.PlantDeviation,
					float64(c.Elapsed.Microseconds())/1000,
				)
			}
			return w.Flush()
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func parseValues(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func newSweepCmd() *cobra.Command {
	var flags simFlags
	var param, grid, metric string
	var lo, hi float64
	var points int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter, or grid-search several, and report estimation metrics",
		Example: `  lorenzobs sweep --param noise_std --min 0 --max 4 --points 9
  lorenzobs sweep --grid "noise_std=0.5,1;beta=1,2.6667" --metric estimation_rms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.Params()
			if err != nil {
				return err
			}

			if grid != "" {
				var names []string
				var ranges [][]float64
				for _, part := range strings.Split(grid, ";") {
					name, values, ok := strings.Cut(part, "=")
					if !ok {
						return fmt.Errorf("grid entry %q is not name=v1,v2", part)
					}
					vs, err := parseValues(values)
					if err != nil {
						return err
					}
					names = append(names, strings.TrimSpace(name))
					ranges = append(ranges, vs)
				}
				g, err := experiment.NewGridSearch(names, ranges)
				if err != nil {
					return err
				}
				best, all, err := g.Search(cmd.Context(), p, cfg.Integrator, cfg.GetInitState(), metric)
				for _, pt := range all {
					if pt.Err != nil {
						fmt.Printf("%v  error: %v\n", pt.Params, pt.Err)
						continue
					}
					fmt.Printf("%v  %s=%.6f\n", pt.Params, metric, pt.Value)
				}
				if err != nil {
					return err
				}
				fmt.Printf("\nbest: %v  %s=%.6f\n", best.Params, metric, best.Value)
				return nil
			}

			results, err := experiment.RunSweep(cmd.Context(), &experiment.ParameterSweep{
				Base:       p,
				Integrator: cfg.Integrator,
				InitState:  cfg.GetInitState(),
				ParamName:  param,
				ParamMin:   lo,
				ParamMax:   hi,
				NumSteps:   points,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tERR_RMS\tERR_FINAL\tENVELOPE\n", strings.ToUpper(param))
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%.4g\terror: %v\n", r.ParamValue, r.Err)
					continue
				}
				fmt.Fprintf(w, "%.4g\t%.6f\t%.6f\t%.3f\n", r.ParamValue, r.Metrics["estimation_rms"], r.Metrics["estimation_final"], r.Metrics["envelope"])
			}
			return w.Flush()
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&param, "param", "noise_std", fmt.Sprintf("parameter to sweep %v", experiment.TunableParams()))
	cmd.Flags().Float64Var(&lo, "min", 0, "first value")
	cmd.Flags().Float64Var(&hi, "max", 4, "last value")
	cmd.Flags().IntVar(&points, "points", 9, "number of values")
	cmd.Flags().StringVar(&grid, "grid", "", "grid search, e.g. \"noise_std=0.5,1;beta=1,2\"")
	cmd.Flags().StringVar(&metric, "metric", "estimation_rms", "metric minimised by the grid search")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := experiment.LoadScenario(args[0])
			if err != nil {
				return err
			}
			results, err := experiment.RunScenario(cmd.Context(), sc, logger)
			if err != nil {
				return err
			}

			st := storage.New(dataDir)
			if save {
				if err := st.Init(); err != nil {
					return err
				}
			}

			fmt.Printf("scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Println(sc.Description)
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTEPS\tERR_RMS\tRUN_ID\tSTATUS")
			failed := 0
			for _, r := range results {
				if r.Result == nil {
					failed++
					fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", r.Name, r.Err)
					continue
				}
				runID := "-"
				if save {
					if runID, err = st.Save(r.Result, r.Err); err != nil {
						return err
					}
				}
				status := "ok"
				if r.Err != nil {
					failed++
					status = r.Err.Error()
				}
				fmt.Fprintf(w, "%s\t%d\t%.6f\t%s\t%s\n", r.Name, r.Result.StepsTaken, r.Result.Metrics["estimation_rms"], runID, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d runs failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", true, "store every run")
	return cmd
}
