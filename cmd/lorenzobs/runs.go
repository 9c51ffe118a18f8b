package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/san-kum/lorenzobs/internal/analysis"
	"github.com/san-kum/lorenzobs/internal/dynamo"
	"github.com/san-kum/lorenzobs/internal/export"
	"github.com/san-kum/lorenzobs/internal/sim"
	"github.com/san-kum/lorenzobs/internal/storage"
	"github.com/san-kum/lorenzobs/internal/viz"
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loadRun reads a stored run back into a Result.
func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if tr.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no data", runID)
	}
	p, err := meta.Params()
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Params:     p,
		Integrator: meta.Integrator,
		Trajectory: tr,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
	}, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tNOISE\tSEED\tINTEG\tERR_RMS\tSTATUS")
			for _, run := range runs {
				status := "ok"
				if run.Error != "" {
					status = "partial"
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%.4f\t%.3g\t%d\t%s\t%.4f\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.StepsTaken, run.Steps,
					run.Dt,
					run.NoiseStd,
					run.Seed,
					run.Integrator,
					run.Metrics["estimation_rms"],
					status,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var width, height int
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			tr := result.Trajectory

			fmt.Println(viz.Title.Render("run: " + meta.ID))
			fmt.Printf("samples: %d\n\n", tr.Len())

			es := analysis.Errors(tr)
			fmt.Println(viz.LinePlot("estimation error |(y_hat, z_hat) - (y, z)|", width, height, es.YZ))
			fmt.Println()
			if errorsOnly {
				return nil
			}

			for _, pair := range [][2]int{{dynamo.X, dynamo.XHat}, {dynamo.Y, dynamo.YHat}, {dynamo.Z, dynamo.ZHat}} {
				caption := fmt.Sprintf("%s vs %s", export.ComponentNames[pair[0]], export.ComponentNames[pair[1]])
				fmt.Println(viz.LinePlot(caption, width, height, tr.Component(pair[0]), tr.Component(pair[1])))
				fmt.Println(viz.Legend("plant", "estimate"))
				fmt.Println()
			}
			fmt.Println(viz.LinePlot("measurement xm", width, height, tr.Measurements()))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "only plot the estimation error")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var xAxis, yAxis int
	var estimate, view3d bool

	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			tr := result.Trajectory
			off := 0
			if estimate {
				off = dynamo.XHat
			}

			fmt.Println(viz.Title.Render("phase space: " + meta.ID))
			if view3d {
				points := make([]viz.Vec3, tr.Len())
				for i, snap := range tr.History() {
					s := snap.State
					points[i] = viz.Vec3{X: s[off+dynamo.X], Y: s[off+dynamo.Y], Z: s[off+dynamo.Z]}
				}
				fmt.Print(viz.Render3D(70, 24, viz.NewCamera(), points).String())
				return nil
			}

			if xAxis < 0 || xAxis > dynamo.Z || yAxis < 0 || yAxis > dynamo.Z {
				return fmt.Errorf("axes must be plant components 0..2")
			}
			xs, ys := tr.Component(off+xAxis), tr.Component(off+yAxis)
			fmt.Print(viz.Portrait(70, 20, export.ComponentNames[off+xAxis], export.ComponentNames[off+yAxis], xs, ys))
			return nil
		},
	}
	cmd.Flags().IntVar(&xAxis, "x-axis", dynamo.X, "plant component for the x-axis (0=x, 1=y, 2=z)")
	cmd.Flags().IntVar(&yAxis, "y-axis", dynamo.Z, "plant component for the y-axis (0=x, 1=y, 2=z)")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "draw the observer estimate instead of the plant")
	cmd.Flags().BoolVar(&view3d, "3d", false, "rotated 3d view")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var from int

	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "convergence and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			tr := result.Trajectory
			p := result.Params

			fmt.Println(viz.Title.Render("analysis: " + meta.ID))

			es := analysis.Errors(tr)
			rate, err := analysis.ContractionRate(es.YZ, p.Dt, 0, min(from, tr.Len()))
			if err == nil {
				fmt.Println(viz.MetricLine("transient decay rate", rate))
			}
			cert, err := analysis.Certify(p, 0)
			if err != nil {
				return err
			}
			fmt.Println(viz.MetricLine("guaranteed rate", cert.Rate))

			ps := analysis.PowerSpectrum(tr.Component(dynamo.X), p.Dt)
			freq, _ := ps.Dominant()
			fmt.Println(viz.MetricLine("x dominant frequency", freq))
			fmt.Println(viz.MetricLine("x spectral flatness", ps.Flatness()))

			noise := make([]float64, tr.Len()-1)
			for i := 1; i < tr.Len(); i++ {
				noise[i-1] = tr.At(i).Measurement - tr.At(i-1).State[dynamo.X]
			}
			fmt.Println(viz.MetricLine("noise spectral flatness", analysis.PowerSpectrum(noise, p.Dt).Flatness()))
			fmt.Println(viz.Separator(80))

			quarter := ps.Power[:max(len(ps.Power)/4, 1)]
			fmt.Println(viz.LinePlot("power spectrum (x)", 80, 12, quarter))
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "transient", 300, "snapshots used for the transient decay fit")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteJSON(os.Stdout, result)
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, result.Trajectory)
		},
	}
}

func newExportPlotCmd() *cobra.Command {
	var outDir, format string

	cmd := &cobra.Command{
		Use:   "export-plot [run_id]",
		Short: "render state, error and phase plots to image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			tr := result.Trajectory
			ext := "." + strings.TrimPrefix(strings.ToLower(format), ".")

			states, err := export.StatePlot(tr, dynamo.Y, dynamo.YHat, dynamo.Z, dynamo.ZHat)
			if err != nil {
				return err
			}
			errs, err := export.ErrorPlot(tr)
			if err != nil {
				return err
			}
			phase, err := export.PhasePlot(tr, dynamo.X, dynamo.Z)
			if err != nil {
				return err
			}

			dir := filepath.Join(outDir, meta.ID)
			for _, out := range []struct {
				name string
				p    *plot.Plot
			}{
				{"states", states},
				{"error", errs},
				{"phase", phase},
			} {
				path := filepath.Join(dir, out.name+ext)
				if err := export.Save(out.p, path); err != nil {
					return fmt.Errorf("%s: %w", out.name, err)
				}
				fmt.Println(path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "plots", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "image format (png, svg, pdf)")
	return cmd
}
