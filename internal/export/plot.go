// Package export renders runs as image files (PNG, SVG, PDF) with gonum/plot.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/lorenzobs/internal/analysis"
	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// ComponentNames labels the augmented state indices.
var ComponentNames = [dynamo.StateDim]string{"x", "y", "z", "x_hat", "y_hat", "z_hat"}

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, idx int, name string, xs, ys []float64) error {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = plotutil.Color(idx)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// StatePlot draws the chosen state components against time.
func StatePlot(tr *dynamo.Trajectory, components ...int) (*plot.Plot, error) {
	if len(components) == 0 {
		components = []int{dynamo.Y, dynamo.YHat}
	}
	p := newPlot("state", "t", "value")
	times := tr.Times()
	for i, c := range components {
		if c < 0 || c >= dynamo.StateDim {
			return nil, fmt.Errorf("component %d out of range", c)
		}
		if err := addLine(p, i, ComponentNames[c], times, tr.Component(c)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ErrorPlot draws the estimation errors ŷ−y, ẑ−z and their norm.
func ErrorPlot(tr *dynamo.Trajectory) (*plot.Plot, error) {
	es := analysis.Errors(tr)
	p := newPlot("estimation error", "t", "error")
	for i, s := range []struct {
		name string
		ys   []float64
	}{
		{"y_hat - y", es.Y},
		{"z_hat - z", es.Z},
		{"|(y_hat, z_hat) - (y, z)|", es.YZ},
	} {
		if err := addLine(p, i, s.name, es.Times, s.ys); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// PhasePlot draws the plant and the estimate projected onto two plant axes
// (0, 1 or 2). The estimate uses the matching hat components.
func PhasePlot(tr *dynamo.Trajectory, xAxis, yAxis int) (*plot.Plot, error) {
	if xAxis < 0 || xAxis > dynamo.Z || yAxis < 0 || yAxis > dynamo.Z {
		return nil, fmt.Errorf("phase axes must be plant components 0..2, got %d, %d", xAxis, yAxis)
	}
	p := newPlot("phase portrait", ComponentNames[xAxis], ComponentNames[yAxis])
	if err := addLine(p, 0, "plant", tr.Component(xAxis), tr.Component(yAxis)); err != nil {
		return nil, err
	}
	off := dynamo.XHat
	if err := addLine(p, 1, "estimate", tr.Component(xAxis+off), tr.Component(yAxis+off)); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes p to path. The format follows the file extension.
func Save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	return p.Save(DefaultWidth, DefaultHeight, path)
}

// Write encodes p in the given format ("png", "svg", "pdf", ...).
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, strings.ToLower(format))
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
