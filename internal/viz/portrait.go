package viz

import (
	"fmt"
	"math"
	"strings"
)

// Bounds is the data rectangle mapped onto a canvas.
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// BoundsOf returns the bounding box of every finite point in the given
// series pairs. Degenerate ranges are widened to one unit.
func BoundsOf(xs, ys [][]float64) Bounds {
	b := Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for k := range xs {
		for i := range xs[k] {
			x, y := xs[k][i], ys[k][i]
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				continue
			}
			b.XMin, b.XMax = math.Min(b.XMin, x), math.Max(b.XMax, x)
			b.YMin, b.YMax = math.Min(b.YMin, y), math.Max(b.YMax, y)
		}
	}
	if b.XMin > b.XMax {
		return Bounds{0, 1, 0, 1}
	}
	if b.XMax == b.XMin {
		b.XMin, b.XMax = b.XMin-0.5, b.XMax+0.5
	}
	if b.YMax == b.YMin {
		b.YMin, b.YMax = b.YMin-0.5, b.YMax+0.5
	}
	return b
}

// toPixel maps a data point onto canvas sub-pixels, y growing downwards.
func (b Bounds) toPixel(c *Canvas, x, y float64) (int, int) {
	px := int(math.Round(float64(c.PixelWidth()-1) * (x - b.XMin) / (b.XMax - b.XMin)))
	py := int(math.Round(float64(c.PixelHeight()-1) * (b.YMax - y) / (b.YMax - b.YMin)))
	return px, py
}

// PlotPath draws the polyline through (xs[i], ys[i]). Non-finite points
// break the line.
func PlotPath(c *Canvas, b Bounds, xs, ys []float64) {
	havePrev := false
	var px0, py0 int
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			havePrev = false
			continue
		}
		px, py := b.toPixel(c, x, y)
		if havePrev {
			c.DrawLine(px0, py0, px, py)
		} else {
			c.Set(px, py)
		}
		px0, py0, havePrev = px, py, true
	}
}

// Portrait renders a framed phase portrait of xs against ys.
func Portrait(width, height int, xLabel, yLabel string, xs, ys []float64) string {
	c := NewCanvas(width, height)
	b := BoundsOf([][]float64{xs}, [][]float64{ys})
	PlotPath(c, b, xs, ys)
	return Frame(c, b, xLabel, yLabel)
}

// Frame draws the canvas inside a box annotated with its data bounds.
func Frame(c *Canvas, b Bounds, xLabel, yLabel string) string {
	var sb strings.Builder
	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")

	fmt.Fprintf(&sb, "%9.2f ┌%s┐\n", b.YMax, strings.Repeat("─", c.Width))
	for i, row := range rows {
		label := strings.Repeat(" ", 9)
		if i == len(rows)/2 {
			label = fmt.Sprintf("%9s", yLabel)
		}
		fmt.Fprintf(&sb, "%s │%s│\n", label, row)
	}
	fmt.Fprintf(&sb, "%9.2f └%s┘\n", b.YMin, strings.Repeat("─", c.Width))

	lo := fmt.Sprintf("%.2f", b.XMin)
	hi := fmt.Sprintf("%.2f", b.XMax)
	gap := max(c.Width-len(lo)-len(hi)-len(xLabel), 2)
	fmt.Fprintf(&sb, "%10s %s%s%s%s%s\n", "", lo, strings.Repeat(" ", gap/2), xLabel, strings.Repeat(" ", gap-gap/2), hi)
	return sb.String()
}
