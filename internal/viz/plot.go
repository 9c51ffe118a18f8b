package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
}

// Downsample keeps at most n evenly spaced values, always including the
// last one.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	last := len(values) - 1
	for i := range out {
		out[i] = values[i*last/(n-1)]
	}
	return out
}

// LinePlot renders one or more series sharing an axis. Each series is
// downsampled to the plot width.
func LinePlot(caption string, width, height int, series ...[]float64) string {
	if len(series) == 0 {
		return ""
	}
	data := make([][]float64, len(series))
	for i, s := range series {
		data[i] = Downsample(s, width)
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors[:min(len(data), len(seriesColors))]...),
	)
}

// Legend names the series of a LinePlot in their plot colors.
func Legend(names ...string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		color := seriesColors[i%len(seriesColors)]
		parts[i] = color.String() + "■ " + asciigraph.Default.String() + name
	}
	return strings.Join(parts, "  ")
}
