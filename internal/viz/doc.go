// Package viz renders runs in the terminal: asciigraph time series, braille
// phase portraits of the attractor and lipgloss styles for CLI summaries.
package viz
