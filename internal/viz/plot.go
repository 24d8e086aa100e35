package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinsim/internal/experiment"
)

// PlotSeries draws one column of a run against sample index.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("(no samples)")
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption))
}

// PlotCurve draws a per-temperature summary, e.g. m(T), ordered as run.
func PlotCurve(points []experiment.Point, value func(experiment.Point) float64, caption string, width, height int) string {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = value(p)
	}
	return PlotSeries(ys, caption, width, height)
}
