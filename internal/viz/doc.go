// Package viz renders runs in the terminal.
//
//   - [RenderReport]: lipgloss table of per-temperature summaries
//   - [PlotSeries], [PlotCurve]: asciigraph line plots
//   - [Model]: Bubble Tea live view that sweeps a runner on a timer
//   - [Canvas]: Braille canvas, used to draw the spin cone in the
//     constraint frame
//
// # Key Bindings
//
//	Space - Pause/Resume sweeping
//	+/-   - Raise/lower the temperature by 10%
//	R     - Reset the engine and realign the spins
//	Q     - Quit
package viz
