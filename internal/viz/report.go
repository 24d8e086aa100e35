package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/experiment"
)

// RenderReport renders a titled panel with the move statistics and one
// table row per temperature.
func RenderReport(title string, points []experiment.Point, stats cmc.Stats) string {
	var b strings.Builder
	b.WriteString(Title.Render(title) + "\n\n")

	b.WriteString(metricLine("trials", fmt.Sprintf("%d", stats.Total)))
	b.WriteString(metricLine("accepted", fmt.Sprintf("%.2f%%", 100*stats.AcceptanceRate())))
	b.WriteString(metricLine("sphere rej.", fmt.Sprintf("%.2f%%", 100*stats.SphereRejectionRate())))
	b.WriteString(metricLine("energy rej.", fmt.Sprintf("%.2f%%", 100*stats.EnergyRejectionRate())))
	b.WriteString("\n")

	header := []string{"T (K)", "m", "±", "m·v", "E (J/atom)", "tau", "U4", "acc"}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			fmt.Sprintf("%.1f", p.Temperature),
			fmt.Sprintf("%.4f", p.Length.Mean),
			fmt.Sprintf("%.4f", p.Length.StdErr),
			fmt.Sprintf("%.4f", p.Projection.Mean),
			fmt.Sprintf("%.4e", p.Energy.Mean),
			fmt.Sprintf("%.1f", p.Length.Tau),
			fmt.Sprintf("%.3f", p.Metrics["binder"]),
			fmt.Sprintf("%.3f", p.Stats.AcceptanceRate()),
		})
	}
	b.WriteString(table(header, rows))

	return Panel.Render(b.String())
}

func table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	render := func(style lipgloss.Style, cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = style.Width(widths[i] + 2).Render(c)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, out...)
	}

	lines := []string{render(HeaderCell, header)}
	for _, r := range rows {
		lines = append(lines, render(Cell, r))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
