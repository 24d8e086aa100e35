// Package export writes run data as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/vmath"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// ConeSVG draws every spin's transverse components in the constraint
// frame as a dot inside the unit circle. Spins on the upper hemisphere are
// green, the rest red.
func ConeSVG(w io.Writer, frame cmc.Frame, spins []vmath.Vec3, size int) error {
	c := float64(size) / 2
	r := c * 0.9

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444466"/>
`, c, c, r)

	for _, s := range spins {
		l := frame.ToLocal(s)
		fill := "#00ff88"
		if l.Z < 0 {
			fill = "#ff4444"
		}
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="1.5" fill="%s"/>
`, c+r*l.X, c-r*l.Y, fill)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesSVG draws values against their index as a polyline with 10%
// vertical padding.
func SeriesSVG(w io.Writer, values []float64, width, height int, stroke string) error {
	if len(values) < 2 {
		return fmt.Errorf("export: need at least 2 values, have %d", len(values))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
