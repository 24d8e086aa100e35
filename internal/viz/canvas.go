package viz

import (
	"math"
	"strings"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/vmath"
)

const brailleBlank = 0x2800

// dot bits of a 2x4 Braille cell, indexed [row][col]
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells with 2x4 dots each.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in dot coordinates; out of range is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[y/4][x/2] |= brailleDots[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// Circle draws a circle of radius r dots around (cx, cy).
func (c *Canvas) Circle(cx, cy, r float64) {
	steps := int(8*r) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(int(math.Round(cx+r*math.Cos(a))), int(math.Round(cy+r*math.Sin(a))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Cone plots the transverse components of every spin in the constraint
// frame inside the unit circle. An ordered system collapses to the centre;
// spins on the far hemisphere are not drawn.
func (c *Canvas) Cone(frame cmc.Frame, spins []vmath.Vec3) {
	c.Clear()
	cx, cy := float64(c.Width), 2*float64(c.Height)
	r := math.Min(cx, cy) - 1
	c.Circle(cx, cy, r)
	for _, s := range spins {
		l := frame.ToLocal(s)
		if l.Z < 0 {
			continue
		}
		c.Set(int(math.Round(cx+r*l.X)), int(math.Round(cy-r*l.Y)))
	}
}
