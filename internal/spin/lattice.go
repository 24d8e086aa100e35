package spin

import "fmt"

// Cubic is a simple cubic lattice of Nx*Ny*Nz sites. Site (x,y,z) has index
// x + Nx*(y + Ny*z).
type Cubic struct {
	Nx, Ny, Nz int
	Periodic   bool
}

func NewCubic(nx, ny, nz int, periodic bool) (*Cubic, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("spin: lattice dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	return &Cubic{Nx: nx, Ny: ny, Nz: nz, Periodic: periodic}, nil
}

func (c *Cubic) Size() int { return c.Nx * c.Ny * c.Nz }

func (c *Cubic) Index(x, y, z int) int { return x + c.Nx*(y+c.Ny*z) }

// Neighbours returns the nearest-neighbour list of every site. Periodic
// wrapping never produces a site as its own neighbour, and a dimension of
// length 2 does not list the same neighbour twice.
func (c *Cubic) Neighbours() [][]int {
	nbr := make([][]int, c.Size())
	offsets := [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	for z := 0; z < c.Nz; z++ {
		for y := 0; y < c.Ny; y++ {
			for x := 0; x < c.Nx; x++ {
				i := c.Index(x, y, z)
				list := make([]int, 0, 6)
				for _, o := range offsets {
					j, ok := c.neighbour(x+o[0], y+o[1], z+o[2])
					if !ok || j == i || contains(list, j) {
						continue
					}
					list = append(list, j)
				}
				nbr[i] = list
			}
		}
	}
	return nbr
}

func (c *Cubic) neighbour(x, y, z int) (int, bool) {
	var ok bool
	if x, ok = c.wrap(x, c.Nx); !ok {
		return 0, false
	}
	if y, ok = c.wrap(y, c.Ny); !ok {
		return 0, false
	}
	if z, ok = c.wrap(z, c.Nz); !ok {
		return 0, false
	}
	return c.Index(x, y, z), true
}

func (c *Cubic) wrap(v, n int) (int, bool) {
	if v >= 0 && v < n {
		return v, true
	}
	if !c.Periodic {
		return 0, false
	}
	return (v%n + n) % n, true
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
