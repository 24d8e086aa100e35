package spin

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/vmath"
)

func TestNewSystemPointsUp(t *testing.T) {
	s := New(4)
	require.Equal(t, 4, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, vmath.Zhat, s.Spin(i))
		assert.Equal(t, 0, s.Material(i))
	}
	assert.Equal(t, vmath.Vec3{Z: 4}, s.Magnetization())
}

func TestAlignNormalizes(t *testing.T) {
	s := New(3)
	s.Align(vmath.Vec3{X: 2})
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, vmath.Vec3{X: 1}, s.Spin(i))
	}
}

func TestRandomizeKeepsUnitLength(t *testing.T) {
	s := New(50)
	s.Randomize(rand.New(rand.NewSource(7)), vmath.Vec3{X: 1, Y: 1}, 0.3)
	for i := 0; i < s.Len(); i++ {
		assert.InDelta(t, 1.0, s.Spin(i).Length(), 1e-12)
	}
	m := s.Magnetization()
	assert.Greater(t, m.Dot(vmath.Vec3{X: 1, Y: 1}.Normalize())/m.Length(), 0.9)
}

func TestSnapshotRestore(t *testing.T) {
	s := New(2)
	snap := s.Snapshot()
	s.SetSpin(0, vmath.Vec3{X: 1})

	require.NoError(t, s.Restore(snap))
	assert.Equal(t, vmath.Zhat, s.Spin(0))

	err := s.Restore(snap[:1])
	assert.Error(t, err)
}

func TestCubicNeighbours(t *testing.T) {
	tests := []struct {
		name     string
		nx       int
		ny       int
		nz       int
		periodic bool
		corner   int
		bulk     int
	}{
		{"open 3x3x3", 3, 3, 3, false, 3, 6},
		{"periodic 3x3x3", 3, 3, 3, true, 6, 6},
		{"periodic 2x2x2", 2, 2, 2, true, 3, 3},
		{"open chain", 4, 1, 1, false, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCubic(tt.nx, tt.ny, tt.nz, tt.periodic)
			require.NoError(t, err)

			nbr := c.Neighbours()
			require.Len(t, nbr, c.Size())
			assert.Len(t, nbr[0], tt.corner)

			mid := c.Index(tt.nx/2, tt.ny/2, tt.nz/2)
			assert.Len(t, nbr[mid], tt.bulk)

			for i, list := range nbr {
				for _, j := range list {
					assert.NotEqual(t, i, j)
					assert.Contains(t, nbr[j], i, "neighbour relation must be symmetric")
				}
			}
		})
	}
}

func TestNewCubicRejectsEmpty(t *testing.T) {
	_, err := NewCubic(0, 2, 2, true)
	assert.Error(t, err)
}

func TestCubicIndex(t *testing.T) {
	c, _ := NewCubic(4, 3, 2, false)
	assert.Equal(t, 0, c.Index(0, 0, 0))
	assert.Equal(t, 23, c.Index(3, 2, 1))
	assert.Equal(t, 24, c.Size())
}
