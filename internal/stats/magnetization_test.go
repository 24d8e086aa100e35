package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/vmath"
)

func TestSetMaskValidates(t *testing.T) {
	var m Magnetization
	assert.ErrorIs(t, m.SetMask(2, []int{0, 2}, []float64{1, 1}), ErrMaskRange)
	assert.ErrorIs(t, m.SetMask(2, []int{0}, []float64{1, 1}), ErrLengthMismatch)
	assert.False(t, m.Initialized())

	_, err := m.Calculate(nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestCalculateGroups(t *testing.T) {
	var m Magnetization
	moments := []float64{2, 2, 1, 1}
	require.NoError(t, m.SetMask(3, []int{0, 0, 1, 1}, moments))
	assert.Equal(t, []float64{4, 2, 0}, m.Saturation())

	spins := []vmath.Vec3{{Z: 1}, {Z: 1}, {X: 1}, {X: -1}}
	groups, err := m.Calculate(spins, moments)
	require.NoError(t, err)

	assert.Equal(t, vmath.Vec3{Z: 1}, groups[0].Direction)
	assert.InDelta(t, 1.0, groups[0].Reduced, 1e-15)

	// antiparallel pair cancels
	assert.Equal(t, vmath.Vec3{}, groups[1].Direction)
	assert.Equal(t, 0.0, groups[1].Reduced)

	// empty group stays zero
	assert.Equal(t, Group{}, groups[2])
}

func TestMeanAndReset(t *testing.T) {
	var m Magnetization
	moments := []float64{1, 1}
	require.NoError(t, m.SetMask(1, []int{0, 0}, moments))

	_, err := m.Calculate([]vmath.Vec3{{Z: 1}, {Z: 1}}, moments)
	require.NoError(t, err)
	_, err = m.Calculate([]vmath.Vec3{{Z: 1}, {X: 1}}, moments)
	require.NoError(t, err)

	mean := m.Mean()
	assert.Equal(t, 2, m.Samples())
	assert.InDelta(t, (1+0.5*1.4142135623730951)/2, mean[0].Reduced, 1e-12)

	m.ResetAverages()
	assert.Equal(t, 0, m.Samples())
	assert.Equal(t, Group{}, m.Mean()[0])
	assert.NotEqual(t, Group{}, m.Current()[0])
}

func TestDotAndAngle(t *testing.T) {
	var m Magnetization
	moments := []float64{1, 1}
	require.NoError(t, m.SetMask(1, []int{0, 0}, moments))
	_, err := m.Calculate([]vmath.Vec3{{X: 1}, {Z: 1}}, moments)
	require.NoError(t, err)

	dot := m.Dot(vmath.Vec3{X: 1, Z: 1}.Normalize())
	assert.InDelta(t, 1/1.4142135623730951, dot[0], 1e-12)
	assert.InDelta(t, 45.0, m.Angle(0, vmath.Vec3{Z: 1}), 1e-9)
}
