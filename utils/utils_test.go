package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowMajorToColMajor(t *testing.T) {
	nr, nc := 3, 5
	seen := make(map[int]bool)
	for ind := 0; ind < nr*nc; ind++ {
		cind := RowMajorToColMajor(nr, nc, ind)
		assert.False(t, seen[cind])
		seen[cind] = true
		// Transposing back with swapped dimensions is the identity
		assert.Equal(t, ind, RowMajorToColMajor(nc, nr, cind))
	}
	assert.Equal(t, nr*nc, len(seen))
	assert.Equal(t, 15, Product([]int{3, 5}))
	assert.Equal(t, 1, Product(nil))
}

func TestIsMonotone(t *testing.T) {
	assert.True(t, IsMonotone([]float64{1, 2, 3}, Less))
	assert.False(t, IsMonotone([]float64{1, 2, 2}, Less))
	assert.True(t, IsMonotone([]float64{1, 2, 2}, LessOrEqual))
	assert.False(t, IsMonotone([]float64{1, 3, 2}, LessOrEqual))
	assert.True(t, IsMonotone([]float64{3, 2, 1}, Greater))
	assert.True(t, IsMonotone([]float64{4}, Less))
}

func TestMath(t *testing.T) {
	assert.InDelta(t, 180., Rad2Deg(math.Pi), 1.e-12)
	assert.InDelta(t, math.Pi/2, Deg2Rad(90), 1.e-15)
	assert.True(t, IsNan([]float64{0, math.NaN()}))
	assert.False(t, IsNan(1.))
}
