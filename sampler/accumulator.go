package sampler

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/rllgrid/mesh"
)

// nodalAccumulator owns the weighted sample and weight sums of every global
// node during a Galerkin projection.
type nodalAccumulator struct {
	value []float64
	area  []float64
}

func newNodalAccumulator(n int) *nodalAccumulator {
	return &nodalAccumulator{
		value: make([]float64, n),
		area:  make([]float64, n),
	}
}

func (na *nodalAccumulator) accumulate(node int, sample, weight float64) {
	na.value[node] += sample * weight
	na.area[node] += weight
}

// merge adds the partial sums of another accumulator into na
func (na *nodalAccumulator) merge(other *nodalAccumulator) {
	floats.Add(na.value, other.value)
	floats.Add(na.area, other.area)
}

// normalize writes the area weighted nodal values into dst
func (na *nodalAccumulator) normalize(dst []float64) (err error) {
	for i, a := range na.area {
		if mesh.IsDegenerateArea(a) {
			return fmt.Errorf("node %d has zero accumulated area", i)
		}
	}
	floats.DivTo(dst, na.value, na.area)
	return
}
