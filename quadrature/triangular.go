package quadrature

import (
	"fmt"
	"math"
)

// TriangularRule integrates over a triangle in barycentric coordinates. Each
// row of G holds the weights of the three triangle vertices for one point and
// W sums to one, so the integral over a triangle is area * sum(W[k]*f(G[k])).
type TriangularRule struct {
	Order int
	G     [][3]float64
	W     []float64
}

// NewTriangularRule builds a collapsed coordinate (Stroud conical product)
// rule exact for polynomials up to the requested order.
func NewTriangularRule(order int) (tr *TriangularRule, err error) {
	if order < 1 {
		err = fmt.Errorf("triangular quadrature order must be positive, have %d", order)
		return
	}
	var (
		n      = int(math.Ceil(float64(order+1) / 2.))
		ra, wa = JacobiGQ(0, 0, n-1)
		rb, wb = JacobiGQ(1, 0, n-1) // absorbs the (1-b) collapse Jacobian
	)
	tr = &TriangularRule{
		Order: order,
		G:     make([][3]float64, 0, n*n),
		W:     make([]float64, 0, n*n),
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			r := 0.25 * (1 + ra[i]) * (1 - rb[j])
			s := 0.5 * (1 + rb[j])
			tr.G = append(tr.G, [3]float64{1 - r - s, r, s})
			// Reference triangle area is 1/2, collapse Jacobian is (1-b)/8
			tr.W = append(tr.W, 0.25*wa[i]*wb[j])
		}
	}
	return
}

func (tr *TriangularRule) GetPoints() int { return len(tr.W) }
