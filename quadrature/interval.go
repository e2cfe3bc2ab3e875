package quadrature

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Gauss returns the n point Gauss-Legendre rule mapped onto [a,b]. The
// weights sum to b-a.
func Gauss(n int, a, b float64) (G, W []float64, err error) {
	if n < 1 {
		err = fmt.Errorf("gauss quadrature requires at least one point, have %d", n)
		return
	}
	x, w := JacobiGQ(0, 0, n-1)
	G, W = mapToInterval(x, w, a, b)
	return
}

// GaussLobatto returns the n point Gauss-Lobatto-Legendre rule mapped onto
// [a,b], endpoints included. A single point degenerates to the midpoint rule.
func GaussLobatto(n int, a, b float64) (G, W []float64, err error) {
	switch {
	case n < 1:
		err = fmt.Errorf("gauss-lobatto quadrature requires at least one point, have %d", n)
		return
	case n == 1:
		G, W = []float64{0.5 * (a + b)}, []float64{b - a}
		return
	}
	var (
		N = n - 1
		x = JacobiGL(0, 0, N)
		w = make([]float64, n)
	)
	for i, r := range x {
		p := LegendreP(r, N)
		w[i] = 2. / (float64(N*(N+1)) * p * p)
	}
	G, W = mapToInterval(x, w, a, b)
	return
}

func mapToInterval(x, w []float64, a, b float64) (G, W []float64) {
	var (
		half = 0.5 * (b - a)
	)
	G, W = make([]float64, len(x)), make([]float64, len(w))
	for i := range x {
		G[i] = a + half*(x[i]+1.)
	}
	floats.ScaleTo(W, half, w)
	// Pin endpoints that should be exact
	if len(G) > 1 && x[0] == -1 {
		G[0], G[len(G)-1] = a, b
	}
	return
}
