package quadrature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ computes the N+1 point Gauss quadrature for the Jacobi weight
// (1-x)^alpha (1+x)^beta on [-1,1]. Nodes are returned in increasing order.
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		fac    float64
		h1, d0 []float64
		d1     []float64
		VVr    *mat.Dense
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{gamma0(alpha, beta)}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-(alpha^2-beta^2)./(h1+2)./h1), the symmetrized J+J'
	d0 = make([]float64, N+1)
	fac = -(alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: diag(2./(h1(1:N)+2).*sqrt((1:N).*((1:N)+alpha+beta) .* ((1:N)+alpha).*((1:N)+beta)./(h1(1:N)+1)./(h1(1:N)+3)),1);
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := newSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr = mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		W[i] = v * v * g0
	}
	return
}

// JacobiGL computes the N+1 Gauss-Lobatto nodes for the Jacobi weight, the
// endpoints plus the interior JacobiGQ(alpha+1, beta+1) nodes.
func JacobiGL(alpha, beta float64, N int) (X []float64) {
	X = make([]float64, N+1)
	X[0] = -1
	X[N] = 1
	if N == 1 {
		return
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	copy(X[1:N], xint)
	return
}

// LegendreP evaluates the (unnormalized) Legendre polynomial of degree N at r
func LegendreP(r float64, N int) (p float64) {
	var (
		pm1 = 1.
	)
	if N == 0 {
		return 1
	}
	p = r
	for n := 1; n < N; n++ {
		nf := float64(n)
		pm1, p = p, ((2*nf+1)*r*p-nf*pm1)/(nf+1)
	}
	return
}

func newSymTriDiagonal(d0, d1 []float64) (JJ *mat.SymDense) {
	var (
		n = len(d0)
	)
	JJ = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < n-1 {
			JJ.SetSym(i, i+1, d1[i])
		}
	}
	return
}

// gamma0 is the integral of the Jacobi weight over [-1,1]
func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}
