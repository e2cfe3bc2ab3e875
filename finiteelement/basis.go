package finiteelement

import (
	"fmt"
	"math"

	"github.com/notargets/rllgrid/quadrature"
)

// LagrangeBasis1D is the Lagrange interpolating basis through a set of nodes,
// evaluated in barycentric form.
type LagrangeBasis1D struct {
	P       int       // Order
	Np      int       // Dimension of basis = P+1
	Weights []float64 // Barycentric weights, one per basis polynomial
	Nodes   []float64 // Nodes at which basis is defined
}

func NewLagrangeBasis1D(R []float64) (lb *LagrangeBasis1D) {
	lb = &LagrangeBasis1D{
		P:       len(R) - 1,
		Np:      len(R),
		Weights: make([]float64, len(R)),
		Nodes:   R,
	}
	for j := 0; j < lb.Np; j++ {
		lb.Weights[j] = 1.
		for i := 0; i < lb.Np; i++ {
			if i != j {
				lb.Weights[j] /= R[j] - R[i]
			}
		}
	}
	return
}

// Evaluate fills f with every basis polynomial evaluated at r
func (lb *LagrangeBasis1D) Evaluate(r float64, f []float64) {
	// On a node the basis is the Kronecker delta
	for j, rj := range lb.Nodes {
		if math.Abs(r-rj) < 1.e-14 {
			for i := range f[:lb.Np] {
				f[i] = 0
			}
			f[j] = 1.
			return
		}
	}
	l := lb.evaluateL(r)
	for j := 0; j < lb.Np; j++ {
		f[j] = l * lb.Weights[j] / (r - lb.Nodes[j])
	}
}

// evaluateL is the node polynomial shared by all basis functions
func (lb *LagrangeBasis1D) evaluateL(r float64) (f float64) {
	f = 1.
	for _, rr := range lb.Nodes {
		f *= r - rr
	}
	return
}

// GLLElement is the tensor product GLL basis on the unit square [0,1]²
type GLLElement struct {
	NP    int
	G, W  []float64 // GLL nodes and weights on [0,1]
	basis *LagrangeBasis1D
	la    []float64
	lb    []float64
}

func NewGLLElement(nP int) (el *GLLElement, err error) {
	el = &GLLElement{NP: nP}
	if el.G, el.W, err = quadrature.GaussLobatto(nP, 0, 1); err != nil {
		return nil, err
	}
	el.basis = NewLagrangeBasis1D(el.G)
	el.la, el.lb = make([]float64, nP), make([]float64, nP)
	return
}

// Coefficients fills coeff[j][i] with the value of the basis function of the
// GLL node (α_i, β_j) at (alpha, beta). GLLElement is not safe for concurrent
// use, each goroutine needs its own.
func (el *GLLElement) Coefficients(alpha, beta float64, coeff [][]float64) {
	el.basis.Evaluate(alpha, el.la)
	el.basis.Evaluate(beta, el.lb)
	for j := 0; j < el.NP; j++ {
		for i := 0; i < el.NP; i++ {
			coeff[j][i] = el.la[i] * el.lb[j]
		}
	}
}

// NewCoefficients allocates an nP x nP coefficient array
func (el *GLLElement) NewCoefficients() (coeff [][]float64) {
	coeff = make([][]float64, el.NP)
	for j := range coeff {
		coeff[j] = make([]float64, el.NP)
	}
	return
}

// SampleGLLFiniteElement returns the nP x nP tensor product GLL basis
// coefficients at (alpha, beta) in [0,1]², indexed [β node][α node].
func SampleGLLFiniteElement(nP int, alpha, beta float64) (coeff [][]float64, err error) {
	var (
		el *GLLElement
	)
	if nP < 1 {
		return nil, fmt.Errorf("polynomial degree must be positive, have %d", nP)
	}
	if el, err = NewGLLElement(nP); err != nil {
		return
	}
	coeff = el.NewCoefficients()
	el.Coefficients(alpha, beta, coeff)
	return
}
