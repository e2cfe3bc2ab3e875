package finiteelement

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/notargets/rllgrid/mesh"
)

// ErrNonQuadrilateral marks faces that cannot carry a tensor product element
var ErrNonQuadrilateral = errors.New("non-quadrilateral face detected")

// ApplyLocalMap maps (alpha, beta) in [0,1]² onto the sphere through the
// bilinear interpolant of the four face corners, projected radially. The
// returned tangents are the derivatives of the projected point with respect
// to alpha and beta.
func ApplyLocalMap(face mesh.Face, nodes []mesh.Node, alpha, beta float64) (node, dx1, dx2 r3.Vector, err error) {
	if !face.IsQuad() {
		err = fmt.Errorf("%w: face has %d nodes", ErrNonQuadrilateral, len(face))
		return
	}
	node, dx1, dx2 = localMap(nodes[face[0]], nodes[face[1]], nodes[face[2]], nodes[face[3]], alpha, beta)
	return
}

func localMap(n0, n1, n2, n3 r3.Vector, alpha, beta float64) (node, dx1, dx2 r3.Vector) {
	var (
		x = n0.Mul((1 - alpha) * (1 - beta)).
			Add(n1.Mul(alpha * (1 - beta))).
			Add(n2.Mul(alpha * beta)).
			Add(n3.Mul((1 - alpha) * beta))
		r = x.Norm()
		// Tangents of the planar map
		d1 = n1.Sub(n0).Mul(1 - beta).Add(n2.Sub(n3).Mul(beta))
		d2 = n3.Sub(n0).Mul(1 - alpha).Add(n2.Sub(n1).Mul(alpha))
	)
	node = x.Mul(1 / r)
	// d(x/|x|) = (d - x̂(x̂·d)) / |x|
	dx1 = d1.Sub(node.Mul(node.Dot(d1))).Mul(1 / r)
	dx2 = d2.Sub(node.Mul(node.Dot(d2))).Mul(1 / r)
	return
}

// LocalJacobian is the area element of the local map
func LocalJacobian(dx1, dx2 r3.Vector) float64 {
	return dx1.Cross(dx2).Norm()
}
