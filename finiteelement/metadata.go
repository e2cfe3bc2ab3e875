package finiteelement

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/rllgrid/mesh"
)

// MetaData holds the global numbering and quadrature Jacobian of the GLL
// nodes of every face.
type MetaData struct {
	NP       int
	NumNodes int // Number of distinct global nodes
	// Nodes[k][j][i] is the 1-based global index of GLL node (α_i, β_j) of face k
	Nodes [][][]int
	// Jacobian[k][j][i] is the local area element times the GLL weights
	Jacobian [][][]float64
}

// GlobalIndex returns the 0-based global index of GLL node (i, j) of face k
func (md *MetaData) GlobalIndex(k, j, i int) int { return md.Nodes[k][j][i] - 1 }

type nodeKind uint8

const (
	cornerNode nodeKind = iota
	edgeNode
	interiorNode
)

// gllKey identifies a GLL node shared between faces. Corners are keyed by
// mesh node, edge nodes by the undirected edge and the position counted from
// the lower numbered end, interior nodes by face.
type gllKey struct {
	kind nodeKind
	a, b int
	pos  int
}

// GenerateMetaData numbers the nP x nP GLL nodes of every face so that nodes
// coincident on shared corners and edges get the same global index. Edges
// that join a node to itself, as on polar fan faces, collapse onto that node.
func GenerateMetaData(m *mesh.Mesh, nP int) (md *MetaData, err error) {
	var (
		el      *GLLElement
		nFaces  = m.NumFaces()
		indices = make(map[gllKey]int)
	)
	if nP < 1 {
		return nil, fmt.Errorf("polynomial degree must be positive, have %d", nP)
	}
	for k, f := range m.Faces {
		if !f.IsQuad() {
			return nil, fmt.Errorf("%w: face %d has %d nodes", ErrNonQuadrilateral, k, len(f))
		}
	}
	if el, err = NewGLLElement(nP); err != nil {
		return
	}
	md = &MetaData{
		NP:       nP,
		Nodes:    make([][][]int, nFaces),
		Jacobian: make([][][]float64, nFaces),
	}
	for k, f := range m.Faces {
		md.Nodes[k] = make([][]int, nP)
		md.Jacobian[k] = make([][]float64, nP)
		for j := 0; j < nP; j++ {
			md.Nodes[k][j] = make([]int, nP)
			md.Jacobian[k][j] = make([]float64, nP)
			for i := 0; i < nP; i++ {
				key := localKey(f, k, nP, i, j)
				ind, present := indices[key]
				if !present {
					ind = len(indices) + 1
					indices[key] = ind
				}
				md.Nodes[k][j][i] = ind

				_, dx1, dx2 := localMap(m.Nodes[f[0]], m.Nodes[f[1]], m.Nodes[f[2]], m.Nodes[f[3]], el.G[i], el.G[j])
				md.Jacobian[k][j][i] = LocalJacobian(dx1, dx2) * el.W[i] * el.W[j]
			}
		}
	}
	md.NumNodes = len(indices)
	log.WithFields(log.Fields{"np": nP, "faces": nFaces, "nodes": md.NumNodes}).Debug("generated GLL metadata")
	return
}

// localKey classifies GLL node (i, j) of face k. Local corners (0,0), (P,0),
// (P,P), (0,P) are face nodes 0 through 3.
func localKey(f mesh.Face, k, nP, i, j int) gllKey {
	var (
		last = nP - 1
	)
	if nP == 1 {
		return gllKey{kind: interiorNode, a: k}
	}
	onI, onJ := i == 0 || i == last, j == 0 || j == last
	switch {
	case onI && onJ:
		return gllKey{kind: cornerNode, a: f[cornerOf(i == last, j == last)]}
	case j == 0:
		return edgeKey(f[0], f[1], i, last)
	case i == last:
		return edgeKey(f[1], f[2], j, last)
	case j == last:
		return edgeKey(f[3], f[2], i, last)
	case i == 0:
		return edgeKey(f[0], f[3], j, last)
	}
	return gllKey{kind: interiorNode, a: k, b: j, pos: i}
}

func cornerOf(iHigh, jHigh bool) int {
	switch {
	case !iHigh && !jHigh:
		return 0
	case iHigh && !jHigh:
		return 1
	case iHigh && jHigh:
		return 2
	}
	return 3
}

// edgeKey keys position pos along the edge running from node a (pos 0) to
// node b (pos last).
func edgeKey(a, b, pos, last int) gllKey {
	switch {
	case a == b:
		return gllKey{kind: cornerNode, a: a}
	case a < b:
		return gllKey{kind: edgeNode, a: a, b: b, pos: pos}
	}
	return gllKey{kind: edgeNode, a: b, b: a, pos: last - pos}
}
