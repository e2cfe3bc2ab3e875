package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/notargets/rllgrid/utils"
)

// ErrFormat marks mesh files that cannot be interpreted.
var ErrFormat = errors.New("unrecognized mesh format")

// Node is a point on the unit sphere
type Node = r3.Vector

// Face is an ordered list of node indices. Consecutive nodes share an edge and
// a node may repeat to form a degenerate (polar) face.
type Face []int

func (f Face) IsQuad() bool { return len(f) == 4 }

// Mesh holds the nodes and faces of a spherical mesh
type Mesh struct {
	Nodes     []Node
	Faces     []Face
	FaceAreas []float64 // Filled by CalculateFaceAreas
	Concave   bool      // Faces may be concave, fan triangles carry signed areas
}

func NewMesh() *Mesh {
	return &Mesh{}
}

// AddNode appends a node and returns its index
func (m *Mesh) AddNode(n Node) (ind int) {
	m.Nodes = append(m.Nodes, n)
	return len(m.Nodes) - 1
}

func (m *Mesh) AddFace(nodes ...int) {
	f := make(Face, len(nodes))
	copy(f, nodes)
	m.Faces = append(m.Faces, f)
}

func (m *Mesh) NumNodes() int { return len(m.Nodes) }
func (m *Mesh) NumFaces() int { return len(m.Faces) }

// Validate checks face sizes and node references
func (m *Mesh) Validate() (err error) {
	for k, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d nodes, at least 3 required", k, len(f))
		}
		for _, n := range f {
			if n < 0 || n >= len(m.Nodes) {
				return fmt.Errorf("face %d references node %d, mesh has %d nodes", k, n, len(m.Nodes))
			}
		}
	}
	return
}

// SubTriangles returns the fan decomposition of face k, all triangles share the
// first node of the face.
func (m *Mesh) SubTriangles(k int) (tris [][3]int) {
	var (
		f = m.Faces[k]
	)
	tris = make([][3]int, len(f)-2)
	for j := range tris {
		tris[j] = [3]int{f[0], f[j+1], f[j+2]}
	}
	return
}

// SubTriangleAreas returns the spherical area of each fan triangle of face k.
// For concave meshes the areas are signed, oriented so the face sum is positive.
func (m *Mesh) SubTriangleAreas(k int) (areas []float64) {
	var (
		tris = m.SubTriangles(k)
		sum  float64
	)
	areas = make([]float64, len(tris))
	for j, tri := range tris {
		a, b, c := m.Nodes[tri[0]], m.Nodes[tri[1]], m.Nodes[tri[2]]
		if m.Concave {
			areas[j] = SignedTriangleArea(a, b, c)
		} else {
			areas[j] = TriangleArea(a, b, c)
		}
		sum += areas[j]
	}
	if sum < 0 {
		for j := range areas {
			areas[j] = -areas[j]
		}
	}
	return
}

// CalculateFaceAreas fills FaceAreas and returns the total mesh area
func (m *Mesh) CalculateFaceAreas() (total float64) {
	m.FaceAreas = make([]float64, len(m.Faces))
	for k := range m.Faces {
		var area float64
		for _, a := range m.SubTriangleAreas(k) {
			area += a
		}
		m.FaceAreas[k] = area
		total += area
	}
	return
}

// FaceCenters returns the longitude and latitude in degrees of the normalized
// node average of every face.
func (m *Mesh) FaceCenters() (lon, lat []float64) {
	lon, lat = make([]float64, len(m.Faces)), make([]float64, len(m.Faces))
	for k, f := range m.Faces {
		var c r3.Vector
		for _, n := range f {
			c = c.Add(m.Nodes[n])
		}
		lon[k], lat[k] = XYZtoRLLDeg(c.Normalize())
	}
	return
}

// MaxNodeDeviation returns the largest departure of any node from the unit sphere
func (m *Mesh) MaxNodeDeviation() (dev float64) {
	for _, n := range m.Nodes {
		dev = math.Max(dev, math.Abs(n.Norm()-1))
	}
	return
}

// IsDegenerateArea reports whether an accumulated face area is too small to
// normalize against.
func IsDegenerateArea(area float64) bool {
	return math.Abs(area) < utils.AREATOL
}
