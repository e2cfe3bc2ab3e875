package finiteelement

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/rll"
)

func rllMesh(t *testing.T, nLon, nLat int, latBeg, latEnd float64) *mesh.Mesh {
	lonEdges, err := rll.EdgesFromRange(0, 360, nLon)
	require.NoError(t, err)
	latEdges, err := rll.EdgesFromRange(latBeg, latEnd, nLat)
	require.NoError(t, err)
	m, _, err := rll.Build(lonEdges, latEdges, rll.Options{})
	require.NoError(t, err)
	return m
}

func TestLagrangeBasis1D(t *testing.T) {
	R := []float64{0, 0.25, 0.6, 1}
	lb := NewLagrangeBasis1D(R)
	f := make([]float64, lb.Np)
	for j, r := range R {
		lb.Evaluate(r, f)
		for i := range f {
			if i == j {
				assert.Equal(t, 1., f[i])
			} else {
				assert.Equal(t, 0., f[i])
			}
		}
	}
	// Partition of unity and exact reproduction of a cubic
	for _, r := range []float64{0.1, 0.33, 0.5, 0.77, 0.95} {
		lb.Evaluate(r, f)
		var sum, cubic float64
		for j := range f {
			sum += f[j]
			cubic += f[j] * R[j] * R[j] * R[j]
		}
		assert.InDelta(t, 1., sum, 1.e-13)
		assert.InDelta(t, r*r*r, cubic, 1.e-13)
	}
}

func TestSampleGLLFiniteElement(t *testing.T) {
	{
		coeff, err := SampleGLLFiniteElement(1, 0.3, 0.8)
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{1}}, coeff)
	}
	{
		el, err := NewGLLElement(4)
		require.NoError(t, err)
		coeff, err := SampleGLLFiniteElement(4, el.G[1], el.G[2])
		require.NoError(t, err)
		for j := range coeff {
			for i := range coeff[j] {
				if j == 2 && i == 1 {
					assert.InDelta(t, 1., coeff[j][i], 1.e-14)
				} else {
					assert.InDelta(t, 0., coeff[j][i], 1.e-14)
				}
			}
		}
		coeff, err = SampleGLLFiniteElement(4, 0.37, 0.71)
		require.NoError(t, err)
		var sum float64
		for j := range coeff {
			for i := range coeff[j] {
				sum += coeff[j][i]
			}
		}
		assert.InDelta(t, 1., sum, 1.e-13)
	}
	_, err := SampleGLLFiniteElement(0, 0, 0)
	assert.Error(t, err)
}

func TestApplyLocalMap(t *testing.T) {
	m := rllMesh(t, 8, 4, -60, 60)
	face := m.Faces[9]
	corners := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for c, ab := range corners {
		node, _, _, err := ApplyLocalMap(face, m.Nodes, ab[0], ab[1])
		require.NoError(t, err)
		assert.InDelta(t, 0., node.Sub(m.Nodes[face[c]]).Norm(), 1.e-14)
	}
	// Tangents match centred differences of the mapped point
	var (
		a, b = 0.3, 0.6
		h    = 1.e-6
	)
	node, dx1, dx2, err := ApplyLocalMap(face, m.Nodes, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1., node.Norm(), 1.e-14)
	pa, _, _, _ := ApplyLocalMap(face, m.Nodes, a+h, b)
	ma, _, _, _ := ApplyLocalMap(face, m.Nodes, a-h, b)
	pb, _, _, _ := ApplyLocalMap(face, m.Nodes, a, b+h)
	mb, _, _, _ := ApplyLocalMap(face, m.Nodes, a, b-h)
	assert.InDelta(t, 0., pa.Sub(ma).Mul(0.5/h).Sub(dx1).Norm(), 1.e-8)
	assert.InDelta(t, 0., pb.Sub(mb).Mul(0.5/h).Sub(dx2).Norm(), 1.e-8)
	// Tangent plane of the sphere
	assert.InDelta(t, 0., node.Dot(dx1), 1.e-14)
	assert.InDelta(t, 0., node.Dot(dx2), 1.e-14)

	_, _, _, err = ApplyLocalMap(mesh.Face{0, 1, 2}, m.Nodes, a, b)
	assert.ErrorIs(t, err, ErrNonQuadrilateral)
}

func TestGenerateMetaDataNumbering(t *testing.T) {
	var (
		nLon, nLat = 8, 4
		nP         = 4
	)
	m := rllMesh(t, nLon, nLat, -60, 60)
	md, err := GenerateMetaData(m, nP)
	require.NoError(t, err)
	// Periodic band: (nP-1) nodes per face around, (nP-1) per face up plus the top ring
	assert.Equal(t, nLon*(nP-1)*(nLat*(nP-1)+1), md.NumNodes)

	seen := make([]bool, md.NumNodes)
	for k := range md.Nodes {
		for j := 0; j < nP; j++ {
			for i := 0; i < nP; i++ {
				g := md.GlobalIndex(k, j, i)
				require.True(t, g >= 0 && g < md.NumNodes)
				seen[g] = true
			}
		}
	}
	for g, s := range seen {
		assert.True(t, s, "node %d", g)
	}

	// Every face reference to a global node lands on the same physical point
	el, err := NewGLLElement(nP)
	require.NoError(t, err)
	points := make(map[int]r3.Vector)
	for k, f := range m.Faces {
		for j := 0; j < nP; j++ {
			for i := 0; i < nP; i++ {
				node, _, _, err := ApplyLocalMap(f, m.Nodes, el.G[i], el.G[j])
				require.NoError(t, err)
				g := md.GlobalIndex(k, j, i)
				if p, present := points[g]; present {
					assert.InDelta(t, 0., p.Sub(node).Norm(), 1.e-13)
				} else {
					points[g] = node
				}
			}
		}
	}
}

func TestGenerateMetaDataPoles(t *testing.T) {
	var (
		nLon, nLat = 6, 3
		nP         = 3
	)
	m := rllMesh(t, nLon, nLat, -90, 90)
	md, err := GenerateMetaData(m, nP)
	require.NoError(t, err)
	// Rings of (nP-1) nodes per face around at every GLL latitude except the poles
	assert.Equal(t, 2+nLon*(nP-1)*(nLat*(nP-1)-1), md.NumNodes)
	// All fan faces share one south pole node
	pole := md.GlobalIndex(0, 0, 0)
	for k := 0; k < nLon; k++ {
		for j := 0; j < nP; j++ {
			assert.Equal(t, pole, md.GlobalIndex(k, j, 0))
		}
	}

	// Nodal areas cover the sphere
	m = rllMesh(t, 36, 18, -90, 90)
	md, err = GenerateMetaData(m, 4)
	require.NoError(t, err)
	var total float64
	for k := range md.Jacobian {
		for j := range md.Jacobian[k] {
			for _, jac := range md.Jacobian[k][j] {
				total += jac
			}
		}
	}
	assert.InDelta(t, 4*math.Pi, total, 1.e-4)
}

func TestGenerateMetaDataErrors(t *testing.T) {
	m := mesh.NewMesh()
	m.AddNode(mesh.RLLtoXYZ(0, 0))
	m.AddNode(mesh.RLLtoXYZ(0.1, 0))
	m.AddNode(mesh.RLLtoXYZ(0, 0.1))
	m.AddFace(0, 1, 2)
	_, err := GenerateMetaData(m, 4)
	assert.ErrorIs(t, err, ErrNonQuadrilateral)

	m = rllMesh(t, 4, 2, -45, 45)
	md, err := GenerateMetaData(m, 1)
	require.NoError(t, err)
	assert.Equal(t, m.NumFaces(), md.NumNodes)
	_, err = GenerateMetaData(m, 0)
	assert.Error(t, err)
}
