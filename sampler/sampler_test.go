package sampler

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/rectilinear"
	"github.com/notargets/rllgrid/rll"
	"github.com/notargets/rllgrid/utils"
)

func rllMesh(t *testing.T, nLon, nLat int, latBeg, latEnd float64, flip bool) (*mesh.Mesh, mesh.GridMetadata) {
	lonEdges, err := rll.EdgesFromRange(0, 360, nLon)
	require.NoError(t, err)
	latEdges, err := rll.EdgesFromRange(latBeg, latEnd, nLat)
	require.NoError(t, err)
	m, meta, err := rll.Build(lonEdges, latEdges, rll.Options{Flip: flip})
	require.NoError(t, err)
	return m, meta
}

func columnLayout(t *testing.T, m *mesh.Mesh, level bool) *rectilinear.Layout {
	l, err := rectilinear.Resolve(mesh.GridMetadata{}, m.NumFaces(), rectilinear.Options{Level: level})
	require.NoError(t, err)
	return l
}

func TestTestFunctions(t *testing.T) {
	for i := 1; i <= 4; i++ {
		tf, err := ParseTestFunction(i)
		require.NoError(t, err)
		assert.Equal(t, TestFunction(i), tf)
	}
	for _, i := range []int{0, 5, -1} {
		_, err := ParseTestFunction(i)
		assert.ErrorIs(t, err, ErrUnknownTestFunction)
	}
	assert.InDelta(t, 3., Y2b2.Evaluate(0, 0), 1.e-15)
	assert.InDelta(t, 1., Y2b2.Evaluate(math.Pi/2, 0), 1.e-15)
	assert.InDelta(t, 2., Y2b2.Evaluate(1.3, math.Pi/2), 1.e-15)
	assert.InDelta(t, 3., Y16b32.Evaluate(0, math.Pi/4), 1.e-14)
	assert.InDelta(t, 2., Y16b32.Evaluate(0.7, 0), 1.e-15)
	assert.Equal(t, 1., Constant.Evaluate(2.1, -0.3))
	// The vortex is at rest on its own axis
	assert.InDelta(t, 1., Vortex.Evaluate(0, 0.6), 1.e-12)
	v := Vortex.Evaluate(1.0, -0.2)
	assert.True(t, v > 0 && v < 2)
	assert.Equal(t, "Y16b32", Y16b32.String())
}

func TestModeFromFlags(t *testing.T) {
	m, err := ModeFromFlags(false, false)
	require.NoError(t, err)
	assert.Equal(t, FiniteVolume, m)
	m, err = ModeFromFlags(true, false)
	require.NoError(t, err)
	assert.Equal(t, GLLPointwise, m)
	m, err = ModeFromFlags(false, true)
	require.NoError(t, err)
	assert.Equal(t, GLLIntegrated, m)
	_, err = ModeFromFlags(true, true)
	assert.ErrorIs(t, err, rectilinear.ErrConfiguration)
}

func TestFiniteVolumeConstant(t *testing.T) {
	for _, flip := range []bool{false, true} {
		m, meta := rllMesh(t, 12, 6, -90, 90, flip)
		layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{Flip: flip, Level: true})
		require.NoError(t, err)
		s := NewSampler(m, layout, Constant)
		f, err := s.Sample(FiniteVolume)
		require.NoError(t, err)
		assert.Equal(t, []int{meta.DimSizes[0], meta.DimSizes[1], 1}, f.Values.Shape)
		for i, v := range f.Values.Elements {
			assert.InDelta(t, 1., v, 1.e-12, "offset %d", i)
		}
	}
	{ // Signed sub-triangle areas give the same averages
		m, _ := rllMesh(t, 8, 4, -90, 90, false)
		m.Concave = true
		f, err := NewSampler(m, columnLayout(t, m, false), Constant).Sample(FiniteVolume)
		require.NoError(t, err)
		for _, v := range f.Values.Elements {
			assert.InDelta(t, 1., v, 1.e-12)
		}
	}
}

func TestFiniteVolumeFlipPlacement(t *testing.T) {
	m, meta := rllMesh(t, 6, 4, -60, 60, false)
	native, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	flipped, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{Flip: true})
	require.NoError(t, err)
	fn, err := NewSampler(m, native, Y2b2).Sample(FiniteVolume)
	require.NoError(t, err)
	ff, err := NewSampler(m, flipped, Y2b2).Sample(FiniteVolume)
	require.NoError(t, err)
	for k := 0; k < m.NumFaces(); k++ {
		assert.Equal(t, fn.Values.Elements[k], ff.Values.Elements[flipped.Remap(k)])
	}
}

func TestFiniteVolumeErrors(t *testing.T) {
	m, meta := rllMesh(t, 4, 2, -45, 45, false)
	layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)

	_, err = NewSampler(m, layout, TestFunction(9)).Sample(FiniteVolume)
	assert.ErrorIs(t, err, ErrUnknownTestFunction)

	// Layout that does not match the faces
	bad, err := rectilinear.Resolve(mesh.GridMetadata{GridDims: []int{3}}, 3, rectilinear.Options{})
	require.NoError(t, err)
	_, err = NewSampler(m, bad, Y2b2).Sample(FiniteVolume)
	assert.ErrorIs(t, err, rectilinear.ErrUnsupportedGrid)

	// Collapsed face
	z := mesh.NewMesh()
	n := z.AddNode(mesh.RLLtoXYZ(0, 0))
	z.AddFace(n, n, n)
	_, err = NewSampler(z, columnLayout(t, z, false), Y2b2).Sample(FiniteVolume)
	assert.Error(t, err)
}

func TestGLLPointwise(t *testing.T) {
	m, _ := rllMesh(t, 36, 18, -90, 90, false)
	s := NewSampler(m, columnLayout(t, m, true), Constant)
	s.HOMME = true
	f, err := s.Sample(GLLPointwise)
	require.NoError(t, err)
	assert.Equal(t, []string{rectilinear.ColumnName, rectilinear.LevelName}, f.Layout.Names())
	assert.False(t, utils.IsNan(f.Values.Elements))
	for g, v := range f.Values.Elements {
		assert.Equal(t, 1., v, "node %d", g)
	}
	assert.InDelta(t, 4*math.Pi, floats.Sum(f.Area), 1.e-4)
	assert.Equal(t, len(f.Values.Elements), len(f.Lat))
	for g := range f.Lat {
		assert.True(t, f.Lat[g] >= -90 && f.Lat[g] <= 90)
		assert.True(t, f.Lon[g] >= 0 && f.Lon[g] <= 360)
	}

	// Shared nodes hold the value of their physical position
	s = NewSampler(m, columnLayout(t, m, false), Y2b2)
	s.HOMME = true
	f, err = s.Sample(GLLPointwise)
	require.NoError(t, err)
	for g, v := range f.Values.Elements {
		assert.InDelta(t, Y2b2.Evaluate(utils.Deg2Rad(f.Lon[g]), utils.Deg2Rad(f.Lat[g])), v, 1.e-12)
	}
}

func TestGLLPointwiseErrors(t *testing.T) {
	m, meta := rllMesh(t, 4, 2, -45, 45, false)
	rect, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	_, err = NewSampler(m, rect, Y2b2).Sample(GLLPointwise)
	assert.ErrorIs(t, err, rectilinear.ErrConfiguration)

	tri := mesh.NewMesh()
	tri.AddNode(mesh.RLLtoXYZ(0, 0))
	tri.AddNode(mesh.RLLtoXYZ(0.1, 0))
	tri.AddNode(mesh.RLLtoXYZ(0, 0.1))
	tri.AddFace(0, 1, 2)
	_, err = NewSampler(tri, columnLayout(t, tri, false), Y2b2).Sample(GLLPointwise)
	assert.Error(t, err)
	_, err = NewSampler(tri, columnLayout(t, tri, false), Y2b2).Sample(GLLIntegrated)
	assert.Error(t, err)

	// Invalid element orders fail on every shard without panicking
	for _, mode := range []Mode{GLLPointwise, GLLIntegrated} {
		cm, _ := rllMesh(t, 8, 4, -90, 90, false)
		s := NewSampler(cm, columnLayout(t, cm, false), Y2b2)
		s.NP, s.ParallelDegree = 0, 4
		assert.NotPanics(t, func() {
			_, err = s.Sample(mode)
		})
		assert.Error(t, err, "mode %s", mode)
	}
}

func TestGLLIntegrated(t *testing.T) {
	m, meta := rllMesh(t, 24, 12, -90, 90, false)
	// Integrated output is allowed on rectilinear grids, as a node column
	layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	s := NewSampler(m, layout, Constant)
	f, err := s.Sample(GLLIntegrated)
	require.NoError(t, err)
	assert.Equal(t, []string{rectilinear.ColumnName}, f.Layout.Names())
	for _, v := range f.Values.Elements {
		assert.InDelta(t, 1., v, 1.e-12)
	}
	assert.InDelta(t, 4*math.Pi, floats.Sum(f.NodeArea), 1.e-8)
	assert.Nil(t, f.Lat)
}

func TestFiniteVolumeCellAverage(t *testing.T) {
	// Near the equator RLL faces are close to lon-lat boxes, whose Y2b2 average
	// has a closed form
	var (
		nLon, nLat = 72, 4
		dLon, dLat = 5., 5.
	)
	m, meta := rllMesh(t, nLon, nLat, -10, 10, false)
	layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	f, err := NewSampler(m, layout, Y2b2).Sample(FiniteVolume)
	require.NoError(t, err)
	boxAverage := func(lon0, lon1, lat0, lat1 float64) float64 {
		s0, s1 := math.Sin(lat0), math.Sin(lat1)
		area := (lon1 - lon0) * (s1 - s0)
		lonPart := 0.5 * (math.Sin(2*lon1) - math.Sin(2*lon0))
		latPart := (s1 - s1*s1*s1/3) - (s0 - s0*s0*s0/3)
		return 2 + lonPart*latPart/area
	}
	for k, v := range f.Values.Elements {
		i, j := k%nLon, k/nLon
		exact := boxAverage(
			utils.Deg2Rad(float64(i)*dLon), utils.Deg2Rad(float64(i+1)*dLon),
			utils.Deg2Rad(-10+float64(j)*dLat), utils.Deg2Rad(-10+float64(j+1)*dLat))
		assert.InDelta(t, exact, v, 5.e-4, "face %d", k)
	}
}

func TestIntegratedMatchesFiniteVolume(t *testing.T) {
	m, _ := rllMesh(t, 36, 16, -80, 80, false)
	layout := columnLayout(t, m, false)

	fv, err := NewSampler(m, layout, Y2b2).Sample(FiniteVolume)
	require.NoError(t, err)
	s := NewSampler(m, layout, Y2b2)
	s.NP = 1
	fe, err := s.Sample(GLLIntegrated)
	require.NoError(t, err)
	// One GLL node per face, numbered in face order
	require.Equal(t, len(fv.Values.Elements), len(fe.Values.Elements))
	for k := range fv.Values.Elements {
		assert.InDelta(t, fv.Values.Elements[k], fe.Values.Elements[k], 5.e-3, "face %d", k)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	m, meta := rllMesh(t, 20, 10, -90, 90, false)
	layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	for _, mode := range []Mode{FiniteVolume, GLLIntegrated} {
		serial := NewSampler(m, layout, Vortex)
		fs, err := serial.Sample(mode)
		require.NoError(t, err)
		parallel := NewSampler(m, layout, Vortex)
		parallel.ParallelDegree = 7
		fp, err := parallel.Sample(mode)
		require.NoError(t, err)
		assert.InDeltaSlice(t, fs.Values.Elements, fp.Values.Elements, 1.e-12, "mode %s", mode)
	}
}

func TestFieldWrite(t *testing.T) {
	dir := t.TempDir()
	{ // Rectilinear finite volume with face centres
		m, meta := rllMesh(t, 8, 4, -90, 90, false)
		layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{Level: true})
		require.NoError(t, err)
		s := NewSampler(m, layout, Y2b2)
		s.Coordinates = true
		f, err := s.Sample(FiniteVolume)
		require.NoError(t, err)
		path := filepath.Join(dir, "fv.nc")
		require.NoError(t, f.Write(path, "Psi"))

		values, dims, err := ReadField(path, "Psi")
		require.NoError(t, err)
		assert.Equal(t, []string{"lat", "lon", "lev"}, dims)
		assert.InDeltaSlice(t, f.Values.Elements, values, 1.e-15)
		lat, dims, err := ReadField(path, "center_lat")
		require.NoError(t, err)
		assert.Equal(t, []string{"lat", "lon"}, dims)
		assert.Less(t, lat[0], lat[len(lat)-1])
	}
	{ // HOMME pointwise
		m, _ := rllMesh(t, 8, 4, -90, 90, false)
		s := NewSampler(m, columnLayout(t, m, true), Y2b2)
		s.HOMME = true
		s.NP = 3
		f, err := s.Sample(GLLPointwise)
		require.NoError(t, err)
		path := filepath.Join(dir, "homme.nc")
		require.NoError(t, f.Write(path, "Psi"))

		values, dims, err := ReadField(path, "Psi")
		require.NoError(t, err)
		assert.Equal(t, []string{rectilinear.ColumnName, rectilinear.LevelName}, dims)
		assert.InDeltaSlice(t, f.Values.Elements, values, 1.e-15)
		area, dims, err := ReadField(path, "area")
		require.NoError(t, err)
		assert.Equal(t, []string{rectilinear.ColumnName}, dims)
		assert.InDeltaSlice(t, f.Area, area, 1.e-15)
	}
}

func TestReservedVariableNames(t *testing.T) {
	dir := t.TempDir()
	m, meta := rllMesh(t, 8, 4, -90, 90, false)
	layout, err := rectilinear.Resolve(meta, m.NumFaces(), rectilinear.Options{})
	require.NoError(t, err)
	s := NewSampler(m, layout, Y2b2)
	s.Coordinates = true
	fv, err := s.Sample(FiniteVolume)
	require.NoError(t, err)
	for _, name := range []string{"center_lon", "center_lat"} {
		assert.ErrorIs(t, fv.Write(filepath.Join(dir, name+".nc"), name), rectilinear.ErrConfiguration)
	}
	// Node coordinates are not written in finite volume mode
	assert.NoError(t, fv.Write(filepath.Join(dir, "area.nc"), "area"))

	s = NewSampler(m, columnLayout(t, m, true), Y2b2)
	s.HOMME, s.NP = true, 2
	fe, err := s.Sample(GLLIntegrated)
	require.NoError(t, err)
	for _, name := range []string{"lat", "lon", "area"} {
		assert.ErrorIs(t, fe.Write(filepath.Join(dir, "fe_"+name+".nc"), name), rectilinear.ErrConfiguration)
	}
	assert.NoError(t, CheckVariableName("area", false, true))
}
