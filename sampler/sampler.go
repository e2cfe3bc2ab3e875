package sampler

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/rllgrid/finiteelement"
	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/quadrature"
	"github.com/notargets/rllgrid/rectilinear"
	"github.com/notargets/rllgrid/utils"
)

const (
	DefaultTriangularOrder = 10
	DefaultGaussPoints     = 10
	DefaultNP              = 4
)

// Sampler evaluates a test function over the faces or GLL nodes of a mesh
type Sampler struct {
	Mesh     *mesh.Mesh
	Layout   *rectilinear.Layout // Face based output layout
	Function TestFunction
	NP       int // GLL nodes per element edge

	TriangularOrder int // Finite volume sub-triangle quadrature order
	GaussPoints     int // Gauss points per direction for Galerkin integration
	ParallelDegree  int // Number of goroutines sharing the face loop

	HOMME       bool // Record GLL node coordinates and areas
	Coordinates bool // Record face centres with finite volume output
}

// NewSampler returns a sampler with the default quadrature settings
func NewSampler(m *mesh.Mesh, layout *rectilinear.Layout, tf TestFunction) *Sampler {
	return &Sampler{
		Mesh:            m,
		Layout:          layout,
		Function:        tf,
		NP:              DefaultNP,
		TriangularOrder: DefaultTriangularOrder,
		GaussPoints:     DefaultGaussPoints,
		ParallelDegree:  1,
	}
}

// Sample produces the field for one sampling mode
func (s *Sampler) Sample(mode Mode) (f *Field, err error) {
	if _, err = ParseTestFunction(int(s.Function)); err != nil {
		return
	}
	if err = s.Mesh.Validate(); err != nil {
		return
	}
	log.WithFields(log.Fields{
		"mode": mode, "function": s.Function, "faces": s.Mesh.NumFaces(),
	}).Debug("sampling test function")
	switch mode {
	case FiniteVolume:
		f, err = s.sampleFiniteVolume()
	case GLLPointwise:
		if err = rectilinear.CheckModes(s.Layout, true, false); err != nil {
			return
		}
		f, err = s.sampleGLLPointwise()
	case GLLIntegrated:
		f, err = s.sampleGLLIntegrated()
	default:
		err = fmt.Errorf("unknown sampling mode %d", mode)
	}
	if f != nil {
		f.Mode, f.Function = mode, s.Function
	}
	return
}

// sampleFiniteVolume computes cell averages with the triangular rule applied
// to the fan triangles of every face.
func (s *Sampler) sampleFiniteVolume() (f *Field, err error) {
	var (
		m    = s.Mesh
		rule *quadrature.TriangularRule
	)
	if err = s.Layout.CheckSize(m.NumFaces()); err != nil {
		return
	}
	if rule, err = quadrature.NewTriangularRule(s.TriangularOrder); err != nil {
		return
	}
	m.CalculateFaceAreas()
	for k, area := range m.FaceAreas {
		if mesh.IsDegenerateArea(area) {
			return nil, fmt.Errorf("face %d has zero area", k)
		}
	}
	f = newField(s.Layout)
	values := f.Values.Elements
	// Remap is a bijection so shards write disjoint slots
	s.forEachShard(m.NumFaces(), func(_, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			values[s.Layout.Remap(k)] = s.faceAverage(k, rule)
		}
	})
	if s.Coordinates {
		lon, lat := m.FaceCenters()
		f.CenterLon, f.CenterLat = make([]float64, len(lon)), make([]float64, len(lat))
		for k := range lon {
			iv := s.Layout.Remap(k)
			f.CenterLon[iv], f.CenterLat[iv] = lon[k], lat[k]
		}
	}
	return
}

func (s *Sampler) faceAverage(k int, rule *quadrature.TriangularRule) float64 {
	var (
		m     = s.Mesh
		areas = m.SubTriangleAreas(k)
		total float64
	)
	for t, tri := range m.SubTriangles(k) {
		n0, n1, n2 := m.Nodes[tri[0]], m.Nodes[tri[1]], m.Nodes[tri[2]]
		var sum float64
		for q, g := range rule.G {
			p := n0.Mul(g[0]).Add(n1.Mul(g[1])).Add(n2.Mul(g[2])).Normalize()
			lon, lat := mesh.XYZtoRLL(p)
			sum += s.Function.Evaluate(lon, lat) * rule.W[q]
		}
		total += sum * areas[t]
	}
	return total / m.FaceAreas[k]
}

// sampleGLLPointwise assigns the test function at every GLL node. Nodes shared
// by neighbouring faces are written more than once with the same value, so
// this mode always runs on one goroutine.
func (s *Sampler) sampleGLLPointwise() (f *Field, err error) {
	var (
		m  = s.Mesh
		md *finiteelement.MetaData
		el *finiteelement.GLLElement
	)
	if md, el, err = s.metaData(); err != nil {
		return
	}
	f = newField(s.Layout.ForNodes(md.NumNodes))
	values := f.Values.Elements
	if s.HOMME {
		f.allocateNodeCoordinates(md.NumNodes)
	}
	for k, face := range m.Faces {
		for j := 0; j < s.NP; j++ {
			for i := 0; i < s.NP; i++ {
				node, _, _, err := finiteelement.ApplyLocalMap(face, m.Nodes, el.G[i], el.G[j])
				if err != nil {
					return nil, err
				}
				lon, lat := mesh.XYZtoRLL(node)
				g := md.GlobalIndex(k, j, i)
				values[g] = s.Function.Evaluate(lon, lat)
				if s.HOMME {
					f.Lat[g], f.Lon[g] = utils.Rad2Deg(lat), utils.Rad2Deg(lon)
					f.Area[g] += md.Jacobian[k][j][i]
				}
			}
		}
	}
	return
}

// sampleGLLIntegrated projects the test function onto the GLL basis with a
// Gauss tensor product rule, normalizing by the accumulated nodal areas.
func (s *Sampler) sampleGLLIntegrated() (f *Field, err error) {
	var (
		m      = s.Mesh
		md     *finiteelement.MetaData
		gG, gW []float64
		pm     = utils.NewPartitionMap(s.ParallelDegree, m.NumFaces())
	)
	if md, _, err = s.metaData(); err != nil {
		return
	}
	if gG, gW, err = quadrature.Gauss(s.GaussPoints, 0, 1); err != nil {
		return
	}
	var (
		partials = make([]*nodalAccumulator, pm.ParallelDegree)
		errs     = make([]error, pm.ParallelDegree)
	)
	s.forEachShardOf(pm, func(np, kMin, kMax int) {
		var (
			acc = newNodalAccumulator(md.NumNodes)
		)
		partials[np] = acc
		el, err := finiteelement.NewGLLElement(s.NP)
		if err != nil {
			errs[np] = err
			return
		}
		coeff := el.NewCoefficients()
		for k := kMin; k < kMax; k++ {
			face := m.Faces[k]
			for p := range gG {
				for q := range gG {
					node, dx1, dx2, err := finiteelement.ApplyLocalMap(face, m.Nodes, gG[p], gG[q])
					if err != nil {
						errs[np] = err
						return
					}
					jac := finiteelement.LocalJacobian(dx1, dx2)
					el.Coefficients(gG[p], gG[q], coeff)
					lon, lat := mesh.XYZtoRLL(node)
					sample := s.Function.Evaluate(lon, lat)
					for j := 0; j < s.NP; j++ {
						for i := 0; i < s.NP; i++ {
							acc.accumulate(md.GlobalIndex(k, j, i), sample, coeff[j][i]*gW[p]*gW[q]*jac)
						}
					}
				}
			}
		}
	})
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	total := partials[0]
	for _, acc := range partials[1:] {
		total.merge(acc)
	}
	f = newField(s.Layout.ForNodes(md.NumNodes))
	if err = total.normalize(f.Values.Elements); err != nil {
		return nil, err
	}
	f.NodeArea = total.area
	if s.HOMME {
		f.allocateNodeCoordinates(md.NumNodes)
		copy(f.Area, total.area)
		if err = s.nodeCoordinates(md, f); err != nil {
			return nil, err
		}
	}
	return
}

// nodeCoordinates records the position of every global GLL node in degrees
func (s *Sampler) nodeCoordinates(md *finiteelement.MetaData, f *Field) (err error) {
	var (
		m  = s.Mesh
		el *finiteelement.GLLElement
	)
	if el, err = finiteelement.NewGLLElement(s.NP); err != nil {
		return
	}
	for k, face := range m.Faces {
		for j := 0; j < s.NP; j++ {
			for i := 0; i < s.NP; i++ {
				node, _, _, err := finiteelement.ApplyLocalMap(face, m.Nodes, el.G[i], el.G[j])
				if err != nil {
					return err
				}
				g := md.GlobalIndex(k, j, i)
				f.Lon[g], f.Lat[g] = mesh.XYZtoRLLDeg(node)
			}
		}
	}
	return
}

func (s *Sampler) metaData() (md *finiteelement.MetaData, el *finiteelement.GLLElement, err error) {
	if s.NP < 1 {
		return nil, nil, fmt.Errorf("polynomial degree must be positive, have %d", s.NP)
	}
	if md, err = finiteelement.GenerateMetaData(s.Mesh, s.NP); err != nil {
		return
	}
	el, err = finiteelement.NewGLLElement(s.NP)
	return
}

// forEachShard splits [0,n) into ParallelDegree contiguous ranges and runs
// work on each in its own goroutine.
func (s *Sampler) forEachShard(n int, work func(np, kMin, kMax int)) {
	s.forEachShardOf(utils.NewPartitionMap(s.ParallelDegree, n), work)
}

func (s *Sampler) forEachShardOf(pm *utils.PartitionMap, work func(np, kMin, kMax int)) {
	if pm.ParallelDegree == 1 {
		work(0, 0, pm.MaxIndex)
		return
	}
	wg := sync.WaitGroup{}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			work(np, kMin, kMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
}
