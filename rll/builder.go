package rll

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/utils"
)

// Options control the face ordering of a generated mesh
type Options struct {
	// Flip orders faces longitude-major instead of latitude-major
	Flip bool
}

// Build generates a longitude-latitude mesh on the unit sphere from cell edge
// partitions in radians. A latitude partition that starts or ends on a pole
// gets a single pole node joined to the neighbouring ring by degenerate quads
// whose first and last nodes are the pole.
//
// Nodes are ordered south pole, rings from south to north, north pole. Faces
// are ordered south cap, interior rings, north cap, one row per latitude band
// with longitude varying fastest. With Flip set the faces are transposed so
// latitude varies fastest.
func Build(lonEdges, latEdges []float64, opts Options) (m *mesh.Mesh, meta mesh.GridMetadata, err error) {
	if err = checkEdges(lonEdges, latEdges); err != nil {
		return
	}
	var (
		nLon, nLat   = len(lonEdges) - 1, len(latEdges) - 1
		wrap         = Wraps(lonEdges)
		southPole    = math.Abs(latEdges[0]+0.5*math.Pi) < poleTol
		northPole    = math.Abs(latEdges[nLat]-0.5*math.Pi) < poleTol
		nLonNodes    = nLon
		southOffset  int
		interiorBeg  int
		interiorEnd  = nLat
		ringStart    = func(jx int) int { return jx*nLonNodes + southOffset }
		wrappedIndex = func(i int) int { return i % nLonNodes }
	)
	if !wrap {
		nLonNodes++
	} else if nLon < 2 {
		err = fmt.Errorf("%w: a periodic mesh needs at least two longitudes", ErrInvalidInput)
		return
	}
	if southPole && northPole && nLat < 2 {
		err = fmt.Errorf("%w: a mesh spanning both poles needs at least two latitudes", ErrInvalidInput)
		return
	}
	if southPole {
		southOffset, interiorBeg = 1, 1
	}
	if northPole {
		interiorEnd = nLat - 1
	}
	log.WithFields(log.Fields{
		"lon": nLon, "lat": nLat, "wrap": wrap, "south_pole": southPole, "north_pole": northPole,
	}).Debug("building RLL mesh")

	m = mesh.NewMesh()
	if southPole {
		m.AddNode(mesh.Node{X: 0, Y: 0, Z: -1})
	}
	for j := interiorBeg; j <= interiorEnd; j++ {
		for i := 0; i < nLonNodes; i++ {
			m.AddNode(mesh.RLLtoXYZ(lonEdges[i], latEdges[j]))
		}
	}
	if northPole {
		m.AddNode(mesh.Node{X: 0, Y: 0, Z: 1})
	}

	if southPole {
		for i := 0; i < nLon; i++ {
			m.AddFace(0, wrappedIndex(i+1)+1, i+1, 0)
		}
	}
	for j := interiorBeg; j < interiorEnd; j++ {
		this, next := ringStart(j-interiorBeg), ringStart(j-interiorBeg+1)
		for i := 0; i < nLon; i++ {
			ip := wrappedIndex(i + 1)
			m.AddFace(this+ip, next+ip, next+i, this+i)
		}
	}
	if northPole {
		var (
			pole = m.NumNodes() - 1
			this = ringStart(nLat - interiorBeg - 1)
		)
		for i := 0; i < nLon; i++ {
			m.AddFace(pole, this+i, this+wrappedIndex(i+1), pole)
		}
	}

	meta = mesh.GridMetadata{
		Rectilinear: true,
		DimSizes:    [2]int{nLat, nLon},
		DimNames:    [2]string{"lat", "lon"},
	}
	if opts.Flip {
		m.Faces = transposeFaces(m.Faces, nLon, nLat)
		meta.DimSizes = [2]int{nLon, nLat}
		meta.DimNames = [2]string{"lon", "lat"}
	}
	return
}

// transposeFaces reorders latitude-major faces to longitude-major
func transposeFaces(faces []mesh.Face, nLon, nLat int) (flipped []mesh.Face) {
	flipped = make([]mesh.Face, 0, len(faces))
	for i := 0; i < nLon; i++ {
		for j := 0; j < nLat; j++ {
			flipped = append(flipped, faces[j*nLon+i])
		}
	}
	return
}

func checkEdges(lonEdges, latEdges []float64) (err error) {
	if len(lonEdges) < 2 {
		return fmt.Errorf("%w: invalid array of longitudes, %d edges", ErrInvalidInput, len(lonEdges))
	}
	if len(latEdges) < 2 {
		return fmt.Errorf("%w: invalid array of latitudes, %d edges", ErrInvalidInput, len(latEdges))
	}
	if !utils.IsMonotone(latEdges, utils.Less) {
		return fmt.Errorf("%w: latitude edges must be strictly increasing", ErrInvalidInput)
	}
	if latEdges[0] < -0.5*math.Pi-poleTol || latEdges[len(latEdges)-1] > 0.5*math.Pi+poleTol {
		return fmt.Errorf("%w: latitude edges must lie within [-90, 90]", ErrInvalidInput)
	}
	// The closing edge of a periodic partition may coincide with the first
	n := len(lonEdges) - 1
	if !utils.IsMonotone(lonEdges[:n], utils.Less) {
		return fmt.Errorf("%w: longitude edges must be strictly increasing", ErrInvalidInput)
	}
	if !Wraps(lonEdges) && lonEdges[n] <= lonEdges[n-1] {
		return fmt.Errorf("%w: longitude edges must be strictly increasing", ErrInvalidInput)
	}
	return
}
