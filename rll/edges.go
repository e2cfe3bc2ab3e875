package rll

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/rllgrid/utils"
)

// ErrInvalidInput marks ranges, counts and coordinate arrays that cannot
// describe a mesh.
var ErrInvalidInput = errors.New("invalid RLL input")

const (
	periodicTol = utils.NODETOL
	poleTol     = utils.NODETOL
	wrapTol     = utils.NODETOL
)

// EdgesFromRange returns n+1 uniformly spaced cell edges spanning [begin, end].
// Input is in degrees, the edges are in radians.
func EdgesFromRange(begin, end float64, n int) (edges []float64, err error) {
	if begin >= end {
		err = fmt.Errorf("%w: range [%g, %g] must be a positive interval", ErrInvalidInput, begin, end)
		return
	}
	if n < 1 {
		err = fmt.Errorf("%w: at least one cell required, got %d", ErrInvalidInput, n)
		return
	}
	var (
		b = utils.Deg2Rad(begin)
		d = utils.Deg2Rad(end) - b
	)
	edges = make([]float64, n+1)
	for i := range edges {
		edges[i] = d*float64(i)/float64(n) + b
	}
	return
}

// EdgesFromNodes derives cell edges from cell centre coordinates in degrees.
// Interior edges lie midway between neighbouring nodes and the outer edges are
// extrapolated by half a cell. Longitudes that are evenly spaced across the
// date line are treated as periodic, as is any input with forceGlobal set, in
// which case both outer longitude edges meet at the same angle. Latitude edges
// are clamped to the poles. The edges are returned in radians.
func EdgesFromNodes(lonNodes, latNodes []float64, forceGlobal bool) (lonEdges, latEdges []float64, err error) {
	var (
		nLon, nLat = len(lonNodes), len(latNodes)
	)
	if nLon < 2 {
		err = fmt.Errorf("%w: at least two longitudes required, got %d", ErrInvalidInput, nLon)
		return
	}
	if nLat < 2 {
		err = fmt.Errorf("%w: at least two latitudes required, got %d", ErrInvalidInput, nLat)
		return
	}
	if !utils.IsMonotone(lonNodes, utils.LessOrEqual) {
		err = fmt.Errorf("%w: longitudes must be monotone increasing", ErrInvalidInput)
		return
	}
	if !utils.IsMonotone(latNodes, utils.LessOrEqual) {
		err = fmt.Errorf("%w: latitudes must be monotone increasing", ErrInvalidInput)
		return
	}

	var (
		firstDelta    = lonNodes[1] - lonNodes[0]
		secondLast    = lonNodes[nLon-1] - lonNodes[nLon-2]
		wrapAroundGap = lonNodes[0] - (lonNodes[nLon-1] - 360.)
	)
	if math.Abs(firstDelta-wrapAroundGap) < periodicTol {
		forceGlobal = true
	}
	lonEdges = make([]float64, nLon+1)
	if forceGlobal {
		lonEdges[0] = 0.5 * (lonNodes[0] + lonNodes[nLon-1] - 360.)
		lonEdges[nLon] = lonEdges[0]
	} else {
		lonEdges[0] = lonNodes[0] - 0.5*firstDelta
		lonEdges[nLon] = lonNodes[nLon-1] + 0.5*secondLast
	}
	for i := 1; i < nLon; i++ {
		lonEdges[i] = 0.5 * (lonNodes[i-1] + lonNodes[i])
	}

	latEdges = make([]float64, nLat+1)
	latEdges[0] = math.Max(-90., latNodes[0]-0.5*(latNodes[1]-latNodes[0]))
	latEdges[nLat] = math.Min(90., latNodes[nLat-1]+0.5*(latNodes[nLat-1]-latNodes[nLat-2]))
	for j := 1; j < nLat; j++ {
		latEdges[j] = 0.5 * (latNodes[j-1] + latNodes[j])
	}

	for i := range lonEdges {
		lonEdges[i] = utils.Deg2Rad(lonEdges[i])
	}
	for j := range latEdges {
		latEdges[j] = utils.Deg2Rad(latEdges[j])
	}
	return
}

// Wraps reports whether a longitude edge partition closes around the sphere
func Wraps(lonEdges []float64) bool {
	if len(lonEdges) < 2 {
		return false
	}
	span := math.Mod(lonEdges[len(lonEdges)-1]-lonEdges[0], 2*math.Pi)
	return span < wrapTol || 2*math.Pi-span < wrapTol
}
