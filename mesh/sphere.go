package mesh

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/notargets/rllgrid/utils"
)

// RLLtoXYZ maps longitude and latitude in radians to the unit sphere
func RLLtoXYZ(lon, lat float64) Node {
	return r3.Vector{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// XYZtoRLL recovers longitude in [0, 2π) and latitude in [-π/2, π/2] in
// radians from a unit vector.
func XYZtoRLL(n Node) (lon, lat float64) {
	lon = math.Atan2(n.Y, n.X)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	// Guard asin against roundoff just outside [-1,1]
	lat = math.Asin(math.Max(-1, math.Min(1, n.Z)))
	return
}

// XYZtoRLLDeg is XYZtoRLL in degrees
func XYZtoRLLDeg(n Node) (lon, lat float64) {
	lon, lat = XYZtoRLL(n)
	return utils.Rad2Deg(lon), utils.Rad2Deg(lat)
}

// TriangleArea is the area of the spherical triangle with unit vertices a, b, c
func TriangleArea(a, b, c Node) float64 {
	return s2.PointArea(s2.Point{Vector: a}, s2.Point{Vector: b}, s2.Point{Vector: c})
}

// SignedTriangleArea is positive for counterclockwise a, b, c seen from outside
func SignedTriangleArea(a, b, c Node) float64 {
	return s2.SignedArea(s2.Point{Vector: a}, s2.Point{Vector: b}, s2.Point{Vector: c})
}
