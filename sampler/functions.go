package sampler

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownTestFunction marks a test function selector out of range
var ErrUnknownTestFunction = errors.New("unknown test function")

// TestFunction selects one of the analytic fields sampled onto a mesh
type TestFunction uint8

const (
	Y2b2     TestFunction = iota + 1 // Smooth low order harmonic
	Y16b32                           // High frequency harmonic
	Vortex                           // Stationary vortex
	Constant                         // Unit field
)

// ParseTestFunction maps the command line selector onto a test function
func ParseTestFunction(index int) (tf TestFunction, err error) {
	tf = TestFunction(index)
	switch tf {
	case Y2b2, Y16b32, Vortex, Constant:
		return
	}
	return 0, fmt.Errorf("%w: test index %d out of range, expected [1,4]", ErrUnknownTestFunction, index)
}

func (tf TestFunction) String() string {
	switch tf {
	case Y2b2:
		return "Y2b2"
	case Y16b32:
		return "Y16b32"
	case Vortex:
		return "Vortex"
	case Constant:
		return "Constant"
	}
	return fmt.Sprintf("TestFunction(%d)", uint8(tf))
}

// Evaluate returns the field value at longitude and latitude in radians
func (tf TestFunction) Evaluate(lon, lat float64) float64 {
	switch tf {
	case Y2b2:
		return 2. + math.Cos(lat)*math.Cos(lat)*math.Cos(2.*lon)
	case Y16b32:
		return 2. + math.Pow(math.Sin(2.*lat), 16.)*math.Cos(16.*lon)
	case Vortex:
		return vortex(lon, lat)
	case Constant:
		return 1.
	}
	panic(fmt.Errorf("%w: %d", ErrUnknownTestFunction, uint8(tf)))
}

const (
	vortexLon0 = 0.
	vortexLat0 = 0.6
	vortexR0   = 3.
	vortexD    = 5.
	vortexT    = 6.
)

func vortex(lon, lat float64) float64 {
	lon, lat = rotatedSphereCoord(vortexLon0, vortexLat0, lon, lat)
	var (
		rho   = vortexR0 * math.Cos(lat)
		vt    = 3. * math.Sqrt(3.) / 2. / math.Cosh(rho) / math.Cosh(rho) * math.Tanh(rho)
		omega float64
	)
	if rho != 0 {
		omega = vt / rho
	}
	return 1. - math.Tanh(rho/vortexD*math.Sin(lon-omega*vortexT))
}

// rotatedSphereCoord returns the coordinates of (lon, lat) on a sphere whose
// pole has been moved to (lonC, latC).
func rotatedSphereCoord(lonC, latC, lon, lat float64) (lonT, latT float64) {
	var (
		sinC, cosC = math.Sin(latC), math.Cos(latC)
		sinT, cosT = math.Sin(lat), math.Cos(lat)
		trm        = cosT * math.Cos(lon-lonC)
		x          = sinC*trm - cosC*sinT
		y          = cosT * math.Sin(lon-lonC)
		z          = sinC*sinT + cosC*trm
	)
	lonT = math.Atan2(y, x)
	if lonT < 0 {
		lonT += 2 * math.Pi
	}
	latT = math.Asin(math.Max(-1, math.Min(1, z)))
	return
}
