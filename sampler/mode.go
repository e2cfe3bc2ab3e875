package sampler

import (
	"fmt"

	"github.com/notargets/rllgrid/rectilinear"
)

// Mode is the quadrature discipline used to sample a field
type Mode uint8

const (
	FiniteVolume  Mode = iota // Cell averages over faces
	GLLPointwise              // Values at GLL nodes
	GLLIntegrated             // Galerkin projection onto GLL nodes
)

func (m Mode) String() string {
	switch m {
	case FiniteVolume:
		return "finite volume"
	case GLLPointwise:
		return "GLL pointwise"
	case GLLIntegrated:
		return "GLL integrated"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func (m Mode) IsFiniteElement() bool { return m == GLLPointwise || m == GLLIntegrated }

// ModeFromFlags selects the sampling mode from the --gll and --gllint flags
func ModeFromFlags(gll, gllint bool) (m Mode, err error) {
	switch {
	case gll && gllint:
		err = fmt.Errorf("%w: --gll and --gllint are exclusive arguments", rectilinear.ErrConfiguration)
	case gll:
		m = GLLPointwise
	case gllint:
		m = GLLIntegrated
	default:
		m = FiniteVolume
	}
	return
}
