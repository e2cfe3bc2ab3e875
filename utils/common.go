package utils

const (
	NODETOL = 1.e-12 // Coincidence tolerance for angles and coordinates
	AREATOL = 1.e-15 // Smallest face area treated as non-degenerate
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// IsMonotone checks the ordering of consecutive entries in F using op, e.g.
// IsMonotone(F, Less) is true for a strictly increasing array.
func IsMonotone(F []float64, op EvalOp) bool {
	for i := 0; i < len(F)-1; i++ {
		a, b := F[i], F[i+1]
		switch op {
		case Equal:
			if a != b {
				return false
			}
		case Less:
			if !(a < b) {
				return false
			}
		case Greater:
			if !(a > b) {
				return false
			}
		case LessOrEqual:
			if !(a <= b) {
				return false
			}
		case GreaterOrEqual:
			if !(a >= b) {
				return false
			}
		}
	}
	return true
}
