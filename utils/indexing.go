package utils

// RowMajorToColMajor converts a linear index into an nr x nc array stored with
// the first index varying fastest into the index of the same element when the
// second index varies fastest.
func RowMajorToColMajor(nr, nc, ind int) (cind int) {
	// ind = i + nr * j
	// ind / nr = 0 + j
	j := ind / nr
	i := ind - nr*j
	cind = j + nc*i
	return
}

// Product returns the number of entries in an array with the given shape.
func Product(dims []int) (n int) {
	n = 1
	for _, d := range dims {
		n *= d
	}
	return
}
