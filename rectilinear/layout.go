package rectilinear

import (
	"errors"
	"fmt"

	"github.com/notargets/rllgrid/utils"
)

var (
	// ErrConfiguration marks mutually exclusive run options
	ErrConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedGrid marks grid metadata that has no output layout
	ErrUnsupportedGrid = errors.New("unsupported grid")
)

// Dimension is one named axis of the output array
type Dimension struct {
	Name string
	Size int
}

// Layout is the output array shape and the mapping from mesh entity index to
// output offset. It is built once per run and not modified afterwards.
type Layout struct {
	dims        []Dimension
	rectilinear bool
	flip        bool
}

// Dims returns a copy of the output dimensions, outermost first
func (l *Layout) Dims() (dims []Dimension) {
	dims = make([]Dimension, len(l.dims))
	copy(dims, l.dims)
	return
}

func (l *Layout) Names() (names []string) {
	for _, d := range l.dims {
		names = append(names, d.Name)
	}
	return
}

func (l *Layout) Sizes() (sizes []int) {
	for _, d := range l.dims {
		sizes = append(sizes, d.Size)
	}
	return
}

// Len is the number of output values
func (l *Layout) Len() int { return utils.Product(l.Sizes()) }

func (l *Layout) IsRectilinear() bool { return l.rectilinear }
func (l *Layout) IsFlipped() bool     { return l.flip }

// HasLevel reports whether a trailing lev dimension is present
func (l *Layout) HasLevel() bool {
	return len(l.dims) != 0 && l.dims[len(l.dims)-1].Name == LevelName
}

// Remap returns the output offset of mesh entity i. Flipped rectilinear
// layouts transpose the row-major face order to column-major.
func (l *Layout) Remap(i int) int {
	if !l.flip {
		return i
	}
	d0, d1 := l.dims[0].Size, l.dims[1].Size
	return utils.RowMajorToColMajor(d0, d1, i)
}

// Transposed returns the layout with the two structured axes exchanged.
// Remapping through a layout and then its transpose is the identity.
func (l *Layout) Transposed() *Layout {
	t := &Layout{
		dims:        l.Dims(),
		rectilinear: l.rectilinear,
		flip:        l.flip,
	}
	if l.rectilinear {
		t.dims[0], t.dims[1] = t.dims[1], t.dims[0]
	}
	return t
}

// ForNodes returns the layout for a finite-element field over n global nodes.
// Finite-element output is always an unstructured column of nodes. It keeps
// the name of an unstructured face dimension and is called ncol otherwise.
func (l *Layout) ForNodes(n int) *Layout {
	name := ColumnName
	if !l.rectilinear && len(l.dims) != 0 && l.dims[0].Name != LevelName {
		name = l.dims[0].Name
	}
	nl := &Layout{
		dims: []Dimension{{Name: name, Size: n}},
	}
	if l.HasLevel() {
		nl.dims = append(nl.dims, Dimension{Name: LevelName, Size: 1})
	}
	return nl
}

func (l *Layout) String() string {
	return fmt.Sprintf("%v rectilinear=%t flip=%t", l.dims, l.rectilinear, l.flip)
}
