package rectilinear

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/rllgrid/mesh"
)

const (
	ColumnName  = "ncol"
	ElementName = "num_elem"
	LevelName   = "lev"
)

// Options are the run settings that shape the output layout
type Options struct {
	Flip  bool // Transpose rectilinear output
	Level bool // Append a size one lev dimension
}

// rule inspects grid metadata and reports whether it decided the layout
type rule struct {
	name  string
	apply func(meta mesh.GridMetadata, faces int) (l *Layout, matched bool, err error)
}

// rules are evaluated in order, the first match wins
var rules = []rule{
	{"grid_dims", gridDimsRule},
	{"rectilinear attribute", rectilinearAttributeRule},
	{"unstructured", columnRule},
}

// Resolve decides the output layout of a field over the faces of a mesh
func Resolve(meta mesh.GridMetadata, faces int, opts Options) (l *Layout, err error) {
	for _, r := range rules {
		var matched bool
		if l, matched, err = r.apply(meta, faces); err != nil {
			return nil, err
		}
		if matched {
			log.WithField("rule", r.name).Debug("resolved output layout")
			break
		}
	}
	if opts.Flip && !l.rectilinear {
		return nil, fmt.Errorf("%w: flipped output cannot be used with non-rectilinear grids", ErrConfiguration)
	}
	l.flip = opts.Flip
	if opts.Level {
		l.dims = append(l.dims, Dimension{Name: LevelName, Size: 1})
	}
	return
}

func gridDimsRule(meta mesh.GridMetadata, _ int) (l *Layout, matched bool, err error) {
	switch len(meta.GridDims) {
	case 0:
		return
	case 1:
		l = &Layout{dims: []Dimension{{ElementName, meta.GridDims[0]}}}
	case 2:
		l = &Layout{
			dims:        []Dimension{{"lon", meta.GridDims[0]}, {"lat", meta.GridDims[1]}},
			rectilinear: true,
		}
	default:
		err = fmt.Errorf("%w: grid_rank %d, must be less than 3", ErrUnsupportedGrid, len(meta.GridDims))
		return
	}
	return l, true, nil
}

func rectilinearAttributeRule(meta mesh.GridMetadata, _ int) (l *Layout, matched bool, err error) {
	if !meta.Rectilinear {
		return
	}
	l = &Layout{
		dims: []Dimension{
			{meta.DimNames[0], meta.DimSizes[0]},
			{meta.DimNames[1], meta.DimSizes[1]},
		},
		rectilinear: true,
	}
	return l, true, nil
}

func columnRule(_ mesh.GridMetadata, faces int) (l *Layout, matched bool, err error) {
	return &Layout{dims: []Dimension{{ColumnName, faces}}}, true, nil
}

// CheckModes rejects sampling flags that cannot be combined with each other
// or with the layout.
func CheckModes(l *Layout, gll, gllint bool) (err error) {
	if gll && gllint {
		return fmt.Errorf("%w: --gll and --gllint are exclusive arguments", ErrConfiguration)
	}
	if gll && l.rectilinear {
		return fmt.Errorf("%w: --gll cannot be used with rectilinear grids", ErrConfiguration)
	}
	return
}

// CheckSize verifies a face-based layout covers exactly the given faces
func (l *Layout) CheckSize(faces int) (err error) {
	if n := l.Len(); n != faces {
		return fmt.Errorf("%w: output layout %v holds %d values, mesh has %d faces",
			ErrUnsupportedGrid, l.Sizes(), n, faces)
	}
	return
}
