package sampler

import (
	"fmt"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	log "github.com/sirupsen/logrus"

	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/rectilinear"
)

// Field is a sampled test function shaped by its output layout
type Field struct {
	Mode     Mode
	Function TestFunction
	Layout   *rectilinear.Layout
	Values   *sparse.DenseArray

	NodeArea []float64 // Galerkin nodal areas, GLLIntegrated only

	// Per GLL node coordinates in degrees and areas, HOMME output only
	Lat, Lon, Area []float64

	// Face centres in degrees at each output offset, finite volume only
	CenterLon, CenterLat []float64
}

func newField(l *rectilinear.Layout) *Field {
	return &Field{
		Layout: l,
		Values: sparse.ZerosDense(l.Sizes()...),
	}
}

func (f *Field) allocateNodeCoordinates(n int) {
	f.Lat, f.Lon, f.Area = make([]float64, n), make([]float64, n), make([]float64, n)
}

// CheckVariableName rejects an output variable name that collides with the
// GLL node coordinates or the face centres written alongside the field.
func CheckVariableName(name string, nodeCoordinates, faceCentres bool) error {
	var reserved []string
	if nodeCoordinates {
		reserved = append(reserved, "lat", "lon", "area")
	}
	if faceCentres {
		reserved = append(reserved, "center_lon", "center_lat")
	}
	for _, r := range reserved {
		if name == r {
			return fmt.Errorf("%w: variable name %q is used for coordinate output", rectilinear.ErrConfiguration, name)
		}
	}
	return nil
}

// Write stores the field as variable name in a new NetCDF file at path
func (f *Field) Write(path, name string) (err error) {
	var (
		nc         *mesh.NetCDF
		names      = f.Layout.Names()
		sizes      = f.Layout.Sizes()
		horizontal = names
	)
	if f.Layout.HasLevel() {
		horizontal = names[:len(names)-1]
	}
	if err = CheckVariableName(name, f.Lat != nil, f.CenterLon != nil); err != nil {
		return
	}
	if n := len(f.Values.Elements); n != f.Layout.Len() {
		return fmt.Errorf("field holds %d values, layout %v needs %d", n, sizes, f.Layout.Len())
	}
	h := cdf.NewHeader(names, sizes)
	h.AddAttribute("", "title", "rllgrid test data")
	h.AddAttribute("", "sampling", f.Mode.String())
	h.AddVariable(name, names, []float64{0})
	h.AddAttribute(name, "test_function", f.Function.String())
	if f.Lat != nil {
		// GLL output is a single node column
		for _, v := range []string{"lat", "lon", "area"} {
			h.AddVariable(v, names[:1], []float64{0})
		}
		h.AddAttribute("lat", "units", "degrees_north")
		h.AddAttribute("lon", "units", "degrees_east")
	}
	if f.CenterLon != nil {
		h.AddVariable("center_lon", horizontal, []float64{0})
		h.AddAttribute("center_lon", "units", "degrees_east")
		h.AddVariable("center_lat", horizontal, []float64{0})
		h.AddAttribute("center_lat", "units", "degrees_north")
	}
	if nc, err = mesh.CreateNetCDF(path, h); err != nil {
		return
	}
	vars := map[string][]float64{name: f.Values.Elements}
	if f.Lat != nil {
		vars["lat"], vars["lon"], vars["area"] = f.Lat, f.Lon, f.Area
	}
	if f.CenterLon != nil {
		vars["center_lon"], vars["center_lat"] = f.CenterLon, f.CenterLat
	}
	for v, data := range vars {
		if err = nc.WriteVariable(v, data); err != nil {
			nc.Close()
			return
		}
	}
	log.WithFields(log.Fields{"file": path, "variable": name, "dims": sizes}).Debug("wrote field")
	return nc.Finish()
}

// ReadField reads variable name and its dimensions back from a NetCDF file
func ReadField(path, name string) (values []float64, dims []string, err error) {
	var (
		nc *mesh.NetCDF
	)
	if nc, err = mesh.OpenNetCDF(path); err != nil {
		return
	}
	defer nc.Close()
	if values, err = nc.ReadFloat64(name); err != nil {
		return
	}
	dims = nc.Header.Dimensions(name)
	return
}
