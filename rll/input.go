package rll

import (
	"fmt"

	"github.com/ctessum/cdf"

	"github.com/notargets/rllgrid/mesh"
)

// ReadCoordinateFile reads the lon and lat coordinate variables, in degrees,
// from a NetCDF file with lon and lat dimensions.
func ReadCoordinateFile(path string) (lonNodes, latNodes []float64, err error) {
	var (
		nc *mesh.NetCDF
	)
	if nc, err = mesh.OpenNetCDF(path); err != nil {
		return
	}
	defer nc.Close()

	dims := make(map[string]bool)
	for _, d := range nc.Header.Dimensions("") {
		dims[d] = true
	}
	for _, name := range []string{"lon", "lat"} {
		if !dims[name] {
			err = fmt.Errorf("%w: input file missing dimension %q", ErrInvalidInput, name)
			return
		}
		if !nc.HasVariable(name) {
			err = fmt.Errorf("%w: input file missing variable %q", ErrInvalidInput, name)
			return
		}
	}
	if lonNodes, err = nc.ReadFloat64("lon"); err != nil {
		return
	}
	if latNodes, err = nc.ReadFloat64("lat"); err != nil {
		return
	}
	return
}

// WriteCoordinateFile writes lon and lat coordinate axes in degrees
func WriteCoordinateFile(path string, lonNodes, latNodes []float64) (err error) {
	var (
		nc *mesh.NetCDF
	)
	h := cdf.NewHeader([]string{"lon", "lat"}, []int{len(lonNodes), len(latNodes)})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	if nc, err = mesh.CreateNetCDF(path, h); err != nil {
		return
	}
	if err = nc.WriteVariable("lon", lonNodes); err != nil {
		nc.Close()
		return
	}
	if err = nc.WriteVariable("lat", latNodes); err != nil {
		nc.Close()
		return
	}
	return nc.Finish()
}
