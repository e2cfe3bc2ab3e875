package mesh

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReadMeshFile reads an Exodus or SCRIP mesh. Exodus is selected by the .g
// and .exo extensions, SCRIP by .scrip, anything else is identified by the
// variables present in the file.
func ReadMeshFile(path string) (m *Mesh, meta GridMetadata, err error) {
	var (
		nc *NetCDF
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".g", ".exo":
		return ReadExodus(path)
	case ".scrip":
		return ReadSCRIP(path)
	}

	if nc, err = OpenNetCDF(path); err != nil {
		return
	}
	defer nc.Close()
	switch {
	case nc.HasVariable(varCornerLon):
		return readSCRIP(nc)
	case nc.HasVariable(varCoord), nc.HasVariable(varCoordX):
		return readExodus(nc)
	default:
		err = fmt.Errorf("%w: %q has neither Exodus coordinates nor SCRIP corners", ErrFormat, path)
	}
	return
}
