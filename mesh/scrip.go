package mesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/rllgrid/utils"
)

// ReadSCRIP reads a SCRIP format grid, building faces from the cell corner
// coordinates. Corners shared between cells become shared nodes.
func ReadSCRIP(path string) (m *Mesh, meta GridMetadata, err error) {
	var (
		nc *NetCDF
	)
	if nc, err = OpenNetCDF(path); err != nil {
		return
	}
	defer nc.Close()
	return readSCRIP(nc)
}

type nodeKey [3]int64

func keyOf(n Node) nodeKey {
	const scale = 1.e10
	return nodeKey{
		int64(math.Round(n.X * scale)),
		int64(math.Round(n.Y * scale)),
		int64(math.Round(n.Z * scale)),
	}
}

func readSCRIP(nc *NetCDF) (m *Mesh, meta GridMetadata, err error) {
	var (
		clon, clat []float64
		lens       = nc.Header.Lengths(varCornerLon)
		toRadians  = utils.Deg2Rad
		nodeIndex  = make(map[nodeKey]int)
	)
	if len(lens) != 2 {
		err = fmt.Errorf("%w: %s has shape %v, expected [grid_size grid_corners]", ErrFormat, varCornerLon, lens)
		return
	}
	if clon, err = nc.ReadFloat64(varCornerLon); err != nil {
		return
	}
	if clat, err = nc.ReadFloat64(varCornerLat); err != nil {
		return
	}
	if units, ok := nc.StringAttribute(varCornerLon, "units"); ok && strings.HasPrefix(strings.ToLower(units), "rad") {
		toRadians = func(r float64) float64 { return r }
	}

	m = NewMesh()
	nCells, nCorners := lens[0], lens[1]
	for k := 0; k < nCells; k++ {
		var f Face
		for c := 0; c < nCorners; c++ {
			ind := k*nCorners + c
			nd := RLLtoXYZ(toRadians(clon[ind]), toRadians(clat[ind]))
			key := keyOf(nd)
			ni, present := nodeIndex[key]
			if !present {
				ni = m.AddNode(nd)
				nodeIndex[key] = ni
			}
			// SCRIP pads cells with repeated corners
			if len(f) != 0 && f[len(f)-1] == ni {
				continue
			}
			f = append(f, ni)
		}
		for len(f) > 1 && f[len(f)-1] == f[0] {
			f = f[:len(f)-1]
		}
		if len(f) < 3 {
			err = fmt.Errorf("%w: SCRIP cell %d has fewer than three distinct corners", ErrFormat, k)
			return
		}
		m.Faces = append(m.Faces, f)
	}

	if nc.HasVariable(varGridDims) {
		if meta.GridDims, err = nc.ReadInt(varGridDims); err != nil {
			return
		}
	}
	return
}
