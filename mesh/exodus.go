package mesh

import (
	"fmt"

	"github.com/ctessum/cdf"
)

// ReadExodus reads the nodes and faces of an Exodus II mesh file along with
// any rectilinear metadata attached to it.
func ReadExodus(path string) (m *Mesh, meta GridMetadata, err error) {
	var (
		nc *NetCDF
	)
	if nc, err = OpenNetCDF(path); err != nil {
		return
	}
	defer nc.Close()
	return readExodus(nc)
}

func readExodus(nc *NetCDF) (m *Mesh, meta GridMetadata, err error) {
	var (
		x, y, z []float64
	)
	m = NewMesh()
	switch {
	case nc.HasVariable(varCoord):
		var coord []float64
		if coord, err = nc.ReadFloat64(varCoord); err != nil {
			return
		}
		lens := nc.Header.Lengths(varCoord)
		if len(lens) != 2 || lens[0] != 3 {
			err = fmt.Errorf("%w: coord has shape %v, expected [3 num_nodes]", ErrFormat, lens)
			return
		}
		n := lens[1]
		x, y, z = coord[0:n], coord[n:2*n], coord[2*n:3*n]
	case nc.HasVariable(varCoordX):
		if x, err = nc.ReadFloat64(varCoordX); err != nil {
			return
		}
		if y, err = nc.ReadFloat64(varCoordY); err != nil {
			return
		}
		if z, err = nc.ReadFloat64(varCoordZ); err != nil {
			return
		}
	default:
		err = fmt.Errorf("%w: no node coordinates found", ErrFormat)
		return
	}
	m.Nodes = make([]Node, len(x))
	for i := range x {
		nd := Node{X: x[i], Y: y[i], Z: z[i]}
		if nd.Norm() > 0 {
			nd = nd.Normalize()
		}
		m.Nodes[i] = nd
	}

	for b := 1; nc.HasVariable(connectName(b)); b++ {
		var (
			conn []int
			lens = nc.Header.Lengths(connectName(b))
		)
		if len(lens) != 2 {
			err = fmt.Errorf("%w: %s has shape %v", ErrFormat, connectName(b), lens)
			return
		}
		if conn, err = nc.ReadInt(connectName(b)); err != nil {
			return
		}
		nel, npe := lens[0], lens[1]
		for k := 0; k < nel; k++ {
			f := make(Face, npe)
			for j := 0; j < npe; j++ {
				f[j] = conn[k*npe+j] - 1 // Exodus is 1-based
			}
			m.Faces = append(m.Faces, f)
		}
	}
	if len(m.Faces) == 0 {
		err = fmt.Errorf("%w: no element blocks found", ErrFormat)
		return
	}
	if err = m.Validate(); err != nil {
		return
	}
	meta, err = readRectilinearAttributes(nc)
	return
}

func readRectilinearAttributes(nc *NetCDF) (meta GridMetadata, err error) {
	if !nc.HasAttribute("", attRectilinear) {
		return
	}
	meta.Rectilinear = true
	var ok bool
	for d, name := range []string{attDim0Size, attDim1Size} {
		if meta.DimSizes[d], ok = nc.IntAttribute("", name); !ok {
			err = fmt.Errorf("%w: missing attribute %q", ErrFormat, name)
			return
		}
	}
	for d, name := range []string{attDim0Name, attDim1Name} {
		if meta.DimNames[d], ok = nc.StringAttribute("", name); !ok {
			err = fmt.Errorf("%w: missing attribute %q", ErrFormat, name)
			return
		}
	}
	return
}

// WriteExodus writes the mesh as an Exodus II file. Faces are grouped into one
// element block per face size, so a mesh with mixed face sizes is written in
// block order rather than its original face order.
func WriteExodus(path string, m *Mesh, meta GridMetadata) (err error) {
	var (
		blockSizes []int
		blocks     = make(map[int][]int) // face size -> face indices
		nc         *NetCDF
	)
	if err = m.Validate(); err != nil {
		return
	}
	for k, f := range m.Faces {
		if _, present := blocks[len(f)]; !present {
			blockSizes = append(blockSizes, len(f))
		}
		blocks[len(f)] = append(blocks[len(f)], k)
	}

	dims := []string{"len_string", "len_line", "four", dimNumDim, dimNumNodes, dimNumElem, dimNumElBlk}
	lengths := []int{33, 81, 4, 3, len(m.Nodes), len(m.Faces), len(blockSizes)}
	for b, npe := range blockSizes {
		dims = append(dims, fmt.Sprintf("num_el_in_blk%d", b+1), fmt.Sprintf("num_nod_per_el%d", b+1))
		lengths = append(lengths, len(blocks[npe]), npe)
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "api_version", []float32{exodusAPIVers})
	h.AddAttribute("", "version", []float32{exodusAPIVers})
	h.AddAttribute("", "floating_point_word_size", []int32{8})
	h.AddAttribute("", "file_size", []int32{0})
	h.AddAttribute("", "title", "rllgrid mesh")
	if meta.Rectilinear {
		h.AddAttribute("", attRectilinear, "true")
		h.AddAttribute("", attDim0Size, []int32{int32(meta.DimSizes[0])})
		h.AddAttribute("", attDim1Size, []int32{int32(meta.DimSizes[1])})
		h.AddAttribute("", attDim0Name, meta.DimNames[0])
		h.AddAttribute("", attDim1Name, meta.DimNames[1])
	}
	h.AddVariable(varEbStatus, []string{dimNumElBlk}, []int32{0})
	h.AddVariable(varEbProp1, []string{dimNumElBlk}, []int32{0})
	h.AddAttribute(varEbProp1, "name", "ID")
	h.AddVariable(varCoord, []string{dimNumDim, dimNumNodes}, []float64{0})
	for b, npe := range blockSizes {
		name := connectName(b + 1)
		h.AddVariable(name, []string{fmt.Sprintf("num_el_in_blk%d", b+1), fmt.Sprintf("num_nod_per_el%d", b+1)}, []int32{0})
		h.AddAttribute(name, "elem_type", fmt.Sprintf("%s%d", exodusElemShell, npe))
	}
	if nc, err = CreateNetCDF(path, h); err != nil {
		return
	}

	status := make([]int32, len(blockSizes))
	ids := make([]int32, len(blockSizes))
	for b := range blockSizes {
		status[b], ids[b] = 1, int32(b+1)
	}
	if err = nc.WriteVariable(varEbStatus, status); err != nil {
		nc.Close()
		return
	}
	if err = nc.WriteVariable(varEbProp1, ids); err != nil {
		nc.Close()
		return
	}
	var (
		n     = len(m.Nodes)
		coord = make([]float64, 3*n)
	)
	for i, nd := range m.Nodes {
		coord[i], coord[n+i], coord[2*n+i] = nd.X, nd.Y, nd.Z
	}
	if err = nc.WriteVariable(varCoord, coord); err != nil {
		nc.Close()
		return
	}
	for b, npe := range blockSizes {
		conn := make([]int32, 0, len(blocks[npe])*npe)
		for _, k := range blocks[npe] {
			for _, nd := range m.Faces[k] {
				conn = append(conn, int32(nd+1))
			}
		}
		if err = nc.WriteVariable(connectName(b+1), conn); err != nil {
			nc.Close()
			return
		}
	}
	return nc.Finish()
}

func connectName(block int) string { return fmt.Sprintf("connect%d", block) }
