package mesh

// GridMetadata is the structural hint information stored alongside a mesh.
// Two conventions exist: SCRIP grids store a grid_dims array, Exodus meshes
// produced by the RLL generator store rectilinear global attributes.
type GridMetadata struct {
	GridDims    []int // SCRIP grid_dims, nil when absent
	Rectilinear bool  // Exodus rectilinear attribute present
	DimSizes    [2]int
	DimNames    [2]string
}

const (
	attRectilinear  = "rectilinear"
	attDim0Size     = "rectilinear_dim0_size"
	attDim1Size     = "rectilinear_dim1_size"
	attDim0Name     = "rectilinear_dim0_name"
	attDim1Name     = "rectilinear_dim1_name"
	varGridDims     = "grid_dims"
	varCornerLon    = "grid_corner_lon"
	varCornerLat    = "grid_corner_lat"
	varCoord        = "coord"
	varCoordX       = "coordx"
	varCoordY       = "coordy"
	varCoordZ       = "coordz"
	dimNumDim       = "num_dim"
	dimNumNodes     = "num_nodes"
	dimNumElem      = "num_elem"
	dimNumElBlk     = "num_el_blk"
	varEbStatus     = "eb_status"
	varEbProp1      = "eb_prop1"
	exodusAPIVers   = 4.98
	exodusElemShell = "SHELL"
)
