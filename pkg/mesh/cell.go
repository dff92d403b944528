package mesh

import "fmt"

// CellType enumerates the supported cell shapes. Point ordering of the
// fixed-size 3D cells follows the VTK conventions.
type CellType int

const (
	CellVertex     CellType = iota // single point
	CellPolyVertex                 // set of points
	CellLine                       // 2-point segment
	CellPolyLine                   // connected segments
	CellTriangle
	CellQuad
	CellPolygon
	CellTetra
	CellHexahedron
	CellWedge
	CellPyramid
)

func (t CellType) String() string {
	switch t {
	case CellVertex:
		return "vertex"
	case CellPolyVertex:
		return "poly-vertex"
	case CellLine:
		return "line"
	case CellPolyLine:
		return "poly-line"
	case CellTriangle:
		return "triangle"
	case CellQuad:
		return "quad"
	case CellPolygon:
		return "polygon"
	case CellTetra:
		return "tetra"
	case CellHexahedron:
		return "hexahedron"
	case CellWedge:
		return "wedge"
	case CellPyramid:
		return "pyramid"
	default:
		return fmt.Sprintf("CellType(%d)", int(t))
	}
}

// Dimension returns the topological dimension of the cell type.
func (t CellType) Dimension() int {
	switch t {
	case CellVertex, CellPolyVertex:
		return 0
	case CellLine, CellPolyLine:
		return 1
	case CellTriangle, CellQuad, CellPolygon:
		return 2
	default:
		return 3
	}
}

// PointCount returns the fixed number of points of the cell type, or 0
// when the type takes a variable number of points.
func (t CellType) PointCount() int {
	switch t {
	case CellVertex:
		return 1
	case CellLine:
		return 2
	case CellTriangle:
		return 3
	case CellQuad, CellTetra:
		return 4
	case CellPyramid:
		return 5
	case CellWedge:
		return 6
	case CellHexahedron:
		return 8
	default:
		return 0
	}
}

// minPoints is the smallest point count accepted for variable-size types.
func (t CellType) minPoints() int {
	switch t {
	case CellPolyVertex:
		return 1
	case CellPolyLine:
		return 2
	case CellPolygon:
		return 3
	default:
		return t.PointCount()
	}
}

// Cell is one cell of a dataset: a type and the ids of its points.
type Cell struct {
	Type CellType `json:"type"`
	IDs  []int    `json:"ids"`
}

// NewCell returns a cell that owns a copy of ids.
func NewCell(t CellType, ids ...int) Cell {
	return Cell{Type: t, IDs: append([]int(nil), ids...)}
}

// Clone returns a deep copy of the cell.
func (c Cell) Clone() Cell {
	return NewCell(c.Type, c.IDs...)
}

// Check verifies the point count of the cell and, when numPoints >= 0,
// that every id addresses one of numPoints points.
func (c Cell) Check(numPoints int) error {
	if n := c.Type.PointCount(); n > 0 && len(c.IDs) != n {
		return fmt.Errorf("%w: %s has %d points, want %d", ErrInvalidCell, c.Type, len(c.IDs), n)
	}
	if len(c.IDs) < c.Type.minPoints() {
		return fmt.Errorf("%w: %s has %d points, want at least %d", ErrInvalidCell, c.Type, len(c.IDs), c.Type.minPoints())
	}
	if numPoints < 0 {
		return nil
	}
	for _, id := range c.IDs {
		if id < 0 || id >= numPoints {
			return fmt.Errorf("%w: %s references point %d of %d", ErrInvalidCell, c.Type, id, numPoints)
		}
	}
	return nil
}

// Local face and edge tables of the fixed-size 3D cells. Faces are ordered
// so their normals point out of the cell.
var (
	tetraFaces = [][]int{{0, 1, 3}, {1, 2, 3}, {2, 0, 3}, {0, 2, 1}}
	hexFaces   = [][]int{{0, 4, 7, 3}, {1, 2, 6, 5}, {0, 1, 5, 4}, {3, 7, 6, 2}, {0, 3, 2, 1}, {4, 5, 6, 7}}
	wedgeFaces = [][]int{{0, 1, 2}, {3, 5, 4}, {0, 3, 4, 1}, {1, 4, 5, 2}, {2, 5, 3, 0}}
	pyrFaces   = [][]int{{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}

	tetraEdges = [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
	hexEdges   = [][2]int{{0, 1}, {1, 2}, {3, 2}, {0, 3}, {4, 5}, {5, 6}, {7, 6}, {4, 7}, {0, 4}, {1, 5}, {3, 7}, {2, 6}}
	wedgeEdges = [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}, {0, 3}, {1, 4}, {2, 5}}
	pyrEdges   = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 4}, {1, 4}, {2, 4}, {3, 4}}
)

// HexahedronFaces returns the local point indices of the hexahedron faces.
func HexahedronFaces() [][]int { return cloneTable(hexFaces) }

// HexahedronEdges returns the local point indices of the hexahedron edges.
func HexahedronEdges() [][2]int { return append([][2]int(nil), hexEdges...) }

func cloneTable(t [][]int) [][]int {
	out := make([][]int, len(t))
	for i, row := range t {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Faces returns the faces of a 3D cell as point ids. 2D cells return
// themselves; 0D and 1D cells have no faces.
func (c Cell) Faces() ([][]int, error) {
	if err := c.Check(-1); err != nil {
		return nil, err
	}
	var table [][]int
	switch c.Type {
	case CellTetra:
		table = tetraFaces
	case CellHexahedron:
		table = hexFaces
	case CellWedge:
		table = wedgeFaces
	case CellPyramid:
		table = pyrFaces
	case CellTriangle, CellQuad, CellPolygon:
		return [][]int{append([]int(nil), c.IDs...)}, nil
	default:
		return nil, nil
	}
	faces := make([][]int, len(table))
	for i, local := range table {
		f := make([]int, len(local))
		for j, l := range local {
			f[j] = c.IDs[l]
		}
		faces[i] = f
	}
	return faces, nil
}

// Edges returns the edges of the cell as point id pairs.
func (c Cell) Edges() ([][2]int, error) {
	if err := c.Check(-1); err != nil {
		return nil, err
	}
	var table [][2]int
	switch c.Type {
	case CellVertex, CellPolyVertex:
		return nil, nil
	case CellLine, CellPolyLine:
		edges := make([][2]int, 0, len(c.IDs)-1)
		for i := 0; i+1 < len(c.IDs); i++ {
			edges = append(edges, [2]int{c.IDs[i], c.IDs[i+1]})
		}
		return edges, nil
	case CellTriangle, CellQuad, CellPolygon:
		n := len(c.IDs)
		edges := make([][2]int, n)
		for i := range c.IDs {
			edges[i] = [2]int{c.IDs[i], c.IDs[(i+1)%n]}
		}
		return edges, nil
	case CellTetra:
		table = tetraEdges
	case CellHexahedron:
		table = hexEdges
	case CellWedge:
		table = wedgeEdges
	case CellPyramid:
		table = pyrEdges
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidCell, c.Type)
	}
	edges := make([][2]int, len(table))
	for i, e := range table {
		edges[i] = [2]int{c.IDs[e[0]], c.IDs[e[1]]}
	}
	return edges, nil
}
