package filters

import (
	"fmt"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// Local decompositions of the fixed-size 3D cells into tetrahedra. The
// hexahedron is split into the 6 tetrahedra around its 0-6 diagonal.
var (
	hexTets     = [][4]int{{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6}, {0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6}}
	wedgeTets   = [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}}
	pyramidTets = [][4]int{{0, 1, 2, 4}, {0, 2, 3, 4}}
)

// tetrahedra returns the point ids of the tetrahedra making up a 3D cell.
func tetrahedra(c mesh.Cell) ([][4]int, error) {
	var table [][4]int
	switch c.Type {
	case mesh.CellTetra:
		return [][4]int{{c.IDs[0], c.IDs[1], c.IDs[2], c.IDs[3]}}, nil
	case mesh.CellHexahedron:
		table = hexTets
	case mesh.CellWedge:
		table = wedgeTets
	case mesh.CellPyramid:
		table = pyramidTets
	default:
		return nil, fmt.Errorf("%w: %s is not a 3D cell", kernel.ErrUnsupportedCell, c.Type)
	}
	return localTets(table, c.IDs), nil
}

func localTets(table [][4]int, ids []int) [][4]int {
	out := make([][4]int, len(table))
	for i, t := range table {
		out[i] = [4]int{ids[t[0]], ids[t[1]], ids[t[2]], ids[t[3]]}
	}
	return out
}

// triangles fans a 2D cell into triangles. A quad is split along its 0-2
// diagonal.
func triangles(c mesh.Cell) [][3]int {
	out := make([][3]int, 0, len(c.IDs)-2)
	for i := 1; i+1 < len(c.IDs); i++ {
		out = append(out, [3]int{c.IDs[0], c.IDs[i], c.IDs[i+1]})
	}
	return out
}

// segments returns the consecutive point pairs of a 1D cell.
func segments(c mesh.Cell) [][2]int {
	out := make([][2]int, 0, len(c.IDs)-1)
	for i := 0; i+1 < len(c.IDs); i++ {
		out = append(out, [2]int{c.IDs[i], c.IDs[i+1]})
	}
	return out
}

// distinct reports whether ids holds no repeated id.
func distinct(ids []int) bool {
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return false
			}
		}
	}
	return true
}
