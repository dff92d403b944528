package native

import (
	"fmt"
	"slices"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// faceKey identifies a face by its sorted point ids, padded with -1.
type faceKey [4]int

func keyOf(ids []int) (faceKey, error) {
	if len(ids) > len(faceKey{}) {
		return faceKey{}, fmt.Errorf("%w: face with %d points", kernel.ErrUnsupportedCell, len(ids))
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	k := faceKey{-1, -1, -1, -1}
	copy(k[:], sorted)
	return k, nil
}

type boundaryFace struct {
	ids  []int
	cell int
	uses int
}

// Surface returns the exposed surface of d as poly-data. Faces of 3D cells
// used by exactly one cell are kept with the orientation of that cell;
// vertices, lines and polygons pass through. Only the points the surface
// references are kept, in first-use order.
func Surface(d *mesh.Dataset) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}

	type piece struct {
		cell mesh.Cell
		src  int
	}
	var pieces []piece
	faces := make(map[faceKey]*boundaryFace)
	var order []faceKey

	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if c.Type.Dimension() < 3 {
			pieces = append(pieces, piece{cell: c, src: i})
			continue
		}
		fs, err := c.Faces()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		for _, f := range fs {
			k, err := keyOf(f)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %w", i, err)
			}
			if bf, ok := faces[k]; ok {
				bf.uses++
				continue
			}
			faces[k] = &boundaryFace{ids: f, cell: i, uses: 1}
			order = append(order, k)
		}
	}
	for _, k := range order {
		bf := faces[k]
		if bf.uses != 1 {
			continue
		}
		t := mesh.CellQuad
		if len(bf.ids) == 3 {
			t = mesh.CellTriangle
		}
		pieces = append(pieces, piece{cell: mesh.Cell{Type: t, IDs: bf.ids}, src: bf.cell})
	}

	out := mesh.NewPolyData()
	out.PointData = d.PointData.Structure()
	out.CellData = d.CellData.Structure()
	remap := make(map[int]int)
	for _, p := range pieces {
		ids := make([]int, len(p.cell.IDs))
		for j, id := range p.cell.IDs {
			nid, ok := remap[id]
			if !ok {
				nid = out.AddPoint(d.Points[id])
				out.PointData.CopyTuple(&d.PointData, id)
				remap[id] = nid
			}
			ids[j] = nid
		}
		out.Cells = append(out.Cells, mesh.Cell{Type: p.cell.Type, IDs: ids})
		out.CellData.CopyTuple(&d.CellData, p.src)
	}
	return out, nil
}
