package filters

import (
	"fmt"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// ExtractAllEdges returns every distinct edge of every cell of d as a line
// cell. Point data follows the points; cell data is dropped.
func (f *Default) ExtractAllEdges(d *mesh.Dataset) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	b := newBuilder(d, mesh.PolyData, nil)
	b.cellData = false
	b.out.CellData = mesh.FieldData{}

	seen := make(map[[2]int]bool)
	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: edges of cell %d: %w", i, err)
		}
		edges, err := c.Edges()
		if err != nil {
			return nil, fmt.Errorf("filters: edges of cell %d: %w", i, err)
		}
		for _, e := range edges {
			key := e
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if key[0] == key[1] || seen[key] {
				continue
			}
			seen[key] = true
			b.cell(i, mesh.CellLine, b.point(e[0]), b.point(e[1]))
		}
	}
	return b.result(), nil
}

// Triangulate splits polygons and quads into triangles, 3D cells into
// tetrahedra, poly-lines into lines and poly-vertices into vertices. Points
// and point data are unchanged; each piece keeps the data of its cell.
func (f *Default) Triangulate(d *mesh.Dataset) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	out := &mesh.Dataset{
		Kind:      d.Kind,
		Points:    append(d.Points[:0:0], d.Points...),
		PointData: d.PointData.Clone(),
		CellData:  d.CellData.Structure(),
	}
	emit := func(src int, t mesh.CellType, ids ...int) {
		out.AddCell(t, ids...)
		out.CellData.CopyTuple(&d.CellData, src)
	}
	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: triangulate cell %d: %w", i, err)
		}
		switch c.Type {
		case mesh.CellVertex, mesh.CellLine, mesh.CellTriangle, mesh.CellTetra:
			emit(i, c.Type, c.IDs...)
		case mesh.CellPolyVertex:
			for _, id := range c.IDs {
				emit(i, mesh.CellVertex, id)
			}
		case mesh.CellPolyLine:
			for _, s := range segments(c) {
				emit(i, mesh.CellLine, s[0], s[1])
			}
		case mesh.CellQuad, mesh.CellPolygon:
			for _, t := range triangles(c) {
				emit(i, mesh.CellTriangle, t[0], t[1], t[2])
			}
		default:
			tets, err := tetrahedra(c)
			if err != nil {
				return nil, fmt.Errorf("filters: triangulate cell %d: %w", i, err)
			}
			for _, t := range tets {
				emit(i, mesh.CellTetra, t[0], t[1], t[2], t[3])
			}
		}
	}
	return out, nil
}
