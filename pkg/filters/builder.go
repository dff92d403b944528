package filters

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// builder assembles a filter output from a source dataset. Source points are
// copied on first use, and points created on an edge are shared by every
// cell that cuts that edge.
type builder struct {
	src     *mesh.Dataset
	out     *mesh.Dataset
	scalars []float64
	points  map[int]int
	edges   map[[2]int]int
	// cellData copies the source cell tuple for every emitted cell.
	cellData bool
}

func newBuilder(src *mesh.Dataset, kind mesh.Kind, scalars []float64) *builder {
	out := &mesh.Dataset{Kind: kind}
	out.PointData = src.PointData.Structure()
	out.CellData = src.CellData.Structure()
	return &builder{
		src:      src,
		out:      out,
		scalars:  scalars,
		points:   make(map[int]int),
		edges:    make(map[[2]int]int),
		cellData: true,
	}
}

// point returns the output id of source point id.
func (b *builder) point(id int) int {
	if nid, ok := b.points[id]; ok {
		return nid
	}
	nid := b.out.AddPoint(b.src.Points[id])
	b.out.PointData.CopyTuple(&b.src.PointData, id)
	b.points[id] = nid
	return nid
}

// edgePoint returns the output id of the zero crossing of the scalars along
// the edge between source points a and c. Crossings at an end of the edge
// reuse that end point.
func (b *builder) edgePoint(a, c int) int {
	if a > c {
		a, c = c, a
	}
	sa, sc := b.scalars[a], b.scalars[c]
	if sa == sc {
		return b.point(a)
	}
	t := sa / (sa - sc)
	switch {
	case t <= 0:
		return b.point(a)
	case t >= 1:
		return b.point(c)
	}
	key := [2]int{a, c}
	if nid, ok := b.edges[key]; ok {
		return nid
	}
	pa, pc := b.src.Points[a], b.src.Points[c]
	nid := b.out.AddPoint(r3.Add(pa, r3.Scale(t, r3.Sub(pc, pa))))
	b.out.PointData.InterpolateTuple(&b.src.PointData, a, c, t)
	b.edges[key] = nid
	return nid
}

// cell emits a cell over output point ids, attributed to source cell src.
func (b *builder) cell(src int, t mesh.CellType, ids ...int) {
	b.out.Cells = append(b.out.Cells, mesh.NewCell(t, ids...))
	if b.cellData {
		b.out.CellData.CopyTuple(&b.src.CellData, src)
	}
}

// simplex emits a cell unless cutting collapsed some of its points.
func (b *builder) simplex(src int, t mesh.CellType, ids ...int) {
	if distinct(ids) {
		b.cell(src, t, ids...)
	}
}

// copyCell emits source cell src with its points mapped to the output.
func (b *builder) copyCell(src int) {
	c := b.src.Cells[src]
	ids := make([]int, len(c.IDs))
	for i, id := range c.IDs {
		ids[i] = b.point(id)
	}
	b.cell(src, c.Type, ids...)
}

// polygon emits a closed loop of output ids as a triangle, quad or polygon
// after dropping repeated consecutive points.
func (b *builder) polygon(src int, loop []int) {
	var ids []int
	for i, id := range loop {
		if i > 0 && id == ids[len(ids)-1] {
			continue
		}
		ids = append(ids, id)
	}
	for len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}
	if len(ids) < 3 || !distinct(ids) {
		return
	}
	switch len(ids) {
	case 3:
		b.cell(src, mesh.CellTriangle, ids...)
	case 4:
		b.cell(src, mesh.CellQuad, ids...)
	default:
		b.cell(src, mesh.CellPolygon, ids...)
	}
}

// result drops points no emitted cell references, which cutting leaves
// behind when every piece of a cell degenerates, and returns the output.
func (b *builder) result() *mesh.Dataset {
	used := make([]bool, len(b.out.Points))
	n := 0
	for _, c := range b.out.Cells {
		for _, id := range c.IDs {
			if !used[id] {
				used[id] = true
				n++
			}
		}
	}
	if n == len(b.out.Points) {
		return b.out
	}

	old := b.out
	out := &mesh.Dataset{Kind: old.Kind, Cells: old.Cells, CellData: old.CellData}
	out.PointData = old.PointData.Structure()
	remap := make([]int, len(old.Points))
	for i, p := range old.Points {
		if !used[i] {
			continue
		}
		remap[i] = out.AddPoint(p)
		out.PointData.CopyTuple(&old.PointData, i)
	}
	for _, c := range out.Cells {
		for j, id := range c.IDs {
			c.IDs[j] = remap[id]
		}
	}
	b.out = out
	return out
}
