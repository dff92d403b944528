package filters

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// Elevation adds a point scalar measuring the projection of each point onto
// the segment from Low to High, clamped to [0,1] and mapped onto Range.
// Defaults: Low and High sit at the bounds center at the minimum and maximum
// z, and Range is (Low.Z, High.Z).
func (f *Default) Elevation(d *mesh.Dataset, opts ElevationOptions) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	out := d.Clone()
	name := opts.Name
	if name == "" {
		name = "Elevation"
	}
	arr := mesh.NewArray(name, 1, d.NumPoints())
	out.PointData.Add(arr)
	if d.IsEmpty() {
		return out, nil
	}

	b := d.Bounds()
	c := b.Center()
	low := r3.Vec{X: c.X, Y: c.Y, Z: b.Min.Z}
	high := r3.Vec{X: c.X, Y: c.Y, Z: b.Max.Z}
	if opts.Low != nil {
		low = *opts.Low
	}
	if opts.High != nil {
		high = *opts.High
	}
	rng := [2]float64{low.Z, high.Z}
	if opts.Range != nil {
		rng = *opts.Range
	}

	v := r3.Sub(high, low)
	l2 := r3.Dot(v, v)
	for i, p := range d.Points {
		t := 0.0
		if l2 > 0 {
			t = math.Max(0, math.Min(1, r3.Dot(r3.Sub(p, low), v)/l2))
		}
		arr.Values[i] = rng[0] + t*(rng[1]-rng[0])
	}
	return out, nil
}

// ComputeCellSizes adds cell arrays "Length", "Area", "Volume" and
// "VertexCount" as selected. Each size is measured only for cells of the
// matching dimension; other cells get 0.
func (f *Default) ComputeCellSizes(d *mesh.Dataset, opts CellSizeOptions) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	out := d.Clone()
	n := d.NumCells()
	length := mesh.NewArray("Length", 1, n)
	area := mesh.NewArray("Area", 1, n)
	volume := mesh.NewArray("Volume", 1, n)
	count := mesh.NewArray("VertexCount", 1, n)

	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: cell sizes of cell %d: %w", i, err)
		}
		switch c.Type.Dimension() {
		case 0:
			count.Values[i] = float64(len(c.IDs))
		case 1:
			length.Values[i] = polylineLength(d, c)
		case 2:
			area.Values[i] = polygonArea(d, c)
		default:
			v, err := cellVolume(d, c)
			if err != nil {
				return nil, fmt.Errorf("filters: cell sizes of cell %d: %w", i, err)
			}
			volume.Values[i] = v
		}
	}

	for _, sel := range []struct {
		on  bool
		arr *mesh.Array
	}{
		{opts.VertexCount, count},
		{opts.Length, length},
		{opts.Area, area},
		{opts.Volume, volume},
	} {
		if sel.on {
			out.CellData.Add(sel.arr)
		}
	}
	return out, nil
}

func polylineLength(d *mesh.Dataset, c mesh.Cell) float64 {
	total := 0.0
	for _, s := range segments(c) {
		total += r3.Norm(r3.Sub(d.Points[s[1]], d.Points[s[0]]))
	}
	return total
}

// polygonArea returns the area of a planar polygon.
func polygonArea(d *mesh.Dataset, c mesh.Cell) float64 {
	var sum r3.Vec
	p0 := d.Points[c.IDs[0]]
	for _, t := range triangles(c) {
		sum = r3.Add(sum, r3.Cross(r3.Sub(d.Points[t[1]], p0), r3.Sub(d.Points[t[2]], p0)))
	}
	return r3.Norm(sum) / 2
}

func cellVolume(d *mesh.Dataset, c mesh.Cell) (float64, error) {
	tets, err := tetrahedra(c)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, t := range tets {
		total += tetVolume(d.Points[t[0]], d.Points[t[1]], d.Points[t[2]], d.Points[t[3]])
	}
	return total, nil
}

func tetVolume(a, b, c, d r3.Vec) float64 {
	return math.Abs(r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))) / 6
}

// CellCenters returns the centroid of every cell of d as a point carrying
// that cell's data. With vertex set, each center also gets a vertex cell.
func (f *Default) CellCenters(d *mesh.Dataset, vertex bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	out := mesh.NewPolyData()
	for i := range d.Cells {
		if err := d.Cells[i].Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: center of cell %d: %w", i, err)
		}
		id := out.AddPoint(d.CellCenter(i))
		if vertex {
			out.AddCell(mesh.CellVertex, id)
		}
	}
	out.PointData = d.CellData.Clone()
	return out, nil
}

// CellDataToPointData averages, for every point, the cell data of the cells
// using it. Converted arrays replace point arrays of the same name. Cell
// data is kept only when passCellData is set.
func (f *Default) CellDataToPointData(d *mesh.Dataset, passCellData bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	users := make([][]int, d.NumPoints())
	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: cell %d: %w", i, err)
		}
		for _, id := range lo.Uniq(c.IDs) {
			users[id] = append(users[id], i)
		}
	}

	converted := d.CellData.Structure()
	for _, cells := range users {
		converted.AverageTuples(&d.CellData, cells)
	}

	out := d.Clone()
	for _, a := range converted.Arrays() {
		out.PointData.Add(a)
	}
	if !passCellData {
		out.CellData = mesh.FieldData{}
	}
	return out, nil
}

// PointDataToCellData averages, for every cell, the point data of its
// distinct points. Converted arrays replace cell arrays of the same name.
// Point data is kept only when passPointData is set.
func (f *Default) PointDataToCellData(d *mesh.Dataset, passPointData bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	converted := d.PointData.Structure()
	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: cell %d: %w", i, err)
		}
		converted.AverageTuples(&d.PointData, lo.Uniq(c.IDs))
	}

	out := d.Clone()
	for _, a := range converted.Arrays() {
		out.CellData.Add(a)
	}
	if !passPointData {
		out.PointData = mesh.FieldData{}
	}
	return out, nil
}
