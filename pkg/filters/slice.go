package filters

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// Slice cuts d with a plane and returns the cross-section as poly-data:
// triangles from 3D cells, lines from 2D cells and vertices from 1D cells.
func (f *Default) Slice(d *mesh.Dataset, opts SliceOptions) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	plane, err := NewPlane(planeOrigin(d, opts.Origin), opts.Normal)
	if err != nil {
		return nil, err
	}
	return SliceImplicit(d, plane)
}

// SliceOrthogonal returns three slices through center with normals along X,
// Y and Z, as blocks named "X", "Y" and "Z". A nil center selects the center
// of the dataset bounds.
func (f *Default) SliceOrthogonal(d *mesh.Dataset, center *r3.Vec) (*mesh.Composite, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	origin := planeOrigin(d, center)
	out := mesh.NewComposite()
	for _, axis := range []mesh.Axis{mesh.AxisX, mesh.AxisY, mesh.AxisZ} {
		s, err := f.Slice(d, SliceOptions{Normal: axis.Unit(), Origin: &origin})
		if err != nil {
			return nil, err
		}
		out.Append(mesh.Leaf(upper(axis), s))
	}
	return out, nil
}

func upper(a mesh.Axis) string {
	switch a {
	case mesh.AxisY:
		return "Y"
	case mesh.AxisZ:
		return "Z"
	default:
		return "X"
	}
}

// SliceAlongAxis returns opts.N slices normal to opts.Axis, evenly spaced
// over opts.Bounds shrunk by the tolerance at both ends. Blocks are named
// slice0, slice1...
func (f *Default) SliceAlongAxis(d *mesh.Dataset, opts AxisSliceOptions) (*mesh.Composite, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	n, axis := opts.N, opts.Axis
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	b := d.Bounds()
	if opts.Bounds != nil {
		b = *opts.Bounds
	}
	out := mesh.NewComposite()
	if b.IsEmpty() {
		for i := 0; i < n; i++ {
			out.Append(mesh.Leaf(fmt.Sprintf("slice%d", i), mesh.NewPolyData()))
		}
		return out, nil
	}
	lo, hi := b.Range(axis)
	tolerance := opts.Tolerance
	if tolerance < 0 {
		tolerance = (hi - lo) * 0.01
	}
	positions := make([]float64, n)
	if n == 1 {
		positions[0] = lo + tolerance
	} else {
		floats.Span(positions, lo+tolerance, hi-tolerance)
	}

	center := b.Center()
	for i, pos := range positions {
		origin := center
		switch axis {
		case mesh.AxisX:
			origin.X = pos
		case mesh.AxisY:
			origin.Y = pos
		default:
			origin.Z = pos
		}
		s, err := f.Slice(d, SliceOptions{Normal: axis.Unit(), Origin: &origin})
		if err != nil {
			return nil, err
		}
		out.Append(mesh.Leaf(fmt.Sprintf("slice%d", i), s))
	}
	return out, nil
}

// SliceAlongLine slices d with the surface swept by the points of line along
// direction. A nil direction sweeps along +Z.
func (f *Default) SliceAlongLine(d *mesh.Dataset, line *mesh.Dataset, direction *r3.Vec) (*mesh.Dataset, error) {
	if d == nil || line == nil {
		return nil, mesh.ErrNilDataset
	}
	dir := r3.Vec{Z: 1}
	if direction != nil {
		dir = *direction
	}
	pp, err := NewPolyPlane(linePoints(line), dir)
	if err != nil {
		return nil, err
	}
	return SliceImplicit(d, pp)
}

// linePoints returns the points of the first poly-line of line, or all of
// its points when it has no line cells.
func linePoints(line *mesh.Dataset) []r3.Vec {
	for i, c := range line.Cells {
		if c.Type == mesh.CellPolyLine || c.Type == mesh.CellLine {
			return line.CellPoints(i)
		}
	}
	return line.Points
}

// SliceImplicit returns the zero set of fn over d as poly-data.
// Intersection points are shared between cells that cut the same edge.
func SliceImplicit(d *mesh.Dataset, fn ImplicitFunction) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	s := evaluate(d, fn)
	b := newBuilder(d, mesh.PolyData, s)
	inside := func(id int) bool { return s[id] < 0 }

	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: slice cell %d: %w", i, err)
		}
		switch c.Type.Dimension() {
		case 0:
			continue
		case 1:
			seen := make(map[int]bool)
			for _, seg := range segments(c) {
				if inside(seg[0]) == inside(seg[1]) {
					continue
				}
				id := b.edgePoint(seg[0], seg[1])
				if !seen[id] {
					seen[id] = true
					b.cell(i, mesh.CellVertex, id)
				}
			}
		case 2:
			slicePolygon(b, i, c.IDs, inside)
		default:
			tets, err := tetrahedra(c)
			if err != nil {
				return nil, fmt.Errorf("filters: slice cell %d: %w", i, err)
			}
			for _, tet := range tets {
				sliceTetra(b, i, tet, inside)
			}
		}
	}
	return b.result(), nil
}

// slicePolygon emits the segments where the polygon boundary crosses the
// surface, pairing crossings in boundary order.
func slicePolygon(b *builder, src int, ids []int, inside func(int) bool) {
	var crossings []int
	n := len(ids)
	for i := 0; i < n; i++ {
		a, c := ids[i], ids[(i+1)%n]
		if inside(a) != inside(c) {
			crossings = append(crossings, b.edgePoint(a, c))
		}
	}
	for i := 0; i+1 < len(crossings); i += 2 {
		b.simplex(src, mesh.CellLine, crossings[i], crossings[i+1])
	}
}

// sliceTetra emits the cross-section of a tetrahedron: one triangle when a
// single corner is separated, two when the corners split two and two.
func sliceTetra(b *builder, src int, tet [4]int, inside func(int) bool) {
	var in, out []int
	for _, id := range tet {
		if inside(id) {
			in = append(in, id)
		} else {
			out = append(out, id)
		}
	}
	switch len(in) {
	case 1:
		i := in[0]
		b.simplex(src, mesh.CellTriangle, b.edgePoint(i, out[0]), b.edgePoint(i, out[1]), b.edgePoint(i, out[2]))
	case 3:
		l := out[0]
		b.simplex(src, mesh.CellTriangle, b.edgePoint(in[0], l), b.edgePoint(in[1], l), b.edgePoint(in[2], l))
	case 2:
		i, j, k, l := in[0], in[1], out[0], out[1]
		ik, il, jl, jk := b.edgePoint(i, k), b.edgePoint(i, l), b.edgePoint(j, l), b.edgePoint(j, k)
		b.simplex(src, mesh.CellTriangle, ik, il, jl)
		b.simplex(src, mesh.CellTriangle, ik, jl, jk)
	}
}
