package filters

import (
	"fmt"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// Clip keeps the part of d on one side of a plane. With Invert the region
// where (x-origin)·normal <= 0 is kept, otherwise the region where it is >= 0.
func (f *Default) Clip(d *mesh.Dataset, opts ClipOptions) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	plane, err := NewPlane(planeOrigin(d, opts.Origin), opts.Normal)
	if err != nil {
		return nil, err
	}
	return ClipImplicit(d, plane, opts.Invert)
}

// ClipBox removes the inside of bounds from d, or keeps only the inside when
// invert is false. Nil bounds select the box spanning the last quarter of
// every axis of the dataset bounds, so the default cuts away a corner.
func (f *Default) ClipBox(d *mesh.Dataset, bounds *mesh.Bounds, invert bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	var box mesh.Bounds
	if bounds != nil {
		box = *bounds
	} else {
		db := d.Bounds()
		if db.IsEmpty() {
			return d.Clone(), nil
		}
		quarter := func(lo, hi float64) float64 { return hi - (hi-lo)/4 }
		box = mesh.NewBounds(
			quarter(db.Min.X, db.Max.X), db.Max.X,
			quarter(db.Min.Y, db.Max.Y), db.Max.Y,
			quarter(db.Min.Z, db.Max.Z), db.Max.Z,
		)
	}
	// ClipImplicit with invert keeps the negative side, which is the inside.
	return ClipImplicit(d, BoxFunction{Bounds: box}, !invert)
}

// ClipImplicit keeps the part of d where fn <= 0 (invert) or fn >= 0.
// Cells entirely on the kept side are copied unchanged; cells cut by the
// surface are split into simplices first. The output is an unstructured grid.
func ClipImplicit(d *mesh.Dataset, fn ImplicitFunction, invert bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	s := evaluate(d, fn)
	if !invert {
		for i := range s {
			s[i] = -s[i]
		}
	}
	b := newBuilder(d, mesh.UnstructuredGrid, s)
	kept := func(id int) bool { return s[id] <= 0 }

	for i, c := range d.Cells {
		if err := c.Check(d.NumPoints()); err != nil {
			return nil, fmt.Errorf("filters: clip cell %d: %w", i, err)
		}
		in := 0
		for _, id := range c.IDs {
			if kept(id) {
				in++
			}
		}
		switch {
		case in == 0:
			continue
		case in == len(c.IDs):
			b.copyCell(i)
			continue
		}

		switch c.Type.Dimension() {
		case 0:
			for _, id := range c.IDs {
				if kept(id) {
					b.cell(i, mesh.CellVertex, b.point(id))
				}
			}
		case 1:
			for _, seg := range segments(c) {
				clipSegment(b, i, seg, kept)
			}
		case 2:
			clipPolygon(b, i, c.IDs, kept)
		default:
			tets, err := tetrahedra(c)
			if err != nil {
				return nil, fmt.Errorf("filters: clip cell %d: %w", i, err)
			}
			for _, tet := range tets {
				clipTetra(b, i, tet, kept)
			}
		}
	}
	return b.result(), nil
}

func clipSegment(b *builder, src int, seg [2]int, kept func(int) bool) {
	a, c := seg[0], seg[1]
	switch {
	case kept(a) && kept(c):
		b.simplex(src, mesh.CellLine, b.point(a), b.point(c))
	case kept(a):
		b.simplex(src, mesh.CellLine, b.point(a), b.edgePoint(a, c))
	case kept(c):
		b.simplex(src, mesh.CellLine, b.edgePoint(a, c), b.point(c))
	}
}

// clipPolygon clips a convex polygon against the kept side, preserving its
// winding.
func clipPolygon(b *builder, src int, ids []int, kept func(int) bool) {
	var loop []int
	n := len(ids)
	for i := 0; i < n; i++ {
		a, c := ids[i], ids[(i+1)%n]
		if kept(a) {
			loop = append(loop, b.point(a))
		}
		if kept(a) != kept(c) {
			loop = append(loop, b.edgePoint(a, c))
		}
	}
	b.polygon(src, loop)
}

// clipTetra emits the kept part of a tetrahedron as tetrahedra.
func clipTetra(b *builder, src int, tet [4]int, kept func(int) bool) {
	var in, out []int
	for _, id := range tet {
		if kept(id) {
			in = append(in, id)
		} else {
			out = append(out, id)
		}
	}
	switch len(in) {
	case 4:
		b.simplex(src, mesh.CellTetra, b.point(tet[0]), b.point(tet[1]), b.point(tet[2]), b.point(tet[3]))
	case 1:
		i := in[0]
		b.simplex(src, mesh.CellTetra, b.point(i), b.edgePoint(i, out[0]), b.edgePoint(i, out[1]), b.edgePoint(i, out[2]))
	case 2:
		i, j, k, l := in[0], in[1], out[0], out[1]
		emitWedge(b, src, [6]int{
			b.point(i), b.edgePoint(i, k), b.edgePoint(i, l),
			b.point(j), b.edgePoint(j, k), b.edgePoint(j, l),
		})
	case 3:
		i, j, k, l := in[0], in[1], in[2], out[0]
		emitWedge(b, src, [6]int{
			b.point(i), b.point(j), b.point(k),
			b.edgePoint(i, l), b.edgePoint(j, l), b.edgePoint(k, l),
		})
	}
}

// emitWedge emits a wedge over output ids as tetrahedra, dropping the ones
// that degenerate when cut points coincide with corners.
func emitWedge(b *builder, src int, w [6]int) {
	for _, t := range localTets(wedgeTets, w[:]) {
		b.simplex(src, mesh.CellTetra, t[0], t[1], t[2], t[3])
	}
}
