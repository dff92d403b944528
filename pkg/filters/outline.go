package filters

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// Outline returns the wireframe of the bounds of d: 8 corner points and 12
// edge lines, plus the 6 faces as quads when generateFaces is set.
func (f *Default) Outline(d *mesh.Dataset, generateFaces bool) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	return OutlineOf(d.Bounds(), generateFaces)
}

// OutlineOf returns the outline of b.
func OutlineOf(b mesh.Bounds, generateFaces bool) (*mesh.Dataset, error) {
	if b.IsEmpty() {
		return nil, mesh.ErrEmptyBounds
	}
	out := mesh.NewPolyData()
	for _, p := range b.Corners() {
		out.AddPoint(p)
	}
	for _, e := range mesh.HexahedronEdges() {
		out.AddCell(mesh.CellLine, e[0], e[1])
	}
	if generateFaces {
		for _, face := range mesh.HexahedronFaces() {
			out.AddCell(mesh.CellQuad, face...)
		}
	}
	return out, nil
}

// OutlineCorners returns, for each corner of the bounds of d, three
// segments running inward along the box edges. Each segment is factor times
// the length of the edge it follows.
func (f *Default) OutlineCorners(d *mesh.Dataset, factor float64) (*mesh.Dataset, error) {
	if d == nil {
		return nil, mesh.ErrNilDataset
	}
	return OutlineCornersOf(d.Bounds(), factor)
}

// OutlineCornersOf returns the corner outline of b: 32 points and 24 lines.
func OutlineCornersOf(b mesh.Bounds, factor float64) (*mesh.Dataset, error) {
	if b.IsEmpty() {
		return nil, mesh.ErrEmptyBounds
	}
	size := b.Size()
	out := mesh.NewPolyData()
	for i, corner := range b.Corners() {
		// Corners 1, 2, 5, 6 sit at max x; 2, 3, 6, 7 at max y; 4-7 at max z.
		sx, sy, sz := 1.0, 1.0, 1.0
		if i == 1 || i == 2 || i == 5 || i == 6 {
			sx = -1
		}
		if i == 2 || i == 3 || i == 6 || i == 7 {
			sy = -1
		}
		if i >= 4 {
			sz = -1
		}
		c := out.AddPoint(corner)
		for _, step := range []r3.Vec{
			{X: sx * factor * size.X},
			{Y: sy * factor * size.Y},
			{Z: sz * factor * size.Z},
		} {
			out.AddCell(mesh.CellLine, c, out.AddPoint(r3.Add(corner, step)))
		}
	}
	return out, nil
}

// OutlineBlocks returns the outline of every non-empty leaf of c appended
// into one poly-data, in traversal order.
func (f *Default) OutlineBlocks(c *mesh.Composite, generateFaces bool) (*mesh.Dataset, error) {
	return f.perBlock(c, func(b mesh.Bounds) (*mesh.Dataset, error) {
		return OutlineOf(b, generateFaces)
	})
}

// OutlineCornersBlocks returns the corner outline of every non-empty leaf of
// c appended into one poly-data.
func (f *Default) OutlineCornersBlocks(c *mesh.Composite, factor float64) (*mesh.Dataset, error) {
	return f.perBlock(c, func(b mesh.Bounds) (*mesh.Dataset, error) {
		return OutlineCornersOf(b, factor)
	})
}

func (f *Default) perBlock(c *mesh.Composite, outline func(mesh.Bounds) (*mesh.Dataset, error)) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	var parts []*mesh.Dataset
	err := c.Walk(func(path string, d *mesh.Dataset) error {
		if d.IsEmpty() {
			return nil
		}
		o, err := outline(d.Bounds())
		if err != nil {
			return fmt.Errorf("filters: outline %s: %w", path, err)
		}
		parts = append(parts, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, mesh.ErrEmptyBounds
	}
	out, err := f.appender().Append(parts, kernel.AppendOptions{})
	if err != nil {
		return nil, err
	}
	out.Kind = mesh.PolyData
	return out, nil
}
