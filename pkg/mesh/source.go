package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Box returns the canonical box for b: the 8 corners in hexahedron order
// and 6 outward-facing quads.
func Box(b Bounds) *Dataset {
	d := NewPolyData()
	for _, p := range b.Corners() {
		d.AddPoint(p)
	}
	for _, f := range hexFaces {
		d.AddCell(CellQuad, f...)
	}
	return d
}

// Cube returns an axis-aligned cube centered at center with one quad per
// face. Each face owns its 4 points, so the cube has 24 points, and carries
// the face normal in the "Normals" point array.
func Cube(center r3.Vec, xLen, yLen, zLen float64) *Dataset {
	x0, x1 := center.X-xLen/2, center.X+xLen/2
	y0, y1 := center.Y-yLen/2, center.Y+yLen/2
	z0, z1 := center.Z-zLen/2, center.Z+zLen/2

	faces := []struct {
		normal r3.Vec
		pts    [4]r3.Vec
	}{
		{r3.Vec{X: -1}, [4]r3.Vec{{X: x0, Y: y0, Z: z0}, {X: x0, Y: y0, Z: z1}, {X: x0, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z0}}},
		{r3.Vec{X: 1}, [4]r3.Vec{{X: x1, Y: y0, Z: z0}, {X: x1, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z1}, {X: x1, Y: y0, Z: z1}}},
		{r3.Vec{Y: -1}, [4]r3.Vec{{X: x0, Y: y0, Z: z0}, {X: x1, Y: y0, Z: z0}, {X: x1, Y: y0, Z: z1}, {X: x0, Y: y0, Z: z1}}},
		{r3.Vec{Y: 1}, [4]r3.Vec{{X: x0, Y: y1, Z: z0}, {X: x0, Y: y1, Z: z1}, {X: x1, Y: y1, Z: z1}, {X: x1, Y: y1, Z: z0}}},
		{r3.Vec{Z: -1}, [4]r3.Vec{{X: x0, Y: y0, Z: z0}, {X: x0, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z0}, {X: x1, Y: y0, Z: z0}}},
		{r3.Vec{Z: 1}, [4]r3.Vec{{X: x0, Y: y0, Z: z1}, {X: x1, Y: y0, Z: z1}, {X: x1, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z1}}},
	}

	d := NewPolyData()
	normals := &Array{Name: "Normals", Components: 3}
	for _, f := range faces {
		ids := make([]int, 4)
		for i, p := range f.pts {
			ids[i] = d.AddPoint(p)
			normals.AppendTuple(f.normal.X, f.normal.Y, f.normal.Z)
		}
		d.AddCell(CellQuad, ids...)
	}
	d.PointData.Add(normals)
	return d
}

// UniformGrid returns b divided into nx*ny*nz hexahedra as an unstructured
// grid. Counts below 1 are treated as 1.
func UniformGrid(b Bounds, nx, ny, nz int) *Dataset {
	nx, ny, nz = max(nx, 1), max(ny, 1), max(nz, 1)
	size := b.Size()
	d := NewUnstructuredGrid()
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				d.AddPoint(r3.Vec{
					X: b.Min.X + size.X*float64(i)/float64(nx),
					Y: b.Min.Y + size.Y*float64(j)/float64(ny),
					Z: b.Min.Z + size.Z*float64(k)/float64(nz),
				})
			}
		}
	}
	id := func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				d.AddCell(CellHexahedron,
					id(i, j, k), id(i+1, j, k), id(i+1, j+1, k), id(i, j+1, k),
					id(i, j, k+1), id(i+1, j, k+1), id(i+1, j+1, k+1), id(i, j+1, k+1))
			}
		}
	}
	return d
}

// Line returns a poly-line from a to b with resolution segments.
func Line(a, b r3.Vec, resolution int) *Dataset {
	resolution = max(resolution, 1)
	d := NewPolyData()
	ids := make([]int, resolution+1)
	for i := 0; i <= resolution; i++ {
		t := float64(i) / float64(resolution)
		ids[i] = d.AddPoint(r3.Add(a, r3.Scale(t, r3.Sub(b, a))))
	}
	d.AddCell(CellPolyLine, ids...)
	return d
}
