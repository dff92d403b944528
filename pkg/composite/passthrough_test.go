package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/filters"
	"github.com/chazu/blockmesh/pkg/mesh"
)

func gridComposite() *mesh.Composite {
	return mesh.NewComposite(
		mesh.Leaf("left", mesh.UniformGrid(mesh.NewBounds(0, 1, 0, 1, 0, 1), 1, 1, 1)),
		mesh.Leaf("gap", nil),
		mesh.Nested("more", mesh.NewComposite(
			mesh.Leaf("right", mesh.UniformGrid(mesh.NewBounds(1, 2, 0, 1, 0, 1), 1, 1, 1)),
		)),
	)
}

// assertShape checks that out mirrors the nesting and names of gridComposite.
func assertShape(t *testing.T, out *mesh.Composite) {
	t.Helper()
	require.Len(t, out.Blocks, 3)
	assert.Equal(t, "left", out.Blocks[0].Name)
	assert.Equal(t, "gap", out.Blocks[1].Name)
	assert.True(t, out.Blocks[1].IsEmpty())
	require.True(t, out.Blocks[2].IsNested())
	assert.Equal(t, "right", out.Blocks[2].Composite.Blocks[0].Name)
}

func TestPassThroughPreservesStructure(t *testing.T) {
	a := NewDefault()
	line := mesh.Line(r3.Vec{X: 0.5, Y: -1}, r3.Vec{X: 0.5, Y: 2}, 1)

	ops := map[string]func(*mesh.Composite) (*mesh.Composite, error){
		"clip":              func(c *mesh.Composite) (*mesh.Composite, error) { return a.Clip(c, filters.DefaultClipOptions()) },
		"clip box":          func(c *mesh.Composite) (*mesh.Composite, error) { return a.ClipBox(c, nil, true) },
		"slice":             func(c *mesh.Composite) (*mesh.Composite, error) { return a.Slice(c, filters.DefaultSliceOptions()) },
		"slice along line":  func(c *mesh.Composite) (*mesh.Composite, error) { return a.SliceAlongLine(c, line, nil) },
		"extract all edges": a.ExtractAllEdges,
		"elevation":         func(c *mesh.Composite) (*mesh.Composite, error) { return a.Elevation(c, filters.ElevationOptions{}) },
		"cell sizes": func(c *mesh.Composite) (*mesh.Composite, error) {
			return a.ComputeCellSizes(c, filters.DefaultCellSizeOptions())
		},
		"cell centers":  func(c *mesh.Composite) (*mesh.Composite, error) { return a.CellCenters(c, true) },
		"cell to point": func(c *mesh.Composite) (*mesh.Composite, error) { return a.CellDataToPointData(c, true) },
		"point to cell": func(c *mesh.Composite) (*mesh.Composite, error) { return a.PointDataToCellData(c, true) },
		"triangulate":   a.Triangulate,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			in := gridComposite()
			out, err := op(in)
			require.NoError(t, err)
			assertShape(t, out)
			assert.NotSame(t, in.Blocks[0].Dataset, out.Blocks[0].Dataset)
		})
	}
}

func TestClipUsesCompositeCenter(t *testing.T) {
	out, err := NewDefault().Clip(gridComposite(), filters.DefaultClipOptions())
	require.NoError(t, err)
	// The composite center is x=1: the left block is kept whole and the
	// right block is removed.
	assert.Equal(t, 1, out.Blocks[0].Dataset.NumCells())
	assert.Equal(t, mesh.CellHexahedron, out.Blocks[0].Dataset.Cells[0].Type)
	assert.True(t, out.Blocks[2].Composite.Blocks[0].Dataset.IsEmpty())
}

func TestSliceOrthogonalNestsPerLeaf(t *testing.T) {
	out, err := NewDefault().SliceOrthogonal(gridComposite(), &r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	require.NoError(t, err)
	assertShape(t, out)
	left := out.Blocks[0]
	require.True(t, left.IsNested())
	require.Len(t, left.Composite.Blocks, 3)
	assert.Equal(t, "X", left.Composite.Blocks[0].Name)
	assert.False(t, left.Composite.Blocks[0].Dataset.IsEmpty())

	right := out.Blocks[2].Composite.Blocks[0]
	require.True(t, right.IsNested())
	assert.True(t, right.Composite.Blocks[0].Dataset.IsEmpty(), "x=0.5 misses the right block")
	assert.False(t, right.Composite.Blocks[1].Dataset.IsEmpty())
}

func TestSliceAlongAxisSharesPlanes(t *testing.T) {
	out, err := NewDefault().SliceAlongAxis(gridComposite(), filters.AxisSliceOptions{N: 4, Axis: mesh.AxisX, Tolerance: 0.25})
	require.NoError(t, err)
	// Planes at x = 0.25, 0.75, 1.25, 1.75 across the whole composite.
	left := out.Blocks[0].Composite
	right := out.Blocks[2].Composite.Blocks[0].Composite
	require.Len(t, left.Blocks, 4)
	require.Len(t, right.Blocks, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, i < 2, !left.Blocks[i].Dataset.IsEmpty(), "left slice%d", i)
		assert.Equal(t, i >= 2, !right.Blocks[i].Dataset.IsEmpty(), "right slice%d", i)
	}
}

func TestElevationUsesCompositeBounds(t *testing.T) {
	c := mesh.NewComposite(
		mesh.Leaf("low", mesh.UniformGrid(mesh.NewBounds(0, 1, 0, 1, 0, 1), 1, 1, 1)),
		mesh.Leaf("high", mesh.UniformGrid(mesh.NewBounds(0, 1, 0, 1, 1, 3), 1, 1, 1)),
	)
	out, err := NewDefault().Elevation(c, filters.ElevationOptions{})
	require.NoError(t, err)
	for _, b := range out.Blocks {
		elev := b.Dataset.PointData.Get("Elevation")
		require.NotNil(t, elev)
		for i, p := range b.Dataset.Points {
			assert.InDelta(t, p.Z, elev.Values[i], 1e-12)
		}
	}
}

func TestPassThroughNil(t *testing.T) {
	a := NewDefault()
	_, err := a.Triangulate(nil)
	assert.ErrorIs(t, err, mesh.ErrNilComposite)
	_, err = a.SliceOrthogonal(nil, nil)
	assert.ErrorIs(t, err, mesh.ErrNilComposite)
}

func TestPassThroughWrapsLeafErrors(t *testing.T) {
	_, err := NewDefault().Slice(gridComposite(), filters.SliceOptions{})
	require.ErrorIs(t, err, filters.ErrInvalidNormal)
	assert.Contains(t, err.Error(), "left")
}
