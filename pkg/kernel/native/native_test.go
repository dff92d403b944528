package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// --- Locator ---

func TestLocatorInsertUnique(t *testing.T) {
	tests := []struct {
		name     string
		tol      float64
		points   []r3.Vec
		wantIDs  []int
		distinct int
	}{
		{
			name:     "exact duplicates",
			tol:      0,
			points:   []r3.Vec{{X: 1}, {X: 1}, {Y: 1}},
			wantIDs:  []int{0, 0, 1},
			distinct: 2,
		},
		{
			name:     "within tolerance inclusive",
			tol:      0.5,
			points:   []r3.Vec{{}, {X: 0.5}, {X: 0.51}},
			wantIDs:  []int{0, 0, 1},
			distinct: 2,
		},
		{
			name:     "negative tolerance never merges",
			tol:      -1,
			points:   []r3.Vec{{}, {}, {}},
			wantIDs:  []int{0, 1, 2},
			distinct: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLocator(tt.tol)
			for i, p := range tt.points {
				id, _ := l.InsertUnique(p)
				assert.Equal(t, tt.wantIDs[i], id, "point %d", i)
			}
			assert.Equal(t, tt.distinct, l.Len())
		})
	}
}

func TestLocatorFindEmpty(t *testing.T) {
	l := NewLocator(1)
	_, ok := l.Find(r3.Vec{})
	assert.False(t, ok)
}

// --- Append ---

func twoCubes() []*mesh.Dataset {
	return []*mesh.Dataset{
		mesh.Cube(r3.Vec{}, 1, 1, 1),
		mesh.Cube(r3.Vec{X: 1}, 1, 1, 1),
	}
}

func TestAppendWithoutMerge(t *testing.T) {
	out, err := New().Append(twoCubes(), kernel.AppendOptions{})
	require.NoError(t, err)
	assert.Equal(t, mesh.UnstructuredGrid, out.Kind)
	assert.Equal(t, 48, out.NumPoints())
	assert.Equal(t, 12, out.NumCells())
	require.NoError(t, out.Validate())
	assert.Equal(t, []string{"Normals"}, out.PointData.Names())
}

func TestAppendMergesCoincidentPoints(t *testing.T) {
	out, err := New().Append(twoCubes(), kernel.AppendOptions{MergePoints: true})
	require.NoError(t, err)
	assert.Equal(t, 12, out.NumPoints())
	assert.Equal(t, 12, out.NumCells())
	require.NoError(t, out.Validate())
	assert.Equal(t, mesh.NewBounds(-0.5, 1.5, -0.5, 0.5, -0.5, 0.5), out.Bounds())
}

func TestAppendNegativeToleranceKeepsAllPoints(t *testing.T) {
	out, err := New().Append(twoCubes(), kernel.AppendOptions{MergePoints: true, Tolerance: -1})
	require.NoError(t, err)
	assert.Equal(t, 48, out.NumPoints())
}

func TestAppendKeepsOnlyCommonArrays(t *testing.T) {
	a := mesh.Cube(r3.Vec{}, 1, 1, 1)
	b := mesh.Box(mesh.NewBounds(3, 4, 0, 1, 0, 1))
	b.CellData.Add(mesh.NewArray("id", 1, b.NumCells()))
	a.CellData.Add(mesh.NewArray("id", 2, a.NumCells()))

	out, err := New().Append([]*mesh.Dataset{a, nil, b}, kernel.AppendOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.PointData.Len(), "Normals is missing from the box")
	assert.Equal(t, 0, out.CellData.Len(), "component counts differ")
	assert.Equal(t, 32, out.NumPoints())
}

func TestAppendNothing(t *testing.T) {
	out, err := New().Append(nil, kernel.AppendOptions{MergePoints: true})
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestAppendRejectsBadCell(t *testing.T) {
	d := mesh.Box(mesh.NewBounds(0, 1, 0, 1, 0, 1))
	d.AddCell(mesh.CellLine, 0, 42)
	_, err := New().Append([]*mesh.Dataset{d}, kernel.AppendOptions{})
	assert.ErrorIs(t, err, mesh.ErrInvalidCell)
}

// --- Surface / ExtractGeometry ---

func TestSurfaceOfGrid(t *testing.T) {
	g := mesh.UniformGrid(mesh.NewBounds(0, 2, 0, 1, 0, 1), 2, 1, 1)
	g.CellData.Add(&mesh.Array{Name: "block", Components: 1, Values: []float64{1, 2}})

	s, err := Surface(g)
	require.NoError(t, err)
	assert.Equal(t, mesh.PolyData, s.Kind)
	assert.Equal(t, 10, s.NumCells(), "shared face is interior")
	assert.Equal(t, 12, s.NumPoints())
	require.NoError(t, s.Validate())

	blocks := s.CellData.Get("block")
	require.NotNil(t, blocks)
	assert.ElementsMatch(t, []float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}, blocks.Values)
}

func TestSurfacePassesThroughSurfaceCells(t *testing.T) {
	d := mesh.Cube(r3.Vec{}, 1, 1, 1)
	s, err := Surface(d)
	require.NoError(t, err)
	assert.Equal(t, d.NumCells(), s.NumCells())
	assert.Equal(t, d.NumPoints(), s.NumPoints())
}

func TestSurfaceDropsUnusedPoints(t *testing.T) {
	d := mesh.Line(r3.Vec{}, r3.Vec{X: 1}, 1)
	d.AddPoint(r3.Vec{Z: 9})
	s, err := Surface(d)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumPoints())
}

func TestExtractGeometry(t *testing.T) {
	grid := mesh.UniformGrid(mesh.NewBounds(0, 1, 0, 1, 0, 1), 1, 1, 1)
	c := mesh.NewComposite(
		mesh.Leaf("grid", grid),
		mesh.Nested("inner", mesh.FromDatasets(mesh.Cube(r3.Vec{X: 1.5, Y: 0.5, Z: 0.5}, 1, 1, 1), nil)),
	)
	out, err := New().ExtractGeometry(c)
	require.NoError(t, err)
	assert.Equal(t, mesh.PolyData, out.Kind)
	assert.Equal(t, 8+24, out.NumPoints(), "shared interface is not merged")
	assert.Equal(t, 12, out.NumCells())
	require.NoError(t, out.Validate())
}

func TestExtractGeometryNil(t *testing.T) {
	_, err := New().ExtractGeometry(nil)
	assert.ErrorIs(t, err, mesh.ErrNilComposite)
}
