package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCellCheck(t *testing.T) {
	tests := []struct {
		name    string
		cell    Cell
		points  int
		wantErr bool
	}{
		{"triangle ok", NewCell(CellTriangle, 0, 1, 2), 3, false},
		{"triangle short", NewCell(CellTriangle, 0, 1), 3, true},
		{"hex ok", NewCell(CellHexahedron, 0, 1, 2, 3, 4, 5, 6, 7), 8, false},
		{"hex out of range", NewCell(CellHexahedron, 0, 1, 2, 3, 4, 5, 6, 8), 8, true},
		{"polygon too small", NewCell(CellPolygon, 0, 1), 3, true},
		{"polyline ok", NewCell(CellPolyLine, 0, 1, 2, 3), 4, false},
		{"negative id", NewCell(CellVertex, -1), 1, true},
		{"skip range check", NewCell(CellLine, 10, 11), -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cell.Check(tt.points)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCell))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCellFacesAndEdges(t *testing.T) {
	tests := []struct {
		typ   CellType
		n     int
		faces int
		edges int
	}{
		{CellTetra, 4, 4, 6},
		{CellHexahedron, 8, 6, 12},
		{CellWedge, 6, 5, 9},
		{CellPyramid, 5, 5, 8},
		{CellQuad, 4, 1, 4},
		{CellLine, 2, 0, 1},
		{CellVertex, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			ids := make([]int, tt.n)
			for i := range ids {
				ids[i] = i + 10
			}
			c := NewCell(tt.typ, ids...)
			faces, err := c.Faces()
			require.NoError(t, err)
			assert.Len(t, faces, tt.faces)
			edges, err := c.Edges()
			require.NoError(t, err)
			assert.Len(t, edges, tt.edges)
			for _, e := range edges {
				assert.GreaterOrEqual(t, e[0], 10)
				assert.GreaterOrEqual(t, e[1], 10)
			}
		})
	}
}

func TestHexFacesPointOutward(t *testing.T) {
	d := UniformGrid(NewBounds(0, 1, 0, 1, 0, 1), 1, 1, 1)
	center := d.CellCenter(0)
	faces, err := d.Cells[0].Faces()
	require.NoError(t, err)
	for _, f := range faces {
		p0, p1, p2 := d.Points[f[0]], d.Points[f[1]], d.Points[f[2]]
		n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
		assert.Greater(t, r3.Dot(n, r3.Sub(p0, center)), 0.0, "face %v points inward", f)
	}
}

func TestDatasetCloneIsIndependent(t *testing.T) {
	d := Cube(r3.Vec{}, 1, 1, 1)
	c := d.Clone()
	c.Points[0] = r3.Vec{X: 100}
	c.Cells[0].IDs[0] = 5
	c.PointData.Get("Normals").Values[0] = 42

	assert.NotEqual(t, c.Points[0], d.Points[0])
	assert.Equal(t, 0, d.Cells[0].IDs[0])
	assert.Equal(t, -1.0, d.PointData.Get("Normals").Values[0])
}

func TestDatasetValidate(t *testing.T) {
	d := Cube(r3.Vec{}, 1, 1, 1)
	require.NoError(t, d.Validate())

	bad := d.Clone()
	bad.AddCell(CellTriangle, 0, 1, 99)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCell)

	short := d.Clone()
	short.PointData.Add(NewArray("short", 1, 3))
	assert.Error(t, short.Validate())

	solid := d.Clone()
	solid.AddCell(CellTetra, 0, 1, 2, 3)
	assert.ErrorIs(t, solid.Validate(), ErrInvalidCell)
}

func TestDatasetTranslate(t *testing.T) {
	d := Box(NewBounds(0, 1, 0, 1, 0, 1))
	moved := d.Translate(r3.Vec{X: 2})
	assert.Equal(t, NewBounds(2, 3, 0, 1, 0, 1), moved.Bounds())
	assert.Equal(t, NewBounds(0, 1, 0, 1, 0, 1), d.Bounds())
}

func TestCellCenterIgnoresRepeatedPoints(t *testing.T) {
	d := NewPolyData()
	d.AddPoint(r3.Vec{})
	d.AddPoint(r3.Vec{X: 2})
	d.AddCell(CellPolygon, 0, 1, 1)
	assert.Equal(t, r3.Vec{X: 1}, d.CellCenter(0))
}

func TestFieldData(t *testing.T) {
	var f FieldData
	f.Add(&Array{Name: "a", Components: 1, Values: []float64{1, 2, 3}})
	f.Add(&Array{Name: "v", Components: 2, Values: []float64{1, 1, 3, 3, 5, 5}})
	assert.Equal(t, []string{"a", "v"}, f.Names())

	f.Add(&Array{Name: "a", Components: 1, Values: []float64{7, 8, 9}})
	assert.Equal(t, []string{"a", "v"}, f.Names(), "replacing keeps order")
	assert.Equal(t, 8.0, f.Get("a").Scalar(1))

	out := f.Structure()
	out.CopyTuple(&f, 2)
	out.InterpolateTuple(&f, 0, 2, 0.5)
	out.AverageTuples(&f, []int{0, 1, 2})
	assert.Equal(t, []float64{9, 8, 8}, out.Get("a").Values)
	assert.Equal(t, []float64{5, 5, 3, 3, 3, 3}, out.Get("v").Values)

	f.Remove("a")
	assert.Equal(t, []string{"v"}, f.Names())
	assert.Nil(t, f.Get("a"))
}
