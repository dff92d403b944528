package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind distinguishes surface datasets from general unstructured grids.
type Kind int

const (
	PolyData         Kind = iota // vertices, lines and polygons only
	UnstructuredGrid             // any cell type
)

func (k Kind) String() string {
	switch k {
	case PolyData:
		return "poly-data"
	case UnstructuredGrid:
		return "unstructured-grid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Dataset is a set of points, cells over those points, and attribute arrays
// for each. PointData arrays hold one tuple per point and CellData arrays one
// tuple per cell.
type Dataset struct {
	Kind      Kind      `json:"kind"`
	Points    []r3.Vec  `json:"points"`
	Cells     []Cell    `json:"cells"`
	PointData FieldData `json:"-"`
	CellData  FieldData `json:"-"`
}

// NewPolyData returns an empty surface dataset.
func NewPolyData() *Dataset {
	return &Dataset{Kind: PolyData}
}

// NewUnstructuredGrid returns an empty unstructured grid.
func NewUnstructuredGrid() *Dataset {
	return &Dataset{Kind: UnstructuredGrid}
}

// NumPoints returns the number of points.
func (d *Dataset) NumPoints() int {
	return len(d.Points)
}

// NumCells returns the number of cells.
func (d *Dataset) NumCells() int {
	return len(d.Cells)
}

// IsEmpty reports whether the dataset has no points.
func (d *Dataset) IsEmpty() bool {
	return len(d.Points) == 0
}

// AddPoint appends a point and returns its id.
func (d *Dataset) AddPoint(p r3.Vec) int {
	d.Points = append(d.Points, p)
	return len(d.Points) - 1
}

// AddCell appends a cell and returns its id.
func (d *Dataset) AddCell(t CellType, ids ...int) int {
	d.Cells = append(d.Cells, NewCell(t, ids...))
	return len(d.Cells) - 1
}

// Bounds returns the bounds of all points.
func (d *Dataset) Bounds() Bounds {
	return BoundsOf(d.Points)
}

// CellPoints returns the coordinates of the points of cell i.
func (d *Dataset) CellPoints(i int) []r3.Vec {
	c := d.Cells[i]
	pts := make([]r3.Vec, len(c.IDs))
	for j, id := range c.IDs {
		pts[j] = d.Points[id]
	}
	return pts
}

// CellCenter returns the mean of the distinct points of cell i.
func (d *Dataset) CellCenter(i int) r3.Vec {
	seen := make(map[int]bool, len(d.Cells[i].IDs))
	var sum r3.Vec
	n := 0
	for _, id := range d.Cells[i].IDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		sum = r3.Add(sum, d.Points[id])
		n++
	}
	if n == 0 {
		return sum
	}
	return r3.Scale(1/float64(n), sum)
}

// MaxCellDimension returns the highest topological dimension among the
// cells, or -1 for a dataset without cells.
func (d *Dataset) MaxCellDimension() int {
	dim := -1
	for _, c := range d.Cells {
		if cd := c.Type.Dimension(); cd > dim {
			dim = cd
		}
	}
	return dim
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Kind:      d.Kind,
		Points:    append([]r3.Vec(nil), d.Points...),
		Cells:     make([]Cell, len(d.Cells)),
		PointData: d.PointData.Clone(),
		CellData:  d.CellData.Clone(),
	}
	for i, c := range d.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}

// Translate returns a copy of the dataset moved by v.
func (d *Dataset) Translate(v r3.Vec) *Dataset {
	out := d.Clone()
	for i, p := range out.Points {
		out.Points[i] = r3.Add(p, v)
	}
	return out
}

// Validate checks cell connectivity and attribute array lengths.
func (d *Dataset) Validate() error {
	for i, c := range d.Cells {
		if err := c.Check(len(d.Points)); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		if d.Kind == PolyData && c.Type.Dimension() == 3 {
			return fmt.Errorf("cell %d: %w: %s in poly-data", i, ErrInvalidCell, c.Type)
		}
	}
	for _, a := range d.PointData.Arrays() {
		if a.Len() != len(d.Points) {
			return fmt.Errorf("mesh: point array %q has %d tuples, want %d", a.Name, a.Len(), len(d.Points))
		}
	}
	for _, a := range d.CellData.Arrays() {
		if a.Len() != len(d.Cells) {
			return fmt.Errorf("mesh: cell array %q has %d tuples, want %d", a.Name, a.Len(), len(d.Cells))
		}
	}
	return nil
}
