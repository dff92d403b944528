package native

import (
	"fmt"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// Append accumulates the points and cells of inputs into one unstructured
// grid. Attribute arrays survive only when every non-empty input carries
// them with the same component count.
func (e *Engine) Append(inputs []*mesh.Dataset, opts kernel.AppendOptions) (*mesh.Dataset, error) {
	var live []*mesh.Dataset
	for _, d := range inputs {
		if d != nil && !d.IsEmpty() {
			live = append(live, d)
		}
	}

	out := mesh.NewUnstructuredGrid()
	if len(live) == 0 {
		return out, nil
	}
	out.PointData = commonStructure(live, func(d *mesh.Dataset) *mesh.FieldData { return &d.PointData })
	out.CellData = commonStructure(live, func(d *mesh.Dataset) *mesh.FieldData { return &d.CellData })

	var loc *Locator
	if opts.MergePoints {
		loc = NewLocator(opts.Tolerance)
	}

	for n, d := range live {
		ids := make([]int, d.NumPoints())
		for i, p := range d.Points {
			if loc == nil {
				ids[i] = out.AddPoint(p)
				out.PointData.CopyTuple(&d.PointData, i)
				continue
			}
			id, inserted := loc.InsertUnique(p)
			if inserted {
				out.AddPoint(p)
				out.PointData.CopyTuple(&d.PointData, i)
			}
			ids[i] = id
		}
		for i, c := range d.Cells {
			if err := c.Check(d.NumPoints()); err != nil {
				return nil, fmt.Errorf("native: append input %d cell %d: %w", n, i, err)
			}
			mapped := make([]int, len(c.IDs))
			for j, id := range c.IDs {
				mapped[j] = ids[id]
			}
			out.Cells = append(out.Cells, mesh.Cell{Type: c.Type, IDs: mapped})
			out.CellData.CopyTuple(&d.CellData, i)
		}
	}
	return out, nil
}

// commonStructure returns empty arrays for every array of the first input
// that all other inputs carry with the same component count.
func commonStructure(inputs []*mesh.Dataset, field func(*mesh.Dataset) *mesh.FieldData) mesh.FieldData {
	out := field(inputs[0]).Structure()
	for _, name := range out.Names() {
		want := out.Get(name).Components
		for _, d := range inputs[1:] {
			a := field(d).Get(name)
			if a == nil || a.Components != want {
				out.Remove(name)
				break
			}
		}
	}
	return out
}
