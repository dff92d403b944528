package composite

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/filters"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// each returns a composite shaped like c with every leaf replaced by fn(leaf).
func each(c *mesh.Composite, fn func(d *mesh.Dataset) (*mesh.Dataset, error)) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	return c.Map(func(_ string, d *mesh.Dataset) (mesh.Block, error) {
		out, err := fn(d)
		if err != nil {
			return mesh.Block{}, err
		}
		return mesh.Leaf("", out), nil
	})
}

// eachNested is each for filters that yield a composite per leaf.
func eachNested(c *mesh.Composite, fn func(d *mesh.Dataset) (*mesh.Composite, error)) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	return c.Map(func(_ string, d *mesh.Dataset) (mesh.Block, error) {
		out, err := fn(d)
		if err != nil {
			return mesh.Block{}, err
		}
		return mesh.Nested("", out), nil
	})
}

// center returns the center of the bounds of c, or the origin when c has no
// points.
func center(c *mesh.Composite) (r3.Vec, error) {
	b, err := c.Bounds()
	if err != nil || b.IsEmpty() {
		return r3.Vec{}, err
	}
	return b.Center(), nil
}

// Clip clips every leaf with the same plane. A nil origin selects the
// center of the composite.
func (a *Adapter) Clip(c *mesh.Composite, opts filters.ClipOptions) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if opts.Origin == nil {
		o, err := center(c)
		if err != nil {
			return nil, err
		}
		opts.Origin = &o
	}
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.Clip(d, opts)
	})
}

// ClipBox clips every leaf with the same box. Nil bounds select the last
// quarter of the composite bounds along every axis.
func (a *Adapter) ClipBox(c *mesh.Composite, bounds *mesh.Bounds, invert bool) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if bounds == nil {
		b, err := c.Bounds()
		if err != nil {
			return nil, err
		}
		if !b.IsEmpty() {
			q := func(lo, hi float64) float64 { return hi - (hi-lo)/4 }
			corner := mesh.NewBounds(q(b.Min.X, b.Max.X), b.Max.X, q(b.Min.Y, b.Max.Y), b.Max.Y, q(b.Min.Z, b.Max.Z), b.Max.Z)
			bounds = &corner
		}
	}
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.ClipBox(d, bounds, invert)
	})
}

// Slice slices every leaf with the same plane.
func (a *Adapter) Slice(c *mesh.Composite, opts filters.SliceOptions) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if opts.Origin == nil {
		o, err := center(c)
		if err != nil {
			return nil, err
		}
		opts.Origin = &o
	}
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.Slice(d, opts)
	})
}

// SliceOrthogonal replaces every leaf with its X, Y and Z slices through
// point, by default the composite center.
func (a *Adapter) SliceOrthogonal(c *mesh.Composite, point *r3.Vec) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if point == nil {
		o, err := center(c)
		if err != nil {
			return nil, err
		}
		point = &o
	}
	return eachNested(c, func(d *mesh.Dataset) (*mesh.Composite, error) {
		return a.filters.SliceOrthogonal(d, point)
	})
}

// SliceAlongAxis replaces every leaf with its slices at positions spread over
// the composite bounds, so slice i of every leaf lies on the same plane.
func (a *Adapter) SliceAlongAxis(c *mesh.Composite, opts filters.AxisSliceOptions) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if opts.Bounds == nil {
		b, err := c.Bounds()
		if err != nil {
			return nil, err
		}
		opts.Bounds = &b
	}
	return eachNested(c, func(d *mesh.Dataset) (*mesh.Composite, error) {
		return a.filters.SliceAlongAxis(d, opts)
	})
}

// SliceAlongLine slices every leaf with the surface swept by line.
func (a *Adapter) SliceAlongLine(c *mesh.Composite, line *mesh.Dataset, direction *r3.Vec) (*mesh.Composite, error) {
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.SliceAlongLine(d, line, direction)
	})
}

// ExtractAllEdges replaces every leaf with its edges.
func (a *Adapter) ExtractAllEdges(c *mesh.Composite) (*mesh.Composite, error) {
	return each(c, a.filters.ExtractAllEdges)
}

// Elevation adds the elevation scalar to every leaf. Unset end points are
// taken from the composite bounds.
func (a *Adapter) Elevation(c *mesh.Composite, opts filters.ElevationOptions) (*mesh.Composite, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	b, err := c.Bounds()
	if err != nil {
		return nil, err
	}
	if !b.IsEmpty() {
		mid := b.Center()
		if opts.Low == nil {
			opts.Low = &r3.Vec{X: mid.X, Y: mid.Y, Z: b.Min.Z}
		}
		if opts.High == nil {
			opts.High = &r3.Vec{X: mid.X, Y: mid.Y, Z: b.Max.Z}
		}
	}
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.Elevation(d, opts)
	})
}

// ComputeCellSizes adds cell size arrays to every leaf.
func (a *Adapter) ComputeCellSizes(c *mesh.Composite, opts filters.CellSizeOptions) (*mesh.Composite, error) {
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.ComputeCellSizes(d, opts)
	})
}

// CellCenters replaces every leaf with its cell centers.
func (a *Adapter) CellCenters(c *mesh.Composite, vertex bool) (*mesh.Composite, error) {
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.CellCenters(d, vertex)
	})
}

// CellDataToPointData converts the cell data of every leaf to point data.
func (a *Adapter) CellDataToPointData(c *mesh.Composite, passCellData bool) (*mesh.Composite, error) {
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.CellDataToPointData(d, passCellData)
	})
}

// PointDataToCellData converts the point data of every leaf to cell data.
func (a *Adapter) PointDataToCellData(c *mesh.Composite, passPointData bool) (*mesh.Composite, error) {
	return each(c, func(d *mesh.Dataset) (*mesh.Dataset, error) {
		return a.filters.PointDataToCellData(d, passPointData)
	})
}

// Triangulate triangulates every leaf.
func (a *Adapter) Triangulate(c *mesh.Composite) (*mesh.Composite, error) {
	return each(c, a.filters.Triangulate)
}
