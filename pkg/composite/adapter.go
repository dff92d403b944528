// Package composite exposes whole-composite geometry operations. Surface
// extraction and combining delegate to a kernel.Engine; outlines and the
// pass-through filters delegate to a filters.Filters applied leaf by leaf.
//
// Defaults that depend on geometry (clip and slice origins, the clip box,
// the axis-slice range, elevation end points) are resolved once from the
// bounds of the whole composite, so every leaf is cut by the same surface.
package composite

import (
	"github.com/chazu/blockmesh/pkg/filters"
	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/kernel/native"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// Adapter applies geometry operations to composites.
type Adapter struct {
	engine  kernel.Engine
	filters filters.Filters
}

// New returns an adapter over the given engine and filter set.
func New(engine kernel.Engine, f filters.Filters) *Adapter {
	return &Adapter{engine: engine, filters: f}
}

// NewDefault returns an adapter over the native engine and default filters.
func NewDefault() *Adapter {
	e := native.New()
	return New(e, filters.New(e))
}

// ExtractGeometry appends the exposed surface of every leaf into one
// poly-data, without merging points.
func (a *Adapter) ExtractGeometry(c *mesh.Composite) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	return a.engine.ExtractGeometry(c)
}

// Combine appends every block into one unstructured grid. Nested composites
// are combined first with the same settings. With mergePoints, points within
// tolerance of an earlier point collapse onto it.
func (a *Adapter) Combine(c *mesh.Composite, mergePoints bool, tolerance float64) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	opts := kernel.AppendOptions{MergePoints: mergePoints, Tolerance: tolerance}
	return a.combine(c, opts, make(map[*mesh.Composite]bool))
}

func (a *Adapter) combine(c *mesh.Composite, opts kernel.AppendOptions, active map[*mesh.Composite]bool) (*mesh.Dataset, error) {
	if active[c] {
		return nil, mesh.ErrCycle
	}
	active[c] = true
	defer delete(active, c)

	inputs := make([]*mesh.Dataset, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		switch {
		case b.Composite != nil:
			d, err := a.combine(b.Composite, opts, active)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, d)
		case b.Dataset != nil:
			inputs = append(inputs, b.Dataset)
		}
	}
	return a.engine.Append(inputs, opts)
}

// Outline returns the wireframe of the bounds of the whole composite, or
// with nested set, the wireframes of every leaf appended together.
func (a *Adapter) Outline(c *mesh.Composite, generateFaces, nested bool) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if nested {
		return a.filters.OutlineBlocks(c, generateFaces)
	}
	box, err := a.box(c)
	if err != nil {
		return nil, err
	}
	return a.filters.Outline(box, generateFaces)
}

// OutlineCorners returns the corner outline of the bounds of the whole
// composite, or with nested set, of every leaf. factor scales each corner
// segment relative to the edge it follows and is not validated.
func (a *Adapter) OutlineCorners(c *mesh.Composite, factor float64, nested bool) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	if nested {
		return a.filters.OutlineCornersBlocks(c, factor)
	}
	box, err := a.box(c)
	if err != nil {
		return nil, err
	}
	return a.filters.OutlineCorners(box, factor)
}

// box returns the box primitive spanning c.
func (a *Adapter) box(c *mesh.Composite) (*mesh.Dataset, error) {
	b, err := c.Bounds()
	if err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return nil, mesh.ErrEmptyBounds
	}
	return mesh.Box(b), nil
}
