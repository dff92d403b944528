// Package native is the pure-Go geometry engine: composite surface
// extraction and dataset appending with kd-tree point merging.
package native

import (
	"fmt"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// Engine implements kernel.Engine. The zero value is ready to use.
type Engine struct{}

var _ kernel.Engine = (*Engine)(nil)

// New returns a native engine.
func New() *Engine {
	return &Engine{}
}

// ExtractGeometry appends the surface of every non-empty leaf of c in
// depth-first order without merging points.
func (e *Engine) ExtractGeometry(c *mesh.Composite) (*mesh.Dataset, error) {
	if c == nil {
		return nil, mesh.ErrNilComposite
	}
	var surfaces []*mesh.Dataset
	err := c.Walk(func(path string, d *mesh.Dataset) error {
		s, err := Surface(d)
		if err != nil {
			return fmt.Errorf("native: extract %s: %w", path, err)
		}
		surfaces = append(surfaces, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out, err := e.Append(surfaces, kernel.AppendOptions{})
	if err != nil {
		return nil, err
	}
	out.Kind = mesh.PolyData
	return out, nil
}
