// Package kernel defines the geometry backends the rest of blockmesh
// delegates to. Engine processes datasets (composite surface extraction,
// appending with optional point merging); Kernel builds solids and turns
// them into datasets. Implementations live in sub-packages so backends can
// be swapped without changing callers.
package kernel

import (
	"errors"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// ErrUnsupportedCell is returned when a backend meets a cell it cannot process.
var ErrUnsupportedCell = errors.New("kernel: unsupported cell")

// AppendOptions controls how Engine.Append accumulates datasets.
type AppendOptions struct {
	// MergePoints collapses points within Tolerance of an already appended
	// point onto that point. The first point's data is kept.
	MergePoints bool
	// Tolerance is the Euclidean merge distance, inclusive. A negative
	// tolerance merges nothing.
	Tolerance float64
}

// Engine is the dataset-processing backend.
type Engine interface {
	// ExtractGeometry appends the exposed surface of every leaf of c,
	// depth-first, into one poly-data dataset without merging points.
	ExtractGeometry(c *mesh.Composite) (*mesh.Dataset, error)

	// Append accumulates the cells of all inputs into one unstructured grid.
	// Nil inputs are skipped.
	Append(inputs []*mesh.Dataset, opts AppendOptions) (*mesh.Dataset, error)
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() mesh.Bounds
}

// Kernel is the solid-modeling backend.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToDataset tessellates the solid into a triangle poly-data.
	ToDataset(s Solid) (*mesh.Dataset, error)
}
