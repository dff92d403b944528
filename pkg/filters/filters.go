// Package filters implements the single-dataset operations the composite
// adapter forwards to every leaf: clipping, slicing, edge extraction,
// attribute generation and conversion, triangulation and outlines.
//
// All filters are pure. Outputs never alias the slices of their input.
package filters

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/kernel/native"
	"github.com/chazu/blockmesh/pkg/mesh"
)

var (
	// ErrInvalidNormal is returned for a zero-length plane normal or direction.
	ErrInvalidNormal = errors.New("filters: normal must be non-zero")
	// ErrInvalidCount is returned when a slice count is not positive.
	ErrInvalidCount = errors.New("filters: slice count must be positive")
	// ErrInvalidLine is returned when a slicing polyline has fewer than two points.
	ErrInvalidLine = errors.New("filters: line needs at least two points")
)

// Filters is the single-dataset filter set.
type Filters interface {
	Clip(d *mesh.Dataset, opts ClipOptions) (*mesh.Dataset, error)
	ClipBox(d *mesh.Dataset, bounds *mesh.Bounds, invert bool) (*mesh.Dataset, error)
	Slice(d *mesh.Dataset, opts SliceOptions) (*mesh.Dataset, error)
	SliceOrthogonal(d *mesh.Dataset, center *r3.Vec) (*mesh.Composite, error)
	SliceAlongAxis(d *mesh.Dataset, opts AxisSliceOptions) (*mesh.Composite, error)
	SliceAlongLine(d *mesh.Dataset, line *mesh.Dataset, direction *r3.Vec) (*mesh.Dataset, error)
	ExtractAllEdges(d *mesh.Dataset) (*mesh.Dataset, error)
	Elevation(d *mesh.Dataset, opts ElevationOptions) (*mesh.Dataset, error)
	ComputeCellSizes(d *mesh.Dataset, opts CellSizeOptions) (*mesh.Dataset, error)
	CellCenters(d *mesh.Dataset, vertex bool) (*mesh.Dataset, error)
	CellDataToPointData(d *mesh.Dataset, passCellData bool) (*mesh.Dataset, error)
	PointDataToCellData(d *mesh.Dataset, passPointData bool) (*mesh.Dataset, error)
	Triangulate(d *mesh.Dataset) (*mesh.Dataset, error)
	Outline(d *mesh.Dataset, generateFaces bool) (*mesh.Dataset, error)
	OutlineCorners(d *mesh.Dataset, factor float64) (*mesh.Dataset, error)
	OutlineBlocks(c *mesh.Composite, generateFaces bool) (*mesh.Dataset, error)
	OutlineCornersBlocks(c *mesh.Composite, factor float64) (*mesh.Dataset, error)
}

// Default is the pure-Go filter set. Outputs that gather several datasets
// are appended through its engine. The zero value uses the native engine.
type Default struct {
	engine kernel.Engine
}

var _ Filters = (*Default)(nil)

// New returns a filter set appending through e.
func New(e kernel.Engine) *Default {
	return &Default{engine: e}
}

// NewDefault returns a filter set backed by the native engine.
func NewDefault() *Default {
	return New(native.New())
}

func (f *Default) appender() kernel.Engine {
	if f.engine == nil {
		return native.New()
	}
	return f.engine
}

// ClipOptions configures Clip.
type ClipOptions struct {
	// Normal of the clipping plane.
	Normal r3.Vec
	// Origin of the plane; nil selects the center of the dataset bounds.
	Origin *r3.Vec
	// Invert keeps the half-space behind the normal when true.
	Invert bool
}

// DefaultClipOptions clips along +X through the bounds center, keeping the
// low side.
func DefaultClipOptions() ClipOptions {
	return ClipOptions{Normal: r3.Vec{X: 1}, Invert: true}
}

// SliceOptions configures Slice.
type SliceOptions struct {
	// Normal of the slicing plane.
	Normal r3.Vec
	// Origin of the plane; nil selects the center of the dataset bounds.
	Origin *r3.Vec
}

// DefaultSliceOptions slices along +X through the bounds center.
func DefaultSliceOptions() SliceOptions {
	return SliceOptions{Normal: r3.Vec{X: 1}}
}

// AxisSliceOptions configures SliceAlongAxis.
type AxisSliceOptions struct {
	// N is the number of slices.
	N    int
	Axis mesh.Axis
	// Tolerance shrinks the sliced range at both ends; negative selects 1%
	// of the extent along Axis.
	Tolerance float64
	// Bounds spans the slices; nil selects the dataset bounds.
	Bounds *mesh.Bounds
}

// DefaultAxisSliceOptions returns 5 slices along X with the 1% tolerance.
func DefaultAxisSliceOptions() AxisSliceOptions {
	return AxisSliceOptions{N: 5, Axis: mesh.AxisX, Tolerance: -1}
}

// ElevationOptions configures Elevation. Nil fields take defaults derived
// from the dataset bounds.
type ElevationOptions struct {
	Low   *r3.Vec
	High  *r3.Vec
	Range *[2]float64
	// Name of the generated point array; empty means "Elevation".
	Name string
}

// CellSizeOptions selects the arrays ComputeCellSizes generates.
type CellSizeOptions struct {
	Length      bool
	Area        bool
	Volume      bool
	VertexCount bool
}

// DefaultCellSizeOptions generates Length, Area and Volume.
func DefaultCellSizeOptions() CellSizeOptions {
	return CellSizeOptions{Length: true, Area: true, Volume: true}
}

// planeOrigin returns origin, or the bounds center of d when origin is nil.
func planeOrigin(d *mesh.Dataset, origin *r3.Vec) r3.Vec {
	if origin != nil {
		return *origin
	}
	b := d.Bounds()
	if b.IsEmpty() {
		return r3.Vec{}
	}
	return b.Center()
}
