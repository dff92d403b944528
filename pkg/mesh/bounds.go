package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis names a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Unit returns the unit vector along the axis.
func (a Axis) Unit() r3.Vec {
	switch a {
	case AxisY:
		return r3.Vec{Y: 1}
	case AxisZ:
		return r3.Vec{Z: 1}
	default:
		return r3.Vec{X: 1}
	}
}

// Component returns the coordinate of v along the axis.
func (a Axis) Component(v r3.Vec) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// Bounds is an axis-aligned bounding box.
// EmptyBounds is the identity for Union and Include; its Min is greater than its Max.
type Bounds struct {
	Min r3.Vec `json:"min"`
	Max r3.Vec `json:"max"`
}

// EmptyBounds returns bounds that contain nothing.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewBounds builds bounds from the xmin,xmax,ymin,ymax,zmin,zmax layout.
func NewBounds(xmin, xmax, ymin, ymax, zmin, zmax float64) Bounds {
	return Bounds{
		Min: r3.Vec{X: xmin, Y: ymin, Z: zmin},
		Max: r3.Vec{X: xmax, Y: ymax, Z: zmax},
	}
}

// BoundsOf returns the bounds of a set of points.
func BoundsOf(points []r3.Vec) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b = b.Include(p)
	}
	return b
}

// IsEmpty reports whether the bounds contain no point.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include returns the bounds grown to contain p.
func (b Bounds) Include(p r3.Vec) Bounds {
	return Bounds{
		Min: r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.Include(o.Min).Include(o.Max)
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the edge lengths along each axis.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Contains reports whether p lies inside or on the bounds.
func (b Bounds) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Range returns the extent of the bounds along an axis.
func (b Bounds) Range(a Axis) (min, max float64) {
	return a.Component(b.Min), a.Component(b.Max)
}

// Slice returns the bounds in the xmin,xmax,ymin,ymax,zmin,zmax layout.
func (b Bounds) Slice() [6]float64 {
	return [6]float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// Corners returns the 8 corners in hexahedron point order: the z-min face
// counter-clockwise from Min, then the z-max face in the same order.
func (b Bounds) Corners() [8]r3.Vec {
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z
	return [8]r3.Vec{
		{X: x0, Y: y0, Z: z0},
		{X: x1, Y: y0, Z: z0},
		{X: x1, Y: y1, Z: z0},
		{X: x0, Y: y1, Z: z0},
		{X: x0, Y: y0, Z: z1},
		{X: x1, Y: y0, Z: z1},
		{X: x1, Y: y1, Z: z1},
		{X: x0, Y: y1, Z: z1},
	}
}

func (b Bounds) String() string {
	if b.IsEmpty() {
		return "(empty)"
	}
	s := b.Slice()
	return fmt.Sprintf("[%g, %g] x [%g, %g] x [%g, %g]", s[0], s[1], s[2], s[3], s[4], s[5])
}
