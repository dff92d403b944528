package filters

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

// ImplicitFunction is a scalar field whose zero set is a clip or slice surface.
type ImplicitFunction interface {
	Evaluate(p r3.Vec) float64
}

// Plane is the signed distance to a plane, positive on the normal side.
type Plane struct {
	Origin r3.Vec
	Normal r3.Vec
}

// NewPlane returns a plane with a unit normal.
func NewPlane(origin, normal r3.Vec) (Plane, error) {
	if r3.Norm(normal) == 0 {
		return Plane{}, ErrInvalidNormal
	}
	return Plane{Origin: origin, Normal: r3.Unit(normal)}, nil
}

// Evaluate implements ImplicitFunction.
func (p Plane) Evaluate(x r3.Vec) float64 {
	return r3.Dot(r3.Sub(x, p.Origin), p.Normal)
}

// BoxFunction is the signed distance to an axis-aligned box, negative inside.
type BoxFunction struct {
	Bounds mesh.Bounds
}

// Evaluate implements ImplicitFunction.
func (b BoxFunction) Evaluate(x r3.Vec) float64 {
	c := b.Bounds.Center()
	half := r3.Scale(0.5, b.Bounds.Size())
	q := r3.Vec{
		X: math.Abs(x.X-c.X) - half.X,
		Y: math.Abs(x.Y-c.Y) - half.Y,
		Z: math.Abs(x.Z-c.Z) - half.Z,
	}
	outside := r3.Norm(r3.Vec{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0), Z: math.Max(q.Z, 0)})
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside
}

// PolyPlane is a polyline extruded along a direction. Its value is the
// signed distance to the nearest extruded segment, measured in the plane
// perpendicular to the direction.
type PolyPlane struct {
	Points    []r3.Vec
	Direction r3.Vec
}

// NewPolyPlane returns a poly-plane through points extruded along direction.
func NewPolyPlane(points []r3.Vec, direction r3.Vec) (PolyPlane, error) {
	if len(points) < 2 {
		return PolyPlane{}, ErrInvalidLine
	}
	if r3.Norm(direction) == 0 {
		return PolyPlane{}, ErrInvalidNormal
	}
	return PolyPlane{Points: append([]r3.Vec(nil), points...), Direction: r3.Unit(direction)}, nil
}

// flatten removes the component of v along the extrusion direction.
func (pp PolyPlane) flatten(v r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(v, pp.Direction), pp.Direction))
}

// Evaluate implements ImplicitFunction.
func (pp PolyPlane) Evaluate(x r3.Vec) float64 {
	px := pp.flatten(x)
	best := math.Inf(1)
	value := 0.0
	for i := 0; i+1 < len(pp.Points); i++ {
		a, b := pp.flatten(pp.Points[i]), pp.flatten(pp.Points[i+1])
		ab := r3.Sub(b, a)
		l2 := r3.Dot(ab, ab)
		if l2 == 0 {
			continue
		}
		t := math.Max(0, math.Min(1, r3.Dot(r3.Sub(px, a), ab)/l2))
		closest := r3.Add(a, r3.Scale(t, ab))
		d := r3.Norm(r3.Sub(px, closest))
		if d < best {
			best = d
			normal := r3.Unit(r3.Cross(pp.Direction, ab))
			value = r3.Dot(r3.Sub(px, closest), normal)
		}
	}
	return value
}

// evaluate samples fn at every point of d.
func evaluate(d *mesh.Dataset, fn ImplicitFunction) []float64 {
	s := make([]float64, len(d.Points))
	for i, p := range d.Points {
		s[i] = fn.Evaluate(p)
	}
	return s
}
