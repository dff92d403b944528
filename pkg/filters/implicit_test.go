package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

func TestImplicitFunctions(t *testing.T) {
	plane, err := NewPlane(r3.Vec{X: 1}, r3.Vec{X: 2})
	require.NoError(t, err)
	pp, err := NewPolyPlane([]r3.Vec{{}, {X: 1}}, r3.Vec{Z: 1})
	require.NoError(t, err)
	box := BoxFunction{Bounds: mesh.NewBounds(0, 2, 0, 2, 0, 2)}

	tests := []struct {
		name string
		fn   ImplicitFunction
		p    r3.Vec
		want float64
	}{
		{"plane front", plane, r3.Vec{X: 3}, 2},
		{"plane behind", plane, r3.Vec{X: 0, Y: 7}, -1},
		{"box center", box, r3.Vec{X: 1, Y: 1, Z: 1}, -1},
		{"box face", box, r3.Vec{X: 2, Y: 1, Z: 1}, 0},
		{"box outside", box, r3.Vec{X: 3, Y: 1, Z: 1}, 1},
		{"box edge region", box, r3.Vec{X: 3, Y: 3, Z: 1}, math.Sqrt2},
		{"poly-plane side", pp, r3.Vec{X: 0.5, Y: 2, Z: 5}, 2},
		{"poly-plane other side", pp, r3.Vec{X: 0.5, Y: -1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn.Evaluate(tt.p), eps)
		})
	}
}

func TestImplicitConstructorsValidate(t *testing.T) {
	_, err := NewPlane(r3.Vec{}, r3.Vec{})
	assert.ErrorIs(t, err, ErrInvalidNormal)
	_, err = NewPolyPlane([]r3.Vec{{}}, r3.Vec{Z: 1})
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = NewPolyPlane([]r3.Vec{{}, {X: 1}}, r3.Vec{})
	assert.ErrorIs(t, err, ErrInvalidNormal)
}
