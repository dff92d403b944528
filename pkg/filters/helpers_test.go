package filters

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/mesh"
)

func unitGrid(nx, ny, nz int) *mesh.Dataset {
	return mesh.UniformGrid(mesh.NewBounds(0, float64(nx), 0, float64(ny), 0, float64(nz)), nx, ny, nz)
}

// lattice returns n*n*n points spanning the unit cube, each with a vertex cell.
func lattice(n int) *mesh.Dataset {
	d := mesh.NewPolyData()
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				id := d.AddPoint(r3.Vec{
					X: float64(i) / float64(n-1),
					Y: float64(j) / float64(n-1),
					Z: float64(k) / float64(n-1),
				})
				d.AddCell(mesh.CellVertex, id)
			}
		}
	}
	return d
}

// total sums a cell size array of d computed by ComputeCellSizes.
func total(t *testing.T, d *mesh.Dataset, name string) float64 {
	t.Helper()
	sized, err := NewDefault().ComputeCellSizes(d, CellSizeOptions{Length: true, Area: true, Volume: true})
	require.NoError(t, err)
	sum := 0.0
	for _, v := range sized.CellData.Get(name).Values {
		sum += v
	}
	return sum
}

func vec(x, y, z float64) *r3.Vec {
	return &r3.Vec{X: x, Y: y, Z: z}
}
