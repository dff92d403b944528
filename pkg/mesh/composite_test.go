package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func nestedFixture() *Composite {
	inner := NewComposite(
		Leaf("b", Cube(r3.Vec{X: 1}, 1, 1, 1)),
		Leaf("empty", nil),
	)
	return NewComposite(
		Leaf("a", Cube(r3.Vec{}, 1, 1, 1)),
		Nested("inner", inner),
		Leaf("", Box(NewBounds(5, 6, 0, 1, 0, 1))),
	)
}

func TestWalkOrderAndPaths(t *testing.T) {
	var paths []string
	err := nestedFixture().Walk(func(path string, _ *Dataset) error {
		paths = append(paths, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "inner/b", "Block-02"}, paths)
}

func TestWalkStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := nestedFixture().Walk(func(string, *Dataset) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWalkNil(t *testing.T) {
	var c *Composite
	assert.ErrorIs(t, c.Walk(func(string, *Dataset) error { return nil }), ErrNilComposite)
}

func TestWalkDetectsCycle(t *testing.T) {
	c := NewComposite(Leaf("a", Cube(r3.Vec{}, 1, 1, 1)))
	c.Append(Nested("self", c))
	_, err := c.Leaves()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestSharedSubCompositeIsNotACycle(t *testing.T) {
	shared := NewComposite(Leaf("x", Cube(r3.Vec{}, 1, 1, 1)))
	c := NewComposite(Nested("one", shared), Nested("two", shared))
	leaves, err := c.Leaves()
	require.NoError(t, err)
	assert.Len(t, leaves, 2)
}

func TestSummarize(t *testing.T) {
	s, err := nestedFixture().Summarize()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Leaves)
	assert.Equal(t, 24+24+8, s.Points)
	assert.Equal(t, 18, s.Cells)
	assert.Equal(t, NewBounds(-0.5, 6, -0.5, 1, -0.5, 1), s.Bounds)
}

func TestEmptyCompositeBounds(t *testing.T) {
	b, err := NewComposite(Leaf("nothing", nil)).Bounds()
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestMapPreservesStructure(t *testing.T) {
	c := nestedFixture()
	out, err := c.Map(func(_ string, d *Dataset) (Block, error) {
		return Leaf("ignored", d.Translate(r3.Vec{Z: 10})), nil
	})
	require.NoError(t, err)
	require.Len(t, out.Blocks, 3)
	assert.Equal(t, "a", out.Blocks[0].Name)
	require.True(t, out.Blocks[1].IsNested())
	assert.Equal(t, "inner", out.Blocks[1].Name)
	assert.True(t, out.Blocks[1].Composite.Blocks[1].IsEmpty())
	assert.Equal(t, "empty", out.Blocks[1].Composite.Blocks[1].Name)
	assert.Equal(t, 10.5, out.Blocks[0].Dataset.Bounds().Max.Z)

	// Input untouched.
	assert.Equal(t, 0.5, c.Blocks[0].Dataset.Bounds().Max.Z)
}

func TestMapWrapsLeafErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := nestedFixture().Map(func(path string, _ *Dataset) (Block, error) {
		if path == "inner/b" {
			return Block{}, boom
		}
		return Block{}, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "inner/b")
}

func TestCloneKeepsCyclesAndSharing(t *testing.T) {
	shared := Cube(r3.Vec{}, 1, 1, 1)
	c := NewComposite(Leaf("a", shared), Leaf("b", shared))
	c.Append(Nested("self", c))

	cp := c.Clone()
	require.NotSame(t, c, cp)
	assert.Same(t, cp, cp.Blocks[2].Composite)
	assert.Same(t, cp.Blocks[0].Dataset, cp.Blocks[1].Dataset)
	assert.NotSame(t, shared, cp.Blocks[0].Dataset)
}

func TestFromDatasets(t *testing.T) {
	c := FromDatasets(Box(NewBounds(0, 1, 0, 1, 0, 1)), nil)
	assert.Equal(t, 2, c.NumBlocks())
	leaves, err := c.Leaves()
	require.NoError(t, err)
	assert.Len(t, leaves, 1)
}
