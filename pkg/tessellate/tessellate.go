// Package tessellate walks a scene graph and produces a composite of
// triangle datasets using a geometry kernel. Each group becomes a nested
// block and each primitive becomes a leaf.
package tessellate

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/graph"
	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	translations []r3.Vec
	rotations    []r3.Vec
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(translation, rotation r3.Vec) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() r3.Vec {
	var sum r3.Vec
	for _, t := range ts.translations {
		sum = r3.Add(sum, t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() r3.Vec {
	var sum r3.Vec
	for _, r := range ts.rotations {
		sum = r3.Add(sum, r)
	}
	return sum
}

// Tessellate validates g and walks it from its roots, producing one block
// per root. The tessellator is read-only and never mutates the graph.
func Tessellate(g *graph.SceneGraph, k kernel.Kernel) (*mesh.Composite, error) {
	if g == nil {
		return mesh.NewComposite(), nil
	}
	if r := graph.ValidateAll(g); !r.OK() {
		return nil, fmt.Errorf("tessellate: invalid graph: %w", r.Errors[0])
	}

	out := mesh.NewComposite()
	ts := newTransformStack()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		blocks, err := walkNode(g, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		out.Blocks = append(out.Blocks, blocks...)
	}

	return out, nil
}

// walkNode recursively traverses a node and its children, collecting blocks.
func walkNode(g *graph.SceneGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]mesh.Block, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return handlePrimitive(k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	case graph.NodeGroup:
		return handleGroup(g, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// Solid builds the kernel solid for a primitive node, untransformed.
func Solid(k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case graph.BoxData:
		return k.Box(data.Size.X, data.Size.Y, data.Size.Z), nil
	case graph.CylinderData:
		segments := data.Segments
		if segments == 0 {
			segments = graph.DefaultSegments
		}
		return k.Cylinder(data.Height, data.Radius, segments), nil
	case graph.SphereData:
		return k.Sphere(data.Radius), nil
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// handlePrimitive creates a leaf for a primitive node.
func handlePrimitive(k kernel.Kernel, n *graph.Node, ts *transformStack) ([]mesh.Block, error) {
	solid, err := Solid(k, n)
	if err != nil {
		return nil, err
	}

	// Apply accumulated rotation first, then translation.
	rot := ts.accumulatedRotation()
	if rot != (r3.Vec{}) {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}

	trans := ts.accumulatedTranslation()
	if trans != (r3.Vec{}) {
		solid = k.Translate(solid, trans.X, trans.Y, trans.Z)
	}

	d, err := k.ToDataset(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToDataset failed for node %s: %w", n.ID.Short(), err)
	}

	return []mesh.Block{mesh.Leaf(blockName(n), d)}, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
// A transform adds no nesting level: its children's blocks are returned
// in place.
func handleTransform(g *graph.SceneGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]mesh.Block, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var translation, rotation r3.Vec
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}
	ts.push(translation, rotation)
	defer ts.pop()

	var blocks []mesh.Block
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, collected...)
	}
	return blocks, nil
}

// handleGroup returns one nested block holding the group's children.
func handleGroup(g *graph.SceneGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]mesh.Block, error) {
	nested := mesh.NewComposite()
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		nested.Blocks = append(nested.Blocks, collected...)
	}
	return []mesh.Block{mesh.Nested(blockName(n), nested)}, nil
}

// blockName prefers the node's Name and falls back to its short ID.
func blockName(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
