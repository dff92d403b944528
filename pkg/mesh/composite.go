package mesh

import "fmt"

// Block is one member of a composite: either a leaf dataset or a nested
// composite. A leaf whose Dataset is nil is an empty block.
type Block struct {
	Name      string
	Dataset   *Dataset
	Composite *Composite
}

// Leaf returns a block holding a dataset.
func Leaf(name string, d *Dataset) Block {
	return Block{Name: name, Dataset: d}
}

// Nested returns a block holding a nested composite.
func Nested(name string, c *Composite) Block {
	return Block{Name: name, Composite: c}
}

// IsNested reports whether the block holds a composite.
func (b Block) IsNested() bool {
	return b.Composite != nil
}

// IsEmpty reports whether the block holds nothing.
func (b Block) IsEmpty() bool {
	return b.Composite == nil && b.Dataset == nil
}

// label returns the block name, or a positional name for unnamed blocks.
func (b Block) label(i int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("Block-%02d", i)
}

// Composite is an ordered, possibly nested, collection of blocks.
type Composite struct {
	Blocks []Block
}

// NewComposite returns a composite holding blocks.
func NewComposite(blocks ...Block) *Composite {
	return &Composite{Blocks: blocks}
}

// FromDatasets returns a flat composite with one unnamed leaf per dataset.
func FromDatasets(ds ...*Dataset) *Composite {
	c := &Composite{Blocks: make([]Block, len(ds))}
	for i, d := range ds {
		c.Blocks[i] = Leaf("", d)
	}
	return c
}

// Append adds a block at the end.
func (c *Composite) Append(b Block) {
	c.Blocks = append(c.Blocks, b)
}

// NumBlocks returns the number of direct blocks.
func (c *Composite) NumBlocks() int {
	return len(c.Blocks)
}

// WalkFunc is called for every non-empty leaf. path joins block labels with "/".
type WalkFunc func(path string, d *Dataset) error

// Walk visits every non-empty leaf depth-first in block order. It stops at
// the first error returned by fn, and returns ErrCycle if the composite
// contains itself.
func (c *Composite) Walk(fn WalkFunc) error {
	if c == nil {
		return ErrNilComposite
	}
	return c.walk("", make(map[*Composite]bool), fn)
}

func (c *Composite) walk(prefix string, active map[*Composite]bool, fn WalkFunc) error {
	if active[c] {
		return ErrCycle
	}
	active[c] = true
	defer delete(active, c)

	for i, b := range c.Blocks {
		path := joinPath(prefix, b.label(i))
		switch {
		case b.Composite != nil:
			if err := b.Composite.walk(path, active, fn); err != nil {
				return err
			}
		case b.Dataset != nil:
			if err := fn(path, b.Dataset); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Leaves returns the non-empty leaf datasets in traversal order.
func (c *Composite) Leaves() ([]*Dataset, error) {
	var out []*Dataset
	err := c.Walk(func(_ string, d *Dataset) error {
		out = append(out, d)
		return nil
	})
	return out, err
}

// Summary aggregates the leaves of a composite.
type Summary struct {
	Leaves int
	Points int
	Cells  int
	Bounds Bounds
}

// Summarize counts leaves, points and cells and unions the leaf bounds.
func (c *Composite) Summarize() (Summary, error) {
	s := Summary{Bounds: EmptyBounds()}
	err := c.Walk(func(_ string, d *Dataset) error {
		s.Leaves++
		s.Points += d.NumPoints()
		s.Cells += d.NumCells()
		s.Bounds = s.Bounds.Union(d.Bounds())
		return nil
	})
	return s, err
}

// Bounds returns the bounds spanning every leaf.
func (c *Composite) Bounds() (Bounds, error) {
	s, err := c.Summarize()
	if err != nil {
		return EmptyBounds(), err
	}
	return s.Bounds, nil
}

// MapFunc transforms one leaf into the block that replaces it.
type MapFunc func(path string, d *Dataset) (Block, error)

// Map returns a new composite with the same nesting and block names in which
// every non-empty leaf is replaced by the block fn returns. Empty leaves stay
// empty.
func (c *Composite) Map(fn MapFunc) (*Composite, error) {
	if c == nil {
		return nil, ErrNilComposite
	}
	return c.mapBlocks("", make(map[*Composite]bool), fn)
}

func (c *Composite) mapBlocks(prefix string, active map[*Composite]bool, fn MapFunc) (*Composite, error) {
	if active[c] {
		return nil, ErrCycle
	}
	active[c] = true
	defer delete(active, c)

	out := &Composite{Blocks: make([]Block, len(c.Blocks))}
	for i, b := range c.Blocks {
		path := joinPath(prefix, b.label(i))
		switch {
		case b.Composite != nil:
			nested, err := b.Composite.mapBlocks(path, active, fn)
			if err != nil {
				return nil, err
			}
			out.Blocks[i] = Nested(b.Name, nested)
		case b.Dataset != nil:
			nb, err := fn(path, b.Dataset)
			if err != nil {
				return nil, fmt.Errorf("block %s: %w", path, err)
			}
			nb.Name = b.Name
			out.Blocks[i] = nb
		default:
			out.Blocks[i] = Block{Name: b.Name}
		}
	}
	return out, nil
}

// Clone returns a deep copy. Shared sub-composites and datasets stay shared
// in the copy, and a composite that contains itself is copied with the same
// cycle.
func (c *Composite) Clone() *Composite {
	if c == nil {
		return nil
	}
	return c.clone(make(map[*Composite]*Composite), make(map[*Dataset]*Dataset))
}

func (c *Composite) clone(seen map[*Composite]*Composite, data map[*Dataset]*Dataset) *Composite {
	if out, ok := seen[c]; ok {
		return out
	}
	out := &Composite{Blocks: make([]Block, len(c.Blocks))}
	seen[c] = out
	for i, b := range c.Blocks {
		nb := Block{Name: b.Name}
		if b.Composite != nil {
			nb.Composite = b.Composite.clone(seen, data)
		}
		if b.Dataset != nil {
			d, ok := data[b.Dataset]
			if !ok {
				d = b.Dataset.Clone()
				data[b.Dataset] = d
			}
			nb.Dataset = d
		}
		out.Blocks[i] = nb
	}
	return out
}
