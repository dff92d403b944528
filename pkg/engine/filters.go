package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/filters"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// registerFilters installs the composite operations. Every builtin takes a
// dataset or multiblock as its first argument; a dataset is treated as a
// multiblock holding it alone.
func registerFilters(env *zygo.Zlisp, s *session) {
	a := s.adapter

	// -----------------------------------------------------------------------
	// Whole-composite operations
	// -----------------------------------------------------------------------

	// (extract-geometry mb)
	add(env, "extract_geometry", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapDataset(a.ExtractGeometry(c))
	})

	// (combine mb :merge-points false :tolerance 0)
	add(env, "combine", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		merge, err := pa.boolean("merge-points", s.opts.MergePoints)
		if err != nil {
			return zygo.SexpNull, err
		}
		tol, err := pa.float("tolerance", s.opts.MergeTolerance)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapDataset(a.Combine(c, merge, tol))
	})

	// (outline mb :generate-faces false :nested false)
	add(env, "outline", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		faces, err := pa.boolean("generate-faces", false)
		if err != nil {
			return zygo.SexpNull, err
		}
		nested, err := pa.boolean("nested", false)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapDataset(a.Outline(c, faces, nested))
	})

	// (outline-corners mb :factor 0.2 :nested false)
	add(env, "outline_corners", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		factor, err := pa.float("factor", s.opts.CornerFactor)
		if err != nil {
			return zygo.SexpNull, err
		}
		nested, err := pa.boolean("nested", false)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapDataset(a.OutlineCorners(c, factor, nested))
	})

	// -----------------------------------------------------------------------
	// Per-block filters
	// -----------------------------------------------------------------------

	// (clip mb :normal :x :origin (vec3 0 0 0) :invert true)
	add(env, "clip", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := filters.DefaultClipOptions()
		if opts.Normal, err = pa.direction("normal", opts.Normal); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Origin, err = pa.vec("origin"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Invert, err = pa.boolean("invert", opts.Invert); err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.Clip(c, opts))
	})

	// (clip-box mb :bounds '(0 1 0 1 0 1) :invert true)
	add(env, "clip_box", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		b, err := pa.bounds("bounds")
		if err != nil {
			return zygo.SexpNull, err
		}
		invert, err := pa.boolean("invert", true)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.ClipBox(c, b, invert))
	})

	// (slice-plane mb :normal :z :origin (vec3 0 0 5))
	//
	// Registered as slice_plane because zygomys defines slice.
	add(env, "slice_plane", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := filters.DefaultSliceOptions()
		if opts.Normal, err = pa.direction("normal", opts.Normal); err != nil {
			return zygo.SexpNull, err
		}
		if opts.Origin, err = pa.vec("origin"); err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.Slice(c, opts))
	})

	// (slice-orthogonal mb :at (vec3 0 0 0))
	add(env, "slice_orthogonal", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vec("at")
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.SliceOrthogonal(c, at))
	})

	// (slice-along-axis mb :n 5 :axis :x :tolerance -1)
	add(env, "slice_along_axis", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := filters.DefaultAxisSliceOptions()
		if opts.N, err = pa.integer("n", opts.N); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["axis"]; ok {
			if opts.Axis, err = toAxis(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("axis: %w", err)
			}
		}
		if opts.Tolerance, err = pa.float("tolerance", opts.Tolerance); err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.SliceAlongAxis(c, opts))
	})

	// (slice-along-line mb (line (vec3 0 0 0) (vec3 1 1 0)) :direction (vec3 0 0 1))
	add(env, "slice_along_line", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("requires a line argument")
		}
		line, err := toDataset(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: %w", err)
		}
		var dir *r3.Vec
		if _, ok := pa.kw["direction"]; ok {
			d, err := pa.direction("direction", r3.Vec{})
			if err != nil {
				return zygo.SexpNull, err
			}
			dir = &d
		}
		return wrapComposite(a.SliceAlongLine(c, line, dir))
	})

	// (extract-all-edges mb)
	add(env, "extract_all_edges", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.ExtractAllEdges(c))
	})

	// (elevation mb :low (vec3 0 0 0) :high (vec3 0 0 1) :range '(0 1) :name "Height")
	add(env, "elevation", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		var opts filters.ElevationOptions
		if opts.Low, err = pa.vec("low"); err != nil {
			return zygo.SexpNull, err
		}
		if opts.High, err = pa.vec("high"); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["range"]; ok {
			r, err := toNumbers(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("range: %w", err)
			}
			if len(r) != 2 {
				return zygo.SexpNull, fmt.Errorf("range: expected 2 numbers, got %d", len(r))
			}
			opts.Range = &[2]float64{r[0], r[1]}
		}
		if opts.Name, err = pa.str("name", ""); err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.Elevation(c, opts))
	})

	// (compute-cell-sizes mb :length true :area true :volume true :vertex-count false)
	add(env, "compute_cell_sizes", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := filters.DefaultCellSizeOptions()
		for key, dst := range map[string]*bool{
			"length":       &opts.Length,
			"area":         &opts.Area,
			"volume":       &opts.Volume,
			"vertex-count": &opts.VertexCount,
		} {
			if *dst, err = pa.boolean(key, *dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		return wrapComposite(a.ComputeCellSizes(c, opts))
	})

	// (cell-centers mb :vertex true)
	add(env, "cell_centers", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		vertex, err := pa.boolean("vertex", true)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.CellCenters(c, vertex))
	})

	// (cell-data-to-point-data mb :pass-cell-data false)
	add(env, "cell_data_to_point_data", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		pass, err := pa.boolean("pass-cell-data", false)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.CellDataToPointData(c, pass))
	})

	// (point-data-to-cell-data mb :pass-point-data false)
	add(env, "point_data_to_cell_data", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		pass, err := pa.boolean("pass-point-data", false)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.PointDataToCellData(c, pass))
	})

	// (triangulate mb)
	add(env, "triangulate", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrapComposite(a.Triangulate(c))
	})

	// (block-at mb 0)
	add(env, "block_at", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("requires a block index")
		}
		i, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("index: %w", err)
		}
		return blockAt(c, i)
	})
}

// blockAt returns block i of c. An empty block is nil.
func blockAt(c *mesh.Composite, i int) (zygo.Sexp, error) {
	if i < 0 || i >= c.NumBlocks() {
		return zygo.SexpNull, fmt.Errorf("index %d out of range [0, %d)", i, c.NumBlocks())
	}
	b := c.Blocks[i]
	switch {
	case b.IsNested():
		return &sexpComposite{c: b.Composite}, nil
	case b.Dataset != nil:
		return &sexpDataset{d: b.Dataset}, nil
	}
	return zygo.SexpNull, nil
}
