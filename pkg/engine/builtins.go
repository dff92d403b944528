package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/composite"
	"github.com/chazu/blockmesh/pkg/graph"
	"github.com/chazu/blockmesh/pkg/kernel"
	"github.com/chazu/blockmesh/pkg/kernel/sdfx"
	"github.com/chazu/blockmesh/pkg/mesh"
	"github.com/chazu/blockmesh/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms blockmesh Lisp source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: slice-along-axis -> slice_along_axis
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //, the only comment form zygomys
//     accepts.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps an r3.Vec.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpDataset wraps a mesh.Dataset.
type sexpDataset struct {
	d *mesh.Dataset
}

func (s *sexpDataset) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(dataset %s points=%d cells=%d)", s.d.Kind, s.d.NumPoints(), s.d.NumCells())
}
func (s *sexpDataset) Type() *zygo.RegisteredType { return nil }

// sexpComposite wraps a mesh.Composite.
type sexpComposite struct {
	c *mesh.Composite
}

func (s *sexpComposite) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(multiblock blocks=%d)", s.c.NumBlocks())
}
func (s *sexpComposite) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns keyword key as a number, or def when absent.
func (a kwArgs) float(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// integer returns keyword key as an integer, or def when absent.
func (a kwArgs) integer(key string, def int) (int, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// boolean returns keyword key as a bool, or def when absent. A bare
// trailing keyword counts as true.
func (a kwArgs) boolean(key string, def bool) (bool, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	if v == zygo.SexpNull {
		return true, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// str returns keyword key as a string, or def when absent.
func (a kwArgs) str(key, def string) (string, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}

// vec returns keyword key as a vector, or nil when absent.
func (a kwArgs) vec(key string) (*r3.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &vec, nil
}

// direction returns keyword key as a vector or an axis keyword (:x, :y,
// :z), or def when absent.
func (a kwArgs) direction(key string, def r3.Vec) (r3.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	if vec, ok := v.(*sexpVec3); ok {
		return vec.vec, nil
	}
	axis, err := toAxis(v)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("%s: %w", key, err)
	}
	return axis.Unit(), nil
}

// bounds returns keyword key as bounds, or nil when absent.
func (a kwArgs) bounds(key string) (*mesh.Bounds, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	b, err := toBounds(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &b, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from the zygomys true and false values.
func toBool(s zygo.Sexp) (bool, error) {
	switch s.SexpString(nil) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxis converts a keyword or string to a mesh.Axis.
func toAxis(s zygo.Sexp) (mesh.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return mesh.AxisX, nil
	case "y":
		return mesh.AxisY, nil
	case "z":
		return mesh.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.NodeID{}, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts an r3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toDataset extracts a dataset from a sexpDataset.
func toDataset(s zygo.Sexp) (*mesh.Dataset, error) {
	if d, ok := s.(*sexpDataset); ok {
		return d.d, nil
	}
	return nil, fmt.Errorf("expected dataset, got %T (%s)", s, s.SexpString(nil))
}

// toComposite extracts a composite. A dataset is promoted to a composite
// holding it as its only leaf.
func toComposite(s zygo.Sexp) (*mesh.Composite, error) {
	switch v := s.(type) {
	case *sexpComposite:
		return v.c, nil
	case *sexpDataset:
		return mesh.FromDatasets(v.d), nil
	}
	return nil, fmt.Errorf("expected multiblock or dataset, got %T (%s)", s, s.SexpString(nil))
}

// toNumbers extracts a list or array of numbers.
func toNumbers(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toBounds extracts bounds from six numbers laid out
// xmin xmax ymin ymax zmin zmax.
func toBounds(s zygo.Sexp) (mesh.Bounds, error) {
	v, err := toNumbers(s)
	if err != nil {
		return mesh.Bounds{}, err
	}
	if len(v) != 6 {
		return mesh.Bounds{}, fmt.Errorf("expected 6 numbers (xmin xmax ymin ymax zmin zmax), got %d", len(v))
	}
	return mesh.NewBounds(v[0], v[1], v[2], v[3], v[4], v[5]), nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// session is the state shared by the builtins of one evaluation.
type session struct {
	graph   *graph.SceneGraph
	kernel  kernel.Kernel
	adapter *composite.Adapter
	opts    Options
	anon    int
}

func newSession(opts Options) *session {
	return &session{
		graph:   graph.New(),
		kernel:  sdfx.NewWithCells(opts.MeshCells),
		adapter: composite.NewDefault(),
		opts:    opts,
	}
}

// nodePath returns the identity path of a node of the given kind. Unnamed
// nodes are numbered in evaluation order so identities stay deterministic.
func (s *session) nodePath(kind, name string) string {
	if name != "" {
		return kind + "/" + name
	}
	s.anon++
	return fmt.Sprintf("%s/_anon_%d", kind, s.anon)
}

// addNode creates a node, rejecting a name that is already taken.
func (s *session) addNode(kind graph.NodeKind, name string, children []graph.NodeID, data graph.NodeData) (*sexpNodeRef, error) {
	if name != "" && s.graph.Lookup(name) != nil {
		return nil, fmt.Errorf("name %q is already defined", name)
	}
	id := graph.NewNodeID(s.nodePath(kind.String(), name))
	s.graph.AddNode(&graph.Node{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id, name: name}, nil
}

// builtinFunc is the body of a builtin taking parsed arguments.
type builtinFunc func(pa kwArgs) (zygo.Sexp, error)

// add registers fn under name. Errors are prefixed with the name as it is
// written in source.
func add(env *zygo.Zlisp, name string, fn builtinFunc) {
	display := strings.ReplaceAll(name, "_", "-")
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		out, err := fn(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return out, nil
	})
}

// first returns the composite passed as the first positional argument.
func (a kwArgs) first() (*mesh.Composite, error) {
	if len(a.positional) < 1 {
		return nil, fmt.Errorf("requires a dataset or multiblock argument")
	}
	return toComposite(a.positional[0])
}

func wrapDataset(d *mesh.Dataset, err error) (zygo.Sexp, error) {
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpDataset{d: d}, nil
}

func wrapComposite(c *mesh.Composite, err error) (zygo.Sexp, error) {
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpComposite{c: c}, nil
}

// registerBuiltins installs the value, source and scene graph builtins into
// a zygomys environment. The scene graph builtins populate s.graph during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	add(env, "vec3", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("requires exactly 3 arguments, got %d", len(pa.positional))
		}
		var c [3]float64
		for i, arg := range pa.positional {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", mesh.Axis(i), err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: r3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :center (vec3 0 0 0) :x-length 1 :y-length 1 :z-length 1)
	// -----------------------------------------------------------------------
	add(env, "cube", func(pa kwArgs) (zygo.Sexp, error) {
		center, err := pa.vec("center")
		if err != nil {
			return zygo.SexpNull, err
		}
		if center == nil {
			center = &r3.Vec{}
		}
		var lengths [3]float64
		for i, key := range []string{"x-length", "y-length", "z-length"} {
			if lengths[i], err = pa.float(key, 1); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpDataset{d: mesh.Cube(*center, lengths[0], lengths[1], lengths[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (box :bounds '(-1 1 -1 1 -1 1))
	// -----------------------------------------------------------------------
	add(env, "box", func(pa kwArgs) (zygo.Sexp, error) {
		b, err := pa.bounds("bounds")
		if err != nil {
			return zygo.SexpNull, err
		}
		if b == nil {
			unit := mesh.NewBounds(-1, 1, -1, 1, -1, 1)
			b = &unit
		}
		return &sexpDataset{d: mesh.Box(*b)}, nil
	})

	// -----------------------------------------------------------------------
	// (uniform-grid :bounds '(0 1 0 1 0 1) :dims '(4 4 4))
	// -----------------------------------------------------------------------
	add(env, "uniform_grid", func(pa kwArgs) (zygo.Sexp, error) {
		b, err := pa.bounds("bounds")
		if err != nil {
			return zygo.SexpNull, err
		}
		if b == nil {
			unit := mesh.NewBounds(0, 1, 0, 1, 0, 1)
			b = &unit
		}
		dims := []float64{1, 1, 1}
		if v, ok := pa.kw["dims"]; ok {
			if dims, err = toNumbers(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("dims: %w", err)
			}
			if len(dims) != 3 {
				return zygo.SexpNull, fmt.Errorf("dims: expected 3 cell counts, got %d", len(dims))
			}
		}
		for i, n := range dims {
			if n < 1 {
				return zygo.SexpNull, fmt.Errorf("dims: %s cell count is %g, must be at least 1", mesh.Axis(i), n)
			}
		}
		return &sexpDataset{d: mesh.UniformGrid(*b, int(dims[0]), int(dims[1]), int(dims[2]))}, nil
	})

	// -----------------------------------------------------------------------
	// (line (vec3 0 0 0) (vec3 1 0 0) :resolution 10)
	// -----------------------------------------------------------------------
	add(env, "line", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("requires two end points, got %d arguments", len(pa.positional))
		}
		a, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("start: %w", err)
		}
		b, err := toVec3(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("end: %w", err)
		}
		res, err := pa.integer("resolution", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpDataset{d: mesh.Line(a, b, res)}, nil
	})

	// -----------------------------------------------------------------------
	// (multiblock "left" (cube) "right" (cube :center (vec3 1 0 0)) nil)
	//
	// A string names the block that follows it. nil adds an empty block.
	// -----------------------------------------------------------------------
	add(env, "multiblock", func(pa kwArgs) (zygo.Sexp, error) {
		c := mesh.NewComposite()
		pending := ""
		for i, arg := range pa.positional {
			switch v := arg.(type) {
			case *zygo.SexpStr:
				pending = v.S
				continue
			case *sexpDataset:
				c.Append(mesh.Leaf(pending, v.d))
			case *sexpComposite:
				c.Append(mesh.Nested(pending, v.c))
			default:
				if arg != zygo.SexpNull {
					return zygo.SexpNull, fmt.Errorf("block %d: expected dataset, multiblock or nil, got %T (%s)",
						i, arg, arg.SexpString(nil))
				}
				c.Append(mesh.Leaf(pending, nil))
			}
			pending = ""
		}
		return &sexpComposite{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (solid-box :size (vec3 600 300 19) :name "shelf")
	// -----------------------------------------------------------------------
	add(env, "solid_box", func(pa kwArgs) (zygo.Sexp, error) {
		size, err := pa.vec("size")
		if err != nil {
			return zygo.SexpNull, err
		}
		if size == nil {
			return zygo.SexpNull, fmt.Errorf("requires :size")
		}
		name, err := pa.str("name", "")
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.addNode(graph.NodePrimitive, name, nil, graph.BoxData{Size: *size})
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 40 :radius 6 :segments 16 :name "dowel")
	// -----------------------------------------------------------------------
	add(env, "cylinder", func(pa kwArgs) (zygo.Sexp, error) {
		var cd graph.CylinderData
		var err error
		if cd.Height, err = pa.float("height", 0); err != nil {
			return zygo.SexpNull, err
		}
		if cd.Radius, err = pa.float("radius", 0); err != nil {
			return zygo.SexpNull, err
		}
		if cd.Segments, err = pa.integer("segments", 0); err != nil {
			return zygo.SexpNull, err
		}
		name, err := pa.str("name", "")
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.addNode(graph.NodePrimitive, name, nil, cd)
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 10 :name "knob")
	// -----------------------------------------------------------------------
	add(env, "sphere", func(pa kwArgs) (zygo.Sexp, error) {
		r, err := pa.float("radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		name, err := pa.str("name", "")
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.addNode(graph.NodePrimitive, name, nil, graph.SphereData{Radius: r})
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	add(env, "part", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("requires a name argument")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name: %w", err)
		}
		n := s.graph.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("no part named %q", partName)
		}
		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "shelf") :at (vec3 0 0 19) :rotate (vec3 0 0 90))
	// -----------------------------------------------------------------------
	add(env, "place", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("requires at least one node reference")
		}
		children := make([]graph.NodeID, len(pa.positional))
		for i, arg := range pa.positional {
			id, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("child %d: %w", i, err)
			}
			children[i] = id
		}
		var td graph.TransformData
		var err error
		if td.Translation, err = pa.vec("at"); err != nil {
			return zygo.SexpNull, err
		}
		if td.Rotation, err = pa.vec("rotate"); err != nil {
			return zygo.SexpNull, err
		}
		return s.addNode(graph.NodeTransform, "", children, td)
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (place ...) ...)
	// -----------------------------------------------------------------------
	add(env, "assembly", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("requires a name argument")
		}
		asmName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name: %w", err)
		}
		var children []graph.NodeID
		for i, arg := range pa.positional[1:] {
			id, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("child %d: %w", i+1, err)
			}
			children = append(children, id)
		}
		desc, err := pa.str("description", "")
		if err != nil {
			return zygo.SexpNull, err
		}
		ref, err := s.addNode(graph.NodeGroup, asmName, children, graph.GroupData{Description: desc})
		if err != nil {
			return zygo.SexpNull, err
		}
		s.graph.AddRoot(ref.id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (tessellate) or (tessellate (assembly ...) ...)
	//
	// With no arguments every root assembly is tessellated.
	// -----------------------------------------------------------------------
	add(env, "tessellate", func(pa kwArgs) (zygo.Sexp, error) {
		g := s.graph
		if len(pa.positional) > 0 {
			view := &graph.SceneGraph{Nodes: g.Nodes, NameIndex: g.NameIndex}
			for i, arg := range pa.positional {
				id, err := toNodeRef(arg)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("root %d: %w", i, err)
				}
				view.AddRoot(id)
			}
			g = view
		}
		return wrapComposite(tessellate.Tessellate(g, s.kernel))
	})

	// -----------------------------------------------------------------------
	// (n-points x) (n-cells x) (n-blocks x)
	// -----------------------------------------------------------------------
	add(env, "n_points", func(pa kwArgs) (zygo.Sexp, error) {
		sum, err := summarize(pa)
		return &zygo.SexpInt{Val: int64(sum.Points)}, err
	})
	add(env, "n_cells", func(pa kwArgs) (zygo.Sexp, error) {
		sum, err := summarize(pa)
		return &zygo.SexpInt{Val: int64(sum.Cells)}, err
	})
	add(env, "n_blocks", func(pa kwArgs) (zygo.Sexp, error) {
		c, err := pa.first()
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpInt{Val: int64(c.NumBlocks())}, nil
	})

	registerFilters(env, s)
}

// summarize totals the first positional argument.
func summarize(pa kwArgs) (mesh.Summary, error) {
	c, err := pa.first()
	if err != nil {
		return mesh.Summary{}, err
	}
	return c.Summarize()
}
