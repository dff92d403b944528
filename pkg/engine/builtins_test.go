package engine

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/blockmesh/pkg/graph"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 10)`,
			expect: `(sphere "__kw_radius" 10)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 40 :radius 6)`,
			expect: `(cylinder "__kw_height" 40 "__kw_radius" 6)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(slice-along-axis mb :n 3)`,
			expect: `(slice_along_axis mb "__kw_n" 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 -1 0 1)`,
			expect: `(vec3 -1 0 1)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:x-length`,
			expect: `"__kw_x-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalOK evaluates source with opts and fails the test on any error.
func evalOK(t *testing.T, eng *Engine, source string) *Result {
	t.Helper()
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	return res
}

// evalFails evaluates source and returns the joined eval error messages.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// ---------------------------------------------------------------------------
// Source builtins
// ---------------------------------------------------------------------------

func TestCube(t *testing.T) {
	res := evalOK(t, NewEngine(), `(cube :center (vec3 1 0 0) :x-length 2)`)
	if res.Dataset == nil {
		t.Fatal("expected a dataset")
	}
	if res.Dataset.NumCells() != 6 {
		t.Errorf("expected 6 faces, got %d", res.Dataset.NumCells())
	}
	want := mesh.NewBounds(0, 2, -0.5, 0.5, -0.5, 0.5)
	if got := res.Dataset.Bounds(); got != want {
		t.Errorf("bounds = %s, want %s", got, want)
	}
}

func TestBoxDefaultsToUnitBounds(t *testing.T) {
	res := evalOK(t, NewEngine(), `(box)`)
	want := mesh.NewBounds(-1, 1, -1, 1, -1, 1)
	if got := res.Dataset.Bounds(); got != want {
		t.Errorf("bounds = %s, want %s", got, want)
	}

	res = evalOK(t, NewEngine(), `(box :bounds [0 1 0 2 0 3])`)
	want = mesh.NewBounds(0, 1, 0, 2, 0, 3)
	if got := res.Dataset.Bounds(); got != want {
		t.Errorf("bounds = %s, want %s", got, want)
	}
}

func TestUniformGrid(t *testing.T) {
	res := evalOK(t, NewEngine(), `(uniform-grid :bounds [0 2 0 2 0 2] :dims [2 2 2])`)
	if res.Dataset.NumPoints() != 27 {
		t.Errorf("expected 27 points, got %d", res.Dataset.NumPoints())
	}
	if res.Dataset.NumCells() != 8 {
		t.Errorf("expected 8 cells, got %d", res.Dataset.NumCells())
	}
}

func TestUniformGridRejectsBadDims(t *testing.T) {
	msg := evalFails(t, `(uniform-grid :dims [2 0 2])`)
	if !strings.Contains(msg, "uniform-grid") {
		t.Errorf("error should name the builtin, got: %s", msg)
	}
}

func TestLine(t *testing.T) {
	res := evalOK(t, NewEngine(), `(line (vec3 0 0 0) (vec3 1 0 0) :resolution 4)`)
	if res.Dataset.NumPoints() != 5 {
		t.Errorf("expected 5 points, got %d", res.Dataset.NumPoints())
	}
	if res.Dataset.Cells[0].Type != mesh.CellPolyLine {
		t.Errorf("expected a poly-line, got %s", res.Dataset.Cells[0].Type)
	}
}

func TestMultiblock(t *testing.T) {
	source := `
(multiblock "left" (cube)
            "inner" (multiblock "right" (cube :center (vec3 1 0 0)))
            "gap" nil
            (cube))
`
	res := evalOK(t, NewEngine(), source)
	c := res.Composite
	if c == nil {
		t.Fatal("expected a multiblock")
	}
	if c.NumBlocks() != 4 {
		t.Fatalf("expected 4 blocks, got %d", c.NumBlocks())
	}
	names := []string{"left", "inner", "gap", ""}
	for i, want := range names {
		if c.Blocks[i].Name != want {
			t.Errorf("block %d name = %q, want %q", i, c.Blocks[i].Name, want)
		}
	}
	if !c.Blocks[1].IsNested() {
		t.Error("expected block 1 to be nested")
	}
	if !c.Blocks[2].IsEmpty() {
		t.Error("expected block 2 to be empty")
	}
}

func TestVariableReference(t *testing.T) {
	source := `
(def w 4)
(def mb (multiblock (cube :x-length w) (cube :center (vec3 10 0 0))))
(n-blocks mb)
`
	res := evalOK(t, NewEngine(), source)
	if res.Number == nil || *res.Number != 2 {
		t.Errorf("expected 2 blocks, got %v", res.Number)
	}
}

func TestQueries(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{`(n-points (cube))`, 24},
		{`(n-cells (cube))`, 6},
		{`(n-blocks (cube))`, 1},
		{`(n-points (multiblock (cube) nil (cube)))`, 48},
		{`(n-cells (multiblock (cube) (multiblock (cube))))`, 12},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			res := evalOK(t, NewEngine(), tt.source)
			if res.Number == nil || *res.Number != tt.want {
				t.Errorf("got %v, want %g", res.Number, tt.want)
			}
		})
	}
}

func TestBlockAt(t *testing.T) {
	res := evalOK(t, NewEngine(), `(block-at (multiblock "a" (cube) "b" (multiblock (cube))) 1)`)
	if res.Composite == nil || res.Composite.NumBlocks() != 1 {
		t.Errorf("expected the nested multiblock, got %+v", res)
	}

	msg := evalFails(t, `(block-at (multiblock (cube)) 3)`)
	if !strings.Contains(msg, "out of range") {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestVec3RequiresThreeNumbers(t *testing.T) {
	msg := evalFails(t, `(vec3 1 2)`)
	if !strings.Contains(msg, "exactly 3") {
		t.Errorf("unexpected error: %s", msg)
	}
	msg = evalFails(t, `(vec3 1 "two" 3)`)
	if !strings.Contains(msg, "expected number") {
		t.Errorf("unexpected error: %s", msg)
	}
}

// ---------------------------------------------------------------------------
// Scene graph builtins
// ---------------------------------------------------------------------------

func TestSolidBox(t *testing.T) {
	res := evalOK(t, NewEngine(), `(assembly "shelf-unit" (solid-box :size (vec3 600 300 19) :name "shelf"))`)
	g := res.Graph
	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
	}
	shelf := g.Lookup("shelf")
	if shelf == nil {
		t.Fatal("expected node named 'shelf'")
	}
	if shelf.Kind != graph.NodePrimitive {
		t.Errorf("expected primitive, got %s", shelf.Kind)
	}
	bd, ok := shelf.Data.(graph.BoxData)
	if !ok {
		t.Fatalf("expected BoxData, got %T", shelf.Data)
	}
	if bd.Size != (r3.Vec{X: 600, Y: 300, Z: 19}) {
		t.Errorf("size = %v", bd.Size)
	}
	if shelf.ID != graph.NewNodeID("primitive/shelf") {
		t.Error("named nodes should have identities derived from their name")
	}
}

func TestCylinderAndSphere(t *testing.T) {
	source := `
(assembly "knobs"
  (cylinder :height 40 :radius 6 :segments 16 :name "dowel")
  (sphere :radius 10 :name "knob"))
`
	g := evalOK(t, NewEngine(), source).Graph
	cd, ok := g.MustLookup("dowel").Data.(graph.CylinderData)
	if !ok {
		t.Fatalf("expected CylinderData, got %T", g.MustLookup("dowel").Data)
	}
	if cd.Height != 40 || cd.Radius != 6 || cd.Segments != 16 {
		t.Errorf("cylinder = %+v", cd)
	}
	sd, ok := g.MustLookup("knob").Data.(graph.SphereData)
	if !ok || sd.Radius != 10 {
		t.Errorf("sphere = %+v", g.MustLookup("knob").Data)
	}
}

func TestAssemblyWithPlacement(t *testing.T) {
	source := `
(solid-box :size (vec3 400 200 19) :name "side")
(solid-box :size (vec3 362 200 19) :name "bottom")
(assembly "box"
  (place (part "side") :at (vec3 0 0 0))
  (place (part "bottom") :at (vec3 19 0 0) :rotate (vec3 0 90 0)))
`
	g := evalOK(t, NewEngine(), source).Graph
	if len(g.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(g.Roots))
	}
	asm := g.Get(g.Roots[0])
	if asm.Name != "box" || asm.Kind != graph.NodeGroup {
		t.Fatalf("unexpected root %+v", asm)
	}
	if len(asm.Children) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(asm.Children))
	}
	second := g.Get(asm.Children[1])
	td, ok := second.Data.(graph.TransformData)
	if !ok {
		t.Fatalf("expected TransformData, got %T", second.Data)
	}
	if td.Translation == nil || td.Translation.X != 19 {
		t.Errorf("translation = %v", td.Translation)
	}
	if td.Rotation == nil || td.Rotation.Y != 90 {
		t.Errorf("rotation = %v", td.Rotation)
	}
	if len(second.Children) != 1 || second.Children[0] != g.MustLookup("bottom").ID {
		t.Error("placement should reference the bottom part")
	}
}

func TestPartLookupError(t *testing.T) {
	msg := evalFails(t, `(part "nonexistent")`)
	if !strings.Contains(msg, "nonexistent") {
		t.Errorf("error should name the missing part, got: %s", msg)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	msg := evalFails(t, `
(sphere :radius 1 :name "knob")
(sphere :radius 2 :name "knob")
`)
	if !strings.Contains(msg, "already defined") {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestInvalidGraphReported(t *testing.T) {
	msg := evalFails(t, `(assembly "a" (solid-box :size (vec3 0 1 1)))`)
	if !strings.Contains(msg, "box dimension X") {
		t.Errorf("expected the validation error, got: %s", msg)
	}
}

func TestOrphanWarning(t *testing.T) {
	res := evalOK(t, NewEngine(), `(sphere :radius 1 :name "loose")`)
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(res.Warnings))
	}
	if res.Warnings[0].NodeID != res.Graph.MustLookup("loose").ID {
		t.Error("warning should point at the orphan node")
	}
}

func TestTessellate(t *testing.T) {
	source := `
(solid-box :size (vec3 100 50 40) :name "block")
(assembly "pair"
  (place (part "block"))
  (place (part "block") :at (vec3 200 0 0)))
(tessellate)
`
	res := evalOK(t, New(Options{MeshCells: 24}), source)
	c := res.Composite
	if c == nil {
		t.Fatal("expected a multiblock")
	}
	if c.NumBlocks() != 1 || c.Blocks[0].Name != "pair" || !c.Blocks[0].IsNested() {
		t.Fatalf("expected one nested block named pair, got %+v", c.Blocks)
	}
	sum, err := c.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Leaves != 2 || sum.Cells == 0 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Bounds.Max.X < 250 {
		t.Errorf("second block should be placed at x=200, bounds %s", sum.Bounds)
	}
}

func TestTessellateSelectedRoots(t *testing.T) {
	source := `
(def a (assembly "a" (solid-box :size (vec3 40 40 40))))
(assembly "b" (sphere :radius 20))
(tessellate a)
`
	res := evalOK(t, New(Options{MeshCells: 16}), source)
	if res.Composite.NumBlocks() != 1 || res.Composite.Blocks[0].Name != "a" {
		t.Errorf("expected only assembly a, got %+v", res.Composite.Blocks)
	}
}

func TestTessellateFeedsFilters(t *testing.T) {
	source := `
(assembly "a" (solid-box :size (vec3 100 50 40) :name "block"))
(outline (tessellate))
`
	res := evalOK(t, New(Options{MeshCells: 24}), source)
	if res.Dataset == nil || res.Dataset.NumPoints() != 8 {
		t.Fatalf("expected an 8 point outline, got %+v", res.Dataset)
	}
}
