// Package engine provides the Lisp evaluation engine for blockmesh.
// It wraps zygomys in a sandboxed environment, builds a SceneGraph from user
// source code and exposes the composite operations as builtins.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/blockmesh/pkg/graph"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation,
// such as a scene graph node that no assembly reaches.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// Result is the output of a successful evaluation: the scene graph built by
// the program and the value of its last expression.
type Result struct {
	Graph *graph.SceneGraph
	// Exactly one of Dataset, Composite and Number is set when the program
	// ends in a value of that kind.
	Dataset   *mesh.Dataset
	Composite *mesh.Composite
	Number    *float64
	Warnings  []EvalWarning
}

// Options configures an Engine. A zero Timeout or MeshCells takes the
// package default.
type Options struct {
	// Timeout is the hard limit for a single evaluation.
	Timeout time.Duration
	// MeshCells is the sdfx marching-cubes resolution used by tessellate.
	MeshCells int
	// MergePoints, MergeTolerance and CornerFactor are the defaults of the
	// combine and outline-corners builtins.
	MergePoints    bool
	MergeTolerance float64
	CornerFactor   float64
}

// DefaultOptions returns the options NewEngine uses.
func DefaultOptions() Options {
	return Options{
		Timeout:        EvalTimeout,
		MeshCells:      DefaultMeshCells,
		MergePoints:    false,
		MergeTolerance: 0,
		CornerFactor:   0.2,
	}
}

// DefaultMeshCells is the default tessellation resolution.
const DefaultMeshCells = 64

// Engine wraps the zygomys interpreter for blockmesh evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	opts       Options
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine with DefaultOptions.
func NewEngine() *Engine {
	return New(DefaultOptions())
}

// New creates an Engine with opts.
func New(opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = EvalTimeout
	}
	if opts.MeshCells <= 0 {
		opts.MeshCells = DefaultMeshCells
	}
	return &Engine{opts: opts}
}

// Options returns the options the engine was created with.
func (e *Engine) Options() Options {
	return e.opts
}

// Evaluate takes Lisp source code and produces a Result.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure or an invalid scene graph: returns nil result +
//     eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.opts.Timeout, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	s := newSession(e.opts)

	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return &Result{Graph: s.graph}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	res := &Result{Graph: s.graph}
	vr := graph.ValidateAll(s.graph)
	if !vr.OK() {
		evalErrs := make([]EvalError, len(vr.Errors))
		for i, ve := range vr.Errors {
			evalErrs[i] = EvalError{Message: ve.Error()}
		}
		return nil, evalErrs, nil
	}
	for _, w := range vr.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Message: w.Message, NodeID: w.NodeID})
	}

	switch v := last.(type) {
	case *sexpDataset:
		res.Dataset = v.d
	case *sexpComposite:
		res.Composite = v.c
	case *zygo.SexpInt, *zygo.SexpFloat:
		f, _ := toFloat64(v)
		res.Number = &f
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// Try to extract line numbers from the error message.
	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
