package main

import (
	"log"

	"github.com/chazu/blockmesh/pkg/engine"
	"github.com/chazu/blockmesh/pkg/mesh"
)

// colorPalette is a default palette used to assign distinct colors to blocks.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates blockmesh programs and summarizes their results.
type App struct {
	engine *engine.Engine
}

// BlockData summarizes one non-empty leaf of the result.
type BlockData struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Points int    `json:"points"`
	Cells  int    `json:"cells"`
	Color  string `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a program.
type EvalResult struct {
	// Kind is "dataset", "multiblock", "number" or empty when the program
	// ends in anything else.
	Kind     string          `json:"kind"`
	Number   *float64        `json:"number,omitempty"`
	Blocks   []BlockData     `json:"blocks"`
	Points   int             `json:"points"`
	Cells    int             `json:"cells"`
	Bounds   *[6]float64     `json:"bounds,omitempty"`
	Nodes    int             `json:"nodes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App evaluating with opts.
func NewApp(opts engine.Options) *App {
	return &App{engine: engine.New(opts)}
}

// Evaluate takes Lisp source and returns a summary of its final value.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Blocks:   []BlockData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Nodes = res.Graph.NodeCount()
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}

	var c *mesh.Composite
	switch {
	case res.Number != nil:
		result.Kind = "number"
		result.Number = res.Number
		return result
	case res.Dataset != nil:
		result.Kind = "dataset"
		c = mesh.FromDatasets(res.Dataset)
	case res.Composite != nil:
		result.Kind = "multiblock"
		c = res.Composite
	default:
		return result
	}

	bounds := mesh.EmptyBounds()
	err = c.Walk(func(path string, d *mesh.Dataset) error {
		result.Blocks = append(result.Blocks, BlockData{
			Path:   path,
			Kind:   d.Kind.String(),
			Points: d.NumPoints(),
			Cells:  d.NumCells(),
			Color:  colorPalette[len(result.Blocks)%len(colorPalette)],
		})
		result.Points += d.NumPoints()
		result.Cells += d.NumCells()
		bounds = bounds.Union(d.Bounds())
		return nil
	})
	if err != nil {
		log.Printf("Summarize error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "summary failed: " + err.Error()})
		return result
	}
	if !bounds.IsEmpty() {
		b := bounds.Slice()
		result.Bounds = &b
	}
	return result
}
