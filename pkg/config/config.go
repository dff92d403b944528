// Package config loads blockmesh settings from JSON. Every field is a
// pointer so a partial file only overrides what it names; the Get*
// methods supply defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied by the Get* methods.
const (
	DefaultEvalTimeout    = 5 * time.Second
	DefaultMeshCells      = 64
	DefaultMergePoints    = false
	DefaultMergeTolerance = 0.0
	DefaultCornerFactor   = 0.2
)

// maxFileSize bounds config files read by Load.
const maxFileSize = 1 * 1024 * 1024

// Config is the root configuration.
type Config struct {
	// Script engine
	EvalTimeout *string `json:"eval_timeout,omitempty"` // duration string like "5s"

	// Solid kernel
	MeshCells *int `json:"mesh_cells,omitempty"` // marching cubes cells along the longest axis

	// Defaults of the combine and outline-corners builtins
	MergePoints    *bool    `json:"merge_points,omitempty"`
	MergeTolerance *float64 `json:"merge_tolerance,omitempty"`
	CornerFactor   *float64 `json:"corner_factor,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		EvalTimeout:    ptrString(DefaultEvalTimeout.String()),
		MeshCells:      ptrInt(DefaultMeshCells),
		MergePoints:    ptrBool(DefaultMergePoints),
		MergeTolerance: ptrFloat64(DefaultMergeTolerance),
		CornerFactor:   ptrFloat64(DefaultCornerFactor),
	}
}

// Load reads a Config from a JSON file. The file must have a .json
// extension and be at most 1MB. Fields omitted from the file stay unset.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the set values are usable. The merge tolerance and
// corner factor are passed through as given.
func (c *Config) Validate() error {
	if c.EvalTimeout != nil && *c.EvalTimeout != "" {
		d, err := time.ParseDuration(*c.EvalTimeout)
		if err != nil {
			return fmt.Errorf("invalid eval_timeout '%s': %w", *c.EvalTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("eval_timeout must be positive, got %s", d)
		}
	}

	if c.MeshCells != nil && *c.MeshCells < 1 {
		return fmt.Errorf("mesh_cells must be at least 1, got %d", *c.MeshCells)
	}

	return nil
}

// GetEvalTimeout parses and returns the EvalTimeout as a time.Duration.
func (c *Config) GetEvalTimeout() time.Duration {
	if c.EvalTimeout == nil || *c.EvalTimeout == "" {
		return DefaultEvalTimeout
	}
	d, err := time.ParseDuration(*c.EvalTimeout)
	if err != nil || d <= 0 {
		return DefaultEvalTimeout
	}
	return d
}

// GetMeshCells returns the mesh_cells value or the default.
func (c *Config) GetMeshCells() int {
	if c.MeshCells == nil || *c.MeshCells < 1 {
		return DefaultMeshCells
	}
	return *c.MeshCells
}

// GetMergePoints returns the merge_points value or the default.
func (c *Config) GetMergePoints() bool {
	if c.MergePoints == nil {
		return DefaultMergePoints
	}
	return *c.MergePoints
}

// GetMergeTolerance returns the merge_tolerance value or the default.
func (c *Config) GetMergeTolerance() float64 {
	if c.MergeTolerance == nil {
		return DefaultMergeTolerance
	}
	return *c.MergeTolerance
}

// GetCornerFactor returns the corner_factor value or the default.
func (c *Config) GetCornerFactor() float64 {
	if c.CornerFactor == nil {
		return DefaultCornerFactor
	}
	return *c.CornerFactor
}
