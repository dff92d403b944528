package graph

import "gonum.org/v1/gonum/spatial/r3"

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// DefaultSegments is the facet count used for cylinders that do not set one.
const DefaultSegments = 32

// BoxData is an axis-aligned box with its minimum corner at the origin.
type BoxData struct {
	Size r3.Vec `json:"size"`
}

func (BoxData) nodeData() {}

// CylinderData is a cylinder centered on the origin along Z.
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"` // 0 = DefaultSegments
}

func (CylinderData) nodeData() {}

// SphereData is a sphere centered on the origin.
type SphereData struct {
	Radius float64 `json:"radius"`
}

func (SphereData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to the children
// of a node. Created by the (place ...) Lisp form.
type TransformData struct {
	Translation *r3.Vec `json:"translation,omitempty"`
	Rotation    *r3.Vec `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping. Each group tessellates into a
// nested composite block. Created by the (assembly ...) Lisp form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
