package graph

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// nodeNamespace scopes content-addressed node IDs to blockmesh.
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/blockmesh/graph"))

// NodeID is a content-addressed identifier for graph nodes. The same path
// always yields the same ID.
type NodeID uuid.UUID

// NewNodeID derives the ID for a node from its construction path, e.g.
// "solid-box/front" or "place/3".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(nodeNamespace, []byte(path)))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// Short returns the first 6 bytes of the ID in hex.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // solid primitive (box, cylinder, sphere)
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping (assembly)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
