// Package graph defines the scene graph for blockmesh.
// The scene graph is a DAG of primitives, transforms and groups that
// tessellates into a nested composite: groups become nested blocks and
// primitives become leaves.
package graph
