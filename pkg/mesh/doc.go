// Package mesh defines the dataset model shared by every blockmesh
// package: point/cell datasets with attached field data, axis-aligned
// bounds, and composites that nest datasets into a tree of blocks.
//
// Operations in this repository never mutate a Dataset or Composite they
// are handed; they always return newly allocated outputs.
package mesh
