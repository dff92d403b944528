package mesh

import "errors"

var (
	// ErrNilComposite is returned when an operation receives a nil composite.
	ErrNilComposite = errors.New("mesh: nil composite")

	// ErrNilDataset is returned when an operation receives a nil dataset.
	ErrNilDataset = errors.New("mesh: nil dataset")

	// ErrCycle is returned when a composite contains itself.
	ErrCycle = errors.New("mesh: composite contains itself")

	// ErrEmptyBounds is returned when bounds are required but no points exist.
	ErrEmptyBounds = errors.New("mesh: empty bounds")

	// ErrInvalidCell is returned for cells whose point count does not match their type
	// or that reference points outside the dataset.
	ErrInvalidCell = errors.New("mesh: invalid cell")
)
