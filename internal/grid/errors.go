package grid

import "errors"

// Sentinel errors returned by Manager. Match them with errors.Is.
var (
	// ErrInvalidTable is returned for a nil or empty table, or one with fewer
	// than two columns.
	ErrInvalidTable = errors.New("invalid table")

	// ErrNotFound is returned when no slot has the requested name.
	ErrNotFound = errors.New("plot not found")

	// ErrDuplicateName is returned by AddPlot for an existing name when the
	// manager rejects duplicates.
	ErrDuplicateName = errors.New("duplicate plot name")

	// ErrInvalidName is returned for an empty plot name.
	ErrInvalidName = errors.New("invalid plot name")
)
