package domain

import "errors"

// Error taxonomy shared by every stage. Callers wrap these with context and
// test them with errors.Is.
var (
	// ErrMissingResource means the station table or the trace inputs are absent.
	// It aborts the run.
	ErrMissingResource = errors.New("missing resource")

	// ErrStationNotFound means a trace's station code has no directory entry.
	// The station is skipped.
	ErrStationNotFound = errors.New("station not found")

	// ErrMalformedInput covers unparsable directory lines, corrupt trace headers
	// and traces too short to process. The affected record is skipped.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnknownChannel is returned by Relabel in strict mode for raw channel
	// identifiers outside X, Y and Z.
	ErrUnknownChannel = errors.New("unknown channel")
)
