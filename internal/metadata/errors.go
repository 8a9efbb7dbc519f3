package metadata

import "errors"

var (
	// ErrNoRecords is returned when the tool answered without a record for
	// the requested file.
	ErrNoRecords = errors.New("metadata: extraction returned no records")

	// ErrSessionStart wraps failures to launch the extraction tool.
	ErrSessionStart = errors.New("metadata: could not start extraction session")
)
