package metadata

//go:generate mockgen -source=interfaces.go -destination=../mock/metadata_mock.go -package=mock

import "context"

// Starter opens extraction sessions. The exiftool package provides the
// production implementation.
type Starter interface {
	// Start launches a session. The caller must Close it.
	Start(ctx context.Context) (Session, error)
}

// Session is an open connection to the extraction tool.
type Session interface {
	// Extract queries metadata for the given files and returns one record
	// per file the tool could read, in request order.
	Extract(ctx context.Context, paths ...string) ([]Metadata, error)

	// Close shuts the session down and releases the underlying process.
	Close() error
}
