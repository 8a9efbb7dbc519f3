package metadata

import (
	"context"
	"fmt"

	"github.com/bethropolis/richexif/internal/utils"
)

// Fetcher reads the metadata of a single file through a short-lived
// extraction session.
type Fetcher struct {
	starter Starter
	logger  utils.Logger
}

// Option is a functional option for configuring the Fetcher
type Option func(*Fetcher)

// WithLogger sets the logger used for session lifecycle messages
func WithLogger(logger utils.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher backed by starter
func NewFetcher(starter Starter, opts ...Option) *Fetcher {
	f := &Fetcher{
		starter: starter,
		logger:  utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the metadata of the file at path, narrowed to keys
// containing filter when filter is not empty.
//
// Fetch is single-file only: the session is asked about path alone and only
// the first record is used. An answer with no record is ErrNoRecords.
// The session is closed before Fetch returns, on every path.
func (f *Fetcher) Fetch(ctx context.Context, path, filter string) (md Metadata, err error) {
	session, err := f.starter.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionStart, err)
	}
	f.logger.Debug("metadata.Fetch: session started")

	defer func() {
		cerr := session.Close()
		if cerr == nil {
			f.logger.Debug("metadata.Fetch: session closed")
			return
		}
		if err != nil {
			f.logger.Warn("metadata.Fetch: closing session: %v", cerr)
			return
		}
		md, err = nil, fmt.Errorf("closing extraction session: %w", cerr)
	}()

	records, err := session.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting metadata from '%s': %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for '%s'", ErrNoRecords, path)
	}
	if len(records) > 1 {
		f.logger.Warn("metadata.Fetch: %d records returned for one file, using the first", len(records))
	}

	md = records[0]
	f.logger.Debug("metadata.Fetch: %d fields extracted", len(md))

	if filter != "" {
		md = md.Filter(filter)
		f.logger.Debug("metadata.Fetch: %d fields match filter %q", len(md), filter)
	}

	return md, nil
}
