// Package noop provides a no-operation sink that discards all records.
// Useful for testing and for disabling shipping entirely.
package noop

import (
	"context"

	"github.com/playforge/app-observe/pkg/errcast"
)

// noopSink discards all records.
type noopSink struct{}

// NewSink creates a sink that discards all records.
// All methods return nil and perform no operations.
func NewSink() errcast.Sink {
	return &noopSink{}
}

// Write discards the record and returns nil.
func (s *noopSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	return nil
}

// Flush is a no-op and returns nil.
func (s *noopSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op and returns nil.
func (s *noopSink) Close() error {
	return nil
}
