// Package multi provides a sink that fans out to multiple sinks.
// All sinks receive all records; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"github.com/playforge/app-observe/pkg/errcast"
)

// multiSink fans out to multiple sinks.
type multiSink struct {
	sinks []errcast.Sink
}

// NewSink creates a sink that writes to every given sink.
// All sinks receive all records. Errors are aggregated via errors.Join.
func NewSink(sinks ...errcast.Sink) errcast.Sink {
	return &multiSink{
		sinks: sinks,
	}
}

// Write sends the record to all sinks, collecting any errors.
// All sinks are called even if some return errors.
func (s *multiSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush calls Flush on all sinks, collecting any errors.
func (s *multiSink) Flush(ctx context.Context) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on all sinks, collecting any errors.
func (s *multiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
