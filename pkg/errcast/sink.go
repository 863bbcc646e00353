// sink.go defines the Sink interface for shipping records off-process.

package errcast

import "context"

// Sink is an external destination for error records: a log shipper, a
// metrics backend, stderr in development. The aggregator notifies the sink
// best-effort; it never implements shipping itself.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Write persists one record. Called after normalization and redaction.
	// Implementations should be idempotent when possible.
	Write(ctx context.Context, rec ErrorRecord) error

	// Flush ensures any buffered records are persisted.
	// For synchronous sinks, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the sink.
	// After Close is called, Write and Flush should return errors.
	Close() error
}
