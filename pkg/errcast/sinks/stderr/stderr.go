// Package stderr provides a sink that prints records to stderr in
// human-readable form. Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/playforge/app-observe/pkg/errcast"
)

// SinkOption configures the stderr sink.
type SinkOption func(*sinkConfig)

type sinkConfig struct {
	verbose bool
}

// WithVerbose enables full record details including traces.
func WithVerbose() SinkOption {
	return func(c *sinkConfig) {
		c.verbose = true
	}
}

// stderrSink writes records to stderr in human-readable format.
type stderrSink struct {
	verbose bool
}

// NewSink creates a sink that writes to stderr.
func NewSink(opts ...SinkOption) errcast.Sink {
	cfg := &sinkConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &stderrSink{
		verbose: cfg.verbose,
	}
}

// Write formats and outputs the record to stderr.
// Format: [ERRCAST] <timestamp> <SEVERITY> <context>
func (s *stderrSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	severity := strings.ToUpper(string(rec.Severity))
	timestamp := rec.Timestamp.Format("2006-01-02T15:04:05Z07:00")

	fmt.Fprintf(os.Stderr, "[ERRCAST] %s %s %s\n", timestamp, severity, rec.Context)

	if rec.Message != "" {
		fmt.Fprintf(os.Stderr, "        Message: %s\n", rec.Message)
	}

	if len(rec.Tags) > 0 {
		flat := rec.Flatten()
		keys := make([]string, 0, len(flat.Tags))
		for k := range flat.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, flat.Tags[k]))
		}
		fmt.Fprintf(os.Stderr, "        Tags: %s\n", strings.Join(pairs, " "))
	}

	// Trace only in verbose mode
	if s.verbose && rec.Trace != "" {
		fmt.Fprintf(os.Stderr, "        Trace:\n")
		for _, line := range strings.Split(rec.Trace, "\n") {
			fmt.Fprintf(os.Stderr, "          %s\n", line)
		}
	}

	return nil
}

// Flush is a no-op for stderr sink.
func (s *stderrSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op for stderr sink.
func (s *stderrSink) Close() error {
	return nil
}
