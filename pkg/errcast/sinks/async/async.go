// Package async provides a sink wrapper with a bounded queue so shipping
// happens off the reporting path. Oldest records are dropped when full.
package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playforge/app-observe/pkg/errcast"
)

// SinkOption configures the async sink.
type SinkOption func(*sinkConfig)

type sinkConfig struct {
	queueSize int
	onDropped func(rec errcast.ErrorRecord)
}

// WithQueueSize sets the maximum number of queued records (default: 1000).
func WithQueueSize(size int) SinkOption {
	return func(c *sinkConfig) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithOnDropped sets a callback invoked with each record dropped due to
// queue overflow, so callers can count losses by severity or service.
func WithOnDropped(fn func(rec errcast.ErrorRecord)) SinkOption {
	return func(c *sinkConfig) {
		c.onDropped = fn
	}
}

// asyncSink wraps a sink with a bounded queue.
type asyncSink struct {
	inner     errcast.Sink
	queue     chan errcast.ErrorRecord
	done      chan struct{}
	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool
	wg        sync.WaitGroup
	onDropped func(rec errcast.ErrorRecord)
}

// NewSink wraps a sink with a bounded queue for asynchronous writes.
// Write returns immediately; records are shipped in the background. When
// the queue is full, the oldest record is dropped to make room.
func NewSink(inner errcast.Sink, opts ...SinkOption) errcast.Sink {
	cfg := &sinkConfig{
		queueSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &asyncSink{
		inner:     inner,
		queue:     make(chan errcast.ErrorRecord, cfg.queueSize),
		done:      make(chan struct{}),
		onDropped: cfg.onDropped,
	}

	s.wg.Add(1)
	go s.processLoop()

	return s
}

// processLoop drains the queue and writes to the inner sink. The queue
// channel is never closed; shutdown is signalled through done, after which
// whatever is still queued is drained.
func (s *asyncSink) processLoop() {
	defer s.wg.Done()
	for {
		select {
		case rec := <-s.queue:
			// Ignore errors from inner sink (fire and forget)
			_ = s.inner.Write(context.Background(), rec)
		case <-s.done:
			for {
				select {
				case rec := <-s.queue:
					_ = s.inner.Write(context.Background(), rec)
				default:
					return
				}
			}
		}
	}
}

// Write enqueues a record for async shipping.
// Returns immediately. If the queue is full, drops the oldest record.
// The closed check and the enqueue happen under one lock so a racing Close
// can never invalidate the queue mid-send.
func (s *asyncSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return errors.New("async sink is closed")
	}

	select {
	case s.queue <- rec:
		return nil
	default:
		s.dropOldestAndEnqueue(rec)
		return nil
	}
}

// dropOldestAndEnqueue drops the oldest record and enqueues the new one.
func (s *asyncSink) dropOldestAndEnqueue(rec errcast.ErrorRecord) {
	select {
	case dropped := <-s.queue:
		if s.onDropped != nil {
			s.onDropped(dropped)
		}
	default:
		// Queue was emptied by the processor in the meantime
	}

	select {
	case s.queue <- rec:
	default:
		// Still full, drop the new record instead
		if s.onDropped != nil {
			s.onDropped(rec)
		}
	}
}

// Flush blocks until all queued records are processed.
func (s *asyncSink) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(s.queue) == 0 {
				// Give a moment for the last record to be written
				time.Sleep(10 * time.Millisecond)
				return s.inner.Flush(ctx)
			}
		}
	}
}

// Close stops the background processor, drains the queue, and closes the
// inner sink.
func (s *asyncSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		s.closeMu.Unlock()

		close(s.done)
		s.wg.Wait()
	})

	return s.inner.Close()
}
