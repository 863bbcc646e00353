// aggregator.go provides the central Aggregator: ingestion, bounded history,
// query accessors, and broadcast to subscribers.

package errcast

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCapacity is the number of records retained in history.
	DefaultCapacity = 100

	// DefaultRecentCount is how many records Recent returns when asked
	// for a non-positive count.
	DefaultRecentCount = 10

	// DefaultSubscriberBuffer is the per-subscriber delivery channel
	// capacity. A subscriber that falls this far behind starts dropping.
	DefaultSubscriberBuffer = 16

	// unknownContext labels records reported without an origin.
	unknownContext = "Unknown"
)

// Option configures an Aggregator.
type Option func(*aggregatorConfig)

type aggregatorConfig struct {
	capacity  int
	subBuffer int
	sink      Sink
	logger    *slog.Logger
	redactor  *Redactor
}

// WithCapacity sets the history capacity (default: 100).
func WithCapacity(n int) Option {
	return func(c *aggregatorConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithSubscriberBuffer sets the delivery channel capacity for new
// subscriptions (default: 16).
func WithSubscriberBuffer(n int) Option {
	return func(c *aggregatorConfig) {
		if n > 0 {
			c.subBuffer = n
		}
	}
}

// WithSink attaches a shipping sink. Every reported record is written to it
// best-effort; write failures are logged, never surfaced to the reporter.
func WithSink(sink Sink) Option {
	return func(c *aggregatorConfig) {
		c.sink = sink
	}
}

// WithLogger sets the logger used for diagnostic log lines.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *aggregatorConfig) {
		c.logger = logger
	}
}

// WithRedaction configures redaction of message, trace, and tag values with
// a custom configuration.
func WithRedaction(cfg RedactorConfig) Option {
	return func(c *aggregatorConfig) {
		c.redactor = NewRedactor(cfg)
	}
}

// WithDefaultRedaction enables redaction with production-safe defaults.
func WithDefaultRedaction() Option {
	return func(c *aggregatorConfig) {
		c.redactor = NewRedactor(DefaultRedactorConfig())
	}
}

// Aggregator is the process-wide error aggregation service. It normalizes
// reported failures into ErrorRecords, retains a bounded recent history, and
// broadcasts each record to active subscribers.
//
// Construct exactly one per process with New and hand the same instance to
// every collaborator. Tests construct a fresh instance per case.
//
// All methods are safe for concurrent use.
type Aggregator struct {
	capacity  int
	subBuffer int
	sink      Sink
	logger    *slog.Logger
	redactor  *Redactor

	// mu guards history, subs, nextSubID, and closed. Timestamps are
	// assigned inside the critical section so insertion order implies
	// non-decreasing time.
	mu        sync.Mutex
	history   []ErrorRecord
	subs      map[uint64]*Subscription
	nextSubID uint64
	closed    bool
}

// New creates an Aggregator with the given options.
func New(opts ...Option) *Aggregator {
	cfg := &aggregatorConfig{
		capacity:  DefaultCapacity,
		subBuffer: DefaultSubscriberBuffer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Aggregator{
		capacity:  cfg.capacity,
		subBuffer: cfg.subBuffer,
		sink:      cfg.sink,
		logger:    cfg.logger,
		redactor:  cfg.redactor,
		history:   make([]ErrorRecord, 0, cfg.capacity),
		subs:      make(map[uint64]*Subscription),
	}
}

// ReportOption adjusts a single Report call.
type ReportOption func(*reportOptions)

type reportOptions struct {
	trace       string
	traceSet    bool
	context     string
	tags        Tags
	severity    Severity
	severitySet bool
	log         bool
	notify      bool
}

// WithTrace supplies diagnostic trace text. When absent, the reporting
// goroutine's current stack is captured instead.
func WithTrace(trace string) ReportOption {
	return func(o *reportOptions) {
		o.trace = trace
		o.traceSet = true
	}
}

// WithContext sets the human-readable origin label for the record.
func WithContext(label string) ReportOption {
	return func(o *reportOptions) {
		o.context = label
	}
}

// WithTags attaches structured metadata. Repeated use merges maps; later
// values win on key collision.
func WithTags(tags Tags) ReportOption {
	return func(o *reportOptions) {
		if o.tags == nil {
			o.tags = make(Tags, len(tags))
		}
		for k, v := range tags {
			o.tags[k] = v
		}
	}
}

// WithSeverity overrides the severity, including the defaults applied by
// the classification entry points.
func WithSeverity(s Severity) ReportOption {
	return func(o *reportOptions) {
		o.severity = s
		o.severitySet = true
	}
}

// WithoutLog suppresses the diagnostic log line for this report.
func WithoutLog() ReportOption {
	return func(o *reportOptions) {
		o.log = false
	}
}

// WithoutNotify suppresses broadcast to subscribers for this report.
func WithoutNotify() ReportOption {
	return func(o *reportOptions) {
		o.notify = false
	}
}

// Report ingests one failure. It builds a normalized record, appends it to
// history (evicting the oldest record at capacity), optionally emits a
// diagnostic log line, writes the configured sink best-effort, and publishes
// the record to every current subscriber without blocking on any of them.
//
// Report never fails, whatever the cause value is: recording a malformed or
// unexpected input is itself acceptable data. After Close, reports are still
// appended and logged but no longer delivered anywhere.
func (a *Aggregator) Report(cause any, opts ...ReportOption) {
	ro := reportOptions{
		severity: SeverityMedium,
		log:      true,
		notify:   true,
	}
	for _, opt := range opts {
		opt(&ro)
	}

	rec := ErrorRecord{
		ID:       uuid.NewString(),
		Severity: ro.severity,
		Context:  ro.context,
		Cause:    cause,
		Message:  renderCause(cause),
		Trace:    ro.trace,
		Tags:     ro.tags.clone(),
	}
	if rec.Context == "" {
		rec.Context = unknownContext
	}
	if !ro.traceSet {
		rec.Trace = string(debug.Stack())
	}
	if a.redactor != nil {
		rec.Message = a.redactor.RedactMessage(rec.Message)
		rec.Trace = a.redactor.RedactTrace(rec.Trace)
		rec.Tags = a.redactor.RedactTags(rec.Tags)
	}

	a.mu.Lock()
	rec.Timestamp = time.Now()
	if len(a.history) >= a.capacity {
		a.history = append(a.history[1:len(a.history):len(a.history)], rec)
	} else {
		a.history = append(a.history, rec)
	}
	closed := a.closed
	var targets []*Subscription
	if ro.notify && !closed && len(a.subs) > 0 {
		targets = make([]*Subscription, 0, len(a.subs))
		for _, sub := range a.subs {
			targets = append(targets, sub)
		}
	}
	a.mu.Unlock()

	if ro.log && a.logger != nil {
		a.logger.LogAttrs(context.Background(), slogLevel(rec.Severity), rec.Message,
			slog.String("severity", string(rec.Severity)),
			slog.String("context", rec.Context),
			slog.Time("timestamp", rec.Timestamp),
			slog.Any("tags", rec.Tags),
			slog.String("trace", rec.Trace),
		)
	}

	if a.sink != nil && !closed {
		if err := a.sink.Write(context.Background(), rec); err != nil && a.logger != nil {
			a.logger.Warn("errcast: sink write failed", "error", err)
		}
	}

	// Delivery happens outside the lock so a slow or unsubscribing
	// subscriber can never stall ingestion.
	for _, sub := range targets {
		sub.deliver(rec)
	}
}

// Recent returns the last n records in insertion order. If fewer exist they
// are all returned; a non-positive n means DefaultRecentCount.
func (a *Aggregator) Recent(n int) []ErrorRecord {
	if n <= 0 {
		n = DefaultRecentCount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if n > len(a.history) {
		n = len(a.history)
	}
	out := make([]ErrorRecord, n)
	copy(out, a.history[len(a.history)-n:])
	return out
}

// BySeverity returns every retained record with the given severity,
// preserving insertion order.
func (a *Aggregator) BySeverity(level Severity) []ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []ErrorRecord
	for _, rec := range a.history {
		if rec.Severity == level {
			out = append(out, rec)
		}
	}
	return out
}

// All returns a snapshot of the full history, oldest first. Later reports
// never alter a returned snapshot.
func (a *Aggregator) All() []ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ErrorRecord, len(a.history))
	copy(out, a.history)
	return out
}

// Len reports how many records are currently retained.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// Clear empties the history buffer. Active subscriptions are unaffected and
// keep receiving new reports.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = a.history[:0]
}

// Subscribe registers a new observer of the broadcast stream. The
// subscription receives every record published from this moment on; history
// is never replayed (use Recent or All for a snapshot). After Close the
// returned subscription is already terminated.
func (a *Aggregator) Subscribe() *Subscription {
	a.mu.Lock()
	a.nextSubID++
	sub := &Subscription{
		id:  a.nextSubID,
		agg: a,
		ch:  make(chan ErrorRecord, a.subBuffer),
	}
	if a.closed {
		a.mu.Unlock()
		sub.terminate()
		return sub
	}
	a.subs[sub.id] = sub
	a.mu.Unlock()
	return sub
}

// removeSub detaches a subscription from the registry.
func (a *Aggregator) removeSub(id uint64) {
	a.mu.Lock()
	delete(a.subs, id)
	a.mu.Unlock()
}

// Close tears the aggregator down: every subscriber channel is closed and
// the configured sink is closed. Close is idempotent; repeated calls are a
// no-op. Afterwards Report still appends to history and logs locally, but
// nothing is delivered.
func (a *Aggregator) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	subs := make([]*Subscription, 0, len(a.subs))
	for _, sub := range a.subs {
		subs = append(subs, sub)
	}
	a.subs = make(map[uint64]*Subscription)
	a.mu.Unlock()

	for _, sub := range subs {
		sub.terminate()
	}

	if a.sink != nil {
		return a.sink.Close()
	}
	return nil
}

// slogLevel maps severities onto slog levels for the diagnostic line.
func slogLevel(s Severity) slog.Level {
	switch s {
	case SeverityLow:
		return slog.LevelWarn
	case SeverityMedium:
		return slog.LevelWarn
	case SeverityHigh:
		return slog.LevelError
	case SeverityCritical:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
