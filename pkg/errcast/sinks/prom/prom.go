// Package prom provides a sink that counts records in Prometheus metrics,
// labeled by severity and originating service. Pair it with another sink via
// the multi package when record contents must also be shipped.
package prom

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/playforge/app-observe/pkg/errcast"
)

// serviceUnknown labels records that carry no service discriminator tag.
const serviceUnknown = "unknown"

// promSink counts records per severity and service.
type promSink struct {
	records *prometheus.CounterVec
}

// NewSink creates a sink that registers and increments
// errcast_records_total{severity,service} on the given registerer.
func NewSink(reg prometheus.Registerer) errcast.Sink {
	return &promSink{
		records: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "errcast_records_total",
			Help: "Error records ingested, by severity and originating service.",
		}, []string{"severity", "service"}),
	}
}

// Write increments the counter for the record's severity and service tag.
func (s *promSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	service := serviceUnknown
	if v, ok := rec.Tags["service"].(string); ok && v != "" {
		service = v
	}
	s.records.WithLabelValues(string(rec.Severity), service).Inc()
	return nil
}

// Flush is a no-op; counters are scraped, not pushed.
func (s *promSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op; metric lifetime belongs to the registerer.
func (s *promSink) Close() error {
	return nil
}
