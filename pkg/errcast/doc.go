// Package errcast provides centralized error aggregation for the app:
// heterogeneous failures from storage, network, game logic, and account
// management are normalized into uniform records, classified by severity,
// retained in a bounded recent history, and broadcast live to any number
// of subscribers.
//
// # Core Components
//
// The library is organized around these concepts:
//
//   - ErrorRecord: The normalized failure record with severity, context, and tags
//   - Aggregator: The single shared instance that ingests, retains, and broadcasts
//   - Subscription: A live, cancellable handle on the broadcast stream
//   - Sink: Pluggable destination for shipping records off-process
//   - Redactor: Strips secrets and PII before a record is stored
//
// # Quick Start
//
//	agg := errcast.New(
//	    errcast.WithSink(stderr.NewSink()),
//	    errcast.WithDefaultRedaction(),
//	)
//	defer agg.Close()
//
//	agg.ReportNetwork("/api/sync", 503, err)
//
//	sub := agg.Subscribe()
//	defer sub.Unsubscribe()
//	for rec := range sub.C() {
//	    render(rec)
//	}
//
// # Design Principles
//
//   - Ingestion never fails: Report swallows everything, recording bad input is data
//   - The aggregator is a terminal sink for errors, not a source of them
//   - Reporters never block on subscribers: delivery is non-blocking fan-out
//   - One instance per process, explicitly constructed and explicitly closed;
//     tests build a fresh instance per case
package errcast
