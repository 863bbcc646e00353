// recover.go provides the Recover helper for panic capture in goroutines
// and handlers outside any framework's own recovery.

package errcast

import (
	"context"
	"runtime/debug"
)

// Recover captures a panic, reports it at critical severity, and returns
// the recovered value. It does NOT re-panic.
//
// Use in defer:
//
//	func worker(ctx context.Context, agg *errcast.Aggregator) {
//	    defer errcast.Recover(ctx, agg)
//	    // code that might panic
//	}
//
// Recover must be the deferred call itself: recover only stops the unwind
// when called directly by a deferred function, so wrapping Recover in
// another closure lets the panic escape.
//
// Session and user IDs carried by ctx (see WithSessionID, WithUserID) and a
// snapshot of system state are attached as tags.
func Recover(ctx context.Context, agg *Aggregator) any {
	r := recover()
	if r == nil {
		return nil
	}

	tags := SystemTags()
	for k, v := range contextTags(ctx) {
		tags[k] = v
	}

	agg.Report(r,
		WithContext("Panic"),
		WithSeverity(SeverityCritical),
		WithTrace(string(debug.Stack())),
		WithTags(tags),
	)

	return r
}
