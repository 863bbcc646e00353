// subscription.go implements the live, cancellable broadcast stream handle.

package errcast

import "sync"

// Subscription is one observer's handle on the broadcast stream. Receive
// records from C; call Unsubscribe when done. Each active subscription
// receives every published record independently of the others.
type Subscription struct {
	id  uint64
	agg *Aggregator
	ch  chan ErrorRecord

	// mu serializes delivery against termination so the channel is never
	// closed mid-send.
	mu     sync.Mutex
	closed bool
}

// C returns the delivery channel. It is closed by Unsubscribe or by the
// aggregator's Close, so ranging over it terminates cleanly.
func (s *Subscription) C() <-chan ErrorRecord {
	return s.ch
}

// Unsubscribe stops delivery and releases the subscription's resources. It
// is idempotent, safe to call concurrently with an in-flight publish, and
// safe to call from within a receive loop on C. Other subscriptions are
// unaffected.
func (s *Subscription) Unsubscribe() {
	s.agg.removeSub(s.id)
	s.terminate()
}

// terminate closes the delivery channel exactly once.
func (s *Subscription) terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// deliver hands a record to the subscriber without blocking. A subscriber
// whose buffer is full misses the record; its channel capacity is the only
// backpressure policy.
func (s *Subscription) deliver(rec ErrorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- rec:
	default:
	}
}
