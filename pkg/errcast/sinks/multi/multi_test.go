package multi

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/playforge/app-observe/pkg/errcast"
)

// mockSink is a test sink that tracks calls and can return errors.
type mockSink struct {
	mu       sync.Mutex
	recs     []errcast.ErrorRecord
	writeErr error
	flushErr error
	closeErr error
	closed   bool
}

func (s *mockSink) Write(ctx context.Context, rec errcast.ErrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.recs = append(s.recs, rec)
	return nil
}

func (s *mockSink) Flush(ctx context.Context) error {
	return s.flushErr
}

func (s *mockSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

func (s *mockSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

func (s *mockSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestMultiSink_ImplementsSinkInterface(t *testing.T) {
	var _ errcast.Sink = NewSink()
}

func TestMultiSink_Write_FansOut(t *testing.T) {
	a := &mockSink{}
	b := &mockSink{}
	sink := NewSink(a, b)

	rec := errcast.ErrorRecord{ID: "rec-1", Message: "boom"}
	if err := sink.Write(context.Background(), rec); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("fan-out counts = %d,%d, want 1,1", a.count(), b.count())
	}
}

func TestMultiSink_Write_ContinuesPastErrors(t *testing.T) {
	failing := &mockSink{writeErr: errors.New("first down")}
	healthy := &mockSink{}
	sink := NewSink(failing, healthy)

	err := sink.Write(context.Background(), errcast.ErrorRecord{ID: "rec-2"})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if healthy.count() != 1 {
		t.Errorf("healthy sink saw %d records, want 1 despite sibling failure", healthy.count())
	}
}

func TestMultiSink_Close_ClosesAll(t *testing.T) {
	a := &mockSink{}
	b := &mockSink{closeErr: errors.New("close failed")}
	sink := NewSink(a, b)

	err := sink.Close()
	if err == nil {
		t.Fatal("expected aggregated close error")
	}
	if !a.isClosed() || !b.isClosed() {
		t.Error("all sinks should be closed")
	}
}

func TestMultiSink_Flush_AggregatesErrors(t *testing.T) {
	a := &mockSink{flushErr: errors.New("flush a")}
	b := &mockSink{flushErr: errors.New("flush b")}
	sink := NewSink(a, b)

	err := sink.Flush(context.Background())
	if err == nil {
		t.Fatal("expected aggregated flush error")
	}
	if !errors.Is(err, a.flushErr) || !errors.Is(err, b.flushErr) {
		t.Errorf("joined error missing components: %v", err)
	}
}

func TestMultiSink_Empty(t *testing.T) {
	sink := NewSink()
	if err := sink.Write(context.Background(), errcast.ErrorRecord{}); err != nil {
		t.Errorf("Write on empty multi sink returned error: %v", err)
	}
}
