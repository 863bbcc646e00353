// record.go defines the canonical error record data structure for errcast.

package errcast

import (
	"fmt"
	"time"
)

// Severity indicates how impactful a reported failure is. The taxonomy is
// ordered: low < medium < high < critical.
type Severity string

const (
	// SeverityLow indicates a cosmetic issue or warning.
	SeverityLow Severity = "low"

	// SeverityMedium indicates a recoverable failure that degraded the
	// user experience.
	SeverityMedium Severity = "medium"

	// SeverityHigh indicates a critical failure the app survived, such as
	// a failed backend or account operation.
	SeverityHigh Severity = "high"

	// SeverityCritical is reserved for app-breaking conditions. Nothing in
	// the aggregator promotes to this level automatically; callers choose it.
	SeverityCritical Severity = "critical"
)

// Rank returns the position of the severity in the ordered taxonomy,
// 0 for low through 3 for critical. Unknown severities rank -1.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Tags carries structured metadata attached to a record (service name,
// operation, status code, session id, ...). Keys are unique; classification
// entry points merge caller tags first and let their fixed keys win.
type Tags map[string]any

// clone returns a shallow copy so records never alias caller maps.
func (t Tags) clone() Tags {
	if t == nil {
		return nil
	}
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ErrorRecord is one normalized failure occurrence. Records are immutable
// once constructed; treat every field as read-only.
type ErrorRecord struct {
	// ID is a unique identifier for this record (UUID).
	ID string

	// Timestamp is when the record was appended to history. Assigned under
	// the aggregator lock, so it is non-decreasing in insertion order.
	Timestamp time.Time

	// Severity classifies the impact of the failure.
	Severity Severity

	// Context is a human-readable origin label such as "Network: /api/sync".
	// Defaults to "Unknown".
	Context string

	// Cause is the original failure value as reported. Opaque: the
	// aggregator never acts on its type beyond rendering Message.
	Cause any

	// Message is the rendered text of Cause, captured at report time.
	Message string

	// Trace is diagnostic trace text. Defaults to the reporting goroutine's
	// stack at report time.
	Trace string

	// Tags holds structured metadata for the record.
	Tags Tags
}

// FlatRecord is the flat, string-valued form of a record used when shipping
// to an external logging or analytics sink. This is the only format contract
// at the boundary.
type FlatRecord struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Severity  string            `json:"severity"`
	Context   string            `json:"context"`
	Message   string            `json:"message"`
	Trace     string            `json:"trace,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Flatten converts the record to its boundary form: cause and trace as text,
// severity by name, timestamp in RFC 3339, tag values stringified.
func (r ErrorRecord) Flatten() FlatRecord {
	flat := FlatRecord{
		ID:        r.ID,
		Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		Severity:  string(r.Severity),
		Context:   r.Context,
		Message:   r.Message,
		Trace:     r.Trace,
	}
	if len(r.Tags) > 0 {
		flat.Tags = make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			flat.Tags[k] = renderValue(v)
		}
	}
	return flat
}

// renderCause formats an arbitrary cause value as a string.
func renderCause(cause any) string {
	if cause == nil {
		return "<nil>"
	}
	if err, ok := cause.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", cause)
}

// renderValue formats a tag value for the flat form.
func renderValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
