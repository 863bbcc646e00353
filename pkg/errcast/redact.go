// redact.go implements sensitive data redaction applied to a record before
// it is stored, logged, or broadcast.

package errcast

import (
	"regexp"
	"strings"
)

// RedactorConfig controls redaction behavior.
type RedactorConfig struct {
	// SensitiveKeyPatterns contains additional substrings marking a tag key
	// as sensitive (merged with the built-in set).
	SensitiveKeyPatterns []string

	// MaxMessageSize is the maximum length for the rendered cause text
	// (default: 4096).
	MaxMessageSize int

	// MaxTraceSize is the maximum length for traces (default: 32768).
	MaxTraceSize int

	// MaxTagValueSize is the maximum length per stringified tag value
	// (default: 1024).
	MaxTagValueSize int

	// RedactMessages enables pattern redaction of message text for
	// secrets and PII (default: true).
	RedactMessages bool
}

// DefaultRedactorConfig returns production-safe defaults.
func DefaultRedactorConfig() RedactorConfig {
	return RedactorConfig{
		MaxMessageSize:  4096,
		MaxTraceSize:    32768,
		MaxTagValueSize: 1024,
		RedactMessages:  true,
	}
}

// Compiled regex patterns for message redaction (compiled once at package init)
var messageRedactPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT tokens

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)credential[=:\s]+['"]?[^\s'"",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // Email
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),          // Credit card
}

// Sensitive tag key patterns (case-insensitive substring match)
var sensitiveKeyDefaults = []string{
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
}

// Path patterns to normalize in traces
var pathRedactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

var memAddrRedactPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// Redactor strips secrets and PII from records. Fail-closed: a sensitive tag
// key redacts the whole value, never just the matching part.
type Redactor struct {
	cfg RedactorConfig
}

// NewRedactor creates a redactor with the given configuration.
func NewRedactor(cfg RedactorConfig) *Redactor {
	return &Redactor{cfg: cfg}
}

// RedactMessage redacts sensitive patterns from the rendered cause text.
func (r *Redactor) RedactMessage(msg string) string {
	if !r.cfg.RedactMessages {
		return msg
	}

	if len(msg) > r.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, r.cfg.MaxMessageSize)
	}

	result := msg
	for _, pattern := range messageRedactPatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// RedactTrace normalizes user-specific paths, strips memory addresses, and
// limits trace size.
func (r *Redactor) RedactTrace(trace string) string {
	if trace == "" {
		return trace
	}

	result := trace
	for _, pattern := range pathRedactPatterns {
		result = pattern.ReplaceAllString(result, "/[PATH]/")
	}
	result = memAddrRedactPattern.ReplaceAllString(result, "0x...")

	if len(result) > r.cfg.MaxTraceSize {
		result = truncateWithMarker(result, r.cfg.MaxTraceSize)
	}
	return result
}

// RedactTags redacts values under sensitive keys and truncates oversized
// string values. Non-string values under safe keys pass through untouched.
func (r *Redactor) RedactTags(tags Tags) Tags {
	if tags == nil {
		return nil
	}

	result := make(Tags, len(tags))
	for key, value := range tags {
		if r.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
			continue
		}
		if s, ok := value.(string); ok && len(s) > r.cfg.MaxTagValueSize {
			result[key] = truncateWithMarker(s, r.cfg.MaxTagValueSize)
			continue
		}
		result[key] = value
	}
	return result
}

// isSensitiveKey checks if a tag key matches sensitive patterns.
func (r *Redactor) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyDefaults {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range r.cfg.SensitiveKeyPatterns {
		if strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}
