// classify.go provides per-origin convenience entry points over Report.
// Each fixes the context label and a service discriminator tag so new error
// sources never require aggregator changes.

package errcast

// classification is applied after the caller's options: the fixed context
// and tags always win, the severity only when the caller did not set one.
func classification(label string, fixed Tags, severity Severity) ReportOption {
	return func(o *reportOptions) {
		o.context = label
		if o.tags == nil {
			o.tags = make(Tags, len(fixed))
		}
		for k, v := range fixed {
			o.tags[k] = v
		}
		if !o.severitySet {
			o.severity = severity
		}
	}
}

// ReportFirebase records a failed backend/storage operation such as a file
// upload or account deletion. Defaults to high severity.
func (a *Aggregator) ReportFirebase(operation string, cause any, opts ...ReportOption) {
	fixed := Tags{
		"service":   "firebase",
		"operation": operation,
	}
	a.Report(cause, append(opts, classification("Firebase: "+operation, fixed, SeverityHigh))...)
}

// ReportNetwork records a failed network call. Server-side failures
// (status code >= 500) default to high severity, everything else to medium.
func (a *Aggregator) ReportNetwork(endpoint string, statusCode int, cause any, opts ...ReportOption) {
	severity := SeverityMedium
	if statusCode >= 500 {
		severity = SeverityHigh
	}
	fixed := Tags{
		"service":    "network",
		"endpoint":   endpoint,
		"statusCode": statusCode,
	}
	a.Report(cause, append(opts, classification("Network: "+endpoint, fixed, severity))...)
}

// ReportGame records a failure in game logic for a given game type and play
// session. Defaults to medium severity.
func (a *Aggregator) ReportGame(gameType, sessionID string, cause any, opts ...ReportOption) {
	fixed := Tags{
		"service":   "game",
		"gameType":  gameType,
		"sessionId": sessionID,
	}
	a.Report(cause, append(opts, classification("Game: "+gameType, fixed, SeverityMedium))...)
}

// ReportUser records a failed user/account management operation.
// Defaults to high severity.
func (a *Aggregator) ReportUser(operation, userID string, cause any, opts ...ReportOption) {
	fixed := Tags{
		"service":   "user_management",
		"operation": operation,
		"userId":    userID,
	}
	a.Report(cause, append(opts, classification("User Management: "+operation, fixed, SeverityHigh))...)
}
