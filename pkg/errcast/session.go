// session.go propagates play-session and user identifiers through Go
// context.Context so reports made deep in a call stack stay correlated.

package errcast

import "context"

// Context key types (unexported to avoid collisions)
type sessionIDKey struct{}
type userIDKey struct{}

// WithSessionID returns a context carrying the current play-session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext extracts the play-session ID from context.
// Returns empty string and false if not set or empty.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionIDKey{})
	id, ok := v.(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the signed-in user's ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext extracts the user ID from context.
// Returns empty string and false if not set or empty.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey{})
	id, ok := v.(string)
	return id, ok && id != ""
}

// contextTags collects whatever identifiers the context carries.
func contextTags(ctx context.Context) Tags {
	var tags Tags
	if sessionID, ok := SessionIDFromContext(ctx); ok {
		tags = Tags{"sessionId": sessionID}
	}
	if userID, ok := UserIDFromContext(ctx); ok {
		if tags == nil {
			tags = Tags{}
		}
		tags["userId"] = userID
	}
	return tags
}
