// Package cloudbackend wraps the external identity/storage/analytics backend
// and surfaces every operation failure through the aggregator's backend
// classification entry point. The wrapper never retries and never suppresses
// an error, with one exception: analytics logging is best-effort, so its
// failures are recorded but not propagated.
package cloudbackend

import (
	"context"
	"fmt"

	"github.com/playforge/app-observe/pkg/errcast"
)

// Identity is the slice of the backend's auth API the wrapper needs.
type Identity interface {
	SignOut(ctx context.Context, userID string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// Storage is the slice of the backend's file API the wrapper needs.
// GCSStorage is the production implementation.
type Storage interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	Delete(ctx context.Context, remotePath string) error
}

// Analytics is the backend's event logging API.
type Analytics interface {
	Log(ctx context.Context, event string, params map[string]any) error
}

// Client wraps the backend services and reports their failures.
type Client struct {
	identity  Identity
	storage   Storage
	analytics Analytics
	agg       *errcast.Aggregator
}

// NewClient builds a backend wrapper. Any of identity, storage, or analytics
// may be nil when that part of the backend is unused; calling the matching
// operation then fails (and is reported) rather than panicking.
func NewClient(agg *errcast.Aggregator, identity Identity, storage Storage, analytics Analytics) *Client {
	return &Client{
		identity:  identity,
		storage:   storage,
		analytics: analytics,
		agg:       agg,
	}
}

// SignOut signs the user out of the backend. Failures are reported and
// returned to the caller.
func (c *Client) SignOut(ctx context.Context, userID string) error {
	if c.identity == nil {
		return c.report(ctx, "sign_out", errNotConfigured("identity"), errcast.Tags{"userId": userID})
	}
	if err := c.identity.SignOut(ctx, userID); err != nil {
		return c.report(ctx, "sign_out", err, errcast.Tags{"userId": userID})
	}
	return nil
}

// DeleteAccount removes the user's account from the backend.
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	if c.identity == nil {
		return c.report(ctx, "delete_account", errNotConfigured("identity"), errcast.Tags{"userId": userID})
	}
	if err := c.identity.DeleteAccount(ctx, userID); err != nil {
		return c.report(ctx, "delete_account", err, errcast.Tags{"userId": userID})
	}
	return nil
}

// UploadFile copies a local file to backend storage.
func (c *Client) UploadFile(ctx context.Context, localPath, remotePath string) error {
	tags := errcast.Tags{"localPath": localPath, "remotePath": remotePath}
	if c.storage == nil {
		return c.report(ctx, "upload_file", errNotConfigured("storage"), tags)
	}
	if err := c.storage.Upload(ctx, localPath, remotePath); err != nil {
		return c.report(ctx, "upload_file", err, tags)
	}
	return nil
}

// DeleteFile removes a file from backend storage.
func (c *Client) DeleteFile(ctx context.Context, remotePath string) error {
	tags := errcast.Tags{"remotePath": remotePath}
	if c.storage == nil {
		return c.report(ctx, "delete_file", errNotConfigured("storage"), tags)
	}
	if err := c.storage.Delete(ctx, remotePath); err != nil {
		return c.report(ctx, "delete_file", err, tags)
	}
	return nil
}

// LogEvent ships an analytics event. Best-effort: a failure is reported to
// the aggregator but never returned, so callers can fire and forget.
func (c *Client) LogEvent(ctx context.Context, event string, params map[string]any) {
	if c.analytics == nil {
		return
	}
	if err := c.analytics.Log(ctx, event, params); err != nil {
		_ = c.report(ctx, "log_event", err, errcast.Tags{"event": event})
	}
}

// report classifies the failure under the backend origin, attaches context
// identifiers, and hands the original error back for propagation.
func (c *Client) report(ctx context.Context, operation string, err error, tags errcast.Tags) error {
	if sessionID, ok := errcast.SessionIDFromContext(ctx); ok {
		tags["sessionId"] = sessionID
	}
	if userID, ok := errcast.UserIDFromContext(ctx); ok {
		if _, present := tags["userId"]; !present {
			tags["userId"] = userID
		}
	}
	c.agg.ReportFirebase(operation, err, errcast.WithTags(tags))
	return err
}

func errNotConfigured(part string) error {
	return fmt.Errorf("backend %s is not configured", part)
}
