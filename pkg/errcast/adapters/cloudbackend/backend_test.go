// Tests for the backend wrapper's failure reporting boundary.
package cloudbackend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/app-observe/pkg/errcast"
)

// fakeIdentity fails whichever operations are configured to fail.
type fakeIdentity struct {
	signOutErr error
	deleteErr  error
	calls      []string
}

func (f *fakeIdentity) SignOut(ctx context.Context, userID string) error {
	f.calls = append(f.calls, "sign_out:"+userID)
	return f.signOutErr
}

func (f *fakeIdentity) DeleteAccount(ctx context.Context, userID string) error {
	f.calls = append(f.calls, "delete_account:"+userID)
	return f.deleteErr
}

type fakeStorage struct {
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, localPath, remotePath string) error {
	return f.uploadErr
}

func (f *fakeStorage) Delete(ctx context.Context, remotePath string) error {
	return f.deleteErr
}

type fakeAnalytics struct {
	logErr error
	events []string
}

func (f *fakeAnalytics) Log(ctx context.Context, event string, params map[string]any) error {
	f.events = append(f.events, event)
	return f.logErr
}

func newTestAggregator() *errcast.Aggregator {
	return errcast.New(errcast.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestSignOut_Success(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	identity := &fakeIdentity{}
	client := NewClient(agg, identity, nil, nil)

	err := client.SignOut(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sign_out:user-1"}, identity.calls)
	assert.Zero(t, agg.Len(), "no report on success")
}

func TestSignOut_FailureReportedAndPropagated(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	cause := errors.New("token revoked")
	client := NewClient(agg, &fakeIdentity{signOutErr: cause}, nil, nil)

	err := client.SignOut(context.Background(), "user-1")
	require.ErrorIs(t, err, cause, "original error must propagate")

	recs := agg.Recent(1)
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "Firebase: sign_out", rec.Context)
	assert.Equal(t, errcast.SeverityHigh, rec.Severity)
	assert.Equal(t, "firebase", rec.Tags["service"])
	assert.Equal(t, "sign_out", rec.Tags["operation"])
	assert.Equal(t, "user-1", rec.Tags["userId"])
}

func TestDeleteAccount_FailureReported(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	cause := errors.New("requires recent login")
	client := NewClient(agg, &fakeIdentity{deleteErr: cause}, nil, nil)

	err := client.DeleteAccount(context.Background(), "user-2")
	require.ErrorIs(t, err, cause)

	rec := agg.Recent(1)[0]
	assert.Equal(t, "delete_account", rec.Tags["operation"])
	assert.Equal(t, "user-2", rec.Tags["userId"])
}

func TestUploadFile_FailureReportedWithPaths(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	cause := errors.New("quota exceeded")
	client := NewClient(agg, nil, &fakeStorage{uploadErr: cause}, nil)

	err := client.UploadFile(context.Background(), "/tmp/save.dat", "saves/save.dat")
	require.ErrorIs(t, err, cause)

	rec := agg.Recent(1)[0]
	assert.Equal(t, "Firebase: upload_file", rec.Context)
	assert.Equal(t, "/tmp/save.dat", rec.Tags["localPath"])
	assert.Equal(t, "saves/save.dat", rec.Tags["remotePath"])
}

func TestDeleteFile_Success(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	client := NewClient(agg, nil, &fakeStorage{}, nil)

	require.NoError(t, client.DeleteFile(context.Background(), "saves/old.dat"))
	assert.Zero(t, agg.Len())
}

func TestLogEvent_FailureIsBestEffort(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	analytics := &fakeAnalytics{logErr: errors.New("endpoint down")}
	client := NewClient(agg, nil, nil, analytics)

	// No error surfaces to the caller.
	client.LogEvent(context.Background(), "round_finished", map[string]any{"score": 12})

	recs := agg.Recent(1)
	require.Len(t, recs, 1, "failure must still be recorded")
	assert.Equal(t, "log_event", recs[0].Tags["operation"])
	assert.Equal(t, "round_finished", recs[0].Tags["event"])
}

func TestLogEvent_NilAnalyticsIsSilent(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	client := NewClient(agg, nil, nil, nil)

	client.LogEvent(context.Background(), "round_finished", nil)
	assert.Zero(t, agg.Len())
}

func TestUnconfiguredPart_ReportsAndFails(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	client := NewClient(agg, nil, nil, nil)

	err := client.UploadFile(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Equal(t, 1, agg.Len())
}

func TestReport_PullsIdentifiersFromContext(t *testing.T) {
	agg := newTestAggregator()
	defer agg.Close()
	client := NewClient(agg, nil, &fakeStorage{deleteErr: errors.New("gone")}, nil)

	ctx := errcast.WithUserID(errcast.WithSessionID(context.Background(), "sess-5"), "user-9")
	_ = client.DeleteFile(ctx, "saves/x.dat")

	rec := agg.Recent(1)[0]
	assert.Equal(t, "sess-5", rec.Tags["sessionId"])
	assert.Equal(t, "user-9", rec.Tags["userId"])
}
