package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xiaot623/edgechat/backend"
)

func TestStartSessionThenActive(t *testing.T) {
	rec := newBackendRecorder()
	rec.sessionID = "sess-42"
	svc := newTestService(t, rec, nil, false)

	sessionID, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sess-42", sessionID)
	require.Equal(t, 1, rec.startCalls)

	active, err := svc.IsSessionActive(context.Background(), "sess-42")
	require.NoError(t, err)
	require.True(t, active)

	// Exact, case-sensitive comparison only.
	active, err = svc.IsSessionActive(context.Background(), "SESS-42")
	require.NoError(t, err)
	require.False(t, active)
}

func TestStartSessionBackendFailure(t *testing.T) {
	rec := newBackendRecorder()
	rec.startStatus = http.StatusBadGateway
	svc := newTestService(t, rec, nil, false)

	_, err := svc.StartSession(context.Background())
	var protoErr *backend.ProtocolError
	require.ErrorAs(t, err, &protoErr)

	active, err := svc.IsSessionActive(context.Background(), "anything")
	require.NoError(t, err)
	require.False(t, active)
}

func TestStartSessionOverwritesActiveSlot(t *testing.T) {
	rec := newBackendRecorder()
	svc := newTestService(t, rec, nil, false)

	rec.sessionID = "first"
	_, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	rec.sessionID = "second"
	_, err = svc.StartSession(context.Background())
	require.NoError(t, err)

	active, err := svc.IsSessionActive(context.Background(), "first")
	require.NoError(t, err)
	require.False(t, active)

	active, err = svc.IsSessionActive(context.Background(), "second")
	require.NoError(t, err)
	require.True(t, active)
}

func TestEndSession(t *testing.T) {
	rec := newBackendRecorder()
	svc := newTestService(t, rec, nil, false)

	sessionID, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(context.Background(), sessionID))
	require.Equal(t, 1, rec.endCalls)

	active, err := svc.IsSessionActive(context.Background(), sessionID)
	require.NoError(t, err)
	require.False(t, active)
}

func TestEndSessionClearsSlotWhenRemoteFails(t *testing.T) {
	rec := newBackendRecorder()
	svc := newTestService(t, rec, nil, false)

	sessionID, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	rec.endStatus = http.StatusInternalServerError
	err = svc.EndSession(context.Background(), sessionID)

	// The remote failure is reported, but locally the session is gone.
	var protoErr *backend.ProtocolError
	require.ErrorAs(t, err, &protoErr)

	active, err := svc.IsSessionActive(context.Background(), sessionID)
	require.NoError(t, err)
	require.False(t, active)
}

func TestEndSessionReportsRemoteAndStoreFailures(t *testing.T) {
	rec := newBackendRecorder()
	svc := newTestService(t, rec, nil, false)

	sessionID, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	// Close the store so clearing the slot fails, and make the remote end
	// fail too: both failures must survive into the returned error.
	require.NoError(t, svc.store.Close())
	rec.endStatus = http.StatusInternalServerError

	err = svc.EndSession(context.Background(), sessionID)
	require.Error(t, err)

	var protoErr *backend.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Contains(t, err.Error(), "failed to clear session")
}

func TestEndSessionEmptyIDIsNoop(t *testing.T) {
	rec := newBackendRecorder()
	svc := newTestService(t, rec, nil, false)

	require.NoError(t, svc.EndSession(context.Background(), ""))
	require.Zero(t, rec.endCalls)
}
