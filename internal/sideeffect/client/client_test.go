package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect/client"
)

var fastRetry = resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond}

func TestAuditClient_Log(t *testing.T) {
	entry := sideeffect.AuditEntry{
		EntityType: "opportunity",
		EntityID:   uuid.New(),
		Action:     "close_won",
		NewValues:  map[string]any{"probability": float64(100)},
		ChangedBy:  uuid.New(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var got sideeffect.AuditEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, entry, got)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := client.NewAuditClient(srv.Client(), srv.URL, "secret", resilience.NewCircuitBreaker("audit"), fastRetry)
	require.NoError(t, c.Log(context.Background(), entry))
}

func TestActivityClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := client.NewActivityClient(srv.Client(), srv.URL, "", resilience.NewCircuitBreaker("activity"), fastRetry)
	require.NoError(t, c.Record(context.Background(), sideeffect.Activity{ActivityType: "deal_won"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestActivityClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := client.NewActivityClient(srv.Client(), srv.URL, "", resilience.NewCircuitBreaker("activity"), fastRetry)
	err := c.Record(context.Background(), sideeffect.Activity{ActivityType: "deal_won"})
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrPermanent)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := client.NewLogSink(zap.New(core))

	require.NoError(t, sink.Log(context.Background(), sideeffect.AuditEntry{Action: "create"}))
	require.NoError(t, sink.Record(context.Background(), sideeffect.Activity{ActivityType: "opportunity_created"}))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "audit", logs.All()[0].Message)
	assert.Equal(t, "activity", logs.All()[1].Message)
}

func TestNewDispatcher_MixesHTTPAndLogSink(t *testing.T) {
	var audits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		audits.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.InfoLevel)

	d := client.NewDispatcher(client.Settings{
		AuditURL: srv.URL,
		Timeout:  time.Second,
		Retry:    fastRetry,
	}, nil, zap.New(core))

	var q sideeffect.Queue
	q.Audit(sideeffect.AuditEntry{Action: "update"})
	q.Activity(sideeffect.Activity{ActivityType: "stage_changed"})

	d.Flush(context.Background(), &q)

	assert.Equal(t, int32(1), audits.Load())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "activity", logs.All()[0].Message)
}
