package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/pkg/types"
)

var sentAt = time.Date(2025, 7, 30, 12, 0, 0, 0, time.UTC)

func testDispatcher(url string, breaker BreakerConfig) *Dispatcher {
	return NewDispatcher(Config{
		WebhookURL: url,
		Contacts: Contacts{
			Primary: "+15550100",
			Backup:  "backup@example.com",
		},
		Breaker: breaker,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return sentAt },
	})
}

func overdueAlert() types.DeadlineAlert {
	return types.DeadlineAlert{
		ID:           "alert:1",
		CaseID:       "case-1",
		Type:         types.AlertOverdue,
		UrgencyLevel: 5,
		Escalated:    true,
	}
}

func TestDispatch_PostsPayload(t *testing.T) {
	received := make(chan Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var p Payload
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&p)) {
			received <- p
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := testDispatcher(srv.URL, BreakerConfig{})
	alert := overdueAlert()
	require.NoError(t, d.Dispatch(context.Background(), alert, deadline.Escalate(alert)))

	p := <-received
	assert.Equal(t, "alert:1", p.Alert.ID)
	assert.Equal(t, deadline.ChannelAll, p.Channel)
	assert.Equal(t, deadline.PriorityCritical, p.Priority)
	assert.True(t, p.SentAt.Equal(sentAt))

	// assistant has no address and is left out
	assert.Equal(t, []Recipient{
		{Role: deadline.RolePrimary, Address: "+15550100"},
		{Role: deadline.RoleBackup, Address: "backup@example.com"},
	}, p.Recipients)
}

func TestDispatch_DisabledWithoutWebhook(t *testing.T) {
	d := testDispatcher("", BreakerConfig{})
	assert.False(t, d.Enabled())

	alert := overdueAlert()
	assert.NoError(t, d.Dispatch(context.Background(), alert, deadline.Escalate(alert)))
}

func TestDispatch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := testDispatcher(srv.URL, BreakerConfig{})
	alert := overdueAlert()
	err := d.Dispatch(context.Background(), alert, deadline.Escalate(alert))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDispatch_CircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := testDispatcher(srv.URL, BreakerConfig{MaxFailures: 2, Timeout: time.Minute})
	alert := overdueAlert()
	esc := deadline.Escalate(alert)
	ctx := context.Background()

	assert.Error(t, d.Dispatch(ctx, alert, esc))
	assert.Error(t, d.Dispatch(ctx, alert, esc))
	assert.Equal(t, "open", d.BreakerState())

	err := d.Dispatch(ctx, alert, esc)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook must not be called")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := testDispatcher(srv.URL, BreakerConfig{})
	alert := overdueAlert()
	assert.ErrorIs(t, d.Dispatch(ctx, alert, deadline.Escalate(alert)), context.Canceled)
}

func TestBreaker_Defaults(t *testing.T) {
	c := BreakerConfig{}.withDefaults()
	assert.Equal(t, uint32(3), c.MaxFailures)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, uint32(1), c.HalfOpenMaxRequests)

	b := NewBreaker("test", BreakerConfig{}, nil)
	assert.Equal(t, "closed", b.State())
}
