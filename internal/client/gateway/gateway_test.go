package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aalekh09/MoodlyApp/internal/client/store"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenDatabase(context.Background(), "file:gw_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db, testLogger())
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// backend is a scripted fake of the spreadsheet RPC endpoint.
type backend struct {
	mu       sync.Mutex
	requests []map[string]any
	respond  func(action string) (int, string)
}

func (b *backend) handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusOK)
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	b.requests = append(b.requests, body)
	b.mu.Unlock()

	action, _ := body["action"].(string)
	status, resp := http.StatusOK, `{"success":true}`
	if b.respond != nil {
		status, resp = b.respond(action)
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (b *backend) actions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.requests))
	for _, r := range b.requests {
		a, _ := r["action"].(string)
		out = append(out, a)
	}
	return out
}

func setupGateway(t *testing.T, b *backend) (*Gateway, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.handler))
	t.Cleanup(srv.Close)

	st := setupStore(t)
	return New(srv.URL, 5*time.Second, st, testLogger()), st
}

func TestCall_OnlineSuccess(t *testing.T) {
	ctx := context.Background()
	b := &backend{respond: func(action string) (int, string) {
		return http.StatusOK, `{"success":true,"userId":"u1"}`
	}}
	g, _ := setupGateway(t, b)

	res, err := g.Call(ctx, "login", map[string]any{"identifier": "foo@bar.com"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Offline)
	assert.Equal(t, "u1", res.StringField("userId"))
	assert.True(t, g.Online())
}

func TestCall_BusinessFailureIsNotAnError(t *testing.T) {
	ctx := context.Background()
	b := &backend{respond: func(action string) (int, string) {
		return http.StatusOK, `{"error":"Invalid credentials"}`
	}}
	g, _ := setupGateway(t, b)

	res, err := g.Call(ctx, "login", map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, "Invalid credentials", res.Error)
}

func TestCall_OfflineFallback(t *testing.T) {
	ctx := context.Background()
	g, st := setupGateway(t, &backend{})
	g.SetOnline(false)

	payload := map[string]any{"userId": "u1", "mood": "happy", "score": 4}

	res, err := g.Call(ctx, "addMood", payload)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Offline)
	assert.NotEmpty(t, res.StringField("id"))

	n, err := st.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "exactly one pending operation per offline call")

	entries, err := st.ListMoodsOffline(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Synced)
}

func TestCall_OfflineUnsupported(t *testing.T) {
	ctx := context.Background()
	g, _ := setupGateway(t, &backend{})
	g.SetOnline(false)

	_, err := g.Call(ctx, "login", map[string]any{})
	assert.ErrorIs(t, err, ErrOfflineUnsupported)
}

func TestCall_TransportFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	st := setupStore(t)
	// Endpoint nobody listens on: believed online, transport fails.
	g := New("http://127.0.0.1:1", 500*time.Millisecond, st, testLogger())
	require.True(t, g.Online())

	res, err := g.Call(ctx, "addMood", map[string]any{"userId": "u1", "mood": "sad"})
	require.NoError(t, err)
	assert.True(t, res.Offline)
	assert.False(t, g.Online(), "transport failure must flip the online flag")

	n, err := st.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCall_TransportFailureWithoutFallback(t *testing.T) {
	ctx := context.Background()
	g := New("http://127.0.0.1:1", 500*time.Millisecond, setupStore(t), testLogger())

	_, err := g.Call(ctx, "login", map[string]any{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDrain_ReplaysQueuedOperations(t *testing.T) {
	ctx := context.Background()
	b := &backend{}
	g, st := setupGateway(t, b)

	g.SetOnline(false)
	for i := 0; i < 2; i++ {
		_, err := g.Call(ctx, "addMood", map[string]any{"userId": "u1", "mood": "ok"})
		require.NoError(t, err)
	}
	n, err := st.PendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	g.SetOnline(true)
	replayed, err := g.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)

	n, err = st.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"addMood", "addMood"}, b.actions())
}

func TestDrain_BackendRejectionKeepsItem(t *testing.T) {
	ctx := context.Background()
	b := &backend{respond: func(action string) (int, string) {
		return http.StatusOK, `{"error":"row limit reached"}`
	}}
	g, st := setupGateway(t, b)

	g.SetOnline(false)
	_, err := g.Call(ctx, "addMood", map[string]any{"userId": "u1", "mood": "ok"})
	require.NoError(t, err)

	g.SetOnline(true)
	replayed, err := g.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, replayed)

	n, err := st.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rejected replay stays durably queued")
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	g, _ := setupGateway(t, &backend{})
	assert.NoError(t, g.Ping(ctx))

	dead := New("http://127.0.0.1:1", 500*time.Millisecond, setupStore(t), testLogger())
	assert.ErrorIs(t, dead.Ping(ctx), ErrUnavailable)
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		success bool
		errMsg  string
	}{
		{"explicit success", `{"success":true}`, true, ""},
		{"explicit failure flag", `{"success":false}`, false, ""},
		{"error field wins", `{"success":true,"error":"nope"}`, false, "nope"},
		{"payload only", `{"userId":"u1"}`, true, ""},
		{"empty object", `{}`, true, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := decodeResult([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.success, res.Success)
			assert.Equal(t, tc.errMsg, res.Error)
		})
	}

	_, err := decodeResult([]byte(`not json`))
	assert.Error(t, err)
}
