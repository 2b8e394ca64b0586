// Package gateway is the single chokepoint for backend communication. The
// backend exposes one POST endpoint taking {"action": ..., ...payload} and
// answering {"success": ..., "error": ..., ...}. When the device is offline,
// mutating actions with a registered fallback are redirected to the offline
// store; after any successful online call the pending queue is drained in
// the background.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/store"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

// Result is the decoded outcome of one backend call. Expected business
// failures (wrong password, duplicate account) come back as Success=false
// with the backend's message in Error; they are not Go errors.
type Result struct {
	Success bool
	Error   string

	// Offline is set when the call never reached the network and was
	// satisfied by the offline store instead.
	Offline bool

	// Data holds the remaining action-specific response fields.
	Data map[string]json.RawMessage
}

// Failed reports whether the backend signaled a business failure.
func (r *Result) Failed() bool { return !r.Success }

// StringField decodes a string field from Data, returning "" when absent.
func (r *Result) StringField(name string) string {
	raw, ok := r.Data[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// BoolField decodes a bool field from Data, returning false when absent.
func (r *Result) BoolField(name string) bool {
	raw, ok := r.Data[name]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// fallback produces a synthetic offline result for a mutating action.
type fallback func(ctx context.Context, payload map[string]any) (*Result, error)

// Gateway wraps the backend RPC endpoint.
type Gateway struct {
	endpoint  string
	http      *http.Client
	store     *store.Store
	log       logging.Logger
	online    atomic.Bool
	fallbacks map[string]fallback
	draining  sync.Mutex
}

// New builds a Gateway talking to endpoint with the given request timeout.
// The gateway starts in the online state; the connectivity probe and
// transport failures adjust it from there.
func New(endpoint string, timeout time.Duration, st *store.Store, log logging.Logger) *Gateway {
	g := &Gateway{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		store:    st,
		log:      log.With("component", "gateway"),
	}
	g.online.Store(true)
	g.fallbacks = map[string]fallback{
		"addMood": g.saveMoodFallback,
	}
	return g
}

// Online reports the last known connectivity state.
func (g *Gateway) Online() bool { return g.online.Load() }

// SetOnline records connectivity state, normally driven by the probe
// watcher. Flipping to online does not by itself trigger a drain; the next
// successful call does.
func (g *Gateway) SetOnline(v bool) { g.online.Store(v) }

// Call performs one backend action.
//
// Offline with a registered fallback: the action is satisfied locally and
// the result is tagged Offline. Offline without a fallback:
// ErrOfflineUnsupported. Online: the HTTP call is issued; a transport-level
// failure on a fallback-eligible action retries through the offline path
// (covers connectivity dropping mid-call), otherwise ErrUnavailable is
// returned. Business failures never produce a Go error.
func (g *Gateway) Call(ctx context.Context, action string, payload map[string]any) (*Result, error) {
	fb := g.fallbacks[action]

	if !g.Online() {
		if fb != nil {
			return fb(ctx, payload)
		}
		return nil, ErrOfflineUnsupported
	}

	res, err := g.post(ctx, action, payload)
	if err != nil {
		g.SetOnline(false)
		if fb != nil {
			g.log.Warn(ctx, "transport failure, falling back to offline store",
				"action", action, "error", err)
			return fb(ctx, payload)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	g.SetOnline(true)
	go g.drainAsync()
	return res, nil
}

// Ping checks backend reachability without side effects. Any HTTP response,
// whatever the status, counts as reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// Drain replays the pending queue now, synchronously. The CLI sync command
// uses it; Call triggers the same work in the background.
func (g *Gateway) Drain(ctx context.Context) (int, error) {
	g.draining.Lock()
	defer g.draining.Unlock()
	return g.store.DrainQueue(ctx, g.replay)
}

// post issues the HTTP RPC and decodes the tagged response.
func (g *Gateway) post(ctx context.Context, action string, payload map[string]any) (*Result, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

// decodeResult applies the wire contract: a non-empty "error" field means
// failure; otherwise the call succeeded, whether or not the backend set an
// explicit "success" flag.
func decodeResult(raw []byte) (*Result, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	res := &Result{Data: fields}

	if rawErr, ok := fields["error"]; ok {
		_ = json.Unmarshal(rawErr, &res.Error)
		delete(fields, "error")
	}

	explicit := false
	if rawOK, ok := fields["success"]; ok {
		explicit = json.Unmarshal(rawOK, &res.Success) == nil
		delete(fields, "success")
	}

	switch {
	case res.Error != "":
		res.Success = false
	case !explicit:
		// No error and no explicit flag: the action-specific payload
		// itself signals success.
		res.Success = true
	}
	return res, nil
}

// saveMoodFallback satisfies an addMood call from the offline store and
// reports a synthetic success tagged Offline.
func (g *Gateway) saveMoodFallback(ctx context.Context, payload map[string]any) (*Result, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode offline payload: %w", err)
	}
	var entry models.MoodEntry
	if err := json.Unmarshal(buf, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode mood payload: %w", err)
	}

	if _, err := g.store.SaveMoodOffline(ctx, &entry); err != nil {
		return nil, err
	}

	idRaw, _ := json.Marshal(entry.ID)
	return &Result{
		Success: true,
		Offline: true,
		Data:    map[string]json.RawMessage{"id": idRaw},
	}, nil
}

// replay re-sends one queued operation. Success requires both a reachable
// transport and no business error from the backend.
func (g *Gateway) replay(ctx context.Context, action string, payload json.RawMessage) error {
	fields := map[string]any{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return fmt.Errorf("corrupt queued payload: %w", err)
	}

	res, err := g.post(ctx, action, fields)
	if err != nil {
		g.SetOnline(false)
		return err
	}
	if res.Failed() {
		return fmt.Errorf("backend rejected replay: %s", res.Error)
	}
	return nil
}

// drainAsync runs one background drain after a successful call. Failures
// are logged, never surfaced to the caller that triggered the drain.
func (g *Gateway) drainAsync() {
	if !g.draining.TryLock() {
		return // a drain is already running
	}
	defer g.draining.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	replayed, err := g.store.DrainQueue(ctx, g.replay)
	if err != nil {
		g.log.Error(ctx, "background drain failed", "error", err)
		return
	}
	if replayed > 0 {
		g.log.Info(ctx, "background drain replayed operations", "count", replayed)
	}
}
