package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/Aalekh09/MoodlyApp/internal/client/gateway"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- fake kv repository ----

// fakeKV implements kvstore.Repository in memory, with optional per-key
// write failures to exercise error collection.
type fakeKV struct {
	data    map[string]string
	failSet map[string]error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, failSet: map[string]error{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	if err, ok := f.failSet[key]; ok {
		return err
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ListPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range f.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeKV) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

// ---- fake backend ----

type fakeCall struct {
	Action  string
	Payload map[string]any
}

// fakeBackend implements Backend and records every call. Responses are
// scripted per action; unconfigured actions succeed with an empty payload.
type fakeBackend struct {
	Calls     []fakeCall
	Responses map[string]*gateway.Result
	Err       error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{Responses: map[string]*gateway.Result{}}
}

func (f *fakeBackend) Call(ctx context.Context, action string, payload map[string]any) (*gateway.Result, error) {
	f.Calls = append(f.Calls, fakeCall{Action: action, Payload: payload})
	if f.Err != nil {
		return nil, f.Err
	}
	if res, ok := f.Responses[action]; ok {
		return res, nil
	}
	return &gateway.Result{Success: true, Data: map[string]json.RawMessage{}}, nil
}

// respondUser scripts a successful auth response carrying user fields.
func (f *fakeBackend) respondUser(action, userID, name, email string, hasPassword bool) {
	data := map[string]json.RawMessage{}
	for k, v := range map[string]string{"userId": userID, "name": name, "email": email} {
		raw, _ := json.Marshal(v)
		data[k] = raw
	}
	rawHP, _ := json.Marshal(hasPassword)
	data["hasPassword"] = rawHP
	f.Responses[action] = &gateway.Result{Success: true, Data: data}
}

func (f *fakeBackend) respondFailure(action, msg string) {
	f.Responses[action] = &gateway.Result{Success: false, Error: msg, Data: map[string]json.RawMessage{}}
}

func (f *fakeBackend) actions() []string {
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.Action)
	}
	return out
}
