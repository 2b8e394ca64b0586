package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/queue"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := OpenDatabase(ctx, "file:store_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(db, log), db
}

func TestSaveMoodOffline(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	e := &models.MoodEntry{UserID: "u1", Mood: "calm", Score: 3}
	op, err := s.SaveMoodOffline(ctx, e)
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID, "a local id must be assigned")
	assert.False(t, e.Synced)
	assert.Equal(t, "addMood", op.Action)
	assert.NotZero(t, op.ID)

	// record and queue entry both visible
	got, err := s.ListMoodsOffline(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Synced)

	n, err := s.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var queued models.MoodEntry
	require.NoError(t, json.Unmarshal(op.Payload, &queued))
	assert.Equal(t, e.ID, queued.ID)
}

func TestSaveMoodOffline_Atomic(t *testing.T) {
	ctx := context.Background()
	s, db := setupStore(t)

	// Force the queue insert to fail: both writes must roll back.
	_, err := db.Exec(`DROP TABLE pending_operations`)
	require.NoError(t, err)

	_, err = s.SaveMoodOffline(ctx, &models.MoodEntry{UserID: "u1", Mood: "calm"})
	require.Error(t, err)

	got, listErr := s.ListMoodsOffline(ctx, "u1")
	require.NoError(t, listErr)
	assert.Empty(t, got, "mood row must not survive a failed queue append")
}

func TestDrainQueue_FIFOAndPartialFailure(t *testing.T) {
	ctx := context.Background()
	s, db := setupStore(t)

	q := queue.NewSQLiteRepository(db)
	for _, action := range []string{"opA", "opB", "opC"} {
		require.NoError(t, q.Enqueue(ctx, &models.PendingOperation{
			Action:  action,
			Payload: json.RawMessage(`{}`),
		}))
	}

	var calls []string
	replayed, err := s.DrainQueue(ctx, func(ctx context.Context, action string, payload json.RawMessage) error {
		calls = append(calls, action)
		if action == "opB" {
			return errors.New("backend rejected")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)
	assert.Equal(t, []string{"opA", "opB", "opC"}, calls, "replay must follow enqueue order")

	// A and C are gone, B stays for the next drain.
	left, err := q.ListFIFO(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "opB", left[0].Action)
}

func TestDrainQueue_MarksReplayedMoodSynced(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	e := &models.MoodEntry{UserID: "u1", Mood: "calm", Score: 3}
	_, err := s.SaveMoodOffline(ctx, e)
	require.NoError(t, err)

	replayed, err := s.DrainQueue(ctx, func(ctx context.Context, action string, payload json.RawMessage) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)

	got, err := s.ListMoodsOffline(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Synced, "accepted entry must be marked synced")
}

func TestDrainQueue_Empty(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	replayed, err := s.DrainQueue(ctx, func(ctx context.Context, action string, payload json.RawMessage) error {
		t.Fatal("remote call must not be invoked for an empty queue")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, replayed)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	_, ok, err := s.GetSetting(ctx, models.KeyReminderTime)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting(ctx, models.KeyReminderTime, "21:00"))
	v, ok, err := s.GetSetting(ctx, models.KeyReminderTime)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "21:00", v)
}
