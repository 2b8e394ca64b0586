// Package store implements the offline mutation store: a sqlite-backed
// collection of locally created mood entries, a durable FIFO of pending
// remote operations, and device-local settings. Writes that must stay
// consistent (record + queued operation) share one transaction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/kvstore"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/moods"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/queue"
	"github.com/Aalekh09/MoodlyApp/internal/dbx"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

// RemoteCall replays one queued operation against the backend. A nil error
// means the operation was accepted and may be deleted from the queue.
type RemoteCall func(ctx context.Context, action string, payload json.RawMessage) error

// Store owns the local database and exposes the offline-write operations
// used by the gateway and services.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

func New(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log.With("component", "store")}
}

// KV returns the key-value repository bound to the store's database.
func (s *Store) KV() kvstore.Repository {
	return kvstore.NewSQLiteRepository(s.db)
}

// SaveMoodOffline assigns the entry a local id, marks it unsynced, and
// appends a matching pending operation, all in one transaction. Either both
// rows land or neither does.
func (s *Store) SaveMoodOffline(ctx context.Context, e *models.MoodEntry) (*models.PendingOperation, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Synced = false

	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mood entry: %w", err)
	}

	op := &models.PendingOperation{
		Action:     "addMood",
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := moods.NewSQLiteRepository(tx).Insert(ctx, e); err != nil {
			return err
		}
		return queue.NewSQLiteRepository(tx).Enqueue(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// ListMoodsOffline returns all locally held mood entries for userID. No
// ordering is guaranteed; callers sort as needed.
func (s *Store) ListMoodsOffline(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	return moods.NewSQLiteRepository(s.db).ListByUser(ctx, userID)
}

// PendingCount reports how many operations await replay.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	return queue.NewSQLiteRepository(s.db).Count(ctx)
}

// CountUnsynced reports how many of userID's local entries still carry
// synced=false.
func (s *Store) CountUnsynced(ctx context.Context, userID string) (int, error) {
	return moods.NewSQLiteRepository(s.db).CountUnsynced(ctx, userID)
}

// DrainQueue replays pending operations in FIFO order. Each successful
// replay deletes its item; a failed replay keeps the item and moves on to
// the next one, so a permanently broken operation does not starve unrelated
// ones. Returns the number of operations replayed.
func (s *Store) DrainQueue(ctx context.Context, call RemoteCall) (int, error) {
	q := queue.NewSQLiteRepository(s.db)

	pending, err := q.ListFIFO(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read pending queue: %w", err)
	}

	replayed := 0
	for _, op := range pending {
		if err := call(ctx, op.Action, op.Payload); err != nil {
			s.log.Warn(ctx, "replay failed, keeping operation queued",
				"id", op.ID, "action", op.Action, "error", err)
			continue
		}
		if err := q.Remove(ctx, op.ID); err != nil {
			// The server already accepted the operation; the next drain
			// will replay it again (at-least-once delivery).
			s.log.Error(ctx, "failed to remove replayed operation",
				"id", op.ID, "error", err)
			continue
		}
		s.markReplayedSynced(ctx, op)
		replayed++
	}
	return replayed, nil
}

// markReplayedSynced flips the synced flag on the local record behind an
// accepted addMood operation. Best effort: the record may have been created
// on another device and not exist locally.
func (s *Store) markReplayedSynced(ctx context.Context, op models.PendingOperation) {
	if op.Action != "addMood" {
		return
	}
	var e models.MoodEntry
	if err := json.Unmarshal(op.Payload, &e); err != nil || e.ID == "" {
		return
	}
	if err := moods.NewSQLiteRepository(s.db).MarkSynced(ctx, e.ID); err != nil {
		s.log.Warn(ctx, "failed to mark replayed mood synced", "id", e.ID, "error", err)
	}
}

// GetSetting reads a device-local preference.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return s.KV().Get(ctx, key)
}

// SetSetting writes a device-local preference.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	return s.KV().Set(ctx, key, value)
}
