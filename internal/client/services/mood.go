package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/store"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

// Drainer is the subset of the gateway the mood service needs for an
// explicit, user-initiated sync.
type Drainer interface {
	Drain(ctx context.Context) (int, error)
}

// MoodService records mood entries through the gateway (which transparently
// falls back to the offline store) and reads the local copies back.
type MoodService struct {
	backend Backend
	drainer Drainer
	store   *store.Store
	log     logging.Logger
}

func NewMoodService(backend Backend, drainer Drainer, st *store.Store, log logging.Logger) *MoodService {
	return &MoodService{
		backend: backend,
		drainer: drainer,
		store:   st,
		log:     log.With("component", "moods"),
	}
}

// AddMood submits a mood entry. Offline, the entry lands in the local store
// and pending queue; the returned flag reports which path was taken.
func (s *MoodService) AddMood(ctx context.Context, userID, mood, note string, score int) (offline bool, result ActionResult) {
	res, err := s.backend.Call(ctx, "addMood", map[string]any{
		"userId":    userID,
		"mood":      mood,
		"note":      note,
		"score":     score,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.log.Error(ctx, "add mood failed", "error", err)
		return false, fail(msgGenericFailure)
	}
	if res.Failed() {
		return false, fail(msgGenericFailure)
	}
	return res.Offline, ok()
}

// ListLocal returns the locally stored entries for userID, newest first.
func (s *MoodService) ListLocal(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	entries, err := s.store.ListMoodsOffline(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// PendingCount reports how many operations still await replay.
func (s *MoodService) PendingCount(ctx context.Context) (int, error) {
	return s.store.PendingCount(ctx)
}

// UnsyncedCount reports how many of userID's local entries have not been
// confirmed by the backend yet.
func (s *MoodService) UnsyncedCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnsynced(ctx, userID)
}

// Sync drains the pending queue now and reports how many operations were
// replayed.
func (s *MoodService) Sync(ctx context.Context) (int, error) {
	return s.drainer.Drain(ctx)
}

// ReminderTime reads the persisted daily reminder setting.
func (s *MoodService) ReminderTime(ctx context.Context) (string, error) {
	v, _, err := s.store.GetSetting(ctx, models.KeyReminderTime)
	return v, err
}

// SetReminderTime persists the daily reminder setting. The value must be a
// 24-hour HH:MM string.
func (s *MoodService) SetReminderTime(ctx context.Context, hhmm string) error {
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return fmt.Errorf("invalid reminder time %q, expected HH:MM", hhmm)
	}
	return s.store.SetSetting(ctx, models.KeyReminderTime, hhmm)
}

// DarkMode reads the persisted dark-mode preference, defaulting to off.
func (s *MoodService) DarkMode(ctx context.Context) (bool, error) {
	v, ok, err := s.store.GetSetting(ctx, models.KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	return strconv.ParseBool(v)
}

// SetDarkMode persists the dark-mode preference.
func (s *MoodService) SetDarkMode(ctx context.Context, on bool) error {
	return s.store.SetSetting(ctx, models.KeyDarkMode, strconv.FormatBool(on))
}
