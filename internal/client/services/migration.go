package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/kvstore"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

// ErrMigrationIncomplete guards cleanup: old keys are only deleted after
// the migration marker is set.
var ErrMigrationIncomplete = errors.New("migration not complete")

// criticalKeys are the unprefixed names checked by ValidateMigration.
var criticalKeys = []string{
	strings.TrimPrefix(models.KeySession, models.NewPrefix),
	strings.TrimPrefix(models.KeyHabits, models.NewPrefix),
	strings.TrimPrefix(models.KeyEmojis, models.NewPrefix),
	strings.TrimPrefix(models.KeyDarkMode, models.NewPrefix),
	strings.TrimPrefix(models.KeyReminderTime, models.NewPrefix),
}

// MigrationReport lists what MigrateKeys did.
type MigrationReport struct {
	MigratedKeys []string
	Errors       []string
}

// ValidationReport is the outcome of a post-migration sanity check.
type ValidationReport struct {
	IsValid bool
	Issues  []string
}

// MigrationService performs the one-time rewrite of persisted keys from the
// old product prefix to the current one. Once the completion marker is set,
// every entry point is a no-op: migration runs at most once per device,
// even if individual keys failed to copy.
type MigrationService struct {
	kv  kvstore.Repository
	log logging.Logger
}

func NewMigrationService(kv kvstore.Repository, log logging.Logger) *MigrationService {
	return &MigrationService{kv: kv, log: log.With("component", "migration")}
}

// IsComplete reads the migration marker.
func (m *MigrationService) IsComplete(ctx context.Context) (bool, error) {
	v, ok, err := m.kv.Get(ctx, models.KeyMigrationStatus)
	if err != nil {
		return false, err
	}
	return ok && v == models.MigrationStatusCompleted, nil
}

// MigrateKeys copies every old-prefixed key to its new-prefixed name.
// A key that already has live data under the new prefix is skipped, never
// overwritten. Per-key failures are collected, not fatal: the completion
// marker is set unconditionally once all keys were processed.
func (m *MigrationService) MigrateKeys(ctx context.Context) (*MigrationReport, error) {
	done, err := m.IsComplete(ctx)
	if err != nil {
		return nil, err
	}
	report := &MigrationReport{}
	if done {
		return report, nil
	}

	old, err := m.kv.ListPrefix(ctx, models.OldPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate old keys: %w", err)
	}

	for oldKey, value := range old {
		newKey := models.NewPrefix + strings.TrimPrefix(oldKey, models.OldPrefix)

		_, exists, err := m.kv.Get(ctx, newKey)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", oldKey, err))
			continue
		}
		if exists {
			continue // live data under the new namespace wins
		}

		if err := m.kv.Set(ctx, newKey, value); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", oldKey, err))
			continue
		}
		report.MigratedKeys = append(report.MigratedKeys, oldKey)
	}

	if err := m.kv.Set(ctx, models.KeyMigrationStatus, models.MigrationStatusCompleted); err != nil {
		return report, fmt.Errorf("failed to set migration marker: %w", err)
	}
	if err := m.kv.Set(ctx, models.KeyMigrationDate, time.Now().UTC().Format(time.RFC3339)); err != nil {
		m.log.Warn(ctx, "failed to record migration date", "error", err)
	}
	// Record what was carried over: NeedsPasswordSetup later decides "this
	// device held legacy data" from this list, not from key presence (the
	// session key is rewritten by every login, so probing it proves nothing).
	migrated, err := json.Marshal(report.MigratedKeys)
	if err == nil {
		err = m.kv.Set(ctx, models.KeyMigratedKeys, string(migrated))
	}
	if err != nil {
		m.log.Warn(ctx, "failed to record migrated key list", "error", err)
	}

	m.log.Info(ctx, "key migration finished",
		"migrated", len(report.MigratedKeys), "errors", len(report.Errors))
	return report, nil
}

// CleanupOldKeys deletes every old-prefixed key. Fails closed: nothing is
// deleted unless the migration marker is set.
func (m *MigrationService) CleanupOldKeys(ctx context.Context) (int64, error) {
	done, err := m.IsComplete(ctx)
	if err != nil {
		return 0, err
	}
	if !done {
		return 0, ErrMigrationIncomplete
	}
	return m.kv.DeletePrefix(ctx, models.OldPrefix)
}

// NeedsPasswordSetup reports whether a signed-in legacy user should be
// prompted to create a password: migration has run, migrated data exists
// locally, the session has no password, and setup was not already completed
// for this user. Brand-new users have no migrated data and never qualify.
func (m *MigrationService) NeedsPasswordSetup(ctx context.Context, session *models.Session) (bool, error) {
	if session == nil || session.HasPassword {
		return false, nil
	}

	done, err := m.IsComplete(ctx)
	if err != nil || !done {
		return false, err
	}

	migrated, err := m.hasMigratedData(ctx)
	if err != nil || !migrated {
		return false, err
	}

	v, ok, err := m.kv.Get(ctx, models.PasswordSetupKeyPrefix+session.UserID)
	if err != nil {
		return false, err
	}
	return !(ok && v == models.MigrationStatusCompleted), nil
}

// MarkPasswordSetupComplete records that the user finished (or permanently
// satisfied) the password-setup flow.
func (m *MigrationService) MarkPasswordSetupComplete(ctx context.Context, userID string) error {
	return m.kv.Set(ctx, models.PasswordSetupKeyPrefix+userID, models.MigrationStatusCompleted)
}

// hasMigratedData reports whether the one-time migration actually carried
// keys over, per the list it recorded. A fresh device migrates nothing and
// the list stays empty, no matter what logins or settings write afterwards.
func (m *MigrationService) hasMigratedData(ctx context.Context) (bool, error) {
	raw, ok, err := m.kv.Get(ctx, models.KeyMigratedKeys)
	if err != nil || !ok {
		return false, err
	}
	var migrated []string
	if err := json.Unmarshal([]byte(raw), &migrated); err != nil {
		return false, fmt.Errorf("corrupt migrated key list: %w", err)
	}
	return len(migrated) > 0, nil
}

// ValidateMigration compares old/new presence for the critical keys and
// reports discrepancies. It never repairs anything.
func (m *MigrationService) ValidateMigration(ctx context.Context) (*ValidationReport, error) {
	report := &ValidationReport{IsValid: true}

	for _, name := range criticalKeys {
		oldVal, oldOK, err := m.kv.Get(ctx, models.OldPrefix+name)
		if err != nil {
			return nil, err
		}
		_, newOK, err := m.kv.Get(ctx, models.NewPrefix+name)
		if err != nil {
			return nil, err
		}
		if oldOK && oldVal != "" && !newOK {
			report.IsValid = false
			report.Issues = append(report.Issues,
				fmt.Sprintf("old key %q has data but new key is missing", models.OldPrefix+name))
		}
	}
	return report, nil
}
