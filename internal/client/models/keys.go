package models

// Key namespaces for the local key-value store. The app used to persist
// everything under the old product prefix; a one-time migration rewrites
// keys to the current one.
const (
	OldPrefix = "moodtracker_"
	NewPrefix = "moodly_"
)

// Well-known keys under the current namespace.
const (
	KeySession         = NewPrefix + "user"
	KeyMigrationStatus = NewPrefix + "migration_status"
	KeyMigrationDate   = NewPrefix + "migration_date"

	// KeyMigratedKeys records, as a JSON list, which old-prefix keys the
	// one-time migration actually carried over. Empty on devices that never
	// held legacy data.
	KeyMigratedKeys = NewPrefix + "migrated_keys"
	KeyReminderTime = NewPrefix + "reminder_time"
	KeyDarkMode     = NewPrefix + "dark_mode"
	KeyHabits       = NewPrefix + "habits"
	KeyEmojis       = NewPrefix + "emojis"

	// PasswordSetupKeyPrefix + userID marks that the password-setup flow
	// finished for a migrated user.
	PasswordSetupKeyPrefix = NewPrefix + "password_setup_"
)

// MigrationStatusCompleted is the value stored under KeyMigrationStatus
// once the one-time key migration has run.
const MigrationStatusCompleted = "completed"
