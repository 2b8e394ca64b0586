// Package models defines the client-side data types persisted by the Moodly
// app: the authenticated session, locally stored mood entries, and queued
// offline operations.
package models

import (
	"encoding/json"
	"time"
)

// Session is the locally persisted proof that a user is logged in. Its
// presence under the session key is the sole authentication truth for the
// UI; at most one session exists at a time.
type Session struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role,omitempty"`
	HasPassword bool   `json:"hasPassword,omitempty"`
}

// Valid reports whether the session carries the fields required to treat it
// as authentic. Structurally invalid sessions are discarded on load.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != "" && (s.Email != "" || s.Phone != "")
}

// MoodEntry is a mood record created on this device. Entries created while
// offline carry Synced=false until their queued operation is replayed.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	Synced    bool      `json:"synced"`
}

// PendingOperation is a queued, not-yet-confirmed mutating request awaiting
// network replay. ID is assigned by the store and defines FIFO order.
type PendingOperation struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}
