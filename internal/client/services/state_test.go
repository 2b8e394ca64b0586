package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
)

func TestTransition(t *testing.T) {
	session := &models.Session{UserID: "u1", Name: "Asha", Email: "a@b.co"}

	tests := []struct {
		name  string
		from  State
		event Event
		want  StateKind
	}{
		{"loading + no session", State{Kind: StateLoading}, NoSession{}, StateUnauthenticated},
		{"loading + restored", State{Kind: StateLoading}, SessionRestored{Session: session}, StateAuthenticated},
		{"loading + restored needing setup", State{Kind: StateLoading}, SessionRestored{Session: session, NeedsSetup: true}, StateNeedsPasswordSetup},
		{"unauthenticated + signed in", State{Kind: StateUnauthenticated}, SignedIn{Session: session}, StateAuthenticated},
		{"needs setup + password established", State{Kind: StateNeedsPasswordSetup, Session: session}, PasswordEstablished{Session: session}, StateAuthenticated},
		{"needs setup + skipped", State{Kind: StateNeedsPasswordSetup, Session: session}, SetupSkipped{}, StateAuthenticated},
		{"authenticated + signed out", State{Kind: StateAuthenticated, Session: session}, SignedOut{}, StateUnauthenticated},
		{"unauthenticated + signed out is idempotent", State{Kind: StateUnauthenticated}, SignedOut{}, StateUnauthenticated},

		// Events that make no sense in the current state are ignored.
		{"authenticated ignores restored", State{Kind: StateAuthenticated, Session: session}, SessionRestored{Session: session}, StateAuthenticated},
		{"unauthenticated ignores password established", State{Kind: StateUnauthenticated}, PasswordEstablished{Session: session}, StateUnauthenticated},
		{"authenticated ignores skip", State{Kind: StateAuthenticated, Session: session}, SetupSkipped{}, StateAuthenticated},
		{"unauthenticated ignores no-session", State{Kind: StateUnauthenticated}, NoSession{}, StateUnauthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Transition(tc.from, tc.event)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

func TestTransition_SessionPropagation(t *testing.T) {
	session := &models.Session{UserID: "u1", Name: "Asha", Email: "a@b.co"}

	got := Transition(State{Kind: StateLoading}, SessionRestored{Session: session, NeedsSetup: true})
	assert.Same(t, session, got.Session)

	// Skipping keeps the session attached to the authenticated state.
	got = Transition(got, SetupSkipped{})
	assert.Equal(t, StateAuthenticated, got.Kind)
	assert.Same(t, session, got.Session)

	got = Transition(got, SignedOut{})
	assert.Nil(t, got.Session)
}

func TestStateKind_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "needs_password_setup", StateNeedsPasswordSetup.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "invalid", StateKind(99).String())
}
