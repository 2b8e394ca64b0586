package services

import "github.com/Aalekh09/MoodlyApp/internal/client/models"

// StateKind enumerates the authentication states.
type StateKind int

const (
	StateLoading StateKind = iota
	StateUnauthenticated
	StateNeedsPasswordSetup
	StateAuthenticated
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateNeedsPasswordSetup:
		return "needs_password_setup"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// State is the authentication state visible to the UI. Session is non-nil
// in StateAuthenticated and StateNeedsPasswordSetup (a legacy user awaiting
// password setup is already signed in).
type State struct {
	Kind    StateKind
	Session *models.Session
}

// Event is the tagged union driving Transition. Exactly the I/O outcomes
// of the auth service produce events; the transition function itself is
// pure and side-effect free.
type Event interface{ isEvent() }

// SessionRestored fires at startup when a valid persisted session was found.
type SessionRestored struct {
	Session    *models.Session
	NeedsSetup bool
}

// NoSession fires at startup when no (valid) session is persisted.
type NoSession struct{}

// SignedIn fires when login or registration succeeded and the session was
// persisted.
type SignedIn struct{ Session *models.Session }

// PasswordEstablished fires when a legacy user finished password setup.
type PasswordEstablished struct{ Session *models.Session }

// SetupSkipped fires when the user dismissed the password-setup prompt.
// Not persisted: the next app load re-evaluates from scratch.
type SetupSkipped struct{}

// SignedOut fires on logout.
type SignedOut struct{}

func (SessionRestored) isEvent()     {}
func (NoSession) isEvent()           {}
func (SignedIn) isEvent()            {}
func (PasswordEstablished) isEvent() {}
func (SetupSkipped) isEvent()        {}
func (SignedOut) isEvent()           {}

// Transition is the pure state-transition function. Events that make no
// sense in the current state leave it unchanged, so a stray callback can
// never corrupt the auth state.
func Transition(s State, e Event) State {
	switch ev := e.(type) {
	case SessionRestored:
		if s.Kind != StateLoading {
			return s
		}
		if ev.NeedsSetup {
			return State{Kind: StateNeedsPasswordSetup, Session: ev.Session}
		}
		return State{Kind: StateAuthenticated, Session: ev.Session}

	case NoSession:
		if s.Kind != StateLoading {
			return s
		}
		return State{Kind: StateUnauthenticated}

	case SignedIn:
		return State{Kind: StateAuthenticated, Session: ev.Session}

	case PasswordEstablished:
		if s.Kind != StateNeedsPasswordSetup {
			return s
		}
		return State{Kind: StateAuthenticated, Session: ev.Session}

	case SetupSkipped:
		if s.Kind != StateNeedsPasswordSetup {
			return s
		}
		return State{Kind: StateAuthenticated, Session: s.Session}

	case SignedOut:
		return State{Kind: StateUnauthenticated}
	}
	return s
}
