// Package services contains the application services of the Moodly client:
// the authentication state machine, the one-time key migration, and the
// mood-entry service. Services perform the I/O and feed the pure transition
// function in state.go.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/Aalekh09/MoodlyApp/internal/client/gateway"
	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/repositories/kvstore"
	"github.com/Aalekh09/MoodlyApp/internal/cryptox"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
	"github.com/Aalekh09/MoodlyApp/internal/validate"
)

// User-facing messages. Validation and connectivity problems are shown
// verbatim; backend and internal failures are sanitized to fixed strings so
// nothing internal leaks and login failures cannot be used to probe which
// accounts exist.
const (
	msgGenericFailure     = "Something went wrong. Please try again."
	msgInvalidCredentials = "Invalid email/phone or password."
	msgInvalidIdentifier  = "Please enter a valid email or phone number."
	msgOffline            = "You are offline. Please try again when connected."
	msgNoSetupPending     = "No password setup is pending."
)

const saltLength = 16

// ActionResult is what every auth operation returns to the UI. Expected
// failures never cross this boundary as Go errors or panics.
type ActionResult struct {
	Success bool
	Error   string
}

func ok() ActionResult             { return ActionResult{Success: true} }
func fail(msg string) ActionResult { return ActionResult{Error: msg} }

// Backend abstracts the remote call gateway for testability.
type Backend interface {
	Call(ctx context.Context, action string, payload map[string]any) (*gateway.Result, error)
}

// AuthService orchestrates registration, login, password lifecycle, and
// session persistence. It owns the authentication State; all mutations go
// through the pure Transition function under a single mutex.
type AuthService struct {
	backend   Backend
	kv        kvstore.Repository
	migration *MigrationService
	rules     validate.PasswordRules
	log       logging.Logger

	mu    sync.Mutex
	state State
}

func NewAuthService(backend Backend, kv kvstore.Repository, migration *MigrationService, log logging.Logger) *AuthService {
	return &AuthService{
		backend:   backend,
		kv:        kv,
		migration: migration,
		rules:     validate.DefaultRules(),
		log:       log.With("component", "auth"),
		state:     State{Kind: StateLoading},
	}
}

// State returns the current authentication state.
func (s *AuthService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AuthService) apply(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Transition(s.state, e)
	return s.state
}

// Init runs the key migration and restores the persisted session. Migration
// failures are logged and ignored: they must never block startup or
// authentication. The returned state is StateUnauthenticated,
// StateNeedsPasswordSetup, or StateAuthenticated.
func (s *AuthService) Init(ctx context.Context) State {
	if _, err := s.migration.MigrateKeys(ctx); err != nil {
		s.log.Error(ctx, "key migration failed, continuing", "error", err)
	} else if report, err := s.migration.ValidateMigration(ctx); err == nil && !report.IsValid {
		s.log.Warn(ctx, "migration validation found issues", "issues", strings.Join(report.Issues, "; "))
	}

	session, present, err := s.loadSession(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read persisted session", "error", err)
	}
	if session == nil {
		if present {
			// Structurally invalid session: discard it.
			if err := s.kv.Delete(ctx, models.KeySession); err != nil {
				s.log.Warn(ctx, "failed to discard invalid session", "error", err)
			}
		}
		return s.apply(NoSession{})
	}

	needsSetup, err := s.migration.NeedsPasswordSetup(ctx, session)
	if err != nil {
		s.log.Warn(ctx, "password setup check failed", "error", err)
		needsSetup = false
	}
	return s.apply(SessionRestored{Session: session, NeedsSetup: needsSetup})
}

// Register creates a new account. The password is validated locally before
// any network call; the plaintext buffer is wiped on every exit path and
// only the PBKDF2-derived hash travels over the wire.
func (s *AuthService) Register(ctx context.Context, name, email, phone string, password []byte) ActionResult {
	defer cryptox.Wipe(password)

	check := validate.CheckPassword(string(password), s.rules)
	if !check.IsValid {
		return fail(strings.Join(check.Errors, " "))
	}

	salt, err := cryptox.RandomBytes(saltLength)
	if err != nil {
		s.log.Error(ctx, "salt generation failed", "error", err)
		return fail(msgGenericFailure)
	}

	res, err := s.backend.Call(ctx, "register", map[string]any{
		"name":         name,
		"email":        email,
		"phone":        phone,
		"passwordHash": cryptox.DeriveKey(password, salt, cryptox.DefaultIterations),
		"salt":         cryptox.Base64Encode(salt),
	})
	if err != nil {
		return s.callFailure(ctx, "register", err)
	}
	if res.Failed() {
		s.log.Info(ctx, "registration rejected by backend")
		return fail(msgGenericFailure)
	}

	session := &models.Session{
		UserID:      res.StringField("userId"),
		Name:        firstNonEmpty(res.StringField("name"), name),
		Email:       firstNonEmpty(res.StringField("email"), email),
		Phone:       firstNonEmpty(res.StringField("phone"), phone),
		Role:        firstNonEmpty(res.StringField("role"), "user"),
		HasPassword: true,
	}
	if !session.Valid() {
		s.log.Error(ctx, "backend returned incomplete user record")
		return fail(msgGenericFailure)
	}

	if err := s.saveSession(ctx, session); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return fail(msgGenericFailure)
	}
	s.apply(SignedIn{Session: session})
	return ok()
}

// Login authenticates with an email or phone identifier. Unknown identifier
// shapes fail locally without touching the network; backend rejections all
// surface the same generic credentials message.
func (s *AuthService) Login(ctx context.Context, identifier string, password []byte) ActionResult {
	defer cryptox.Wipe(password)

	kind := validate.ClassifyIdentifier(identifier)
	if kind == validate.IdentifierUnknown {
		return fail(msgInvalidIdentifier)
	}
	if kind == validate.IdentifierPhone {
		identifier = validate.NormalizePhone(identifier)
	}

	res, err := s.backend.Call(ctx, "login", map[string]any{
		"identifier":     identifier,
		"identifierType": string(kind),
		"password":       string(password),
	})
	if err != nil {
		return s.callFailure(ctx, "login", err)
	}
	if res.Failed() {
		return fail(msgInvalidCredentials)
	}

	session := &models.Session{
		UserID:      res.StringField("userId"),
		Name:        res.StringField("name"),
		Email:       res.StringField("email"),
		Phone:       res.StringField("phone"),
		Role:        firstNonEmpty(res.StringField("role"), "user"),
		HasPassword: res.BoolField("hasPassword"),
	}
	if !session.Valid() {
		s.log.Error(ctx, "backend returned incomplete user record")
		return fail(msgGenericFailure)
	}

	if err := s.saveSession(ctx, session); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return fail(msgGenericFailure)
	}
	s.apply(SignedIn{Session: session})
	return ok()
}

// SetupPassword gives a migrated legacy account a password. Only valid in
// StateNeedsPasswordSetup. The backend call is register-shaped and
// idempotent for the existing user.
func (s *AuthService) SetupPassword(ctx context.Context, password []byte) ActionResult {
	defer cryptox.Wipe(password)

	current := s.State()
	if current.Kind != StateNeedsPasswordSetup || current.Session == nil {
		return fail(msgNoSetupPending)
	}
	session := *current.Session

	check := validate.CheckPassword(string(password), s.rules)
	if !check.IsValid {
		return fail(strings.Join(check.Errors, " "))
	}

	salt, err := cryptox.RandomBytes(saltLength)
	if err != nil {
		s.log.Error(ctx, "salt generation failed", "error", err)
		return fail(msgGenericFailure)
	}

	res, err := s.backend.Call(ctx, "register", map[string]any{
		"name":         session.Name,
		"email":        session.Email,
		"phone":        session.Phone,
		"passwordHash": cryptox.DeriveKey(password, salt, cryptox.DefaultIterations),
		"salt":         cryptox.Base64Encode(salt),
	})
	if err != nil {
		return s.callFailure(ctx, "setup password", err)
	}
	if res.Failed() {
		s.log.Info(ctx, "password setup rejected by backend")
		return fail(msgGenericFailure)
	}

	if err := s.migration.MarkPasswordSetupComplete(ctx, session.UserID); err != nil {
		s.log.Warn(ctx, "failed to mark password setup complete", "error", err)
	}

	session.HasPassword = true
	if err := s.saveSession(ctx, &session); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return fail(msgGenericFailure)
	}
	s.apply(PasswordEstablished{Session: &session})
	return ok()
}

// SkipPasswordSetup dismisses the setup prompt for this run only. Nothing
// is persisted, so the next app load re-evaluates the prompt from scratch.
func (s *AuthService) SkipPasswordSetup() ActionResult {
	s.apply(SetupSkipped{})
	return ok()
}

// RequestPasswordReset asks the backend to start a reset flow. Stateless:
// the current session is untouched.
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) ActionResult {
	kind := validate.ClassifyIdentifier(identifier)
	if kind == validate.IdentifierUnknown {
		return fail(msgInvalidIdentifier)
	}
	if kind == validate.IdentifierPhone {
		identifier = validate.NormalizePhone(identifier)
	}

	res, err := s.backend.Call(ctx, "requestPasswordReset", map[string]any{
		"identifier":     identifier,
		"identifierType": string(kind),
	})
	if err != nil {
		return s.callFailure(ctx, "request password reset", err)
	}
	if res.Failed() {
		return fail(msgGenericFailure)
	}
	return ok()
}

// ResetPassword completes a reset flow with the emailed token. Stateless.
func (s *AuthService) ResetPassword(ctx context.Context, token string, password []byte) ActionResult {
	defer cryptox.Wipe(password)

	check := validate.CheckPassword(string(password), s.rules)
	if !check.IsValid {
		return fail(strings.Join(check.Errors, " "))
	}

	salt, err := cryptox.RandomBytes(saltLength)
	if err != nil {
		s.log.Error(ctx, "salt generation failed", "error", err)
		return fail(msgGenericFailure)
	}

	res, err := s.backend.Call(ctx, "resetPassword", map[string]any{
		"token":        token,
		"passwordHash": cryptox.DeriveKey(password, salt, cryptox.DefaultIterations),
		"salt":         cryptox.Base64Encode(salt),
	})
	if err != nil {
		return s.callFailure(ctx, "reset password", err)
	}
	if res.Failed() {
		return fail(msgGenericFailure)
	}
	return ok()
}

// Logout deletes the persisted session and returns to Unauthenticated.
// Idempotent; the in-memory state is cleared even if the delete fails.
func (s *AuthService) Logout(ctx context.Context) ActionResult {
	err := s.kv.Delete(ctx, models.KeySession)
	s.apply(SignedOut{})
	if err != nil {
		s.log.Error(ctx, "failed to delete persisted session", "error", err)
		return fail(msgGenericFailure)
	}
	return ok()
}

// callFailure maps gateway errors onto user-facing messages.
func (s *AuthService) callFailure(ctx context.Context, op string, err error) ActionResult {
	switch {
	case isOfflineErr(err):
		return fail(msgOffline)
	default:
		s.log.Error(ctx, op+" failed", "error", err)
		return fail(msgGenericFailure)
	}
}

func isOfflineErr(err error) bool {
	return errors.Is(err, gateway.ErrOfflineUnsupported) || errors.Is(err, gateway.ErrUnavailable)
}

func (s *AuthService) loadSession(ctx context.Context) (*models.Session, bool, error) {
	raw, present, err := s.kv.Get(ctx, models.KeySession)
	if err != nil || !present {
		return nil, present, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, true, nil
	}
	if !sess.Valid() {
		return nil, true, nil
	}
	return &sess, true, nil
}

func (s *AuthService) saveSession(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, models.KeySession, string(raw))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
