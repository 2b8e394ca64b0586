// Package cli implements the interactive Moodly client: a REPL over the
// authentication, mood, and migration services.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/client/config"
	"github.com/Aalekh09/MoodlyApp/internal/client/gateway"
	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/client/services"
	"github.com/Aalekh09/MoodlyApp/internal/client/store"
	"github.com/Aalekh09/MoodlyApp/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// authCommands is the slice of the auth service the REPL drives.
type authCommands interface {
	Init(ctx context.Context) services.State
	State() services.State
	Register(ctx context.Context, name, email, phone string, password []byte) services.ActionResult
	Login(ctx context.Context, identifier string, password []byte) services.ActionResult
	SetupPassword(ctx context.Context, password []byte) services.ActionResult
	SkipPasswordSetup() services.ActionResult
	RequestPasswordReset(ctx context.Context, identifier string) services.ActionResult
	ResetPassword(ctx context.Context, token string, password []byte) services.ActionResult
	Logout(ctx context.Context) services.ActionResult
}

// moodCommands is the slice of the mood service the REPL drives.
type moodCommands interface {
	AddMood(ctx context.Context, userID, mood, note string, score int) (bool, services.ActionResult)
	ListLocal(ctx context.Context, userID string) ([]models.MoodEntry, error)
	PendingCount(ctx context.Context) (int, error)
	UnsyncedCount(ctx context.Context, userID string) (int, error)
	Sync(ctx context.Context) (int, error)
	ReminderTime(ctx context.Context) (string, error)
	SetReminderTime(ctx context.Context, hhmm string) error
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, on bool) error
}

// maintenanceCommands exposes the device-maintenance side of the migration
// service to the REPL.
type maintenanceCommands interface {
	CleanupOldKeys(ctx context.Context) (int64, error)
}

type App struct {
	config    *config.Config
	gateway   *gateway.Gateway
	auth      authCommands
	moods     moodCommands
	migration maintenanceCommands
	reader    *bufio.Reader
	Mode      Mode
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := store.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	st := store.New(db, logger)
	gw := gateway.New(cfg.ServerEndpoint, cfg.RequestTimeout, st, logger)
	migration := services.NewMigrationService(st.KV(), logger)
	auth := services.NewAuthService(gw, st.KV(), migration, logger)
	moods := services.NewMoodService(gw, gw, st, logger)

	return &App{
		config:    cfg,
		gateway:   gw,
		auth:      auth,
		moods:     moods,
		migration: migration,
		reader:    bufio.NewReader(os.Stdin),
		Mode:      ModeOnline,
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode", mode)
	}
}

// StartOnlineStatusWatcher probes backend reachability on a fixed interval
// and feeds the result to the gateway, which uses it to pick the offline
// fallback path.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.gateway.Ping(probeCtx)
			cancel()

			if err != nil {
				a.gateway.SetOnline(false)
				a.setMode(ModeOffline)
			} else {
				a.gateway.SetOnline(true)
				a.setMode(ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	state := a.auth.Init(ctx)
	if state.Kind == services.StateNeedsPasswordSetup {
		log.Println("Your account has no password yet. Use 'setup-password' to create one, or 'skip' to continue without.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	kind := a.auth.State().Kind
	return kind == services.StateAuthenticated || kind == services.StateNeedsPasswordSetup
}
