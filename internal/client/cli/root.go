package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Aalekh09/MoodlyApp/internal/client/services"
)

func (a *App) getStatus() string {
	s := ""
	if state := a.auth.State(); state.Session != nil {
		s = state.Session.Name + " "
	}
	s = s + string(a.Mode)
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Moodly (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("moodly %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: addmood, moods, sync, settings, cleanup, setup-password, skip, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, reset-request, reset, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "setup-password":
			a.SetupPassword(ctx)
		case "skip":
			a.SkipPasswordSetup()
		case "reset-request":
			a.RequestPasswordReset(ctx)
		case "reset":
			a.ResetPassword(ctx)
		case "logout":
			a.Logout(ctx)
		case "addmood":
			a.addMood(ctx)
		case "moods":
			a.listMoods(ctx)
		case "sync":
			a.sync(ctx)
		case "settings":
			a.settings(ctx)
		case "cleanup":
			a.cleanup(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// cleanup deletes leftover keys from the previous app's namespace. Refused
// until the key migration has completed.
func (a *App) cleanup(ctx context.Context) {
	n, err := a.migration.CleanupOldKeys(ctx)
	if err != nil {
		fmt.Println("Cleanup failed:", err)
		return
	}
	fmt.Printf("Removed %d legacy keys\n", n)
}

// requireUser returns the signed-in session or prints a hint.
func (a *App) requireUser() (state services.State, ok bool) {
	state = a.auth.State()
	if state.Session == nil {
		fmt.Println("Please login first")
		return state, false
	}
	return state, true
}
