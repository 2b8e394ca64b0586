package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Aalekh09/MoodlyApp/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they can be swapped for stubs that avoid the terminal.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	email, err := getSimpleText(a.reader, "Enter email (leave empty to use phone)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}

	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cryptox.Wipe(password)

	if res := a.auth.Register(ctx, name, email, phone, password); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("Welcome to Moodly!")
}

func (a *App) Login(ctx context.Context) {
	identifier, err := getSimpleText(a.reader, "Enter email or phone", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cryptox.Wipe(password)

	if res := a.auth.Login(ctx, identifier, password); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("Login successful")
}

func (a *App) SetupPassword(ctx context.Context) {
	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cryptox.Wipe(password)

	if res := a.auth.SetupPassword(ctx, password); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("Password set")
}

func (a *App) SkipPasswordSetup() {
	a.auth.SkipPasswordSetup()
	fmt.Println("You can set a password later with 'setup-password'")
}

func (a *App) RequestPasswordReset(ctx context.Context) {
	identifier, err := getSimpleText(a.reader, "Enter email or phone", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	if res := a.auth.RequestPasswordReset(ctx, identifier); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("If the account exists, reset instructions were sent")
}

func (a *App) ResetPassword(ctx context.Context) {
	token, err := getSimpleText(a.reader, "Enter reset token", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	password, err := getPassword("Choose a new password", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cryptox.Wipe(password)

	if res := a.auth.ResetPassword(ctx, token, password); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("Password updated, you can login now")
}

func (a *App) Logout(ctx context.Context) {
	if res := a.auth.Logout(ctx); !res.Success {
		fmt.Println(res.Error)
		return
	}
	fmt.Println("Logged out")
}
