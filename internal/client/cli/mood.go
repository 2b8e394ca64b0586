package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func (a *App) addMood(ctx context.Context) {
	state, ok := a.requireUser()
	if !ok {
		return
	}

	mood, err := getSimpleText(a.reader, "How do you feel? (e.g. happy, calm, sad)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	note, err := getSimpleText(a.reader, "Add a note (optional)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	scoreText, err := getSimpleText(a.reader, "Score 1-5", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	score, err := strconv.Atoi(scoreText)
	if err != nil || score < 1 || score > 5 {
		fmt.Println("Score must be a number between 1 and 5")
		return
	}

	offline, res := a.moods.AddMood(ctx, state.Session.UserID, mood, note, score)
	if !res.Success {
		fmt.Println(res.Error)
		return
	}
	if offline {
		fmt.Println("Saved offline, will sync when back online")
	} else {
		fmt.Println("Saved!")
	}
}

func (a *App) listMoods(ctx context.Context) {
	state, ok := a.requireUser()
	if !ok {
		return
	}

	entries, err := a.moods.ListLocal(ctx, state.Session.UserID)
	if err != nil {
		fmt.Println("Could not read local entries:", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No local entries yet")
		return
	}
	for _, e := range entries {
		sync := ""
		if !e.Synced {
			sync = " (not synced)"
		}
		fmt.Printf("%s  %-8s %d/5  %s%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Mood, e.Score, e.Note, sync)
	}
}

func (a *App) sync(ctx context.Context) {
	state, ok := a.requireUser()
	if !ok {
		return
	}

	pending, err := a.moods.PendingCount(ctx)
	if err != nil {
		fmt.Println("Sync failed:", err)
		return
	}
	if pending == 0 {
		fmt.Println("Nothing to sync")
		return
	}

	replayed, err := a.moods.Sync(ctx)
	if err != nil {
		fmt.Println("Sync failed:", err)
		return
	}
	fmt.Printf("Synced %d of %d pending entries\n", replayed, pending)

	if unsynced, err := a.moods.UnsyncedCount(ctx, state.Session.UserID); err == nil && unsynced > 0 {
		fmt.Printf("%d entries still waiting for the backend\n", unsynced)
	}
}

func (a *App) settings(ctx context.Context) {
	if _, ok := a.requireUser(); !ok {
		return
	}

	reminder, err := a.moods.ReminderTime(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	if reminder == "" {
		reminder = "not set"
	}
	dark, err := a.moods.DarkMode(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Reminder: %s, dark mode: %v\n", reminder, dark)

	hhmm, err := getSimpleText(a.reader, "Reminder time HH:MM (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	if hhmm != "" {
		if err := a.moods.SetReminderTime(ctx, hhmm); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("Reminder saved")
	}

	mode, err := getSimpleText(a.reader, "Dark mode on/off (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println(err)
		return
	}
	switch mode {
	case "":
	case "on":
		err = a.moods.SetDarkMode(ctx, true)
	case "off":
		err = a.moods.SetDarkMode(ctx, false)
	default:
		fmt.Println("Expected 'on' or 'off'")
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	if mode != "" {
		fmt.Println("Dark mode saved")
	}
}
