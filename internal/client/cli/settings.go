package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/avdeev/lockbox/internal/client/services"
	"github.com/avdeev/lockbox/internal/common"
)

// Settings updates the per-account timings: the inactivity timeout before
// autolock and the delay before a copied secret is cleared from the
// clipboard. Empty input keeps the current value.
func (a *App) Settings(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	var update services.SettingsUpdate

	inactivity, err := getSimpleText(a.reader, "Inactivity timeout in minutes (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if inactivity != "" {
		minutes, err := strconv.Atoi(inactivity)
		if err != nil || minutes <= 0 {
			printlnFn("Timeout must be a positive number of minutes.")
			return errors.New("invalid inactivity timeout")
		}
		update.InactivityTimeoutMinutes = &minutes
	}

	clipClear, err := getSimpleText(a.reader, "Clipboard clear delay in minutes (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if clipClear != "" {
		minutes, err := strconv.Atoi(clipClear)
		if err != nil || minutes <= 0 {
			printlnFn("Delay must be a positive number of minutes.")
			return errors.New("invalid clipboard clear delay")
		}
		update.ClipboardClearMinutes = &minutes
	}

	if update.InactivityTimeoutMinutes == nil && update.ClipboardClearMinutes == nil {
		printlnFn("Nothing to change.")
		return nil
	}

	if err := a.session.UpdateSettings(ctx, update); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Settings updated.")
	return nil
}
