package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/client/services"
	"github.com/avdeev/lockbox/internal/common"
)

// List prints a short line for each stored record: id, kind and title.
// Only overviews are decrypted; full payloads stay sealed.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	items, err := a.vault.List(ctx, a.session.CurrentAccount(), a.session.VaultKey())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("Vault is empty.")
		return nil
	}
	for _, item := range items {
		printlnFn(item.String())
	}
	return nil
}

// Show fetches one record by ID and prints its fields. With reveal=false,
// sensitive values (passwords, card numbers, CVV, document numbers) are
// masked; 'reveal' prints them in the clear.
func (a *App) Show(ctx context.Context, reveal bool) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	id, err := getSimpleText(a.reader, "Enter record id to show", os.Stdout)
	if err != nil {
		return err
	}

	envelope, err := a.vault.Get(ctx, a.session.CurrentAccount(), id, a.session.VaultKey())
	if err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			printlnFn("Record not found.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	payload, err := envelope.Unwrap()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("%s [%s]", envelope.Title, envelope.Kind))
	for _, f := range payload.Fields(!reveal) {
		printlnFn(fmt.Sprintf("  %s: %s", f.Name, f.Value))
	}
	return nil
}

// Copy places a record's primary secret on the system clipboard. The session
// manager schedules the clipboard to be cleared after the configured delay;
// copying again postpones the pending clear.
func (a *App) Copy(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	id, err := getSimpleText(a.reader, "Enter record id to copy", os.Stdout)
	if err != nil {
		return err
	}

	envelope, err := a.vault.Get(ctx, a.session.CurrentAccount(), id, a.session.VaultKey())
	if err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			printlnFn("Record not found.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	payload, err := envelope.Unwrap()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	secret := primarySecret(payload)
	if secret == "" {
		printlnFn("Record has no secret to copy.")
		return nil
	}

	if err := a.session.CopyToClipboard(secret); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Secret copied to clipboard; it will be cleared automatically.")
	return nil
}

// Code prints the current one-time code for a login record that carries a
// TOTP secret.
func (a *App) Code(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	id, err := getSimpleText(a.reader, "Enter record id", os.Stdout)
	if err != nil {
		return err
	}

	code, err := a.vault.TOTPCode(ctx, a.session.CurrentAccount(), id, a.session.VaultKey())
	if err != nil {
		if errors.Is(err, services.ErrNoTOTPSecret) {
			printlnFn("This record has no TOTP secret.")
		} else if errors.Is(err, common.ErrEntryNotFound) {
			printlnFn("Record not found.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	printlnFn("Current code:", code)
	return nil
}

// Delete removes a record by its identifier, prompting the user for the ID.
func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.vault.Delete(ctx, a.session.CurrentAccount(), id); err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			printlnFn("Record not found.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	printlnFn("Record deleted.")
	return nil
}

// primarySecret picks the field the 'copy' command places on the clipboard.
func primarySecret(payload models.TypedEntry) string {
	switch item := payload.(type) {
	case models.Login:
		return item.Password
	case models.Card:
		return item.Number
	case models.IdentityDocument:
		return item.Number
	case models.Note:
		return item.Text
	default:
		return ""
	}
}
