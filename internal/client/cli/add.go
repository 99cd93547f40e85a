package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"
)

// addEntry is a small workflow helper that:
//  1. prompts for the record title,
//  2. collects the concrete payload via addEntryDetails,
//  3. delegates encryption and persistence to the vault service.
//
// The session must be authenticated; the vault key never leaves memory.
// On any failure the error is logged and returned unchanged.
func (a *App) addEntry(ctx context.Context, addEntryDetails func(context.Context) (models.TypedEntry, error)) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}

	payload, err := addEntryDetails(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	id, err := a.vault.Add(ctx, a.session.CurrentAccount(), title, payload, a.session.VaultKey())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Saved:", id)
	return nil
}

// AddLogin collects website or application credentials and persists them as
// a new record. Leaving the TOTP secret empty is fine; the 'code' command
// only works for logins that have one.
func (a *App) AddLogin(ctx context.Context) error {
	return a.addEntry(ctx, a.addLoginDetails)
}

// AddCard collects payment-card fields and persists them as a new record.
func (a *App) AddCard(ctx context.Context) error {
	return a.addEntry(ctx, a.addCardDetails)
}

// AddIdentity collects identity-document fields and persists them as a new record.
func (a *App) AddIdentity(ctx context.Context) error {
	return a.addEntry(ctx, a.addIdentityDetails)
}

// AddNote collects a note body and persists it as a new record.
func (a *App) AddNote(ctx context.Context) error {
	return a.addEntry(ctx, a.addNoteDetails)
}

func (a *App) addLoginDetails(ctx context.Context) (models.TypedEntry, error) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return nil, err
	}
	password, err := getSimpleText(a.reader, "Enter password (empty to generate)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if password == "" {
		password, err = a.generatePassword()
		if err != nil {
			return nil, err
		}
		printlnFn("Generated password:", password)
	}
	url, err := getSimpleText(a.reader, "Enter URL", os.Stdout)
	if err != nil {
		return nil, err
	}
	totpSecret, err := getSimpleText(a.reader, "Enter TOTP secret (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.Login{Username: username, Password: password, URL: url, TOTPSecret: totpSecret}, nil
}

func (a *App) addCardDetails(ctx context.Context) (models.TypedEntry, error) {
	number, err := getSimpleText(a.reader, "Enter card number", os.Stdout)
	if err != nil {
		return nil, err
	}
	holder, err := getSimpleText(a.reader, "Enter holder", os.Stdout)
	if err != nil {
		return nil, err
	}
	expiration, err := getSimpleText(a.reader, "Enter expiration", os.Stdout)
	if err != nil {
		return nil, err
	}
	cvv, err := getSimpleText(a.reader, "Enter CVV", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.Card{Number: number, Holder: holder, Expiration: expiration, CVV: cvv}, nil
}

func (a *App) addIdentityDetails(ctx context.Context) (models.TypedEntry, error) {
	docType, err := getSimpleText(a.reader, "Enter document type", os.Stdout)
	if err != nil {
		return nil, err
	}
	number, err := getSimpleText(a.reader, "Enter document number", os.Stdout)
	if err != nil {
		return nil, err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return nil, err
	}
	issued, err := getSimpleText(a.reader, "Enter issue date", os.Stdout)
	if err != nil {
		return nil, err
	}
	expires, err := getSimpleText(a.reader, "Enter expiry date", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.IdentityDocument{DocType: docType, Number: number, FullName: fullName, Issued: issued, Expires: expires}, nil
}

func (a *App) addNoteDetails(ctx context.Context) (models.TypedEntry, error) {
	text, err := GetMultiline(a.reader, "Enter note text (double Enter to finish):", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.Note{Text: text}, nil
}
