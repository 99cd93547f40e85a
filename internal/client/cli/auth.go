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

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an identifier, a master password and the
// three security questions, then attempts to create a new account.
//
// On success it prints "Account created. Type 'login' to open the vault."
// and returns nil; registration never authenticates by itself. The password
// byte slices are securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter account identifier", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		printlnFn("Passwords do not match.")
		return errors.New("passwords do not match")
	}

	printlnFn(fmt.Sprintf("Recovery requires %d distinct security questions.", models.RequiredQuestionCount))

	qa := make([]services.QuestionAnswer, 0, models.RequiredQuestionCount)
	for i := 1; i <= models.RequiredQuestionCount; i++ {
		question, err := getSimpleText(a.reader, fmt.Sprintf("Enter question %d", i), os.Stdout)
		if err != nil {
			return err
		}
		answer, err := getSimpleText(a.reader, fmt.Sprintf("Enter answer %d", i), os.Stdout)
		if err != nil {
			return err
		}
		qa = append(qa, services.QuestionAnswer{Question: question, Answer: answer})
	}

	if err := a.session.Register(ctx, identifier, string(password), qa); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Account created. Type 'login' to open the vault.")
	return nil
}

// Login prompts the user for credentials and tries to open the vault.
// On success the session manager binds the account, derives the vault key
// and starts the inactivity watcher.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter account identifier", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, identifier, string(password)); err != nil {
		if errors.Is(err, common.ErrInvalidCredential) || errors.Is(err, common.ErrAccountNotFound) {
			printlnFn("Invalid identifier or password.")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn("Vault opened.")
	return nil
}

// Unlock re-prompts for the master password of the locked session.
func (a *App) Unlock(ctx context.Context) error {
	if !a.isLocked() {
		printlnFn("Nothing to unlock.")
		return nil
	}

	password, err := getPassword("Enter master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Unlock(ctx, string(password)); err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			printlnFn("Invalid password.")
		} else {
			log.Printf("Unlock unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn("Vault unlocked.")
	return nil
}

// Lock locks the session immediately, wiping the in-memory vault key.
func (a *App) Lock(ctx context.Context) error {
	a.session.Lock()
	printlnFn("Session locked.")
	return nil
}

// Logout ends the session, wiping the vault key and clearing the clipboard.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	printlnFn("Logged out.")
	return nil
}

// DeleteAccount permanently removes the authenticated account together with
// every stored record. The user must re-type the account identifier to
// confirm; afterwards the session ends.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	identifier := a.session.CurrentAccount()
	confirm, err := getSimpleText(a.reader,
		fmt.Sprintf("This deletes the account and all its records. Type '%s' to confirm", identifier), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != identifier {
		printlnFn("Confirmation mismatch; nothing deleted.")
		return nil
	}

	if err := a.repos.PurgeAccount(ctx, identifier); err != nil {
		log.Printf("Account deletion unsuccessful: %s", err.Error())
		return err
	}

	a.session.Logout()
	printlnFn("Account deleted.")
	return nil
}

// ChangePassword rotates the master password of the authenticated account.
// The vault key itself does not change; only its password envelope is
// re-wrapped.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return common.ErrNoActiveSession
	}

	password, err := getPassword("Enter new master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm new master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		printlnFn("Passwords do not match.")
		return errors.New("passwords do not match")
	}

	if err := a.session.UpdatePassword(ctx, a.session.CurrentAccount(), string(password)); err != nil {
		log.Printf("Password change unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Master password changed.")
	return nil
}
