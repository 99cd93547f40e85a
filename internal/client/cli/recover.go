package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avdeev/lockbox/internal/client/services"
	"github.com/avdeev/lockbox/internal/common"
)

// Recover walks the security-question flow: it loads the account's question
// chain, prompts for the answers in their registered order and verifies
// them. Verification stops at the first wrong answer; three failed rounds
// lock recovery for a while. Once the chain passes, the user picks a new
// master password and the account is re-keyed.
func (a *App) Recover(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter account identifier", os.Stdout)
	if err != nil {
		return err
	}

	account, err := a.session.AccountForRecovery(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrAccountNotFound) {
			printlnFn("No such account.")
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	questions, err := a.recovery.Initialize(identifier, account.Questions)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	var answers []string
	for {
		answers = answers[:0]
		for i, q := range questions {
			answer, err := getSimpleText(a.reader, fmt.Sprintf("Question %d: %s", i+1, q), os.Stdout)
			if err != nil {
				a.recovery.Reset()
				return err
			}
			answers = append(answers, answer)
		}

		err = a.recovery.Verify(answers)
		if err == nil {
			break
		}

		var mismatch *services.MismatchError
		var locked *services.LockedError
		switch {
		case errors.As(err, &locked):
			printlnFn(fmt.Sprintf("Too many failed attempts. Recovery is locked; try again in %s.",
				locked.Remaining.Round(time.Second)))
			return err
		case errors.As(err, &mismatch):
			printlnFn(fmt.Sprintf("Answer %d is incorrect. %d attempts remaining.",
				mismatch.Position, mismatch.Remaining))
		default:
			log.Printf("error: %v", err)
			a.recovery.Reset()
			return err
		}
	}

	password, err := getPassword("Enter new master password", os.Stdout)
	if err != nil {
		a.recovery.Reset()
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.ResetPasswordWithAnswers(ctx, identifier, answers, string(password)); err != nil {
		log.Printf("Password reset unsuccessful: %s", err.Error())
		a.recovery.Reset()
		return err
	}

	a.recovery.Reset()
	printlnFn("Password reset. Type 'login' to open the vault.")
	return nil
}
