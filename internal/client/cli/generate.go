package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/avdeev/lockbox/internal/client/services"
)

// Generate produces a random password interactively: the user may override
// the length and disable character classes, then the password and its
// strength estimate are printed. The result is not stored anywhere.
func (a *App) Generate(ctx context.Context) error {
	opts := services.DefaultGeneratorOptions()

	lengthText, err := getSimpleText(a.reader, fmt.Sprintf("Enter length (default %d)", opts.Length), os.Stdout)
	if err != nil {
		return err
	}
	if lengthText != "" {
		length, err := strconv.Atoi(lengthText)
		if err != nil {
			printlnFn("Length must be a number.")
			return err
		}
		opts.Length = length
	}

	classes, err := getSimpleText(a.reader, "Character classes [luds] (default all)", os.Stdout)
	if err != nil {
		return err
	}
	if classes != "" {
		opts.Lower = strings.Contains(classes, "l")
		opts.Upper = strings.Contains(classes, "u")
		opts.Digits = strings.Contains(classes, "d")
		opts.Symbols = strings.Contains(classes, "s")
	}

	password, err := services.GeneratePassword(opts)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Password:", password)
	printlnFn("Strength:", services.EvaluateStrength(password).String())
	return nil
}

// generatePassword returns a password with default options; used when the
// user leaves the password prompt empty while adding a login.
func (a *App) generatePassword() (string, error) {
	return services.GeneratePassword(services.DefaultGeneratorOptions())
}
