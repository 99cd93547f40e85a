package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Character classes available to the generator.
const (
	charsLower   = "abcdefghijklmnopqrstuvwxyz"
	charsUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsDigits  = "0123456789"
	charsSymbols = "!@#$%^&*()-_=+[]{};:,.<>?"
)

var (
	ErrNoCharsets       = errors.New("at least one character class must be enabled")
	ErrPasswordTooShort = errors.New("requested length is shorter than the enabled character classes")
)

// GeneratorOptions selects length and character classes for password generation.
type GeneratorOptions struct {
	Length  int
	Lower   bool
	Upper   bool
	Digits  bool
	Symbols bool
}

// DefaultGeneratorOptions enables every class at 16 characters.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{Length: 16, Lower: true, Upper: true, Digits: true, Symbols: true}
}

// GeneratePassword produces a random password drawn from the enabled
// character classes using crypto/rand. Each enabled class contributes at
// least one character; positions are then shuffled so the guaranteed
// characters do not cluster at the front.
func GeneratePassword(opts GeneratorOptions) (string, error) {
	var classes []string
	if opts.Lower {
		classes = append(classes, charsLower)
	}
	if opts.Upper {
		classes = append(classes, charsUpper)
	}
	if opts.Digits {
		classes = append(classes, charsDigits)
	}
	if opts.Symbols {
		classes = append(classes, charsSymbols)
	}
	if len(classes) == 0 {
		return "", ErrNoCharsets
	}
	if opts.Length < len(classes) {
		return "", ErrPasswordTooShort
	}

	all := strings.Join(classes, "")
	out := make([]byte, 0, opts.Length)

	// One guaranteed character per enabled class.
	for _, class := range classes {
		c, err := randByte(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < opts.Length {
		c, err := randByte(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher–Yates with crypto/rand indices.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

func randByte(set string) (byte, error) {
	i, err := randIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Strength classifies how resistant a password is to guessing.
type Strength int

const (
	StrengthVeryWeak Strength = iota
	StrengthWeak
	StrengthFair
	StrengthStrong
	StrengthVeryStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthVeryWeak:
		return "very weak"
	case StrengthWeak:
		return "weak"
	case StrengthFair:
		return "fair"
	case StrengthStrong:
		return "strong"
	case StrengthVeryStrong:
		return "very strong"
	default:
		return "unknown"
	}
}

// EvaluateStrength scores a password on length and character-class variety,
// with a penalty when the whole password is a single repeated character.
// It is a coarse heuristic for interactive feedback, not an entropy estimate.
func EvaluateStrength(password string) Strength {
	if password == "" {
		return StrengthVeryWeak
	}

	var lower, upper, digit, symbol bool
	uniform := true
	for i, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
		if i > 0 && byte(r) != password[0] {
			uniform = false
		}
	}

	classes := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			classes++
		}
	}

	score := classes
	switch {
	case len(password) >= 16:
		score += 3
	case len(password) >= 12:
		score += 2
	case len(password) >= 8:
		score += 1
	}
	if uniform || len(password) < 6 {
		score = 1
	}

	switch {
	case score <= 1:
		return StrengthVeryWeak
	case score <= 3:
		return StrengthWeak
	case score <= 4:
		return StrengthFair
	case score <= 6:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}
