// Package common defines shared constants and sentinel errors used across
// Lockbox components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrEntryNotFound    = errors.New("entry not found")

	// Credential and session errors.
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNoActiveSession   = errors.New("no active session")
	ErrSessionLocked     = errors.New("session is locked")

	// Registration validation errors.
	ErrInvalidQuestions = errors.New("exactly 3 distinct security questions required")

	// Recovery errors.
	ErrInsufficientFactors    = errors.New("not enough knowledge factors")
	ErrRecoveryNotInitialized = errors.New("recovery is not initialized")
	ErrRecoveryLocked         = errors.New("recovery is temporarily locked")
)
