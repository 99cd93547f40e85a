// Package models defines client-side data models used by the Lockbox CLI.
package models

import "time"

// RequiredQuestionCount is the number of security questions an account must
// carry. Registration refuses fewer; recovery builds a chain of exactly this
// many steps.
const RequiredQuestionCount = 3

// Default per-account timeouts applied at registration.
const (
	DefaultInactivityTimeoutMinutes = 5
	DefaultClipboardClearMinutes    = 1
)

// SecurityQuestion is one knowledge factor: the question text shown to the
// user and the digest of the normalized answer. The raw answer is never
// persisted.
type SecurityQuestion struct {
	Question     string `json:"question"`
	AnswerDigest string `json:"answer_digest"`
}

// Settings holds per-account timeout configuration, in minutes, matching the
// persisted representation.
type Settings struct {
	InactivityTimeoutMinutes int `json:"inactivity_timeout_minutes"`
	ClipboardClearMinutes    int `json:"clipboard_clear_minutes"`
}

// DefaultSettings returns the settings applied to a freshly registered account.
func DefaultSettings() Settings {
	return Settings{
		InactivityTimeoutMinutes: DefaultInactivityTimeoutMinutes,
		ClipboardClearMinutes:    DefaultClipboardClearMinutes,
	}
}

// InactivityTimeout returns the configured idle threshold as a duration.
func (s Settings) InactivityTimeout() time.Duration {
	return time.Duration(s.InactivityTimeoutMinutes) * time.Minute
}

// ClipboardClear returns the configured clipboard-clear delay as a duration.
func (s Settings) ClipboardClear() time.Duration {
	return time.Duration(s.ClipboardClearMinutes) * time.Minute
}

// Account is a registered vault owner.
//
// CredentialDigest is the fold digest of the master secret (legacy format,
// see cryptox.Digest). Salt feeds argon2id key derivation. The random vault
// key that encrypts entries is wrapped twice: KeyEnvelope under the
// secret-derived key, RecoveryEnvelope under a key derived from the
// normalized security answers, so a recovery flow can re-wrap it for a new
// secret without knowing the old one.
type Account struct {
	Identifier       string
	CredentialDigest string
	Salt             []byte
	KeyEnvelope      []byte
	KeyNonce         []byte
	RecoveryEnvelope []byte
	RecoveryNonce    []byte
	Questions        []SecurityQuestion
	Settings         Settings
}
