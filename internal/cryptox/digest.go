// Package cryptox contains the digest and encryption primitives used by the
// Lockbox client: the legacy fold digest used for credential and answer
// comparison, argon2id key derivation, and AES-GCM payload encryption.
package cryptox

import (
	"fmt"
	"strings"
)

// Digest computes a deterministic one-way transform of s and renders it as a
// fixed-form 8-character lowercase hex string.
//
// SECURITY NOTE: this is a simple 31-multiplier fold, not a cryptographic
// hash. It is kept for compatibility with digests already persisted by
// existing vaults; it provides determinism only, not collision resistance or
// preimage resistance. Do not rely on it to protect secrets against an
// attacker with access to the store.
func Digest(s string) string {
	var h uint32
	for _, r := range s {
		h = h*31 + uint32(r)
	}
	return fmt.Sprintf("%08x", h)
}

// NormalizeAnswer canonicalizes a security-question answer before digesting:
// surrounding whitespace is trimmed and the text is lower-cased. Registration
// and recovery must apply the same normalization so that case and whitespace
// variants of the same answer match.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DigestAnswer normalizes an answer and digests it.
func DigestAnswer(s string) string {
	return Digest(NormalizeAnswer(s))
}
