// Package cli provides the interactive Lockbox command-line client.
//
// It wires configuration, local encrypted storage and the session services
// into an interactive REPL. Typical flow: register or unlock an account,
// work with vault records, and let the inactivity watcher lock the session
// when the user walks away.
//
// Key features:
//   - Register / Login / Lock / Unlock / Logout
//   - Add records: logins, cards, identity documents, notes
//   - List / Show (masked or revealed) / Copy / Delete records
//   - One-time codes for logins that carry a TOTP secret
//   - Password generation and account recovery via security questions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
