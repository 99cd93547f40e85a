package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isLocked() bool
	touch()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	Logout(ctx context.Context) error
	AddLogin(ctx context.Context) error
	AddCard(ctx context.Context) error
	AddIdentity(ctx context.Context) error
	AddNote(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, reveal bool) error
	Copy(ctx context.Context) error
	Code(ctx context.Context) error
	Delete(ctx context.Context) error
	Generate(ctx context.Context) error
	Recover(ctx context.Context) error
	Settings(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Lockbox CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit". Every accepted line counts as user activity and
// postpones the inactivity autolock.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - unlock         — re-enter the password of a locked session
//	  - recover        — answer security questions to reset the password
//	  - generate       — generate a random password
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - addlogin       — add website/application credentials
//	  - addcard        — add a payment card
//	  - addid          — add an identity document
//	  - addnote        — add a free-form note
//	  - list           — list records (masked overviews)
//	  - show           — show one record with secrets masked
//	  - reveal         — show one record with secrets in the clear
//	  - copy           — copy a record's secret to the clipboard
//	  - code           — print the current one-time code for a login
//	  - delete         — delete a record
//	  - generate       — generate a random password
//	  - settings       — change autolock / clipboard timings
//	  - passwd         — change the master password
//	  - deleteaccount  — delete the account and every record
//	  - lock           — lock the session immediately
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lb> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		a.touch()

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, addlogin, addcard, addid, addnote, show, reveal, copy, code, delete, generate, settings, passwd, deleteaccount, lock, logout, exit")
			} else if a.isLocked() {
				printlnFn("Available commands: unlock, recover, logout, exit")
			} else {
				printlnFn("Available commands: register, login, recover, generate, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "addlogin":
			_ = a.AddLogin(ctx)

		case "addcard":
			_ = a.AddCard(ctx)

		case "addid":
			_ = a.AddIdentity(ctx)

		case "addnote":
			_ = a.AddNote(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, false)

		case "reveal":
			_ = a.Show(ctx, true)

		case "copy":
			_ = a.Copy(ctx)

		case "code":
			_ = a.Code(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "generate":
			_ = a.Generate(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "deleteaccount":
			_ = a.DeleteAccount(ctx)

		case "recover":
			_ = a.Recover(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
