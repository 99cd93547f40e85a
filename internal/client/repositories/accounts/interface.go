// Package accounts implements the credential store: persistence of
// registered accounts keyed by identifier.
package accounts

import (
	"context"

	"github.com/avdeev/lockbox/internal/client/models"
)

// Repository describes persistence operations for Account objects.
// Implementations are typically backed by a local SQLite database.
//
// Get must reflect the repository's own preceding Put calls
// (read-your-writes for sequential use by a single caller).
type Repository interface {
	// Get returns the account with the given identifier, or
	// common.ErrAccountNotFound.
	Get(ctx context.Context, identifier string) (*models.Account, error)

	// Put inserts or fully replaces an account. Accounts are never written
	// partially: callers must validate before calling.
	Put(ctx context.Context, account *models.Account) error

	// Delete removes an account row, or returns common.ErrAccountNotFound.
	// Callers are responsible for removing the account's entries; see
	// storage.Repositories.PurgeAccount for the transactional variant.
	Delete(ctx context.Context, identifier string) error
}
