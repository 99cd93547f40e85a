// Package entries implements local persistence of encrypted vault records.
package entries

import (
	"context"

	"github.com/avdeev/lockbox/internal/client/models"
)

// Repository describes CRUD and query operations for Entry objects.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// CreateOrUpdate inserts a new entry or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, entry *models.Entry) error

	// GetAll returns overview columns for all entries of one account.
	GetAll(ctx context.Context, accountID string) ([]models.Entry, error)

	// GetByID returns a full entry by its identifier.
	GetByID(ctx context.Context, accountID, id string) (*models.Entry, error)

	// DeleteByID removes an entry permanently.
	DeleteByID(ctx context.Context, accountID, id string) error

	// DeleteAllByAccount removes every entry belonging to one account.
	// Deleting from an empty vault is not an error.
	DeleteAllByAccount(ctx context.Context, accountID string) error
}
