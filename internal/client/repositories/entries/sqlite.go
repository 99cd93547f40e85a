package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"
	"github.com/avdeev/lockbox/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts an entry by id. On conflict, payload columns are replaced.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO entries (id, account_id, kind, overview, nonce_overview, details, nonce_details, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			overview = excluded.overview,
			nonce_overview = excluded.nonce_overview,
			details = excluded.details,
			nonce_details = excluded.nonce_details,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.AccountID, e.Kind, e.Overview, e.NonceOverview, e.Details, e.NonceDetails, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// GetAll lists all entries of an account, returning only overview fields.
func (r *SQLiteRepository) GetAll(ctx context.Context, accountID string) ([]models.Entry, error) {
	query := `SELECT id, kind, overview, nonce_overview FROM entries WHERE account_id = ? ORDER BY updated_at`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.Entry
	for rows.Next() {
		item := models.Entry{AccountID: accountID}
		if err := rows.Scan(&item.ID, &item.Kind, &item.Overview, &item.NonceOverview); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the full row for a single entry.
func (r *SQLiteRepository) GetByID(ctx context.Context, accountID, id string) (*models.Entry, error) {
	query := `
		SELECT id, kind, overview, nonce_overview, details, nonce_details, updated_at
		FROM entries WHERE account_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, accountID, id)

	e := &models.Entry{AccountID: accountID}
	err := row.Scan(&e.ID, &e.Kind, &e.Overview, &e.NonceOverview, &e.Details, &e.NonceDetails, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

// DeleteByID removes an entry. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, accountID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrEntryNotFound
	}
	return nil
}

// DeleteAllByAccount removes all entries of one account. Zero rows affected
// is fine: purging an empty vault is not an error.
func (r *SQLiteRepository) DeleteAllByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account entries: %w", err)
	}
	return nil
}
